package i18n

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"
)

func catalogFS() fstest.MapFS {
	return fstest.MapFS{
		"locales/i18n.json": &fstest.MapFile{Data: []byte(`{
  "hostLocaleLabel": "System",
  "sourceLocale": "en",
  "fallbackLocale": "ja",
  "sourceTable": "source",
  "sourceFile": "source.json",
  "generator": "i18n-tr 0.4.0",
  "locales": [
    {"id": "vi", "label": "Tiếng Việt", "table": "vi", "file": "vi.json"},
    {"id": "ja", "label": "日本語", "table": "ja", "file": "ja.yaml"}
  ]
}`)},
		"locales/source.json": &fstest.MapFile{Data: []byte(`{
  "h_c9cc8cce247e": "Save",
  "h_ea4788705e68": "Cancel",
  "h_f9fedffe7901": "Welcome, %s!"
}`)},
		"locales/vi.json": &fstest.MapFile{Data: []byte(`{
  "h_c9cc8cce247e": "Lưu",
  "h_ea4788705e68": "Cancel",
  "h_f9fedffe7901": "Welcome, %s!"
}`)},
		"locales/ja.yaml": &fstest.MapFile{Data: []byte("h_ea4788705e68: キャンセル\n")},
	}
}

func TestLoadMissingManifest(t *testing.T) {
	if _, err := Load(fstest.MapFS{}, "locales"); err == nil {
		t.Fatal("expected error for missing manifest")
	}
}

func TestTrResolution(t *testing.T) {
	tr, err := Load(catalogFS(), "locales", WithLocale("vi"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	t.Run("translated", func(t *testing.T) {
		if got := tr.Tr("Save"); got != "Lưu" {
			t.Errorf("Tr(Save) = %q, want %q", got, "Lưu")
		}
	})

	t.Run("placeholder falls through to fallback", func(t *testing.T) {
		if got := tr.Tr("Cancel"); got != "キャンセル" {
			t.Errorf("Tr(Cancel) = %q, want %q", got, "キャンセル")
		}
	})

	t.Run("untranslated text keeps source with args filled", func(t *testing.T) {
		if got := tr.Tr("Welcome, %s!", "Mai"); got != "Welcome, Mai!" {
			t.Errorf("Tr(Welcome) = %q, want %q", got, "Welcome, Mai!")
		}
	})

	t.Run("uncatalogued text comes back unchanged", func(t *testing.T) {
		if got := tr.Tr("点击"); got != "点击" {
			t.Errorf("Tr = %q, want %q", got, "点击")
		}
	})
}

func TestSetLocale(t *testing.T) {
	tr, err := Load(catalogFS(), "locales", WithLocale("vi"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if err := tr.SetLocale("ja"); err != nil {
		t.Fatalf("SetLocale(ja) failed: %v", err)
	}
	if got := tr.Locale(); got != "ja" {
		t.Errorf("Locale() = %q, want %q", got, "ja")
	}
	if got := tr.Tr("Cancel"); got != "キャンセル" {
		t.Errorf("Tr(Cancel) = %q, want %q", got, "キャンセル")
	}
	if got := tr.Tr("Save"); got != "Save" {
		t.Errorf("Tr(Save) = %q, want source text %q", got, "Save")
	}

	err = tr.SetLocale("zz")
	if err == nil {
		t.Fatal("expected error for unknown locale")
	}
	if !strings.Contains(err.Error(), "unknown locale") {
		t.Errorf("error = %q, want mention of unknown locale", err)
	}
}

func TestOnChange(t *testing.T) {
	tr, err := Load(catalogFS(), "locales", WithLocale("vi"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	var got []string
	tr.OnChange(func(id string) { got = append(got, id) })

	if err := tr.SetLocale("ja"); err != nil {
		t.Fatalf("SetLocale failed: %v", err)
	}
	if len(got) != 1 || got[0] != "ja" {
		t.Errorf("handler calls = %v, want [ja]", got)
	}
}

func TestHostLocaleDetection(t *testing.T) {
	t.Setenv("LC_ALL", "vi_VN.UTF-8")

	tr, err := Load(catalogFS(), "locales")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if got := tr.Locale(); got != "vi" {
		t.Errorf("Locale() = %q, want %q", got, "vi")
	}
	if got := tr.Selected(); got != Auto {
		t.Errorf("Selected() = %q, want %q", got, Auto)
	}
}

func TestHostLocalePosixFallsBack(t *testing.T) {
	t.Setenv("LC_ALL", "C")

	tr, err := Load(catalogFS(), "locales")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if got := tr.Locale(); got != "ja" {
		t.Errorf("Locale() = %q, want fallback %q", got, "ja")
	}
}

func TestMissingCatalogTolerated(t *testing.T) {
	fsys := catalogFS()
	delete(fsys, "locales/vi.json")

	tr, err := Load(fsys, "locales", WithLocale("vi"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if got := tr.Tr("Save"); got != "Save" {
		t.Errorf("Tr(Save) = %q, want source text %q", got, "Save")
	}
	if got := tr.Tr("Cancel"); got != "キャンセル" {
		t.Errorf("Tr(Cancel) = %q, want fallback value %q", got, "キャンセル")
	}
}

func TestTrKey(t *testing.T) {
	tr, err := Load(catalogFS(), "locales", WithLocale("vi"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if got := tr.TrKey("h_c9cc8cce247e"); got != "Lưu" {
		t.Errorf("TrKey = %q, want %q", got, "Lưu")
	}
	if got := tr.TrKey("h_ffffffffffff"); got != "h_ffffffffffff" {
		t.Errorf("TrKey = %q, want the key back", got)
	}

	if text, ok := tr.Source("h_c9cc8cce247e"); !ok || text != "Save" {
		t.Errorf("Source = %q, %v, want Save, true", text, ok)
	}
	if _, ok := tr.Source("h_ffffffffffff"); ok {
		t.Error("Source reported an unknown key as present")
	}
}

func TestManifestAccessors(t *testing.T) {
	tr, err := Load(catalogFS(), "locales", WithLocale("vi"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	locales := tr.Locales()
	if len(locales) != 2 || locales[0].ID != "vi" || locales[1].ID != "ja" {
		t.Errorf("Locales() = %+v, want vi then ja", locales)
	}
	if got := tr.Manifest().SourceLocale; got != "en" {
		t.Errorf("Manifest().SourceLocale = %q, want en", got)
	}
}

func TestFileStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs", "locale")
	store := FileStore{Path: path}

	if got, err := store.Load(); err != nil || got != "" {
		t.Fatalf("Load on missing file = %q, %v, want empty, nil", got, err)
	}
	if err := store.Save("vi"); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if got, err := store.Load(); err != nil || got != "vi" {
		t.Fatalf("Load = %q, %v, want vi, nil", got, err)
	}
}

func TestStorePreferenceApplied(t *testing.T) {
	path := filepath.Join(t.TempDir(), "locale")
	if err := os.WriteFile(path, []byte("ja\n"), 0644); err != nil {
		t.Fatal(err)
	}

	tr, err := Load(catalogFS(), "locales", WithStore(FileStore{Path: path}))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if got := tr.Locale(); got != "ja" {
		t.Errorf("Locale() = %q, want stored preference %q", got, "ja")
	}

	if err := tr.SetLocale("vi"); err != nil {
		t.Fatalf("SetLocale failed: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if got := strings.TrimSpace(string(data)); got != "vi" {
		t.Errorf("saved preference = %q, want vi", got)
	}
}

func TestStalePreferenceFallsBack(t *testing.T) {
	t.Setenv("LC_ALL", "C")
	path := filepath.Join(t.TempDir(), "locale")
	if err := os.WriteFile(path, []byte("zz\n"), 0644); err != nil {
		t.Fatal(err)
	}

	tr, err := Load(catalogFS(), "locales", WithStore(FileStore{Path: path}))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if got := tr.Locale(); got != "ja" {
		t.Errorf("Locale() = %q, want fallback %q", got, "ja")
	}
}
