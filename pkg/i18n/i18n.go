// Package i18n loads the catalogs produced by the i18n-tr generator and
// resolves source texts to translated values at runtime.
package i18n

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"
	"golang.org/x/text/language"

	"github.com/ZxlHyy/i18n-tr/internal/catalog"
	"github.com/ZxlHyy/i18n-tr/internal/interpolation"
	"github.com/ZxlHyy/i18n-tr/pkg/key"
)

// Auto selects the host locale detected from the process environment.
const Auto = "auto"

// Translator resolves source texts through the current locale, the
// fallback locale, and finally the source text itself. It is safe for
// concurrent use; callers construct one with Load and hold the reference.
type Translator struct {
	mu       sync.RWMutex
	manifest Manifest
	tables   map[string]catalog.Table // locale ID -> catalog
	selected string                   // as chosen, possibly Auto
	current  string                   // effective locale ID
	chain    []string                 // lookup order for the current locale
	store    Store
	handlers []func(locale string)

	manifestName string
	initial      string
}

// Option configures a Translator during Load.
type Option func(*Translator)

// WithManifest overrides the manifest filename inside the catalog directory.
func WithManifest(name string) Option {
	return func(t *Translator) { t.manifestName = name }
}

// WithStore attaches a preference store. The persisted choice is applied
// during Load and every SetLocale is saved back.
func WithStore(s Store) Option {
	return func(t *Translator) { t.store = s }
}

// WithLocale fixes the starting locale, bypassing the store and host
// detection.
func WithLocale(id string) Option {
	return func(t *Translator) { t.initial = id }
}

// Load reads the manifest and every catalog it names from fsys, rooted at
// dir. A missing locale catalog is tolerated with a warning so consumers
// keep working while translations lag; a missing manifest is an error.
func Load(fsys fs.FS, dir string, opts ...Option) (*Translator, error) {
	t := &Translator{
		tables:       map[string]catalog.Table{},
		manifestName: DefaultManifestName,
	}
	for _, opt := range opts {
		opt(t)
	}

	data, err := fs.ReadFile(fsys, path.Join(dir, t.manifestName))
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	if err := json.Unmarshal(data, &t.manifest); err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}

	source, err := loadTable(fsys, dir, t.manifest.SourceFile)
	if err != nil {
		return nil, err
	}
	for _, loc := range t.manifest.Locales {
		table, err := loadTable(fsys, dir, loc.File)
		if err != nil {
			return nil, err
		}
		t.tables[loc.ID] = table
	}
	if _, ok := t.tables[t.manifest.SourceLocale]; !ok {
		t.tables[t.manifest.SourceLocale] = source
	}

	choice := t.initial
	if choice == "" && t.store != nil {
		pref, err := t.store.Load()
		if err != nil {
			log.Warn().Err(err).Msg("Could not read locale preference")
		} else {
			choice = pref
		}
	}
	if choice == "" {
		choice = Auto
	}
	if err := t.applyLocale(choice); err != nil {
		log.Warn().Str("locale", choice).Msg("Configured locale not available, detecting host locale")
		if err := t.applyLocale(Auto); err != nil {
			return nil, err
		}
	}
	return t, nil
}

func loadTable(fsys fs.FS, dir, name string) (catalog.Table, error) {
	data, err := fs.ReadFile(fsys, path.Join(dir, name))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			log.Warn().Str("file", name).Msg("Catalog file missing, starting empty")
			return catalog.Table{}, nil
		}
		return nil, fmt.Errorf("read catalog %s: %w", name, err)
	}
	table, err := catalog.Decode(name, data)
	if err != nil {
		return nil, fmt.Errorf("parse catalog %s: %w", name, err)
	}
	return table, nil
}

// Tr resolves a source text for the current locale and fills its
// interpolation tokens with args.
func (t *Translator) Tr(text string, args ...any) string {
	k := key.Derive(text)
	t.mu.RLock()
	val := t.resolve(k, text)
	t.mu.RUnlock()

	if len(args) == 0 {
		return val
	}
	return interpolation.Fill(val, args...)
}

// TrKey resolves a catalogued key directly, for callers that store keys
// rather than source texts. Unknown keys come back unchanged.
func (t *Translator) TrKey(k string, args ...any) string {
	t.mu.RLock()
	val := k
	if text, ok := t.tables[t.manifest.SourceLocale][key.Key(k)]; ok {
		val = t.resolve(key.Key(k), text)
	}
	t.mu.RUnlock()

	if len(args) == 0 {
		return val
	}
	return interpolation.Fill(val, args...)
}

// Source returns the canonical text recorded for a key.
func (t *Translator) Source(k string) (string, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	text, ok := t.tables[t.manifest.SourceLocale][key.Key(k)]
	return text, ok
}

// resolve walks the lookup chain under the read lock. A value equal to the
// source text is an untranslated placeholder everywhere except in the
// source locale itself.
func (t *Translator) resolve(k key.Key, text string) string {
	for _, id := range t.chain {
		table, ok := t.tables[id]
		if !ok {
			continue
		}
		val, ok := table[k]
		if !ok || val == "" {
			continue
		}
		if val == text && id != t.manifest.SourceLocale {
			continue
		}
		return val
	}
	return text
}

// SetLocale switches to a manifest locale, or to host detection when id is
// Auto, then persists the choice and notifies subscribers.
func (t *Translator) SetLocale(id string) error {
	t.mu.Lock()
	if err := t.applyLocale(id); err != nil {
		t.mu.Unlock()
		return err
	}
	current := t.current
	store := t.store
	handlers := append([]func(string){}, t.handlers...)
	t.mu.Unlock()

	for _, fn := range handlers {
		fn(current)
	}
	if store != nil {
		if err := store.Save(id); err != nil {
			return fmt.Errorf("locale changed but preference not saved: %w", err)
		}
	}
	return nil
}

// applyLocale resolves and installs a locale choice. Callers hold t.mu or
// exclusive ownership.
func (t *Translator) applyLocale(id string) error {
	effective := id
	if id == Auto {
		effective = t.hostLocale()
	} else if !t.known(id) {
		return fmt.Errorf("unknown locale %q", id)
	}
	t.selected = id
	t.current = effective
	t.chain = t.buildChain(effective)
	return nil
}

func (t *Translator) known(id string) bool {
	if id == t.manifest.SourceLocale {
		return true
	}
	for _, loc := range t.manifest.Locales {
		if loc.ID == id {
			return true
		}
	}
	return false
}

// buildChain orders the lookup: current locale, fallback locale, source.
func (t *Translator) buildChain(effective string) []string {
	chain := []string{effective}
	for _, id := range []string{t.manifest.FallbackLocale, t.manifest.SourceLocale} {
		if id == "" {
			continue
		}
		dup := false
		for _, c := range chain {
			if c == id {
				dup = true
				break
			}
		}
		if !dup {
			chain = append(chain, id)
		}
	}
	return chain
}

// hostLocale matches the process environment against the available
// catalogs, falling back to the manifest's fallback locale.
func (t *Translator) hostLocale() string {
	env := os.Getenv("LC_ALL")
	if env == "" {
		env = os.Getenv("LC_MESSAGES")
	}
	if env == "" {
		env = os.Getenv("LANG")
	}
	if i := strings.IndexByte(env, '.'); i >= 0 {
		env = env[:i] // strip a charset suffix such as .UTF-8
	}
	env = strings.ReplaceAll(env, "_", "-")
	if env == "" || env == "C" || env == "POSIX" {
		return t.defaultLocale()
	}
	desired, err := language.Parse(env)
	if err != nil {
		return t.defaultLocale()
	}

	candidates := make([]string, 0, len(t.manifest.Locales)+1)
	for _, loc := range t.manifest.Locales {
		candidates = append(candidates, loc.ID)
	}
	if !t.listed(t.manifest.SourceLocale) {
		candidates = append(candidates, t.manifest.SourceLocale)
	}

	var tags []language.Tag
	var ids []string
	for _, id := range candidates {
		tag, err := language.Parse(strings.ReplaceAll(id, "_", "-"))
		if err != nil {
			continue
		}
		tags = append(tags, tag)
		ids = append(ids, id)
	}
	if len(tags) == 0 {
		return t.defaultLocale()
	}
	if _, idx, conf := language.NewMatcher(tags).Match(desired); conf > language.No {
		return ids[idx]
	}
	return t.defaultLocale()
}

func (t *Translator) listed(id string) bool {
	for _, loc := range t.manifest.Locales {
		if loc.ID == id {
			return true
		}
	}
	return false
}

func (t *Translator) defaultLocale() string {
	if t.manifest.FallbackLocale != "" {
		return t.manifest.FallbackLocale
	}
	return t.manifest.SourceLocale
}

// Locale returns the effective locale ID.
func (t *Translator) Locale() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.current
}

// Selected returns the configured choice, which may be Auto.
func (t *Translator) Selected() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.selected
}

// Locales returns the manifest locales in declaration order.
func (t *Translator) Locales() []Locale {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]Locale, len(t.manifest.Locales))
	copy(out, t.manifest.Locales)
	return out
}

// Manifest returns a copy of the loaded manifest.
func (t *Translator) Manifest() Manifest {
	t.mu.RLock()
	defer t.mu.RUnlock()
	m := t.manifest
	m.Locales = append([]Locale(nil), t.manifest.Locales...)
	return m
}

// OnChange registers fn to run after every successful locale switch.
func (t *Translator) OnChange(fn func(locale string)) {
	t.mu.Lock()
	t.handlers = append(t.handlers, fn)
	t.mu.Unlock()
}
