package i18n

// DefaultManifestName is the manifest filename the generator emits unless
// configured otherwise.
const DefaultManifestName = "i18n.json"

// Manifest describes a generated catalog set: where every locale's table
// lives and how a consuming application should pick its starting locale.
// It is regenerated in full on every sync and must never be hand-edited.
type Manifest struct {
	HostLocaleLabel string   `json:"hostLocaleLabel"`
	SourceLocale    string   `json:"sourceLocale"`
	FallbackLocale  string   `json:"fallbackLocale"`
	SourceTable     string   `json:"sourceTable"`
	SourceFile      string   `json:"sourceFile"`
	Generator       string   `json:"generator"`
	Locales         []Locale `json:"locales"`
}

// Locale is one selectable locale in the manifest.
type Locale struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Table string `json:"table"`
	File  string `json:"file"`
}
