package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
	"gopkg.in/yaml.v3"

	"github.com/ZxlHyy/i18n-tr/internal/catalog"
)

const defaultWorkers = 8

// LocaleSpec declares one target locale and where its catalog lives.
type LocaleSpec struct {
	ID    string `yaml:"id" toml:"id"`
	File  string `yaml:"file" toml:"file"`
	Table string `yaml:"table" toml:"table"`
	Label string `yaml:"label" toml:"label"`
}

// MigrationRule declares a source-text rename replayed during sync.
type MigrationRule struct {
	From string `yaml:"from" toml:"from"`
	To   string `yaml:"to" toml:"to"`
}

// Config is the typed project configuration. Relative paths resolve
// against the directory holding the config file.
type Config struct {
	ProjectDir      string          `yaml:"project_dir" toml:"project_dir"`
	CatalogDir      string          `yaml:"catalog_dir" toml:"catalog_dir"`
	SourceFile      string          `yaml:"source_file" toml:"source_file"`
	SourceTable     string          `yaml:"source_table" toml:"source_table"`
	ManifestFile    string          `yaml:"manifest_file" toml:"manifest_file"`
	Marker          string          `yaml:"marker" toml:"marker"`
	SourceLocale    string          `yaml:"source_locale" toml:"source_locale"`
	FallbackLocale  string          `yaml:"fallback_locale" toml:"fallback_locale"`
	HostLocaleLabel string          `yaml:"host_locale_label" toml:"host_locale_label"`
	Prune           bool            `yaml:"prune" toml:"prune"`
	Workers         int             `yaml:"workers" toml:"workers"`
	Extensions      []string        `yaml:"extensions" toml:"extensions"`
	ExcludeDirs     []string        `yaml:"exclude_dirs" toml:"exclude_dirs"`
	Locales         []LocaleSpec    `yaml:"locales" toml:"locales"`
	Migrations      []MigrationRule `yaml:"migrations" toml:"migrations"`
}

// Load reads the project configuration, applies defaults and environment
// overrides, and validates the result.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("No .env file found, using environment variables")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	cfg := &Config{}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	case ".toml":
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("unsupported config format %q (expected .yaml, .yml or .toml)", ext)
	}

	cfg.applyDefaults(filepath.Dir(path))
	cfg.applyEnv()

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) applyDefaults(baseDir string) {
	if c.ProjectDir == "" {
		c.ProjectDir = "."
	}
	if c.CatalogDir == "" {
		c.CatalogDir = "locales"
	}
	if !filepath.IsAbs(c.ProjectDir) {
		c.ProjectDir = filepath.Join(baseDir, c.ProjectDir)
	}
	if !filepath.IsAbs(c.CatalogDir) {
		c.CatalogDir = filepath.Join(baseDir, c.CatalogDir)
	}
	if c.SourceFile == "" {
		c.SourceFile = "source.json"
	}
	if c.SourceTable == "" {
		c.SourceTable = "source"
	}
	if c.ManifestFile == "" {
		c.ManifestFile = "i18n.json"
	}
	if c.Marker == "" {
		c.Marker = "Tr"
	}
	if c.SourceLocale == "" {
		c.SourceLocale = "en"
	}
	if c.FallbackLocale == "" {
		c.FallbackLocale = c.SourceLocale
	}
	if c.HostLocaleLabel == "" {
		c.HostLocaleLabel = "System"
	}
	if c.Workers < 1 {
		c.Workers = defaultWorkers
	}
	if len(c.Extensions) == 0 {
		c.Extensions = []string{".go", ".tmpl", ".html"}
	}
	for i, ext := range c.Extensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext != "" && !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		c.Extensions[i] = ext
	}
	for i := range c.Locales {
		finishLocale(&c.Locales[i])
	}
}

// finishLocale fills the optional locale fields from the identifier.
func finishLocale(spec *LocaleSpec) {
	if spec.File == "" && spec.ID != "" {
		spec.File = spec.ID + ".json"
	}
	if spec.Table == "" {
		spec.Table = strings.ReplaceAll(spec.ID, "-", "_")
	}

	tag, err := language.Parse(strings.ReplaceAll(spec.ID, "_", "-"))
	if err != nil {
		log.Warn().Str("locale", spec.ID).Msg("Locale identifier is not a BCP 47 tag")
		if spec.Label == "" {
			spec.Label = spec.ID
		}
		return
	}
	if spec.Label == "" {
		spec.Label = display.Self.Name(tag)
	}
}

func (c *Config) applyEnv() {
	if v, ok := lookupEnvBool("I18NTR_PRUNE"); ok {
		c.Prune = v
	}
	if n := getEnvInt("I18NTR_WORKERS", 0); n > 0 {
		c.Workers = n
	}
}

func (c *Config) validate() error {
	if strings.TrimSpace(c.Marker) == "" {
		return fmt.Errorf("marker must not be blank")
	}
	if len(c.Locales) == 0 {
		return fmt.Errorf("at least one locale must be configured")
	}
	if !catalog.SupportedExtensions[strings.ToLower(filepath.Ext(c.SourceFile))] {
		return fmt.Errorf("source_file %q has an unsupported format", c.SourceFile)
	}

	ids := map[string]bool{}
	files := map[string]bool{c.SourceFile: true}
	tables := map[string]bool{c.SourceTable: true}
	for _, spec := range c.Locales {
		if spec.ID == "" {
			return fmt.Errorf("locale with empty identifier")
		}
		if ids[spec.ID] {
			return fmt.Errorf("duplicate locale identifier %q", spec.ID)
		}
		ids[spec.ID] = true

		if files[spec.File] {
			return fmt.Errorf("locale %q reuses catalog file %q", spec.ID, spec.File)
		}
		files[spec.File] = true

		if tables[spec.Table] {
			return fmt.Errorf("locale %q reuses table identifier %q", spec.ID, spec.Table)
		}
		tables[spec.Table] = true

		if !catalog.SupportedExtensions[strings.ToLower(filepath.Ext(spec.File))] {
			return fmt.Errorf("locale %q catalog file %q has an unsupported format", spec.ID, spec.File)
		}
	}

	for i, rule := range c.Migrations {
		if rule.From == "" || rule.To == "" {
			return fmt.Errorf("migration %d must set both from and to", i+1)
		}
		if rule.From == rule.To {
			return fmt.Errorf("migration %d renames %q to itself", i+1, rule.From)
		}
	}
	return nil
}

// SourcePath returns the location of the canonical source catalog.
func (c *Config) SourcePath() string {
	return filepath.Join(c.CatalogDir, c.SourceFile)
}

// ManifestPath returns the location of the runtime manifest.
func (c *Config) ManifestPath() string {
	return filepath.Join(c.CatalogDir, c.ManifestFile)
}

// LocalePath returns the location of one locale's catalog.
func (c *Config) LocalePath(spec LocaleSpec) string {
	return filepath.Join(c.CatalogDir, spec.File)
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func lookupEnvBool(key string) (bool, bool) {
	v := os.Getenv(key)
	if v == "" {
		return false, false
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		log.Warn().Str("key", key).Str("value", v).Msg("Ignoring non-boolean environment override")
		return false, false
	}
	return b, true
}
