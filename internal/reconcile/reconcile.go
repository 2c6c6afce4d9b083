// Package reconcile drives one synchronization run: extract marker call
// sites, replay migrations, merge new texts into every catalog, optionally
// prune, write the artifacts, and report what is still untranslated.
package reconcile

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/ZxlHyy/i18n-tr/internal/catalog"
	"github.com/ZxlHyy/i18n-tr/internal/config"
	"github.com/ZxlHyy/i18n-tr/internal/extract"
	"github.com/ZxlHyy/i18n-tr/internal/interpolation"
	"github.com/ZxlHyy/i18n-tr/internal/migrate"
	"github.com/ZxlHyy/i18n-tr/internal/textutil"
	"github.com/ZxlHyy/i18n-tr/pkg/i18n"
	"github.com/ZxlHyy/i18n-tr/pkg/key"
)

// Options selects the optional behaviors of a run.
type Options struct {
	Prune  bool // drop entries whose text no longer appears in the tree
	DryRun bool // compute and report without touching any file
}

// Report summarizes a completed run.
type Report struct {
	Extracted int      // distinct texts found in the project tree
	Added     int      // keys newly inserted into the source catalog
	Migrated  int      // migration rules executed
	Pruned    int      // keys removed from the source catalog
	Missing   []string // source texts with no real translation in any locale, sorted by key
	Written   bool     // catalogs and manifest were written out
}

// Run executes the full pipeline. Catalog state is mutated in memory only;
// writes happen last, so a failed run leaves the on-disk artifacts exactly
// as it found them.
func Run(ctx context.Context, cfg *config.Config, opts Options) (*Report, error) {
	ex := &extract.Extractor{
		Root:       cfg.ProjectDir,
		Marker:     cfg.Marker,
		Extensions: cfg.Extensions,
		Exclude:    append([]string{cfg.CatalogDir}, cfg.ExcludeDirs...),
		Workers:    cfg.Workers,
	}
	texts, err := ex.Run(ctx)
	if err != nil {
		return nil, fmt.Errorf("extract call sites: %w", err)
	}

	source, err := catalog.Load(cfg.SourcePath())
	if err != nil {
		return nil, fmt.Errorf("load source catalog: %w", err)
	}
	locales := make([]migrate.Locale, 0, len(cfg.Locales))
	for _, spec := range cfg.Locales {
		table, err := catalog.Load(cfg.LocalePath(spec))
		if err != nil {
			return nil, fmt.Errorf("load locale %s: %w", spec.ID, err)
		}
		locales = append(locales, migrate.Locale{ID: spec.ID, Table: table})
	}

	report := &Report{Extracted: len(texts)}

	rules := make([]migrate.Rule, len(cfg.Migrations))
	for i, m := range cfg.Migrations {
		rules[i] = migrate.Rule{From: m.From, To: m.To}
	}
	report.Migrated, err = migrate.Apply(rules, source, locales)
	if err != nil {
		return nil, fmt.Errorf("apply migrations: %w", err)
	}

	for _, text := range texts {
		k := key.Derive(text)
		if existing, ok := source[k]; ok {
			if existing != text {
				return nil, &catalog.ConflictError{Key: k, Existing: existing, Incoming: text}
			}
		} else {
			report.Added++
		}
		source[k] = text
		for _, loc := range locales {
			// Seed with the source text only when there is no entry
			// at all; an existing translation is never overwritten.
			if _, ok := loc.Table[k]; !ok {
				loc.Table[k] = text
			}
		}
	}

	if opts.Prune {
		keep := make(map[key.Key]bool, len(texts))
		for _, text := range texts {
			keep[key.Derive(text)] = true
		}
		for _, k := range source.SortedKeys() {
			if keep[k] {
				continue
			}
			log.Info().
				Str("key", string(k)).
				Str("text", textutil.Truncate(source[k], 40)).
				Msg("Pruning unused entry")
			delete(source, k)
			report.Pruned++
		}
		for _, loc := range locales {
			for k := range loc.Table {
				if !keep[k] {
					delete(loc.Table, k)
				}
			}
		}
	}

	if !opts.DryRun {
		if err := catalog.Write(cfg.SourcePath(), source); err != nil {
			return nil, err
		}
		for i, spec := range cfg.Locales {
			if err := catalog.Write(cfg.LocalePath(spec), locales[i].Table); err != nil {
				return nil, err
			}
		}
		if err := writeManifest(cfg); err != nil {
			return nil, err
		}
		report.Written = true
	}

	for _, k := range source.SortedKeys() {
		text := source[k]
		translated := false
		for _, loc := range locales {
			if loc.ID == cfg.SourceLocale {
				continue
			}
			val, ok := loc.Table[k]
			if !ok || val == "" || val == text {
				continue
			}
			translated = true
			if !interpolation.Same(text, val) {
				log.Warn().
					Str("locale", loc.ID).
					Str("key", string(k)).
					Str("text", textutil.Truncate(val, 40)).
					Msg("Interpolation tokens differ from source text")
			}
		}
		if !translated {
			report.Missing = append(report.Missing, text)
		}
	}

	log.Info().
		Int("extracted", report.Extracted).
		Int("added", report.Added).
		Int("migrated", report.Migrated).
		Int("pruned", report.Pruned).
		Int("missing", len(report.Missing)).
		Bool("written", report.Written).
		Msg("Reconciliation complete")
	return report, nil
}

// writeManifest regenerates the runtime manifest from the configuration.
// The manifest is generated output; any hand edit is overwritten here.
func writeManifest(cfg *config.Config) error {
	m := i18n.Manifest{
		HostLocaleLabel: cfg.HostLocaleLabel,
		SourceLocale:    cfg.SourceLocale,
		FallbackLocale:  cfg.FallbackLocale,
		SourceTable:     cfg.SourceTable,
		SourceFile:      cfg.SourceFile,
		Generator:       "i18n-tr " + i18n.Version,
		Locales:         make([]i18n.Locale, len(cfg.Locales)),
	}
	for i, spec := range cfg.Locales {
		m.Locales[i] = i18n.Locale{ID: spec.ID, Label: spec.Label, Table: spec.Table, File: spec.File}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(m); err != nil {
		return fmt.Errorf("encode manifest: %w", err)
	}
	if err := catalog.WriteFileAtomic(cfg.ManifestPath(), buf.Bytes()); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}
	return nil
}
