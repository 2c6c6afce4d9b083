// Package extract discovers the source texts passed to translation-marker
// calls under a project tree. Go sources go through a structural parse;
// everything else, and any Go file the parser rejects, goes through a
// pattern fallback. Both tiers share one candidate filter so the result
// set does not depend on which tier handled a file.
package extract

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/ZxlHyy/i18n-tr/internal/worker"
)

// Extractor scans a project root for marker call sites.
type Extractor struct {
	Root       string
	Marker     string
	Extensions []string
	Exclude    []string // directories skipped during the walk
	Workers    int
}

// Run extracts the distinct source texts under the root, sorted
// lexicographically. Per-file failures are logged and skipped; an
// unreadable root is an error, never an empty result.
func (e *Extractor) Run(ctx context.Context) ([]string, error) {
	root, err := filepath.Abs(e.Root)
	if err != nil {
		return nil, fmt.Errorf("resolve project root: %w", err)
	}

	files, err := e.collect(root)
	if err != nil {
		return nil, err
	}
	log.Info().Int("files", len(files)).Str("root", root).Msg("Discovered source files")

	pattern := markerPattern(e.Marker)
	pool := worker.NewPool[string, []string](e.Workers,
		func(ctx context.Context, path string) ([]string, error) {
			return e.extractFile(path, pattern)
		},
	)
	results := pool.Execute(ctx, files)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	set := make(map[string]struct{})
	for _, task := range results {
		if task.Err != nil {
			log.Warn().Err(task.Err).Str("file", task.Input).Msg("Skipping unreadable file")
			continue
		}
		for _, text := range task.Result {
			set[text] = struct{}{}
		}
	}

	texts := make([]string, 0, len(set))
	for text := range set {
		texts = append(texts, text)
	}
	sort.Strings(texts)

	log.Info().Int("texts", len(texts)).Msg("Extraction complete")
	return texts, nil
}

// collect walks the root for files with a configured extension, skipping
// excluded and hidden directories.
func (e *Extractor) collect(root string) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("stat project root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("project root is not a directory: %s", root)
	}

	exts := make(map[string]bool, len(e.Extensions))
	for _, ext := range e.Extensions {
		exts[strings.ToLower(ext)] = true
	}

	// Relative exclusions are anchored at the project root, not the
	// process working directory.
	exclude := make(map[string]bool, len(e.Exclude))
	for _, dir := range e.Exclude {
		if !filepath.IsAbs(dir) {
			dir = filepath.Join(root, dir)
		}
		exclude[filepath.Clean(dir)] = true
	}

	var files []string
	err = filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			log.Warn().Err(err).Str("path", path).Msg("Error walking path")
			return nil
		}
		if info.IsDir() {
			if exclude[path] {
				return filepath.SkipDir
			}
			if path != root && strings.HasPrefix(info.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if exts[strings.ToLower(filepath.Ext(path))] {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk project root: %w", err)
	}

	sort.Strings(files)
	return files, nil
}

// extractFile runs one file through the structural tier when possible and
// the pattern tier otherwise.
func (e *Extractor) extractFile(path string, pattern *regexp.Regexp) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	if strings.ToLower(filepath.Ext(path)) == ".go" {
		texts, err := extractGoSource(path, data, e.Marker)
		if err == nil {
			return texts, nil
		}
		log.Debug().Err(err).Str("file", path).Msg("Structural parse failed, using pattern fallback")
	}

	return extractPattern(data, pattern), nil
}
