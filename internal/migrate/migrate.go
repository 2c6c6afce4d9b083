// Package migrate replays declared source-text renames across the source
// catalog and every locale catalog, carrying translations to the new key.
package migrate

import (
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/ZxlHyy/i18n-tr/internal/catalog"
	"github.com/ZxlHyy/i18n-tr/pkg/key"
)

// Rule declares that the text previously catalogued as From now reads To,
// and existing translations should follow the new key.
type Rule struct {
	From string
	To   string
}

// Locale pairs a locale identifier with its loaded catalog table.
type Locale struct {
	ID    string
	Table catalog.Table
}

// ConflictError reports a migration whose target key is already taken by
// unrelated text. Overwriting it would silently re-point the existing
// entry, so the run must abort.
type ConflictError struct {
	From     string
	To       string
	Key      key.Key
	Existing string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("migration %q -> %q: target key %s already maps to %q; refusing to overwrite it",
		e.From, e.To, e.Key, e.Existing)
}

// Apply replays rules in order against the source catalog and every locale
// catalog, mutating them in place, and returns the number of rules applied.
// A target-key conflict aborts immediately; stale and no-op rules are
// skipped with a warning.
func Apply(rules []Rule, source catalog.Table, locales []Locale) (int, error) {
	migrated := 0
	for _, rule := range rules {
		oldKey := key.Derive(rule.From)
		newKey := key.Derive(rule.To)

		newText, hasNew := source[newKey]
		if hasNew && newText != rule.To {
			return migrated, &ConflictError{From: rule.From, To: rule.To, Key: newKey, Existing: newText}
		}

		oldText, hasOld := source[oldKey]
		if hasOld && oldText != rule.From {
			log.Warn().
				Str("from", rule.From).
				Str("to", rule.To).
				Str("recorded", oldText).
				Msg("Skipping stale migration: catalogued text no longer matches")
			continue
		}
		if !hasOld && !hasNew {
			log.Warn().
				Str("from", rule.From).
				Str("to", rule.To).
				Msg("Skipping no-op migration: neither text is catalogued")
			continue
		}

		for _, loc := range locales {
			if oldVal, ok := loc.Table[oldKey]; ok {
				existing, exists := loc.Table[newKey]
				switch {
				case !exists || existing == rule.From:
					loc.Table[newKey] = oldVal
				case existing != oldVal:
					// Two real translations compete; keep the one entered
					// against the new text.
					log.Warn().
						Str("locale", loc.ID).
						Str("kept", existing).
						Str("dropped", oldVal).
						Msg("Both keys already translated, keeping the target entry")
				}
				delete(loc.Table, oldKey)
			}
			// An untranslated placeholder at the new key follows the rename.
			if val, ok := loc.Table[newKey]; ok && val == rule.From {
				loc.Table[newKey] = rule.To
			}
		}

		delete(source, oldKey)
		source[newKey] = rule.To
		migrated++

		log.Info().
			Str("old_key", string(oldKey)).
			Str("new_key", string(newKey)).
			Str("text", rule.To).
			Msg("Migrated catalog entry")
	}
	return migrated, nil
}
