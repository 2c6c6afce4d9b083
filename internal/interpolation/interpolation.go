package interpolation

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// varMatch stores a detected interpolation token position.
type varMatch struct {
	start, end int
	value      string
}

// patterns to detect interpolation tokens in message text.
var patterns = []*regexp.Regexp{
	regexp.MustCompile(`\$\{[a-zA-Z_][a-zA-Z0-9_]*\}`),         // ${value}
	regexp.MustCompile(`\{[0-9]+\}`),                           // {0}, {1}
	regexp.MustCompile(`%[-+0-9]*\.?[0-9]*[dsfieEgGxXoubcpq]`), // %d, %s, %f, %2d, etc.
	regexp.MustCompile(`%%`),                                   // escaped percent literal
}

// tokens collects all interpolation tokens in order of appearance,
// dropping overlapping matches in favor of the earliest longest one.
func tokens(text string) []varMatch {
	var all []varMatch
	for _, p := range patterns {
		for _, loc := range p.FindAllStringIndex(text, -1) {
			all = append(all, varMatch{
				start: loc[0],
				end:   loc[1],
				value: text[loc[0]:loc[1]],
			})
		}
	}
	if len(all) == 0 {
		return nil
	}

	sortVarMatches(all)

	var filtered []varMatch
	lastEnd := -1
	for _, m := range all {
		if m.start >= lastEnd {
			filtered = append(filtered, m)
			lastEnd = m.end
		}
	}
	return filtered
}

// Vars returns the interpolation tokens of text in order of appearance.
// Escaped percent literals are not substitution slots and are excluded.
func Vars(text string) []string {
	var vars []string
	for _, m := range tokens(text) {
		if m.value == "%%" {
			continue
		}
		vars = append(vars, m.value)
	}
	return vars
}

// Same reports whether two texts carry the same interpolation tokens,
// ignoring order. Translations commonly reorder tokens.
func Same(a, b string) bool {
	av, bv := Vars(a), Vars(b)
	if len(av) != len(bv) {
		return false
	}
	sort.Strings(av)
	sort.Strings(bv)
	for i := range av {
		if av[i] != bv[i] {
			return false
		}
	}
	return true
}

// Fill substitutes args into text's interpolation tokens in order of
// appearance. Format verbs keep their verb formatting; named and indexed
// tokens print the arg verbatim. Tokens beyond the supplied args are left
// in place.
func Fill(text string, args ...any) string {
	matches := tokens(text)
	if len(matches) == 0 {
		return text
	}

	var b strings.Builder
	b.Grow(len(text))
	prev := 0
	next := 0
	for _, m := range matches {
		b.WriteString(text[prev:m.start])
		prev = m.end

		if m.value == "%%" {
			b.WriteByte('%')
			continue
		}
		if next >= len(args) {
			b.WriteString(m.value)
			continue
		}
		arg := args[next]
		next++
		if strings.HasPrefix(m.value, "%") {
			b.WriteString(fmt.Sprintf(m.value, arg))
		} else {
			b.WriteString(fmt.Sprint(arg))
		}
	}
	b.WriteString(text[prev:])
	return b.String()
}

// sortVarMatches sorts by start position, then by length (descending) for overlaps.
func sortVarMatches(matches []varMatch) {
	for i := 1; i < len(matches); i++ {
		key := matches[i]
		j := i - 1
		for j >= 0 && (matches[j].start > key.start ||
			(matches[j].start == key.start && (matches[j].end-matches[j].start) < (key.end-key.start))) {
			matches[j+1] = matches[j]
			j--
		}
		matches[j+1] = key
	}
}
