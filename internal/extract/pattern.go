package extract

import (
	"regexp"

	"github.com/ZxlHyy/i18n-tr/internal/textutil"
)

// markerPattern builds the fallback pattern for a marker call: the bare
// name (not preceded by an identifier character) followed by one quoted
// argument, with or without an opening paren so template invocations like
// {{Tr "text"}} match too. Double and single quotes honor backslash
// escapes; backquoted text runs to the closing backquote.
func markerPattern(marker string) *regexp.Regexp {
	return regexp.MustCompile(
		`(?:^|[^\p{L}\p{N}_])` + regexp.QuoteMeta(marker) + `\s*\(?\s*` +
			"(?:\"((?:[^\"\\\\]|\\\\.)*)\"|'((?:[^'\\\\]|\\\\.)*)'|`([^`]*)`)",
	)
}

// extractPattern collects marker-call texts by regular expression, used
// for non-Go sources and Go files the structural tier rejected. Captures
// are un-escaped with the catalog's own escaping rules, so previously
// generated literals round-trip exactly.
func extractPattern(src []byte, pattern *regexp.Regexp) []string {
	var texts []string
	for _, m := range pattern.FindAllSubmatch(src, -1) {
		var text string
		switch {
		case m[1] != nil:
			text = textutil.Unescape(string(m[1]))
		case m[2] != nil:
			text = textutil.Unescape(string(m[2]))
		case m[3] != nil:
			text = textutil.NormalizeBlock(string(m[3]))
		}
		if textutil.IsMessageText(text) {
			texts = append(texts, text)
		}
	}
	return texts
}
