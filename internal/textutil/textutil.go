package textutil

import (
	"strconv"
	"strings"
	"unicode/utf8"
)

// IsMessageText reports whether a literal should be catalogued as
// translatable text. Blank strings, single code points, digit runs, and
// URL-like values are rejected.
func IsMessageText(s string) bool {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return false
	}
	if utf8.RuneCountInString(s) < 2 {
		return false
	}
	if isDigits(trimmed) {
		return false
	}
	return !isURLLike(trimmed)
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// isURLLike matches http(s) URLs, protocol-relative references, and bare
// www hosts.
func isURLLike(s string) bool {
	if strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://") {
		return true
	}
	if strings.HasPrefix(s, "//") {
		return true
	}
	return strings.Contains(s, "www.")
}

// NormalizeBlock normalizes a multi-line literal: every line is trimmed,
// leading and trailing blank lines are dropped, and the rest is rejoined
// with single newlines. Single-line input passes through unchanged.
func NormalizeBlock(s string) string {
	if !strings.Contains(s, "\n") {
		return s
	}
	lines := strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}
	start := 0
	for start < len(lines) && lines[start] == "" {
		start++
	}
	end := len(lines)
	for end > start && lines[end-1] == "" {
		end--
	}
	return strings.Join(lines[start:end], "\n")
}

// Unescape expands backslash escapes in a regex-captured literal using the
// same rules the catalog writers use, so re-extracting previously generated
// text reproduces the original. Unknown escapes keep their backslash.
func Unescape(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' || i+1 >= len(s) {
			b.WriteByte(c)
			continue
		}
		i++
		switch s[i] {
		case 'n':
			b.WriteByte('\n')
		case 't':
			b.WriteByte('\t')
		case 'r':
			b.WriteByte('\r')
		case '\\', '"', '\'', '`':
			b.WriteByte(s[i])
		case 'u':
			if i+4 < len(s) {
				if n, err := strconv.ParseUint(s[i+1:i+5], 16, 32); err == nil {
					b.WriteRune(rune(n))
					i += 4
					break
				}
			}
			b.WriteString(`\u`)
		default:
			b.WriteByte('\\')
			b.WriteByte(s[i])
		}
	}
	return b.String()
}

// Truncate shortens a string to max runes, appending "..." if truncated.
func Truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	return string(runes[:max]) + "..."
}
