package helper

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"educa_backend/internals/helpers/fuzzy"
)

var (
	reNonAlnum = regexp.MustCompile(`[^a-z0-9]+`)
	reHyphen   = regexp.MustCompile(`-+`)
)

// Slugify turns free text into [a-z0-9-]: accents stripped, runs of separators collapsed,
// trimmed to maxLen (100 when <= 0). Empty input becomes fallback.
func Slugify(s string, maxLen int, fallback string) string {
	if maxLen <= 0 {
		maxLen = 100
	}
	s = fuzzy.Normalize(strings.TrimSpace(s))
	s = reNonAlnum.ReplaceAllString(s, "-")
	s = reHyphen.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")

	if utf8.RuneCountInString(s) > maxLen {
		s = strings.Trim(string([]rune(s)[:maxLen]), "-")
	}
	if s == "" {
		return fallback
	}
	return s
}
