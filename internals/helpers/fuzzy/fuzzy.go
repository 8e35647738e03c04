// file: internals/helpers/fuzzy/fuzzy.go
package fuzzy

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

/* ===============================
   Normalization
=================================*/

// Normalize lowercases s and strips accent marks ("São Paulo" -> "sao paulo").
func Normalize(s string) string {
	if s == "" {
		return ""
	}
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return strings.ToLower(out)
}

// Digits keeps only the decimal digits of s. Used for CPF comparison.
func Digits(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

/* ===============================
   Edit distance
=================================*/

// Levenshtein returns the insert/delete/substitute edit distance between a and b,
// counted in runes.
func Levenshtein(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}

	prev := make([]int, len(ra)+1)
	curr := make([]int, len(ra)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(rb); i++ {
		curr[0] = i
		for j := 1; j <= len(ra); j++ {
			if rb[i-1] == ra[j-1] {
				curr[j] = prev[j-1]
				continue
			}
			curr[j] = min(prev[j-1]+1, curr[j-1]+1, prev[j]+1)
		}
		prev, curr = curr, prev
	}
	return prev[len(ra)]
}

// tolerance: words longer than 4 runes may be 2 edits away, shorter ones only 1.
func tolerance(word string) int {
	if len([]rune(word)) > 4 {
		return 2
	}
	return 1
}

/* ===============================
   Matching
=================================*/

// Words splits the normalized form of s on whitespace.
func Words(s string) []string {
	return strings.Fields(Normalize(s))
}

// Match reports whether target satisfies every word of query. A word is satisfied
// when it is a substring of the normalized target, or when some target token lies
// within the edit tolerance of the word. An empty query matches everything.
func Match(query, target string) bool {
	words := Words(query)
	if len(words) == 0 {
		return true
	}
	text := Normalize(target)
	tokens := strings.Fields(text)

	for _, w := range words {
		if !matchWord(w, text, tokens) {
			return false
		}
	}
	return true
}

// MatchAny reports whether query matches at least one of the targets.
func MatchAny(query string, targets ...string) bool {
	for _, t := range targets {
		if strings.TrimSpace(t) == "" {
			continue
		}
		if Match(query, t) {
			return true
		}
	}
	return false
}

// MatchCPF compares only the digits of query against the digits of each cpf.
// A query without digits never matches.
func MatchCPF(query string, cpfs ...string) bool {
	q := Digits(query)
	if q == "" {
		return false
	}
	for _, cpf := range cpfs {
		if d := Digits(cpf); d != "" && strings.Contains(d, q) {
			return true
		}
	}
	return false
}

func matchWord(word, text string, tokens []string) bool {
	if strings.Contains(text, word) {
		return true
	}
	wl := len([]rune(word))
	tol := tolerance(word)
	for _, tok := range tokens {
		diff := len([]rune(tok)) - wl
		if diff > 2 || diff < -2 {
			continue
		}
		if Levenshtein(word, tok) <= tol {
			return true
		}
	}
	return false
}
