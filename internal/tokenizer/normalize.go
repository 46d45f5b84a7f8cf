package tokenizer

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// keep reports whether r belongs to the normalized alphabet: lowercase
// ascii letters, space, and the three punctuation marks the spec keeps.
func keep(r rune) bool {
	return (r >= 'a' && r <= 'z') || r == ' ' || r == '.' || r == ',' || r == '!'
}

// transliterator decomposes to NFD, drops nonspacing marks (accents,
// diacritics), and recomposes — the idiomatic golang.org/x/text technique
// for "closest ASCII" transliteration, standing in for the original's
// unidecode crate. Characters with no ASCII-ish decomposition (non-Latin
// scripts) are dropped by the keep-set filter in Normalize, not here.
var transliterator = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalize lowercases, transliterates to ASCII, and keeps only
// {a-z, space, '.', ',', '!'}, discarding everything else. The result is a
// sequence of single-character strings, one per rune, matching the
// original's Vec<char> representation.
func Normalize(text string) []string {
	lowered := strings.ToLower(text)
	ascii, _, err := transform.String(transliterator, lowered)
	if err != nil {
		// transform.String only errors on malformed input encoding; fall
		// back to the untransliterated lowercase text rather than losing
		// the whole normalization pass.
		ascii = lowered
	}

	out := make([]string, 0, len(ascii))
	for _, r := range ascii {
		r = unicode.ToLower(r)
		if keep(r) {
			out = append(out, string(r))
		}
	}
	return out
}
