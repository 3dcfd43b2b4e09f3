// Package tokenizer implements the term-index pipeline: lowercase,
// split on Unicode whitespace, trim non-alphanumeric edges, English
// Porter-style stem, drop empty tokens and stopwords.
package tokenizer

import (
	"strings"
	"unicode"

	porterstemmer "github.com/blevesearch/go-porterstemmer"
)

// Tokenize runs the full indexing pipeline over s and returns the
// surviving stemmed tokens. Order of the result has no semantic effect
// on the caller (indexing is order-independent), but the function
// returns tokens in the order they were found for reproducibility.
func Tokenize(s string) []string {
	lowered := strings.ToLower(s)
	words := strings.FieldsFunc(lowered, unicode.IsSpace)

	out := make([]string, 0, len(words))
	for _, w := range words {
		trimmed := trimNonAlnum(w)
		if trimmed == "" {
			continue
		}
		stemmed := Stem(trimmed)
		if stemmed == "" || stopwords[stemmed] || stopwords[trimmed] {
			continue
		}
		out = append(out, stemmed)
	}
	return out
}

// Stem applies the English Porter-style stemmer to a single word,
// matching the write-side stemming step. Used directly by term lookup,
// which stems the needle as a single word without the trim/split steps
// of the full ingest pipeline (so "Raspberry" and "raspberry" stem
// identically, the stemmer itself case-folds before stemming).
func Stem(word string) string {
	return porterstemmer.StemString(strings.ToLower(word))
}

// trimNonAlnum strips leading and trailing non-alphanumeric runes.
func trimNonAlnum(s string) string {
	return strings.TrimFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}
