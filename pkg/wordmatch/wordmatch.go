// Package wordmatch finds a word as a whole token inside free text.
//
// Matching is case-insensitive and Unicode-aware: a token boundary is the
// start or end of the text, or any rune that is not a letter, digit, mark or
// underscore. "casa" therefore matches "La casa è grande" and "l'casa" but not
// "casale" or "casalinga".
package wordmatch

import (
	"regexp"

	"golang.org/x/text/unicode/norm"
)

const wordClass = `\p{L}\p{N}\p{M}_`

// Matcher tests texts for a whole-word occurrence of one word.
// A Matcher is immutable and safe for concurrent use.
type Matcher struct {
	word string
	re   *regexp.Regexp
}

// New builds a Matcher for word. The word is NFC-normalized and matched
// literally; regexp metacharacters carry no meaning.
func New(word string) *Matcher {
	w := norm.NFC.String(word)
	pattern := `(?i)(?:^|[^` + wordClass + `])` + regexp.QuoteMeta(w) + `(?:$|[^` + wordClass + `])`
	return &Matcher{word: w, re: regexp.MustCompile(pattern)}
}

// Word returns the normalized word the matcher looks for.
func (m *Matcher) Word() string { return m.word }

// Match reports whether text contains the word as a whole token.
func (m *Matcher) Match(text string) bool {
	if m.word == "" || text == "" {
		return false
	}
	return m.re.MatchString(norm.NFC.String(text))
}
