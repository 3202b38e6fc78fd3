// Package translate holds the translation client plumbing shared by the
// concrete providers: a disabled stub, an LRU cache decorator and the
// instruction text used by LLM-backed providers.
package translate

import (
	"context"
	"fmt"
	"strings"
)

// Translator translates one text between two languages.
type Translator interface {
	Translate(ctx context.Context, text, sourceLang, targetLang string) (string, error)
}

var languageNames = map[string]string{
	"en": "English", "eng": "English",
	"ru": "Russian", "rus": "Russian",
	"it": "Italian", "ita": "Italian",
	"uk": "Ukrainian", "ukr": "Ukrainian",
	"de": "German", "deu": "German",
	"fr": "French", "fra": "French",
	"es": "Spanish", "spa": "Spanish",
}

// LanguageName returns the English name for an ISO 639 code, or the code itself.
func LanguageName(code string) string {
	if name, ok := languageNames[strings.ToLower(code)]; ok {
		return name
	}
	return code
}

// Instruction is the system prompt LLM providers send with every definition.
func Instruction(sourceLang, targetLang string) string {
	return fmt.Sprintf(
		"You translate dictionary definitions from %s to %s. "+
			"Reply with the translation only: no quotes, no notes, no transliteration.",
		LanguageName(sourceLang), LanguageName(targetLang),
	)
}

// CleanOutput trims whitespace and wrapping quotes that models sometimes add.
func CleanOutput(s string) string {
	s = strings.TrimSpace(s)
	for _, q := range [][2]string{{`"`, `"`}, {"«", "»"}, {"“", "”"}} {
		if len(s) >= len(q[0])+len(q[1]) && strings.HasPrefix(s, q[0]) && strings.HasSuffix(s, q[1]) {
			s = strings.TrimSpace(s[len(q[0]) : len(s)-len(q[1])])
		}
	}
	return s
}
