package domain

// MaxExamples caps the number of corpus entries returned for one query.
const MaxExamples = 5

// TranslationUnavailableText replaces a definition translation that could not
// be obtained.
const TranslationUnavailableText = "[translation unavailable]"

// LexicalSense is one synset as read from the lexical database.
type LexicalSense struct {
	SynsetID   string
	Definition string
	// Lemmas holds every lemma of the synset in the queried language, in
	// database order. It may contain the queried word itself.
	Lemmas []string
}

// Sense is one meaning of a looked-up word.
type Sense struct {
	Definition             string   `json:"definition"`
	TranslatedDefinition   string   `json:"translated_definition"`
	Synonyms               []string `json:"synonyms"`
	TranslationUnavailable bool     `json:"translation_unavailable,omitempty"`
}

// SenseLookupResult lists senses in lexical database order. No senses means
// the word is unknown.
type SenseLookupResult struct {
	Word   string  `json:"word"`
	Lang   string  `json:"lang"`
	Senses []Sense `json:"senses"`
}

// Found reports whether at least one sense exists.
func (r *SenseLookupResult) Found() bool { return r != nil && len(r.Senses) > 0 }

// Degraded reports whether any sense lacks a translation.
func (r *SenseLookupResult) Degraded() bool {
	if r == nil {
		return false
	}
	for _, s := range r.Senses {
		if s.TranslationUnavailable {
			return true
		}
	}
	return false
}

// CorpusEntry is one aligned sentence pair.
type CorpusEntry struct {
	SourceText string `json:"source_text"`
	TargetText string `json:"target_text"`
}

// ExampleSearchResult holds up to MaxExamples entries in corpus order.
type ExampleSearchResult struct {
	Word    string        `json:"word"`
	Entries []CorpusEntry `json:"entries"`
}

// Found reports whether at least one example matched.
func (r *ExampleSearchResult) Found() bool { return r != nil && len(r.Entries) > 0 }

// LexiconLemma is a lemma row of the lexical dataset.
type LexiconLemma struct {
	SynsetID string
	Lang     string
	Lemma    string
	Position int
}

// LexiconDefinition is a definition row of the lexical dataset.
type LexiconDefinition struct {
	SynsetID   string
	Lang       string
	Definition string
}
