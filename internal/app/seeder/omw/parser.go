// Package omw parses Open Multilingual Wordnet tab files
// (wn-data-<lang>.tab). Pure function: reader in, domain rows out.
//
// Line format:
//
//	# header
//	<synset>\t<lang>:lemma\t<lemma>
//	<synset>\t<lang>:def\t<index>\t<text>
//
// Other row types (examples, sources) are ignored.
package omw

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/heartmarshall/lessico/internal/domain"
)

// ParseResult holds rows in file order. Lemma positions count from 1 per
// language in file order; the loader shifts them past existing rows.
type ParseResult struct {
	Lemmas      []domain.LexiconLemma
	Definitions []domain.LexiconDefinition
	Stats       Stats
}

// Stats holds parser statistics for logging.
type Stats struct {
	TotalLines  int
	Lemmas      int
	Definitions int
	Ignored     int
	Skipped     int
}

// Filter selects which languages are kept per row kind. A nil map keeps all.
type Filter struct {
	LemmaLangs      map[string]bool
	DefinitionLangs map[string]bool
}

// Parse reads an OMW tab file from disk.
func Parse(filePath string, filter Filter) (ParseResult, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return ParseResult{}, fmt.Errorf("open file: %w", err)
	}
	defer f.Close()

	return ParseReader(f, filter)
}

// ParseReader reads OMW tab rows from r. Malformed lines are counted in
// Stats.Skipped and never fail the parse.
func ParseReader(r io.Reader, filter Filter) (ParseResult, error) {
	var res ParseResult
	positions := make(map[string]int)

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		res.Stats.TotalLines++
		line := strings.TrimRight(scanner.Text(), "\r")
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Split(line, "\t")
		if len(fields) < 3 {
			res.Stats.Skipped++
			continue
		}

		synset := strings.TrimSpace(fields[0])
		lang, kind, ok := strings.Cut(fields[1], ":")
		if synset == "" || !ok || lang == "" {
			res.Stats.Skipped++
			continue
		}

		switch kind {
		case "lemma":
			lemma := strings.TrimSpace(fields[2])
			if lemma == "" {
				res.Stats.Skipped++
				continue
			}
			if !keep(filter.LemmaLangs, lang) {
				res.Stats.Ignored++
				continue
			}
			positions[lang]++
			res.Lemmas = append(res.Lemmas, domain.LexiconLemma{
				SynsetID: synset,
				Lang:     lang,
				Lemma:    lemma,
				Position: positions[lang],
			})
			res.Stats.Lemmas++

		case "def":
			if len(fields) < 4 {
				res.Stats.Skipped++
				continue
			}
			idx, err := strconv.Atoi(strings.TrimSpace(fields[2]))
			text := strings.TrimSpace(fields[3])
			if err != nil || text == "" {
				res.Stats.Skipped++
				continue
			}
			// Multi-part glosses: only the first part is the definition.
			if idx != 0 || !keep(filter.DefinitionLangs, lang) {
				res.Stats.Ignored++
				continue
			}
			res.Definitions = append(res.Definitions, domain.LexiconDefinition{
				SynsetID:   synset,
				Lang:       lang,
				Definition: text,
			})
			res.Stats.Definitions++

		default:
			res.Stats.Ignored++
		}
	}

	if err := scanner.Err(); err != nil {
		return ParseResult{}, fmt.Errorf("scan file: %w", err)
	}

	return res, nil
}

func keep(langs map[string]bool, lang string) bool {
	return langs == nil || langs[lang]
}
