// Package tmx streams translation units out of TMX documents.
package tmx

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

var (
	// ErrNoRoot is returned when the document does not start with a <tmx> element.
	ErrNoRoot = errors.New("tmx: missing <tmx> root element")
	// ErrTrailingContent is returned for elements or text after the root closes.
	ErrTrailingContent = errors.New("tmx: content after root element")
)

// Unit is one <tu> element: the trimmed text of each non-empty <seg>, in
// document order.
type Unit struct {
	Segments []string
}

// Scan decodes r and calls fn for every translation unit.
// Scanning stops early, without reading the rest of r, when fn returns false.
// Malformed XML, including anything but whitespace, comments or processing
// instructions after the root closes, is reported as an error, along with any
// units already delivered.
func Scan(r io.Reader, fn func(Unit) bool) error {
	dec := xml.NewDecoder(r)

	var (
		rootSeen   bool
		rootClosed bool
		depth      int
		inUnit     bool
		segDepth   int
		seg        strings.Builder
		unit       Unit
	)

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			if !rootSeen {
				return ErrNoRoot
			}
			return nil
		}
		if err != nil {
			return fmt.Errorf("tmx: decode: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if rootClosed {
				return fmt.Errorf("tmx: decode: %w", ErrTrailingContent)
			}
			depth++
			if !rootSeen {
				if t.Name.Local != "tmx" {
					return ErrNoRoot
				}
				rootSeen = true
				continue
			}
			switch {
			case segDepth > 0:
				// Inline markup inside a segment; its text still counts.
				segDepth++
			case t.Name.Local == "tu":
				inUnit = true
				unit = Unit{}
			case inUnit && t.Name.Local == "seg":
				segDepth = 1
				seg.Reset()
			}

		case xml.EndElement:
			depth--
			if depth == 0 {
				rootClosed = true
			}
			switch {
			case segDepth > 1:
				segDepth--
			case segDepth == 1:
				segDepth = 0
				if text := strings.TrimSpace(seg.String()); text != "" {
					unit.Segments = append(unit.Segments, text)
				}
			case t.Name.Local == "tu" && inUnit:
				inUnit = false
				if !fn(unit) {
					return nil
				}
			}

		case xml.CharData:
			if rootClosed && len(strings.TrimSpace(string(t))) > 0 {
				return fmt.Errorf("tmx: decode: %w", ErrTrailingContent)
			}
			if segDepth > 0 {
				seg.Write(t)
			}
		}
	}
}
