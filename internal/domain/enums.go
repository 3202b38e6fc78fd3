package domain

import "strings"

// Mode is the query a user selected before sending a word.
type Mode string

const (
	ModeLookup   Mode = "lookup"
	ModeExamples Mode = "examples"
)

func (m Mode) String() string { return string(m) }

func (m Mode) IsValid() bool {
	switch m {
	case ModeLookup, ModeExamples:
		return true
	}
	return false
}

// ParseMode maps user-facing names (with or without a leading slash) to a Mode.
func ParseMode(s string) (Mode, bool) {
	switch strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s), "/")) {
	case "lookup", "meanings":
		return ModeLookup, true
	case "examples":
		return ModeExamples, true
	}
	return "", false
}
