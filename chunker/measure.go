package chunker

import (
	"strings"
	"unicode/utf8"
)

// measureFunc converts text to a non-negative scalar size in the configured
// unit. Token measurement may fail; char and word never do.
type measureFunc func(text string) (int, error)

func newMeasurer(unit Unit, tokenize TokenizerFunc) (measureFunc, error) {
	switch unit {
	case UnitChar:
		return func(text string) (int, error) {
			return utf8.RuneCountInString(text), nil
		}, nil
	case UnitWord:
		return func(text string) (int, error) {
			return len(strings.Fields(text)), nil
		}, nil
	case UnitToken:
		if tokenize == nil {
			return nil, &ConfigError{Reason: "token unit requires a tokenizer"}
		}
		return func(text string) (int, error) {
			return tokenize(text)
		}, nil
	default:
		return nil, &ConfigError{Reason: "unknown unit " + string(unit)}
	}
}
