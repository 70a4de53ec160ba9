// Package sheet maps protocol questions to and from their tabular
// (spreadsheet/CSV) representation.
//
// The mapping is a practical, not mathematical, inverse: a re-imported
// export reconstructs an equivalent question set except for MULTIPLA
// options whose text itself contains the ", " join delimiter.
package sheet

import "strings"

// optionDelimiters is the detection cascade for the Opções column, in
// fixed priority order. Option text may itself contain commas, so the
// comma is tried last to minimize false splits. The first delimiter that
// yields more than one non-empty trimmed token wins; changing this order
// changes how historical sheets parse.
var optionDelimiters = []string{". ", "\n", ";", ","}

// ParseOptions splits a raw option cell into its option list using the
// delimiter cascade. Input with no recognized delimiter becomes a single
// option holding the trimmed original string; blank input yields nil.
func ParseOptions(raw string) []string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil
	}
	for _, delim := range optionDelimiters {
		tokens := splitTrimmed(trimmed, delim)
		if len(tokens) > 1 {
			return tokens
		}
	}
	return []string{trimmed}
}

func splitTrimmed(s, delim string) []string {
	var out []string
	for _, part := range strings.Split(s, delim) {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
