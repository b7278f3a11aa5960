// Package header extracts dependency declarations from the leading annotations of a file.
//
// Two dialects are supported. The block dialect reads one or more
// `/** @depends ... */` comments at the very start of a file, one dependency per
// line. The line dialect reads `//= require <path>` lines up to an optional
// `@@ end */` marker.
package header

import (
	"strings"

	"go.trai.ch/stitch/internal/core/domain"
	"go.trai.ch/stitch/internal/core/ports"
	"go.trai.ch/zerr"
)

// New returns the parser for dialect.
func New(dialect domain.HeaderDialect) (ports.HeaderParser, error) {
	switch dialect {
	case domain.DialectBlock:
		return BlockParser{}, nil
	case domain.DialectLine:
		return LineParser{}, nil
	default:
		return nil, zerr.With(domain.ErrInvalidDialect, "dialect", string(dialect))
	}
}

// splitLines splits text on '\n' and drops a trailing '\r' from every line.
func splitLines(text string) []string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines
}
