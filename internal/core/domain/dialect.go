package domain

import (
	"strings"

	"go.trai.ch/zerr"
)

// HeaderDialect selects how dependency headers are written in source files.
type HeaderDialect string

const (
	// DialectBlock is a leading "/** @depends" block comment, one path per line.
	DialectBlock HeaderDialect = "block"
	// DialectLine is a set of "//= require path" lines, optionally ended by "@@ end */".
	DialectLine HeaderDialect = "line"
)

// DefaultDialect is used when no dialect is configured.
const DefaultDialect = DialectBlock

// ParseDialect converts a configured name to a HeaderDialect.
// An empty name yields DefaultDialect.
func ParseDialect(name string) (HeaderDialect, error) {
	switch HeaderDialect(strings.ToLower(strings.TrimSpace(name))) {
	case "":
		return DefaultDialect, nil
	case DialectBlock:
		return DialectBlock, nil
	case DialectLine:
		return DialectLine, nil
	default:
		return "", zerr.With(ErrInvalidDialect, "dialect", name)
	}
}
