package ports

import "go.trai.ch/stitch/internal/core/domain"

// HeaderParser extracts dependency declarations from a file's leading annotations.
type HeaderParser interface {
	// Parse returns the declared dependencies and where the header ends.
	Parse(text string) domain.Header
	// Strip returns text with its leading header annotations removed.
	Strip(text string) string
}
