package header

import (
	"regexp"
	"strings"

	"go.trai.ch/stitch/internal/core/domain"
)

const lineEndMarker = "@@ end */"

var requireLine = regexp.MustCompile(`(?i)^[*\s]*//=\s*require\s+(.+)$`)

// LineParser reads `//= require` lines. Scanning stops at the `@@ end */` marker.
type LineParser struct{}

// Parse implements ports.HeaderParser.
func (LineParser) Parse(text string) domain.Header {
	h := domain.Header{End: domain.NoHeader}

	region := text
	marker := strings.Index(text, lineEndMarker)
	if marker != -1 {
		region = text[:marker]
		h.End = marker + len(lineEndMarker)
	}

	offset := 0
	for _, line := range strings.SplitAfter(region, "\n") {
		offset += len(line)
		m := requireLine.FindStringSubmatch(strings.TrimRight(line, "\r\n"))
		if m == nil {
			continue
		}
		if dep := strings.TrimSpace(m[1]); dep != "" {
			h.Dependencies = append(h.Dependencies, dep)
			if marker == -1 {
				h.End = offset
			}
		}
	}

	return h
}

// Strip implements ports.HeaderParser. With an end marker everything through the
// marker goes; without one only the require lines are removed.
func (p LineParser) Strip(text string) string {
	if marker := strings.Index(text, lineEndMarker); marker != -1 {
		return text[marker+len(lineEndMarker):]
	}

	var b strings.Builder
	b.Grow(len(text))
	for _, line := range strings.SplitAfter(text, "\n") {
		if requireLine.MatchString(strings.TrimRight(line, "\r\n")) {
			continue
		}
		b.WriteString(line)
	}
	return b.String()
}
