package header

import (
	"regexp"
	"strings"
	"unicode"

	"go.trai.ch/stitch/internal/core/domain"
)

const blockClose = "*/"

var (
	blockOpen = regexp.MustCompile(`^\s*/\*\* @depends`)
	blockLine = regexp.MustCompile(`^[*\s]*([^*\s].*)$`)
)

// BlockParser reads stacked `/** @depends */` comments at the start of a file.
type BlockParser struct{}

// Parse implements ports.HeaderParser.
func (BlockParser) Parse(text string) domain.Header {
	h := domain.Header{End: domain.NoHeader}
	offset := 0

	for {
		rest := text[offset:]
		if !blockOpen.MatchString(rest) {
			return h
		}
		end := strings.Index(rest, blockClose)
		if end == -1 {
			// Unterminated: whatever was read so far stands.
			return h
		}

		// The opener is the first line once leading whitespace is gone.
		block := strings.TrimLeftFunc(rest[:end], unicode.IsSpace)
		lines := splitLines(block)
		for _, line := range lines[1:] {
			m := blockLine.FindStringSubmatch(line)
			if m == nil {
				continue
			}
			if dep := strings.TrimSpace(m[1]); dep != "" {
				h.Dependencies = append(h.Dependencies, dep)
			}
		}

		offset += end + len(blockClose)
		h.End = offset
	}
}

// Strip implements ports.HeaderParser.
func (p BlockParser) Strip(text string) string {
	h := p.Parse(text)
	if !h.HasHeader() {
		return text
	}
	return text[h.End:]
}
