package logger

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// messager is implemented by zerr errors, which report their own message
// without the wrapped chain.
type messager interface {
	Message() string
}

type metadataer interface {
	Metadata() map[string]any
}

type multiUnwrapper interface {
	Unwrap() []error
}

type errorEntry struct {
	message  string
	metadata map[string]any
}

// collectErrorEntries flattens err into one entry per link of its chain.
// Joined errors contribute each of their members in order. A link that only
// carries metadata (zerr.With on a plain error) lends it to the next link.
func collectErrorEntries(err error) []errorEntry {
	var entries []errorEntry
	var pending map[string]any

	add := func(e errorEntry) {
		if len(pending) > 0 {
			if e.metadata == nil {
				e.metadata = make(map[string]any, len(pending))
			}
			for k, v := range pending {
				e.metadata[k] = v
			}
			pending = nil
		}
		entries = append(entries, e)
	}

	for current := err; current != nil; {
		if joined, ok := current.(multiUnwrapper); ok {
			for _, member := range joined.Unwrap() {
				for _, e := range collectErrorEntries(member) {
					add(e)
				}
			}
			return entries
		}

		m, ok := current.(messager)
		if !ok {
			add(errorEntry{message: current.Error()})
			return entries
		}

		var md map[string]any
		if withMD, ok := current.(metadataer); ok {
			md = withMD.Metadata()
		}

		if m.Message() == "" {
			if pending == nil {
				pending = make(map[string]any, len(md))
			}
			for k, v := range md {
				pending[k] = v
			}
		} else {
			add(errorEntry{message: m.Message(), metadata: md})
		}
		current = errors.Unwrap(current)
	}

	return entries
}

// formatErrorEntries renders the first entry as the error and the rest as causes.
func formatErrorEntries(entries []errorEntry) string {
	var out []string

	for i, entry := range entries {
		lines := strings.Split(entry.message, "\n")
		lines[0] += formatMetadata(entry.metadata)

		if i == 0 {
			out = append(out, "Error: "+lines[0])
			for _, line := range lines[1:] {
				out = append(out, "       "+line)
			}
			continue
		}

		if i == 1 {
			out = append(out, "", "  Caused by:")
		}
		out = append(out, "    → "+lines[0])
		for _, line := range lines[1:] {
			out = append(out, "      "+line)
		}
	}

	return strings.Join(out, "\n")
}

func formatMetadata(md map[string]any) string {
	if len(md) == 0 {
		return ""
	}

	keys := make([]string, 0, len(md))
	for k := range md {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s=%v", k, md[k])
	}
	return " [" + strings.Join(parts, " ") + "]"
}
