package rowparser

import (
	"regexp"
	"strings"
)

// Turn is a single dialogue turn extracted from a raw transcript cell.
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// transcriptLinePattern matches lines of the form "assistant: ..." or
// "user: ...", case-insensitively. Anything else in the transcript cell
// (timestamps, separators, noise) is skipped rather than treated as an error.
var transcriptLinePattern = regexp.MustCompile(`(?i)^(assistant|user):\s*(.*)$`)

// ParseTranscript converts a raw multi-line transcript cell into an ordered
// sequence of turns. Lines that do not match the "role: content" pattern
// contribute nothing; relative order of matching lines is preserved. The role
// is lower-cased, the content is kept verbatim.
func ParseTranscript(raw string) []Turn {
	turns := []Turn{}
	if raw == "" {
		return turns
	}
	for _, line := range strings.Split(raw, "\n") {
		m := transcriptLinePattern.FindStringSubmatch(strings.TrimSpace(line))
		if m == nil {
			continue
		}
		turns = append(turns, Turn{
			Role:    strings.ToLower(m[1]),
			Content: m[2],
		})
	}
	return turns
}

// ParseLeadData converts a raw multi-line "key: value" cell into a flat
// attribute map. Each line is split on the first colon only, so values may
// themselves contain colons. Lines without a colon are skipped. Keys and
// values are trimmed.
func ParseLeadData(raw string) map[string]string {
	attrs := map[string]string{}
	if raw == "" {
		return attrs
	}
	for _, line := range strings.Split(raw, "\n") {
		key, value, found := strings.Cut(line, ":")
		if !found {
			continue
		}
		attrs[strings.TrimSpace(key)] = strings.TrimSpace(value)
	}
	return attrs
}
