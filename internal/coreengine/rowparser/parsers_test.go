package rowparser

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseTranscript(t *testing.T) {
	t.Run("mixed roles with noise line", func(t *testing.T) {
		turns := ParseTranscript("assistant: hi\nuser: hello\nnoise")
		assert.Equal(t, []Turn{
			{Role: "assistant", Content: "hi"},
			{Role: "user", Content: "hello"},
		}, turns)
	})

	t.Run("roles are case-insensitive and lower-cased", func(t *testing.T) {
		turns := ParseTranscript("ASSISTANT: Hello there\nUser:   spaced content")
		assert.Equal(t, []Turn{
			{Role: "assistant", Content: "Hello there"},
			{Role: "user", Content: "spaced content"},
		}, turns)
	})

	t.Run("empty input yields empty sequence", func(t *testing.T) {
		assert.Empty(t, ParseTranscript(""))
	})

	t.Run("only noise yields empty sequence", func(t *testing.T) {
		assert.Empty(t, ParseTranscript("system: nope\n---\nrandom text"))
	})

	t.Run("order preserved and only known roles emitted", func(t *testing.T) {
		raw := "user: one\nassistant: two\nmoderator: skipped\nuser: three"
		turns := ParseTranscript(raw)
		assert.Len(t, turns, 3)
		assert.Equal(t, "one", turns[0].Content)
		assert.Equal(t, "two", turns[1].Content)
		assert.Equal(t, "three", turns[2].Content)
		for _, turn := range turns {
			assert.Contains(t, []string{"assistant", "user"}, turn.Role)
		}
	})

	t.Run("content with colon kept verbatim", func(t *testing.T) {
		turns := ParseTranscript("assistant: note: budget is 500")
		assert.Equal(t, []Turn{{Role: "assistant", Content: "note: budget is 500"}}, turns)
	})
}

func TestParseLeadData(t *testing.T) {
	t.Run("basic key value lines", func(t *testing.T) {
		attrs := ParseLeadData("university_name: MIT\nbudget_currency: USD")
		assert.Equal(t, map[string]string{
			"university_name": "MIT",
			"budget_currency": "USD",
		}, attrs)
	})

	t.Run("splits on first colon only", func(t *testing.T) {
		attrs := ParseLeadData("note: sees: double colons")
		assert.Equal(t, map[string]string{"note": "sees: double colons"}, attrs)
	})

	t.Run("lines without colon are dropped", func(t *testing.T) {
		attrs := ParseLeadData("no colon here\nname: Alice")
		assert.Equal(t, map[string]string{"name": "Alice"}, attrs)
	})

	t.Run("keys and values trimmed", func(t *testing.T) {
		attrs := ParseLeadData("  lease_unit  :  months  ")
		assert.Equal(t, map[string]string{"lease_unit": "months"}, attrs)
	})

	t.Run("empty input yields empty mapping", func(t *testing.T) {
		assert.Empty(t, ParseLeadData(""))
	})
}
