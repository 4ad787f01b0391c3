package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSubstitutes(t *testing.T) {
	t.Parallel()

	raw := "```json\n{\"original\":\" butter \",\"substitutes\":[{\"name\":\"olive oil\",\"reason\":\"Use 3/4 the amount.\"},{\"name\":\" \",\"reason\":\"x\"}]}\n```"
	got, err := ParseSubstitutes(raw)
	require.NoError(t, err)
	assert.Equal(t, "butter", got.Original)
	require.Len(t, got.Substitutes, 1)
	assert.Equal(t, "olive oil", got.Substitutes[0].Name)

	_, err = ParseSubstitutes(`{"original":"salt","substitutes":[]}`)
	assert.ErrorContains(t, err, "empty substitute list")

	_, err = ParseSubstitutes(`{"original":`)
	assert.Error(t, err)
}

func TestStripCodeFence(t *testing.T) {
	t.Parallel()

	assert.Equal(t, `{"a":1}`, StripCodeFence("```json\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, StripCodeFence("```\n{\"a\":1}```"))
	assert.Equal(t, `{"a":1}`, StripCodeFence("  {\"a\":1}  "))
}

func TestGenerateSubstitutesTool(t *testing.T) {
	t.Parallel()

	tool := GenerateSubstitutesTool(3)
	require.NotNil(t, tool.Function)
	assert.Equal(t, SuggestSubstitutesTool, tool.Function.Name)
}
