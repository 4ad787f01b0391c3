package llm

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubstitutesRequest_SendsTemperature(t *testing.T) {
	t.Parallel()
	client := NewOpenAIClient("key", "http://localhost:1", "test-model")

	req := client.substitutesRequest("butter")
	assert.Equal(t, "test-model", req.Model)
	assert.True(t, req.Stream)
	require.Len(t, req.Tools, 1)

	body, err := json.Marshal(req)
	require.NoError(t, err)
	var raw map[string]any
	require.NoError(t, json.Unmarshal(body, &raw))

	temperature, ok := raw["temperature"]
	require.True(t, ok, "temperature must be on the wire")
	assert.InDelta(t, 0, temperature, 1e-6)
}
