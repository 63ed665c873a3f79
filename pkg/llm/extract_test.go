package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type extractTarget struct {
	Result string `json:"result"`
}

func TestExtractJSON_FencedBlock(t *testing.T) {
	raw := "Here is my answer:\n```json\n{\"result\": \"true\"}\n```\nThanks."
	var out extractTarget
	ok := ExtractJSON(raw, &out)
	assert.True(t, ok)
	assert.Equal(t, "true", out.Result)
}

func TestExtractJSON_BareObjectNoFence(t *testing.T) {
	raw := `some prose before {"result": "false"} and after`
	var out extractTarget
	ok := ExtractJSON(raw, &out)
	assert.True(t, ok)
	assert.Equal(t, "false", out.Result)
}

func TestExtractJSON_NoBracesFails(t *testing.T) {
	var out extractTarget
	ok := ExtractJSON("no json here at all", &out)
	assert.False(t, ok)
}

func TestExtractJSON_MalformedFencedFallsBackToBraceScan(t *testing.T) {
	raw := "```json\nnot actually json\n```\nbut here: {\"result\": \"uncertain\"}"
	var out extractTarget
	ok := ExtractJSON(raw, &out)
	assert.True(t, ok)
	assert.Equal(t, "uncertain", out.Result)
}

func TestExtractJSON_UnbalancedBracesFails(t *testing.T) {
	var out extractTarget
	ok := ExtractJSON(`} { malformed`, &out)
	assert.False(t, ok)
}
