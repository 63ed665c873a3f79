package prompt

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewRegistry_ContainsAllThreePromptVersions(t *testing.T) {
	r := NewRegistry()
	for _, v := range []string{"v1_identify", "v2_cot", "v3_adversarial"} {
		p, ok := r.Extraction(v)
		assert.True(t, ok, "expected version %s to exist", v)
		assert.Equal(t, v, p.Version)
		assert.NotEmpty(t, p.SystemPrompt)
	}
}

func TestRegistry_Extraction_UnknownVersion(t *testing.T) {
	r := NewRegistry()
	_, ok := r.Extraction("v99_nonexistent")
	assert.False(t, ok)
}

func TestExtractionPrompt_BuildUserMessage(t *testing.T) {
	p := ExtractionPrompt{Version: "v1_identify", SystemPrompt: "sys"}
	msg := p.BuildUserMessage("some post content", "twitter", "alice")
	assert.Contains(t, msg, "Platform: twitter")
	assert.Contains(t, msg, "Author: alice")
	assert.Contains(t, msg, "some post content")
}

func TestRegistry_V2AndV3BuildOnV1(t *testing.T) {
	r := NewRegistry()
	v1, _ := r.Extraction("v1_identify")
	v2, _ := r.Extraction("v2_cot")
	v3, _ := r.Extraction("v3_adversarial")
	assert.Contains(t, v2.SystemPrompt, v1.SystemPrompt)
	assert.Contains(t, v3.SystemPrompt, v1.SystemPrompt)
	assert.NotEqual(t, v1.SystemPrompt, v2.SystemPrompt)
	assert.NotEqual(t, v1.SystemPrompt, v3.SystemPrompt)
}
