package search

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSearch_NoAPIKeyReturnsNil(t *testing.T) {
	s := New("")
	results := s.Search(context.Background(), "query", 5, nil)
	assert.Nil(t, results)
}

func TestFormatResults_Empty(t *testing.T) {
	assert.Equal(t, "(no search results)", FormatResults(nil))
}

func TestFormatResults_RendersTitleAndURL(t *testing.T) {
	out := FormatResults([]Result{{Title: "Example", URL: "https://example.com", Content: "short content"}})
	assert.Contains(t, out, "[source 1] Example")
	assert.Contains(t, out, "https://example.com")
	assert.Contains(t, out, "short content")
}

func TestFormatResults_TruncatesLongContent(t *testing.T) {
	long := strings.Repeat("a", 500)
	out := FormatResults([]Result{{Title: "t", URL: "u", Content: long}})
	assert.Contains(t, out, strings.Repeat("a", 400)+"…")
	assert.NotContains(t, out, strings.Repeat("a", 401))
}

func TestBuildFactQuery_PrefersVerifiableExpression(t *testing.T) {
	expr := "US CPI YoY March 2026"
	got := BuildFactQuery("inflation is rising", &expr)
	assert.Equal(t, expr, got)
}

func TestBuildFactQuery_FallsBackToClaimWhenExpressionMissing(t *testing.T) {
	got := BuildFactQuery("inflation is rising", nil)
	assert.Equal(t, "inflation is rising", got)
}

func TestBuildFactQuery_FallsBackToClaimWhenExpressionEmpty(t *testing.T) {
	empty := ""
	got := BuildFactQuery("inflation is rising", &empty)
	assert.Equal(t, "inflation is rising", got)
}

func TestBuildFactQuery_TruncatesTo200Chars(t *testing.T) {
	long := strings.Repeat("x", 300)
	got := BuildFactQuery(long, nil)
	assert.Len(t, got, 200)
}
