package context

import (
	"context"
	"testing"

	"github.com/anchorwatch/anchor/pkg/models"
	"github.com/stretchr/testify/assert"
)

func TestAssemble_NoPieces(t *testing.T) {
	out := assemble("hello world", nil)
	assert.Equal(t, "[main content]\nhello world", out)
}

func TestAssemble_OrdersPrecedingPiecesBeforeMainContent(t *testing.T) {
	pieces := []Piece{
		{Role: RoleQuoted, Author: "bob", Content: "original claim"},
		{Role: RoleParentReply, Author: "carol", Content: "in reply to"},
		{Role: RoleThreadPrev, Author: "dave", Content: "earlier in thread"},
	}
	out := assemble("my reply", pieces)

	quotedIdx := indexOf(out, "[quoted content]")
	parentIdx := indexOf(out, "[replying to]")
	prevIdx := indexOf(out, "[previous in thread]")
	mainIdx := indexOf(out, "[main content]")

	assert.True(t, quotedIdx >= 0 && parentIdx >= 0 && prevIdx >= 0 && mainIdx >= 0)
	assert.True(t, quotedIdx < mainIdx)
	assert.True(t, parentIdx < mainIdx)
	assert.True(t, prevIdx < mainIdx)
}

func TestAssemble_ThreadNextComesAfterMainContent(t *testing.T) {
	pieces := []Piece{{Role: RoleThreadNext, Content: "continued thought"}}
	out := assemble("my post", pieces)

	mainIdx := indexOf(out, "[main content]")
	nextIdx := indexOf(out, "[continued in thread]")
	assert.True(t, mainIdx >= 0 && nextIdx >= 0)
	assert.True(t, mainIdx < nextIdx)
}

func TestEnrich_AlreadyFetchedIsNoOp(t *testing.T) {
	e := New(nil, nil)
	err := e.Enrich(context.Background(), &models.RawPost{ID: 1, ContextFetched: true})
	assert.NoError(t, err)
}

func indexOf(haystack, needle string) int {
	for i := 0; i+len(needle) <= len(haystack); i++ {
		if haystack[i:i+len(needle)] == needle {
			return i
		}
	}
	return -1
}
