package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveIDs_MapsIndexesToIDs(t *testing.T) {
	ids := []int64{100, 200, 300}
	got := resolveIDs([]int{2, 0}, ids)
	assert.Equal(t, []int64{300, 100}, got)
}

func TestResolveIDs_EmptyIndexesReturnsEmpty(t *testing.T) {
	got := resolveIDs(nil, []int64{100, 200})
	assert.Empty(t, got)
}
