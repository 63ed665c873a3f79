package extract

import (
	"context"
	"testing"
	"time"

	"github.com/anchorwatch/anchor/pkg/llm"
	"github.com/anchorwatch/anchor/pkg/models"
	"github.com/anchorwatch/anchor/pkg/prompt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeVisionGateway struct {
	completions []*llm.Completion
	err         error
	calls       int
}

func (f *fakeVisionGateway) Complete(ctx context.Context, system, user string, maxTokens int) (*llm.Completion, error) {
	return nil, nil
}

func (f *fakeVisionGateway) CompleteVision(ctx context.Context, system, user, imageURL string, maxTokens int) (*llm.Completion, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.calls >= len(f.completions) {
		return nil, nil
	}
	c := f.completions[f.calls]
	f.calls++
	return c, nil
}

func (f *fakeVisionGateway) TranscribeAudio(ctx context.Context, path, language string) (string, error) {
	return "", nil
}

func TestNew_UnknownPromptVersionFails(t *testing.T) {
	_, err := New(nil, nil, prompt.NewRegistry(), "v99_nonexistent")
	require.Error(t, err)
}

func TestNew_KnownPromptVersionSucceeds(t *testing.T) {
	e, err := New(nil, nil, prompt.NewRegistry(), "v1_identify")
	require.NoError(t, err)
	assert.NotNil(t, e)
}

func TestExtract_AlreadyProcessedPostSkipsImmediately(t *testing.T) {
	e, err := New(nil, nil, prompt.NewRegistry(), "v1_identify")
	require.NoError(t, err)

	wrote, err := e.Extract(context.Background(), &models.RawPost{ID: 1, IsProcessed: true})
	assert.NoError(t, err)
	assert.False(t, wrote)
}

func TestBoundedIndexes_FiltersOutOfRange(t *testing.T) {
	got := boundedIndexes([]int{-1, 0, 1, 2, 5}, 3)
	assert.Equal(t, []int{0, 1, 2}, got)
}

func TestBoundedIndexes_EmptyInput(t *testing.T) {
	got := boundedIndexes(nil, 3)
	assert.Empty(t, got)
}

func TestParseTimeNote_NilOrEmpty(t *testing.T) {
	assert.Nil(t, parseTimeNote(nil))
	empty := ""
	assert.Nil(t, parseTimeNote(&empty))
}

func TestParseTimeNote_RecognizedLayouts(t *testing.T) {
	cases := []struct {
		note string
		want time.Time
	}{
		{"2026-03-15", time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)},
		{"2026-03", time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)},
		{"2026", time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)},
	}
	for _, tc := range cases {
		t.Run(tc.note, func(t *testing.T) {
			got := parseTimeNote(&tc.note)
			if assert.NotNil(t, got) {
				assert.True(t, tc.want.Equal(*got))
			}
		})
	}
}

func TestParseTimeNote_UnparseableDropped(t *testing.T) {
	note := "sometime next quarter"
	assert.Nil(t, parseTimeNote(&note))
}

func TestDescribeMedia_NoMediaJSONReturnsEmpty(t *testing.T) {
	e := &Extractor{gateway: &fakeVisionGateway{}}
	assert.Empty(t, e.describeMedia(context.Background(), &models.RawPost{}))
}

func TestDescribeMedia_NonPhotoMediaIgnored(t *testing.T) {
	e := &Extractor{gateway: &fakeVisionGateway{}}
	media := `[{"type": "video", "url": "https://example.com/v.mp4"}]`
	assert.Empty(t, e.describeMedia(context.Background(), &models.RawPost{MediaJSON: &media}))
}

func TestDescribeMedia_SinglePhotoReturnsDescriptionUnprefixed(t *testing.T) {
	gw := &fakeVisionGateway{completions: []*llm.Completion{{Content: "a chart showing rising CPI"}}}
	e := &Extractor{gateway: gw}
	media := `[{"type": "photo", "url": "https://example.com/1.png"}]`
	got := e.describeMedia(context.Background(), &models.RawPost{MediaJSON: &media})
	assert.Equal(t, "a chart showing rising CPI", got)
	assert.Equal(t, 1, gw.calls)
}

func TestDescribeMedia_MultiplePhotosAreNumberedAndJoined(t *testing.T) {
	gw := &fakeVisionGateway{completions: []*llm.Completion{
		{Content: "first image"}, {Content: "second image"},
	}}
	e := &Extractor{gateway: gw}
	media := `[{"type": "photo", "url": "https://example.com/1.png"}, {"type": "gif", "url": "https://example.com/2.gif"}]`
	got := e.describeMedia(context.Background(), &models.RawPost{MediaJSON: &media})
	assert.Equal(t, "[image 1] first image\n\n[image 2] second image", got)
}

func TestDescribeMedia_FailedCallsAreSkipped(t *testing.T) {
	gw := &fakeVisionGateway{completions: []*llm.Completion{nil, {Content: "second image"}}}
	e := &Extractor{gateway: gw}
	media := `[{"type": "photo", "url": "https://example.com/1.png"}, {"type": "photo", "url": "https://example.com/2.png"}]`
	got := e.describeMedia(context.Background(), &models.RawPost{MediaJSON: &media})
	assert.Equal(t, "second image", got)
}

func TestDescribeMedia_MalformedJSONReturnsEmpty(t *testing.T) {
	e := &Extractor{gateway: &fakeVisionGateway{}}
	media := `not json`
	assert.Empty(t, e.describeMedia(context.Background(), &models.RawPost{MediaJSON: &media}))
}
