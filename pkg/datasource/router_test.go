package datasource

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeAdapter struct {
	result Result
}

func (f *fakeAdapter) Query(ctx context.Context, params map[string]string) Result {
	return f.result
}

func TestRouter_Query_DispatchesToCanonicalAdapter(t *testing.T) {
	r := NewRouter(map[string]Adapter{
		"fred": &fakeAdapter{result: Result{OK: true, Content: "fred data", SourceType: "fred"}},
	})
	res := r.Query(context.Background(), "fred", nil)
	assert.True(t, res.OK)
	assert.Equal(t, "fred data", res.Content)
}

func TestRouter_Query_ResolvesAliases(t *testing.T) {
	r := NewRouter(map[string]Adapter{
		"world_bank":       &fakeAdapter{result: Result{OK: true, Content: "wb"}},
		"federal_register": &fakeAdapter{result: Result{OK: true, Content: "fedreg"}},
		"china_macro":       &fakeAdapter{result: Result{OK: true, Content: "cn"}},
	})

	cases := []struct {
		alias string
		want  string
	}{
		{"worldbank", "wb"},
		{"wb", "wb"},
		{"fed_register", "fedreg"},
		{"fedreg", "fedreg"},
		{"akshare", "cn"},
		{"akshare_cn", "cn"},
		{"china", "cn"},
	}
	for _, tc := range cases {
		t.Run(tc.alias, func(t *testing.T) {
			res := r.Query(context.Background(), tc.alias, nil)
			assert.True(t, res.OK)
			assert.Equal(t, tc.want, res.Content)
		})
	}
}

func TestRouter_Query_CaseAndWhitespaceInsensitive(t *testing.T) {
	r := NewRouter(map[string]Adapter{
		"fred": &fakeAdapter{result: Result{OK: true, Content: "fred data"}},
	})
	res := r.Query(context.Background(), "  FRED  ", nil)
	assert.True(t, res.OK)
}

func TestRouter_Query_WebSourceTypeAlwaysNotOK(t *testing.T) {
	r := NewRouter(map[string]Adapter{
		"web": &fakeAdapter{result: Result{OK: true, Content: "should never be reached"}},
	})
	res := r.Query(context.Background(), "web", nil)
	assert.False(t, res.OK)
	assert.Equal(t, "web", res.SourceType)
}

func TestRouter_Query_UnknownSourceTypeReturnsNotOK(t *testing.T) {
	r := NewRouter(map[string]Adapter{})
	res := r.Query(context.Background(), "mystery_source", nil)
	assert.False(t, res.OK)
	assert.Contains(t, res.Content, "mystery_source")
}

func TestRouter_Query_RecognizedCanonicalButUnregisteredAdapter(t *testing.T) {
	r := NewRouter(map[string]Adapter{})
	res := r.Query(context.Background(), "imf", nil)
	assert.False(t, res.OK)
}
