package pipeline

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseMonitoringDate(t *testing.T) {
	ok := func(s string) *string { return &s }

	cases := []struct {
		name string
		note *string
		want bool
	}{
		{"nil note", nil, false},
		{"empty note", ok(""), false},
		{"iso date", ok("2030-01-01"), true},
		{"year-month", ok("2030-01"), true},
		{"year only", ok("2030"), true},
		{"garbage", ok("next year"), false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, got := parseMonitoringDate(tc.note)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestMonitoringWindow_UsesLLMDatesWhenParsable(t *testing.T) {
	start, end := "2025-01-01", "2029-01-01"
	gotStart, gotEnd := monitoringWindow(&start, &end)
	assert.Equal(t, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), gotStart)
	assert.Equal(t, time.Date(2029, 1, 1, 0, 0, 0, 0, time.UTC), gotEnd)
}

func TestMonitoringWindow_FallsBackOnMissingDates(t *testing.T) {
	before := time.Now().UTC()
	gotStart, gotEnd := monitoringWindow(nil, nil)
	after := time.Now().UTC()

	assert.True(t, !gotStart.Before(before) && !gotStart.After(after))
	assert.WithinDuration(t, gotStart.Add(defaultMonitoringWindow), gotEnd, time.Second)
}

func TestMonitoringWindow_FallsBackOnUnparsableEnd(t *testing.T) {
	start, end := "2025-01-01", "whenever"
	gotStart, gotEnd := monitoringWindow(&start, &end)
	assert.NotEqual(t, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), gotStart)
	assert.True(t, gotEnd.After(gotStart))
}
