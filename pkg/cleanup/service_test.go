package cleanup

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/anchorwatch/anchor/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePurger struct {
	supersededCount int64
	supersededErr   error
	terminalCount   int64
	terminalErr     error
	terminalCutoff  time.Time
}

func (f *fakePurger) PurgeSupersededFactEvaluations(ctx context.Context) (int64, error) {
	return f.supersededCount, f.supersededErr
}

func (f *fakePurger) PurgeTerminalPosts(ctx context.Context, cutoff time.Time) (int64, error) {
	f.terminalCutoff = cutoff
	return f.terminalCount, f.terminalErr
}

func testConfig() *config.RetentionConfig {
	return &config.RetentionConfig{PostRetentionDays: 90, CleanupInterval: time.Hour}
}

func TestService_RunAllPurgesBoth(t *testing.T) {
	repo := &fakePurger{supersededCount: 3, terminalCount: 2}
	svc := NewService(testConfig(), repo)

	svc.runAll(context.Background())

	wantCutoff := time.Now().AddDate(0, 0, -90)
	assert.WithinDuration(t, wantCutoff, repo.terminalCutoff, time.Minute)
}

func TestService_RunAllToleratesPurgeErrors(t *testing.T) {
	repo := &fakePurger{supersededErr: errors.New("db down"), terminalErr: errors.New("db down")}
	svc := NewService(testConfig(), repo)

	require.NotPanics(t, func() { svc.runAll(context.Background()) })
}

func TestService_StartStop(t *testing.T) {
	repo := &fakePurger{}
	svc := NewService(&config.RetentionConfig{PostRetentionDays: 90, CleanupInterval: 10 * time.Millisecond}, repo)

	svc.Start(context.Background())
	time.Sleep(30 * time.Millisecond)
	svc.Stop()
}
