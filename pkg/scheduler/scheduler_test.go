package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fakeRunner struct {
	name  string
	order *[]string
	calls int
	n     int
	err   error
}

func (f *fakeRunner) Run(ctx context.Context, limit int) (int, error) {
	f.calls++
	if f.order != nil {
		*f.order = append(*f.order, f.name)
	}
	return f.n, f.err
}

func TestScheduler_RunOnceInvokesStepsInOrder(t *testing.T) {
	var order []string
	a := &fakeRunner{name: "a", order: &order, n: 1}
	b := &fakeRunner{name: "b", order: &order, n: 2}

	s := New(time.Hour, 50)
	s.Register("a", a)
	s.Register("b", b)

	s.RunOnce(context.Background())

	assert.Equal(t, []string{"a", "b"}, order)
	assert.Equal(t, 1, a.calls)
	assert.Equal(t, 1, b.calls)
}

func TestScheduler_RunOnceContinuesAfterStepError(t *testing.T) {
	failing := &fakeRunner{name: "failing", err: errors.New("boom")}
	next := &fakeRunner{name: "next", n: 1}

	s := New(time.Hour, 50)
	s.Register("failing", failing)
	s.Register("next", next)

	assert.NotPanics(t, func() { s.RunOnce(context.Background()) })
	assert.Equal(t, 1, next.calls)
}

func TestScheduler_StartStop(t *testing.T) {
	r := &fakeRunner{name: "r", n: 1}
	s := New(10*time.Millisecond, 10)
	s.Register("r", r)

	s.Start(context.Background())
	time.Sleep(30 * time.Millisecond)
	s.Stop()

	assert.GreaterOrEqual(t, r.calls, 1)
}
