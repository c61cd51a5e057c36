package resilience

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/COSYBANANA63/gitcards/internal/apperror"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// countingHooks counts start/stop transitions for pairing assertions.
type countingHooks struct {
	starts atomic.Int32
	stops  atomic.Int32
}

func (h *countingHooks) hooks() Hooks {
	return Hooks{
		Start: func() { h.starts.Add(1) },
		Stop:  func() { h.stops.Add(1) },
	}
}

func TestGuard_Success(t *testing.T) {
	h := &countingHooks{}
	guard := NewGuard(time.Second, nil, h.hooks(), discardLogger())

	err := guard.Do(context.Background(), "profile", func(ctx context.Context) error {
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, int32(1), h.starts.Load())
	assert.Equal(t, int32(1), h.stops.Load())
}

func TestGuard_OfflineShortCircuits(t *testing.T) {
	h := &countingHooks{}
	guard := NewGuard(time.Second, func() bool { return false }, h.hooks(), discardLogger())

	called := false
	err := guard.Do(context.Background(), "profile", func(ctx context.Context) error {
		called = true
		return nil
	})

	assert.ErrorIs(t, err, apperror.ErrOffline)
	assert.False(t, called, "offline must never issue the call")
	assert.Zero(t, h.starts.Load(), "loading indicator must never activate while offline")
	assert.Zero(t, h.stops.Load())
}

func TestGuard_TimeoutClassification(t *testing.T) {
	h := &countingHooks{}
	guard := NewGuard(20*time.Millisecond, func() bool { return true }, h.hooks(), discardLogger())

	err := guard.Do(context.Background(), "repositories", func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})

	assert.ErrorIs(t, err, apperror.ErrTimeout)
	assert.Equal(t, "request timed out, check your connection and try again", apperror.UserMessage(err))
	assert.Equal(t, int32(1), h.starts.Load())
	assert.Equal(t, int32(1), h.stops.Load(), "loading state must clear exactly once on timeout")
}

func TestGuard_PassesThroughClassifiedErrors(t *testing.T) {
	h := &countingHooks{}
	guard := NewGuard(time.Second, func() bool { return true }, h.hooks(), discardLogger())

	want := apperror.NotFound("user")
	err := guard.Do(context.Background(), "profile", func(ctx context.Context) error {
		return want
	})

	assert.ErrorIs(t, err, apperror.ErrNotFound)
	assert.Equal(t, int32(1), h.stops.Load())
}

func TestGuard_StopFiresOncePerOutcome(t *testing.T) {
	h := &countingHooks{}
	guard := NewGuard(time.Second, nil, h.hooks(), discardLogger())

	_ = guard.Do(context.Background(), "profile", func(ctx context.Context) error { return nil })
	_ = guard.Do(context.Background(), "profile", func(ctx context.Context) error { return errors.New("boom") })

	assert.Equal(t, int32(2), h.starts.Load())
	assert.Equal(t, int32(2), h.stops.Load())
}

func TestWatcher_TransitionsRaiseAndClearBanner(t *testing.T) {
	var reachable atomic.Bool
	reachable.Store(false)
	probe := func(ctx context.Context) bool { return reachable.Load() }

	w := NewWatcher(probe, 5*time.Millisecond, discardLogger())

	var transitions atomic.Int32
	w.OnChange(func(online bool) { transitions.Add(1) })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = w.Run(ctx)
	}()

	require.Eventually(t, func() bool { return !w.Online() }, time.Second, time.Millisecond)
	msg, up := w.Banner()
	assert.True(t, up)
	assert.Equal(t, BannerMessage, msg)

	reachable.Store(true)
	require.Eventually(t, func() bool { return w.Online() }, time.Second, time.Millisecond)
	_, up = w.Banner()
	assert.False(t, up, "banner clears when connectivity returns")
	assert.GreaterOrEqual(t, transitions.Load(), int32(2))

	cancel()
	<-done
}
