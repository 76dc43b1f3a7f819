package worker

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type countingSource struct {
	calls atomic.Int32
	err   error
}

func (s *countingSource) RefreshListing(context.Context) (int, error) {
	s.calls.Add(1)
	return 3, s.err
}

func TestListingRefresher_RefreshesUntilCancelled(t *testing.T) {
	src := &countingSource{}
	w := NewListingRefresher(src, 10*time.Millisecond, time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Start(ctx)
		close(done)
	}()

	assert.Eventually(t, func() bool { return src.calls.Load() >= 3 }, time.Second, 5*time.Millisecond)
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("refresher did not stop")
	}
}

func TestListingRefresher_KeepsGoingAfterErrors(t *testing.T) {
	src := &countingSource{err: errors.New("backend down")}
	w := NewListingRefresher(src, 10*time.Millisecond, 0)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Start(ctx)

	assert.Eventually(t, func() bool { return src.calls.Load() >= 2 }, time.Second, 5*time.Millisecond)
}

func TestListingRefresher_Disabled(t *testing.T) {
	src := &countingSource{}
	w := NewListingRefresher(src, 0, 0)

	// returns immediately
	w.Start(context.Background())
	assert.Equal(t, int32(0), src.calls.Load())
}
