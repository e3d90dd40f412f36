package worker

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/Republica-Facil/republica-facil-backend/pkg/logging"
)

type fakeMarker struct {
	mu    sync.Mutex
	calls []time.Time
	err   error
	ch    chan struct{}
}

func (f *fakeMarker) MarkOverdue(_ context.Context, now time.Time) (int64, error) {
	f.mu.Lock()
	f.calls = append(f.calls, now)
	f.mu.Unlock()
	select {
	case f.ch <- struct{}{}:
	default:
	}
	return 1, f.err
}

func (f *fakeMarker) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func TestOverdueWorker_ScansUntilCancelled(t *testing.T) {
	marker := &fakeMarker{ch: make(chan struct{}, 1)}
	w := NewOverdueWorker(marker, logging.Discard(), 10*time.Millisecond)
	fixed := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	w.now = func() time.Time { return fixed }

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Start(ctx)
		close(done)
	}()

	deadline := time.After(2 * time.Second)
	for marker.count() < 3 {
		select {
		case <-marker.ch:
		case <-deadline:
			t.Fatalf("expected at least 3 scans, got %d", marker.count())
		}
	}

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not stop after cancel")
	}

	marker.mu.Lock()
	defer marker.mu.Unlock()
	for _, call := range marker.calls {
		if !call.Equal(fixed) {
			t.Errorf("scan used time %v, want %v", call, fixed)
		}
	}
}

func TestOverdueWorker_SurvivesErrors(t *testing.T) {
	marker := &fakeMarker{ch: make(chan struct{}, 1), err: errors.New("database is locked")}
	w := NewOverdueWorker(marker, logging.Discard(), 5*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Start(ctx)

	deadline := time.After(2 * time.Second)
	for marker.count() < 2 {
		select {
		case <-marker.ch:
		case <-deadline:
			t.Fatalf("worker stopped scanning after an error, got %d scans", marker.count())
		}
	}
}
