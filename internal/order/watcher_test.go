package order

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/campusbites/campusbites/internal/domain"
)

type scriptedFetcher struct {
	calls     int
	statuses  []domain.OrderStatus
	failCalls map[int]bool
}

func (f *scriptedFetcher) Order(ctx context.Context, id int) (*domain.Order, error) {
	call := f.calls
	f.calls++

	if f.failCalls[call] {
		return nil, errors.New("backend unavailable")
	}

	idx := call
	if idx >= len(f.statuses) {
		idx = len(f.statuses) - 1
	}
	return &domain.Order{ID: id, Status: f.statuses[idx]}, nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestWatcher_ReportsStatusChanges(t *testing.T) {
	fetcher := &scriptedFetcher{
		statuses: []domain.OrderStatus{
			domain.OrderStatusPlaced,
			domain.OrderStatusPlaced,
			domain.OrderStatusAccepted,
			domain.OrderStatusDelivered,
		},
	}
	watcher := NewWatcher(fetcher, time.Millisecond, discardLogger())

	var seen []domain.OrderStatus
	err := watcher.Watch(context.Background(), 7, func(order domain.Order) {
		seen = append(seen, order.Status)
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []domain.OrderStatus{
		domain.OrderStatusPlaced,
		domain.OrderStatusAccepted,
		domain.OrderStatusDelivered,
	}
	if len(seen) != len(want) {
		t.Fatalf("expected %d updates, got %d: %v", len(want), len(seen), seen)
	}
	for i := range want {
		if seen[i] != want[i] {
			t.Errorf("update %d: expected %s, got %s", i, want[i], seen[i])
		}
	}
}

func TestWatcher_StopsAtTerminalStatus(t *testing.T) {
	fetcher := &scriptedFetcher{
		statuses: []domain.OrderStatus{domain.OrderStatusRejected},
	}
	watcher := NewWatcher(fetcher, time.Millisecond, discardLogger())

	var updates int
	err := watcher.Watch(context.Background(), 7, func(domain.Order) {
		updates++
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updates != 1 {
		t.Errorf("expected 1 update, got %d", updates)
	}
	if fetcher.calls != 1 {
		t.Errorf("expected polling to stop after the initial fetch, got %d calls", fetcher.calls)
	}
}

func TestWatcher_FailedPollKeepsLastState(t *testing.T) {
	fetcher := &scriptedFetcher{
		statuses: []domain.OrderStatus{
			domain.OrderStatusPlaced,
			domain.OrderStatusPlaced,
			domain.OrderStatusDelivered,
		},
		failCalls: map[int]bool{1: true},
	}
	watcher := NewWatcher(fetcher, time.Millisecond, discardLogger())

	var seen []domain.OrderStatus
	err := watcher.Watch(context.Background(), 7, func(order domain.Order) {
		seen = append(seen, order.Status)
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(seen) != 2 {
		t.Fatalf("expected 2 updates, got %v", seen)
	}
	if seen[1] != domain.OrderStatusDelivered {
		t.Errorf("expected delivered after recovery, got %s", seen[1])
	}
}

func TestWatcher_InitialFetchError(t *testing.T) {
	fetcher := &scriptedFetcher{failCalls: map[int]bool{0: true}}
	watcher := NewWatcher(fetcher, time.Millisecond, discardLogger())

	err := watcher.Watch(context.Background(), 7, func(domain.Order) {
		t.Error("no update expected when the initial fetch fails")
	})
	if err == nil {
		t.Error("expected an error")
	}
}

func TestWatcher_ContextCancellation(t *testing.T) {
	fetcher := &scriptedFetcher{
		statuses: []domain.OrderStatus{domain.OrderStatusPlaced},
	}
	watcher := NewWatcher(fetcher, time.Hour, discardLogger())

	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		done <- watcher.Watch(ctx, 7, func(domain.Order) {})
	}()

	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop after cancellation")
	}
}
