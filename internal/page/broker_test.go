package page

import (
	"context"
	"errors"
	"testing"
	"time"

	"storylink/internal/services"
)

func TestBrokerNotifyAndFetch(t *testing.T) {
	broker := NewBroker(2)
	ctx := services.WithStoryID(services.WithRequestID(context.Background(), "corr-1"), "42")

	for i := 0; i < 3; i++ {
		if err := broker.Notify(ctx, "hyperaudioInit"); err != nil {
			t.Fatalf("Notify returned error: %v", err)
		}
	}

	events, next, err := broker.Fetch(context.Background(), 0, false)
	if err != nil {
		t.Fatalf("Fetch returned error: %v", err)
	}
	if next != 3 || len(events) != 2 {
		t.Fatalf("expected 2 buffered events up to seq 3, got %d events next=%d", len(events), next)
	}
	if events[0].Sequence != 2 || events[1].Sequence != 3 {
		t.Fatalf("unexpected sequences %d %d", events[0].Sequence, events[1].Sequence)
	}
	if events[1].StoryID != "42" || events[1].CorrelationID != "corr-1" {
		t.Fatalf("expected context fields on event, got %+v", events[1])
	}
}

func TestBrokerRejectsEmptyEvent(t *testing.T) {
	if err := NewBroker(0).Notify(context.Background(), " "); err == nil {
		t.Fatal("expected error for empty event")
	}
}

func TestBrokerFetchWaitsForNotify(t *testing.T) {
	broker := NewBroker(4)
	done := make(chan []Event, 1)
	go func() {
		events, _, _ := broker.Fetch(context.Background(), 0, true)
		done <- events
	}()

	time.Sleep(20 * time.Millisecond)
	if err := broker.Notify(context.Background(), "hyperaudioInit"); err != nil {
		t.Fatalf("Notify returned error: %v", err)
	}

	select {
	case events := <-done:
		if len(events) != 1 || events[0].Name != "hyperaudioInit" {
			t.Fatalf("unexpected events %+v", events)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")
	}
}

func TestBrokerFetchHonorsContext(t *testing.T) {
	broker := NewBroker(4)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, _, err := broker.Fetch(ctx, 0, true)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
}

func TestBrokerCloseWakesWaiters(t *testing.T) {
	broker := NewBroker(4)
	done := make(chan error, 1)
	go func() {
		_, _, err := broker.Fetch(context.Background(), 0, true)
		done <- err
	}()

	time.Sleep(20 * time.Millisecond)
	broker.Close()

	select {
	case err := <-done:
		if !errors.Is(err, ErrBrokerClosed) {
			t.Fatalf("expected ErrBrokerClosed, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for close")
	}
	if err := broker.Notify(context.Background(), "hyperaudioInit"); !errors.Is(err, ErrBrokerClosed) {
		t.Fatalf("expected notify after close to fail, got %v", err)
	}
}
