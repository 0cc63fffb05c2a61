package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestRegistry_Lifecycle(t *testing.T) {
	r := NewRegistry(fixtureData(), DefaultOptions, time.Minute, 0)

	s, err := r.Create(flat)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if r.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", r.Len())
	}

	err = r.Do(s.ID, func(s *Session) error { return s.Apply(FilterChanged{Minute: 480}) })
	if err != nil {
		t.Fatalf("Do failed: %v", err)
	}
	if s.Window().Minute() != 480 {
		t.Errorf("filter not applied through registry")
	}

	if err := r.Delete(s.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if err := r.Do(s.ID, func(*Session) error { return nil }); !errors.Is(err, ErrNotFound) {
		t.Errorf("Do after delete = %v, want ErrNotFound", err)
	}
	if err := r.Delete(uuid.New()); !errors.Is(err, ErrNotFound) {
		t.Errorf("Delete unknown = %v, want ErrNotFound", err)
	}
}

func TestRegistry_MaxSessions(t *testing.T) {
	r := NewRegistry(fixtureData(), DefaultOptions, 0, 2)
	for i := 0; i < 2; i++ {
		if _, err := r.Create(flat); err != nil {
			t.Fatalf("Create %d failed: %v", i, err)
		}
	}
	if _, err := r.Create(flat); !errors.Is(err, ErrTooManySessions) {
		t.Errorf("third Create = %v, want ErrTooManySessions", err)
	}
}

func TestRegistry_Sweep(t *testing.T) {
	r := NewRegistry(fixtureData(), DefaultOptions, time.Minute, 0)
	idle, _ := r.Create(flat)
	busy, _ := r.Create(flat)

	now := time.Now()
	r.Do(idle.ID, func(s *Session) error { s.touch(now.Add(-2 * time.Minute)); return nil })
	r.Do(busy.ID, func(s *Session) error { s.touch(now); return nil })

	if removed := r.Sweep(now); removed != 1 {
		t.Errorf("Sweep removed %d, want 1", removed)
	}
	if err := r.Do(busy.ID, func(*Session) error { return nil }); err != nil {
		t.Errorf("busy session was swept: %v", err)
	}

	noExpiry := NewRegistry(fixtureData(), DefaultOptions, 0, 0)
	noExpiry.Create(flat)
	if removed := noExpiry.Sweep(now.Add(24 * time.Hour)); removed != 0 {
		t.Errorf("Sweep without timeout removed %d", removed)
	}
}

func TestRegistry_ConcurrentTriggers(t *testing.T) {
	r := NewRegistry(fixtureData(), DefaultOptions, 0, 0)
	s, _ := r.Create(flat)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(minute int) {
			defer wg.Done()
			r.Do(s.ID, func(s *Session) error { return s.Apply(FilterChanged{Minute: minute}) })
		}(i * 60)
	}
	wg.Wait()

	r.Do(s.ID, func(s *Session) error {
		if s.Passes() != 21 {
			t.Errorf("Passes() = %d, want 21", s.Passes())
		}
		for _, m := range s.Markers().Markers() {
			if m.TotalTraffic != m.Arrivals+m.Departures {
				t.Errorf("%s: inconsistent marker after concurrent passes", m.StationID)
			}
		}
		return nil
	})
}

func TestRegistry_RunStopsWithContext(t *testing.T) {
	r := NewRegistry(fixtureData(), DefaultOptions, time.Minute, 0)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		r.Run(ctx, 10*time.Millisecond)
		close(done)
	}()
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
