package session

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"go.uber.org/goleak"

	"github.com/PraneethJain/simplipy-backend/internal/config"
	timex "github.com/PraneethJain/simplipy-backend/internal/pkg/time"
)

func newTestRegistry(maxSessions int, idleTTL time.Duration) *Registry {
	return NewRegistry(&config.SessionOptions{
		MaxSessions: maxSessions,
		IdleTTL:     timex.Duration{Duration: idleTTL},
	})
}

func TestRegistry_PutGetDelete(t *testing.T) {
	t.Parallel()

	reg := newTestRegistry(10, 0)
	sess := New("abc", "x = 1\n", "x = 1\n", nil)

	if err := reg.Put(sess); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if got, want := reg.Len(), 1; got != want {
		t.Errorf("Len = %d, want %d", got, want)
	}

	got, err := reg.Get("abc")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != sess {
		t.Error("Get returned a different session")
	}

	if _, err := reg.Get("missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get(missing) = %v, want ErrNotFound", err)
	}

	if err := reg.Delete("abc"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := reg.Delete("abc"); !errors.Is(err, ErrNotFound) {
		t.Errorf("second Delete = %v, want ErrNotFound", err)
	}
}

func TestRegistry_CapacityLimit(t *testing.T) {
	t.Parallel()

	reg := newTestRegistry(2, 0)
	for i := 0; i < 2; i++ {
		if err := reg.Put(New(fmt.Sprintf("s%d", i), "", "", nil)); err != nil {
			t.Fatalf("Put %d: %v", i, err)
		}
	}

	if err := reg.Put(New("overflow", "", "", nil)); !errors.Is(err, ErrCapacity) {
		t.Errorf("Put over capacity = %v, want ErrCapacity", err)
	}

	// Freeing a slot admits the next session.
	if err := reg.Delete("s0"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := reg.Put(New("overflow", "", "", nil)); err != nil {
		t.Errorf("Put after delete = %v, want nil", err)
	}
}

func TestRegistry_Sweep(t *testing.T) {
	t.Parallel()

	reg := newTestRegistry(10, time.Hour)
	for i := 0; i < 3; i++ {
		if err := reg.Put(New(fmt.Sprintf("s%d", i), "", "", nil)); err != nil {
			t.Fatalf("Put %d: %v", i, err)
		}
	}

	if got, want := reg.Sweep(time.Now()), 0; got != want {
		t.Errorf("Sweep(now) = %d, want %d", got, want)
	}
	if got, want := reg.Sweep(time.Now().Add(2*time.Hour)), 3; got != want {
		t.Errorf("Sweep(now+2h) = %d, want %d", got, want)
	}
	if got, want := reg.Len(), 0; got != want {
		t.Errorf("Len after sweep = %d, want %d", got, want)
	}
}

func TestRegistry_SweepDisabledWithoutTTL(t *testing.T) {
	t.Parallel()

	reg := newTestRegistry(10, 0)
	if err := reg.Put(New("keep", "", "", nil)); err != nil {
		t.Fatalf("Put: %v", err)
	}

	if got, want := reg.Sweep(time.Now().Add(240*time.Hour)), 0; got != want {
		t.Errorf("Sweep = %d, want %d", got, want)
	}
	if got, want := reg.Len(), 1; got != want {
		t.Errorf("Len = %d, want %d", got, want)
	}
}

func TestRegistry_ReapStopsOnCancel(t *testing.T) {
	defer goleak.VerifyNone(t)

	reg := newTestRegistry(10, time.Millisecond)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		done <- reg.Reap(ctx, time.Millisecond)
	}()

	time.Sleep(10 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Reap = %v, want context.Canceled", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Reap did not stop after cancel")
	}
}
