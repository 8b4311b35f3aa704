package goroutine

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

func TestManager_GoCollectsErrors(t *testing.T) {
	// Arrange
	m := NewManager(4)
	boom := errors.New("boom")

	// Act
	m.Go(context.Background(), func(context.Context) error { return boom })
	m.Go(context.Background(), func(context.Context) error { return nil })
	err := m.Wait()

	// Assert
	if !errors.Is(err, boom) {
		t.Fatalf("Wait() error = %v, want %v", err, boom)
	}
}

func TestManager_GoRecoversPanic(t *testing.T) {
	// Arrange
	m := NewManager(1)

	// Act
	m.Go(context.Background(), func(context.Context) error { panic("kaboom") })
	err := m.Wait()

	// Assert
	if err != nil {
		t.Fatalf("Wait() error = %v, want nil", err)
	}
}

func TestManager_GoAfterWaitIsDropped(t *testing.T) {
	// Arrange
	m := NewManager(1)
	_ = m.Wait()
	var ran atomic.Bool

	// Act
	m.Go(context.Background(), func(context.Context) error {
		ran.Store(true)
		return nil
	})

	// Assert
	if ran.Load() {
		t.Fatalf("task ran after Wait")
	}
}

func TestManager_EveryStopsOnCancel(t *testing.T) {
	// Arrange
	m := NewManager(2)
	ctx, cancel := context.WithCancel(context.Background())
	var calls atomic.Int32

	// Act
	m.Every(ctx, "test", 5*time.Millisecond, func(context.Context) error {
		if calls.Add(1) >= 3 {
			cancel()
		}
		return errors.New("ignored")
	})
	err := m.Wait()

	// Assert
	if err != nil {
		t.Fatalf("Wait() error = %v", err)
	}
	if calls.Load() < 3 {
		t.Fatalf("calls = %d, want >= 3", calls.Load())
	}
}

func TestManager_EveryDisabled(t *testing.T) {
	// Arrange
	m := NewManager(1)
	var calls atomic.Int32

	// Act
	m.Every(context.Background(), "off", 0, func(context.Context) error {
		calls.Add(1)
		return nil
	})
	_ = m.Wait()

	// Assert
	if calls.Load() != 0 {
		t.Fatalf("calls = %d, want 0", calls.Load())
	}
}
