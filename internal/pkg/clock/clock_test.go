package clock

import (
	"testing"
	"time"
)

func TestManual_Advance(t *testing.T) {
	// Arrange
	start := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	c := NewManual(start)

	// Act
	c.Advance(3 * time.Minute)

	// Assert
	if got := c.Now(); !got.Equal(start.Add(3 * time.Minute)) {
		t.Fatalf("Now() = %v, want %v", got, start.Add(3*time.Minute))
	}
}

func TestManual_Set(t *testing.T) {
	// Arrange
	c := NewManual(time.Unix(0, 0))
	target := time.Date(2030, 5, 1, 0, 0, 0, 0, time.UTC)

	// Act
	c.Set(target)

	// Assert
	if got := c.Now(); !got.Equal(target) {
		t.Fatalf("Now() = %v, want %v", got, target)
	}
}

func TestTimeClocker_NowIsUTC(t *testing.T) {
	// Act
	now := New().Now()

	// Assert
	if now.Location() != time.UTC {
		t.Fatalf("Now().Location() = %v, want UTC", now.Location())
	}
}
