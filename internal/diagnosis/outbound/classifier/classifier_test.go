package classifier

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shandysiswandi/growguard/internal/pkg/instrument"
)

func newTestClassifier(t *testing.T, h http.HandlerFunc) *Classifier {
	t.Helper()

	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	c, err := New(Config{URL: srv.URL, Timeout: time.Second, MaxRetries: 2}, instrument.NewNoop())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return c
}

func TestClassifier_Classify(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		// Arrange
		var gotType string
		var gotBody []byte
		c := newTestClassifier(t, func(w http.ResponseWriter, r *http.Request) {
			gotType = r.Header.Get("Content-Type")
			gotBody, _ = io.ReadAll(r.Body)
			_, _ = w.Write([]byte(`{"label":"brown_spot","confidence":0.91}`))
		})

		// Act
		pred, err := c.Classify(context.Background(), []byte("img"), "image/png")

		// Assert
		if err != nil {
			t.Fatalf("Classify() error = %v", err)
		}
		if pred.Label != "brown_spot" || pred.Confidence != 0.91 {
			t.Fatalf("prediction = %+v", pred)
		}
		if gotType != "image/png" || string(gotBody) != "img" {
			t.Fatalf("request = %q %q", gotType, gotBody)
		}
	})

	t.Run("RetriesServerErrors", func(t *testing.T) {
		// Arrange
		var calls atomic.Int32
		c := newTestClassifier(t, func(w http.ResponseWriter, _ *http.Request) {
			if calls.Add(1) < 3 {
				w.WriteHeader(http.StatusBadGateway)
				return
			}
			_, _ = w.Write([]byte(`{"label":"healthy","confidence":0.5}`))
		})

		// Act
		pred, err := c.Classify(context.Background(), []byte("img"), "image/jpeg")

		// Assert
		if err != nil || pred.Label != "healthy" {
			t.Fatalf("Classify() = %+v, %v", pred, err)
		}
		if calls.Load() != 3 {
			t.Fatalf("calls = %d, want 3", calls.Load())
		}
	})

	t.Run("ClientErrorNotRetried", func(t *testing.T) {
		// Arrange
		var calls atomic.Int32
		c := newTestClassifier(t, func(w http.ResponseWriter, _ *http.Request) {
			calls.Add(1)
			w.WriteHeader(http.StatusUnprocessableEntity)
		})

		// Act
		_, err := c.Classify(context.Background(), []byte("img"), "image/jpeg")

		// Assert
		if err == nil || calls.Load() != 1 {
			t.Fatalf("err = %v, calls = %d", err, calls.Load())
		}
	})

	t.Run("MalformedPrediction", func(t *testing.T) {
		// Arrange
		c := newTestClassifier(t, func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{"label":"","confidence":3}`))
		})

		// Act
		_, err := c.Classify(context.Background(), []byte("img"), "image/jpeg")

		// Assert
		if !errors.Is(err, ErrBadPrediction) {
			t.Fatalf("error = %v, want ErrBadPrediction", err)
		}
	})
}

func TestNew_RequiresURL(t *testing.T) {
	// Act
	_, err := New(Config{}, instrument.NewNoop())

	// Assert
	if !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("error = %v, want ErrNotConfigured", err)
	}
}
