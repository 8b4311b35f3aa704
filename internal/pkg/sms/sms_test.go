package sms

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func TestNormalizeE164(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "+923001234567", want: "+923001234567"},
		{in: "03001234567", want: "+923001234567"},
		{in: "923001234567", want: "+923001234567"},
		{in: "3001234567", want: "+923001234567"},
		{in: " 0300-123 4567 ", want: "+923001234567"},
		{in: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := NormalizeE164(tt.in, "92"); got != tt.want {
				t.Fatalf("NormalizeE164(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNewFromDriver(t *testing.T) {
	// Act
	console, errConsole := NewFromDriver(Options{Driver: DriverConsole})
	_, errTwilio := NewFromDriver(Options{Driver: DriverTwilio})
	_, errUnknown := NewFromDriver(Options{Driver: "pigeon"})

	// Assert
	if errConsole != nil || console == nil {
		t.Fatalf("console driver error = %v", errConsole)
	}
	if !errors.Is(errTwilio, ErrNotConfigured) {
		t.Fatalf("twilio without credentials error = %v", errTwilio)
	}
	if !errors.Is(errUnknown, ErrUnknownDriver) {
		t.Fatalf("unknown driver error = %v", errUnknown)
	}
}

func TestConsole_Send(t *testing.T) {
	// Arrange
	c := NewConsole()

	// Act
	r, err := c.Send(context.Background(), Message{To: "+923001234567", Body: "hi"})
	_, errEmpty := c.Send(context.Background(), Message{})

	// Assert
	if err != nil || r.Provider != DriverConsole || r.ID == "" {
		t.Fatalf("Send() = %+v, %v", r, err)
	}
	if !errors.Is(errEmpty, ErrNoRecipient) {
		t.Fatalf("empty recipient error = %v", errEmpty)
	}
}

func newTwilioServer(t *testing.T, handler http.HandlerFunc) *Twilio {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	tw, err := NewTwilio(TwilioConfig{
		AccountSID: "AC123",
		AuthToken:  "tok",
		From:       "+15550001111",
		BaseURL:    srv.URL,
		Timeout:    time.Second,
		MaxRetries: 2,
	})
	if err != nil {
		t.Fatalf("NewTwilio() error = %v", err)
	}
	return tw
}

func TestTwilio_SendSuccess(t *testing.T) {
	// Arrange
	tw := newTwilioServer(t, func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		if !ok || user != "AC123" || pass != "tok" {
			t.Errorf("basic auth = %q %q %v", user, pass, ok)
		}
		if r.URL.Path != "/2010-04-01/Accounts/AC123/Messages.json" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if err := r.ParseForm(); err != nil {
			t.Errorf("ParseForm() error = %v", err)
		}
		if r.PostForm.Get("To") != "+923001234567" || r.PostForm.Get("From") != "+15550001111" {
			t.Errorf("form = %v", r.PostForm)
		}
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"sid":"SM1"}`))
	})

	// Act
	r, err := tw.Send(context.Background(), Message{To: "+923001234567", Body: "code 1234"})

	// Assert
	if err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	if r.ID != "SM1" || r.Provider != DriverTwilio {
		t.Fatalf("receipt = %+v", r)
	}
}

func TestTwilio_RetriesServerErrors(t *testing.T) {
	// Arrange
	var calls atomic.Int32
	tw := newTwilioServer(t, func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"sid":"SM2"}`))
	})

	// Act
	r, err := tw.Send(context.Background(), Message{To: "+923001234567", Body: "x"})

	// Assert
	if err != nil || r.ID != "SM2" {
		t.Fatalf("Send() = %+v, %v", r, err)
	}
	if calls.Load() != 3 {
		t.Fatalf("calls = %d, want 3", calls.Load())
	}
}

func TestTwilio_ClientErrorNotRetried(t *testing.T) {
	// Arrange
	var calls atomic.Int32
	tw := newTwilioServer(t, func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"code":21211,"message":"invalid To","status":400}`))
	})

	// Act
	_, err := tw.Send(context.Background(), Message{To: "+92", Body: "x"})

	// Assert
	if err == nil {
		t.Fatalf("expected error")
	}
	if calls.Load() != 1 {
		t.Fatalf("calls = %d, want 1", calls.Load())
	}
}

func TestTwilio_RetriesThrottling(t *testing.T) {
	// Arrange
	var calls atomic.Int32
	tw := newTwilioServer(t, func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = w.Write([]byte(`{"code":20429,"message":"too many requests","status":429}`))
			return
		}
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"sid":"SM3"}`))
	})

	// Act
	r, err := tw.Send(context.Background(), Message{To: "+923001234567", Body: "x"})

	// Assert
	if err != nil || r.ID != "SM3" {
		t.Fatalf("Send() = %+v, %v", r, err)
	}
	if calls.Load() != 2 {
		t.Fatalf("calls = %d, want 2", calls.Load())
	}
}

func TestNewTwilio_InvalidBaseURL(t *testing.T) {
	// Act
	_, err := NewTwilio(TwilioConfig{AccountSID: "AC123", AuthToken: "tok", From: "+1555", BaseURL: "::nope"})

	// Assert
	if err == nil {
		t.Fatalf("expected error")
	}
}
