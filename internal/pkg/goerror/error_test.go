package goerror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestNewBusiness_StatusCode(t *testing.T) {
	tests := []struct {
		name string
		code Code
		want int
	}{
		{name: "conflict", code: CodeConflict, want: http.StatusConflict},
		{name: "not found", code: CodeNotFound, want: http.StatusNotFound},
		{name: "unauthorized", code: CodeUnauthorized, want: http.StatusUnauthorized},
		{name: "too many", code: CodeTooManyRequest, want: http.StatusTooManyRequests},
		{name: "unknown", code: Code(99), want: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Act
			got := NewBusiness("x", tt.code).StatusCode()

			// Assert
			if got != tt.want {
				t.Fatalf("StatusCode() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestNewServer_HidesCause(t *testing.T) {
	// Arrange
	cause := errors.New("dial tcp: refused")

	// Act
	err := NewServer(cause)

	// Assert
	ge, ok := As(err)
	if !ok {
		t.Fatalf("As() ok = false")
	}
	if ge.Msg() != "Internal server error" {
		t.Fatalf("Msg() = %q", ge.Msg())
	}
	if !errors.Is(err, cause) {
		t.Fatalf("errors.Is(err, cause) = false")
	}
}

func TestNewInvalidInput_Fields(t *testing.T) {
	// Act
	err := NewInvalidInput(nil, "mobile_number", "is required", "otp_code", "must be numeric")

	// Assert
	ge, _ := As(err)
	if ge.Code() != CodeInvalidInput {
		t.Fatalf("Code() = %v", ge.Code())
	}
	if ge.Fields()["otp_code"] != "must be numeric" {
		t.Fatalf("Fields() = %v", ge.Fields())
	}
}

func TestNewInvalidInput_OddPairs(t *testing.T) {
	// Act
	err := NewInvalidInput(nil, "only_key")

	// Assert
	if !HasCode(err, CodeInvalidFormat) {
		t.Fatalf("expected invalid format, got %v", err)
	}
}

func TestError_WithDoesNotMutate(t *testing.T) {
	// Arrange
	base := NewBusiness("slow down", CodeTooManyRequest)

	// Act
	derived := base.With("retry_after_seconds", "12")

	// Assert
	if len(base.Fields()) != 0 {
		t.Fatalf("base fields mutated: %v", base.Fields())
	}
	if derived.Fields()["retry_after_seconds"] != "12" {
		t.Fatalf("derived fields = %v", derived.Fields())
	}
}

func TestHasCode_Wrapped(t *testing.T) {
	// Arrange
	err := fmt.Errorf("usecase: %w", NewBusiness("Invalid or expired OTP", CodeUnauthorized))

	// Assert
	if !HasCode(err, CodeUnauthorized) {
		t.Fatalf("HasCode() = false")
	}
	if HasCode(errors.New("plain"), CodeUnauthorized) {
		t.Fatalf("HasCode(plain) = true")
	}
}
