package instrument

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var m map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &m); err != nil {
		t.Fatalf("json.Unmarshal(%q) error = %v", buf.String(), err)
	}
	return m
}

func TestHandler_MasksAttributes(t *testing.T) {
	// Arrange
	var buf bytes.Buffer
	logger := slog.New(newHandler(&buf, "growguard", nil, []string{"otp_code", "Token"}))

	// Act
	logger.Info("issued", "otp_code", "1234", "phone", "03001234567", "token", "abc")

	// Assert
	line := decodeLine(t, &buf)
	if line["otp_code"] != "***" || line["token"] != "***" {
		t.Fatalf("line not masked: %v", line)
	}
	if line["phone"] != "03001234567" {
		t.Fatalf("phone = %v", line["phone"])
	}
	if line["service"] != "growguard" || line["severity"] != "INFO" {
		t.Fatalf("line = %v", line)
	}
}

func TestHandler_MasksJSONBodies(t *testing.T) {
	// Arrange
	var buf bytes.Buffer
	logger := slog.New(newHandler(&buf, "", nil, []string{"otp_code"}))

	// Act
	logger.Info("request", "body", `{"mobile_number":"0300","otp_code":"9999"}`)

	// Assert
	line := decodeLine(t, &buf)
	body, _ := line["body"].(string)
	if strings.Contains(body, "9999") || !strings.Contains(body, `"otp_code":"***"`) {
		t.Fatalf("body = %q", body)
	}
}

func TestHandler_AddsCorrelationID(t *testing.T) {
	// Arrange
	var buf bytes.Buffer
	logger := slog.New(newHandler(&buf, "", nil, nil))
	ctx := SetCorrelationID(context.Background(), "cid-1")

	// Act
	logger.InfoContext(ctx, "hello")

	// Assert
	if got := decodeLine(t, &buf)["_cID"]; got != "cid-1" {
		t.Fatalf("_cID = %v", got)
	}
}

func TestHandler_WithAttrsMasked(t *testing.T) {
	// Arrange
	var buf bytes.Buffer
	logger := slog.New(newHandler(&buf, "", nil, []string{"secret"})).With("secret", "s3")

	// Act
	logger.Info("x")

	// Assert
	if got := decodeLine(t, &buf)["secret"]; got != "***" {
		t.Fatalf("secret = %v", got)
	}
}

func TestCorrelationID_Empty(t *testing.T) {
	if got := GetCorrelationID(context.Background()); got != "" {
		t.Fatalf("GetCorrelationID() = %q", got)
	}
}
