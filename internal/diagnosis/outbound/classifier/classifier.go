// Package classifier calls the plant disease model served over HTTP.
//
// The service takes the raw image as the request body and answers
// {"label": "...", "confidence": 0.0..1.0}.
package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sethvargo/go-retry"
	"github.com/shandysiswandi/growguard/internal/pkg/instrument"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var (
	ErrNotConfigured = errors.New("classifier: url is required")
	ErrBadPrediction = errors.New("classifier: malformed prediction")
)

type Config struct {
	URL        string
	Timeout    time.Duration
	MaxRetries uint64
}

type Prediction struct {
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
}

type Classifier struct {
	cfg    Config
	client *http.Client
	ins    instrument.Instrumentation
}

func New(cfg Config, ins instrument.Instrumentation) (*Classifier, error) {
	if cfg.URL == "" {
		return nil, ErrNotConfigured
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.MaxRetries == 0 {
		cfg.MaxRetries = 2
	}

	return &Classifier{cfg: cfg, client: &http.Client{Timeout: cfg.Timeout}, ins: ins}, nil
}

// Classify retries transport errors and 5xx answers. A 4xx answer means the
// model rejected the image and is returned at once.
func (c *Classifier) Classify(ctx context.Context, image []byte, contentType string) (Prediction, error) {
	ctx, span := c.ins.Tracer("diagnosis.outbound.classifier").Start(ctx, "Classify")
	defer span.End()

	backoff := retry.WithMaxRetries(c.cfg.MaxRetries, retry.NewExponential(250*time.Millisecond))

	var pred Prediction
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.URL, bytes.NewReader(image))
		if err != nil {
			return err
		}
		req.Header.Set("Content-Type", contentType)
		req.Header.Set("Accept", "application/json")
		if cid := instrument.GetCorrelationID(ctx); cid != "" {
			req.Header.Set("X-Correlation-ID", cid)
		}

		resp, err := c.client.Do(req)
		if err != nil {
			return retry.RetryableError(err)
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
		if err != nil {
			return retry.RetryableError(err)
		}

		if resp.StatusCode >= 500 {
			return retry.RetryableError(fmt.Errorf("classifier: status=%d", resp.StatusCode))
		}
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("classifier: status=%d body=%q", resp.StatusCode, body)
		}

		if err := json.Unmarshal(body, &pred); err != nil {
			return fmt.Errorf("%w: %w", ErrBadPrediction, err)
		}
		if pred.Label == "" || pred.Confidence < 0 || pred.Confidence > 1 {
			return ErrBadPrediction
		}
		return nil
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return Prediction{}, err
	}

	span.SetAttributes(attribute.String("label", pred.Label), attribute.Float64("confidence", pred.Confidence))
	return pred, nil
}

func (c *Classifier) Close() error {
	c.client.CloseIdleConnections()
	return nil
}
