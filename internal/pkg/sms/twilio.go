package sms

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/sethvargo/go-retry"
	"github.com/twilio/twilio-go"
	twclient "github.com/twilio/twilio-go/client"
	twapi "github.com/twilio/twilio-go/rest/api/v2010"
)

const (
	defaultTwilioTimeout = 15 * time.Second
	defaultTwilioRetries = 2
)

// TwilioConfig configures the Twilio driver.
type TwilioConfig struct {
	AccountSID string
	AuthToken  string
	From       string
	// BaseURL overrides the API host, for tests.
	BaseURL    string
	Timeout    time.Duration
	MaxRetries uint64
}

// Twilio sends messages through the Twilio Messages API with the official
// SDK. Transport errors and 5xx/429 answers are retried with exponential
// backoff; other 4xx are not.
type Twilio struct {
	cfg    TwilioConfig
	client *http.Client
	rest   *twilio.RestClient
}

// NewTwilio returns a Twilio driver. Credentials and sender are required.
func NewTwilio(cfg TwilioConfig) (*Twilio, error) {
	if cfg.AccountSID == "" || cfg.AuthToken == "" || cfg.From == "" {
		return nil, ErrNotConfigured
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTwilioTimeout
	}
	if cfg.MaxRetries == 0 {
		cfg.MaxRetries = defaultTwilioRetries
	}

	hc := &http.Client{Timeout: cfg.Timeout}
	if cfg.BaseURL != "" {
		base, err := url.Parse(cfg.BaseURL)
		if err != nil || base.Host == "" {
			return nil, fmt.Errorf("sms: invalid twilio base url %q", cfg.BaseURL)
		}
		hc.Transport = baseURLTransport{base: base, next: http.DefaultTransport}
	}

	rest := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: cfg.AccountSID,
		Password: cfg.AuthToken,
		Client: &twclient.Client{
			Credentials: twclient.NewCredentials(cfg.AccountSID, cfg.AuthToken),
			HTTPClient:  hc,
		},
	})

	return &Twilio{cfg: cfg, client: hc, rest: rest}, nil
}

func (t *Twilio) Send(ctx context.Context, msg Message) (Receipt, error) {
	if msg.To == "" {
		return Receipt{}, ErrNoRecipient
	}

	params := &twapi.CreateMessageParams{}
	params.SetPathAccountSid(t.cfg.AccountSID)
	params.SetTo(msg.To)
	params.SetFrom(t.cfg.From)
	params.SetBody(msg.Body)

	backoff := retry.WithMaxRetries(t.cfg.MaxRetries, retry.NewExponential(200*time.Millisecond))

	var receipt Receipt
	err := retry.Do(ctx, backoff, func(context.Context) error {
		resp, err := t.rest.Api.CreateMessage(params)
		if err != nil {
			return classifyTwilioError(err)
		}

		receipt = Receipt{Provider: DriverTwilio}
		if resp != nil && resp.Sid != nil {
			receipt.ID = *resp.Sid
		}
		return nil
	})
	if err != nil {
		return Receipt{}, err
	}

	return receipt, nil
}

// classifyTwilioError marks throttling, 5xx and undecodable answers (the
// SDK only decodes JSON error bodies) as retryable.
func classifyTwilioError(err error) error {
	var rerr *twclient.TwilioRestError
	if !errors.As(err, &rerr) {
		return retry.RetryableError(fmt.Errorf("sms: twilio: %w", err))
	}

	werr := fmt.Errorf("sms: twilio status=%d code=%d message=%q", rerr.Status, rerr.Code, rerr.Message)
	if rerr.Status == http.StatusTooManyRequests || rerr.Status >= http.StatusInternalServerError {
		return retry.RetryableError(werr)
	}
	return werr
}

func (t *Twilio) Close() error {
	t.client.CloseIdleConnections()
	return nil
}

// baseURLTransport sends every request to base, keeping path and query.
type baseURLTransport struct {
	base *url.URL
	next http.RoundTripper
}

func (b baseURLTransport) RoundTrip(r *http.Request) (*http.Response, error) {
	r = r.Clone(r.Context())
	r.URL.Scheme = b.base.Scheme
	r.URL.Host = b.base.Host
	r.Host = b.base.Host
	return b.next.RoundTrip(r)
}
