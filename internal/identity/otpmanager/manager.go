// Package otpmanager issues, verifies and purges one-time codes scoped by
// (phone number, purpose).
//
// The atomicity guarantees live in the Store: Issue replaces every unused
// code of the pair in one step, and Verify consumes at most one record per
// code, so two concurrent verifications of the same valid code produce
// exactly one success.
package otpmanager

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/shandysiswandi/growguard/internal/identity/entity"
	"github.com/shandysiswandi/growguard/internal/pkg/clock"
	"github.com/shandysiswandi/growguard/internal/pkg/goerror"
	"github.com/shandysiswandi/growguard/internal/pkg/hash"
	"github.com/shandysiswandi/growguard/internal/pkg/instrument"
	"github.com/shandysiswandi/growguard/internal/pkg/otp"
	"github.com/shandysiswandi/growguard/internal/pkg/validator"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// DefaultWindow is the validity window used when Dependency.Window is zero.
const DefaultWindow = 3 * time.Minute

// Store persists OTP records.
type Store interface {
	// ReplaceOTP marks every unused record of (rec.PhoneNumber, rec.Purpose)
	// used and inserts rec, atomically. It returns the new record id.
	ReplaceOTP(ctx context.Context, rec entity.OTPRecord) (int64, error)

	// ConsumeOTP marks the newest unused, unexpired record matching the pair
	// and code hash as used and returns it. goerror.ErrNotFound when none matches.
	ConsumeOTP(ctx context.Context, phone, codeHash string, purpose entity.Purpose, now time.Time) (*entity.OTPRecord, error)

	// DeleteStaleOTP removes records that are used or expired at now.
	DeleteStaleOTP(ctx context.Context, now time.Time) (int64, error)
}

// Gateway delivers a code to its owner. It must not fail: problems are
// reported through the outcome.
type Gateway interface {
	Deliver(ctx context.Context, d entity.OTPDelivery) entity.DeliveryOutcome
}

type Dependency struct {
	Store      Store
	Gateway    Gateway
	Generator  otp.Generator
	Hash       hash.Hash
	Clock      clock.Clocker
	Validator  validator.Validator
	Instrument instrument.Instrumentation
	Window     time.Duration
}

type Manager struct {
	store     Store
	gateway   Gateway
	generator otp.Generator
	hash      hash.Hash
	clock     clock.Clocker
	validator validator.Validator
	ins       instrument.Instrumentation
	window    time.Duration

	issued    metric.Int64Counter
	verified  metric.Int64Counter
	delivered metric.Int64Counter
	swept     metric.Int64Counter
}

func New(dep Dependency) *Manager {
	if dep.Window <= 0 {
		dep.Window = DefaultWindow
	}
	if dep.Instrument == nil {
		dep.Instrument = instrument.NewNoop()
	}

	m := &Manager{
		store:     dep.Store,
		gateway:   dep.Gateway,
		generator: dep.Generator,
		hash:      dep.Hash,
		clock:     dep.Clock,
		validator: dep.Validator,
		ins:       dep.Instrument,
		window:    dep.Window,
	}

	meter := dep.Instrument.Meter("identity.otpmanager")
	m.issued, _ = meter.Int64Counter("identity.otp.issued")
	m.verified, _ = meter.Int64Counter("identity.otp.verified")
	m.delivered, _ = meter.Int64Counter("identity.otp.delivery")
	m.swept, _ = meter.Int64Counter("identity.otp.swept")

	return m
}

// Window is the validity window applied to new codes.
func (m *Manager) Window() time.Duration {
	return m.window
}

type phoneInput struct {
	MobileNumber string `validate:"required,phone"`
}

func (m *Manager) validate(phone string, purpose entity.Purpose) error {
	if purpose.IsUnknown() {
		return goerror.NewInvalidInput(nil, "purpose", "purpose is not supported")
	}
	if err := m.validator.Validate(phoneInput{MobileNumber: phone}); err != nil {
		return goerror.NewInvalidInput(err)
	}
	return nil
}

// digest binds the code to its phone number, so equal codes of different
// owners never share a hash.
func (m *Manager) digest(phone, code string) (string, error) {
	h, err := m.hash.Hash(phone + ":" + code)
	if err != nil {
		return "", err
	}
	return string(h), nil
}

// Issue creates a fresh code for (phone, purpose), supersedes the previous
// ones and hands the code to the gateway. A failed delivery does not fail
// Issue: the code stays valid and the result reports Delivered=false.
func (m *Manager) Issue(ctx context.Context, phone string, purpose entity.Purpose) (*entity.IssueResult, error) {
	ctx, span := m.startSpan(ctx, "Issue")
	defer span.End()

	phone = strings.TrimSpace(phone)
	if err := m.validate(phone, purpose); err != nil {
		return nil, err
	}

	code, err := m.generator.Generate()
	if err != nil {
		slog.ErrorContext(ctx, "failed to generate otp code", "purpose", purpose.String(), "error", err)
		return nil, goerror.NewServer(err)
	}

	codeHash, err := m.digest(phone, code)
	if err != nil {
		slog.ErrorContext(ctx, "failed to hash otp code", "purpose", purpose.String(), "error", err)
		return nil, goerror.NewServer(err)
	}

	now := m.clock.Now()
	rec := entity.OTPRecord{
		PhoneNumber: phone,
		CodeHash:    codeHash,
		Purpose:     purpose,
		CreatedAt:   now,
		ExpiresAt:   now.Add(m.window),
	}

	id, err := m.store.ReplaceOTP(ctx, rec)
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo replace otp", "mobile_number", phone, "purpose", purpose.String(), "error", err)
		return nil, goerror.NewServer(err)
	}
	m.issued.Add(ctx, 1, metric.WithAttributes(attribute.String("purpose", purpose.String())))

	outcome := m.gateway.Deliver(ctx, entity.OTPDelivery{
		PhoneNumber: phone,
		Code:        code,
		Purpose:     purpose,
		ExpiresAt:   rec.ExpiresAt,
		ExpiresIn:   m.window,
	})
	m.delivered.Add(ctx, 1, metric.WithAttributes(attribute.Bool("delivered", outcome.Delivered)))
	if !outcome.Delivered {
		slog.WarnContext(ctx, "otp delivery failed, code remains valid",
			"otp_id", id,
			"mobile_number", phone,
			"purpose", purpose.String(),
			"detail", outcome.Detail,
		)
	}

	return &entity.IssueResult{
		Code:           code,
		ExpiresIn:      m.window,
		ExpiresAt:      rec.ExpiresAt,
		Delivered:      outcome.Delivered,
		DeliveryDetail: outcome.Detail,
	}, nil
}

// Verify consumes the code if it is the live code of (phone, purpose).
// Wrong, expired and already used codes all report InvalidOrExpired.
// Only infrastructure failures are returned as errors.
func (m *Manager) Verify(ctx context.Context, phone, code string, purpose entity.Purpose) (entity.VerifyResult, error) {
	ctx, span := m.startSpan(ctx, "Verify")
	defer span.End()

	phone = strings.TrimSpace(phone)
	code = strings.TrimSpace(code)
	if err := m.validate(phone, purpose); err != nil {
		return entity.VerifyResult{}, err
	}

	invalid := entity.VerifyResult{Reason: entity.VerifyReasonInvalidOrExpired}
	if code == "" {
		m.countVerify(ctx, purpose, invalid)
		return invalid, nil
	}

	codeHash, err := m.digest(phone, code)
	if err != nil {
		slog.ErrorContext(ctx, "failed to hash otp code", "purpose", purpose.String(), "error", err)
		return entity.VerifyResult{}, goerror.NewServer(err)
	}

	rec, err := m.store.ConsumeOTP(ctx, phone, codeHash, purpose, m.clock.Now())
	if errors.Is(err, goerror.ErrNotFound) {
		slog.WarnContext(ctx, "otp code invalid or expired", "mobile_number", phone, "purpose", purpose.String())
		m.countVerify(ctx, purpose, invalid)
		return invalid, nil
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo consume otp", "mobile_number", phone, "purpose", purpose.String(), "error", err)
		return entity.VerifyResult{}, goerror.NewServer(err)
	}

	ok := entity.VerifyResult{OK: true, Record: rec}
	m.countVerify(ctx, purpose, ok)
	return ok, nil
}

// Sweep deletes expired and used records. Records locked by an in-flight
// verification are left for the next run.
func (m *Manager) Sweep(ctx context.Context) (int64, error) {
	ctx, span := m.startSpan(ctx, "Sweep")
	defer span.End()

	n, err := m.store.DeleteStaleOTP(ctx, m.clock.Now())
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo delete stale otp", "error", err)
		return 0, goerror.NewServer(err)
	}
	m.swept.Add(ctx, n)

	return n, nil
}

func (m *Manager) countVerify(ctx context.Context, purpose entity.Purpose, res entity.VerifyResult) {
	result := "ok"
	if !res.OK {
		result = string(res.Reason)
	}
	m.verified.Add(ctx, 1, metric.WithAttributes(
		attribute.String("purpose", purpose.String()),
		attribute.String("result", result),
	))
}

func (m *Manager) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return m.ins.Tracer("identity.otpmanager").Start(ctx, name)
}
