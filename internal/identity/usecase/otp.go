package usecase

import (
	"context"
	"log/slog"
	"math"
	"strconv"
	"strings"

	"github.com/shandysiswandi/growguard/internal/identity/entity"
	"github.com/shandysiswandi/growguard/internal/pkg/goerror"
)

type MobileInput struct {
	MobileNumber string `validate:"required,phone"`
}

type ResendOTPInput struct {
	MobileNumber string `validate:"required,phone"`
	Purpose      string `validate:"required"`
}

type IssueOutput struct {
	ExpiresIn int64
	SMSSent   bool
	// Code is only set when debug echo is enabled.
	Code string
}

// RegistrationOTP issues a registration code for a number that has no account yet.
func (s *Usecase) RegistrationOTP(ctx context.Context, in MobileInput) (*IssueOutput, error) {
	ctx, span := s.startSpan(ctx, "RegistrationOTP")
	defer span.End()

	return s.issue(ctx, in.MobileNumber, entity.PurposeRegistration, s.mustBeFree)
}

// LoginOTP issues a login code. An unknown number fails before any code is created.
func (s *Usecase) LoginOTP(ctx context.Context, in MobileInput) (*IssueOutput, error) {
	ctx, span := s.startSpan(ctx, "LoginOTP")
	defer span.End()

	return s.issue(ctx, in.MobileNumber, entity.PurposeLogin, s.mustBeRegistered)
}

// MobileChangeOTP issues a code to the new number of the signed in user.
func (s *Usecase) MobileChangeOTP(ctx context.Context, in MobileInput) (*IssueOutput, error) {
	ctx, span := s.startSpan(ctx, "MobileChangeOTP")
	defer span.End()

	return s.issue(ctx, in.MobileNumber, s.mobileChangePurpose(), s.mustBeFreeForChange)
}

// ResendOTP issues a fresh code under the same preconditions as the first one.
func (s *Usecase) ResendOTP(ctx context.Context, in ResendOTPInput) (*IssueOutput, error) {
	ctx, span := s.startSpan(ctx, "ResendOTP")
	defer span.End()

	in.MobileNumber = strings.TrimSpace(in.MobileNumber)
	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	purpose, err := entity.ParsePurpose(in.Purpose)
	if err != nil {
		return nil, goerror.NewInvalidInput(nil, "purpose", "purpose must be one of registration, login, profile_mobile_change")
	}

	return s.RequestCode(ctx, in.MobileNumber, purpose)
}

// RequestCode issues a code for purpose after checking the account
// precondition that purpose implies.
func (s *Usecase) RequestCode(ctx context.Context, mobile string, purpose entity.Purpose) (*IssueOutput, error) {
	switch purpose {
	case entity.PurposeRegistration:
		return s.issue(ctx, mobile, purpose, s.mustBeFree)
	case entity.PurposeLogin:
		return s.issue(ctx, mobile, purpose, s.mustBeRegistered)
	case entity.PurposeProfileMobileChange:
		return s.issue(ctx, mobile, s.mobileChangePurpose(), s.mustBeFreeForChange)
	default:
		return nil, goerror.NewInvalidInput(nil, "purpose", "purpose is not supported")
	}
}

// SubmitCode verifies a code without any account side effect.
func (s *Usecase) SubmitCode(ctx context.Context, mobile, code string, purpose entity.Purpose) (entity.VerifyResult, error) {
	ctx, span := s.startSpan(ctx, "SubmitCode")
	defer span.End()

	return s.otp.Verify(ctx, mobile, code, purpose)
}

func (s *Usecase) issue(ctx context.Context, mobile string, purpose entity.Purpose, check func(context.Context, string) error) (*IssueOutput, error) {
	mobile = strings.TrimSpace(mobile)
	if err := s.validator.Validate(MobileInput{MobileNumber: mobile}); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	if err := check(ctx, mobile); err != nil {
		return nil, err
	}

	key := purpose.String() + ":" + mobile
	if err := s.acquireCooldown(ctx, key); err != nil {
		return nil, err
	}

	res, err := s.otp.Issue(ctx, mobile, purpose)
	if err != nil {
		s.releaseCooldown(ctx, key)
		return nil, err
	}

	out := &IssueOutput{
		ExpiresIn: int64(res.ExpiresIn.Seconds()),
		SMSSent:   res.Delivered,
	}
	if s.cfg.GetBool("modules.identity.otp.debug_echo_code") {
		out.Code = res.Code
	}

	return out, nil
}

func (s *Usecase) mustBeFree(ctx context.Context, mobile string) error {
	exists, err := s.registered(ctx, mobile)
	if err != nil {
		return err
	}
	if exists {
		slog.WarnContext(ctx, "mobile number already registered", "mobile_number", mobile)
		return ErrAlreadyRegistered
	}
	return nil
}

func (s *Usecase) mustBeRegistered(ctx context.Context, mobile string) error {
	exists, err := s.registered(ctx, mobile)
	if err != nil {
		return err
	}
	if !exists {
		slog.WarnContext(ctx, "mobile number not registered", "mobile_number", mobile)
		return ErrNotRegistered
	}
	return nil
}

// mustBeFreeForChange requires a signed in user and a number nobody owns.
func (s *Usecase) mustBeFreeForChange(ctx context.Context, mobile string) error {
	if _, err := s.authenticated(ctx); err != nil {
		return err
	}
	return s.mustBeFree(ctx, mobile)
}

func (s *Usecase) mobileChangePurpose() entity.Purpose {
	if s.cfg.GetBool("modules.identity.otp.mobile_change_uses_login_purpose") {
		return entity.PurposeLogin
	}
	return entity.PurposeProfileMobileChange
}

// acquireCooldown fails open: a broken redis must not block sign in.
func (s *Usecase) acquireCooldown(ctx context.Context, key string) error {
	window := s.cfg.GetSecond("modules.identity.otp.resend_cooldown_seconds")
	if s.cooldown == nil || window <= 0 {
		return nil
	}

	ok, retryAfter, err := s.cooldown.Acquire(ctx, key, window)
	if err != nil {
		slog.WarnContext(ctx, "failed to acquire otp cooldown, allowing request", "key", key, "error", err)
		return nil
	}
	if !ok {
		secs := int64(math.Ceil(retryAfter.Seconds()))
		return ErrCooldown.With("retry_after_seconds", strconv.FormatInt(secs, 10))
	}
	return nil
}

func (s *Usecase) releaseCooldown(ctx context.Context, key string) {
	if s.cooldown == nil {
		return
	}
	if err := s.cooldown.Release(ctx, key); err != nil {
		slog.WarnContext(ctx, "failed to release otp cooldown", "key", key, "error", err)
	}
}
