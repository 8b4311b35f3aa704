package usecase

import (
	"context"
	"log/slog"

	"github.com/shandysiswandi/growguard/internal/identity/entity"
	"github.com/shandysiswandi/growguard/internal/pkg/clock"
	"github.com/shandysiswandi/growguard/internal/pkg/config"
	"github.com/shandysiswandi/growguard/internal/pkg/goerror"
	"github.com/shandysiswandi/growguard/internal/pkg/instrument"
	"github.com/shandysiswandi/growguard/internal/pkg/jwt"
	"github.com/shandysiswandi/growguard/internal/pkg/throttle"
	"github.com/shandysiswandi/growguard/internal/pkg/uid"
	"github.com/shandysiswandi/growguard/internal/pkg/validator"
	"go.opentelemetry.io/otel/trace"
)

var (
	ErrAlreadyRegistered = goerror.NewBusiness("Mobile number already registered", goerror.CodeConflict)
	ErrNotRegistered     = goerror.NewBusiness("Mobile number not registered", goerror.CodeNotFound)
	ErrInvalidOrExpired  = goerror.NewBusiness("Invalid or expired OTP", goerror.CodeUnauthorized)
	ErrTokenExpired      = goerror.NewBusiness("Token has expired", goerror.CodeUnauthorized)
	ErrTokenInvalid      = goerror.NewBusiness("Invalid token", goerror.CodeUnauthorized)
	ErrAuthRequired      = goerror.NewBusiness("Authentication required", goerror.CodeUnauthorized)
	ErrCooldown          = goerror.NewBusiness("Please wait before requesting another OTP", goerror.CodeTooManyRequest)
)

type repoDB interface {
	ExistsUserByMobile(ctx context.Context, mobile string) (bool, error)
	GetUserByMobile(ctx context.Context, mobile string) (*entity.User, error)
	GetUserByID(ctx context.Context, id int64) (*entity.User, error)
	CreateUser(ctx context.Context, u entity.User) error
	PatchUser(ctx context.Context, p entity.UserPatch) (*entity.User, error)
}

type otpManager interface {
	Issue(ctx context.Context, phone string, purpose entity.Purpose) (*entity.IssueResult, error)
	Verify(ctx context.Context, phone, code string, purpose entity.Purpose) (entity.VerifyResult, error)
}

type Usecase struct {
	repoDB    repoDB
	otp       otpManager
	cooldown  throttle.Cooldown
	validator validator.Validator
	cfg       config.Config
	uid       uid.NumberID
	clock     clock.Clocker
	jwt       jwt.JWT
	ins       instrument.Instrumentation
}

type Dependency struct {
	RepoDB     repoDB
	OTP        otpManager
	Cooldown   throttle.Cooldown
	Validator  validator.Validator
	Config     config.Config
	UID        uid.NumberID
	Clock      clock.Clocker
	JWT        jwt.JWT
	Instrument instrument.Instrumentation
}

func New(dep Dependency) *Usecase {
	return &Usecase{
		repoDB:    dep.RepoDB,
		otp:       dep.OTP,
		cooldown:  dep.Cooldown,
		validator: dep.Validator,
		cfg:       dep.Config,
		uid:       dep.UID,
		clock:     dep.Clock,
		jwt:       dep.JWT,
		ins:       dep.Instrument,
	}
}

func (s *Usecase) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("identity.usecase").Start(ctx, name)
}

func (s *Usecase) authenticated(ctx context.Context) (*jwt.Claims, error) {
	clm := jwt.GetAuth(ctx)
	if clm == nil {
		return nil, ErrAuthRequired
	}
	return clm, nil
}

func (s *Usecase) registered(ctx context.Context, mobile string) (bool, error) {
	exists, err := s.repoDB.ExistsUserByMobile(ctx, mobile)
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo check user by mobile", "mobile_number", mobile, "error", err)
		return false, goerror.NewServer(err)
	}
	return exists, nil
}
