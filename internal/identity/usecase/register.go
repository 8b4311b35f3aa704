package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/shandysiswandi/growguard/internal/identity/entity"
	"github.com/shandysiswandi/growguard/internal/pkg/goerror"
)

type RegisterInput struct {
	Name         string `validate:"required,min=2,max=100,alphaspace"`
	Surname      string `validate:"required,min=2,max=100,alphaspace"`
	MobileNumber string `validate:"required,phone"`
	Email        string `validate:"omitempty,email,max=255"`
	Province     string `validate:"omitempty,max=100"`
	District     string `validate:"omitempty,max=100"`
	Tehsil       string `validate:"required,max=100"`
	Village      string `validate:"omitempty,max=100"`
	Address      string `validate:"omitempty,max=500"`
	OTPCode      string `validate:"required,otp"`
}

type AuthOutput struct {
	Token string
	User  entity.User
}

// Register consumes the registration code and creates the account. The
// code is spent before the account is created, so two concurrent
// completions both pass verification only if they raced on separate codes;
// the unique mobile number constraint decides the winner either way.
func (s *Usecase) Register(ctx context.Context, in RegisterInput) (*AuthOutput, error) {
	ctx, span := s.startSpan(ctx, "Register")
	defer span.End()

	in.Name = strings.TrimSpace(in.Name)
	in.Surname = strings.TrimSpace(in.Surname)
	in.MobileNumber = strings.TrimSpace(in.MobileNumber)
	in.Email = strings.TrimSpace(strings.ToLower(in.Email))
	in.OTPCode = strings.TrimSpace(in.OTPCode)

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	res, err := s.otp.Verify(ctx, in.MobileNumber, in.OTPCode, entity.PurposeRegistration)
	if err != nil {
		return nil, err
	}
	if !res.OK {
		return nil, ErrInvalidOrExpired
	}

	if err := s.mustBeFree(ctx, in.MobileNumber); err != nil {
		return nil, err
	}

	now := s.clock.Now()
	user := entity.User{
		ID:           s.uid.Generate(),
		MobileNumber: in.MobileNumber,
		Name:         in.Name,
		Surname:      in.Surname,
		Email:        in.Email,
		Province:     strings.TrimSpace(in.Province),
		District:     strings.TrimSpace(in.District),
		Tehsil:       strings.TrimSpace(in.Tehsil),
		Village:      strings.TrimSpace(in.Village),
		Address:      strings.TrimSpace(in.Address),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	err = s.repoDB.CreateUser(ctx, user)
	if errors.Is(err, goerror.ErrConflict) {
		slog.WarnContext(ctx, "lost registration race", "mobile_number", in.MobileNumber)
		return nil, ErrAlreadyRegistered
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo create user", "mobile_number", in.MobileNumber, "error", err)
		return nil, goerror.NewServer(err)
	}

	token, err := s.MintSession(ctx, user.ID, user.MobileNumber)
	if err != nil {
		return nil, err
	}

	return &AuthOutput{Token: token, User: user}, nil
}
