package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/shandysiswandi/growguard/internal/identity/entity"
	"github.com/shandysiswandi/growguard/internal/pkg/goerror"
)

type LoginInput struct {
	MobileNumber string `validate:"required,phone"`
	OTPCode      string `validate:"required,otp"`
}

func (s *Usecase) Login(ctx context.Context, in LoginInput) (*AuthOutput, error) {
	ctx, span := s.startSpan(ctx, "Login")
	defer span.End()

	in.MobileNumber = strings.TrimSpace(in.MobileNumber)
	in.OTPCode = strings.TrimSpace(in.OTPCode)

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	res, err := s.otp.Verify(ctx, in.MobileNumber, in.OTPCode, entity.PurposeLogin)
	if err != nil {
		return nil, err
	}
	if !res.OK {
		return nil, ErrInvalidOrExpired
	}

	// A login code is only issued to registered numbers, so a missing
	// account here is a consistency failure, not a user error.
	user, err := s.repoDB.GetUserByMobile(ctx, in.MobileNumber)
	if errors.Is(err, goerror.ErrNotFound) {
		slog.ErrorContext(ctx, "verified login code for a missing account", "mobile_number", in.MobileNumber)
		return nil, goerror.NewServer(err)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get user by mobile", "mobile_number", in.MobileNumber, "error", err)
		return nil, goerror.NewServer(err)
	}

	token, err := s.MintSession(ctx, user.ID, user.MobileNumber)
	if err != nil {
		return nil, err
	}

	return &AuthOutput{Token: token, User: *user}, nil
}
