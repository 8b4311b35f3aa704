package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/shandysiswandi/growguard/internal/identity/entity"
	"github.com/shandysiswandi/growguard/internal/pkg/goerror"
)

type ProfileUpdateInput struct {
	MobileNumber *string `validate:"omitempty,phone"`
	Email        *string `validate:"omitempty,email,max=255"`
	Address      *string `validate:"omitempty,max=500"`
	OTPCode      string  `validate:"omitempty,otp"`
}

// ProfileUpdate changes contact fields. A new mobile number is only
// committed after a code sent to that number is verified.
func (s *Usecase) ProfileUpdate(ctx context.Context, in ProfileUpdateInput) (*entity.User, error) {
	ctx, span := s.startSpan(ctx, "ProfileUpdate")
	defer span.End()

	trim(&in.MobileNumber)
	trim(&in.Email)
	trim(&in.Address)
	in.OTPCode = strings.TrimSpace(in.OTPCode)

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	current, err := s.Profile(ctx)
	if err != nil {
		return nil, err
	}

	if in.MobileNumber != nil && *in.MobileNumber == current.MobileNumber {
		in.MobileNumber = nil
	}

	if in.MobileNumber != nil {
		if in.OTPCode == "" {
			return nil, goerror.NewInvalidInput(nil, "otp_code", "otp_code is required to change mobile number")
		}

		res, err := s.otp.Verify(ctx, *in.MobileNumber, in.OTPCode, s.mobileChangePurpose())
		if err != nil {
			return nil, err
		}
		if !res.OK {
			return nil, ErrInvalidOrExpired
		}
	}

	user, err := s.repoDB.PatchUser(ctx, entity.UserPatch{
		ID:           current.ID,
		MobileNumber: in.MobileNumber,
		Email:        in.Email,
		Address:      in.Address,
		UpdatedAt:    s.clock.Now(),
	})
	if errors.Is(err, goerror.ErrConflict) {
		slog.WarnContext(ctx, "new mobile number already registered", "user_id", current.ID)
		return nil, ErrAlreadyRegistered
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo patch user", "user_id", current.ID, "error", err)
		return nil, goerror.NewServer(err)
	}

	return user, nil
}

func trim(v **string) {
	if *v == nil {
		return
	}
	t := strings.TrimSpace(**v)
	*v = &t
}
