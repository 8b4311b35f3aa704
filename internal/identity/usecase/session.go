package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/shandysiswandi/growguard/internal/pkg/goerror"
	"github.com/shandysiswandi/growguard/internal/pkg/jwt"
)

type VerifySessionInput struct {
	Token string `validate:"required"`
}

type SessionOutput struct {
	SubjectID    int64
	MobileNumber string
	ExpiresAt    time.Time
}

func (s *Usecase) MintSession(ctx context.Context, subjectID int64, mobile string) (string, error) {
	token, err := s.jwt.Generate(subjectID, mobile)
	if err != nil {
		slog.ErrorContext(ctx, "failed to generate session token", "user_id", subjectID, "error", err)
		return "", goerror.NewServer(err)
	}
	return token, nil
}

func (s *Usecase) VerifySession(ctx context.Context, in VerifySessionInput) (*SessionOutput, error) {
	ctx, span := s.startSpan(ctx, "VerifySession")
	defer span.End()

	in.Token = strings.TrimSpace(strings.TrimPrefix(in.Token, "Bearer "))
	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	clm, err := s.jwt.Verify(in.Token)
	if errors.Is(err, jwt.ErrTokenExpired) {
		return nil, ErrTokenExpired
	}
	if err != nil {
		slog.WarnContext(ctx, "session token rejected", "error", err)
		return nil, ErrTokenInvalid
	}

	out := &SessionOutput{SubjectID: clm.SubjectID, MobileNumber: clm.PhoneNumber}
	if clm.ExpiresAt != nil {
		out.ExpiresAt = clm.ExpiresAt.Time
	}
	return out, nil
}
