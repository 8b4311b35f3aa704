package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/shandysiswandi/growguard/internal/identity/entity"
	"github.com/shandysiswandi/growguard/internal/pkg/goerror"
)

func (s *Usecase) Profile(ctx context.Context) (*entity.User, error) {
	ctx, span := s.startSpan(ctx, "Profile")
	defer span.End()

	clm, err := s.authenticated(ctx)
	if err != nil {
		return nil, err
	}

	user, err := s.repoDB.GetUserByID(ctx, clm.SubjectID)
	if errors.Is(err, goerror.ErrNotFound) {
		slog.WarnContext(ctx, "user account not found", "user_id", clm.SubjectID)
		return nil, ErrAuthRequired
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get user by id", "user_id", clm.SubjectID, "error", err)
		return nil, goerror.NewServer(err)
	}

	return user, nil
}
