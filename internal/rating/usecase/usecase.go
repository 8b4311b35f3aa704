package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/samber/lo"
	"github.com/shandysiswandi/growguard/internal/pkg/clock"
	"github.com/shandysiswandi/growguard/internal/pkg/goerror"
	"github.com/shandysiswandi/growguard/internal/pkg/instrument"
	"github.com/shandysiswandi/growguard/internal/pkg/jwt"
	"github.com/shandysiswandi/growguard/internal/pkg/uid"
	"github.com/shandysiswandi/growguard/internal/pkg/validator"
	"github.com/shandysiswandi/growguard/internal/rating/entity"
	"go.opentelemetry.io/otel/trace"
)

const (
	defaultListLimit = 50
	maxListLimit     = 200
)

var ErrAuthRequired = goerror.NewBusiness("Authentication required", goerror.CodeUnauthorized)

type repoDB interface {
	CreateRating(ctx context.Context, r entity.Rating) error
	ListRatings(ctx context.Context, limit int32) ([]entity.RatingItem, error)
}

type Usecase struct {
	repoDB    repoDB
	uid       uid.NumberID
	clock     clock.Clocker
	validator validator.Validator
	ins       instrument.Instrumentation
}

type Dependency struct {
	RepoDB     repoDB
	UID        uid.NumberID
	Clock      clock.Clocker
	Validator  validator.Validator
	Instrument instrument.Instrumentation
}

func New(dep Dependency) *Usecase {
	return &Usecase{
		repoDB:    dep.RepoDB,
		uid:       dep.UID,
		clock:     dep.Clock,
		validator: dep.Validator,
		ins:       dep.Instrument,
	}
}

func (s *Usecase) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("rating.usecase").Start(ctx, name)
}

type CreateInput struct {
	Rating   int16  `validate:"required,min=1,max=5"`
	Feedback string `validate:"max=1000"`
}

func (s *Usecase) Create(ctx context.Context, in CreateInput) (int64, error) {
	ctx, span := s.startSpan(ctx, "Create")
	defer span.End()

	clm := jwt.GetAuth(ctx)
	if clm == nil {
		return 0, ErrAuthRequired
	}

	in.Feedback = strings.TrimSpace(in.Feedback)
	if err := s.validator.Validate(in); err != nil {
		return 0, goerror.NewInvalidInput(err)
	}

	r := entity.Rating{
		ID:        s.uid.Generate(),
		UserID:    clm.SubjectID,
		Rating:    in.Rating,
		Feedback:  in.Feedback,
		CreatedAt: s.clock.Now(),
	}
	err := s.repoDB.CreateRating(ctx, r)
	if errors.Is(err, goerror.ErrNotFound) {
		slog.WarnContext(ctx, "rating author no longer exists", "user_id", clm.SubjectID)
		return 0, ErrAuthRequired
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo create rating", "user_id", clm.SubjectID, "error", err)
		return 0, goerror.NewServer(err)
	}

	return r.ID, nil
}

type ListInput struct {
	Limit int
}

type RatingOutput struct {
	ID         int64
	Rating     int16
	Feedback   string
	AuthorName string
	CreatedAt  time.Time
}

func (s *Usecase) List(ctx context.Context, in ListInput) ([]RatingOutput, error) {
	ctx, span := s.startSpan(ctx, "List")
	defer span.End()

	if jwt.GetAuth(ctx) == nil {
		return nil, ErrAuthRequired
	}

	limit := in.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	limit = min(limit, maxListLimit)

	items, err := s.repoDB.ListRatings(ctx, int32(limit))
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo list ratings", "error", err)
		return nil, goerror.NewServer(err)
	}

	return lo.Map(items, func(it entity.RatingItem, _ int) RatingOutput {
		return RatingOutput{
			ID:         it.ID,
			Rating:     it.Rating,
			Feedback:   it.Feedback,
			AuthorName: strings.TrimSpace(it.AuthorName + " " + it.AuthorSurname),
			CreatedAt:  it.CreatedAt,
		}
	}), nil
}
