package db

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shandysiswandi/growguard/internal/pkg/goerror"
	"github.com/shandysiswandi/growguard/internal/pkg/instrument"
	"github.com/shandysiswandi/growguard/internal/rating/entity"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	queryCreateRating = `
INSERT INTO rating_ratings (id, user_id, rating, feedback, created_at)
VALUES ($1, $2, $3, $4, $5)`

	queryListRatings = `
SELECT r.id, r.rating, r.feedback, r.created_at, u.name, u.surname
FROM rating_ratings r
JOIN identity_users u ON u.id = r.user_id
ORDER BY r.created_at DESC, r.id DESC
LIMIT $1`
)

type DB struct {
	conn *pgxpool.Pool
	ins  instrument.Instrumentation
}

func NewDB(conn *pgxpool.Pool, ins instrument.Instrumentation) *DB {
	return &DB{conn: conn, ins: ins}
}

// A missing author (23503) is reported as goerror.ErrNotFound.
func (s *DB) mapError(err error) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23503" {
		return goerror.ErrNotFound
	}

	return err
}

func (s *DB) CreateRating(ctx context.Context, r entity.Rating) (err error) {
	ctx, span := s.startSpan(ctx, "CreateRating")
	defer func() { s.endSpan(span, err) }()

	_, err = s.conn.Exec(ctx, queryCreateRating, r.ID, r.UserID, r.Rating, r.Feedback, r.CreatedAt)
	return s.mapError(err)
}

func (s *DB) ListRatings(ctx context.Context, limit int32) (_ []entity.RatingItem, err error) {
	ctx, span := s.startSpan(ctx, "ListRatings")
	defer func() { s.endSpan(span, err) }()

	rows, err := s.conn.Query(ctx, queryListRatings, limit)
	if err != nil {
		return nil, err
	}

	return pgx.CollectRows(rows, pgx.RowToStructByName[entity.RatingItem])
}

func (s *DB) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("rating.outbound.db").Start(ctx, name)
}

func (s *DB) endSpan(span trace.Span, err error) {
	if err != nil && !errors.Is(err, goerror.ErrNotFound) {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
