package db

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shandysiswandi/growguard/internal/identity/entity"
)

// Issue for one (mobile_number, purpose) pair is serialised by a
// transaction scoped advisory lock, so two issues never both keep a live code.
const (
	queryLockOTPPair = `SELECT pg_advisory_xact_lock(hashtextextended($1::text || ':' || $2::text, 0))`

	queryInvalidateOTP = `
UPDATE identity_otp_codes
SET is_used = TRUE, used_at = $3
WHERE mobile_number = $1 AND purpose = $2 AND is_used = FALSE`

	queryInsertOTP = `
INSERT INTO identity_otp_codes (mobile_number, code_hash, purpose, created_at, expires_at, is_used)
VALUES ($1, $2, $3, $4, $5, FALSE)
RETURNING id`

	// The inner FOR UPDATE makes a concurrent consumer wait; once the winner
	// commits, the row no longer satisfies is_used = FALSE and the loser
	// updates nothing.
	queryConsumeOTP = `
UPDATE identity_otp_codes
SET is_used = TRUE, used_at = $5
WHERE id = (
    SELECT id FROM identity_otp_codes
    WHERE mobile_number = $1 AND purpose = $2 AND code_hash = $3
      AND is_used = FALSE AND expires_at > $4
    ORDER BY created_at DESC, id DESC
    LIMIT 1
    FOR UPDATE
) AND is_used = FALSE
RETURNING id, mobile_number, code_hash, purpose, created_at, expires_at, is_used, used_at`

	queryDeleteStaleOTP = `
DELETE FROM identity_otp_codes
WHERE id IN (
    SELECT id FROM identity_otp_codes
    WHERE is_used = TRUE OR expires_at <= $1
    FOR UPDATE SKIP LOCKED
)`
)

func (s *DB) ReplaceOTP(ctx context.Context, rec entity.OTPRecord) (id int64, err error) {
	ctx, span := s.startSpan(ctx, "ReplaceOTP")
	defer func() { s.endSpan(span, err) }()

	tx, err := s.conn.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return 0, err
	}
	defer func() {
		if rErr := tx.Rollback(ctx); rErr != nil && !errors.Is(rErr, pgx.ErrTxClosed) {
			slog.ErrorContext(ctx, "failed to rollback", "error", rErr)
		}
	}()

	if _, err := tx.Exec(ctx, queryLockOTPPair, rec.PhoneNumber, rec.Purpose.String()); err != nil {
		return 0, s.mapError(err)
	}

	if _, err := tx.Exec(ctx, queryInvalidateOTP, rec.PhoneNumber, int16(rec.Purpose), rec.CreatedAt); err != nil {
		return 0, s.mapError(err)
	}

	if err := tx.QueryRow(ctx, queryInsertOTP,
		rec.PhoneNumber,
		rec.CodeHash,
		int16(rec.Purpose),
		rec.CreatedAt,
		rec.ExpiresAt,
	).Scan(&id); err != nil {
		return 0, s.mapError(err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, s.mapError(err)
	}

	return id, nil
}

func (s *DB) ConsumeOTP(ctx context.Context, phone, codeHash string, purpose entity.Purpose, now time.Time) (_ *entity.OTPRecord, err error) {
	ctx, span := s.startSpan(ctx, "ConsumeOTP")
	defer func() { s.endSpan(span, err) }()

	var (
		rec    entity.OTPRecord
		purp   int16
		usedAt *time.Time
	)
	err = s.conn.QueryRow(ctx, queryConsumeOTP, phone, int16(purpose), codeHash, now, now).Scan(
		&rec.ID,
		&rec.PhoneNumber,
		&rec.CodeHash,
		&purp,
		&rec.CreatedAt,
		&rec.ExpiresAt,
		&rec.Used,
		&usedAt,
	)
	if err != nil {
		return nil, s.mapError(err)
	}
	rec.Purpose = entity.Purpose(purp)
	rec.UsedAt = usedAt

	return &rec, nil
}

func (s *DB) DeleteStaleOTP(ctx context.Context, now time.Time) (n int64, err error) {
	ctx, span := s.startSpan(ctx, "DeleteStaleOTP")
	defer func() { s.endSpan(span, err) }()

	tag, err := s.conn.Exec(ctx, queryDeleteStaleOTP, now)
	if err != nil {
		return 0, s.mapError(err)
	}

	return tag.RowsAffected(), nil
}
