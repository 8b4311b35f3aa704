package db

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/shandysiswandi/growguard/internal/identity/entity"
)

const (
	userColumns = `id, mobile_number, name, surname, email, province, district, tehsil, village, address, created_at, updated_at`

	queryExistsUserByMobile = `SELECT EXISTS (SELECT 1 FROM identity_users WHERE mobile_number = $1)`

	queryGetUserByMobile = `SELECT ` + userColumns + ` FROM identity_users WHERE mobile_number = $1`

	queryGetUserByID = `SELECT ` + userColumns + ` FROM identity_users WHERE id = $1`

	queryCreateUser = `
INSERT INTO identity_users (` + userColumns + `)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	queryPatchUser = `
UPDATE identity_users
SET mobile_number = COALESCE($2, mobile_number),
    email = COALESCE($3, email),
    address = COALESCE($4, address),
    updated_at = $5
WHERE id = $1
RETURNING ` + userColumns
)

func scanUser(row pgx.Row) (*entity.User, error) {
	var u entity.User
	if err := row.Scan(
		&u.ID,
		&u.MobileNumber,
		&u.Name,
		&u.Surname,
		&u.Email,
		&u.Province,
		&u.District,
		&u.Tehsil,
		&u.Village,
		&u.Address,
		&u.CreatedAt,
		&u.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *DB) ExistsUserByMobile(ctx context.Context, mobile string) (exists bool, err error) {
	ctx, span := s.startSpan(ctx, "ExistsUserByMobile")
	defer func() { s.endSpan(span, err) }()

	err = s.mapError(s.conn.QueryRow(ctx, queryExistsUserByMobile, mobile).Scan(&exists))
	return exists, err
}

func (s *DB) GetUserByMobile(ctx context.Context, mobile string) (_ *entity.User, err error) {
	ctx, span := s.startSpan(ctx, "GetUserByMobile")
	defer func() { s.endSpan(span, err) }()

	u, err := scanUser(s.conn.QueryRow(ctx, queryGetUserByMobile, mobile))
	if err != nil {
		return nil, s.mapError(err)
	}
	return u, nil
}

func (s *DB) GetUserByID(ctx context.Context, id int64) (_ *entity.User, err error) {
	ctx, span := s.startSpan(ctx, "GetUserByID")
	defer func() { s.endSpan(span, err) }()

	u, err := scanUser(s.conn.QueryRow(ctx, queryGetUserByID, id))
	if err != nil {
		return nil, s.mapError(err)
	}
	return u, nil
}

// CreateUser relies on the unique mobile_number constraint: a concurrent
// registration of the same number fails with goerror.ErrConflict.
func (s *DB) CreateUser(ctx context.Context, u entity.User) (err error) {
	ctx, span := s.startSpan(ctx, "CreateUser")
	defer func() { s.endSpan(span, err) }()

	_, err = s.conn.Exec(ctx, queryCreateUser,
		u.ID,
		u.MobileNumber,
		u.Name,
		u.Surname,
		u.Email,
		u.Province,
		u.District,
		u.Tehsil,
		u.Village,
		u.Address,
		u.CreatedAt,
		u.UpdatedAt,
	)
	return s.mapError(err)
}

func (s *DB) PatchUser(ctx context.Context, p entity.UserPatch) (_ *entity.User, err error) {
	ctx, span := s.startSpan(ctx, "PatchUser")
	defer func() { s.endSpan(span, err) }()

	u, err := scanUser(s.conn.QueryRow(ctx, queryPatchUser, p.ID, p.MobileNumber, p.Email, p.Address, p.UpdatedAt))
	if err != nil {
		return nil, s.mapError(err)
	}
	return u, nil
}
