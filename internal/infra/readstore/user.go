package readstore

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"

	"stockflow/internal/infra"
	"stockflow/internal/infra/db"
	"stockflow/internal/pkg/pgconv"
)

type UserRow struct {
	ID           uuid.UUID
	Email        string
	PasswordHash string
	Role         string
	IsActive     bool
	LastLogin    *time.Time
}

type UserReadStore struct{}

func NewUserReadStore() *UserReadStore {
	return &UserReadStore{}
}

const userColumns = `id, email, password_hash, role, is_active, last_login`

func (s *UserReadStore) FindByEmail(ctx context.Context, dbtx db.DBTX, email string) (*UserRow, error) {
	row := dbtx.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
	u, err := scanUserRow(row)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.NewRepoErr(infra.KindNotFound, "user not found", err)
		}
		return nil, infra.WrapDBErr("failed to find user by email", err)
	}
	return u, nil
}

func (s *UserReadStore) FindByID(ctx context.Context, dbtx db.DBTX, id uuid.UUID) (*UserRow, error) {
	row := dbtx.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	u, err := scanUserRow(row)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.NewRepoErr(infra.KindNotFound, "user not found", err)
		}
		return nil, infra.WrapDBErr("failed to find user by id", err)
	}
	return u, nil
}

func scanUserRow(row rowScanner) (*UserRow, error) {
	var (
		u         UserRow
		lastLogin pgtype.Timestamptz
	)
	if err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Role, &u.IsActive, &lastLogin); err != nil {
		return nil, err
	}
	u.LastLogin = pgconv.TimePtrFromPgtype(lastLogin)
	return &u, nil
}
