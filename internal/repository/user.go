package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"sitecms/internal/models"
)

type UserRepo interface {
	Create(ctx context.Context, u *models.User) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	IsUsernameTaken(ctx context.Context, username string) (bool, error)
}

type userRepo struct{ db *pgxpool.Pool }

func NewUserRepo(db *pgxpool.Pool) UserRepo { return &userRepo{db: db} }

const userCols = `id, username, email, password_hash, role, created_at, updated_at`

func scanUser(row rowScanner) (*models.User, error) {
	var u models.User
	if err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.Role, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *userRepo) Create(ctx context.Context, u *models.User) (*models.User, error) {
	out, err := scanUser(r.db.QueryRow(ctx,
		`INSERT INTO users (username, email, password_hash, role) VALUES ($1,$2,$3,$4) RETURNING `+userCols,
		u.Username, u.Email, u.PasswordHash, u.Role))
	return out, dbErr(err)
}

func (r *userRepo) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	out, err := scanUser(r.db.QueryRow(ctx, `SELECT `+userCols+` FROM users WHERE username=$1`, username))
	return out, dbErr(err)
}

func (r *userRepo) GetByID(ctx context.Context, id int64) (*models.User, error) {
	out, err := scanUser(r.db.QueryRow(ctx, `SELECT `+userCols+` FROM users WHERE id=$1`, id))
	return out, dbErr(err)
}

func (r *userRepo) IsUsernameTaken(ctx context.Context, username string) (bool, error) {
	var ok bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE username=$1)`, username).Scan(&ok)
	return ok, err
}
