package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"sitecms/internal/models"
	"sitecms/internal/pagination"
)

type MediaRepo interface {
	Create(ctx context.Context, m *models.Media) (*models.Media, error)
	GetByID(ctx context.Context, id int64) (*models.Media, error)
	List(ctx context.Context, p pagination.Params) ([]*models.Media, int64, error)
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int, error)
}

type mediaRepo struct{ db *pgxpool.Pool }

func NewMediaRepo(db *pgxpool.Pool) MediaRepo { return &mediaRepo{db: db} }

const mediaCols = `id, filename, original_name, url, mime_type, width, height, size, uploaded_by, uploaded_at`

func scanMedia(row rowScanner) (*models.Media, error) {
	var m models.Media
	if err := row.Scan(&m.ID, &m.Filename, &m.OriginalName, &m.URL, &m.MimeType, &m.Width, &m.Height,
		&m.Size, &m.UploadedBy, &m.UploadedAt); err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *mediaRepo) Create(ctx context.Context, m *models.Media) (*models.Media, error) {
	out, err := scanMedia(r.db.QueryRow(ctx,
		`INSERT INTO media (filename, original_name, url, mime_type, width, height, size, uploaded_by)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8) RETURNING `+mediaCols,
		m.Filename, m.OriginalName, m.URL, m.MimeType, m.Width, m.Height, m.Size, m.UploadedBy))
	return out, dbErr(err)
}

func (r *mediaRepo) GetByID(ctx context.Context, id int64) (*models.Media, error) {
	out, err := scanMedia(r.db.QueryRow(ctx, `SELECT `+mediaCols+` FROM media WHERE id=$1`, id))
	return out, dbErr(err)
}

func (r *mediaRepo) List(ctx context.Context, p pagination.Params) ([]*models.Media, int64, error) {
	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM media`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.db.Query(ctx,
		`SELECT `+mediaCols+` FROM media ORDER BY uploaded_at DESC LIMIT $1 OFFSET $2`, p.Limit, p.Offset())
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var list []*models.Media
	for rows.Next() {
		m, err := scanMedia(rows)
		if err != nil {
			return nil, 0, err
		}
		list = append(list, m)
	}
	return list, total, rows.Err()
}

func (r *mediaRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM media WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *mediaRepo) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM media`).Scan(&n)
	return n, err
}
