package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"sitecms/internal/models"
)

type CategoryRepo interface {
	Create(ctx context.Context, c *models.Category) (*models.Category, error)
	Update(ctx context.Context, c *models.Category) (*models.Category, error)
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*models.Category, error)
	GetBySlug(ctx context.Context, slug string) (*models.Category, error)
	List(ctx context.Context) ([]*models.Category, error)
	Count(ctx context.Context) (int, error)
}

type TagRepo interface {
	Create(ctx context.Context, t *models.Tag) (*models.Tag, error)
	Delete(ctx context.Context, id int64) (*models.Tag, error)
	GetBySlug(ctx context.Context, slug string) (*models.Tag, error)
	List(ctx context.Context, onlyUsed bool) ([]*models.Tag, error)
	Count(ctx context.Context) (int, error)
}

type categoryRepo struct{ db *pgxpool.Pool }

func NewCategoryRepo(db *pgxpool.Pool) CategoryRepo { return &categoryRepo{db: db} }

const categoryCols = `id, name, slug, description, post_count, created_at, updated_at`

func scanCategory(row rowScanner) (*models.Category, error) {
	var c models.Category
	if err := row.Scan(&c.ID, &c.Name, &c.Slug, &c.Description, &c.PostCount, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *categoryRepo) Create(ctx context.Context, c *models.Category) (*models.Category, error) {
	out, err := scanCategory(r.db.QueryRow(ctx,
		`INSERT INTO categories (name, slug, description) VALUES ($1,$2,$3) RETURNING `+categoryCols,
		c.Name, c.Slug, c.Description))
	return out, dbErr(err)
}

func (r *categoryRepo) Update(ctx context.Context, c *models.Category) (*models.Category, error) {
	out, err := scanCategory(r.db.QueryRow(ctx,
		`UPDATE categories SET name=$1, slug=$2, description=$3, updated_at=NOW() WHERE id=$4 RETURNING `+categoryCols,
		c.Name, c.Slug, c.Description, c.ID))
	return out, dbErr(err)
}

// Delete: посты категории остаются без категории (ON DELETE SET NULL).
func (r *categoryRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM categories WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *categoryRepo) GetByID(ctx context.Context, id int64) (*models.Category, error) {
	out, err := scanCategory(r.db.QueryRow(ctx, `SELECT `+categoryCols+` FROM categories WHERE id=$1`, id))
	return out, dbErr(err)
}

func (r *categoryRepo) GetBySlug(ctx context.Context, slug string) (*models.Category, error) {
	out, err := scanCategory(r.db.QueryRow(ctx, `SELECT `+categoryCols+` FROM categories WHERE slug=$1`, slug))
	return out, dbErr(err)
}

func (r *categoryRepo) List(ctx context.Context) ([]*models.Category, error) {
	rows, err := r.db.Query(ctx, `SELECT `+categoryCols+` FROM categories ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := []*models.Category{}
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

func (r *categoryRepo) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM categories`).Scan(&n)
	return n, err
}

// ----- Tags -----

type tagRepo struct{ db *pgxpool.Pool }

func NewTagRepo(db *pgxpool.Pool) TagRepo { return &tagRepo{db: db} }

const tagCols = `id, name, slug, post_count, created_at`

func scanTag(row rowScanner) (*models.Tag, error) {
	var t models.Tag
	if err := row.Scan(&t.ID, &t.Name, &t.Slug, &t.PostCount, &t.CreatedAt); err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *tagRepo) Create(ctx context.Context, t *models.Tag) (*models.Tag, error) {
	out, err := scanTag(r.db.QueryRow(ctx,
		`INSERT INTO tags (name, slug) VALUES ($1,$2) RETURNING `+tagCols, t.Name, t.Slug))
	return out, dbErr(err)
}

// Delete удаляет тег и вычищает его из постов.
func (r *tagRepo) Delete(ctx context.Context, id int64) (*models.Tag, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer rollback(ctx, tx)

	t, err := scanTag(tx.QueryRow(ctx, `DELETE FROM tags WHERE id=$1 RETURNING `+tagCols, id))
	if err != nil {
		return nil, dbErr(err)
	}
	if _, err := tx.Exec(ctx,
		`UPDATE posts SET tags = tags - $1::text, updated_at = NOW() WHERE tags @> jsonb_build_array($1::text)`,
		t.Name); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return t, nil
}

func (r *tagRepo) GetBySlug(ctx context.Context, slug string) (*models.Tag, error) {
	out, err := scanTag(r.db.QueryRow(ctx, `SELECT `+tagCols+` FROM tags WHERE slug=$1`, slug))
	return out, dbErr(err)
}

func (r *tagRepo) List(ctx context.Context, onlyUsed bool) ([]*models.Tag, error) {
	q := `SELECT ` + tagCols + ` FROM tags`
	if onlyUsed {
		q += ` WHERE post_count > 0`
	}
	q += ` ORDER BY post_count DESC, name`

	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := []*models.Tag{}
	for rows.Next() {
		t, err := scanTag(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, t)
	}
	return list, rows.Err()
}

func (r *tagRepo) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM tags`).Scan(&n)
	return n, err
}
