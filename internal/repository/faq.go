package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"sitecms/internal/models"
)

type FAQRepo interface {
	Create(ctx context.Context, f *models.FAQ) (*models.FAQ, error)
	Update(ctx context.Context, f *models.FAQ) (*models.FAQ, error)
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*models.FAQ, error)
	List(ctx context.Context, onlyPublished bool, category string) ([]*models.FAQ, error)
	Reorder(ctx context.Context, ids []int64) error
	Count(ctx context.Context) (int, error)
}

type faqRepo struct{ db *pgxpool.Pool }

func NewFAQRepo(db *pgxpool.Pool) FAQRepo { return &faqRepo{db: db} }

const faqCols = `id, question, answer, category, position, is_published, created_at, updated_at`

func scanFAQ(row rowScanner) (*models.FAQ, error) {
	var f models.FAQ
	if err := row.Scan(&f.ID, &f.Question, &f.Answer, &f.Category, &f.Position, &f.IsPublished,
		&f.CreatedAt, &f.UpdatedAt); err != nil {
		return nil, err
	}
	return &f, nil
}

func (r *faqRepo) Create(ctx context.Context, f *models.FAQ) (*models.FAQ, error) {
	out, err := scanFAQ(r.db.QueryRow(ctx,
		`INSERT INTO faqs (question, answer, category, position, is_published)
		 VALUES ($1,$2,$3,$4,$5) RETURNING `+faqCols,
		f.Question, f.Answer, f.Category, f.Position, f.IsPublished))
	return out, dbErr(err)
}

func (r *faqRepo) Update(ctx context.Context, f *models.FAQ) (*models.FAQ, error) {
	out, err := scanFAQ(r.db.QueryRow(ctx,
		`UPDATE faqs SET question=$1, answer=$2, category=$3, position=$4, is_published=$5, updated_at=NOW()
		 WHERE id=$6 RETURNING `+faqCols,
		f.Question, f.Answer, f.Category, f.Position, f.IsPublished, f.ID))
	return out, dbErr(err)
}

func (r *faqRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM faqs WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *faqRepo) GetByID(ctx context.Context, id int64) (*models.FAQ, error) {
	out, err := scanFAQ(r.db.QueryRow(ctx, `SELECT `+faqCols+` FROM faqs WHERE id=$1`, id))
	return out, dbErr(err)
}

func (r *faqRepo) List(ctx context.Context, onlyPublished bool, category string) ([]*models.FAQ, error) {
	w := &where{}
	if onlyPublished {
		w.add("is_published = $%d", true)
	}
	if category != "" {
		w.add("category = $%d", category)
	}
	rows, err := r.db.Query(ctx, `SELECT `+faqCols+` FROM faqs`+w.sql()+` ORDER BY position, id`, w.args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := []*models.FAQ{}
	for rows.Next() {
		f, err := scanFAQ(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, f)
	}
	return list, rows.Err()
}

// Reorder выставляет position по порядку ids в одной транзакции.
func (r *faqRepo) Reorder(ctx context.Context, ids []int64) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer rollback(ctx, tx)

	for i, id := range ids {
		tag, err := tx.Exec(ctx, `UPDATE faqs SET position=$2, updated_at=NOW() WHERE id=$1`, id, i)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("faq %d: %w", id, ErrNotFound)
		}
	}
	return tx.Commit(ctx)
}

func (r *faqRepo) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM faqs`).Scan(&n)
	return n, err
}
