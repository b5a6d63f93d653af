package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"sitecms/internal/models"
)

type ContactRepo interface {
	Create(ctx context.Context, c *models.Contact) (*models.Contact, error)
	GetByID(ctx context.Context, id int64) (*models.Contact, error)
	List(ctx context.Context, f models.ContactFilter) ([]*models.Contact, int64, error)
	UpdateStatus(ctx context.Context, id int64, status models.ContactStatus) (*models.Contact, error)
	Delete(ctx context.Context, id int64) error
	Stats(ctx context.Context, s *models.DashboardStats) error
}

type contactRepo struct{ db *pgxpool.Pool }

func NewContactRepo(db *pgxpool.Pool) ContactRepo { return &contactRepo{db: db} }

const contactCols = `id, name, email, company, phone, subject, message, status, ip, created_at, updated_at`

func scanContact(row rowScanner) (*models.Contact, error) {
	var (
		c      models.Contact
		status string
	)
	if err := row.Scan(&c.ID, &c.Name, &c.Email, &c.Company, &c.Phone, &c.Subject, &c.Message,
		&status, &c.IP, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	c.Status = models.ContactStatus(status)
	return &c, nil
}

func (r *contactRepo) Create(ctx context.Context, c *models.Contact) (*models.Contact, error) {
	const q = `
		INSERT INTO contacts (name, email, company, phone, subject, message, status, ip)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		RETURNING ` + contactCols
	out, err := scanContact(r.db.QueryRow(ctx, q,
		c.Name, c.Email, c.Company, c.Phone, c.Subject, c.Message, string(models.ContactNew), c.IP))
	return out, dbErr(err)
}

func (r *contactRepo) GetByID(ctx context.Context, id int64) (*models.Contact, error) {
	out, err := scanContact(r.db.QueryRow(ctx, `SELECT `+contactCols+` FROM contacts WHERE id=$1`, id))
	return out, dbErr(err)
}

func (r *contactRepo) List(ctx context.Context, f models.ContactFilter) ([]*models.Contact, int64, error) {
	w := &where{}
	if f.Status != "" {
		w.add("status = $%d", string(f.Status))
	}
	if f.Query != "" {
		w.add("(name ILIKE $%[1]d OR email ILIKE $%[1]d OR company ILIKE $%[1]d OR message ILIKE $%[1]d)", "%"+f.Query+"%")
	}

	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM contacts`+w.sql(), w.args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	n := w.next()
	q := `SELECT ` + contactCols + ` FROM contacts` + w.sql() +
		fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, n, n+1)
	rows, err := r.db.Query(ctx, q, append(w.args, f.Limit, (f.Page-1)*f.Limit)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var list []*models.Contact
	for rows.Next() {
		c, err := scanContact(rows)
		if err != nil {
			return nil, 0, err
		}
		list = append(list, c)
	}
	return list, total, rows.Err()
}

func (r *contactRepo) UpdateStatus(ctx context.Context, id int64, status models.ContactStatus) (*models.Contact, error) {
	out, err := scanContact(r.db.QueryRow(ctx,
		`UPDATE contacts SET status=$2, updated_at=NOW() WHERE id=$1 RETURNING `+contactCols, id, string(status)))
	return out, dbErr(err)
}

func (r *contactRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM contacts WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *contactRepo) Stats(ctx context.Context, s *models.DashboardStats) error {
	return r.db.QueryRow(ctx,
		`SELECT COUNT(*), COUNT(*) FILTER (WHERE status = 'new') FROM contacts`,
	).Scan(&s.ContactsTotal, &s.ContactsNew)
}
