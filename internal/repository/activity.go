package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"sitecms/internal/models"
)

type ActivityRepo interface {
	Create(ctx context.Context, a *models.ActivityLog) error
	List(ctx context.Context, f models.ActivityFilter) ([]*models.ActivityLog, int64, error)
	DeleteOlderThan(ctx context.Context, before time.Time) (int64, error)
	CountSince(ctx context.Context, since time.Time) (int, error)
}

type activityRepo struct{ db *pgxpool.Pool }

func NewActivityRepo(db *pgxpool.Pool) ActivityRepo { return &activityRepo{db: db} }

func (r *activityRepo) Create(ctx context.Context, a *models.ActivityLog) error {
	details := a.Details
	if details == nil {
		details = map[string]any{}
	}
	const q = `
		INSERT INTO activity_logs (user_id, username, action, entity_type, entity_id, details, ip, user_agent)
		VALUES ($1,$2,$3,$4,$5,$6::jsonb,$7,$8)
		RETURNING id, created_at
	`
	return r.db.QueryRow(ctx, q,
		a.UserID, a.Username, a.Action, a.EntityType, a.EntityID, mustJSON(details), a.IP, a.UserAgent,
	).Scan(&a.ID, &a.CreatedAt)
}

func (r *activityRepo) List(ctx context.Context, f models.ActivityFilter) ([]*models.ActivityLog, int64, error) {
	w := &where{}
	if f.UserID != nil {
		w.add("user_id = $%d", *f.UserID)
	}
	if f.Action != "" {
		w.add("action = $%d", f.Action)
	}
	if f.EntityType != "" {
		w.add("entity_type = $%d", f.EntityType)
	}
	if f.From != nil {
		w.add("created_at >= $%d", *f.From)
	}
	if f.To != nil {
		w.add("created_at < $%d", *f.To)
	}

	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM activity_logs`+w.sql(), w.args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	n := w.next()
	q := `SELECT id, user_id, username, action, entity_type, entity_id, details, ip, user_agent, created_at
	      FROM activity_logs` + w.sql() +
		fmt.Sprintf(` ORDER BY created_at DESC, id DESC LIMIT $%d OFFSET $%d`, n, n+1)
	rows, err := r.db.Query(ctx, q, append(w.args, f.Limit, (f.Page-1)*f.Limit)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var list []*models.ActivityLog
	for rows.Next() {
		var (
			a   models.ActivityLog
			raw []byte
		)
		if err := rows.Scan(&a.ID, &a.UserID, &a.Username, &a.Action, &a.EntityType, &a.EntityID,
			&raw, &a.IP, &a.UserAgent, &a.CreatedAt); err != nil {
			return nil, 0, err
		}
		_ = json.Unmarshal(raw, &a.Details)
		list = append(list, &a)
	}
	return list, total, rows.Err()
}

func (r *activityRepo) DeleteOlderThan(ctx context.Context, before time.Time) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM activity_logs WHERE created_at < $1`, before)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (r *activityRepo) CountSince(ctx context.Context, since time.Time) (int, error) {
	var n int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM activity_logs WHERE created_at >= $1`, since).Scan(&n)
	return n, err
}
