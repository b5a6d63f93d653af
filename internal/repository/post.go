package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"sitecms/internal/content"
	"sitecms/internal/models"
)

type PostRepo interface {
	Create(ctx context.Context, p *models.BlogPost) (*models.BlogPost, error)
	Update(ctx context.Context, p *models.BlogPost) (*models.BlogPost, error)
	UpdateContent(ctx context.Context, id int64, blocks []content.Block, readingTime int) error
	SetStatus(ctx context.Context, id int64, status models.PostStatus) (*models.BlogPost, error)
	Delete(ctx context.Context, id int64) (*models.BlogPost, error)
	GetByID(ctx context.Context, id int64) (*models.BlogPost, error)
	GetBySlug(ctx context.Context, slug string) (*models.BlogPost, error)
	List(ctx context.Context, f models.PostFilter) ([]*models.BlogPost, int64, error)
	SlugExists(ctx context.Context, slug string, excludeID int64) (bool, error)
	IncrementViews(ctx context.Context, id int64) error
	Stats(ctx context.Context, s *models.DashboardStats) error
}

type postRepo struct{ db *pgxpool.Pool }

func NewPostRepo(db *pgxpool.Pool) PostRepo { return &postRepo{db: db} }

const postSelect = `
	SELECT p.id, p.title, p.slug, p.content, p.excerpt, p.hero_image, p.author, p.author_id,
	       p.status, p.featured, p.category_id, c.name, c.slug, p.tags, p.seo, p.translations,
	       p.reading_time, p.views, p.published_at, p.created_at, p.updated_at
	FROM posts p
	LEFT JOIN categories c ON c.id = p.category_id
`

func scanPost(row rowScanner) (*models.BlogPost, error) {
	var (
		p                                     models.BlogPost
		status                                string
		catName, catSlug                      *string
		contentRaw, tagsRaw, seoRaw, transRaw []byte
	)
	if err := row.Scan(
		&p.ID, &p.Title, &p.Slug, &contentRaw, &p.Excerpt, &p.HeroImage, &p.Author, &p.AuthorID,
		&status, &p.Featured, &p.CategoryID, &catName, &catSlug, &tagsRaw, &seoRaw, &transRaw,
		&p.ReadingTime, &p.Views, &p.PublishedAt, &p.CreatedAt, &p.UpdatedAt,
	); err != nil {
		return nil, err
	}
	p.Status = models.PostStatus(status)
	if p.CategoryID != nil && catName != nil && catSlug != nil {
		p.Category = &models.CategoryRef{ID: *p.CategoryID, Name: *catName, Slug: *catSlug}
	}
	if err := json.Unmarshal(contentRaw, &p.Content); err != nil {
		return nil, fmt.Errorf("posts.content: %w", err)
	}
	_ = json.Unmarshal(tagsRaw, &p.Tags)
	_ = json.Unmarshal(seoRaw, &p.SEO)
	_ = json.Unmarshal(transRaw, &p.Translations)
	if p.Tags == nil {
		p.Tags = []string{}
	}
	return &p, nil
}

func (r *postRepo) Create(ctx context.Context, p *models.BlogPost) (*models.BlogPost, error) {
	normalizeDoc(p)
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer rollback(ctx, tx)

	const q = `
		INSERT INTO posts (title, slug, content, excerpt, hero_image, author, author_id, status,
		                   featured, category_id, tags, seo, translations, reading_time, published_at)
		VALUES ($1,$2,$3::jsonb,$4,$5,$6,$7,$8,$9,$10,$11::jsonb,$12::jsonb,$13::jsonb,$14,
		        CASE WHEN $8 = 'published' THEN NOW() ELSE NULL END)
		RETURNING id
	`
	var id int64
	if err := tx.QueryRow(ctx, q,
		p.Title, p.Slug, mustJSON(p.Content), p.Excerpt, p.HeroImage, p.Author, p.AuthorID, string(p.Status),
		p.Featured, p.CategoryID, mustJSON(p.Tags), mustJSON(p.SEO), mustJSON(p.Translations), p.ReadingTime,
	).Scan(&id); err != nil {
		return nil, dbErr(err)
	}

	if err := adjustCategory(ctx, tx, p.CategoryID, 1); err != nil {
		return nil, err
	}
	if err := adjustTags(ctx, tx, p.Tags, 1); err != nil {
		return nil, err
	}

	out, err := scanPost(tx.QueryRow(ctx, postSelect+" WHERE p.id = $1", id))
	if err != nil {
		return nil, dbErr(err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return out, nil
}

// Update сохраняет пост и пересчитывает счётчики категорий/тегов по разнице.
func (r *postRepo) Update(ctx context.Context, p *models.BlogPost) (*models.BlogPost, error) {
	normalizeDoc(p)
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer rollback(ctx, tx)

	prevCat, prevTags, err := lockRefs(ctx, tx, p.ID)
	if err != nil {
		return nil, err
	}

	const q = `
		UPDATE posts
		SET title=$1, slug=$2, content=$3::jsonb, excerpt=$4, hero_image=$5, author=$6,
		    status=$7, featured=$8, category_id=$9, tags=$10::jsonb, seo=$11::jsonb,
		    translations=$12::jsonb, reading_time=$13,
		    published_at = CASE WHEN $7 = 'published' THEN COALESCE(published_at, NOW()) ELSE published_at END,
		    updated_at=NOW()
		WHERE id=$14
	`
	if _, err := tx.Exec(ctx, q,
		p.Title, p.Slug, mustJSON(p.Content), p.Excerpt, p.HeroImage, p.Author,
		string(p.Status), p.Featured, p.CategoryID, mustJSON(p.Tags), mustJSON(p.SEO),
		mustJSON(p.Translations), p.ReadingTime, p.ID,
	); err != nil {
		return nil, dbErr(err)
	}

	if !sameID(prevCat, p.CategoryID) {
		if err := adjustCategory(ctx, tx, prevCat, -1); err != nil {
			return nil, err
		}
		if err := adjustCategory(ctx, tx, p.CategoryID, 1); err != nil {
			return nil, err
		}
	}
	removed, added := diffTags(prevTags, p.Tags)
	if err := adjustTags(ctx, tx, removed, -1); err != nil {
		return nil, err
	}
	if err := adjustTags(ctx, tx, added, 1); err != nil {
		return nil, err
	}

	out, err := scanPost(tx.QueryRow(ctx, postSelect+" WHERE p.id = $1", p.ID))
	if err != nil {
		return nil, dbErr(err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *postRepo) UpdateContent(ctx context.Context, id int64, blocks []content.Block, readingTime int) error {
	const q = `UPDATE posts SET content=$2::jsonb, reading_time=$3, updated_at=NOW() WHERE id=$1`
	tag, err := r.db.Exec(ctx, q, id, mustJSON(blocks), readingTime)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// SetStatus: published_at выставляется только при первой публикации.
func (r *postRepo) SetStatus(ctx context.Context, id int64, status models.PostStatus) (*models.BlogPost, error) {
	const q = `
		UPDATE posts
		SET status = $2,
		    published_at = CASE WHEN $2 = 'published' THEN COALESCE(published_at, NOW()) ELSE published_at END,
		    updated_at = NOW()
		WHERE id = $1
	`
	tag, err := r.db.Exec(ctx, q, id, string(status))
	if err != nil {
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		return nil, ErrNotFound
	}
	return r.GetByID(ctx, id)
}

// Delete удаляет пост, уменьшает счётчики и возвращает удалённую запись.
func (r *postRepo) Delete(ctx context.Context, id int64) (*models.BlogPost, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer rollback(ctx, tx)

	p, err := scanPost(tx.QueryRow(ctx, postSelect+" WHERE p.id = $1 FOR UPDATE OF p", id))
	if err != nil {
		return nil, dbErr(err)
	}
	if _, err := tx.Exec(ctx, "DELETE FROM posts WHERE id=$1", id); err != nil {
		return nil, err
	}
	if err := adjustCategory(ctx, tx, p.CategoryID, -1); err != nil {
		return nil, err
	}
	if err := adjustTags(ctx, tx, p.Tags, -1); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return p, nil
}

func (r *postRepo) GetByID(ctx context.Context, id int64) (*models.BlogPost, error) {
	p, err := scanPost(r.db.QueryRow(ctx, postSelect+" WHERE p.id = $1", id))
	return p, dbErr(err)
}

func (r *postRepo) GetBySlug(ctx context.Context, slug string) (*models.BlogPost, error) {
	p, err := scanPost(r.db.QueryRow(ctx, postSelect+" WHERE p.slug = $1", slug))
	return p, dbErr(err)
}

func (r *postRepo) List(ctx context.Context, f models.PostFilter) ([]*models.BlogPost, int64, error) {
	w := &where{}
	if f.Status != "" {
		w.add("p.status = $%d", string(f.Status))
	}
	if f.CategorySlug != "" {
		w.add("c.slug = $%d", f.CategorySlug)
	}
	if f.Tag != "" {
		// tags — jsonb-массив строк: ["a","b"]
		w.add("p.tags @> jsonb_build_array($%d::text)", f.Tag)
	}
	if f.Featured != nil {
		w.add("p.featured = $%d", *f.Featured)
	}
	if f.Query != "" {
		w.add("(p.title ILIKE $%[1]d OR p.excerpt ILIKE $%[1]d)", "%"+f.Query+"%")
	}

	const from = " FROM posts p LEFT JOIN categories c ON c.id = p.category_id"
	var total int64
	if err := r.db.QueryRow(ctx, "SELECT COUNT(*)"+from+w.sql(), w.args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	n := w.next()
	sql := postSelect + w.sql() +
		fmt.Sprintf(" ORDER BY p.published_at DESC NULLS LAST, p.created_at DESC LIMIT $%d OFFSET $%d", n, n+1)
	args := append(w.args, f.Limit, (f.Page-1)*f.Limit)

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var list []*models.BlogPost
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, 0, err
		}
		list = append(list, p)
	}
	return list, total, rows.Err()
}

func (r *postRepo) SlugExists(ctx context.Context, slug string, excludeID int64) (bool, error) {
	const q = `SELECT EXISTS(SELECT 1 FROM posts WHERE slug = $1 AND id <> $2)`
	var ok bool
	if err := r.db.QueryRow(ctx, q, slug, excludeID).Scan(&ok); err != nil {
		return false, err
	}
	return ok, nil
}

func (r *postRepo) IncrementViews(ctx context.Context, id int64) error {
	_, err := r.db.Exec(ctx, "UPDATE posts SET views = views + 1 WHERE id=$1", id)
	return err
}

func (r *postRepo) Stats(ctx context.Context, s *models.DashboardStats) error {
	const q = `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE status = 'draft'),
		       COUNT(*) FILTER (WHERE status = 'published'),
		       COUNT(*) FILTER (WHERE status = 'archived'),
		       COUNT(*) FILTER (WHERE featured)
		FROM posts
	`
	return r.db.QueryRow(ctx, q).Scan(&s.PostsTotal, &s.PostsDraft, &s.PostsPublished, &s.PostsArchived, &s.PostsFeatured)
}

// normalizeDoc не даёт записать jsonb null вместо пустых коллекций.
func normalizeDoc(p *models.BlogPost) {
	if p.Content == nil {
		p.Content = []content.Block{}
	}
	if p.Tags == nil {
		p.Tags = []string{}
	}
	if p.Translations == nil {
		p.Translations = map[string]content.Translation{}
	}
}

// ---- счётчики ----

func lockRefs(ctx context.Context, tx pgx.Tx, id int64) (*int64, []string, error) {
	var (
		cat     *int64
		tagsRaw []byte
		tags    []string
	)
	err := tx.QueryRow(ctx, "SELECT category_id, tags FROM posts WHERE id=$1 FOR UPDATE", id).Scan(&cat, &tagsRaw)
	if err != nil {
		return nil, nil, dbErr(err)
	}
	_ = json.Unmarshal(tagsRaw, &tags)
	return cat, tags, nil
}

func adjustCategory(ctx context.Context, tx pgx.Tx, id *int64, delta int) error {
	if id == nil {
		return nil
	}
	_, err := tx.Exec(ctx,
		"UPDATE categories SET post_count = GREATEST(post_count + $2, 0), updated_at = NOW() WHERE id = $1",
		*id, delta)
	return err
}

func adjustTags(ctx context.Context, tx pgx.Tx, names []string, delta int) error {
	for _, name := range names {
		slug := content.Slugify(name)
		if slug == "" {
			continue
		}
		var err error
		if delta > 0 {
			_, err = tx.Exec(ctx, `
				INSERT INTO tags (name, slug, post_count) VALUES ($1, $2, $3)
				ON CONFLICT (slug) DO UPDATE SET post_count = tags.post_count + EXCLUDED.post_count`,
				name, slug, delta)
		} else {
			_, err = tx.Exec(ctx,
				"UPDATE tags SET post_count = GREATEST(post_count + $2, 0) WHERE slug = $1",
				slug, delta)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func diffTags(prev, next []string) (removed, added []string) {
	in := func(list []string, v string) bool {
		for _, s := range list {
			if s == v {
				return true
			}
		}
		return false
	}
	for _, t := range prev {
		if !in(next, t) {
			removed = append(removed, t)
		}
	}
	for _, t := range next {
		if !in(prev, t) {
			added = append(added, t)
		}
	}
	return removed, added
}

func sameID(a, b *int64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
