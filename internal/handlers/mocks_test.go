package handlers

import (
	"context"
	"sync"
	"time"

	"sitecms/internal/content"
	"sitecms/internal/models"
	"sitecms/internal/repository"
)

type memPostRepo struct {
	mu     sync.Mutex
	posts  map[int64]*models.BlogPost
	nextID int64
}

func newMemPostRepo() *memPostRepo {
	return &memPostRepo{posts: map[int64]*models.BlogPost{}}
}

func (m *memPostRepo) Create(_ context.Context, p *models.BlogPost) (*models.BlogPost, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	cp := *p
	cp.ID = m.nextID
	m.posts[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (m *memPostRepo) Update(_ context.Context, p *models.BlogPost) (*models.BlogPost, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.posts[p.ID]; !ok {
		return nil, repository.ErrNotFound
	}
	cp := *p
	m.posts[p.ID] = &cp
	out := cp
	return &out, nil
}

func (m *memPostRepo) UpdateContent(_ context.Context, id int64, blocks []content.Block, readingTime int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.posts[id]
	if !ok {
		return repository.ErrNotFound
	}
	p.Content = content.Clone(blocks)
	p.ReadingTime = readingTime
	return nil
}

func (m *memPostRepo) SetStatus(_ context.Context, id int64, status models.PostStatus) (*models.BlogPost, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.posts[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	p.Status = status
	if status == models.StatusPublished && p.PublishedAt == nil {
		now := time.Now()
		p.PublishedAt = &now
	}
	out := *p
	return &out, nil
}

func (m *memPostRepo) Delete(_ context.Context, id int64) (*models.BlogPost, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.posts[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	delete(m.posts, id)
	return p, nil
}

func (m *memPostRepo) GetByID(_ context.Context, id int64) (*models.BlogPost, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.posts[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	out := *p
	return &out, nil
}

func (m *memPostRepo) GetBySlug(_ context.Context, slug string) (*models.BlogPost, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.posts {
		if p.Slug == slug {
			out := *p
			return &out, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memPostRepo) List(_ context.Context, f models.PostFilter) ([]*models.BlogPost, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*models.BlogPost
	for id := int64(1); id <= m.nextID; id++ {
		p, ok := m.posts[id]
		if !ok || (f.Status != "" && p.Status != f.Status) {
			continue
		}
		cp := *p
		out = append(out, &cp)
	}
	return out, int64(len(out)), nil
}

func (m *memPostRepo) SlugExists(_ context.Context, slug string, excludeID int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.posts {
		if p.Slug == slug && p.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (m *memPostRepo) IncrementViews(context.Context, int64) error { return nil }

func (m *memPostRepo) Stats(context.Context, *models.DashboardStats) error { return nil }

type fakePinger struct{ err error }

func (f fakePinger) Ping(context.Context) error { return f.err }

type staticFAQRepo struct{ items []*models.FAQ }

func (s staticFAQRepo) Create(_ context.Context, f *models.FAQ) (*models.FAQ, error) { return f, nil }
func (s staticFAQRepo) Update(_ context.Context, f *models.FAQ) (*models.FAQ, error) { return f, nil }
func (s staticFAQRepo) Delete(context.Context, int64) error                          { return nil }
func (s staticFAQRepo) Reorder(context.Context, []int64) error                       { return nil }
func (s staticFAQRepo) Count(context.Context) (int, error)                           { return len(s.items), nil }

func (s staticFAQRepo) GetByID(_ context.Context, id int64) (*models.FAQ, error) {
	for _, f := range s.items {
		if f.ID == id {
			return f, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s staticFAQRepo) List(_ context.Context, onlyPublished bool, _ string) ([]*models.FAQ, error) {
	var out []*models.FAQ
	for _, f := range s.items {
		if !onlyPublished || f.IsPublished {
			out = append(out, f)
		}
	}
	return out, nil
}
