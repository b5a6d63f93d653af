package services

import (
	"context"
	"sync"
	"time"

	"sitecms/internal/content"
	"sitecms/internal/models"
	"sitecms/internal/pagination"
	"sitecms/internal/repository"
)

// ----- posts -----

type mockPostRepo struct {
	mu       sync.Mutex
	posts    map[int64]*models.BlogPost
	nextID   int64
	saves    int
	saveErr  error
	views    map[int64]int
	lastSave []content.Block
}

func newMockPostRepo() *mockPostRepo {
	return &mockPostRepo{posts: map[int64]*models.BlogPost{}, views: map[int64]int{}}
}

func (m *mockPostRepo) put(p *models.BlogPost) *models.BlogPost {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	cp := *p
	cp.ID = m.nextID
	m.posts[cp.ID] = &cp
	out := cp
	return &out
}

func (m *mockPostRepo) Create(_ context.Context, p *models.BlogPost) (*models.BlogPost, error) {
	return m.put(p), nil
}

func (m *mockPostRepo) Update(_ context.Context, p *models.BlogPost) (*models.BlogPost, error) {
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

func (m *mockPostRepo) UpdateContent(_ context.Context, id int64, blocks []content.Block, readingTime int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	p, ok := m.posts[id]
	if !ok {
		return repository.ErrNotFound
	}
	p.Content = content.Clone(blocks)
	p.ReadingTime = readingTime
	m.saves++
	m.lastSave = content.Clone(blocks)
	return nil
}

func (m *mockPostRepo) SetStatus(_ context.Context, id int64, status models.PostStatus) (*models.BlogPost, error) {
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

func (m *mockPostRepo) Delete(_ context.Context, id int64) (*models.BlogPost, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.posts[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	delete(m.posts, id)
	return p, nil
}

func (m *mockPostRepo) GetByID(_ context.Context, id int64) (*models.BlogPost, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.posts[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	out := *p
	return &out, nil
}

func (m *mockPostRepo) GetBySlug(_ context.Context, slug string) (*models.BlogPost, error) {
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

func (m *mockPostRepo) List(_ context.Context, f models.PostFilter) ([]*models.BlogPost, int64, error) {
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

func (m *mockPostRepo) SlugExists(_ context.Context, slug string, excludeID int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.posts {
		if p.Slug == slug && p.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockPostRepo) IncrementViews(_ context.Context, id int64) error {
	m.mu.Lock()
	m.views[id]++
	m.mu.Unlock()
	return nil
}

func (m *mockPostRepo) Stats(_ context.Context, s *models.DashboardStats) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s.PostsTotal = len(m.posts)
	return nil
}

func (m *mockPostRepo) saveCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}

// ----- activity -----

type mockActivityRepo struct {
	mu      sync.Mutex
	entries []*models.ActivityLog
	before  time.Time
}

func (m *mockActivityRepo) Create(_ context.Context, a *models.ActivityLog) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	a.ID = int64(len(m.entries) + 1)
	m.entries = append(m.entries, a)
	return nil
}

func (m *mockActivityRepo) List(_ context.Context, _ models.ActivityFilter) ([]*models.ActivityLog, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.entries, int64(len(m.entries)), nil
}

func (m *mockActivityRepo) DeleteOlderThan(_ context.Context, before time.Time) (int64, error) {
	m.before = before
	return 3, nil
}

func (m *mockActivityRepo) CountSince(_ context.Context, _ time.Time) (int, error) {
	return len(m.entries), nil
}

func (m *mockActivityRepo) actions() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.entries))
	for _, e := range m.entries {
		out = append(out, e.Action+":"+e.EntityType)
	}
	return out
}

// ----- categories -----

type mockCategoryRepo struct {
	cats map[int64]*models.Category
}

func (m *mockCategoryRepo) Create(_ context.Context, c *models.Category) (*models.Category, error) {
	for _, ex := range m.cats {
		if ex.Slug == c.Slug {
			return nil, repository.ErrDuplicate
		}
	}
	c.ID = int64(len(m.cats) + 1)
	m.cats[c.ID] = c
	return c, nil
}

func (m *mockCategoryRepo) Update(_ context.Context, c *models.Category) (*models.Category, error) {
	if _, ok := m.cats[c.ID]; !ok {
		return nil, repository.ErrNotFound
	}
	m.cats[c.ID] = c
	return c, nil
}

func (m *mockCategoryRepo) Delete(_ context.Context, id int64) error {
	if _, ok := m.cats[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.cats, id)
	return nil
}

func (m *mockCategoryRepo) GetByID(_ context.Context, id int64) (*models.Category, error) {
	c, ok := m.cats[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return c, nil
}

func (m *mockCategoryRepo) GetBySlug(_ context.Context, slug string) (*models.Category, error) {
	for _, c := range m.cats {
		if c.Slug == slug {
			return c, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *mockCategoryRepo) List(_ context.Context) ([]*models.Category, error) {
	var out []*models.Category
	for _, c := range m.cats {
		out = append(out, c)
	}
	return out, nil
}

func (m *mockCategoryRepo) Count(_ context.Context) (int, error) { return len(m.cats), nil }

// ----- users -----

type mockUserRepo struct {
	users map[string]*models.User
}

func (m *mockUserRepo) Create(_ context.Context, u *models.User) (*models.User, error) {
	u.ID = int64(len(m.users) + 1)
	m.users[u.Username] = u
	return u, nil
}

func (m *mockUserRepo) GetByUsername(_ context.Context, username string) (*models.User, error) {
	u, ok := m.users[username]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return u, nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id int64) (*models.User, error) {
	for _, u := range m.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *mockUserRepo) IsUsernameTaken(_ context.Context, username string) (bool, error) {
	_, ok := m.users[username]
	return ok, nil
}

// ----- contacts -----

type mockContactRepo struct {
	items []*models.Contact
}

func (m *mockContactRepo) Create(_ context.Context, c *models.Contact) (*models.Contact, error) {
	c.ID = int64(len(m.items) + 1)
	c.Status = models.ContactNew
	m.items = append(m.items, c)
	return c, nil
}

func (m *mockContactRepo) GetByID(_ context.Context, id int64) (*models.Contact, error) {
	for _, c := range m.items {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *mockContactRepo) List(_ context.Context, _ models.ContactFilter) ([]*models.Contact, int64, error) {
	return m.items, int64(len(m.items)), nil
}

func (m *mockContactRepo) UpdateStatus(ctx context.Context, id int64, st models.ContactStatus) (*models.Contact, error) {
	c, err := m.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	c.Status = st
	return c, nil
}

func (m *mockContactRepo) Delete(_ context.Context, _ int64) error { return nil }

func (m *mockContactRepo) Stats(_ context.Context, s *models.DashboardStats) error {
	s.ContactsTotal = len(m.items)
	return nil
}

// ----- media -----

type mockMediaRepo struct {
	items map[int64]*models.Media
}

func (m *mockMediaRepo) Create(_ context.Context, md *models.Media) (*models.Media, error) {
	md.ID = int64(len(m.items) + 1)
	m.items[md.ID] = md
	return md, nil
}

func (m *mockMediaRepo) GetByID(_ context.Context, id int64) (*models.Media, error) {
	md, ok := m.items[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return md, nil
}

func (m *mockMediaRepo) List(_ context.Context, _ pagination.Params) ([]*models.Media, int64, error) {
	var out []*models.Media
	for _, md := range m.items {
		out = append(out, md)
	}
	return out, int64(len(out)), nil
}

func (m *mockMediaRepo) Delete(_ context.Context, id int64) error {
	delete(m.items, id)
	return nil
}

func (m *mockMediaRepo) Count(_ context.Context) (int, error) { return len(m.items), nil }

// ----- mail -----

type recordingSender struct {
	mu   sync.Mutex
	jobs []EmailJob
	sent chan struct{}
}

func newRecordingSender() *recordingSender {
	return &recordingSender{sent: make(chan struct{}, 10)}
}

func (r *recordingSender) Send(job EmailJob) error {
	r.mu.Lock()
	r.jobs = append(r.jobs, job)
	r.mu.Unlock()
	r.sent <- struct{}{}
	return nil
}
