package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"sitecms/internal/models"
)

type mockFAQRepo struct {
	order []int64
}

func (m *mockFAQRepo) Create(_ context.Context, f *models.FAQ) (*models.FAQ, error) {
	f.ID = 1
	return f, nil
}
func (m *mockFAQRepo) Update(_ context.Context, f *models.FAQ) (*models.FAQ, error) { return f, nil }
func (m *mockFAQRepo) Delete(_ context.Context, _ int64) error                     { return nil }
func (m *mockFAQRepo) GetByID(_ context.Context, _ int64) (*models.FAQ, error) {
	return nil, ErrNotFound
}
func (m *mockFAQRepo) List(_ context.Context, _ bool, _ string) ([]*models.FAQ, error) {
	return nil, nil
}
func (m *mockFAQRepo) Reorder(_ context.Context, ids []int64) error {
	m.order = ids
	return nil
}
func (m *mockFAQRepo) Count(_ context.Context) (int, error) { return 0, nil }

func TestFAQCreate_SanitizesText(t *testing.T) {
	acts := &mockActivityRepo{}
	svc := NewFAQService(&mockFAQRepo{}, NewActivityService(acts))

	f, err := svc.Create(context.Background(), &models.FAQInput{
		Question: "Как <script>x</script>заказать сайт?",
		Answer:   "<p>Напишите нам</p>",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if f.Question != "Как заказать сайт?" || f.Answer != "Напишите нам" {
		t.Fatalf("faq = %+v", f)
	}
	if got := acts.actions(); len(got) != 1 || got[0] != "create:faq" {
		t.Fatalf("журнал = %v", got)
	}
}

func TestFAQCreate_KeepsLiteralAngleBrackets(t *testing.T) {
	svc := NewFAQService(&mockFAQRepo{}, nil)

	f, err := svc.Create(context.Background(), &models.FAQInput{
		Question: "Если a<b, что делать?",
		Answer:   "Поменять местами: x <y and z> w",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if f.Question != "Если a<b, что делать?" || f.Answer != "Поменять местами: x <y and z> w" {
		t.Fatalf("текст обрезан: %+v", f)
	}
}

func TestFAQReorder(t *testing.T) {
	repo := &mockFAQRepo{}
	svc := NewFAQService(repo, nil)
	ctx := context.Background()

	if err := svc.Reorder(ctx, &models.FAQReorderRequest{IDs: []int64{3, 1, 3}}); !errors.Is(err, ErrValidation) {
		t.Fatalf("повтор id: ожидали ErrValidation, получили %v", err)
	}
	if err := svc.Reorder(ctx, &models.FAQReorderRequest{}); !errors.Is(err, ErrValidation) {
		t.Fatalf("пустой список: ожидали ErrValidation, получили %v", err)
	}
	if err := svc.Reorder(ctx, &models.FAQReorderRequest{IDs: []int64{3, 1, 2}}); err != nil {
		t.Fatalf("Reorder: %v", err)
	}
	if len(repo.order) != 3 || repo.order[0] != 3 {
		t.Fatalf("порядок = %v", repo.order)
	}
}

func TestActivityPurge(t *testing.T) {
	acts := &mockActivityRepo{}
	svc := NewActivityService(acts)
	now := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	if n, _ := svc.Purge(context.Background(), 0); n != 0 {
		t.Fatal("срок 0 дней выключает очистку")
	}
	n, err := svc.Purge(context.Background(), 7)
	if err != nil || n != 3 {
		t.Fatalf("Purge: n=%d err=%v", n, err)
	}
	if !acts.before.Equal(now.AddDate(0, 0, -7)) {
		t.Fatalf("граница = %v", acts.before)
	}
}
