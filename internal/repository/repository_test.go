package repository_test

import (
	"context"
	"errors"
	"testing"

	"sitecms/internal/content"
	"sitecms/internal/models"
	"sitecms/internal/repository"
)

func TestPostRepo_CountersFollowPosts(t *testing.T) {
	pool := newTestPool(t)
	ctx := context.Background()
	posts := repository.NewPostRepo(pool)
	cats := repository.NewCategoryRepo(pool)
	tags := repository.NewTagRepo(pool)

	cat, err := cats.Create(ctx, &models.Category{Name: "Новости", Slug: "news"})
	if err != nil {
		t.Fatalf("категория: %v", err)
	}

	p, err := posts.Create(ctx, &models.BlogPost{
		Title:      "Первый пост",
		Slug:       "first",
		Status:     models.StatusDraft,
		CategoryID: &cat.ID,
		Tags:       []string{"Go", "CMS"},
		Content:    []content.Block{{ID: "a", Type: content.TypeParagraph, Content: "текст"}},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if p.Category == nil || p.Category.Slug != "news" {
		t.Fatalf("категория не подтянулась: %+v", p.Category)
	}
	if p.PublishedAt != nil {
		t.Fatal("у черновика не должно быть даты публикации")
	}

	got, _ := cats.GetByID(ctx, cat.ID)
	if got.PostCount != 1 {
		t.Fatalf("post_count категории = %d", got.PostCount)
	}
	goTag, err := tags.GetBySlug(ctx, "go")
	if err != nil || goTag.PostCount != 1 {
		t.Fatalf("тег go: %+v, %v", goTag, err)
	}

	p.Tags = []string{"CMS", "Web"}
	p.CategoryID = nil
	if _, err := posts.Update(ctx, p); err != nil {
		t.Fatalf("Update: %v", err)
	}
	got, _ = cats.GetByID(ctx, cat.ID)
	goTag, _ = tags.GetBySlug(ctx, "go")
	web, _ := tags.GetBySlug(ctx, "web")
	if got.PostCount != 0 || goTag.PostCount != 0 || web == nil || web.PostCount != 1 {
		t.Fatalf("счётчики после Update: cat=%d go=%d web=%+v", got.PostCount, goTag.PostCount, web)
	}

	if _, err := posts.Delete(ctx, p.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	web, _ = tags.GetBySlug(ctx, "web")
	if web.PostCount != 0 {
		t.Fatalf("тег web после удаления поста: %d", web.PostCount)
	}
	if _, err := posts.GetByID(ctx, p.ID); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("ожидали ErrNotFound, получили %v", err)
	}
}

func TestPostRepo_StatusContentAndList(t *testing.T) {
	pool := newTestPool(t)
	ctx := context.Background()
	posts := repository.NewPostRepo(pool)

	p, err := posts.Create(ctx, &models.BlogPost{Title: "Статья", Slug: "article", Status: models.StatusDraft})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if len(p.Content) != 0 || p.Tags == nil {
		t.Fatalf("пустые коллекции должны сохраняться как [], а не null: %+v", p)
	}
	if _, err := posts.Create(ctx, &models.BlogPost{Title: "Дубль", Slug: "article"}); !errors.Is(err, repository.ErrDuplicate) {
		t.Fatalf("повтор slug: ожидали ErrDuplicate, получили %v", err)
	}

	blocks := []content.Block{{ID: "h", Type: content.TypeHeading, Content: "Заголовок", Metadata: &content.Metadata{Level: 3}}}
	if err := posts.UpdateContent(ctx, p.ID, blocks, 2); err != nil {
		t.Fatalf("UpdateContent: %v", err)
	}
	if err := posts.UpdateContent(ctx, 999999, blocks, 1); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("UpdateContent несуществующего: %v", err)
	}

	pub, err := posts.SetStatus(ctx, p.ID, models.StatusPublished)
	if err != nil {
		t.Fatalf("SetStatus: %v", err)
	}
	if pub.PublishedAt == nil || pub.ReadingTime != 2 || pub.Content[0].Metadata.Level != 3 {
		t.Fatalf("после публикации: %+v", pub)
	}
	first := *pub.PublishedAt
	again, _ := posts.SetStatus(ctx, p.ID, models.StatusPublished)
	if !again.PublishedAt.Equal(first) {
		t.Fatal("повторная публикация не должна менять дату")
	}

	_, _ = posts.Create(ctx, &models.BlogPost{Title: "Черновик", Slug: "draft", Status: models.StatusDraft})
	list, total, err := posts.List(ctx, models.PostFilter{Status: models.StatusPublished, Page: 1, Limit: 10})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if total != 1 || len(list) != 1 || list[0].Slug != "article" {
		t.Fatalf("List: total=%d len=%d", total, len(list))
	}

	exists, _ := posts.SlugExists(ctx, "article", p.ID)
	if exists {
		t.Fatal("собственный slug не должен считаться занятым")
	}
}

func TestTagRepo_DeleteStripsPosts(t *testing.T) {
	pool := newTestPool(t)
	ctx := context.Background()
	posts := repository.NewPostRepo(pool)
	tags := repository.NewTagRepo(pool)

	p, err := posts.Create(ctx, &models.BlogPost{Title: "С тегами", Slug: "tagged", Tags: []string{"go", "web"}})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	tag, _ := tags.GetBySlug(ctx, "go")
	if _, err := tags.Delete(ctx, tag.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	got, _ := posts.GetByID(ctx, p.ID)
	if len(got.Tags) != 1 || got.Tags[0] != "web" {
		t.Fatalf("теги поста = %v", got.Tags)
	}
	if _, err := tags.Delete(ctx, tag.ID); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("повторное удаление: %v", err)
	}
}

func TestFAQRepo_Reorder(t *testing.T) {
	pool := newTestPool(t)
	ctx := context.Background()
	faqs := repository.NewFAQRepo(pool)

	var ids []int64
	for _, q := range []string{"Первый вопрос?", "Второй вопрос?", "Третий вопрос?"} {
		f, err := faqs.Create(ctx, &models.FAQ{Question: q, Answer: "Ответ", IsPublished: true})
		if err != nil {
			t.Fatalf("Create: %v", err)
		}
		ids = append(ids, f.ID)
	}

	if err := faqs.Reorder(ctx, []int64{ids[2], ids[0], ids[1]}); err != nil {
		t.Fatalf("Reorder: %v", err)
	}
	list, _ := faqs.List(ctx, true, "")
	if len(list) != 3 || list[0].ID != ids[2] || list[2].ID != ids[1] {
		t.Fatalf("порядок после Reorder: %v", list)
	}
	if err := faqs.Reorder(ctx, []int64{ids[0], 424242}); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("неизвестный id: %v", err)
	}
}

func TestContactRepo_ListAndStats(t *testing.T) {
	pool := newTestPool(t)
	ctx := context.Background()
	contacts := repository.NewContactRepo(pool)

	for _, name := range []string{"Anna", "Boris"} {
		if _, err := contacts.Create(ctx, &models.Contact{Name: name, Email: "a@b.c", Message: "Здравствуйте"}); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}
	list, total, err := contacts.List(ctx, models.ContactFilter{Query: "bor", Page: 1, Limit: 10})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if total != 1 || list[0].Name != "Boris" || list[0].Status != models.ContactNew {
		t.Fatalf("поиск: total=%d %+v", total, list)
	}

	if _, err := contacts.UpdateStatus(ctx, list[0].ID, models.ContactRead); err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
	var st models.DashboardStats
	if err := contacts.Stats(ctx, &st); err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if st.ContactsTotal != 2 || st.ContactsNew != 1 {
		t.Fatalf("stats = %+v", st)
	}
}
