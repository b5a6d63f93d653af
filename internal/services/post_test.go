package services

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"sitecms/internal/cache"
	"sitecms/internal/content"
	"sitecms/internal/models"
)

func newPostService(repo *mockPostRepo, acts *mockActivityRepo) *PostService {
	cats := &mockCategoryRepo{cats: map[int64]*models.Category{
		1: {ID: 1, Name: "Новости", Slug: "news"},
	}}
	return NewPostService(repo, cats, cache.NewMemory(), NewActivityService(acts), PostOptions{
		SupportedLocales: []string{"en", "es"},
		DefaultLocale:    "en",
	})
}

func para(id, text string) content.Block {
	return content.Block{ID: id, Type: content.TypeParagraph, Content: text}
}

func TestPostCreate_ForcesDraftAndNormalizes(t *testing.T) {
	repo := newMockPostRepo()
	acts := &mockActivityRepo{}
	svc := newPostService(repo, acts)

	in := &models.PostInput{
		Title:   "Hello, World!",
		Status:  models.StatusPublished,
		Content: []content.Block{para("a", "<b>Привет</b> мир")},
		Tags:    []string{"Go", "go", " ", "CMS"},
		Translations: map[string]json.RawMessage{
			"es": json.RawMessage(`{"title":"Hola"}`),
			"xx": json.RawMessage(`{"title":"?"}`),
			"en": json.RawMessage(`"oops"`),
		},
	}
	p, err := svc.Create(context.Background(), in)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if p.Status != models.StatusDraft {
		t.Fatalf("статус %q, ожидали draft", p.Status)
	}
	if p.Slug != "hello-world" {
		t.Fatalf("slug = %q", p.Slug)
	}
	if p.Content[0].Content != "<b>Привет</b> мир" {
		t.Fatalf("текст блока изменён: %q", p.Content[0].Content)
	}
	if p.Excerpt != "<b>Привет</b> мир" {
		t.Fatalf("excerpt = %q", p.Excerpt)
	}
	if strings.Join(p.Tags, ",") != "Go,CMS" {
		t.Fatalf("теги = %v", p.Tags)
	}
	if len(p.Translations) != 1 || p.Translations["es"].Title != "Hola" || p.Translations["es"].Slug != "hola" {
		t.Fatalf("переводы = %+v", p.Translations)
	}
	if p.ReadingTime != 1 {
		t.Fatalf("readingTime = %d", p.ReadingTime)
	}
	if got := acts.actions(); len(got) != 1 || got[0] != "create:post" {
		t.Fatalf("журнал = %v", got)
	}
}

func TestPostCreate_UniqueSlugSuffix(t *testing.T) {
	repo := newMockPostRepo()
	svc := newPostService(repo, &mockActivityRepo{})
	ctx := context.Background()

	var slugs []string
	for i := 0; i < 3; i++ {
		p, err := svc.Create(ctx, &models.PostInput{Title: "Same title"})
		if err != nil {
			t.Fatalf("Create: %v", err)
		}
		slugs = append(slugs, p.Slug)
	}
	if strings.Join(slugs, " ") != "same-title same-title-2 same-title-3" {
		t.Fatalf("slugs = %v", slugs)
	}
}

func TestPostCreate_Validation(t *testing.T) {
	svc := newPostService(newMockPostRepo(), &mockActivityRepo{})

	_, err := svc.Create(context.Background(), &models.PostInput{Title: "x"})
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("короткий заголовок: ожидали ErrValidation, получили %v", err)
	}

	missing := int64(42)
	_, err = svc.Create(context.Background(), &models.PostInput{Title: "Valid title", CategoryID: &missing})
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("несуществующая категория: ожидали ErrValidation, получили %v", err)
	}
}

func TestPostUpdate_PublishAndKeepSlug(t *testing.T) {
	repo := newMockPostRepo()
	acts := &mockActivityRepo{}
	svc := newPostService(repo, acts)
	ctx := context.Background()

	p, _ := svc.Create(ctx, &models.PostInput{Title: "First title"})
	out, err := svc.Update(ctx, p.ID, &models.PostInput{Title: "Renamed title", Status: models.StatusPublished})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if out.Slug != "first-title" {
		t.Fatalf("slug не должен меняться без явного запроса: %q", out.Slug)
	}
	if out.Status != models.StatusPublished {
		t.Fatalf("статус = %q", out.Status)
	}
	got := strings.Join(acts.actions(), " ")
	if got != "create:post update:post publish:post" {
		t.Fatalf("журнал = %s", got)
	}

	if _, err := svc.Update(ctx, 999, &models.PostInput{Title: "Whatever"}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("ожидали ErrNotFound, получили %v", err)
	}
}

func TestPublicGet_HidesDraftsAndLocalizes(t *testing.T) {
	repo := newMockPostRepo()
	svc := newPostService(repo, &mockActivityRepo{})
	ctx := context.Background()

	p, _ := svc.Create(ctx, &models.PostInput{
		Title:   "Hello",
		Content: []content.Block{para("a", "1 < 2")},
		Translations: map[string]json.RawMessage{
			"es": json.RawMessage(`{"title":"Hola","content":[{"id":"x","type":"paragraph","content":"uno"}]}`),
		},
	})

	if _, err := svc.PublicGet(ctx, p.Slug, "en"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("черновик не должен быть виден: %v", err)
	}

	if _, err := svc.SetStatus(ctx, p.ID, models.StatusPublished); err != nil {
		t.Fatalf("SetStatus: %v", err)
	}

	en, err := svc.PublicGet(ctx, p.Slug, "en-US")
	if err != nil {
		t.Fatalf("PublicGet: %v", err)
	}
	if en.Locale != "en" || en.HTML != "<p>1 &lt; 2</p>" {
		t.Fatalf("en: locale=%q html=%q", en.Locale, en.HTML)
	}

	es, err := svc.PublicGet(ctx, p.Slug, "es")
	if err != nil {
		t.Fatalf("PublicGet es: %v", err)
	}
	if es.Post.Title != "Hola" || es.HTML != "<p>uno</p>" {
		t.Fatalf("es: title=%q html=%q", es.Post.Title, es.HTML)
	}
	if es.Post.Excerpt != p.Excerpt {
		t.Fatalf("пустое поле перевода должно браться из основы: %q", es.Post.Excerpt)
	}

	fr, _ := svc.PublicGet(ctx, p.Slug, "fr")
	if fr.Locale != "en" || fr.Post.Title != "Hello" {
		t.Fatalf("неподдерживаемая локаль: locale=%q title=%q", fr.Locale, fr.Post.Title)
	}
	if repo.views[p.ID] != 3 {
		t.Fatalf("просмотры = %d", repo.views[p.ID])
	}
}

func TestPublicGet_CacheInvalidatedOnUpdate(t *testing.T) {
	repo := newMockPostRepo()
	svc := newPostService(repo, &mockActivityRepo{})
	ctx := context.Background()

	p, _ := svc.Create(ctx, &models.PostInput{Title: "Cached", Content: []content.Block{para("a", "old")}})
	_, _ = svc.SetStatus(ctx, p.ID, models.StatusPublished)

	first, _ := svc.PublicGet(ctx, p.Slug, "")
	if first.HTML != "<p>old</p>" {
		t.Fatalf("html = %q", first.HTML)
	}

	_, err := svc.Update(ctx, p.ID, &models.PostInput{Title: "Cached", Content: []content.Block{para("a", "new")}})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	second, _ := svc.PublicGet(ctx, p.Slug, "")
	if second.HTML != "<p>new</p>" {
		t.Fatalf("кэш не сброшен: %q", second.HTML)
	}
}

func TestPublicList_OnlyPublished(t *testing.T) {
	repo := newMockPostRepo()
	svc := newPostService(repo, &mockActivityRepo{})
	ctx := context.Background()

	a, _ := svc.Create(ctx, &models.PostInput{Title: "Published one"})
	_, _ = svc.Create(ctx, &models.PostInput{Title: "Draft one"})
	_, _ = svc.SetStatus(ctx, a.ID, models.StatusPublished)

	page, err := svc.PublicList(ctx, models.PostFilter{Status: models.StatusDraft}, "en")
	if err != nil {
		t.Fatalf("PublicList: %v", err)
	}
	if page.Total != 1 || page.Data[0].Slug != "published-one" {
		t.Fatalf("страница = %+v", page)
	}
}

func TestSetStatus_RejectsUnknown(t *testing.T) {
	svc := newPostService(newMockPostRepo(), &mockActivityRepo{})
	if _, err := svc.SetStatus(context.Background(), 1, "deleted"); !errors.Is(err, ErrValidation) {
		t.Fatalf("ожидали ErrValidation, получили %v", err)
	}
}
