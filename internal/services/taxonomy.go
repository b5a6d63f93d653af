package services

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"sitecms/internal/content"
	"sitecms/internal/logger"
	"sitecms/internal/models"
	"sitecms/internal/repository"
)

type TaxonomyService struct {
	cats     repository.CategoryRepo
	tags     repository.TagRepo
	activity *ActivityService
}

func NewTaxonomyService(cats repository.CategoryRepo, tags repository.TagRepo, activity *ActivityService) *TaxonomyService {
	return &TaxonomyService{cats: cats, tags: tags, activity: activity}
}

func (s *TaxonomyService) ListCategories(ctx context.Context) ([]*models.Category, error) {
	return s.cats.List(ctx)
}

func (s *TaxonomyService) GetCategory(ctx context.Context, slug string) (*models.Category, error) {
	return s.cats.GetBySlug(ctx, slug)
}

func (s *TaxonomyService) CreateCategory(ctx context.Context, in *models.CategoryInput) (*models.Category, error) {
	if err := Validate(in); err != nil {
		return nil, err
	}
	c := categoryFromInput(in)
	if c.Slug == "" {
		return nil, invalid("не удалось построить slug из названия")
	}
	out, err := s.cats.Create(ctx, c)
	if err != nil {
		logger.WithCtx(ctx).Error("Ошибка создания категории", zap.String("slug", c.Slug), zap.Error(err))
		return nil, err
	}
	logger.WithCtx(ctx).Info("Категория создана", zap.Int64("category_id", out.ID))
	s.activity.Record(ctx, models.ActionCreate, models.EntityCategory, idStr(out.ID), map[string]any{"name": out.Name})
	return out, nil
}

func (s *TaxonomyService) UpdateCategory(ctx context.Context, id int64, in *models.CategoryInput) (*models.Category, error) {
	if err := Validate(in); err != nil {
		return nil, err
	}
	c := categoryFromInput(in)
	c.ID = id
	if c.Slug == "" {
		return nil, invalid("не удалось построить slug из названия")
	}
	out, err := s.cats.Update(ctx, c)
	if err != nil {
		return nil, err
	}
	s.activity.Record(ctx, models.ActionUpdate, models.EntityCategory, idStr(id), map[string]any{"name": out.Name})
	return out, nil
}

func (s *TaxonomyService) DeleteCategory(ctx context.Context, id int64) error {
	if err := s.cats.Delete(ctx, id); err != nil {
		return err
	}
	logger.WithCtx(ctx).Info("Категория удалена", zap.Int64("category_id", id))
	s.activity.Record(ctx, models.ActionDelete, models.EntityCategory, idStr(id), nil)
	return nil
}

func categoryFromInput(in *models.CategoryInput) *models.Category {
	name := strings.TrimSpace(content.SanitizeText(in.Name))
	slug := content.Slugify(in.Slug)
	if slug == "" {
		slug = content.Slugify(name)
	}
	return &models.Category{
		Name:        name,
		Slug:        slug,
		Description: strings.TrimSpace(content.SanitizeText(in.Description)),
	}
}

// ----- Tags -----

func (s *TaxonomyService) ListTags(ctx context.Context, onlyUsed bool) ([]*models.Tag, error) {
	return s.tags.List(ctx, onlyUsed)
}

// CreateTag возвращает существующий тег с тем же slug вместо ошибки.
func (s *TaxonomyService) CreateTag(ctx context.Context, in *models.TagInput) (*models.Tag, error) {
	if err := Validate(in); err != nil {
		return nil, err
	}
	name := strings.Join(strings.Fields(content.SanitizeText(in.Name)), " ")
	slug := content.Slugify(name)
	if slug == "" {
		return nil, invalid("некорректное имя тега")
	}
	if t, err := s.tags.GetBySlug(ctx, slug); err == nil {
		return t, nil
	}
	out, err := s.tags.Create(ctx, &models.Tag{Name: name, Slug: slug})
	if err != nil {
		return nil, err
	}
	s.activity.Record(ctx, models.ActionCreate, models.EntityTag, idStr(out.ID), map[string]any{"name": out.Name})
	return out, nil
}

// DeleteTag удаляет тег и снимает его со всех постов.
func (s *TaxonomyService) DeleteTag(ctx context.Context, id int64) error {
	t, err := s.tags.Delete(ctx, id)
	if err != nil {
		return err
	}
	logger.WithCtx(ctx).Info("Тег удалён", zap.Int64("tag_id", id), zap.String("name", t.Name))
	s.activity.Record(ctx, models.ActionDelete, models.EntityTag, idStr(id), map[string]any{"name": t.Name})
	return nil
}
