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

type FAQService struct {
	repo     repository.FAQRepo
	activity *ActivityService
}

func NewFAQService(repo repository.FAQRepo, activity *ActivityService) *FAQService {
	return &FAQService{repo: repo, activity: activity}
}

func (s *FAQService) List(ctx context.Context, onlyPublished bool, category string) ([]*models.FAQ, error) {
	return s.repo.List(ctx, onlyPublished, strings.TrimSpace(category))
}

func (s *FAQService) Get(ctx context.Context, id int64) (*models.FAQ, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *FAQService) Create(ctx context.Context, in *models.FAQInput) (*models.FAQ, error) {
	if err := Validate(in); err != nil {
		return nil, err
	}
	out, err := s.repo.Create(ctx, faqFromInput(in))
	if err != nil {
		logger.WithCtx(ctx).Error("Ошибка создания FAQ", zap.Error(err))
		return nil, err
	}
	s.activity.Record(ctx, models.ActionCreate, models.EntityFAQ, idStr(out.ID), nil)
	return out, nil
}

func (s *FAQService) Update(ctx context.Context, id int64, in *models.FAQInput) (*models.FAQ, error) {
	if err := Validate(in); err != nil {
		return nil, err
	}
	f := faqFromInput(in)
	f.ID = id
	out, err := s.repo.Update(ctx, f)
	if err != nil {
		return nil, err
	}
	s.activity.Record(ctx, models.ActionUpdate, models.EntityFAQ, idStr(id), nil)
	return out, nil
}

func (s *FAQService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.activity.Record(ctx, models.ActionDelete, models.EntityFAQ, idStr(id), nil)
	return nil
}

// Reorder задаёт порядок вопросов; повторяющиеся id недопустимы.
func (s *FAQService) Reorder(ctx context.Context, in *models.FAQReorderRequest) error {
	if err := Validate(in); err != nil {
		return err
	}
	seen := make(map[int64]bool, len(in.IDs))
	for _, id := range in.IDs {
		if seen[id] {
			return invalid("id повторяется в списке")
		}
		seen[id] = true
	}
	if err := s.repo.Reorder(ctx, in.IDs); err != nil {
		return err
	}
	s.activity.Record(ctx, models.ActionReorder, models.EntityFAQ, "", map[string]any{"count": len(in.IDs)})
	return nil
}

func faqFromInput(in *models.FAQInput) *models.FAQ {
	return &models.FAQ{
		Question:    strings.TrimSpace(content.SanitizeText(in.Question)),
		Answer:      strings.TrimSpace(content.SanitizeText(in.Answer)),
		Category:    strings.TrimSpace(content.SanitizeText(in.Category)),
		Position:    in.Position,
		IsPublished: in.IsPublished,
	}
}
