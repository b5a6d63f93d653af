package services

import (
	"context"
	"time"

	"go.uber.org/zap"

	"sitecms/internal/logger"
	"sitecms/internal/models"
	"sitecms/internal/pagination"
	"sitecms/internal/repository"
	"sitecms/internal/reqctx"
)

type ActivityService struct {
	repo repository.ActivityRepo
	now  func() time.Time
}

func NewActivityService(repo repository.ActivityRepo) *ActivityService {
	return &ActivityService{repo: repo, now: time.Now}
}

// Record пишет действие администратора в журнал. Ошибки только логируются:
// журнал не должен ломать основную операцию.
func (s *ActivityService) Record(ctx context.Context, action, entity, entityID string, details map[string]any) {
	if s == nil || s.repo == nil {
		return
	}
	entry := &models.ActivityLog{
		Username:   reqctx.GetUsername(ctx),
		Action:     action,
		EntityType: entity,
		EntityID:   entityID,
		Details:    details,
	}
	if uid, ok := reqctx.GetUserID(ctx); ok {
		entry.UserID = &uid
	}
	entry.IP, entry.UserAgent = reqctx.GetClient(ctx)

	if err := s.repo.Create(context.WithoutCancel(ctx), entry); err != nil {
		logger.WithCtx(ctx).Warn("Не удалось записать действие в журнал",
			zap.String("action", action), zap.String("entity", entity), zap.Error(err))
	}
}

func (s *ActivityService) List(ctx context.Context, f models.ActivityFilter) (*pagination.Page[*models.ActivityLog], error) {
	p := pagination.Normalize(f.Page, f.Limit)
	f.Page, f.Limit = p.Page, p.Limit
	items, total, err := s.repo.List(ctx, f)
	if err != nil {
		logger.WithCtx(ctx).Error("Ошибка получения журнала действий", zap.Error(err))
		return nil, err
	}
	return pagination.New(items, p, total), nil
}

// Purge удаляет записи старше days дней.
func (s *ActivityService) Purge(ctx context.Context, days int) (int64, error) {
	if days <= 0 {
		return 0, nil
	}
	before := s.now().AddDate(0, 0, -days)
	n, err := s.repo.DeleteOlderThan(ctx, before)
	if err != nil {
		logger.Log.Error("Ошибка очистки журнала действий", zap.Error(err))
		return 0, err
	}
	logger.Log.Info("Журнал действий очищен", zap.Int64("deleted", n), zap.Time("before", before))
	return n, nil
}

func (s *ActivityService) CountSince(ctx context.Context, d time.Duration) (int, error) {
	return s.repo.CountSince(ctx, s.now().Add(-d))
}
