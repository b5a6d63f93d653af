package services

import (
	"context"
	"fmt"
	"time"

	"sitecms/internal/models"
	"sitecms/internal/repository"
)

type StatsService struct {
	posts    repository.PostRepo
	cats     repository.CategoryRepo
	tags     repository.TagRepo
	faqs     repository.FAQRepo
	contacts repository.ContactRepo
	media    repository.MediaRepo
	activity *ActivityService
	editors  *EditorManager
}

func NewStatsService(
	posts repository.PostRepo,
	cats repository.CategoryRepo,
	tags repository.TagRepo,
	faqs repository.FAQRepo,
	contacts repository.ContactRepo,
	media repository.MediaRepo,
	activity *ActivityService,
	editors *EditorManager,
) *StatsService {
	return &StatsService{
		posts: posts, cats: cats, tags: tags, faqs: faqs, contacts: contacts,
		media: media, activity: activity, editors: editors,
	}
}

// Dashboard собирает счётчики для главной страницы админки.
func (s *StatsService) Dashboard(ctx context.Context) (*models.DashboardStats, error) {
	st := &models.DashboardStats{}
	if err := s.posts.Stats(ctx, st); err != nil {
		return nil, fmt.Errorf("posts: %w", err)
	}
	if err := s.contacts.Stats(ctx, st); err != nil {
		return nil, fmt.Errorf("contacts: %w", err)
	}

	var err error
	if st.Categories, err = s.cats.Count(ctx); err != nil {
		return nil, fmt.Errorf("categories: %w", err)
	}
	if st.Tags, err = s.tags.Count(ctx); err != nil {
		return nil, fmt.Errorf("tags: %w", err)
	}
	if st.FAQs, err = s.faqs.Count(ctx); err != nil {
		return nil, fmt.Errorf("faqs: %w", err)
	}
	if st.MediaCount, err = s.media.Count(ctx); err != nil {
		return nil, fmt.Errorf("media: %w", err)
	}
	if st.ActivityLast24h, err = s.activity.CountSince(ctx, 24*time.Hour); err != nil {
		return nil, fmt.Errorf("activity: %w", err)
	}
	if s.editors != nil {
		st.EditorSessions = s.editors.Count()
	}
	return st, nil
}
