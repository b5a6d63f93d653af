package services

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"sitecms/internal/logger"
	"sitecms/internal/metrics"
	"sitecms/internal/models"
	"sitecms/internal/pagination"
	"sitecms/internal/repository"
	"sitecms/internal/utils/helpers"
)

type ContactOptions struct {
	NotifyEmail string // пусто — уведомления выключены
	AdminURL    string
}

type ContactService struct {
	repo     repository.ContactRepo
	limiter  *RateLimiter
	mailer   *Mailer
	activity *ActivityService
	opts     ContactOptions
}

func NewContactService(repo repository.ContactRepo, limiter *RateLimiter, mailer *Mailer, activity *ActivityService, opts ContactOptions) *ContactService {
	return &ContactService{repo: repo, limiter: limiter, mailer: mailer, activity: activity, opts: opts}
}

// Submit сохраняет заявку с сайта. Лимит считается по IP.
func (s *ContactService) Submit(ctx context.Context, in *models.ContactRequest, ip string) (*models.Contact, error) {
	log := logger.WithCtx(ctx)
	if s.limiter != nil && !s.limiter.Allow(ip) {
		metrics.ContactSubmissions.WithLabelValues("rate_limited").Inc()
		log.Warn("Превышен лимит заявок", zap.String("ip", ip))
		return nil, ErrRateLimited
	}

	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(strings.ToLower(in.Email))
	in.Message = strings.TrimSpace(in.Message)
	if err := Validate(in); err != nil {
		metrics.ContactSubmissions.WithLabelValues("invalid").Inc()
		return nil, err
	}

	c, err := s.repo.Create(ctx, &models.Contact{
		Name:    in.Name,
		Email:   in.Email,
		Company: strings.TrimSpace(in.Company),
		Phone:   strings.TrimSpace(in.Phone),
		Subject: strings.TrimSpace(in.Subject),
		Message: in.Message,
		IP:      ip,
	})
	if err != nil {
		metrics.ContactSubmissions.WithLabelValues("error").Inc()
		log.Error("Ошибка сохранения заявки", zap.Error(err))
		return nil, err
	}
	metrics.ContactSubmissions.WithLabelValues("ok").Inc()
	log.Info("Новая заявка с сайта", zap.Int64("contact_id", c.ID))

	s.notify(c)
	return c, nil
}

func (s *ContactService) notify(c *models.Contact) {
	if s.opts.NotifyEmail == "" || s.mailer == nil {
		return
	}
	subject := "Заявка с сайта: " + c.Name
	if c.Subject != "" {
		subject += " — " + c.Subject
	}
	s.mailer.Enqueue(EmailJob{
		To:      []string{s.opts.NotifyEmail},
		Subject: subject,
		ReplyTo: c.Email,
		IsHTML:  true,
		Body: helpers.BuildContactHTML(helpers.ContactFields{
			Name:     c.Name,
			Email:    c.Email,
			Company:  c.Company,
			Phone:    c.Phone,
			Subject:  c.Subject,
			Message:  c.Message,
			AdminURL: s.opts.AdminURL,
		}),
	})
}

func (s *ContactService) List(ctx context.Context, f models.ContactFilter) (*pagination.Page[*models.Contact], error) {
	if f.Status != "" && !validContactStatus(f.Status) {
		return nil, invalid("неизвестный статус заявки")
	}
	p := pagination.Normalize(f.Page, f.Limit)
	f.Page, f.Limit = p.Page, p.Limit
	items, total, err := s.repo.List(ctx, f)
	if err != nil {
		return nil, err
	}
	return pagination.New(items, p, total), nil
}

func (s *ContactService) Get(ctx context.Context, id int64) (*models.Contact, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *ContactService) SetStatus(ctx context.Context, id int64, in *models.ContactStatusRequest) (*models.Contact, error) {
	if err := Validate(in); err != nil {
		return nil, err
	}
	c, err := s.repo.UpdateStatus(ctx, id, in.Status)
	if err != nil {
		return nil, err
	}
	s.activity.Record(ctx, models.ActionStatus, models.EntityContact, idStr(id), map[string]any{"status": string(in.Status)})
	return c, nil
}

func (s *ContactService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.activity.Record(ctx, models.ActionDelete, models.EntityContact, idStr(id), nil)
	return nil
}

func validContactStatus(st models.ContactStatus) bool {
	switch st {
	case models.ContactNew, models.ContactRead, models.ContactReplied, models.ContactArchived:
		return true
	}
	return false
}
