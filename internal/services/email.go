package services

import (
	"context"
	"strconv"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"

	"sitecms/internal/config"
	"sitecms/internal/logger"
)

type EmailJob struct {
	To      []string
	Subject string
	Body    string
	IsHTML  bool
	ReplyTo string
}

// Sender отправляет одно письмо. В тестах подменяется.
type Sender interface {
	Send(job EmailJob) error
}

type EmailService struct {
	dialer *gomail.Dialer
	from   string
}

func NewEmailService(cfg *config.Config) *EmailService {
	port, err := strconv.Atoi(cfg.SMTPPort)
	if err != nil {
		port = 587
	}
	return &EmailService{
		dialer: gomail.NewDialer(cfg.SMTPHost, port, cfg.SMTPUser, cfg.SMTPPassword),
		from:   cfg.SMTPUser,
	}
}

func (s *EmailService) Send(job EmailJob) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", job.To...)
	m.SetHeader("Subject", job.Subject)
	if job.ReplyTo != "" {
		m.SetHeader("Reply-To", job.ReplyTo)
	}
	if job.IsHTML {
		m.SetBody("text/html", job.Body)
	} else {
		m.SetBody("text/plain", job.Body)
	}
	return s.dialer.DialAndSend(m)
}

// Mailer — очередь писем с одним воркером; запрос не ждёт SMTP.
type Mailer struct {
	queue  chan EmailJob
	sender Sender
}

func NewMailer(sender Sender, size int) *Mailer {
	if size <= 0 {
		size = 100
	}
	return &Mailer{queue: make(chan EmailJob, size), sender: sender}
}

// Enqueue не блокирует: при переполненной очереди письмо отбрасывается.
func (m *Mailer) Enqueue(job EmailJob) bool {
	if m == nil || m.sender == nil {
		return false
	}
	select {
	case m.queue <- job:
		return true
	default:
		logger.Log.Warn("Очередь писем переполнена, письмо отброшено", zap.String("subject", job.Subject))
		return false
	}
}

// Start запускает воркер до отмены контекста.
func (m *Mailer) Start(ctx context.Context) {
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case job := <-m.queue:
				if err := m.sender.Send(job); err != nil {
					logger.Log.Error("Не удалось отправить письмо", zap.Strings("to", job.To), zap.Error(err))
					continue
				}
				logger.Log.Info("Письмо отправлено", zap.Strings("to", job.To), zap.String("subject", job.Subject))
			}
		}
	}()
}
