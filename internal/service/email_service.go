package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/resend/resend-go/v2"
	"go.uber.org/zap"

	"github.com/custozero/custozero-api/pkg/config"
	"github.com/custozero/custozero-api/pkg/jobs"
)

// WelcomeEmail is the payload for the post-purchase access email.
type WelcomeEmail struct {
	Email      string
	Name       string
	AccessURL  string
	ExpiresAt  *time.Time
	IsLifetime bool
}

// EmailService sends transactional email through Resend. Without an API key
// (or outside production) it logs instead of sending, so local webhooks stay
// self-contained.
type EmailService struct {
	client *resend.Client
	from   string
	logger *zap.Logger
}

// NewEmailService constructs an EmailService instance.
func NewEmailService(cfg config.EmailConfig, env string, logger *zap.Logger) *EmailService {
	if logger == nil {
		logger = zap.NewNop()
	}
	var client *resend.Client
	if cfg.ResendAPIKey != "" && env == config.EnvProduction {
		client = resend.NewClient(cfg.ResendAPIKey)
	}
	return &EmailService{client: client, from: cfg.From, logger: logger}
}

// SendWelcome delivers the access email after a confirmed payment.
func (s *EmailService) SendWelcome(ctx context.Context, msg WelcomeEmail) error {
	subject := "Seu diagnóstico financeiro está pronto!"

	if s.client == nil {
		s.logger.Info("email skipped (sender not configured)",
			zap.String("type", "welcome"),
			zap.String("to", msg.Email),
			zap.String("url", msg.AccessURL),
		)
		return nil
	}

	params := &resend.SendEmailRequest{
		From:    s.from,
		To:      []string{msg.Email},
		Subject: subject,
		Html:    welcomeEmailHTML(msg),
	}

	if _, err := s.client.Emails.SendWithContext(ctx, params); err != nil {
		return fmt.Errorf("send welcome email: %w", err)
	}
	s.logger.Info("email sent", zap.String("type", "welcome"), zap.String("to", msg.Email))
	return nil
}

func welcomeEmailHTML(msg WelcomeEmail) string {
	validity := "Seu acesso é vitalício."
	if !msg.IsLifetime && msg.ExpiresAt != nil {
		validity = fmt.Sprintf("Seu passe livre expira em %s.", msg.ExpiresAt.Format("02/01/2006 15:04"))
	}
	return fmt.Sprintf(`<p>Olá, <strong>%s</strong>!</p>
<p>Seu pagamento foi aprovado. Acesse seu diagnóstico financeiro personalizado:</p>
<p><a href="%s">Acessar Meu Diagnóstico</a></p>
<p>%s</p>
<p>Equipe CustoZero</p>`, msg.Name, msg.AccessURL, validity)
}

// EmailDispatcher pushes welcome emails onto the background jobs queue so
// delivery latency and failures never reach the webhook response path.
type EmailDispatcher struct {
	queue  *jobs.Queue
	logger *zap.Logger
}

// NewEmailDispatcher wires the email service to a worker queue.
func NewEmailDispatcher(emails *EmailService, cfg config.EmailConfig, logger *zap.Logger) *EmailDispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	handler := func(ctx context.Context, job jobs.Job) error {
		msg, ok := job.Payload.(WelcomeEmail)
		if !ok {
			logger.Error("unexpected email job payload", zap.String("job_id", job.ID), zap.String("type", job.Type))
			return nil
		}
		return emails.SendWelcome(ctx, msg)
	}
	queue := jobs.NewQueue("emails", handler, jobs.QueueConfig{
		Workers:    cfg.Workers,
		MaxRetries: cfg.MaxRetries,
		RetryDelay: 5 * time.Second,
		Logger:     logger,
	})
	return &EmailDispatcher{queue: queue, logger: logger}
}

// Start begins queue consumption.
func (d *EmailDispatcher) Start(ctx context.Context) {
	d.queue.Start(ctx)
}

// Stop drains the workers.
func (d *EmailDispatcher) Stop() {
	d.queue.Stop()
}

// NotifyWelcome enqueues a welcome email. Enqueue failures are logged and
// swallowed: email is best effort and must never fail the webhook.
func (d *EmailDispatcher) NotifyWelcome(msg WelcomeEmail) {
	if d == nil {
		return
	}
	job := jobs.Job{ID: uuid.NewString(), Type: "welcome_email", Payload: msg}
	if err := d.queue.Enqueue(job); err != nil {
		d.logger.Warn("failed to enqueue welcome email", zap.String("to", msg.Email), zap.Error(err))
	}
}
