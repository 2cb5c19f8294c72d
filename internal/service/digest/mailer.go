package digest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/wneessen/go-mail"

	"newsfeed/internal/domain"
	"newsfeed/internal/observability"
)

// mailUpstream names the SMTP relay in errors and metrics.
const mailUpstream = "smtp"

// SMTPConfig holds relay settings.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	FromName string
}

// SMTPMailer sends HTML email over SMTP with mandatory STARTTLS.
type SMTPMailer struct {
	cfg     SMTPConfig
	metrics *observability.Metrics
	logger  *slog.Logger
}

// NewSMTPMailer validates cfg and creates a mailer. A client is dialed
// per message.
func NewSMTPMailer(cfg SMTPConfig, metrics *observability.Metrics, logger *slog.Logger) (*SMTPMailer, error) {
	if cfg.Host == "" {
		return nil, errors.New("SMTP host is required")
	}
	if cfg.From == "" {
		cfg.From = cfg.Username
	}
	if cfg.From == "" {
		return nil, errors.New("SMTP from address is required")
	}
	if cfg.FromName == "" {
		cfg.FromName = "News"
	}
	if cfg.Port == 0 {
		cfg.Port = 587
	}
	return &SMTPMailer{cfg: cfg, metrics: metrics, logger: logger}, nil
}

// BuildMessage assembles a multipart message with a plain-text fallback.
func (m *SMTPMailer) BuildMessage(to, subject, html string) (*mail.Msg, error) {
	msg := mail.NewMsg()
	if err := msg.FromFormat(m.cfg.FromName, m.cfg.From); err != nil {
		return nil, fmt.Errorf("invalid from address: %w", err)
	}
	if err := msg.To(to); err != nil {
		return nil, domain.NewValidationError("email/invalid-recipient", fmt.Sprintf("invalid recipient: %v", err))
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextPlain, "HTML preferred")
	msg.AddAlternativeString(mail.TypeTextHTML, html)
	return msg, nil
}

// SendHTML delivers one message.
func (m *SMTPMailer) SendHTML(ctx context.Context, to, subject, html string) error {
	msg, err := m.BuildMessage(to, subject, html)
	if err != nil {
		return err
	}

	opts := []mail.Option{
		mail.WithPort(m.cfg.Port),
		mail.WithTLSPolicy(mail.TLSMandatory),
	}
	if m.cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(m.cfg.Username),
			mail.WithPassword(m.cfg.Password),
		)
	}

	client, err := mail.NewClient(m.cfg.Host, opts...)
	if err != nil {
		return fmt.Errorf("failed to create SMTP client: %w", err)
	}

	err = client.DialAndSendWithContext(ctx, msg)
	m.metrics.ObserveUpstream(mailUpstream, err)
	if err != nil {
		m.logger.Error("digest email failed", "host", m.cfg.Host, "to", to, "error", err)
		return domain.ClassifyUpstream(mailUpstream, fmt.Errorf("send mail: %w", err))
	}

	m.logger.Debug("email sent", "host", m.cfg.Host, "to", to, "subject", subject)
	return nil
}

// UnconfiguredMailer stands in when no SMTP relay is configured. Every
// send fails as an upstream transport error.
type UnconfiguredMailer struct{}

// SendHTML always fails.
func (UnconfiguredMailer) SendHTML(ctx context.Context, to, subject, html string) error {
	return &domain.UpstreamError{
		Kind:     domain.ErrUpstreamTransport,
		Upstream: mailUpstream,
		Message:  "SMTP is not configured",
	}
}
