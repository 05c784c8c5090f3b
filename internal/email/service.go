package email

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"

	"github.com/jwalitptl/booking-api/internal/config"
	"github.com/jwalitptl/booking-api/internal/model"
)

type Service interface {
	SendBookingReceived(ctx context.Context, to string, apt *model.Appointment) error
	SendStatusChanged(ctx context.Context, to string, apt *model.Appointment) error
}

// NewService returns an SMTP-backed sender, or a no-op sender when SMTP is
// not configured.
func NewService(cfg config.SMTPConfig) Service {
	if cfg.Host == "" {
		return &noopService{}
	}
	return &smtpService{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
	}
}

type smtpService struct {
	dialer *gomail.Dialer
	from   string
}

func (s *smtpService) SendBookingReceived(ctx context.Context, to string, apt *model.Appointment) error {
	subject := "Appointment request received"
	body := fmt.Sprintf(
		"Your appointment request for %s has been received and is pending confirmation.",
		apt.StartAt.Format(model.StartAtLayout),
	)
	return s.send(to, subject, body)
}

func (s *smtpService) SendStatusChanged(ctx context.Context, to string, apt *model.Appointment) error {
	subject := fmt.Sprintf("Appointment %s", apt.Status)
	body := fmt.Sprintf(
		"Your appointment for %s is now %s.",
		apt.StartAt.Format(model.StartAtLayout),
		apt.Status,
	)
	return s.send(to, subject, body)
}

func (s *smtpService) send(to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

type noopService struct{}

func (n *noopService) SendBookingReceived(ctx context.Context, to string, apt *model.Appointment) error {
	return nil
}

func (n *noopService) SendStatusChanged(ctx context.Context, to string, apt *model.Appointment) error {
	return nil
}
