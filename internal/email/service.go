// Package email sends transactional mail through SMTP.
package email

import (
	"fmt"

	gomail "gopkg.in/gomail.v2"

	"github.com/plantaohub/oncall-api/internal/model"
	"github.com/plantaohub/oncall-api/pkg/logger"
)

type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// Notifier is the outbound mail contract the business services depend on.
type Notifier interface {
	NotifyDecision(to, name string, acceptance *model.Acceptance) error
}

type Service struct {
	dialer *gomail.Dialer
	from   string
	logger *logger.Logger
}

func NewService(cfg *Config, log *logger.Logger) *Service {
	return &Service{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
		logger: log,
	}
}

// NotifyDecision emails the clinician about the manager's decision on their
// acceptance.
func (s *Service) NotifyDecision(to, name string, acceptance *model.Acceptance) error {
	var subject, body string
	switch acceptance.Status {
	case model.AcceptanceStatusApproved:
		subject = "Your shift acceptance was approved"
		body = fmt.Sprintf("Hello %s,\n\nYour acceptance for the shift on %s (%s - %s) was approved.\n",
			name, acceptance.Day, acceptance.StartTime, acceptance.EndTime)
	case model.AcceptanceStatusRejected:
		subject = "Your shift acceptance was rejected"
		reason := ""
		if acceptance.RejectionReason != nil {
			reason = fmt.Sprintf("\nReason: %s\n", *acceptance.RejectionReason)
		}
		body = fmt.Sprintf("Hello %s,\n\nYour acceptance for the shift on %s (%s - %s) was rejected.\n%s",
			name, acceptance.Day, acceptance.StartTime, acceptance.EndTime, reason)
	case model.AcceptanceStatusCancelled:
		subject = "Your shift acceptance was cancelled"
		body = fmt.Sprintf("Hello %s,\n\nYour acceptance for the shift on %s (%s - %s) was cancelled.\n",
			name, acceptance.Day, acceptance.StartTime, acceptance.EndTime)
	default:
		return nil
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send decision email: %w", err)
	}
	return nil
}
