package email

import (
	"fmt"
	"net/smtp"

	"github.com/rs/zerolog/log"

	"cardsynch/internal/platform/config"
)

type LeadNotification struct {
	To        string
	OwnerName string
	CardSlug  string
	LeadName  string
	LeadEmail string
	Company   string
	Notes     string
}

// Sender delivers outbound notification email. Delivery is fire-and-forget
// from the caller's perspective: failures are logged, never propagated to
// the triggering request.
type Sender interface {
	SendLeadNotification(params LeadNotification) error
}

func NewSender(cfg config.EmailConfig) Sender {
	if cfg.SMTP.Host == "" {
		log.Warn().Msg("smtp host not set, email sending disabled")
		return &NoopSender{}
	}
	return &SMTPSender{cfg: cfg.SMTP}
}

type SMTPSender struct {
	cfg config.SMTPConfig
}

func (s *SMTPSender) SendLeadNotification(params LeadNotification) error {
	subject := fmt.Sprintf("New lead captured on /%s", params.CardSlug)
	body := fmt.Sprintf(
		"Hi %s,\r\n\r\n%s (%s) just submitted the lead form on your card /%s.\r\n",
		params.OwnerName, params.LeadName, params.LeadEmail, params.CardSlug,
	)
	if params.Company != "" {
		body += fmt.Sprintf("Company: %s\r\n", params.Company)
	}
	if params.Notes != "" {
		body += fmt.Sprintf("Notes: %s\r\n", params.Notes)
	}

	msg := fmt.Sprintf("From: %s <%s>\r\nTo: %s\r\nSubject: %s\r\n\r\n%s",
		s.cfg.FromName, s.cfg.FromAddress, params.To, subject, body)

	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
	var auth smtp.Auth
	if s.cfg.Username != "" {
		auth = smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	}

	return smtp.SendMail(addr, auth, s.cfg.FromAddress, []string{params.To}, []byte(msg))
}

// NoopSender drops mail on the floor; used when SMTP is not configured.
type NoopSender struct{}

func (s *NoopSender) SendLeadNotification(params LeadNotification) error {
	log.Debug().Str("to", params.To).Msg("email disabled, skipping lead notification")
	return nil
}
