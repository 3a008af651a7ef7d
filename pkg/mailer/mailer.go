package mailer

import (
	"fmt"
	"net/smtp"
	"sort"
	"strings"

	"rental-service/pkg/config"

	"go.uber.org/zap"
)

// Sender dispatches a templated notification email. Callers treat sends as
// fire-and-forget: failures are logged at the call site, never propagated
// into the surrounding state transition, and only dispatched after the
// authoritative DB commit.
type Sender interface {
	Send(to, subject, template string, context map[string]string) error
}

// New picks a Sender implementation from the mail config mode.
func New(cfg config.MailConfig, log *zap.Logger) (Sender, error) {
	switch cfg.Mode {
	case "smtp":
		return NewSMTPSender(cfg), nil
	case "amqp":
		return NewQueueSender(cfg)
	case "log":
		return NewLogSender(log), nil
	default:
		return nil, fmt.Errorf("unknown mail mode %q", cfg.Mode)
	}
}

// LogSender writes notifications to the application log. Default in
// development.
type LogSender struct {
	log *zap.Logger
}

func NewLogSender(log *zap.Logger) *LogSender {
	return &LogSender{log: log}
}

func (s *LogSender) Send(to, subject, template string, context map[string]string) error {
	s.log.Info("mail dispatched",
		zap.String("to", to),
		zap.String("subject", subject),
		zap.String("template", template),
		zap.Any("context", context))
	return nil
}

// SMTPSender delivers mail directly over SMTP with plain auth. The message
// body is the template context rendered as "key: value" lines; a real mail
// worker renders HTML from the template name.
type SMTPSender struct {
	cfg config.MailConfig
}

func NewSMTPSender(cfg config.MailConfig) *SMTPSender {
	return &SMTPSender{cfg: cfg}
}

func (s *SMTPSender) Send(to, subject, template string, context map[string]string) error {
	var body strings.Builder
	fmt.Fprintf(&body, "From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n", s.cfg.From, to, subject)

	keys := make([]string, 0, len(context))
	for k := range context {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&body, "%s: %s\r\n", k, context[k])
	}

	addr := s.cfg.SMTPHost + ":" + s.cfg.SMTPPort
	var auth smtp.Auth
	if s.cfg.SMTPUser != "" {
		auth = smtp.PlainAuth("", s.cfg.SMTPUser, s.cfg.SMTPPassword, s.cfg.SMTPHost)
	}
	if err := smtp.SendMail(addr, auth, s.cfg.From, []string{to}, []byte(body.String())); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}
