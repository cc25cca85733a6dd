// Package notify alerts a human manager when a ticket is escalated.
// Delivery is best-effort: recording the escalation in the store is the
// source of truth, so every failure here is reported as a boolean and
// never propagated.
package notify

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/smtp"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk/internal/config"
	"github.com/spec-kit/helpdesk/internal/domain"
)

// Notifier delivers an escalation notification for a ticket.
type Notifier interface {
	Notify(ctx context.Context, ticket *domain.Ticket, user domain.UserInfo, timeline []domain.Message, summary string) bool
}

// EmailNotifier sends HTML escalation emails over SMTP.
type EmailNotifier struct {
	cfg    config.SMTPConfig
	logger *zap.Logger
}

// NewEmailNotifier constructs the notifier. An unconfigured notifier
// logs a warning once and declines every delivery.
func NewEmailNotifier(cfg config.SMTPConfig, logger *zap.Logger) *EmailNotifier {
	if !cfg.Configured() {
		logger.Warn("email notifier not configured; set SMTP_USERNAME, SMTP_PASSWORD, MANAGER_EMAIL")
	} else {
		logger.Info("email notifier initialized",
			zap.String("host", cfg.Host),
			zap.Int("port", cfg.Port),
			zap.String("manager", cfg.ManagerEmail))
	}
	return &EmailNotifier{cfg: cfg, logger: logger}
}

const escalationSubject = "🚨 Требуется эскалация"

// Notify renders and sends the escalation email. Returns true only when
// the message was accepted by the SMTP server.
func (n *EmailNotifier) Notify(ctx context.Context, ticket *domain.Ticket, user domain.UserInfo, timeline []domain.Message, summary string) bool {
	if !n.cfg.Configured() {
		n.logger.Warn("skipping escalation email: notifier not configured",
			zap.String("ticket_number", ticket.Number))
		return false
	}

	body, err := renderEscalationEmail(ticket, user, timeline, summary)
	if err != nil {
		n.logger.Error("failed to render escalation email",
			zap.String("ticket_number", ticket.Number), zap.Error(err))
		return false
	}

	from := fmt.Sprintf("%s <%s>", n.cfg.FromName, n.cfg.Username)
	headers := []string{
		"From: " + from,
		"To: " + n.cfg.ManagerEmail,
		"Subject: " + escalationSubject + " | " + ticket.Number,
		"MIME-Version: 1.0",
		"Content-Type: text/html; charset=UTF-8",
	}
	message := strings.Join(headers, "\r\n") + "\r\n\r\n" + body

	if err := n.send(message); err != nil {
		n.logger.Error("failed to send escalation email",
			zap.String("ticket_number", ticket.Number), zap.Error(err))
		return false
	}

	n.logger.Info("escalation email sent",
		zap.String("ticket_number", ticket.Number),
		zap.String("manager", n.cfg.ManagerEmail))
	return true
}

func (n *EmailNotifier) send(message string) error {
	client, err := n.dial()
	if err != nil {
		return err
	}
	defer client.Close()

	if n.cfg.Username != "" && n.cfg.Password != "" {
		auth := smtp.PlainAuth("", n.cfg.Username, n.cfg.Password, n.cfg.Host)
		if err := client.Auth(auth); err != nil {
			return fmt.Errorf("smtp auth: %w", err)
		}
	}

	if err := client.Mail(n.cfg.Username); err != nil {
		return fmt.Errorf("set sender: %w", err)
	}
	if err := client.Rcpt(n.cfg.ManagerEmail); err != nil {
		return fmt.Errorf("set recipient: %w", err)
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("initiate data transfer: %w", err)
	}
	if _, err := w.Write([]byte(message)); err != nil {
		return fmt.Errorf("write message: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("close data transfer: %w", err)
	}
	return client.Quit()
}

func (n *EmailNotifier) dial() (*smtp.Client, error) {
	addr := n.cfg.Host + ":" + strconv.Itoa(n.cfg.Port)
	tlsConfig := &tls.Config{ServerName: n.cfg.Host}

	switch n.cfg.TLSMode {
	case "smtps":
		conn, err := tls.Dial("tcp", addr, tlsConfig)
		if err != nil {
			return nil, fmt.Errorf("connect via SMTPS: %w", err)
		}
		client, err := smtp.NewClient(conn, n.cfg.Host)
		if err != nil {
			return nil, fmt.Errorf("create smtp client: %w", err)
		}
		return client, nil
	default:
		client, err := smtp.Dial(addr)
		if err != nil {
			return nil, fmt.Errorf("connect to smtp server: %w", err)
		}
		if n.cfg.TLSMode == "starttls" {
			if err := client.StartTLS(tlsConfig); err != nil {
				client.Close()
				return nil, fmt.Errorf("start tls: %w", err)
			}
		}
		return client, nil
	}
}
