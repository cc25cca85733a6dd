package notify

import (
	"html/template"
	"strings"
	"time"

	"github.com/spec-kit/helpdesk/internal/domain"
)

type emailMessage struct {
	Sender    string
	Timestamp string
	Content   string
	IsUser    bool
	MediaKind string
	MediaURL  string
}

type emailData struct {
	TicketNumber string
	TicketID     int64
	UserName     string
	UserID       int64
	EscalatedAt  string
	Summary      string
	Messages     []emailMessage
}

var escalationTemplate = template.Must(template.New("escalation").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body style="font-family: 'Segoe UI', Tahoma, sans-serif; line-height: 1.6; color: #333;">
<div style="max-width: 800px; margin: 0 auto; padding: 20px;">
  <div style="background: #1a1a1a; color: #00FF41; padding: 25px; border-radius: 8px 8px 0 0;">
    <h1 style="margin: 0; font-size: 24px;">🤖 Sulpak AI HelpDesk</h1>
    <p style="margin: 5px 0 0 0; opacity: 0.9;">Система автоматической поддержки клиентов</p>
  </div>
  <div style="background: #FF6B35; color: white; padding: 15px; text-align: center; font-weight: bold;">
    🚨 ТРЕБУЕТСЯ ЭСКАЛАЦИЯ - AI передал обращение менеджеру
  </div>
  <div style="background: #f5f5f5; padding: 20px; border-radius: 8px; margin: 20px 0;">
    <h2 style="margin-top: 0;">📋 Информация о тикете</h2>
    <p><strong>Номер тикета:</strong> {{.TicketNumber}}<br>
    <strong>ID тикета:</strong> #{{.TicketID}}<br>
    <strong>Пользователь:</strong> @{{.UserName}}<br>
    <strong>Telegram ID:</strong> {{.UserID}}<br>
    <strong>Дата эскалации:</strong> {{.EscalatedAt}}</p>
  </div>
  <div style="background: #FFF9C4; border: 2px solid #FBC02D; padding: 15px; border-radius: 8px; margin: 20px 0;">
    <h3 style="margin-top: 0; color: #F57C00;">💡 Резюме от AI</h3>
    <p style="margin: 0; white-space: pre-wrap;">{{.Summary}}</p>
  </div>
  <div style="margin: 20px 0;">
    <h2>💬 Полная история беседы</h2>
    {{range .Messages}}
    <div style="margin: 15px 0; padding: 12px; background: {{if .IsUser}}#FFF3E0{{else}}#E8F5E9{{end}}; border-left: 4px solid {{if .IsUser}}#FF6B35{{else}}#00FF41{{end}}; border-radius: 4px;">
      <div style="font-weight: bold; margin-bottom: 5px;">{{.Sender}} <span style="color: #666; font-size: 0.9em;">({{.Timestamp}})</span></div>
      <div style="white-space: pre-wrap;">{{.Content}}</div>
      {{if .MediaKind}}<div><em>[{{.MediaKind}}]: <a href="{{.MediaURL}}">Посмотреть</a></em></div>{{end}}
    </div>
    {{end}}
  </div>
  <div style="background: #f5f5f5; padding: 15px; text-align: center; color: #666; font-size: 14px;">
    <p><strong>Действия:</strong> изучите беседу и резюме AI, свяжитесь с клиентом в Telegram,
    обновите статус тикета после решения.</p>
    <p style="font-size: 12px; color: #999;">Это автоматическое уведомление, не отвечайте на это письмо.</p>
  </div>
</div>
</body>
</html>`))

func renderEscalationEmail(ticket *domain.Ticket, user domain.UserInfo, timeline []domain.Message, summary string) (string, error) {
	data := emailData{
		TicketNumber: ticket.Number,
		TicketID:     ticket.ID,
		UserName:     user.UserName,
		UserID:       user.UserID,
		EscalatedAt:  time.Now().Format("02.01.2006 15:04:05"),
		Summary:      summary,
	}

	for _, msg := range timeline {
		entry := emailMessage{
			Sender:    "🤖 AI",
			Timestamp: msg.CreatedAt.Format("02.01.2006 15:04"),
			Content:   msg.Content,
			IsUser:    msg.SenderRole == domain.SenderRoleUser,
		}
		if entry.IsUser {
			entry.Sender = "👤 Клиент"
		}
		if msg.Attachment != nil {
			entry.MediaKind = strings.ToUpper(string(msg.Attachment.Kind))
			entry.MediaURL = msg.Attachment.URL
		}
		data.Messages = append(data.Messages, entry)
	}

	var sb strings.Builder
	if err := escalationTemplate.Execute(&sb, data); err != nil {
		return "", err
	}
	return sb.String(), nil
}
