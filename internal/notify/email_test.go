package notify

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk/internal/config"
	"github.com/spec-kit/helpdesk/internal/domain"
)

func sampleTicket() *domain.Ticket {
	summary := "Клиент требует возврат, AI не смог помочь."
	return &domain.Ticket{
		ID:        7,
		Number:    "SH2509A1B2C3",
		UserID:    42,
		UserName:  "aidar",
		Status:    domain.TicketStatusEscalated,
		AISummary: &summary,
	}
}

func sampleTimeline() []domain.Message {
	confidence := 0.4
	return []domain.Message{
		{
			SenderRole: domain.SenderRoleUser,
			SenderID:   "42",
			Content:    "Верните деньги за сломанный чайник",
			CreatedAt:  time.Date(2025, 9, 1, 10, 0, 0, 0, time.UTC),
		},
		{
			SenderRole:   domain.SenderRoleAI,
			SenderID:     "ai",
			Content:      "Передаю ваш запрос специалисту.",
			AIConfidence: &confidence,
			CreatedAt:    time.Date(2025, 9, 1, 10, 1, 0, 0, time.UTC),
		},
	}
}

func TestNotifyUnconfiguredReturnsFalse(t *testing.T) {
	notifier := NewEmailNotifier(config.SMTPConfig{}, zap.NewNop())

	sent := notifier.Notify(context.Background(), sampleTicket(), domain.UserInfo{UserID: 42, UserName: "aidar"}, sampleTimeline(), "резюме")
	assert.False(t, sent)
}

func TestRenderEscalationEmail(t *testing.T) {
	ticket := sampleTicket()
	timeline := sampleTimeline()
	timeline = append(timeline, domain.Message{
		SenderRole: domain.SenderRoleUser,
		SenderID:   "42",
		Content:    "вот фото чека",
		Attachment: &domain.Attachment{Kind: domain.AttachmentPhoto, URL: "https://files.example/check.jpg"},
		CreatedAt:  time.Date(2025, 9, 1, 10, 2, 0, 0, time.UTC),
	})

	body, err := renderEscalationEmail(ticket, domain.UserInfo{UserID: 42, UserName: "aidar"}, timeline, "Клиент требует возврат, AI не смог помочь.")
	require.NoError(t, err)

	assert.Contains(t, body, "SH2509A1B2C3")
	assert.Contains(t, body, "@aidar")
	assert.Contains(t, body, "Клиент требует возврат")
	assert.Contains(t, body, "Верните деньги за сломанный чайник")
	assert.Contains(t, body, "Передаю ваш запрос специалисту.")
	assert.Contains(t, body, "[PHOTO]")
	assert.Contains(t, body, "https://files.example/check.jpg")
	// Timeline blocks distinguish the two senders.
	assert.Contains(t, body, "👤 Клиент")
	assert.Contains(t, body, "🤖 AI")
}

func TestRenderEscalationEmailEscapesHTML(t *testing.T) {
	timeline := []domain.Message{{
		SenderRole: domain.SenderRoleUser,
		Content:    "<script>alert('x')</script>",
		CreatedAt:  time.Now(),
	}}

	body, err := renderEscalationEmail(sampleTicket(), domain.UserInfo{UserID: 42, UserName: "aidar"}, timeline, "s")
	require.NoError(t, err)
	assert.NotContains(t, body, "<script>")
}
