package ai

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk/internal/config"
	"github.com/spec-kit/helpdesk/internal/domain"
)

type fakeCompletion struct {
	reply    string
	err      error
	system   string
	messages []ChatMessage
	calls    int
}

func (f *fakeCompletion) Complete(ctx context.Context, system string, messages []ChatMessage, opts CompletionOptions) (string, error) {
	f.calls++
	f.system = system
	f.messages = messages
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

func newTestResponder(completion TextCompletion, maxContext int) *Responder {
	return NewResponder(completion, config.AIConfig{MaxContextMessages: maxContext}, zap.NewNop())
}

func userMsg(content string) domain.Message {
	return domain.Message{SenderRole: domain.SenderRoleUser, SenderID: "42", Content: content}
}

func aiMsg(content string) domain.Message {
	return domain.Message{SenderRole: domain.SenderRoleAI, SenderID: "ai", Content: content}
}

func TestRespondHappyPath(t *testing.T) {
	fake := &fakeCompletion{reply: "Для возврата товара привезите его в любой магазин вместе с чеком в течение 14 дней."}
	responder := newTestResponder(fake, 0)

	reply := responder.Respond(context.Background(), 1, []domain.Message{userMsg("Как вернуть товар, купленный на прошлой неделе?")}, domain.UserInfo{UserID: 42})

	assert.Equal(t, fake.reply, reply.Text)
	assert.False(t, reply.Escalate)
	assert.InDelta(t, 1.0, reply.Confidence, 1e-9)
	assert.Equal(t, systemPrompt, fake.system)
}

func TestRespondFallbackOnCompletionError(t *testing.T) {
	fake := &fakeCompletion{err: errors.New("connection refused")}
	responder := newTestResponder(fake, 0)

	reply := responder.Respond(context.Background(), 1, []domain.Message{userMsg("Где мой заказ, уже неделя прошла?")}, domain.UserInfo{UserID: 42})

	assert.Equal(t, fallbackReply, reply.Text)
	assert.Equal(t, 0.0, reply.Confidence)
	assert.True(t, reply.Escalate)
}

func TestRespondEscalatesOnHandoffReply(t *testing.T) {
	fake := &fakeCompletion{reply: "Передаю ваш запрос специалисту. Менеджер получит уведомление и свяжется с вами в ближайшее время."}
	responder := newTestResponder(fake, 0)

	reply := responder.Respond(context.Background(), 1, []domain.Message{userMsg("Да, передайте менеджеру пожалуйста")}, domain.UserInfo{UserID: 42})

	assert.True(t, reply.Escalate)
}

func TestRespondBoundsContextWindow(t *testing.T) {
	fake := &fakeCompletion{reply: "Понял вас, сейчас подскажу по этому вопросу подробнее."}
	responder := newTestResponder(fake, 3)

	timeline := []domain.Message{
		userMsg("первое сообщение"),
		aiMsg("первый ответ"),
		userMsg("второе сообщение"),
		aiMsg("второй ответ"),
		userMsg("третье сообщение"),
	}
	responder.Respond(context.Background(), 1, timeline, domain.UserInfo{UserID: 42})

	require.Len(t, fake.messages, 3)
	assert.Equal(t, "второе сообщение", fake.messages[0].Content)
	assert.Equal(t, "user", fake.messages[0].Role)
	assert.Equal(t, "второй ответ", fake.messages[1].Content)
	assert.Equal(t, "assistant", fake.messages[1].Role)
	assert.Equal(t, "третье сообщение", fake.messages[2].Content)
}

func TestRespondRendersAttachments(t *testing.T) {
	fake := &fakeCompletion{reply: "Вижу фото, спасибо. Передам информацию дальше по вашему вопросу."}
	responder := newTestResponder(fake, 0)

	withCaption := domain.Message{
		SenderRole: domain.SenderRoleUser,
		Content:    "вот царапина",
		Attachment: &domain.Attachment{Kind: domain.AttachmentPhoto, FileID: "f1"},
	}
	captionless := domain.Message{
		SenderRole: domain.SenderRoleUser,
		Attachment: &domain.Attachment{Kind: domain.AttachmentVideo, FileID: "f2"},
	}
	responder.Respond(context.Background(), 1, []domain.Message{withCaption, captionless}, domain.UserInfo{UserID: 42})

	require.Len(t, fake.messages, 2)
	assert.Equal(t, "[PHOTO] вот царапина", fake.messages[0].Content)
	assert.Equal(t, "[VIDEO] "+mediaPlaceholder, fake.messages[1].Content)
}

func TestSummarize(t *testing.T) {
	fake := &fakeCompletion{reply: "  Клиент недоволен доставкой; AI предложил проверить статус; нужен менеджер.  "}
	responder := newTestResponder(fake, 0)

	summary := responder.Summarize(context.Background(), []domain.Message{
		userMsg("Доставка опаздывает"),
		aiMsg("Проверьте статус заказа в приложении"),
	})

	assert.Equal(t, "Клиент недоволен доставкой; AI предложил проверить статус; нужен менеджер.", summary)
	assert.Empty(t, fake.system)
	require.Len(t, fake.messages, 1)
	assert.Contains(t, fake.messages[0].Content, "Клиент: Доставка опаздывает")
	assert.Contains(t, fake.messages[0].Content, "AI: Проверьте статус заказа в приложении")
}

func TestSummarizeFallbackOnError(t *testing.T) {
	fake := &fakeCompletion{err: errors.New("timeout")}
	responder := newTestResponder(fake, 0)

	summary := responder.Summarize(context.Background(), []domain.Message{userMsg("всё сломалось")})
	assert.Equal(t, summaryUnavailable, summary)
}
