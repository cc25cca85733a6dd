// Package ai turns a ticket timeline into an assistant reply, a
// confidence score and an escalation decision.
package ai

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk/internal/config"
	"github.com/spec-kit/helpdesk/internal/domain"
)

const fallbackReply = "Извините, возникла техническая проблема. " +
	"Я передам ваш вопрос менеджеру, который свяжется с вами в ближайшее время. 🙏"

const summaryUnavailable = "Не удалось сгенерировать резюме беседы."

// Reply is the responder's verdict for one user turn.
type Reply struct {
	Text       string
	Confidence float64
	Escalate   bool
}

// Responder generates assistant replies and escalation summaries.
// Completion failures never surface to the caller: they degrade to a
// fixed fallback reply with escalate set, so the conversation is handed
// to a human instead of going silent.
type Responder struct {
	completion TextCompletion
	maxContext int
	logger     *zap.Logger
}

// NewResponder constructs the responder.
func NewResponder(completion TextCompletion, cfg config.AIConfig, logger *zap.Logger) *Responder {
	maxContext := cfg.MaxContextMessages
	if maxContext <= 0 {
		maxContext = 20
	}
	return &Responder{completion: completion, maxContext: maxContext, logger: logger}
}

// Respond generates a reply for the given timeline.
func (r *Responder) Respond(ctx context.Context, ticketID int64, timeline []domain.Message, user domain.UserInfo) Reply {
	r.logger.Info("generating ai response",
		zap.Int64("ticket_id", ticketID),
		zap.Int("history", len(timeline)),
		zap.Int64("user_id", user.UserID))

	messages := buildContext(timeline, r.maxContext)
	text, err := r.completion.Complete(ctx, systemPrompt, messages, CompletionOptions{Temperature: 0.7, MaxTokens: 1024})
	if err != nil {
		r.logger.Error("ai completion failed", zap.Int64("ticket_id", ticketID), zap.Error(err))
		return Reply{Text: fallbackReply, Confidence: 0.0, Escalate: true}
	}

	reply := Reply{
		Text:       text,
		Confidence: scoreConfidence(text),
		Escalate:   shouldEscalate(text),
	}
	r.logger.Info("ai response generated",
		zap.Int64("ticket_id", ticketID),
		zap.Float64("confidence", reply.Confidence),
		zap.Bool("escalate", reply.Escalate))
	return reply
}

// Summarize produces a short synopsis of the conversation for the
// escalation notification. Failures yield a fixed placeholder.
func (r *Responder) Summarize(ctx context.Context, timeline []domain.Message) string {
	prompt := buildSummaryPrompt(timeline)
	messages := []ChatMessage{{Role: "user", Content: prompt}}

	summary, err := r.completion.Complete(ctx, "", messages, CompletionOptions{Temperature: 0.5, MaxTokens: 512})
	if err != nil {
		r.logger.Error("summary generation failed", zap.Error(err))
		return summaryUnavailable
	}
	return strings.TrimSpace(summary)
}
