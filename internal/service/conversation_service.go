package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk/internal/ai"
	"github.com/spec-kit/helpdesk/internal/domain"
	"github.com/spec-kit/helpdesk/internal/events"
	"github.com/spec-kit/helpdesk/internal/intake"
	"github.com/spec-kit/helpdesk/internal/notify"
	"github.com/spec-kit/helpdesk/internal/relay"
	"github.com/spec-kit/helpdesk/internal/repository"
	apperrors "github.com/spec-kit/helpdesk/pkg/util"
)

// AIResponder is the narrow surface the orchestrator needs from the AI
// layer. Both operations are failure-safe: Respond degrades to a
// fallback reply with escalate set, Summarize to a placeholder string.
type AIResponder interface {
	Respond(ctx context.Context, ticketID int64, timeline []domain.Message, user domain.UserInfo) ai.Reply
	Summarize(ctx context.Context, timeline []domain.Message) string
}

// ConversationService sequences intake, persistence, the AI round trip,
// outbound delivery and escalation for every inbound event. It is the
// sole writer of ticket status and owns all ticket state transitions
// that are not external manager writes.
type ConversationService struct {
	tickets    repository.TicketRepository
	messages   repository.MessageRepository
	responder  AIResponder
	relay      relay.Outbound
	notifier   notify.Notifier
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// ConversationDependencies bundles collaborators for the orchestrator.
type ConversationDependencies struct {
	TicketRepo  repository.TicketRepository
	MessageRepo repository.MessageRepository
	Responder   AIResponder
	Relay       relay.Outbound
	Notifier    notify.Notifier
	Dispatcher  events.Dispatcher
	Logger      *zap.Logger
}

// NewConversationService constructs the orchestrator.
func NewConversationService(deps ConversationDependencies) *ConversationService {
	return &ConversationService{
		tickets:    deps.TicketRepo,
		messages:   deps.MessageRepo,
		responder:  deps.Responder,
		relay:      deps.Relay,
		notifier:   deps.Notifier,
		dispatcher: deps.Dispatcher,
		logger:     deps.Logger,
	}
}

// CreateTicketResult is the outcome of a ticket creation attempt.
type CreateTicketResult struct {
	NeedsClarification bool
	Suggestion         string
	Missing            []string
	Ticket             *domain.Ticket
	Category           string
	AIReply            *domain.Message
}

// CreateTicket validates the first message, creates the ticket and runs
// the first assistant turn. A rejected intake returns a clarification
// result without touching the store; remembering that the user is
// mid-clarification is the caller's session update.
func (s *ConversationService) CreateTicket(ctx context.Context, user domain.UserInfo, text string) (*CreateTicketResult, error) {
	classification := intake.Classify(text)
	if !classification.Accepted {
		return &CreateTicketResult{
			NeedsClarification: true,
			Suggestion:         classification.Suggestion,
			Missing:            classification.Missing,
		}, nil
	}

	ticket := &domain.Ticket{
		Number:   GenerateTicketNumber(),
		UserID:   user.UserID,
		UserName: user.UserName,
		Status:   domain.TicketStatusAIProcessing,
	}
	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, err
	}

	first := &domain.Message{
		TicketID:   ticket.ID,
		SenderRole: domain.SenderRoleUser,
		SenderID:   strconv.FormatInt(user.UserID, 10),
		Content:    text,
	}
	if err := s.messages.Create(ctx, first); err != nil {
		return nil, err
	}

	s.publish(ctx, events.Event{
		Type:     events.EventTicketCreated,
		TicketID: ticket.ID,
		UserID:   user.UserID,
		Payload: events.TicketCreatedPayload{
			TicketNumber: ticket.Number,
			Category:     classification.Category,
		},
	})

	aiReply := s.assistantTurn(ctx, ticket, []domain.Message{*first}, user)

	return &CreateTicketResult{
		Ticket:   ticket,
		Category: classification.Category,
		AIReply:  aiReply,
	}, nil
}

// AppendMessage stores a message on an existing ticket. User messages
// trigger a new assistant turn over the entire stored timeline; manager
// messages are relayed to the user instead. Each call always appends —
// deduplication of re-submitted events is the caller's problem.
func (s *ConversationService) AppendMessage(ctx context.Context, ticketID int64, role domain.SenderRole, senderID, content string, attachment *domain.Attachment) (*domain.Message, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	msg := &domain.Message{
		TicketID:   ticket.ID,
		SenderRole: role,
		SenderID:   senderID,
		Content:    content,
		Attachment: attachment,
	}
	if err := s.messages.Create(ctx, msg); err != nil {
		return nil, err
	}
	if err := s.tickets.Touch(ctx, ticket.ID); err != nil {
		return nil, err
	}

	s.publish(ctx, events.Event{
		Type:     events.EventMessageAdded,
		TicketID: ticket.ID,
		UserID:   ticket.UserID,
		Payload: events.MessageAddedPayload{
			MessageID:   msg.ID,
			SenderRole:  role,
			BodyPreview: preview(content, 120),
			HasMedia:    attachment != nil,
		},
	})

	switch role {
	case domain.SenderRoleUser:
		timeline, err := s.messages.ListByTicket(ctx, ticket.ID, 0, 0)
		if err != nil {
			return nil, err
		}
		user := domain.UserInfo{UserID: ticket.UserID, UserName: ticket.UserName}
		s.assistantTurn(ctx, ticket, timeline, user)
	case domain.SenderRoleManager:
		// Direct channel for a human's reply to reach the user.
		_ = s.relay.SendMessage(ctx, ticket.UserID, content, ticket.Number)
	}

	return msg, nil
}

// assistantTurn runs one AI round trip: generate a reply, persist it,
// deliver it best-effort, and escalate when the reply confirms a
// handoff. A responder panic still forces the ticket to escalated with
// no summary — escalation on uncertainty is the fail-safe default.
func (s *ConversationService) assistantTurn(ctx context.Context, ticket *domain.Ticket, timeline []domain.Message, user domain.UserInfo) *domain.Message {
	reply, ok := s.safeRespond(ctx, ticket.ID, timeline, user)
	if !ok {
		s.escalate(ctx, ticket, timeline, "", 0)
		return nil
	}

	confidence := reply.Confidence
	aiMsg := &domain.Message{
		TicketID:     ticket.ID,
		SenderRole:   domain.SenderRoleAI,
		SenderID:     "ai",
		Content:      reply.Text,
		AIConfidence: &confidence,
	}
	if err := s.messages.Create(ctx, aiMsg); err != nil {
		s.logger.Error("failed to persist ai reply", zap.Int64("ticket_id", ticket.ID), zap.Error(err))
		return nil
	}

	// Delivery failure is not fatal: the reply stays visible via lookup.
	_ = s.relay.SendMessage(ctx, user.UserID, reply.Text, ticket.Number)

	if reply.Escalate {
		full := append(append([]domain.Message{}, timeline...), *aiMsg)
		summary := s.responder.Summarize(ctx, full)
		s.escalate(ctx, ticket, full, summary, reply.Confidence)
	}
	return aiMsg
}

func (s *ConversationService) safeRespond(ctx context.Context, ticketID int64, timeline []domain.Message, user domain.UserInfo) (reply ai.Reply, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("ai responder panicked", zap.Int64("ticket_id", ticketID), zap.Any("panic", r))
			ok = false
		}
	}()
	return s.responder.Respond(ctx, ticketID, timeline, user), true
}

func (s *ConversationService) escalate(ctx context.Context, ticket *domain.Ticket, timeline []domain.Message, summary string, confidence float64) {
	now := time.Now()
	if err := s.tickets.Escalate(ctx, ticket.ID, summary, now); err != nil {
		s.logger.Error("failed to mark ticket escalated", zap.Int64("ticket_id", ticket.ID), zap.Error(err))
		return
	}
	ticket.Status = domain.TicketStatusEscalated
	ticket.EscalatedAt = &now
	if summary != "" {
		ticket.AISummary = &summary
	}

	user := domain.UserInfo{UserID: ticket.UserID, UserName: ticket.UserName}
	notified := s.notifier.Notify(ctx, ticket, user, timeline, summary)

	s.publish(ctx, events.Event{
		Type:     events.EventTicketEscalated,
		TicketID: ticket.ID,
		UserID:   ticket.UserID,
		Payload: events.TicketEscalatedPayload{
			TicketNumber: ticket.Number,
			Confidence:   confidence,
			Notified:     notified,
		},
	})
}

// ListTickets returns ticket summaries, newest first, optionally
// filtered by owning user.
func (s *ConversationService) ListTickets(ctx context.Context, userID *int64) ([]domain.TicketSummary, error) {
	return s.tickets.List(ctx, userID)
}

// GetTicket fetches a ticket with its timeline. When limit is positive
// the timeline is paginated and the total message count is returned.
func (s *ConversationService) GetTicket(ctx context.Context, id int64, limit, offset int) (*domain.Ticket, []domain.Message, int, error) {
	ticket, err := s.tickets.GetByID(ctx, id)
	if err != nil {
		return nil, nil, 0, apperrors.MapError(err)
	}
	total, err := s.messages.CountByTicket(ctx, id)
	if err != nil {
		return nil, nil, 0, err
	}
	msgs, err := s.messages.ListByTicket(ctx, id, limit, offset)
	if err != nil {
		return nil, nil, 0, err
	}
	return ticket, msgs, total, nil
}

// UpdateStatus applies an external status write. The store accepts any
// known status value; transition policy beyond enum membership belongs
// to the manager tooling.
func (s *ConversationService) UpdateStatus(ctx context.Context, id int64, status domain.TicketStatus) (*domain.Ticket, error) {
	if !domain.ValidTicketStatus(status) {
		return nil, apperrors.NewValidationError("invalid status", map[string]any{"status": status})
	}
	before, err := s.tickets.GetByID(ctx, id)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	ticket, err := s.tickets.UpdateStatus(ctx, id, status)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	s.publish(ctx, events.Event{
		Type:     events.EventTicketStatusChanged,
		TicketID: ticket.ID,
		UserID:   ticket.UserID,
		Payload: events.TicketStatusChangedPayload{
			OldStatus: before.Status,
			NewStatus: ticket.Status,
		},
	})
	return ticket, nil
}

// AssignManager sets the assigned manager and moves the ticket back to
// in-progress handling.
func (s *ConversationService) AssignManager(ctx context.Context, id, managerID int64) (*domain.Ticket, error) {
	ticket, err := s.tickets.AssignManager(ctx, id, managerID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return ticket, nil
}

func (s *ConversationService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}

// GenerateTicketNumber builds a human-readable ticket number: fixed
// prefix, two-digit year and month, and six hex characters of UUID
// entropy. Uniqueness comes from the random suffix, not a sequence.
func GenerateTicketNumber() string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:6])
	return fmt.Sprintf("SH%s%s", time.Now().Format("0601"), suffix)
}

func preview(body string, max int) string {
	body = strings.TrimSpace(body)
	runes := []rune(body)
	if len(runes) <= max {
		return body
	}
	if max <= 3 {
		return string(runes[:max])
	}
	return string(runes[:max-3]) + "..."
}
