package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/helpdesk/internal/domain"
)

// MessageRepository manages ticket timeline messages. Messages are
// append-only; there is no update or delete.
type MessageRepository interface {
	Create(ctx context.Context, msg *domain.Message) error
	ListByTicket(ctx context.Context, ticketID int64, limit, offset int) ([]domain.Message, error)
	CountByTicket(ctx context.Context, ticketID int64) (int, error)
}

type messageRepository struct {
	pool *pgxpool.Pool
}

// NewMessageRepository builds repository.
func NewMessageRepository(pool *pgxpool.Pool) MessageRepository {
	return &messageRepository{pool: pool}
}

func (r *messageRepository) Create(ctx context.Context, msg *domain.Message) error {
	const query = `
        INSERT INTO messages (ticket_id, sender_role, sender_id, content, media_type, media_url, media_file_id, ai_confidence)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
        RETURNING id, created_at`
	var mediaType, mediaURL, mediaFileID *string
	if msg.Attachment != nil {
		kind := string(msg.Attachment.Kind)
		mediaType = &kind
		mediaURL = &msg.Attachment.URL
		mediaFileID = &msg.Attachment.FileID
	}
	return r.pool.QueryRow(ctx, query,
		msg.TicketID,
		msg.SenderRole,
		msg.SenderID,
		msg.Content,
		mediaType,
		mediaURL,
		mediaFileID,
		msg.AIConfidence,
	).Scan(&msg.ID, &msg.CreatedAt)
}

func (r *messageRepository) ListByTicket(ctx context.Context, ticketID int64, limit, offset int) ([]domain.Message, error) {
	const base = `
        SELECT id, ticket_id, sender_role, sender_id, content, media_type, media_url, media_file_id, ai_confidence, created_at
        FROM messages WHERE ticket_id=$1 ORDER BY created_at ASC`
	var (
		rows pgx.Rows
		err  error
	)
	if limit > 0 {
		rows, err = r.pool.Query(ctx, base+` LIMIT $2 OFFSET $3`, ticketID, limit, offset)
	} else {
		rows, err = r.pool.Query(ctx, base, ticketID)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Message
	for rows.Next() {
		var (
			msg                              domain.Message
			mediaType, mediaURL, mediaFileID *string
		)
		if err := rows.Scan(
			&msg.ID,
			&msg.TicketID,
			&msg.SenderRole,
			&msg.SenderID,
			&msg.Content,
			&mediaType,
			&mediaURL,
			&mediaFileID,
			&msg.AIConfidence,
			&msg.CreatedAt,
		); err != nil {
			return nil, err
		}
		if mediaType != nil {
			msg.Attachment = &domain.Attachment{Kind: domain.AttachmentKind(*mediaType)}
			if mediaURL != nil {
				msg.Attachment.URL = *mediaURL
			}
			if mediaFileID != nil {
				msg.Attachment.FileID = *mediaFileID
			}
		}
		result = append(result, msg)
	}
	return result, rows.Err()
}

func (r *messageRepository) CountByTicket(ctx context.Context, ticketID int64) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM messages WHERE ticket_id=$1`, ticketID).Scan(&count)
	return count, err
}
