package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/helpdesk/internal/domain"
)

// SessionRepository manages per-user conversation cursors. Upsert uses
// ON CONFLICT so concurrent requests for one user converge on a single
// row instead of racing to create duplicates.
type SessionRepository interface {
	Get(ctx context.Context, userID int64) (*domain.Session, error)
	Upsert(ctx context.Context, session *domain.Session) error
}

type sessionRepository struct {
	pool *pgxpool.Pool
}

// NewSessionRepository builds repository.
func NewSessionRepository(pool *pgxpool.Pool) SessionRepository {
	return &sessionRepository{pool: pool}
}

const sessionColumns = `user_id, active_ticket_id, awaiting_clarification, original_message,
               pending_media_type, pending_media_url, pending_media_file_id, pending_media_caption, updated_at`

// Get returns nil without error when the user has no stored session.
func (r *sessionRepository) Get(ctx context.Context, userID int64) (*domain.Session, error) {
	const query = `SELECT ` + sessionColumns + ` FROM user_sessions WHERE user_id=$1`
	session, err := scanSessionRow(r.pool.QueryRow(ctx, query, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return session, nil
}

func (r *sessionRepository) Upsert(ctx context.Context, session *domain.Session) error {
	const query = `
        INSERT INTO user_sessions
            (user_id, active_ticket_id, awaiting_clarification, original_message,
             pending_media_type, pending_media_url, pending_media_file_id, pending_media_caption, updated_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,NOW())
        ON CONFLICT (user_id) DO UPDATE SET
            active_ticket_id = $2,
            awaiting_clarification = $3,
            original_message = $4,
            pending_media_type = $5,
            pending_media_url = $6,
            pending_media_file_id = $7,
            pending_media_caption = $8,
            updated_at = NOW()
        RETURNING updated_at`
	return r.pool.QueryRow(ctx, query,
		session.UserID,
		session.ActiveTicketID,
		session.AwaitingClarification,
		session.OriginalMessage,
		session.PendingMediaType,
		session.PendingMediaURL,
		session.PendingMediaFileID,
		session.PendingMediaCaption,
	).Scan(&session.UpdatedAt)
}

func scanSessionRow(row pgx.Row) (*domain.Session, error) {
	var session domain.Session
	if err := row.Scan(
		&session.UserID,
		&session.ActiveTicketID,
		&session.AwaitingClarification,
		&session.OriginalMessage,
		&session.PendingMediaType,
		&session.PendingMediaURL,
		&session.PendingMediaFileID,
		&session.PendingMediaCaption,
		&session.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &session, nil
}
