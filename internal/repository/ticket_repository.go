package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/helpdesk/internal/domain"
)

// TicketRepository encapsulates ticket persistence. All single-ticket
// mutations go through row-level UPDATE statements so concurrent
// requests for the same ticket serialize in the store.
type TicketRepository interface {
	Create(ctx context.Context, ticket *domain.Ticket) error
	GetByID(ctx context.Context, id int64) (*domain.Ticket, error)
	List(ctx context.Context, userID *int64) ([]domain.TicketSummary, error)
	UpdateStatus(ctx context.Context, id int64, status domain.TicketStatus) (*domain.Ticket, error)
	Escalate(ctx context.Context, id int64, summary string, at time.Time) error
	AssignManager(ctx context.Context, id, managerID int64) (*domain.Ticket, error)
	Touch(ctx context.Context, id int64) error
}

type ticketRepository struct {
	pool *pgxpool.Pool
}

// NewTicketRepository instantiates repository.
func NewTicketRepository(pool *pgxpool.Pool) TicketRepository {
	return &ticketRepository{pool: pool}
}

const ticketColumns = `id, ticket_number, user_id, user_name, status, assigned_manager_id,
               ai_summary, escalated_at, created_at, updated_at`

func (r *ticketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        INSERT INTO tickets (ticket_number, user_id, user_name, status)
        VALUES ($1,$2,$3,$4)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		ticket.Number,
		ticket.UserID,
		ticket.UserName,
		ticket.Status,
	).Scan(&ticket.ID, &ticket.CreatedAt, &ticket.UpdatedAt)
}

func (r *ticketRepository) GetByID(ctx context.Context, id int64) (*domain.Ticket, error) {
	const query = `SELECT ` + ticketColumns + ` FROM tickets WHERE id=$1`
	return scanTicketRow(r.pool.QueryRow(ctx, query, id))
}

func (r *ticketRepository) List(ctx context.Context, userID *int64) ([]domain.TicketSummary, error) {
	base := `
        SELECT ` + ticketColumns + `,
            COALESCE((SELECT content FROM messages WHERE ticket_id = tickets.id ORDER BY created_at ASC LIMIT 1), '') AS first_message,
            (SELECT COUNT(*) FROM messages WHERE ticket_id = tickets.id) AS message_count
        FROM tickets`
	var (
		rows pgx.Rows
		err  error
	)
	if userID != nil {
		rows, err = r.pool.Query(ctx, base+` WHERE user_id=$1 ORDER BY created_at DESC`, *userID)
	} else {
		rows, err = r.pool.Query(ctx, base+` ORDER BY created_at DESC`)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.TicketSummary
	for rows.Next() {
		var summary domain.TicketSummary
		if err := rows.Scan(
			&summary.ID,
			&summary.Number,
			&summary.UserID,
			&summary.UserName,
			&summary.Status,
			&summary.AssignedManagerID,
			&summary.AISummary,
			&summary.EscalatedAt,
			&summary.CreatedAt,
			&summary.UpdatedAt,
			&summary.FirstMessage,
			&summary.MessageCount,
		); err != nil {
			return nil, err
		}
		result = append(result, summary)
	}
	return result, rows.Err()
}

func (r *ticketRepository) UpdateStatus(ctx context.Context, id int64, status domain.TicketStatus) (*domain.Ticket, error) {
	const query = `
        UPDATE tickets SET status=$1, updated_at=NOW() WHERE id=$2
        RETURNING ` + ticketColumns
	return scanTicketRow(r.pool.QueryRow(ctx, query, status, id))
}

func (r *ticketRepository) Escalate(ctx context.Context, id int64, summary string, at time.Time) error {
	const query = `
        UPDATE tickets SET status=$1, ai_summary=NULLIF($2,''), escalated_at=$3, updated_at=NOW()
        WHERE id=$4`
	cmd, err := r.pool.Exec(ctx, query, domain.TicketStatusEscalated, summary, at, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *ticketRepository) AssignManager(ctx context.Context, id, managerID int64) (*domain.Ticket, error) {
	const query = `
        UPDATE tickets SET assigned_manager_id=$1, status=$2, updated_at=NOW() WHERE id=$3
        RETURNING ` + ticketColumns
	return scanTicketRow(r.pool.QueryRow(ctx, query, managerID, domain.TicketStatusAIProcessing, id))
}

func (r *ticketRepository) Touch(ctx context.Context, id int64) error {
	cmd, err := r.pool.Exec(ctx, `UPDATE tickets SET updated_at=NOW() WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func scanTicketRow(row pgx.Row) (*domain.Ticket, error) {
	var ticket domain.Ticket
	if err := row.Scan(
		&ticket.ID,
		&ticket.Number,
		&ticket.UserID,
		&ticket.UserName,
		&ticket.Status,
		&ticket.AssignedManagerID,
		&ticket.AISummary,
		&ticket.EscalatedAt,
		&ticket.CreatedAt,
		&ticket.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &ticket, nil
}
