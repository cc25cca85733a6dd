package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/helpdesk/internal/domain"
)

// ManagerRepository manages manager accounts.
type ManagerRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Manager, error)
	GetByEmail(ctx context.Context, email string) (*domain.Manager, error)
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
}

type managerRepository struct {
	pool *pgxpool.Pool
}

// NewManagerRepository builds repository.
func NewManagerRepository(pool *pgxpool.Pool) ManagerRepository {
	return &managerRepository{pool: pool}
}

const managerColumns = `id, name, email, telegram_id, password_hash, active`

func (r *managerRepository) GetByID(ctx context.Context, id int64) (*domain.Manager, error) {
	const query = `SELECT ` + managerColumns + ` FROM managers WHERE id=$1`
	return r.scanOne(ctx, query, id)
}

func (r *managerRepository) GetByEmail(ctx context.Context, email string) (*domain.Manager, error) {
	const query = `SELECT ` + managerColumns + ` FROM managers WHERE LOWER(email)=LOWER($1)`
	return r.scanOne(ctx, query, email)
}

func (r *managerRepository) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	cmd, err := r.pool.Exec(ctx, `UPDATE managers SET password_hash=$1 WHERE id=$2`, passwordHash, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *managerRepository) scanOne(ctx context.Context, query string, arg any) (*domain.Manager, error) {
	var manager domain.Manager
	if err := r.pool.QueryRow(ctx, query, arg).Scan(
		&manager.ID,
		&manager.Name,
		&manager.Email,
		&manager.TelegramID,
		&manager.PasswordHash,
		&manager.Active,
	); err != nil {
		return nil, err
	}
	return &manager, nil
}
