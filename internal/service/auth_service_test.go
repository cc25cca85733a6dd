package service

import (
	"context"
	"sync"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/helpdesk/internal/auth"
	"github.com/spec-kit/helpdesk/internal/config"
	"github.com/spec-kit/helpdesk/internal/domain"
)

type fakeManagerRepo struct {
	mu       sync.Mutex
	managers map[int64]*domain.Manager
}

func newFakeManagerRepo(managers ...*domain.Manager) *fakeManagerRepo {
	repo := &fakeManagerRepo{managers: map[int64]*domain.Manager{}}
	for _, m := range managers {
		repo.managers[m.ID] = m
	}
	return repo
}

func (r *fakeManagerRepo) GetByID(ctx context.Context, id int64) (*domain.Manager, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	manager, ok := r.managers[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *manager
	return &copied, nil
}

func (r *fakeManagerRepo) GetByEmail(ctx context.Context, email string) (*domain.Manager, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, manager := range r.managers {
		if manager.Email == email {
			copied := *manager
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeManagerRepo) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	manager, ok := r.managers[id]
	if !ok {
		return pgx.ErrNoRows
	}
	manager.PasswordHash = passwordHash
	return nil
}

func newAuthFixture(t *testing.T) (*AuthService, *fakeManagerRepo) {
	t.Helper()
	hash, err := auth.HashPassword("старый-пароль", 4)
	require.NoError(t, err)

	repo := newFakeManagerRepo(&domain.Manager{
		ID:           7,
		Name:         "Данияр",
		Email:        "manager@example.com",
		PasswordHash: hash,
		Active:       true,
	})
	cfg := config.Config{Auth: config.AuthConfig{
		JWTSecret:             "test-secret",
		AccessTokenTTLMinutes: 60,
		BcryptCost:            4,
	}}
	return NewAuthService(cfg, repo), repo
}

func TestLoginIssuesToken(t *testing.T) {
	svc, _ := newAuthFixture(t)

	manager, token, _, err := svc.Login(context.Background(), "manager@example.com", "старый-пароль")
	require.NoError(t, err)
	assert.Equal(t, int64(7), manager.ID)

	claims, err := svc.TokenManager().ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, int64(7), claims.ManagerID)
}

func TestLoginSameErrorForUnknownEmailAndWrongPassword(t *testing.T) {
	svc, _ := newAuthFixture(t)

	_, _, _, errUnknown := svc.Login(context.Background(), "nobody@example.com", "пароль")
	_, _, _, errWrong := svc.Login(context.Background(), "manager@example.com", "не тот пароль")

	require.Error(t, errUnknown)
	require.Error(t, errWrong)
	assert.Equal(t, errUnknown.Error(), errWrong.Error())
}

func TestLoginRejectsInactiveManager(t *testing.T) {
	svc, repo := newAuthFixture(t)
	repo.managers[7].Active = false

	_, _, _, err := svc.Login(context.Background(), "manager@example.com", "старый-пароль")
	require.Error(t, err)
}

func TestChangePassword(t *testing.T) {
	svc, repo := newAuthFixture(t)

	err := svc.ChangePassword(context.Background(), 7, "старый-пароль", "новый-пароль-123")
	require.NoError(t, err)

	// The stored hash was replaced and verifies against the new password.
	assert.NoError(t, auth.ComparePassword(repo.managers[7].PasswordHash, "новый-пароль-123"))
	assert.Error(t, auth.ComparePassword(repo.managers[7].PasswordHash, "старый-пароль"))

	_, _, _, err = svc.Login(context.Background(), "manager@example.com", "новый-пароль-123")
	require.NoError(t, err)
}

func TestChangePasswordRejectsWrongCurrent(t *testing.T) {
	svc, repo := newAuthFixture(t)
	before := repo.managers[7].PasswordHash

	err := svc.ChangePassword(context.Background(), 7, "не тот пароль", "новый-пароль-123")
	require.Error(t, err)
	assert.Equal(t, before, repo.managers[7].PasswordHash)
}
