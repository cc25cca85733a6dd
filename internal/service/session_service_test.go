package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk/internal/domain"
)

type fakeSessionRepo struct {
	mu       sync.Mutex
	sessions map[int64]*domain.Session
	upserts  int
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{sessions: map[int64]*domain.Session{}}
}

func (r *fakeSessionRepo) Get(ctx context.Context, userID int64) (*domain.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	session, ok := r.sessions[userID]
	if !ok {
		return nil, nil
	}
	copied := *session
	return &copied, nil
}

func (r *fakeSessionRepo) Upsert(ctx context.Context, session *domain.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.upserts++
	session.UpdatedAt = time.Now()
	copied := *session
	r.sessions[session.UserID] = &copied
	return nil
}

func TestSessionGetPersistsDefaultOnFirstLookup(t *testing.T) {
	repo := newFakeSessionRepo()
	svc := NewSessionService(repo, nil, zap.NewNop())

	session, err := svc.Get(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, int64(42), session.UserID)
	assert.False(t, session.AwaitingClarification)
	assert.Empty(t, session.OriginalMessage)
	assert.False(t, session.UpdatedAt.IsZero())

	// Lazy creation writes the default row.
	assert.Equal(t, 1, repo.upserts)
	require.Contains(t, repo.sessions, int64(42))

	// The second lookup reads the stored row instead of re-creating it.
	_, err = svc.Get(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, 1, repo.upserts)
}

func TestSessionSaveRoundTrip(t *testing.T) {
	repo := newFakeSessionRepo()
	svc := NewSessionService(repo, nil, zap.NewNop())

	ticketID := int64(5)
	err := svc.Save(context.Background(), &domain.Session{
		UserID:                42,
		ActiveTicketID:        &ticketID,
		AwaitingClarification: true,
		OriginalMessage:       "не работает приложение",
	})
	require.NoError(t, err)

	loaded, err := svc.Get(context.Background(), 42)
	require.NoError(t, err)
	require.NotNil(t, loaded.ActiveTicketID)
	assert.Equal(t, int64(5), *loaded.ActiveTicketID)
	assert.True(t, loaded.AwaitingClarification)
	assert.Equal(t, "не работает приложение", loaded.OriginalMessage)
}

func TestSessionClearResetsState(t *testing.T) {
	repo := newFakeSessionRepo()
	svc := NewSessionService(repo, nil, zap.NewNop())

	ticketID := int64(5)
	mediaType := "photo"
	require.NoError(t, svc.Save(context.Background(), &domain.Session{
		UserID:           42,
		ActiveTicketID:   &ticketID,
		PendingMediaType: &mediaType,
	}))

	require.NoError(t, svc.Clear(context.Background(), 42))

	loaded, err := svc.Get(context.Background(), 42)
	require.NoError(t, err)
	assert.Nil(t, loaded.ActiveTicketID)
	assert.Nil(t, loaded.PendingMediaType)
	assert.False(t, loaded.AwaitingClarification)
	assert.Empty(t, loaded.OriginalMessage)
}
