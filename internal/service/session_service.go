package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk/internal/domain"
	"github.com/spec-kit/helpdesk/internal/repository"
)

const sessionCacheTTL = 30 * time.Minute

// SessionService tracks per-user conversation state: the active ticket,
// whether a clarification is pending, and media held until its caption
// arrives. Postgres is authoritative; Redis is a write-through cache so
// the hot path of a chat exchange avoids a database read.
type SessionService struct {
	sessions repository.SessionRepository
	cache    *redis.Client
	logger   *zap.Logger
}

// NewSessionService constructs the service. cache may be nil, in which
// case every read goes to the store.
func NewSessionService(sessions repository.SessionRepository, cache *redis.Client, logger *zap.Logger) *SessionService {
	return &SessionService{sessions: sessions, cache: cache, logger: logger}
}

// Get returns the user's session, creating and persisting a default
// one on first lookup.
func (s *SessionService) Get(ctx context.Context, userID int64) (*domain.Session, error) {
	if cached := s.fromCache(ctx, userID); cached != nil {
		return cached, nil
	}

	session, err := s.sessions.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		session = &domain.Session{UserID: userID}
		if err := s.Save(ctx, session); err != nil {
			return nil, err
		}
		return session, nil
	}
	s.toCache(ctx, session)
	return session, nil
}

// Save persists the session and refreshes the cache.
func (s *SessionService) Save(ctx context.Context, session *domain.Session) error {
	if err := s.sessions.Upsert(ctx, session); err != nil {
		return err
	}
	s.toCache(ctx, session)
	return nil
}

// Clear resets the session to an empty state for the user.
func (s *SessionService) Clear(ctx context.Context, userID int64) error {
	return s.Save(ctx, &domain.Session{UserID: userID})
}

func (s *SessionService) fromCache(ctx context.Context, userID int64) *domain.Session {
	if s.cache == nil {
		return nil
	}
	raw, err := s.cache.Get(ctx, sessionCacheKey(userID)).Bytes()
	if err != nil {
		if err != redis.Nil {
			s.logger.Warn("session cache read failed", zap.Int64("user_id", userID), zap.Error(err))
		}
		return nil
	}
	var session domain.Session
	if err := json.Unmarshal(raw, &session); err != nil {
		s.logger.Warn("session cache entry corrupt", zap.Int64("user_id", userID), zap.Error(err))
		return nil
	}
	return &session
}

func (s *SessionService) toCache(ctx context.Context, session *domain.Session) {
	if s.cache == nil {
		return
	}
	raw, err := json.Marshal(session)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, sessionCacheKey(session.UserID), raw, sessionCacheTTL).Err(); err != nil {
		s.logger.Warn("session cache write failed", zap.Int64("user_id", session.UserID), zap.Error(err))
	}
}

func sessionCacheKey(userID int64) string {
	return fmt.Sprintf("session:%d", userID)
}
