package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/corebank/portal-gateway/internal/core/domain"
)

const defaultSessionTTL = 24 * time.Hour

// SessionStore keeps session partitions in Redis.
// Key format: session:<sid>, session:<sid>:tokens, session:<sid>:intents
type SessionStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSessionStore creates a SessionStore whose partitions expire after ttl of
// inactivity.
func NewSessionStore(client *redis.Client, ttl time.Duration) *SessionStore {
	if ttl <= 0 {
		ttl = defaultSessionTTL
	}
	return &SessionStore{client: client, ttl: ttl}
}

// Put writes the session record and its bank tokens in a single MULTI/EXEC so
// no reader observes one without the other.
func (s *SessionStore) Put(ctx context.Context, session *domain.Session, tokens domain.Tokens) error {
	payload, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, sessionKey(session.ID), payload, s.ttl)
		pipe.HSet(ctx, tokensKey(session.ID), "access", tokens.Access, "refresh", tokens.Refresh)
		pipe.Expire(ctx, tokensKey(session.ID), s.ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("put session: %w", err)
	}
	return nil
}

// Get loads the session record and slides the partition expiry.
func (s *SessionStore) Get(ctx context.Context, sid string) (*domain.Session, error) {
	raw, err := s.client.Get(ctx, sessionKey(sid)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, domain.ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}

	var session domain.Session
	if err := json.Unmarshal(raw, &session); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}

	_, _ = s.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Expire(ctx, sessionKey(sid), s.ttl)
		pipe.Expire(ctx, tokensKey(sid), s.ttl)
		return nil
	})
	return &session, nil
}

func (s *SessionStore) Tokens(ctx context.Context, sid string) (domain.Tokens, error) {
	vals, err := s.client.HGetAll(ctx, tokensKey(sid)).Result()
	if err != nil {
		return domain.Tokens{}, fmt.Errorf("get tokens: %w", err)
	}
	if len(vals) == 0 {
		return domain.Tokens{}, domain.ErrSessionNotFound
	}
	return domain.Tokens{Access: vals["access"], Refresh: vals["refresh"]}, nil
}

// Clear drops the whole partition: session, tokens, transfer intents and
// pending notifications. The intent index is read under WATCH, so a draft
// created concurrently either lands in the deleted set or aborts the
// transaction and the read is retried.
func (s *SessionStore) Clear(ctx context.Context, sid string) error {
	index := intentIndexKey(sid)

	txf := func(tx *redis.Tx) error {
		ids, err := tx.SMembers(ctx, index).Result()
		if err != nil && !errors.Is(err, redis.Nil) {
			return fmt.Errorf("list session intents: %w", err)
		}

		keys := []string{sessionKey(sid), tokensKey(sid), index, notificationsKey(sid)}
		for _, id := range ids {
			keys = append(keys, intentKey(id))
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Del(ctx, keys...)
			return nil
		})
		return err
	}

	for i := 0; i < maxCASRetries; i++ {
		err := s.client.Watch(ctx, txf, index)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		if err != nil {
			return fmt.Errorf("clear session: %w", err)
		}
		return nil
	}
	return fmt.Errorf("clear session %s: %w", sid, ErrContention)
}
