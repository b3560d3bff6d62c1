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

const (
	defaultIntentTTL = 30 * time.Minute
	maxCASRetries    = 8
)

// ErrContention is returned when a transition keeps losing the optimistic
// lock to concurrent writers.
var ErrContention = errors.New("intent update contention")

// storedIntent adds the owning session, which is hidden from API responses.
type storedIntent struct {
	domain.TransferIntent
	Owner string `json:"session_id"`
}

// IntentStore keeps transfer intents in Redis. Transitions are
// compare-and-set under WATCH so exactly one writer moves an intent out of a
// given state.
// Key format: intent:<id>, indexed in session:<sid>:intents
type IntentStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewIntentStore(client *redis.Client, ttl time.Duration) *IntentStore {
	if ttl <= 0 {
		ttl = defaultIntentTTL
	}
	return &IntentStore{client: client, ttl: ttl}
}

func (s *IntentStore) Create(ctx context.Context, intent *domain.TransferIntent) error {
	payload, err := encodeIntent(intent)
	if err != nil {
		return err
	}

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, intentKey(intent.ID), payload, s.ttl)
		pipe.SAdd(ctx, intentIndexKey(intent.SessionID), intent.ID)
		pipe.Expire(ctx, intentIndexKey(intent.SessionID), s.ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("create intent: %w", err)
	}
	return nil
}

func (s *IntentStore) Get(ctx context.Context, id string) (*domain.TransferIntent, error) {
	return s.load(ctx, s.client, id)
}

// Transition applies mutate to the intent if it is currently in state from.
// If mutate fails nothing is written and its error is returned as is.
func (s *IntentStore) Transition(ctx context.Context, id string, from domain.IntentState, mutate func(*domain.TransferIntent) error) (*domain.TransferIntent, error) {
	key := intentKey(id)
	var updated *domain.TransferIntent

	txf := func(tx *redis.Tx) error {
		intent, err := s.load(ctx, tx, id)
		if err != nil {
			return err
		}
		if intent.State != from {
			return domain.StateMismatch(intent.State, from)
		}
		if err := mutate(intent); err != nil {
			return err
		}

		payload, err := encodeIntent(intent)
		if err != nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, payload, s.ttl)
			return nil
		})
		if err != nil {
			return err
		}
		updated = intent
		return nil
	}

	for i := 0; i < maxCASRetries; i++ {
		err := s.client.Watch(ctx, txf, key)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		if err != nil {
			return nil, err
		}
		return updated, nil
	}
	return nil, fmt.Errorf("transition intent %s: %w", id, ErrContention)
}

// Delete removes the intent. Deleting a missing intent is not an error.
func (s *IntentStore) Delete(ctx context.Context, id string) error {
	intent, err := s.Get(ctx, id)
	if errors.Is(err, domain.ErrIntentNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, intentKey(id))
		pipe.SRem(ctx, intentIndexKey(intent.SessionID), id)
		return nil
	})
	if err != nil {
		return fmt.Errorf("delete intent: %w", err)
	}
	return nil
}

func (s *IntentStore) load(ctx context.Context, c redis.Cmdable, id string) (*domain.TransferIntent, error) {
	raw, err := c.Get(ctx, intentKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, domain.ErrIntentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get intent: %w", err)
	}

	var rec storedIntent
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, fmt.Errorf("decode intent: %w", err)
	}
	intent := rec.TransferIntent
	intent.SessionID = rec.Owner
	return &intent, nil
}

func encodeIntent(intent *domain.TransferIntent) ([]byte, error) {
	payload, err := json.Marshal(storedIntent{TransferIntent: *intent, Owner: intent.SessionID})
	if err != nil {
		return nil, fmt.Errorf("encode intent: %w", err)
	}
	return payload, nil
}
