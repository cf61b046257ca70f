package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/ds124wfegd/avatar-fix/internal/entity"
	"github.com/redis/go-redis/v9"
)

const maxTxRetries = 5

// SessionRepository stores session state as JSON under "avatar:session:<id>".
// Updates run in WATCH/MULTI so the generation check and the write are atomic.
type SessionRepository struct {
	client *redis.Client
	ttl    time.Duration
}

func NewSessionRepository(client *redis.Client, ttl time.Duration) (*SessionRepository, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Проверка подключения
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &SessionRepository{client: client, ttl: ttl}, nil
}

func (r *SessionRepository) Get(ctx context.Context, sessionID string) (*entity.SessionState, error) {
	data, err := r.client.Get(ctx, sessionKey(sessionID)).Bytes()
	return decodeState(sessionID, data, err)
}

func (r *SessionRepository) Begin(ctx context.Context, sessionID string) (int64, error) {
	state, _, err := r.update(ctx, sessionID, func(s *entity.SessionState) bool {
		s.Generation++
		s.Processing = true
		return true
	})
	if err != nil {
		return 0, err
	}
	return state.Generation, nil
}

func (r *SessionRepository) Finish(ctx context.Context, sessionID string, generation int64, published *entity.Published) (bool, error) {
	_, applied, err := r.update(ctx, sessionID, func(s *entity.SessionState) bool {
		if s.Generation != generation {
			return false
		}
		s.Processing = false
		if published != nil {
			s.Published = published
		}
		return true
	})
	return applied, err
}

func (r *SessionRepository) update(ctx context.Context, sessionID string, fn func(*entity.SessionState) bool) (*entity.SessionState, bool, error) {
	key := sessionKey(sessionID)

	var (
		state   *entity.SessionState
		applied bool
	)

	txf := func(tx *redis.Tx) error {
		data, err := tx.Get(ctx, key).Bytes()
		s, err := decodeState(sessionID, data, err)
		if err != nil {
			return err
		}

		state, applied = s, fn(s)
		if !applied {
			return nil
		}

		payload, err := json.Marshal(s)
		if err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, payload, r.ttl)
			return nil
		})
		return err
	}

	for i := 0; i < maxTxRetries; i++ {
		err := r.client.Watch(ctx, txf, key)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		if err != nil {
			return nil, false, err
		}
		return state, applied, nil
	}
	return nil, false, entity.ErrConcurrentUpdate
}

func decodeState(sessionID string, data []byte, err error) (*entity.SessionState, error) {
	if errors.Is(err, redis.Nil) {
		return &entity.SessionState{SessionID: sessionID}, nil
	}
	if err != nil {
		return nil, err
	}

	var state entity.SessionState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, err
	}
	state.SessionID = sessionID
	return &state, nil
}

func sessionKey(sessionID string) string {
	return "avatar:session:" + sessionID
}
