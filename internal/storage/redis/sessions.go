package redis

import (
	"context"
	"errors"
	"strconv"
	"time"

	"cinetrack/proj/internal/storage"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
)

const (
	sessionPrefix     = "session:"
	userSessionPrefix = "user_sessions:"
)

// SessionStore maps opaque session ids to user ids. Every user also has a set
// of live session ids so all of them can be revoked at once.
type SessionStore struct {
	client *goredis.Client
	ttl    time.Duration
}

func New(ctx context.Context, addr, password string, db int, ttl time.Duration) (*SessionStore, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, err
	}
	return &SessionStore{client: client, ttl: ttl}, nil
}

func NewWithClient(client *goredis.Client, ttl time.Duration) *SessionStore {
	return &SessionStore{client: client, ttl: ttl}
}

func (s *SessionStore) Close() error {
	return s.client.Close()
}

func (s *SessionStore) Create(ctx context.Context, userID int64) (string, error) {
	sid := uuid.NewString()
	userKey := userSessionPrefix + strconv.FormatInt(userID, 10)
	_, err := s.client.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
		pipe.Set(ctx, sessionPrefix+sid, userID, s.ttl)
		pipe.SAdd(ctx, userKey, sid)
		pipe.Expire(ctx, userKey, s.ttl)
		return nil
	})
	if err != nil {
		return "", err
	}
	return sid, nil
}

// Get returns the user owning sid, or storage.ErrNotFound when the session
// expired or never existed.
func (s *SessionStore) Get(ctx context.Context, sid string) (int64, error) {
	userID, err := s.client.Get(ctx, sessionPrefix+sid).Int64()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return 0, storage.ErrNotFound
		}
		return 0, err
	}
	return userID, nil
}

func (s *SessionStore) Delete(ctx context.Context, sid string) error {
	userID, err := s.Get(ctx, sid)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil
		}
		return err
	}
	_, err = s.client.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
		pipe.Del(ctx, sessionPrefix+sid)
		pipe.SRem(ctx, userSessionPrefix+strconv.FormatInt(userID, 10), sid)
		return nil
	})
	return err
}

// DeleteAll revokes every session of userID.
func (s *SessionStore) DeleteAll(ctx context.Context, userID int64) error {
	userKey := userSessionPrefix + strconv.FormatInt(userID, 10)
	sids, err := s.client.SMembers(ctx, userKey).Result()
	if err != nil {
		return err
	}
	keys := make([]string, 0, len(sids)+1)
	for _, sid := range sids {
		keys = append(keys, sessionPrefix+sid)
	}
	keys = append(keys, userKey)
	return s.client.Del(ctx, keys...).Err()
}
