package database

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/caseflow/backend/internal/config"
	"github.com/redis/go-redis/v9"
)

func ConnectRedis(cfg *config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := client.Ping(ctx).Result(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	log.Println("Redis connected successfully")
	return client, nil
}

func CloseRedis(client *redis.Client) error {
	return client.Close()
}

// SessionStore keeps login sessions and revoked tokens in Redis.
type SessionStore struct {
	client *redis.Client
}

func NewSessionStore(client *redis.Client) *SessionStore {
	return &SessionStore{client: client}
}

func (s *SessionStore) SetUserSession(ctx context.Context, userID string, sessionData interface{}, expiration time.Duration) error {
	data, err := json.Marshal(sessionData)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, "session:"+userID, data, expiration).Err()
}

func (s *SessionStore) GetUserSession(ctx context.Context, userID string, dest interface{}) error {
	data, err := s.client.Get(ctx, "session:"+userID).Bytes()
	if err != nil {
		return err
	}
	return json.Unmarshal(data, dest)
}

func (s *SessionStore) DeleteUserSession(ctx context.Context, userID string) error {
	return s.client.Del(ctx, "session:"+userID).Err()
}

func (s *SessionStore) BlacklistToken(ctx context.Context, token string, expiration time.Duration) error {
	return s.client.Set(ctx, "blacklist:"+token, "1", expiration).Err()
}

func (s *SessionStore) IsTokenBlacklisted(ctx context.Context, token string) (bool, error) {
	count, err := s.client.Exists(ctx, "blacklist:"+token).Result()
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
