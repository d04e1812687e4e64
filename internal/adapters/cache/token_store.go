package cache

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/AchilleasB/baby-kliniek/scheduling-service/internal/config"
	"github.com/AchilleasB/baby-kliniek/scheduling-service/internal/core/ports"
	"github.com/redis/go-redis/v9"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

const (
	revokedTokenPrefix = "auth:revoked:jti:"
	revokedUserPrefix  = "auth:revoked:user:"
)

// TokenStore keeps token revocations in Redis. Keys expire together with the
// tokens they cover.
type TokenStore struct {
	client *redis.Client
	cb     *gobreaker.CircuitBreaker
	logger *zap.Logger
}

var _ ports.TokenStore = (*TokenStore)(nil)

func NewTokenStore(client *redis.Client, logger *zap.Logger) *TokenStore {
	return &TokenStore{
		client: client,
		cb:     config.NewCircuitBreaker(config.BreakerRedisAuth, logger),
		logger: logger,
	}
}

func (s *TokenStore) RevokeToken(ctx context.Context, tokenID string, ttl time.Duration) error {
	_, err := s.cb.Execute(func() (interface{}, error) {
		return nil, s.client.Set(ctx, revokedTokenPrefix+tokenID, "1", ttl).Err()
	})
	return err
}

// RevokeUser invalidates every token of the user issued at or before at.
func (s *TokenStore) RevokeUser(ctx context.Context, userID int64, at time.Time, ttl time.Duration) error {
	_, err := s.cb.Execute(func() (interface{}, error) {
		return nil, s.client.Set(ctx, userKey(userID), at.Unix(), ttl).Err()
	})
	if err == nil {
		s.logger.Info("user sessions revoked", zap.Int64("user_id", userID))
	}
	return err
}

func (s *TokenStore) IsRevoked(ctx context.Context, tokenID string, userID int64, issuedAt time.Time) (bool, error) {
	res, err := s.cb.Execute(func() (interface{}, error) {
		return s.client.MGet(ctx, revokedTokenPrefix+tokenID, userKey(userID)).Result()
	})
	if err != nil {
		return false, err
	}

	vals := res.([]interface{})
	if vals[0] != nil {
		return true, nil
	}
	if vals[1] == nil {
		return false, nil
	}
	raw, ok := vals[1].(string)
	if !ok {
		return false, errors.New("unexpected revocation value type")
	}
	revokedAt, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return false, err
	}
	return issuedAt.Unix() <= revokedAt, nil
}

func userKey(userID int64) string {
	return revokedUserPrefix + strconv.FormatInt(userID, 10)
}

// Ping reports whether Redis is reachable, for readiness checks.
func (s *TokenStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
