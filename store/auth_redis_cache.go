package store

import (
	"context"
	"time"

	"github.com/go-redis/redis"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/isinghranjeet/eassy-to-rent-backend/domain"
)

const tokenTTL = 24 * time.Hour

type AuthRedisCache struct {
	client *redis.Client
	tracer trace.Tracer
	logger *logrus.Logger
}

func NewAuthRedisCache(client *redis.Client, tracer trace.Tracer, logger *logrus.Logger) domain.AuthCache {
	return &AuthRedisCache{
		client: client,
		tracer: tracer,
		logger: logger,
	}
}

func (a *AuthRedisCache) PostCacheData(ctx context.Context, key string, value string) error {
	ctx, span := a.tracer.Start(ctx, "AuthRedisCache.PostCacheData")
	defer span.End()

	result := a.client.Set(key, value, tokenTTL)
	if result.Err() != nil {
		span.SetStatus(codes.Error, "Error posting cached value")
		a.logger.Errorf("redis set error: %s", result.Err())
		return result.Err()
	}
	return nil
}

func (a *AuthRedisCache) GetCachedValue(ctx context.Context, key string) (string, error) {
	ctx, span := a.tracer.Start(ctx, "AuthRedisCache.GetCachedValue")
	defer span.End()

	result := a.client.Get(key)
	token, err := result.Result()
	if err != nil {
		span.SetStatus(codes.Error, "Error getting cached value")
		return "", err
	}
	return token, nil
}

func (a *AuthRedisCache) DelCachedValue(ctx context.Context, key string) error {
	ctx, span := a.tracer.Start(ctx, "AuthRedisCache.DelCachedValue")
	defer span.End()

	result := a.client.Del(key)
	if result.Err() != nil {
		span.SetStatus(codes.Error, "Error deleting cached value")
		a.logger.Errorf("redis del error: %s", result.Err())
		return result.Err()
	}
	return nil
}
