package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/isinghranjeet/eassy-to-rent-backend/domain"
	apperrors "github.com/isinghranjeet/eassy-to-rent-backend/errors"
)

const listingTTL = 30 * time.Minute

// ListingRedisCache keeps resolved listings keyed by id or slug so the
// resolver can skip the first two lookup strategies on repeat requests.
type ListingRedisCache struct {
	cli    *redis.Client
	tracer trace.Tracer
	logger *logrus.Logger
}

func NewListingRedisCache(client *redis.Client, tracer trace.Tracer, logger *logrus.Logger) domain.ListingCache {
	return &ListingRedisCache{
		cli:    client,
		tracer: tracer,
		logger: logger,
	}
}

func constructListingKey(key string) string {
	return fmt.Sprintf("listing:%s", key)
}

func (c *ListingRedisCache) Post(ctx context.Context, key string, listing *domain.Listing) error {
	ctx, span := c.tracer.Start(ctx, "ListingCache.Post")
	defer span.End()

	value, err := json.Marshal(listing)
	if err != nil {
		return err
	}

	err = c.cli.Set(constructListingKey(key), value, listingTTL).Err()
	if err != nil {
		span.SetStatus(codes.Error, "Error caching listing")
		c.logger.Errorf("redis set listing: %s", err)
	}
	return err
}

func (c *ListingRedisCache) Get(ctx context.Context, key string) (*domain.Listing, error) {
	ctx, span := c.tracer.Start(ctx, "ListingCache.Get")
	defer span.End()

	value, err := c.cli.Get(constructListingKey(key)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, apperrors.ErrNotFound
		}
		span.SetStatus(codes.Error, "Error reading cached listing")
		return nil, err
	}

	var listing domain.Listing
	if err := json.Unmarshal(value, &listing); err != nil {
		return nil, err
	}
	return &listing, nil
}

func (c *ListingRedisCache) Del(ctx context.Context, key string) error {
	ctx, span := c.tracer.Start(ctx, "ListingCache.Del")
	defer span.End()

	err := c.cli.Del(constructListingKey(key)).Err()
	if err != nil {
		span.SetStatus(codes.Error, "Error dropping cached listing")
		c.logger.Errorf("redis del listing: %s", err)
	}
	return err
}
