package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"schooldirectory/pkg/domain"
)

const listingKey = "schooldirectory:listing:all"

// ListingCache keeps the full school listing in Redis as one JSON blob.
// Every successful ingest invalidates it; reads fall back to the database
// on any miss or error, so the cache is never load-bearing.
type ListingCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewListingCache connects to Redis and verifies the connection.
func NewListingCache(addr, password string, ttl time.Duration) (*ListingCache, error) {
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return nil, errors.New("redis addr required")
	}
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	client := redis.NewClient(&redis.Options{Addr: addr, Password: password})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return &ListingCache{client: client, ttl: ttl}, nil
}

// Get returns the cached listing, reporting a miss on absent or
// undecodable payloads.
func (c *ListingCache) Get(ctx context.Context) ([]domain.School, bool, error) {
	payload, err := c.client.Get(ctx, listingKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get listing: %w", err)
	}
	var schools []domain.School
	if err := json.Unmarshal(payload, &schools); err != nil {
		// Stale or corrupt payload; treat as a miss and let the next Set
		// overwrite it.
		return nil, false, nil
	}
	return schools, true, nil
}

// Set stores the listing with the configured TTL.
func (c *ListingCache) Set(ctx context.Context, schools []domain.School) error {
	payload, err := json.Marshal(schools)
	if err != nil {
		return fmt.Errorf("encode listing: %w", err)
	}
	if err := c.client.Set(ctx, listingKey, payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("set listing: %w", err)
	}
	return nil
}

// Invalidate drops the cached listing.
func (c *ListingCache) Invalidate(ctx context.Context) error {
	if err := c.client.Del(ctx, listingKey).Err(); err != nil {
		return fmt.Errorf("invalidate listing: %w", err)
	}
	return nil
}

// Close releases the underlying Redis connection.
func (c *ListingCache) Close() error {
	return c.client.Close()
}
