package question

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	cacheKey        = "trivia:questionbank"
	defaultCacheTTL = 10 * time.Minute
)

// CachedBank fronts a slower Bank (typically Postgres) with a Redis cache so
// restarts do not hammer the database.
type CachedBank struct {
	next   Bank
	client *redis.Client
	ttl    time.Duration
}

var _ Bank = (*CachedBank)(nil)

func NewCachedBank(next Bank, client *redis.Client, ttl time.Duration) *CachedBank {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	return &CachedBank{next: next, client: client, ttl: ttl}
}

func (c *CachedBank) AllQuestions(ctx context.Context) ([]Question, error) {
	data, err := c.client.Get(ctx, cacheKey).Bytes()
	if err == nil {
		var questions []Question
		if err := json.Unmarshal(data, &questions); err == nil {
			return questions, nil
		}
		// Corrupted entry: fall through to the source and overwrite.
	} else if err != redis.Nil {
		// Cache unavailability is not fatal; serve from the source.
	}

	questions, err := c.next.AllQuestions(ctx)
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(questions)
	if err != nil {
		return nil, fmt.Errorf("marshal question bank: %w", err)
	}
	if err := c.client.Set(ctx, cacheKey, payload, c.ttl).Err(); err != nil {
		// Best effort; the bank itself loaded fine.
		return questions, nil
	}
	return questions, nil
}
