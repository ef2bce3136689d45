package cache

import (
	"academyhub/internal/model"
	"context"

	"github.com/redis/go-redis/v9"
)

const leadQueueKey = "leads:queue"

// LeadQueueCache is the sales follow-up queue, a ZSET ordered by commitment score
type LeadQueueCache interface {
	Push(ctx context.Context, diagnosticID string, commitment float64) error
	Top(ctx context.Context, limit int) ([]model.LeadQueueEntry, error)
	Rank(ctx context.Context, diagnosticID string) (int64, error)
	Remove(ctx context.Context, diagnosticID string) error
}

type leadQueueCache struct {
	client *redis.Client
}

func NewLeadQueueCache(client *redis.Client) LeadQueueCache {
	return &leadQueueCache{
		client: client,
	}
}

func (c *leadQueueCache) Push(ctx context.Context, diagnosticID string, commitment float64) error {
	return c.client.ZAdd(ctx, leadQueueKey, redis.Z{
		Score:  commitment,
		Member: diagnosticID,
	}).Err()
}

func (c *leadQueueCache) Top(ctx context.Context, limit int) ([]model.LeadQueueEntry, error) {
	results, err := c.client.ZRevRangeWithScores(ctx, leadQueueKey, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, err
	}

	entries := make([]model.LeadQueueEntry, len(results))
	for i, z := range results {
		entries[i] = model.LeadQueueEntry{
			DiagnosticID:    z.Member.(string),
			CommitmentScore: z.Score,
			Rank:            i + 1,
		}
	}
	return entries, nil
}

func (c *leadQueueCache) Rank(ctx context.Context, diagnosticID string) (int64, error) {
	rank, err := c.client.ZRevRank(ctx, leadQueueKey, diagnosticID).Result()
	if err == redis.Nil {
		return -1, nil
	}
	return rank + 1, err // 1-indexed
}

func (c *leadQueueCache) Remove(ctx context.Context, diagnosticID string) error {
	return c.client.ZRem(ctx, leadQueueKey, diagnosticID).Err()
}
