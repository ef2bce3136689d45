package cache

import (
	"academyhub/internal/model"
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	questionsKey = "catalog:questions"
	rulesKey     = "catalog:rules"
)

// CatalogCache holds the question catalog and active rules between admin edits
type CatalogCache interface {
	GetQuestions(ctx context.Context) ([]model.Question, error)
	SetQuestions(ctx context.Context, questions []model.Question) error
	GetRules(ctx context.Context) ([]model.RecommendationRule, error)
	SetRules(ctx context.Context, rules []model.RecommendationRule) error
	InvalidateQuestions(ctx context.Context) error
	InvalidateRules(ctx context.Context) error
}

type catalogCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewCatalogCache(client *redis.Client, ttl time.Duration) CatalogCache {
	return &catalogCache{
		client: client,
		ttl:    ttl,
	}
}

func (c *catalogCache) GetQuestions(ctx context.Context) ([]model.Question, error) {
	var questions []model.Question
	ok, err := c.get(ctx, questionsKey, &questions)
	if !ok || err != nil {
		return nil, err
	}
	return questions, nil
}

func (c *catalogCache) SetQuestions(ctx context.Context, questions []model.Question) error {
	return c.set(ctx, questionsKey, questions)
}

func (c *catalogCache) GetRules(ctx context.Context) ([]model.RecommendationRule, error) {
	var rules []model.RecommendationRule
	ok, err := c.get(ctx, rulesKey, &rules)
	if !ok || err != nil {
		return nil, err
	}
	return rules, nil
}

func (c *catalogCache) SetRules(ctx context.Context, rules []model.RecommendationRule) error {
	return c.set(ctx, rulesKey, rules)
}

func (c *catalogCache) InvalidateQuestions(ctx context.Context) error {
	return c.client.Del(ctx, questionsKey).Err()
}

func (c *catalogCache) InvalidateRules(ctx context.Context) error {
	return c.client.Del(ctx, rulesKey).Err()
}

func (c *catalogCache) get(ctx context.Context, key string, dst interface{}) (bool, error) {
	data, err := c.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal([]byte(data), dst); err != nil {
		return false, err
	}
	return true, nil
}

func (c *catalogCache) set(ctx context.Context, key string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, data, c.ttl).Err()
}
