package cache

import (
	"academyhub/internal/wizard"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// WizardCache keeps in-progress diagnostic sessions so a reload resumes them
type WizardCache interface {
	Save(ctx context.Context, session *wizard.Session) error
	Get(ctx context.Context, id string) (*wizard.Session, error)
	Delete(ctx context.Context, id string) error
}

type wizardCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewWizardCache(client *redis.Client, ttl time.Duration) WizardCache {
	return &wizardCache{
		client: client,
		ttl:    ttl,
	}
}

func (c *wizardCache) key(id string) string {
	return fmt.Sprintf("wizard:%s", id)
}

// Save refreshes the TTL on every write
func (c *wizardCache) Save(ctx context.Context, session *wizard.Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key(session.ID), data, c.ttl).Err()
}

func (c *wizardCache) Get(ctx context.Context, id string) (*wizard.Session, error) {
	data, err := c.client.Get(ctx, c.key(id)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var session wizard.Session
	if err := json.Unmarshal([]byte(data), &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (c *wizardCache) Delete(ctx context.Context, id string) error {
	return c.client.Del(ctx, c.key(id)).Err()
}
