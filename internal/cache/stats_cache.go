package cache

import (
	"academyhub/internal/model"
	"context"
	"strconv"
	"strings"

	"github.com/redis/go-redis/v9"
)

const statsKey = "stats:diagnostics"

// StatsCache keeps running totals of completed diagnostics in one hash
type StatsCache interface {
	Record(ctx context.Context, record *model.DiagnosticRecord, temperature model.Temperature) error
	Snapshot(ctx context.Context) (*model.DiagnosticStats, error)
	Seed(ctx context.Context, stats *model.DiagnosticStats) error
}

type statsCache struct {
	client *redis.Client
}

func NewStatsCache(client *redis.Client) StatsCache {
	return &statsCache{
		client: client,
	}
}

// Hash fields
const (
	fieldTotal     = "total"
	fieldComposite = "sum:composite"
	prefixLevel    = "level:"
	prefixTemp     = "temp:"
	prefixSum      = "sum:"
)

func (c *statsCache) Record(ctx context.Context, record *model.DiagnosticRecord, temperature model.Temperature) error {
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HIncrBy(ctx, statsKey, fieldTotal, 1)
		pipe.HIncrBy(ctx, statsKey, prefixLevel+string(record.Level), 1)
		pipe.HIncrBy(ctx, statsKey, prefixTemp+string(temperature), 1)
		pipe.HIncrByFloat(ctx, statsKey, fieldComposite, record.CompositeIndex)
		for _, p := range model.AllPillars {
			pipe.HIncrByFloat(ctx, statsKey, prefixSum+string(p), record.Scores[p])
		}
		return nil
	})
	return err
}

// Snapshot returns nil when nothing has been recorded yet
func (c *statsCache) Snapshot(ctx context.Context) (*model.DiagnosticStats, error) {
	fields, err := c.client.HGetAll(ctx, statsKey).Result()
	if err != nil {
		return nil, err
	}
	return statsFromHash(fields), nil
}

// Seed replaces the running totals with stats computed elsewhere
func (c *statsCache) Seed(ctx context.Context, stats *model.DiagnosticStats) error {
	fields := statsToHash(stats)
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, statsKey)
		if len(fields) > 0 {
			pipe.HSet(ctx, statsKey, fields)
		}
		return nil
	})
	return err
}

func statsFromHash(fields map[string]string) *model.DiagnosticStats {
	total, _ := strconv.ParseInt(fields[fieldTotal], 10, 64)
	if total <= 0 {
		return nil
	}

	stats := &model.DiagnosticStats{
		Total:         total,
		ByLevel:       map[model.Level]int64{},
		ByTemperature: map[model.Temperature]int64{},
		PillarMeans:   model.SectionScores{},
	}
	for k, v := range fields {
		switch {
		case strings.HasPrefix(k, prefixLevel):
			n, _ := strconv.ParseInt(v, 10, 64)
			stats.ByLevel[model.Level(strings.TrimPrefix(k, prefixLevel))] = n
		case strings.HasPrefix(k, prefixTemp):
			n, _ := strconv.ParseInt(v, 10, 64)
			stats.ByTemperature[model.Temperature(strings.TrimPrefix(k, prefixTemp))] = n
		}
	}
	sum := func(field string) float64 {
		f, _ := strconv.ParseFloat(fields[field], 64)
		return f
	}
	stats.CompositeMean = sum(fieldComposite) / float64(total)
	for _, p := range model.AllPillars {
		stats.PillarMeans[p] = sum(prefixSum+string(p)) / float64(total)
	}
	return stats
}

func statsToHash(stats *model.DiagnosticStats) map[string]interface{} {
	if stats == nil || stats.Total <= 0 {
		return nil
	}
	total := float64(stats.Total)
	fields := map[string]interface{}{
		fieldTotal:     stats.Total,
		fieldComposite: stats.CompositeMean * total,
	}
	for l, n := range stats.ByLevel {
		fields[prefixLevel+string(l)] = n
	}
	for t, n := range stats.ByTemperature {
		fields[prefixTemp+string(t)] = n
	}
	for _, p := range model.AllPillars {
		fields[prefixSum+string(p)] = stats.PillarMeans[p] * total
	}
	return fields
}
