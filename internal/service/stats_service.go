package service

import (
	"academyhub/internal/cache"
	"academyhub/internal/logger"
	"academyhub/internal/model"
	"academyhub/internal/repository"
	"context"
	"fmt"
)

// StatsService serves diagnostic statistics from running totals in Redis.
// When Redis has nothing it rebuilds them from MongoDB.
type StatsService struct {
	cache       cache.StatsCache
	diagnostics repository.DiagnosticRepo
	leads       repository.LeadRepo
	log         *logger.Logger
}

func NewStatsService(statsCache cache.StatsCache, diagnostics repository.DiagnosticRepo, leads repository.LeadRepo, log *logger.Logger) *StatsService {
	return &StatsService{
		cache:       statsCache,
		diagnostics: diagnostics,
		leads:       leads,
		log:         log.With("component", "stats"),
	}
}

// Record adds one completed diagnostic to the running totals
func (s *StatsService) Record(ctx context.Context, record *model.DiagnosticRecord, temperature model.Temperature) {
	if err := s.cache.Record(ctx, record, temperature); err != nil {
		s.log.Warn("stats record failed", "diagnostic_id", record.ID, "error", err)
	}
}

func (s *StatsService) Stats(ctx context.Context) (*model.DiagnosticStats, error) {
	stats, err := s.cache.Snapshot(ctx)
	if err != nil {
		s.log.Warn("stats cache read failed", "error", err)
	}
	if stats != nil {
		return stats, nil
	}
	return s.Rebuild(ctx)
}

// Rebuild aggregates from MongoDB and reseeds the cache
func (s *StatsService) Rebuild(ctx context.Context) (*model.DiagnosticStats, error) {
	stats, err := s.diagnostics.Aggregate(ctx)
	if err != nil {
		return nil, fmt.Errorf("aggregate diagnostics: %w", err)
	}
	byTemp, err := s.leads.CountByTemperature(ctx)
	if err != nil {
		return nil, fmt.Errorf("count leads: %w", err)
	}
	stats.ByTemperature = byTemp

	if err := s.cache.Seed(ctx, stats); err != nil {
		s.log.Warn("stats cache seed failed", "error", err)
	}
	return stats, nil
}
