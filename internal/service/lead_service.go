package service

import (
	"academyhub/internal/apierr"
	"academyhub/internal/cache"
	"academyhub/internal/logger"
	"academyhub/internal/model"
	"academyhub/internal/repository"
	"context"
	"errors"
	"fmt"
	"time"
)

const (
	defaultQueueSize = 20
	maxQueueSize     = 200
)

// QueuedLead is a queue position with its tracking record
type QueuedLead struct {
	model.LeadQueueEntry
	Lead *model.LeadTracking `json:"lead,omitempty"`
}

// LeadService manages the sales follow-up queue and lead listings
type LeadService struct {
	leads repository.LeadRepo
	queue cache.LeadQueueCache
	log   *logger.Logger

	broadcaster Broadcaster
}

func NewLeadService(leads repository.LeadRepo, queue cache.LeadQueueCache, log *logger.Logger) *LeadService {
	return &LeadService{
		leads: leads,
		queue: queue,
		log:   log.With("component", "leads"),
	}
}

// SetBroadcaster sets the admin feed broadcaster
func (s *LeadService) SetBroadcaster(b Broadcaster) {
	s.broadcaster = b
}

// Announce queues a freshly stored lead and pushes it to the admin feed.
// The lead is already persisted, so failures here are only logged.
func (s *LeadService) Announce(ctx context.Context, record *model.DiagnosticRecord, lead *model.LeadTracking) {
	if err := s.queue.Push(ctx, lead.DiagnosticID, lead.CommitmentScore); err != nil {
		s.log.Warn("lead queue push failed", "diagnostic_id", lead.DiagnosticID, "error", err)
	}
	if s.broadcaster != nil {
		s.broadcaster.BroadcastToAdmins(MsgLeadCreated, model.LeadEvent{
			DiagnosticID:   record.ID,
			Name:           record.Contact.Name,
			Email:          record.Contact.Email,
			Temperature:    lead.Temperature,
			Level:          record.Level,
			CompositeIndex: record.CompositeIndex,
			TopTitle:       lead.TopRecommendationTitle,
		})
	}
	s.log.Info("lead tracked", "diagnostic_id", lead.DiagnosticID, "temperature", lead.Temperature)
}

// Queue returns the highest-commitment leads first
func (s *LeadService) Queue(ctx context.Context, limit int) ([]QueuedLead, error) {
	if limit <= 0 {
		limit = defaultQueueSize
	}
	if limit > maxQueueSize {
		limit = maxQueueSize
	}
	entries, err := s.queue.Top(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("read lead queue: %w", err)
	}

	out := make([]QueuedLead, 0, len(entries))
	for _, e := range entries {
		lead, err := s.leads.GetByDiagnosticID(ctx, e.DiagnosticID)
		if err != nil {
			return nil, fmt.Errorf("load lead %s: %w", e.DiagnosticID, err)
		}
		out = append(out, QueuedLead{LeadQueueEntry: e, Lead: lead})
	}
	return out, nil
}

// Get returns the lead of a diagnostic, or nil
func (s *LeadService) Get(ctx context.Context, diagnosticID string) (*model.LeadTracking, error) {
	return s.leads.GetByDiagnosticID(ctx, diagnosticID)
}

// List returns tracked leads, newest first.
// RetakeDue narrows to leads the reminder job has (or has not) flagged.
func (s *LeadService) List(ctx context.Context, filter repository.LeadFilter) ([]model.LeadTracking, error) {
	if filter.Temperature != "" && !filter.Temperature.Valid() {
		return nil, apierr.Validation(errors.New("invalid temperature"), map[string]string{
			"temperature": "must be one of hot, warm, cold",
		})
	}
	return s.leads.List(ctx, filter)
}

// QueueRank is the 1-based position of a lead in the follow-up queue, 0 when not queued
func (s *LeadService) QueueRank(ctx context.Context, diagnosticID string) (int64, error) {
	rank, err := s.queue.Rank(ctx, diagnosticID)
	if err != nil {
		return 0, fmt.Errorf("read queue rank: %w", err)
	}
	if rank < 0 {
		return 0, nil
	}
	return rank, nil
}

// Dismiss takes a lead off the follow-up queue once sales has handled it.
// The tracking record stays.
func (s *LeadService) Dismiss(ctx context.Context, diagnosticID, adminID string) error {
	lead, err := s.leads.GetByDiagnosticID(ctx, diagnosticID)
	if err != nil {
		return fmt.Errorf("load lead: %w", err)
	}
	if lead == nil {
		return apierr.NotFound("lead")
	}
	if err := s.queue.Remove(ctx, diagnosticID); err != nil {
		return fmt.Errorf("remove from queue: %w", err)
	}
	s.log.Info("lead dismissed from queue", "diagnostic_id", diagnosticID, "admin_id", adminID)
	return nil
}

// MarkRetakesDue flags every lead older than the given age
func (s *LeadService) MarkRetakesDue(ctx context.Context, age time.Duration) (int64, error) {
	return s.leads.MarkRetakeDue(ctx, time.Now().Add(-age))
}
