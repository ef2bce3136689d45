package service

import (
	"academyhub/internal/model"
	"academyhub/internal/repository"
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLeadService_QueueOrdersByCommitment(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()

	for id, commitment := range map[string]float64{"d-cold": 2, "d-hot": 9.5, "d-warm": 6} {
		record := &model.DiagnosticRecord{ID: id, Contact: model.Contact{Name: id}}
		lead := &model.LeadTracking{DiagnosticID: id, CommitmentScore: commitment}
		require.NoError(t, e.leads.SaveLeadTracking(ctx, lead))
		e.leadSvc.Announce(ctx, record, lead)
	}
	assert.Len(t, e.broadcaster.sent, 3)

	queue, err := e.leadSvc.Queue(ctx, 2)
	require.NoError(t, err)
	require.Len(t, queue, 2)
	assert.Equal(t, "d-hot", queue[0].DiagnosticID)
	assert.Equal(t, 1, queue[0].Rank)
	require.NotNil(t, queue[0].Lead)
	assert.Equal(t, "d-warm", queue[1].DiagnosticID)

	all, err := e.leadSvc.Queue(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestLeadService_ListRejectsUnknownTemperature(t *testing.T) {
	e := newTestEnv(t)
	_, err := e.leadSvc.List(context.Background(), repository.LeadFilter{Temperature: "lukewarm", Limit: 10})
	assert.Equal(t, http.StatusBadRequest, statusOf(err))

	_, err = e.leadSvc.List(context.Background(), repository.LeadFilter{Temperature: model.TemperatureWarm, Limit: 10})
	assert.NoError(t, err)
}

func TestLeadService_MarkRetakesDue(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	old := &model.LeadTracking{DiagnosticID: "old", CreatedAt: time.Now().Add(-100 * 24 * time.Hour)}
	fresh := &model.LeadTracking{DiagnosticID: "fresh", CreatedAt: time.Now()}
	require.NoError(t, e.leads.SaveLeadTracking(ctx, old))
	require.NoError(t, e.leads.SaveLeadTracking(ctx, fresh))

	n, err := e.leadSvc.MarkRetakesDue(ctx, 90*24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	assert.True(t, old.RetakeDue)
	assert.False(t, fresh.RetakeDue)

	n, err = e.leadSvc.MarkRetakesDue(ctx, 90*24*time.Hour)
	require.NoError(t, err)
	assert.Zero(t, n)

	due := true
	leads, err := e.leadSvc.List(ctx, repository.LeadFilter{RetakeDue: &due})
	require.NoError(t, err)
	require.Len(t, leads, 1)
	assert.Equal(t, "old", leads[0].DiagnosticID)
}

func TestLeadService_DismissLeavesQueueKeepsLead(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	for id, commitment := range map[string]float64{"d-a": 9, "d-b": 4} {
		lead := &model.LeadTracking{DiagnosticID: id, CommitmentScore: commitment}
		require.NoError(t, e.leads.SaveLeadTracking(ctx, lead))
		e.leadSvc.Announce(ctx, &model.DiagnosticRecord{ID: id}, lead)
	}

	rank, err := e.leadSvc.QueueRank(ctx, "d-b")
	require.NoError(t, err)
	assert.Equal(t, int64(2), rank)

	require.NoError(t, e.leadSvc.Dismiss(ctx, "d-a", "admin"))
	rank, err = e.leadSvc.QueueRank(ctx, "d-b")
	require.NoError(t, err)
	assert.Equal(t, int64(1), rank)
	rank, err = e.leadSvc.QueueRank(ctx, "d-a")
	require.NoError(t, err)
	assert.Zero(t, rank)

	lead, err := e.leadSvc.Get(ctx, "d-a")
	require.NoError(t, err)
	assert.NotNil(t, lead)

	err = e.leadSvc.Dismiss(ctx, "missing", "admin")
	assert.Equal(t, http.StatusNotFound, statusOf(err))
}
