package service

import (
	"academyhub/internal/model"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatsService_RebuildsAndSeedsWhenCacheIsEmpty(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	e.diagnostics.items["a"] = &model.DiagnosticRecord{ID: "a", Level: model.LevelReactive, CompositeIndex: 3, Scores: model.SectionScores{model.PillarTechnical: 2}}
	e.diagnostics.items["b"] = &model.DiagnosticRecord{ID: "b", Level: model.LevelStructured, CompositeIndex: 9, Scores: model.SectionScores{model.PillarTechnical: 8}}
	e.leads.items["a"] = &model.LeadTracking{DiagnosticID: "a", Temperature: model.TemperatureCold}
	e.leads.items["b"] = &model.LeadTracking{DiagnosticID: "b", Temperature: model.TemperatureHot}

	stats, err := e.stats.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.Total)
	assert.Equal(t, 6.0, stats.CompositeMean)
	assert.Equal(t, 5.0, stats.PillarMeans[model.PillarTechnical])
	assert.Equal(t, int64(1), stats.ByLevel[model.LevelStructured])
	assert.Equal(t, int64(1), stats.ByTemperature[model.TemperatureHot])
	require.NotNil(t, e.statsCache.seeded)

	// served from the cache from now on
	delete(e.diagnostics.items, "a")
	again, err := e.stats.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), again.Total)
}
