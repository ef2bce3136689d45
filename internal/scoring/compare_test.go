package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"academyhub/internal/model"
)

func TestCompare_Deltas(t *testing.T) {
	prev := &model.DiagnosticRecord{
		ID:             "d1",
		Scores:         scores(4, 6),
		CompositeIndex: 5,
		Level:          model.LevelInstable,
	}
	latest := &model.DiagnosticRecord{
		ID:             "d2",
		Scores:         scores(8, 5),
		CompositeIndex: 7.25,
		Level:          model.LevelTransition,
	}

	cmp := Compare(prev, latest)

	assert.Equal(t, "d1", cmp.PreviousID)
	assert.Equal(t, "d2", cmp.LatestID)
	assert.InDelta(t, 2.25, cmp.CompositeDelta, 1e-12)
	assert.Equal(t, 1, cmp.LevelChange)
	require.Len(t, cmp.Pillars, len(model.AllPillars))
	assert.Equal(t, model.PillarTechnical, cmp.Pillars[0].Pillar)
	assert.Equal(t, 4.0, cmp.Pillars[0].Delta)
	assert.Equal(t, -1.0, cmp.Pillars[1].Delta)
}

func TestCompare_MissingPillarTreatedAsNeutral(t *testing.T) {
	prev := &model.DiagnosticRecord{ID: "a", Scores: model.SectionScores{}, Level: model.LevelStructured}
	latest := &model.DiagnosticRecord{ID: "b", Scores: scores(5, 5), Level: model.LevelReactive}

	cmp := Compare(prev, latest)
	for _, d := range cmp.Pillars {
		assert.Equal(t, 0.0, d.Delta, "pillar %s", d.Pillar)
	}
	assert.Equal(t, -3, cmp.LevelChange)
}
