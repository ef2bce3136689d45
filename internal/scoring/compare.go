package scoring

import "academyhub/internal/model"

// Compare reports per-pillar movement between two runs of the same lead
func Compare(previous, latest *model.DiagnosticRecord) model.DiagnosticComparison {
	cmp := model.DiagnosticComparison{
		PreviousID:     previous.ID,
		LatestID:       latest.ID,
		Pillars:        make([]model.PillarDelta, 0, len(model.AllPillars)),
		CompositeDelta: latest.CompositeIndex - previous.CompositeIndex,
		PreviousLevel:  previous.Level,
		LatestLevel:    latest.Level,
		LevelChange:    latest.Level.Rank() - previous.Level.Rank(),
	}
	for _, p := range model.AllPillars {
		prev, last := pillarOrNeutral(previous.Scores, p), pillarOrNeutral(latest.Scores, p)
		cmp.Pillars = append(cmp.Pillars, model.PillarDelta{
			Pillar:   p,
			Previous: prev,
			Latest:   last,
			Delta:    last - prev,
		})
	}
	return cmp
}

func pillarOrNeutral(scores model.SectionScores, p model.Pillar) float64 {
	if v, ok := scores[p]; ok {
		return v
	}
	return NeutralScore
}
