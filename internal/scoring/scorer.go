// Package scoring turns collected diagnostic answers into section scores,
// a composite index, a maturity level and matched recommendations.
// Everything here is pure: no I/O, no clock, no randomness.
package scoring

import (
	"math"

	"academyhub/internal/model"
)

const (
	// NeutralScore is used for a pillar with no scored answers and for
	// degenerate multiple-choice option sets.
	NeutralScore = 5.0

	minScore = 0.0
	maxScore = 10.0

	// compositePrecision drops float noise from the weighted sum so that
	// uniform answers land exactly on level thresholds.
	compositePrecision = 1e9
)

// PillarWeights are the fixed composite weights. They sum to 1.
var PillarWeights = map[model.Pillar]float64{
	model.PillarTechnical:  0.25,
	model.PillarFinancial:  0.20,
	model.PillarScale:      0.25,
	model.PillarExpansion:  0.15,
	model.PillarCommitment: 0.15,
}

// Result is the output of Score
type Result struct {
	SectionScores  model.SectionScores
	CompositeIndex float64
	AuxFacts       model.AuxFacts
}

// Score reduces answers to one score per pillar and the composite index.
// Missing answers are skipped; they never cause an error.
func Score(questions []model.Question, answers model.Answers) Result {
	buckets := make(map[model.Pillar][]float64, len(model.AllPillars))
	var facts model.AuxFacts

	for i := range questions {
		q := &questions[i]
		value, ok := answers[q.ID]
		if !ok || value.IsEmpty() {
			continue
		}

		if q.IsInformational() {
			collectFact(q, value, &facts)
			continue
		}

		s, scored := QuestionScore(q, value)
		if !scored {
			continue
		}
		buckets[q.Section] = append(buckets[q.Section], clamp(s))
	}

	sections := make(model.SectionScores, len(model.AllPillars))
	for _, p := range model.AllPillars {
		sections[p] = mean(buckets[p])
	}

	return Result{
		SectionScores:  sections,
		CompositeIndex: Composite(sections),
		AuxFacts:       facts,
	}
}

// QuestionScore computes the raw score of one answered question.
// The second return is false when the question type is never scored.
func QuestionScore(q *model.Question, value model.AnswerValue) (float64, bool) {
	switch q.Type {
	case model.AnswerTypeScale, model.AnswerTypeLikert:
		if value.Number == nil {
			return 0, false
		}
		return *value.Number, true

	case model.AnswerTypeSingleChoice:
		if opt := q.FindOption(value.Text); opt != nil {
			return opt.Score, true
		}
		return 0, true

	case model.AnswerTypeMultipleChoice:
		return NormalizeMultipleChoice(q.Options, value.Choices), true
	}
	// text_open and unknown types
	return 0, false
}

// NormalizeMultipleChoice sums the scores of the selected options and rescales
// the sum against the lowest and highest option score to a 0-10 range.
// A degenerate option set (all scores equal) yields NeutralScore.
// The result is not clamped; Score clamps before averaging.
func NormalizeMultipleChoice(options []model.Option, selected []string) float64 {
	if len(options) == 0 {
		return NeutralScore
	}

	lo, hi := options[0].Score, options[0].Score
	byValue := make(map[string]float64, len(options))
	for _, o := range options {
		if o.Score < lo {
			lo = o.Score
		}
		if o.Score > hi {
			hi = o.Score
		}
		byValue[o.Value] = o.Score
	}
	if hi == lo {
		return NeutralScore
	}

	var sum float64
	for _, v := range selected {
		sum += byValue[v]
	}
	return (sum - lo) / (hi - lo) * maxScore
}

// Composite is the fixed-weight combination of the section scores
func Composite(sections model.SectionScores) float64 {
	var total float64
	for _, p := range model.AllPillars {
		total += PillarWeights[p] * sections[p]
	}
	return math.Round(total*compositePrecision) / compositePrecision
}

func collectFact(q *model.Question, value model.AnswerValue, facts *model.AuxFacts) {
	if q.EffectiveRole() != model.RoleFactClientCount || value.Number == nil {
		return
	}
	n := *value.Number
	facts.ClientCount = &n
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return NeutralScore
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func clamp(v float64) float64 {
	if v < minScore {
		return minScore
	}
	if v > maxScore {
		return maxScore
	}
	return v
}
