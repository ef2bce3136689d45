package scoring

import "academyhub/internal/model"

// maxSecondary is how many matches after the primary are shown
const maxSecondary = 2

// Match returns the rules whose condition holds for the given scores.
// Input order is preserved; callers pass rules sorted by priority.
func Match(rules []model.RecommendationRule, scores model.SectionScores) []model.RecommendationRule {
	matched := make([]model.RecommendationRule, 0, len(rules))
	for _, rule := range rules {
		if Satisfies(rule, scores) {
			matched = append(matched, rule)
		}
	}
	return matched
}

// Satisfies evaluates a single rule. A pillar missing from scores reads as 0.
// Equality is exact float comparison.
func Satisfies(rule model.RecommendationRule, scores model.SectionScores) bool {
	got := scores[rule.ConditionField]
	want := rule.ConditionValue

	switch rule.ConditionOperator {
	case model.OpLess:
		return got < want
	case model.OpLessEqual:
		return got <= want
	case model.OpGreater:
		return got > want
	case model.OpGreaterEqual:
		return got >= want
	case model.OpEqual:
		return got == want
	}
	return false
}

// Split picks the primary recommendation and up to two secondary ones.
// An empty match list yields an empty Recommendations.
func Split(matched []model.RecommendationRule) model.Recommendations {
	var recs model.Recommendations
	if len(matched) == 0 {
		return recs
	}
	primary := matched[0]
	recs.Primary = &primary

	rest := matched[1:]
	if len(rest) > maxSecondary {
		rest = rest[:maxSecondary]
	}
	if len(rest) > 0 {
		recs.Secondary = append([]model.RecommendationRule(nil), rest...)
	}
	return recs
}
