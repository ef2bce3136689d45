package scoring

import "academyhub/internal/model"

// Level thresholds, inclusive on the lower bound
const (
	structuredThreshold = 9.0
	transitionThreshold = 7.0
	instableThreshold   = 5.0
)

// Classify maps a composite index to its maturity level
func Classify(index float64) model.Level {
	switch {
	case index >= structuredThreshold:
		return model.LevelStructured
	case index >= transitionThreshold:
		return model.LevelTransition
	case index >= instableThreshold:
		return model.LevelInstable
	default:
		return model.LevelReactive
	}
}

// Lead temperature thresholds on the commitment pillar
const (
	hotThreshold  = 8.0
	warmThreshold = 5.0
)

// Temperature classifies a lead from its commitment score
func Temperature(commitment float64) model.Temperature {
	switch {
	case commitment >= hotThreshold:
		return model.TemperatureHot
	case commitment >= warmThreshold:
		return model.TemperatureWarm
	default:
		return model.TemperatureCold
	}
}
