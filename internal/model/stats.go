package model

// DiagnosticStats aggregates every completed diagnostic
type DiagnosticStats struct {
	Total         int64                 `json:"total"`
	ByLevel       map[Level]int64       `json:"byLevel"`
	ByTemperature map[Temperature]int64 `json:"byTemperature"`
	PillarMeans   SectionScores         `json:"pillarMeans"`
	CompositeMean float64               `json:"compositeMean"`
}
