package model

import "time"

// Level is the maturity label derived from the composite index
type Level string

const (
	LevelReactive   Level = "reactive"
	LevelInstable   Level = "instable"
	LevelTransition Level = "transition"
	LevelStructured Level = "structured"
)

// Rank orders levels from least to most mature
func (l Level) Rank() int {
	switch l {
	case LevelReactive:
		return 0
	case LevelInstable:
		return 1
	case LevelTransition:
		return 2
	case LevelStructured:
		return 3
	}
	return -1
}

// SectionScores holds one 0-10 score per pillar
type SectionScores map[Pillar]float64

// AuxFacts are raw values taken from informational questions
type AuxFacts struct {
	ClientCount *float64 `json:"clientCount,omitempty" bson:"client_count,omitempty"`
}

// Contact is the lead info collected before the questions
type Contact struct {
	Name    string `json:"name" bson:"name" validate:"required,min=2,max=120"`
	Email   string `json:"email" bson:"email" validate:"required,email"`
	Phone   string `json:"phone" bson:"phone" validate:"required,phone"`
	Company string `json:"company,omitempty" bson:"company,omitempty" validate:"max=160"`
}

// DiagnosticStatus tracks a stored diagnostic
type DiagnosticStatus string

const (
	DiagnosticCompleted DiagnosticStatus = "completed"
	DiagnosticClaimed   DiagnosticStatus = "claimed" // linked to an account at the auth gate
)

// DiagnosticRecord is the persisted aggregate of one completed run
type DiagnosticRecord struct {
	ID             string           `json:"id" bson:"_id,omitempty"`
	SessionID      string           `json:"sessionId" bson:"session_id"`
	AccountID      string           `json:"accountId,omitempty" bson:"account_id,omitempty"`
	Contact        Contact          `json:"contact" bson:"contact"`
	Answers        Answers          `json:"answers" bson:"answers"`
	Scores         SectionScores    `json:"scores" bson:"scores"`
	CompositeIndex float64          `json:"compositeIndex" bson:"composite_index"`
	Level          Level            `json:"level" bson:"level"`
	AuxFacts       AuxFacts         `json:"auxFacts" bson:"aux_facts"`
	Status         DiagnosticStatus `json:"status" bson:"status"`
	CreatedAt      time.Time        `json:"createdAt" bson:"created_at"`

	// Recommendations are matched once at completion and never re-evaluated
	Recommendations Recommendations `json:"recommendations" bson:"recommendations"`
}

// DiagnosticResults is what the results view renders
type DiagnosticResults struct {
	DiagnosticID    string          `json:"diagnosticId"`
	Scores          SectionScores   `json:"scores"`
	CompositeIndex  float64         `json:"compositeIndex"`
	Level           Level           `json:"level"`
	AuxFacts        AuxFacts        `json:"auxFacts"`
	Recommendations Recommendations `json:"recommendations"`
}

// PillarDelta is the change of one pillar between two runs
type PillarDelta struct {
	Pillar   Pillar  `json:"pillar"`
	Previous float64 `json:"previous"`
	Latest   float64 `json:"latest"`
	Delta    float64 `json:"delta"`
}

// DiagnosticComparison compares a retake with the run before it
type DiagnosticComparison struct {
	PreviousID     string        `json:"previousId"`
	LatestID       string        `json:"latestId"`
	Pillars        []PillarDelta `json:"pillars"`
	CompositeDelta float64       `json:"compositeDelta"`
	PreviousLevel  Level         `json:"previousLevel"`
	LatestLevel    Level         `json:"latestLevel"`
	LevelChange    int           `json:"levelChange"` // positive when maturity went up
}
