package model

import "time"

// Pillar is one of the five fixed evaluation dimensions
type Pillar string

const (
	PillarTechnical  Pillar = "technical"
	PillarFinancial  Pillar = "financial"
	PillarScale      Pillar = "scale"
	PillarExpansion  Pillar = "expansion"
	PillarCommitment Pillar = "commitment"
)

// AllPillars lists the pillars in presentation order
var AllPillars = []Pillar{
	PillarTechnical,
	PillarFinancial,
	PillarScale,
	PillarExpansion,
	PillarCommitment,
}

// Valid reports whether p is one of the five pillars
func (p Pillar) Valid() bool {
	for _, known := range AllPillars {
		if p == known {
			return true
		}
	}
	return false
}

// AnswerType defines how a question is answered and scored
type AnswerType string

const (
	AnswerTypeScale          AnswerType = "scale"           // 0-10 slider
	AnswerTypeLikert         AnswerType = "likert"          // agreement scale, already 0-10
	AnswerTypeSingleChoice   AnswerType = "single_choice"   // one option, scored by option
	AnswerTypeMultipleChoice AnswerType = "multiple_choice" // many options, normalized sum
	AnswerTypeTextOpen       AnswerType = "text_open"       // free text, never scored
)

// Valid reports whether t is a known answer type
func (t AnswerType) Valid() bool {
	switch t {
	case AnswerTypeScale, AnswerTypeLikert, AnswerTypeSingleChoice, AnswerTypeMultipleChoice, AnswerTypeTextOpen:
		return true
	}
	return false
}

// QuestionRole marks what a question's answer is used for.
// Informational questions carry a fact role instead of being matched by text.
type QuestionRole string

const (
	RoleScore           QuestionRole = "score"
	RoleFactClientCount QuestionRole = "fact:client_count"
)

// Option is a selectable answer with its score
type Option struct {
	Label string  `json:"label" bson:"label" validate:"required"`
	Value string  `json:"value" bson:"value" validate:"required"`
	Score float64 `json:"score" bson:"score"`
}

// Question is an admin-curated diagnostic question
type Question struct {
	ID          string       `json:"id" bson:"_id,omitempty"`
	Section     Pillar       `json:"section" bson:"section" validate:"required"`
	Type        AnswerType   `json:"type" bson:"type" validate:"required"`
	Text        string       `json:"text" bson:"text" validate:"required"`
	Description string       `json:"description,omitempty" bson:"description,omitempty"`
	Options     []Option     `json:"options,omitempty" bson:"options,omitempty" validate:"dive"`
	Weight      float64      `json:"weight" bson:"weight" validate:"gte=0"`
	SortOrder   int          `json:"sortOrder" bson:"sort_order"`
	Role        QuestionRole `json:"role,omitempty" bson:"role,omitempty"`
	CreatedAt   time.Time    `json:"createdAt" bson:"created_at"`
	UpdatedAt   time.Time    `json:"updatedAt" bson:"updated_at"`
}

// IsInformational reports whether the question is excluded from scoring
func (q *Question) IsInformational() bool {
	return q.Weight == 0
}

// EffectiveRole returns the role, defaulting to RoleScore
func (q *Question) EffectiveRole() QuestionRole {
	if q.Role == "" {
		return RoleScore
	}
	return q.Role
}

// IsRequired reports whether the collector must have an answer before scoring
func (q *Question) IsRequired() bool {
	return !q.IsInformational() && q.Type != AnswerTypeTextOpen
}

// FindOption returns the option whose value matches, or nil
func (q *Question) FindOption(value string) *Option {
	for i := range q.Options {
		if q.Options[i].Value == value {
			return &q.Options[i]
		}
	}
	return nil
}
