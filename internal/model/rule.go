package model

import "time"

// Operator is a comparison applied to a section score
type Operator string

const (
	OpLess         Operator = "<"
	OpLessEqual    Operator = "<="
	OpGreater      Operator = ">"
	OpGreaterEqual Operator = ">="
	OpEqual        Operator = "="
)

// Valid reports whether op is a supported comparison
func (op Operator) Valid() bool {
	switch op {
	case OpLess, OpLessEqual, OpGreater, OpGreaterEqual, OpEqual:
		return true
	}
	return false
}

// RecommendationRule maps a section-score condition to a suggested offer
type RecommendationRule struct {
	ID                   string    `json:"id" bson:"_id,omitempty"`
	Priority             int       `json:"priority" bson:"priority"`
	ConditionField       Pillar    `json:"conditionField" bson:"condition_field" validate:"required"`
	ConditionOperator    Operator  `json:"conditionOperator" bson:"condition_operator" validate:"required"`
	ConditionValue       float64   `json:"conditionValue" bson:"condition_value" validate:"gte=0,lte=10"`
	Title                string    `json:"title" bson:"title" validate:"required"`
	Description          string    `json:"description" bson:"description"`
	CTAText              string    `json:"ctaText" bson:"cta_text"`
	RecommendedProductID string    `json:"recommendedProductId,omitempty" bson:"recommended_product_id,omitempty"`
	Active               bool      `json:"active" bson:"active"`
	CreatedAt            time.Time `json:"createdAt" bson:"created_at"`
	UpdatedAt            time.Time `json:"updatedAt" bson:"updated_at"`
}

// Recommendations is the primary/secondary split shown with results
type Recommendations struct {
	Primary   *RecommendationRule  `json:"primary,omitempty" bson:"primary,omitempty"`
	Secondary []RecommendationRule `json:"secondary,omitempty" bson:"secondary,omitempty"`
}
