package model

import "time"

// Temperature is the sales follow-up priority of a lead
type Temperature string

const (
	TemperatureHot  Temperature = "hot"
	TemperatureWarm Temperature = "warm"
	TemperatureCold Temperature = "cold"
)

// Valid reports whether t is a known temperature
func (t Temperature) Valid() bool {
	return t == TemperatureHot || t == TemperatureWarm || t == TemperatureCold
}

// LeadTracking is the sales record written for every completed diagnostic
type LeadTracking struct {
	ID                     string      `json:"id" bson:"_id,omitempty"`
	DiagnosticID           string      `json:"diagnosticId" bson:"diagnostic_id"`
	Contact                Contact     `json:"contact" bson:"contact"`
	Temperature            Temperature `json:"temperature" bson:"temperature"`
	CommitmentScore        float64     `json:"commitmentScore" bson:"commitment_score"`
	TopRecommendationTitle string      `json:"topRecommendationTitle,omitempty" bson:"top_recommendation_title,omitempty"`
	RetakeDue              bool        `json:"retakeDue" bson:"retake_due"`
	CreatedAt              time.Time   `json:"createdAt" bson:"created_at"`
}

// LeadQueueEntry is one row of the sales follow-up queue
type LeadQueueEntry struct {
	DiagnosticID    string  `json:"diagnosticId"`
	CommitmentScore float64 `json:"commitmentScore"`
	Rank            int     `json:"rank"`
}

// LeadEvent is pushed to the admin live feed
type LeadEvent struct {
	DiagnosticID   string      `json:"diagnosticId"`
	Name           string      `json:"name"`
	Email          string      `json:"email"`
	Temperature    Temperature `json:"temperature"`
	Level          Level       `json:"level"`
	CompositeIndex float64     `json:"compositeIndex"`
	TopTitle       string      `json:"topTitle,omitempty"`
}
