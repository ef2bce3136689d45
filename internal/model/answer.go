package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// AnswerValue is the raw value given to a question.
// Exactly one of Number, Text or Choices is meaningful, depending on the question type.
type AnswerValue struct {
	Number  *float64 `json:"-" bson:"number,omitempty"`
	Text    string   `json:"-" bson:"text,omitempty"`
	Choices []string `json:"-" bson:"choices,omitempty"`
}

// NumberValue builds a numeric answer (scale/likert)
func NumberValue(n float64) AnswerValue {
	return AnswerValue{Number: &n}
}

// TextValue builds a string answer (single_choice/text_open)
func TextValue(s string) AnswerValue {
	return AnswerValue{Text: s}
}

// ChoicesValue builds a multiple_choice answer
func ChoicesValue(values ...string) AnswerValue {
	return AnswerValue{Choices: values}
}

// IsEmpty reports whether no value was given
func (v AnswerValue) IsEmpty() bool {
	return v.Number == nil && v.Text == "" && len(v.Choices) == 0
}

// MarshalJSON writes the bare number, string or array
func (v AnswerValue) MarshalJSON() ([]byte, error) {
	switch {
	case v.Number != nil:
		return json.Marshal(*v.Number)
	case v.Choices != nil:
		return json.Marshal(v.Choices)
	case v.Text != "":
		return json.Marshal(v.Text)
	}
	return []byte("null"), nil
}

// UnmarshalJSON accepts a number, a string or an array of strings
func (v *AnswerValue) UnmarshalJSON(data []byte) error {
	*v = AnswerValue{}
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}
	switch data[0] {
	case '"':
		return json.Unmarshal(data, &v.Text)
	case '[':
		v.Choices = []string{}
		return json.Unmarshal(data, &v.Choices)
	default:
		var n float64
		if err := json.Unmarshal(data, &n); err != nil {
			return fmt.Errorf("answer value must be a number, string or array: %w", err)
		}
		v.Number = &n
	}
	return nil
}

// Answers maps question id to the collected value
type Answers map[string]AnswerValue

// AnswerRow is one persisted answer of a completed diagnostic
type AnswerRow struct {
	ID           string      `json:"id" bson:"_id,omitempty"`
	DiagnosticID string      `json:"diagnosticId" bson:"diagnostic_id"`
	QuestionID   string      `json:"questionId" bson:"question_id"`
	Value        AnswerValue `json:"value" bson:"value"`
	AnsweredAt   time.Time   `json:"answeredAt" bson:"answered_at"`
}
