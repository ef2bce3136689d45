package wizard

import (
	"fmt"
	"strings"

	"academyhub/internal/model"
)

const (
	minNumeric = 0.0
	maxNumeric = 10.0
)

// CheckValue verifies the shape of a value against the question type.
// Informational numeric questions (such as a client count) may exceed the 0-10 range.
func CheckValue(q *model.Question, v model.AnswerValue) error {
	switch q.Type {
	case model.AnswerTypeScale, model.AnswerTypeLikert:
		if v.Number == nil {
			return fmt.Errorf("%w: %s expects a number", ErrInvalidValue, q.Type)
		}
		if q.IsInformational() {
			if *v.Number < 0 {
				return fmt.Errorf("%w: negative value", ErrInvalidValue)
			}
			return nil
		}
		if *v.Number < minNumeric || *v.Number > maxNumeric {
			return fmt.Errorf("%w: %v outside 0-10", ErrInvalidValue, *v.Number)
		}

	case model.AnswerTypeSingleChoice:
		if v.Text == "" {
			return fmt.Errorf("%w: single_choice expects an option value", ErrInvalidValue)
		}
		if q.FindOption(v.Text) == nil {
			return fmt.Errorf("%w: unknown option %q", ErrInvalidValue, v.Text)
		}

	case model.AnswerTypeMultipleChoice:
		if len(v.Choices) == 0 {
			return fmt.Errorf("%w: multiple_choice expects at least one option", ErrInvalidValue)
		}
		seen := make(map[string]bool, len(v.Choices))
		for _, c := range v.Choices {
			if q.FindOption(c) == nil {
				return fmt.Errorf("%w: unknown option %q", ErrInvalidValue, c)
			}
			if seen[c] {
				return fmt.Errorf("%w: duplicate option %q", ErrInvalidValue, c)
			}
			seen[c] = true
		}

	case model.AnswerTypeTextOpen:
		if strings.TrimSpace(v.Text) == "" {
			return fmt.Errorf("%w: text_open expects text", ErrInvalidValue)
		}

	default:
		return fmt.Errorf("%w: unknown question type %q", ErrInvalidValue, q.Type)
	}
	return nil
}
