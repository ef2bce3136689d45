// Package wizard models the diagnostic collector as a finite-state machine:
// lead -> questions -> processing -> auth -> results.
package wizard

import (
	"errors"
	"fmt"
	"time"

	"academyhub/internal/model"
)

// State is a step of the diagnostic flow
type State string

const (
	StateLead       State = "lead"
	StateQuestions  State = "questions"
	StateProcessing State = "processing"
	StateAuth       State = "auth"
	StateResults    State = "results"
)

var (
	ErrInvalidTransition = errors.New("invalid wizard transition")
	ErrIncomplete        = errors.New("required questions are unanswered")
	ErrUnknownQuestion   = errors.New("question is not part of this diagnostic")
	ErrInvalidValue      = errors.New("answer value does not fit the question")
)

// transitions lists the legal next states of each state
var transitions = map[State][]State{
	StateLead:       {StateQuestions},
	StateQuestions:  {StateQuestions, StateProcessing},
	StateProcessing: {StateQuestions, StateAuth},
	StateAuth:       {StateResults},
	StateResults:    {},
}

// Session is the machine context carried between requests
type Session struct {
	ID           string         `json:"id"`
	State        State          `json:"state"`
	Contact      *model.Contact `json:"contact,omitempty"`
	QuestionIDs  []string       `json:"questionIds"`
	Answers      model.Answers  `json:"answers"`
	Cursor       int            `json:"cursor"`
	DiagnosticID string         `json:"diagnosticId,omitempty"`
	AccountID    string         `json:"accountId,omitempty"`
	LastError    string         `json:"lastError,omitempty"`
	CreatedAt    time.Time      `json:"createdAt"`
	UpdatedAt    time.Time      `json:"updatedAt"`

	// ProcessingSince is when the answers were locked for scoring
	ProcessingSince time.Time `json:"processingSince,omitempty"`
}

// New starts a session in the lead state over the given question order
func New(id string, questionIDs []string, now time.Time) *Session {
	ids := append([]string(nil), questionIDs...)
	return &Session{
		ID:          id,
		State:       StateLead,
		QuestionIDs: ids,
		Answers:     model.Answers{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// CanTransition reports whether from -> to is legal
func CanTransition(from, to State) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

func (s *Session) moveTo(to State) error {
	if !CanTransition(s.State, to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, s.State, to)
	}
	s.State = to
	s.UpdatedAt = time.Now()
	return nil
}

// SubmitLead stores the contact and opens the questions.
// The contact must already be validated.
func (s *Session) SubmitLead(contact model.Contact) error {
	if err := s.moveTo(StateQuestions); err != nil {
		return err
	}
	s.Contact = &contact
	s.Cursor = 0
	return nil
}

// Answer records a value and moves the cursor past the answered question
func (s *Session) Answer(q *model.Question, value model.AnswerValue) error {
	if s.State != StateQuestions {
		return fmt.Errorf("%w: cannot answer in %s", ErrInvalidTransition, s.State)
	}
	idx := s.indexOf(q.ID)
	if idx < 0 {
		return fmt.Errorf("%w: %s", ErrUnknownQuestion, q.ID)
	}
	if err := CheckValue(q, value); err != nil {
		return err
	}
	if s.Answers == nil {
		s.Answers = model.Answers{}
	}
	s.Answers[q.ID] = value
	if idx+1 > s.Cursor {
		s.Cursor = idx + 1
	}
	s.UpdatedAt = time.Now()
	return nil
}

// Back moves the cursor to the previous question
func (s *Session) Back() error {
	if s.State != StateQuestions {
		return fmt.Errorf("%w: cannot go back in %s", ErrInvalidTransition, s.State)
	}
	if s.Cursor > 0 {
		s.Cursor--
	}
	s.UpdatedAt = time.Now()
	return nil
}

// CurrentQuestionID returns the id under the cursor, or "" past the end
func (s *Session) CurrentQuestionID() string {
	if s.Cursor < 0 || s.Cursor >= len(s.QuestionIDs) {
		return ""
	}
	return s.QuestionIDs[s.Cursor]
}

// Missing lists required question ids without an answer
func (s *Session) Missing(required []string) []string {
	var missing []string
	for _, id := range required {
		if v, ok := s.Answers[id]; !ok || v.IsEmpty() {
			missing = append(missing, id)
		}
	}
	return missing
}

// BeginProcessing locks the answers for scoring
func (s *Session) BeginProcessing(required []string) error {
	if s.State != StateQuestions {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, s.State, StateProcessing)
	}
	if missing := s.Missing(required); len(missing) > 0 {
		return &IncompleteError{Missing: missing}
	}
	s.LastError = ""
	if err := s.moveTo(StateProcessing); err != nil {
		return err
	}
	s.ProcessingSince = s.UpdatedAt
	return nil
}

// ProcessingExpired reports whether a processing lease taken at ProcessingSince has run out
func (s *Session) ProcessingExpired(now time.Time, lease time.Duration) bool {
	if s.State != StateProcessing {
		return false
	}
	return !now.Before(s.ProcessingSince.Add(lease))
}

// ProcessingFailed returns to the questions keeping every answer
func (s *Session) ProcessingFailed(reason string) error {
	if s.State != StateProcessing {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, s.State, StateQuestions)
	}
	s.LastError = reason
	s.ProcessingSince = time.Time{}
	return s.moveTo(StateQuestions)
}

// ProcessingSucceeded records the stored diagnostic and gates the results
func (s *Session) ProcessingSucceeded(diagnosticID string) error {
	if s.State != StateProcessing {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, s.State, StateAuth)
	}
	if err := s.moveTo(StateAuth); err != nil {
		return err
	}
	s.ProcessingSince = time.Time{}
	s.DiagnosticID = diagnosticID
	return nil
}

// Authenticated unlocks the results for an account
func (s *Session) Authenticated(accountID string) error {
	if err := s.moveTo(StateResults); err != nil {
		return err
	}
	s.AccountID = accountID
	return nil
}

func (s *Session) indexOf(questionID string) int {
	for i, id := range s.QuestionIDs {
		if id == questionID {
			return i
		}
	}
	return -1
}

// IncompleteError lists what is still unanswered
type IncompleteError struct {
	Missing []string
}

func (e *IncompleteError) Error() string {
	return fmt.Sprintf("%d required questions are unanswered", len(e.Missing))
}

func (e *IncompleteError) Unwrap() error { return ErrIncomplete }
