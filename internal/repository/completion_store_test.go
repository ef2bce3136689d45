package repository

import (
	"academyhub/internal/model"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memDiagnostics struct {
	DiagnosticRepo
	saved   map[string]*model.DiagnosticRecord
	saveErr error
}

func (m *memDiagnostics) SaveDiagnostic(_ context.Context, r *model.DiagnosticRecord) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saved[r.ID] = r
	return nil
}

func (m *memDiagnostics) Delete(_ context.Context, id string) error {
	delete(m.saved, id)
	return nil
}

type memAnswers struct {
	AnswerRepo
	rows    map[string]model.Answers
	saveErr error
}

func (m *memAnswers) SaveAnswers(_ context.Context, id string, a model.Answers, _ time.Time) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.rows[id] = a
	return nil
}

func (m *memAnswers) DeleteByDiagnosticID(_ context.Context, id string) error {
	delete(m.rows, id)
	return nil
}

type memLeads struct {
	LeadRepo
	leads   map[string]*model.LeadTracking
	saveErr error
}

func (m *memLeads) SaveLeadTracking(_ context.Context, l *model.LeadTracking) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.leads[l.DiagnosticID] = l
	return nil
}

func (m *memLeads) DeleteByDiagnosticID(_ context.Context, id string) error {
	delete(m.leads, id)
	return nil
}

func newMem() (*memDiagnostics, *memAnswers, *memLeads) {
	return &memDiagnostics{saved: map[string]*model.DiagnosticRecord{}},
		&memAnswers{rows: map[string]model.Answers{}},
		&memLeads{leads: map[string]*model.LeadTracking{}}
}

func completion() *Completion {
	return &Completion{
		Diagnostic: &model.DiagnosticRecord{
			ID:      "d1",
			Answers: model.Answers{"q1": model.NumberValue(7)},
		},
		Lead: &model.LeadTracking{DiagnosticID: "d1", Temperature: model.TemperatureWarm},
	}
}

func TestSaveWithCompensation_WritesAll(t *testing.T) {
	d, a, l := newMem()

	err := SaveWithCompensation(context.Background(), d, a, l, completion())
	require.NoError(t, err)

	assert.Contains(t, d.saved, "d1")
	assert.Contains(t, a.rows, "d1")
	assert.Contains(t, l.leads, "d1")
}

func TestSaveWithCompensation_LeadFailureRemovesEverything(t *testing.T) {
	d, a, l := newMem()
	l.saveErr = errors.New("write conflict")

	err := SaveWithCompensation(context.Background(), d, a, l, completion())
	require.Error(t, err)
	assert.ErrorIs(t, err, l.saveErr)

	assert.Empty(t, d.saved)
	assert.Empty(t, a.rows)
	assert.Empty(t, l.leads)
}

func TestSaveWithCompensation_AnswersFailureRemovesDiagnostic(t *testing.T) {
	d, a, l := newMem()
	a.saveErr = errors.New("disk full")

	err := SaveWithCompensation(context.Background(), d, a, l, completion())
	require.ErrorIs(t, err, a.saveErr)
	assert.Empty(t, d.saved)
}

func TestSaveWithCompensation_UndoSurvivesCancelledContext(t *testing.T) {
	d, a, l := newMem()
	l.saveErr = context.Canceled
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := SaveWithCompensation(ctx, d, a, l, completion())
	require.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, d.saved)
}

func TestCompletionStore_RejectsPartialInput(t *testing.T) {
	s := &completionStore{}
	assert.Error(t, s.SaveCompletion(context.Background(), &Completion{Diagnostic: &model.DiagnosticRecord{}}))
	assert.Error(t, s.SaveCompletion(context.Background(), nil))
}
