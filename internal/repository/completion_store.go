package repository

import (
	"academyhub/internal/model"
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
)

// Completion is everything written when a diagnostic is completed
type Completion struct {
	Diagnostic *model.DiagnosticRecord
	Lead       *model.LeadTracking
}

// CompletionStore writes the diagnostic, its answers and the lead as one unit.
// Either all three are stored or none is.
type CompletionStore interface {
	SaveCompletion(ctx context.Context, c *Completion) error
}

type completionStore struct {
	client        *mongo.Client
	diagnostics   DiagnosticRepo
	answers       AnswerRepo
	leads         LeadRepo
	transactional bool
}

// NewCompletionStore uses a multi-document transaction when transactional is set.
// Standalone servers cannot run transactions, so the fallback writes in order
// and removes what it wrote when a later step fails.
func NewCompletionStore(db *mongo.Database, diagnostics DiagnosticRepo, answers AnswerRepo, leads LeadRepo, transactional bool) CompletionStore {
	return &completionStore{
		client:        db.Client(),
		diagnostics:   diagnostics,
		answers:       answers,
		leads:         leads,
		transactional: transactional,
	}
}

func (s *completionStore) SaveCompletion(ctx context.Context, c *Completion) error {
	if c == nil || c.Diagnostic == nil || c.Lead == nil {
		return errors.New("incomplete completion")
	}
	if c.Diagnostic.ID == "" {
		c.Diagnostic.ID = NewID()
	}
	c.Lead.DiagnosticID = c.Diagnostic.ID

	if !s.transactional {
		return SaveWithCompensation(ctx, s.diagnostics, s.answers, s.leads, c)
	}

	sess, err := s.client.StartSession()
	if err != nil {
		return fmt.Errorf("start session: %w", err)
	}
	defer sess.EndSession(ctx)

	_, err = sess.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, writeCompletion(sc, s.diagnostics, s.answers, s.leads, c)
	})
	return err
}

func writeCompletion(ctx context.Context, diagnostics DiagnosticRepo, answers AnswerRepo, leads LeadRepo, c *Completion) error {
	if err := diagnostics.SaveDiagnostic(ctx, c.Diagnostic); err != nil {
		return fmt.Errorf("save diagnostic: %w", err)
	}
	if err := answers.SaveAnswers(ctx, c.Diagnostic.ID, c.Diagnostic.Answers, c.Diagnostic.CreatedAt); err != nil {
		return fmt.Errorf("save answers: %w", err)
	}
	if err := leads.SaveLeadTracking(ctx, c.Lead); err != nil {
		return fmt.Errorf("save lead tracking: %w", err)
	}
	return nil
}

// SaveWithCompensation writes in order and undoes earlier writes on failure.
// The undo runs on a context that survives cancellation of ctx.
func SaveWithCompensation(ctx context.Context, diagnostics DiagnosticRepo, answers AnswerRepo, leads LeadRepo, c *Completion) error {
	err := writeCompletion(ctx, diagnostics, answers, leads, c)
	if err == nil {
		return nil
	}

	undoCtx := context.WithoutCancel(ctx)
	id := c.Diagnostic.ID
	undoErr := errors.Join(
		leads.DeleteByDiagnosticID(undoCtx, id),
		answers.DeleteByDiagnosticID(undoCtx, id),
		diagnostics.Delete(undoCtx, id),
	)
	if undoErr != nil {
		return fmt.Errorf("%w (rollback incomplete: %v)", err, undoErr)
	}
	return err
}
