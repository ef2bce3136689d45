package repository

import (
	"academyhub/internal/model"
	"context"
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// AnswerRepo stores one row per answered question of a diagnostic
type AnswerRepo interface {
	SaveAnswers(ctx context.Context, diagnosticID string, answers model.Answers, answeredAt time.Time) error
	GetByDiagnosticID(ctx context.Context, diagnosticID string) ([]model.AnswerRow, error)
	DeleteByDiagnosticID(ctx context.Context, diagnosticID string) error
}

type answerRepo struct {
	collection *mongo.Collection
}

func NewAnswerRepo(db *mongo.Database) AnswerRepo {
	return &answerRepo{
		collection: db.Collection(AnswersCollection),
	}
}

func (r *answerRepo) SaveAnswers(ctx context.Context, diagnosticID string, answers model.Answers, answeredAt time.Time) error {
	if len(answers) == 0 {
		return nil
	}

	// stable insert order keeps retries and tests predictable
	ids := make([]string, 0, len(answers))
	for id := range answers {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	docs := make([]interface{}, 0, len(ids))
	for _, qid := range ids {
		docs = append(docs, model.AnswerRow{
			ID:           NewID(),
			DiagnosticID: diagnosticID,
			QuestionID:   qid,
			Value:        answers[qid],
			AnsweredAt:   answeredAt,
		})
	}
	_, err := r.collection.InsertMany(ctx, docs)
	return err
}

func (r *answerRepo) GetByDiagnosticID(ctx context.Context, diagnosticID string) ([]model.AnswerRow, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"diagnostic_id": diagnosticID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	rows := []model.AnswerRow{}
	if err = cursor.All(ctx, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *answerRepo) DeleteByDiagnosticID(ctx context.Context, diagnosticID string) error {
	_, err := r.collection.DeleteMany(ctx, bson.M{"diagnostic_id": diagnosticID})
	return err
}
