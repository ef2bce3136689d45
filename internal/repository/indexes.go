package repository

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection names
const (
	QuestionsCollection   = "questions"
	RulesCollection       = "recommendation_rules"
	DiagnosticsCollection = "diagnostics"
	AnswersCollection     = "diagnostic_answers"
	LeadsCollection       = "lead_tracking"
	AccountsCollection    = "accounts"
)

type indexSpec struct {
	collection string
	keys       bson.D
	unique     bool
}

var indexes = []indexSpec{
	{QuestionsCollection, bson.D{{Key: "sort_order", Value: 1}}, false},
	{RulesCollection, bson.D{{Key: "active", Value: 1}, {Key: "priority", Value: 1}}, false},
	{DiagnosticsCollection, bson.D{{Key: "session_id", Value: 1}}, true},
	{DiagnosticsCollection, bson.D{{Key: "account_id", Value: 1}, {Key: "created_at", Value: -1}}, false},
	{DiagnosticsCollection, bson.D{{Key: "contact.email", Value: 1}}, false},
	{AnswersCollection, bson.D{{Key: "diagnostic_id", Value: 1}, {Key: "question_id", Value: 1}}, true},
	{LeadsCollection, bson.D{{Key: "diagnostic_id", Value: 1}}, true},
	{LeadsCollection, bson.D{{Key: "temperature", Value: 1}, {Key: "created_at", Value: -1}}, false},
	{LeadsCollection, bson.D{{Key: "retake_due", Value: 1}, {Key: "created_at", Value: 1}}, false},
	{AccountsCollection, bson.D{{Key: "email", Value: 1}}, true},
}

// EnsureIndexes creates every index the repositories rely on
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	for _, idx := range indexes {
		opts := options.Index().SetUnique(idx.unique)
		_, err := db.Collection(idx.collection).Indexes().CreateOne(ctx, mongo.IndexModel{Keys: idx.keys, Options: opts})
		if err != nil {
			return fmt.Errorf("create index on %s: %w", idx.collection, err)
		}
	}
	return nil
}

// NewID returns a fresh hex object id used as a string _id
func NewID() string {
	return primitive.NewObjectID().Hex()
}
