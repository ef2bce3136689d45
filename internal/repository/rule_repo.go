package repository

import (
	"academyhub/internal/model"
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// RuleRepo handles MongoDB operations for recommendation rules
type RuleRepo interface {
	Create(ctx context.Context, rule *model.RecommendationRule) error
	GetByID(ctx context.Context, id string) (*model.RecommendationRule, error)
	List(ctx context.Context) ([]model.RecommendationRule, error)
	Update(ctx context.Context, rule *model.RecommendationRule) (bool, error)
	Delete(ctx context.Context, id string) (bool, error)

	// LoadRecommendationRules returns active rules by ascending priority
	LoadRecommendationRules(ctx context.Context) ([]model.RecommendationRule, error)
}

type ruleRepo struct {
	collection *mongo.Collection
}

// NewRuleRepo creates a new rule repository
func NewRuleRepo(db *mongo.Database) RuleRepo {
	return &ruleRepo{
		collection: db.Collection(RulesCollection),
	}
}

func (r *ruleRepo) Create(ctx context.Context, rule *model.RecommendationRule) error {
	if rule.ID == "" {
		rule.ID = NewID()
	}
	rule.CreatedAt = time.Now()
	rule.UpdatedAt = rule.CreatedAt

	_, err := r.collection.InsertOne(ctx, rule)
	return err
}

func (r *ruleRepo) GetByID(ctx context.Context, id string) (*model.RecommendationRule, error) {
	var rule model.RecommendationRule
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&rule)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rule, nil
}

func (r *ruleRepo) List(ctx context.Context) ([]model.RecommendationRule, error) {
	return r.find(ctx, bson.M{})
}

func (r *ruleRepo) LoadRecommendationRules(ctx context.Context) ([]model.RecommendationRule, error) {
	return r.find(ctx, bson.M{"active": true})
}

func (r *ruleRepo) find(ctx context.Context, filter bson.M) ([]model.RecommendationRule, error) {
	opts := options.Find().SetSort(bson.D{{Key: "priority", Value: 1}, {Key: "_id", Value: 1}})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	rules := []model.RecommendationRule{}
	if err := cursor.All(ctx, &rules); err != nil {
		return nil, err
	}
	return rules, nil
}

func (r *ruleRepo) Update(ctx context.Context, rule *model.RecommendationRule) (bool, error) {
	rule.UpdatedAt = time.Now()
	res, err := r.collection.ReplaceOne(ctx, bson.M{"_id": rule.ID}, rule)
	if err != nil {
		return false, err
	}
	return res.MatchedCount > 0, nil
}

func (r *ruleRepo) Delete(ctx context.Context, id string) (bool, error) {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return false, err
	}
	return res.DeletedCount > 0, nil
}
