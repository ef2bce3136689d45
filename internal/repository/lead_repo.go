package repository

import (
	"academyhub/internal/model"
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// LeadFilter narrows a lead listing
type LeadFilter struct {
	Temperature model.Temperature
	RetakeDue   *bool
	Limit       int64
}

// LeadRepo handles MongoDB operations for sales lead tracking
type LeadRepo interface {
	SaveLeadTracking(ctx context.Context, lead *model.LeadTracking) error
	GetByDiagnosticID(ctx context.Context, diagnosticID string) (*model.LeadTracking, error)
	List(ctx context.Context, filter LeadFilter) ([]model.LeadTracking, error)
	DeleteByDiagnosticID(ctx context.Context, diagnosticID string) error
	CountByTemperature(ctx context.Context) (map[model.Temperature]int64, error)

	// MarkRetakeDue flags leads created before the cutoff and returns how many changed
	MarkRetakeDue(ctx context.Context, cutoff time.Time) (int64, error)
}

type leadRepo struct {
	collection *mongo.Collection
}

func NewLeadRepo(db *mongo.Database) LeadRepo {
	return &leadRepo{
		collection: db.Collection(LeadsCollection),
	}
}

func (r *leadRepo) SaveLeadTracking(ctx context.Context, lead *model.LeadTracking) error {
	if lead.ID == "" {
		lead.ID = NewID()
	}
	if lead.CreatedAt.IsZero() {
		lead.CreatedAt = time.Now()
	}
	_, err := r.collection.InsertOne(ctx, lead)
	return err
}

func (r *leadRepo) GetByDiagnosticID(ctx context.Context, diagnosticID string) (*model.LeadTracking, error) {
	var lead model.LeadTracking
	err := r.collection.FindOne(ctx, bson.M{"diagnostic_id": diagnosticID}).Decode(&lead)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &lead, nil
}

func (r *leadRepo) List(ctx context.Context, filter LeadFilter) ([]model.LeadTracking, error) {
	query := bson.M{}
	if filter.Temperature != "" {
		query["temperature"] = filter.Temperature
	}
	if filter.RetakeDue != nil {
		query["retake_due"] = *filter.RetakeDue
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if filter.Limit > 0 {
		opts.SetLimit(filter.Limit)
	}

	cursor, err := r.collection.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	leads := []model.LeadTracking{}
	if err := cursor.All(ctx, &leads); err != nil {
		return nil, err
	}
	return leads, nil
}

func (r *leadRepo) DeleteByDiagnosticID(ctx context.Context, diagnosticID string) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"diagnostic_id": diagnosticID})
	return err
}

func (r *leadRepo) CountByTemperature(ctx context.Context) (map[model.Temperature]int64, error) {
	cursor, err := r.collection.Aggregate(ctx, mongo.Pipeline{
		{{Key: "$group", Value: bson.M{"_id": "$temperature", "count": bson.M{"$sum": 1}}}},
	})
	if err != nil {
		return nil, err
	}

	var rows []struct {
		Temperature model.Temperature `bson:"_id"`
		Count       int64             `bson:"count"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, err
	}

	counts := make(map[model.Temperature]int64, len(rows))
	for _, row := range rows {
		counts[row.Temperature] = row.Count
	}
	return counts, nil
}

func (r *leadRepo) MarkRetakeDue(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.collection.UpdateMany(ctx,
		bson.M{"retake_due": false, "created_at": bson.M{"$lt": cutoff}},
		bson.M{"$set": bson.M{"retake_due": true}},
	)
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}
