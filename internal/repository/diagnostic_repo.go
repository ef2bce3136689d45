package repository

import (
	"academyhub/internal/model"
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrAlreadyClaimed is returned when a diagnostic is linked to another account
var ErrAlreadyClaimed = errors.New("diagnostic already belongs to another account")

// DiagnosticRepo handles MongoDB operations for completed diagnostics.
// Records are immutable once saved except for the one-time account link.
type DiagnosticRepo interface {
	SaveDiagnostic(ctx context.Context, record *model.DiagnosticRecord) error
	GetByID(ctx context.Context, id string) (*model.DiagnosticRecord, error)
	GetBySessionID(ctx context.Context, sessionID string) (*model.DiagnosticRecord, error)
	ListByAccount(ctx context.Context, accountID string) ([]model.DiagnosticRecord, error)
	LinkAccount(ctx context.Context, id, accountID string) error
	Delete(ctx context.Context, id string) error
	Aggregate(ctx context.Context) (*model.DiagnosticStats, error)
}

type diagnosticRepo struct {
	collection *mongo.Collection
}

func NewDiagnosticRepo(db *mongo.Database) DiagnosticRepo {
	return &diagnosticRepo{
		collection: db.Collection(DiagnosticsCollection),
	}
}

func (r *diagnosticRepo) SaveDiagnostic(ctx context.Context, record *model.DiagnosticRecord) error {
	if record.ID == "" {
		record.ID = NewID()
	}
	_, err := r.collection.InsertOne(ctx, record)
	return err
}

func (r *diagnosticRepo) GetByID(ctx context.Context, id string) (*model.DiagnosticRecord, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *diagnosticRepo) GetBySessionID(ctx context.Context, sessionID string) (*model.DiagnosticRecord, error) {
	return r.findOne(ctx, bson.M{"session_id": sessionID})
}

func (r *diagnosticRepo) findOne(ctx context.Context, filter bson.M) (*model.DiagnosticRecord, error) {
	var record model.DiagnosticRecord
	err := r.collection.FindOne(ctx, filter).Decode(&record)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// ListByAccount returns the account's diagnostics, newest first
func (r *diagnosticRepo) ListByAccount(ctx context.Context, accountID string) ([]model.DiagnosticRecord, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"account_id": accountID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	records := []model.DiagnosticRecord{}
	if err := cursor.All(ctx, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// LinkAccount sets the owner once. Linking again to the same account is a no-op.
func (r *diagnosticRepo) LinkAccount(ctx context.Context, id, accountID string) error {
	filter := bson.M{
		"_id": id,
		"$or": bson.A{
			bson.M{"account_id": bson.M{"$exists": false}},
			bson.M{"account_id": accountID},
		},
	}
	update := bson.M{"$set": bson.M{"account_id": accountID, "status": model.DiagnosticClaimed}}
	res, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		existing, err := r.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if existing == nil {
			return mongo.ErrNoDocuments
		}
		return ErrAlreadyClaimed
	}
	return nil
}

func (r *diagnosticRepo) Delete(ctx context.Context, id string) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

type levelCount struct {
	Level model.Level `bson:"_id"`
	Count int64       `bson:"count"`
}

type meanRow struct {
	Total      int64   `bson:"total"`
	Composite  float64 `bson:"composite"`
	Technical  float64 `bson:"technical"`
	Financial  float64 `bson:"financial"`
	Scale      float64 `bson:"scale"`
	Expansion  float64 `bson:"expansion"`
	Commitment float64 `bson:"commitment"`
}

// Aggregate computes counts per level and means per pillar.
// ByTemperature is left for the lead repository to fill.
func (r *diagnosticRepo) Aggregate(ctx context.Context) (*model.DiagnosticStats, error) {
	stats := &model.DiagnosticStats{
		ByLevel:       map[model.Level]int64{},
		ByTemperature: map[model.Temperature]int64{},
		PillarMeans:   model.SectionScores{},
	}

	cursor, err := r.collection.Aggregate(ctx, mongo.Pipeline{
		{{Key: "$group", Value: bson.M{"_id": "$level", "count": bson.M{"$sum": 1}}}},
	})
	if err != nil {
		return nil, err
	}
	var levels []levelCount
	if err := cursor.All(ctx, &levels); err != nil {
		return nil, err
	}
	for _, lc := range levels {
		stats.ByLevel[lc.Level] = lc.Count
	}

	group := bson.M{
		"_id":       nil,
		"total":     bson.M{"$sum": 1},
		"composite": bson.M{"$avg": "$composite_index"},
	}
	for _, p := range model.AllPillars {
		group[string(p)] = bson.M{"$avg": "$scores." + string(p)}
	}
	cursor, err = r.collection.Aggregate(ctx, mongo.Pipeline{{{Key: "$group", Value: group}}})
	if err != nil {
		return nil, err
	}
	var rows []meanRow
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return stats, nil
	}
	row := rows[0]
	stats.Total = row.Total
	stats.CompositeMean = row.Composite
	stats.PillarMeans[model.PillarTechnical] = row.Technical
	stats.PillarMeans[model.PillarFinancial] = row.Financial
	stats.PillarMeans[model.PillarScale] = row.Scale
	stats.PillarMeans[model.PillarExpansion] = row.Expansion
	stats.PillarMeans[model.PillarCommitment] = row.Commitment
	return stats, nil
}
