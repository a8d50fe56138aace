package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"pmhscreen/internal/model"
	"pmhscreen/internal/platform/logger"
)

// ScreeningRepo persists submitted screenings. Records are append-only.
type ScreeningRepo interface {
	// Save stores the record and returns its id. CreatedAt is set when zero.
	Save(ctx context.Context, rec *model.StoredScreening) (string, error)
	// ListByOwner returns an owner's screenings, most recent first
	ListByOwner(ctx context.Context, ownerID string) ([]*model.StoredScreening, error)
	// Latest returns the owner's most recent screening or nil
	Latest(ctx context.Context, ownerID string) (*model.StoredScreening, error)
	// ListAll returns every readable screening, oldest first. Undecodable records are skipped.
	ListAll(ctx context.Context) ([]*model.StoredScreening, error)
	OwnerStats(ctx context.Context, ownerID string) (*model.OwnerStats, error)
}

type screeningRepo struct {
	collection *mongo.Collection
	log        *logger.Logger
}

func NewScreeningRepo(db *mongo.Database, log *logger.Logger) ScreeningRepo {
	return &screeningRepo{
		collection: db.Collection("screenings"),
		log:        log,
	}
}

// EnsureScreeningIndexes creates the owner/time index used by history queries
func EnsureScreeningIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection("screenings").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "ownerId", Value: 1}, {Key: "createdAt", Value: -1}},
	})
	return err
}

func (r *screeningRepo) Save(ctx context.Context, rec *model.StoredScreening) (string, error) {
	if err := prepareScreening(rec); err != nil {
		return "", err
	}
	if rec.ID == "" {
		rec.ID = primitive.NewObjectID().Hex()
	}

	if _, err := r.collection.InsertOne(ctx, rec); err != nil {
		return "", err
	}
	return rec.ID, nil
}

func (r *screeningRepo) ListByOwner(ctx context.Context, ownerID string) ([]*model.StoredScreening, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"ownerId": ownerID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var records []*model.StoredScreening
	if err = cursor.All(ctx, &records); err != nil {
		return nil, err
	}
	return records, nil
}

func (r *screeningRepo) Latest(ctx context.Context, ownerID string) (*model.StoredScreening, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}})

	var rec model.StoredScreening
	err := r.collection.FindOne(ctx, bson.M{"ownerId": ownerID}, opts).Decode(&rec)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &rec, nil
}

func (r *screeningRepo) ListAll(ctx context.Context) ([]*model.StoredScreening, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var records []*model.StoredScreening
	skipped := 0
	for cursor.Next(ctx) {
		var rec model.StoredScreening
		if err := cursor.Decode(&rec); err != nil {
			skipped++
			continue
		}
		records = append(records, &rec)
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}

	if skipped > 0 {
		r.log.Warn("skipped undecodable screenings", "skipped", skipped, "read", len(records))
	}
	return records, nil
}

func (r *screeningRepo) OwnerStats(ctx context.Context, ownerID string) (*model.OwnerStats, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"ownerId": ownerID}}},
		{{Key: "$group", Value: bson.M{
			"_id":   nil,
			"total": bson.M{"$sum": 1},
			"first": bson.M{"$min": "$createdAt"},
			"last":  bson.M{"$max": "$createdAt"},
		}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var rows []struct {
		Total int       `bson:"total"`
		First time.Time `bson:"first"`
		Last  time.Time `bson:"last"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, err
	}

	stats := &model.OwnerStats{}
	if len(rows) == 0 || rows[0].Total == 0 {
		return stats, nil
	}
	first, last := rows[0].First.UTC(), rows[0].Last.UTC()
	stats.TotalScreenings = rows[0].Total
	stats.FirstScreening = &first
	stats.LastScreening = &last
	return stats, nil
}

func prepareScreening(rec *model.StoredScreening) error {
	if rec.OwnerID == "" {
		return ErrMissingOwner
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	return nil
}
