package mongodb

import (
	"context"
	"time"

	"vitalsync/internal/domain"
	"vitalsync/internal/ports"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const BiometricsCollection = "biometrics"

type BiometricRepository struct {
	collection *mongo.Collection
}

func NewBiometricRepository(db *MongoDB) ports.BiometricRepository {
	return &BiometricRepository{
		collection: db.Database.Collection(BiometricsCollection),
	}
}

// Save appends a new record. RecordedAt is assigned here, at persistence time,
// so transformed and simulated records carry a uniform server clock.
func (r *BiometricRepository) Save(ctx context.Context, rec domain.BiometricRecord) (domain.BiometricRecord, error) {
	rec.ID = primitive.NewObjectID()
	rec.RecordedAt = time.Now().UTC()

	_, err := r.collection.InsertOne(ctx, rec)
	if err != nil {
		return domain.BiometricRecord{}, errors.Wrap(err, "failed to save biometric record")
	}

	return rec, nil
}

func (r *BiometricRepository) FindRecent(ctx context.Context, userID string, limit int64) ([]domain.BiometricRecord, error) {
	findOptions := options.Find().
		SetSort(bson.D{{Key: "recordedAt", Value: -1}}).
		SetLimit(limit)

	cursor, err := r.collection.Find(ctx, bson.M{"userId": userID}, findOptions)
	if err != nil {
		return nil, errors.Wrap(err, "failed to find biometric records")
	}
	defer cursor.Close(ctx)

	var records []domain.BiometricRecord
	if err = cursor.All(ctx, &records); err != nil {
		return nil, errors.Wrap(err, "failed to parse biometric records")
	}

	return records, nil
}
