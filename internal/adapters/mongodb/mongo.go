package mongodb

import (
	"context"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MongoDB struct {
	Database *mongo.Database
}

func NewMongoDB(ctx context.Context, uri string, dbName string) (*MongoDB, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect to MongoDB")
	}

	db := client.Database(dbName)
	return &MongoDB{Database: db}, nil
}

func SetUpCollections(ctx context.Context, db *mongo.Database) error {
	err := db.Collection(CredentialsCollection).Drop(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to drop credentials collection")
	}

	credentialValidation := bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": []string{"userId", "provider", "accessToken", "updatedAt"},
			"properties": bson.M{
				"userId":         bson.M{"bsonType": "string"},
				"provider":       bson.M{"enum": []string{"whoop", "samsung"}},
				"accessToken":    bson.M{"bsonType": "string"},
				"refreshToken":   bson.M{"bsonType": "string"},
				"externalUserId": bson.M{"bsonType": "string"},
				"expiresAt":      bson.M{"bsonType": "date"},
				"updatedAt":      bson.M{"bsonType": "date"},
			},
		},
	}

	opt := options.CreateCollection().SetValidator(credentialValidation)
	if err := db.CreateCollection(ctx, CredentialsCollection, opt); err != nil {
		return errors.Wrap(err, "failed to create collection")
	}

	// One credential per (userId, provider).
	credentialIndex := mongo.IndexModel{
		Keys: bson.D{
			{Key: "userId", Value: 1},
			{Key: "provider", Value: 1},
		},
		Options: options.Index().SetUnique(true),
	}
	_, err = db.Collection(CredentialsCollection).Indexes().CreateOne(ctx, credentialIndex)
	if err != nil {
		return errors.Wrap(err, "failed to create credentials index")
	}

	// Webhook ingestion resolves the owning user by provider-assigned id.
	externalIDIndex := mongo.IndexModel{
		Keys: bson.D{
			{Key: "provider", Value: 1},
			{Key: "externalUserId", Value: 1},
		},
	}
	_, err = db.Collection(CredentialsCollection).Indexes().CreateOne(ctx, externalIDIndex)
	if err != nil {
		return errors.Wrap(err, "failed to create external id index")
	}

	err = db.Collection(BiometricsCollection).Drop(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to drop biometrics collection")
	}

	biometricValidation := bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": []string{"userId", "deviceType", "recordedAt"},
			"properties": bson.M{
				"userId":        bson.M{"bsonType": "string"},
				"deviceType":    bson.M{"bsonType": "string"},
				"sleepScore":    bson.M{"bsonType": "int", "minimum": 0, "maximum": 100},
				"sleepDuration": bson.M{"bsonType": "string"},
				"strainLevel":   bson.M{"bsonType": "string"},
				"hrv":           bson.M{"bsonType": "int", "minimum": 1},
				"heartRate":     bson.M{"bsonType": "int", "minimum": 1},
				"simulated":     bson.M{"bsonType": "bool"},
				"recordedAt":    bson.M{"bsonType": "date"},
			},
		},
	}

	opt = options.CreateCollection().SetValidator(biometricValidation)
	if err := db.CreateCollection(ctx, BiometricsCollection, opt); err != nil {
		return errors.Wrap(err, "failed to create collection")
	}

	biometricsIndex := mongo.IndexModel{
		Keys: bson.D{
			{Key: "userId", Value: 1},
			{Key: "recordedAt", Value: -1},
		},
	}
	_, err = db.Collection(BiometricsCollection).Indexes().CreateOne(ctx, biometricsIndex)
	if err != nil {
		return errors.Wrap(err, "failed to create biometrics index")
	}

	return nil
}
