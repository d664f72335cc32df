package mongodb

import (
	"context"
	"time"

	"vitalsync/internal/domain"
	"vitalsync/internal/ports"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const CredentialsCollection = "credentials"

type CredentialRepository struct {
	collection *mongo.Collection
}

func NewCredentialRepository(db *MongoDB) ports.CredentialRepository {
	return &CredentialRepository{
		collection: db.Database.Collection(CredentialsCollection),
	}
}

func (r *CredentialRepository) Find(ctx context.Context, userID string, provider domain.Provider) (domain.Credential, error) {
	var cred domain.Credential
	err := r.collection.FindOne(ctx, bson.M{"userId": userID, "provider": provider}).Decode(&cred)
	if err == mongo.ErrNoDocuments {
		return domain.Credential{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.Credential{}, errors.Wrap(err, "failed to find credential")
	}

	return cred, nil
}

func (r *CredentialRepository) FindByUser(ctx context.Context, userID string) ([]domain.Credential, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "provider", Value: 1}})

	cursor, err := r.collection.Find(ctx, bson.M{"userId": userID}, findOptions)
	if err != nil {
		return nil, errors.Wrap(err, "failed to find credentials")
	}
	defer cursor.Close(ctx)

	var creds []domain.Credential
	if err = cursor.All(ctx, &creds); err != nil {
		return nil, errors.Wrap(err, "failed to parse credentials")
	}

	return creds, nil
}

func (r *CredentialRepository) FindByExternalUserID(ctx context.Context, provider domain.Provider, externalUserID string) (domain.Credential, error) {
	var cred domain.Credential
	err := r.collection.FindOne(ctx, bson.M{"provider": provider, "externalUserId": externalUserID}).Decode(&cred)
	if err == mongo.ErrNoDocuments {
		return domain.Credential{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.Credential{}, errors.Wrap(err, "failed to find credential by external id")
	}

	return cred, nil
}

func (r *CredentialRepository) Create(ctx context.Context, cred domain.Credential) (domain.Credential, error) {
	cred.UpdatedAt = time.Now().UTC()

	result, err := r.collection.InsertOne(ctx, cred)
	if mongo.IsDuplicateKeyError(err) {
		return domain.Credential{}, domain.ErrDuplicateCredential
	}
	if err != nil {
		return domain.Credential{}, errors.Wrap(err, "failed to save credential")
	}

	var saved domain.Credential
	err = r.collection.FindOne(ctx, bson.M{"_id": result.InsertedID}).Decode(&saved)
	if err != nil {
		return domain.Credential{}, errors.Wrap(err, "failed to fetch saved credential")
	}

	return saved, nil
}

func (r *CredentialRepository) Update(ctx context.Context, userID string, provider domain.Provider, update ports.CredentialUpdate) (domain.Credential, error) {
	set := bson.M{"updatedAt": time.Now().UTC()}
	if update.AccessToken != nil {
		set["accessToken"] = *update.AccessToken
	}
	if update.RefreshToken != nil {
		set["refreshToken"] = *update.RefreshToken
	}
	if update.ExternalUserID != nil {
		set["externalUserId"] = *update.ExternalUserID
	}
	if update.ExpiresAt != nil {
		set["expiresAt"] = *update.ExpiresAt
	}

	filter := bson.M{"userId": userID, "provider": provider}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated domain.Credential
	err := r.collection.FindOneAndUpdate(ctx, filter, bson.M{"$set": set}, opts).Decode(&updated)
	if err == mongo.ErrNoDocuments {
		return domain.Credential{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.Credential{}, errors.Wrap(err, "failed to update credential")
	}

	return updated, nil
}

// Delete is idempotent: removing an absent credential is not an error.
func (r *CredentialRepository) Delete(ctx context.Context, userID string, provider domain.Provider) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"userId": userID, "provider": provider})
	if err != nil {
		return errors.Wrap(err, "failed to delete credential")
	}

	return nil
}
