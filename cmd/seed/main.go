package main

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"vitalsync/internal/adapters/mongodb"
	"vitalsync/internal/config"
	"vitalsync/internal/domain"
	"vitalsync/internal/simulate"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

func main() {
	ctx := context.Background()

	logger, _ := zap.NewProduction()
	log := logger.Sugar()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("failed to load config", zap.Error(err))
	}

	mongoDB, err := mongodb.NewMongoDB(ctx, cfg.MongoDBURI, cfg.MongoDBName)
	if err != nil {
		log.Fatal("failed to connect to MongoDB", zap.Error(err))
	}

	err = mongodb.SetUpCollections(ctx, mongoDB.Database)
	if err != nil {
		log.Fatal("failed to set up collections", zap.Error(err))
	}

	credentialRepo := mongodb.NewCredentialRepository(mongoDB)
	biometricRepo := mongodb.NewBiometricRepository(mongoDB)

	for i := 0; i < 5; i++ {
		userID := "demo-user-" + strconv.Itoa(i+1)

		// WHOOP credential with an already expired access token and a valid
		// refresh token, so the first sync exercises the refresh path.
		expiredAt := time.Now().Add(-1 * time.Hour).UTC()
		refreshToken := "whoop-refresh-" + uuid.NewString()
		externalID := fmt.Sprintf("%d", 100000+i)

		_, err := credentialRepo.Create(ctx, domain.Credential{
			UserID:         userID,
			Provider:       domain.ProviderWhoop,
			AccessToken:    "whoop-access-" + uuid.NewString(),
			RefreshToken:   &refreshToken,
			ExternalUserID: &externalID,
			ExpiresAt:      &expiredAt,
		})
		if err != nil {
			log.Fatal("failed to save whoop credential", zap.Error(err))
		}

		samsungExternalID := "shealth-" + uuid.NewString()
		_, err = credentialRepo.Create(ctx, domain.Credential{
			UserID:         userID,
			Provider:       domain.ProviderSamsung,
			AccessToken:    uuid.NewString(),
			ExternalUserID: &samsungExternalID,
		})
		if err != nil {
			log.Fatal("failed to save samsung credential", zap.Error(err))
		}

		// A few days of history, alternating devices.
		deviceTypes := []string{domain.DeviceTypeWhoop, domain.DeviceTypeGalaxyWatch, domain.DeviceTypeGalaxyRing}
		for day := 0; day < 7; day++ {
			_, err = biometricRepo.Save(ctx, simulate.Record(userID, deviceTypes[day%len(deviceTypes)]))
			if err != nil {
				log.Fatal("failed to save biometric record", zap.Error(err))
			}
		}
	}

	log.Infof("Seeded 5 demo users with credentials and biometric history")
}
