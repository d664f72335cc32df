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

	"go.uber.org/zap"
)

// Measures biometric insert throughput and FindRecent latency as record
// history grows, to check the (userId, recordedAt) index keeps reads flat.
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

	biometricRepo := mongodb.NewBiometricRepository(mongoDB)

	deviceTypes := []string{domain.DeviceTypeWhoop, domain.DeviceTypeGalaxyWatch, domain.DeviceTypeGalaxyRing}

	fmt.Println("users\trecords\t\tinsert-query")

	totalRecords := 0
	for round := 1; round <= 20; round++ {
		testUser := ""

		insertStart := time.Now()
		for userCount := 1; userCount <= round*10; userCount++ {
			userID := "profile-user-" + strconv.Itoa(userCount)
			testUser = userID

			for day := 0; day < 30; day++ {
				totalRecords++
				_, err = biometricRepo.Save(ctx, simulate.Record(userID, deviceTypes[day%len(deviceTypes)]))
				if err != nil {
					log.Fatal("failed to save biometric record", zap.Error(err))
				}
			}
		}
		insertTime := time.Since(insertStart)

		queryStart := time.Now()
		_, err = biometricRepo.FindRecent(ctx, testUser, 30)
		queryTime := time.Since(queryStart)
		if err != nil {
			log.Fatal("failed to fetch biometric records", zap.Error(err))
		}

		fmt.Printf("%d\t%d\t\t%s-%s\n", round*10, totalRecords, insertTime, queryTime)
	}
}
