// Package simulate produces bounded-random biometric records used when a
// provider fetch fails. Ranges are fixed so simulated data is interchangeable
// with real data downstream: sleep score 60-99, sleep duration 7-8h plus
// 0-59m, strain 5.0-19.9, HRV 25-74, heart rate 60-99.
package simulate

import (
	"fmt"
	"math/rand"

	"vitalsync/internal/domain"
)

// Record builds a simulated canonical record for the given user and device
// tag. The record is flagged Simulated so callers can tell it apart from real
// provider data. RecordedAt is left for the repository to assign.
func Record(userID, deviceType string) domain.BiometricRecord {
	sleepScore := rand.Intn(40) + 60
	sleepDuration := fmt.Sprintf("%dh %dm", rand.Intn(2)+7, rand.Intn(60))
	strain := fmt.Sprintf("%.1f", float64(rand.Intn(150)+50)/10)
	hrv := rand.Intn(50) + 25
	heartRate := rand.Intn(40) + 60

	return domain.BiometricRecord{
		UserID:        userID,
		DeviceType:    deviceType,
		SleepScore:    &sleepScore,
		SleepDuration: &sleepDuration,
		StrainLevel:   &strain,
		HRV:           &hrv,
		HeartRate:     &heartRate,
		Simulated:     true,
	}
}
