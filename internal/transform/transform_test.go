package transform

import (
	"testing"
	"time"

	"vitalsync/internal/domain"
	"vitalsync/internal/providers/samsung"
	"vitalsync/internal/providers/whoop"

	"github.com/stretchr/testify/assert"
)

func f64(v float64) *float64 { return &v }
func i(v int) *int           { return &v }

func TestFromWhoop(t *testing.T) {
	now := time.Date(2024, 3, 10, 8, 0, 0, 0, time.UTC)

	metrics := whoop.Metrics{
		Recovery: []whoop.RecoveryRecord{
			{
				CreatedAt: now.Add(-24 * time.Hour),
				Score:     &whoop.RecoveryScore{HRVRmssdMilli: f64(38), RestingHeartRate: f64(55)},
			},
			{
				CreatedAt: now,
				Score:     &whoop.RecoveryScore{HRVRmssdMilli: f64(42.4), RestingHeartRate: f64(58.2)},
			},
		},
		Sleep: []whoop.SleepRecord{
			{
				Start: now.Add(-8 * time.Hour),
				End:   now.Add(-18 * time.Minute),
				Score: &whoop.SleepScore{SleepPerformancePercentage: f64(87)},
			},
		},
		Cycles: []whoop.CycleRecord{
			{Start: now.Add(-48 * time.Hour), Score: &whoop.CycleScore{Strain: f64(18.1)}},
			{Start: now, Score: &whoop.CycleScore{Strain: f64(12.3)}},
		},
	}

	rec := FromWhoop("user-1", metrics)

	assert.Equal(t, "user-1", rec.UserID)
	assert.Equal(t, domain.DeviceTypeWhoop, rec.DeviceType)
	assert.Equal(t, 87, *rec.SleepScore)
	assert.Equal(t, "7h 42m", *rec.SleepDuration)
	// Most recent cycle only, never an average.
	assert.Equal(t, "12.3", *rec.StrainLevel)
	assert.Equal(t, 42, *rec.HRV)
	assert.Equal(t, 58, *rec.HeartRate)
	assert.False(t, rec.Simulated)
}

func TestFromWhoopEmptyPayload(t *testing.T) {
	rec := FromWhoop("user-1", whoop.Metrics{})

	assert.Equal(t, domain.DeviceTypeWhoop, rec.DeviceType)
	assert.Nil(t, rec.SleepScore)
	assert.Nil(t, rec.SleepDuration)
	assert.Nil(t, rec.StrainLevel)
	assert.Nil(t, rec.HRV)
	assert.Nil(t, rec.HeartRate)
}

func TestFromWhoopMissingScores(t *testing.T) {
	metrics := whoop.Metrics{
		Recovery: []whoop.RecoveryRecord{{CreatedAt: time.Now()}},
		Sleep:    []whoop.SleepRecord{{Start: time.Now().Add(-7 * time.Hour), End: time.Now()}},
		Cycles:   []whoop.CycleRecord{{Start: time.Now()}},
	}

	rec := FromWhoop("user-1", metrics)

	// Durations can be derived without a score, numeric fields cannot.
	assert.NotNil(t, rec.SleepDuration)
	assert.Nil(t, rec.SleepScore)
	assert.Nil(t, rec.StrainLevel)
	assert.Nil(t, rec.HRV)
	assert.Nil(t, rec.HeartRate)
}

func TestFromSamsungEventSleep(t *testing.T) {
	ev := samsung.Event{
		Type:           samsung.EventSleep,
		ExternalUserID: "shealth-abc",
		Device:         samsung.DeviceWatch,
		Data: samsung.EventData{
			SleepScore:           i(78),
			SleepDurationMinutes: i(7*60 + 42),
		},
	}

	rec := FromSamsungEvent("user-2", ev)

	assert.Equal(t, "user-2", rec.UserID)
	assert.Equal(t, domain.DeviceTypeGalaxyWatch, rec.DeviceType)
	assert.Equal(t, 78, *rec.SleepScore)
	assert.Equal(t, "7h 42m", *rec.SleepDuration)
	assert.Nil(t, rec.StrainLevel)
	assert.Nil(t, rec.HRV)
	assert.Nil(t, rec.HeartRate)
}

func TestFromSamsungEventRingDevice(t *testing.T) {
	ev := samsung.Event{
		Type:           samsung.EventDailySummary,
		ExternalUserID: "shealth-abc",
		Device:         samsung.DeviceRing,
		Data: samsung.EventData{
			HeartRate: i(64),
			HRV:       i(51),
		},
	}

	rec := FromSamsungEvent("user-2", ev)

	assert.Equal(t, domain.DeviceTypeGalaxyRing, rec.DeviceType)
	assert.Equal(t, 64, *rec.HeartRate)
	assert.Equal(t, 51, *rec.HRV)
	assert.Nil(t, rec.SleepScore)
}

func TestFromSamsungEventBodyComposition(t *testing.T) {
	// Body composition carries nothing the canonical record holds; every
	// optional field stays absent rather than defaulting to zero.
	ev := samsung.Event{
		Type:           samsung.EventBodyComposition,
		ExternalUserID: "shealth-abc",
		Data: samsung.EventData{
			Weight:            f64(81.3),
			BodyFatPercentage: f64(17.2),
		},
	}

	rec := FromSamsungEvent("user-2", ev)

	assert.Equal(t, domain.DeviceTypeGalaxyWatch, rec.DeviceType)
	assert.Nil(t, rec.SleepScore)
	assert.Nil(t, rec.SleepDuration)
	assert.Nil(t, rec.StrainLevel)
	assert.Nil(t, rec.HRV)
	assert.Nil(t, rec.HeartRate)
}

func TestCanonicalUnexpectedPayload(t *testing.T) {
	_, err := Canonical(domain.ProviderWhoop, "user-1", struct{}{})
	assert.Error(t, err)
}

func TestFormatStrainKeepsPrecision(t *testing.T) {
	assert.Equal(t, "12.3", formatStrain(12.3))
	assert.Equal(t, "5", formatStrain(5))
	assert.Equal(t, "19.95", formatStrain(19.95))
}
