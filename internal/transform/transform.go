// Package transform maps raw provider payloads into the canonical biometric
// record. Mappers are pure and total: missing optional fields propagate as
// nil, never as zero defaults, and nothing here touches storage.
package transform

import (
	"fmt"
	"math"
	"strconv"
	"time"

	"vitalsync/internal/domain"
	"vitalsync/internal/providers/samsung"
	"vitalsync/internal/providers/whoop"

	"github.com/pkg/errors"
)

// Canonical dispatches a raw metrics payload to the mapper for its provider.
// An unexpected payload shape is reported as an error so the orchestrator can
// treat it like a failed fetch.
func Canonical(provider domain.Provider, userID string, raw any) (domain.BiometricRecord, error) {
	switch m := raw.(type) {
	case whoop.Metrics:
		return FromWhoop(userID, m), nil
	case samsung.Event:
		return FromSamsungEvent(userID, m), nil
	}
	return domain.BiometricRecord{}, errors.Errorf("unexpected %s payload type %T", provider, raw)
}

// FromWhoop maps the three WHOOP pull payloads onto one canonical record.
// Scores and HRV are copied verbatim; strain uses the most recent cycle entry
// only, never an average across the window.
func FromWhoop(userID string, m whoop.Metrics) domain.BiometricRecord {
	rec := domain.BiometricRecord{
		UserID:     userID,
		DeviceType: domain.DeviceTypeWhoop,
	}

	if r := latestRecovery(m.Recovery); r != nil && r.Score != nil {
		if r.Score.HRVRmssdMilli != nil {
			hrv := int(math.Round(*r.Score.HRVRmssdMilli))
			rec.HRV = &hrv
		}
		if r.Score.RestingHeartRate != nil {
			hr := int(math.Round(*r.Score.RestingHeartRate))
			rec.HeartRate = &hr
		}
	}

	if s := latestSleep(m.Sleep); s != nil {
		if s.Score != nil && s.Score.SleepPerformancePercentage != nil {
			score := int(math.Round(*s.Score.SleepPerformancePercentage))
			rec.SleepScore = &score
		}
		if !s.Start.IsZero() && !s.End.IsZero() && s.End.After(s.Start) {
			duration := formatDuration(s.End.Sub(s.Start))
			rec.SleepDuration = &duration
		}
	}

	if c := latestCycle(m.Cycles); c != nil && c.Score != nil && c.Score.Strain != nil {
		strain := formatStrain(*c.Score.Strain)
		rec.StrainLevel = &strain
	}

	return rec
}

// FromSamsungEvent maps a webhook event onto a canonical record tagged with
// the reporting sub-device. Fields the event does not carry stay absent.
func FromSamsungEvent(userID string, ev samsung.Event) domain.BiometricRecord {
	rec := domain.BiometricRecord{
		UserID:     userID,
		DeviceType: deviceTypeFor(ev.Device),
	}

	if ev.Data.SleepScore != nil {
		score := *ev.Data.SleepScore
		rec.SleepScore = &score
	}
	if ev.Data.SleepDurationMinutes != nil {
		duration := formatDuration(time.Duration(*ev.Data.SleepDurationMinutes) * time.Minute)
		rec.SleepDuration = &duration
	}
	if ev.Data.HeartRate != nil {
		hr := *ev.Data.HeartRate
		rec.HeartRate = &hr
	}
	if ev.Data.HRV != nil {
		hrv := *ev.Data.HRV
		rec.HRV = &hrv
	}

	return rec
}

func deviceTypeFor(device string) string {
	if device == samsung.DeviceRing {
		return domain.DeviceTypeGalaxyRing
	}
	return domain.DeviceTypeGalaxyWatch
}

func latestRecovery(records []whoop.RecoveryRecord) *whoop.RecoveryRecord {
	var latest *whoop.RecoveryRecord
	for i := range records {
		if latest == nil || records[i].CreatedAt.After(latest.CreatedAt) {
			latest = &records[i]
		}
	}
	return latest
}

func latestSleep(records []whoop.SleepRecord) *whoop.SleepRecord {
	var latest *whoop.SleepRecord
	for i := range records {
		if latest == nil || records[i].Start.After(latest.Start) {
			latest = &records[i]
		}
	}
	return latest
}

func latestCycle(records []whoop.CycleRecord) *whoop.CycleRecord {
	var latest *whoop.CycleRecord
	for i := range records {
		if latest == nil || records[i].Start.After(latest.Start) {
			latest = &records[i]
		}
	}
	return latest
}

// formatDuration renders a duration as "7h 42m".
func formatDuration(d time.Duration) string {
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	return fmt.Sprintf("%dh %dm", hours, minutes)
}

// formatStrain keeps the source precision: WHOOP reports strain as a float,
// persisted as decimal text without extra rounding.
func formatStrain(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
