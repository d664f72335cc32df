package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Provider identifies an external wearable-data platform.
type Provider string

const (
	// ProviderWhoop is the strain/recovery tracker. Metrics are pulled via its REST API.
	ProviderWhoop Provider = "whoop"
	// ProviderSamsung is the Samsung Health aggregator. Metrics arrive via webhook push.
	ProviderSamsung Provider = "samsung"
)

// ParseProvider maps a provider name from a request path to a known Provider.
func ParseProvider(s string) (Provider, error) {
	switch Provider(s) {
	case ProviderWhoop:
		return ProviderWhoop, nil
	case ProviderSamsung:
		return ProviderSamsung, nil
	}
	return "", ErrUnknownProvider
}

// Device type tags recorded on biometric records. The tag names the reporting
// device, not the provider: a Samsung Health event is tagged with the sub-device
// (watch or ring) that produced it.
const (
	DeviceTypeWhoop       = "WHOOP"
	DeviceTypeGalaxyWatch = "Galaxy Watch"
	DeviceTypeGalaxyRing  = "Galaxy Ring"
)

// Credential holds OAuth/token state for one user-provider pair.
// There is at most one credential per (UserID, Provider).
type Credential struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID         string             `bson:"userId" json:"userId"`
	Provider       Provider           `bson:"provider" json:"provider"`
	AccessToken    string             `bson:"accessToken" json:"-"`
	RefreshToken   *string            `bson:"refreshToken,omitempty" json:"-"`
	ExternalUserID *string            `bson:"externalUserId,omitempty" json:"externalUserId,omitempty"`
	ExpiresAt      *time.Time         `bson:"expiresAt,omitempty" json:"expiresAt,omitempty"`
	UpdatedAt      time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// Stale reports whether the access token has expired. A credential without an
// expiry never goes stale.
func (c Credential) Stale(now time.Time) bool {
	return c.ExpiresAt != nil && c.ExpiresAt.Before(now)
}

// Refreshable reports whether a refresh flow can be attempted.
func (c Credential) Refreshable() bool {
	return c.RefreshToken != nil && *c.RefreshToken != ""
}

// BiometricRecord is the canonical, provider-agnostic biometric sample.
// Optional fields are nil when the source did not report them; a zero value is
// never used to stand in for "unknown". Records are immutable once persisted.
type BiometricRecord struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID        string             `bson:"userId" json:"userId"`
	DeviceType    string             `bson:"deviceType" json:"deviceType"`
	SleepScore    *int               `bson:"sleepScore,omitempty" json:"sleepScore,omitempty"`
	SleepDuration *string            `bson:"sleepDuration,omitempty" json:"sleepDuration,omitempty"`
	StrainLevel   *string            `bson:"strainLevel,omitempty" json:"strainLevel,omitempty"`
	HRV           *int               `bson:"hrv,omitempty" json:"hrv,omitempty"`
	HeartRate     *int               `bson:"heartRate,omitempty" json:"heartRate,omitempty"`
	Simulated     bool               `bson:"simulated" json:"simulated"`
	RecordedAt    time.Time          `bson:"recordedAt" json:"recordedAt"`
}

// SyncStatus is the per-provider result state of one synchronization attempt.
type SyncStatus string

const (
	SyncSuccess SyncStatus = "success"
	SyncError   SyncStatus = "error"
)

// SyncOutcome reports the result of syncing one provider. It is returned to the
// caller and never persisted.
type SyncOutcome struct {
	Provider Provider         `json:"provider"`
	Status   SyncStatus       `json:"status"`
	Record   *BiometricRecord `json:"record,omitempty"`
	Error    string           `json:"error,omitempty"`
}
