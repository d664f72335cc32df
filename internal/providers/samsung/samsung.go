package samsung

import (
	"context"
	"fmt"
	"net/url"

	"vitalsync/internal/domain"
	"vitalsync/internal/ports"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// Adapter integrates Samsung Health. Unlike WHOOP there is no real OAuth
// round-trip: "authorization" is a redirect straight to our own callback, which
// immediately marks the credential authenticated. Metrics never come through
// FetchMetrics — Samsung pushes them to the webhook endpoint instead.
type Adapter struct {
	callbackURL string
}

func NewAdapter(callbackURL string) *Adapter {
	return &Adapter{callbackURL: callbackURL}
}

func (a *Adapter) Provider() domain.Provider {
	return domain.ProviderSamsung
}

// AuthorizationURL short-circuits the OAuth dance: it points at our own
// callback with a synthetic code, so following it completes the connection in
// one hop.
func (a *Adapter) AuthorizationURL(userID string) string {
	q := url.Values{}
	q.Set("code", "samsung-"+uuid.NewString())
	q.Set("state", userID)
	return a.callbackURL + "?" + q.Encode()
}

// ExchangeCode accepts any code and issues a non-expiring synthetic token.
// The external user id is minted here and later matched against incoming
// webhook events.
func (a *Adapter) ExchangeCode(ctx context.Context, code string) (ports.Token, error) {
	if code == "" {
		return ports.Token{}, errors.New("authorization code is required")
	}

	return ports.Token{
		AccessToken:    uuid.NewString(),
		ExternalUserID: fmt.Sprintf("shealth-%s", uuid.NewString()),
	}, nil
}

// Refresh always fails: there is no refresh flow, the synthetic token never
// expires. Reconnecting is the only recovery path.
func (a *Adapter) Refresh(ctx context.Context, refreshToken string) (ports.Token, error) {
	return ports.Token{}, errors.Wrap(domain.ErrRefreshRejected, "samsung health has no refresh flow")
}

// FetchMetrics always fails: Samsung Health is push-only. The orchestrator
// treats this like any other unavailable provider and serves simulated data.
func (a *Adapter) FetchMetrics(ctx context.Context, accessToken string, window int) (ports.RawMetrics, error) {
	return nil, errors.Wrap(domain.ErrProviderUnavailable, "samsung health data arrives via webhook only")
}

// Event categories pushed by Samsung Health.
const (
	EventBodyComposition = "body-composition"
	EventDailySummary    = "daily-summary"
	EventSleep           = "sleep"
)

// Sub-device names carried in the event's device field.
const (
	DeviceWatch = "watch"
	DeviceRing  = "ring"
)

// Event is a Samsung Health webhook payload.
type Event struct {
	Type           string    `json:"type"`
	ExternalUserID string    `json:"userId"`
	Device         string    `json:"device,omitempty"`
	Data           EventData `json:"data"`
}

// EventData carries the metrics of one event. Every field is optional; which
// ones appear depends on the event type.
type EventData struct {
	SleepScore           *int     `json:"sleepScore,omitempty"`
	SleepDurationMinutes *int     `json:"sleepDurationMinutes,omitempty"`
	HeartRate            *int     `json:"heartRate,omitempty"`
	HRV                  *int     `json:"hrv,omitempty"`
	Weight               *float64 `json:"weight,omitempty"`
	BodyFatPercentage    *float64 `json:"bodyFatPercentage,omitempty"`
	Steps                *int     `json:"steps,omitempty"`
}

// Validate checks the structural minimum for ingestion: a known event type and
// an external user id to resolve against.
func (e Event) Validate() error {
	switch e.Type {
	case EventBodyComposition, EventDailySummary, EventSleep:
	default:
		return errors.Wrapf(domain.ErrInvalidWebhookState, "unknown event type %q", e.Type)
	}
	if e.ExternalUserID == "" {
		return errors.Wrap(domain.ErrInvalidWebhookState, "event carries no user id")
	}
	return nil
}
