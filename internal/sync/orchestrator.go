// Package sync drives one synchronization pass across every provider a user
// has connected. Providers are processed independently and concurrently; a
// failure in one never aborts the others, and a failed fetch degrades to
// simulated data instead of failing the sync.
package sync

import (
	"context"
	"sync"
	"time"

	"vitalsync/internal/domain"
	"vitalsync/internal/ports"
	"vitalsync/internal/simulate"
	"vitalsync/internal/token"
	"vitalsync/internal/transform"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

const (
	// DefaultWindow is how many recent records are requested per provider.
	DefaultWindow = 7
	// DefaultProviderTimeout bounds one provider's refresh plus fetch. A
	// timeout counts as a fetch failure and triggers the simulator fallback.
	DefaultProviderTimeout = 10 * time.Second
)

type Orchestrator struct {
	log        *zap.SugaredLogger
	tokens     *token.Manager
	biometrics ports.BiometricRepository
	adapters   map[domain.Provider]ports.ProviderAdapter
	window     int
	timeout    time.Duration
}

func NewOrchestrator(log *zap.SugaredLogger, tokens *token.Manager, biometrics ports.BiometricRepository, adapters []ports.ProviderAdapter) *Orchestrator {
	byProvider := make(map[domain.Provider]ports.ProviderAdapter, len(adapters))
	for _, a := range adapters {
		byProvider[a.Provider()] = a
	}

	return &Orchestrator{
		log:        log,
		tokens:     tokens,
		biometrics: biometrics,
		adapters:   byProvider,
		window:     DefaultWindow,
		timeout:    DefaultProviderTimeout,
	}
}

// WithWindow overrides the per-provider fetch window.
func (o *Orchestrator) WithWindow(window int) *Orchestrator {
	if window > 0 {
		o.window = window
	}
	return o
}

// WithTimeout overrides the per-provider deadline.
func (o *Orchestrator) WithTimeout(timeout time.Duration) *Orchestrator {
	if timeout > 0 {
		o.timeout = timeout
	}
	return o
}

// SyncUser synchronizes every provider the user has a credential for and
// returns exactly one outcome per connected provider. A user with no
// connected providers gets an empty list, not an error.
func (o *Orchestrator) SyncUser(ctx context.Context, userID string) ([]domain.SyncOutcome, error) {
	creds, err := o.tokens.List(ctx, userID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load credentials")
	}

	outcomes := make([]domain.SyncOutcome, len(creds))

	var wg sync.WaitGroup
	for i, cred := range creds {
		wg.Add(1)
		go func(i int, cred domain.Credential) {
			defer wg.Done()
			outcomes[i] = o.syncProvider(ctx, cred)
		}(i, cred)
	}
	wg.Wait()

	return outcomes, nil
}

func (o *Orchestrator) syncProvider(ctx context.Context, cred domain.Credential) domain.SyncOutcome {
	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	log := o.log.With("provider", cred.Provider, "userId", cred.UserID, "syncId", uuid.NewString())

	adapter, ok := o.adapters[cred.Provider]
	if !ok {
		log.Errorw("no adapter registered for provider")
		return domain.SyncOutcome{
			Provider: cred.Provider,
			Status:   domain.SyncError,
			Error:    "no adapter registered for provider",
		}
	}

	if cred.Stale(time.Now()) && cred.Refreshable() {
		refreshed, err := o.tokens.Refresh(ctx, cred.UserID, cred.Provider, adapter)
		switch {
		case err == nil:
			cred = refreshed
		case errors.Is(err, domain.ErrRefreshRejected):
			log.Warnw("refresh rejected, re-authorization required", "error", err)
			return domain.SyncOutcome{
				Provider: cred.Provider,
				Status:   domain.SyncError,
				Error:    "authorization expired, please reconnect the provider",
			}
		default:
			// Transient refresh failure: carry on with the stale token, the
			// fetch below will fail into the simulator fallback.
			log.Warnw("refresh failed", "error", err)
		}
	}

	var rec domain.BiometricRecord
	raw, err := adapter.FetchMetrics(ctx, cred.AccessToken, o.window)
	if err == nil {
		rec, err = transform.Canonical(cred.Provider, cred.UserID, raw)
	}
	if err != nil {
		log.Warnw("metrics fetch failed, serving simulated data", "error", err)
		rec = simulate.Record(cred.UserID, deviceTypeFor(cred.Provider))
	}

	saved, err := o.biometrics.Save(ctx, rec)
	if err != nil {
		log.Errorw("failed to persist biometric record", "error", err)
		return domain.SyncOutcome{
			Provider: cred.Provider,
			Status:   domain.SyncError,
			Error:    "failed to persist biometric record",
		}
	}

	return domain.SyncOutcome{
		Provider: cred.Provider,
		Status:   domain.SyncSuccess,
		Record:   &saved,
	}
}

// deviceTypeFor picks the fallback device tag when no real payload named the
// reporting device.
func deviceTypeFor(provider domain.Provider) string {
	if provider == domain.ProviderSamsung {
		return domain.DeviceTypeGalaxyWatch
	}
	return domain.DeviceTypeWhoop
}
