// Package ingest handles asynchronous webhook events pushed by Samsung
// Health. Events bypass the sync orchestrator entirely: resolve the owning
// user, transform, persist.
package ingest

import (
	"context"

	"vitalsync/internal/domain"
	"vitalsync/internal/ports"
	"vitalsync/internal/providers/samsung"
	"vitalsync/internal/transform"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

type Ingestor struct {
	log         *zap.SugaredLogger
	credentials ports.CredentialRepository
	biometrics  ports.BiometricRepository
}

func NewIngestor(log *zap.SugaredLogger, credentials ports.CredentialRepository, biometrics ports.BiometricRepository) *Ingestor {
	return &Ingestor{
		log:         log,
		credentials: credentials,
		biometrics:  biometrics,
	}
}

// HandleEvent processes one pushed event. An event whose external user id
// matches no stored credential is dropped without error so the sender gets an
// acknowledgement and stops retrying; in that case both return values are nil.
//
// No deduplication happens here: redelivery of the same event inserts another
// record. A (provider, eventId) ledger would be needed for idempotent delivery.
func (i *Ingestor) HandleEvent(ctx context.Context, ev samsung.Event) (*domain.BiometricRecord, error) {
	if err := ev.Validate(); err != nil {
		return nil, err
	}

	cred, err := i.credentials.FindByExternalUserID(ctx, domain.ProviderSamsung, ev.ExternalUserID)
	if errors.Is(err, domain.ErrNotFound) {
		i.log.Infow("webhook event for unknown external user, dropping",
			"externalUserId", ev.ExternalUserID,
			"type", ev.Type,
		)
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to resolve webhook user")
	}

	rec := transform.FromSamsungEvent(cred.UserID, ev)

	saved, err := i.biometrics.Save(ctx, rec)
	if err != nil {
		return nil, errors.Wrap(err, "failed to persist webhook record")
	}

	i.log.Infow("ingested webhook event",
		"userId", cred.UserID,
		"type", ev.Type,
		"deviceType", saved.DeviceType,
	)

	return &saved, nil
}
