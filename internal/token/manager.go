// Package token manages the credential lifecycle: CRUD over the credential
// store plus refresh coordination. Staleness is evaluated by callers via
// domain.Credential.Stale; the manager stays a thin accessor over persisted
// state, except that it serializes refreshes per (userId, provider) key so
// concurrent syncs never race a provider's token rotation.
package token

import (
	"context"
	"time"

	"vitalsync/internal/domain"
	"vitalsync/internal/ports"

	"github.com/pkg/errors"
	"golang.org/x/sync/singleflight"
)

// refreshTimeout bounds one token rotation against the provider. The flight
// runs on its own deadline, not the first caller's, so late arrivals sharing
// the result are not failed by another request's cancellation.
const refreshTimeout = 10 * time.Second

type Manager struct {
	repo    ports.CredentialRepository
	refresh singleflight.Group
}

func NewManager(repo ports.CredentialRepository) *Manager {
	return &Manager{repo: repo}
}

func (m *Manager) Get(ctx context.Context, userID string, provider domain.Provider) (domain.Credential, error) {
	return m.repo.Find(ctx, userID, provider)
}

func (m *Manager) List(ctx context.Context, userID string) ([]domain.Credential, error) {
	return m.repo.FindByUser(ctx, userID)
}

func (m *Manager) Create(ctx context.Context, cred domain.Credential) (domain.Credential, error) {
	return m.repo.Create(ctx, cred)
}

func (m *Manager) Update(ctx context.Context, userID string, provider domain.Provider, update ports.CredentialUpdate) (domain.Credential, error) {
	return m.repo.Update(ctx, userID, provider, update)
}

// Delete disconnects a provider. Idempotent: deleting an absent credential
// succeeds.
func (m *Manager) Delete(ctx context.Context, userID string, provider domain.Provider) error {
	return m.repo.Delete(ctx, userID, provider)
}

// Upsert persists the result of an authorization: the first successful auth
// creates the credential, a re-authorization overwrites the token fields.
func (m *Manager) Upsert(ctx context.Context, userID string, provider domain.Provider, tok ports.Token) (domain.Credential, error) {
	update := updateFromToken(tok, time.Now())

	cred, err := m.repo.Update(ctx, userID, provider, update)
	if err == nil {
		return cred, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return domain.Credential{}, err
	}

	fresh := domain.Credential{
		UserID:      userID,
		Provider:    provider,
		AccessToken: tok.AccessToken,
	}
	fresh.RefreshToken = update.RefreshToken
	fresh.ExternalUserID = update.ExternalUserID
	fresh.ExpiresAt = update.ExpiresAt

	return m.repo.Create(ctx, fresh)
}

// Refresh rotates the access token of a stale credential. Calls for the same
// (userId, provider) key are collapsed into a single in-flight refresh; late
// arrivals share its result. The stored external user id is never touched.
func (m *Manager) Refresh(ctx context.Context, userID string, provider domain.Provider, adapter ports.ProviderAdapter) (domain.Credential, error) {
	key := userID + ":" + string(provider)

	v, err, _ := m.refresh.Do(key, func() (any, error) {
		// The flight's result is shared across callers, so it must not die
		// with whichever caller happened to start it.
		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), refreshTimeout)
		defer cancel()

		current, err := m.repo.Find(ctx, userID, provider)
		if err != nil {
			return nil, err
		}

		// Another flight may have rotated the token while we queued.
		if !current.Stale(time.Now()) {
			return current, nil
		}

		if !current.Refreshable() {
			return nil, errors.Wrap(domain.ErrRefreshRejected, "credential has no refresh token")
		}

		tok, err := adapter.Refresh(ctx, *current.RefreshToken)
		if err != nil {
			return nil, err
		}

		update := updateFromToken(tok, time.Now())
		update.ExternalUserID = nil

		return m.repo.Update(ctx, userID, provider, update)
	})
	if err != nil {
		return domain.Credential{}, err
	}

	return v.(domain.Credential), nil
}

func updateFromToken(tok ports.Token, now time.Time) ports.CredentialUpdate {
	update := ports.CredentialUpdate{
		AccessToken: &tok.AccessToken,
	}
	if tok.RefreshToken != "" {
		rt := tok.RefreshToken
		update.RefreshToken = &rt
	}
	if tok.ExternalUserID != "" {
		id := tok.ExternalUserID
		update.ExternalUserID = &id
	}
	if tok.ExpiresIn > 0 {
		expiresAt := now.Add(time.Duration(tok.ExpiresIn) * time.Second).UTC()
		update.ExpiresAt = &expiresAt
	}
	return update
}
