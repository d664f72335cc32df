package ports

import (
	"context"
	"time"

	"vitalsync/internal/domain"
)

// CredentialUpdate carries the fields a credential update may touch. Nil fields
// are left unchanged, so a token refresh never clobbers ExternalUserID.
type CredentialUpdate struct {
	AccessToken    *string
	RefreshToken   *string
	ExternalUserID *string
	ExpiresAt      *time.Time
}

type CredentialRepository interface {
	Find(ctx context.Context, userID string, provider domain.Provider) (domain.Credential, error)
	FindByUser(ctx context.Context, userID string) ([]domain.Credential, error)
	FindByExternalUserID(ctx context.Context, provider domain.Provider, externalUserID string) (domain.Credential, error)
	Create(ctx context.Context, cred domain.Credential) (domain.Credential, error)
	Update(ctx context.Context, userID string, provider domain.Provider, update CredentialUpdate) (domain.Credential, error)
	Delete(ctx context.Context, userID string, provider domain.Provider) error
}

// BiometricRepository is insert-only: records are never mutated, each sync or
// webhook event appends a new one.
type BiometricRepository interface {
	Save(ctx context.Context, rec domain.BiometricRecord) (domain.BiometricRecord, error)
	FindRecent(ctx context.Context, userID string, limit int64) ([]domain.BiometricRecord, error)
}

// Token is the result of an OAuth code exchange or refresh.
type Token struct {
	AccessToken    string
	RefreshToken   string
	ExternalUserID string
	// ExpiresIn is the token lifetime in seconds; 0 means non-expiring.
	ExpiresIn int
}

// RawMetrics is a provider-specific metrics payload, consumed by the transform
// package which knows the concrete shape per provider.
type RawMetrics any

// ProviderAdapter is the capability set every external platform integration
// implements. The Samsung adapter fulfils it in a degenerate way: authorization
// is a mocked redirect, there is no refresh flow, and FetchMetrics always fails
// because its data arrives via webhook push only.
type ProviderAdapter interface {
	Provider() domain.Provider
	AuthorizationURL(userID string) string
	ExchangeCode(ctx context.Context, code string) (Token, error)
	Refresh(ctx context.Context, refreshToken string) (Token, error)
	FetchMetrics(ctx context.Context, accessToken string, window int) (RawMetrics, error)
}
