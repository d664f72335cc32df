package mocks

import (
	"context"

	"vitalsync/internal/domain"
	"vitalsync/internal/ports"

	"github.com/stretchr/testify/mock"
)

// CredentialRepository is a mock of ports.CredentialRepository.
type CredentialRepository struct {
	mock.Mock
}

func (_m *CredentialRepository) Find(ctx context.Context, userID string, provider domain.Provider) (domain.Credential, error) {
	ret := _m.Called(ctx, userID, provider)

	var r0 domain.Credential
	if rf, ok := ret.Get(0).(func(context.Context, string, domain.Provider) domain.Credential); ok {
		r0 = rf(ctx, userID, provider)
	} else {
		r0 = ret.Get(0).(domain.Credential)
	}

	return r0, ret.Error(1)
}

func (_m *CredentialRepository) FindByUser(ctx context.Context, userID string) ([]domain.Credential, error) {
	ret := _m.Called(ctx, userID)

	var r0 []domain.Credential
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]domain.Credential)
	}

	return r0, ret.Error(1)
}

func (_m *CredentialRepository) FindByExternalUserID(ctx context.Context, provider domain.Provider, externalUserID string) (domain.Credential, error) {
	ret := _m.Called(ctx, provider, externalUserID)
	return ret.Get(0).(domain.Credential), ret.Error(1)
}

func (_m *CredentialRepository) Create(ctx context.Context, cred domain.Credential) (domain.Credential, error) {
	ret := _m.Called(ctx, cred)

	var r0 domain.Credential
	if rf, ok := ret.Get(0).(func(context.Context, domain.Credential) domain.Credential); ok {
		r0 = rf(ctx, cred)
	} else {
		r0 = ret.Get(0).(domain.Credential)
	}

	return r0, ret.Error(1)
}

func (_m *CredentialRepository) Update(ctx context.Context, userID string, provider domain.Provider, update ports.CredentialUpdate) (domain.Credential, error) {
	ret := _m.Called(ctx, userID, provider, update)

	var r0 domain.Credential
	if rf, ok := ret.Get(0).(func(context.Context, string, domain.Provider, ports.CredentialUpdate) domain.Credential); ok {
		r0 = rf(ctx, userID, provider, update)
	} else {
		r0 = ret.Get(0).(domain.Credential)
	}

	return r0, ret.Error(1)
}

func (_m *CredentialRepository) Delete(ctx context.Context, userID string, provider domain.Provider) error {
	ret := _m.Called(ctx, userID, provider)
	return ret.Error(0)
}
