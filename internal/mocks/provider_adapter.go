package mocks

import (
	"context"

	"vitalsync/internal/domain"
	"vitalsync/internal/ports"

	"github.com/stretchr/testify/mock"
)

// ProviderAdapter is a mock of ports.ProviderAdapter.
type ProviderAdapter struct {
	mock.Mock
}

func (_m *ProviderAdapter) Provider() domain.Provider {
	ret := _m.Called()
	return ret.Get(0).(domain.Provider)
}

func (_m *ProviderAdapter) AuthorizationURL(userID string) string {
	ret := _m.Called(userID)
	return ret.String(0)
}

func (_m *ProviderAdapter) ExchangeCode(ctx context.Context, code string) (ports.Token, error) {
	ret := _m.Called(ctx, code)
	return ret.Get(0).(ports.Token), ret.Error(1)
}

func (_m *ProviderAdapter) Refresh(ctx context.Context, refreshToken string) (ports.Token, error) {
	ret := _m.Called(ctx, refreshToken)

	var r0 ports.Token
	if rf, ok := ret.Get(0).(func(context.Context, string) ports.Token); ok {
		r0 = rf(ctx, refreshToken)
	} else {
		r0 = ret.Get(0).(ports.Token)
	}

	return r0, ret.Error(1)
}

func (_m *ProviderAdapter) FetchMetrics(ctx context.Context, accessToken string, window int) (ports.RawMetrics, error) {
	ret := _m.Called(ctx, accessToken, window)
	return ret.Get(0), ret.Error(1)
}
