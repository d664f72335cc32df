package mocks

import (
	"context"

	"vitalsync/internal/domain"

	"github.com/stretchr/testify/mock"
)

// BiometricRepository is a mock of ports.BiometricRepository.
type BiometricRepository struct {
	mock.Mock
}

func (_m *BiometricRepository) Save(ctx context.Context, rec domain.BiometricRecord) (domain.BiometricRecord, error) {
	ret := _m.Called(ctx, rec)

	var r0 domain.BiometricRecord
	if rf, ok := ret.Get(0).(func(context.Context, domain.BiometricRecord) domain.BiometricRecord); ok {
		r0 = rf(ctx, rec)
	} else {
		r0 = ret.Get(0).(domain.BiometricRecord)
	}

	return r0, ret.Error(1)
}

func (_m *BiometricRepository) FindRecent(ctx context.Context, userID string, limit int64) ([]domain.BiometricRecord, error) {
	ret := _m.Called(ctx, userID, limit)

	var r0 []domain.BiometricRecord
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]domain.BiometricRecord)
	}

	return r0, ret.Error(1)
}
