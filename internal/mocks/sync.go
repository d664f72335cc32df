package mocks

import (
	"context"

	"vitalsync/internal/domain"
	"vitalsync/internal/providers/samsung"

	"github.com/stretchr/testify/mock"
)

// Synchronizer is a mock of api.Synchronizer.
type Synchronizer struct {
	mock.Mock
}

func (_m *Synchronizer) SyncUser(ctx context.Context, userID string) ([]domain.SyncOutcome, error) {
	ret := _m.Called(ctx, userID)

	var r0 []domain.SyncOutcome
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]domain.SyncOutcome)
	}

	return r0, ret.Error(1)
}

// EventIngestor is a mock of api.EventIngestor.
type EventIngestor struct {
	mock.Mock
}

func (_m *EventIngestor) HandleEvent(ctx context.Context, ev samsung.Event) (*domain.BiometricRecord, error) {
	ret := _m.Called(ctx, ev)

	var r0 *domain.BiometricRecord
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*domain.BiometricRecord)
	}

	return r0, ret.Error(1)
}
