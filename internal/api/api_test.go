package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"vitalsync/internal/domain"
	"vitalsync/internal/mocks"
	"vitalsync/internal/ports"
	"vitalsync/internal/token"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type apiMocks struct {
	credentialRepo *mocks.CredentialRepository
	biometricRepo  *mocks.BiometricRepository
	synchronizer   *mocks.Synchronizer
	ingestor       *mocks.EventIngestor
	whoopAdapter   *mocks.ProviderAdapter
	samsungAdapter *mocks.ProviderAdapter
}

func setupAPI() (*API, *apiMocks) {
	logger, _ := zap.NewDevelopment()
	log := logger.Sugar()

	m := &apiMocks{
		credentialRepo: new(mocks.CredentialRepository),
		biometricRepo:  new(mocks.BiometricRepository),
		synchronizer:   new(mocks.Synchronizer),
		ingestor:       new(mocks.EventIngestor),
		whoopAdapter:   new(mocks.ProviderAdapter),
		samsungAdapter: new(mocks.ProviderAdapter),
	}
	m.whoopAdapter.On("Provider").Return(domain.ProviderWhoop)
	m.samsungAdapter.On("Provider").Return(domain.ProviderSamsung)

	tokens := token.NewManager(m.credentialRepo)
	adapters := []ports.ProviderAdapter{m.whoopAdapter, m.samsungAdapter}

	return NewAPI(log, tokens, m.synchronizer, m.ingestor, m.biometricRepo, adapters), m
}

func serve(apiInstance *API, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r := chi.NewRouter()
	r.Mount("/", apiInstance.Routes())
	r.ServeHTTP(w, req)
	return w
}

func TestSyncUser(t *testing.T) {
	apiInstance, m := setupAPI()

	record := domain.BiometricRecord{UserID: "user-1", DeviceType: domain.DeviceTypeWhoop, RecordedAt: time.Now()}
	outcomes := []domain.SyncOutcome{
		{Provider: domain.ProviderWhoop, Status: domain.SyncSuccess, Record: &record},
		{Provider: domain.ProviderSamsung, Status: domain.SyncError, Error: "authorization expired, please reconnect the provider"},
	}
	m.synchronizer.On("SyncUser", mock.Anything, "user-1").Return(outcomes, nil)

	req, err := http.NewRequest("POST", "/users/user-1/sync", nil)
	require.NoError(t, err)

	w := serve(apiInstance, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response SyncResponse
	err = json.NewDecoder(w.Body).Decode(&response)
	require.NoError(t, err)
	require.Len(t, response.Results, 2)
	assert.Equal(t, domain.ProviderWhoop, response.Results[0].Provider)
	assert.Equal(t, domain.SyncSuccess, response.Results[0].Status)
	assert.Equal(t, domain.SyncError, response.Results[1].Status)
}

func TestSyncUserWithoutProviders(t *testing.T) {
	apiInstance, m := setupAPI()

	m.synchronizer.On("SyncUser", mock.Anything, "user-2").Return([]domain.SyncOutcome{}, nil)

	req, err := http.NewRequest("POST", "/users/user-2/sync", nil)
	require.NoError(t, err)

	w := serve(apiInstance, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response SyncResponse
	err = json.NewDecoder(w.Body).Decode(&response)
	require.NoError(t, err)
	assert.Empty(t, response.Results)
}

func TestConnect(t *testing.T) {
	apiInstance, m := setupAPI()

	m.whoopAdapter.On("AuthorizationURL", "user-1").
		Return("https://api.prod.whoop.com/oauth/oauth2/auth?client_id=abc&state=user-1")

	testCases := []struct {
		name           string
		url            string
		expectCode     int
		expectLocation string
	}{
		{
			name:           "Valid Request",
			url:            "/providers/whoop/connect?userId=user-1",
			expectCode:     http.StatusFound,
			expectLocation: "https://api.prod.whoop.com/oauth/oauth2/auth?client_id=abc&state=user-1",
		},
		{
			name:       "Missing User ID",
			url:        "/providers/whoop/connect",
			expectCode: http.StatusBadRequest,
		},
		{
			name:       "Unknown Provider",
			url:        "/providers/fitbit/connect?userId=user-1",
			expectCode: http.StatusBadRequest,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req, err := http.NewRequest("GET", tc.url, nil)
			require.NoError(t, err)

			w := serve(apiInstance, req)

			assert.Equal(t, tc.expectCode, w.Code)
			if tc.expectLocation != "" {
				assert.Equal(t, tc.expectLocation, w.Header().Get("Location"))
			}
		})
	}
}

func TestCallbackCreatesCredential(t *testing.T) {
	apiInstance, m := setupAPI()

	m.whoopAdapter.On("ExchangeCode", mock.Anything, "auth-code-1").Return(ports.Token{
		AccessToken:    "at-1",
		RefreshToken:   "rt-1",
		ExternalUserID: "100042",
		ExpiresIn:      3600,
	}, nil)

	// First authorization: nothing to update, credential gets created.
	m.credentialRepo.On("Update", mock.Anything, "user-1", domain.ProviderWhoop, mock.AnythingOfType("ports.CredentialUpdate")).
		Return(domain.Credential{}, domain.ErrNotFound)
	m.credentialRepo.On("Create", mock.Anything, mock.AnythingOfType("domain.Credential")).
		Return(func(ctx context.Context, cred domain.Credential) domain.Credential { return cred }, nil)

	req, err := http.NewRequest("GET", "/providers/whoop/callback?code=auth-code-1&state=user-1", nil)
	require.NoError(t, err)

	w := serve(apiInstance, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "connected")
	m.credentialRepo.AssertCalled(t, "Create", mock.Anything, mock.AnythingOfType("domain.Credential"))
}

func TestCallbackMissingCode(t *testing.T) {
	apiInstance, _ := setupAPI()

	req, err := http.NewRequest("GET", "/providers/whoop/callback?state=user-1", nil)
	require.NoError(t, err)

	w := serve(apiInstance, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDisconnect(t *testing.T) {
	apiInstance, m := setupAPI()

	m.credentialRepo.On("Delete", mock.Anything, "user-1", domain.ProviderWhoop).Return(nil)

	testCases := []struct {
		name       string
		url        string
		expectCode int
	}{
		{
			name:       "Valid Request",
			url:        "/providers/whoop/?userId=user-1",
			expectCode: http.StatusNoContent,
		},
		{
			name:       "Second Delete Still Succeeds",
			url:        "/providers/whoop/?userId=user-1",
			expectCode: http.StatusNoContent,
		},
		{
			name:       "Unknown Provider",
			url:        "/providers/garmin/?userId=user-1",
			expectCode: http.StatusBadRequest,
		},
		{
			name:       "Missing User ID",
			url:        "/providers/whoop/",
			expectCode: http.StatusBadRequest,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req, err := http.NewRequest("DELETE", tc.url, nil)
			require.NoError(t, err)

			w := serve(apiInstance, req)

			assert.Equal(t, tc.expectCode, w.Code)
		})
	}
}

func TestSamsungWebhookAlwaysAcknowledges(t *testing.T) {
	apiInstance, m := setupAPI()

	// Unknown external user: dropped without error, still acknowledged.
	m.ingestor.On("HandleEvent", mock.Anything, mock.AnythingOfType("samsung.Event")).Return(nil, nil)

	body := map[string]any{
		"type":   "sleep",
		"userId": "shealth-ghost",
		"data":   map[string]any{"sleepScore": 80},
	}
	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req, err := http.NewRequest("POST", "/webhooks/samsung", bytes.NewReader(payload))
	require.NoError(t, err)

	w := serve(apiInstance, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"received":true`)
}

func TestSamsungWebhookAcknowledgesUndecodablePayload(t *testing.T) {
	apiInstance, m := setupAPI()

	req, err := http.NewRequest("POST", "/webhooks/samsung", strings.NewReader("not-json"))
	require.NoError(t, err)

	w := serve(apiInstance, req)

	assert.Equal(t, http.StatusOK, w.Code)
	m.ingestor.AssertNotCalled(t, "HandleEvent", mock.Anything, mock.Anything)
}

func TestGetRecords(t *testing.T) {
	apiInstance, m := setupAPI()

	records := []domain.BiometricRecord{
		{UserID: "user-1", DeviceType: domain.DeviceTypeGalaxyRing, RecordedAt: time.Now()},
		{UserID: "user-1", DeviceType: domain.DeviceTypeWhoop, RecordedAt: time.Now().Add(-24 * time.Hour)},
	}
	m.biometricRepo.On("FindRecent", mock.Anything, "user-1", int64(30)).Return(records, nil)

	req, err := http.NewRequest("GET", "/users/user-1/records", nil)
	require.NoError(t, err)

	w := serve(apiInstance, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response RecordsResponse
	err = json.NewDecoder(w.Body).Decode(&response)
	require.NoError(t, err)
	assert.Len(t, response.Records, 2)
}

func TestGetRecordsInvalidLimit(t *testing.T) {
	apiInstance, _ := setupAPI()

	for _, limit := range []string{"0", "-3", "abc"} {
		req, err := http.NewRequest("GET", fmt.Sprintf("/users/user-1/records?limit=%s", limit), nil)
		require.NoError(t, err)

		w := serve(apiInstance, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	}
}
