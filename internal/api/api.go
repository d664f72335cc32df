package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"vitalsync/internal/domain"
	"vitalsync/internal/ports"
	"vitalsync/internal/providers/samsung"
	"vitalsync/internal/token"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Synchronizer runs one sync pass for a user across all connected providers.
type Synchronizer interface {
	SyncUser(ctx context.Context, userID string) ([]domain.SyncOutcome, error)
}

// EventIngestor processes pushed webhook events.
type EventIngestor interface {
	HandleEvent(ctx context.Context, ev samsung.Event) (*domain.BiometricRecord, error)
}

type API struct {
	log        *zap.SugaredLogger
	tokens     *token.Manager
	sync       Synchronizer
	ingest     EventIngestor
	biometrics ports.BiometricRepository
	adapters   map[domain.Provider]ports.ProviderAdapter
	validate   *validator.Validate
}

func NewAPI(log *zap.SugaredLogger, tokens *token.Manager, sync Synchronizer, ingest EventIngestor, biometrics ports.BiometricRepository, adapters []ports.ProviderAdapter) *API {
	byProvider := make(map[domain.Provider]ports.ProviderAdapter, len(adapters))
	for _, a := range adapters {
		byProvider[a.Provider()] = a
	}

	return &API{
		log:        log,
		tokens:     tokens,
		sync:       sync,
		ingest:     ingest,
		biometrics: biometrics,
		adapters:   byProvider,
		validate:   validator.New(),
	}
}

func (api *API) Routes() *chi.Mux {
	r := chi.NewRouter()

	r.Use(api.LoggingMiddleware)

	// home endpoint
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		respondWithJSON(w, "VitalSync API")
	})

	r.Route("/providers/{provider}", func(r chi.Router) {
		r.Get("/connect", api.Connect)
		r.Get("/callback", api.Callback)
		r.Delete("/", api.Disconnect)
	})

	r.Route("/users/{id}", func(r chi.Router) {
		r.Post("/sync", api.SyncUser)
		r.Get("/records", api.GetRecords)
	})

	r.Post("/webhooks/samsung", api.SamsungWebhook)

	return r
}

// Connect redirects to the provider's authorization URL. The user identity is
// always explicit; there is no implicit default user.
func (api *API) Connect(w http.ResponseWriter, r *http.Request) {
	log := api.log.With("method", "Connect")

	adapter, ok := api.adapterFromPath(w, r)
	if !ok {
		return
	}

	userID := r.URL.Query().Get("userId")
	if err := api.validate.Var(userID, "required"); err != nil {
		log.Errorf("validation error: %v", err)
		http.Error(w, "userId is required", http.StatusBadRequest)
		return
	}

	http.Redirect(w, r, adapter.AuthorizationURL(userID), http.StatusFound)
}

type CallbackParams struct {
	Code  string `validate:"required"`
	State string `validate:"required"`
}

// Callback finishes the authorization flow: exchanges the code for tokens and
// persists the credential. First authorization creates it, re-authorization
// overwrites the token fields.
func (api *API) Callback(w http.ResponseWriter, r *http.Request) {
	log := api.log.With("method", "Callback")

	adapter, ok := api.adapterFromPath(w, r)
	if !ok {
		return
	}

	params := CallbackParams{
		Code:  r.URL.Query().Get("code"),
		State: r.URL.Query().Get("state"),
	}
	if err := api.validate.Struct(params); err != nil {
		log.Errorf("validation error: %v", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	ctx := r.Context()
	tok, err := adapter.ExchangeCode(ctx, params.Code)
	if err != nil {
		log.Errorf("code exchange failed: %v", err)
		http.Error(w, "authorization failed", http.StatusBadGateway)
		return
	}

	cred, err := api.tokens.Upsert(ctx, params.State, adapter.Provider(), tok)
	if err != nil {
		log.Errorf("failed to persist credential: %v", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	respondWithJSON(w, map[string]any{
		"provider": cred.Provider,
		"status":   "connected",
	})
}

// Disconnect deletes the credential. Idempotent: disconnecting an already
// disconnected provider succeeds.
func (api *API) Disconnect(w http.ResponseWriter, r *http.Request) {
	log := api.log.With("method", "Disconnect")

	adapter, ok := api.adapterFromPath(w, r)
	if !ok {
		return
	}

	userID := r.URL.Query().Get("userId")
	if err := api.validate.Var(userID, "required"); err != nil {
		log.Errorf("validation error: %v", err)
		http.Error(w, "userId is required", http.StatusBadRequest)
		return
	}

	if err := api.tokens.Delete(r.Context(), userID, adapter.Provider()); err != nil {
		log.Errorf("failed to delete credential: %v", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// SyncResponse holds the per-provider outcomes of one sync request.
type SyncResponse struct {
	Results []domain.SyncOutcome `json:"results"`
}

func (api *API) SyncUser(w http.ResponseWriter, r *http.Request) {
	log := api.log.With("method", "SyncUser")

	userID := chi.URLParam(r, "id")
	if err := api.validate.Var(userID, "required"); err != nil {
		log.Errorf("validation error: %v", err)
		http.Error(w, "user id is required", http.StatusBadRequest)
		return
	}

	outcomes, err := api.sync.SyncUser(r.Context(), userID)
	if err != nil {
		log.Errorf("sync failed: %v", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	respondWithJSON(w, SyncResponse{Results: outcomes})
}

// RecordsResponse holds the most recent canonical records for a user.
type RecordsResponse struct {
	Records []domain.BiometricRecord `json:"records"`
}

func (api *API) GetRecords(w http.ResponseWriter, r *http.Request) {
	log := api.log.With("method", "GetRecords")

	userID := chi.URLParam(r, "id")
	if err := api.validate.Var(userID, "required"); err != nil {
		log.Errorf("validation error: %v", err)
		http.Error(w, "user id is required", http.StatusBadRequest)
		return
	}

	limit := int64(30)
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || parsed < 1 {
			http.Error(w, "limit must be a positive integer", http.StatusBadRequest)
			return
		}
		limit = parsed
	}

	records, err := api.biometrics.FindRecent(r.Context(), userID, limit)
	if err != nil {
		log.Errorf("failed to fetch records: %v", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if records == nil {
		records = []domain.BiometricRecord{}
	}

	respondWithJSON(w, RecordsResponse{Records: records})
}

// SamsungWebhook ingests a pushed event. Receipt is always acknowledged with
// 200 regardless of processing outcome, so the remote platform never goes
// into a retry storm over our internal failures.
func (api *API) SamsungWebhook(w http.ResponseWriter, r *http.Request) {
	log := api.log.With("method", "SamsungWebhook")

	var ev samsung.Event
	if err := json.NewDecoder(r.Body).Decode(&ev); err != nil {
		log.Warnf("undecodable webhook payload: %v", err)
		respondWithJSON(w, map[string]bool{"received": true})
		return
	}

	rec, err := api.ingest.HandleEvent(r.Context(), ev)
	if err != nil {
		log.Warnf("webhook event dropped: %v", err)
	}
	if rec != nil {
		log.Infow("webhook event ingested", "userId", rec.UserID, "type", ev.Type)
	}

	respondWithJSON(w, map[string]bool{"received": true})
}

// adapterFromPath resolves the {provider} path segment to a registered
// adapter, writing a 400 for unknown provider names.
func (api *API) adapterFromPath(w http.ResponseWriter, r *http.Request) (ports.ProviderAdapter, bool) {
	provider, err := domain.ParseProvider(chi.URLParam(r, "provider"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return nil, false
	}

	adapter, ok := api.adapters[provider]
	if !ok {
		http.Error(w, errors.Wrapf(domain.ErrUnknownProvider, "%s", provider).Error(), http.StatusBadRequest)
		return nil, false
	}

	return adapter, true
}

func respondWithJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(data)
}

func (api *API) LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := NewWrapResponseWriter(w, r.ProtoMajor)

		defer func() {
			api.log.Infow("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytesWritten", ww.BytesWritten(),
			)
		}()

		next.ServeHTTP(ww, r)
	})
}

type wrapResponseWriter struct {
	http.ResponseWriter
	status       int
	bytesWritten int
}

func NewWrapResponseWriter(w http.ResponseWriter, protoMajor int) *wrapResponseWriter {
	// Default the status code to 200
	return &wrapResponseWriter{ResponseWriter: w, status: http.StatusOK}
}

func (wr *wrapResponseWriter) WriteHeader(code int) {
	wr.status = code
	wr.ResponseWriter.WriteHeader(code)
}

func (wr *wrapResponseWriter) Write(b []byte) (int, error) {
	size, err := wr.ResponseWriter.Write(b)
	wr.bytesWritten += size
	return size, err
}

func (wr *wrapResponseWriter) Status() int {
	return wr.status
}

func (wr *wrapResponseWriter) BytesWritten() int {
	return wr.bytesWritten
}
