package whoop

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"vitalsync/internal/domain"
	"vitalsync/internal/ports"

	"github.com/pkg/errors"
	"golang.org/x/oauth2"
)

// Adapter integrates the WHOOP developer API: a real OAuth2 authorization-code
// flow plus pull-based metrics across the recovery, sleep and cycle endpoints.
type Adapter struct {
	oauth   *oauth2.Config
	apiBase string
	client  *http.Client
}

type Config struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	AuthURL      string
	TokenURL     string
	APIBase      string
}

func NewAdapter(cfg Config, client *http.Client) *Adapter {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}

	return &Adapter{
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       []string{"read:recovery", "read:sleep", "read:cycles", "read:profile", "offline"},
			Endpoint: oauth2.Endpoint{
				AuthURL:  cfg.AuthURL,
				TokenURL: cfg.TokenURL,
			},
		},
		apiBase: cfg.APIBase,
		client:  client,
	}
}

func (a *Adapter) Provider() domain.Provider {
	return domain.ProviderWhoop
}

// AuthorizationURL carries the user id in the OAuth state parameter so the
// callback can bind the exchanged tokens to the right user.
func (a *Adapter) AuthorizationURL(userID string) string {
	return a.oauth.AuthCodeURL(userID, oauth2.AccessTypeOffline)
}

func (a *Adapter) ExchangeCode(ctx context.Context, code string) (ports.Token, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, a.client)

	tok, err := a.oauth.Exchange(ctx, code)
	if err != nil {
		return ports.Token{}, errors.Wrap(err, "failed to exchange authorization code")
	}

	token := tokenFromOAuth(tok)

	// Resolve the WHOOP user id so webhook-less flows can still correlate
	// provider data back to our user. Best effort: the exchange stands even
	// when the profile endpoint is down.
	if id, err := a.fetchProfileID(ctx, token.AccessToken); err == nil {
		token.ExternalUserID = id
	}

	return token, nil
}

func (a *Adapter) Refresh(ctx context.Context, refreshToken string) (ports.Token, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, a.client)

	src := a.oauth.TokenSource(ctx, &oauth2.Token{RefreshToken: refreshToken})
	tok, err := src.Token()
	if err != nil {
		var retrieve *oauth2.RetrieveError
		if errors.As(err, &retrieve) {
			return ports.Token{}, errors.Wrap(domain.ErrRefreshRejected, retrieve.Error())
		}
		return ports.Token{}, errors.Wrap(domain.ErrProviderUnavailable, err.Error())
	}

	return tokenFromOAuth(tok), nil
}

func tokenFromOAuth(tok *oauth2.Token) ports.Token {
	t := ports.Token{
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
	}
	if !tok.Expiry.IsZero() {
		t.ExpiresIn = int(time.Until(tok.Expiry).Seconds())
	}
	return t
}

type profileResponse struct {
	UserID int64 `json:"user_id"`
}

func (a *Adapter) fetchProfileID(ctx context.Context, accessToken string) (string, error) {
	var profile profileResponse
	if err := a.get(ctx, accessToken, "/v1/user/profile/basic", nil, &profile); err != nil {
		return "", err
	}

	return fmt.Sprintf("%d", profile.UserID), nil
}

// Metrics is the raw WHOOP payload: the three pull endpoints fetched for the
// most recent window of records. The transform package maps it to the
// canonical record.
type Metrics struct {
	Recovery []RecoveryRecord
	Sleep    []SleepRecord
	Cycles   []CycleRecord
}

type RecoveryRecord struct {
	CreatedAt time.Time      `json:"created_at"`
	Score     *RecoveryScore `json:"score"`
}

type RecoveryScore struct {
	RecoveryScore    *float64 `json:"recovery_score"`
	HRVRmssdMilli    *float64 `json:"hrv_rmssd_milli"`
	RestingHeartRate *float64 `json:"resting_heart_rate"`
}

type SleepRecord struct {
	Start time.Time   `json:"start"`
	End   time.Time   `json:"end"`
	Score *SleepScore `json:"score"`
}

type SleepScore struct {
	SleepPerformancePercentage *float64 `json:"sleep_performance_percentage"`
}

type CycleRecord struct {
	Start time.Time   `json:"start"`
	Score *CycleScore `json:"score"`
}

type CycleScore struct {
	Strain *float64 `json:"strain"`
}

// FetchMetrics issues three independent calls for the most recent window of
// records. Any failed call makes the whole fetch fail; the orchestrator then
// falls back to simulated data.
func (a *Adapter) FetchMetrics(ctx context.Context, accessToken string, window int) (ports.RawMetrics, error) {
	query := map[string]string{"limit": fmt.Sprintf("%d", window)}

	var metrics Metrics

	var recovery struct {
		Records []RecoveryRecord `json:"records"`
	}
	if err := a.get(ctx, accessToken, "/v1/recovery", query, &recovery); err != nil {
		return nil, err
	}
	metrics.Recovery = recovery.Records

	var sleep struct {
		Records []SleepRecord `json:"records"`
	}
	if err := a.get(ctx, accessToken, "/v1/activity/sleep", query, &sleep); err != nil {
		return nil, err
	}
	metrics.Sleep = sleep.Records

	var cycles struct {
		Records []CycleRecord `json:"records"`
	}
	if err := a.get(ctx, accessToken, "/v1/cycle", query, &cycles); err != nil {
		return nil, err
	}
	metrics.Cycles = cycles.Records

	return metrics, nil
}

func (a *Adapter) get(ctx context.Context, accessToken, path string, query map[string]string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.apiBase+path, nil)
	if err != nil {
		return errors.Wrap(err, "failed to build request")
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	if len(query) > 0 {
		q := req.URL.Query()
		for k, v := range query {
			q.Set(k, v)
		}
		req.URL.RawQuery = q.Encode()
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return errors.Wrap(domain.ErrProviderUnavailable, err.Error())
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return errors.Wrapf(domain.ErrProviderUnavailable, "GET %s returned %d", path, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.Wrapf(domain.ErrProviderUnavailable, "failed to decode %s response: %v", path, err)
	}

	return nil
}
