// Package api is the wire client for the remote prayer-time service:
// token-based authentication, location reference data, and monthly
// prayer-time batches.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"sync"
	"time"
)

const (
	defaultBaseURL = "https://awqatsalah.diyanet.gov.tr"
	userAgent      = "vakit/1.0"

	// Tokens are valid for 45 minutes from issue; a request may only use
	// one while at least sessionMargin remains.
	sessionTTL    = 45 * time.Minute
	sessionMargin = time.Minute
)

// Error taxonomy surfaced to callers. The orchestrator maps these to
// degraded modes rather than user-facing crashes.
var (
	ErrNoCredentials   = errors.New("service credentials not configured")
	ErrAuthFailed      = errors.New("authentication failed")
	ErrRequestFailed   = errors.New("request failed")
	ErrInvalidResponse = errors.New("invalid response")
)

// Credentials are the fixed account used against the auth endpoint.
type Credentials struct {
	Email    string
	Password string
}

// CredentialsFromEnv reads VAKIT_EMAIL / VAKIT_PASSWORD. Either being empty
// leaves the client in the no-credentials degraded mode.
func CredentialsFromEnv() Credentials {
	return Credentials{
		Email:    os.Getenv("VAKIT_EMAIL"),
		Password: os.Getenv("VAKIT_PASSWORD"),
	}
}

// Empty reports whether the credentials are unusable.
func (c Credentials) Empty() bool {
	return c.Email == "" || c.Password == ""
}

// Client communicates with the prayer-time service. A session token is
// cached in memory and refreshed transparently before each call; concurrent
// callers may race to re-authenticate, which is harmless (the later token
// simply becomes current).
type Client struct {
	httpClient *http.Client
	creds      Credentials
	// BaseURL is the API base URL. Exported for testing with httptest.
	BaseURL string

	mu      sync.Mutex
	session *AuthSession
}

// NewClient creates a client with sensible defaults.
func NewClient(creds Credentials) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		creds:      creds,
		BaseURL:    defaultBaseURL,
	}
}

// HasCredentials reports whether the client can talk to the service at all.
func (c *Client) HasCredentials() bool {
	return !c.creds.Empty()
}

// envelope is the common response wrapper of every endpoint.
type envelope struct {
	Data    json.RawMessage `json:"data"`
	Success bool            `json:"success"`
	Message string          `json:"message"`
}

type authData struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// Authenticate posts the fixed credentials and caches the returned session.
func (c *Client) Authenticate(ctx context.Context) (*AuthSession, error) {
	if c.creds.Empty() {
		return nil, ErrNoCredentials
	}

	body, err := json.Marshal(struct {
		Email    string `json:"Email"`
		Password string `json:"Password"`
	}{c.creds.Email, c.creds.Password})
	if err != nil {
		return nil, fmt.Errorf("marshal credentials: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/auth", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAuthFailed, err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAuthFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrAuthFailed, resp.StatusCode)
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAuthFailed, err)
	}
	var data authData
	if err := json.Unmarshal(env.Data, &data); err != nil || data.AccessToken == "" {
		return nil, fmt.Errorf("%w: missing token in response", ErrAuthFailed)
	}

	session := &AuthSession{
		AccessToken:  data.AccessToken,
		RefreshToken: data.RefreshToken,
		Expiry:       time.Now().Add(sessionTTL),
	}

	c.mu.Lock()
	c.session = session
	c.mu.Unlock()

	return session, nil
}

// ensureSession returns a usable bearer token, re-authenticating when the
// cached session is absent or inside the expiry margin.
func (c *Client) ensureSession(ctx context.Context) (string, error) {
	c.mu.Lock()
	session := c.session
	c.mu.Unlock()

	if session.usable(time.Now(), sessionMargin) {
		return session.AccessToken, nil
	}

	session, err := c.Authenticate(ctx)
	if err != nil {
		return "", err
	}
	return session.AccessToken, nil
}

// FetchCountries lists all countries known to the service.
func (c *Client) FetchCountries(ctx context.Context) ([]Country, error) {
	var countries []Country
	if err := c.getJSON(ctx, "/countries", &countries); err != nil {
		return nil, err
	}
	return countries, nil
}

// FetchStates lists the states of a country. The returned entries carry the
// parent id locally; the service does not send it.
func (c *Client) FetchStates(ctx context.Context, countryID int) ([]State, error) {
	var states []State
	if err := c.getJSON(ctx, fmt.Sprintf("/states/%d", countryID), &states); err != nil {
		return nil, err
	}
	for i := range states {
		states[i].CountryID = countryID
	}
	return states, nil
}

// FetchCities lists the cities of a state.
func (c *Client) FetchCities(ctx context.Context, stateID int) ([]City, error) {
	var cities []City
	if err := c.getJSON(ctx, fmt.Sprintf("/cities/%d", stateID), &cities); err != nil {
		return nil, err
	}
	for i := range cities {
		cities[i].StateID = stateID
	}
	return cities, nil
}

// FetchMonthlyTimes fetches the daily records for the service-defined
// current-month window. There is no date-range parameter; calling again in a
// later month simply returns the new window.
func (c *Client) FetchMonthlyTimes(ctx context.Context, cityID int) ([]PrayerTimeRecord, error) {
	var records []PrayerTimeRecord
	if err := c.getJSON(ctx, fmt.Sprintf("/times/%d", cityID), &records); err != nil {
		return nil, err
	}
	return records, nil
}

// getJSON performs an authenticated GET and decodes the envelope's data
// field into out. No retries: failures surface directly to the caller.
func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	token, err := c.ensureSession(ctx)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+path, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: status %d", ErrRequestFailed, resp.StatusCode)
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	if !env.Success {
		if env.Message != "" {
			return fmt.Errorf("%w: %s", ErrRequestFailed, env.Message)
		}
		return fmt.Errorf("%w: service reported failure", ErrRequestFailed)
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	return nil
}
