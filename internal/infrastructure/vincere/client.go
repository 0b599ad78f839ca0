package vincere

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"crew-match/internal/config"
)

// Client talks to the Vincere ATS with the OAuth2 refresh-token flow.
// Every API call carries the short-lived id_token; the token is refreshed
// five minutes before expiry and once immediately on a 401.
type Client struct {
	httpClient *http.Client

	clientID     string
	apiKey       string
	refreshToken string
	authURL      string
	apiBaseURL   string

	mu        sync.Mutex
	idToken   string
	expiresAt time.Time

	now func() time.Time
}

func NewClient(cfg config.VincereConfig) (*Client, error) {
	if strings.TrimSpace(cfg.ClientID) == "" || strings.TrimSpace(cfg.APIKey) == "" || strings.TrimSpace(cfg.RefreshToken) == "" {
		return nil, errors.New("vincere client id, api key and refresh token are required")
	}

	authURL := strings.TrimSpace(cfg.AuthURL)
	if authURL == "" {
		authURL = "https://id.vincere.io/oauth2/token"
	}
	apiBaseURL := strings.TrimRight(strings.TrimSpace(cfg.APIBaseURL), "/")
	if apiBaseURL == "" {
		return nil, errors.New("vincere api base url is required")
	}

	return &Client{
		httpClient:   &http.Client{Timeout: 15 * time.Second},
		clientID:     cfg.ClientID,
		apiKey:       cfg.APIKey,
		refreshToken: cfg.RefreshToken,
		authURL:      authURL,
		apiBaseURL:   apiBaseURL,
		now:          time.Now,
	}, nil
}

type tokenResponse struct {
	IDToken   string `json:"id_token"`
	ExpiresIn int    `json:"expires_in"`
}

func (c *Client) token(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.idToken != "" && c.now().Before(c.expiresAt) {
		return c.idToken, nil
	}

	form := url.Values{
		"client_id":     {c.clientID},
		"grant_type":    {"refresh_token"},
		"refresh_token": {c.refreshToken},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.authURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("vincere authentication: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("vincere authentication failed: %d %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var tok tokenResponse
	if err := json.Unmarshal(body, &tok); err != nil {
		return "", fmt.Errorf("decode vincere token: %w", err)
	}
	if tok.IDToken == "" {
		return "", errors.New("no id_token returned from vincere authentication")
	}

	expiresIn := tok.ExpiresIn
	if expiresIn <= 0 {
		expiresIn = 3600
	}
	c.idToken = tok.IDToken
	c.expiresAt = c.now().Add(time.Duration(expiresIn-300) * time.Second)

	return c.idToken, nil
}

func (c *Client) invalidateToken() {
	c.mu.Lock()
	c.idToken = ""
	c.expiresAt = time.Time{}
	c.mu.Unlock()
}

func (c *Client) do(ctx context.Context, method, endpoint string, payload any, retryOnAuth bool) ([]byte, error) {
	tok, err := c.token(ctx)
	if err != nil {
		return nil, err
	}

	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.apiBaseURL+endpoint, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("accept", "application/json")
	req.Header.Set("id-token", tok)
	req.Header.Set("x-api-key", c.apiKey)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<20))

	if resp.StatusCode == http.StatusUnauthorized && retryOnAuth {
		c.invalidateToken()
		return c.do(ctx, method, endpoint, payload, false)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("vincere api error: %d %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	return raw, nil
}

// ApplicationSync is the payload pushed to the ATS when a candidate applies.
type ApplicationSync struct {
	ApplicationID string `json:"application_id"`
	CandidateID   string `json:"candidate_id"`
	JobID         string `json:"job_id"`
	Source        string `json:"source"`
	AppliedAt     string `json:"applied_at"`
}

// SyncApplication registers an application against the ATS job record.
func (c *Client) SyncApplication(ctx context.Context, sync ApplicationSync) error {
	endpoint := fmt.Sprintf("/position/%s/candidates", url.PathEscape(sync.JobID))
	_, err := c.do(ctx, http.MethodPost, endpoint, sync, true)
	return err
}
