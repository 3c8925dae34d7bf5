// internal/services/hidrive_service.go
package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/javajoker/catalog-backend/internal/config"
	"github.com/javajoker/catalog-backend/internal/utils"
)

var (
	ErrHiDriveNotConfigured = errors.New("HiDrive OAuth client is not configured")
	ErrInvalidState         = errors.New("invalid or expired OAuth state")
	ErrTokenExchange        = errors.New("token exchange failed")
)

// HiDriveService drives the two-step OAuth authorization against HiDrive.
// Nothing is persisted: the state parameter is a signed token and the
// exchanged tokens are handed back to the caller.
type HiDriveService struct {
	config     config.HiDriveConfig
	httpClient *http.Client
}

type HiDriveToken struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
	Scope        string `json:"scope,omitempty"`
}

func NewHiDriveService(cfg config.HiDriveConfig, httpClient *http.Client) *HiDriveService {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &HiDriveService{
		config:     cfg,
		httpClient: httpClient,
	}
}

func (s *HiDriveService) AuthorizeURL() (string, error) {
	if s.config.ClientID == "" || s.config.RedirectURI == "" {
		return "", ErrHiDriveNotConfigured
	}

	state, err := utils.GenerateStateToken(s.config.StateSecret, time.Duration(s.config.StateTTL)*time.Second)
	if err != nil {
		return "", fmt.Errorf("failed to generate state: %w", err)
	}

	params := url.Values{}
	params.Set("response_type", "code")
	params.Set("client_id", s.config.ClientID)
	params.Set("redirect_uri", s.config.RedirectURI)
	params.Set("scope", s.config.Scope)
	params.Set("state", state)

	return s.config.AuthorizeURL + "?" + params.Encode(), nil
}

func (s *HiDriveService) ExchangeCode(ctx context.Context, code, state string) (*HiDriveToken, error) {
	if s.config.ClientID == "" || s.config.ClientSecret == "" || s.config.RedirectURI == "" {
		return nil, ErrHiDriveNotConfigured
	}

	if err := utils.ValidateStateToken(state, s.config.StateSecret); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidState, err)
	}

	form := url.Values{}
	form.Set("grant_type", "authorization_code")
	form.Set("code", code)
	form.Set("client_id", s.config.ClientID)
	form.Set("client_secret", s.config.ClientSecret)
	form.Set("redirect_uri", s.config.RedirectURI)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.config.TokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to build token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTokenExchange, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response: %v", ErrTokenExchange, err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: provider returned status %d", ErrTokenExchange, resp.StatusCode)
	}

	var token HiDriveToken
	if err := json.Unmarshal(body, &token); err != nil {
		return nil, fmt.Errorf("%w: invalid response: %v", ErrTokenExchange, err)
	}
	if token.AccessToken == "" {
		return nil, fmt.Errorf("%w: response carries no access token", ErrTokenExchange)
	}

	return &token, nil
}
