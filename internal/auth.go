package internal

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	pkgerrors "github.com/jamesprial/go-reddit-stream/pkg/errors"
)

const tokenEndpointPath = "api/v1/access_token"

// expirySlack refreshes tokens slightly before the server-reported expiry.
const expirySlack = 30 * time.Second

// TokenProvider supplies a valid access token for authenticated requests.
type TokenProvider interface {
	GetToken(ctx context.Context) (string, error)
}

// Authenticator obtains OAuth2 tokens from Reddit and caches them until
// shortly before expiry. It supports the client_credentials and password
// grant flows. Safe for concurrent use.
type Authenticator struct {
	client       *http.Client
	clientID     string
	clientSecret string
	userAgent    string
	tokenURL     *url.URL
	form         url.Values

	mu        sync.Mutex
	token     string
	expiresAt time.Time
}

// NewAuthenticator builds an Authenticator for the given credentials.
// Username and password may be empty for app-only access.
func NewAuthenticator(httpClient *http.Client, username, password, clientID, clientSecret, userAgent, authBaseURL string) (*Authenticator, error) {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	parsed, err := url.Parse(authBaseURL)
	if err != nil {
		return nil, &pkgerrors.AuthError{Err: fmt.Errorf("failed to parse auth URL: %w", err)}
	}
	if !strings.HasSuffix(parsed.Path, "/") {
		parsed.Path += "/"
	}
	tokenURL, err := parsed.Parse(tokenEndpointPath)
	if err != nil {
		return nil, &pkgerrors.AuthError{Err: fmt.Errorf("failed to resolve token endpoint: %w", err)}
	}

	form := url.Values{}
	if username != "" && password != "" {
		form.Set("grant_type", "password")
		form.Set("username", username)
		form.Set("password", password)
	} else {
		form.Set("grant_type", "client_credentials")
	}

	return &Authenticator{
		client:       httpClient,
		clientID:     clientID,
		clientSecret: clientSecret,
		userAgent:    userAgent,
		tokenURL:     tokenURL,
		form:         form,
	}, nil
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
	Scope       string `json:"scope"`
}

// GetToken returns the cached token, fetching a fresh one when the cache is
// empty or about to expire.
func (a *Authenticator) GetToken(ctx context.Context) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.token != "" && time.Now().Before(a.expiresAt.Add(-expirySlack)) {
		return a.token, nil
	}

	token, expiresIn, err := a.fetchToken(ctx)
	if err != nil {
		return "", err
	}

	a.token = token
	a.expiresAt = time.Now().Add(time.Duration(expiresIn) * time.Second)
	return token, nil
}

func (a *Authenticator) fetchToken(ctx context.Context) (string, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.tokenURL.String(), strings.NewReader(a.form.Encode()))
	if err != nil {
		return "", 0, &pkgerrors.AuthError{Err: fmt.Errorf("failed to create token request: %w", err)}
	}
	req.SetBasicAuth(a.clientID, a.clientSecret)
	req.Header.Set("User-Agent", a.userAgent)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := a.client.Do(req)
	if err != nil {
		return "", 0, &pkgerrors.AuthError{Err: fmt.Errorf("failed to execute token request: %w", err)}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", 0, &pkgerrors.AuthError{StatusCode: resp.StatusCode, Err: fmt.Errorf("failed to read token response: %w", err)}
	}

	if resp.StatusCode != http.StatusOK {
		return "", 0, &pkgerrors.AuthError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var token tokenResponse
	if err := json.Unmarshal(body, &token); err != nil {
		return "", 0, &pkgerrors.AuthError{StatusCode: resp.StatusCode, Body: string(body), Err: fmt.Errorf("failed to decode token response: %w", err)}
	}
	if token.AccessToken == "" {
		return "", 0, &pkgerrors.AuthError{StatusCode: resp.StatusCode, Body: string(body), Err: fmt.Errorf("access token was empty in response")}
	}

	return token.AccessToken, token.ExpiresIn, nil
}
