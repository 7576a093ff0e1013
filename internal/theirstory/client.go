package theirstory

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"storylink/internal/config"
	"storylink/internal/logging"
)

const errorBodyLimit = 4096

// HTTPDoer describes the HTTP client used to reach the service.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// API is the set of operations the controller drives.
type API interface {
	Authenticate(ctx context.Context, email, password string) (Session, error)
	CheckToken(ctx context.Context) error
	Authenticated() bool
	Logout()
	ListStories(ctx context.Context) ([]Story, error)
	FetchStory(ctx context.Context, storyID string) (Story, error)
	FetchTranscript(ctx context.Context, storyID string) (Transcript, error)
	FetchTranscriptData(ctx context.Context, storyID string) (TranscriptData, error)
	FetchTranscriptHTML(ctx context.Context, storyID string) (string, error)
	FetchRecordingURL(ctx context.Context, storyID string) (string, error)
}

// Client talks to the TheirStory API on behalf of one session.
type Client struct {
	baseURL    string
	apiKey     string
	origin     string
	timeout    time.Duration
	httpClient HTTPDoer
	logger     *slog.Logger

	mu    sync.RWMutex
	token string
}

var _ API = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client HTTPDoer) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithOrigin sets the Origin header sent with every request.
func WithOrigin(origin string) Option {
	return func(c *Client) {
		c.origin = strings.TrimRight(strings.TrimSpace(origin), "/")
	}
}

// WithTimeout bounds each request. Zero disables the per-request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout >= 0 {
			c.timeout = timeout
		}
	}
}

// WithLogger attaches a logger for request diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logging.NewComponentLogger(logger, "theirstory")
		}
	}
}

// New creates a client for the service at baseURL.
func New(baseURL, apiKey string, opts ...Option) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, errors.New("theirstory base url required")
	}
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("theirstory api key required")
	}
	client := &Client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		timeout:    30 * time.Second,
		httpClient: &http.Client{},
		logger:     logging.NewNop(),
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// NewFromConfig builds a client from the [service] section.
func NewFromConfig(cfg *config.Config, opts ...Option) (*Client, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}
	base := []Option{
		WithOrigin(cfg.Service.Origin),
		WithTimeout(cfg.RequestTimeout()),
	}
	return New(cfg.Service.BaseURL, cfg.Service.APIKey, append(base, opts...)...)
}

// Authenticate signs in and stores the returned token. Any failure clears the
// current session.
func (c *Client) Authenticate(ctx context.Context, email, password string) (Session, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		c.setToken("")
		return Session{}, &ValidationError{Field: "credentials", Message: "please enter both email and password"}
	}

	payload, err := json.Marshal(signInRequest{Email: email, Password: password, VisitorID: c.apiKey})
	if err != nil {
		c.setToken("")
		return Session{}, fmt.Errorf("encode signin request: %w", err)
	}

	c.logger.Debug("attempting authentication", logging.String("email", email))
	body, err := c.do(ctx, http.MethodPost, "/signin", "application/json", payload)
	if err != nil {
		c.setToken("")
		if IsUnauthorized(err) {
			return Session{}, &AuthenticationError{Reason: "credentials rejected", Err: err}
		}
		return Session{}, err
	}

	var resp signInResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		c.setToken("")
		return Session{}, &AuthenticationError{Reason: "malformed signin response", Err: err}
	}
	if strings.TrimSpace(resp.Token) == "" {
		c.setToken("")
		return Session{}, &AuthenticationError{Reason: "no authentication token received"}
	}

	c.setToken(resp.Token)
	c.logger.Info("authentication successful", logging.String("email", email))
	return Session{Token: resp.Token, Email: email}, nil
}

// Logout clears the in-memory session. It has no network effect.
func (c *Client) Logout() {
	c.setToken("")
	c.logger.Debug("logged out")
}

// Authenticated reports whether a session token is held.
func (c *Client) Authenticated() bool {
	return c.currentToken() != ""
}

// CheckToken fetches a single story id to confirm the session is accepted.
func (c *Client) CheckToken(ctx context.Context) error {
	if !c.Authenticated() {
		return notSignedIn()
	}
	_, err := c.authed(ctx, http.MethodGet, "/stories?limit=1&fields=_id", "application/json")
	return err
}

// ListStories returns every story visible to the session.
func (c *Client) ListStories(ctx context.Context) ([]Story, error) {
	body, err := c.authed(ctx, http.MethodGet, "/stories", "application/json")
	if err != nil {
		return nil, err
	}
	var stories []Story
	if err := json.Unmarshal(body, &stories); err != nil {
		return nil, fmt.Errorf("decode stories: %w", err)
	}
	c.logger.Debug("fetched stories", logging.Int("count", len(stories)))
	return stories, nil
}

// FetchStory returns the full record for one story.
func (c *Client) FetchStory(ctx context.Context, storyID string) (Story, error) {
	path, err := storyPath("/stories/%s", storyID)
	if err != nil {
		return Story{}, err
	}
	body, err := c.authed(ctx, http.MethodGet, path, "application/json")
	if err != nil {
		return Story{}, err
	}
	var story Story
	if err := json.Unmarshal(body, &story); err != nil {
		return Story{}, err
	}
	if story.ID == "" {
		story.ID = strings.TrimSpace(storyID)
	}
	return story, nil
}

// FetchTranscript returns the JSON transcript for a story.
func (c *Client) FetchTranscript(ctx context.Context, storyID string) (Transcript, error) {
	path, err := storyPath("/stories/%s/transcript", storyID)
	if err != nil {
		return Transcript{}, err
	}
	body, err := c.authed(ctx, http.MethodGet, path, "application/json")
	if err != nil {
		return Transcript{}, err
	}
	var transcript Transcript
	if err := json.Unmarshal(body, &transcript); err != nil {
		return Transcript{}, fmt.Errorf("decode transcript: %w", err)
	}
	return transcript, nil
}

// FetchTranscriptData returns transcript metadata, including the recording URL.
func (c *Client) FetchTranscriptData(ctx context.Context, storyID string) (TranscriptData, error) {
	path, err := storyPath("/transcripts/%s", storyID)
	if err != nil {
		return TranscriptData{}, err
	}
	body, err := c.authed(ctx, http.MethodGet, path, "application/json")
	if err != nil {
		return TranscriptData{}, err
	}
	var data TranscriptData
	if err := json.Unmarshal(body, &data); err != nil {
		return TranscriptData{}, err
	}
	return data, nil
}

// FetchTranscriptHTML returns the pre-rendered, time-coded transcript markup.
func (c *Client) FetchTranscriptHTML(ctx context.Context, storyID string) (string, error) {
	path, err := storyPath("/stories/%s/html", storyID)
	if err != nil {
		return "", err
	}
	body, err := c.authed(ctx, http.MethodGet, path, "text/html")
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// FetchRecordingURL derives the media URL from transcript metadata.
func (c *Client) FetchRecordingURL(ctx context.Context, storyID string) (string, error) {
	data, err := c.FetchTranscriptData(ctx, storyID)
	if err != nil {
		return "", err
	}
	if data.VideoURL == "" {
		return "", &MediaNotFoundError{StoryID: strings.TrimSpace(storyID)}
	}
	return data.VideoURL, nil
}

func storyPath(format, storyID string) (string, error) {
	storyID = strings.TrimSpace(storyID)
	if storyID == "" {
		return "", &ValidationError{Field: "story id", Message: "story ID is required"}
	}
	return fmt.Sprintf(format, url.PathEscape(storyID)), nil
}

func (c *Client) authed(ctx context.Context, method, path, accept string) ([]byte, error) {
	if !c.Authenticated() {
		return nil, notSignedIn()
	}
	return c.do(ctx, method, path, accept, nil)
}

func (c *Client) do(ctx context.Context, method, path, accept string, payload []byte) ([]byte, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", accept)
	req.Header.Set("X-API-Key", c.apiKey)
	if c.origin != "" {
		req.Header.Set("Origin", c.origin)
	}
	if token := c.currentToken(); token != "" {
		req.Header.Set("Authorization", token)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	requestStart := time.Now()
	resp, err := c.httpClient.Do(req)
	latency := time.Since(requestStart)
	if err != nil {
		return nil, fmt.Errorf("%s %s (latency=%v): %w", method, path, latency, err)
	}
	defer resp.Body.Close()

	c.logger.Debug("api request",
		logging.String("method", method),
		logging.String("path", path),
		logging.Int("status", resp.StatusCode),
		logging.Duration("latency", latency),
	)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyLimit))
		c.logger.Warn("api request failed",
			logging.String("method", method),
			logging.String("path", path),
			logging.Int("status", resp.StatusCode),
		)
		return nil, &RequestError{Method: method, Path: path, Status: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s response: %w", path, err)
	}
	return body, nil
}

func (c *Client) currentToken() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

func (c *Client) setToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}
