// API service for making raw HTTP requests to the Festify API
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/festify/internal/shared"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"
)

const (
	defaultBaseURL    = "http://127.0.0.1:8000"
	sessionCookieName = "festify_session"
)

// APIService provides methods for making raw HTTP requests to the Festify API.
//
// Every request waits on a shared rate limiter before it is sent.
type APIService struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	cookie     string
	logger     *log.Logger
}

// APIOption configures an [APIService].
type APIOption func(*APIService)

// WithRateLimit allows rps requests per second with the given burst. A non-positive rps disables limiting.
func WithRateLimit(rps float64, burst int) APIOption {
	return func(a *APIService) {
		if rps <= 0 {
			a.limiter = rate.NewLimiter(rate.Inf, 0)
			return
		}
		if burst < 1 {
			burst = 1
		}
		a.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// WithSessionCookie sends value as the festify_session cookie.
func WithSessionCookie(value string) APIOption {
	return func(a *APIService) { a.cookie = value }
}

// WithAPILogger sets the logger used for request tracing.
func WithAPILogger(l *log.Logger) APIOption {
	return func(a *APIService) { a.logger = l }
}

// NewAPIService creates a new API service instance for the Festify API.
func NewAPIService(baseURL string, client *http.Client, opts ...APIOption) *APIService {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if client == nil {
		client = http.DefaultClient
	}

	a := &APIService{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: client,
		limiter:    rate.NewLimiter(rate.Inf, 0),
		logger:     shared.NewLogger(io.Discard),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// NewHTTPClient returns the client used to reach the API.
//
// When an access token is configured requests carry it as a bearer token through [oauth2.NewClient].
func NewHTTPClient(ctx context.Context, cfg shared.APIConfig) *http.Client {
	if cfg.AccessToken == "" {
		return &http.Client{Timeout: cfg.Timeout()}
	}

	src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.AccessToken, TokenType: "Bearer"})
	client := oauth2.NewClient(ctx, src)
	client.Timeout = cfg.Timeout()
	return client
}

// NewAPIServiceFromConfig wires an [APIService] from the [api] configuration section.
func NewAPIServiceFromConfig(ctx context.Context, cfg shared.APIConfig, logger *log.Logger) *APIService {
	opts := []APIOption{WithRateLimit(cfg.RequestsPerSecond, cfg.Burst), WithSessionCookie(cfg.SessionCookie)}
	if logger != nil {
		opts = append(opts, WithAPILogger(shared.WithLogger(logger, "component", "api")))
	}
	return NewAPIService(cfg.BaseURL, NewHTTPClient(ctx, cfg), opts...)
}

// BaseURL returns the API root requests are sent to.
func (a *APIService) BaseURL() string { return a.baseURL }

// APIResponse represents a raw API response with status and body.
type APIResponse struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
	IsJSON     bool
	JSONData   any
}

// OK reports whether the status is 2xx.
func (r *APIResponse) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// Decode unmarshals the body into v.
func (r *APIResponse) Decode(v any) error {
	if err := json.Unmarshal(r.Body, v); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// Get performs a GET request to the specified path and returns the raw response.
func (a *APIService) Get(ctx context.Context, path string) (*APIResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	return a.do(req)
}

// Post performs a POST request with the given JSON data and returns the raw response.
func (a *APIService) Post(ctx context.Context, path string, data []byte) (*APIResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return a.do(req)
}

// PostMultipart uploads data as a single multipart file field.
func (a *APIService) PostMultipart(ctx context.Context, path, field, filename, contentType string, data []byte) (*APIResponse, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`, quoteEscaper.Replace(field), quoteEscaper.Replace(filename)))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	h.Set("Content-Type", contentType)

	part, err := mw.CreatePart(h)
	if err != nil {
		return nil, fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return nil, fmt.Errorf("failed to write form file: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("failed to close multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+path, &body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return a.do(req)
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func (a *APIService) do(req *http.Request) (*APIResponse, error) {
	if err := a.limiter.Wait(req.Context()); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if a.cookie != "" {
		req.AddCookie(&http.Cookie{Name: sessionCookieName, Value: a.cookie})
	}

	a.logger.Debug("api request", "method", req.Method, "path", req.URL.Path)

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	a.logger.Debug("api response", "method", req.Method, "path", req.URL.Path, "status", resp.StatusCode)

	apiResp := &APIResponse{
		StatusCode: resp.StatusCode,
		Headers:    resp.Header,
		Body:       body,
	}

	var jsonData any
	if err := json.Unmarshal(body, &jsonData); err == nil {
		apiResp.IsJSON = true
		apiResp.JSONData = jsonData
	}

	return apiResp, nil
}
