package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/atinyakov/frus/internal/models"
)

const (
	apiPrefix       = "/api/v1.0"
	pathToken       = apiPrefix + "/token"
	pathRegister    = apiPrefix + "/register"
	pathUser        = apiPrefix + "/user"
	pathPopular     = apiPrefix + "/shorturl/popular"
	pathRecent      = apiPrefix + "/shorturl/recent"
	pathVisit       = apiPrefix + "/visit"
	pathShorten     = apiPrefix + "/shorten"
	pathInfluential = apiPrefix + "/users/influential"

	// RequestIDHeader carries a fresh id per call for backend log correlation.
	RequestIDHeader = "X-Request-Id"
)

// Client implements API over HTTP.
type Client struct {
	baseURL string
	http    *http.Client
	log     *zap.Logger
	limiter *rate.Limiter
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithLogger sets the logger used for request tracing.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) { c.log = l }
}

// WithRateLimit caps outgoing requests to rps per second. rps <= 0 disables the cap.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *Client) {
		if rps <= 0 {
			c.limiter = nil
			return
		}
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// NewClient returns a client for the backend at baseURL, e.g. "http://127.0.0.1:5000".
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 10 * time.Second},
		log:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type auth func(*http.Request)

func basicAuth(email, password string) auth {
	return func(r *http.Request) { r.SetBasicAuth(email, password) }
}

func tokenAuth(token string) auth {
	return func(r *http.Request) {
		if token != "" {
			r.Header.Set("Authorization", "Token "+token)
		}
	}
}

func (c *Client) do(ctx context.Context, method, path string, authFn auth, in, out any) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limit: %w", err)
		}
	}

	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	reqID := uuid.NewString()
	req.Header.Set(RequestIDHeader, reqID)
	if authFn != nil {
		authFn(req)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn("request failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.String("request_id", reqID),
			zap.Error(err),
		)
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	c.log.Debug("request done",
		zap.String("method", method),
		zap.String("path", path),
		zap.String("request_id", reqID),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)),
	)

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return decodeError(resp.StatusCode, data)
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("invalid response: %w", err)
	}
	return nil
}

func decodeError(status int, data []byte) error {
	var eb errorBody
	if err := json.Unmarshal(data, &eb); err != nil {
		return &Error{StatusCode: status, Message: strings.TrimSpace(string(data))}
	}
	msg := string(eb.Message)
	if msg == "" {
		msg = eb.Error
	}
	if msg == "" {
		msg = http.StatusText(status)
	}
	code := status
	if eb.StatusCode != 0 {
		code = eb.StatusCode
	}
	return &Error{StatusCode: code, Message: msg}
}

// GetToken calls GET /token with basic auth.
func (c *Client) GetToken(ctx context.Context, email, password string) (string, error) {
	var out struct {
		Token string `json:"token"`
	}
	if err := c.do(ctx, http.MethodGet, pathToken, basicAuth(email, password), nil, &out); err != nil {
		return "", err
	}
	if out.Token == "" {
		return "", &Error{StatusCode: http.StatusForbidden, Message: "Invalid token"}
	}
	return out.Token, nil
}

// CreateUser calls POST /register.
func (c *Client) CreateUser(ctx context.Context, req RegisterRequest) (string, error) {
	var out struct {
		Token string `json:"token"`
	}
	if err := c.do(ctx, http.MethodPost, pathRegister, nil, req, &out); err != nil {
		return "", err
	}
	return out.Token, nil
}

// GetUser calls GET /user with token auth.
func (c *Client) GetUser(ctx context.Context, token string) (models.UserSummary, error) {
	var out struct {
		User models.UserSummary `json:"user"`
	}
	if err := c.do(ctx, http.MethodGet, pathUser, tokenAuth(token), nil, &out); err != nil {
		return models.UserSummary{}, err
	}
	return out.User, nil
}

// urlList accepts both the documented field name and the "message" envelope
// the backend also uses for lists.
type urlList struct {
	Popular []models.URLSummary `json:"popular_urls"`
	Recents []models.URLSummary `json:"recents"`
	Message []models.URLSummary `json:"message"`
}

func (l urlList) pick(primary []models.URLSummary) []models.URLSummary {
	if primary != nil {
		return primary
	}
	if l.Message != nil {
		return l.Message
	}
	return []models.URLSummary{}
}

// GetPopularURLs calls GET /shorturl/popular.
func (c *Client) GetPopularURLs(ctx context.Context) ([]models.URLSummary, error) {
	var out urlList
	if err := c.do(ctx, http.MethodGet, pathPopular, nil, nil, &out); err != nil {
		return nil, err
	}
	return out.pick(out.Popular), nil
}

// GetMostRecentURLs calls GET /shorturl/recent.
func (c *Client) GetMostRecentURLs(ctx context.Context) ([]models.URLSummary, error) {
	var out urlList
	if err := c.do(ctx, http.MethodGet, pathRecent, nil, nil, &out); err != nil {
		return nil, err
	}
	return out.pick(out.Recents), nil
}

// VisitURL calls POST /visit.
func (c *Client) VisitURL(ctx context.Context, shortURL string) (string, error) {
	in := map[string]string{"short_url": shortURL}
	var out struct {
		LongURL string `json:"long_url"`
	}
	if err := c.do(ctx, http.MethodPost, pathVisit, nil, in, &out); err != nil {
		return "", err
	}
	if out.LongURL == "" {
		return "", &Error{StatusCode: http.StatusNotFound, Message: "No matching URL found"}
	}
	return out.LongURL, nil
}

type shortenRequest struct {
	LongURL string `json:"long_url"`
	Vanity  string `json:"vanity,omitempty"`
}

type shortenResponse struct {
	URL *struct {
		ShortURL string `json:"short_url"`
	} `json:"url"`
	Info     *string `json:"info"`
	Message  Message `json:"message"`
	Message2 *string `json:"message2"`
}

// ShortenURL calls POST /shorten, with token auth when token is set.
func (c *Client) ShortenURL(ctx context.Context, token, longURL, vanity string) (ShortenResult, error) {
	var out shortenResponse
	in := shortenRequest{LongURL: longURL, Vanity: vanity}
	if err := c.do(ctx, http.MethodPost, pathShorten, tokenAuth(token), in, &out); err != nil {
		return ShortenResult{}, err
	}

	res := ShortenResult{Info: out.Info}
	if out.URL != nil {
		res.ShortURL = out.URL.ShortURL
	} else {
		res.ShortURL = string(out.Message)
		if res.Info == nil {
			res.Info = out.Message2
		}
	}
	if res.ShortURL == "" {
		return ShortenResult{}, &Error{Message: "empty short url in response"}
	}
	return res, nil
}

// GetInfluentialUsers calls GET /users/influential.
func (c *Client) GetInfluentialUsers(ctx context.Context) ([]models.UserSummary, error) {
	var out struct {
		Users []models.UserSummary `json:"users"`
	}
	if err := c.do(ctx, http.MethodGet, pathInfluential, nil, nil, &out); err != nil {
		return nil, err
	}
	if out.Users == nil {
		out.Users = []models.UserSummary{}
	}
	return out.Users, nil
}
