// Package api is the client for the remote triage service: account
// registration, login, image analysis, history and educational resources.
package api

import (
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/sayah-app/sayah-go/internal/errors"
	"github.com/sayah-app/sayah-go/internal/httpclient"
	"github.com/sayah-app/sayah-go/internal/logger"
)

const (
	DefaultSessionCookie = "sessionid"
	DefaultCacheTTL      = 15 * time.Minute

	// maxResponseSize bounds how much of a response body is read
	maxResponseSize = 4 << 20

	genericErrorMessage = "An error occurred. Please try again."

	pathRegister  = "/register/"
	pathLogin     = "/login/"
	pathAnalyze   = "/analyze/"
	pathHistory   = "/analysis/history/"
	pathResources = "/resources/"

	cacheKeyResources = "resources"
)

// Config configures the API client.
type Config struct {
	BaseURL       string
	SessionCookie string             // cookie name carrying the session identifier
	CacheTTL      time.Duration      // resources cache lifetime; negative disables caching
	HTTPClient    *httpclient.Client // nil creates a default client
	Location      *time.Location     // zone for timestamps sent without one; nil means time.Local
}

// CacheRecorder observes resource cache lookups.
type CacheRecorder interface {
	RecordCacheLookup(resource string, hit bool)
}

// Client talks to the triage service. Safe for concurrent use.
type Client struct {
	http       *httpclient.Client
	ownsHTTP   bool
	baseURL    *url.URL
	cookieName string
	cache      *cache.Cache
	cacheTTL   time.Duration
	location   *time.Location
	recorder   CacheRecorder
	log        logger.Logger
}

// NewClient validates cfg and creates a Client.
func NewClient(cfg Config) (*Client, error) {
	base, err := url.Parse(strings.TrimSpace(cfg.BaseURL))
	if err != nil || (base.Scheme != "http" && base.Scheme != "https") || base.Host == "" {
		return nil, errors.Newf("invalid server URL: %q", cfg.BaseURL).
			Component("api").
			Category(errors.CategoryConfiguration).
			Build()
	}
	base.Path = strings.TrimRight(base.Path, "/")

	if cfg.SessionCookie == "" {
		cfg.SessionCookie = DefaultSessionCookie
	}
	if cfg.CacheTTL == 0 {
		cfg.CacheTTL = DefaultCacheTTL
	}
	if cfg.Location == nil {
		cfg.Location = time.Local
	}

	c := &Client{
		http:       cfg.HTTPClient,
		baseURL:    base,
		cookieName: cfg.SessionCookie,
		cacheTTL:   cfg.CacheTTL,
		location:   cfg.Location,
		log:        logger.Global().Module("api"),
	}
	if c.http == nil {
		c.http = httpclient.New(nil)
		c.ownsHTTP = true
	}
	if cfg.CacheTTL > 0 {
		c.cache = cache.New(cfg.CacheTTL, 2*cfg.CacheTTL)
	}

	c.log.Debug("api client initialized",
		logger.String("base_url", base.Redacted()),
		logger.String("session_cookie", c.cookieName),
		logger.Duration("cache_ttl", cfg.CacheTTL))

	return c, nil
}

// SetCacheRecorder attaches a recorder for resource cache lookups.
func (c *Client) SetCacheRecorder(r CacheRecorder) {
	c.recorder = r
}

// InvalidateCache drops cached resources, e.g. after logout.
func (c *Client) InvalidateCache() {
	if c.cache != nil {
		c.cache.Flush()
	}
}

// Close releases idle connections of a client created by NewClient.
func (c *Client) Close() {
	if c.ownsHTTP {
		c.http.Close()
	}
}

func (c *Client) endpoint(path string) string {
	u := *c.baseURL
	u.Path = c.baseURL.Path + path
	return u.String()
}

func (c *Client) sessionCookie(token string) httpclient.RequestOption {
	return httpclient.WithCookie(c.cookieName, token)
}

// response is a decoded reply: status plus the body as a loose JSON object.
type response struct {
	status  int
	body    []byte
	data    envelope
	cookies []*http.Cookie
}

func (r *response) ok() bool {
	return r.status >= 200 && r.status < 300
}

// errorMessage returns the server's error text, or the generic message.
func (r *response) errorMessage() string {
	if r.data.Error != "" {
		return r.data.Error
	}
	return genericErrorMessage
}

// readResponse reads and closes resp. A body that is not a JSON object decodes as {}.
func (c *Client) readResponse(resp *http.Response) (*response, error) {
	defer func() {
		if err := resp.Body.Close(); err != nil {
			c.log.Debug("failed to close response body", logger.Error(err))
		}
	}()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, err
	}

	r := &response{status: resp.StatusCode, body: body, cookies: resp.Cookies()}
	if err := json.Unmarshal(body, &r.data); err != nil {
		r.data = envelope{}
	}
	return r, nil
}

// transportError wraps a failure to reach the server.
func transportError(err error, category errors.ErrorCategory, endpoint string) error {
	return errors.New(err).
		Component("api").
		Category(category).
		Context("endpoint", endpoint).
		Build()
}

// serverError reports a non-2xx reply or a reply missing required fields.
func serverError(message string, category errors.ErrorCategory, endpoint string, status int) error {
	return errors.Newf("%s", message).
		Component("api").
		Category(category).
		Context("endpoint", endpoint).
		Context("status_code", status).
		Context("server_message", message).
		Build()
}

// ServerMessage returns the message the server sent with a rejected request,
// or "" when err did not come from a server reply.
func ServerMessage(err error) string {
	for err != nil {
		var ee *errors.EnhancedError
		if !errors.As(err, &ee) {
			return ""
		}
		if msg, ok := ee.GetContext()["server_message"].(string); ok {
			return msg
		}
		err = ee.Err
	}
	return ""
}
