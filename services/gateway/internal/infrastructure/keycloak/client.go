package keycloak

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/recrutment/hireai/internal/pkg/reqctx"
	"github.com/recrutment/hireai/services/gateway/internal/domain"
	"github.com/recrutment/hireai/services/gateway/internal/metrics"
)

// Config addresses one realm of the directory with client-credentials access.
type Config struct {
	BaseURL      string
	Realm        string
	ClientID     string
	ClientSecret string

	// SafetyMargin is subtracted from the token expiry; <= 0 uses DefaultSafetyMargin.
	SafetyMargin time.Duration
	// HTTPTimeout bounds each HTTP exchange; 0 leaves it to the transport.
	HTTPTimeout time.Duration
}

func (c Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.BaseURL) == "" {
		errs = append(errs, errors.New("keycloak: base url is required"))
	}
	if strings.TrimSpace(c.Realm) == "" {
		errs = append(errs, errors.New("keycloak: realm is required"))
	}
	if strings.TrimSpace(c.ClientID) == "" {
		errs = append(errs, errors.New("keycloak: client id is required"))
	}
	if c.ClientSecret == "" {
		errs = append(errs, errors.New("keycloak: client secret is required"))
	}
	return errors.Join(errs...)
}

// Client calls the directory admin REST API on behalf of the gateway.
// Every call resolves a bearer token through the client's TokenCache first.
// No call is retried.
type Client struct {
	cfg    Config
	hc     *http.Client
	tokens *TokenCache
	now    func() time.Time
	log    zerolog.Logger
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.hc = hc
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(c *Client) {
		if now != nil {
			c.now = now
		}
	}
}

func WithLogger(l zerolog.Logger) Option {
	return func(c *Client) { c.log = l }
}

func New(cfg Config, opts ...Option) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if cfg.SafetyMargin <= 0 {
		cfg.SafetyMargin = DefaultSafetyMargin
	}

	c := &Client{
		cfg: cfg,
		hc:  &http.Client{Timeout: cfg.HTTPTimeout},
		now: time.Now,
		log: zerolog.Nop(),
	}
	for _, o := range opts {
		o(c)
	}
	c.tokens = NewTokenCache(c.fetchToken, cfg.SafetyMargin, c.now)
	return c, nil
}

// Ready resolves a service token, fetching one if the cache is stale.
func (c *Client) Ready(ctx context.Context) error {
	_, err := c.tokens.Token(ctx)
	return err
}

func (c *Client) ListUsers(ctx context.Context, first, max int, search string) ([]domain.User, error) {
	q := url.Values{}
	q.Set("first", strconv.Itoa(first))
	q.Set("max", strconv.Itoa(max))
	if s := strings.TrimSpace(search); s != "" {
		q.Set("search", s)
	}

	var reps []userRepresentation
	if err := c.do(ctx, "list_users", http.MethodGet, c.adminURL("users")+"?"+q.Encode(), nil, &reps); err != nil {
		return nil, err
	}
	out := make([]domain.User, 0, len(reps))
	for _, r := range reps {
		out = append(out, r.toDomain())
	}
	return out, nil
}

func (c *Client) CountUsers(ctx context.Context, search string) (int64, error) {
	endpoint := c.adminURL("users", "count")
	if s := strings.TrimSpace(search); s != "" {
		endpoint += "?" + url.Values{"search": {s}}.Encode()
	}
	var n int64
	if err := c.do(ctx, "count_users", http.MethodGet, endpoint, nil, &n); err != nil {
		return 0, err
	}
	return n, nil
}

func (c *Client) GetUser(ctx context.Context, userID string) (domain.User, error) {
	var rep userRepresentation
	if err := c.do(ctx, "get_user", http.MethodGet, c.adminURL("users", userID), nil, &rep); err != nil {
		return domain.User{}, err
	}
	return rep.toDomain(), nil
}

// GetUserRealmRoles returns the effective realm roles of the user, composites expanded.
func (c *Client) GetUserRealmRoles(ctx context.Context, userID string) ([]domain.DirectoryRole, error) {
	var roles []domain.DirectoryRole
	endpoint := c.adminURL("users", userID, "role-mappings", "realm", "composite")
	if err := c.do(ctx, "get_user_roles", http.MethodGet, endpoint, nil, &roles); err != nil {
		return nil, err
	}
	return roles, nil
}

func (c *Client) ListRealmRoles(ctx context.Context) ([]domain.DirectoryRole, error) {
	var roles []domain.DirectoryRole
	if err := c.do(ctx, "list_realm_roles", http.MethodGet, c.adminURL("roles"), nil, &roles); err != nil {
		return nil, err
	}
	return roles, nil
}

func (c *Client) AddRealmRoles(ctx context.Context, userID string, roles []domain.DirectoryRole) error {
	endpoint := c.adminURL("users", userID, "role-mappings", "realm")
	return c.do(ctx, "add_user_roles", http.MethodPost, endpoint, roles, nil)
}

func (c *Client) RemoveRealmRoles(ctx context.Context, userID string, roles []domain.DirectoryRole) error {
	endpoint := c.adminURL("users", userID, "role-mappings", "realm")
	return c.do(ctx, "remove_user_roles", http.MethodDelete, endpoint, roles, nil)
}

func (c *Client) SetUserEnabled(ctx context.Context, userID string, enabled bool) error {
	return c.do(ctx, "set_user_enabled", http.MethodPut, c.adminURL("users", userID), userUpdate{Enabled: &enabled}, nil)
}

func (c *Client) DeleteUser(ctx context.Context, userID string) error {
	return c.do(ctx, "delete_user", http.MethodDelete, c.adminURL("users", userID), nil, nil)
}

func (c *Client) adminURL(segments ...string) string {
	var b strings.Builder
	b.WriteString(c.cfg.BaseURL)
	b.WriteString("/admin/realms/")
	b.WriteString(url.PathEscape(c.cfg.Realm))
	for _, s := range segments {
		b.WriteByte('/')
		b.WriteString(url.PathEscape(s))
	}
	return b.String()
}

func (c *Client) tokenURL() string {
	return c.cfg.BaseURL + "/realms/" + url.PathEscape(c.cfg.Realm) + "/protocol/openid-connect/token"
}

func (c *Client) fetchToken(ctx context.Context) (Token, error) {
	form := url.Values{
		"grant_type":    {"client_credentials"},
		"client_id":     {c.cfg.ClientID},
		"client_secret": {c.cfg.ClientSecret},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.tokenURL(), strings.NewReader(form.Encode()))
	if err != nil {
		return Token{}, fmt.Errorf("build token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := c.hc.Do(req)
	if err != nil {
		c.log.Warn().Err(err).Msg("directory_token_request_failed")
		return Token{}, fmt.Errorf("%w: token request: %w", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		serr := readStatusError(resp)
		c.log.Warn().Int("status", serr.StatusCode).Msg("directory_token_rejected")
		return Token{}, serr
	}

	var tr tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return Token{}, fmt.Errorf("decode token response: %w", err)
	}
	if tr.AccessToken == "" {
		return Token{}, errors.New("keycloak: token response without access_token")
	}

	t := Token{AccessToken: tr.AccessToken, ExpiresAt: expiresAt(tr, c.now())}
	c.log.Debug().Time("expires_at", t.ExpiresAt).Msg("directory_token_refreshed")
	return t, nil
}

func (c *Client) do(ctx context.Context, op, method, endpoint string, in, out any) error {
	start := time.Now()
	err := c.roundTrip(ctx, method, endpoint, in, out)
	metrics.DirectoryLatency.WithLabelValues(op).Observe(time.Since(start).Seconds())
	metrics.DirectoryRequests.WithLabelValues(op, outcome(err)).Inc()

	if err != nil {
		c.log.Warn().
			Err(err).
			Str("op", op).
			Str("method", method).
			Str("request_id", reqctx.RequestID(ctx)).
			Dur("duration", time.Since(start)).
			Msg("directory_request_failed")
	}
	return err
}

func (c *Client) roundTrip(ctx context.Context, method, endpoint string, in, out any) error {
	token, err := c.tokens.Token(ctx)
	if err != nil {
		return err
	}

	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if id := reqctx.RequestID(ctx); id != "" {
		req.Header.Set("X-Request-Id", id)
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrUnavailable, method, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		c.tokens.Invalidate(token)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return readStatusError(resp)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func outcome(err error) string {
	var se *StatusError
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrUnavailable):
		return "unavailable"
	case errors.As(err, &se):
		return strconv.Itoa(se.StatusCode)
	default:
		return "error"
	}
}
