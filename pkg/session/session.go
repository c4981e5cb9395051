// Package session owns the login token used for the hosted directory API.
//
// A Session logs in lazily: the first call made through Run performs a
// ClientLogin style form POST, caches the returned token, and every call made
// through the session afterwards carries it in the Authorization header.
//
// The token lives in a single atomically updated slot. Concurrent callers
// that find it empty may each log in; a login only installs its token if no
// other login replaced the value it observed first. The slot therefore
// always holds one complete token, and a slow login never overwrites a newer
// one.
package session

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/hashicorp-forge/appsdir/pkg/rest"
)

const (
	// DefaultService is the service name sent with the login request.
	DefaultService = "apps"

	// DefaultAccountType is the account type sent with the login request.
	DefaultAccountType = "HOSTED"

	// AuthKey is the key of the token in the login response.
	AuthKey = "Auth"

	defaultTimeout = 30 * time.Second
)

// ErrNoAuthToken is returned when the login response has no Auth value.
var ErrNoAuthToken = errors.New("login response has no Auth token")

// Config configures a Session.
type Config struct {
	// Email is the administrator account.
	Email string

	// Password is the account password. Never logged.
	Password string

	// LoginURL is the login endpoint.
	LoginURL string

	// Service is the service name requested at login.
	// Default: "apps"
	Service string

	// AccountType is the account type requested at login.
	// Default: "HOSTED"
	AccountType string

	// HTTPClient is the underlying client. Its transport is wrapped, not
	// modified. Default: a client with a 30 second timeout.
	HTTPClient *http.Client

	// Logger (optional)
	Logger hclog.Logger

	// Trace logs every request and response.
	Trace bool
}

// Session caches the login token and injects it into outbound calls.
// It is safe for concurrent use.
type Session struct {
	email       string
	password    string
	loginURL    string
	service     string
	accountType string

	token atomic.Pointer[string]

	// plain sends the login call; authorized sends everything else.
	plain      *http.Client
	authorized *http.Client

	logger hclog.Logger
}

// New creates a session. No request is sent until the first call.
func New(cfg Config) (*Session, error) {
	if cfg.Email == "" {
		return nil, fmt.Errorf("email is required")
	}
	if cfg.Password == "" {
		return nil, fmt.Errorf("password is required")
	}
	if cfg.LoginURL == "" {
		return nil, fmt.Errorf("login URL is required")
	}

	if cfg.Service == "" {
		cfg.Service = DefaultService
	}
	if cfg.AccountType == "" {
		cfg.AccountType = DefaultAccountType
	}
	if cfg.Logger == nil {
		cfg.Logger = hclog.NewNullLogger()
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: defaultTimeout}
	}

	s := &Session{
		email:       cfg.Email,
		password:    cfg.Password,
		loginURL:    cfg.LoginURL,
		service:     cfg.Service,
		accountType: cfg.AccountType,
		logger:      cfg.Logger.Named("session"),
	}

	base := cfg.HTTPClient.Transport
	if base == nil {
		base = http.DefaultTransport
	}
	if cfg.Trace {
		base = &tracingTransport{next: base, logger: s.logger.Named("trace")}
	}

	s.plain = withTransport(cfg.HTTPClient, base)
	s.authorized = withTransport(cfg.HTTPClient, &authTransport{next: base, session: s})

	return s, nil
}

func withTransport(c *http.Client, rt http.RoundTripper) *http.Client {
	return &http.Client{
		Transport:     rt,
		CheckRedirect: c.CheckRedirect,
		Jar:           c.Jar,
		Timeout:       c.Timeout,
	}
}

// Token returns the cached login token, if any.
func (s *Session) Token() (string, bool) {
	if t := s.token.Load(); t != nil {
		return *t, true
	}
	return "", false
}

// Doer returns the authorizing client used by Run. Calls made with it carry
// the cached token but never trigger a login.
func (s *Session) Doer() rest.Doer {
	return s.authorized
}

// Run calls fn with the authorizing client, logging in first if no token is
// cached. A failed login is returned without calling fn and leaves the
// cache empty, so the next Run tries again.
func Run[T any](ctx context.Context, s *Session, fn func(ctx context.Context, doer rest.Doer) (T, error)) (T, error) {
	if _, ok := s.Token(); !ok {
		if err := s.Authenticate(ctx); err != nil {
			var zero T
			return zero, err
		}
	}
	return fn(ctx, s.authorized)
}

// Authenticate logs in and installs the returned token, unless another login
// replaced the cached value while this one was in flight.
func (s *Session) Authenticate(ctx context.Context) error {
	current := s.token.Load()

	token, err := s.login(ctx)
	if err != nil {
		s.logger.Error("login failed", "email", s.email, "error", err)
		return fmt.Errorf("failed to authenticate %s: %w", s.email, err)
	}

	if s.token.CompareAndSwap(current, &token) {
		s.logger.Debug("installed login token", "email", s.email)
	} else {
		s.logger.Debug("login token already replaced by a concurrent login", "email", s.email)
	}
	return nil
}

func (s *Session) login(ctx context.Context) (string, error) {
	req := rest.Post(s.loginURL).
		WithParam("accountType", s.accountType).
		WithParam("Email", s.email).
		WithParam("Passwd", s.password).
		WithParam("service", s.service)

	s.logger.Debug("logging in", "email", s.email, "service", s.service)

	result, err := rest.Execute(ctx, s.plain, req, rest.Properties)
	if err != nil {
		return "", err
	}

	token := result[AuthKey]
	if token == "" {
		return "", &rest.DecodeError{URL: s.loginURL, Err: ErrNoAuthToken}
	}
	return token, nil
}
