// Package directory implements the hosted directory operations used to move
// users between organizational units.
//
// All operations run through a session.Session, which logs in on first use
// and authorizes every call. Read operations return raw response bodies so
// callers can decide how to decode them.
package directory

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/hashicorp/go-hclog"

	"github.com/hashicorp-forge/appsdir/pkg/atom"
	"github.com/hashicorp-forge/appsdir/pkg/rest"
	"github.com/hashicorp-forge/appsdir/pkg/session"
)

// TokenParam is the query parameter carrying the resource token.
const TokenParam = "T"

// Property names of the org unit move document.
const (
	PropertyCustomerID  = "customerId"
	PropertyName        = "name"
	PropertyUsersToMove = "usersToMove"
)

// ErrNoCustomerID is returned when the customer document has no customerId
// property.
var ErrNoCustomerID = errors.New("customer document has no customerId property")

// Endpoints are the directory API locations.
type Endpoints struct {
	// BaseURL is the user feed. A GET on it yields the resource token and,
	// with a token, the user list. User names are appended to it.
	BaseURL string

	// CustomerIDURL returns the customer document.
	CustomerIDURL string

	// MoveToGroupURL is the org unit feed prefix. The customer id and org
	// unit path are appended to it.
	MoveToGroupURL string
}

// Validate checks that every endpoint is set.
func (e Endpoints) Validate() error {
	switch {
	case e.BaseURL == "":
		return fmt.Errorf("base URL is required")
	case e.CustomerIDURL == "":
		return fmt.Errorf("customer id URL is required")
	case e.MoveToGroupURL == "":
		return fmt.Errorf("move to group URL is required")
	}
	return nil
}

// Client performs directory operations. It is safe for concurrent use.
type Client struct {
	session   *session.Session
	endpoints Endpoints
	logger    hclog.Logger
}

// New creates a directory client on top of s.
func New(s *session.Session, endpoints Endpoints, logger hclog.Logger) (*Client, error) {
	if s == nil {
		return nil, fmt.Errorf("session is required")
	}
	if err := endpoints.Validate(); err != nil {
		return nil, fmt.Errorf("invalid endpoints: %w", err)
	}
	if logger == nil {
		logger = hclog.NewNullLogger()
	}

	return &Client{
		session:   s,
		endpoints: endpoints,
		logger:    logger.Named("directory"),
	}, nil
}

// Token fetches the resource token: the body of a GET on the base URL.
//
// This is not the login token the session caches; that one only travels in
// the Authorization header.
func (c *Client) Token(ctx context.Context) (string, error) {
	token, err := session.Run(ctx, c.session, func(ctx context.Context, doer rest.Doer) (string, error) {
		return rest.Execute(ctx, doer, rest.Get(c.endpoints.BaseURL), rest.String)
	})
	if err != nil {
		return "", fmt.Errorf("failed to fetch token: %w", err)
	}
	return token, nil
}

// CustomerID fetches the raw customer document.
func (c *Client) CustomerID(ctx context.Context, token string) ([]byte, error) {
	data, err := c.get(ctx, c.endpoints.CustomerIDURL, token)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch customer id: %w", err)
	}
	return data, nil
}

// Customer fetches and decodes the customer document.
func (c *Client) Customer(ctx context.Context, token string) (atom.Entry, error) {
	entry, err := session.Run(ctx, c.session, func(ctx context.Context, doer rest.Doer) (atom.Entry, error) {
		return rest.Execute(ctx, doer,
			rest.Get(c.endpoints.CustomerIDURL).WithParam(TokenParam, token),
			rest.Entry)
	})
	if err != nil {
		return atom.Entry{}, fmt.Errorf("failed to fetch customer: %w", err)
	}
	return entry, nil
}

// User fetches the raw document of a single user.
func (c *Client) User(ctx context.Context, token, name string) ([]byte, error) {
	data, err := c.get(ctx, joinURL(c.endpoints.BaseURL, url.PathEscape(name)), token)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch user %s: %w", name, err)
	}
	return data, nil
}

// AllUsers fetches the raw user feed.
func (c *Client) AllUsers(ctx context.Context, token string) ([]byte, error) {
	data, err := c.get(ctx, c.endpoints.BaseURL, token)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch users: %w", err)
	}
	return data, nil
}

func (c *Client) get(ctx context.Context, uri, token string) ([]byte, error) {
	return session.Run(ctx, c.session, func(ctx context.Context, doer rest.Doer) ([]byte, error) {
		return rest.Execute(ctx, doer, rest.Get(uri).WithParam(TokenParam, token), rest.Bytes)
	})
}

// joinURL appends path to base with exactly one slash between them.
func joinURL(base, path string) string {
	return strings.TrimSuffix(base, "/") + "/" + strings.TrimPrefix(path, "/")
}

// escapeOrgUnitPath escapes each segment of an org unit path, keeping the
// separators.
func escapeOrgUnitPath(orgUnit string) string {
	segments := strings.Split(strings.Trim(orgUnit, "/"), "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return strings.Join(segments, "/")
}
