package session

import (
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-hclog"
)

const (
	authorizationHeader = "Authorization"
	authorizationScheme = "GoogleLogin auth="

	// tokenParam is the query parameter the directory API reads the resource
	// token from.
	tokenParam = "T"

	redacted = "REDACTED"
)

// authTransport sets the Authorization header from the session's cached
// token. Requests sent before any login go out without it.
type authTransport struct {
	next    http.RoundTripper
	session *Session
}

func (t *authTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	token, ok := t.session.Token()
	if !ok {
		return t.next.RoundTrip(req)
	}

	// A RoundTripper must not modify the caller's request.
	req = req.Clone(req.Context())
	req.Header.Set(authorizationHeader, authorizationScheme+token)
	return t.next.RoundTrip(req)
}

// tracingTransport logs each request and its response. Tokens in the query
// string are redacted and headers are not logged.
type tracingTransport struct {
	next   http.RoundTripper
	logger hclog.Logger
}

func (t *tracingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	id := uuid.NewString()
	start := time.Now()

	t.logger.Info("sending request",
		"request_id", id,
		"method", req.Method,
		"url", redactURL(req.URL),
		"authorized", req.Header.Get(authorizationHeader) != "",
	)

	resp, err := t.next.RoundTrip(req)
	if err != nil {
		t.logger.Info("request failed",
			"request_id", id,
			"duration", time.Since(start),
			"error", err,
		)
		return nil, err
	}

	t.logger.Info("received response",
		"request_id", id,
		"status", resp.StatusCode,
		"content_type", resp.Header.Get("Content-Type"),
		"content_length", resp.ContentLength,
		"duration", time.Since(start),
	)
	return resp, nil
}

func redactURL(u *url.URL) string {
	q := u.Query()
	if !q.Has(tokenParam) {
		return u.String()
	}
	q.Set(tokenParam, redacted)

	c := *u
	c.RawQuery = q.Encode()
	return c.String()
}
