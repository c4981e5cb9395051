// Package rest builds and executes the HTTP calls made against the hosted
// directory API.
//
// A call is described with a Request and executed with a Decoder that fixes
// the type of the result:
//
//	token, err := rest.Execute(ctx, client,
//		rest.Post(loginURL).
//			WithParam("accountType", "HOSTED").
//			WithParam("Email", email),
//		rest.Properties)
package rest

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/hashicorp-forge/appsdir/pkg/atom"
)

// Method is an HTTP method supported by Request.
type Method string

const (
	MethodGet  Method = http.MethodGet
	MethodPost Method = http.MethodPost
	MethodPut  Method = http.MethodPut
)

const formContentType = "application/x-www-form-urlencoded"

// Doer sends an HTTP request. *http.Client satisfies it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Param is a single request parameter.
type Param struct {
	Name  string
	Value string
}

// Request describes one outbound call. Parameters keep insertion order and
// may repeat a name.
type Request struct {
	method Method
	uri    string
	params []Param
	body   *atom.Entry
}

// NewRequest returns a request for an arbitrary method. Methods other than
// GET, POST and PUT fail when the request is built.
func NewRequest(method Method, uri string) *Request {
	return &Request{method: method, uri: uri}
}

// Get returns a GET request. Parameters are sent as the query string.
func Get(uri string) *Request {
	return NewRequest(MethodGet, uri)
}

// Post returns a POST request. Parameters are sent as a form-encoded body.
func Post(uri string) *Request {
	return NewRequest(MethodPost, uri)
}

// Put returns a PUT request. The body is sent as an atom entry and
// parameters as the query string.
func Put(uri string) *Request {
	return NewRequest(MethodPut, uri)
}

// WithParam appends a parameter.
func (r *Request) WithParam(name, value string) *Request {
	r.params = append(r.params, Param{Name: name, Value: value})
	return r
}

// WithBody sets the entry sent by a PUT request. Other methods ignore it.
func (r *Request) WithBody(e atom.Entry) *Request {
	r.body = &e
	return r
}

// Method returns the request method.
func (r *Request) Method() Method {
	return r.method
}

// URI returns the target URI without parameters.
func (r *Request) URI() string {
	return r.uri
}

// Params returns a copy of the parameters in insertion order.
func (r *Request) Params() []Param {
	out := make([]Param, len(r.params))
	copy(out, r.params)
	return out
}

// HTTPRequest builds the *http.Request for r. Unsupported methods return an
// *UnsupportedMethodError.
func (r *Request) HTTPRequest(ctx context.Context) (*http.Request, error) {
	switch r.method {
	case MethodGet:
		target, err := r.target()
		if err != nil {
			return nil, err
		}
		return newHTTPRequest(ctx, r.method, target, nil, "")

	case MethodPost:
		return newHTTPRequest(ctx, r.method, r.uri,
			strings.NewReader(encodeParams(r.params)), formContentType)

	case MethodPut:
		target, err := r.target()
		if err != nil {
			return nil, err
		}
		if r.body == nil {
			return newHTTPRequest(ctx, r.method, target, nil, "")
		}
		data, err := atom.Marshal(*r.body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		return newHTTPRequest(ctx, r.method, target, bytes.NewReader(data), atom.ContentType)

	default:
		return nil, &UnsupportedMethodError{Method: string(r.method)}
	}
}

// target returns the URI with the parameters appended as a query string.
func (r *Request) target() (string, error) {
	u, err := url.Parse(r.uri)
	if err != nil {
		return "", fmt.Errorf("invalid request uri: %w", err)
	}
	if len(r.params) == 0 {
		return u.String(), nil
	}

	query := encodeParams(r.params)
	if u.RawQuery != "" {
		u.RawQuery += "&" + query
	} else {
		u.RawQuery = query
	}
	return u.String(), nil
}

func newHTTPRequest(ctx context.Context, method Method, target string, body io.Reader, contentType string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, string(method), target, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	return req, nil
}

// encodeParams form-encodes params in insertion order. url.Values is not used
// because it sorts by key.
func encodeParams(params []Param) string {
	var sb strings.Builder
	for i, p := range params {
		if i > 0 {
			sb.WriteByte('&')
		}
		sb.WriteString(url.QueryEscape(p.Name))
		sb.WriteByte('=')
		sb.WriteString(url.QueryEscape(p.Value))
	}
	return sb.String()
}
