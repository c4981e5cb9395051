package rest

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hashicorp-forge/appsdir/pkg/atom"
)

// countingDoer records every request it is asked to send.
type countingDoer struct {
	calls int
}

func (d *countingDoer) Do(req *http.Request) (*http.Response, error) {
	d.calls++
	return &http.Response{
		StatusCode: http.StatusOK,
		Body:       io.NopCloser(strings.NewReader("ok")),
	}, nil
}

func TestExecute_Get(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/a/feeds/user", r.URL.Path)
		// Insertion order and duplicates are preserved.
		assert.Equal(t, "T=tok&b=1&a=2&b=3", r.URL.RawQuery)
		assert.Empty(t, r.Header.Get("Content-Type"))
		w.Write([]byte("hello"))
	}))
	defer server.Close()

	req := Get(server.URL+"/a/feeds/user").
		WithParam("T", "tok").
		WithParam("b", "1").
		WithParam("a", "2").
		WithParam("b", "3")

	got, err := Execute(context.Background(), server.Client(), req, String)
	require.NoError(t, err)
	assert.Equal(t, "hello", got)
}

func TestExecute_GetAppendsToExistingQuery(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "alt=atom&T=tok", r.URL.RawQuery)
	}))
	defer server.Close()

	_, err := Execute(context.Background(), server.Client(),
		Get(server.URL+"/feed?alt=atom").WithParam("T", "tok"), Bytes)
	require.NoError(t, err)
}

func TestExecute_GetIgnoresBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		assert.Empty(t, body)
	}))
	defer server.Close()

	_, err := Execute(context.Background(), server.Client(),
		Get(server.URL).WithBody(atom.NewEntry(atom.Property{Name: "a", Value: "b"})), Bytes)
	require.NoError(t, err)
}

func TestExecute_PostForm(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/x-www-form-urlencoded", r.Header.Get("Content-Type"))
		assert.Empty(t, r.URL.RawQuery)

		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		assert.Equal(t, "accountType=HOSTED&Email=admin%40example.com&Passwd=p%26ss+word&service=apps", string(body))

		w.Write([]byte("SID=s\nLSID=l\nAuth=abc123\n"))
	}))
	defer server.Close()

	req := Post(server.URL+"/accounts/ClientLogin").
		WithParam("accountType", "HOSTED").
		WithParam("Email", "admin@example.com").
		WithParam("Passwd", "p&ss word").
		WithParam("service", "apps")

	got, err := Execute(context.Background(), server.Client(), req, Properties)
	require.NoError(t, err)
	assert.Equal(t, "abc123", got["Auth"])
}

func TestExecute_PutEntry(t *testing.T) {
	body := atom.NewEntry(
		atom.Property{Name: "customerId", Value: "C03az79cb"},
		atom.Property{Name: "name", Value: "engineering"},
	)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "application/atom+xml", r.Header.Get("Content-Type"))
		assert.Equal(t, "T=tok", r.URL.RawQuery)

		data, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		got, err := atom.Unmarshal(data)
		require.NoError(t, err)
		assert.Equal(t, body.Properties, got.Properties)

		w.Header().Set("Content-Type", "application/atom+xml")
		w.Write(data)
	}))
	defer server.Close()

	req := Put(server.URL+"/orgunit/C03az79cb/engineering").
		WithParam("T", "tok").
		WithBody(body)

	got, err := Execute(context.Background(), server.Client(), req, Entry)
	require.NoError(t, err)
	assert.Equal(t, body.Properties, got.Properties)
}

func TestExecute_PutWithoutBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Content-Type"))
		data, _ := io.ReadAll(r.Body)
		assert.Empty(t, data)
	}))
	defer server.Close()

	_, err := Execute(context.Background(), server.Client(), Put(server.URL), Bytes)
	require.NoError(t, err)
}

func TestExecute_UnsupportedMethod(t *testing.T) {
	for _, method := range []Method{http.MethodDelete, http.MethodPatch, http.MethodHead, ""} {
		t.Run(string(method), func(t *testing.T) {
			doer := &countingDoer{}

			_, err := Execute(context.Background(), doer, NewRequest(method, "http://example.com"), Bytes)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrUnsupportedMethod)

			var unsupported *UnsupportedMethodError
			require.True(t, errors.As(err, &unsupported))
			assert.Equal(t, string(method), unsupported.Method)

			assert.Zero(t, doer.calls, "no request may be sent")
		})
	}
}

func TestExecute_StatusError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte("Error=BadAuthentication"))
	}))
	defer server.Close()

	_, err := Execute(context.Background(), server.Client(), Get(server.URL), Bytes)
	require.Error(t, err)

	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusForbidden, statusErr.StatusCode)
	assert.Equal(t, "Error=BadAuthentication", string(statusErr.Body))
	assert.Contains(t, err.Error(), "403")
	assert.False(t, errors.Is(err, ErrDecode))
}

func TestExecute_DecodeError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html><body>maintenance</body></html>"))
	}))
	defer server.Close()

	got, err := Execute(context.Background(), server.Client(), Get(server.URL), Entry)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDecode)
	assert.ErrorIs(t, err, atom.ErrUnexpectedDocument)
	assert.Equal(t, atom.Entry{}, got)
}

func TestExecute_TransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	_, err := Execute(context.Background(), http.DefaultClient, Get(url), Bytes)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to send GET request")

	var statusErr *StatusError
	assert.False(t, errors.As(err, &statusErr))
}

func TestExecute_BytesKeepsEmptyBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	got, err := Execute(context.Background(), server.Client(), Get(server.URL), Bytes)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestRequest_Params(t *testing.T) {
	req := Get("http://example.com").WithParam("a", "1").WithParam("a", "2")
	params := req.Params()
	assert.Equal(t, []Param{{Name: "a", Value: "1"}, {Name: "a", Value: "2"}}, params)

	params[0].Value = "changed"
	assert.Equal(t, "1", req.Params()[0].Value)
	assert.Equal(t, MethodGet, req.Method())
	assert.Equal(t, "http://example.com", req.URI())
}

func TestRequest_InvalidURI(t *testing.T) {
	doer := &countingDoer{}
	_, err := Execute(context.Background(), doer, Get("http://[::1"), Bytes)
	require.Error(t, err)
	assert.Zero(t, doer.calls)
}
