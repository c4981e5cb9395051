package rest

import (
	"context"
	"fmt"
	"io"

	"github.com/hashicorp-forge/appsdir/pkg/atom"
)

// Decoder converts a successful response body into a T.
type Decoder[T any] func(body []byte) (T, error)

var (
	// Bytes returns the body as is. Use it to defer decoding.
	Bytes Decoder[[]byte] = func(body []byte) ([]byte, error) {
		return body, nil
	}

	// String returns the body as a string.
	String Decoder[string] = func(body []byte) (string, error) {
		return string(body), nil
	}

	// Entry decodes an atom entry.
	Entry Decoder[atom.Entry] = atom.Unmarshal

	// Properties decodes a key=value body.
	Properties Decoder[map[string]string] = atom.ParseProperties
)

// Execute sends req with doer and decodes a 2xx response with decode.
//
// Unsupported methods fail before doer is called. Non-2xx responses return a
// *StatusError and decode failures a *DecodeError. Nothing is retried.
func Execute[T any](ctx context.Context, doer Doer, req *Request, decode Decoder[T]) (T, error) {
	var zero T

	httpReq, err := req.HTTPRequest(ctx)
	if err != nil {
		return zero, err
	}

	resp, err := doer.Do(httpReq)
	if err != nil {
		return zero, fmt.Errorf("failed to send %s request: %w", req.method, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return zero, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return zero, &StatusError{
			Method:     string(req.method),
			URL:        req.uri,
			StatusCode: resp.StatusCode,
			Body:       body,
		}
	}

	v, err := decode(body)
	if err != nil {
		return zero, &DecodeError{URL: req.uri, Err: err}
	}
	return v, nil
}
