// Copyright 2024 go-dataspace
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package shared contains the HTTP plumbing the outbound connectors have in common.
package shared

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/go-dataspace/agri-admin/logging"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("github.com/go-dataspace/agri-admin/connectors")

// Requester sends a HTTP request and returns the body of a successful response.
type Requester interface {
	SendHTTPRequest(ctx context.Context, method string, url *url.URL, reqBody []byte) ([]byte, error)
}

// StatusError is returned when the upstream service answers with a non 2xx status.
type StatusError struct {
	Method     string
	URL        string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s: received status code %d", e.Method, e.URL, e.StatusCode)
}

// HTTPRequester is the default Requester. All requests carry JSON content headers.
type HTTPRequester struct {
	Client *http.Client
	// Accept overrides the Accept header, it defaults to application/json.
	Accept string
	// Header contains extra headers that are set on every request.
	Header http.Header
}

func (hr *HTTPRequester) client() *http.Client {
	if hr.Client == nil {
		return http.DefaultClient
	}
	return hr.Client
}

// SendHTTPRequest does the request and returns the body. A non 2xx response results in a
// *StatusError.
func (hr *HTTPRequester) SendHTTPRequest(
	ctx context.Context, method string, u *url.URL, reqBody []byte,
) ([]byte, error) {
	ctx, logger := logging.InjectLabels(ctx, "method", method, "target_url", u.String())
	ctx, span := tracer.Start(ctx, "SendHTTPRequest", trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()
	span.SetAttributes(
		attribute.String("http.request.method", method),
		attribute.String("url.full", u.String()),
	)

	logger.Debug("Doing HTTP request")
	var payload io.Reader
	if reqBody != nil {
		payload = bytes.NewReader(reqBody)
	}
	req, err := http.NewRequestWithContext(ctx, method, u.String(), payload)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if reqBody != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	accept := hr.Accept
	if accept == "" {
		accept = "application/json"
	}
	req.Header.Set("Accept", accept)
	for k, v := range hr.Header {
		for _, vv := range v {
			req.Header.Add(k, vv)
		}
	}

	// Inject the trace context into the HTTP headers
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	resp, err := hr.client().Do(req)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		logger.Error("Failed to send request", "err", err)
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read body: %w", err)
	}
	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		span.SetStatus(codes.Error, "non-2xx status code")
		logger.Error("Received non-2xx status code", "status_code", resp.StatusCode, "body", string(respBody))
		return nil, &StatusError{
			Method:     method,
			URL:        u.String(),
			StatusCode: resp.StatusCode,
			Body:       string(respBody),
		}
	}

	return respBody, nil
}

// MustParseURL parses a URL and panics if it can't.
func MustParseURL(u string) *url.URL {
	pu, err := url.Parse(u)
	if err != nil {
		panic(err.Error())
	}
	return pu
}
