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

// Package sparql contains a minimal SPARQL 1.1 protocol client that runs SELECT queries and
// decodes the JSON result format.
package sparql

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-dataspace/agri-admin/connectors/shared"
	"github.com/go-dataspace/agri-admin/logging"
)

const resultsMimeType = "application/sparql-results+json"

var (
	// ErrNoResults is returned when a query that has to resolve something has no result rows.
	ErrNoResults = errors.New("query returned no results")
	// ErrEmptyResponse is returned when the endpoint answered without a body.
	ErrEmptyResponse = errors.New("empty SPARQL response")
)

// Term is a single RDF term in a result binding.
type Term struct {
	Type     string `json:"type"`
	Value    string `json:"value"`
	Lang     string `json:"xml:lang,omitempty"`
	Datatype string `json:"datatype,omitempty"`
}

// Results is the decoded SPARQL JSON result document.
type Results struct {
	Head struct {
		Vars []string `json:"vars"`
	} `json:"head"`
	Results struct {
		Bindings []map[string]Term `json:"bindings"`
	} `json:"results"`
}

// First returns the value of variable v in the first result row.
func (r *Results) First(v string) (string, error) {
	if len(r.Results.Bindings) == 0 {
		return "", ErrNoResults
	}
	t, ok := r.Results.Bindings[0][v]
	if !ok {
		return "", fmt.Errorf("variable %q not bound: %w", v, ErrNoResults)
	}
	return t.Value, nil
}

// Client queries a single SPARQL endpoint.
type Client struct {
	endpoint  *url.URL
	requester shared.Requester
}

// New returns a client for the endpoint. If requester is nil, a default HTTPRequester is used.
func New(endpoint *url.URL, requester shared.Requester) *Client {
	if requester == nil {
		requester = &shared.HTTPRequester{Accept: resultsMimeType + ", application/json"}
	}
	return &Client{endpoint: endpoint, requester: requester}
}

// Select runs a SELECT query with a GET request.
func (c *Client) Select(ctx context.Context, query string) (*Results, error) {
	u := *c.endpoint
	q := u.Query()
	q.Set("query", query)
	q.Set("format", "json")
	u.RawQuery = q.Encode()

	logging.Extract(ctx).Debug("Running SPARQL query", "endpoint", c.endpoint.String(), "query", query)
	body, err := c.requester.SendHTTPRequest(ctx, http.MethodGet, &u, nil)
	if err != nil {
		return nil, fmt.Errorf("SPARQL query failed: %w", err)
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, ErrEmptyResponse
	}
	var res Results
	if err := json.Unmarshal(body, &res); err != nil {
		return nil, fmt.Errorf("couldn't decode SPARQL results: %w", err)
	}
	return &res, nil
}

// Literal returns s as a quoted SPARQL string literal.
func Literal(s string) string {
	r := strings.NewReplacer(
		`\`, `\\`,
		`"`, `\"`,
		"\n", `\n`,
		"\r", `\r`,
		"\t", `\t`,
	)
	return `"` + r.Replace(s) + `"`
}

// IRI returns u as a SPARQL IRI reference. It refuses characters that can't appear in an IRI.
func IRI(u string) (string, error) {
	if strings.ContainsAny(u, "<>\"{}|^`\\ \n") {
		return "", fmt.Errorf("invalid IRI: %q", u)
	}
	return "<" + u + ">", nil
}
