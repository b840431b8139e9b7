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

// Package edc is a client for the management API of the data exchange connector the assets are
// published to.
package edc

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/go-dataspace/agri-admin/connectors/shared"
	"github.com/go-dataspace/agri-admin/edc"
	"github.com/go-dataspace/agri-admin/logging"
)

// APIKeyHeader is the header the management API authenticates requests with.
const APIKeyHeader = "X-Api-Key"

// Resource is a management API resource collection.
type Resource string

const (
	Assets              Resource = "assets"
	PolicyDefinitions   Resource = "policydefinitions"
	ContractDefinitions Resource = "contractdefinitions"
)

// idResponse is what the management API returns on creation.
type idResponse struct {
	ID        string `json:"@id"`
	CreatedAt int64  `json:"createdAt"`
}

// Client talks to the management API.
type Client struct {
	baseURL   *url.URL
	requester shared.Requester
}

// New returns a client for the management API at baseURL. All requests carry the API key.
func New(baseURL *url.URL, apiKey string) *Client {
	return NewWithRequester(baseURL, &shared.HTTPRequester{
		Client: &http.Client{
			Transport: shared.HeaderRoundTripper{
				Proxied: http.DefaultTransport,
				Name:    APIKeyHeader,
				Value:   apiKey,
			},
		},
	})
}

// NewWithRequester returns a client using the given requester.
func NewWithRequester(baseURL *url.URL, requester shared.Requester) *Client {
	return &Client{baseURL: baseURL, requester: requester}
}

// CreateAsset posts the asset document and returns the ID the connector assigned.
func (c *Client) CreateAsset(ctx context.Context, doc edc.Asset) (string, error) {
	return create(ctx, c, Assets, doc, doc.ID)
}

// CreatePolicyDefinition posts the policy definition and returns its ID.
func (c *Client) CreatePolicyDefinition(ctx context.Context, doc edc.PolicyDefinition) (string, error) {
	return create(ctx, c, PolicyDefinitions, doc, doc.ID)
}

// CreateContractDefinition posts the contract definition and returns its ID.
func (c *Client) CreateContractDefinition(ctx context.Context, doc edc.ContractDefinition) (string, error) {
	return create(ctx, c, ContractDefinitions, doc, doc.ID)
}

// Delete deletes a resource by ID.
func (c *Client) Delete(ctx context.Context, r Resource, id string) error {
	ctx, logger := logging.InjectLabels(ctx, "resource", string(r), "id", id)
	logger.Info("Deleting connector resource")
	_, err := c.requester.SendHTTPRequest(ctx, http.MethodDelete, c.baseURL.JoinPath(string(r), id), nil)
	if err != nil {
		return fmt.Errorf("couldn't delete %s %s: %w", r, id, err)
	}
	return nil
}

func create[T any](ctx context.Context, c *Client, r Resource, doc T, sentID string) (string, error) {
	ctx, logger := logging.InjectLabels(ctx, "resource", string(r), "id", sentID)
	body, err := edc.ValidateAndMarshal(ctx, doc)
	if err != nil {
		return "", err
	}
	logger.Info("Creating connector resource")
	resp, err := c.requester.SendHTTPRequest(ctx, http.MethodPost, c.baseURL.JoinPath(string(r)), body)
	if err != nil {
		return "", fmt.Errorf("couldn't create %s: %w", r, err)
	}
	var idr idResponse
	if len(resp) > 0 {
		if err := json.Unmarshal(resp, &idr); err != nil {
			logger.Warn("Couldn't decode connector response, using sent ID", "err", err)
		}
	}
	if idr.ID == "" {
		return sentID, nil
	}
	return idr.ID, nil
}
