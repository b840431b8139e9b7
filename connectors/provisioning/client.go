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

// Package provisioning is the client for the external room provisioning service that creates and
// removes the rooms backing a cooperation space.
package provisioning

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/go-dataspace/agri-admin/connectors/shared"
	"github.com/go-dataspace/agri-admin/logging"
	"github.com/go-dataspace/agri-admin/model"
)

// RoomRequest asks the provisioning service to create a room.
type RoomRequest struct {
	Mandant      string   `json:"mandant"`
	RoomName     string   `json:"roomName"`
	Organisation string   `json:"organisation"`
	Admins       []string `json:"admins"`
	Users        []string `json:"users"`
	Guests       []string `json:"guests"`
}

// RoomDeletion asks the provisioning service to remove a room.
type RoomDeletion struct {
	Mandant      string `json:"mandant"`
	RoomName     string `json:"roomName"`
	Organisation string `json:"organisation"`
}

// NewRoomRequest partitions the members of the coop space by role.
func NewRoomRequest(cs model.CoopSpace) RoomRequest {
	byRole := cs.UsernamesByRole()
	return RoomRequest{
		Mandant:      cs.Mandant,
		RoomName:     cs.Name,
		Organisation: cs.Company,
		Admins:       byRole[model.RoleOwner],
		Users:        byRole[model.RoleEditor],
		Guests:       byRole[model.RoleViewer],
	}
}

// NewRoomDeletion builds the deletion request for a coop space.
func NewRoomDeletion(cs model.CoopSpace) RoomDeletion {
	return RoomDeletion{
		Mandant:      cs.Mandant,
		RoomName:     cs.Name,
		Organisation: cs.Company,
	}
}

// Client posts room requests to the provisioning service.
type Client struct {
	createURL *url.URL
	deleteURL *url.URL
	requester shared.Requester
}

// New returns a provisioning client.
func New(createURL, deleteURL *url.URL, requester shared.Requester) *Client {
	if requester == nil {
		requester = &shared.HTTPRequester{}
	}
	return &Client{createURL: createURL, deleteURL: deleteURL, requester: requester}
}

// CreateRoom requests a room for the coop space.
func (c *Client) CreateRoom(ctx context.Context, cs model.CoopSpace) error {
	return c.post(ctx, c.createURL, NewRoomRequest(cs))
}

// DeleteRoom requests the removal of the coop space's room.
func (c *Client) DeleteRoom(ctx context.Context, cs model.CoopSpace) error {
	return c.post(ctx, c.deleteURL, NewRoomDeletion(cs))
}

func (c *Client) post(ctx context.Context, u *url.URL, body any) error {
	logger := logging.Extract(ctx)
	b, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("couldn't encode provisioning request: %w", err)
	}
	logger.Debug("Sending provisioning request", "url", u.String())
	if _, err := c.requester.SendHTTPRequest(ctx, http.MethodPost, u, b); err != nil {
		return fmt.Errorf("provisioning request failed: %w", err)
	}
	return nil
}
