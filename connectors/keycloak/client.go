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

// Package keycloak implements the identity provider on top of the Keycloak admin API.
package keycloak

import (
	"context"
	"errors"
	"fmt"

	"github.com/Nerzal/gocloak/v13"
	"github.com/go-dataspace/agri-admin/connectors/identity"
	"github.com/go-dataspace/agri-admin/internal/apperr"
	"github.com/go-dataspace/agri-admin/logging"
	"github.com/go-dataspace/agri-admin/model"
)

const (
	usersGroup    = "Users"
	projectsGroup = "Projects"
)

var _ identity.Provider = &Client{}

// AdminAPI is the part of the gocloak client in use.
type AdminAPI interface {
	LoginClient(ctx context.Context, clientID, clientSecret, realm string, scopes ...string) (*gocloak.JWT, error)
	GetUsers(ctx context.Context, token, realm string, params gocloak.GetUsersParams) ([]*gocloak.User, error)
	GetGroups(ctx context.Context, token, realm string, params gocloak.GetGroupsParams) ([]*gocloak.Group, error)
	GetGroupMembers(
		ctx context.Context, token, realm, groupID string, params gocloak.GetGroupsParams,
	) ([]*gocloak.User, error)
	DeleteUserFromGroup(ctx context.Context, token, realm, userID, groupID string) error
}

// Config holds the service account settings.
type Config struct {
	URL           string
	Realm         string
	ClientID      string
	ClientSecret  string
	ReservedGroup string
}

// Client is a Keycloak backed identity provider.
type Client struct {
	api AdminAPI
	cfg Config
}

// New returns a client talking to the configured Keycloak.
func New(cfg Config) *Client {
	return NewWithAPI(gocloak.NewClient(cfg.URL), cfg)
}

// NewWithAPI returns a client using the given admin API.
func NewWithAPI(api AdminAPI, cfg Config) *Client {
	return &Client{api: api, cfg: cfg}
}

func (c *Client) login(ctx context.Context) (string, error) {
	jwt, err := c.api.LoginClient(ctx, c.cfg.ClientID, c.cfg.ClientSecret, c.cfg.Realm)
	if err != nil {
		return "", fmt.Errorf("couldn't log in to identity provider: %w", err)
	}
	return jwt.AccessToken, nil
}

// ListUsers lists all users of the realm.
func (c *Client) ListUsers(ctx context.Context) ([]model.User, error) {
	token, err := c.login(ctx)
	if err != nil {
		return nil, err
	}
	users, err := c.api.GetUsers(ctx, token, c.cfg.Realm, gocloak.GetUsersParams{})
	if err != nil {
		return nil, fmt.Errorf("couldn't list users: %w", err)
	}
	return toUsers(users), nil
}

// ListGroupMembers returns the members of the "Users" subgroup of every top level group except
// the reserved one.
func (c *Client) ListGroupMembers(ctx context.Context) ([]model.GroupMembers, error) {
	logger := logging.Extract(ctx)
	token, err := c.login(ctx)
	if err != nil {
		return nil, err
	}
	groups, err := c.groups(ctx, token)
	if err != nil {
		return nil, err
	}
	out := make([]model.GroupMembers, 0, len(groups))
	for _, g := range groups {
		name := gocloak.PString(g.Name)
		if name == c.cfg.ReservedGroup {
			continue
		}
		sub, ok := subGroup(g, usersGroup)
		if !ok {
			logger.Debug("Group has no users subgroup", "group", name)
			continue
		}
		members, err := c.api.GetGroupMembers(ctx, token, c.cfg.Realm, gocloak.PString(sub.ID), gocloak.GetGroupsParams{})
		if err != nil {
			return nil, fmt.Errorf("couldn't list members of %s: %w", name, err)
		}
		out = append(out, model.GroupMembers{Group: name, Members: toUsers(members)})
	}
	return out, nil
}

// RemoveUserFromGroup removes the user from the group company/Projects/coopSpace/<role>.
func (c *Client) RemoveUserFromGroup(
	ctx context.Context, company, coopSpace string, role model.Role, username string,
) error {
	ctx, logger := logging.InjectLabels(ctx, "company", company, "coop_space", coopSpace, "username", username)
	token, err := c.login(ctx)
	if err != nil {
		return err
	}
	groups, err := c.groups(ctx, token)
	if err != nil {
		return err
	}
	group, err := walk(groups, company, projectsGroup, coopSpace, role.ProvisioningName())
	if err != nil {
		return err
	}
	users, err := c.api.GetUsers(ctx, token, c.cfg.Realm, gocloak.GetUsersParams{
		Username: gocloak.StringP(username),
		Exact:    gocloak.BoolP(true),
	})
	if err != nil {
		return fmt.Errorf("couldn't look up user: %w", err)
	}
	if len(users) == 0 {
		return apperr.New(apperr.NotFound, "user %s not found", username)
	}
	logger.Info("Removing user from group", "group", gocloak.PString(group.Path))
	if err := c.api.DeleteUserFromGroup(
		ctx, token, c.cfg.Realm, gocloak.PString(users[0].ID), gocloak.PString(group.ID),
	); err != nil {
		return fmt.Errorf("couldn't remove user from group: %w", err)
	}
	return nil
}

func (c *Client) groups(ctx context.Context, token string) ([]*gocloak.Group, error) {
	groups, err := c.api.GetGroups(ctx, token, c.cfg.Realm, gocloak.GetGroupsParams{
		BriefRepresentation: gocloak.BoolP(false),
	})
	if err != nil {
		return nil, fmt.Errorf("couldn't list groups: %w", err)
	}
	return groups, nil
}

var errNoGroup = errors.New("group not found")

func walk(groups []*gocloak.Group, path ...string) (*gocloak.Group, error) {
	var current *gocloak.Group
	for _, g := range groups {
		if gocloak.PString(g.Name) == path[0] {
			current = g
			break
		}
	}
	if current == nil {
		return nil, apperr.Wrap(apperr.NotFound, errNoGroup, "group %s", path[0])
	}
	for _, name := range path[1:] {
		next, ok := subGroup(current, name)
		if !ok {
			return nil, apperr.Wrap(apperr.NotFound, errNoGroup, "group %s/%s", gocloak.PString(current.Path), name)
		}
		current = next
	}
	return current, nil
}

func subGroup(g *gocloak.Group, name string) (*gocloak.Group, bool) {
	if g.SubGroups == nil {
		return nil, false
	}
	for i := range *g.SubGroups {
		sg := &(*g.SubGroups)[i]
		if gocloak.PString(sg.Name) == name {
			return sg, true
		}
	}
	return nil, false
}

func toUsers(users []*gocloak.User) []model.User {
	out := make([]model.User, 0, len(users))
	for _, u := range users {
		out = append(out, model.User{
			ID:        gocloak.PString(u.ID),
			Username:  gocloak.PString(u.Username),
			Email:     gocloak.PString(u.Email),
			FirstName: gocloak.PString(u.FirstName),
			LastName:  gocloak.PString(u.LastName),
		})
	}
	return out
}
