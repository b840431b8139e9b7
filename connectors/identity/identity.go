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

// Package identity describes the identity provider the platform administers users and groups in.
package identity

import (
	"context"

	"github.com/go-dataspace/agri-admin/model"
)

// Provider is an identity provider.
type Provider interface {
	// ListUsers lists all users of the realm.
	ListUsers(ctx context.Context) ([]model.User, error)
	// ListGroupMembers lists the members of the "Users" subgroup of every company group.
	ListGroupMembers(ctx context.Context) ([]model.GroupMembers, error)
	// RemoveUserFromGroup removes the user from the role group of a coop space.
	RemoveUserFromGroup(ctx context.Context, company, coopSpace string, role model.Role, username string) error
}
