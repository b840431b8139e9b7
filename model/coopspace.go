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

// Package model contains the domain types of the admin platform.
package model

import (
	"fmt"
	"strings"
)

// Role is the role of a member inside a cooperation space.
type Role string

const (
	RoleOwner  Role = "OWNER"
	RoleEditor Role = "EDITOR"
	RoleViewer Role = "VIEWER"
)

// Roles lists the valid roles in privilege order.
var Roles = []Role{RoleOwner, RoleEditor, RoleViewer}

// ProvisioningName returns the name the room-provisioning service and the identity provider use
// for the role.
func (r Role) ProvisioningName() string {
	switch r {
	case RoleOwner:
		return "ADMIN"
	case RoleEditor:
		return "User"
	case RoleViewer:
		return "Guest"
	default:
		return ""
	}
}

// ParseRole parses a role case-insensitively.
func ParseRole(s string) (Role, error) {
	for _, r := range Roles {
		if strings.EqualFold(string(r), s) {
			return r, nil
		}
	}
	return "", fmt.Errorf("unknown role: %q", s)
}

// CoopSpace is a cooperation space, a per organisation shared work area backed by a storage
// bucket.
type CoopSpace struct {
	ID      int64    `json:"id"`
	Name    string   `json:"name" validate:"required"`
	Company string   `json:"company" validate:"required"`
	Mandant string   `json:"mandant"`
	Members []Member `json:"members" validate:"dive"`
}

// Member is a member of a cooperation space.
type Member struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Company  string `json:"company"`
	Email    string `json:"email" validate:"omitempty,email"`
	Role     Role   `json:"role" validate:"required,oneof=OWNER EDITOR VIEWER"`
	Username string `json:"username" validate:"required"`
}

// UsernamesByRole partitions the usernames of the members by role, keeping member order.
func (cs CoopSpace) UsernamesByRole() map[Role][]string {
	out := map[Role][]string{
		RoleOwner:  {},
		RoleEditor: {},
		RoleViewer: {},
	}
	for _, m := range cs.Members {
		if _, ok := out[m.Role]; !ok {
			continue
		}
		out[m.Role] = append(out[m.Role], m.Username)
	}
	return out
}

// Member returns the member with the given id.
func (cs CoopSpace) Member(id int64) (Member, bool) {
	for _, m := range cs.Members {
		if m.ID == id {
			return m, true
		}
	}
	return Member{}, false
}
