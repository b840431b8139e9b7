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

// Package odrl contains the subset of ODRL the connector usage policies are built from.
package odrl

// Policy is an ODRL policy as embedded in a connector policy definition.
type Policy struct {
	Type        string       `json:"@type" validate:"required,oneof=odrl:Set odrl:Offer odrl:Agreement"`
	Assigner    string       `json:"odrl:assigner,omitempty"`
	Target      string       `json:"odrl:target,omitempty"`
	Permission  []Permission `json:"odrl:permission" validate:"dive"`
	Prohibition []Permission `json:"odrl:prohibition" validate:"dive"`
	Obligation  []Duty       `json:"odrl:obligation" validate:"dive"`
}

// Reference is a reference to another node.
type Reference struct {
	ID string `json:"@id" validate:"required"`
}

// Permission is a permission entry.
type Permission struct {
	Target     string       `json:"odrl:target,omitempty"`
	Action     Reference    `json:"odrl:action" validate:"required"`
	Constraint []Constraint `json:"odrl:constraint,omitempty" validate:"dive"`
	Duty       []Duty       `json:"odrl:duty,omitempty" validate:"dive"`
}

// Duty is an ODRL duty.
type Duty struct {
	Action     Reference    `json:"odrl:action" validate:"required"`
	Constraint []Constraint `json:"odrl:constraint,omitempty" validate:"dive"`
}

// Constraint is an ODRL constraint.
type Constraint struct {
	LeftOperand  Reference `json:"odrl:leftOperand"`
	Operator     Reference `json:"odrl:operator"`
	RightOperand string    `json:"odrl:rightOperand"`
}

// UsePermission returns the permission to use the target without further constraints.
func UsePermission(target string) Permission {
	return Permission{
		Target: target,
		Action: Reference{ID: "odrl:use"},
	}
}

// NewSet returns an odrl:Set policy with the given permissions and empty prohibitions and
// obligations, the connector requires those to be present.
func NewSet(permissions ...Permission) Policy {
	if permissions == nil {
		permissions = []Permission{}
	}
	return Policy{
		Type:        "odrl:Set",
		Permission:  permissions,
		Prohibition: []Permission{},
		Obligation:  []Duty{},
	}
}
