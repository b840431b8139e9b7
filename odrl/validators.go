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

package odrl

import (
	"slices"

	"github.com/go-playground/validator/v10"
)

var actions = []string{
	"odrl:use",
	"odrl:read",
	"odrl:distribute",
	"odrl:reproduce",
	"odrl:derive",
	"odrl:aggregate",
	"odrl:anonymize",
	"odrl:transfer",
	"odrl:compensate",
	"odrl:attribute",
	"odrl:inform",
	"odrl:delete",
}

var operators = []string{
	"odrl:eq",
	"odrl:neq",
	"odrl:gt",
	"odrl:gteq",
	"odrl:lt",
	"odrl:lteq",
	"odrl:isA",
	"odrl:isAnyOf",
	"odrl:isAllOf",
	"odrl:isNoneOf",
	"odrl:isPartOf",
	"odrl:hasPart",
}

func validateConstraint(sl validator.StructLevel) {
	c, ok := sl.Current().Interface().(Constraint)
	if !ok {
		return
	}
	if !slices.Contains(operators, c.Operator.ID) {
		sl.ReportError(c.Operator.ID, "Operator", "Operator", "odrl_operator", "")
	}
	if c.LeftOperand.ID == "" {
		sl.ReportError(c.LeftOperand.ID, "LeftOperand", "LeftOperand", "required", "")
	}
}

func validatePermission(sl validator.StructLevel) {
	p, ok := sl.Current().Interface().(Permission)
	if !ok {
		return
	}
	if !slices.Contains(actions, p.Action.ID) {
		sl.ReportError(p.Action.ID, "Action", "Action", "odrl_action", "")
	}
}

func validateDuty(sl validator.StructLevel) {
	d, ok := sl.Current().Interface().(Duty)
	if !ok {
		return
	}
	if !slices.Contains(actions, d.Action.ID) {
		sl.ReportError(d.Action.ID, "Action", "Action", "odrl_action", "")
	}
}

// RegisterValidators registers the ODRL struct validations.
func RegisterValidators(v *validator.Validate) error {
	v.RegisterStructValidation(validatePermission, Permission{})
	v.RegisterStructValidation(validateDuty, Duty{})
	v.RegisterStructValidation(validateConstraint, Constraint{})
	return nil
}
