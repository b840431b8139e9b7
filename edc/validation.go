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

package edc

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-dataspace/agri-admin/logging"
	"github.com/go-dataspace/agri-admin/odrl"
	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())
	if err := odrl.RegisterValidators(validate); err != nil {
		panic(err)
	}
}

// ValidateAndMarshal validates a document and marshals it to JSON.
func ValidateAndMarshal[T any](ctx context.Context, doc T) ([]byte, error) {
	if err := validate.Struct(doc); err != nil {
		var verrs validator.ValidationErrors
		if ok := asValidationErrors(err, &verrs); ok {
			for _, fe := range verrs {
				logging.Extract(ctx).Error("Validation error",
					"Namespace", fe.Namespace(),
					"Tag", fe.Tag(),
					"Value", fe.Value(),
				)
			}
		}
		return nil, fmt.Errorf("invalid %T document: %w", doc, err)
	}
	return json.Marshal(doc)
}

func asValidationErrors(err error, target *validator.ValidationErrors) bool {
	verrs, ok := err.(validator.ValidationErrors) //nolint:errorlint // validator returns the value type directly.
	if ok {
		*target = verrs
	}
	return ok
}
