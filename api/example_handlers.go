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

package api

import (
	"net/http"

	"github.com/go-dataspace/agri-admin/model"
)

func (h handlers) listExamples(w http.ResponseWriter, r *http.Request) error {
	examples, err := h.Examples.List(r.Context())
	if err != nil {
		return err
	}
	return encode(w, http.StatusOK, nonNil(examples))
}

func (h handlers) createExample(w http.ResponseWriter, r *http.Request) error {
	e, err := DecodeValid[model.Example](r)
	if err != nil {
		return err
	}
	created, err := h.Examples.Create(r.Context(), &e)
	if err != nil {
		return err
	}
	return EncodeValid(w, r, http.StatusCreated, created)
}

func (h handlers) updateExample(w http.ResponseWriter, r *http.Request) error {
	id, err := pathID(r, "id")
	if err != nil {
		return err
	}
	e, err := DecodeValid[model.Example](r)
	if err != nil {
		return err
	}
	updated, err := h.Examples.Update(r.Context(), id, &e)
	if err != nil {
		return err
	}
	return EncodeValid(w, r, http.StatusOK, updated)
}

func (h handlers) deleteExample(w http.ResponseWriter, r *http.Request) error {
	id, err := pathID(r, "id")
	if err != nil {
		return err
	}
	if err := h.Examples.Delete(r.Context(), id); err != nil {
		return err
	}
	w.WriteHeader(http.StatusNoContent)
	return nil
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
