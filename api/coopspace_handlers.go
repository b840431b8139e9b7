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

func (h handlers) listCoopSpaces(w http.ResponseWriter, r *http.Request) error {
	p, err := principal(r)
	if err != nil {
		return err
	}
	spaces, err := h.CoopSpaces.List(r.Context(), p.Token)
	if err != nil {
		return err
	}
	return encode(w, http.StatusOK, nonNil(spaces))
}

func (h handlers) createCoopSpace(w http.ResponseWriter, r *http.Request) error {
	cs, err := DecodeValid[model.CoopSpace](r)
	if err != nil {
		return err
	}
	created, err := h.CoopSpaces.Create(r.Context(), &cs)
	if err != nil {
		return err
	}
	return EncodeValid(w, r, http.StatusCreated, created)
}

func (h handlers) getCoopSpace(w http.ResponseWriter, r *http.Request) error {
	p, err := principal(r)
	if err != nil {
		return err
	}
	id, err := pathID(r, "id")
	if err != nil {
		return err
	}
	cs, err := h.CoopSpaces.Get(r.Context(), p.Username, id)
	if err != nil {
		return err
	}
	return EncodeValid(w, r, http.StatusOK, cs)
}

func (h handlers) deleteCoopSpace(w http.ResponseWriter, r *http.Request) error {
	p, err := principal(r)
	if err != nil {
		return err
	}
	id, err := pathID(r, "id")
	if err != nil {
		return err
	}
	if err := h.CoopSpaces.Delete(r.Context(), p.Username, p.Token, id); err != nil {
		return err
	}
	w.WriteHeader(http.StatusNoContent)
	return nil
}

func (h handlers) removeMember(w http.ResponseWriter, r *http.Request) error {
	p, err := principal(r)
	if err != nil {
		return err
	}
	id, err := pathID(r, "id")
	if err != nil {
		return err
	}
	memberID, err := pathID(r, "memberID")
	if err != nil {
		return err
	}
	if err := h.CoopSpaces.RemoveMember(r.Context(), p.Username, id, memberID); err != nil {
		return err
	}
	w.WriteHeader(http.StatusNoContent)
	return nil
}
