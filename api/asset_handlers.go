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
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-dataspace/agri-admin/internal/apperr"
	"github.com/go-dataspace/agri-admin/model"
)

func (h handlers) listAssets(w http.ResponseWriter, r *http.Request) error {
	assets, err := h.Publish.List(r.Context())
	if err != nil {
		return err
	}
	return encode(w, http.StatusOK, nonNil(assets))
}

func (h handlers) publishAsset(w http.ResponseWriter, r *http.Request) error {
	bucket, name := chi.URLParam(r, "bucket"), chi.URLParam(r, "name")
	d, err := DecodeValid[model.AssetDescriptor](r)
	if err != nil {
		return err
	}

	dryRun := false
	if raw := r.URL.Query().Get("dryRun"); raw != "" {
		dryRun, err = strconv.ParseBool(raw)
		if err != nil {
			return apperr.Wrap(apperr.BadRequest, err, "invalid dryRun: %q", raw)
		}
	}
	if dryRun {
		docs, err := h.Publish.BuildDocuments(r.Context(), bucket, name, d)
		if err != nil {
			return err
		}
		return encode(w, http.StatusOK, docs)
	}

	asset, err := h.Publish.Publish(r.Context(), bucket, name, d)
	if err != nil {
		return err
	}
	return EncodeValid(w, r, http.StatusCreated, asset)
}

func (h handlers) unpublishAsset(w http.ResponseWriter, r *http.Request) error {
	if err := h.Publish.Unpublish(r.Context(), chi.URLParam(r, "bucket"), chi.URLParam(r, "name")); err != nil {
		return err
	}
	w.WriteHeader(http.StatusNoContent)
	return nil
}
