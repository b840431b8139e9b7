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
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-dataspace/agri-admin/connectors/objectstore"
	"github.com/go-dataspace/agri-admin/internal/apperr"
	"github.com/go-dataspace/agri-admin/logging"
)

func (h handlers) store(r *http.Request) (objectstore.Store, error) {
	p, err := principal(r)
	if err != nil {
		return nil, err
	}
	return h.Objects.ForToken(r.Context(), p.Token)
}

func (h handlers) listBuckets(w http.ResponseWriter, r *http.Request) error {
	store, err := h.store(r)
	if err != nil {
		return err
	}
	buckets, err := store.ListBuckets(r.Context())
	if err != nil {
		return err
	}
	return encode(w, http.StatusOK, nonNil(buckets))
}

func (h handlers) listObjects(w http.ResponseWriter, r *http.Request) error {
	store, err := h.store(r)
	if err != nil {
		return err
	}
	objects, err := store.ListObjects(r.Context(), chi.URLParam(r, "bucket"))
	if err != nil {
		return err
	}
	return encode(w, http.StatusOK, nonNil(objects))
}

func (h handlers) getObject(w http.ResponseWriter, r *http.Request) error {
	key := chi.URLParam(r, "*")
	if key == "" {
		return apperr.New(apperr.BadRequest, "object key is missing")
	}
	store, err := h.store(r)
	if err != nil {
		return err
	}
	body, obj, err := store.GetObject(r.Context(), chi.URLParam(r, "bucket"), key)
	if err != nil {
		return err
	}
	defer body.Close()

	contentType := obj.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Length", strconv.FormatInt(obj.Size, 10))
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, body); err != nil {
		// Headers are out, all we can do is log.
		logging.Extract(r.Context()).Error("Couldn't stream object", "key", key, "err", err)
	}
	return nil
}
