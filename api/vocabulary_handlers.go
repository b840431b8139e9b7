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

	"github.com/go-dataspace/agri-admin/internal/apperr"
)

const (
	defaultKeywordLang  = "en"
	defaultKeywordLimit = 10
	maxKeywordLimit     = 100
)

func (h handlers) searchKeywords(w http.ResponseWriter, r *http.Request) error {
	q := r.URL.Query()
	text := q.Get("q")
	if text == "" {
		return apperr.New(apperr.BadRequest, "query parameter q is required")
	}
	lang := q.Get("lang")
	if lang == "" {
		lang = defaultKeywordLang
	}
	limit := defaultKeywordLimit
	if raw := q.Get("limit"); raw != "" {
		l, err := strconv.Atoi(raw)
		if err != nil || l < 1 || l > maxKeywordLimit {
			return apperr.New(apperr.BadRequest, "limit must be between 1 and %d", maxKeywordLimit)
		}
		limit = l
	}
	keywords, err := h.Keywords.Search(r.Context(), text, lang, limit)
	if err != nil {
		return err
	}
	return encode(w, http.StatusOK, nonNil(keywords))
}
