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
	"mime"
	"net/http"

	"github.com/go-dataspace/agri-admin/internal/apperr"
)

// jsonBodyMiddleware rejects request bodies that are not JSON.
func jsonBodyMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.ContentLength != 0 {
			mt, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
			if err != nil || mt != "application/json" {
				writeErrorBody(w, r, http.StatusUnsupportedMediaType, ErrorBody{
					Message:   "Unsupported content-type: " + r.Header.Get("Content-Type"),
					ErrorType: apperr.BadRequest,
				})
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}
