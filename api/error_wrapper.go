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
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-dataspace/agri-admin/internal/apperr"
	"github.com/go-dataspace/agri-admin/logging"
)

// ErrorBody is the body of every error response.
type ErrorBody struct {
	Message   string      `json:"message"`
	ErrorType apperr.Kind `json:"errorType"`
}

// WrapHandlerWithError wraps a http handler that returns an error into a more generic http.Handler.
// Typed errors are returned with the status of their kind and logged at warn level, anything else
// becomes a generic 500.
func WrapHandlerWithError(h func(w http.ResponseWriter, r *http.Request) error) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := h(w, r); err != nil {
			writeError(w, r, err)
		}
	})
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	logger := logging.Extract(r.Context())

	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		logger.Warn("Request failed", "err", err.Error(), "error_type", appErr.Kind)
		writeErrorBody(w, r, appErr.StatusCode(), ErrorBody{Message: appErr.Message, ErrorType: appErr.Kind})
		return
	}

	logger.Error("HTTP handler returned error", "err", err.Error())
	writeErrorBody(w, r, http.StatusInternalServerError, ErrorBody{
		Message:   "Internal server error",
		ErrorType: apperr.Unknown,
	})
}

func writeErrorBody(w http.ResponseWriter, r *http.Request, status int, body ErrorBody) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logging.Extract(r.Context()).Error("Error while encoding error body", "err", err)
	}
}

func routeNotImplemented(w http.ResponseWriter, r *http.Request) {
	writeErrorBody(w, r, http.StatusNotImplemented, ErrorBody{
		Message:   "Not implemented",
		ErrorType: apperr.Unknown,
	})
}

func routeNotFound(w http.ResponseWriter, r *http.Request) {
	writeErrorBody(w, r, http.StatusNotFound, ErrorBody{
		Message:   "No route for " + r.Method + " " + r.URL.Path,
		ErrorType: apperr.NotFound,
	})
}

func methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeErrorBody(w, r, http.StatusMethodNotAllowed, ErrorBody{
		Message:   "Method " + r.Method + " not allowed on " + r.URL.Path,
		ErrorType: apperr.BadRequest,
	})
}
