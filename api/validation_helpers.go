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
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-dataspace/agri-admin/internal/apperr"
	"github.com/go-dataspace/agri-admin/logging"
	"github.com/go-playground/validator/v10"
)

const maxMessageLength = 200

var validate = validator.New(validator.WithRequiredStructEnabled())

// EncodeValid validates a struct and writes it as JSON with the given status.
func EncodeValid[T any](w http.ResponseWriter, r *http.Request, status int, v T) error {
	if err := validate.Struct(v); err != nil {
		logging.Extract(r.Context()).Error("Response does not validate", "err", err)
		return fmt.Errorf("invalid response: %w", err)
	}
	return encode(w, status, v)
}

func encode(w http.ResponseWriter, status int, v any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	return nil
}

// DecodeValid decodes the JSON body of the request and validates it. Bodies that can't be decoded
// or don't validate result in a BAD_REQUEST error.
func DecodeValid[T any](r *http.Request) (T, error) {
	defer r.Body.Close()
	var v T
	if err := json.NewDecoder(r.Body).Decode(&v); err != nil {
		return v, apperr.Wrap(apperr.BadRequest, err, "%s", trimMessage("malformed body: "+err.Error()))
	}
	if err := validate.Struct(v); err != nil {
		return v, handleValidationError(err, logging.Extract(r.Context()))
	}
	return v, nil
}

func handleValidationError(err error, logger *slog.Logger) error {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		logger.Error("Invalid validation", "err", err)
		return fmt.Errorf("invalid validation: %w", err)
	}
	fields := make([]string, 0, len(ve))
	for _, fe := range ve {
		logger.Debug(
			"Validation error",
			"Namespace", fe.Namespace(),
			"Field", fe.Field(),
			"Tag", fe.Tag(),
			"Param", fe.Param(),
		)
		fields = append(fields, fmt.Sprintf("%s (%s)", fe.Namespace(), fe.Tag()))
	}
	return apperr.Wrap(apperr.BadRequest, err, "%s", trimMessage("invalid fields: "+strings.Join(fields, ", ")))
}

func trimMessage(s string) string {
	s, _, _ = strings.Cut(strings.TrimSpace(s), "\n")
	if len(s) > maxMessageLength {
		s = s[:maxMessageLength]
	}
	return s
}

func pathID(r *http.Request, name string) (int64, error) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, apperr.Wrap(apperr.BadRequest, err, "invalid %s: %q", name, raw)
	}
	return id, nil
}
