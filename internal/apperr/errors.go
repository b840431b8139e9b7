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

// Package apperr contains the error kinds the admin API can return, and the mapping of those kinds
// onto HTTP status codes.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind is the closed set of business error kinds.
type Kind string

const (
	NotFound           Kind = "NOT_FOUND"
	BadRequest         Kind = "BAD_REQUEST"
	Unknown            Kind = "UNKNOWN"
	ResourceIDMismatch Kind = "RESOURCE_ID_MISMATCH"
	Example            Kind = "EXAMPLE"
	BucketNotEmpty     Kind = "BUCKET_NOT_EMPTY"
	Forbidden          Kind = "FORBIDDEN"
	Unauthorized       Kind = "UNAUTHORIZED"
)

// Status returns the HTTP status code for an error kind. Unknown kinds map to 500.
func Status(k Kind) int {
	switch k {
	case NotFound:
		return http.StatusNotFound
	case BadRequest, ResourceIDMismatch, Example:
		return http.StatusBadRequest
	case BucketNotEmpty:
		return http.StatusConflict
	case Forbidden:
		return http.StatusForbidden
	case Unauthorized:
		return http.StatusUnauthorized
	case Unknown:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// Error is a typed business error.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %s", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// StatusCode returns the HTTP status of the error.
func (e *Error) StatusCode() int {
	return Status(e.Kind)
}

// New returns a new error of the given kind.
func New(k Kind, format string, args ...any) *Error {
	return &Error{Kind: k, Message: fmt.Sprintf(format, args...)}
}

// Wrap returns a new error of the given kind that wraps err.
func Wrap(k Kind, err error, format string, args ...any) *Error {
	return &Error{Kind: k, Message: fmt.Sprintf(format, args...), Err: err}
}

// KindOf returns the kind of the first *Error in err's chain, or Unknown.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Unknown
}

// Is reports whether err carries the given kind.
func Is(err error, k Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == k
}
