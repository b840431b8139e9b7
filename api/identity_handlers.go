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

import "net/http"

func (h handlers) listUsers(w http.ResponseWriter, r *http.Request) error {
	users, err := h.Identity.ListUsers(r.Context())
	if err != nil {
		return err
	}
	return encode(w, http.StatusOK, nonNil(users))
}

func (h handlers) listGroups(w http.ResponseWriter, r *http.Request) error {
	groups, err := h.Identity.ListGroupMembers(r.Context())
	if err != nil {
		return err
	}
	return encode(w, http.StatusOK, nonNil(groups))
}
