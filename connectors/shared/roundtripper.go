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

package shared

import (
	"net/http"
)

// HeaderRoundTripper is a http client "middleware" that sets a fixed header on every outgoing
// request.
type HeaderRoundTripper struct {
	Proxied http.RoundTripper
	Name    string
	Value   string
}

// RoundTrip does the actual injection.
func (hrt HeaderRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	proxied := hrt.Proxied
	if proxied == nil {
		proxied = http.DefaultTransport
	}
	req = req.Clone(req.Context())
	req.Header.Set(hrt.Name, hrt.Value)
	return proxied.RoundTrip(req)
}
