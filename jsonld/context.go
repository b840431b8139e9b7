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

// Package jsonld contains utility types and functions to handle JSON-LD documents.
package jsonld

import (
	"encoding/json"
	"fmt"
	"maps"
	"slices"
)

// Well known namespaces used in the connector documents.
const (
	EDCVocab  = "https://w3id.org/edc/v0.0.1/ns/"
	ODRL      = "http://www.w3.org/ns/odrl/2/"
	DCAT      = "http://www.w3.org/ns/dcat#"
	DCTerms   = "http://purl.org/dc/terms/"
	VocabTerm = "@vocab"
)

// Context is a JSON-LD @context entry. In JSON-LD this can be a string, a list of strings or
// a map of terms/prefixes to IRIs.
type Context struct {
	rootContexts  []string
	namedContexts map[string]string
}

// NewRootContext creates a context that references remote context documents.
func NewRootContext(iris ...string) Context {
	return Context{rootContexts: iris, namedContexts: map[string]string{}}
}

// NewNamedContext creates a context from a map of prefixes (or @vocab) to IRIs.
func NewNamedContext(c map[string]string) Context {
	return Context{rootContexts: []string{}, namedContexts: maps.Clone(c)}
}

// EDCContext returns the context the connector management API expects, using the EDC namespace
// as default vocabulary.
func EDCContext(prefixes ...string) Context {
	known := map[string]string{
		"odrl": ODRL,
		"dcat": DCAT,
		"dct":  DCTerms,
	}
	c := map[string]string{VocabTerm: EDCVocab}
	for _, p := range prefixes {
		if iri, ok := known[p]; ok {
			c[p] = iri
		}
	}
	return NewNamedContext(c)
}

// UnmarshalJSON will first try to unmarshal the context as a map, if that fails, it will try to
// unmarshal it as a list of strings, and if that fails, as a single string.
func (c *Context) UnmarshalJSON(data []byte) error {
	var nc map[string]string
	if err := json.Unmarshal(data, &nc); err == nil {
		*c = NewNamedContext(nc)
		return nil
	}
	var lc []string
	if err := json.Unmarshal(data, &lc); err == nil {
		*c = NewRootContext(lc...)
		return nil
	}
	var sc string
	if err := json.Unmarshal(data, &sc); err == nil {
		*c = NewRootContext(sc)
		return nil
	}
	return fmt.Errorf("couldn't unmarshal Context: %s", data)
}

// MarshalJSON marshals the named contexts if there are any. If not, a single root context is
// marshalled as a string and multiple as a list.
func (c Context) MarshalJSON() ([]byte, error) {
	if len(c.namedContexts) > 0 {
		return json.Marshal(c.namedContexts)
	}
	if len(c.rootContexts) == 1 {
		return json.Marshal(c.rootContexts[0])
	}
	if c.rootContexts == nil {
		return json.Marshal([]string{})
	}
	return json.Marshal(c.rootContexts)
}

// Lookup returns the IRI for a prefix.
func (c Context) Lookup(prefix string) (string, bool) {
	iri, ok := c.namedContexts[prefix]
	return iri, ok
}

// Prefixes returns the sorted named prefixes.
func (c Context) Prefixes() []string {
	return slices.Sorted(maps.Keys(c.namedContexts))
}

// RootContexts returns the root contexts, this can be empty if there are named contexts.
func (c Context) RootContexts() []string {
	return c.rootContexts
}
