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

// Package agrovoc resolves free text keywords to AGROVOC concept URIs through the AGROVOC SPARQL
// endpoint.
package agrovoc

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dgraph-io/ristretto/v2"
	"github.com/go-dataspace/agri-admin/connectors/sparql"
	"github.com/go-dataspace/agri-admin/internal/apperr"
	"github.com/go-dataspace/agri-admin/logging"
	"github.com/go-dataspace/agri-admin/model"
)

const (
	prefixes = `PREFIX skos: <http://www.w3.org/2004/02/skos/core#>
PREFIX skosxl: <http://www.w3.org/2008/05/skos-xl#>
`
	labelLimit = 10
)

// Querier runs SPARQL SELECT queries.
type Querier interface {
	Select(ctx context.Context, query string) (*sparql.Results, error)
}

// Client resolves keywords against AGROVOC.
type Client struct {
	q     Querier
	cache *ristretto.Cache[string, string]
}

// Option configures the client.
type Option func(*Client) error

// WithCache enables an in-process cache of resolved concept URIs holding up to size entries.
func WithCache(size int64) Option {
	return func(c *Client) error {
		if size <= 0 {
			return nil
		}
		cache, err := ristretto.NewCache(&ristretto.Config[string, string]{
			NumCounters: size * 10,
			MaxCost:     size,
			BufferItems: 64,
		})
		if err != nil {
			return fmt.Errorf("couldn't create concept cache: %w", err)
		}
		c.cache = cache
		return nil
	}
}

// New returns a new AGROVOC client.
func New(q Querier, opts ...Option) (*Client, error) {
	c := &Client{q: q}
	for _, o := range opts {
		if err := o(c); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Close releases the cache.
func (c *Client) Close() {
	if c.cache != nil {
		c.cache.Close()
	}
}

// ConceptURI resolves a keyword to its concept URI. The keyword is first matched
// case-insensitively against the literal forms of the SKOS-XL labels, the first matching label
// is then resolved to the concept that has it as a preferred or alternative label.
func (c *Client) ConceptURI(ctx context.Context, keyword string) (string, error) {
	key := strings.ToLower(keyword)
	if c.cache != nil {
		if uri, ok := c.cache.Get(key); ok {
			return uri, nil
		}
	}
	ctx, logger := logging.InjectLabels(ctx, "keyword", keyword)

	res, err := c.q.Select(ctx, labelQuery(keyword))
	if err != nil {
		return "", err
	}
	label, err := res.First("label")
	if err != nil {
		return "", noMatch(err, "no AGROVOC label matches keyword %q", keyword)
	}

	query, err := conceptQuery(label)
	if err != nil {
		return "", err
	}
	res, err = c.q.Select(ctx, query)
	if err != nil {
		return "", err
	}
	uri, err := res.First("concept")
	if err != nil {
		return "", noMatch(err, "no AGROVOC concept for label %q", label)
	}
	logger.Debug("Resolved keyword", "concept", uri)

	if c.cache != nil {
		c.cache.Set(key, uri, 1)
		c.cache.Wait()
	}
	return uri, nil
}

// Search returns concepts whose preferred label in lang contains text.
func (c *Client) Search(ctx context.Context, text, lang string, limit int) ([]model.Keyword, error) {
	if lang == "" {
		lang = "en"
	}
	query := prefixes + fmt.Sprintf(`SELECT DISTINCT ?concept ?label WHERE {
  ?concept skosxl:prefLabel ?l .
  ?l skosxl:literalForm ?label .
  FILTER(LANGMATCHES(LANG(?label), %s) && CONTAINS(LCASE(STR(?label)), LCASE(%s)))
}
ORDER BY STRLEN(STR(?label))
LIMIT %d`, sparql.Literal(lang), sparql.Literal(text), limit)

	res, err := c.q.Select(ctx, query)
	if err != nil {
		return nil, err
	}
	keywords := make([]model.Keyword, 0, len(res.Results.Bindings))
	for _, b := range res.Results.Bindings {
		keywords = append(keywords, model.Keyword{
			Label: b["label"].Value,
			URI:   b["concept"].Value,
		})
	}
	return keywords, nil
}

func labelQuery(keyword string) string {
	return prefixes + fmt.Sprintf(`SELECT ?label WHERE {
  ?label skosxl:literalForm ?literal .
  FILTER(LCASE(STR(?literal)) = LCASE(%s))
}
LIMIT %d`, sparql.Literal(keyword), labelLimit)
}

func conceptQuery(label string) (string, error) {
	iri, err := sparql.IRI(label)
	if err != nil {
		return "", err
	}
	return prefixes + fmt.Sprintf(`SELECT ?concept WHERE {
  { ?concept skosxl:prefLabel %[1]s }
  UNION
  { ?concept skosxl:altLabel %[1]s }
}
LIMIT 1`, iri), nil
}

func noMatch(err error, format string, args ...any) error {
	if errors.Is(err, sparql.ErrNoResults) {
		return apperr.Wrap(apperr.NotFound, err, format, args...)
	}
	return err
}
