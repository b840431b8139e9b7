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

// Package geonames resolves coordinates to GeoNames place URIs through a SPARQL endpoint.
package geonames

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/go-dataspace/agri-admin/connectors/sparql"
	"github.com/go-dataspace/agri-admin/internal/apperr"
)

// Querier runs SPARQL SELECT queries.
type Querier interface {
	Select(ctx context.Context, query string) (*sparql.Results, error)
}

// Client resolves coordinates.
type Client struct {
	q Querier
}

// New returns a new GeoNames client.
func New(q Querier) *Client {
	return &Client{q: q}
}

// SpatialURI returns the URI of the place whose latitude and longitude literals equal the given
// coordinates.
func (c *Client) SpatialURI(ctx context.Context, lat, lon float64) (string, error) {
	res, err := c.q.Select(ctx, coordinateQuery(lat, lon))
	if err != nil {
		return "", err
	}
	uri, err := res.First("uri")
	if err != nil {
		if errors.Is(err, sparql.ErrNoResults) {
			return "", apperr.Wrap(apperr.NotFound, err, "no place found at %v,%v", lat, lon)
		}
		return "", err
	}
	return uri, nil
}

// FormatCoordinate formats a coordinate the way it is stored in the triple store.
func FormatCoordinate(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func coordinateQuery(lat, lon float64) string {
	return fmt.Sprintf(`PREFIX wgs84_pos: <http://www.w3.org/2003/01/geo/wgs84_pos#>
SELECT ?uri WHERE {
  ?uri wgs84_pos:lat %s ;
       wgs84_pos:long %s .
}
LIMIT 1`, sparql.Literal(FormatCoordinate(lat)), sparql.Literal(FormatCoordinate(lon)))
}
