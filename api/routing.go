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

// Package api contains the REST interface of the admin platform.
package api

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-dataspace/agri-admin/connectors/identity"
	"github.com/go-dataspace/agri-admin/connectors/objectstore"
	"github.com/go-dataspace/agri-admin/model"
	"github.com/go-dataspace/agri-admin/publish"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// ExampleService manages examples.
type ExampleService interface {
	List(ctx context.Context) ([]*model.Example, error)
	Create(ctx context.Context, e *model.Example) (*model.Example, error)
	Update(ctx context.Context, id int64, e *model.Example) (*model.Example, error)
	Delete(ctx context.Context, id int64) error
}

// CoopSpaceService manages coop spaces.
type CoopSpaceService interface {
	Create(ctx context.Context, cs *model.CoopSpace) (*model.CoopSpace, error)
	Delete(ctx context.Context, username, token string, id int64) error
	List(ctx context.Context, token string) ([]*model.CoopSpace, error)
	Get(ctx context.Context, username string, id int64) (*model.CoopSpace, error)
	RemoveMember(ctx context.Context, username string, coopSpaceID, memberID int64) error
}

// PublishService publishes assets.
type PublishService interface {
	BuildDocuments(ctx context.Context, bucket, assetName string, d model.AssetDescriptor) (publish.Documents, error)
	Publish(ctx context.Context, bucket, assetName string, d model.AssetDescriptor) (*model.Asset, error)
	Unpublish(ctx context.Context, bucket, assetName string) error
	List(ctx context.Context) ([]*model.Asset, error)
}

// KeywordSearcher finds vocabulary terms.
type KeywordSearcher interface {
	Search(ctx context.Context, text, lang string, limit int) ([]model.Keyword, error)
}

// Services are the collaborators of the handlers.
type Services struct {
	Examples   ExampleService
	CoopSpaces CoopSpaceService
	Publish    PublishService
	Keywords   KeywordSearcher
	Objects    objectstore.Factory
	Identity   identity.Provider
}

type handlers struct {
	Services
}

// GetRoutes returns the route tree. All routes but the health and metrics endpoints require
// authentication by auth.
func GetRoutes(svc Services, auth func(http.Handler) http.Handler) http.Handler {
	r := chi.NewRouter()
	r.NotFound(routeNotFound)
	r.MethodNotAllowed(methodNotAllowed)
	h := handlers{svc}

	handle(r, http.MethodGet, "/healthz", "healthz", healthHandler)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		r.Use(auth, jsonBodyMiddleware)

		handle(r, http.MethodGet, "/examples", "examples", h.listExamples)
		handle(r, http.MethodPost, "/examples", "examples_create", h.createExample)
		handle(r, http.MethodPut, "/examples/{id}", "examples_update", h.updateExample)
		handle(r, http.MethodDelete, "/examples/{id}", "examples_delete", h.deleteExample)

		handle(r, http.MethodGet, "/coopspaces", "coopspaces", h.listCoopSpaces)
		handle(r, http.MethodPost, "/coopspaces", "coopspaces_create", h.createCoopSpace)
		handle(r, http.MethodGet, "/coopspaces/{id}", "coopspaces_get", h.getCoopSpace)
		handle(r, http.MethodDelete, "/coopspaces/{id}", "coopspaces_delete", h.deleteCoopSpace)
		handle(r, http.MethodDelete, "/coopspaces/{id}/members/{memberID}", "coopspaces_members_delete",
			h.removeMember)

		handle(r, http.MethodGet, "/buckets", "buckets", h.listBuckets)
		handle(r, http.MethodGet, "/buckets/{bucket}/objects", "buckets_objects", h.listObjects)
		handle(r, http.MethodGet, "/buckets/{bucket}/objects/*", "buckets_objects_get", h.getObject)

		handle(r, http.MethodGet, "/assets", "assets", h.listAssets)
		r.Method(http.MethodPost, "/assets", withRoute(http.MethodPost, "/assets",
			WrapHandlerWithMetrics("assets_create", http.HandlerFunc(routeNotImplemented))))
		handle(r, http.MethodPost, "/assets/publish/{bucket}/{name}", "assets_publish", h.publishAsset)
		handle(r, http.MethodDelete, "/assets/unpublish/{bucket}/{name}", "assets_unpublish", h.unpublishAsset)

		handle(r, http.MethodGet, "/agrovoc/keywords", "agrovoc_keywords", h.searchKeywords)

		handle(r, http.MethodGet, "/users", "users", h.listUsers)
		handle(r, http.MethodGet, "/groups", "groups", h.listGroups)
	})
	return r
}

func handle(
	r chi.Router, method, pattern, name string, h func(w http.ResponseWriter, r *http.Request) error,
) {
	r.Method(method, pattern, withRoute(method, pattern, WrapHandlerWithMetrics(name, WrapHandlerWithError(h))))
}

// withRoute names the server span started by otelhttp after the route and records the route on it.
func withRoute(method, pattern string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		span := trace.SpanFromContext(r.Context())
		span.SetName(method + " " + pattern)
		span.SetAttributes(attribute.String("http.route", pattern))
		next.ServeHTTP(w, r)
	})
}

func healthHandler(w http.ResponseWriter, r *http.Request) error {
	return encode(w, http.StatusOK, map[string]string{"status": "ok"})
}
