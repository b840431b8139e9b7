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

// Package example is the CRUD service of the example entity.
package example

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-dataspace/agri-admin/internal/apperr"
	"github.com/go-dataspace/agri-admin/model"
	"github.com/go-dataspace/agri-admin/persistence"
)

// Service manages examples.
type Service struct {
	store persistence.ExampleSaver
}

// New returns an example service.
func New(store persistence.ExampleSaver) *Service {
	return &Service{store: store}
}

// List returns all examples.
func (s *Service) List(ctx context.Context) ([]*model.Example, error) {
	return s.store.ListExamples(ctx)
}

// Create stores a new example. New examples don't carry an id.
func (s *Service) Create(ctx context.Context, e *model.Example) (*model.Example, error) {
	if e.ID != 0 {
		return nil, apperr.New(apperr.Example, "a new example can't already have an id")
	}
	if err := s.store.PutExample(ctx, e); err != nil {
		return nil, fmt.Errorf("couldn't store example: %w", err)
	}
	return e, nil
}

// Update replaces the example with the given id.
func (s *Service) Update(ctx context.Context, id int64, e *model.Example) (*model.Example, error) {
	if e.ID != id {
		return nil, apperr.New(apperr.ResourceIDMismatch, "id %d in path does not match id %d in body", id, e.ID)
	}
	if _, err := s.store.GetExample(ctx, id); err != nil {
		return nil, notFound(err, id)
	}
	if err := s.store.PutExample(ctx, e); err != nil {
		return nil, fmt.Errorf("couldn't store example: %w", err)
	}
	return e, nil
}

// Delete deletes the example.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.store.DelExample(ctx, id); err != nil {
		return notFound(err, id)
	}
	return nil
}

func notFound(err error, id int64) error {
	if errors.Is(err, persistence.ErrNotFound) {
		return apperr.Wrap(apperr.NotFound, err, "example %d", id)
	}
	return err
}
