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

// Package persistence contains the storage interfaces for the admin platform. The relational
// store is the source of truth for the existence of cooperation spaces, their members, published
// asset records and examples.
package persistence

import (
	"context"
	"errors"

	"github.com/go-dataspace/agri-admin/model"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("record not found")

// StorageProvider is an interface that combines the *Saver interfaces.
type StorageProvider interface {
	CoopSpaceSaver
	AssetSaver
	ExampleSaver
	Close() error
}

// CoopSpaceSaver stores cooperation spaces together with their members.
type CoopSpaceSaver interface {
	// ListCoopSpaces returns all cooperation spaces, ordered by ID.
	ListCoopSpaces(ctx context.Context) ([]*model.CoopSpace, error)
	// GetCoopSpace gets a cooperation space by ID.
	GetCoopSpace(ctx context.Context, id int64) (*model.CoopSpace, error)
	// PutCoopSpace inserts the cooperation space when its ID is zero and updates it otherwise.
	// The member list is replaced as a whole, and IDs are assigned to new records.
	PutCoopSpace(ctx context.Context, cs *model.CoopSpace) error
	// DelCoopSpace deletes a cooperation space and its members.
	DelCoopSpace(ctx context.Context, id int64) error
	// DelMember removes a single member from a cooperation space.
	DelMember(ctx context.Context, coopSpaceID, memberID int64) error
}

// AssetSaver stores the records of published assets.
type AssetSaver interface {
	// ListAssets returns all published asset records.
	ListAssets(ctx context.Context) ([]*model.Asset, error)
	// GetAsset finds the asset record by bucket and name.
	GetAsset(ctx context.Context, bucket, name string) (*model.Asset, error)
	// PutAsset inserts or updates an asset record.
	PutAsset(ctx context.Context, asset *model.Asset) error
	// DelAsset deletes an asset record by ID.
	DelAsset(ctx context.Context, id int64) error
}

// ExampleSaver stores examples.
type ExampleSaver interface {
	ListExamples(ctx context.Context) ([]*model.Example, error)
	GetExample(ctx context.Context, id int64) (*model.Example, error)
	PutExample(ctx context.Context, e *model.Example) error
	DelExample(ctx context.Context, id int64) error
}
