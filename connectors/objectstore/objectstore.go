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

// Package objectstore describes the object storage the coop space buckets live in.
package objectstore

import (
	"context"
	"io"

	"github.com/go-dataspace/agri-admin/model"
)

// Store is an object storage session with the credentials of one caller.
type Store interface {
	ListBuckets(ctx context.Context) ([]model.Bucket, error)
	ListObjects(ctx context.Context, bucket string) ([]model.Object, error)
	// HasObjects reports whether the bucket contains at least one object.
	HasObjects(ctx context.Context, bucket string) (bool, error)
	// GetObject returns the content of an object. The caller closes the reader.
	GetObject(ctx context.Context, bucket, key string) (io.ReadCloser, model.Object, error)
}

// Factory opens a store with the caller's bearer token.
type Factory interface {
	ForToken(ctx context.Context, token string) (Store, error)
}
