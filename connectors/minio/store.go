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

// Package minio implements the object store with the minio client. Every caller gets their own
// session, authenticated with STS web identity credentials derived from their bearer token.
package minio

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/go-dataspace/agri-admin/connectors/objectstore"
	"github.com/go-dataspace/agri-admin/internal/apperr"
	"github.com/go-dataspace/agri-admin/logging"
	"github.com/go-dataspace/agri-admin/model"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

var (
	_ objectstore.Factory = &Factory{}
	_ objectstore.Store   = &Store{}
)

// Factory creates stores for callers.
type Factory struct {
	Endpoint    string
	STSEndpoint string
	Region      string
	Secure      bool
	// Transport is used for both the STS and the storage requests when set.
	Transport http.RoundTripper
}

// ForToken exchanges the token for temporary credentials and returns a store using them.
func (f *Factory) ForToken(ctx context.Context, token string) (objectstore.Store, error) {
	if token == "" {
		return nil, apperr.New(apperr.Unauthorized, "no token to access object storage with")
	}
	creds, err := credentials.NewSTSWebIdentity(f.STSEndpoint, func() (*credentials.WebIdentityToken, error) {
		return &credentials.WebIdentityToken{Token: token}, nil
	})
	if err != nil {
		return nil, fmt.Errorf("couldn't set up STS credentials: %w", err)
	}
	return f.open(ctx, creds)
}

func (f *Factory) open(ctx context.Context, creds *credentials.Credentials) (*Store, error) {
	client, err := minio.New(f.Endpoint, &minio.Options{
		Creds:     creds,
		Secure:    f.Secure,
		Region:    f.Region,
		Transport: f.Transport,
	})
	if err != nil {
		return nil, fmt.Errorf("couldn't create object storage client: %w", err)
	}
	logging.Extract(ctx).Debug("Opened object storage session", "endpoint", f.Endpoint)
	return NewStore(client), nil
}

// Store is a minio session.
type Store struct {
	client *minio.Client
}

// NewStore wraps a minio client.
func NewStore(client *minio.Client) *Store {
	return &Store{client: client}
}

// ListBuckets lists the buckets visible to the caller.
func (s *Store) ListBuckets(ctx context.Context) ([]model.Bucket, error) {
	buckets, err := s.client.ListBuckets(ctx)
	if err != nil {
		return nil, convertErr(err, "couldn't list buckets")
	}
	out := make([]model.Bucket, len(buckets))
	for i, b := range buckets {
		out[i] = model.Bucket{Name: b.Name, CreationDate: b.CreationDate}
	}
	return out, nil
}

// ListObjects lists all objects in the bucket recursively.
func (s *Store) ListObjects(ctx context.Context, bucket string) ([]model.Object, error) {
	out := make([]model.Object, 0)
	for obj := range s.client.ListObjects(ctx, bucket, minio.ListObjectsOptions{Recursive: true}) {
		if obj.Err != nil {
			return nil, convertErr(obj.Err, "couldn't list objects of %s", bucket)
		}
		out = append(out, toObject(obj))
	}
	return out, nil
}

// HasObjects checks if there is at least one object in the bucket.
func (s *Store) HasObjects(ctx context.Context, bucket string) (bool, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	for obj := range s.client.ListObjects(ctx, bucket, minio.ListObjectsOptions{Recursive: true, MaxKeys: 1}) {
		if obj.Err != nil {
			return false, convertErr(obj.Err, "couldn't list objects of %s", bucket)
		}
		return true, nil
	}
	return false, nil
}

// GetObject opens the object for reading.
func (s *Store) GetObject(ctx context.Context, bucket, key string) (io.ReadCloser, model.Object, error) {
	obj, err := s.client.GetObject(ctx, bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, model.Object{}, convertErr(err, "couldn't get %s/%s", bucket, key)
	}
	info, err := obj.Stat()
	if err != nil {
		_ = obj.Close()
		return nil, model.Object{}, convertErr(err, "couldn't get %s/%s", bucket, key)
	}
	return obj, toObject(info), nil
}

func toObject(info minio.ObjectInfo) model.Object {
	return model.Object{
		Key:          info.Key,
		Size:         info.Size,
		ContentType:  info.ContentType,
		LastModified: info.LastModified,
	}
}

func convertErr(err error, format string, args ...any) error {
	switch minio.ToErrorResponse(err).Code {
	case "NoSuchBucket", "NoSuchKey":
		return apperr.Wrap(apperr.NotFound, err, format, args...)
	case "AccessDenied":
		return apperr.Wrap(apperr.Forbidden, err, format, args...)
	default:
		return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
	}
}
