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

package badger

import (
	"context"

	"github.com/go-dataspace/agri-admin/model"
	"github.com/go-dataspace/agri-admin/persistence"
)

const assetPrefix = "asset"

// ListAssets returns all published asset records.
func (sp *StorageProvider) ListAssets(ctx context.Context) ([]*model.Asset, error) {
	return getAll[model.Asset](sp.db, []byte(assetPrefix+"-"))
}

// GetAsset scans the asset records for the bucket/name combination.
func (sp *StorageProvider) GetAsset(ctx context.Context, bucket, name string) (*model.Asset, error) {
	assets, err := sp.ListAssets(ctx)
	if err != nil {
		return nil, err
	}
	for _, a := range assets {
		if a.Bucket == bucket && a.Name == name {
			return a, nil
		}
	}
	return nil, persistence.ErrNotFound
}

// PutAsset saves an asset record.
func (sp *StorageProvider) PutAsset(ctx context.Context, asset *model.Asset) error {
	if asset.ID == 0 {
		id, err := sp.nextID(assetPrefix)
		if err != nil {
			return err
		}
		asset.ID = id
	}
	return put(sp.db, mkKey(assetPrefix, asset.ID), asset)
}

// DelAsset deletes an asset record.
func (sp *StorageProvider) DelAsset(ctx context.Context, id int64) error {
	return del(sp.db, mkKey(assetPrefix, id))
}
