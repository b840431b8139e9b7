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

package postgres

import (
	"context"
	"fmt"

	"github.com/go-dataspace/agri-admin/model"
)

// ListAssets returns all published asset records.
func (p *Provider) ListAssets(ctx context.Context) ([]*model.Asset, error) {
	rows, err := p.db.QueryContext(ctx,
		`SELECT id, name, bucket, asset_id, policy_id, contract_id FROM assets ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list assets: %w", err)
	}
	defer rows.Close()
	assets := make([]*model.Asset, 0)
	for rows.Next() {
		a := &model.Asset{}
		if err := rows.Scan(&a.ID, &a.Name, &a.Bucket, &a.AssetID, &a.PolicyID, &a.ContractID); err != nil {
			return nil, fmt.Errorf("failed to scan asset: %w", err)
		}
		assets = append(assets, a)
	}
	return assets, rows.Err()
}

// GetAsset finds the asset record by bucket and name. When more than one record exists the
// newest one wins.
func (p *Provider) GetAsset(ctx context.Context, bucket, name string) (*model.Asset, error) {
	a := &model.Asset{}
	err := p.db.QueryRowContext(ctx,
		`SELECT id, name, bucket, asset_id, policy_id, contract_id
		 FROM assets WHERE bucket = $1 AND name = $2 ORDER BY id DESC LIMIT 1`,
		bucket, name,
	).Scan(&a.ID, &a.Name, &a.Bucket, &a.AssetID, &a.PolicyID, &a.ContractID)
	if err != nil {
		return nil, notFound(err)
	}
	return a, nil
}

// PutAsset inserts or updates an asset record.
func (p *Provider) PutAsset(ctx context.Context, a *model.Asset) error {
	if a.ID == 0 {
		err := p.db.QueryRowContext(ctx,
			`INSERT INTO assets (name, bucket, asset_id, policy_id, contract_id)
			 VALUES ($1, $2, $3, $4, $5) RETURNING id`,
			a.Name, a.Bucket, a.AssetID, a.PolicyID, a.ContractID,
		).Scan(&a.ID)
		if err != nil {
			return fmt.Errorf("failed to insert asset: %w", err)
		}
		return nil
	}
	res, err := p.db.ExecContext(ctx,
		`UPDATE assets SET name = $2, bucket = $3, asset_id = $4, policy_id = $5, contract_id = $6
		 WHERE id = $1`,
		a.ID, a.Name, a.Bucket, a.AssetID, a.PolicyID, a.ContractID)
	if err != nil {
		return fmt.Errorf("failed to update asset: %w", err)
	}
	return expectOne(res)
}

// DelAsset deletes an asset record by ID.
func (p *Provider) DelAsset(ctx context.Context, id int64) error {
	res, err := p.db.ExecContext(ctx, `DELETE FROM assets WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete asset: %w", err)
	}
	return expectOne(res)
}
