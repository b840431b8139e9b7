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

// Package publish publishes data assets to the data exchange connector and takes them back down.
package publish

import (
	"context"
	"errors"
	"fmt"

	edcclient "github.com/go-dataspace/agri-admin/connectors/edc"
	"github.com/go-dataspace/agri-admin/edc"
	"github.com/go-dataspace/agri-admin/internal/apperr"
	"github.com/go-dataspace/agri-admin/logging"
	"github.com/go-dataspace/agri-admin/model"
	"github.com/go-dataspace/agri-admin/persistence"
	"github.com/google/uuid"
)

// VocabularyResolver resolves keywords to concept URIs.
type VocabularyResolver interface {
	ConceptURI(ctx context.Context, keyword string) (string, error)
}

// SpatialResolver resolves coordinates to place URIs.
type SpatialResolver interface {
	SpatialURI(ctx context.Context, lat, lon float64) (string, error)
}

// Connector is the management API of the data exchange connector.
type Connector interface {
	CreateAsset(ctx context.Context, doc edc.Asset) (string, error)
	CreatePolicyDefinition(ctx context.Context, doc edc.PolicyDefinition) (string, error)
	CreateContractDefinition(ctx context.Context, doc edc.ContractDefinition) (string, error)
	Delete(ctx context.Context, r edcclient.Resource, id string) error
}

// Documents are the three documents a publication consists of.
type Documents struct {
	Asset    edc.Asset              `json:"asset"`
	Policy   edc.PolicyDefinition   `json:"policy"`
	Contract edc.ContractDefinition `json:"contractDefinition"`
}

// Service publishes assets.
type Service struct {
	vocabulary  VocabularyResolver
	spatial     SpatialResolver
	connector   Connector
	store       persistence.AssetSaver
	dataAddress edc.DataAddressConfig
	newID       func() string
}

// Option configures the service.
type Option func(*Service)

// WithDataAddress sets the object storage details embedded in the asset data address.
func WithDataAddress(da edc.DataAddressConfig) Option {
	return func(s *Service) { s.dataAddress = da }
}

// WithIDGenerator replaces the generator for policy and contract IDs.
func WithIDGenerator(f func() string) Option {
	return func(s *Service) { s.newID = f }
}

// New returns a publishing service.
func New(
	vocabulary VocabularyResolver,
	spatial SpatialResolver,
	connector Connector,
	store persistence.AssetSaver,
	opts ...Option,
) *Service {
	s := &Service{
		vocabulary: vocabulary,
		spatial:    spatial,
		connector:  connector,
		store:      store,
		newID:      func() string { return uuid.New().String() },
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// BuildDocuments resolves the keywords and coordinates of the descriptor and builds the documents
// with fresh policy and contract IDs. Nothing is sent.
func (s *Service) BuildDocuments(
	ctx context.Context, bucket, assetName string, d model.AssetDescriptor,
) (Documents, error) {
	if d.Name == "" {
		return Documents{}, apperr.New(apperr.NotFound, "asset name is missing")
	}
	if d.ID == "" {
		return Documents{}, apperr.New(apperr.NotFound, "asset id is missing")
	}

	themes := make([]string, 0, len(d.Keywords))
	for _, kw := range d.Keywords {
		uri, err := s.vocabulary.ConceptURI(ctx, kw)
		if err != nil {
			return Documents{}, fmt.Errorf("couldn't resolve keyword %q: %w", kw, err)
		}
		themes = append(themes, uri)
	}

	var spatial *string
	if d.HasCoordinates() {
		uri, err := s.spatial.SpatialURI(ctx, *d.Latitude, *d.Longitude)
		if err != nil {
			return Documents{}, fmt.Errorf("couldn't resolve coordinates: %w", err)
		}
		spatial = &uri
	}

	policyID := s.newID()
	contractID := s.newID()
	return Documents{
		Asset: edc.NewAsset(edc.AssetInput{
			Bucket:     bucket,
			AssetName:  assetName,
			Descriptor: d,
			Themes:     themes,
			Spatial:    spatial,
			PolicyID:   policyID,
			ContractID: contractID,
		}, s.dataAddress),
		Policy:   edc.NewPolicyDefinition(policyID, assetName),
		Contract: edc.NewContractDefinition(contractID, policyID, d.ID),
	}, nil
}

// Publish sends asset, policy and contract definition to the connector, in that order, and
// records the IDs of the publication. A failure midway leaves the already sent documents in place.
func (s *Service) Publish(
	ctx context.Context, bucket, assetName string, d model.AssetDescriptor,
) (*model.Asset, error) {
	ctx, logger := logging.InjectLabels(ctx, "bucket", bucket, "asset_name", assetName)
	docs, err := s.BuildDocuments(ctx, bucket, assetName, d)
	if err != nil {
		return nil, err
	}

	assetID, err := s.connector.CreateAsset(ctx, docs.Asset)
	if err != nil {
		return nil, err
	}
	policyID, err := s.connector.CreatePolicyDefinition(ctx, docs.Policy)
	if err != nil {
		return nil, err
	}
	contractID, err := s.connector.CreateContractDefinition(ctx, docs.Contract)
	if err != nil {
		return nil, err
	}

	record := &model.Asset{Name: assetName, Bucket: bucket}
	existing, err := s.store.GetAsset(ctx, bucket, assetName)
	switch {
	case err == nil:
		logger.Warn("Asset was already published, replacing record", "old_asset_id", existing.AssetID)
		record.ID = existing.ID
	case !errors.Is(err, persistence.ErrNotFound):
		return nil, fmt.Errorf("couldn't look up asset record: %w", err)
	}
	record.AssetID = assetID
	record.PolicyID = policyID
	record.ContractID = contractID
	if err := s.store.PutAsset(ctx, record); err != nil {
		return nil, fmt.Errorf("couldn't store asset record: %w", err)
	}
	logger.Info("Published asset", "asset_id", assetID, "policy_id", policyID, "contract_id", contractID)
	return record, nil
}

// Unpublish removes the local record, then deletes contract definition, policy and asset at the
// connector. The local record is not restored when a remote deletion fails.
func (s *Service) Unpublish(ctx context.Context, bucket, assetName string) error {
	ctx, logger := logging.InjectLabels(ctx, "bucket", bucket, "asset_name", assetName)
	record, err := s.store.GetAsset(ctx, bucket, assetName)
	if err != nil {
		if errors.Is(err, persistence.ErrNotFound) {
			return apperr.Wrap(apperr.NotFound, err, "asset %s in bucket %s is not published", assetName, bucket)
		}
		return fmt.Errorf("couldn't look up asset record: %w", err)
	}
	if err := s.store.DelAsset(ctx, record.ID); err != nil {
		return fmt.Errorf("couldn't delete asset record: %w", err)
	}
	for _, del := range []struct {
		r  edcclient.Resource
		id string
	}{
		{edcclient.ContractDefinitions, record.ContractID},
		{edcclient.PolicyDefinitions, record.PolicyID},
		{edcclient.Assets, record.AssetID},
	} {
		if err := s.connector.Delete(ctx, del.r, del.id); err != nil {
			logger.Error("Local record is gone but connector still holds documents", "err", err)
			return err
		}
	}
	logger.Info("Unpublished asset")
	return nil
}

// List returns the records of all published assets.
func (s *Service) List(ctx context.Context) ([]*model.Asset, error) {
	assets, err := s.store.ListAssets(ctx)
	if err != nil {
		return nil, fmt.Errorf("couldn't list assets: %w", err)
	}
	return assets, nil
}
