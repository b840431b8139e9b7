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

// Package edc builds the documents that publish a data asset through the connector management
// API: the asset itself, the usage policy definition and the contract definition that binds the
// policy to the asset.
package edc

import (
	"github.com/go-dataspace/agri-admin/jsonld"
	"github.com/go-dataspace/agri-admin/model"
	"github.com/go-dataspace/agri-admin/odrl"
)

// AssetIDProperty is the property the contract definition selects assets by.
const AssetIDProperty = jsonld.EDCVocab + "id"

// DataAddressType is the data address type of assets stored in the object store.
const DataAddressType = "AmazonS3"

// Asset is the asset document.
type Asset struct {
	Context     jsonld.Context  `json:"@context"`
	Type        string          `json:"@type" validate:"required,eq=Asset"`
	ID          string          `json:"@id" validate:"required"`
	Properties  AssetProperties `json:"properties"`
	DataAddress DataAddress     `json:"dataAddress"`
}

// AssetProperties is the property bag of the asset.
type AssetProperties struct {
	Name        string    `json:"name" validate:"required"`
	ID          string    `json:"id" validate:"required"`
	AssetName   string    `json:"assetName"`
	Bucket      string    `json:"bucket"`
	Description string    `json:"description"`
	ContentType string    `json:"contenttype"`
	Version     string    `json:"version"`
	Theme       []string  `json:"theme"`
	Spatial     *string   `json:"spatial"`
	Temporal    *Temporal `json:"temporal"`
	PolicyID    string    `json:"policyId" validate:"required"`
	ContractID  string    `json:"contractId" validate:"required"`
}

// Temporal is the date range the asset covers.
type Temporal struct {
	StartDate *model.Date `json:"startDate"`
	EndDate   *model.Date `json:"endDate"`
}

// DataAddress tells the connector where the asset data lives.
type DataAddress struct {
	Type       string `json:"type" validate:"required"`
	BucketName string `json:"bucketName" validate:"required"`
	KeyName    string `json:"keyName"`
	Region     string `json:"region,omitempty"`
	Endpoint   string `json:"endpointOverride,omitempty"`
}

// PolicyDefinition is the usage policy document.
type PolicyDefinition struct {
	Context jsonld.Context `json:"@context"`
	Type    string         `json:"@type" validate:"required,eq=PolicyDefinition"`
	ID      string         `json:"@id" validate:"required"`
	Policy  odrl.Policy    `json:"policy"`
}

// ContractDefinition binds a policy to the assets matching its selector.
type ContractDefinition struct {
	Context          jsonld.Context `json:"@context"`
	Type             string         `json:"@type" validate:"required,eq=ContractDefinition"`
	ID               string         `json:"@id" validate:"required"`
	AccessPolicyID   string         `json:"accessPolicyId" validate:"required"`
	ContractPolicyID string         `json:"contractPolicyId" validate:"required"`
	AssetsSelector   []Criterion    `json:"assetsSelector" validate:"required,gte=1,dive"`
}

// Criterion is a single asset selector criterion.
type Criterion struct {
	Type         string `json:"@type"`
	OperandLeft  string `json:"operandLeft" validate:"required"`
	Operator     string `json:"operator" validate:"required"`
	OperandRight string `json:"operandRight" validate:"required"`
}

// AssetInput contains everything needed to build the asset document, with the vocabulary and
// spatial terms already resolved.
type AssetInput struct {
	Bucket     string
	AssetName  string
	Descriptor model.AssetDescriptor
	Themes     []string
	Spatial    *string
	PolicyID   string
	ContractID string
}

// DataAddressConfig holds the object store settings the connector needs to reach the data.
type DataAddressConfig struct {
	Region   string
	Endpoint string
}

// NewAsset builds the asset document.
func NewAsset(in AssetInput, da DataAddressConfig) Asset {
	d := in.Descriptor
	themes := in.Themes
	if themes == nil {
		themes = []string{}
	}
	var temporal *Temporal
	if d.DateFrom != nil || d.DateTo != nil {
		temporal = &Temporal{StartDate: d.DateFrom, EndDate: d.DateTo}
	}
	return Asset{
		Context: jsonld.EDCContext("dcat", "dct"),
		Type:    "Asset",
		ID:      d.ID,
		Properties: AssetProperties{
			Name:        d.Name,
			ID:          d.ID,
			AssetName:   in.AssetName,
			Bucket:      in.Bucket,
			Description: d.Description,
			ContentType: d.ContentType,
			Version:     d.Version,
			Theme:       themes,
			Spatial:     in.Spatial,
			Temporal:    temporal,
			PolicyID:    in.PolicyID,
			ContractID:  in.ContractID,
		},
		DataAddress: DataAddress{
			Type:       DataAddressType,
			BucketName: in.Bucket,
			KeyName:    d.KeyName,
			Region:     da.Region,
			Endpoint:   da.Endpoint,
		},
	}
}

// NewPolicyDefinition builds the usage policy for target.
func NewPolicyDefinition(policyID, target string) PolicyDefinition {
	return PolicyDefinition{
		Context: jsonld.EDCContext("odrl"),
		Type:    "PolicyDefinition",
		ID:      policyID,
		Policy:  odrl.NewSet(odrl.UsePermission(target)),
	}
}

// NewContractDefinition builds a contract definition that offers the asset with the given id
// under the given policy.
func NewContractDefinition(contractID, policyID, assetID string) ContractDefinition {
	return ContractDefinition{
		Context:          jsonld.EDCContext(),
		Type:             "ContractDefinition",
		ID:               contractID,
		AccessPolicyID:   policyID,
		ContractPolicyID: policyID,
		AssetsSelector: []Criterion{{
			Type:         "Criterion",
			OperandLeft:  AssetIDProperty,
			Operator:     "=",
			OperandRight: assetID,
		}},
	}
}
