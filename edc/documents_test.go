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

package edc_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/go-dataspace/agri-admin/edc"
	"github.com/go-dataspace/agri-admin/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T {
	return &v
}

func TestNewAsset(t *testing.T) {
	from := model.NewDate(2023, time.April, 1)
	doc := edc.NewAsset(edc.AssetInput{
		Bucket:    "prj-lmis-projectname",
		AssetName: "yield.csv",
		Descriptor: model.AssetDescriptor{
			Name:        "Yield 2023",
			ID:          "yield-2023",
			Description: "Yield per field",
			ContentType: "text/csv",
			Version:     "1.0",
			DateFrom:    &from,
			KeyName:     "data/yield.csv",
		},
		Themes:     []string{"http://aims.fao.org/aos/agrovoc/c_8504"},
		PolicyID:   "policy-1",
		ContractID: "contract-1",
	}, edc.DataAddressConfig{Region: "eu-central-1"})

	b, err := edc.ValidateAndMarshal(context.Background(), doc)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"@context": {
			"@vocab": "https://w3id.org/edc/v0.0.1/ns/",
			"dcat": "http://www.w3.org/ns/dcat#",
			"dct": "http://purl.org/dc/terms/"
		},
		"@type": "Asset",
		"@id": "yield-2023",
		"properties": {
			"name": "Yield 2023",
			"id": "yield-2023",
			"assetName": "yield.csv",
			"bucket": "prj-lmis-projectname",
			"description": "Yield per field",
			"contenttype": "text/csv",
			"version": "1.0",
			"theme": ["http://aims.fao.org/aos/agrovoc/c_8504"],
			"spatial": null,
			"temporal": {"startDate": "2023-04-01", "endDate": null},
			"policyId": "policy-1",
			"contractId": "contract-1"
		},
		"dataAddress": {
			"type": "AmazonS3",
			"bucketName": "prj-lmis-projectname",
			"keyName": "data/yield.csv",
			"region": "eu-central-1"
		}
	}`, string(b))
}

func TestNewAssetWithoutOptionals(t *testing.T) {
	doc := edc.NewAsset(edc.AssetInput{
		Bucket:     "b",
		Descriptor: model.AssetDescriptor{Name: "n", ID: "i"},
		Spatial:    ptr("https://sws.geonames.org/2950159/"),
		PolicyID:   "p",
		ContractID: "c",
	}, edc.DataAddressConfig{})

	b, err := json.Marshal(doc.Properties)
	require.NoError(t, err)
	var props map[string]any
	require.NoError(t, json.Unmarshal(b, &props))
	assert.Equal(t, []any{}, props["theme"])
	assert.Nil(t, props["temporal"])
	assert.Equal(t, "https://sws.geonames.org/2950159/", props["spatial"])
}

func TestAssetValidationRequiresIDs(t *testing.T) {
	doc := edc.NewAsset(edc.AssetInput{Bucket: "b", Descriptor: model.AssetDescriptor{Name: "n"}}, edc.DataAddressConfig{})
	_, err := edc.ValidateAndMarshal(context.Background(), doc)
	assert.Error(t, err)
}

func TestNewPolicyDefinition(t *testing.T) {
	b, err := edc.ValidateAndMarshal(context.Background(), edc.NewPolicyDefinition("policy-1", "yield.csv"))
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"@context": {
			"@vocab": "https://w3id.org/edc/v0.0.1/ns/",
			"odrl": "http://www.w3.org/ns/odrl/2/"
		},
		"@type": "PolicyDefinition",
		"@id": "policy-1",
		"policy": {
			"@type": "odrl:Set",
			"odrl:permission": [{"odrl:target": "yield.csv", "odrl:action": {"@id": "odrl:use"}}],
			"odrl:prohibition": [],
			"odrl:obligation": []
		}
	}`, string(b))
}

func TestNewContractDefinition(t *testing.T) {
	b, err := edc.ValidateAndMarshal(context.Background(), edc.NewContractDefinition("contract-1", "policy-1", "yield-2023"))
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"@context": {"@vocab": "https://w3id.org/edc/v0.0.1/ns/"},
		"@type": "ContractDefinition",
		"@id": "contract-1",
		"accessPolicyId": "policy-1",
		"contractPolicyId": "policy-1",
		"assetsSelector": [{
			"@type": "Criterion",
			"operandLeft": "https://w3id.org/edc/v0.0.1/ns/id",
			"operator": "=",
			"operandRight": "yield-2023"
		}]
	}`, string(b))
}
