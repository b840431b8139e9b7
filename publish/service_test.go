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

package publish_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	edcclient "github.com/go-dataspace/agri-admin/connectors/edc"
	"github.com/go-dataspace/agri-admin/edc"
	"github.com/go-dataspace/agri-admin/internal/apperr"
	"github.com/go-dataspace/agri-admin/logging"
	"github.com/go-dataspace/agri-admin/model"
	"github.com/go-dataspace/agri-admin/persistence"
	"github.com/go-dataspace/agri-admin/persistence/badger"
	"github.com/go-dataspace/agri-admin/publish"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const (
	conceptURI = "http://aims.fao.org/aos/agrovoc/c_8373"
	placeURI   = "https://sws.geonames.org/2950159/"
)

type fixedVocabulary struct {
	calls []string
	err   error
}

func (f *fixedVocabulary) ConceptURI(_ context.Context, keyword string) (string, error) {
	f.calls = append(f.calls, keyword)
	return conceptURI, f.err
}

type fixedSpatial struct {
	calls int
}

func (f *fixedSpatial) SpatialURI(_ context.Context, _, _ float64) (string, error) {
	f.calls++
	return placeURI, nil
}

type mockConnector struct {
	mock.Mock
}

func (m *mockConnector) CreateAsset(ctx context.Context, doc edc.Asset) (string, error) {
	args := m.Called(ctx, doc)
	return args.String(0), args.Error(1)
}

func (m *mockConnector) CreatePolicyDefinition(ctx context.Context, doc edc.PolicyDefinition) (string, error) {
	args := m.Called(ctx, doc)
	return args.String(0), args.Error(1)
}

func (m *mockConnector) CreateContractDefinition(ctx context.Context, doc edc.ContractDefinition) (string, error) {
	args := m.Called(ctx, doc)
	return args.String(0), args.Error(1)
}

func (m *mockConnector) Delete(ctx context.Context, r edcclient.Resource, id string) error {
	return m.Called(ctx, r, id).Error(0)
}

func ptr[T any](v T) *T {
	return &v
}

func descriptor() model.AssetDescriptor {
	return model.AssetDescriptor{
		Name:        "Yield 2023",
		ID:          "yield-2023",
		Description: "Wheat yield per field",
		ContentType: "text/csv",
		Version:     "1.0",
		Keywords:    []string{"wheat", "Wheat"},
		Latitude:    ptr(52.52437),
		Longitude:   ptr(13.41053),
		DateFrom:    ptr(model.NewDate(2023, time.January, 1)),
		DateTo:      ptr(model.NewDate(2023, time.December, 31)),
		KeyName:     "2023/yield.csv",
	}
}

type env struct {
	ctx       context.Context
	store     *badger.StorageProvider
	vocab     *fixedVocabulary
	spatial   *fixedSpatial
	connector *mockConnector
	svc       *publish.Service
}

func setupEnv(t *testing.T) env {
	t.Helper()
	ctx := logging.Inject(context.Background(), slog.New(slog.NewJSONHandler(io.Discard, nil)))
	store, err := badger.New(ctx, true, "")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	ids := []string{"policy-1", "contract-1"}
	e := env{
		ctx:       ctx,
		store:     store,
		vocab:     &fixedVocabulary{},
		spatial:   &fixedSpatial{},
		connector: &mockConnector{},
	}
	e.svc = publish.New(e.vocab, e.spatial, e.connector, store,
		publish.WithIDGenerator(func() string {
			id := ids[0]
			ids = ids[1:]
			return id
		}),
		publish.WithDataAddress(edc.DataAddressConfig{Region: "eu-central-1"}),
	)
	return e
}

func TestBuildDocuments(t *testing.T) {
	t.Parallel()
	e := setupEnv(t)

	docs, err := e.svc.BuildDocuments(e.ctx, "prj-lmis-projectname", "yield.csv", descriptor())
	require.NoError(t, err)
	assert.Equal(t, []string{"wheat", "Wheat"}, e.vocab.calls)
	assert.Equal(t, 1, e.spatial.calls)

	b, err := json.Marshal(docs.Asset)
	require.NoError(t, err)
	var doc struct {
		ID         string         `json:"@id"`
		Properties map[string]any `json:"properties"`
	}
	require.NoError(t, json.Unmarshal(b, &doc))
	p := doc.Properties
	assert.Equal(t, "yield-2023", doc.ID)
	assert.Equal(t, []any{conceptURI, conceptURI}, p["theme"])
	assert.Equal(t, placeURI, p["spatial"])
	assert.Equal(t, "Yield 2023", p["name"])
	assert.Equal(t, "yield-2023", p["id"])
	assert.Equal(t, "yield.csv", p["assetName"])
	assert.Equal(t, "prj-lmis-projectname", p["bucket"])
	assert.Equal(t, "Wheat yield per field", p["description"])
	assert.Equal(t, "text/csv", p["contenttype"])
	assert.Equal(t, "1.0", p["version"])
	assert.Equal(t, "policy-1", p["policyId"])
	assert.Equal(t, "contract-1", p["contractId"])
	assert.Equal(t, map[string]any{"startDate": "2023-01-01", "endDate": "2023-12-31"}, p["temporal"])

	assert.Equal(t, "policy-1", docs.Policy.ID)
	assert.Equal(t, "yield.csv", docs.Policy.Policy.Permission[0].Target)
	assert.Equal(t, "contract-1", docs.Contract.ID)
	assert.Equal(t, "policy-1", docs.Contract.AccessPolicyID)
	assert.Equal(t, "yield-2023", docs.Contract.AssetsSelector[0].OperandRight)
}

func TestBuildDocumentsWithoutCoordinates(t *testing.T) {
	t.Parallel()
	e := setupEnv(t)
	d := descriptor()
	d.Longitude = nil

	docs, err := e.svc.BuildDocuments(e.ctx, "b", "a", d)
	require.NoError(t, err)
	assert.Zero(t, e.spatial.calls)

	b, err := json.Marshal(docs.Asset)
	require.NoError(t, err)
	var doc struct {
		Properties map[string]any `json:"properties"`
	}
	require.NoError(t, json.Unmarshal(b, &doc))
	v, ok := doc.Properties["spatial"]
	assert.True(t, ok)
	assert.Nil(t, v)
}

func TestBuildDocumentsMissingFields(t *testing.T) {
	t.Parallel()
	for _, tc := range []struct {
		name string
		mod  func(*model.AssetDescriptor)
	}{
		{"name", func(d *model.AssetDescriptor) { d.Name = "" }},
		{"id", func(d *model.AssetDescriptor) { d.ID = "" }},
	} {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			e := setupEnv(t)
			d := descriptor()
			tc.mod(&d)
			_, err := e.svc.Publish(e.ctx, "b", "a", d)
			assert.True(t, apperr.Is(err, apperr.NotFound))
			e.connector.AssertNotCalled(t, "CreateAsset", mock.Anything, mock.Anything)
		})
	}
}

func TestBuildDocumentsKeywordFailure(t *testing.T) {
	t.Parallel()
	e := setupEnv(t)
	e.vocab.err = apperr.New(apperr.NotFound, "no concept")

	_, err := e.svc.Publish(e.ctx, "b", "a", descriptor())
	assert.True(t, apperr.Is(err, apperr.NotFound))
	e.connector.AssertNotCalled(t, "CreateAsset", mock.Anything, mock.Anything)
}

func TestPublish(t *testing.T) {
	t.Parallel()
	e := setupEnv(t)
	var order []string
	e.connector.On("CreateAsset", mock.Anything, mock.Anything).
		Run(func(mock.Arguments) { order = append(order, "asset") }).Return("yield-2023", nil)
	e.connector.On("CreatePolicyDefinition", mock.Anything, mock.Anything).
		Run(func(mock.Arguments) { order = append(order, "policy") }).Return("policy-1", nil)
	e.connector.On("CreateContractDefinition", mock.Anything, mock.Anything).
		Run(func(mock.Arguments) { order = append(order, "contract") }).Return("contract-1", nil)

	rec, err := e.svc.Publish(e.ctx, "prj-lmis-projectname", "yield.csv", descriptor())
	require.NoError(t, err)
	assert.Equal(t, []string{"asset", "policy", "contract"}, order)

	stored, err := e.store.GetAsset(e.ctx, "prj-lmis-projectname", "yield.csv")
	require.NoError(t, err)
	assert.Equal(t, rec, stored)
	assert.Equal(t, "yield-2023", stored.AssetID)
	assert.Equal(t, "policy-1", stored.PolicyID)
	assert.Equal(t, "contract-1", stored.ContractID)

	all, err := e.svc.List(e.ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestPublishConnectorFailure(t *testing.T) {
	t.Parallel()
	e := setupEnv(t)
	e.connector.On("CreateAsset", mock.Anything, mock.Anything).Return("yield-2023", nil)
	e.connector.On("CreatePolicyDefinition", mock.Anything, mock.Anything).Return("", errors.New("boom"))

	_, err := e.svc.Publish(e.ctx, "b", "a", descriptor())
	require.Error(t, err)
	e.connector.AssertNotCalled(t, "CreateContractDefinition", mock.Anything, mock.Anything)
	_, err = e.store.GetAsset(e.ctx, "b", "a")
	assert.ErrorIs(t, err, persistence.ErrNotFound)
}

func TestUnpublish(t *testing.T) {
	t.Parallel()
	e := setupEnv(t)
	rec := &model.Asset{
		Name: "yield.csv", Bucket: "prj-lmis-projectname",
		AssetID: "asset-9", PolicyID: "policy-9", ContractID: "contract-9",
	}
	require.NoError(t, e.store.PutAsset(e.ctx, rec))

	var calls []string
	e.connector.On("Delete", mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			_, err := e.store.GetAsset(e.ctx, "prj-lmis-projectname", "yield.csv")
			assert.ErrorIs(t, err, persistence.ErrNotFound, "local record must be gone before remote deletes")
			calls = append(calls, string(args.Get(1).(edcclient.Resource))+"/"+args.String(2))
		}).Return(nil)

	require.NoError(t, e.svc.Unpublish(e.ctx, "prj-lmis-projectname", "yield.csv"))
	assert.Equal(t, []string{
		"contractdefinitions/contract-9",
		"policydefinitions/policy-9",
		"assets/asset-9",
	}, calls)
}

func TestUnpublishRemoteFailureKeepsLocalDeletion(t *testing.T) {
	t.Parallel()
	e := setupEnv(t)
	require.NoError(t, e.store.PutAsset(e.ctx, &model.Asset{
		Name: "a", Bucket: "b", AssetID: "x", PolicyID: "y", ContractID: "z",
	}))
	e.connector.On("Delete", mock.Anything, edcclient.ContractDefinitions, "z").Return(errors.New("boom"))

	require.Error(t, e.svc.Unpublish(e.ctx, "b", "a"))
	e.connector.AssertNumberOfCalls(t, "Delete", 1)
	_, err := e.store.GetAsset(e.ctx, "b", "a")
	assert.ErrorIs(t, err, persistence.ErrNotFound)
}

func TestUnpublishMissing(t *testing.T) {
	t.Parallel()
	e := setupEnv(t)
	err := e.svc.Unpublish(e.ctx, "b", "a")
	assert.True(t, apperr.Is(err, apperr.NotFound))
}
