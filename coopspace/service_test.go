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

package coopspace_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/go-dataspace/agri-admin/connectors/objectstore"
	"github.com/go-dataspace/agri-admin/coopspace"
	"github.com/go-dataspace/agri-admin/internal/apperr"
	"github.com/go-dataspace/agri-admin/logging"
	"github.com/go-dataspace/agri-admin/model"
	"github.com/go-dataspace/agri-admin/persistence"
	"github.com/go-dataspace/agri-admin/persistence/badger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProvisioner struct {
	created []model.CoopSpace
	deleted []model.CoopSpace
	err     error
}

func (f *fakeProvisioner) CreateRoom(_ context.Context, cs model.CoopSpace) error {
	if f.err != nil {
		return f.err
	}
	f.created = append(f.created, cs)
	return nil
}

func (f *fakeProvisioner) DeleteRoom(_ context.Context, cs model.CoopSpace) error {
	if f.err != nil {
		return f.err
	}
	f.deleted = append(f.deleted, cs)
	return nil
}

type fakeStore struct {
	objectstore.Store
	buckets []model.Bucket
	objects map[string][]model.Object
}

func (f *fakeStore) ListBuckets(context.Context) ([]model.Bucket, error) {
	return f.buckets, nil
}

func (f *fakeStore) HasObjects(_ context.Context, bucket string) (bool, error) {
	objs, ok := f.objects[bucket]
	if !ok {
		return false, apperr.New(apperr.NotFound, "no bucket %s", bucket)
	}
	return len(objs) > 0, nil
}

type fakeFactory struct {
	store  *fakeStore
	tokens []string
}

func (f *fakeFactory) ForToken(_ context.Context, token string) (objectstore.Store, error) {
	f.tokens = append(f.tokens, token)
	return f.store, nil
}

type removal struct {
	company, coopSpace string
	role               model.Role
	username           string
}

type fakeIdentity struct {
	removed []removal
	err     error
}

func (f *fakeIdentity) ListUsers(context.Context) ([]model.User, error) { return nil, nil }

func (f *fakeIdentity) ListGroupMembers(context.Context) ([]model.GroupMembers, error) {
	return nil, nil
}

func (f *fakeIdentity) RemoveUserFromGroup(
	_ context.Context, company, coopSpace string, role model.Role, username string,
) error {
	if f.err != nil {
		return f.err
	}
	f.removed = append(f.removed, removal{company, coopSpace, role, username})
	return nil
}

type env struct {
	ctx         context.Context
	db          *badger.StorageProvider
	provisioner *fakeProvisioner
	objects     *fakeFactory
	identity    *fakeIdentity
	svc         *coopspace.Service
}

func setupEnv(t *testing.T) env {
	t.Helper()
	ctx := logging.Inject(context.Background(), slog.New(slog.NewJSONHandler(io.Discard, nil)))
	db, err := badger.New(ctx, true, "")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	e := env{
		ctx:         ctx,
		db:          db,
		provisioner: &fakeProvisioner{},
		objects:     &fakeFactory{store: &fakeStore{objects: map[string][]model.Object{}}},
		identity:    &fakeIdentity{},
	}
	e.svc = coopspace.New(db, e.provisioner, e.objects, e.identity, coopspace.Config{Mandant: "agri"})
	return e
}

func newCoopSpace() *model.CoopSpace {
	return &model.CoopSpace{
		Name:    "projectname",
		Company: "lmis",
		Members: []model.Member{
			{Name: "Antonia", Username: "Antonia", Role: model.RoleOwner},
			{Name: "Bert", Username: "bert", Role: model.RoleEditor},
		},
	}
}

func TestFilterByBucketAccessEmpty(t *testing.T) {
	t.Parallel()
	cs := &model.CoopSpace{Company: "lmis", Name: "projectname"}
	bucket := model.Bucket{Name: "prj-lmis-projectname"}

	assert.Empty(t, coopspace.FilterByBucketAccess(nil, nil, coopspace.DefaultBucketPrefix))
	assert.Empty(t, coopspace.FilterByBucketAccess(nil, []model.Bucket{bucket}, coopspace.DefaultBucketPrefix))
	assert.Empty(t, coopspace.FilterByBucketAccess([]*model.CoopSpace{cs}, nil, coopspace.DefaultBucketPrefix))
}

func TestFilterByBucketAccess(t *testing.T) {
	t.Parallel()
	blub := &model.CoopSpace{Company: "lmis", Name: "blub"}
	project := &model.CoopSpace{Company: "lmis", Name: "projectname"}
	buckets := []model.Bucket{
		{Name: "prj-lmis-inaccessibleprojectname"},
		{Name: "prj-lmis-projectname"},
	}

	got := coopspace.FilterByBucketAccess([]*model.CoopSpace{blub, project}, buckets, coopspace.DefaultBucketPrefix)
	assert.Equal(t, []*model.CoopSpace{project}, got)
}

func TestFilterByBucketAccessCaseSensitive(t *testing.T) {
	t.Parallel()
	cs := &model.CoopSpace{Company: "lmis", Name: "ProjectName"}
	got := coopspace.FilterByBucketAccess(
		[]*model.CoopSpace{cs}, []model.Bucket{{Name: "prj-lmis-projectname"}}, coopspace.DefaultBucketPrefix,
	)
	assert.Empty(t, got)
}

func TestHasAccess(t *testing.T) {
	t.Parallel()
	withMembers := model.CoopSpace{Members: []model.Member{{Username: "Antonia"}, {Username: "bert"}}}

	assert.False(t, coopspace.HasAccess("Antonia", model.CoopSpace{}))
	assert.False(t, coopspace.HasAccess("", withMembers))
	assert.True(t, coopspace.HasAccess("Antonia", withMembers))
	assert.False(t, coopspace.HasAccess("antonia", withMembers))
}

func TestCreate(t *testing.T) {
	t.Parallel()
	e := setupEnv(t)

	cs, err := e.svc.Create(e.ctx, newCoopSpace())
	require.NoError(t, err)
	assert.NotZero(t, cs.ID)
	assert.Equal(t, "agri", cs.Mandant)
	require.Len(t, e.provisioner.created, 1)
	assert.Equal(t, "projectname", e.provisioner.created[0].Name)

	stored, err := e.db.GetCoopSpace(e.ctx, cs.ID)
	require.NoError(t, err)
	assert.Equal(t, cs, stored)
}

func TestCreateProvisioningFailure(t *testing.T) {
	t.Parallel()
	e := setupEnv(t)
	e.provisioner.err = errors.New("upstream down")

	_, err := e.svc.Create(e.ctx, newCoopSpace())
	require.Error(t, err)
	all, err := e.db.ListCoopSpaces(e.ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestCreateWithID(t *testing.T) {
	t.Parallel()
	e := setupEnv(t)
	cs := newCoopSpace()
	cs.ID = 4

	_, err := e.svc.Create(e.ctx, cs)
	assert.True(t, apperr.Is(err, apperr.BadRequest))
	assert.Empty(t, e.provisioner.created)
}

func TestCreateWithMemberIDs(t *testing.T) {
	t.Parallel()
	e := setupEnv(t)
	cs := newCoopSpace()
	cs.Members[0].ID = 1
	cs.Members[1].ID = 1

	_, err := e.svc.Create(e.ctx, cs)
	assert.True(t, apperr.Is(err, apperr.BadRequest))
	assert.Empty(t, e.provisioner.created)
	all, err := e.db.ListCoopSpaces(e.ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestCreateAssignsDistinctMemberIDs(t *testing.T) {
	t.Parallel()
	e := setupEnv(t)
	first, err := e.svc.Create(e.ctx, newCoopSpace())
	require.NoError(t, err)
	second, err := e.svc.Create(e.ctx, &model.CoopSpace{
		Name: "other", Company: "lmis",
		Members: []model.Member{
			{Name: "X", Username: "x", Role: model.RoleOwner},
			{Name: "Y", Username: "y", Role: model.RoleViewer},
		},
	})
	require.NoError(t, err)

	seen := map[int64]bool{}
	for _, m := range append(first.Members, second.Members...) {
		assert.NotZero(t, m.ID)
		assert.False(t, seen[m.ID], "duplicate member id %d", m.ID)
		seen[m.ID] = true
	}

	require.NoError(t, e.svc.RemoveMember(e.ctx, "x", second.ID, second.Members[0].ID))
	got, err := e.db.GetCoopSpace(e.ctx, second.ID)
	require.NoError(t, err)
	require.Len(t, got.Members, 1)
	assert.Equal(t, "y", got.Members[0].Username)
}

func TestDeleteBucketNotEmpty(t *testing.T) {
	t.Parallel()
	e := setupEnv(t)
	cs := newCoopSpace()
	require.NoError(t, e.db.PutCoopSpace(e.ctx, cs))
	e.objects.store.objects["prj-lmis-projectname"] = []model.Object{{Key: "yield.csv"}}

	err := e.svc.Delete(e.ctx, "Antonia", "token", cs.ID)
	assert.True(t, apperr.Is(err, apperr.BucketNotEmpty))
	assert.Equal(t, []string{"token"}, e.objects.tokens)
	assert.Empty(t, e.provisioner.deleted)
	_, err = e.db.GetCoopSpace(e.ctx, cs.ID)
	assert.NoError(t, err)
}

func TestDelete(t *testing.T) {
	t.Parallel()
	e := setupEnv(t)
	cs := newCoopSpace()
	require.NoError(t, e.db.PutCoopSpace(e.ctx, cs))
	e.objects.store.objects["prj-lmis-projectname"] = nil

	require.NoError(t, e.svc.Delete(e.ctx, "Antonia", "token", cs.ID))
	require.Len(t, e.provisioner.deleted, 1)
	_, err := e.db.GetCoopSpace(e.ctx, cs.ID)
	assert.ErrorIs(t, err, persistence.ErrNotFound)
}

func TestDeleteRequiresOwner(t *testing.T) {
	t.Parallel()
	e := setupEnv(t)
	cs := newCoopSpace()
	require.NoError(t, e.db.PutCoopSpace(e.ctx, cs))
	e.objects.store.objects["prj-lmis-projectname"] = nil

	for _, username := range []string{"bert", "antonia", ""} {
		err := e.svc.Delete(e.ctx, username, "token", cs.ID)
		assert.True(t, apperr.Is(err, apperr.Forbidden), username)
	}
	assert.Empty(t, e.objects.tokens)
	assert.Empty(t, e.provisioner.deleted)
	_, err := e.db.GetCoopSpace(e.ctx, cs.ID)
	assert.NoError(t, err)
}

func TestDeleteMissing(t *testing.T) {
	t.Parallel()
	e := setupEnv(t)
	err := e.svc.Delete(e.ctx, "Antonia", "token", 42)
	assert.True(t, apperr.Is(err, apperr.NotFound))
}

func TestList(t *testing.T) {
	t.Parallel()
	e := setupEnv(t)
	visible := newCoopSpace()
	hidden := &model.CoopSpace{Name: "blub", Company: "lmis"}
	require.NoError(t, e.db.PutCoopSpace(e.ctx, visible))
	require.NoError(t, e.db.PutCoopSpace(e.ctx, hidden))
	e.objects.store.buckets = []model.Bucket{{Name: "prj-lmis-projectname"}}

	got, err := e.svc.List(e.ctx, "token")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, visible.ID, got[0].ID)
}

func TestGet(t *testing.T) {
	t.Parallel()
	e := setupEnv(t)
	cs := newCoopSpace()
	require.NoError(t, e.db.PutCoopSpace(e.ctx, cs))

	got, err := e.svc.Get(e.ctx, "bert", cs.ID)
	require.NoError(t, err)
	assert.Equal(t, cs.Name, got.Name)

	_, err = e.svc.Get(e.ctx, "antonia", cs.ID)
	assert.True(t, apperr.Is(err, apperr.Forbidden))
}

func TestRemoveMember(t *testing.T) {
	t.Parallel()
	e := setupEnv(t)
	cs := newCoopSpace()
	require.NoError(t, e.db.PutCoopSpace(e.ctx, cs))
	bert := cs.Members[1]

	require.NoError(t, e.svc.RemoveMember(e.ctx, "Antonia", cs.ID, bert.ID))
	assert.Equal(t, []removal{{"lmis", "projectname", model.RoleEditor, "bert"}}, e.identity.removed)
	got, err := e.db.GetCoopSpace(e.ctx, cs.ID)
	require.NoError(t, err)
	require.Len(t, got.Members, 1)
	assert.Equal(t, "Antonia", got.Members[0].Username)

	err = e.svc.RemoveMember(e.ctx, "Antonia", cs.ID, bert.ID)
	assert.True(t, apperr.Is(err, apperr.NotFound))
}

func TestRemoveMemberRequiresOwner(t *testing.T) {
	t.Parallel()
	e := setupEnv(t)
	cs := newCoopSpace()
	require.NoError(t, e.db.PutCoopSpace(e.ctx, cs))

	for _, username := range []string{"bert", "antonia", "mallory"} {
		err := e.svc.RemoveMember(e.ctx, username, cs.ID, cs.Members[0].ID)
		assert.True(t, apperr.Is(err, apperr.Forbidden), username)
	}
	assert.Empty(t, e.identity.removed)
	got, err := e.db.GetCoopSpace(e.ctx, cs.ID)
	require.NoError(t, err)
	assert.Len(t, got.Members, 2)
}

func TestRemoveMemberIdentityFailure(t *testing.T) {
	t.Parallel()
	e := setupEnv(t)
	cs := newCoopSpace()
	require.NoError(t, e.db.PutCoopSpace(e.ctx, cs))
	e.identity.err = errors.New("keycloak down")

	require.Error(t, e.svc.RemoveMember(e.ctx, "Antonia", cs.ID, cs.Members[0].ID))
	got, err := e.db.GetCoopSpace(e.ctx, cs.ID)
	require.NoError(t, err)
	assert.Len(t, got.Members, 2)
}
