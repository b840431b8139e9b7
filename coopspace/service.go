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

// Package coopspace manages cooperation spaces: their provisioning, their deletion and which of
// them a caller gets to see.
package coopspace

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-dataspace/agri-admin/connectors/identity"
	"github.com/go-dataspace/agri-admin/connectors/objectstore"
	"github.com/go-dataspace/agri-admin/internal/apperr"
	"github.com/go-dataspace/agri-admin/logging"
	"github.com/go-dataspace/agri-admin/model"
	"github.com/go-dataspace/agri-admin/persistence"
)

// DefaultBucketPrefix is the prefix of the bucket names that belong to coop spaces.
const DefaultBucketPrefix = "prj-lmis-"

// Provisioner creates and removes the rooms of coop spaces.
type Provisioner interface {
	CreateRoom(ctx context.Context, cs model.CoopSpace) error
	DeleteRoom(ctx context.Context, cs model.CoopSpace) error
}

// Service manages coop spaces.
type Service struct {
	store        persistence.CoopSpaceSaver
	provisioner  Provisioner
	objects      objectstore.Factory
	identity     identity.Provider
	bucketPrefix string
	mandant      string
}

// Config holds the settings of the service.
type Config struct {
	BucketPrefix string
	// Mandant is used for coop spaces that are created without one.
	Mandant string
}

// New returns a coop space service.
func New(
	store persistence.CoopSpaceSaver,
	provisioner Provisioner,
	objects objectstore.Factory,
	idp identity.Provider,
	cfg Config,
) *Service {
	if cfg.BucketPrefix == "" {
		cfg.BucketPrefix = DefaultBucketPrefix
	}
	return &Service{
		store:        store,
		provisioner:  provisioner,
		objects:      objects,
		identity:     idp,
		bucketPrefix: cfg.BucketPrefix,
		mandant:      cfg.Mandant,
	}
}

// BucketName returns the name of the bucket backing the coop space.
func (s *Service) BucketName(cs model.CoopSpace) string {
	return s.bucketPrefix + cs.Name
}

// Create provisions the room of the coop space and stores it. Nothing is stored when
// provisioning fails.
func (s *Service) Create(ctx context.Context, cs *model.CoopSpace) (*model.CoopSpace, error) {
	if cs.ID != 0 {
		return nil, apperr.New(apperr.BadRequest, "a new coop space can't have an id")
	}
	for _, m := range cs.Members {
		if m.ID != 0 {
			return nil, apperr.New(apperr.BadRequest, "member %s of a new coop space can't have an id", m.Username)
		}
	}
	if cs.Mandant == "" {
		cs.Mandant = s.mandant
	}
	ctx, logger := logging.InjectLabels(ctx, "coop_space", cs.Name, "company", cs.Company)
	if err := s.provisioner.CreateRoom(ctx, *cs); err != nil {
		return nil, err
	}
	if err := s.store.PutCoopSpace(ctx, cs); err != nil {
		logger.Error("Room was provisioned but coop space could not be stored", "err", err)
		return nil, fmt.Errorf("couldn't store coop space: %w", err)
	}
	logger.Info("Created coop space", "id", cs.ID)
	return cs, nil
}

// Delete removes the coop space if username owns it and its bucket is empty. The token is used
// to look into the bucket.
func (s *Service) Delete(ctx context.Context, username, token string, id int64) error {
	cs, err := s.get(ctx, id)
	if err != nil {
		return err
	}
	if !IsOwner(username, *cs) {
		return apperr.New(apperr.Forbidden, "%s is not an owner of coop space %d", username, id)
	}
	ctx, logger := logging.InjectLabels(ctx, "coop_space", cs.Name, "company", cs.Company)
	store, err := s.objects.ForToken(ctx, token)
	if err != nil {
		return err
	}
	bucket := s.BucketName(*cs)
	hasObjects, err := store.HasObjects(ctx, bucket)
	switch {
	case apperr.Is(err, apperr.NotFound):
		logger.Warn("Bucket of coop space does not exist", "bucket", bucket)
	case err != nil:
		return err
	case hasObjects:
		return apperr.New(apperr.BucketNotEmpty, "bucket %s still contains objects", bucket)
	}

	if err := s.provisioner.DeleteRoom(ctx, *cs); err != nil {
		return err
	}
	if err := s.store.DelCoopSpace(ctx, id); err != nil {
		return fmt.Errorf("couldn't delete coop space: %w", err)
	}
	logger.Info("Deleted coop space")
	return nil
}

// List returns the coop spaces that have a bucket the token gives access to.
func (s *Service) List(ctx context.Context, token string) ([]*model.CoopSpace, error) {
	spaces, err := s.store.ListCoopSpaces(ctx)
	if err != nil {
		return nil, fmt.Errorf("couldn't list coop spaces: %w", err)
	}
	store, err := s.objects.ForToken(ctx, token)
	if err != nil {
		return nil, err
	}
	buckets, err := store.ListBuckets(ctx)
	if err != nil {
		return nil, err
	}
	return FilterByBucketAccess(spaces, buckets, s.bucketPrefix), nil
}

// Get returns the coop space if username is one of its members.
func (s *Service) Get(ctx context.Context, username string, id int64) (*model.CoopSpace, error) {
	cs, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !HasAccess(username, *cs) {
		return nil, apperr.New(apperr.Forbidden, "%s is not a member of coop space %d", username, id)
	}
	return cs, nil
}

// RemoveMember removes the member from the role group at the identity provider and from the
// coop space. Only owners of the coop space may remove members.
func (s *Service) RemoveMember(ctx context.Context, username string, coopSpaceID, memberID int64) error {
	cs, err := s.get(ctx, coopSpaceID)
	if err != nil {
		return err
	}
	if !IsOwner(username, *cs) {
		return apperr.New(apperr.Forbidden, "%s is not an owner of coop space %d", username, coopSpaceID)
	}
	m, ok := cs.Member(memberID)
	if !ok {
		return apperr.New(apperr.NotFound, "coop space %d has no member %d", coopSpaceID, memberID)
	}
	if err := s.identity.RemoveUserFromGroup(ctx, cs.Company, cs.Name, m.Role, m.Username); err != nil {
		return err
	}
	if err := s.store.DelMember(ctx, coopSpaceID, memberID); err != nil {
		return fmt.Errorf("couldn't delete member: %w", err)
	}
	logging.Extract(ctx).Info("Removed member", "coop_space", cs.Name, "username", m.Username)
	return nil
}

func (s *Service) get(ctx context.Context, id int64) (*model.CoopSpace, error) {
	cs, err := s.store.GetCoopSpace(ctx, id)
	if err != nil {
		if errors.Is(err, persistence.ErrNotFound) {
			return nil, apperr.Wrap(apperr.NotFound, err, "coop space %d", id)
		}
		return nil, fmt.Errorf("couldn't get coop space: %w", err)
	}
	return cs, nil
}

// FilterByBucketAccess keeps the coop spaces for which there is a bucket whose name, with the
// prefix removed, equals the coop space name. The comparison is case sensitive.
func FilterByBucketAccess(spaces []*model.CoopSpace, buckets []model.Bucket, prefix string) []*model.CoopSpace {
	out := make([]*model.CoopSpace, 0)
	if len(spaces) == 0 || len(buckets) == 0 {
		return out
	}
	names := make(map[string]struct{}, len(buckets))
	for _, b := range buckets {
		names[strings.TrimPrefix(b.Name, prefix)] = struct{}{}
	}
	for _, cs := range spaces {
		if _, ok := names[cs.Name]; ok {
			out = append(out, cs)
		}
	}
	return out
}

// HasAccess reports whether username is exactly the username of one of the members.
func HasAccess(username string, cs model.CoopSpace) bool {
	if username == "" {
		return false
	}
	for _, m := range cs.Members {
		if m.Username == username {
			return true
		}
	}
	return false
}

// IsOwner reports whether username is exactly the username of a member with the OWNER role.
func IsOwner(username string, cs model.CoopSpace) bool {
	if username == "" {
		return false
	}
	for _, m := range cs.Members {
		if m.Username == username && m.Role == model.RoleOwner {
			return true
		}
	}
	return false
}
