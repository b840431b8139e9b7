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
	"fmt"
	"slices"

	"github.com/go-dataspace/agri-admin/logging"
	"github.com/go-dataspace/agri-admin/model"
	"github.com/go-dataspace/agri-admin/persistence"
)

const coopSpacePrefix = "coopspace"

// ListCoopSpaces returns all cooperation spaces.
func (sp *StorageProvider) ListCoopSpaces(ctx context.Context) ([]*model.CoopSpace, error) {
	spaces, err := getAll[model.CoopSpace](sp.db, []byte(coopSpacePrefix+"-"))
	if err != nil {
		return nil, err
	}
	for _, cs := range spaces {
		withMembers(cs)
	}
	return spaces, nil
}

// GetCoopSpace gets a cooperation space by ID.
func (sp *StorageProvider) GetCoopSpace(ctx context.Context, id int64) (*model.CoopSpace, error) {
	cs, err := get[model.CoopSpace](sp.db, mkKey(coopSpacePrefix, id))
	if err != nil {
		return nil, err
	}
	return withMembers(cs), nil
}

// gob does not encode empty slices.
func withMembers(cs *model.CoopSpace) *model.CoopSpace {
	if cs.Members == nil {
		cs.Members = []model.Member{}
	}
	return cs
}

// PutCoopSpace saves a cooperation space, assigning IDs to it and its new members.
func (sp *StorageProvider) PutCoopSpace(ctx context.Context, cs *model.CoopSpace) error {
	if cs.ID == 0 {
		id, err := sp.nextID(coopSpacePrefix)
		if err != nil {
			return err
		}
		cs.ID = id
	}
	for i := range cs.Members {
		if cs.Members[i].ID != 0 {
			continue
		}
		id, err := sp.nextID("member")
		if err != nil {
			return err
		}
		cs.Members[i].ID = id
	}
	logging.Extract(ctx).Debug("Saving coop space", "id", cs.ID, "name", cs.Name)
	return put(sp.db, mkKey(coopSpacePrefix, cs.ID), cs)
}

// DelCoopSpace deletes a cooperation space.
func (sp *StorageProvider) DelCoopSpace(ctx context.Context, id int64) error {
	return del(sp.db, mkKey(coopSpacePrefix, id))
}

// DelMember removes a member from a cooperation space.
func (sp *StorageProvider) DelMember(ctx context.Context, coopSpaceID, memberID int64) error {
	cs, err := sp.GetCoopSpace(ctx, coopSpaceID)
	if err != nil {
		return err
	}
	idx := slices.IndexFunc(cs.Members, func(m model.Member) bool { return m.ID == memberID })
	if idx < 0 {
		return fmt.Errorf("member %d of coop space %d: %w", memberID, coopSpaceID, persistence.ErrNotFound)
	}
	cs.Members = slices.Delete(cs.Members, idx, idx+1)
	return put(sp.db, mkKey(coopSpacePrefix, cs.ID), cs)
}
