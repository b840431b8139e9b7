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
)

const examplePrefix = "example"

func (sp *StorageProvider) ListExamples(ctx context.Context) ([]*model.Example, error) {
	return getAll[model.Example](sp.db, []byte(examplePrefix+"-"))
}

func (sp *StorageProvider) GetExample(ctx context.Context, id int64) (*model.Example, error) {
	return get[model.Example](sp.db, mkKey(examplePrefix, id))
}

func (sp *StorageProvider) PutExample(ctx context.Context, e *model.Example) error {
	if e.ID == 0 {
		id, err := sp.nextID(examplePrefix)
		if err != nil {
			return err
		}
		e.ID = id
	}
	return put(sp.db, mkKey(examplePrefix, e.ID), e)
}

func (sp *StorageProvider) DelExample(ctx context.Context, id int64) error {
	return del(sp.db, mkKey(examplePrefix, id))
}
