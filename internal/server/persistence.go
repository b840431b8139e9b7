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

package server

import (
	"context"
	"fmt"

	"github.com/go-dataspace/agri-admin/logging"
	"github.com/go-dataspace/agri-admin/persistence"
	"github.com/go-dataspace/agri-admin/persistence/badger"
	"github.com/go-dataspace/agri-admin/persistence/postgres"
	"github.com/spf13/viper"
)

func getStorageProvider(ctx context.Context) (persistence.StorageProvider, error) {
	logger := logging.Extract(ctx)
	switch b := viper.GetString(persistenceBackend); b {
	case "postgres":
		dsn := viper.GetString(postgresDSN)
		logger.Info("Migrating postgres database")
		if err := postgres.Migrate(ctx, dsn); err != nil {
			return nil, err
		}
		return postgres.New(ctx, dsn)
	case "badger":
		return badger.New(ctx, viper.GetBool(badgerMemory), viper.GetString(badgerPath))
	default:
		return nil, fmt.Errorf("invalid backend: %s", b)
	}
}
