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
	"net/http"
	"net/url"
	"time"

	"github.com/go-dataspace/agri-admin/api"
	"github.com/go-dataspace/agri-admin/connectors/agrovoc"
	edcclient "github.com/go-dataspace/agri-admin/connectors/edc"
	"github.com/go-dataspace/agri-admin/connectors/geonames"
	"github.com/go-dataspace/agri-admin/connectors/keycloak"
	"github.com/go-dataspace/agri-admin/connectors/minio"
	"github.com/go-dataspace/agri-admin/connectors/provisioning"
	"github.com/go-dataspace/agri-admin/connectors/shared"
	"github.com/go-dataspace/agri-admin/connectors/sparql"
	"github.com/go-dataspace/agri-admin/coopspace"
	"github.com/go-dataspace/agri-admin/edc"
	"github.com/go-dataspace/agri-admin/example"
	"github.com/go-dataspace/agri-admin/persistence"
	"github.com/go-dataspace/agri-admin/publish"
	"github.com/spf13/viper"
)

const outboundTimeout = 30 * time.Second

func configURL(key string) *url.URL {
	return shared.MustParseURL(viper.GetString(key))
}

// buildServices wires the connectors and services. The returned function releases their
// resources.
func buildServices(ctx context.Context, store persistence.StorageProvider) (api.Services, func(), error) {
	client := &http.Client{Timeout: outboundTimeout}

	vocabulary, err := agrovoc.New(
		sparql.New(configURL(agrovocEndpoint), nil),
		agrovoc.WithCache(viper.GetInt64(agrovocCacheSize)),
	)
	if err != nil {
		return api.Services{}, nil, err
	}
	places := geonames.New(sparql.New(configURL(geonamesEndpoint), nil))

	connector := edcclient.NewWithRequester(configURL(edcManagementURL), &shared.HTTPRequester{
		Client: &http.Client{
			Timeout: outboundTimeout,
			Transport: shared.HeaderRoundTripper{
				Proxied: http.DefaultTransport,
				Name:    edcclient.APIKeyHeader,
				Value:   viper.GetString(edcAPIKey),
			},
		},
	})
	provisioner := provisioning.New(
		configURL(provisioningCreateURL),
		configURL(provisioningDeleteURL),
		&shared.HTTPRequester{Client: client},
	)
	idp := keycloak.New(keycloak.Config{
		URL:           viper.GetString(keycloakURL),
		Realm:         viper.GetString(keycloakRealm),
		ClientID:      viper.GetString(keycloakClientID),
		ClientSecret:  viper.GetString(keycloakClientSecret),
		ReservedGroup: viper.GetString(keycloakReservedGroup),
	})
	objects := &minio.Factory{
		Endpoint:    viper.GetString(minioEndpoint),
		STSEndpoint: viper.GetString(minioSTSEndpoint),
		Region:      viper.GetString(minioRegion),
		Secure:      viper.GetBool(minioSecure),
	}

	svc := api.Services{
		Examples: example.New(store),
		CoopSpaces: coopspace.New(store, provisioner, objects, idp, coopspace.Config{
			BucketPrefix: viper.GetString(bucketPrefix),
			Mandant:      viper.GetString(mandant),
		}),
		Publish: publish.New(vocabulary, places, connector, store,
			publish.WithDataAddress(edc.DataAddressConfig{
				Region:   viper.GetString(edcS3Region),
				Endpoint: viper.GetString(edcS3Endpoint),
			}),
		),
		Keywords: vocabulary,
		Objects:  objects,
		Identity: idp,
	}
	return svc, vocabulary.Close, nil
}
