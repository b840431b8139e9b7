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

// Configuration keys of the server command.
const (
	listenAddr  = "server.listenAddr"
	port        = "server.port"
	corsOrigins = "server.cors.origins"
	corsMethods = "server.cors.methods"

	authPublicKey = "server.auth.publicKey"
	authDisabled  = "server.auth.disabled"

	persistenceBackend = "server.persistence.backend"
	postgresDSN        = "server.persistence.postgres.dsn"
	badgerMemory       = "server.persistence.badger.memory"
	badgerPath         = "server.persistence.badger.path"

	edcManagementURL = "server.edc.managementURL"
	edcAPIKey        = "server.edc.apiKey"
	edcS3Region      = "server.edc.s3Region"
	edcS3Endpoint    = "server.edc.s3Endpoint"

	provisioningCreateURL = "server.provisioning.createURL"
	provisioningDeleteURL = "server.provisioning.deleteURL"

	agrovocEndpoint  = "server.agrovoc.endpoint"
	agrovocCacheSize = "server.agrovoc.cacheSize"
	geonamesEndpoint = "server.geonames.endpoint"

	keycloakURL           = "server.keycloak.url"
	keycloakRealm         = "server.keycloak.realm"
	keycloakClientID      = "server.keycloak.clientID"
	keycloakClientSecret  = "server.keycloak.clientSecret"
	keycloakReservedGroup = "server.keycloak.reservedGroup"

	minioEndpoint    = "server.minio.endpoint"
	minioSTSEndpoint = "server.minio.stsEndpoint"
	minioRegion      = "server.minio.region"
	minioSecure      = "server.minio.secure"

	bucketPrefix = "server.coopspace.bucketPrefix"
	mandant      = "server.coopspace.mandant"

	otelEnabled     = "server.otel.enabled"
	otelEndpointURL = "server.otel.endpointURL"
	otelServiceName = "server.otel.serviceName"
)
