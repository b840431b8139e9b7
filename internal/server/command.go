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

// Package server provides the server subcommand.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/go-chi/cors"
	"github.com/go-dataspace/agri-admin/api"
	"github.com/go-dataspace/agri-admin/internal/cfg"
	"github.com/go-dataspace/agri-admin/logging"
	"github.com/justinas/alice"
	sloghttp "github.com/samber/slog-http"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const shutdownTimeout = 10 * time.Second

// Command starts the admin server.
var Command = &cobra.Command{
	Use:   "server",
	Short: "Start the agri-admin server",
	Long:  `Starts the administration backend of the data marketplace.`,
	Args:  cobra.NoArgs,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return checkConfig()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, ok := viper.Get("initCTX").(context.Context)
		if !ok {
			return errors.New("couldn't fetch initial context")
		}
		return run(ctx)
	},
}

func init() {
	cfg.AddPersistentFlag(Command, listenAddr, "address", "Listen address", "0.0.0.0")
	cfg.AddPersistentFlag(Command, port, "port", "Listen port", 8080)
	cfg.AddPersistentFlag(Command, corsOrigins, "cors-origins", "Allowed CORS origins", []string{})
	cfg.AddPersistentFlag(Command, corsMethods, "cors-methods", "Allowed CORS methods",
		[]string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions})

	cfg.AddPersistentFlag(Command, authPublicKey, "auth-public-key",
		"PEM file with the RSA public key access tokens are signed with", "")
	cfg.AddPersistentFlag(Command, authDisabled, "auth-disabled",
		"Don't verify token signatures, for development only", false)

	cfg.AddPersistentFlag(Command, persistenceBackend, "persistence-backend",
		"Persistence backend, postgres or badger", "postgres")
	cfg.AddPersistentFlag(Command, postgresDSN, "postgres-dsn", "Postgres connection string", "")
	cfg.AddPersistentFlag(Command, badgerMemory, "badger-memory", "Keep the badger database in memory", false)
	cfg.AddPersistentFlag(Command, badgerPath, "badger-path", "Directory of the badger database",
		"/var/lib/agri-admin/badger")

	cfg.AddPersistentFlag(Command, edcManagementURL, "edc-management-url",
		"Base URL of the connector management API", "")
	cfg.AddPersistentFlag(Command, edcAPIKey, "edc-api-key", "API key of the connector management API", "")
	cfg.AddPersistentFlag(Command, edcS3Region, "edc-s3-region", "Region put in asset data addresses", "")
	cfg.AddPersistentFlag(Command, edcS3Endpoint, "edc-s3-endpoint",
		"Object storage endpoint put in asset data addresses", "")

	cfg.AddPersistentFlag(Command, provisioningCreateURL, "provisioning-create-url",
		"URL rooms are created with", "")
	cfg.AddPersistentFlag(Command, provisioningDeleteURL, "provisioning-delete-url",
		"URL rooms are deleted with", "")

	cfg.AddPersistentFlag(Command, agrovocEndpoint, "agrovoc-endpoint", "Agrovoc SPARQL endpoint",
		"https://agrovoc.fao.org/sparql")
	cfg.AddPersistentFlag(Command, agrovocCacheSize, "agrovoc-cache-size",
		"Number of resolved keywords to cache, 0 disables the cache", 10000)
	cfg.AddPersistentFlag(Command, geonamesEndpoint, "geonames-endpoint", "GeoNames SPARQL endpoint", "")

	cfg.AddPersistentFlag(Command, keycloakURL, "keycloak-url", "Keycloak base URL", "")
	cfg.AddPersistentFlag(Command, keycloakRealm, "keycloak-realm", "Keycloak realm", "")
	cfg.AddPersistentFlag(Command, keycloakClientID, "keycloak-client-id", "Service account client ID", "")
	cfg.AddPersistentFlag(Command, keycloakClientSecret, "keycloak-client-secret",
		"Service account client secret", "")
	cfg.AddPersistentFlag(Command, keycloakReservedGroup, "keycloak-reserved-group",
		"Top level group that is not a company", "admins")

	cfg.AddPersistentFlag(Command, minioEndpoint, "minio-endpoint", "Object storage endpoint, host:port", "")
	cfg.AddPersistentFlag(Command, minioSTSEndpoint, "minio-sts-endpoint", "Object storage STS endpoint", "")
	cfg.AddPersistentFlag(Command, minioRegion, "minio-region", "Object storage region", "")
	cfg.AddPersistentFlag(Command, minioSecure, "minio-secure", "Use TLS for object storage", true)

	cfg.AddPersistentFlag(Command, bucketPrefix, "bucket-prefix", "Prefix of coop space bucket names", "prj-lmis-")
	cfg.AddPersistentFlag(Command, mandant, "mandant", "Mandant of new coop spaces", "")

	cfg.AddPersistentFlag(Command, otelEnabled, "otel-enabled", "Export opentelemetry traces", false)
	cfg.AddPersistentFlag(Command, otelEndpointURL, "otel-endpoint-url", "OTLP HTTP endpoint URL", "")
	cfg.AddPersistentFlag(Command, otelServiceName, "otel-service-name", "Service name in traces", "agri-admin")
}

func checkConfig() error {
	err := cfg.CheckURL(
		edcManagementURL,
		provisioningCreateURL,
		provisioningDeleteURL,
		agrovocEndpoint,
		geonamesEndpoint,
		keycloakURL,
		minioSTSEndpoint,
	)
	err = errors.Join(err, cfg.CheckSet(minioEndpoint, keycloakRealm, keycloakClientID))

	switch b := viper.GetString(persistenceBackend); b {
	case "postgres":
		err = errors.Join(err, cfg.CheckSet(postgresDSN))
	case "badger":
		if !viper.GetBool(badgerMemory) {
			err = errors.Join(err, cfg.CheckSet(badgerPath))
		}
	default:
		err = errors.Join(err, fmt.Errorf("invalid persistence backend: %s", b))
	}

	if !viper.GetBool(authDisabled) {
		if kerr := cfg.CheckFilesExist(viper.GetString(authPublicKey)); kerr != nil {
			err = errors.Join(err, fmt.Errorf("auth public key: %w", kerr))
		}
	}
	if viper.GetBool(otelEnabled) {
		err = errors.Join(err, cfg.CheckURL(otelEndpointURL))
	}
	return err
}

func run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	logger := logging.Extract(ctx)

	otelShutdown, err := setupOTelSDK(
		ctx, viper.GetBool(otelEnabled), viper.GetString(otelEndpointURL), viper.GetString(otelServiceName))
	if err != nil {
		return err
	}
	defer func() {
		if err := otelShutdown(context.Background()); err != nil {
			logger.Error("Couldn't shut down opentelemetry", "err", err)
		}
	}()

	store, err := getStorageProvider(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Error("Couldn't close storage", "err", err)
		}
	}()

	svc, closeServices, err := buildServices(ctx, store)
	if err != nil {
		return err
	}
	defer closeServices()

	auth, err := authenticator(ctx)
	if err != nil {
		return err
	}

	chain := alice.New(
		logging.NewMiddleware(logger),
		sloghttp.New(logger),
		sloghttp.Recovery,
		cors.Handler(cors.Options{
			AllowedOrigins:   viper.GetStringSlice(corsOrigins),
			AllowedMethods:   viper.GetStringSlice(corsMethods),
			AllowedHeaders:   []string{"Authorization", "Content-Type"},
			AllowCredentials: true,
			MaxAge:           300,
		}),
		func(h http.Handler) http.Handler { return otelhttp.NewHandler(h, "agri-admin") },
	)

	srv := &http.Server{
		Addr:              net.JoinHostPort(viper.GetString(listenAddr), strconv.Itoa(viper.GetInt(port))),
		Handler:           chain.Then(api.GetRoutes(svc, auth.Middleware)),
		ReadHeaderTimeout: 2 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Starting server", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	logger.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func authenticator(ctx context.Context) (*api.Authenticator, error) {
	if viper.GetBool(authDisabled) {
		logging.Extract(ctx).Warn("Token signatures are not verified, don't use this in production")
		return api.NewUnverifiedAuthenticator(), nil
	}
	pem, err := os.ReadFile(viper.GetString(authPublicKey))
	if err != nil {
		return nil, fmt.Errorf("couldn't read auth public key: %w", err)
	}
	return api.NewAuthenticator(pem)
}
