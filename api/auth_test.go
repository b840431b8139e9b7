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

package api_test

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-dataspace/agri-admin/api"
	"github.com/go-dataspace/agri-admin/internal/apperr"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthorities(t *testing.T) {
	t.Parallel()
	got := api.Authorities([]string{
		"/lmis",
		"/lmis/Users",
		"/lmis/Projects/blub/ADMIN",
		"/other/Projects/field-trials",
		"",
	})
	assert.Equal(t, []string{"company-lmis", "coopspace-ADMIN", "company-other", "coopspace-field-trials"}, got)
	assert.Empty(t, api.Authorities(nil))
}

func rsaKey(t *testing.T) (*rsa.PrivateKey, []byte) {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	der, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	require.NoError(t, err)
	return key, pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: der})
}

func signRS256(t *testing.T, key *rsa.PrivateKey, claims api.Claims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(key)
	require.NoError(t, err)
	return s
}

func TestAuthenticate(t *testing.T) {
	t.Parallel()
	key, pub := rsaKey(t)
	auth, err := api.NewAuthenticator(pub)
	require.NoError(t, err)

	token := signRS256(t, key, api.Claims{
		RegisteredClaims:  jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
		PreferredUsername: "antonia",
		UserGroup:         []string{"/lmis/Projects/blub/User"},
	})
	p, err := auth.Authenticate(token)
	require.NoError(t, err)
	assert.Equal(t, "antonia", p.Username)
	assert.Equal(t, token, p.Token)
	assert.True(t, p.HasAuthority("company-lmis"))
	assert.True(t, p.HasAuthority("coopspace-User"))

	expired := signRS256(t, key, api.Claims{
		RegisteredClaims:  jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour))},
		PreferredUsername: "antonia",
	})
	_, err = auth.Authenticate(expired)
	assert.True(t, apperr.Is(err, apperr.Unauthorized))

	otherKey, _ := rsaKey(t)
	_, err = auth.Authenticate(signRS256(t, otherKey, api.Claims{PreferredUsername: "mallory"}))
	assert.True(t, apperr.Is(err, apperr.Unauthorized))

	hmac, err := jwt.NewWithClaims(jwt.SigningMethodHS256, api.Claims{PreferredUsername: "mallory"}).
		SignedString([]byte("secret"))
	require.NoError(t, err)
	_, err = auth.Authenticate(hmac)
	assert.True(t, apperr.Is(err, apperr.Unauthorized))
}

func TestNewAuthenticatorBadKey(t *testing.T) {
	t.Parallel()
	_, err := api.NewAuthenticator([]byte("not a key"))
	assert.Error(t, err)
}

func TestMiddleware(t *testing.T) {
	t.Parallel()
	auth := api.NewUnverifiedAuthenticator()
	var seen api.Principal
	h := auth.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = api.PrincipalFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"message":"missing bearer token","errorType":"UNAUTHORIZED"}`, rec.Body.String())

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, api.Claims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "1234"},
		UserGroup:        []string{"/lmis"},
	}).SignedString([]byte("secret"))
	require.NoError(t, err)
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "1234", seen.Username)
	assert.Equal(t, []string{"company-lmis"}, seen.Authorities)
}
