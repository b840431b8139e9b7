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

package api

import (
	"context"
	"crypto/rsa"
	"fmt"
	"net/http"
	"slices"
	"strings"

	"github.com/go-dataspace/agri-admin/internal/apperr"
	"github.com/go-dataspace/agri-admin/logging"
	"github.com/golang-jwt/jwt/v5"
)

type contextKey string

const principalKey contextKey = "principal"

// Claims are the claims of the access tokens issued by the identity provider.
type Claims struct {
	jwt.RegisteredClaims
	PreferredUsername string   `json:"preferred_username"`
	UserGroup         []string `json:"usergroup"`
}

// Principal is the authenticated caller.
type Principal struct {
	Username    string
	Authorities []string
	// Token is the raw bearer token, object storage sessions are opened with it.
	Token string
}

// HasAuthority checks if the principal holds the authority.
func (p Principal) HasAuthority(a string) bool {
	return slices.Contains(p.Authorities, a)
}

// PrincipalFromContext returns the principal of the request.
func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey).(Principal)
	return p, ok
}

func withPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey, p)
}

// Authorities maps usergroup paths to authorities. Every path grants company-<first segment>,
// and paths running through a "Projects" group also grant coopspace-<last segment>.
func Authorities(groups []string) []string {
	out := make([]string, 0, len(groups))
	add := func(a string) {
		if !slices.Contains(out, a) {
			out = append(out, a)
		}
	}
	for _, g := range groups {
		segments := strings.Split(strings.Trim(g, "/"), "/")
		if segments[0] == "" {
			continue
		}
		add("company-" + segments[0])
		if slices.Contains(segments, "Projects") {
			add("coopspace-" + segments[len(segments)-1])
		}
	}
	return out
}

// Authenticator validates bearer tokens.
type Authenticator struct {
	key    *rsa.PublicKey
	parser *jwt.Parser
	// verify is false in development setups without an identity provider.
	verify bool
}

// NewAuthenticator returns an authenticator verifying tokens with the PEM encoded RSA public key.
func NewAuthenticator(publicKeyPEM []byte) (*Authenticator, error) {
	key, err := jwt.ParseRSAPublicKeyFromPEM(publicKeyPEM)
	if err != nil {
		return nil, fmt.Errorf("couldn't parse token public key: %w", err)
	}
	return &Authenticator{
		key:    key,
		parser: jwt.NewParser(jwt.WithValidMethods([]string{"RS256", "RS384", "RS512"})),
		verify: true,
	}, nil
}

// NewUnverifiedAuthenticator returns an authenticator that reads tokens without checking their
// signature.
func NewUnverifiedAuthenticator() *Authenticator {
	return &Authenticator{parser: jwt.NewParser()}
}

// Authenticate parses a raw bearer token into a principal.
func (a *Authenticator) Authenticate(raw string) (Principal, error) {
	claims := &Claims{}
	var err error
	if a.verify {
		_, err = a.parser.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
			return a.key, nil
		})
	} else {
		_, _, err = a.parser.ParseUnverified(raw, claims)
	}
	if err != nil {
		return Principal{}, apperr.Wrap(apperr.Unauthorized, err, "invalid token")
	}
	username := claims.PreferredUsername
	if username == "" {
		username = claims.Subject
	}
	return Principal{
		Username:    username,
		Authorities: Authorities(claims.UserGroup),
		Token:       raw,
	}, nil
}

// Middleware requires a valid bearer token and puts the principal in the request context.
func (a *Authenticator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok || raw == "" {
			writeError(w, r, apperr.New(apperr.Unauthorized, "missing bearer token"))
			return
		}
		p, err := a.Authenticate(strings.TrimSpace(raw))
		if err != nil {
			writeError(w, r, err)
			return
		}
		ctx, _ := logging.InjectLabels(r.Context(), "username", p.Username)
		next.ServeHTTP(w, r.WithContext(withPrincipal(ctx, p)))
	})
}

func principal(r *http.Request) (Principal, error) {
	p, ok := PrincipalFromContext(r.Context())
	if !ok {
		return Principal{}, apperr.New(apperr.Unauthorized, "not authenticated")
	}
	return p, nil
}
