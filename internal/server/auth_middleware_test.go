package server

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ttvMolten/Egov-services-db/internal/domain"
	"github.com/ttvMolten/Egov-services-db/internal/server/authctx"
)

func signed(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func TestAuthMiddleware(t *testing.T) {
	var got *authctx.CurrentUser
	h := AuthMiddleware("secret")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = authctx.FromContext(r.Context())
	}))
	exp := time.Now().Add(time.Hour).Unix()

	cases := []struct {
		name   string
		header string
		want   int
	}{
		{"missing", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic abc", http.StatusUnauthorized},
		{"wrong secret", "Bearer " + signed(t, "other", jwt.MapClaims{"sub": "1", "role": "ADMIN", "token_type": "access", "exp": exp}), http.StatusUnauthorized},
		{"expired", "Bearer " + signed(t, "secret", jwt.MapClaims{"sub": "1", "role": "ADMIN", "token_type": "access", "exp": time.Now().Add(-time.Hour).Unix()}), http.StatusUnauthorized},
		{"not access", "Bearer " + signed(t, "secret", jwt.MapClaims{"sub": "1", "role": "ADMIN", "token_type": "refresh", "exp": exp}), http.StatusUnauthorized},
		{"bad subject", "Bearer " + signed(t, "secret", jwt.MapClaims{"sub": "x", "role": "ADMIN", "token_type": "access", "exp": exp}), http.StatusUnauthorized},
		{"bad role", "Bearer " + signed(t, "secret", jwt.MapClaims{"sub": "1", "role": "OWNER", "token_type": "access", "exp": exp}), http.StatusUnauthorized},
		{"ok", "Bearer " + signed(t, "secret", jwt.MapClaims{"sub": "7", "role": "ADMIN", "branch": 3, "name": "A", "token_type": "access", "exp": exp}), http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got = nil
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			assert.Equal(t, tc.want, rec.Code)
			if tc.want == http.StatusOK {
				require.NotNil(t, got)
				assert.Equal(t, authctx.CurrentUser{ID: 7, Name: "A", Role: domain.RoleAdmin, BranchID: 3}, *got)
			} else {
				assert.Nil(t, got)
			}
		})
	}
}

func TestRequireRole(t *testing.T) {
	h := RequireRole(domain.RoleAdmin)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	serve := func(user *authctx.CurrentUser) int {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if user != nil {
			req = req.WithContext(authctx.WithCurrentUser(req.Context(), *user))
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusForbidden, serve(nil))
	assert.Equal(t, http.StatusForbidden, serve(&authctx.CurrentUser{ID: 1, Role: domain.RoleEmployee}))
	assert.Equal(t, http.StatusOK, serve(&authctx.CurrentUser{ID: 1, Role: domain.RoleAdmin}))
}
