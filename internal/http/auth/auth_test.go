package auth_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/warung/internal/http/auth"
)

const secret = "rahasia-warung"

func sign(t *testing.T, method jwt.SigningMethod, key any, claims jwt.RegisteredClaims) string {
	t.Helper()

	s, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)

	return s
}

func TestMiddleware(t *testing.T) {
	now := time.Now()
	valid := jwt.RegisteredClaims{Subject: "kasir-1", ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour))}

	type testCase struct {
		name        string
		header      string
		wantStatus  int
		wantSubject string
		wantBody    string
	}

	tests := []testCase{
		{
			name:        "valid token",
			header:      "Bearer " + sign(t, jwt.SigningMethodHS256, []byte(secret), valid),
			wantStatus:  http.StatusOK,
			wantSubject: "kasir-1",
		},
		{
			name:       "missing header",
			wantStatus: http.StatusUnauthorized,
			wantBody:   `{"error":"missing bearer token"}`,
		},
		{
			name:       "wrong scheme",
			header:     "Basic dXNlcjpwYXNz",
			wantStatus: http.StatusUnauthorized,
			wantBody:   `{"error":"missing bearer token"}`,
		},
		{
			name:       "wrong secret",
			header:     "Bearer " + sign(t, jwt.SigningMethodHS256, []byte("other"), valid),
			wantStatus: http.StatusUnauthorized,
			wantBody:   `{"error":"invalid token"}`,
		},
		{
			name:       "other algorithm",
			header:     "Bearer " + sign(t, jwt.SigningMethodHS512, []byte(secret), valid),
			wantStatus: http.StatusUnauthorized,
			wantBody:   `{"error":"invalid token"}`,
		},
		{
			name:       "no expiry",
			header:     "Bearer " + sign(t, jwt.SigningMethodHS256, []byte(secret), jwt.RegisteredClaims{Subject: "kasir-1"}),
			wantStatus: http.StatusUnauthorized,
			wantBody:   `{"error":"invalid token"}`,
		},
		{
			name: "expired",
			header: "Bearer " + sign(t, jwt.SigningMethodHS256, []byte(secret), jwt.RegisteredClaims{
				Subject:   "kasir-1",
				ExpiresAt: jwt.NewNumericDate(now.Add(-time.Hour)),
			}),
			wantStatus: http.StatusUnauthorized,
			wantBody:   `{"error":"token expired"}`,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var subject string

			h := auth.Middleware(secret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				subject = auth.Subject(r.Context())
			}))

			r := httptest.NewRequest(http.MethodGet, "/api/v1/debts", nil)
			if tc.header != "" {
				r.Header.Set("Authorization", tc.header)
			}

			w := httptest.NewRecorder()
			h.ServeHTTP(w, r)

			assert.Equal(t, tc.wantStatus, w.Code)
			assert.Equal(t, tc.wantSubject, subject)

			if tc.wantBody != "" {
				assert.JSONEq(t, tc.wantBody, w.Body.String())
			}
		})
	}
}

func TestMiddleware_EmptySecretAllowsAll(t *testing.T) {
	called := false

	h := auth.Middleware("")(http.HandlerFunc(func(http.ResponseWriter, *http.Request) { called = true }))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.True(t, called)
	assert.Equal(t, http.StatusOK, w.Code)
}
