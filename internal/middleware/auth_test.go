package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testSecret = "test-secret"

func signToken(t *testing.T, secret, subject, role string, expiresIn time.Duration) string {
	t.Helper()

	claims := Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiresIn)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func serveWithAuth(handler http.Handler, authorization string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/products", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	return w
}

// Property: admin routes reject requests without a bearer token
func TestProperty_AdminRoutesRejectMissingTokens(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("requests without authorization header are rejected", prop.ForAll(
		func(method string) bool {
			handler := AdminOnly(testSecret, zap.NewNop())(okHandler())

			req := httptest.NewRequest(method, "/api/categories", nil)
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			return w.Code == http.StatusUnauthorized
		},
		gen.OneConstOf(http.MethodPost, http.MethodPut, http.MethodDelete),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

// Property: garbage bearer tokens never authenticate
func TestProperty_MalformedTokensRejected(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("arbitrary token strings are rejected", prop.ForAll(
		func(token string) bool {
			handler := AuthMiddleware(testSecret, zap.NewNop())(okHandler())
			return serveWithAuth(handler, "Bearer "+token).Code == http.StatusUnauthorized
		},
		gen.AnyString(),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestAuthMiddleware_ExpiredToken(t *testing.T) {
	handler := AuthMiddleware(testSecret, zap.NewNop())(okHandler())
	token := signToken(t, testSecret, "admin-1", AdminRole, -time.Hour)

	w := serveWithAuth(handler, "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "token expired")
}

func TestAuthMiddleware_RejectsWrongSecretAndScheme(t *testing.T) {
	handler := AuthMiddleware(testSecret, zap.NewNop())(okHandler())
	token := signToken(t, "other-secret", "admin-1", AdminRole, time.Hour)

	assert.Equal(t, http.StatusUnauthorized, serveWithAuth(handler, "Bearer "+token).Code)
	assert.Equal(t, http.StatusUnauthorized, serveWithAuth(handler, "Basic abc").Code)
	assert.Equal(t, http.StatusUnauthorized, serveWithAuth(handler, "Bearer ").Code)
}

func TestAuthMiddleware_StoresClaimsInContext(t *testing.T) {
	var subject, role string
	handler := AuthMiddleware(testSecret, zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		subject, _ = GetSubject(r.Context())
		role, _ = GetRole(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	token := signToken(t, testSecret, "admin-7", AdminRole, time.Hour)
	w := serveWithAuth(handler, "Bearer "+token)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "admin-7", subject)
	assert.Equal(t, AdminRole, role)
}

func TestAuthMiddleware_RequiresSubjectAndRole(t *testing.T) {
	handler := AuthMiddleware(testSecret, zap.NewNop())(okHandler())

	assert.Equal(t, http.StatusUnauthorized, serveWithAuth(handler, "Bearer "+signToken(t, testSecret, "", AdminRole, time.Hour)).Code)
	assert.Equal(t, http.StatusUnauthorized, serveWithAuth(handler, "Bearer "+signToken(t, testSecret, "admin-1", "", time.Hour)).Code)
}

func TestAdminOnly(t *testing.T) {
	handler := AdminOnly(testSecret, zap.NewNop())(okHandler())

	tests := []struct {
		name     string
		role     string
		expected int
	}{
		{"admin allowed", AdminRole, http.StatusOK},
		{"customer forbidden", "customer", http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token := signToken(t, testSecret, "user-1", tt.role, time.Hour)
			assert.Equal(t, tt.expected, serveWithAuth(handler, "Bearer "+token).Code)
		})
	}
}

func TestAdminOnly_OpenWithoutSecret(t *testing.T) {
	handler := AdminOnly("", zap.NewNop())(okHandler())
	assert.Equal(t, http.StatusOK, serveWithAuth(handler, "").Code)
}
