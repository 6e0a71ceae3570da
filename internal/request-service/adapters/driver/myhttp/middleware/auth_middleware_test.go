package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func signToken(t *testing.T, secret, identityID, role string, ttl time.Duration) string {
	t.Helper()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"identity_id": identityID,
		"email":       "someone@example.com",
		"role":        role,
		"exp":         time.Now().Add(ttl).Unix(),
	})
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func echoIdentity(t *testing.T, gotID, gotRole *string) http.Handler {
	t.Helper()

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*gotID = r.Header.Get("X-IdentityId")
		*gotRole = r.Header.Get("X-Role")
		w.WriteHeader(http.StatusOK)
	})
}

func TestWrapForwardsIdentity(t *testing.T) {
	am := NewAuthMiddleware(testSecret)

	var gotID, gotRole string
	h := am.Wrap(echoIdentity(t, &gotID, &gotRole))

	req := httptest.NewRequest(http.MethodGet, "/requests", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, testSecret, "id-42", "user", time.Hour))
	rec := httptest.NewRecorder()

	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "id-42", gotID)
	assert.Equal(t, "user", gotRole)
}

func TestWrapRejectsMissingToken(t *testing.T) {
	am := NewAuthMiddleware(testSecret)
	h := am.Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not be reached")
	}))

	req := httptest.NewRequest(http.MethodGet, "/requests", nil)
	rec := httptest.NewRecorder()

	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestWrapRejectsWrongSecret(t *testing.T) {
	am := NewAuthMiddleware(testSecret)
	h := am.Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not be reached")
	}))

	req := httptest.NewRequest(http.MethodGet, "/requests", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, "other-secret", "id-42", "user", time.Hour))
	rec := httptest.NewRecorder()

	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestWrapRejectsExpiredToken(t *testing.T) {
	am := NewAuthMiddleware(testSecret)
	h := am.Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not be reached")
	}))

	req := httptest.NewRequest(http.MethodGet, "/requests", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, testSecret, "id-42", "user", -time.Minute))
	rec := httptest.NewRecorder()

	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestWrapRoleEnforcesRole(t *testing.T) {
	am := NewAuthMiddleware(testSecret)

	var gotID, gotRole string
	h := am.WrapRole("mechanic", echoIdentity(t, &gotID, &gotRole))

	t.Run("matching role passes", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/myrequests", nil)
		req.Header.Set("Authorization", "Bearer "+signToken(t, testSecret, "mech-1", "mechanic", time.Hour))
		rec := httptest.NewRecorder()

		h.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "mech-1", gotID)
		assert.Equal(t, "mechanic", gotRole)
	})

	t.Run("other role is forbidden", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/myrequests", nil)
		req.Header.Set("Authorization", "Bearer "+signToken(t, testSecret, "user-1", "user", time.Hour))
		rec := httptest.NewRecorder()

		h.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusForbidden, rec.Code)
	})
}
