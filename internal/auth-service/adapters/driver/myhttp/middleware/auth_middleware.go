package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"fixmate/internal/auth-service/adapters/driver/myhttp/handle"

	"github.com/golang-jwt/jwt"
)

type AuthMiddleware struct {
	accessSecret string
}

func NewAuthMiddleware(accessSecret string) *AuthMiddleware {
	return &AuthMiddleware{
		accessSecret: accessSecret,
	}
}

// Wrap authenticates the bearer token and forwards the caller's identity and
// role to the handler via X-IdentityId and X-Role headers.
func (am *AuthMiddleware) Wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identityID, role, err := am.parse(r)
		if err != nil {
			handle.JsonError(w, http.StatusUnauthorized, err)
			return
		}

		r.Header.Set("X-IdentityId", identityID)
		r.Header.Set("X-Role", role)

		next.ServeHTTP(w, r)
	})
}

// WrapRole additionally requires a specific role.
func (am *AuthMiddleware) WrapRole(role string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identityID, actual, err := am.parse(r)
		if err != nil {
			handle.JsonError(w, http.StatusUnauthorized, err)
			return
		}

		if actual != role {
			handle.JsonError(w, http.StatusForbidden, fmt.Errorf("only %ss are allowed to use this endpoint", role))
			return
		}

		r.Header.Set("X-IdentityId", identityID)
		r.Header.Set("X-Role", actual)

		next.ServeHTTP(w, r)
	})
}

func (am *AuthMiddleware) parse(r *http.Request) (identityID, role string, err error) {
	tokenString := r.Header.Get("Authorization")
	if tokenString == "" {
		return "", "", fmt.Errorf("empty JWT-Token")
	}
	tokenString = strings.TrimPrefix(tokenString, "Bearer ")

	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(am.accessSecret), nil
	})
	if err != nil {
		return "", "", fmt.Errorf("failed to parse JWT-Token")
	}

	if !token.Valid {
		return "", "", fmt.Errorf("invalid JWT-Token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", "", fmt.Errorf("invalid claims")
	}

	identityID, ok = claims["identity_id"].(string)
	if !ok {
		return "", "", fmt.Errorf("identity not found in token")
	}

	role, ok = claims["role"].(string)
	if !ok {
		return "", "", fmt.Errorf("role not found in token")
	}

	return identityID, role, nil
}
