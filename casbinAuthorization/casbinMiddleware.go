package casbinAuthorization

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/casbin/casbin"
	"github.com/sirupsen/logrus"

	"github.com/isinghranjeet/eassy-to-rent-backend/authorization"
	"github.com/isinghranjeet/eassy-to-rent-backend/domain"
)

type principalKey struct{}

const unauthenticated = "Unauthenticated"

// RequestPrincipal returns the principal attached by the middleware,
// or a zero principal for anonymous requests.
func RequestPrincipal(r *http.Request) domain.Principal {
	principal, _ := r.Context().Value(principalKey{}).(domain.Principal)
	return principal
}

func extractPrincipal(r *http.Request) (domain.Principal, string, error) {
	bearer := r.Header.Get("Authorization")
	if bearer == "" {
		return domain.Principal{}, unauthenticated, nil
	}

	bearerToken := strings.Split(bearer, "Bearer ")
	if len(bearerToken) != 2 {
		return domain.Principal{}, "", errors.New("invalid token format")
	}

	principal, err := authorization.VerifyToken(bearerToken[1])
	if err != nil {
		return domain.Principal{}, "", err
	}
	return principal, string(principal.UserType), nil
}

func CasbinMiddleware(e *casbin.Enforcer, logger *logrus.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		fn := func(w http.ResponseWriter, r *http.Request) {
			principal, userRole, err := extractPrincipal(r)
			if err != nil {
				logger.Error("Unauthorized access attempt")
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			res, err := e.EnforceSafe(userRole, r.URL.Path, r.Method)
			if err != nil {
				logger.Error("Error enforcing authorization policy")
				http.Error(w, "unauthorized user", http.StatusUnauthorized)
				return
			}

			if !res {
				logger.Warn("Unauthorized access attempt: forbidden")
				http.Error(w, "forbidden", http.StatusForbidden)
				return
			}

			ctx := context.WithValue(r.Context(), principalKey{}, principal)
			next.ServeHTTP(w, r.WithContext(ctx))
		}

		return http.HandlerFunc(fn)
	}
}
