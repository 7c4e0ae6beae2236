package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/angelmondragon/footballzones-backend/api/responses"
	internalauth "github.com/angelmondragon/footballzones-backend/internal/auth"
	pkgAuth "github.com/angelmondragon/footballzones-backend/pkg/auth"
	"github.com/angelmondragon/footballzones-backend/pkg/config"
	pkgerrors "github.com/angelmondragon/footballzones-backend/pkg/errors"
	"github.com/angelmondragon/footballzones-backend/pkg/logger"
)

// Auth requires a valid bearer token and seeds the request context with the caller.
func Auth(cfg config.JWTConfig, logg *logger.Logger) func(http.Handler) http.Handler {
	return authenticate(cfg, logg, true)
}

// OptionalAuth authenticates when an Authorization header is present. A missing header
// continues anonymously; a bad token is still rejected.
func OptionalAuth(cfg config.JWTConfig, logg *logger.Logger) func(http.Handler) http.Handler {
	return authenticate(cfg, logg, false)
}

func authenticate(cfg config.JWTConfig, logg *logger.Logger, required bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := r.Header.Get("Authorization")
			if strings.TrimSpace(raw) == "" {
				if required {
					responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
					return
				}
				next.ServeHTTP(w, r)
				return
			}

			token, ok := pkgAuth.ExtractBearer(raw)
			if !ok {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			claims, err := pkgAuth.ParseAccessToken(cfg, token)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, internalauth.TokenError(err))
				return
			}

			ctx := WithPrincipal(r.Context(), Principal{
				UserID: claims.UserID,
				Email:  claims.Email,
				Role:   claims.Role,
				Name:   claims.Name,
			})
			ctx = withLogFields(ctx, logg, claims)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func withLogFields(ctx context.Context, logg *logger.Logger, claims *pkgAuth.AccessTokenClaims) context.Context {
	if logg == nil {
		return ctx
	}
	ctx = logg.WithUserID(ctx, claims.UserID.String())
	return logg.WithActorRole(ctx, string(claims.Role))
}
