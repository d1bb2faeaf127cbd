package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/MKhiriev/go-budget-keeper/internal/logger"
	"github.com/MKhiriev/go-budget-keeper/internal/utils"
	"github.com/golang-jwt/jwt/v5"
)

// auth is an HTTP middleware that enforces JWT-based authentication.
//
// It inspects the incoming "Authorization" header, extracts the bearer token
// via [utils.ParseBearerToken], validates it via
// [utils.ValidateAndParseJWTToken], and — on success — stores the caller's
// user ID and owner scope in the request context under [utils.UserIDCtxKey]
// and [utils.ScopeIDCtxKey] before delegating to the next handler.
//
// The middleware rejects requests with HTTP 401 Unauthorized in the following cases:
//   - The "Authorization" header is absent ([ErrEmptyAuthorizationHeader]).
//   - The header value is not a well-formed bearer token
//     ([ErrInvalidAuthorizationHeader] or [ErrEmptyToken]).
//   - The token has expired ([jwt.ErrTokenExpired]).
//   - The token is otherwise invalid, lacks a scope claim, or cannot be parsed.
//
// All rejection events are logged using the context-scoped logger obtained
// via [logger.FromRequest].
func (h *Handler) auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromRequest(r)

		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			log.Err(ErrEmptyAuthorizationHeader).Send()
			http.Error(w, ErrEmptyAuthorizationHeader.Error(), http.StatusUnauthorized)
			return
		}

		tokenString, err := utils.ParseBearerToken(authHeader)
		if err != nil {
			headerErr := ErrInvalidAuthorizationHeader
			if errors.Is(err, utils.ErrEmptyToken) {
				headerErr = ErrEmptyToken
			}
			log.Err(headerErr).Send()
			http.Error(w, headerErr.Error(), http.StatusUnauthorized)
			return
		}

		token, err := utils.ValidateAndParseJWTToken(tokenString, h.authCfg.TokenSignKey, h.authCfg.TokenIssuer)
		if err != nil {
			switch {
			case errors.Is(err, jwt.ErrTokenExpired):
				log.Err(err).Msg("token expired")
				http.Error(w, "token expired", http.StatusUnauthorized)
				return
			default:
				log.Err(err).Msg("error occurred during parsing token")
				http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
				return
			}
		}

		// Store the caller identity in the context so that downstream
		// handlers can retrieve it without re-parsing the token.
		ctx := context.WithValue(r.Context(), utils.UserIDCtxKey, token.UserID)
		ctx = context.WithValue(ctx, utils.ScopeIDCtxKey, token.Scope)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
