package middleware

import (
	"context"
	"crypto/rsa"
	"net/http"
	"strings"
	"time"

	"github.com/AchilleasB/baby-kliniek/scheduling-service/internal/core/ports"
	"github.com/goccy/go-json"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

type AuthMiddleware struct {
	publicKey *rsa.PublicKey
	tokens    ports.TokenStore
	logger    *zap.Logger
}

func NewAuthMiddleware(publicKey *rsa.PublicKey, tokens ports.TokenStore, logger *zap.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		publicKey: publicKey,
		tokens:    tokens,
		logger:    logger,
	}
}

type contextKey string

const (
	principalKey contextKey = "principal"
	tokenIDKey   contextKey = "tokenID"
	expiresAtKey contextKey = "expiresAt"
)

// Authenticate accepts only requests carrying a valid, unrevoked bearer
// token and stores its subject, token ID and expiry in the request context.
// The uid claim only selects the revocation marker; authorization reads the
// stored user record.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			unauthorized(w, "missing authorization header")
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			unauthorized(w, "invalid authorization header")
			return
		}

		claims := jwt.MapClaims{}
		token, err := jwt.ParseWithClaims(parts[1], claims, func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodRSA); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return m.publicKey, nil
		}, jwt.WithExpirationRequired())
		if err != nil || !token.Valid {
			m.logger.Debug("token rejected", zap.Error(err))
			unauthorized(w, "invalid token")
			return
		}

		subject, _ := claims["sub"].(string)
		uid, _ := claims["uid"].(float64)
		tokenID, _ := claims["jti"].(string)
		userID := int64(uid)
		if subject == "" || userID <= 0 || float64(userID) != uid || tokenID == "" {
			unauthorized(w, "invalid token claims")
			return
		}

		var issuedAt, expiresAt time.Time
		if iat, err := claims.GetIssuedAt(); err == nil && iat != nil {
			issuedAt = iat.Time
		}
		if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
			expiresAt = exp.Time
		}

		revoked, err := m.tokens.IsRevoked(r.Context(), tokenID, userID, issuedAt)
		if err != nil {
			m.logger.Error("token revocation check failed", zap.Error(err))
			writeJSONError(w, http.StatusServiceUnavailable, "authentication temporarily unavailable")
			return
		}
		if revoked {
			unauthorized(w, "token revoked")
			return
		}

		ctx := context.WithValue(r.Context(), principalKey, subject)
		ctx = context.WithValue(ctx, tokenIDKey, tokenID)
		ctx = context.WithValue(ctx, expiresAtKey, expiresAt)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Principal returns the authenticated username.
func Principal(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(principalKey).(string)
	return v, ok && v != ""
}

func TokenID(ctx context.Context) string {
	v, _ := ctx.Value(tokenIDKey).(string)
	return v
}

func ExpiresAt(ctx context.Context) time.Time {
	v, _ := ctx.Value(expiresAtKey).(time.Time)
	return v
}

func unauthorized(w http.ResponseWriter, message string) {
	writeJSONError(w, http.StatusUnauthorized, message)
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"success":     false,
		"status_code": status,
		"message":     message,
	})
}
