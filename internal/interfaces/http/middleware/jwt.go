package middleware

import (
	"context"
	"errors"
	"slices"
	"strings"

	"github.com/bizsuite/backend/internal/infrastructure/auth"
	"github.com/bizsuite/backend/internal/infrastructure/logger"
	"github.com/bizsuite/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// JWT context keys
const (
	JWTClaimsKey  = "jwt_claims"
	JWTUserIDKey  = "jwt_user_id"
	AuthHeaderKey = "Authorization"
	BearerPrefix  = "Bearer "
)

// RevocationChecker reports whether a validated token was logged out.
type RevocationChecker interface {
	IsRevoked(ctx context.Context, claims *auth.Claims) (bool, error)
}

// JWTMiddlewareConfig holds configuration for JWT middleware
type JWTMiddlewareConfig struct {
	JWTService *auth.JWTService
	// Revocation is optional. Lookup failures let the request through.
	Revocation       RevocationChecker
	SkipPaths        []string
	SkipPathPrefixes []string
	// OnError replaces the default 401 response.
	OnError func(c *gin.Context, err error)
	Logger  *zap.Logger
}

// PublicPaths are reachable without a token.
var PublicPaths = []string{
	"/health",
	"/api/v1/health",
	"/api/v1/auth/register",
	"/api/v1/auth/login",
	"/api/v1/auth/refresh",
}

// DefaultJWTConfig returns default JWT middleware configuration
func DefaultJWTConfig(jwtService *auth.JWTService) JWTMiddlewareConfig {
	return JWTMiddlewareConfig{
		JWTService: jwtService,
		SkipPaths:  PublicPaths,
	}
}

// JWTAuthMiddleware creates JWT authentication middleware
func JWTAuthMiddleware(jwtService *auth.JWTService) gin.HandlerFunc {
	return JWTAuthMiddlewareWithConfig(DefaultJWTConfig(jwtService))
}

// JWTAuthMiddlewareWithConfig creates JWT authentication middleware with custom config
func JWTAuthMiddlewareWithConfig(cfg JWTMiddlewareConfig) gin.HandlerFunc {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if slices.Contains(cfg.SkipPaths, path) {
			c.Next()
			return
		}
		for _, prefix := range cfg.SkipPathPrefixes {
			if strings.HasPrefix(path, prefix) {
				c.Next()
				return
			}
		}

		token, ok := bearerToken(c)
		if !ok {
			handleAuthError(c, cfg, log, errMissingToken)
			return
		}
		claims, err := cfg.JWTService.ValidateAccessToken(token)
		if err != nil {
			handleAuthError(c, cfg, log, err)
			return
		}

		if cfg.Revocation != nil {
			revoked, err := cfg.Revocation.IsRevoked(c.Request.Context(), claims)
			switch {
			case err != nil:
				log.Error("Failed to check token revocation", zap.String("jti", claims.ID), zap.Error(err))
			case revoked:
				handleAuthError(c, cfg, log, auth.ErrTokenRevoked)
				return
			}
		}

		c.Set(JWTClaimsKey, claims)
		c.Set(JWTUserIDKey, claims.UserID)
		c.Request = c.Request.WithContext(logger.WithUserID(c.Request.Context(), claims.UserID))
		c.Next()
	}
}

var errMissingToken = errors.New("missing bearer token")

func bearerToken(c *gin.Context) (string, bool) {
	header := c.GetHeader(AuthHeaderKey)
	if !strings.HasPrefix(header, BearerPrefix) {
		return "", false
	}
	token := strings.TrimSpace(strings.TrimPrefix(header, BearerPrefix))
	return token, token != ""
}

func handleAuthError(c *gin.Context, cfg JWTMiddlewareConfig, log *zap.Logger, err error) {
	if cfg.OnError != nil {
		cfg.OnError(c, err)
		return
	}
	log.Warn("JWT authentication failed", zap.Error(err), zap.String("path", c.Request.URL.Path))

	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		Abort(c, dto.ErrCodeTokenExpired, "Token has expired.")
	case errors.Is(err, auth.ErrTokenRevoked):
		Abort(c, dto.ErrCodeTokenRevoked, "Token has been revoked.")
	case errors.Is(err, errMissingToken):
		Abort(c, dto.ErrCodeUnauthorized, "Authentication required.")
	default:
		Abort(c, dto.ErrCodeTokenInvalid, "Token is invalid.")
	}
}

// GetJWTClaims retrieves JWT claims from gin.Context
func GetJWTClaims(c *gin.Context) *auth.Claims {
	if v, ok := c.Get(JWTClaimsKey); ok {
		if claims, ok := v.(*auth.Claims); ok {
			return claims
		}
	}
	return nil
}

// GetJWTUserID retrieves the user ID from JWT claims in context
func GetJWTUserID(c *gin.Context) string {
	return c.GetString(JWTUserIDKey)
}
