package middleware

import (
	"context"

	"github.com/bizsuite/backend/internal/domain/shared"
	"github.com/bizsuite/backend/internal/infrastructure/auth"
	"github.com/bizsuite/backend/internal/infrastructure/logger"
	"github.com/bizsuite/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// PrincipalKey is the gin key holding the acting shared.Principal.
const PrincipalKey = "principal"

// PrincipalSource resolves token claims into the acting principal.
type PrincipalSource interface {
	Resolve(ctx context.Context, claims *auth.Claims, requested *uuid.UUID, ip, userAgent string) (shared.Principal, error)
}

// Principal resolves the acting principal of authenticated requests. The
// X-Company-ID header switches the acting company; requests without
// claims pass through untouched.
func Principal(source PrincipalSource) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := GetJWTClaims(c)
		if claims == nil {
			c.Next()
			return
		}

		var requested *uuid.UUID
		if raw := c.GetHeader(HeaderCompanyID); raw != "" {
			id, err := uuid.Parse(raw)
			if err != nil {
				Abort(c, dto.ErrCodeBadRequest, "Invalid company id.")
				return
			}
			requested = &id
		}

		p, err := source.Resolve(c.Request.Context(), claims, requested, c.ClientIP(), c.Request.UserAgent())
		if err != nil {
			AbortWithError(c, err)
			return
		}
		c.Set(PrincipalKey, p)
		if p.HasCompany() {
			c.Request = c.Request.WithContext(logger.WithCompanyID(c.Request.Context(), p.CompanyID.String()))
		}
		c.Next()
	}
}

// GetPrincipal returns the principal set by Principal.
func GetPrincipal(c *gin.Context) (shared.Principal, bool) {
	if v, ok := c.Get(PrincipalKey); ok {
		if p, ok := v.(shared.Principal); ok {
			return p, true
		}
	}
	return shared.Principal{}, false
}

// RequirePrincipal returns the principal or ends the request with 401.
func RequirePrincipal(c *gin.Context) (shared.Principal, bool) {
	p, ok := GetPrincipal(c)
	if !ok {
		Abort(c, dto.ErrCodeUnauthorized, "Authentication required.")
	}
	return p, ok
}
