package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/booking-api/internal/handler"
	"github.com/jwalitptl/booking-api/internal/model"
	"github.com/jwalitptl/booking-api/pkg/auth"
)

const contextCaller = "caller"

type AuthMiddleware struct {
	jwtSvc *auth.JWTService
}

func NewAuthMiddleware(jwtSvc *auth.JWTService) *AuthMiddleware {
	return &AuthMiddleware{jwtSvc: jwtSvc}
}

// Authenticate verifies the bearer token and stores the resolved caller in
// the request context. Handlers pass the caller explicitly into services.
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("missing authorization header"))
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("invalid authorization format"))
			c.Abort()
			return
		}

		caller, err := m.jwtSvc.ValidateToken(parts[1])
		if err != nil {
			c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("invalid token"))
			c.Abort()
			return
		}

		c.Set(contextCaller, caller)
		c.Next()
	}
}

// RequireAdmin rejects non-administrator callers. Must run after
// Authenticate.
func (m *AuthMiddleware) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		caller := CallerFromContext(c)
		if !caller.IsAdmin() {
			c.JSON(http.StatusForbidden, handler.NewErrorResponse("administrator role required"))
			c.Abort()
			return
		}
		c.Next()
	}
}

// CallerFromContext returns the caller resolved by Authenticate, or the zero
// caller when the request is unauthenticated.
func CallerFromContext(c *gin.Context) model.Caller {
	if v, ok := c.Get(contextCaller); ok {
		if caller, ok := v.(model.Caller); ok {
			return caller
		}
	}
	return model.Caller{}
}
