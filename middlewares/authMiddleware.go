package middlewares

import (
	"strings"

	"setshaba-be/apperror"
	"setshaba-be/models"
	authUtils "setshaba-be/utils"

	"github.com/gin-gonic/gin"
)

// Context keys set by AuthMiddleware.
const (
	UserIDKey   = "user_id"
	UserNameKey = "user_name"
	RoleKey     = "role"
)

// AuthCookie is the cookie login sets alongside the bearer token.
const AuthCookie = "auth_token"

func abort(c *gin.Context, err *apperror.AppError) {
	c.AbortWithStatusJSON(err.Status(), err.JSON())
}

// AuthMiddleware verifies the bearer token (or auth cookie) and stores the
// caller's id, name and role on the context.
func AuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
		if tokenString == "" {
			tokenString, _ = c.Cookie(AuthCookie)
		}
		if tokenString == "" {
			abort(c, apperror.New(apperror.CodeUnauthorized, "No authorization token provided"))
			return
		}

		claims, err := authUtils.ParseToken(secret, tokenString)
		if err != nil {
			RequestLogger(c).Debug("token validation failed")
			abort(c, apperror.Wrap(apperror.CodeUnauthorized, "Invalid authorization token", err))
			return
		}

		c.Set(UserIDKey, claims.UserID)
		c.Set(UserNameKey, claims.Name)
		c.Set(RoleKey, claims.Role)
		c.Next()
	}
}

// RequireAdmin must run after AuthMiddleware.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString(RoleKey) != string(models.RoleAdmin) {
			abort(c, apperror.ErrForbidden)
			return
		}
		c.Next()
	}
}
