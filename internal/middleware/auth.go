package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/BlackEmpir7199/StudySphere/pkg/jwt"
	"github.com/BlackEmpir7199/StudySphere/pkg/response"
)

const (
	UserIDKey     = "user_id"
	EmailKey      = "email"
	AuthHeaderKey = "Authorization"
	BearerPrefix  = "Bearer "

	// AuthCookieName is the httpOnly cookie carrying the session token.
	AuthCookieName = "token"
)

// AuthMiddleware validates JWT tokens locally.
type AuthMiddleware struct {
	jwtManager   *jwt.Manager
	cookieSecure bool
}

// NewAuthMiddleware creates a new auth middleware.
func NewAuthMiddleware(jwtManager *jwt.Manager, cookieSecure bool) *AuthMiddleware {
	return &AuthMiddleware{jwtManager: jwtManager, cookieSecure: cookieSecure}
}

// TokenFromRequest extracts the token from the auth cookie, falling
// back to a Bearer header for non-browser clients.
func TokenFromRequest(c *gin.Context) string {
	if token, err := c.Cookie(AuthCookieName); err == nil && token != "" {
		return token
	}
	authHeader := c.GetHeader(AuthHeaderKey)
	if strings.HasPrefix(authHeader, BearerPrefix) {
		return strings.TrimPrefix(authHeader, BearerPrefix)
	}
	return ""
}

// RequireAuth returns a Gin middleware that validates JWT tokens.
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := TokenFromRequest(c)
		if token == "" {
			response.Unauthorized(c, "missing authentication token")
			c.Abort()
			return
		}

		claims, err := m.jwtManager.Validate(token)
		if err != nil {
			response.Unauthorized(c, "invalid or expired token")
			c.Abort()
			return
		}

		c.Set(UserIDKey, claims.UserID)
		c.Set(EmailKey, claims.Email)
		c.Next()
	}
}

// SetAuthCookie writes the session token as an httpOnly cookie.
func (m *AuthMiddleware) SetAuthCookie(c *gin.Context, token string) {
	maxAge := int(m.jwtManager.Duration().Seconds())
	c.SetCookie(AuthCookieName, token, maxAge, "/", "", m.cookieSecure, true)
}

// ClearAuthCookie removes the session cookie.
func (m *AuthMiddleware) ClearAuthCookie(c *gin.Context) {
	c.SetCookie(AuthCookieName, "", -1, "/", "", m.cookieSecure, true)
}

// GetUserID extracts user ID from Gin context.
func GetUserID(c *gin.Context) string {
	if id, exists := c.Get(UserIDKey); exists {
		return id.(string)
	}
	return ""
}

// GetEmail extracts email from Gin context.
func GetEmail(c *gin.Context) string {
	if email, exists := c.Get(EmailKey); exists {
		return email.(string)
	}
	return ""
}
