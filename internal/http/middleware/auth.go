package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/request-tracker/backend/internal/auth"
)

const claimsKey = "auth.claims"

// TokenVerifier validates a signed token of the wanted type.
type TokenVerifier interface {
	Verify(token string, want auth.TokenType) (*auth.Claims, error)
}

// Auth requires a valid access token in the Authorization header.
func Auth(v TokenVerifier) gin.HandlerFunc {
	return authenticate(v, bearerToken, true)
}

// OptionalAuth attaches claims when a valid access token is present and lets anonymous
// requests through. An invalid token is still rejected.
func OptionalAuth(v TokenVerifier) gin.HandlerFunc {
	return authenticate(v, bearerToken, false)
}

// QueryAuth accepts the access token from the "token" query parameter, for clients such
// as browser websockets that cannot set headers.
func QueryAuth(v TokenVerifier) gin.HandlerFunc {
	return authenticate(v, func(c *gin.Context) string {
		if tok := bearerToken(c); tok != "" {
			return tok
		}
		return c.Query("token")
	}, true)
}

func authenticate(v TokenVerifier, extract func(*gin.Context) string, required bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extract(c)
		if token == "" {
			if required {
				abort(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication credentials were not provided")
				return
			}
			c.Next()
			return
		}
		claims, err := v.Verify(token, auth.TokenTypeAccess)
		if err != nil {
			abort(c, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid or expired token")
			return
		}
		c.Set(claimsKey, claims)
		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

func ClaimsFrom(c *gin.Context) (*auth.Claims, bool) {
	v, ok := c.Get(claimsKey)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*auth.Claims)
	return claims, ok
}

func abort(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, gin.H{
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
}
