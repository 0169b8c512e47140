package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/vansh-choudhary01/CashPay/internal/pkg/subject"
)

// SubjectContextKey is a gin context key for the authenticated subject.
const SubjectContextKey = "subject"

// TokenParser resolves a bearer token into a subject reference.
type TokenParser interface {
	ParseToken(token string) (string, error)
}

// AuthRequired ensures a valid subject token before accessing handler.
func AuthRequired(parser TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}

		ref, err := parser.ParseToken(token)
		if err != nil {
			if errors.Is(err, subject.ErrInvalidToken) {
				c.AbortWithStatus(http.StatusUnauthorized)
				return
			}
			c.AbortWithStatus(http.StatusInternalServerError)
			return
		}

		c.Set(SubjectContextKey, ref)
		c.Next()
	}
}

// SubjectOptional resolves a subject token when one is present. Anonymous
// requests pass through; a malformed token is still rejected.
func SubjectOptional(parser TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			c.Next()
			return
		}

		ref, err := parser.ParseToken(token)
		if err != nil {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}

		c.Set(SubjectContextKey, ref)
		c.Next()
	}
}

func extractToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if strings.HasPrefix(strings.ToLower(authHeader), "bearer ") {
		return strings.TrimSpace(authHeader[7:])
	}
	return ""
}
