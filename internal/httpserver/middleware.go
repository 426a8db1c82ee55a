package httpserver

import (
	"context"
	"net/http"
	"strings"

	"lumina-commerce/internal/service/session"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

type ctxKey string

const sessionCtxKey ctxKey = "session"

func sessionMiddleware(sessions sessionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			abortJSON(c, http.StatusUnauthorized, "missing bearer token")
			return
		}
		sess, err := sessions.LookupByToken(c.Request.Context(), token)
		if err != nil {
			writeError(c, err)
			c.Abort()
			return
		}
		c.Request = c.Request.WithContext(context.WithValue(c.Request.Context(), sessionCtxKey, sess))
		c.Next()
	}
}

func sessionFrom(c *gin.Context) *session.Session {
	sess, _ := c.Request.Context().Value(sessionCtxKey).(*session.Session)
	return sess
}

// sellerAuthMiddleware compares the bearer token with a bcrypt hash. An empty
// hash disables the check.
func sellerAuthMiddleware(hash string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if hash == "" {
			c.Next()
			return
		}
		token, ok := bearerToken(c)
		if !ok || bcrypt.CompareHashAndPassword([]byte(hash), []byte(token)) != nil {
			abortJSON(c, http.StatusUnauthorized, "invalid seller token")
			return
		}
		c.Next()
	}
}

func bearerToken(c *gin.Context) (string, bool) {
	header := c.GetHeader("Authorization")
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
