package server

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/descope-sample-apps/crewai-app/internal/descope"
	"github.com/descope-sample-apps/crewai-app/internal/logging"
)

// identityKey stores the verified identity in the request context.
const identityKey = "identity"

const bearerPrefix = "Bearer "

// authMiddleware extracts and verifies the bearer session token. Header
// problems are rejected before any verification call is made; all
// verification failures surface as 401 with a message that doesn't leak why.
func (s *Server) authMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, bearerPrefix) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Missing or invalid Authorization header",
			})
			return
		}

		sessionToken := header[len(bearerPrefix):]
		identity, err := s.validator.Validate(c.Request.Context(), sessionToken)
		if err != nil {
			message := "Invalid session token"
			if errors.Is(err, descope.ErrMissingUserID) {
				message = "User ID not found in token"
			}
			s.logger.Debug("session rejected",
				logging.Operation("http.auth"),
				logging.Err(err))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": message})
			return
		}

		c.Set(identityKey, identity)
		c.Next()
	}
}

// identityFromContext returns the verified identity stored by the auth
// middleware.
func identityFromContext(c *gin.Context) (*descope.Identity, bool) {
	value, ok := c.Get(identityKey)
	if !ok {
		return nil, false
	}
	identity, ok := value.(*descope.Identity)
	return identity, ok
}

// metricsMiddleware records request counts, durations, and an access log
// line per request.
func (s *Server) metricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		duration := time.Since(start)
		s.metrics.RecordHTTPRequest(c.Request.Context(),
			c.Request.Method, c.FullPath(), c.Writer.Status(), duration)
		s.logger.Debug("request handled",
			slog.String("method", c.Request.Method),
			slog.String("path", c.FullPath()),
			slog.Int("status", c.Writer.Status()),
			slog.Duration(logging.KeyDuration, duration))
	}
}
