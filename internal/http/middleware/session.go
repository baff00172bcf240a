package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/diperi/dugout-backend/internal/platform/ctxutil"
	"github.com/diperi/dugout-backend/internal/platform/logger"
	"github.com/diperi/dugout-backend/internal/services"
)

type SessionMiddleware struct {
	log            *logger.Logger
	profileService services.ProfileService
}

func NewSessionMiddleware(log *logger.Logger, profileService services.ProfileService) *SessionMiddleware {
	middlewareLogger := log.With("Middleware", "SessionMiddleware")
	return &SessionMiddleware{log: middlewareLogger, profileService: profileService}
}

// RequireSession resolves the session token into a profile and attaches it
// to the request context. Requests without a valid session are rejected.
func (sm *SessionMiddleware) RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractTokenFromAll(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": gin.H{"message": "missing or invalid session token", "code": "unauthorized"},
			})
			return
		}
		session, err := sm.profileService.Resolve(c.Request.Context(), token)
		if err != nil {
			sm.log.Warn("Session lookup failed", "error", err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": gin.H{"message": "session lookup failed", "code": "unauthorized"},
			})
			return
		}
		if session == nil || session.ProfileID == uuid.Nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": gin.H{"message": "session expired", "code": "unauthorized"},
			})
			return
		}
		ctx := ctxutil.WithSessionData(c.Request.Context(), &ctxutil.SessionData{
			Token:     token,
			ProfileID: session.ProfileID,
		})
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

func extractTokenFromAll(c *gin.Context) string {
	if hToken := strings.TrimSpace(c.GetHeader("X-Session-Token")); hToken != "" {
		return hToken
	}
	authHeader := c.GetHeader("Authorization")
	if len(authHeader) > 7 && strings.EqualFold(authHeader[:7], "Bearer ") {
		return strings.TrimSpace(authHeader[7:])
	}
	if qToken := c.Query("token"); qToken != "" {
		return qToken
	}
	return ""
}
