package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/diperi/dugout-backend/internal/http/response"
	"github.com/diperi/dugout-backend/internal/platform/ctxutil"
)

// currentProfileID pulls the selected profile off the request context.
// Routes behind the session middleware always have one; the false return
// covers misconfigured route tables.
func currentProfileID(c *gin.Context) (uuid.UUID, bool) {
	sd := ctxutil.GetSessionData(c.Request.Context())
	if sd == nil || sd.ProfileID == uuid.Nil {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", errors.New("no active session"))
		return uuid.Nil, false
	}
	return sd.ProfileID, true
}

func pathUUID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "bad_id", err)
		return uuid.Nil, false
	}
	return id, true
}
