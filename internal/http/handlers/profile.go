package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/diperi/dugout-backend/internal/http/response"
	"github.com/diperi/dugout-backend/internal/platform/ctxutil"
	"github.com/diperi/dugout-backend/internal/services"
)

type ProfileHandler struct {
	profileService services.ProfileService
}

func NewProfileHandler(profileService services.ProfileService) *ProfileHandler {
	return &ProfileHandler{profileService: profileService}
}

// GET /profiles
func (ph *ProfileHandler) List(c *gin.Context) {
	profiles, err := ph.profileService.List(c.Request.Context())
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"profiles": profiles})
}

// POST /profiles
// body: { "name": "..." }
func (ph *ProfileHandler) Create(c *gin.Context) {
	var req struct {
		Name string `json:"name"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	profile, err := ph.profileService.Create(c.Request.Context(), req.Name)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"profile": profile})
}

// GET /profiles/:id
func (ph *ProfileHandler) Get(c *gin.Context) {
	profileID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	profile, err := ph.profileService.Get(c.Request.Context(), profileID)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"profile": profile})
}

// DELETE /profiles/:id
func (ph *ProfileHandler) Delete(c *gin.Context) {
	profileID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	if err := ph.profileService.Delete(c.Request.Context(), profileID); err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}

// GET /profiles/:id/avatar
func (ph *ProfileHandler) Avatar(c *gin.Context) {
	profileID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	png, err := ph.profileService.Avatar(c.Request.Context(), profileID)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	c.Data(http.StatusOK, "image/png", png)
}

// POST /profiles/:id/select
func (ph *ProfileHandler) Select(c *gin.Context) {
	profileID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	session, err := ph.profileService.Select(c.Request.Context(), profileID)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{
		"token":      session.Token,
		"profile_id": session.ProfileID,
	})
}

// GET /me
func (ph *ProfileHandler) Me(c *gin.Context) {
	profileID, ok := currentProfileID(c)
	if !ok {
		return
	}
	profile, err := ph.profileService.Get(c.Request.Context(), profileID)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"me": profile})
}

// POST /logout
func (ph *ProfileHandler) Logout(c *gin.Context) {
	sd := ctxutil.GetSessionData(c.Request.Context())
	if sd != nil && sd.Token != "" {
		if err := ph.profileService.EndSession(c.Request.Context(), sd.Token); err != nil {
			response.RespondServiceError(c, err)
			return
		}
	}
	response.RespondOK(c, gin.H{"ok": true})
}
