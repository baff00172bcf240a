package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/diperi/dugout-backend/internal/http/response"
	"github.com/diperi/dugout-backend/internal/services"
)

type PitchingHandler struct {
	pitchingService services.PitchingService
}

func NewPitchingHandler(pitchingService services.PitchingService) *PitchingHandler {
	return &PitchingHandler{pitchingService: pitchingService}
}

// POST /pitching/games
func (ph *PitchingHandler) Start(c *gin.Context) {
	profileID, ok := currentProfileID(c)
	if !ok {
		return
	}
	game, err := ph.pitchingService.Start(c.Request.Context(), profileID)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"game": game})
}

// GET /pitching/games/:id
func (ph *PitchingHandler) Get(c *gin.Context) {
	profileID, ok := currentProfileID(c)
	if !ok {
		return
	}
	gameID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	game, err := ph.pitchingService.Get(c.Request.Context(), profileID, gameID)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"game": game})
}

// POST /pitching/games/:id/pitch
// body: { "zone": "home-run" | "triple" | "double-1" | ... | "miss" }
func (ph *PitchingHandler) Pitch(c *gin.Context) {
	profileID, ok := currentProfileID(c)
	if !ok {
		return
	}
	gameID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	var req struct {
		Zone string `json:"zone"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	result, err := ph.pitchingService.RecordPitch(c.Request.Context(), profileID, gameID, req.Zone)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, result)
}

// POST /pitching/games/:id/end
func (ph *PitchingHandler) End(c *gin.Context) {
	profileID, ok := currentProfileID(c)
	if !ok {
		return
	}
	gameID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	game, err := ph.pitchingService.End(c.Request.Context(), profileID, gameID)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"game": game})
}
