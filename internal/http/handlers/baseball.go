package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/diperi/dugout-backend/internal/http/response"
	"github.com/diperi/dugout-backend/internal/services"
)

type BaseballHandler struct {
	baseballService services.BaseballService
}

func NewBaseballHandler(baseballService services.BaseballService) *BaseballHandler {
	return &BaseballHandler{baseballService: baseballService}
}

// POST /baseball/games
// body: { "mode": "multiplayer", "total_innings": 3, "player2_id": "..." }
func (bh *BaseballHandler) Start(c *gin.Context) {
	profileID, ok := currentProfileID(c)
	if !ok {
		return
	}
	var req services.StartBaseballInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	game, err := bh.baseballService.Start(c.Request.Context(), profileID, req)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"game": game})
}

// GET /baseball/games/:id
func (bh *BaseballHandler) Get(c *gin.Context) {
	profileID, ok := currentProfileID(c)
	if !ok {
		return
	}
	gameID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	game, err := bh.baseballService.Get(c.Request.Context(), profileID, gameID)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"game": game})
}

// POST /baseball/games/:id/hit
// body: { "type": "single" | "double" | "triple" | "home-run" }
func (bh *BaseballHandler) Hit(c *gin.Context) {
	profileID, ok := currentProfileID(c)
	if !ok {
		return
	}
	gameID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	var req struct {
		Type string `json:"type"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	game, err := bh.baseballService.RecordHit(c.Request.Context(), profileID, gameID, req.Type)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"game": game})
}

// POST /baseball/games/:id/out
func (bh *BaseballHandler) Out(c *gin.Context) {
	profileID, ok := currentProfileID(c)
	if !ok {
		return
	}
	gameID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	game, err := bh.baseballService.RecordOut(c.Request.Context(), profileID, gameID)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"game": game})
}

// POST /baseball/games/:id/end
func (bh *BaseballHandler) End(c *gin.Context) {
	profileID, ok := currentProfileID(c)
	if !ok {
		return
	}
	gameID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	game, err := bh.baseballService.End(c.Request.Context(), profileID, gameID)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"game": game})
}

// GET /baseball/games?limit=10
func (bh *BaseballHandler) Recent(c *gin.Context) {
	profileID, ok := currentProfileID(c)
	if !ok {
		return
	}
	limit, _ := strconv.Atoi(c.Query("limit"))
	games, err := bh.baseballService.RecentForUser(c.Request.Context(), profileID, limit)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"games": games})
}
