package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/diperi/dugout-backend/internal/http/response"
	"github.com/diperi/dugout-backend/internal/services"
)

type StatsHandler struct {
	statsService services.StatsService
}

func NewStatsHandler(statsService services.StatsService) *StatsHandler {
	return &StatsHandler{statsService: statsService}
}

// GET /stats/me
func (sh *StatsHandler) Me(c *gin.Context) {
	profileID, ok := currentProfileID(c)
	if !ok {
		return
	}
	stats, err := sh.statsService.ForUser(c.Request.Context(), profileID)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, stats)
}

// GET /stats/leaderboard
func (sh *StatsHandler) Leaderboard(c *gin.Context) {
	entries, err := sh.statsService.Leaderboard(c.Request.Context())
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"leaderboard": entries})
}

// GET /stats/head-to-head/:opponentId
func (sh *StatsHandler) HeadToHead(c *gin.Context) {
	profileID, ok := currentProfileID(c)
	if !ok {
		return
	}
	opponentID, ok := pathUUID(c, "opponentId")
	if !ok {
		return
	}
	record, err := sh.statsService.HeadToHead(c.Request.Context(), profileID, opponentID)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, record)
}
