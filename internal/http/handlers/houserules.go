package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/diperi/dugout-backend/internal/http/response"
	"github.com/diperi/dugout-backend/internal/services"
)

type HouseRuleHandler struct {
	houseRuleService services.HouseRuleService
}

func NewHouseRuleHandler(houseRuleService services.HouseRuleService) *HouseRuleHandler {
	return &HouseRuleHandler{houseRuleService: houseRuleService}
}

// GET /house-rules
func (hh *HouseRuleHandler) List(c *gin.Context) {
	profileID, ok := currentProfileID(c)
	if !ok {
		return
	}
	state, err := hh.houseRuleService.StateForUser(c.Request.Context(), profileID)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{
		"rules": hh.houseRuleService.Rules(),
		"state": state,
	})
}

// POST /house-rules/break
// body: { "rule_index": 0 }
func (hh *HouseRuleHandler) Break(c *gin.Context) {
	profileID, ok := currentProfileID(c)
	if !ok {
		return
	}
	var req struct {
		RuleIndex int `json:"rule_index"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	state, err := hh.houseRuleService.Break(c.Request.Context(), profileID, req.RuleIndex)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"state": state})
}

// POST /house-rules/reset
func (hh *HouseRuleHandler) Reset(c *gin.Context) {
	profileID, ok := currentProfileID(c)
	if !ok {
		return
	}
	state, err := hh.houseRuleService.Reset(c.Request.Context(), profileID)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"state": state})
}
