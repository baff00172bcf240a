package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/diperi/dugout-backend/internal/http/response"
	"github.com/diperi/dugout-backend/internal/services"
)

type RewardHandler struct {
	rewardService services.RewardService
}

func NewRewardHandler(rewardService services.RewardService) *RewardHandler {
	return &RewardHandler{rewardService: rewardService}
}

// GET /rewards
//
// Each reward comes back with the caller's rule evaluation so the client
// can grey out what cannot be redeemed right now.
func (rh *RewardHandler) List(c *gin.Context) {
	profileID, ok := currentProfileID(c)
	if !ok {
		return
	}
	rewards, err := rh.rewardService.ListForUser(c.Request.Context(), profileID)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"rewards": rewards})
}

// POST /rewards/:id/redeem
func (rh *RewardHandler) Redeem(c *gin.Context) {
	profileID, ok := currentProfileID(c)
	if !ok {
		return
	}
	rewardID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	user, err := rh.rewardService.Redeem(c.Request.Context(), profileID, rewardID)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"profile": user})
}

// POST /rewards
func (rh *RewardHandler) Create(c *gin.Context) {
	var req services.RewardInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	reward, err := rh.rewardService.Create(c.Request.Context(), req)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"reward": reward})
}

// PUT /rewards/:id
func (rh *RewardHandler) Update(c *gin.Context) {
	rewardID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	var req services.RewardInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	reward, err := rh.rewardService.Update(c.Request.Context(), rewardID, req)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"reward": reward})
}

// DELETE /rewards/:id
func (rh *RewardHandler) Delete(c *gin.Context) {
	rewardID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	if err := rh.rewardService.Delete(c.Request.Context(), rewardID); err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}

// GET /rewards/:id/rules
func (rh *RewardHandler) ListRules(c *gin.Context) {
	profileID, ok := currentProfileID(c)
	if !ok {
		return
	}
	rewardID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	rules, err := rh.rewardService.ListRules(c.Request.Context(), rewardID, profileID)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"rules": rules})
}

// PUT /reward-rules
func (rh *RewardHandler) UpsertRule(c *gin.Context) {
	profileID, ok := currentProfileID(c)
	if !ok {
		return
	}
	var req services.RuleInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	rule, err := rh.rewardService.UpsertRule(c.Request.Context(), profileID, req)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"rule": rule})
}

// DELETE /reward-rules/:id
func (rh *RewardHandler) DeleteRule(c *gin.Context) {
	ruleID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	if err := rh.rewardService.DeleteRule(c.Request.Context(), ruleID); err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}
