package api

import (
	"net/http"

	"github.com/CaptainCrouton89/new-mystica-sub007/internal/constants"
	"github.com/CaptainCrouton89/new-mystica-sub007/internal/service"

	"github.com/gin-gonic/gin"
)

type StartEncounterRequest struct {
	LocationID  string `json:"location_id" binding:"required"`
	CombatLevel int    `json:"combat_level" binding:"required"`
}

// StartEncounter initializes a combat session against a randomly selected
// enemy for the caller's location and combat level.
func (h *CombatHandler) StartEncounter(c *gin.Context) {
	var req StartEncounterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}

	s, err := service.StartEncounter(h.repo, h.loc, h.provider, h.rng, playerUUIDFrom(c), req.LocationID, req.CombatLevel)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, s)
}
