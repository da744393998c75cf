package api

import (
	"net/http"

	"github.com/CaptainCrouton89/new-mystica-sub007/internal/constants"

	"github.com/gin-gonic/gin"
)

// GetPlayerStats returns the caller's profile plus the per-location combat
// history rollup.
func (h *CombatHandler) GetPlayerStats(c *gin.Context) {
	playerUUID := playerUUIDFrom(c)

	profile, err := h.repo.GetOrCreateProfile(playerUUID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrInternal})
		return
	}
	history, err := h.repo.GetCombatHistory(playerUUID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrInternal})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"profile": profile,
		"history": history,
	})
}
