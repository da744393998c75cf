package api

import (
	"net/http"

	"github.com/CaptainCrouton89/new-mystica-sub007/internal/service"

	"github.com/gin-gonic/gin"
)

// RecoverSession reconstructs encounter state for a client resuming after
// disconnection. `?summary=1` returns the minimal payload instead of the
// full one.
func (h *CombatHandler) RecoverSession(c *gin.Context) {
	playerUUID := playerUUIDFrom(c)
	sessionID := c.Param("sessionID")

	if c.Query("summary") == "1" {
		out, err := service.SummarizeSession(h.repo, playerUUID, sessionID)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, out)
		return
	}

	out, err := service.RecoverSession(h.repo, playerUUID, sessionID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}
