package api

import (
	"math/rand"
	"net/http"

	"github.com/CaptainCrouton89/new-mystica-sub007/internal/constants"
	"github.com/CaptainCrouton89/new-mystica-sub007/internal/engine"
	"github.com/CaptainCrouton89/new-mystica-sub007/internal/service"
	"github.com/CaptainCrouton89/new-mystica-sub007/internal/storage"

	"github.com/gin-gonic/gin"
)

type TurnRequest struct {
	// TapAngle is the dial position in degrees, [0, 360). Range checking is
	// the only validation performed on client-submitted angles.
	TapAngle *float64 `json:"tap_angle" binding:"required"`
}

// SubmitAttackTurn resolves one attack turn of the caller's session.
func (h *CombatHandler) SubmitAttackTurn(c *gin.Context) {
	h.submitTurn(c, service.SubmitAttackTurn)
}

// SubmitDefenseTurn resolves one defense turn of the caller's session.
func (h *CombatHandler) SubmitDefenseTurn(c *gin.Context) {
	h.submitTurn(c, service.SubmitDefenseTurn)
}

func (h *CombatHandler) submitTurn(c *gin.Context, submit func(storage.Repository, engine.StatsProvider, *rand.Rand, string, string, float64) (*service.TurnOutcome, error)) {
	var req TurnRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.TapAngle == nil {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}

	out, err := submit(h.repo, h.provider, h.rng, playerUUIDFrom(c), c.Param("sessionID"), *req.TapAngle)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}
