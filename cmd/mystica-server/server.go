package main

import (
	"net/http"

	"github.com/CaptainCrouton89/new-mystica-sub007/internal/api"
	"github.com/CaptainCrouton89/new-mystica-sub007/internal/constants"

	"github.com/gin-gonic/gin"
)

func buildRouter(handler *api.CombatHandler) *gin.Engine {
	router := gin.Default()

	router.GET(constants.RouteHealth, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	apiRoutes := router.Group(constants.RouteAPIPrefix)
	apiRoutes.Use(api.PlayerIdentity())
	{
		apiRoutes.POST(constants.RouteEncounters, handler.StartEncounter)
		apiRoutes.POST(constants.RouteEncounterAttack, handler.SubmitAttackTurn)
		apiRoutes.POST(constants.RouteEncounterDefend, handler.SubmitDefenseTurn)
		apiRoutes.GET(constants.RouteEncounterByID, handler.RecoverSession)
		apiRoutes.GET(constants.RoutePlayerStats, handler.GetPlayerStats)
	}

	return router
}
