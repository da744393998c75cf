package api

import (
	"errors"
	"net/http"

	"github.com/CaptainCrouton89/new-mystica-sub007/internal/constants"
	"github.com/CaptainCrouton89/new-mystica-sub007/internal/logging"
	"github.com/CaptainCrouton89/new-mystica-sub007/internal/service"

	"github.com/gin-gonic/gin"
)

// respondServiceError maps service-layer sentinels onto HTTP statuses.
// Anything unrecognized is an internal error and is logged with its cause,
// never exposed to the client.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrSessionNotFound):
		c.JSON(http.StatusNotFound, gin.H{constants.JSONKeyError: constants.ErrSessionNotFound})
	case errors.Is(err, service.ErrSessionNotOwned):
		c.JSON(http.StatusForbidden, gin.H{constants.JSONKeyError: constants.ErrSessionNotYours})
	case errors.Is(err, service.ErrSessionNotActive):
		c.JSON(http.StatusConflict, gin.H{constants.JSONKeyError: constants.ErrSessionNotActive})
	case errors.Is(err, service.ErrSessionExpired):
		c.JSON(http.StatusConflict, gin.H{constants.JSONKeyError: constants.ErrSessionExpired})
	case errors.Is(err, service.ErrTurnConflict):
		c.JSON(http.StatusConflict, gin.H{constants.JSONKeyError: constants.ErrTurnConflict})
	case errors.Is(err, service.ErrInvalidTapAngle):
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidTapAngle})
	case errors.Is(err, service.ErrInvalidLevel):
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
	case errors.Is(err, service.ErrNoEnemies), errors.Is(err, service.ErrEnemyNotFound), errors.Is(err, service.ErrTierNotFound):
		c.JSON(http.StatusNotFound, gin.H{constants.JSONKeyError: constants.ErrNoEnemiesAvailable})
	default:
		switch service.Kind(err) {
		case service.KindValidation:
			c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		case service.KindNotFound:
			c.JSON(http.StatusNotFound, gin.H{constants.JSONKeyError: constants.ErrSessionNotFound})
		case service.KindBusinessLogic:
			c.JSON(http.StatusConflict, gin.H{constants.JSONKeyError: constants.ErrSessionNotActive})
		default:
			logging.Error("unhandled service error", err, logging.Fields{"path": c.FullPath()})
			c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrInternal})
		}
	}
}
