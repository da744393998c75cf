package api

import (
	"net/http"

	"github.com/CaptainCrouton89/new-mystica-sub007/internal/constants"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const ctxKeyPlayerUUID = "playerUUID"

// PlayerIdentity extracts the caller's player UUID from the X-Player-UUID
// header. Authentication proper is out of scope for this service; the
// middleware only asserts the header is present and shaped like a UUID.
func PlayerIdentity() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.GetHeader(constants.HeaderPlayerUUID)
		if raw == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{constants.JSONKeyError: constants.ErrAuthRequired})
			return
		}
		id, err := uuid.Parse(raw)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{constants.JSONKeyError: constants.ErrAuthRequired})
			return
		}
		c.Set(ctxKeyPlayerUUID, id.String())
		c.Next()
	}
}

func playerUUIDFrom(c *gin.Context) string {
	v, _ := c.Get(ctxKeyPlayerUUID)
	s, _ := v.(string)
	return s
}
