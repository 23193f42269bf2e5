package handlers

import (
	"net/http"

	"slotify/utils"

	"github.com/gin-gonic/gin"
)

// HealthHandler reports the latest stored dependency health snapshot.
func HealthHandler(c *gin.Context) {
	status := utils.GetHealthStatus()

	code := http.StatusOK
	if !status.Mongo {
		code = http.StatusServiceUnavailable
	}
	c.JSON(code, status)
}
