package api

import (
	"net/http"

	"github.com/ericogr/gridsiege/internal/constants"
	"github.com/ericogr/gridsiege/internal/version"
	"github.com/gin-gonic/gin"
)

// Version returns build and VCS metadata injected at build time.
func Version(c *gin.Context) {
	c.JSON(http.StatusOK, version.Current())
}

// Health reports liveness and the number of battles held in memory.
func (h *BattleHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		constants.JSONKeyStatus: "ok",
		"battles":               h.svc.Count(),
	})
}
