package api

import (
	"time"

	"github.com/ericogr/gridsiege/internal/constants"
	"github.com/ericogr/gridsiege/internal/logging"
	"github.com/gin-gonic/gin"
)

// NewRouter wires every route under the API prefix.
func NewRouter(h *BattleHandler) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger())

	apiRoutes := router.Group(constants.RouteAPIPrefix)
	{
		apiRoutes.GET(constants.RouteHealth, h.Health)
		apiRoutes.GET(constants.RouteVersion, Version)
		apiRoutes.GET(constants.RouteShapes, h.ListShapes)
		apiRoutes.GET(constants.RouteRecords, h.ListRecords)

		apiRoutes.POST(constants.RouteBattles, h.CreateBattle)
		apiRoutes.GET(constants.RouteBattleByID, h.GetBattle)
		apiRoutes.PUT(constants.RouteBattleAttributes, h.SetAttribute)
		apiRoutes.POST(constants.RouteBattleBegin, h.BeginBattle)
		apiRoutes.POST(constants.RouteBattlePlace, h.PlaceBlock)
		apiRoutes.POST(constants.RouteBattleRotate, h.RotateQuadrant)
		apiRoutes.POST(constants.RouteBattleTarget, h.SetTarget)
		apiRoutes.POST(constants.RouteBattlePass, h.Pass)
		apiRoutes.GET(constants.RouteBattleEvents, h.StreamEvents)
		apiRoutes.GET(constants.RouteBattleDamageLog, h.DamageLog)
	}
	return router
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logging.Debug("request", logging.Fields{
			constants.LogFieldPath: c.Request.URL.Path,
			"method":               c.Request.Method,
			"status":               c.Writer.Status(),
			"latency_ms":           time.Since(start).Milliseconds(),
		})
	}
}
