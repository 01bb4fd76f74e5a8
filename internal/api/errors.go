package api

import (
	"net/http"

	"github.com/ericogr/gridsiege/internal/constants"
	"github.com/ericogr/gridsiege/internal/engine"
	"github.com/ericogr/gridsiege/internal/game"
	"github.com/ericogr/gridsiege/internal/grid"
	"github.com/ericogr/gridsiege/internal/logging"
	"github.com/ericogr/gridsiege/internal/service"
	"github.com/ericogr/gridsiege/internal/turn"

	"github.com/gin-gonic/gin"
)

// writeError maps service and engine errors to HTTP responses.
func writeError(c *gin.Context, err error) {
	switch err {
	case service.ErrBattleNotFound:
		c.JSON(http.StatusNotFound, gin.H{constants.JSONKeyError: constants.ErrBattleNotFound})
	case engine.ErrUnknownShape:
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrUnknownShape})
	case engine.ErrUnknownMonster:
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrUnknownMonster})
	case grid.ErrOutOfBounds, grid.ErrCellBlocked, grid.ErrEmptyShape:
		c.JSON(http.StatusUnprocessableEntity, gin.H{constants.JSONKeyError: constants.ErrInvalidPlacement})
	case grid.ErrInvalidQuadrant:
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidQuadrant})
	case game.ErrSlotOutOfRange, game.ErrInvalidAttribute:
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidAttribute})
	case game.ErrSlotLocked:
		c.JSON(http.StatusConflict, gin.H{constants.JSONKeyError: constants.ErrSlotLocked})
	case engine.ErrNotPreparing:
		c.JSON(http.StatusConflict, gin.H{constants.JSONKeyError: constants.ErrNotPreparing})
	case engine.ErrNotInBattle:
		c.JSON(http.StatusConflict, gin.H{constants.JSONKeyError: constants.ErrNotInBattle})
	case engine.ErrInputBlocked:
		c.JSON(http.StatusConflict, gin.H{constants.JSONKeyError: constants.ErrInputBlocked})
	case turn.ErrTurnInFlight:
		c.JSON(http.StatusConflict, gin.H{constants.JSONKeyError: constants.ErrTurnInFlight})
	default:
		logging.Error("request failed", err, logging.Fields{constants.LogFieldPath: c.FullPath()})
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrInternal})
	}
}
