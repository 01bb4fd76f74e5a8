package api

import (
	"net/http"
	"strconv"

	"github.com/ericogr/gridsiege/internal/constants"
	"github.com/ericogr/gridsiege/internal/game"
	"github.com/ericogr/gridsiege/internal/grid"
	"github.com/ericogr/gridsiege/internal/service"

	"github.com/gin-gonic/gin"
)

type CreateBattleRequest struct {
	ClientToken string `json:"client_token"`
}

type AttributeRequest struct {
	Axis      string `json:"axis" binding:"required"`
	Index     *int   `json:"index" binding:"required"`
	Attribute string `json:"attribute" binding:"required"`
}

type PlaceRequest struct {
	Shape    string `json:"shape" binding:"required"`
	X        int    `json:"x"`
	Y        int    `json:"y"`
	Rotation int    `json:"rotation"`
}

type RotateRequest struct {
	Quadrant *int `json:"quadrant" binding:"required"`
}

type TargetRequest struct {
	MonsterID string `json:"monster_id" binding:"required"`
}

const (
	defaultDamageLogLimit = 200
	defaultRecordsLimit   = 50
)

// CreateBattle starts a battle in preparation. The body is optional; a
// client_token makes retries return the same battle.
func (h *BattleHandler) CreateBattle(c *gin.Context) {
	var req CreateBattleRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
			return
		}
	}
	snap, created, err := h.svc.Create(req.ClientToken)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedCreateBattle})
		return
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	c.JSON(status, snap)
}

// GetBattle returns the full snapshot of a battle.
func (h *BattleHandler) GetBattle(c *gin.Context) {
	snap, err := h.svc.Get(c.Param(constants.ParamBattleID))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

// SetAttribute edits one row or column attribute during preparation.
func (h *BattleHandler) SetAttribute(c *gin.Context) {
	var req AttributeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}
	snap, err := h.svc.SetAttribute(c.Param(constants.ParamBattleID), game.Axis(req.Axis), *req.Index, game.AttributeType(req.Attribute))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

func (h *BattleHandler) BeginBattle(c *gin.Context) {
	snap, err := h.svc.Begin(c.Param(constants.ParamBattleID))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

// PlaceBlock puts a catalog shape on the grid and resolves line clears.
func (h *BattleHandler) PlaceBlock(c *gin.Context) {
	var req PlaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}
	out, err := h.svc.Place(c.Param(constants.ParamBattleID), req.Shape, grid.Coord{X: req.X, Y: req.Y}, req.Rotation)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *BattleHandler) RotateQuadrant(c *gin.Context) {
	var req RotateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}
	out, err := h.svc.Rotate(c.Param(constants.ParamBattleID), *req.Quadrant)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *BattleHandler) SetTarget(c *gin.Context) {
	var req TargetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}
	snap, err := h.svc.SetTarget(c.Param(constants.ParamBattleID), req.MonsterID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

// Pass runs one turn and returns its steps with their wait tokens. A pass
// while another turn is resolving gets 409.
func (h *BattleHandler) Pass(c *gin.Context) {
	out, err := h.svc.Pass(c.Request.Context(), c.Param(constants.ParamBattleID))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// DamageLog returns the persisted damage rows of a battle, oldest first.
func (h *BattleHandler) DamageLog(c *gin.Context) {
	limit, ok := queryLimit(c, defaultDamageLogLimit)
	if !ok {
		return
	}
	entries, err := h.svc.DamageLog(c.Param(constants.ParamBattleID), limit)
	if err != nil {
		if err == service.ErrBattleNotFound {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedFetchDamageLog})
		return
	}
	c.JSON(http.StatusOK, entries)
}

// ListRecords returns finished and abandoned battles, newest first.
func (h *BattleHandler) ListRecords(c *gin.Context) {
	limit, ok := queryLimit(c, defaultRecordsLimit)
	if !ok {
		return
	}
	recs, err := h.svc.Records(limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedFetchRecords})
		return
	}
	out, err := MarshalIntoSnakeTimestamps(recs)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedFetchRecords})
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *BattleHandler) ListShapes(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.Shapes())
}

func queryLimit(c *gin.Context, def int) (int, bool) {
	raw := c.Query("limit")
	if raw == "" {
		return def, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return 0, false
	}
	return n, true
}
