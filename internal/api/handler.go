package api

import (
	"github.com/ericogr/gridsiege/internal/service"
)

// BattleHandler groups all battle-related HTTP handlers.
type BattleHandler struct {
	svc *service.Manager
}

func NewBattleHandler(svc *service.Manager) *BattleHandler {
	return &BattleHandler{svc: svc}
}
