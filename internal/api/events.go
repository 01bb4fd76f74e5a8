package api

import (
	"context"
	"encoding/json"
	"time"

	"github.com/coder/websocket"
	"github.com/ericogr/gridsiege/internal/constants"
	"github.com/ericogr/gridsiege/internal/logging"
	"github.com/gin-gonic/gin"
)

const (
	eventBuffer       = 256
	eventWriteTimeout = 5 * time.Second
)

// StreamEvents upgrades to a websocket and forwards every event of the
// battle as one JSON text message. The stream is read-only for clients.
func (h *BattleHandler) StreamEvents(c *gin.Context) {
	battleID := c.Param(constants.ParamBattleID)
	sub, err := h.svc.Subscribe(battleID, eventBuffer)
	if err != nil {
		writeError(c, err)
		return
	}
	defer sub.Close()

	conn, err := websocket.Accept(c.Writer, c.Request, &websocket.AcceptOptions{
		InsecureSkipVerify: true,
	})
	if err != nil {
		logging.Warn("websocket upgrade failed", logging.Fields{constants.LogFieldBattleID: battleID, "error": err.Error()})
		return
	}
	defer conn.CloseNow()

	ctx := conn.CloseRead(c.Request.Context())
	logging.Debug("event stream opened", logging.Fields{constants.LogFieldBattleID: battleID, "subscriber": sub.ID})

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-sub.Events:
			if !ok {
				conn.Close(websocket.StatusNormalClosure, "battle closed")
				return
			}
			data, err := json.Marshal(ev)
			if err != nil {
				logging.Error("failed to encode event", err, logging.Fields{constants.LogFieldTopic: string(ev.Topic)})
				continue
			}
			if err := writeWithTimeout(ctx, conn, data); err != nil {
				logging.Debug("event stream closed", logging.Fields{constants.LogFieldBattleID: battleID, "error": err.Error()})
				return
			}
		}
	}
}

func writeWithTimeout(ctx context.Context, conn *websocket.Conn, data []byte) error {
	ctx, cancel := context.WithTimeout(ctx, eventWriteTimeout)
	defer cancel()
	return conn.Write(ctx, websocket.MessageText, data)
}
