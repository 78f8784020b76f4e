package controller

import (
	"context"
	"time"

	"github.com/gorilla/websocket"

	"github.com/syncwatch/server/internal/domain"
	"github.com/syncwatch/server/internal/service/room"
)

type Output struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

func (c controller) writeToConn(ctx context.Context, conn *websocket.Conn, output *Output) error {
	return conn.WriteJSON(output)
}

// broadcast pushes output to every conn; a failed write is logged and the
// fan-out continues.
func (c controller) broadcast(ctx context.Context, conns []*websocket.Conn, output *Output) {
	for _, conn := range conns {
		if err := c.writeToConn(ctx, conn, output); err != nil {
			c.logger.WarnContext(ctx, "failed to write to conn", "error", err)
		}
	}
}

// broadcastUpdate fans the full room snapshot out after a state mutation,
// stamping serverTime at send so every client anchors its clock offset to the
// same reference.
func (c controller) broadcastUpdate(ctx context.Context, resp room.SyncResponse) {
	if resp.Room == nil {
		return
	}

	resp.Room.ServerTime = time.Now().UnixMilli()
	c.broadcast(ctx, resp.Conns, &Output{
		Type:    "update",
		Payload: resp.Room,
	})
}

func (c controller) sendUpdateToConn(ctx context.Context, conn *websocket.Conn, state *domain.RoomState) error {
	state.ServerTime = time.Now().UnixMilli()

	return c.writeToConn(ctx, conn, &Output{
		Type:    "update",
		Payload: state,
	})
}

func (c controller) broadcastRoomUpdate(ctx context.Context, conns []*websocket.Conn, update *room.RoomUpdate) {
	c.broadcast(ctx, conns, &Output{
		Type:    "roomUpdate",
		Payload: update,
	})
}
