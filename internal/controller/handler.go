package controller

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/syncwatch/server/internal/service/room"
)

// attachRoom upgrades the request to a websocket and attaches it to the room
// from the path. The room is created if it does not exist; the first attacher
// becomes the owner. The initial snapshot is written to the new connection
// before the read loop starts, so clients never have to poll for it.
func (c controller) attachRoom(w http.ResponseWriter, r *http.Request) {
	roomID := strings.ToLower(chi.URLParam(r, "room-id"))
	if roomID == "" {
		c.logger.DebugContext(r.Context(), "empty room id")
		http.Error(w, "room id is required", http.StatusBadRequest)
		return
	}

	name := r.URL.Query().Get("name")
	uid := r.URL.Query().Get("uid")
	socketID := uuid.NewString()

	conn, err := c.upgrader.Upgrade(w, r, nil)
	if err != nil {
		c.logger.WarnContext(r.Context(), "failed to upgrade to websocket", "error", err)
		return
	}

	attachResp, err := c.roomService.Attach(r.Context(), &room.AttachParams{
		RoomID:   roomID,
		SocketID: socketID,
		UID:      uid,
		Name:     name,
		Conn:     conn,
	})
	if err != nil {
		c.logger.WarnContext(r.Context(), "failed to attach to room", "error", err)
		conn.Close()
		return
	}
	defer c.disconnect(r.Context(), conn)

	if err := c.sendUpdateToConn(r.Context(), conn, &attachResp.Room); err != nil {
		c.logger.WarnContext(r.Context(), "failed to send initial snapshot", "error", err)
		return
	}

	c.broadcastRoomUpdate(r.Context(), attachResp.Conns, &room.RoomUpdate{
		Users:  attachResp.Room.Users,
		HostID: attachResp.Room.OwnerID,
	})

	ctx := context.WithValue(r.Context(), roomIDCtxKey, roomID)
	ctx = context.WithValue(ctx, socketIDCtxKey, socketID)

	if err := c.wsmux.ServeConn(ctx, conn); err != nil {
		c.logger.InfoContext(r.Context(), "connection closed", "error", err)
	}
}

// disconnect runs after the read loop ends. An in-flight command that was
// already dispatched completes and broadcasts on its own; this only processes
// the departure itself.
func (c controller) disconnect(ctx context.Context, conn *websocket.Conn) {
	disconnectResp, err := c.roomService.Disconnect(ctx, &room.DisconnectParams{Conn: conn})
	if err != nil {
		c.logger.WarnContext(ctx, "failed to disconnect", "error", err)
		return
	}

	if disconnectResp.RoomDeleted || disconnectResp.Sync.Room == nil {
		return
	}

	c.broadcastUpdate(ctx, disconnectResp.Sync)
	c.broadcastRoomUpdate(ctx, disconnectResp.Sync.Conns, disconnectResp.Update)
}
