package room

import (
	"github.com/gorilla/websocket"

	"github.com/syncwatch/server/internal/domain"
)

// SyncResponse is returned by every command handler whose effect must reach
// the whole room. Room is the snapshot to broadcast, already stamped with
// serverTime; it is nil when the command was a validated no-op.
type SyncResponse struct {
	Room  *domain.RoomState
	Conns []*websocket.Conn
}

// RoomUpdate is the targeted membership payload sent on join, rename and host
// handover.
type RoomUpdate struct {
	Users  []domain.UserState `json:"users"`
	HostID string             `json:"hostId"`
}
