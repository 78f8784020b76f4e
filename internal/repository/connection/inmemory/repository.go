// Package inmemory tracks which websocket connections belong to which room.
// Connections are process-local, so this registry never touches the store.
package inmemory

import (
	"sync"

	"github.com/gorilla/websocket"

	"github.com/syncwatch/server/internal/repository/connection"
)

type connInfo struct {
	socketID string
	roomID   string
}

type repo struct {
	mu       sync.RWMutex
	conns    map[*websocket.Conn]connInfo
	sockets  map[string]*websocket.Conn
	roomSets map[string]map[*websocket.Conn]struct{}
}

func NewRepo() *repo {
	return &repo{
		conns:    make(map[*websocket.Conn]connInfo),
		sockets:  make(map[string]*websocket.Conn),
		roomSets: make(map[string]map[*websocket.Conn]struct{}),
	}
}

func (r *repo) Add(conn *websocket.Conn, socketID, roomID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.conns[conn]; ok {
		return connection.ErrAlreadyExists
	}
	if _, ok := r.sockets[socketID]; ok {
		return connection.ErrAlreadyExists
	}

	r.conns[conn] = connInfo{socketID: socketID, roomID: roomID}
	r.sockets[socketID] = conn
	if r.roomSets[roomID] == nil {
		r.roomSets[roomID] = make(map[*websocket.Conn]struct{})
	}
	r.roomSets[roomID][conn] = struct{}{}

	return nil
}

// RemoveByConn drops the connection and returns the socket and room ids it
// was registered under.
func (r *repo) RemoveByConn(conn *websocket.Conn) (socketID, roomID string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	info, ok := r.conns[conn]
	if !ok {
		return "", "", connection.ErrNotFound
	}

	delete(r.conns, conn)
	delete(r.sockets, info.socketID)
	if set := r.roomSets[info.roomID]; set != nil {
		delete(set, conn)
		if len(set) == 0 {
			delete(r.roomSets, info.roomID)
		}
	}

	return info.socketID, info.roomID, nil
}

func (r *repo) GetSocketID(conn *websocket.Conn) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	info, ok := r.conns[conn]
	if !ok {
		return "", connection.ErrNotFound
	}

	return info.socketID, nil
}

func (r *repo) GetConn(socketID string) (*websocket.Conn, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	conn, ok := r.sockets[socketID]
	if !ok {
		return nil, connection.ErrNotFound
	}

	return conn, nil
}

// GetRoomConns returns every connection attached to roomID.
func (r *repo) GetRoomConns(roomID string) []*websocket.Conn {
	r.mu.RLock()
	defer r.mu.RUnlock()

	set := r.roomSets[roomID]
	conns := make([]*websocket.Conn, 0, len(set))
	for conn := range set {
		conns = append(conns, conn)
	}

	return conns
}
