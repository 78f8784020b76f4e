package room

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/syncwatch/server/internal/domain"
	roomRepo "github.com/syncwatch/server/internal/repository/room"
)

type AttachParams struct {
	RoomID   string
	SocketID string
	// UID is the stable identity supplied at join time. Empty means this is
	// an anonymous connection and an identity is minted for it.
	UID  string
	Name string
	Conn *websocket.Conn
}

type AttachResponse struct {
	// Room is the initial snapshot delivered exactly once to the attaching
	// connection.
	Room        domain.RoomState
	User        domain.UserState
	Conns       []*websocket.Conn
	RoomCreated bool
}

// Attach registers a connection with a room, creating the room when it does
// not exist yet. The first attacher becomes the owner. A connection whose UID
// already has a user in the room is added as another tab of that user.
func (s *service) Attach(ctx context.Context, params *AttachParams) (AttachResponse, error) {
	unlock := s.locks.Lock(params.RoomID)
	defer unlock()

	created := false
	state, err := s.roomRepo.GetRoom(ctx, params.RoomID)
	if err != nil {
		if !errors.Is(err, roomRepo.ErrRoomNotFound) {
			return AttachResponse{}, fmt.Errorf("failed to get room: %w", err)
		}

		state = *domain.NewRoomState(params.RoomID, s.defaultVideoURL)
		created = true
	}

	uid := params.UID
	if uid == "" {
		uid = uuid.NewString()
	}

	user := state.UserByUID(uid)
	if user == nil {
		newUser := domain.NewUserState(uid, params.SocketID, params.Name)
		state.Users = append(state.Users, newUser)
		user = &state.Users[len(state.Users)-1]
	} else {
		user.SocketIDs = append(user.SocketIDs, params.SocketID)
		if params.Name != "" {
			user.Name = params.Name
		}
	}

	if state.OwnerID == "" {
		state.OwnerID = uid
	}

	if err := s.roomRepo.SetRoom(ctx, &state); err != nil {
		return AttachResponse{}, fmt.Errorf("failed to set room: %w", err)
	}

	if err := s.connRepo.Add(params.Conn, params.SocketID, params.RoomID); err != nil {
		return AttachResponse{}, fmt.Errorf("failed to add connection: %w", err)
	}

	if created {
		if err := s.roomRepo.IncrRooms(ctx); err != nil {
			s.logger.Warn("failed to increment rooms counter", "error", err)
		}
	}
	if err := s.roomRepo.IncrUsers(ctx); err != nil {
		s.logger.Warn("failed to increment users counter", "error", err)
	}

	state.ServerTime = time.Now().UnixMilli()

	return AttachResponse{
		Room:        state,
		User:        *user,
		Conns:       s.connRepo.GetRoomConns(params.RoomID),
		RoomCreated: created,
	}, nil
}

type JoinRoomParams struct {
	RoomID   string
	SocketID string
	UserName string
}

type JoinRoomResponse struct {
	Update RoomUpdate
	Conns  []*websocket.Conn
}

// JoinRoom applies the explicit join handshake: it names the already attached
// user and reports the membership to the whole room.
func (s *service) JoinRoom(ctx context.Context, params *JoinRoomParams) (JoinRoomResponse, error) {
	state, err := s.updateRoom(ctx, params.RoomID, func(state *domain.RoomState) error {
		user := state.UserBySocketID(params.SocketID)
		if user == nil {
			return ErrUserNotFound
		}

		if params.UserName != "" {
			user.Name = params.UserName
		}

		return nil
	})
	if err != nil {
		return JoinRoomResponse{}, err
	}

	return JoinRoomResponse{
		Update: RoomUpdate{
			Users:  state.Users,
			HostID: state.OwnerID,
		},
		Conns: s.connRepo.GetRoomConns(params.RoomID),
	}, nil
}

type DisconnectParams struct {
	Conn *websocket.Conn
}

type DisconnectResponse struct {
	RoomDeleted bool
	// Sync carries the post-disconnect snapshot for the remaining members;
	// its Room is nil when the room was deleted or the connection was never
	// attached.
	Sync   SyncResponse
	Update *RoomUpdate
}

// Disconnect removes a connection. The user is removed with their last
// connection; an empty room is deleted on the spot, and a departing owner
// hands the room to the longest-attached remaining user.
func (s *service) Disconnect(ctx context.Context, params *DisconnectParams) (DisconnectResponse, error) {
	socketID, roomID, err := s.connRepo.RemoveByConn(params.Conn)
	if err != nil {
		return DisconnectResponse{}, nil
	}

	if err := s.roomRepo.DecrUsers(ctx); err != nil {
		s.logger.Warn("failed to decrement users counter", "error", err)
	}

	unlock := s.locks.Lock(roomID)
	defer unlock()

	state, err := s.roomRepo.GetRoom(ctx, roomID)
	if err != nil {
		if errors.Is(err, roomRepo.ErrRoomNotFound) {
			return DisconnectResponse{}, nil
		}

		return DisconnectResponse{}, fmt.Errorf("failed to get room: %w", err)
	}

	uid, userRemoved := state.RemoveSocket(socketID)
	if uid == "" {
		return DisconnectResponse{}, nil
	}

	if len(state.Users) == 0 {
		if err := s.roomRepo.DeleteRoom(ctx, roomID); err != nil {
			return DisconnectResponse{}, fmt.Errorf("failed to delete room: %w", err)
		}
		if err := s.roomRepo.DecrRooms(ctx); err != nil {
			s.logger.Warn("failed to decrement rooms counter", "error", err)
		}

		return DisconnectResponse{RoomDeleted: true}, nil
	}

	if userRemoved && state.OwnerID == uid {
		state.OwnerID = state.Users[0].UID
	}

	if err := s.roomRepo.SetRoom(ctx, &state); err != nil {
		return DisconnectResponse{}, fmt.Errorf("failed to set room: %w", err)
	}

	return DisconnectResponse{
		Sync: s.broadcastResponse(state),
		Update: &RoomUpdate{
			Users:  state.Users,
			HostID: state.OwnerID,
		},
	}, nil
}

// Fetch returns the current snapshot for a single requesting connection.
func (s *service) Fetch(ctx context.Context, roomID string) (domain.RoomState, error) {
	state, err := s.roomRepo.GetRoom(ctx, roomID)
	if err != nil {
		if errors.Is(err, roomRepo.ErrRoomNotFound) {
			return domain.RoomState{}, ErrRoomNotFound
		}

		return domain.RoomState{}, fmt.Errorf("failed to get room: %w", err)
	}

	state.ServerTime = time.Now().UnixMilli()

	return state, nil
}

type UpdateUserParams struct {
	RoomID   string
	SocketID string
	Name     string
	Avatar   string
}

// UpdateUser merges display metadata into the sender's user entry. Identity
// is immutable.
func (s *service) UpdateUser(ctx context.Context, params *UpdateUserParams) (SyncResponse, error) {
	state, err := s.updateRoom(ctx, params.RoomID, func(state *domain.RoomState) error {
		user := state.UserBySocketID(params.SocketID)
		if user == nil {
			return ErrUserNotFound
		}

		if params.Name != "" {
			user.Name = params.Name
		}
		if params.Avatar != "" {
			user.Avatar = params.Avatar
		}

		return nil
	})
	if err != nil {
		return SyncResponse{}, err
	}

	return s.broadcastResponse(state), nil
}
