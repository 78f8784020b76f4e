package room

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/syncwatch/server/internal/domain"
	roomRepo "github.com/syncwatch/server/internal/repository/room"
)

// errSkipBroadcast is returned by mutate callbacks to reject a command as a
// validated no-op: the room is not written and nothing is broadcast.
var errSkipBroadcast = errors.New("skip broadcast")

// updateRoom runs mutate on the current room snapshot under the room's lock
// and writes the result back. The store's read-modify-write sequence is the
// serialization point for all concurrent commands in a room.
func (s *service) updateRoom(ctx context.Context, roomID string, mutate func(*domain.RoomState) error) (domain.RoomState, error) {
	unlock := s.locks.Lock(roomID)
	defer unlock()

	state, err := s.roomRepo.GetRoom(ctx, roomID)
	if err != nil {
		if errors.Is(err, roomRepo.ErrRoomNotFound) {
			return domain.RoomState{}, ErrRoomNotFound
		}

		return domain.RoomState{}, fmt.Errorf("failed to get room: %w", err)
	}

	if err := mutate(&state); err != nil {
		return domain.RoomState{}, err
	}

	if err := s.roomRepo.SetRoom(ctx, &state); err != nil {
		return domain.RoomState{}, fmt.Errorf("failed to set room: %w", err)
	}

	return state, nil
}

// broadcastResponse bundles a mutated snapshot with the connections that must
// receive it. A nil Room means the command was a validated no-op and nothing
// is broadcast.
func (s *service) broadcastResponse(state domain.RoomState) SyncResponse {
	state.ServerTime = time.Now().UnixMilli()

	return SyncResponse{
		Room:  &state,
		Conns: s.connRepo.GetRoomConns(state.ID),
	}
}

func (s *service) noopResponse(roomID string, reason string, args ...any) SyncResponse {
	s.logger.Info("command rejected: "+reason, append([]any{"roomId", roomID}, args...)...)

	return SyncResponse{}
}
