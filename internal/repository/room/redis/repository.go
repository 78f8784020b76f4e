// Package redis stores each RoomState as one JSON value so that the service
// layer's get -> mutate -> set sequence operates on whole snapshots.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/syncwatch/server/internal/domain"
	"github.com/syncwatch/server/internal/repository/room"
)

const (
	usersCounterKey = "stats:users"
	roomsCounterKey = "stats:rooms"
)

type repo struct {
	rc             *goredis.Client
	expireDuration time.Duration
}

func NewRepo(rc *goredis.Client, expireDuration time.Duration) *repo {
	return &repo{
		rc:             rc,
		expireDuration: expireDuration,
	}
}

func (r repo) getRoomKey(roomID string) string {
	return "room:" + roomID
}

func (r repo) GetRoom(ctx context.Context, roomID string) (domain.RoomState, error) {
	roomKey := r.getRoomKey(roomID)
	raw, err := r.rc.Get(ctx, roomKey).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return domain.RoomState{}, room.ErrRoomNotFound
		}

		return domain.RoomState{}, fmt.Errorf("failed to get room: %w", err)
	}

	var state domain.RoomState
	if err := json.Unmarshal(raw, &state); err != nil {
		return domain.RoomState{}, fmt.Errorf("failed to unmarshal room: %w", err)
	}

	r.rc.Expire(ctx, roomKey, r.expireDuration)

	return state, nil
}

func (r repo) SetRoom(ctx context.Context, state *domain.RoomState) error {
	raw, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to marshal room: %w", err)
	}

	if err := r.rc.Set(ctx, r.getRoomKey(state.ID), raw, r.expireDuration).Err(); err != nil {
		return fmt.Errorf("failed to set room: %w", err)
	}

	return nil
}

func (r repo) DeleteRoom(ctx context.Context, roomID string) error {
	res, err := r.rc.Del(ctx, r.getRoomKey(roomID)).Result()
	if err != nil {
		return fmt.Errorf("failed to delete room: %w", err)
	}

	if res == 0 {
		return room.ErrRoomNotFound
	}

	return nil
}

func (r repo) RoomExists(ctx context.Context, roomID string) (bool, error) {
	res, err := r.rc.Exists(ctx, r.getRoomKey(roomID)).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check if room exists: %w", err)
	}

	return res > 0, nil
}

func (r repo) IncrUsers(ctx context.Context) error {
	return r.rc.Incr(ctx, usersCounterKey).Err()
}

func (r repo) DecrUsers(ctx context.Context) error {
	return r.rc.Decr(ctx, usersCounterKey).Err()
}

func (r repo) IncrRooms(ctx context.Context) error {
	return r.rc.Incr(ctx, roomsCounterKey).Err()
}

func (r repo) DecrRooms(ctx context.Context) error {
	return r.rc.Decr(ctx, roomsCounterKey).Err()
}

func (r repo) GetStats(ctx context.Context) (room.Stats, error) {
	users, err := r.rc.Get(ctx, usersCounterKey).Int64()
	if err != nil && !errors.Is(err, goredis.Nil) {
		return room.Stats{}, fmt.Errorf("failed to get users counter: %w", err)
	}

	rooms, err := r.rc.Get(ctx, roomsCounterKey).Int64()
	if err != nil && !errors.Is(err, goredis.Nil) {
		return room.Stats{}, fmt.Errorf("failed to get rooms counter: %w", err)
	}

	return room.Stats{Users: users, Rooms: rooms}, nil
}
