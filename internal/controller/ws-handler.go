package controller

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/gorilla/websocket"

	"github.com/syncwatch/server/internal/domain"
	"github.com/syncwatch/server/internal/service/room"
)

// decode unmarshals a payload into its fixed schema and validates it, so
// malformed payloads are rejected before they reach a command handler.
func decode[T any](c controller, payload json.RawMessage) (T, error) {
	var input T
	if len(payload) > 0 {
		if err := json.Unmarshal(payload, &input); err != nil {
			return input, fmt.Errorf("failed to unmarshal payload: %w", err)
		}
	}

	if err := c.validate.Struct(input); err != nil {
		return input, err
	}

	return input, nil
}

func (c controller) handleFetch(ctx context.Context, conn *websocket.Conn, _ json.RawMessage) error {
	state, err := c.roomService.Fetch(ctx, c.getRoomIDFromCtx(ctx))
	if err != nil {
		return fmt.Errorf("failed to fetch room: %w", err)
	}

	return c.sendUpdateToConn(ctx, conn, &state)
}

type joinRoomInput struct {
	UserName string `json:"userName" validate:"max=64"`
}

func (c controller) handleJoinRoom(ctx context.Context, _ *websocket.Conn, payload json.RawMessage) error {
	input, err := decode[joinRoomInput](c, payload)
	if err != nil {
		return err
	}

	joinRoomResp, err := c.roomService.JoinRoom(ctx, &room.JoinRoomParams{
		RoomID:   c.getRoomIDFromCtx(ctx),
		SocketID: c.getSocketIDFromCtx(ctx),
		UserName: input.UserName,
	})
	if err != nil {
		return fmt.Errorf("failed to join room: %w", err)
	}

	c.broadcastRoomUpdate(ctx, joinRoomResp.Conns, &joinRoomResp.Update)

	return nil
}

type updateUserInput struct {
	Name   string `json:"name" validate:"max=64"`
	Avatar string `json:"avatar" validate:"max=512"`
}

func (c controller) handleUpdateUser(ctx context.Context, _ *websocket.Conn, payload json.RawMessage) error {
	input, err := decode[updateUserInput](c, payload)
	if err != nil {
		return err
	}

	syncResp, err := c.roomService.UpdateUser(ctx, &room.UpdateUserParams{
		RoomID:   c.getRoomIDFromCtx(ctx),
		SocketID: c.getSocketIDFromCtx(ctx),
		Name:     input.Name,
		Avatar:   input.Avatar,
	})
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}

	c.broadcastUpdate(ctx, syncResp)

	return nil
}

type setPausedInput struct {
	Paused bool `json:"paused"`
}

func (c controller) handleSetPaused(ctx context.Context, _ *websocket.Conn, payload json.RawMessage) error {
	input, err := decode[setPausedInput](c, payload)
	if err != nil {
		return err
	}

	syncResp, err := c.roomService.SetPaused(ctx, &room.SetPausedParams{
		RoomID:   c.getRoomIDFromCtx(ctx),
		SocketID: c.getSocketIDFromCtx(ctx),
		Paused:   input.Paused,
	})
	if err != nil {
		return fmt.Errorf("failed to set paused: %w", err)
	}

	c.broadcastUpdate(ctx, syncResp)

	return nil
}

type setLoopInput struct {
	Loop bool `json:"loop"`
}

func (c controller) handleSetLoop(ctx context.Context, _ *websocket.Conn, payload json.RawMessage) error {
	input, err := decode[setLoopInput](c, payload)
	if err != nil {
		return err
	}

	syncResp, err := c.roomService.SetLoop(ctx, &room.SetLoopParams{
		RoomID: c.getRoomIDFromCtx(ctx),
		Loop:   input.Loop,
	})
	if err != nil {
		return fmt.Errorf("failed to set loop: %w", err)
	}

	c.broadcastUpdate(ctx, syncResp)

	return nil
}

type setProgressInput struct {
	Progress float64 `json:"progress" validate:"gte=0"`
}

func (c controller) handleSetProgress(ctx context.Context, _ *websocket.Conn, payload json.RawMessage) error {
	input, err := decode[setProgressInput](c, payload)
	if err != nil {
		return err
	}

	syncResp, err := c.roomService.SetProgress(ctx, &room.SetProgressParams{
		RoomID:   c.getRoomIDFromCtx(ctx),
		SocketID: c.getSocketIDFromCtx(ctx),
		Progress: input.Progress,
	})
	if err != nil {
		return fmt.Errorf("failed to set progress: %w", err)
	}

	c.broadcastUpdate(ctx, syncResp)

	return nil
}

type setPlaybackRateInput struct {
	PlaybackRate float64 `json:"playbackRate" validate:"gt=0"`
}

func (c controller) handleSetPlaybackRate(ctx context.Context, _ *websocket.Conn, payload json.RawMessage) error {
	input, err := decode[setPlaybackRateInput](c, payload)
	if err != nil {
		return err
	}

	syncResp, err := c.roomService.SetPlaybackRate(ctx, &room.SetPlaybackRateParams{
		RoomID:       c.getRoomIDFromCtx(ctx),
		SocketID:     c.getSocketIDFromCtx(ctx),
		PlaybackRate: input.PlaybackRate,
	})
	if err != nil {
		return fmt.Errorf("failed to set playback rate: %w", err)
	}

	c.broadcastUpdate(ctx, syncResp)

	return nil
}

type seekInput struct {
	Progress float64 `json:"progress" validate:"gte=0"`
}

func (c controller) handleSeek(ctx context.Context, _ *websocket.Conn, payload json.RawMessage) error {
	input, err := decode[seekInput](c, payload)
	if err != nil {
		return err
	}

	syncResp, err := c.roomService.Seek(ctx, &room.SeekParams{
		RoomID:   c.getRoomIDFromCtx(ctx),
		SocketID: c.getSocketIDFromCtx(ctx),
		Progress: input.Progress,
	})
	if err != nil {
		return fmt.Errorf("failed to seek: %w", err)
	}

	c.broadcastUpdate(ctx, syncResp)

	return nil
}

func (c controller) handlePlayEnded(ctx context.Context, _ *websocket.Conn, _ json.RawMessage) error {
	syncResp, err := c.roomService.PlayEnded(ctx, &room.PlayEndedParams{
		RoomID:   c.getRoomIDFromCtx(ctx),
		SocketID: c.getSocketIDFromCtx(ctx),
	})
	if err != nil {
		return fmt.Errorf("failed to handle play ended: %w", err)
	}

	c.broadcastUpdate(ctx, syncResp)

	return nil
}

func (c controller) handlePlayAgain(ctx context.Context, _ *websocket.Conn, _ json.RawMessage) error {
	syncResp, err := c.roomService.PlayAgain(ctx, &room.PlayAgainParams{
		RoomID:   c.getRoomIDFromCtx(ctx),
		SocketID: c.getSocketIDFromCtx(ctx),
	})
	if err != nil {
		return fmt.Errorf("failed to handle play again: %w", err)
	}

	c.broadcastUpdate(ctx, syncResp)

	return nil
}

type playURLInput struct {
	URL string `json:"url" validate:"required"`
}

func (c controller) handlePlayURL(ctx context.Context, _ *websocket.Conn, payload json.RawMessage) error {
	input, err := decode[playURLInput](c, payload)
	if err != nil {
		return err
	}

	syncResp, err := c.roomService.PlayURL(ctx, &room.PlayURLParams{
		RoomID:   c.getRoomIDFromCtx(ctx),
		SocketID: c.getSocketIDFromCtx(ctx),
		URL:      input.URL,
	})
	if err != nil {
		return fmt.Errorf("failed to play url: %w", err)
	}

	c.broadcastUpdate(ctx, syncResp)

	return nil
}

type playItemFromPlaylistInput struct {
	Index int `json:"index"`
}

func (c controller) handlePlayItemFromPlaylist(ctx context.Context, _ *websocket.Conn, payload json.RawMessage) error {
	input, err := decode[playItemFromPlaylistInput](c, payload)
	if err != nil {
		return err
	}

	syncResp, err := c.roomService.PlayItemFromPlaylist(ctx, &room.PlayItemFromPlaylistParams{
		RoomID:   c.getRoomIDFromCtx(ctx),
		SocketID: c.getSocketIDFromCtx(ctx),
		Index:    input.Index,
	})
	if err != nil {
		return fmt.Errorf("failed to play playlist item: %w", err)
	}

	c.broadcastUpdate(ctx, syncResp)

	return nil
}

type updatePlaylistInput struct {
	Playlist domain.Playlist `json:"playlist"`
}

func (c controller) handleUpdatePlaylist(ctx context.Context, _ *websocket.Conn, payload json.RawMessage) error {
	input, err := decode[updatePlaylistInput](c, payload)
	if err != nil {
		return err
	}

	syncResp, err := c.roomService.UpdatePlaylist(ctx, &room.UpdatePlaylistParams{
		RoomID:   c.getRoomIDFromCtx(ctx),
		Playlist: input.Playlist,
	})
	if err != nil {
		return fmt.Errorf("failed to update playlist: %w", err)
	}

	c.broadcastUpdate(ctx, syncResp)

	return nil
}
