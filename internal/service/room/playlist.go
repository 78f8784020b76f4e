package room

import (
	"context"
	"errors"

	"github.com/syncwatch/server/internal/domain"
)

type PlayItemFromPlaylistParams struct {
	RoomID   string
	SocketID string
	Index    int
}

// PlayItemFromPlaylist switches playback to the queue item at the given
// index. An out-of-range index is a logged no-op, never an error surfaced to
// the sender.
func (s *service) PlayItemFromPlaylist(ctx context.Context, params *PlayItemFromPlaylistParams) (SyncResponse, error) {
	state, err := s.updateRoom(ctx, params.RoomID, func(state *domain.RoomState) error {
		if params.Index < 0 || params.Index >= len(state.TargetState.Playlist.Items) {
			return errSkipBroadcast
		}

		state.TargetState.Playing = state.TargetState.Playlist.Items[params.Index]
		state.TargetState.Playlist.CurrentIndex = params.Index
		state.TargetState.Progress = 0
		state.StampSync()
		state.AppendCommand(domain.CommandPlaySrc, s.senderUID(state, params.SocketID), params.Index)

		return nil
	})
	if err != nil {
		if errors.Is(err, errSkipBroadcast) {
			return s.noopResponse(params.RoomID, "playlist index out of range", "index", params.Index), nil
		}

		return SyncResponse{}, err
	}

	return s.broadcastResponse(state), nil
}

type UpdatePlaylistParams struct {
	RoomID   string
	Playlist domain.Playlist
}

// UpdatePlaylist replaces the queue wholesale. A currentIndex outside
// [-1, len(items)) rejects the whole update as a logged no-op.
func (s *service) UpdatePlaylist(ctx context.Context, params *UpdatePlaylistParams) (SyncResponse, error) {
	if params.Playlist.CurrentIndex < -1 || params.Playlist.CurrentIndex >= len(params.Playlist.Items) {
		return s.noopResponse(params.RoomID, "playlist currentIndex out of range",
			"currentIndex", params.Playlist.CurrentIndex,
			"items", len(params.Playlist.Items),
		), nil
	}

	state, err := s.updateRoom(ctx, params.RoomID, func(state *domain.RoomState) error {
		state.TargetState.Playlist = params.Playlist

		return nil
	})
	if err != nil {
		return SyncResponse{}, err
	}

	return s.broadcastResponse(state), nil
}
