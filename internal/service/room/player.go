package room

import (
	"context"

	"github.com/syncwatch/server/internal/domain"
	"github.com/syncwatch/server/pkg/videourl"
)

type SetPausedParams struct {
	RoomID   string
	SocketID string
	Paused   bool
}

func (s *service) SetPaused(ctx context.Context, params *SetPausedParams) (SyncResponse, error) {
	state, err := s.updateRoom(ctx, params.RoomID, func(state *domain.RoomState) error {
		state.StampSync()
		state.TargetState.Paused = params.Paused

		cmd := domain.CommandPlay
		if params.Paused {
			cmd = domain.CommandPause
		}
		state.AppendCommand(cmd, s.senderUID(state, params.SocketID), nil)

		return nil
	})
	if err != nil {
		return SyncResponse{}, err
	}

	return s.broadcastResponse(state), nil
}

type SetLoopParams struct {
	RoomID string
	Loop   bool
}

func (s *service) SetLoop(ctx context.Context, params *SetLoopParams) (SyncResponse, error) {
	state, err := s.updateRoom(ctx, params.RoomID, func(state *domain.RoomState) error {
		state.StampSync()
		state.TargetState.Loop = params.Loop

		return nil
	})
	if err != nil {
		return SyncResponse{}, err
	}

	return s.broadcastResponse(state), nil
}

type SetPlaybackRateParams struct {
	RoomID       string
	SocketID     string
	PlaybackRate float64
}

func (s *service) SetPlaybackRate(ctx context.Context, params *SetPlaybackRateParams) (SyncResponse, error) {
	state, err := s.updateRoom(ctx, params.RoomID, func(state *domain.RoomState) error {
		state.StampSync()
		state.TargetState.PlaybackRate = params.PlaybackRate
		state.AppendCommand(domain.CommandPlaybackRate, s.senderUID(state, params.SocketID), params.PlaybackRate)

		return nil
	})
	if err != nil {
		return SyncResponse{}, err
	}

	return s.broadcastResponse(state), nil
}

type SeekParams struct {
	RoomID   string
	SocketID string
	Progress float64
}

func (s *service) Seek(ctx context.Context, params *SeekParams) (SyncResponse, error) {
	state, err := s.updateRoom(ctx, params.RoomID, func(state *domain.RoomState) error {
		state.TargetState.Progress = params.Progress
		state.StampSync()
		state.AppendCommand(domain.CommandSeek, s.senderUID(state, params.SocketID), params.Progress)

		return nil
	})
	if err != nil {
		return SyncResponse{}, err
	}

	return s.broadcastResponse(state), nil
}

type SetProgressParams struct {
	RoomID   string
	SocketID string
	Progress float64
}

// SetProgress records the reporting user's local playback position. It is
// telemetry: targetState and the sync anchor are untouched.
func (s *service) SetProgress(ctx context.Context, params *SetProgressParams) (SyncResponse, error) {
	state, err := s.updateRoom(ctx, params.RoomID, func(state *domain.RoomState) error {
		user := state.UserBySocketID(params.SocketID)
		if user == nil {
			return ErrUserNotFound
		}

		user.Player.Progress = params.Progress

		return nil
	})
	if err != nil {
		return SyncResponse{}, err
	}

	return s.broadcastResponse(state), nil
}

type PlayEndedParams struct {
	RoomID   string
	SocketID string
}

// PlayEnded resolves what happens when the current media finishes: loop
// restarts it, a pending playlist item advances, and otherwise playback
// freezes at the reporting user's last known position.
func (s *service) PlayEnded(ctx context.Context, params *PlayEndedParams) (SyncResponse, error) {
	state, err := s.updateRoom(ctx, params.RoomID, func(state *domain.RoomState) error {
		target := &state.TargetState

		switch {
		case target.Loop:
			target.Progress = 0
			target.Paused = false
		case target.Playlist.CurrentIndex+1 < len(target.Playlist.Items):
			target.Playlist.CurrentIndex++
			target.Playing = target.Playlist.Items[target.Playlist.CurrentIndex]
			target.Progress = 0
			target.Paused = false
		default:
			if user := state.UserBySocketID(params.SocketID); user != nil {
				target.Progress = user.Player.Progress
			}
			target.Paused = true
		}
		state.StampSync()

		return nil
	})
	if err != nil {
		return SyncResponse{}, err
	}

	return s.broadcastResponse(state), nil
}

type PlayAgainParams struct {
	RoomID   string
	SocketID string
}

func (s *service) PlayAgain(ctx context.Context, params *PlayAgainParams) (SyncResponse, error) {
	state, err := s.updateRoom(ctx, params.RoomID, func(state *domain.RoomState) error {
		state.TargetState.Progress = 0
		state.TargetState.Paused = false
		state.StampSync()
		state.AppendCommand(domain.CommandPlay, s.senderUID(state, params.SocketID), nil)

		return nil
	})
	if err != nil {
		return SyncResponse{}, err
	}

	return s.broadcastResponse(state), nil
}

type PlayURLParams struct {
	RoomID   string
	SocketID string
	URL      string
}

// PlayURL replaces the playing media with a single ad-hoc source, detaching
// playback from the queue. URLs that do not look like video are rejected as
// logged no-ops.
func (s *service) PlayURL(ctx context.Context, params *PlayURLParams) (SyncResponse, error) {
	if !videourl.IsValid(params.URL) {
		return s.noopResponse(params.RoomID, "invalid video url", "url", params.URL), nil
	}

	state, err := s.updateRoom(ctx, params.RoomID, func(state *domain.RoomState) error {
		state.TargetState.Playing = domain.MediaElement{
			Src: []domain.MediaOption{{Src: params.URL}},
			Sub: []domain.Subtitle{},
		}
		state.TargetState.Playlist.CurrentIndex = -1
		state.TargetState.Progress = 0
		state.StampSync()
		state.AppendCommand(domain.CommandPlaySrc, s.senderUID(state, params.SocketID), params.URL)

		return nil
	})
	if err != nil {
		return SyncResponse{}, err
	}

	return s.broadcastResponse(state), nil
}

func (s *service) senderUID(state *domain.RoomState, socketID string) string {
	if user := state.UserBySocketID(socketID); user != nil {
		return user.UID
	}

	return ""
}
