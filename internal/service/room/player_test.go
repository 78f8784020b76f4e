package room

import (
	"context"
	"testing"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syncwatch/server/internal/domain"
)

func attachTestUser(t *testing.T, service *service, roomID, socketID, uid string) {
	t.Helper()

	_, err := service.Attach(context.Background(), &AttachParams{
		RoomID:   roomID,
		SocketID: socketID,
		UID:      uid,
		Name:     uid,
		Conn:     &websocket.Conn{},
	})
	require.NoError(t, err)
}

func TestSetPaused(t *testing.T) {
	service := newTestService(t, &stubTranslator{})
	ctx := context.Background()
	attachTestUser(t, service, "abcd", "s1", "u1")

	before, err := service.Fetch(ctx, "abcd")
	require.NoError(t, err)

	syncResp, err := service.SetPaused(ctx, &SetPausedParams{
		RoomID:   "abcd",
		SocketID: "s1",
		Paused:   true,
	})
	require.NoError(t, err)
	require.NotNil(t, syncResp.Room)
	assert.True(t, syncResp.Room.TargetState.Paused)
	assert.GreaterOrEqual(t, syncResp.Room.TargetState.LastSync, before.TargetState.LastSync, "pause must refresh the sync anchor")
	require.NotEmpty(t, syncResp.Room.CommandHistory)
	lastCmd := syncResp.Room.CommandHistory[len(syncResp.Room.CommandHistory)-1]
	assert.Equal(t, domain.CommandPause, lastCmd.Command)
	assert.Equal(t, "u1", lastCmd.UserID)

	syncResp, err = service.SetPaused(ctx, &SetPausedParams{
		RoomID:   "abcd",
		SocketID: "s1",
		Paused:   false,
	})
	require.NoError(t, err)
	assert.False(t, syncResp.Room.TargetState.Paused)
	lastCmd = syncResp.Room.CommandHistory[len(syncResp.Room.CommandHistory)-1]
	assert.Equal(t, domain.CommandPlay, lastCmd.Command)
}

func TestSeek(t *testing.T) {
	service := newTestService(t, &stubTranslator{})
	ctx := context.Background()
	attachTestUser(t, service, "abcd", "s1", "u1")

	syncResp, err := service.Seek(ctx, &SeekParams{
		RoomID:   "abcd",
		SocketID: "s1",
		Progress: 42.5,
	})
	require.NoError(t, err)
	require.NotNil(t, syncResp.Room)
	assert.Equal(t, 42.5, syncResp.Room.TargetState.Progress)
	lastCmd := syncResp.Room.CommandHistory[len(syncResp.Room.CommandHistory)-1]
	assert.Equal(t, domain.CommandSeek, lastCmd.Command)
}

func TestSetPlaybackRate(t *testing.T) {
	service := newTestService(t, &stubTranslator{})
	ctx := context.Background()
	attachTestUser(t, service, "abcd", "s1", "u1")

	syncResp, err := service.SetPlaybackRate(ctx, &SetPlaybackRateParams{
		RoomID:       "abcd",
		SocketID:     "s1",
		PlaybackRate: 1.5,
	})
	require.NoError(t, err)
	require.NotNil(t, syncResp.Room)
	assert.Equal(t, 1.5, syncResp.Room.TargetState.PlaybackRate)
	lastCmd := syncResp.Room.CommandHistory[len(syncResp.Room.CommandHistory)-1]
	assert.Equal(t, domain.CommandPlaybackRate, lastCmd.Command)
}

func TestSetProgressIsTelemetry(t *testing.T) {
	service := newTestService(t, &stubTranslator{})
	ctx := context.Background()
	attachTestUser(t, service, "abcd", "s1", "u1")

	before, err := service.Fetch(ctx, "abcd")
	require.NoError(t, err)

	syncResp, err := service.SetProgress(ctx, &SetProgressParams{
		RoomID:   "abcd",
		SocketID: "s1",
		Progress: 17,
	})
	require.NoError(t, err)
	require.NotNil(t, syncResp.Room)
	assert.Equal(t, float64(17), syncResp.Room.Users[0].Player.Progress)
	assert.Equal(t, before.TargetState.Progress, syncResp.Room.TargetState.Progress, "telemetry must not move the target")
	assert.Equal(t, before.TargetState.LastSync, syncResp.Room.TargetState.LastSync, "telemetry must not refresh the sync anchor")
}

func TestPlayURL(t *testing.T) {
	service := newTestService(t, &stubTranslator{})
	ctx := context.Background()
	attachTestUser(t, service, "abcd", "s1", "u1")

	syncResp, err := service.PlayURL(ctx, &PlayURLParams{
		RoomID:   "abcd",
		SocketID: "s1",
		URL:      "https://example.com/movies/film.mp4",
	})
	require.NoError(t, err)
	require.NotNil(t, syncResp.Room)
	require.Equal(t, 1, len(syncResp.Room.TargetState.Playing.Src))
	assert.Equal(t, "https://example.com/movies/film.mp4", syncResp.Room.TargetState.Playing.Src[0].Src)
	assert.Equal(t, -1, syncResp.Room.TargetState.Playlist.CurrentIndex, "ad-hoc playback must detach from the queue")
	assert.Equal(t, float64(0), syncResp.Room.TargetState.Progress)

	// urls that do not look like video are rejected without a broadcast
	syncResp, err = service.PlayURL(ctx, &PlayURLParams{
		RoomID:   "abcd",
		SocketID: "s1",
		URL:      "https://example.com/about",
	})
	require.NoError(t, err)
	assert.Nil(t, syncResp.Room)
}

func TestPlaylistFlow(t *testing.T) {
	service := newTestService(t, &stubTranslator{})
	ctx := context.Background()
	attachTestUser(t, service, "abcd", "s1", "u1")

	playlist := domain.Playlist{
		Items: []domain.MediaElement{
			{Title: "first", Src: []domain.MediaOption{{Src: "https://example.com/a.mp4"}}},
			{Title: "second", Src: []domain.MediaOption{{Src: "https://example.com/b.mp4"}}},
		},
		CurrentIndex: -1,
	}
	syncResp, err := service.UpdatePlaylist(ctx, &UpdatePlaylistParams{
		RoomID:   "abcd",
		Playlist: playlist,
	})
	require.NoError(t, err)
	require.NotNil(t, syncResp.Room)
	assert.Equal(t, 2, len(syncResp.Room.TargetState.Playlist.Items))

	syncResp, err = service.PlayItemFromPlaylist(ctx, &PlayItemFromPlaylistParams{
		RoomID:   "abcd",
		SocketID: "s1",
		Index:    1,
	})
	require.NoError(t, err)
	require.NotNil(t, syncResp.Room)
	assert.Equal(t, "second", syncResp.Room.TargetState.Playing.Title)
	assert.Equal(t, 1, syncResp.Room.TargetState.Playlist.CurrentIndex)
	assert.Equal(t, float64(0), syncResp.Room.TargetState.Progress)

	// out of range index is a no-op, not an error
	syncResp, err = service.PlayItemFromPlaylist(ctx, &PlayItemFromPlaylistParams{
		RoomID:   "abcd",
		SocketID: "s1",
		Index:    5,
	})
	require.NoError(t, err)
	assert.Nil(t, syncResp.Room)

	// and so is an update with a currentIndex outside the queue
	playlist.CurrentIndex = 7
	syncResp, err = service.UpdatePlaylist(ctx, &UpdatePlaylistParams{
		RoomID:   "abcd",
		Playlist: playlist,
	})
	require.NoError(t, err)
	assert.Nil(t, syncResp.Room)

	state, err := service.Fetch(ctx, "abcd")
	require.NoError(t, err)
	assert.Equal(t, 1, state.TargetState.Playlist.CurrentIndex, "rejected update must not change the queue")
}

func TestPlayEnded(t *testing.T) {
	service := newTestService(t, &stubTranslator{})
	ctx := context.Background()
	attachTestUser(t, service, "abcd", "s1", "u1")

	// loop restarts the current media
	_, err := service.SetLoop(ctx, &SetLoopParams{RoomID: "abcd", Loop: true})
	require.NoError(t, err)
	_, err = service.Seek(ctx, &SeekParams{RoomID: "abcd", SocketID: "s1", Progress: 100})
	require.NoError(t, err)

	syncResp, err := service.PlayEnded(ctx, &PlayEndedParams{RoomID: "abcd", SocketID: "s1"})
	require.NoError(t, err)
	require.NotNil(t, syncResp.Room)
	assert.Equal(t, float64(0), syncResp.Room.TargetState.Progress)
	assert.False(t, syncResp.Room.TargetState.Paused)

	// a pending playlist item advances
	_, err = service.SetLoop(ctx, &SetLoopParams{RoomID: "abcd", Loop: false})
	require.NoError(t, err)
	_, err = service.UpdatePlaylist(ctx, &UpdatePlaylistParams{
		RoomID: "abcd",
		Playlist: domain.Playlist{
			Items: []domain.MediaElement{
				{Title: "first", Src: []domain.MediaOption{{Src: "https://example.com/a.mp4"}}},
				{Title: "second", Src: []domain.MediaOption{{Src: "https://example.com/b.mp4"}}},
			},
			CurrentIndex: -1,
		},
	})
	require.NoError(t, err)
	_, err = service.PlayItemFromPlaylist(ctx, &PlayItemFromPlaylistParams{RoomID: "abcd", SocketID: "s1", Index: 0})
	require.NoError(t, err)

	syncResp, err = service.PlayEnded(ctx, &PlayEndedParams{RoomID: "abcd", SocketID: "s1"})
	require.NoError(t, err)
	assert.Equal(t, 1, syncResp.Room.TargetState.Playlist.CurrentIndex)
	assert.Equal(t, "second", syncResp.Room.TargetState.Playing.Title)
	assert.False(t, syncResp.Room.TargetState.Paused)

	// nothing left: freeze at the reporter's last known position
	_, err = service.SetProgress(ctx, &SetProgressParams{RoomID: "abcd", SocketID: "s1", Progress: 123})
	require.NoError(t, err)

	syncResp, err = service.PlayEnded(ctx, &PlayEndedParams{RoomID: "abcd", SocketID: "s1"})
	require.NoError(t, err)
	assert.Equal(t, float64(123), syncResp.Room.TargetState.Progress)
	assert.True(t, syncResp.Room.TargetState.Paused)
}

func TestPlayAgain(t *testing.T) {
	service := newTestService(t, &stubTranslator{})
	ctx := context.Background()
	attachTestUser(t, service, "abcd", "s1", "u1")

	_, err := service.Seek(ctx, &SeekParams{RoomID: "abcd", SocketID: "s1", Progress: 99})
	require.NoError(t, err)
	_, err = service.SetPaused(ctx, &SetPausedParams{RoomID: "abcd", SocketID: "s1", Paused: true})
	require.NoError(t, err)

	syncResp, err := service.PlayAgain(ctx, &PlayAgainParams{RoomID: "abcd", SocketID: "s1"})
	require.NoError(t, err)
	require.NotNil(t, syncResp.Room)
	assert.Equal(t, float64(0), syncResp.Room.TargetState.Progress)
	assert.False(t, syncResp.Room.TargetState.Paused)
}

func TestCommandOnMissingRoom(t *testing.T) {
	service := newTestService(t, &stubTranslator{})

	_, err := service.SetPaused(context.Background(), &SetPausedParams{
		RoomID:   "nope",
		SocketID: "s1",
		Paused:   true,
	})
	assert.ErrorIs(t, err, ErrRoomNotFound)
}
