package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syncwatch/server/internal/domain"
	"github.com/syncwatch/server/internal/repository/room"
)

func newTestRepo(t *testing.T) (*repo, *miniredis.Miniredis) {
	t.Helper()

	s := miniredis.RunT(t)
	rc := goredis.NewClient(&goredis.Options{
		Addr: s.Addr(),
	})

	return NewRepo(rc, time.Hour), s
}

func TestRoomRoundTrip(t *testing.T) {
	repo, s := newTestRepo(t)
	ctx := context.Background()

	state := domain.NewRoomState("abcd", "https://example.com/a.mp4")
	state.OwnerID = "u1"
	state.Users = append(state.Users, domain.NewUserState("u1", "s1", "alice"))
	state.ChatState.Append(domain.NewChatMessage("u1", "alice", "", "hi", domain.MessageKindText, ""))

	require.NoError(t, repo.SetRoom(ctx, state))
	assert.True(t, s.Exists("room:abcd"))

	got, err := repo.GetRoom(ctx, "abcd")
	require.NoError(t, err)
	assert.Equal(t, "abcd", got.ID)
	assert.Equal(t, "u1", got.OwnerID)
	require.Equal(t, 1, len(got.Users))
	assert.Equal(t, "alice", got.Users[0].Name)
	assert.Equal(t, state.TargetState.LastSync, got.TargetState.LastSync)
	require.Equal(t, 1, len(got.ChatState.Messages))
	assert.Equal(t, "hi", got.ChatState.Messages[0].Content)

	exists, err := repo.RoomExists(ctx, "abcd")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestGetRoomRefreshesTTL(t *testing.T) {
	repo, s := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.SetRoom(ctx, domain.NewRoomState("abcd", "")))

	s.FastForward(30 * time.Minute)
	_, err := repo.GetRoom(ctx, "abcd")
	require.NoError(t, err)

	// the read pushed the deadline back, so the room survives past the
	// original expiry
	s.FastForward(45 * time.Minute)
	_, err = repo.GetRoom(ctx, "abcd")
	assert.NoError(t, err)
}

func TestRoomNotFound(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	_, err := repo.GetRoom(ctx, "missing")
	assert.ErrorIs(t, err, room.ErrRoomNotFound)

	err = repo.DeleteRoom(ctx, "missing")
	assert.ErrorIs(t, err, room.ErrRoomNotFound)

	exists, err := repo.RoomExists(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestDeleteRoom(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.SetRoom(ctx, domain.NewRoomState("abcd", "")))
	require.NoError(t, repo.DeleteRoom(ctx, "abcd"))

	_, err := repo.GetRoom(ctx, "abcd")
	assert.ErrorIs(t, err, room.ErrRoomNotFound)
}

func TestCounters(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	// missing counters read as zero
	stats, err := repo.GetStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, room.Stats{}, stats)

	require.NoError(t, repo.IncrUsers(ctx))
	require.NoError(t, repo.IncrUsers(ctx))
	require.NoError(t, repo.IncrRooms(ctx))

	stats, err = repo.GetStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.Users)
	assert.Equal(t, int64(1), stats.Rooms)

	require.NoError(t, repo.DecrUsers(ctx))
	require.NoError(t, repo.DecrRooms(ctx))

	stats, err = repo.GetStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.Users)
	assert.Equal(t, int64(0), stats.Rooms)
}
