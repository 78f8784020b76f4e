// Package room implements the room synchronization engine: lifecycle,
// playback target-state mutations, playlist transitions and the chat,
// reaction and translation sub-stream. Every mutation runs as a
// get -> mutate -> set sequence under the room's lock, so commands apply in
// arrival order per room and no interleaved update is lost.
package room

import (
	"context"
	"errors"
	"log/slog"

	"github.com/gorilla/websocket"

	"github.com/syncwatch/server/internal/domain"
	roomRepo "github.com/syncwatch/server/internal/repository/room"
	"github.com/syncwatch/server/pkg/keylock"
)

var (
	ErrRoomNotFound    = errors.New("room not found")
	ErrUserNotFound    = errors.New("user not found")
	ErrMessageNotFound = errors.New("message not found")
)

type iRoomRepo interface {
	GetRoom(ctx context.Context, roomID string) (domain.RoomState, error)
	SetRoom(ctx context.Context, state *domain.RoomState) error
	DeleteRoom(ctx context.Context, roomID string) error
	RoomExists(ctx context.Context, roomID string) (bool, error)
	IncrUsers(ctx context.Context) error
	DecrUsers(ctx context.Context) error
	IncrRooms(ctx context.Context) error
	DecrRooms(ctx context.Context) error
	GetStats(ctx context.Context) (roomRepo.Stats, error)
}

type iConnRepo interface {
	Add(conn *websocket.Conn, socketID, roomID string) error
	RemoveByConn(conn *websocket.Conn) (socketID, roomID string, err error)
	GetConn(socketID string) (*websocket.Conn, error)
	GetRoomConns(roomID string) []*websocket.Conn
}

type iTranslator interface {
	Translate(ctx context.Context, text, targetLanguage string) (string, error)
}

type Config struct {
	DefaultVideoURL string
}

type service struct {
	roomRepo   iRoomRepo
	connRepo   iConnRepo
	translator iTranslator
	locks      *keylock.KeyLock
	logger     *slog.Logger

	defaultVideoURL string
}

func NewService(roomRepo iRoomRepo, connRepo iConnRepo, translator iTranslator, cfg *Config, logger *slog.Logger) *service {
	return &service{
		roomRepo:        roomRepo,
		connRepo:        connRepo,
		translator:      translator,
		locks:           keylock.New(),
		logger:          logger,
		defaultVideoURL: cfg.DefaultVideoURL,
	}
}

func (s *service) GetStats(ctx context.Context) (roomRepo.Stats, error) {
	return s.roomRepo.GetStats(ctx)
}
