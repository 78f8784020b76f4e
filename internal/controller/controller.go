package controller

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/websocket"

	"github.com/syncwatch/server/internal/domain"
	roomRepo "github.com/syncwatch/server/internal/repository/room"
	"github.com/syncwatch/server/internal/service/room"
	"github.com/syncwatch/server/pkg/mediaresolver"
	"github.com/syncwatch/server/pkg/randstr"
	"github.com/syncwatch/server/pkg/validator"
	"github.com/syncwatch/server/pkg/wsrouter"
)

type iRoomService interface {
	Attach(context.Context, *room.AttachParams) (room.AttachResponse, error)
	JoinRoom(context.Context, *room.JoinRoomParams) (room.JoinRoomResponse, error)
	Disconnect(context.Context, *room.DisconnectParams) (room.DisconnectResponse, error)
	Fetch(ctx context.Context, roomID string) (domain.RoomState, error)
	UpdateUser(context.Context, *room.UpdateUserParams) (room.SyncResponse, error)

	SetPaused(context.Context, *room.SetPausedParams) (room.SyncResponse, error)
	SetLoop(context.Context, *room.SetLoopParams) (room.SyncResponse, error)
	SetPlaybackRate(context.Context, *room.SetPlaybackRateParams) (room.SyncResponse, error)
	Seek(context.Context, *room.SeekParams) (room.SyncResponse, error)
	SetProgress(context.Context, *room.SetProgressParams) (room.SyncResponse, error)
	PlayEnded(context.Context, *room.PlayEndedParams) (room.SyncResponse, error)
	PlayAgain(context.Context, *room.PlayAgainParams) (room.SyncResponse, error)
	PlayURL(context.Context, *room.PlayURLParams) (room.SyncResponse, error)
	PlayItemFromPlaylist(context.Context, *room.PlayItemFromPlaylistParams) (room.SyncResponse, error)
	UpdatePlaylist(context.Context, *room.UpdatePlaylistParams) (room.SyncResponse, error)

	SendMessage(context.Context, *room.SendMessageParams) (room.SendMessageResponse, error)
	FetchChatHistory(ctx context.Context, roomID string) (domain.ChatState, error)
	AddMessageReaction(context.Context, *room.MessageReactionParams) (room.MessageReactionResponse, error)
	RemoveMessageReaction(context.Context, *room.MessageReactionParams) (room.MessageReactionResponse, error)
	TranslateMessage(context.Context, *room.TranslateMessageParams) (room.TranslateMessageResponse, error)
	SendReaction(context.Context, *room.SendReactionParams) (room.SendReactionResponse, error)
	SetTyping(context.Context, *room.SetTypingParams) (room.SetTypingResponse, error)

	GetStats(ctx context.Context) (roomRepo.Stats, error)
}

type iSourceResolver interface {
	Resolve(ctx context.Context, url string) (*mediaresolver.MediaInfo, error)
}

type controller struct {
	roomService iRoomService
	resolver    iSourceResolver
	upgrader    websocket.Upgrader
	validate    *validator.Validator
	wsmux       *wsrouter.WSRouter
	generator   *randstr.Generator
	logger      *slog.Logger
}

func NewController(roomService iRoomService, resolver iSourceResolver, logger *slog.Logger) *controller {
	c := &controller{
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		roomService: roomService,
		resolver:    resolver,
		validate:    validator.NewValidator(),
		generator:   randstr.New([]byte("abcdefghijklmnopqrstuvwxyz0123456789")),
		logger:      logger,
	}
	c.wsmux = c.getWSRouter()

	return c
}

func (c controller) generateTimeBasedID() string {
	return strconv.FormatInt(time.Now().UnixNano(), 36)
}
