package controller

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/syncwatch/server/pkg/wsrouter"
)

func (c controller) GetMux() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(c.requestIDMw)
	r.Use(c.requestLoggingMw)
	r.Use(cors.AllowAll().Handler)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte("OK"))
		})
		r.Get("/stats", c.getStats)
		r.Get("/room/new", c.newRoomID)
		r.Post("/resolve", c.resolveSource)
		r.Route("/ws", func(r chi.Router) {
			r.Route("/room", func(r chi.Router) {
				r.Route("/{room-id}", func(r chi.Router) {
					r.Get("/", c.attachRoom)
				})
			})
		})
	})

	return r
}

func (c controller) getWSRouter() *wsrouter.WSRouter {
	mux := wsrouter.New()

	mux.Use(c.wsRequestIDMw())
	mux.Use(c.wsLoggerMw())

	// room
	mux.Handle("fetch", c.handleFetch)
	mux.Handle("joinRoom", c.handleJoinRoom)
	mux.Handle("updateUser", c.handleUpdateUser)

	// playback
	mux.Handle("setPaused", c.handleSetPaused)
	mux.Handle("setLoop", c.handleSetLoop)
	mux.Handle("setProgress", c.handleSetProgress)
	mux.Handle("setPlaybackRate", c.handleSetPlaybackRate)
	mux.Handle("seek", c.handleSeek)
	mux.Handle("playEnded", c.handlePlayEnded)
	mux.Handle("playAgain", c.handlePlayAgain)
	mux.Handle("playUrl", c.handlePlayURL)

	// playlist
	mux.Handle("playItemFromPlaylist", c.handlePlayItemFromPlaylist)
	mux.Handle("updatePlaylist", c.handleUpdatePlaylist)

	// chat
	mux.Handle("sendMessage", c.handleSendMessage)
	mux.Handle("fetchChatHistory", c.handleFetchChatHistory)
	mux.Handle("addMessageReaction", c.handleAddMessageReaction)
	mux.Handle("removeMessageReaction", c.handleRemoveMessageReaction)
	mux.Handle("translateMessage", c.handleTranslateMessage)
	mux.Handle("sendReaction", c.handleSendReaction)
	mux.Handle("setTyping", c.handleSetTyping)

	return mux
}
