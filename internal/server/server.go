// Package server provides the HTTP endpoint that receives OneBot event pushes.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/futureppo/groupexport/internal/command"
	"github.com/futureppo/groupexport/internal/config"
	"github.com/futureppo/groupexport/internal/onebot"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// dispatchTimeout bounds one export invocation, started from an event push.
// Multi-group exports do one fetch per group, so this is generous.
const dispatchTimeout = 10 * time.Minute

// Messenger sends chat messages; satisfied by *onebot.Client.
type Messenger interface {
	SendGroupMessage(ctx context.Context, groupID int64, text string) error
	SendPrivateMessage(ctx context.Context, userID int64, text string) error
}

// Server receives OneBot HTTP event pushes and dispatches message events to
// the command handler.
type Server struct {
	handler   *command.Handler
	messenger Messenger
	config    *config.ServerConfig
	logger    *zap.Logger
	server    *http.Server
}

// NewServer creates a server with the given dependencies.
func NewServer(handler *command.Handler, messenger Messenger, cfg *config.ServerConfig, logger *zap.Logger) *Server {
	return &Server{
		handler:   handler,
		messenger: messenger,
		config:    cfg,
		logger:    logger,
	}
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(10 * time.Second))

	r.Post("/", s.handleEvent)
	r.Get("/health", s.handleHealth)

	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	s.server = &http.Server{
		Addr:    addr,
		Handler: r,
	}
	s.logger.Info("Starting event server", zap.String("addr", addr))
	return s.server.ListenAndServe()
}

// Stop gracefully shuts down the server. Dispatched exports keep their own
// timeout and are not cancelled by shutdown.
func (s *Server) Stop(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}

// Dispatch runs one message event through the command handler, replying into
// the chat the event came from.
func (s *Server) Dispatch(ctx context.Context, ev *onebot.MessageEvent) {
	s.handler.HandleMessage(ctx, ev, &messengerReplier{messenger: s.messenger, event: ev})
}

// messengerReplier routes status replies back to the originating chat.
type messengerReplier struct {
	messenger Messenger
	event     *onebot.MessageEvent
}

func (r *messengerReplier) Reply(ctx context.Context, text string) error {
	if r.event.IsGroup() {
		return r.messenger.SendGroupMessage(ctx, r.event.GroupID, text)
	}
	return r.messenger.SendPrivateMessage(ctx, r.event.UserID, text)
}
