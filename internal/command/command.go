// Package command parses chat commands and runs the roster export flows.
package command

import (
	"context"
	"encoding/json"
	"strings"
	"sync/atomic"

	"github.com/futureppo/groupexport/internal/config"
	"github.com/futureppo/groupexport/internal/onebot"
	"go.uber.org/zap"
)

// Client is the platform capability the export flows call out to. Satisfied
// by *onebot.Client; tests substitute fakes.
type Client interface {
	GetGroupMemberList(ctx context.Context, groupID int64) ([]json.RawMessage, error)
	GetGroupList(ctx context.Context) ([]onebot.Group, error)
	UploadGroupFile(ctx context.Context, groupID int64, fileURI, name string) error
	UploadPrivateFile(ctx context.Context, userID int64, fileURI, name string) error
}

// Replier sends status text back to the chat a command came from. A handler
// emits a finite ordered sequence of replies before its final outcome.
type Replier interface {
	Reply(ctx context.Context, text string) error
}

// Handler dispatches message events to the export flows. It keeps no state
// across invocations; the bot config pointer is swapped atomically on reload.
type Handler struct {
	client Client
	bot    atomic.Pointer[config.BotConfig]
	logger *zap.Logger
}

// NewHandler creates a handler using client for all platform calls.
func NewHandler(client Client, bot *config.BotConfig, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	h := &Handler{client: client, logger: logger}
	h.bot.Store(bot)
	return h
}

// UpdateBot swaps the command keywords and admin list, e.g. after a config reload.
func (h *Handler) UpdateBot(bot *config.BotConfig) {
	h.bot.Store(bot)
}

// HandleMessage runs the command named by the event's message text, if any.
// Unrelated messages are ignored.
func (h *Handler) HandleMessage(ctx context.Context, ev *onebot.MessageEvent, r Replier) {
	bot := h.bot.Load()
	text := strings.TrimSpace(ev.RawMessage)
	switch {
	case text == bot.ExportAllCommand:
		h.exportAll(ctx, bot, ev, r)
	case strings.HasPrefix(text, bot.ExportCommand):
		arg := strings.TrimSpace(strings.TrimPrefix(text, bot.ExportCommand))
		h.exportOne(ctx, ev, arg, r)
	}
}

// reply sends status text and logs delivery problems without failing the flow.
func (h *Handler) reply(ctx context.Context, r Replier, text string) {
	if err := r.Reply(ctx, text); err != nil {
		h.logger.Warn("status reply failed", zap.Error(err))
	}
}

// isDigits reports whether s is non-empty and all ASCII digits.
func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
