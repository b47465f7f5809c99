package telegram

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/avoronin/intakebot/internal/flow"
)

const helpText = "I collect information about debts to pass it to a lawyer. Use /start to begin."

const pollErrorBackoff = 3 * time.Second

// Poller pulls updates off the Bot API and feeds text messages into the
// intake flow, relaying each reply back to the chat. Telegram delivers one
// update at a time per chat in practice; per-chat serialization is enforced
// by the flow's session locks either way.
type Poller struct {
	api  API
	flow *flow.Flow
}

// NewPoller creates a long-poll dispatcher.
func NewPoller(api API, f *flow.Flow) *Poller {
	return &Poller{api: api, flow: f}
}

// Run verifies the token and polls for updates until the context is
// cancelled.
func (p *Poller) Run(ctx context.Context) error {
	me, err := p.api.GetMe(ctx)
	if err != nil {
		return fmt.Errorf("verify bot token: %w", err)
	}
	slog.Info("Telegram bot authorized", "username", me.Username, "bot_id", me.ID)

	var offset int64
	for {
		select {
		case <-ctx.Done():
			slog.Info("Telegram poller shutting down", "reason", ctx.Err())
			return nil
		default:
		}

		updates, err := p.api.GetUpdates(ctx, offset)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			slog.Warn("getUpdates failed, backing off", "error", err, "backoff", pollErrorBackoff)
			select {
			case <-time.After(pollErrorBackoff):
			case <-ctx.Done():
				return nil
			}
			continue
		}

		for _, update := range updates {
			offset = update.UpdateID + 1
			p.handleUpdate(ctx, update)
		}
	}
}

func (p *Poller) handleUpdate(ctx context.Context, update Update) {
	if update.Message == nil || update.Message.Text == "" {
		return
	}

	chatID := update.Message.Chat.ID
	key := strconv.FormatInt(chatID, 10)
	text := update.Message.Text

	var result flow.Result
	switch {
	case strings.TrimSpace(text) == "/start":
		result = p.flow.StartSession(ctx, key)
	case strings.TrimSpace(text) == "/help":
		result = flow.Result{ReplyText: helpText}
	case strings.HasPrefix(strings.TrimSpace(text), "/"):
		// Unknown commands are ignored, matching a text-only message filter.
		return
	default:
		result = p.flow.ProcessMessage(ctx, key, text)
	}

	if err := p.api.SendMessage(ctx, chatID, result.ReplyText); err != nil {
		slog.Error("Failed to send reply", "chat_id", chatID, "error", err)
	}
}
