package telegram

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/avoronin/intakebot/internal/assist"
	"github.com/avoronin/intakebot/internal/flow"
	"github.com/avoronin/intakebot/internal/store"
)

// stubAPI records sent messages and serves scripted updates.
type stubAPI struct {
	sent []string
}

func (s *stubAPI) GetMe(context.Context) (*User, error) {
	return &User{ID: 1, IsBot: true, Username: "intake_bot"}, nil
}

func (s *stubAPI) GetUpdates(context.Context, int64) ([]Update, error) {
	return nil, nil
}

func (s *stubAPI) SendMessage(_ context.Context, _ int64, text string) error {
	s.sent = append(s.sent, text)
	return nil
}

func newPollerForTest(t *testing.T) (*Poller, *stubAPI) {
	t.Helper()
	repo, err := store.NewSQLite(filepath.Join(t.TempDir(), "cases.db"))
	if err != nil {
		t.Fatalf("NewSQLite failed: %v", err)
	}
	t.Cleanup(func() { repo.Close() })

	f := flow.New(assist.WithFallback(nil, nil), repo, time.Hour, flow.Limits{})
	api := &stubAPI{}
	return NewPoller(api, f), api
}

func textUpdate(id, chatID int64, text string) Update {
	return Update{UpdateID: id, Message: &Message{MessageID: id, Chat: Chat{ID: chatID}, Text: text}}
}

func TestStartCommandRepliesWithGreeting(t *testing.T) {
	p, api := newPollerForTest(t)

	p.handleUpdate(context.Background(), textUpdate(1, 42, "/start"))
	if len(api.sent) != 1 {
		t.Fatalf("Expected one reply, got %d", len(api.sent))
	}
	if !strings.Contains(api.sent[0], "intake assistant") {
		t.Errorf("Expected the greeting, got %q", api.sent[0])
	}
}

func TestHelpCommandRepliesWithHelp(t *testing.T) {
	p, api := newPollerForTest(t)

	p.handleUpdate(context.Background(), textUpdate(1, 42, "/help"))
	if len(api.sent) != 1 || api.sent[0] != helpText {
		t.Errorf("Expected the help text, got %v", api.sent)
	}
}

func TestUnknownCommandIgnored(t *testing.T) {
	p, api := newPollerForTest(t)

	p.handleUpdate(context.Background(), textUpdate(1, 42, "/settings"))
	if len(api.sent) != 0 {
		t.Errorf("Unknown commands should be ignored, got replies %v", api.sent)
	}
}

func TestNonTextUpdatesIgnored(t *testing.T) {
	p, api := newPollerForTest(t)

	p.handleUpdate(context.Background(), Update{UpdateID: 1})
	p.handleUpdate(context.Background(), Update{UpdateID: 2, Message: &Message{Chat: Chat{ID: 42}}})
	if len(api.sent) != 0 {
		t.Errorf("Updates without text should be ignored, got replies %v", api.sent)
	}
}

func TestTextMessageAdvancesDialogue(t *testing.T) {
	p, api := newPollerForTest(t)
	ctx := context.Background()

	p.handleUpdate(ctx, textUpdate(1, 42, "/start"))
	p.handleUpdate(ctx, textUpdate(2, 42, "overdue credit card"))

	if len(api.sent) != 2 {
		t.Fatalf("Expected two replies, got %d", len(api.sent))
	}
	if !strings.Contains(api.sent[1], "What kind of debts") {
		t.Errorf("Expected the debt details question, got %q", api.sent[1])
	}
}
