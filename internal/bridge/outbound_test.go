package bridge

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"

	"github.com/Germiningeld/topicbridge/internal/telegram"
)

// captureHandler records emitted log records so tests can assert on the
// drop/warn policy.
type captureHandler struct {
	mu      sync.Mutex
	records []slog.Record
}

func (h *captureHandler) Enabled(context.Context, slog.Level) bool { return true }

func (h *captureHandler) Handle(_ context.Context, r slog.Record) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.records = append(h.records, r)
	return nil
}

func (h *captureHandler) WithAttrs([]slog.Attr) slog.Handler { return h }
func (h *captureHandler) WithGroup(string) slog.Handler      { return h }

func (h *captureHandler) messagesAt(level slog.Level) []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	var out []string
	for _, r := range h.records {
		if r.Level == level {
			out = append(out, r.Message)
		}
	}
	return out
}

func topicMessage(threadID int64, text string) *telegram.Message {
	return &telegram.Message{
		MessageID:       31,
		Chat:            &telegram.Chat{ID: -100123, Type: "supergroup"},
		From:            &telegram.User{ID: 900, FirstName: "Op"},
		Text:            text,
		IsTopicMessage:  true,
		MessageThreadID: threadID,
	}
}

func TestOutboundCopiesToMappedUser(t *testing.T) {
	t.Parallel()

	api := newFakeAPI()
	store := testStore(t)
	store.Put(42, 777)
	r := NewOutbound(api, store, -100123, testLogger())

	r.Handle(context.Background(), topicMessage(777, "we are on it"))

	if len(api.copies) != 1 {
		t.Fatalf("copies = %d, want 1", len(api.copies))
	}
	got := api.copies[0]
	if got.ChatID != 42 || got.FromChatID != -100123 || got.MessageID != 31 {
		t.Fatalf("copy = %+v, want to user 42 from group", got)
	}
	if got.MessageThreadID != 0 {
		t.Fatalf("copy thread id = %d, want 0 (private chats have no topics)", got.MessageThreadID)
	}
}

func TestOutboundIgnoresWrongOrigin(t *testing.T) {
	t.Parallel()

	api := newFakeAPI()
	store := testStore(t)
	store.Put(42, 777)
	r := NewOutbound(api, store, -100123, testLogger())

	// Wrong group.
	other := topicMessage(777, "hello")
	other.Chat = &telegram.Chat{ID: -100999, Type: "supergroup"}
	r.Handle(context.Background(), other)

	// Top-level group message outside any topic.
	plain := topicMessage(0, "hello")
	plain.IsTopicMessage = false
	r.Handle(context.Background(), plain)

	if len(api.copies) != 0 {
		t.Fatalf("copies = %d, want 0", len(api.copies))
	}
}

func TestOutboundWarnsOnUnmappedTopic(t *testing.T) {
	t.Parallel()

	api := newFakeAPI()
	capture := &captureHandler{}
	r := NewOutbound(api, testStore(t), -100123, slog.New(capture))

	r.Handle(context.Background(), topicMessage(12345, "anyone here?"))

	if len(api.copies) != 0 {
		t.Fatalf("copies = %d, want 0", len(api.copies))
	}
	warns := capture.messagesAt(slog.LevelWarn)
	if len(warns) != 1 || warns[0] != "outbound_unmapped_topic" {
		t.Fatalf("warnings = %v, want one outbound_unmapped_topic", warns)
	}
}

func TestOutboundIgnoresSystemMessagesSilently(t *testing.T) {
	t.Parallel()

	api := newFakeAPI()
	capture := &captureHandler{}
	store := testStore(t)
	store.Put(42, 777)
	r := NewOutbound(api, store, -100123, slog.New(capture))

	// No text, no caption, no media: a topic-created service notice.
	msg := topicMessage(777, "")
	r.Handle(context.Background(), msg)

	if len(api.copies) != 0 {
		t.Fatalf("copies = %d, want 0", len(api.copies))
	}
	if warns := capture.messagesAt(slog.LevelWarn); len(warns) != 0 {
		t.Fatalf("warnings = %v, want none for system messages", warns)
	}
}

func TestOutboundRelaysCaptionOnlyAndMediaMessages(t *testing.T) {
	t.Parallel()

	api := newFakeAPI()
	store := testStore(t)
	store.Put(42, 777)
	r := NewOutbound(api, store, -100123, testLogger())

	withCaption := topicMessage(777, "")
	withCaption.Caption = "see attachment"
	r.Handle(context.Background(), withCaption)

	withSticker := topicMessage(777, "")
	withSticker.Sticker = &telegram.Sticker{FileID: "stk"}
	r.Handle(context.Background(), withSticker)

	if len(api.copies) != 2 {
		t.Fatalf("copies = %d, want 2", len(api.copies))
	}
}

func TestOutboundCopyErrorIsSwallowed(t *testing.T) {
	t.Parallel()

	api := newFakeAPI()
	api.copyErr = errors.New("user deactivated")
	store := testStore(t)
	store.Put(42, 777)
	r := NewOutbound(api, store, -100123, testLogger())

	r.Handle(context.Background(), topicMessage(777, "hello"))

	if got := api.copyCount(); got != 0 {
		t.Fatalf("recorded copies = %d, want 0", got)
	}
}
