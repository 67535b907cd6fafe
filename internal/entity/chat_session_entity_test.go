package entity

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"nexusai-be/internal/constant"
	"nexusai-be/internal/pkg/apperrors"
	"nexusai-be/pkg/topic"
)

func TestAddMessageValidation(t *testing.T) {
	tests := []struct {
		name      string
		content   string
		sender    string
		wantField string
	}{
		{
			name:      "empty content",
			content:   "",
			sender:    MessageSenderUser,
			wantField: "content",
		},
		{
			name:      "whitespace only content",
			content:   "   \n\t ",
			sender:    MessageSenderUser,
			wantField: "content",
		},
		{
			name:      "content over limit",
			content:   strings.Repeat("a", MaxMessageLength+1),
			sender:    MessageSenderUser,
			wantField: "content",
		},
		{
			name:      "unknown sender",
			content:   "hello",
			sender:    "system",
			wantField: "sender",
		},
		{
			name:    "content at limit",
			content: strings.Repeat("a", MaxMessageLength),
			sender:  MessageSenderUser,
		},
		{
			name:    "valid assistant message",
			content: "hello",
			sender:  MessageSenderAssistant,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			session := NewChatSession(nil, "session_1")
			err := session.AddMessage(tt.content, tt.sender, MessageMetadata{}, time.Now())

			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("AddMessage() error = %v, want nil", err)
				}
				if len(session.Messages) != 1 {
					t.Errorf("len(Messages) = %d, want 1", len(session.Messages))
				}
				return
			}

			var vErr *apperrors.ValidationError
			if err == nil {
				t.Fatal("AddMessage() error = nil, want validation error")
			}
			var ok bool
			if vErr, ok = err.(*apperrors.ValidationError); !ok {
				t.Fatalf("AddMessage() error type = %T, want *apperrors.ValidationError", err)
			}
			if vErr.Field != tt.wantField {
				t.Errorf("Field = %q, want %q", vErr.Field, tt.wantField)
			}
			if len(session.Messages) != 0 {
				t.Errorf("len(Messages) = %d, want 0 after rejection", len(session.Messages))
			}
		})
	}
}

func TestAddMessageTopicLabels(t *testing.T) {
	tests := []struct {
		name      string
		content   string
		sender    string
		wantTopic string
	}{
		{
			name:      "user chelsea message",
			content:   "When does Chelsea play next?",
			sender:    MessageSenderUser,
			wantTopic: topic.Chelsea,
		},
		{
			name:      "user frontend message",
			content:   "How do React hooks work?",
			sender:    MessageSenderUser,
			wantTopic: topic.Frontend,
		},
		{
			name:      "user mixed message",
			content:   "Build a React page for Chelsea fixtures",
			sender:    MessageSenderUser,
			wantTopic: topic.Mixed,
		},
		{
			name:      "user general message",
			content:   "What is the weather today?",
			sender:    MessageSenderUser,
			wantTopic: topic.General,
		},
		{
			name:      "player name matches only the broad list",
			content:   "Tell me about Enzo Fernández",
			sender:    MessageSenderUser,
			wantTopic: topic.General,
		},
		{
			name:      "assistant message is always labeled assistant",
			content:   "Chelsea won the match using React",
			sender:    MessageSenderAssistant,
			wantTopic: topic.Assistant,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			session := NewChatSession(nil, "session_1")
			if err := session.AddMessage(tt.content, tt.sender, MessageMetadata{}, time.Now()); err != nil {
				t.Fatalf("AddMessage() error = %v", err)
			}
			got := session.Messages[0].Metadata.Topic
			if got != tt.wantTopic {
				t.Errorf("Metadata.Topic = %q, want %q", got, tt.wantTopic)
			}
		})
	}
}

func TestRecalculateDerived(t *testing.T) {
	userId := uuid.New()
	now := time.Now()

	session := NewChatSession(&userId, "session_42")
	if err := session.AddMessage("Tell me about Stamford Bridge", MessageSenderUser, MessageMetadata{}, now); err != nil {
		t.Fatalf("AddMessage() error = %v", err)
	}
	if err := session.AddMessage("Stamford Bridge is Chelsea's home ground.", MessageSenderAssistant, MessageMetadata{}, now); err != nil {
		t.Fatalf("AddMessage() error = %v", err)
	}

	session.RecalculateDerived(now)

	if session.MessageCount != 2 {
		t.Errorf("MessageCount = %d, want 2", session.MessageCount)
	}
	if !session.LastActivity.Equal(now) {
		t.Errorf("LastActivity = %v, want %v", session.LastActivity, now)
	}
	if !session.IsAuthenticated {
		t.Error("IsAuthenticated = false, want true for owned session")
	}
	if session.Title != "Tell me about Stamford Bridge" {
		t.Errorf("Title = %q, want first user message", session.Title)
	}
	if session.Topic != topic.Chelsea {
		t.Errorf("Topic = %q, want %q", session.Topic, topic.Chelsea)
	}
}

func TestTitleDerivedOnceFromFirstUserMessage(t *testing.T) {
	now := time.Now()
	session := NewChatSession(nil, "session_1")

	long := strings.Repeat("x", 60)
	if err := session.AddMessage(long, MessageSenderUser, MessageMetadata{}, now); err != nil {
		t.Fatalf("AddMessage() error = %v", err)
	}
	session.RecalculateDerived(now)

	wantTitle := strings.Repeat("x", 50) + "..."
	if session.Title != wantTitle {
		t.Errorf("Title = %q, want truncated to 50 runes with ellipsis", session.Title)
	}

	// A persisted session keeps its original title even when later
	// messages arrive.
	session.IsNew = false
	if err := session.AddMessage("a different question about css grid", MessageSenderUser, MessageMetadata{}, now); err != nil {
		t.Fatalf("AddMessage() error = %v", err)
	}
	session.RecalculateDerived(now)

	if session.Title != wantTitle {
		t.Errorf("Title changed after persist: got %q, want %q", session.Title, wantTitle)
	}
}

func TestSessionTopicSpansBothSides(t *testing.T) {
	// The user never mentions frontend terms, but the assistant reply
	// does. The whole-session label should still become mixed.
	now := time.Now()
	session := NewChatSession(nil, "session_1")

	if err := session.AddMessage("Who manages Chelsea?", MessageSenderUser, MessageMetadata{}, now); err != nil {
		t.Fatalf("AddMessage() error = %v", err)
	}
	if err := session.AddMessage("You could render the squad list with React.", MessageSenderAssistant, MessageMetadata{}, now); err != nil {
		t.Fatalf("AddMessage() error = %v", err)
	}
	session.RecalculateDerived(now)

	if session.Topic != topic.Mixed {
		t.Errorf("Topic = %q, want %q", session.Topic, topic.Mixed)
	}
}

func TestPreview(t *testing.T) {
	tests := []struct {
		name     string
		messages []string
		want     string
	}{
		{
			name: "no messages",
			want: "No messages yet",
		},
		{
			name:     "short last message",
			messages: []string{"first", "second"},
			want:     "second",
		},
		{
			name:     "long last message truncated",
			messages: []string{strings.Repeat("y", 120)},
			want:     strings.Repeat("y", 100) + "...",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			session := NewChatSession(nil, "session_1")
			for _, content := range tt.messages {
				if err := session.AddMessage(content, MessageSenderUser, MessageMetadata{}, time.Now()); err != nil {
					t.Fatalf("AddMessage() error = %v", err)
				}
			}
			if got := session.Preview(); got != tt.want {
				t.Errorf("Preview() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNewChatSessionDefaults(t *testing.T) {
	session := NewChatSession(nil, "session_9")

	if session.Title != constant.DefaultChatTitle {
		t.Errorf("Title = %q, want %q", session.Title, constant.DefaultChatTitle)
	}
	if session.Topic != topic.General {
		t.Errorf("Topic = %q, want %q", session.Topic, topic.General)
	}
	if !session.IsActive {
		t.Error("IsActive = false, want true")
	}
	if session.IsAuthenticated {
		t.Error("IsAuthenticated = true, want false for guest session")
	}
	if !session.IsNew {
		t.Error("IsNew = false, want true before first persist")
	}
}
