package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"nexusai-be/internal/constant"
	"nexusai-be/internal/pkg/apperrors"
	"nexusai-be/pkg/topic"
)

const (
	MessageSenderUser      = "user"
	MessageSenderAssistant = "assistant"

	MaxMessageLength = 5000
	titleMaxRunes    = 50
	previewMaxRunes  = 100
)

type MessageMetadata struct {
	IsOutOfScope bool   `json:"isOutOfScope"`
	IsError      bool   `json:"isError"`
	Topic        string `json:"topic"`
}

type Message struct {
	Content   string          `json:"content"`
	Sender    string          `json:"sender"`
	Timestamp time.Time       `json:"timestamp"`
	Metadata  MessageMetadata `json:"metadata"`
}

// ChatSession is the aggregate for one conversation thread. A session is
// keyed by (UserId, SessionId); UserId is nil for guest sessions.
type ChatSession struct {
	Id              uuid.UUID
	UserId          *uuid.UUID
	SessionId       string
	Title           string
	Topic           string
	Messages        []Message
	MessageCount    int
	IsPremium       bool
	IsActive        bool
	IsAuthenticated bool
	LastActivity    time.Time
	CreatedAt       time.Time
	UpdatedAt       *time.Time

	// IsNew is true until the session is first persisted. It gates the
	// one-time title derivation.
	IsNew bool
}

func NewChatSession(userId *uuid.UUID, sessionId string) *ChatSession {
	return &ChatSession{
		Id:              uuid.New(),
		UserId:          userId,
		SessionId:       sessionId,
		Title:           constant.DefaultChatTitle,
		Topic:           topic.General,
		Messages:        []Message{},
		IsActive:        true,
		IsAuthenticated: userId != nil,
		IsNew:           true,
	}
}

// AddMessage appends a validated message. The per-message topic label is
// derived here: user messages get the narrow classifier's label, assistant
// messages are always labeled "assistant".
func (s *ChatSession) AddMessage(content, sender string, metadata MessageMetadata, now time.Time) error {
	if strings.TrimSpace(content) == "" {
		return &apperrors.ValidationError{Field: "content", Message: "message content is required"}
	}
	if len([]rune(content)) > MaxMessageLength {
		return &apperrors.ValidationError{Field: "content", Message: "message content cannot exceed 5000 characters"}
	}
	if sender != MessageSenderUser && sender != MessageSenderAssistant {
		return &apperrors.ValidationError{Field: "sender", Message: "sender must be user or assistant"}
	}

	if sender == MessageSenderUser {
		metadata.Topic = topic.Classify(content)
	} else {
		metadata.Topic = topic.Assistant
	}

	s.Messages = append(s.Messages, Message{
		Content:   content,
		Sender:    sender,
		Timestamp: now,
		Metadata:  metadata,
	})
	return nil
}

// RecalculateDerived refreshes every field computed from the message list.
// Runs before each persist, in a fixed order: count, activity, auth flag,
// one-time title, then the whole-session topic over all message contents.
func (s *ChatSession) RecalculateDerived(now time.Time) {
	s.MessageCount = len(s.Messages)
	s.LastActivity = now
	s.IsAuthenticated = s.UserId != nil

	if s.IsNew && (s.Title == "" || s.Title == constant.DefaultChatTitle) {
		for _, msg := range s.Messages {
			if msg.Sender == MessageSenderUser {
				s.Title = truncateRunes(msg.Content, titleMaxRunes)
				break
			}
		}
	}

	if len(s.Messages) > 0 {
		contents := make([]string, len(s.Messages))
		for i, msg := range s.Messages {
			contents[i] = msg.Content
		}
		joined := strings.Join(contents, " ")
		s.Topic = sessionTopic(joined)
	}
}

// Preview returns a snippet of the most recent message for history listings.
func (s *ChatSession) Preview() string {
	if len(s.Messages) == 0 {
		return "No messages yet"
	}
	last := s.Messages[len(s.Messages)-1]
	if last.Content == "" {
		return "No message content"
	}
	return truncateRunes(last.Content, previewMaxRunes)
}

// sessionTopic labels the whole conversation. Unlike the per-message label
// it never returns "assistant": the narrow lists are matched against the
// joined content of every message, both sides included.
func sessionTopic(joined string) string {
	return topic.Classify(joined)
}

func truncateRunes(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}
