package mapper

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"nexusai-be/internal/entity"
	"nexusai-be/internal/model"
)

func TestChatMapperRoundTrip(t *testing.T) {
	m := NewChatMapper()
	userId := uuid.New()
	now := time.Now().Truncate(time.Second)

	session := entity.NewChatSession(&userId, "session_123")
	if err := session.AddMessage("Who plays at Stamford Bridge?", entity.MessageSenderUser, entity.MessageMetadata{}, now); err != nil {
		t.Fatalf("AddMessage() error = %v", err)
	}
	if err := session.AddMessage("Chelsea FC.", entity.MessageSenderAssistant, entity.MessageMetadata{}, now); err != nil {
		t.Fatalf("AddMessage() error = %v", err)
	}
	session.RecalculateDerived(now)

	got := m.ToEntity(m.ToModel(session))
	if got == nil {
		t.Fatal("round trip returned nil")
	}
	if got.SessionId != session.SessionId {
		t.Errorf("SessionId = %q, want %q", got.SessionId, session.SessionId)
	}
	if got.UserId == nil || *got.UserId != userId {
		t.Error("UserId lost in round trip")
	}
	if len(got.Messages) != 2 {
		t.Fatalf("len(Messages) = %d, want 2", len(got.Messages))
	}
	if got.Messages[0].Metadata.Topic != session.Messages[0].Metadata.Topic {
		t.Errorf("message topic = %q, want %q", got.Messages[0].Metadata.Topic, session.Messages[0].Metadata.Topic)
	}
	if got.IsNew {
		t.Error("IsNew = true after load, want false")
	}
}

func TestToEntityCorruptMessagesDegrade(t *testing.T) {
	m := NewChatMapper()

	h := &model.ChatHistory{
		Id:        uuid.New(),
		SessionId: "session_bad",
		Title:     "Broken",
		Topic:     "general",
		Messages:  datatypes.JSON([]byte("{not json")),
	}

	got := m.ToEntity(h)
	if got == nil {
		t.Fatal("ToEntity() = nil")
	}
	if len(got.Messages) != 0 {
		t.Errorf("len(Messages) = %d, want 0 for a corrupt column", len(got.Messages))
	}
	if got.Title != "Broken" {
		t.Errorf("Title = %q, remaining fields should survive", got.Title)
	}
}

func TestToEntityNil(t *testing.T) {
	m := NewChatMapper()
	if m.ToEntity(nil) != nil {
		t.Error("ToEntity(nil) should be nil")
	}
	if m.ToModel(nil) != nil {
		t.Error("ToModel(nil) should be nil")
	}
}
