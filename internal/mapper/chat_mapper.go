package mapper

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"

	"nexusai-be/internal/entity"
	"nexusai-be/internal/model"
)

type ChatMapper struct{}

func NewChatMapper() *ChatMapper {
	return &ChatMapper{}
}

func (m *ChatMapper) ToEntity(h *model.ChatHistory) *entity.ChatSession {
	if h == nil {
		return nil
	}

	var updatedAt *time.Time
	if !h.UpdatedAt.IsZero() {
		t := h.UpdatedAt
		updatedAt = &t
	}

	var messages []entity.Message
	if len(h.Messages) > 0 {
		// A corrupt message column degrades to an empty conversation
		// rather than failing the whole read.
		if err := json.Unmarshal(h.Messages, &messages); err != nil {
			messages = []entity.Message{}
		}
	}
	if messages == nil {
		messages = []entity.Message{}
	}

	return &entity.ChatSession{
		Id:              h.Id,
		UserId:          h.UserId,
		SessionId:       h.SessionId,
		Title:           h.Title,
		Topic:           h.Topic,
		Messages:        messages,
		MessageCount:    h.MessageCount,
		IsPremium:       h.IsPremium,
		IsActive:        h.IsActive,
		IsAuthenticated: h.IsAuthenticated,
		LastActivity:    h.LastActivity,
		CreatedAt:       h.CreatedAt,
		UpdatedAt:       updatedAt,
		IsNew:           false,
	}
}

func (m *ChatMapper) ToModel(s *entity.ChatSession) *model.ChatHistory {
	if s == nil {
		return nil
	}

	var updatedAt time.Time
	if s.UpdatedAt != nil {
		updatedAt = *s.UpdatedAt
	}

	raw, err := json.Marshal(s.Messages)
	if err != nil {
		raw = []byte("[]")
	}

	return &model.ChatHistory{
		Id:              s.Id,
		UserId:          s.UserId,
		SessionId:       s.SessionId,
		Title:           s.Title,
		Topic:           s.Topic,
		Messages:        datatypes.JSON(raw),
		MessageCount:    s.MessageCount,
		IsPremium:       s.IsPremium,
		IsActive:        s.IsActive,
		IsAuthenticated: s.IsAuthenticated,
		LastActivity:    s.LastActivity,
		CreatedAt:       s.CreatedAt,
		UpdatedAt:       updatedAt,
	}
}
