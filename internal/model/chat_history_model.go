package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// ChatHistory is one conversation thread. The message list is embedded as a
// JSONB column; messages are never addressed individually by SQL.
type ChatHistory struct {
	Id              uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId          *uuid.UUID     `gorm:"type:uuid;index"` // NULL for guest sessions
	SessionId       string         `gorm:"type:varchar(255);not null;index"`
	Title           string         `gorm:"type:varchar(100);not null;default:'New Chat'"`
	Topic           string         `gorm:"type:varchar(20);not null;default:'general';index"`
	Messages        datatypes.JSON `gorm:"type:jsonb"`
	MessageCount    int            `gorm:"default:0"`
	IsPremium       bool           `gorm:"default:false"`
	IsActive        bool           `gorm:"default:true"`
	IsAuthenticated bool           `gorm:"default:false;index"`
	LastActivity    time.Time      `gorm:"index"`
	CreatedAt       time.Time      `gorm:"autoCreateTime"`
	UpdatedAt       time.Time      `gorm:"autoUpdateTime"`
}

func (ChatHistory) TableName() string {
	return "chat_histories"
}
