package specification

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OwnedBy scopes a query to one user's sessions.
type OwnedBy struct {
	UserID uuid.UUID
}

func (s OwnedBy) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("user_id = ?", s.UserID)
}

// AnonymousSession matches guest sessions, which have no owning user.
type AnonymousSession struct{}

func (s AnonymousSession) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("user_id IS NULL")
}

type BySessionID struct {
	SessionID string
}

func (s BySessionID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("session_id = ?", s.SessionID)
}

type ByTopic struct {
	Topic string
}

func (s ByTopic) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("topic = ?", s.Topic)
}

type Authenticated struct{}

func (s Authenticated) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("is_authenticated = ?", true)
}

type ActivitySince struct {
	Since time.Time
}

func (s ActivitySince) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("last_activity >= ?", s.Since)
}

type ActivityUntil struct {
	Until time.Time
}

func (s ActivityUntil) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("last_activity <= ?", s.Until)
}

// ChatSearchQuery matches session titles, case-insensitive.
type ChatSearchQuery struct {
	Query string
}

func (s ChatSearchQuery) Apply(db *gorm.DB) *gorm.DB {
	pattern := "%" + s.Query + "%"
	return db.Where("title ILIKE ?", pattern)
}
