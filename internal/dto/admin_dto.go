package dto

import (
	"time"

	"github.com/google/uuid"
)

// --- User Management ---

type AdminUserListRequest struct {
	Page   int    `query:"page"`
	Limit  int    `query:"limit"`
	Search string `query:"search"`
	Status string `query:"status"`
}

type UserListResponse struct {
	Id        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	FullName  string    `json:"full_name"`
	Role      string    `json:"role"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

type UserListStats struct {
	Total  int64 `json:"total"`
	Active int   `json:"active"`
	Page   int   `json:"page"`
	Limit  int   `json:"limit"`
	Pages  int64 `json:"pages"`
}

type AdminUserListResponse struct {
	Users []UserListResponse `json:"users"`
	Stats UserListStats      `json:"stats"`
}

type AdminUserDetailResponse struct {
	UserListResponse
	AvatarURL string            `json:"avatar_url,omitempty"`
	Stats     ChatStatsResponse `json:"stats"`
}

type UpdateUserStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=active blocked"`
	Reason string `json:"reason,omitempty"`
}

type AdminCreateUserRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	FullName string `json:"full_name" validate:"required"`
	Role     string `json:"role" validate:"required,oneof=user admin"`
}

type AdminUpdateUserRequest struct {
	FullName             string `json:"full_name"`
	Email                string `json:"email" validate:"omitempty,email"`
	Role                 string `json:"role" validate:"omitempty,oneof=user admin"`
	Status               string `json:"status" validate:"omitempty,oneof=active blocked"`
	Avatar               string `json:"avatar"`
	AiDailyLimitOverride *int   `json:"ai_daily_limit_override"`
}

// --- Chat Management ---

type AdminChatListRequest struct {
	Page     int    `query:"page"`
	Limit    int    `query:"limit"`
	UserId   string `query:"userId"`
	Topic    string `query:"topic"`
	DateFrom string `query:"dateFrom"`
	DateTo   string `query:"dateTo"`
}

type AdminChatListItem struct {
	Id           uuid.UUID  `json:"id"`
	UserId       *uuid.UUID `json:"user_id,omitempty"`
	UserEmail    string     `json:"user_email,omitempty"`
	SessionId    string     `json:"sessionId"`
	Title        string     `json:"title"`
	Topic        string     `json:"topic"`
	MessageCount int        `json:"messageCount"`
	LastActivity time.Time  `json:"lastActivity"`
}

type AdminChatListStats struct {
	TotalChats        int64        `json:"totalChats"`
	TotalMessages     int64        `json:"totalMessages"`
	TopicDistribution []TopicCount `json:"topicDistribution"`
	Page              int          `json:"page"`
	Limit             int          `json:"limit"`
	Pages             int64        `json:"pages"`
}

type AdminChatListResponse struct {
	Chats []AdminChatListItem `json:"chats"`
	Stats AdminChatListStats  `json:"stats"`
}

type AdminChatDetailResponse struct {
	AdminChatListItem
	CreatedAt time.Time         `json:"createdAt"`
	Messages  []MessageResponse `json:"messages"`
}

// --- Dashboard ---

type AdminUserStats struct {
	Total    int64 `json:"total"`
	Active   int   `json:"active"`
	NewToday int64 `json:"newToday"`
}

type AdminChatStats struct {
	Total         int64 `json:"total"`
	TotalMessages int64 `json:"totalMessages"`
}

type AdminDashboardStats struct {
	Users          AdminUserStats       `json:"users"`
	Chats          AdminChatStats       `json:"chats"`
	PopularTopics  []TopicCount         `json:"popularTopics"`
	RecentActivity []RecentChatActivity `json:"recentActivity"`
}

// --- System Logs ---

type LogListResponse struct {
	Id        string    `json:"id"` // MD5 hash, not UUID
	Level     string    `json:"level"`
	Module    string    `json:"module"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

type LogDetailResponse struct {
	LogListResponse
	Details map[string]interface{} `json:"details"`
}
