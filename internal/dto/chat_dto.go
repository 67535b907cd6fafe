package dto

import (
	"time"
)

type SendMessageRequest struct {
	Message   string `json:"message" validate:"required,max=5000"`
	SessionId string `json:"sessionId"`
}

type SendMessageResponse struct {
	Response     string     `json:"response"`
	IsOutOfScope bool       `json:"isOutOfScope"`
	SessionId    string     `json:"sessionId"`
	Timestamp    *time.Time `json:"timestamp,omitempty"`
}

type MessageMetadataResponse struct {
	IsOutOfScope bool   `json:"isOutOfScope"`
	IsError      bool   `json:"isError"`
	Topic        string `json:"topic"`
}

type MessageResponse struct {
	Content   string                  `json:"content"`
	Sender    string                  `json:"sender"`
	Timestamp time.Time               `json:"timestamp"`
	Metadata  MessageMetadataResponse `json:"metadata"`
}

type ChatListItem struct {
	SessionId    string    `json:"sessionId"`
	Title        string    `json:"title"`
	Topic        string    `json:"topic"`
	MessageCount int       `json:"messageCount"`
	LastActivity time.Time `json:"lastActivity"`
	CreatedAt    time.Time `json:"createdAt"`
	Preview      string    `json:"preview"`
}

type PaginationResponse struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Pages int64 `json:"pages"`
}

type ChatHistoryResponse struct {
	Chats      []ChatListItem     `json:"chats"`
	Pagination PaginationResponse `json:"pagination"`
}

type ChatDetailResponse struct {
	SessionId    string            `json:"sessionId"`
	Title        string            `json:"title"`
	Topic        string            `json:"topic"`
	MessageCount int               `json:"messageCount"`
	CreatedAt    time.Time         `json:"createdAt"`
	LastActivity time.Time         `json:"lastActivity"`
	Messages     []MessageResponse `json:"messages"`
}

type TopicCount struct {
	Topic string `json:"topic"`
	Count int64  `json:"count"`
}

type ChatStatsResponse struct {
	TotalChats         int64        `json:"totalChats"`
	TotalMessages      int64        `json:"totalMessages"`
	AvgMessagesPerChat int64        `json:"avgMessagesPerChat"`
	MostActiveTopic    string       `json:"mostActiveTopic"`
	TopicDistribution  []TopicCount `json:"topicDistribution"`
}

type RecentChatActivity struct {
	Title        string    `json:"title"`
	Topic        string    `json:"topic"`
	MessageCount int       `json:"messageCount"`
	LastActivity time.Time `json:"lastActivity"`
}

type ChatStatsEnvelope struct {
	Stats          ChatStatsResponse    `json:"stats"`
	RecentActivity []RecentChatActivity `json:"recentActivity"`
}

type AssistantHealthResponse struct {
	Status   string `json:"status"`
	Response string `json:"response"`
}
