package chat

import (
	"context"
	"time"

	"github.com/google/uuid"

	"nexusai-be/internal/dto"
	"nexusai-be/internal/entity"
	"nexusai-be/internal/pkg/apperrors"
	"nexusai-be/internal/pkg/logger"
	"nexusai-be/internal/repository/specification"
	"nexusai-be/internal/repository/unitofwork"
	adminEvents "nexusai-be/pkg/admin/events"
)

// Manager handles chat-related admin operations
type Manager struct {
	logger    logger.ILogger
	publisher adminEvents.Publisher
}

func NewManager(logger logger.ILogger, publisher adminEvents.Publisher) *Manager {
	return &Manager{
		logger:    logger,
		publisher: publisher,
	}
}

func listSpecs(req dto.AdminChatListRequest) ([]specification.Specification, error) {
	// Admin views cover authenticated traffic only; guest sessions are
	// reachable through the stats endpoints.
	specs := []specification.Specification{specification.Authenticated{}}

	if req.UserId != "" {
		userId, err := uuid.Parse(req.UserId)
		if err != nil {
			return nil, &apperrors.ValidationError{Field: "userId", Message: "invalid user id"}
		}
		specs = append(specs, specification.OwnedBy{UserID: userId})
	}
	if req.Topic != "" && req.Topic != "all" {
		specs = append(specs, specification.ByTopic{Topic: req.Topic})
	}
	if req.DateFrom != "" {
		from, err := time.Parse(time.RFC3339, req.DateFrom)
		if err != nil {
			return nil, &apperrors.ValidationError{Field: "dateFrom", Message: "invalid date"}
		}
		specs = append(specs, specification.ActivitySince{Since: from})
	}
	if req.DateTo != "" {
		until, err := time.Parse(time.RFC3339, req.DateTo)
		if err != nil {
			return nil, &apperrors.ValidationError{Field: "dateTo", Message: "invalid date"}
		}
		specs = append(specs, specification.ActivityUntil{Until: until})
	}

	return specs, nil
}

// FindAll retrieves chats with filters, pagination and aggregate stats.
func (m *Manager) FindAll(ctx context.Context, uow unitofwork.UnitOfWork, req dto.AdminChatListRequest) ([]*entity.ChatSession, *dto.AdminChatListStats, error) {
	page := req.Page
	limit := req.Limit
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}

	specs, err := listSpecs(req)
	if err != nil {
		return nil, nil, err
	}

	repo := uow.ChatHistoryRepository()

	total, err := repo.Count(ctx, specs...)
	if err != nil {
		return nil, nil, err
	}

	totalMessages, err := repo.SumMessageCount(ctx, specs...)
	if err != nil {
		return nil, nil, err
	}

	distribution, err := repo.TopicDistribution(ctx, specs...)
	if err != nil {
		return nil, nil, err
	}

	chats, err := repo.FindAll(ctx, append(specs,
		specification.OrderBy{Field: "last_activity", Desc: true},
		specification.Pagination{Limit: limit, Offset: (page - 1) * limit},
	)...)
	if err != nil {
		return nil, nil, err
	}

	topicCounts := make([]dto.TopicCount, 0, len(distribution))
	for t, c := range distribution {
		topicCounts = append(topicCounts, dto.TopicCount{Topic: t, Count: c})
	}

	stats := &dto.AdminChatListStats{
		TotalChats:        total,
		TotalMessages:     totalMessages,
		TopicDistribution: topicCounts,
		Page:              page,
		Limit:             limit,
		Pages:             (total + int64(limit) - 1) / int64(limit),
	}

	return chats, stats, nil
}

// FindOne retrieves a single chat by its record ID.
func (m *Manager) FindOne(ctx context.Context, uow unitofwork.UnitOfWork, chatId uuid.UUID) (*entity.ChatSession, error) {
	chat, err := uow.ChatHistoryRepository().FindOne(ctx, specification.ByID{ID: chatId})
	if err != nil {
		return nil, err
	}
	if chat == nil {
		return nil, &apperrors.NotFoundError{Resource: "chat"}
	}
	return chat, nil
}

// Delete removes a chat by record ID and emits an event.
func (m *Manager) Delete(ctx context.Context, uow unitofwork.UnitOfWork, chatId uuid.UUID) error {
	chat, err := uow.ChatHistoryRepository().FindOne(ctx, specification.ByID{ID: chatId})
	if err != nil {
		return err
	}
	if chat == nil {
		return &apperrors.NotFoundError{Resource: "chat"}
	}

	if err := uow.ChatHistoryRepository().Delete(ctx, chatId); err != nil {
		return err
	}

	m.logger.Info("ADMIN", "Deleted chat", map[string]interface{}{
		"chatId":    chatId.String(),
		"sessionId": chat.SessionId,
	})
	m.publisher.PublishChatDeleted(ctx, chatId, chat.SessionId)

	return nil
}
