package dashboard

import (
	"context"
	"sort"
	"time"

	"nexusai-be/internal/dto"
	"nexusai-be/internal/entity"
	"nexusai-be/internal/pkg/logger"
	"nexusai-be/internal/repository/specification"
	"nexusai-be/internal/repository/unitofwork"
)

// Aggregator handles dashboard statistics
type Aggregator struct {
	logger logger.ILogger
}

func NewAggregator(logger logger.ILogger) *Aggregator {
	return &Aggregator{
		logger: logger,
	}
}

// GetStats retrieves dashboard statistics
func (a *Aggregator) GetStats(ctx context.Context, uow unitofwork.UnitOfWork) (*dto.AdminDashboardStats, error) {
	totalUsers, err := uow.UserRepository().Count(ctx)
	if err != nil {
		return nil, err
	}

	activeUsers, err := uow.UserRepository().CountByStatus(ctx, string(entity.UserStatusActive))
	if err != nil {
		return nil, err
	}

	midnight := time.Now().Truncate(24 * time.Hour)
	newToday, err := uow.UserRepository().Count(ctx, specification.CreatedSince{Since: midnight})
	if err != nil {
		return nil, err
	}

	chatRepo := uow.ChatHistoryRepository()

	totalChats, err := chatRepo.Count(ctx, specification.Authenticated{})
	if err != nil {
		return nil, err
	}

	totalMessages, err := chatRepo.SumMessageCount(ctx, specification.Authenticated{})
	if err != nil {
		return nil, err
	}

	distribution, err := chatRepo.TopicDistribution(ctx, specification.Authenticated{})
	if err != nil {
		return nil, err
	}

	popular := make([]dto.TopicCount, 0, len(distribution))
	for t, c := range distribution {
		popular = append(popular, dto.TopicCount{Topic: t, Count: c})
	}
	sort.Slice(popular, func(i, j int) bool { return popular[i].Count > popular[j].Count })
	if len(popular) > 5 {
		popular = popular[:5]
	}

	recent, err := chatRepo.FindAll(ctx,
		specification.Authenticated{},
		specification.OrderBy{Field: "last_activity", Desc: true},
		specification.Pagination{Limit: 10, Offset: 0},
	)
	if err != nil {
		return nil, err
	}

	recentActivity := make([]dto.RecentChatActivity, 0, len(recent))
	for _, chat := range recent {
		recentActivity = append(recentActivity, dto.RecentChatActivity{
			Title:        chat.Title,
			Topic:        chat.Topic,
			MessageCount: chat.MessageCount,
			LastActivity: chat.LastActivity,
		})
	}

	return &dto.AdminDashboardStats{
		Users: dto.AdminUserStats{
			Total:    totalUsers,
			Active:   activeUsers,
			NewToday: newToday,
		},
		Chats: dto.AdminChatStats{
			Total:         totalChats,
			TotalMessages: totalMessages,
		},
		PopularTopics:  popular,
		RecentActivity: recentActivity,
	}, nil
}

// GetSystemLogs retrieves system logs
func (a *Aggregator) GetSystemLogs(ctx context.Context, loggerSvc logger.ILogger, page, limit int, level string) ([]*dto.LogListResponse, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 50
	}

	logs, err := loggerSvc.GetLogs(level, limit, (page-1)*limit)
	if err != nil {
		return nil, err
	}

	var res []*dto.LogListResponse
	for _, l := range logs {
		ts, _ := time.Parse(time.RFC3339, l.Timestamp)
		res = append(res, &dto.LogListResponse{
			Id:        l.Id,
			Level:     l.Level,
			Module:    l.Module,
			Message:   l.Message,
			CreatedAt: ts,
		})
	}
	return res, nil
}

// GetLogDetail retrieves a single log entry
func (a *Aggregator) GetLogDetail(ctx context.Context, loggerSvc logger.ILogger, logId string) (*dto.LogDetailResponse, error) {
	l, err := loggerSvc.GetLogById(logId)
	if err != nil {
		return nil, err
	}

	ts, _ := time.Parse(time.RFC3339, l.Timestamp)

	return &dto.LogDetailResponse{
		LogListResponse: dto.LogListResponse{
			Id:        logId,
			Level:     l.Level,
			Module:    l.Module,
			Message:   l.Message,
			CreatedAt: ts,
		},
		Details: l.Details,
	}, nil
}
