// FILE: internal/service/admin_service.go
package service

import (
	"context"

	"nexusai-be/internal/dto"
	"nexusai-be/internal/entity"
	"nexusai-be/internal/pkg/logger"
	"nexusai-be/internal/repository/specification"
	"nexusai-be/internal/repository/unitofwork"

	adminChat "nexusai-be/pkg/admin/chat"
	"nexusai-be/pkg/admin/dashboard"
	adminUser "nexusai-be/pkg/admin/user"

	"github.com/google/uuid"
)

type IAdminService interface {
	GetDashboardStats(ctx context.Context) (*dto.AdminDashboardStats, error)

	ListUsers(ctx context.Context, req dto.AdminUserListRequest) (*dto.AdminUserListResponse, error)
	GetUserDetail(ctx context.Context, userId uuid.UUID) (*dto.AdminUserDetailResponse, error)
	CreateUser(ctx context.Context, req dto.AdminCreateUserRequest) (*dto.UserListResponse, error)
	UpdateUser(ctx context.Context, userId uuid.UUID, req dto.AdminUpdateUserRequest) (*dto.UserListResponse, error)
	UpdateUserStatus(ctx context.Context, userId uuid.UUID, req dto.UpdateUserStatusRequest) error
	DeleteUser(ctx context.Context, userId uuid.UUID) (*dto.DeleteAccountResponse, error)

	ListChats(ctx context.Context, req dto.AdminChatListRequest) (*dto.AdminChatListResponse, error)
	GetChatDetail(ctx context.Context, chatId uuid.UUID) (*dto.AdminChatDetailResponse, error)
	DeleteChat(ctx context.Context, chatId uuid.UUID) error

	GetSystemLogs(ctx context.Context, page, limit int, level string) ([]*dto.LogListResponse, error)
	GetLogDetail(ctx context.Context, logId string) (*dto.LogDetailResponse, error)
}

type adminService struct {
	uowFactory  unitofwork.RepositoryFactory
	userManager *adminUser.Manager
	chatManager *adminChat.Manager
	aggregator  *dashboard.Aggregator
	logger      logger.ILogger
}

func NewAdminService(uowFactory unitofwork.RepositoryFactory, userManager *adminUser.Manager, chatManager *adminChat.Manager, aggregator *dashboard.Aggregator, log logger.ILogger) IAdminService {
	return &adminService{
		uowFactory:  uowFactory,
		userManager: userManager,
		chatManager: chatManager,
		aggregator:  aggregator,
		logger:      log,
	}
}

func toUserListItem(user *entity.User) dto.UserListResponse {
	return dto.UserListResponse{
		Id:        user.Id,
		Email:     user.Email,
		FullName:  user.FullName,
		Role:      string(user.Role),
		Status:    string(user.Status),
		CreatedAt: user.CreatedAt,
	}
}

func (s *adminService) GetDashboardStats(ctx context.Context) (*dto.AdminDashboardStats, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	return s.aggregator.GetStats(ctx, uow)
}

func (s *adminService) ListUsers(ctx context.Context, req dto.AdminUserListRequest) (*dto.AdminUserListResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	page := req.Page
	limit := req.Limit
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}

	users, err := s.userManager.FindAll(ctx, uow, page, limit, req.Search)
	if err != nil {
		return nil, err
	}

	total, err := uow.UserRepository().Count(ctx)
	if err != nil {
		return nil, err
	}
	active, err := uow.UserRepository().CountByStatus(ctx, string(entity.UserStatusActive))
	if err != nil {
		return nil, err
	}

	items := make([]dto.UserListResponse, len(users))
	for i, user := range users {
		items[i] = toUserListItem(user)
	}

	return &dto.AdminUserListResponse{
		Users: items,
		Stats: dto.UserListStats{
			Total:  total,
			Active: active,
			Page:   page,
			Limit:  limit,
			Pages:  (total + int64(limit) - 1) / int64(limit),
		},
	}, nil
}

func (s *adminService) GetUserDetail(ctx context.Context, userId uuid.UUID) (*dto.AdminUserDetailResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	user, err := s.userManager.FindOne(ctx, uow, userId)
	if err != nil {
		return nil, err
	}

	repo := uow.ChatHistoryRepository()
	owned := specification.OwnedBy{UserID: userId}

	totalChats, err := repo.Count(ctx, owned)
	if err != nil {
		return nil, err
	}
	totalMessages, err := repo.SumMessageCount(ctx, owned)
	if err != nil {
		return nil, err
	}
	distribution, err := repo.TopicDistribution(ctx, owned)
	if err != nil {
		return nil, err
	}

	var avg int64
	if totalChats > 0 {
		avg = totalMessages / totalChats
	}
	topics := make([]dto.TopicCount, 0, len(distribution))
	mostActive := "none"
	var best int64 = -1
	for name, count := range distribution {
		topics = append(topics, dto.TopicCount{Topic: name, Count: count})
		if count > best {
			best = count
			mostActive = name
		}
	}

	detail := &dto.AdminUserDetailResponse{
		UserListResponse: toUserListItem(user),
		Stats: dto.ChatStatsResponse{
			TotalChats:         totalChats,
			TotalMessages:      totalMessages,
			AvgMessagesPerChat: avg,
			MostActiveTopic:    mostActive,
			TopicDistribution:  topics,
		},
	}
	if user.AvatarURL != nil {
		detail.AvatarURL = *user.AvatarURL
	}
	return detail, nil
}

func (s *adminService) CreateUser(ctx context.Context, req dto.AdminCreateUserRequest) (*dto.UserListResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	user, err := s.userManager.Create(ctx, uow, req)
	if err != nil {
		return nil, err
	}
	item := toUserListItem(user)
	return &item, nil
}

func (s *adminService) UpdateUser(ctx context.Context, userId uuid.UUID, req dto.AdminUpdateUserRequest) (*dto.UserListResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	user, err := s.userManager.Update(ctx, uow, userId, req)
	if err != nil {
		return nil, err
	}
	item := toUserListItem(user)
	return &item, nil
}

func (s *adminService) UpdateUserStatus(ctx context.Context, userId uuid.UUID, req dto.UpdateUserStatusRequest) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	return s.userManager.UpdateStatus(ctx, uow, userId, req.Status, req.Reason)
}

func (s *adminService) DeleteUser(ctx context.Context, userId uuid.UUID) (*dto.DeleteAccountResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	deletedChats, err := s.userManager.Delete(ctx, uow, userId)
	if err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	return &dto.DeleteAccountResponse{DeletedChats: deletedChats}, nil
}

func (s *adminService) ListChats(ctx context.Context, req dto.AdminChatListRequest) (*dto.AdminChatListResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	chats, stats, err := s.chatManager.FindAll(ctx, uow, req)
	if err != nil {
		return nil, err
	}

	items := make([]dto.AdminChatListItem, len(chats))
	for i, chat := range chats {
		items[i] = s.toChatListItem(ctx, uow, chat)
	}

	return &dto.AdminChatListResponse{Chats: items, Stats: *stats}, nil
}

func (s *adminService) toChatListItem(ctx context.Context, uow unitofwork.UnitOfWork, chat *entity.ChatSession) dto.AdminChatListItem {
	item := dto.AdminChatListItem{
		Id:           chat.Id,
		UserId:       chat.UserId,
		SessionId:    chat.SessionId,
		Title:        chat.Title,
		Topic:        chat.Topic,
		MessageCount: chat.MessageCount,
		LastActivity: chat.LastActivity,
	}
	if chat.UserId != nil {
		owner, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: *chat.UserId})
		if err == nil && owner != nil {
			item.UserEmail = owner.Email
		}
	}
	return item
}

func (s *adminService) GetChatDetail(ctx context.Context, chatId uuid.UUID) (*dto.AdminChatDetailResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	chat, err := s.chatManager.FindOne(ctx, uow, chatId)
	if err != nil {
		return nil, err
	}

	return &dto.AdminChatDetailResponse{
		AdminChatListItem: s.toChatListItem(ctx, uow, chat),
		CreatedAt:         chat.CreatedAt,
		Messages:          toMessageResponses(chat.Messages),
	}, nil
}

func (s *adminService) DeleteChat(ctx context.Context, chatId uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	return s.chatManager.Delete(ctx, uow, chatId)
}

func (s *adminService) GetSystemLogs(ctx context.Context, page, limit int, level string) ([]*dto.LogListResponse, error) {
	return s.aggregator.GetSystemLogs(ctx, s.logger, page, limit, level)
}

func (s *adminService) GetLogDetail(ctx context.Context, logId string) (*dto.LogDetailResponse, error) {
	return s.aggregator.GetLogDetail(ctx, s.logger, logId)
}
