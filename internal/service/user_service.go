// FILE: internal/service/user_service.go
package service

import (
	"context"
	"time"

	"nexusai-be/internal/dto"
	"nexusai-be/internal/pkg/apperrors"
	"nexusai-be/internal/pkg/logger"
	"nexusai-be/internal/repository/specification"
	"nexusai-be/internal/repository/unitofwork"

	adminEvents "nexusai-be/pkg/admin/events"

	"github.com/google/uuid"
)

type IUserService interface {
	GetProfile(ctx context.Context, userId uuid.UUID) (*dto.UserProfileResponse, error)
	UpdateProfile(ctx context.Context, userId uuid.UUID, req *dto.UpdateProfileRequest) (*dto.UserProfileResponse, error)
	DeleteAccount(ctx context.Context, userId uuid.UUID) (*dto.DeleteAccountResponse, error)
}

type userService struct {
	uowFactory     unitofwork.RepositoryFactory
	logger         logger.ILogger
	eventPublisher adminEvents.Publisher
}

func NewUserService(uowFactory unitofwork.RepositoryFactory, log logger.ILogger, eventPublisher adminEvents.Publisher) IUserService {
	return &userService{
		uowFactory:     uowFactory,
		logger:         log,
		eventPublisher: eventPublisher,
	}
}

func (s *userService) GetProfile(ctx context.Context, userId uuid.UUID) (*dto.UserProfileResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: userId})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, &apperrors.NotFoundError{Resource: "user"}
	}
	profile := toProfile(user)
	return &profile, nil
}

func (s *userService) UpdateProfile(ctx context.Context, userId uuid.UUID, req *dto.UpdateProfileRequest) (*dto.UserProfileResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	repo := uow.UserRepository()

	user, err := repo.FindOne(ctx, specification.ByID{ID: userId})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, &apperrors.NotFoundError{Resource: "user"}
	}

	if req.Email != "" && req.Email != user.Email {
		existing, err := repo.FindOne(ctx, specification.ByEmail{Email: req.Email})
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, apperrors.ErrEmailTaken
		}
		user.Email = req.Email
	}
	user.FullName = req.FullName
	user.UpdatedAt = time.Now()

	if err := repo.Update(ctx, user); err != nil {
		return nil, err
	}

	profile := toProfile(user)
	return &profile, nil
}

// DeleteAccount removes the user's chat history first, then soft-deletes
// the account so a later social login can restore it.
func (s *userService) DeleteAccount(ctx context.Context, userId uuid.UUID) (*dto.DeleteAccountResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: userId})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, &apperrors.NotFoundError{Resource: "user"}
	}

	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	deletedChats, err := uow.ChatHistoryRepository().DeleteAllByUserId(ctx, userId)
	if err != nil {
		return nil, err
	}

	if err := uow.UserRepository().Delete(ctx, userId); err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	s.logger.Info("USER", "account deleted", map[string]interface{}{
		"user_id":       userId.String(),
		"deleted_chats": deletedChats,
	})
	if s.eventPublisher != nil {
		s.eventPublisher.PublishUserDeleted(ctx, userId, user.Email, deletedChats)
	}

	return &dto.DeleteAccountResponse{DeletedChats: deletedChats}, nil
}
