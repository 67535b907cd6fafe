// FILE: internal/service/auth_service.go
package service

import (
	"context"
	"fmt"
	"os"
	"time"

	"nexusai-be/internal/dto"
	"nexusai-be/internal/entity"
	"nexusai-be/internal/pkg/apperrors"
	"nexusai-be/internal/pkg/mailer"
	"nexusai-be/internal/repository/specification"
	"nexusai-be/internal/repository/unitofwork"

	adminEvents "nexusai-be/pkg/admin/events"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type IAuthService interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.RegisterResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error)
	LoginAdmin(ctx context.Context, req *dto.LoginRequest) (*dto.AdminLoginResponse, error)
}

type authService struct {
	uowFactory     unitofwork.RepositoryFactory
	emailService   mailer.IEmailService
	eventPublisher adminEvents.Publisher
}

func NewAuthService(uowFactory unitofwork.RepositoryFactory, emailService mailer.IEmailService, eventPublisher adminEvents.Publisher) IAuthService {
	return &authService{
		uowFactory:     uowFactory,
		emailService:   emailService,
		eventPublisher: eventPublisher,
	}
}

const tokenExpiry = time.Hour * 24 * 7

// Demo console accounts. They never touch the users table; the console
// works against them with a fixed id and an is_demo marker in the response.
var demoAdmins = map[string]struct {
	Password string
	FullName string
	Role     entity.UserRole
	Id       uuid.UUID
}{
	"admin@demo.com": {
		Password: "admin123",
		FullName: "Demo Admin",
		Role:     entity.UserRoleAdmin,
		Id:       uuid.MustParse("00000000-0000-0000-0000-0000000000a1"),
	},
	"super@admin.com": {
		Password: "super123",
		FullName: "Super Admin",
		Role:     entity.UserRoleSuperAdmin,
		Id:       uuid.MustParse("00000000-0000-0000-0000-0000000000a2"),
	},
}

func signToken(userId uuid.UUID, role entity.UserRole) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userId.String(),
		"role":    string(role),
		"exp":     time.Now().Add(tokenExpiry).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = "default_secret"
	}
	return token.SignedString([]byte(secret))
}

func toProfile(user *entity.User) dto.UserProfileResponse {
	profile := dto.UserProfileResponse{
		Id:           user.Id,
		Email:        user.Email,
		FullName:     user.FullName,
		Role:         string(user.Role),
		Status:       string(user.Status),
		AiDailyUsage: user.AiDailyUsage,
		CreatedAt:    user.CreatedAt,
	}
	if user.AvatarURL != nil {
		profile.AvatarURL = *user.AvatarURL
	}
	return profile
}

func (s *authService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.RegisterResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	existing, err := uow.UserRepository().FindOne(ctx, specification.ByEmail{Email: req.Email})
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperrors.ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	hashStr := string(hash)

	user := &entity.User{
		Id:           uuid.New(),
		Email:        req.Email,
		FullName:     req.FullName,
		PasswordHash: &hashStr,
		Role:         entity.UserRoleUser,
		Status:       entity.UserStatusActive,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}

	if err := uow.UserRepository().Create(ctx, user); err != nil {
		return nil, err
	}

	if s.eventPublisher != nil {
		s.eventPublisher.PublishUserRegistered(ctx, user.Id, user.Email, user.FullName, "local")
	}

	go func() {
		if emailErr := s.emailService.SendWelcome(user.Email, user.FullName); emailErr != nil {
			fmt.Printf("Error sending welcome email: %v\n", emailErr)
		}
	}()

	token, err := signToken(user.Id, user.Role)
	if err != nil {
		return nil, err
	}

	return &dto.RegisterResponse{Token: token, User: toProfile(user)}, nil
}

func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	user, err := uow.UserRepository().FindOne(ctx, specification.ByEmail{Email: req.Email})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperrors.ErrInvalidCredentials
	}

	// Social-only accounts have no local password to check against.
	if user.PasswordHash == nil {
		return nil, apperrors.ErrOAuthOnlyAccount
	}

	if err := bcrypt.CompareHashAndPassword([]byte(*user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, apperrors.ErrInvalidCredentials
	}

	if user.Status == entity.UserStatusBlocked {
		return nil, apperrors.ErrAccountBlocked
	}

	token, err := signToken(user.Id, user.Role)
	if err != nil {
		return nil, err
	}

	return &dto.LoginResponse{Token: token, User: toProfile(user)}, nil
}

func (s *authService) LoginAdmin(ctx context.Context, req *dto.LoginRequest) (*dto.AdminLoginResponse, error) {
	// Demo credentials short-circuit the DB entirely.
	if demo, ok := demoAdmins[req.Email]; ok {
		if req.Password != demo.Password {
			return nil, apperrors.ErrInvalidCredentials
		}
		token, err := signToken(demo.Id, demo.Role)
		if err != nil {
			return nil, err
		}
		return &dto.AdminLoginResponse{
			Token: token,
			User: dto.UserProfileResponse{
				Id:        demo.Id,
				Email:     req.Email,
				FullName:  demo.FullName,
				Role:      string(demo.Role),
				Status:    string(entity.UserStatusActive),
				CreatedAt: time.Now(),
			},
			IsDemo: true,
		}, nil
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)

	user, err := uow.UserRepository().FindOne(ctx, specification.ByEmail{Email: req.Email})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperrors.ErrInvalidCredentials
	}

	if user.Role != entity.UserRoleAdmin && user.Role != entity.UserRoleSuperAdmin {
		return nil, apperrors.ErrAdminsOnly
	}

	if user.PasswordHash == nil {
		return nil, apperrors.ErrOAuthOnlyAccount
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, apperrors.ErrInvalidCredentials
	}

	if user.Status == entity.UserStatusBlocked {
		return nil, apperrors.ErrAccountBlocked
	}

	token, err := signToken(user.Id, user.Role)
	if err != nil {
		return nil, err
	}

	return &dto.AdminLoginResponse{Token: token, User: toProfile(user)}, nil
}
