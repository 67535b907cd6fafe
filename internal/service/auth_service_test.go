package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"nexusai-be/internal/dto"
	"nexusai-be/internal/entity"
	"nexusai-be/internal/pkg/apperrors"
)

type fakeMailer struct{}

func (fakeMailer) SendWelcome(toEmail, name string) error { return nil }

func newAuthFixture() (*fakeUserRepo, IAuthService) {
	userRepo := newFakeUserRepo()
	factory := &fakeUowFactory{uow: &fakeUow{chatRepo: newFakeChatRepo(), userRepo: userRepo}}
	return userRepo, NewAuthService(factory, fakeMailer{}, nil)
}

func seedUser(repo *fakeUserRepo, email, password string, role entity.UserRole, status entity.UserStatus) *entity.User {
	hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	hashStr := string(hash)
	user := &entity.User{
		Id:           uuid.New(),
		Email:        email,
		FullName:     "Seeded User",
		PasswordHash: &hashStr,
		Role:         role,
		Status:       status,
		CreatedAt:    time.Now(),
	}
	repo.Create(context.Background(), user)
	return user
}

func TestRegisterAndLogin(t *testing.T) {
	_, svc := newAuthFixture()

	reg, err := svc.Register(context.Background(), &dto.RegisterRequest{
		Email:    "new@example.com",
		Password: "secret123",
		FullName: "New User",
	})
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if reg.Token == "" {
		t.Error("Register() returned an empty token")
	}
	if reg.User.Role != string(entity.UserRoleUser) {
		t.Errorf("Role = %q, want %q", reg.User.Role, entity.UserRoleUser)
	}

	login, err := svc.Login(context.Background(), &dto.LoginRequest{
		Email:    "new@example.com",
		Password: "secret123",
	})
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if login.Token == "" {
		t.Error("Login() returned an empty token")
	}
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	userRepo, svc := newAuthFixture()
	seedUser(userRepo, "taken@example.com", "whatever", entity.UserRoleUser, entity.UserStatusActive)

	_, err := svc.Register(context.Background(), &dto.RegisterRequest{
		Email:    "taken@example.com",
		Password: "secret123",
		FullName: "Dup",
	})
	if !errors.Is(err, apperrors.ErrEmailTaken) {
		t.Errorf("error = %v, want ErrEmailTaken", err)
	}
}

func TestLoginFailures(t *testing.T) {
	userRepo, svc := newAuthFixture()
	seedUser(userRepo, "user@example.com", "correct", entity.UserRoleUser, entity.UserStatusActive)
	seedUser(userRepo, "blocked@example.com", "correct", entity.UserRoleUser, entity.UserStatusBlocked)

	social := seedUser(userRepo, "social@example.com", "ignored", entity.UserRoleUser, entity.UserStatusActive)
	social.PasswordHash = nil
	userRepo.Update(context.Background(), social)

	tests := []struct {
		name     string
		email    string
		password string
		wantErr  error
	}{
		{"unknown email", "nobody@example.com", "x", apperrors.ErrInvalidCredentials},
		{"wrong password", "user@example.com", "wrong", apperrors.ErrInvalidCredentials},
		{"blocked account", "blocked@example.com", "correct", apperrors.ErrAccountBlocked},
		{"social only account", "social@example.com", "anything", apperrors.ErrOAuthOnlyAccount},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Login(context.Background(), &dto.LoginRequest{
				Email:    tt.email,
				Password: tt.password,
			})
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoginAdminDemoAccounts(t *testing.T) {
	_, svc := newAuthFixture()

	resp, err := svc.LoginAdmin(context.Background(), &dto.LoginRequest{
		Email:    "admin@demo.com",
		Password: "admin123",
	})
	if err != nil {
		t.Fatalf("LoginAdmin() error = %v", err)
	}
	if !resp.IsDemo {
		t.Error("IsDemo = false, want true for the demo account")
	}
	if resp.User.Role != string(entity.UserRoleAdmin) {
		t.Errorf("Role = %q, want %q", resp.User.Role, entity.UserRoleAdmin)
	}

	superResp, err := svc.LoginAdmin(context.Background(), &dto.LoginRequest{
		Email:    "super@admin.com",
		Password: "super123",
	})
	if err != nil {
		t.Fatalf("LoginAdmin() super error = %v", err)
	}
	if superResp.User.Role != string(entity.UserRoleSuperAdmin) {
		t.Errorf("Role = %q, want %q", superResp.User.Role, entity.UserRoleSuperAdmin)
	}

	_, err = svc.LoginAdmin(context.Background(), &dto.LoginRequest{
		Email:    "admin@demo.com",
		Password: "wrong",
	})
	if !errors.Is(err, apperrors.ErrInvalidCredentials) {
		t.Errorf("error = %v, want ErrInvalidCredentials for a wrong demo password", err)
	}
}

func TestLoginAdminRejectsRegularUsers(t *testing.T) {
	userRepo, svc := newAuthFixture()
	seedUser(userRepo, "plain@example.com", "secret123", entity.UserRoleUser, entity.UserStatusActive)

	_, err := svc.LoginAdmin(context.Background(), &dto.LoginRequest{
		Email:    "plain@example.com",
		Password: "secret123",
	})
	if !errors.Is(err, apperrors.ErrAdminsOnly) {
		t.Errorf("error = %v, want ErrAdminsOnly", err)
	}
}

func TestLoginAdminAcceptsDatabaseAdmin(t *testing.T) {
	userRepo, svc := newAuthFixture()
	seedUser(userRepo, "real@admin.example.com", "hunter22", entity.UserRoleAdmin, entity.UserStatusActive)

	resp, err := svc.LoginAdmin(context.Background(), &dto.LoginRequest{
		Email:    "real@admin.example.com",
		Password: "hunter22",
	})
	if err != nil {
		t.Fatalf("LoginAdmin() error = %v", err)
	}
	if resp.IsDemo {
		t.Error("IsDemo = true for a database-backed admin")
	}
	if resp.Token == "" {
		t.Error("LoginAdmin() returned an empty token")
	}
}
