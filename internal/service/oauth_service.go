// FILE: internal/service/oauth_service.go
package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"nexusai-be/internal/config"
	"nexusai-be/internal/dto"
	"nexusai-be/internal/entity"
	"nexusai-be/internal/pkg/apperrors"
	"nexusai-be/internal/pkg/logger"
	"nexusai-be/internal/repository/memory"
	"nexusai-be/internal/repository/specification"
	"nexusai-be/internal/repository/unitofwork"

	adminEvents "nexusai-be/pkg/admin/events"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/facebook"
	"golang.org/x/oauth2/github"
	"golang.org/x/oauth2/google"
)

type IOAuthService interface {
	GetProviders() *dto.OAuthProvidersResponse
	GetLoginURL(provider string) (string, error)
	HandleCallback(ctx context.Context, provider, code, state string) (*dto.OAuthCallbackResponse, error)
}

// profile is the provider-agnostic shape the callback handler works with.
type oauthProfile struct {
	ProviderUserId string
	Email          string
	Name           string
	AvatarURL      string
}

type oauthService struct {
	uowFactory     unitofwork.RepositoryFactory
	stateStore     *memory.OAuthStateRepository
	logger         logger.ILogger
	eventPublisher adminEvents.Publisher
	configs        map[string]*oauth2.Config
	httpClient     *http.Client
}

func NewOAuthService(cfg *config.Config, uowFactory unitofwork.RepositoryFactory, stateStore *memory.OAuthStateRepository, log logger.ILogger, eventPublisher adminEvents.Publisher) IOAuthService {
	callback := func(provider string) string {
		return cfg.App.BaseURL + "/api/auth/" + provider + "/callback"
	}

	configs := map[string]*oauth2.Config{
		"google": {
			ClientID:     cfg.OAuth.Google.ClientID,
			ClientSecret: cfg.OAuth.Google.ClientSecret,
			RedirectURL:  callback("google"),
			Scopes: []string{
				"https://www.googleapis.com/auth/userinfo.email",
				"https://www.googleapis.com/auth/userinfo.profile",
			},
			Endpoint: google.Endpoint,
		},
		"github": {
			ClientID:     cfg.OAuth.GitHub.ClientID,
			ClientSecret: cfg.OAuth.GitHub.ClientSecret,
			RedirectURL:  callback("github"),
			Scopes:       []string{"user:email"},
			Endpoint:     github.Endpoint,
		},
		"facebook": {
			ClientID:     cfg.OAuth.Facebook.ClientID,
			ClientSecret: cfg.OAuth.Facebook.ClientSecret,
			RedirectURL:  callback("facebook"),
			Scopes:       []string{"email", "public_profile"},
			Endpoint:     facebook.Endpoint,
		},
	}

	return &oauthService{
		uowFactory:     uowFactory,
		stateStore:     stateStore,
		logger:         log,
		eventPublisher: eventPublisher,
		configs:        configs,
		httpClient:     &http.Client{Timeout: 15 * time.Second},
	}
}

func (s *oauthService) GetProviders() *dto.OAuthProvidersResponse {
	providers := make([]dto.OAuthProviderInfo, 0, len(s.configs))
	for _, name := range []string{"google", "github", "facebook"} {
		providers = append(providers, dto.OAuthProviderInfo{
			Name:    name,
			AuthURL: "/api/auth/" + name,
		})
	}
	return &dto.OAuthProvidersResponse{Providers: providers}
}

func (s *oauthService) GetLoginURL(provider string) (string, error) {
	conf, ok := s.configs[provider]
	if !ok {
		return "", &apperrors.ValidationError{Field: "provider", Message: "unsupported provider: " + provider}
	}

	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	state := base64.URLEncoding.EncodeToString(b)
	s.stateStore.Save(state, provider)

	return conf.AuthCodeURL(state), nil
}

func (s *oauthService) HandleCallback(ctx context.Context, provider, code, state string) (*dto.OAuthCallbackResponse, error) {
	conf, ok := s.configs[provider]
	if !ok {
		return nil, &apperrors.ValidationError{Field: "provider", Message: "unsupported provider: " + provider}
	}

	// The state must match one we issued, and is single-use.
	issuedFor, ok := s.stateStore.Consume(state)
	if !ok || issuedFor != provider {
		return nil, &apperrors.ValidationError{Field: "state", Message: "invalid or expired oauth state"}
	}

	token, err := conf.Exchange(ctx, code)
	if err != nil {
		s.logger.Error("OAUTH", "code exchange failed", map[string]interface{}{"provider": provider, "error": err.Error()})
		return nil, &apperrors.UpstreamError{Provider: provider, Err: fmt.Errorf("code exchange failed: %w", err), Transient: true}
	}

	profile, err := s.fetchProfile(ctx, provider, conf, token)
	if err != nil {
		s.logger.Error("OAUTH", "profile fetch failed", map[string]interface{}{"provider": provider, "error": err.Error()})
		return nil, err
	}

	user, isNew, err := s.findOrCreateUser(ctx, provider, profile)
	if err != nil {
		return nil, err
	}

	if user.Status == entity.UserStatusBlocked {
		return nil, apperrors.ErrAccountBlocked
	}

	signedToken, err := signToken(user.Id, user.Role)
	if err != nil {
		return nil, err
	}

	s.logger.Info("OAUTH", "social login completed", map[string]interface{}{
		"provider": provider,
		"user_id":  user.Id.String(),
		"is_new":   isNew,
	})

	return &dto.OAuthCallbackResponse{
		Token:     signedToken,
		User:      toProfile(user),
		IsNewUser: isNew,
	}, nil
}

// findOrCreateUser links by provider id first, then email, and finally
// creates an account with a random password so the record always has a hash.
func (s *oauthService) findOrCreateUser(ctx context.Context, provider string, profile *oauthProfile) (*entity.User, bool, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	repo := uow.UserRepository()

	user, err := repo.FindUserByProvider(ctx, provider, profile.ProviderUserId)
	if err != nil {
		return nil, false, err
	}

	if user == nil {
		user, err = repo.FindOne(ctx, specification.ByEmail{Email: profile.Email})
		if err != nil {
			return nil, false, err
		}
	}

	// Soft-deleted accounts come back on social re-login.
	if user == nil {
		user, err = repo.FindOneUnscoped(ctx, specification.ByEmail{Email: profile.Email})
		if err != nil {
			return nil, false, err
		}
		if user != nil {
			if err := repo.Restore(ctx, user.Id); err != nil {
				return nil, false, err
			}
			user, err = repo.FindOne(ctx, specification.ByEmail{Email: profile.Email})
			if err != nil {
				return nil, false, err
			}
		}
	}

	isNew := false
	if user == nil {
		hashStr, err := randomPasswordHash()
		if err != nil {
			return nil, false, err
		}
		avatar := profile.AvatarURL
		user = &entity.User{
			Id:           uuid.New(),
			Email:        profile.Email,
			FullName:     profile.Name,
			PasswordHash: &hashStr,
			Role:         entity.UserRoleUser,
			Status:       entity.UserStatusActive,
			AvatarURL:    &avatar,
			CreatedAt:    time.Now(),
			UpdatedAt:    time.Now(),
		}
		if err := repo.Create(ctx, user); err != nil {
			return nil, false, err
		}
		isNew = true

		if s.eventPublisher != nil {
			s.eventPublisher.PublishUserRegistered(ctx, user.Id, user.Email, user.FullName, provider)
		}
	}

	link := &entity.UserProvider{
		Id:             uuid.New(),
		UserId:         user.Id,
		ProviderName:   provider,
		ProviderUserId: profile.ProviderUserId,
		AvatarURL:      profile.AvatarURL,
		CreatedAt:      time.Now(),
	}
	if err := repo.SaveUserProvider(ctx, link); err != nil {
		return nil, false, fmt.Errorf("failed to save provider link: %w", err)
	}

	if profile.AvatarURL != "" {
		_ = repo.UpdateAvatar(ctx, user.Id, profile.AvatarURL)
	}

	return user, isNew, nil
}

func randomPasswordHash() (string, error) {
	b := make([]byte, 24)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(base64.URLEncoding.EncodeToString(b)), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// --- Provider profile fetching ---

func (s *oauthService) fetchProfile(ctx context.Context, provider string, conf *oauth2.Config, token *oauth2.Token) (*oauthProfile, error) {
	client := conf.Client(ctx, token)
	client.Timeout = s.httpClient.Timeout

	switch provider {
	case "google":
		return fetchGoogleProfile(client)
	case "github":
		return fetchGithubProfile(client)
	case "facebook":
		return fetchFacebookProfile(client)
	default:
		return nil, errors.New("unsupported provider: " + provider)
	}
}

func getJSON(client *http.Client, url string, out interface{}) error {
	resp, err := client.Get(url)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("userinfo request failed: status %d, body: %s", resp.StatusCode, string(body))
	}
	return json.Unmarshal(body, out)
}

func fetchGoogleProfile(client *http.Client) (*oauthProfile, error) {
	var googleUser struct {
		ID      string `json:"id"`
		Email   string `json:"email"`
		Name    string `json:"name"`
		Picture string `json:"picture"`
	}
	if err := getJSON(client, "https://www.googleapis.com/oauth2/v2/userinfo", &googleUser); err != nil {
		return nil, err
	}
	return &oauthProfile{
		ProviderUserId: googleUser.ID,
		Email:          googleUser.Email,
		Name:           googleUser.Name,
		AvatarURL:      googleUser.Picture,
	}, nil
}

func fetchGithubProfile(client *http.Client) (*oauthProfile, error) {
	var ghUser struct {
		ID        int64  `json:"id"`
		Login     string `json:"login"`
		Name      string `json:"name"`
		Email     string `json:"email"`
		AvatarURL string `json:"avatar_url"`
	}
	if err := getJSON(client, "https://api.github.com/user", &ghUser); err != nil {
		return nil, err
	}

	email := ghUser.Email
	if email == "" {
		email = resolveGithubEmail(client, ghUser.ID)
	}

	name := ghUser.Name
	if name == "" {
		name = ghUser.Login
	}

	return &oauthProfile{
		ProviderUserId: fmt.Sprintf("%d", ghUser.ID),
		Email:          email,
		Name:           name,
		AvatarURL:      ghUser.AvatarURL,
	}, nil
}

// resolveGithubEmail walks the /user/emails list because the profile email
// is empty for most accounts. Preference order: primary+verified, any
// verified, primary, first listed, then the noreply fallback.
func resolveGithubEmail(client *http.Client, githubId int64) string {
	var emails []struct {
		Email    string `json:"email"`
		Primary  bool   `json:"primary"`
		Verified bool   `json:"verified"`
	}
	if err := getJSON(client, "https://api.github.com/user/emails", &emails); err != nil || len(emails) == 0 {
		return fmt.Sprintf("%d+user@users.noreply.github.com", githubId)
	}

	for _, e := range emails {
		if e.Primary && e.Verified {
			return e.Email
		}
	}
	for _, e := range emails {
		if e.Verified {
			return e.Email
		}
	}
	for _, e := range emails {
		if e.Primary {
			return e.Email
		}
	}
	return emails[0].Email
}

func fetchFacebookProfile(client *http.Client) (*oauthProfile, error) {
	var fbUser struct {
		ID      string `json:"id"`
		Email   string `json:"email"`
		Name    string `json:"name"`
		Picture struct {
			Data struct {
				URL string `json:"url"`
			} `json:"data"`
		} `json:"picture"`
	}
	if err := getJSON(client, "https://graph.facebook.com/me?fields=id,name,email,picture.type(large)", &fbUser); err != nil {
		return nil, err
	}

	email := fbUser.Email
	if email == "" {
		// Facebook omits the email when the account has none verified.
		email = fbUser.ID + "@facebook.placeholder"
	}

	return &oauthProfile{
		ProviderUserId: fbUser.ID,
		Email:          email,
		Name:           fbUser.Name,
		AvatarURL:      fbUser.Picture.Data.URL,
	}, nil
}
