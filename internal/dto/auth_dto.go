package dto

type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	FullName string `json:"full_name" validate:"required,min=3"`
}

type RegisterResponse struct {
	Token string              `json:"token"`
	User  UserProfileResponse `json:"user"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	Token string              `json:"token"`
	User  UserProfileResponse `json:"user"`
}

type AdminLoginResponse struct {
	Token  string              `json:"token"`
	User   UserProfileResponse `json:"user"`
	IsDemo bool                `json:"is_demo,omitempty"`
}

// --- OAuth ---

type OAuthProviderInfo struct {
	Name    string `json:"name"`
	AuthURL string `json:"auth_url"`
}

type OAuthProvidersResponse struct {
	Providers []OAuthProviderInfo `json:"providers"`
}

type OAuthLoginURLResponse struct {
	URL string `json:"url"`
}

type OAuthCallbackResponse struct {
	Token     string              `json:"token"`
	User      UserProfileResponse `json:"user"`
	IsNewUser bool                `json:"is_new_user"`
}
