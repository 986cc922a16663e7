package api

import (
	"context"
	"net/http"
)

// User is the backend's user profile record.
type User struct {
	ID        int    `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// LoginRequest carries login credentials.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// RegisterRequest carries a new account registration.
type RegisterRequest struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
}

// UpdateUserRequest carries a partial profile update.
type UpdateUserRequest struct {
	Username  string `json:"username,omitempty"`
	Email     string `json:"email,omitempty"`
	Password  string `json:"password,omitempty"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
}

// AuthResponse is returned by login and register.
type AuthResponse struct {
	Message   string `json:"message"`
	User      User   `json:"user"`
	Token     string `json:"token"`
	SessionID string `json:"session_id,omitempty"`
}

// Login authenticates with username and password.
func (c *Client) Login(ctx context.Context, req LoginRequest) (AuthResponse, error) {
	var out AuthResponse
	if err := c.doJSON(ctx, http.MethodPost, "/website/user/login", req, &out, "Login failed. Please try again."); err != nil {
		return AuthResponse{}, err
	}
	return out, nil
}

// Register creates a new account. The caller must log in afterwards; the
// returned token is not stored here.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (AuthResponse, error) {
	var out AuthResponse
	if err := c.doJSON(ctx, http.MethodPost, "/website/user/register", req, &out, "Registration failed. Please try again."); err != nil {
		return AuthResponse{}, err
	}
	return out, nil
}

// Logout invalidates the server-side session.
func (c *Client) Logout(ctx context.Context) error {
	return c.doJSON(ctx, http.MethodPost, "/website/user/logout", nil, nil, "Logout failed.")
}

// UserInfo fetches the current user's profile.
func (c *Client) UserInfo(ctx context.Context) (User, error) {
	var out User
	if err := c.doJSON(ctx, http.MethodGet, "/website/user/info", nil, &out, "Failed to get user info."); err != nil {
		return User{}, err
	}
	return out, nil
}

// UpdateUser submits a profile update and returns the backend's message.
func (c *Client) UpdateUser(ctx context.Context, req UpdateUserRequest) (string, error) {
	var out struct {
		Message string `json:"message"`
	}
	if err := c.doJSON(ctx, http.MethodPost, "/website/user/update", req, &out, "Failed to update user."); err != nil {
		return "", err
	}
	return out.Message, nil
}

// GeneralInquiry is the general contact form payload.
type GeneralInquiry struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Subject  string `json:"subject"`
	Message  string `json:"message"`
	WeChatID string `json:"wechat_id,omitempty"`
}

// MediaInterest is the media-resources interest form payload.
type MediaInterest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Media    string `json:"media"`
	Message  string `json:"message,omitempty"`
	WeChatID string `json:"wechat_id,omitempty"`
}

// SubmitGeneralInquiry posts the general contact form.
func (c *Client) SubmitGeneralInquiry(ctx context.Context, form GeneralInquiry) (string, error) {
	var out struct {
		Message string `json:"message"`
	}
	if err := c.doJSON(ctx, http.MethodPost, "/website/user/contact/general-inquiry", form, &out, "Failed to submit your message."); err != nil {
		return "", err
	}
	return out.Message, nil
}

// SubmitMediaInterest posts the media-resources interest form.
func (c *Client) SubmitMediaInterest(ctx context.Context, form MediaInterest) (string, error) {
	var out struct {
		Message string `json:"message"`
	}
	if err := c.doJSON(ctx, http.MethodPost, "/website/user/contact/media-resources", form, &out, "Failed to submit your message."); err != nil {
		return "", err
	}
	return out.Message, nil
}
