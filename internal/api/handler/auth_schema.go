package handler

import "time"

// ErrorResponse is the envelope of every error the API renders.
type ErrorResponse struct {
	Timestamp time.Time         `json:"timestamp"`
	Message   string            `json:"message"`
	Details   string            `json:"details"`
	Errors    map[string]string `json:"errors,omitempty"`
}

// messageResponse is returned by endpoints that only acknowledge an action.
type messageResponse struct {
	Message string `json:"message"`
}

type registerRequest struct {
	Name     string `json:"name"     validate:"required"`
	Username string `json:"username" validate:"required"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type loginRequest struct {
	UsernameOrEmail string `json:"usernameOrEmail" validate:"required"`
	Password        string `json:"password"        validate:"required"`
}

type tokenResponse struct {
	AccessToken string    `json:"accessToken"`
	TokenType   string    `json:"tokenType"`
	ExpiresAt   time.Time `json:"expiresAt"`
}

type loginResponse struct {
	Message string `json:"message"`
	tokenResponse
}

type rolesRequest struct {
	Roles []string `json:"roles" validate:"required,min=1"`
}

type userResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Roles     []string  `json:"roles"`
	CreatedAt time.Time `json:"createdAt"`
}
