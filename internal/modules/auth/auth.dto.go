package auth

import "time"

// RegisterRequest creates a new API account
// @Description New account registration
type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=64"`
	Password string `json:"password" validate:"required,min=8,max=128"`
} // @name RegisterRequest

// LoginRequest authenticates an API account
// @Description Login credentials
type LoginRequest struct {
	Username string `json:"username" validate:"required,min=3,max=64"`
	Password string `json:"password" validate:"required,min=8,max=128"`
} // @name LoginRequest

// TokenResponse is a successful login result
// @Description Bearer token grant
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
} // @name TokenResponse

// UserResponse is a registered account without credentials
// @Description Registered account
type UserResponse struct {
	ID        uint64    `json:"id"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
} // @name UserResponse
