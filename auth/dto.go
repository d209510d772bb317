// Package auth provides signup and login functionality.
// This file defines the request and response payloads for the auth endpoints.
package auth

// SignupRequest represents the signup request payload.
// State and district are optional profile fields.
type SignupRequest struct {
	FullName string `json:"fullName" example:"Alice Farmer"`
	Username string `json:"username" example:"alice"`
	Password string `json:"password" example:"strongpassword123"`
	State    string `json:"state,omitempty" example:"Karnataka"`
	District string `json:"district,omitempty" example:"Mysuru"`
}

// LoginRequest represents the login request payload.
type LoginRequest struct {
	Username string `json:"username" example:"alice"`
	Password string `json:"password" example:"strongpassword123"`
}

// SignupResponse is returned on successful account creation.
type SignupResponse struct {
	Success bool   `json:"success" example:"true"`
	Message string `json:"message" example:"Account created successfully!"`
}

// LoginResponse is returned on successful login. The access token authorizes
// protected endpoints such as the prediction history.
type LoginResponse struct {
	Success     bool   `json:"success" example:"true"`
	Message     string `json:"message" example:"Login successful!"`
	AccessToken string `json:"access_token" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
}
