// Package auth is responsible for user signup and login.
// This file defines the User entity as stored in the database and used by the
// service layer.
package auth

import "time"

// User represents a registered account.
// The `json:"-"` tag on HashedPassword keeps the credential out of every API
// response; the plaintext password never reaches this struct at all.
type User struct {
	ID             int64     `json:"id"`
	FullName       string    `json:"fullName"`
	Username       string    `json:"username"`
	HashedPassword string    `json:"-"`
	State          string    `json:"state,omitempty"`
	District       string    `json:"district,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}
