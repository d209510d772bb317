package auth

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/apexcoders/smart-agriculture-backend/apperror"
	"github.com/apexcoders/smart-agriculture-backend/config"
)

// Service provides signup and login on top of a credential Store.
type Service struct {
	store      Store
	authConfig config.AuthConfig
}

// NewService creates a new auth Service with its dependencies injected.
func NewService(store Store, authConfig config.AuthConfig) *Service {
	return &Service{
		store:      store,
		authConfig: authConfig,
	}
}

// Claims is the JWT payload for access tokens. It embeds the registered
// claims (exp, iat, nbf) and adds the user's ID.
type Claims struct {
	UserID int64 `json:"user_id"`
	jwt.RegisteredClaims
}

// Signup creates a new user account.
// Uniqueness is checked before the insert; this check-then-act sequence is not
// atomic, so the unique constraint on users.username remains the backstop for
// two concurrent signups racing on the same name.
func (s *Service) Signup(ctx context.Context, req SignupRequest) (*User, error) {
	existing, err := s.store.FindByUsername(ctx, req.Username)
	if err != nil && !apperror.IsNotFound(err) {
		log.Printf("Signup error for username %q: %v", req.Username, err)
		return nil, err
	}
	if existing != nil {
		return nil, apperror.NewConflictError("Username already exists. Please choose another.", nil)
	}

	// Passwords are never stored in plaintext; bcrypt salts and hashes here,
	// and login verifies through the same scheme.
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperror.NewInternalError("failed to hash password", err)
	}

	user := &User{
		FullName:       req.FullName,
		Username:       req.Username,
		HashedPassword: string(hashedPassword),
		State:          req.State,
		District:       req.District,
	}

	created, err := s.store.Create(ctx, user)
	if err != nil {
		if !apperror.IsConflictError(err) {
			log.Printf("Signup error for username %q: %v", req.Username, err)
		}
		return nil, err
	}
	return created, nil
}

// Login verifies a user's credentials and returns a signed access token.
// An unknown username and a wrong password are reported distinctly (404 vs
// 401), matching the API contract.
func (s *Service) Login(ctx context.Context, req LoginRequest) (string, error) {
	log.Printf("Login attempt for username: %q", req.Username)

	user, err := s.store.FindByUsername(ctx, req.Username)
	if err != nil {
		if !apperror.IsNotFound(err) {
			log.Printf("Login error for username %q: %v", req.Username, err)
		}
		return "", err
	}

	// bcrypt's comparison primitive recomputes the hash over the supplied
	// password; plaintext is never compared to plaintext and raw hashes are
	// never compared byte-for-byte by hand.
	if err := bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(req.Password)); err != nil {
		return "", apperror.NewAuthError("Invalid credentials.", nil)
	}

	token, err := s.generateAccessToken(user.ID)
	if err != nil {
		log.Printf("Login error for username %q: %v", req.Username, err)
		return "", apperror.NewInternalError("failed to generate access token", err)
	}
	return token, nil
}

// generateAccessToken creates a signed HS256 JWT for the given user.
func (s *Service) generateAccessToken(userID int64) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.authConfig.AccessTokenDuration)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    "smart-agriculture-backend",
			Subject:   fmt.Sprintf("%d", userID),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(s.authConfig.JWTSecret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return tokenString, nil
}
