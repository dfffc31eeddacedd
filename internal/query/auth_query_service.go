package query

import (
	"fmt"
	"time"

	"github.com/fintrack/fintrack/internal/cqrs"
	"github.com/fintrack/fintrack/internal/middleware"
	"github.com/fintrack/fintrack/internal/models"
	"github.com/fintrack/fintrack/internal/utils"
	"github.com/golang-jwt/jwt/v5"
)

// UserReader is the user lookup surface needed for login and token refresh.
type UserReader interface {
	GetByEmail(email string) (*models.User, error)
	GetByID(id string) (*models.User, error)
}

// AuthQueryService handles login and token refresh. There's no CommandService
// for these because they don't mutate application state. The signing secret
// is injected at construction.
type AuthQueryService struct {
	userRepo UserReader
	secret   []byte
}

func NewAuthQueryService(userRepo UserReader, secret []byte) *AuthQueryService {
	return &AuthQueryService{userRepo: userRepo, secret: secret}
}

func (s *AuthQueryService) Login(cmd cqrs.LoginCommand) (string, error) {
	user, err := s.userRepo.GetByEmail(cmd.Email)
	if err != nil {
		return "", fmt.Errorf("invalid credentials")
	}
	if !utils.CheckPassword(cmd.Password, user.PasswordHash) {
		return "", fmt.Errorf("invalid credentials")
	}
	return s.generateToken(user.ID, user.Email)
}

func (s *AuthQueryService) RefreshToken(cmd cqrs.RefreshTokenCommand) (string, error) {
	claims := &middleware.Claims{}
	token, err := jwt.ParseWithClaims(cmd.Token, claims, func(token *jwt.Token) (any, error) {
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return "", fmt.Errorf("invalid token")
	}

	// Refuse to reissue for accounts that no longer exist.
	user, err := s.userRepo.GetByID(claims.UserID)
	if err != nil {
		return "", fmt.Errorf("invalid token")
	}
	return s.generateToken(user.ID, user.Email)
}

func (s *AuthQueryService) generateToken(userID, email string) (string, error) {
	claims := middleware.Claims{
		UserID: userID,
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return signed, nil
}
