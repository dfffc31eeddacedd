package command

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/fintrack/fintrack/internal/cqrs"
	"github.com/fintrack/fintrack/internal/events"
	"github.com/fintrack/fintrack/internal/models"
	"github.com/fintrack/fintrack/internal/utils"
)

// UserWriter is the user persistence surface used during registration.
type UserWriter interface {
	Create(user *models.User) error
}

// UserCommandService creates user accounts.
type UserCommandService struct {
	userRepo  UserWriter
	publisher EventPublisher
}

func NewUserCommandService(userRepo UserWriter, publisher EventPublisher) *UserCommandService {
	return &UserCommandService{userRepo: userRepo, publisher: publisher}
}

func (s *UserCommandService) RegisterUser(cmd cqrs.RegisterUserCommand) (*models.User, error) {
	hash, err := utils.HashPassword(cmd.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now().UTC()
	user := &models.User{
		ID:           utils.GenerateID("usr"),
		Name:         cmd.Name,
		Email:        cmd.Email,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, err
	}

	if err := s.publisher.Publish(context.Background(), events.UserEventsStream, events.UserCreated, events.UserCreatedEvent{
		UserID: user.ID,
		Email:  user.Email,
		Name:   user.Name,
	}); err != nil {
		log.Printf("Failed to publish user.created event: %v", err)
	}
	return user, nil
}
