package command

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/fintrack/fintrack/internal/cqrs"
	"github.com/fintrack/fintrack/internal/events"
	"github.com/fintrack/fintrack/internal/models"
)

// TransactionWriter is the write-store surface used by the command service.
type TransactionWriter interface {
	Create(t *models.TransactionLog) error
	Update(t *models.TransactionLog) (*models.TransactionLog, error)
	Delete(id int64, userID string) (*models.TransactionLog, error)
}

// ViewCacher keeps the Redis read models in step with writes.
type ViewCacher interface {
	CacheTransactionView(ctx context.Context, view *models.TransactionView)
	InvalidateTransactionView(ctx context.Context, userID string, id int64)
}

// EventPublisher emits domain events after successful writes.
type EventPublisher interface {
	Publish(ctx context.Context, stream, eventType string, data any) error
}

// TransactionCommandService handles add/update/delete. Input is validated
// before any store access; all row matching is scoped to the calling user.
// Event publish failures are logged, never surfaced — the write is the source
// of truth.
type TransactionCommandService struct {
	writeRepo TransactionWriter
	cache     ViewCacher
	publisher EventPublisher
}

func NewTransactionCommandService(writeRepo TransactionWriter, cache ViewCacher, publisher EventPublisher) *TransactionCommandService {
	return &TransactionCommandService{
		writeRepo: writeRepo,
		cache:     cache,
		publisher: publisher,
	}
}

func (s *TransactionCommandService) AddTransaction(cmd cqrs.AddTransactionCommand) (*models.TransactionLog, error) {
	if !cmd.Category.Valid() {
		return nil, fmt.Errorf("%w: category must be one of %s", models.ErrInvalidInput, strings.Join(models.CategoryNames(), ", "))
	}
	if strings.TrimSpace(cmd.Description) == "" {
		return nil, fmt.Errorf("%w: description is required", models.ErrInvalidInput)
	}

	transaction := &models.TransactionLog{
		UserID:      cmd.UserID,
		Category:    cmd.Category,
		Amount:      cmd.Amount,
		Description: cmd.Description,
	}
	if cmd.Date != nil {
		transaction.Date = cmd.Date.UTC()
	}

	if err := s.writeRepo.Create(transaction); err != nil {
		return nil, err
	}

	ctx := context.Background()
	s.cache.CacheTransactionView(ctx, txToView(transaction))
	if err := s.publisher.Publish(ctx, events.TransactionEventsStream, events.TransactionCreated, events.TransactionCreatedEvent{
		TransactionID: transaction.ID,
		UserID:        transaction.UserID,
		Category:      string(transaction.Category),
		Amount:        transaction.Amount,
	}); err != nil {
		log.Printf("Failed to publish transaction.created event: %v", err)
	}
	return transaction, nil
}

func (s *TransactionCommandService) UpdateTransaction(cmd cqrs.UpdateTransactionCommand) (*models.TransactionLog, error) {
	if !cmd.Category.Valid() {
		return nil, fmt.Errorf("%w: category must be one of %s", models.ErrInvalidInput, strings.Join(models.CategoryNames(), ", "))
	}
	if strings.TrimSpace(cmd.Description) == "" {
		return nil, fmt.Errorf("%w: description is required", models.ErrInvalidInput)
	}
	if cmd.Date.IsZero() {
		return nil, fmt.Errorf("%w: date is required", models.ErrInvalidInput)
	}

	updated, err := s.writeRepo.Update(&models.TransactionLog{
		ID:          cmd.TransactionID,
		UserID:      cmd.UserID,
		Category:    cmd.Category,
		Amount:      cmd.Amount,
		Description: cmd.Description,
		Date:        cmd.Date.UTC(),
	})
	if err != nil {
		return nil, err
	}

	ctx := context.Background()
	s.cache.CacheTransactionView(ctx, txToView(updated))
	if err := s.publisher.Publish(ctx, events.TransactionEventsStream, events.TransactionUpdated, events.TransactionUpdatedEvent{
		TransactionID: updated.ID,
		UserID:        updated.UserID,
		Category:      string(updated.Category),
		Amount:        updated.Amount,
	}); err != nil {
		log.Printf("Failed to publish transaction.updated event: %v", err)
	}
	return updated, nil
}

func (s *TransactionCommandService) DeleteTransaction(cmd cqrs.DeleteTransactionCommand) (*models.TransactionLog, error) {
	deleted, err := s.writeRepo.Delete(cmd.TransactionID, cmd.UserID)
	if err != nil {
		return nil, err
	}

	ctx := context.Background()
	s.cache.InvalidateTransactionView(ctx, cmd.UserID, cmd.TransactionID)
	if err := s.publisher.Publish(ctx, events.TransactionEventsStream, events.TransactionDeleted, events.TransactionDeletedEvent{
		TransactionID: deleted.ID,
		UserID:        deleted.UserID,
	}); err != nil {
		log.Printf("Failed to publish transaction.deleted event: %v", err)
	}
	return deleted, nil
}

// txToView converts the write model to a read view model.
func txToView(t *models.TransactionLog) *models.TransactionView {
	return &models.TransactionView{
		ID:          t.ID,
		UserID:      t.UserID,
		Category:    t.Category,
		Amount:      t.Amount,
		Description: t.Description,
		Date:        t.Date,
		CreatedAt:   t.CreatedAt,
	}
}
