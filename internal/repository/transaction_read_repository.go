package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/fintrack/fintrack/internal/models"
	sharedredis "github.com/fintrack/fintrack/internal/redis"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// TransactionReadRepository handles all read operations for transaction logs.
// Single-row reads use Redis as the primary read store, falling back to
// PostgreSQL on a miss. Every query is scoped by the owning user.
type TransactionReadRepository struct {
	db    *sql.DB
	cache *sharedredis.ViewCache[models.TransactionView]
}

func NewTransactionReadRepository(db *sql.DB, redisClient *goredis.Client, logger zerolog.Logger) *TransactionReadRepository {
	return &TransactionReadRepository{
		db:    db,
		cache: sharedredis.NewViewCache[models.TransactionView](redisClient, logger, "transaction:view", 0),
	}
}

// GetByID returns the TransactionView matching (id, userID), attempting Redis
// first, then PostgreSQL. A missing row is not an error: it returns (nil, nil).
func (r *TransactionReadRepository) GetByID(ctx context.Context, id int64, userID string) (*models.TransactionView, error) {
	if view, ok := r.cache.Get(ctx, userID, id); ok {
		// UserID is excluded from the serialised view, so restore it from
		// the owner-scoped cache key.
		view.UserID = userID
		return view, nil
	}

	// Fallback: PostgreSQL
	query := `
		SELECT id, user_id, category, amount, description, date, created_at
		FROM transaction_logs
		WHERE id = $1 AND user_id = $2
	`
	var view models.TransactionView
	pgErr := r.db.QueryRowContext(ctx, query, id, userID).Scan(
		&view.ID, &view.UserID, &view.Category,
		&view.Amount, &view.Description, &view.Date, &view.CreatedAt,
	)
	if pgErr == sql.ErrNoRows {
		return nil, nil
	}
	if pgErr != nil {
		return nil, fmt.Errorf("failed to get transaction: %w", pgErr)
	}

	// Warm the cache
	r.CacheTransactionView(ctx, &view)
	return &view, nil
}

// ListByUser returns all TransactionViews owned by userID, ordered by date
// descending (creation time breaks ties).
func (r *TransactionReadRepository) ListByUser(ctx context.Context, userID string) ([]models.TransactionView, error) {
	query := `
		SELECT id, user_id, category, amount, description, date, created_at
		FROM transaction_logs
		WHERE user_id = $1
		ORDER BY date DESC, created_at DESC
	`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	var views []models.TransactionView
	for rows.Next() {
		var view models.TransactionView
		if err := rows.Scan(
			&view.ID, &view.UserID, &view.Category,
			&view.Amount, &view.Description, &view.Date, &view.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		views = append(views, view)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	return views, nil
}

// CacheTransactionView stores the read model for a transaction in Redis.
// Called by the command service immediately after a successful write.
func (r *TransactionReadRepository) CacheTransactionView(ctx context.Context, view *models.TransactionView) {
	r.cache.Set(ctx, view.UserID, view.ID, view)
}

// InvalidateTransactionView drops the cached read model after update/delete.
func (r *TransactionReadRepository) InvalidateTransactionView(ctx context.Context, userID string, id int64) {
	r.cache.Delete(ctx, userID, id)
}
