package repository

import (
	"database/sql"
	"fmt"

	"github.com/fintrack/fintrack/internal/models"
)

// TransactionWriteRepository handles all state-mutating operations for
// transaction logs. It operates exclusively against the PostgreSQL write
// store (source of truth).
//
// Update and Delete match on the compound (id, user_id) key so a caller can
// never overwrite or remove another user's row.
type TransactionWriteRepository struct {
	db *sql.DB
}

func NewTransactionWriteRepository(db *sql.DB) *TransactionWriteRepository {
	return &TransactionWriteRepository{db: db}
}

// Create inserts a new row and fills in the store-generated fields (id, date
// when omitted, created_at) on the passed model.
func (r *TransactionWriteRepository) Create(t *models.TransactionLog) error {
	if t.Date.IsZero() {
		query := `
			INSERT INTO transaction_logs (user_id, category, amount, description)
			VALUES ($1, $2, $3, $4)
			RETURNING id, date, created_at
		`
		err := r.db.QueryRow(query, t.UserID, t.Category, t.Amount, t.Description).
			Scan(&t.ID, &t.Date, &t.CreatedAt)
		if err != nil {
			return fmt.Errorf("failed to create transaction: %w", err)
		}
		return nil
	}

	query := `
		INSERT INTO transaction_logs (user_id, category, amount, description, date)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`
	err := r.db.QueryRow(query, t.UserID, t.Category, t.Amount, t.Description, t.Date).
		Scan(&t.ID, &t.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create transaction: %w", err)
	}
	return nil
}

// Update replaces all mutable fields of the row matching (id, user_id) and
// returns the updated row.
func (r *TransactionWriteRepository) Update(t *models.TransactionLog) (*models.TransactionLog, error) {
	query := `
		UPDATE transaction_logs
		SET category = $3, amount = $4, description = $5, date = $6
		WHERE id = $1 AND user_id = $2
		RETURNING id, user_id, category, amount, description, date, created_at
	`
	var updated models.TransactionLog
	err := r.db.QueryRow(query, t.ID, t.UserID, t.Category, t.Amount, t.Description, t.Date).Scan(
		&updated.ID, &updated.UserID, &updated.Category,
		&updated.Amount, &updated.Description, &updated.Date, &updated.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update transaction: %w", err)
	}
	return &updated, nil
}

// Delete removes the row matching (id, user_id) and returns it.
func (r *TransactionWriteRepository) Delete(id int64, userID string) (*models.TransactionLog, error) {
	query := `
		DELETE FROM transaction_logs
		WHERE id = $1 AND user_id = $2
		RETURNING id, user_id, category, amount, description, date, created_at
	`
	var deleted models.TransactionLog
	err := r.db.QueryRow(query, id, userID).Scan(
		&deleted.ID, &deleted.UserID, &deleted.Category,
		&deleted.Amount, &deleted.Description, &deleted.Date, &deleted.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to delete transaction: %w", err)
	}
	return &deleted, nil
}
