package cqrs

import (
	"time"

	"github.com/fintrack/fintrack/internal/models"
)

type RegisterUserCommand struct {
	Name     string
	Email    string
	Password string
}

type LoginCommand struct {
	Email    string
	Password string
}

type RefreshTokenCommand struct {
	Token string
}

// AddTransactionCommand creates a transaction log owned by UserID.
// Date is optional; the store defaults it to the insertion time.
type AddTransactionCommand struct {
	UserID      string
	Category    models.Category
	Amount      float64
	Description string
	Date        *time.Time
}

// UpdateTransactionCommand replaces all mutable fields of the row matching
// (TransactionID, UserID). This is full replacement, not a partial patch.
type UpdateTransactionCommand struct {
	TransactionID int64
	UserID        string
	Category      models.Category
	Amount        float64
	Description   string
	Date          time.Time
}

type DeleteTransactionCommand struct {
	TransactionID int64
	UserID        string
}
