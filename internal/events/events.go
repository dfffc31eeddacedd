package events

import "time"

// Event types
const (
	UserCreated = "user.created"

	TransactionCreated = "transaction.created"
	TransactionUpdated = "transaction.updated"
	TransactionDeleted = "transaction.deleted"
)

// Stream names
const (
	UserEventsStream        = "user.events"
	TransactionEventsStream = "transaction.events"
)

// Base event structure
type Event struct {
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Data      any       `json:"data"`
}

type UserCreatedEvent struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
	Name   string `json:"name"`
}

// Transaction events carry enough to rebuild read models downstream.
type TransactionCreatedEvent struct {
	TransactionID int64   `json:"transactionId"`
	UserID        string  `json:"userId"`
	Category      string  `json:"category"`
	Amount        float64 `json:"amount"`
}

type TransactionUpdatedEvent struct {
	TransactionID int64   `json:"transactionId"`
	UserID        string  `json:"userId"`
	Category      string  `json:"category"`
	Amount        float64 `json:"amount"`
}

type TransactionDeletedEvent struct {
	TransactionID int64  `json:"transactionId"`
	UserID        string `json:"userId"`
}
