package models

import "time"

type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdTimestamp"`
	UpdatedAt    time.Time `json:"updatedTimestamp"`
}

// TransactionLog is the write model for a logged transaction. Every row
// belongs to exactly one user; ID is assigned by the store on creation and
// never changes.
type TransactionLog struct {
	ID          int64     `json:"id"`
	UserID      string    `json:"userId"`
	Category    Category  `json:"category"`
	Amount      float64   `json:"amount"`
	Description string    `json:"description"`
	Date        time.Time `json:"date"`
	CreatedAt   time.Time `json:"createdTimestamp"`
}
