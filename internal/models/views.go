package models

import "time"

// UserView is the read-optimised projection of a user.
// It never exposes PasswordHash.
type UserView struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdTimestamp"`
	UpdatedAt time.Time `json:"updatedTimestamp"`
}

// TransactionView is the read-optimised projection of a transaction log.
// UserID is never serialised; reads repopulate it from the owner scope of the
// query before the view leaves the repository.
type TransactionView struct {
	ID          int64     `json:"id"`
	UserID      string    `json:"-"`
	Category    Category  `json:"category"`
	Amount      float64   `json:"amount"`
	Description string    `json:"description"`
	Date        time.Time `json:"date"`
	CreatedAt   time.Time `json:"createdTimestamp"`
}
