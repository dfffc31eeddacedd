package cqrs

// GetTransactionQuery fetches a single transaction scoped by its owner.
type GetTransactionQuery struct {
	TransactionID int64
	UserID        string
}

// ListTransactionsQuery fetches all transactions belonging to a user.
type ListTransactionsQuery struct {
	UserID string
}
