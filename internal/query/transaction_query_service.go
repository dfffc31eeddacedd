package query

import (
	"context"

	"github.com/fintrack/fintrack/internal/cqrs"
	"github.com/fintrack/fintrack/internal/models"
)

// TransactionReader is the read-store surface used by the query service.
type TransactionReader interface {
	GetByID(ctx context.Context, id int64, userID string) (*models.TransactionView, error)
	ListByUser(ctx context.Context, userID string) ([]models.TransactionView, error)
}

// TransactionQueryService serves transaction reads. Every query is scoped by
// the requesting user's id, so one user can never read another's rows.
type TransactionQueryService struct {
	readRepo TransactionReader
}

func NewTransactionQueryService(readRepo TransactionReader) *TransactionQueryService {
	return &TransactionQueryService{readRepo: readRepo}
}

// GetTransaction returns the view matching (id, userID), or nil when no such
// row exists. Absence is not an error for single-row reads.
func (s *TransactionQueryService) GetTransaction(q cqrs.GetTransactionQuery) (*models.TransactionView, error) {
	return s.readRepo.GetByID(context.Background(), q.TransactionID, q.UserID)
}

// ListTransactions returns all of the user's transactions, newest date first.
func (s *TransactionQueryService) ListTransactions(q cqrs.ListTransactionsQuery) ([]models.TransactionView, error) {
	return s.readRepo.ListByUser(context.Background(), q.UserID)
}
