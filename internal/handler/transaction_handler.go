package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/fintrack/fintrack/internal/classify"
	"github.com/fintrack/fintrack/internal/cqrs"
	"github.com/fintrack/fintrack/internal/middleware"
	"github.com/fintrack/fintrack/internal/models"
	"github.com/gin-gonic/gin"
)

// TransactionCommander defines the write-side operations used by TransactionHandler.
type TransactionCommander interface {
	AddTransaction(cqrs.AddTransactionCommand) (*models.TransactionLog, error)
	UpdateTransaction(cqrs.UpdateTransactionCommand) (*models.TransactionLog, error)
	DeleteTransaction(cqrs.DeleteTransactionCommand) (*models.TransactionLog, error)
}

// TransactionQuerier defines the read-side operations used by TransactionHandler.
type TransactionQuerier interface {
	GetTransaction(cqrs.GetTransactionQuery) (*models.TransactionView, error)
	ListTransactions(cqrs.ListTransactionsQuery) ([]models.TransactionView, error)
}

// CategorySuggester maps a free-text description to a suggested category.
type CategorySuggester interface {
	SuggestCategory(ctx context.Context, description string) (models.Category, error)
}

type TransactionHandler struct {
	commands  TransactionCommander
	queries   TransactionQuerier
	suggester CategorySuggester
}

type AddTransactionRequest struct {
	Category    string     `json:"category" validate:"required,oneof=RESTAURANTS TRANSPORT SHOPPING TRANSFERS ENTERTAINMENT GROCERIES SERVICES GENERAL OTHERS CASH TRAVEL HEALTH INCOME"`
	Amount      float64    `json:"amount"`
	Description string     `json:"description" validate:"required"`
	Date        *time.Time `json:"date"`
}

type UpdateTransactionRequest struct {
	Category    string    `json:"category" validate:"required,oneof=RESTAURANTS TRANSPORT SHOPPING TRANSFERS ENTERTAINMENT GROCERIES SERVICES GENERAL OTHERS CASH TRAVEL HEALTH INCOME"`
	Amount      float64   `json:"amount"`
	Description string    `json:"description" validate:"required"`
	Date        time.Time `json:"date" validate:"required"`
}

type ClassifyRequest struct {
	Description string `json:"description" validate:"required"`
}

type ClassifyResponse struct {
	Category models.Category `json:"category"`
}

type ListTransactionsResponse struct {
	Transactions []models.TransactionView `json:"transactions"`
}

func NewTransactionHandler(commands TransactionCommander, queries TransactionQuerier, suggester CategorySuggester) *TransactionHandler {
	return &TransactionHandler{commands: commands, queries: queries, suggester: suggester}
}

func (h *TransactionHandler) AddTransaction(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	var req AddTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if validationErrors := middleware.ValidateRequest(req); validationErrors != nil {
		middleware.RespondWithValidationError(c, validationErrors)
		return
	}

	transaction, err := h.commands.AddTransaction(cqrs.AddTransactionCommand{
		UserID:      userID,
		Category:    models.Category(req.Category),
		Amount:      req.Amount,
		Description: req.Description,
		Date:        req.Date,
	})
	if err != nil {
		if errors.Is(err, models.ErrInvalidInput) {
			middleware.RespondWithError(c, http.StatusBadRequest, err.Error())
			return
		}
		middleware.RespondWithError(c, http.StatusInternalServerError, "Failed to create transaction")
		return
	}

	c.JSON(http.StatusCreated, transaction)
}

func (h *TransactionHandler) UpdateTransaction(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	id, ok := transactionIDParam(c)
	if !ok {
		return
	}

	var req UpdateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if validationErrors := middleware.ValidateRequest(req); validationErrors != nil {
		middleware.RespondWithValidationError(c, validationErrors)
		return
	}

	transaction, err := h.commands.UpdateTransaction(cqrs.UpdateTransactionCommand{
		TransactionID: id,
		UserID:        userID,
		Category:      models.Category(req.Category),
		Amount:        req.Amount,
		Description:   req.Description,
		Date:          req.Date,
	})
	if err != nil {
		switch {
		case errors.Is(err, models.ErrNotFound):
			middleware.RespondWithError(c, http.StatusNotFound, "Transaction not found")
		case errors.Is(err, models.ErrInvalidInput):
			middleware.RespondWithError(c, http.StatusBadRequest, err.Error())
		default:
			middleware.RespondWithError(c, http.StatusInternalServerError, "Failed to update transaction")
		}
		return
	}

	c.JSON(http.StatusOK, transaction)
}

func (h *TransactionHandler) DeleteTransaction(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	id, ok := transactionIDParam(c)
	if !ok {
		return
	}

	transaction, err := h.commands.DeleteTransaction(cqrs.DeleteTransactionCommand{
		TransactionID: id,
		UserID:        userID,
	})
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			middleware.RespondWithError(c, http.StatusNotFound, "Transaction not found")
			return
		}
		middleware.RespondWithError(c, http.StatusInternalServerError, "Failed to delete transaction")
		return
	}

	c.JSON(http.StatusOK, transaction)
}

// GetTransaction responds 200 with the record, or 200 with a JSON null when
// no row matches the caller's (id, userId) — absence is not an error here.
func (h *TransactionHandler) GetTransaction(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	id, ok := transactionIDParam(c)
	if !ok {
		return
	}

	view, err := h.queries.GetTransaction(cqrs.GetTransactionQuery{
		TransactionID: id,
		UserID:        userID,
	})
	if err != nil {
		middleware.RespondWithError(c, http.StatusInternalServerError, "Failed to get transaction")
		return
	}

	c.JSON(http.StatusOK, view)
}

func (h *TransactionHandler) ListTransactions(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	views, err := h.queries.ListTransactions(cqrs.ListTransactionsQuery{UserID: userID})
	if err != nil {
		middleware.RespondWithError(c, http.StatusInternalServerError, "Failed to list transactions")
		return
	}
	if views == nil {
		views = []models.TransactionView{}
	}

	c.JSON(http.StatusOK, ListTransactionsResponse{Transactions: views})
}

// ClassifyTransaction returns an advisory category suggestion for a
// description. The result is never persisted here; the caller must still
// submit it through add/update.
func (h *TransactionHandler) ClassifyTransaction(c *gin.Context) {
	var req ClassifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if validationErrors := middleware.ValidateRequest(req); validationErrors != nil {
		middleware.RespondWithValidationError(c, validationErrors)
		return
	}

	category, err := h.suggester.SuggestCategory(c.Request.Context(), req.Description)
	if err != nil {
		var classifyErr *classify.Error
		if errors.As(err, &classifyErr) {
			middleware.RespondWithError(c, http.StatusUnprocessableEntity, classifyErr.Reason)
			return
		}
		middleware.RespondWithError(c, http.StatusBadGateway, "Classification service unavailable")
		return
	}

	c.JSON(http.StatusOK, ClassifyResponse{Category: category})
}

func transactionIDParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, "Invalid transaction id")
		return 0, false
	}
	return id, true
}
