package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/fintrack/fintrack/internal/classify"
	"github.com/fintrack/fintrack/internal/cqrs"
	"github.com/fintrack/fintrack/internal/middleware"
	"github.com/fintrack/fintrack/internal/models"
	"github.com/gin-gonic/gin"
)

// ---- mock implementations ----

type mockTransactionCommander struct {
	addFn    func(cqrs.AddTransactionCommand) (*models.TransactionLog, error)
	updateFn func(cqrs.UpdateTransactionCommand) (*models.TransactionLog, error)
	deleteFn func(cqrs.DeleteTransactionCommand) (*models.TransactionLog, error)
	calls    int
}

func (m *mockTransactionCommander) AddTransaction(cmd cqrs.AddTransactionCommand) (*models.TransactionLog, error) {
	m.calls++
	if m.addFn != nil {
		return m.addFn(cmd)
	}
	return nil, fmt.Errorf("not configured")
}
func (m *mockTransactionCommander) UpdateTransaction(cmd cqrs.UpdateTransactionCommand) (*models.TransactionLog, error) {
	m.calls++
	if m.updateFn != nil {
		return m.updateFn(cmd)
	}
	return nil, fmt.Errorf("not configured")
}
func (m *mockTransactionCommander) DeleteTransaction(cmd cqrs.DeleteTransactionCommand) (*models.TransactionLog, error) {
	m.calls++
	if m.deleteFn != nil {
		return m.deleteFn(cmd)
	}
	return nil, fmt.Errorf("not configured")
}

type mockTransactionQuerier struct {
	getFn  func(cqrs.GetTransactionQuery) (*models.TransactionView, error)
	listFn func(cqrs.ListTransactionsQuery) ([]models.TransactionView, error)
	calls  int
}

func (m *mockTransactionQuerier) GetTransaction(q cqrs.GetTransactionQuery) (*models.TransactionView, error) {
	m.calls++
	if m.getFn != nil {
		return m.getFn(q)
	}
	return nil, fmt.Errorf("not configured")
}
func (m *mockTransactionQuerier) ListTransactions(q cqrs.ListTransactionsQuery) ([]models.TransactionView, error) {
	m.calls++
	if m.listFn != nil {
		return m.listFn(q)
	}
	return nil, fmt.Errorf("not configured")
}

type mockSuggester struct {
	suggestFn func(ctx context.Context, description string) (models.Category, error)
}

func (m *mockSuggester) SuggestCategory(ctx context.Context, description string) (models.Category, error) {
	if m.suggestFn != nil {
		return m.suggestFn(ctx, description)
	}
	return "", fmt.Errorf("not configured")
}

// ---- helpers ----

func fakeAuthTx(userID string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("userId", userID)
		c.Next()
	}
}

func newTxTestRouter(cmds TransactionCommander, qrys TransactionQuerier, sug CategorySuggester, authUserID string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(fakeAuthTx(authUserID))
	h := NewTransactionHandler(cmds, qrys, sug)
	v1 := r.Group("/v1/transactions")
	v1.POST("", h.AddTransaction)
	v1.GET("", h.ListTransactions)
	v1.GET("/:id", h.GetTransaction)
	v1.PUT("/:id", h.UpdateTransaction)
	v1.DELETE("/:id", h.DeleteTransaction)
	v1.POST("/category", h.ClassifyTransaction)
	return r
}

func txDoRequest(router *gin.Engine, method, url string, body interface{}) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(method, url, nil)
	if body != nil {
		b, _ := json.Marshal(body)
		req, _ = http.NewRequest(method, url, strings.NewReader(string(b)))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// ---- test data ----

var txTestLog = &models.TransactionLog{
	ID: 42, UserID: "usr-001",
	Category: models.CategoryGroceries, Amount: 12.5, Description: "milk",
	Date: time.Now(), CreatedAt: time.Now(),
}

var txTestView = &models.TransactionView{
	ID: 42, UserID: "usr-001",
	Category: models.CategoryGroceries, Amount: 12.5, Description: "milk",
	Date: time.Now(), CreatedAt: time.Now(),
}

func txAddBody() map[string]interface{} {
	return map[string]interface{}{"category": "GROCERIES", "amount": 12.5, "description": "milk"}
}

func txUpdateBody() map[string]interface{} {
	return map[string]interface{}{
		"category": "RESTAURANTS", "amount": 30.0, "description": "dinner",
		"date": time.Now().Format(time.RFC3339),
	}
}

// ---- tests ----

func TestAddTransaction(t *testing.T) {
	tests := []struct {
		name           string
		body           interface{}
		addFn          func(cqrs.AddTransactionCommand) (*models.TransactionLog, error)
		expectedStatus int
	}{
		{
			name:           "created - valid transaction",
			body:           txAddBody(),
			addFn:          func(cmd cqrs.AddTransactionCommand) (*models.TransactionLog, error) { return txTestLog, nil },
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "created - amount omitted defaults to zero",
			body:           map[string]interface{}{"category": "CASH", "description": "atm"},
			addFn:          func(cmd cqrs.AddTransactionCommand) (*models.TransactionLog, error) { return txTestLog, nil },
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "bad request - category outside enumeration",
			body:           map[string]interface{}{"category": "SNACKS", "amount": 1.0, "description": "crisps"},
			addFn:          nil,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "bad request - missing description",
			body:           map[string]interface{}{"category": "GROCERIES", "amount": 1.0},
			addFn:          nil,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "bad request - missing category",
			body:           map[string]interface{}{"amount": 1.0, "description": "milk"},
			addFn:          nil,
			expectedStatus: http.StatusBadRequest,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmds := &mockTransactionCommander{addFn: tt.addFn}
			router := newTxTestRouter(cmds, &mockTransactionQuerier{}, &mockSuggester{}, "usr-001")
			w := txDoRequest(router, http.MethodPost, "/v1/transactions", tt.body)
			if w.Code != tt.expectedStatus {
				t.Errorf("[%s] expected %d got %d; body: %s", tt.name, tt.expectedStatus, w.Code, w.Body.String())
			}
			if tt.addFn == nil && cmds.calls != 0 {
				t.Errorf("[%s] rejected input must not reach the command service", tt.name)
			}
		})
	}
}

func TestAddTransactionScopesToCaller(t *testing.T) {
	var captured cqrs.AddTransactionCommand
	cmds := &mockTransactionCommander{
		addFn: func(cmd cqrs.AddTransactionCommand) (*models.TransactionLog, error) {
			captured = cmd
			return txTestLog, nil
		},
	}
	router := newTxTestRouter(cmds, &mockTransactionQuerier{}, &mockSuggester{}, "usr-007")

	w := txDoRequest(router, http.MethodPost, "/v1/transactions", txAddBody())
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d; body: %s", w.Code, w.Body.String())
	}
	if captured.UserID != "usr-007" {
		t.Errorf("command must carry the session user id, got %q", captured.UserID)
	}
}

func TestUpdateTransaction(t *testing.T) {
	tests := []struct {
		name           string
		url            string
		body           interface{}
		updateFn       func(cqrs.UpdateTransactionCommand) (*models.TransactionLog, error)
		expectedStatus int
	}{
		{
			name: "success - full replacement of own transaction",
			url:  "/v1/transactions/42",
			body: txUpdateBody(),
			updateFn: func(cmd cqrs.UpdateTransactionCommand) (*models.TransactionLog, error) {
				return txTestLog, nil
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "not found - no row matches id and owner",
			url:  "/v1/transactions/999",
			body: txUpdateBody(),
			updateFn: func(cmd cqrs.UpdateTransactionCommand) (*models.TransactionLog, error) {
				return nil, models.ErrNotFound
			},
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "bad request - missing date",
			url:            "/v1/transactions/42",
			body:           map[string]interface{}{"category": "RESTAURANTS", "amount": 30.0, "description": "dinner"},
			updateFn:       nil,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "bad request - non-numeric id",
			url:            "/v1/transactions/abc",
			body:           txUpdateBody(),
			updateFn:       nil,
			expectedStatus: http.StatusBadRequest,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmds := &mockTransactionCommander{updateFn: tt.updateFn}
			router := newTxTestRouter(cmds, &mockTransactionQuerier{}, &mockSuggester{}, "usr-001")
			w := txDoRequest(router, http.MethodPut, tt.url, tt.body)
			if w.Code != tt.expectedStatus {
				t.Errorf("[%s] expected %d got %d; body: %s", tt.name, tt.expectedStatus, w.Code, w.Body.String())
			}
		})
	}
}

func TestDeleteTransaction(t *testing.T) {
	tests := []struct {
		name           string
		url            string
		deleteFn       func(cqrs.DeleteTransactionCommand) (*models.TransactionLog, error)
		expectedStatus int
	}{
		{
			name: "success - delete own transaction returns the record",
			url:  "/v1/transactions/42",
			deleteFn: func(cmd cqrs.DeleteTransactionCommand) (*models.TransactionLog, error) {
				return txTestLog, nil
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "not found - another user's transaction",
			url:  "/v1/transactions/42",
			deleteFn: func(cmd cqrs.DeleteTransactionCommand) (*models.TransactionLog, error) {
				return nil, models.ErrNotFound
			},
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "bad request - non-numeric id",
			url:            "/v1/transactions/abc",
			deleteFn:       nil,
			expectedStatus: http.StatusBadRequest,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmds := &mockTransactionCommander{deleteFn: tt.deleteFn}
			router := newTxTestRouter(cmds, &mockTransactionQuerier{}, &mockSuggester{}, "usr-001")
			w := txDoRequest(router, http.MethodDelete, tt.url, nil)
			if w.Code != tt.expectedStatus {
				t.Errorf("[%s] expected %d got %d; body: %s", tt.name, tt.expectedStatus, w.Code, w.Body.String())
			}
		})
	}
}

func TestGetTransaction(t *testing.T) {
	t.Run("success - fetch own transaction", func(t *testing.T) {
		qrys := &mockTransactionQuerier{
			getFn: func(q cqrs.GetTransactionQuery) (*models.TransactionView, error) { return txTestView, nil },
		}
		router := newTxTestRouter(&mockTransactionCommander{}, qrys, &mockSuggester{}, "usr-001")
		w := txDoRequest(router, http.MethodGet, "/v1/transactions/42", nil)
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200 got %d; body: %s", w.Code, w.Body.String())
		}
		var got models.TransactionView
		if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
			t.Fatalf("failed to decode body: %v", err)
		}
		if got.ID != 42 || got.Category != models.CategoryGroceries || got.Amount != 12.5 || got.Description != "milk" {
			t.Errorf("round-trip mismatch: %+v", got)
		}
	})

	t.Run("absent row yields JSON null, not an error", func(t *testing.T) {
		qrys := &mockTransactionQuerier{
			getFn: func(q cqrs.GetTransactionQuery) (*models.TransactionView, error) { return nil, nil },
		}
		router := newTxTestRouter(&mockTransactionCommander{}, qrys, &mockSuggester{}, "usr-001")
		w := txDoRequest(router, http.MethodGet, "/v1/transactions/42", nil)
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200 got %d; body: %s", w.Code, w.Body.String())
		}
		if strings.TrimSpace(w.Body.String()) != "null" {
			t.Errorf("expected null body got %s", w.Body.String())
		}
	})
}

func TestListTransactions(t *testing.T) {
	t.Run("success - caller's transactions only", func(t *testing.T) {
		var captured cqrs.ListTransactionsQuery
		qrys := &mockTransactionQuerier{
			listFn: func(q cqrs.ListTransactionsQuery) ([]models.TransactionView, error) {
				captured = q
				return []models.TransactionView{*txTestView}, nil
			},
		}
		router := newTxTestRouter(&mockTransactionCommander{}, qrys, &mockSuggester{}, "usr-001")
		w := txDoRequest(router, http.MethodGet, "/v1/transactions", nil)
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200 got %d; body: %s", w.Code, w.Body.String())
		}
		if captured.UserID != "usr-001" {
			t.Errorf("query must be scoped to the session user, got %q", captured.UserID)
		}
	})

	t.Run("no rows yields an empty array", func(t *testing.T) {
		qrys := &mockTransactionQuerier{
			listFn: func(q cqrs.ListTransactionsQuery) ([]models.TransactionView, error) { return nil, nil },
		}
		router := newTxTestRouter(&mockTransactionCommander{}, qrys, &mockSuggester{}, "usr-001")
		w := txDoRequest(router, http.MethodGet, "/v1/transactions", nil)
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200 got %d; body: %s", w.Code, w.Body.String())
		}
		var resp ListTransactionsResponse
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("failed to decode body: %v", err)
		}
		if resp.Transactions == nil || len(resp.Transactions) != 0 {
			t.Errorf("expected empty array, body: %s", w.Body.String())
		}
	})
}

func TestClassifyTransaction(t *testing.T) {
	tests := []struct {
		name           string
		body           interface{}
		suggestFn      func(ctx context.Context, description string) (models.Category, error)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "success - suggestion returned",
			body: map[string]interface{}{"description": "lunch at a restaurant"},
			suggestFn: func(ctx context.Context, description string) (models.Category, error) {
				return models.CategoryRestaurants, nil
			},
			expectedStatus: http.StatusOK,
			expectedBody:   "RESTAURANTS",
		},
		{
			name: "unprocessable - model named an unknown category",
			body: map[string]interface{}{"description": "something odd"},
			suggestFn: func(ctx context.Context, description string) (models.Category, error) {
				return "", &classify.Error{Reason: "UNKNOWN is not a valid category, please enter it manually"}
			},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   "UNKNOWN",
		},
		{
			name: "bad gateway - provider unreachable",
			body: map[string]interface{}{"description": "lunch"},
			suggestFn: func(ctx context.Context, description string) (models.Category, error) {
				return "", fmt.Errorf("completion request failed: connection refused")
			},
			expectedStatus: http.StatusBadGateway,
		},
		{
			name:           "bad request - missing description",
			body:           map[string]interface{}{},
			suggestFn:      nil,
			expectedStatus: http.StatusBadRequest,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sug := &mockSuggester{suggestFn: tt.suggestFn}
			router := newTxTestRouter(&mockTransactionCommander{}, &mockTransactionQuerier{}, sug, "usr-001")
			w := txDoRequest(router, http.MethodPost, "/v1/transactions/category", tt.body)
			if w.Code != tt.expectedStatus {
				t.Errorf("[%s] expected %d got %d; body: %s", tt.name, tt.expectedStatus, w.Code, w.Body.String())
			}
			if tt.expectedBody != "" && !strings.Contains(w.Body.String(), tt.expectedBody) {
				t.Errorf("[%s] expected body to contain %q, got %s", tt.name, tt.expectedBody, w.Body.String())
			}
		})
	}
}

// TestUnauthenticatedRequests runs every transaction route through the real
// session guard with no token and asserts the services are never touched.
func TestUnauthenticatedRequests(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cmds := &mockTransactionCommander{}
	qrys := &mockTransactionQuerier{}
	h := NewTransactionHandler(cmds, qrys, &mockSuggester{})

	r := gin.New()
	v1 := r.Group("/v1/transactions", middleware.AuthMiddleware([]byte("test-secret")))
	v1.POST("", h.AddTransaction)
	v1.GET("", h.ListTransactions)
	v1.GET("/:id", h.GetTransaction)
	v1.PUT("/:id", h.UpdateTransaction)
	v1.DELETE("/:id", h.DeleteTransaction)
	v1.POST("/category", h.ClassifyTransaction)

	routes := []struct {
		method string
		url    string
		body   interface{}
	}{
		{http.MethodPost, "/v1/transactions", txAddBody()},
		{http.MethodGet, "/v1/transactions", nil},
		{http.MethodGet, "/v1/transactions/42", nil},
		{http.MethodPut, "/v1/transactions/42", txUpdateBody()},
		{http.MethodDelete, "/v1/transactions/42", nil},
		{http.MethodPost, "/v1/transactions/category", map[string]interface{}{"description": "lunch"}},
	}
	for _, rt := range routes {
		w := txDoRequest(r, rt.method, rt.url, rt.body)
		if w.Code != http.StatusUnauthorized {
			t.Errorf("[%s %s] expected 401 got %d; body: %s", rt.method, rt.url, w.Code, w.Body.String())
		}
	}
	if cmds.calls != 0 || qrys.calls != 0 {
		t.Errorf("unauthenticated requests must not reach the services (commands=%d queries=%d)", cmds.calls, qrys.calls)
	}
}
