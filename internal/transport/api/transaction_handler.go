package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/fsdevblog/study-billing/internal/domain"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type TransactionHandler struct {
	transService   TransactionServicer
	paymentService PaymentServicer
}

func NewTransactionHandler(transService TransactionServicer, paymentService PaymentServicer) *TransactionHandler {
	return &TransactionHandler{
		transService:   transService,
		paymentService: paymentService,
	}
}

type TransactionResponse struct {
	ID         int64  `json:"id"`
	CreatedAt  string `json:"created_at"`
	Type       string `json:"type"`
	Amount     string `json:"amount"`
	CourseCode string `json:"course_code,omitempty"`
	ExpiresAt  string `json:"expires_at,omitempty"`
}

// Index GET RouteGroup + TransactionsRoute. История транзакций текущего юзера с фильтрами filter[type],
// filter[course_code] и filter[skip_expired].
func (h *TransactionHandler) Index(c *gin.Context) {
	currentUserID := getUserIDFromContext(c)

	filter, filterErr := parseTransactionFilter(c.QueryMap("filter"))
	if filterErr != nil {
		abortPublic(c, http.StatusBadRequest, filterErr)
		return
	}

	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	transactions, err := h.transService.ListTransactions(ctx, currentUserID, filter)
	if err != nil {
		abortInternal(c, err)
		return
	}

	response := make([]TransactionResponse, len(transactions))
	for i, t := range transactions {
		response[i] = TransactionResponse{
			ID:         t.ID,
			CreatedAt:  t.CreatedAt.Format(time.RFC3339),
			Type:       string(t.Type),
			Amount:     t.Amount.StringFixed(2),
			CourseCode: t.CourseCode,
		}
		if t.ExpiresAt != nil {
			response[i].ExpiresAt = t.ExpiresAt.Format(time.RFC3339)
		}
	}
	c.JSON(http.StatusOK, response)
}

func parseTransactionFilter(query map[string]string) (domain.TransactionFilter, error) {
	var filter domain.TransactionFilter
	if typeName := query["type"]; typeName != "" {
		transType, err := domain.ParseTransactionType(typeName)
		if err != nil {
			return filter, errors.New("filter[type] must be one of payment, deposit")
		}
		filter.Type = &transType
	}
	filter.CourseCode = query["course_code"]
	if skip := query["skip_expired"]; skip != "" {
		skipExpired, err := strconv.ParseBool(skip)
		if err != nil {
			return filter, errors.New("filter[skip_expired] must be a boolean")
		}
		filter.SkipExpired = skipExpired
	}
	return filter, nil
}

type DepositParams struct {
	Amount decimal.Decimal `json:"amount"`
}

type DepositResponse struct {
	TransactionID int64  `json:"transaction_id"`
	Amount        string `json:"amount"`
	Balance       string `json:"balance"`
}

// Deposit POST RouteGroup + DepositRoute. Пополнение баланса текущего юзера.
func (h *TransactionHandler) Deposit(c *gin.Context) {
	currentUserID := getUserIDFromContext(c)

	var params DepositParams
	if bindErr := c.ShouldBindJSON(&params); bindErr != nil {
		abortPublic(c, http.StatusBadRequest, domain.ErrInvalidAmount)
		return
	}
	if amountErr := domain.ValidateAmount(params.Amount); amountErr != nil {
		abortPublic(c, http.StatusBadRequest, domain.ErrInvalidAmount)
		return
	}

	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	receipt, err := h.paymentService.Deposit(ctx, currentUserID, params.Amount)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			abortPublic(c, http.StatusBadRequest, domain.ErrInvalidAmount)
			return
		}
		abortInternal(c, err)
		return
	}

	c.JSON(http.StatusOK, DepositResponse{
		TransactionID: receipt.Transaction.ID,
		Amount:        receipt.Transaction.Amount.StringFixed(2),
		Balance:       receipt.Balance.StringFixed(2),
	})
}
