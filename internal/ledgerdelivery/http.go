// Package ledgerdelivery manages delivery layer of the credits ledger.
package ledgerdelivery

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/ncibb/credit-ledger/internal/domain"
	"github.com/ncibb/credit-ledger/internal/middleware"
	"github.com/ncibb/credit-ledger/pkg/errorspkg"
	"github.com/ncibb/credit-ledger/pkg/tokenpkg"
	"github.com/ncibb/credit-ledger/pkg/web"
	"github.com/rs/zerolog"
)

// Service provides service layer interface needed by ledger delivery layer.
//
//go:generate mockgen -source http.go -destination http_mock.go -package ledgerdelivery
type Service interface {
	Credit(ctx context.Context, arg domain.CreateTransactionParams) (domain.LedgerTxResult, error)
	Debit(ctx context.Context, arg domain.CreateTransactionParams) (domain.LedgerTxResult, error)
	GetOrCreateBalance(ctx context.Context, accountID int32) (domain.AccountBalance, error)
	ListTransactions(ctx context.Context, arg domain.ListTransactionsParams, pageSize, pageID int32) ([]domain.Transaction, error)
}

// StatsService provides the dashboard aggregation interface needed by
// ledger delivery layer.
type StatsService interface {
	Stats(ctx context.Context, accountID int32) (domain.CreditStats, error)
}

// DirectoryService provides the account directory interface needed by
// ledger delivery layer.
type DirectoryService interface {
	Get(ctx context.Context, id int32) (domain.Account, error)
}

// Handler facilitates ledger delivery layer logic.
type Handler struct {
	service   Service
	stats     StatsService
	directory DirectoryService
}

// NewHandler returns ledger handler.
func NewHandler(ls Service, ss StatsService, ds DirectoryService) Handler {
	return Handler{service: ls, stats: ss, directory: ds}
}

func bindErrorMsg(err error) string {
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		field := ve[0]
		return field.Field() + web.GetErrorMsg(field)
	}

	return "invalid request"
}

func authPayload(gctx *gin.Context) *tokenpkg.Payload {
	return gctx.MustGet(middleware.AuthPayloadKey).(*tokenpkg.Payload)
}

type balanceData struct {
	Balance domain.AccountBalance `json:"balance"`
}

// GetBalance handles http request to get the caller's balance, creating
// a zeroed record on first access.
func (h *Handler) GetBalance(gctx *gin.Context) {
	ctx := gctx.Request.Context()

	payload := authPayload(gctx)

	balance, err := h.service.GetOrCreateBalance(ctx, payload.AccountID)
	if err != nil {
		if err == domain.ErrAccountNotFound {
			gctx.JSON(http.StatusNotFound, web.Error(err))
			return
		}

		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))

		return
	}

	gctx.JSON(http.StatusOK, web.Response{Data: balanceData{balance}})
}

type addRequest struct {
	AccountID   int32  `json:"account_id" binding:"required,min=1"`
	Amount      string `json:"amount" binding:"required,amount"`
	Kind        string `json:"kind" binding:"omitempty,oneof=earned bonus refund"`
	Description string `json:"description" binding:"max=500"`
	ReferenceID string `json:"reference_id" binding:"max=100"`
}

type resultData struct {
	Balance     domain.AccountBalance `json:"balance"`
	Transaction domain.Transaction    `json:"transaction"`
}

// Add handles http request to credit an account. Only admins may credit
// accounts; the target account must resolve in the directory.
func (h *Handler) Add(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(gctx)

	payload := authPayload(gctx)
	if payload.Role != domain.RoleAdmin {
		l.Info().Int32("account_id", payload.AccountID).Msg("non-admin credit attempt")
		gctx.JSON(http.StatusForbidden, web.Error(domain.ErrPermissionDenied))

		return
	}

	var req addRequest
	if err := gctx.ShouldBindJSON(&req); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.Response{Error: bindErrorMsg(err)})

		return
	}

	if _, err := h.directory.Get(ctx, req.AccountID); err != nil {
		if err == domain.ErrAccountNotFound {
			gctx.JSON(http.StatusNotFound, web.Error(err))
			return
		}

		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))

		return
	}

	description := req.Description
	if description == "" {
		description = "Credits added by admin"
	}

	result, err := h.service.Credit(ctx, domain.CreateTransactionParams{
		AccountID:   req.AccountID,
		Amount:      req.Amount,
		Kind:        domain.Kind(req.Kind),
		Description: description,
		ReferenceID: req.ReferenceID,
	})
	if err != nil {
		switch err {
		case domain.ErrInvalidAmount, domain.ErrNonPositiveAmount, domain.ErrAmountPrecision, domain.ErrInvalidKind:
			gctx.JSON(http.StatusBadRequest, web.Error(err))
			return
		case domain.ErrAccountNotFound:
			gctx.JSON(http.StatusNotFound, web.Error(err))
			return
		}

		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))

		return
	}

	gctx.JSON(http.StatusOK, web.Response{Data: resultData{result.Balance, result.Transaction}})
}

type spendRequest struct {
	Amount      string `json:"amount" binding:"required,amount"`
	Description string `json:"description" binding:"max=500"`
	ReferenceID string `json:"reference_id" binding:"max=100"`
}

type insufficientFundsResponse struct {
	Error           string `json:"error"`
	CurrentBalance  string `json:"current_balance"`
	RequestedAmount string `json:"requested_amount"`
}

// Spend handles http request to debit the caller's own account. A debit
// exceeding the balance mutates nothing and renders the current balance
// and the requested amount.
func (h *Handler) Spend(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(gctx)

	payload := authPayload(gctx)

	var req spendRequest
	if err := gctx.ShouldBindJSON(&req); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.Response{Error: bindErrorMsg(err)})

		return
	}

	description := req.Description
	if description == "" {
		description = "Credits spent"
	}

	result, err := h.service.Debit(ctx, domain.CreateTransactionParams{
		AccountID:   payload.AccountID,
		Amount:      req.Amount,
		Description: description,
		ReferenceID: req.ReferenceID,
	})
	if err != nil {
		var insufficient *domain.InsufficientFundsError
		if errors.As(err, &insufficient) {
			gctx.JSON(http.StatusBadRequest, insufficientFundsResponse{
				Error:           "insufficient credits",
				CurrentBalance:  insufficient.Balance,
				RequestedAmount: insufficient.Requested,
			})

			return
		}

		switch err {
		case domain.ErrInvalidAmount, domain.ErrNonPositiveAmount, domain.ErrAmountPrecision, domain.ErrInvalidKind:
			gctx.JSON(http.StatusBadRequest, web.Error(err))
			return
		case domain.ErrAccountNotFound:
			gctx.JSON(http.StatusNotFound, web.Error(err))
			return
		}

		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))

		return
	}

	gctx.JSON(http.StatusOK, web.Response{Data: resultData{result.Balance, result.Transaction}})
}

type listRequest struct {
	AccountID int32  `form:"account_id" binding:"omitempty,min=1"`
	Kind      string `form:"kind" binding:"omitempty,oneof=earned spent bonus refund"`
	Search    string `form:"search" binding:"max=500"`
	OrderBy   string `form:"order_by" binding:"omitempty,oneof=created_at amount"`
	Order     string `form:"order" binding:"omitempty,oneof=asc desc"`
	PageID    int32  `form:"page_id" binding:"required,min=1"`
	PageSize  int32  `form:"page_size" binding:"required,min=1,max=100"`
}

type transactionsData struct {
	Transactions []domain.Transaction `json:"transactions"`
}

// ListTransactions handles http request to list transaction records.
// Admins may list any account or all accounts; other roles see only
// their own records.
func (h *Handler) ListTransactions(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(gctx)

	var req listRequest
	if err := gctx.ShouldBindQuery(&req); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.Response{Error: bindErrorMsg(err)})

		return
	}

	payload := authPayload(gctx)

	accountID := payload.AccountID
	if payload.Role == domain.RoleAdmin {
		accountID = req.AccountID
	}

	transactions, err := h.service.ListTransactions(ctx, domain.ListTransactionsParams{
		AccountID: accountID,
		Kind:      domain.Kind(req.Kind),
		Search:    req.Search,
		OrderBy:   req.OrderBy,
		Order:     req.Order,
	}, req.PageSize, req.PageID)
	if err != nil {
		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))
		return
	}

	gctx.JSON(http.StatusOK, web.Response{Data: transactionsData{transactions}})
}

type statsData struct {
	Stats domain.CreditStats `json:"stats"`
}

// Stats handles http request to get the caller's dashboard summary.
func (h *Handler) Stats(gctx *gin.Context) {
	ctx := gctx.Request.Context()

	payload := authPayload(gctx)

	stats, err := h.stats.Stats(ctx, payload.AccountID)
	if err != nil {
		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))
		return
	}

	gctx.JSON(http.StatusOK, web.Response{Data: statsData{stats}})
}
