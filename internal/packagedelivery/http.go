// Package packagedelivery manages delivery layer of credit packages.
package packagedelivery

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/ncibb/credit-ledger/internal/domain"
	"github.com/ncibb/credit-ledger/pkg/errorspkg"
	"github.com/ncibb/credit-ledger/pkg/web"
	"github.com/rs/zerolog"
)

// Service provides service layer interface needed by package delivery layer.
//
//go:generate mockgen -source http.go -destination http_mock.go -package packagedelivery
type Service interface {
	List(ctx context.Context) ([]domain.CreditPackage, error)
	Get(ctx context.Context, id int32) (domain.CreditPackage, error)
}

// Handler facilitates credit package delivery layer logic.
type Handler struct {
	service Service
}

// NewHandler returns package handler.
func NewHandler(ps Service) Handler {
	return Handler{service: ps}
}

type packagesData struct {
	Packages []domain.CreditPackage `json:"packages"`
}

// List handles http request to list active credit packages.
func (h *Handler) List(gctx *gin.Context) {
	ctx := gctx.Request.Context()

	packages, err := h.service.List(ctx)
	if err != nil {
		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))
		return
	}

	gctx.JSON(http.StatusOK, web.Response{Data: packagesData{packages}})
}

type getRequest struct {
	ID int32 `uri:"id" binding:"required,min=1"`
}

type packageData struct {
	Package domain.CreditPackage `json:"package"`
}

// Get handles http request to get an active credit package.
func (h *Handler) Get(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(gctx)

	var req getRequest
	if err := gctx.ShouldBindUri(&req); err != nil {
		var (
			ve     validator.ValidationErrors
			errMsg string
		)

		if errors.As(err, &ve) {
			field := ve[0]
			errMsg = field.Field() + web.GetErrorMsg(field)
		}

		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.Response{Error: errMsg})

		return
	}

	pack, err := h.service.Get(ctx, req.ID)
	if err != nil {
		if err == domain.ErrPackageNotFound {
			gctx.JSON(http.StatusNotFound, web.Error(err))
			return
		}

		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))

		return
	}

	gctx.JSON(http.StatusOK, web.Response{Data: packageData{pack}})
}
