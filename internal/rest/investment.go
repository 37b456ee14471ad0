package rest

import (
	"agriVest/domain"
	"agriVest/internal/middleware"
	"agriVest/pkg/logger"
	"context"
	"net/http"
	"time"

	"github.com/AMFarhan21/fres"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

type InvestmentService interface {
	GetMyInvestments(ctx context.Context, caller domain.User) ([]domain.Investment, error)
	GetInvestment(ctx context.Context, caller domain.User, id uint) (domain.Investment, error)
	CreateInvestment(ctx context.Context, caller domain.User, investment domain.Investment) (domain.Investment, error)
	UpdateStatus(ctx context.Context, caller domain.User, id uint, status string) (domain.Investment, error)
}

type InvestmentHandler struct {
	investmentService InvestmentService
	validator         *validator.Validate
	timeout           time.Duration
}

func NewInvestmentHandler(investmentService InvestmentService) *InvestmentHandler {
	return &InvestmentHandler{
		investmentService: investmentService,
		validator:         validator.New(),
		timeout:           10 * time.Second,
	}
}

type InvestmentRequest struct {
	Project uint             `json:"project" validate:"required"`
	Amount  *decimal.Decimal `json:"amount" validate:"required"`
}

type InvestmentStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending approved completed"`
}

type InvestmentResponse struct {
	ID        uint      `json:"id"`
	Investor  uint      `json:"investor"`
	Project   uint      `json:"project"`
	Amount    string    `json:"amount"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

func newInvestmentResponse(i domain.Investment) InvestmentResponse {
	return InvestmentResponse{
		ID:        i.ID,
		Investor:  i.InvestorID,
		Project:   i.ProjectID,
		Amount:    i.Amount.StringFixed(2),
		Status:    i.Status,
		CreatedAt: i.CreatedAt,
	}
}

func (h *InvestmentHandler) GetMyInvestments(c echo.Context) error {
	caller, ok := middleware.CurrentUser(c)
	if !ok {
		return unauthorized(c)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	investments, err := h.investmentService.GetMyInvestments(ctx, caller)
	if err != nil {
		logger.Error("Failed to find investments", err)
		return errorResponse(c, err)
	}

	resp := make([]InvestmentResponse, 0, len(investments))
	for _, i := range investments {
		resp = append(resp, newInvestmentResponse(i))
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(resp))
}

func (h *InvestmentHandler) GetInvestment(c echo.Context) error {
	caller, ok := middleware.CurrentUser(c)
	if !ok {
		return unauthorized(c)
	}

	id, ok := parseID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "invalid investment id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	investment, err := h.investmentService.GetInvestment(ctx, caller, id)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(newInvestmentResponse(investment)))
}

func (h *InvestmentHandler) CreateInvestment(c echo.Context) error {
	caller, ok := middleware.CurrentUser(c)
	if !ok {
		return unauthorized(c)
	}

	var req InvestmentRequest
	if err := c.Bind(&req); err != nil {
		logger.Error("Failed to bind request", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	if err := h.validator.Struct(&req); err != nil {
		logger.Error("Failed to validate investment request", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	investment, err := h.investmentService.CreateInvestment(ctx, caller, domain.Investment{
		ProjectID: req.Project,
		Amount:    *req.Amount,
	})
	if err != nil {
		logger.Error("Failed to create investment", err)
		return errorResponse(c, err)
	}

	return c.JSON(http.StatusCreated, fres.Response.StatusCreated(newInvestmentResponse(investment)))
}

// UpdateStatus is the staff status transition.
func (h *InvestmentHandler) UpdateStatus(c echo.Context) error {
	caller, ok := middleware.CurrentUser(c)
	if !ok {
		return unauthorized(c)
	}

	id, ok := parseID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "invalid investment id"})
	}

	var req InvestmentStatusRequest
	if err := c.Bind(&req); err != nil {
		logger.Error("Failed to bind request", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	if err := h.validator.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	investment, err := h.investmentService.UpdateStatus(ctx, caller, id, req.Status)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(newInvestmentResponse(investment)))
}
