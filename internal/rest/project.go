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

type ProjectService interface {
	GetAllProjects(ctx context.Context) ([]domain.Project, error)
	ListProjects(ctx context.Context, filter domain.ProjectFilter) ([]domain.Project, error)
	GetProjectByID(ctx context.Context, id uint) (domain.Project, error)
	CreateProject(ctx context.Context, caller domain.User, project domain.Project) (domain.Project, error)
	UpdateProject(ctx context.Context, caller domain.User, id uint, patch domain.ProjectPatch) (domain.Project, error)
	DeleteProject(ctx context.Context, caller domain.User, id uint) error
}

type ProjectHandler struct {
	projectService ProjectService
	validator      *validator.Validate
	timeout        time.Duration
}

func NewProjectHandler(projectService ProjectService) *ProjectHandler {
	return &ProjectHandler{
		projectService: projectService,
		validator:      validator.New(),
		timeout:        10 * time.Second,
	}
}

// ProjectRequest is the body of create and full update.
type ProjectRequest struct {
	Description *string          `json:"description" validate:"required"`
	FarmType    *string          `json:"farm_type" validate:"required"`
	FundingGoal *decimal.Decimal `json:"funding_goal" validate:"required"`
	StartDate   *string          `json:"start_date" validate:"required"`
	EndDate     *string          `json:"end_date" validate:"required"`
	IsOpen      *bool            `json:"is_open"`
}

// ProjectPatchRequest is the body of a partial update.
type ProjectPatchRequest struct {
	Description *string          `json:"description"`
	FarmType    *string          `json:"farm_type"`
	FundingGoal *decimal.Decimal `json:"funding_goal"`
	StartDate   *string          `json:"start_date"`
	EndDate     *string          `json:"end_date"`
	IsOpen      *bool            `json:"is_open"`
}

func (r ProjectPatchRequest) toPatch() (domain.ProjectPatch, error) {
	patch := domain.ProjectPatch{
		Description: r.Description,
		FarmType:    r.FarmType,
		FundingGoal: r.FundingGoal,
		IsOpen:      r.IsOpen,
	}

	if r.StartDate != nil {
		d, err := domain.ParseDate(*r.StartDate)
		if err != nil {
			return domain.ProjectPatch{}, err
		}
		patch.StartDate = &d
	}

	if r.EndDate != nil {
		d, err := domain.ParseDate(*r.EndDate)
		if err != nil {
			return domain.ProjectPatch{}, err
		}
		patch.EndDate = &d
	}

	return patch, nil
}

type ProjectResponse struct {
	ID           uint      `json:"id"`
	Farmer       uint      `json:"farmer"`
	Description  string    `json:"description"`
	FarmType     string    `json:"farm_type"`
	FundingGoal  string    `json:"funding_goal"`
	AmountRaised string    `json:"amount_raised"`
	StartDate    string    `json:"start_date"`
	EndDate      string    `json:"end_date"`
	IsOpen       bool      `json:"is_open"`
	CreatedAt    time.Time `json:"created_at"`
}

func newProjectResponse(p domain.Project) ProjectResponse {
	return ProjectResponse{
		ID:           p.ID,
		Farmer:       p.FarmerID,
		Description:  p.Description,
		FarmType:     p.FarmType,
		FundingGoal:  p.FundingGoal.StringFixed(2),
		AmountRaised: p.AmountRaised.StringFixed(2),
		StartDate:    formatDate(time.Time(p.StartDate)),
		EndDate:      formatDate(time.Time(p.EndDate)),
		IsOpen:       p.IsOpen,
		CreatedAt:    p.CreatedAt,
	}
}

func newProjectResponses(projects []domain.Project) []ProjectResponse {
	resp := make([]ProjectResponse, 0, len(projects))
	for _, p := range projects {
		resp = append(resp, newProjectResponse(p))
	}
	return resp
}

func (h *ProjectHandler) GetAllProjects(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	projects, err := h.projectService.GetAllProjects(ctx)
	if err != nil {
		logger.Error("Failed to find all projects", err)
		return errorResponse(c, err)
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(newProjectResponses(projects)))
}

// ListProjects is the staff listing: ?farm_type=&is_open=&search=
func (h *ProjectHandler) ListProjects(c echo.Context) error {
	filter := domain.ProjectFilter{
		FarmType: c.QueryParam("farm_type"),
		Search:   c.QueryParam("search"),
	}

	var err error
	if filter.IsOpen, err = parseOptionalBool(c, "is_open"); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "invalid is_open"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	projects, err := h.projectService.ListProjects(ctx, filter)
	if err != nil {
		logger.Error("Failed to filter projects", err)
		return errorResponse(c, err)
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(newProjectResponses(projects)))
}

func (h *ProjectHandler) GetProjectByID(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "invalid project id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	project, err := h.projectService.GetProjectByID(ctx, id)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(newProjectResponse(project)))
}

func (h *ProjectHandler) CreateProject(c echo.Context) error {
	caller, ok := middleware.CurrentUser(c)
	if !ok {
		return unauthorized(c)
	}

	var req ProjectRequest
	if err := c.Bind(&req); err != nil {
		logger.Error("Failed to bind request", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	if err := h.validator.Struct(&req); err != nil {
		logger.Error("Failed to validate project request", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	patch, err := ProjectPatchRequest(req).toPatch()
	if err != nil {
		return errorResponse(c, err)
	}

	project := domain.Project{IsOpen: true}
	patch.Apply(&project)

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	newProject, err := h.projectService.CreateProject(ctx, caller, project)
	if err != nil {
		logger.Error("Failed to create project", err)
		return errorResponse(c, err)
	}

	return c.JSON(http.StatusCreated, fres.Response.StatusCreated(newProjectResponse(newProject)))
}

// UpdateProject serves PUT, which requires every field.
func (h *ProjectHandler) UpdateProject(c echo.Context) error {
	var req ProjectRequest
	if err := c.Bind(&req); err != nil {
		logger.Error("Failed to bind request", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	if err := h.validator.Struct(&req); err != nil {
		logger.Error("Failed to validate project request", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	return h.applyUpdate(c, ProjectPatchRequest(req))
}

// PatchProject serves PATCH; absent fields are left unchanged.
func (h *ProjectHandler) PatchProject(c echo.Context) error {
	var req ProjectPatchRequest
	if err := c.Bind(&req); err != nil {
		logger.Error("Failed to bind request", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	return h.applyUpdate(c, req)
}

func (h *ProjectHandler) applyUpdate(c echo.Context, req ProjectPatchRequest) error {
	caller, ok := middleware.CurrentUser(c)
	if !ok {
		return unauthorized(c)
	}

	id, ok := parseID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "invalid project id"})
	}

	patch, err := req.toPatch()
	if err != nil {
		return errorResponse(c, err)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	updated, err := h.projectService.UpdateProject(ctx, caller, id, patch)
	if err != nil {
		logger.Error("Failed to update project", err)
		return errorResponse(c, err)
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(newProjectResponse(updated)))
}

func (h *ProjectHandler) DeleteProject(c echo.Context) error {
	caller, ok := middleware.CurrentUser(c)
	if !ok {
		return unauthorized(c)
	}

	id, ok := parseID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "invalid project id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	if err := h.projectService.DeleteProject(ctx, caller, id); err != nil {
		logger.Error("Failed to delete project", err)
		return errorResponse(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}
