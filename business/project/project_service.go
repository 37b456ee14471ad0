package project

import (
	"agriVest/domain"
	"agriVest/pkg/logger"
	"agriVest/pkg/metrics"
	"context"
	"fmt"

	"github.com/shopspring/decimal"
)

// ProjectRepository contract interface
type ProjectRepository interface {
	Create(ctx context.Context, project *domain.Project) error
	FindByID(ctx context.Context, id uint) (domain.Project, error)
	FindAll(ctx context.Context, filter domain.ProjectFilter) ([]domain.Project, error)
	Update(ctx context.Context, project *domain.Project) error
	Delete(ctx context.Context, id uint) error
}

const ErrMsgFarmersOnly = "Only farmers can create projects."

type projectService struct {
	projectRepo ProjectRepository
}

func NewProjectService(projectRepo ProjectRepository) *projectService {
	return &projectService{
		projectRepo: projectRepo,
	}
}

func (s *projectService) GetAllProjects(ctx context.Context) ([]domain.Project, error) {
	if err := ctx.Err(); err != nil {
		logger.Error("context error when get all project")
		return nil, fmt.Errorf("context error: %w", err)
	}

	projects, err := s.projectRepo.FindAll(ctx, domain.ProjectFilter{})
	if err != nil {
		logger.Error("Failed to find all project", err)
		return nil, err
	}

	return projects, nil
}

// ListProjects backs the administrative project listing.
func (s *projectService) ListProjects(ctx context.Context, filter domain.ProjectFilter) ([]domain.Project, error) {
	if filter.FarmType != "" {
		if _, ok := domain.FarmTypes[filter.FarmType]; !ok {
			return nil, fmt.Errorf("%w: %q is not a valid farm type", domain.ErrValidation, filter.FarmType)
		}
	}

	projects, err := s.projectRepo.FindAll(ctx, filter)
	if err != nil {
		logger.Error("Failed to filter projects", err)
		return nil, err
	}

	return projects, nil
}

func (s *projectService) GetProjectByID(ctx context.Context, id uint) (domain.Project, error) {
	if id == 0 {
		return domain.Project{}, fmt.Errorf("project %w", domain.ErrNotFound)
	}

	project, err := s.projectRepo.FindByID(ctx, id)
	if err != nil {
		logger.Error("failed to find project by id", err)
		return domain.Project{}, err
	}

	return project, nil
}

// CreateProject stores a new project owned by caller. Only farmers may
// create projects; amount raised always starts at zero.
func (s *projectService) CreateProject(ctx context.Context, caller domain.User, project domain.Project) (domain.Project, error) {
	if err := ctx.Err(); err != nil {
		logger.Error("context error when create project")
		return domain.Project{}, fmt.Errorf("context error: %w", err)
	}

	if !caller.IsFarmer() {
		logger.Warn("Project creation by non-farmer", "user_id", caller.ID, "role", caller.Role)
		return domain.Project{}, fmt.Errorf("%w: %s", domain.ErrForbidden, ErrMsgFarmersOnly)
	}

	project.ID = 0
	project.FarmerID = caller.ID
	project.AmountRaised = decimal.Zero

	if err := project.Validate(); err != nil {
		logger.Warn("Invalid project data", err)
		return domain.Project{}, err
	}

	if err := s.projectRepo.Create(ctx, &project); err != nil {
		logger.Error("failed to create new project", err)
		return domain.Project{}, err
	}

	project.Farmer = caller
	metrics.ProjectsCreated.WithLabelValues(project.FarmType).Inc()
	logger.Info("project created successfully", "project_id", project.ID, "farmer_id", caller.ID)

	return project, nil
}

// UpdateProject merges patch into the stored project and writes it back.
// A full replacement is a patch with every field set.
func (s *projectService) UpdateProject(ctx context.Context, caller domain.User, id uint, patch domain.ProjectPatch) (domain.Project, error) {
	project, err := s.GetProjectByID(ctx, id)
	if err != nil {
		return domain.Project{}, err
	}

	if !project.CanModify(caller) {
		logger.Warn("Project update denied", "project_id", id, "user_id", caller.ID)
		return domain.Project{}, fmt.Errorf("%w: you do not own this project", domain.ErrForbidden)
	}

	patch.Apply(&project)

	if err := project.Validate(); err != nil {
		logger.Warn("Invalid project data", err)
		return domain.Project{}, err
	}

	if err := s.projectRepo.Update(ctx, &project); err != nil {
		logger.Error("failed to update project", err)
		return domain.Project{}, err
	}

	logger.Info("project updated successfully", "project_id", id)

	return project, nil
}

func (s *projectService) DeleteProject(ctx context.Context, caller domain.User, id uint) error {
	project, err := s.GetProjectByID(ctx, id)
	if err != nil {
		return err
	}

	if !project.CanModify(caller) {
		logger.Warn("Project delete denied", "project_id", id, "user_id", caller.ID)
		return fmt.Errorf("%w: you do not own this project", domain.ErrForbidden)
	}

	if err := s.projectRepo.Delete(ctx, id); err != nil {
		logger.Error("failed to delete project", err)
		return err
	}

	logger.Info("project deleted successfully", "project_id", id)

	return nil
}
