package postgres

import (
	"agriVest/domain"
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProjectRepository struct {
	DB *gorm.DB
}

func NewProjectRepository(db *gorm.DB) *ProjectRepository {
	return &ProjectRepository{
		DB: db,
	}
}

func (r *ProjectRepository) Create(ctx context.Context, project *domain.Project) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	if err := r.DB.WithContext(ctx).Omit(clause.Associations).Create(project).Error; err != nil {
		return fmt.Errorf("failed to create project: %w", err)
	}

	return nil
}

func (r *ProjectRepository) FindByID(ctx context.Context, id uint) (domain.Project, error) {
	if err := ctx.Err(); err != nil {
		return domain.Project{}, fmt.Errorf("context error: %w", err)
	}

	var project domain.Project

	err := r.DB.WithContext(ctx).Preload("Farmer").First(&project, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Project{}, fmt.Errorf("project %w", domain.ErrNotFound)
		}
		return domain.Project{}, fmt.Errorf("failed to find project: %w", err)
	}

	return project, nil
}

func (r *ProjectRepository) FindAll(ctx context.Context, filter domain.ProjectFilter) ([]domain.Project, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	q := r.DB.WithContext(ctx).Model(&domain.Project{}).Preload("Farmer")
	if filter.FarmType != "" {
		q = q.Where("projects.farm_type = ?", filter.FarmType)
	}
	if filter.IsOpen != nil {
		q = q.Where("projects.is_open = ?", *filter.IsOpen)
	}
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		q = q.Joins("JOIN users ON users.id = projects.farmer_id").
			Where("users.username ILIKE ? OR projects.description ILIKE ?", like, like)
	}

	var projects []domain.Project
	if err := q.Order("projects.start_date DESC").Order("projects.id").Find(&projects).Error; err != nil {
		return nil, fmt.Errorf("failed to find projects: %w", err)
	}

	return projects, nil
}

// Update writes the editable columns of project. amount_raised and farmer_id
// are not touched here.
func (r *ProjectRepository) Update(ctx context.Context, project *domain.Project) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	updateData := map[string]interface{}{
		"description":  project.Description,
		"farm_type":    project.FarmType,
		"funding_goal": project.FundingGoal,
		"start_date":   project.StartDate,
		"end_date":     project.EndDate,
		"is_open":      project.IsOpen,
	}

	result := r.DB.WithContext(ctx).Model(&domain.Project{}).Where("id = ?", project.ID).Updates(updateData)
	if result.Error != nil {
		return fmt.Errorf("failed to update project: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("project %w", domain.ErrNotFound)
	}

	return nil
}

func (r *ProjectRepository) Delete(ctx context.Context, id uint) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	result := r.DB.WithContext(ctx).Delete(&domain.Project{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete project: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("project %w", domain.ErrNotFound)
	}

	return nil
}
