package investment

import (
	"agriVest/domain"
	"agriVest/pkg/logger"
	"agriVest/pkg/metrics"
	"context"
	"fmt"
)

// InvestmentRepository contract interface
type InvestmentRepository interface {
	Create(ctx context.Context, investment *domain.Investment) error
	FindByInvestor(ctx context.Context, investorID uint) ([]domain.Investment, error)
	FindByID(ctx context.Context, id uint) (domain.Investment, error)
	TransitionStatus(ctx context.Context, id uint, status string, check func(current domain.Investment) error, recompute bool) (domain.Investment, error)
}

// ProjectFinder resolves the project an investment targets.
type ProjectFinder interface {
	FindByID(ctx context.Context, id uint) (domain.Project, error)
}

type investmentService struct {
	investmentRepo InvestmentRepository
	projectRepo    ProjectFinder
}

func NewInvestmentService(investmentRepo InvestmentRepository, projectRepo ProjectFinder) *investmentService {
	return &investmentService{
		investmentRepo: investmentRepo,
		projectRepo:    projectRepo,
	}
}

// GetMyInvestments lists only the caller's own investments.
func (s *investmentService) GetMyInvestments(ctx context.Context, caller domain.User) ([]domain.Investment, error) {
	if err := ctx.Err(); err != nil {
		logger.Error("context error when get investments")
		return nil, fmt.Errorf("context error: %w", err)
	}

	investments, err := s.investmentRepo.FindByInvestor(ctx, caller.ID)
	if err != nil {
		logger.Error("Failed to find investments", err)
		return nil, err
	}

	return investments, nil
}

// GetInvestment returns one investment. Investments of other investors are
// reported as not found unless caller is staff.
func (s *investmentService) GetInvestment(ctx context.Context, caller domain.User, id uint) (domain.Investment, error) {
	investment, err := s.investmentRepo.FindByID(ctx, id)
	if err != nil {
		return domain.Investment{}, err
	}

	if investment.InvestorID != caller.ID && !caller.IsAdmin() {
		logger.Warn("Investment lookup by non-owner", "investment_id", id, "user_id", caller.ID)
		return domain.Investment{}, fmt.Errorf("investment %w", domain.ErrNotFound)
	}

	return investment, nil
}

// CreateInvestment records a pending pledge by caller. The project's amount
// raised is left alone until an administrator approves the pledge.
func (s *investmentService) CreateInvestment(ctx context.Context, caller domain.User, investment domain.Investment) (domain.Investment, error) {
	if err := ctx.Err(); err != nil {
		logger.Error("context error when create investment")
		return domain.Investment{}, fmt.Errorf("context error: %w", err)
	}

	project, err := s.projectRepo.FindByID(ctx, investment.ProjectID)
	if err != nil {
		logger.Warn("Investment for unknown project", "project_id", investment.ProjectID)
		return domain.Investment{}, err
	}

	investment.ID = 0
	investment.InvestorID = caller.ID
	investment.Status = domain.InvestmentPending

	if err := investment.Validate(); err != nil {
		return domain.Investment{}, err
	}

	if err := s.investmentRepo.Create(ctx, &investment); err != nil {
		logger.Error("failed to create investment", err)
		return domain.Investment{}, err
	}

	investment.Investor = caller
	investment.Project = project
	metrics.InvestmentsCreated.Inc()
	logger.Info("investment created successfully", "investment_id", investment.ID, "project_id", project.ID)

	return investment, nil
}

// UpdateStatus moves an investment forward through
// pending -> approved -> completed. Reaching approved or completed rebuilds
// the project's amount raised in the same transaction.
func (s *investmentService) UpdateStatus(ctx context.Context, caller domain.User, id uint, status string) (domain.Investment, error) {
	if !caller.IsAdmin() {
		return domain.Investment{}, fmt.Errorf("%w: staff only", domain.ErrForbidden)
	}

	check := func(current domain.Investment) error {
		if !domain.CanTransition(current.Status, status) {
			return fmt.Errorf("%w: cannot move investment from %s to %s", domain.ErrValidation, current.Status, status)
		}
		return nil
	}

	investment, err := s.investmentRepo.TransitionStatus(ctx, id, status, check, domain.CountsTowardRaised(status))
	if err != nil {
		logger.Warn("Investment status change failed", "investment_id", id, "status", status, err)
		return domain.Investment{}, err
	}

	logger.Info("investment status changed", "investment_id", id, "status", status, "by", caller.ID)

	return investment, nil
}
