package postgres

import (
	"agriVest/domain"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type InvestmentRepository struct {
	DB *gorm.DB
}

func NewInvestmentRepository(db *gorm.DB) *InvestmentRepository {
	return &InvestmentRepository{
		DB: db,
	}
}

func (r *InvestmentRepository) Create(ctx context.Context, investment *domain.Investment) error {
	if err := r.DB.WithContext(ctx).Omit(clause.Associations).Create(investment).Error; err != nil {
		return fmt.Errorf("failed to create investment: %w", err)
	}

	return nil
}

func (r *InvestmentRepository) FindByInvestor(ctx context.Context, investorID uint) ([]domain.Investment, error) {
	var investments []domain.Investment

	err := r.DB.WithContext(ctx).
		Where("investor_id = ?", investorID).
		Order("created_at DESC").
		Find(&investments).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find investments: %w", err)
	}

	return investments, nil
}

func (r *InvestmentRepository) FindByID(ctx context.Context, id uint) (domain.Investment, error) {
	var investment domain.Investment

	err := r.DB.WithContext(ctx).First(&investment, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Investment{}, fmt.Errorf("investment %w", domain.ErrNotFound)
		}
		return domain.Investment{}, fmt.Errorf("failed to find investment: %w", err)
	}

	return investment, nil
}

// TransitionStatus moves investment id to status under a row lock. check is
// called with the locked row and may veto the move. When recompute is set the
// project's amount_raised is rebuilt from its approved and completed
// investments within the same transaction.
func (r *InvestmentRepository) TransitionStatus(
	ctx context.Context,
	id uint,
	status string,
	check func(current domain.Investment) error,
	recompute bool,
) (domain.Investment, error) {
	var investment domain.Investment

	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&investment, id).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("investment %w", domain.ErrNotFound)
			}
			return err
		}

		if err := check(investment); err != nil {
			return err
		}

		now := time.Now()
		err = tx.Model(&domain.Investment{}).Where("id = ?", investment.ID).
			Updates(map[string]interface{}{"status": status, "updated_at": now}).Error
		if err != nil {
			return err
		}
		investment.Status = status
		investment.UpdatedAt = now

		if !recompute {
			return nil
		}

		var raised decimal.Decimal
		err = tx.Model(&domain.Investment{}).
			Select("COALESCE(SUM(amount), 0)").
			Where("project_id = ? AND status IN ?", investment.ProjectID,
				[]string{domain.InvestmentApproved, domain.InvestmentCompleted}).
			Row().Scan(&raised)
		if err != nil {
			return err
		}

		return tx.Model(&domain.Project{}).Where("id = ?", investment.ProjectID).
			Update("amount_raised", raised).Error
	})
	if err != nil {
		return domain.Investment{}, err
	}

	return investment, nil
}
