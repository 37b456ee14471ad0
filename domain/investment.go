package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// CREATE TABLE public.investments (
//     id           BIGINT GENERATED BY DEFAULT AS IDENTITY PRIMARY KEY,
//     investor_id  BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
//     project_id   BIGINT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
//     amount       NUMERIC(10,2) NOT NULL,
//     status       VARCHAR(20) DEFAULT 'pending',
//     created_at   TIMESTAMPTZ,
//     updated_at   TIMESTAMPTZ
// );

const (
	InvestmentPending   = "pending"
	InvestmentApproved  = "approved"
	InvestmentCompleted = "completed"
)

// investmentStatusRank orders the statuses; transitions only move forward.
var investmentStatusRank = map[string]int{
	InvestmentPending:   0,
	InvestmentApproved:  1,
	InvestmentCompleted: 2,
}

// numeric(10,2) upper bound
var maxInvestmentAmount = decimal.RequireFromString("99999999.99")

type Investment struct {
	ID         uint            `gorm:"primaryKey"`
	InvestorID uint            `gorm:"column:investor_id;not null;index"`
	ProjectID  uint            `gorm:"column:project_id;not null;index"`
	Amount     decimal.Decimal `gorm:"column:amount;type:numeric(10,2);not null"`
	Status     string          `gorm:"column:status;size:20;default:pending"`
	CreatedAt  time.Time       `gorm:"column:created_at;<-:create"`
	UpdatedAt  time.Time

	Investor User    `gorm:"foreignKey:InvestorID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	Project  Project `gorm:"foreignKey:ProjectID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

func (Investment) TableName() string {
	return "investments"
}

func (i Investment) Validate() error {
	if !i.Amount.IsPositive() {
		return fmt.Errorf("%w: amount must be greater than 0", ErrValidation)
	}

	if !hasCents(i.Amount) {
		return fmt.Errorf("%w: amount allows at most 2 decimal places", ErrValidation)
	}

	if i.Amount.GreaterThan(maxInvestmentAmount) {
		return fmt.Errorf("%w: amount exceeds %s", ErrValidation, maxInvestmentAmount.StringFixed(2))
	}

	if _, ok := investmentStatusRank[i.Status]; !ok {
		return fmt.Errorf("%w: %q is not a valid investment status", ErrValidation, i.Status)
	}

	return nil
}

// CanTransition reports whether an investment may move from status from to
// status to.
func CanTransition(from, to string) bool {
	f, ok := investmentStatusRank[from]
	if !ok {
		return false
	}
	t, ok := investmentStatusRank[to]
	if !ok {
		return false
	}
	return t > f
}

// CountsTowardRaised reports whether investments in status count toward a
// project's amount raised.
func CountsTowardRaised(status string) bool {
	return status == InvestmentApproved || status == InvestmentCompleted
}
