package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// CREATE TABLE public.projects (
//     id             BIGINT GENERATED BY DEFAULT AS IDENTITY PRIMARY KEY,
//     farmer_id      BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
//     description    TEXT NOT NULL,
//     farm_type      VARCHAR(20) NOT NULL,
//     funding_goal   NUMERIC(12,2) NOT NULL,
//     amount_raised  NUMERIC(12,2) DEFAULT 0,
//     start_date     DATE NOT NULL,
//     end_date       DATE NOT NULL,
//     is_open        BOOLEAN DEFAULT TRUE,
//     created_at     TIMESTAMPTZ,
//     updated_at     TIMESTAMPTZ
// );

const (
	FarmTypeCrop      = "crop"
	FarmTypeLivestock = "livestock"
	FarmTypeFishery   = "fishery"
	FarmTypePoultry   = "poultry"
)

var FarmTypes = map[string]string{
	FarmTypeCrop:      "Crop Farming",
	FarmTypeLivestock: "Livestock",
	FarmTypeFishery:   "Fishery",
	FarmTypePoultry:   "Poultry",
}

// DateLayout is the wire format of project dates.
const DateLayout = "2006-01-02"

// numeric(12,2) upper bound
var maxProjectAmount = decimal.RequireFromString("9999999999.99")

type Project struct {
	ID           uint            `gorm:"primaryKey"`
	FarmerID     uint            `gorm:"column:farmer_id;not null;index"`
	Description  string          `gorm:"column:description;type:text;not null"`
	FarmType     string          `gorm:"column:farm_type;size:20;not null;index"`
	FundingGoal  decimal.Decimal `gorm:"column:funding_goal;type:numeric(12,2);not null"`
	AmountRaised decimal.Decimal `gorm:"column:amount_raised;type:numeric(12,2);default:0"`
	StartDate    datatypes.Date  `gorm:"column:start_date;not null;index"`
	EndDate      datatypes.Date  `gorm:"column:end_date;not null"`
	IsOpen       bool            `gorm:"column:is_open;default:true;index"`
	CreatedAt    time.Time
	UpdatedAt    time.Time

	Farmer User `gorm:"foreignKey:FarmerID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

func (Project) TableName() string {
	return "projects"
}

// Validate checks the record-level invariants of a project. Every create and
// update goes through it before reaching the store.
func (p Project) Validate() error {
	if strings.TrimSpace(p.Description) == "" {
		return fmt.Errorf("%w: description is required", ErrValidation)
	}

	if _, ok := FarmTypes[p.FarmType]; !ok {
		return fmt.Errorf("%w: %q is not a valid farm type", ErrValidation, p.FarmType)
	}

	if !p.FundingGoal.IsPositive() {
		return fmt.Errorf("%w: funding goal must be greater than 0", ErrValidation)
	}

	if p.FundingGoal.GreaterThan(maxProjectAmount) || p.AmountRaised.GreaterThan(maxProjectAmount) {
		return fmt.Errorf("%w: amount exceeds %s", ErrValidation, maxProjectAmount.StringFixed(2))
	}

	if !hasCents(p.FundingGoal) || !hasCents(p.AmountRaised) {
		return fmt.Errorf("%w: amounts allow at most 2 decimal places", ErrValidation)
	}

	if p.AmountRaised.IsNegative() {
		return fmt.Errorf("%w: amount raised cannot be negative", ErrValidation)
	}

	start, end := time.Time(p.StartDate), time.Time(p.EndDate)
	if start.IsZero() || end.IsZero() {
		return fmt.Errorf("%w: start date and end date are required", ErrValidation)
	}

	if end.Before(start) {
		return fmt.Errorf("%w: end date cannot be before start date", ErrValidation)
	}

	return nil
}

// hasCents reports whether d fits a numeric(_,2) column without rounding.
func hasCents(d decimal.Decimal) bool {
	return d.Equal(d.Round(2))
}

// CanModify reports whether u may update or delete p: the owning farmer or an
// administrator.
func (p Project) CanModify(u User) bool {
	return u.IsAdmin() || (u.ID != 0 && u.ID == p.FarmerID)
}

// ProjectFilter narrows the administrative project listing.
type ProjectFilter struct {
	FarmType string
	IsOpen   *bool
	Search   string
}

// ProjectPatch carries the optional fields of a partial update. Nil means
// "leave unchanged".
type ProjectPatch struct {
	Description *string
	FarmType    *string
	FundingGoal *decimal.Decimal
	StartDate   *datatypes.Date
	EndDate     *datatypes.Date
	IsOpen      *bool
}

// Apply merges the patch into p.
func (patch ProjectPatch) Apply(p *Project) {
	if patch.Description != nil {
		p.Description = *patch.Description
	}
	if patch.FarmType != nil {
		p.FarmType = *patch.FarmType
	}
	if patch.FundingGoal != nil {
		p.FundingGoal = *patch.FundingGoal
	}
	if patch.StartDate != nil {
		p.StartDate = *patch.StartDate
	}
	if patch.EndDate != nil {
		p.EndDate = *patch.EndDate
	}
	if patch.IsOpen != nil {
		p.IsOpen = *patch.IsOpen
	}
}

// ParseDate parses a YYYY-MM-DD string into a DATE column value.
func ParseDate(s string) (datatypes.Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return datatypes.Date{}, fmt.Errorf("%w: date %q must be in YYYY-MM-DD format", ErrValidation, s)
	}
	return datatypes.Date(t), nil
}
