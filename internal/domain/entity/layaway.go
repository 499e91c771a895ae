package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/mabatisales/mabati-api/pkg/money"
)

// LayawayPlan is the installment schedule attached to a LAYAWAY order.
// Invariant at creation: deposit + sum(installment expected amounts)
// equals the order total exactly.
type LayawayPlan struct {
	ID                   uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	OrderID              uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex" json:"order_id"`
	DepositAmount        decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"deposit_amount"`
	InstallmentAmount    decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"installment_amount"`
	NumberOfInstallments int             `gorm:"not null" json:"number_of_installments"`
	FrequencyDays        int             `gorm:"not null" json:"frequency_days"`
	FirstInstallmentDate time.Time       `gorm:"type:date;not null" json:"first_installment_date"`
	CreatedAt            time.Time       `json:"created_at"`
	UpdatedAt            time.Time       `json:"updated_at"`

	// Relationships
	Order        Order                `gorm:"foreignKey:OrderID" json:"-"`
	Installments []LayawayInstallment `gorm:"foreignKey:PlanID" json:"installments,omitempty"`
}

// BeforeCreate generates a UUID before creating a new layaway plan
func (p *LayawayPlan) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the LayawayPlan model
func (LayawayPlan) TableName() string {
	return "layaway_plans"
}

// LayawayInstallment is one scheduled payment within a layaway plan.
// Partial amounts accumulate against PaidAmount; the installment flips
// to paid once the expected amount is met.
type LayawayInstallment struct {
	ID             uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	PlanID         uuid.UUID       `gorm:"type:uuid;not null;index" json:"plan_id"`
	Sequence       int             `gorm:"not null" json:"sequence"`
	DueDate        time.Time       `gorm:"type:date;not null" json:"due_date"`
	ExpectedAmount decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"expected_amount"`
	PaidAmount     decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0" json:"paid_amount"`
	Paid           bool            `gorm:"not null;default:false" json:"paid"`
	PaidAt         *time.Time      `json:"paid_at,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`

	// Relationships
	Plan LayawayPlan `gorm:"foreignKey:PlanID" json:"-"`
}

// BeforeCreate generates a UUID before creating a new installment
func (i *LayawayInstallment) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the LayawayInstallment model
func (LayawayInstallment) TableName() string {
	return "layaway_installments"
}

// Overdue reports whether the installment is past due and not fully paid.
func (i *LayawayInstallment) Overdue(asOf time.Time) bool {
	return i.DueDate.Before(asOf) && !i.Paid
}

// ApplyAmount accumulates a payment against the installment and flips
// it to paid once the expected amount is met.
func (i *LayawayInstallment) ApplyAmount(amount decimal.Decimal, now time.Time) {
	i.PaidAmount = money.Round(i.PaidAmount.Add(amount))
	if i.PaidAmount.GreaterThanOrEqual(i.ExpectedAmount) {
		i.Paid = true
		i.PaidAt = &now
	}
}

// NewLayawayPlan validates the plan parameters and derives the
// installment schedule for totalAmount. The last installment absorbs
// any rounding remainder so deposit + installments always equals the
// total exactly.
func NewLayawayPlan(totalAmount, depositAmount decimal.Decimal, numberOfInstallments, frequencyDays int, firstInstallmentDate time.Time) (*LayawayPlan, error) {
	if depositAmount.IsNegative() {
		return nil, &ValidationError{Field: "deposit_amount", Message: "deposit cannot be negative"}
	}
	if depositAmount.GreaterThan(totalAmount) {
		return nil, &ScheduleMismatchError{Deposit: depositAmount, Total: totalAmount}
	}
	if numberOfInstallments < 1 {
		return nil, &ValidationError{Field: "number_of_installments", Message: "at least one installment is required"}
	}
	if frequencyDays < 1 {
		return nil, &ValidationError{Field: "frequency_days", Message: "installment frequency must be at least one day"}
	}

	amounts := money.SplitEven(totalAmount.Sub(depositAmount), numberOfInstallments)
	plan := &LayawayPlan{
		DepositAmount:        depositAmount,
		InstallmentAmount:    amounts[0],
		NumberOfInstallments: numberOfInstallments,
		FrequencyDays:        frequencyDays,
		FirstInstallmentDate: firstInstallmentDate,
		Installments:         make([]LayawayInstallment, numberOfInstallments),
	}
	for k := 0; k < numberOfInstallments; k++ {
		plan.Installments[k] = LayawayInstallment{
			Sequence:       k + 1,
			DueDate:        firstInstallmentDate.AddDate(0, 0, k*frequencyDays),
			ExpectedAmount: amounts[k],
			PaidAmount:     decimal.Zero,
		}
	}
	return plan, nil
}

// OverdueInstallments returns the installments past due and unpaid as
// of the given time, in schedule order.
func (p *LayawayPlan) OverdueInstallments(asOf time.Time) []LayawayInstallment {
	var overdue []LayawayInstallment
	for _, inst := range p.Installments {
		if inst.Overdue(asOf) {
			overdue = append(overdue, inst)
		}
	}
	return overdue
}
