package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/mabatisales/mabati-api/internal/domain/entity"
)

// LayawayRepository defines the interface for layaway plan data operations
type LayawayRepository interface {
	CreatePlan(ctx context.Context, plan *entity.LayawayPlan) error
	GetPlanByID(ctx context.Context, id uuid.UUID) (*entity.LayawayPlan, error)
	GetPlanByOrderID(ctx context.Context, orderID uuid.UUID) (*entity.LayawayPlan, error)
	GetInstallment(ctx context.Context, id uuid.UUID) (*entity.LayawayInstallment, error)
	UpdateInstallment(ctx context.Context, installment *entity.LayawayInstallment) error
	// ListPlansWithOverdue returns plans that have at least one unpaid
	// installment due before the given time.
	ListPlansWithOverdue(ctx context.Context, branchID *uuid.UUID) ([]entity.LayawayPlan, error)
}
