package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mabatisales/mabati-api/internal/domain/entity"
	domainRepo "github.com/mabatisales/mabati-api/internal/domain/repository"
)

type layawayRepository struct {
	db *gorm.DB
}

// NewLayawayRepository creates a new layaway repository
func NewLayawayRepository(db *gorm.DB) domainRepo.LayawayRepository {
	return &layawayRepository{db: db}
}

func (r *layawayRepository) CreatePlan(ctx context.Context, plan *entity.LayawayPlan) error {
	return dbFrom(ctx, r.db).Create(plan).Error
}

func (r *layawayRepository) GetPlanByID(ctx context.Context, id uuid.UUID) (*entity.LayawayPlan, error) {
	var plan entity.LayawayPlan
	err := dbFrom(ctx, r.db).
		Preload("Installments", func(db *gorm.DB) *gorm.DB { return db.Order("layaway_installments.sequence ASC") }).
		First(&plan, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &plan, err
}

func (r *layawayRepository) GetPlanByOrderID(ctx context.Context, orderID uuid.UUID) (*entity.LayawayPlan, error) {
	var plan entity.LayawayPlan
	err := dbFrom(ctx, r.db).
		Preload("Installments", func(db *gorm.DB) *gorm.DB { return db.Order("layaway_installments.sequence ASC") }).
		First(&plan, "order_id = ?", orderID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &plan, err
}

func (r *layawayRepository) GetInstallment(ctx context.Context, id uuid.UUID) (*entity.LayawayInstallment, error) {
	var installment entity.LayawayInstallment
	err := dbFrom(ctx, r.db).First(&installment, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &installment, err
}

func (r *layawayRepository) UpdateInstallment(ctx context.Context, installment *entity.LayawayInstallment) error {
	return dbFrom(ctx, r.db).Save(installment).Error
}

func (r *layawayRepository) ListPlansWithOverdue(ctx context.Context, branchID *uuid.UUID) ([]entity.LayawayPlan, error) {
	var plans []entity.LayawayPlan

	query := dbFrom(ctx, r.db).Model(&entity.LayawayPlan{}).
		Joins("JOIN layaway_installments ON layaway_installments.plan_id = layaway_plans.id").
		Where("layaway_installments.paid = false AND layaway_installments.due_date < ?", time.Now()).
		Group("layaway_plans.id")

	if branchID != nil {
		query = query.
			Joins("JOIN orders ON orders.id = layaway_plans.order_id").
			Where("orders.branch_id = ?", *branchID)
	}

	err := query.
		Preload("Installments", func(db *gorm.DB) *gorm.DB { return db.Order("layaway_installments.sequence ASC") }).
		Find(&plans).Error
	return plans, err
}
