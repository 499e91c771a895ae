package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mabatisales/mabati-api/internal/domain/entity"
	"github.com/mabatisales/mabati-api/internal/domain/repository"
	"github.com/mabatisales/mabati-api/pkg/apperror"
	"github.com/mabatisales/mabati-api/pkg/money"
)

// LayawayService manages installment schedules on layaway orders. The
// schedule is bookkeeping over the order's payment ledger: installment
// money always lands as a regular payment first, then is allocated to
// the installment.
type LayawayService struct {
	tx          repository.TxManager
	layawayRepo repository.LayawayRepository
	orderRepo   repository.OrderRepository
	paymentRepo repository.PaymentRepository
	orders      *OrderService
}

// NewLayawayService creates a new layaway service
func NewLayawayService(
	tx repository.TxManager,
	layawayRepo repository.LayawayRepository,
	orderRepo repository.OrderRepository,
	paymentRepo repository.PaymentRepository,
	orders *OrderService,
) *LayawayService {
	return &LayawayService{
		tx:          tx,
		layawayRepo: layawayRepo,
		orderRepo:   orderRepo,
		paymentRepo: paymentRepo,
		orders:      orders,
	}
}

// RecordInstallmentPayment records a payment against one installment:
// the amount goes into the order's payment ledger and accumulates on
// the installment, flipping it to paid once the expected amount is met.
func (s *LayawayService) RecordInstallmentPayment(ctx context.Context, installmentID uuid.UUID, input *PaymentInput) (*entity.Order, error) {
	var orderID uuid.UUID
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		installment, err := s.layawayRepo.GetInstallment(ctx, installmentID)
		if err != nil {
			return err
		}
		if installment == nil {
			return apperror.NewNotFoundError("Installment")
		}

		plan, err := s.layawayRepo.GetPlanByID(ctx, installment.PlanID)
		if err != nil {
			return err
		}
		if plan == nil {
			return apperror.NewNotFoundError("Layaway plan")
		}
		orderID = plan.OrderID

		order, err := s.orderRepo.GetForUpdate(ctx, plan.OrderID)
		if err != nil {
			return err
		}
		if order == nil {
			return apperror.NewNotFoundError("Order")
		}

		if err := s.orders.appendPayment(ctx, order, input); err != nil {
			return err
		}

		installment.ApplyAmount(money.FromFloat(input.Amount), time.Now())
		if err := s.layawayRepo.UpdateInstallment(ctx, installment); err != nil {
			return err
		}

		return s.orderRepo.UpdateStatus(ctx, order.ID, order.Status)
	})
	if err != nil {
		return nil, err
	}
	return s.orderRepo.GetWithDetails(ctx, orderID)
}

// GetSchedule returns the layaway plan of an order with its installments.
func (s *LayawayService) GetSchedule(ctx context.Context, orderID uuid.UUID) (*entity.LayawayPlan, error) {
	plan, err := s.layawayRepo.GetPlanByOrderID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if plan == nil {
		return nil, apperror.NewNotFoundError("Layaway plan")
	}
	return plan, nil
}

// PaymentSummary is a snapshot of where a layaway order stands.
type PaymentSummary struct {
	OrderID           uuid.UUID       `json:"order_id"`
	TotalAmount       decimal.Decimal `json:"total_amount"`
	DepositAmount     decimal.Decimal `json:"deposit_amount"`
	PaidAmount        decimal.Decimal `json:"paid_amount"`
	BalanceAmount     decimal.Decimal `json:"balance_amount"`
	InstallmentsPaid  int             `json:"installments_paid"`
	InstallmentsTotal int             `json:"installments_total"`
	OverdueCount      int             `json:"overdue_count"`
	NextDueDate       *time.Time      `json:"next_due_date,omitempty"`
}

// GetPaymentSummary derives the payment progress of a layaway order
// from its ledger and schedule.
func (s *LayawayService) GetPaymentSummary(ctx context.Context, orderID uuid.UUID) (*PaymentSummary, error) {
	order, err := s.orderRepo.GetWithDetails(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, apperror.NewNotFoundError("Order")
	}
	if order.Layaway == nil {
		return nil, apperror.NewNotFoundError("Layaway plan")
	}

	now := time.Now()
	summary := &PaymentSummary{
		OrderID:           order.ID,
		TotalAmount:       order.TotalAmount,
		DepositAmount:     order.Layaway.DepositAmount,
		PaidAmount:        order.PaidAmount(),
		BalanceAmount:     order.BalanceAmount(),
		InstallmentsTotal: order.Layaway.NumberOfInstallments,
	}
	for _, inst := range order.Layaway.Installments {
		if inst.Paid {
			summary.InstallmentsPaid++
			continue
		}
		if inst.Overdue(now) {
			summary.OverdueCount++
		}
		if summary.NextDueDate == nil || inst.DueDate.Before(*summary.NextDueDate) {
			due := inst.DueDate
			summary.NextDueDate = &due
		}
	}
	return summary, nil
}

// OverdueInstallments returns an order's installments past due and
// unpaid as of the given time.
func (s *LayawayService) OverdueInstallments(ctx context.Context, orderID uuid.UUID, asOf time.Time) ([]entity.LayawayInstallment, error) {
	plan, err := s.GetSchedule(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return plan.OverdueInstallments(asOf), nil
}

// ListOverduePlans returns every plan with at least one overdue
// installment, optionally scoped to a branch.
func (s *LayawayService) ListOverduePlans(ctx context.Context, branchID *uuid.UUID) ([]entity.LayawayPlan, error) {
	return s.layawayRepo.ListPlansWithOverdue(ctx, branchID)
}
