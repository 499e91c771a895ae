package entity

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLayawayPlanSchedule(t *testing.T) {
	first := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)
	plan, err := NewLayawayPlan(amount(900), amount(90), 4, 30, first)
	require.NoError(t, err)

	require.Len(t, plan.Installments, 4)
	assert.Equal(t, 4, plan.NumberOfInstallments)
	assert.True(t, plan.InstallmentAmount.Equal(amount(202.50)))

	sum := plan.DepositAmount
	for k, inst := range plan.Installments {
		assert.Equal(t, k+1, inst.Sequence)
		assert.True(t, inst.ExpectedAmount.Equal(amount(202.50)), "installment %d got %s", k+1, inst.ExpectedAmount)
		assert.True(t, inst.DueDate.Equal(first.AddDate(0, 0, k*30)))
		sum = sum.Add(inst.ExpectedAmount)
	}
	assert.True(t, sum.Equal(amount(900)), "deposit plus installments must equal the total")
}

func TestNewLayawayPlanRemainderOnLast(t *testing.T) {
	plan, err := NewLayawayPlan(amount(1000), amount(0), 3, 14, time.Now())
	require.NoError(t, err)

	assert.True(t, plan.Installments[0].ExpectedAmount.Equal(amount(333.33)))
	assert.True(t, plan.Installments[1].ExpectedAmount.Equal(amount(333.33)))
	assert.True(t, plan.Installments[2].ExpectedAmount.Equal(amount(333.34)))

	sum := decimal.Zero
	for _, inst := range plan.Installments {
		sum = sum.Add(inst.ExpectedAmount)
	}
	assert.True(t, sum.Equal(amount(1000)))
}

func TestNewLayawayPlanValidation(t *testing.T) {
	now := time.Now()

	_, err := NewLayawayPlan(amount(900), amount(-1), 4, 30, now)
	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)

	_, err = NewLayawayPlan(amount(900), amount(901), 4, 30, now)
	var scheduleErr *ScheduleMismatchError
	require.ErrorAs(t, err, &scheduleErr)

	_, err = NewLayawayPlan(amount(900), amount(90), 0, 30, now)
	require.ErrorAs(t, err, &validationErr)

	_, err = NewLayawayPlan(amount(900), amount(90), 4, 0, now)
	require.ErrorAs(t, err, &validationErr)
}

func TestInstallmentOverdue(t *testing.T) {
	now := time.Now()
	inst := LayawayInstallment{DueDate: now.AddDate(0, 0, -1), ExpectedAmount: amount(100)}

	assert.True(t, inst.Overdue(now))

	inst.ApplyAmount(amount(100), now)
	assert.False(t, inst.Overdue(now), "a paid installment is never overdue")

	future := LayawayInstallment{DueDate: now.AddDate(0, 0, 1), ExpectedAmount: amount(100)}
	assert.False(t, future.Overdue(now))
}

func TestInstallmentApplyAmountAccumulates(t *testing.T) {
	now := time.Now()
	inst := LayawayInstallment{DueDate: now, ExpectedAmount: amount(200)}

	inst.ApplyAmount(amount(50), now)
	assert.False(t, inst.Paid)
	assert.True(t, inst.PaidAmount.Equal(amount(50)))

	inst.ApplyAmount(amount(150), now)
	assert.True(t, inst.Paid)
	require.NotNil(t, inst.PaidAt)
	assert.True(t, inst.PaidAmount.Equal(amount(200)))
}

func TestOverdueInstallments(t *testing.T) {
	now := time.Now()
	plan, err := NewLayawayPlan(amount(600), amount(0), 3, 7, now.AddDate(0, 0, -15))
	require.NoError(t, err)

	// Due dates: -15d, -8d, -1d; pay the first one
	plan.Installments[0].ApplyAmount(amount(200), now)

	overdue := plan.OverdueInstallments(now)
	require.Len(t, overdue, 2)
	assert.Equal(t, 2, overdue[0].Sequence)
	assert.Equal(t, 3, overdue[1].Sequence)
}
