package service

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mabatisales/mabati-api/internal/domain/entity"
	"github.com/mabatisales/mabati-api/internal/domain/enum"
)

func dateAt(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func cashPayment(amount float64) *PaymentInput {
	return &PaymentInput{Amount: amount, Method: enum.PaymentMethodCash}
}

func (f *fixture) saleInput(p *entity.Product, qty int, payment *PaymentInput) *CreateOrderInput {
	return &CreateOrderInput{
		BranchID: f.branchID,
		Items:    []OrderItemInput{{ProductID: p.ID, Quantity: qty}},
		Payment:  payment,
	}
}

func TestCreateImmediateSaleFullyPaid(t *testing.T) {
	f := newFixture(false)
	ctx := context.Background()
	product := f.seedProduct("MBT-CORR-30", 69, 10)

	order, err := f.orders.CreateImmediateSale(ctx, f.saleInput(product, 3, cashPayment(207)))
	require.NoError(t, err)

	assert.Equal(t, "INV-000001", order.OrderNumber)
	assert.Equal(t, enum.OrderStatusFullyPaid, order.Status)
	assert.True(t, order.TotalAmount.Equal(decimal.NewFromInt(207)))
	assert.True(t, order.BalanceAmount().IsZero())
	require.Len(t, order.Payments, 1)

	got := f.store.products[product.ID]
	assert.True(t, got.Quantity.Equal(decimal.NewFromInt(7)), "stock should drop by the quantity sold")

	movements, err := f.stock.MovementsForOrder(ctx, order.ID)
	require.NoError(t, err)
	require.Len(t, movements, 1)
	assert.Equal(t, enum.MovementTypeSale, movements[0].MovementType)
	assert.True(t, movements[0].QuantityDelta.Equal(decimal.NewFromInt(-3)))
	assert.True(t, movements[0].StockBefore.Equal(decimal.NewFromInt(10)))
	assert.True(t, movements[0].StockAfter.Equal(decimal.NewFromInt(7)))
}

func TestCreateImmediateSaleInsufficientStock(t *testing.T) {
	f := newFixture(false)
	ctx := context.Background()
	product := f.seedProduct("MBT-BOX-28", 100, 2)

	_, err := f.orders.CreateImmediateSale(ctx, f.saleInput(product, 3, cashPayment(300)))

	var stockErr *entity.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, product.ID, stockErr.ProductID)

	// Nothing from the failed attempt may remain committed.
	assert.Empty(t, f.store.orders)
	assert.Empty(t, f.store.movements)
	assert.True(t, f.store.products[product.ID].Quantity.Equal(decimal.NewFromInt(2)))
}

func TestCreateImmediateSaleRequiresPayment(t *testing.T) {
	f := newFixture(false)
	product := f.seedProduct("MBT-CORR-30", 69, 10)

	_, err := f.orders.CreateImmediateSale(context.Background(), f.saleInput(product, 1, nil))

	var vErr *entity.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "payment", vErr.Field)
}

func TestCreateQuotationTouchesNothing(t *testing.T) {
	f := newFixture(false)
	ctx := context.Background()
	product := f.seedProduct("MBT-TILE-26", 150, 5)

	order, err := f.orders.CreateQuotation(ctx, f.saleInput(product, 3, nil))
	require.NoError(t, err)

	assert.Equal(t, "QT-000001", order.OrderNumber)
	assert.Equal(t, enum.OrderStatusPending, order.Status)
	assert.True(t, order.TotalAmount.Equal(decimal.NewFromInt(450)))
	assert.Empty(t, order.Payments)
	assert.Empty(t, f.store.movements)
	assert.True(t, f.store.products[product.ID].Quantity.Equal(decimal.NewFromInt(5)))
}

func TestCreateQuotationRejectsPayment(t *testing.T) {
	f := newFixture(false)
	product := f.seedProduct("MBT-TILE-26", 150, 5)

	_, err := f.orders.CreateQuotation(context.Background(), f.saleInput(product, 1, cashPayment(150)))

	var vErr *entity.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "payment", vErr.Field)
}

func TestFutureCollectionPartialThenFull(t *testing.T) {
	f := newFixture(false)
	ctx := context.Background()
	product := f.seedProduct("MBT-CORR-28", 100, 8)
	collect := dateAt(2026, time.October, 1)

	input := f.saleInput(product, 5, cashPayment(200))
	input.ExpectedCollectionDate = &collect
	order, err := f.orders.CreateFutureCollection(ctx, input)
	require.NoError(t, err)

	assert.Equal(t, "FC-000001", order.OrderNumber)
	assert.Equal(t, enum.OrderStatusPartiallyPaid, order.Status)
	assert.True(t, order.BalanceAmount().Equal(decimal.NewFromInt(300)))
	// Stock is committed at creation, not at collection.
	assert.True(t, f.store.products[product.ID].Quantity.Equal(decimal.NewFromInt(3)))

	order, err = f.orders.ApplyPayment(ctx, order.ID, cashPayment(300))
	require.NoError(t, err)
	assert.Equal(t, enum.OrderStatusFullyPaid, order.Status)
	assert.True(t, order.BalanceAmount().IsZero())
	assert.Len(t, order.Payments, 2)
}

func TestFutureCollectionRequiresDate(t *testing.T) {
	f := newFixture(false)
	product := f.seedProduct("MBT-CORR-28", 100, 8)

	_, err := f.orders.CreateFutureCollection(context.Background(), f.saleInput(product, 1, cashPayment(100)))

	var vErr *entity.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "expected_collection_date", vErr.Field)
}

func TestApplyPaymentOverpaymentRejected(t *testing.T) {
	f := newFixture(false)
	ctx := context.Background()
	product := f.seedProduct("MBT-CORR-28", 100, 8)
	collect := dateAt(2026, time.October, 1)

	input := f.saleInput(product, 5, cashPayment(200))
	input.ExpectedCollectionDate = &collect
	order, err := f.orders.CreateFutureCollection(ctx, input)
	require.NoError(t, err)

	_, err = f.orders.ApplyPayment(ctx, order.ID, cashPayment(400))

	var overErr *entity.OverpaymentError
	require.ErrorAs(t, err, &overErr)
	assert.True(t, overErr.Balance.Equal(decimal.NewFromInt(300)))

	// The rejected payment must not reach the ledger.
	after, err := f.orders.GetOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.Len(t, after.Payments, 1)
	assert.Equal(t, enum.OrderStatusPartiallyPaid, after.Status)
}

func TestApplyPaymentOnCompletedOrderRejected(t *testing.T) {
	f := newFixture(false)
	ctx := context.Background()
	product := f.seedProduct("MBT-CORR-30", 69, 10)

	order, err := f.orders.CreateImmediateSale(ctx, f.saleInput(product, 3, cashPayment(207)))
	require.NoError(t, err)
	_, err = f.orders.MarkReadyForCollection(ctx, order.ID)
	require.NoError(t, err)
	_, err = f.orders.CompleteCollection(ctx, order.ID)
	require.NoError(t, err)

	_, err = f.orders.ApplyPayment(ctx, order.ID, cashPayment(10))

	var transErr *entity.InvalidTransitionError
	require.ErrorAs(t, err, &transErr)
	assert.Equal(t, enum.OrderStatusCompleted, transErr.From)
}

func TestCreateLayawayDepositSchedule(t *testing.T) {
	f := newFixture(false)
	ctx := context.Background()
	product := f.seedProduct("MBT-BOX-30", 225, 10)

	input := f.saleInput(product, 4, cashPayment(90))
	input.Layaway = &LayawayInput{
		DepositAmount:        90,
		NumberOfInstallments: 4,
		FrequencyDays:        30,
		FirstInstallmentDate: dateAt(2026, time.October, 10),
	}
	order, err := f.orders.CreateLayaway(ctx, input)
	require.NoError(t, err)

	assert.Equal(t, "LAY-000001", order.OrderNumber)
	assert.Equal(t, enum.OrderStatusConfirmed, order.Status, "a layaway holding only its deposit is confirmed")
	require.NotNil(t, order.Layaway)
	require.Len(t, order.Layaway.Installments, 4)
	for _, inst := range order.Layaway.Installments {
		assert.True(t, inst.ExpectedAmount.Equal(decimal.NewFromFloat(202.50)))
	}
	// Layaway commits stock up front like a sale.
	assert.True(t, f.store.products[product.ID].Quantity.Equal(decimal.NewFromInt(6)))
}

func TestCreateLayawayDepositMustMatchPayment(t *testing.T) {
	f := newFixture(false)
	product := f.seedProduct("MBT-BOX-30", 225, 10)

	input := f.saleInput(product, 4, cashPayment(50))
	input.Layaway = &LayawayInput{
		DepositAmount:        90,
		NumberOfInstallments: 4,
		FrequencyDays:        30,
		FirstInstallmentDate: dateAt(2026, time.October, 10),
	}
	_, err := f.orders.CreateLayaway(context.Background(), input)

	var vErr *entity.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "payment", vErr.Field)
}

func TestReversePaymentRestoresBalance(t *testing.T) {
	f := newFixture(false)
	ctx := context.Background()
	product := f.seedProduct("MBT-CORR-28", 100, 8)
	collect := dateAt(2026, time.October, 1)

	input := f.saleInput(product, 5, cashPayment(500))
	input.ExpectedCollectionDate = &collect
	order, err := f.orders.CreateFutureCollection(ctx, input)
	require.NoError(t, err)
	require.Equal(t, enum.OrderStatusFullyPaid, order.Status)

	order, err = f.orders.ReversePayment(ctx, order.Payments[0].ID, "cashier keyed wrong amount")
	require.NoError(t, err)

	assert.Equal(t, enum.OrderStatusPending, order.Status)
	assert.True(t, order.PaidAmount().IsZero())
	assert.True(t, order.BalanceAmount().Equal(decimal.NewFromInt(500)))
	require.Len(t, order.Payments, 1, "reversal tombstones the entry, it never deletes it")
	assert.True(t, order.Payments[0].Reversed)

	// Reversing the same payment twice is refused.
	_, err = f.orders.ReversePayment(ctx, order.Payments[0].ID, "again")
	var revErr *entity.AlreadyReversedError
	require.ErrorAs(t, err, &revErr)
}

func TestReverseOrderRestoresStockAndReversesPayments(t *testing.T) {
	f := newFixture(false)
	ctx := context.Background()
	product := f.seedProduct("MBT-CORR-30", 69, 10)

	order, err := f.orders.CreateImmediateSale(ctx, f.saleInput(product, 3, cashPayment(207)))
	require.NoError(t, err)

	order, err = f.orders.ReverseOrder(ctx, order.ID, "customer returned the sheets")
	require.NoError(t, err)

	assert.Equal(t, enum.OrderStatusReversed, order.Status)
	require.Len(t, order.Payments, 1)
	assert.True(t, order.Payments[0].Reversed)
	assert.True(t, f.store.products[product.ID].Quantity.Equal(decimal.NewFromInt(10)), "stock is restored by compensation")

	movements, err := f.stock.MovementsForOrder(ctx, order.ID)
	require.NoError(t, err)
	require.Len(t, movements, 2, "the sale entry stays alongside its compensating entry")
	var sale, compensation *entity.StockMovement
	for i := range movements {
		if movements[i].MovementType == enum.MovementTypeSale {
			sale = &movements[i]
		} else {
			compensation = &movements[i]
		}
	}
	require.NotNil(t, sale)
	require.NotNil(t, compensation)
	assert.True(t, sale.Reversed)
	assert.Equal(t, enum.MovementTypeReversal, compensation.MovementType)
	require.NotNil(t, compensation.ReversalOfID)
	assert.Equal(t, sale.ID, *compensation.ReversalOfID)
	assert.True(t, compensation.QuantityDelta.Equal(decimal.NewFromInt(3)))

	// A reversed order is terminal.
	_, err = f.orders.ReverseOrder(ctx, order.ID, "twice")
	var transErr *entity.InvalidTransitionError
	require.ErrorAs(t, err, &transErr)
}

func TestCancelOrderBlockedByStockMovements(t *testing.T) {
	f := newFixture(false)
	ctx := context.Background()
	product := f.seedProduct("MBT-CORR-30", 69, 10)

	sale, err := f.orders.CreateImmediateSale(ctx, f.saleInput(product, 3, cashPayment(207)))
	require.NoError(t, err)

	_, err = f.orders.CancelOrder(ctx, sale.ID)
	var transErr *entity.InvalidTransitionError
	require.ErrorAs(t, err, &transErr)

	// A quotation has no ledger entries and cancels cleanly.
	quote, err := f.orders.CreateQuotation(ctx, f.saleInput(product, 1, nil))
	require.NoError(t, err)
	quote, err = f.orders.CancelOrder(ctx, quote.ID)
	require.NoError(t, err)
	assert.Equal(t, enum.OrderStatusCancelled, quote.Status)
}

func TestMarkReadyAndCompleteCollection(t *testing.T) {
	f := newFixture(false)
	ctx := context.Background()
	product := f.seedProduct("MBT-CORR-28", 100, 8)
	collect := dateAt(2026, time.October, 1)

	input := f.saleInput(product, 5, cashPayment(200))
	input.ExpectedCollectionDate = &collect
	order, err := f.orders.CreateFutureCollection(ctx, input)
	require.NoError(t, err)

	// Partially paid collection is a policy decision and is off here.
	_, err = f.orders.MarkReadyForCollection(ctx, order.ID)
	var transErr *entity.InvalidTransitionError
	require.ErrorAs(t, err, &transErr)

	_, err = f.orders.ApplyPayment(ctx, order.ID, cashPayment(300))
	require.NoError(t, err)
	order, err = f.orders.MarkReadyForCollection(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, enum.OrderStatusReadyForCollection, order.Status)

	order, err = f.orders.CompleteCollection(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, enum.OrderStatusCompleted, order.Status)
	assert.NotNil(t, order.CompletionDate)
}

func TestMarkReadyPartialCollectionPolicy(t *testing.T) {
	f := newFixture(true)
	ctx := context.Background()
	product := f.seedProduct("MBT-CORR-28", 100, 8)
	collect := dateAt(2026, time.October, 1)

	input := f.saleInput(product, 5, cashPayment(200))
	input.ExpectedCollectionDate = &collect
	order, err := f.orders.CreateFutureCollection(ctx, input)
	require.NoError(t, err)

	order, err = f.orders.MarkReadyForCollection(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, enum.OrderStatusReadyForCollection, order.Status)
}

func TestConvertQuotationLeavesSourceUntouched(t *testing.T) {
	f := newFixture(false)
	ctx := context.Background()
	product := f.seedProduct("MBT-TILE-26", 100, 10)

	quote, err := f.orders.CreateQuotation(ctx, f.saleInput(product, 2, nil))
	require.NoError(t, err)

	sale, err := f.orders.ConvertQuotation(ctx, quote.ID, &ConvertQuotationInput{
		TargetType: enum.OrderTypeImmediateSale,
		Payment:    cashPayment(200),
	})
	require.NoError(t, err)

	assert.Equal(t, "INV-000001", sale.OrderNumber)
	assert.Equal(t, enum.OrderStatusFullyPaid, sale.Status)
	assert.True(t, sale.TotalAmount.Equal(quote.TotalAmount))
	assert.True(t, f.store.products[product.ID].Quantity.Equal(decimal.NewFromInt(8)))

	source, err := f.orders.GetOrder(ctx, quote.ID)
	require.NoError(t, err)
	assert.Equal(t, enum.OrderTypeQuotation, source.OrderType)
	assert.Equal(t, enum.OrderStatusPending, source.Status)
	assert.Empty(t, source.Payments)
}

func TestConvertQuotationGuards(t *testing.T) {
	f := newFixture(false)
	ctx := context.Background()
	product := f.seedProduct("MBT-TILE-26", 100, 10)

	quote, err := f.orders.CreateQuotation(ctx, f.saleInput(product, 2, nil))
	require.NoError(t, err)

	_, err = f.orders.ConvertQuotation(ctx, quote.ID, &ConvertQuotationInput{
		TargetType: enum.OrderTypeQuotation,
	})
	var vErr *entity.ValidationError
	require.ErrorAs(t, err, &vErr)

	sale, err := f.orders.CreateImmediateSale(ctx, f.saleInput(product, 1, cashPayment(100)))
	require.NoError(t, err)
	_, err = f.orders.ConvertQuotation(ctx, sale.ID, &ConvertQuotationInput{
		TargetType: enum.OrderTypeImmediateSale,
		Payment:    cashPayment(100),
	})
	var srcErr *entity.InvalidSourceTypeError
	require.ErrorAs(t, err, &srcErr)
}

func TestOrderNumbersSequencePerType(t *testing.T) {
	f := newFixture(false)
	ctx := context.Background()
	product := f.seedProduct("MBT-CORR-30", 69, 100)

	first, err := f.orders.CreateImmediateSale(ctx, f.saleInput(product, 1, cashPayment(69)))
	require.NoError(t, err)
	second, err := f.orders.CreateImmediateSale(ctx, f.saleInput(product, 1, cashPayment(69)))
	require.NoError(t, err)
	quote, err := f.orders.CreateQuotation(ctx, f.saleInput(product, 1, nil))
	require.NoError(t, err)

	assert.Equal(t, "INV-000001", first.OrderNumber)
	assert.Equal(t, "INV-000002", second.OrderNumber)
	assert.Equal(t, "QT-000001", quote.OrderNumber)
}

func TestCreateOrderAreaPricedItem(t *testing.T) {
	f := newFixture(false)
	ctx := context.Background()
	product := f.seedAreaProduct("MBT-CUT-30", 450, 100)
	length, width := 3.0, 1.05

	input := &CreateOrderInput{
		BranchID: f.branchID,
		Items: []OrderItemInput{{
			ProductID: product.ID,
			Quantity:  4,
			Length:    &length,
			Width:     &width,
		}},
		Payment: cashPayment(5670),
	}
	order, err := f.orders.CreateImmediateSale(ctx, input)
	require.NoError(t, err)

	// 3.0m x 1.05m x 4 pieces = 12.6 sqm at 450 per sqm.
	assert.True(t, order.TotalAmount.Equal(decimal.NewFromInt(5670)))
	assert.True(t, f.store.products[product.ID].Quantity.Equal(decimal.NewFromFloat(87.4)), "area stock is debited in square metres")
}

func TestCreateOrderAreaPricedItemNeedsDimensions(t *testing.T) {
	f := newFixture(false)
	product := f.seedAreaProduct("MBT-CUT-30", 450, 100)

	_, err := f.orders.CreateImmediateSale(context.Background(), f.saleInput(product, 1, cashPayment(450)))

	var vErr *entity.ValidationError
	require.ErrorAs(t, err, &vErr)
}
