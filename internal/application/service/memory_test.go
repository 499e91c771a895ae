package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mabatisales/mabati-api/internal/domain/entity"
	"github.com/mabatisales/mabati-api/internal/domain/enum"
	"github.com/mabatisales/mabati-api/internal/domain/repository"
	"github.com/mabatisales/mabati-api/pkg/pagination"
)

// memStore is an in-memory backing store shared by the fake
// repositories. The fake transaction manager snapshots it before each
// transaction and restores it on error, so the atomicity the real
// stack gets from Postgres holds in tests too.
type memStore struct {
	orders    map[uuid.UUID]*entity.Order
	items     map[uuid.UUID][]entity.OrderItem
	payments  map[uuid.UUID][]entity.Payment
	products  map[uuid.UUID]*entity.Product
	movements []entity.StockMovement
	plans     map[uuid.UUID]*entity.LayawayPlan
	customers map[uuid.UUID]*entity.Customer
}

func newMemStore() *memStore {
	return &memStore{
		orders:    make(map[uuid.UUID]*entity.Order),
		items:     make(map[uuid.UUID][]entity.OrderItem),
		payments:  make(map[uuid.UUID][]entity.Payment),
		products:  make(map[uuid.UUID]*entity.Product),
		plans:     make(map[uuid.UUID]*entity.LayawayPlan),
		customers: make(map[uuid.UUID]*entity.Customer),
	}
}

func (s *memStore) snapshot() *memStore {
	snap := newMemStore()
	for id, o := range s.orders {
		c := *o
		snap.orders[id] = &c
	}
	for id, items := range s.items {
		snap.items[id] = append([]entity.OrderItem(nil), items...)
	}
	for id, payments := range s.payments {
		snap.payments[id] = append([]entity.Payment(nil), payments...)
	}
	for id, p := range s.products {
		c := *p
		snap.products[id] = &c
	}
	snap.movements = append([]entity.StockMovement(nil), s.movements...)
	for id, plan := range s.plans {
		c := *plan
		c.Installments = append([]entity.LayawayInstallment(nil), plan.Installments...)
		snap.plans[id] = &c
	}
	for id, cu := range s.customers {
		c := *cu
		snap.customers[id] = &c
	}
	return snap
}

func (s *memStore) restore(snap *memStore) {
	s.orders = snap.orders
	s.items = snap.items
	s.payments = snap.payments
	s.products = snap.products
	s.movements = snap.movements
	s.plans = snap.plans
	s.customers = snap.customers
}

type memTx struct {
	store *memStore
}

func (t *memTx) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	snap := t.store.snapshot()
	if err := fn(ctx); err != nil {
		t.store.restore(snap)
		return err
	}
	return nil
}

// memOrderRepo implements OrderRepository over the store.
type memOrderRepo struct{ store *memStore }

func (r *memOrderRepo) Create(ctx context.Context, order *entity.Order) error {
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	c := *order
	c.Items = nil
	c.Payments = nil
	c.Layaway = nil
	c.CreatedAt = time.Now()
	r.store.orders[order.ID] = &c
	return nil
}

func (r *memOrderRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Order, error) {
	o, ok := r.store.orders[id]
	if !ok {
		return nil, nil
	}
	c := *o
	return &c, nil
}

func (r *memOrderRepo) GetByOrderNumber(ctx context.Context, orderNumber string) (*entity.Order, error) {
	for _, o := range r.store.orders {
		if o.OrderNumber == orderNumber {
			return r.GetWithDetails(ctx, o.ID)
		}
	}
	return nil, nil
}

func (r *memOrderRepo) GetWithDetails(ctx context.Context, id uuid.UUID) (*entity.Order, error) {
	o, ok := r.store.orders[id]
	if !ok {
		return nil, nil
	}
	c := *o
	c.Items = append([]entity.OrderItem(nil), r.store.items[id]...)
	c.Payments = append([]entity.Payment(nil), r.store.payments[id]...)
	for _, plan := range r.store.plans {
		if plan.OrderID == id {
			pc := *plan
			pc.Installments = append([]entity.LayawayInstallment(nil), plan.Installments...)
			c.Layaway = &pc
			break
		}
	}
	return &c, nil
}

func (r *memOrderRepo) GetForUpdate(ctx context.Context, id uuid.UUID) (*entity.Order, error) {
	return r.GetWithDetails(ctx, id)
}

func (r *memOrderRepo) Update(ctx context.Context, order *entity.Order) error {
	c := *order
	c.Items = nil
	c.Payments = nil
	c.Layaway = nil
	r.store.orders[order.ID] = &c
	return nil
}

func (r *memOrderRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status enum.OrderStatus) error {
	if o, ok := r.store.orders[id]; ok {
		o.Status = status
	}
	return nil
}

func (r *memOrderRepo) List(ctx context.Context, params *repository.OrderFilterParams) ([]entity.Order, int64, error) {
	var out []entity.Order
	for id := range r.store.orders {
		o, _ := r.GetWithDetails(ctx, id)
		if params.Status != nil && o.Status != *params.Status {
			continue
		}
		if params.OrderType != nil && o.OrderType != *params.OrderType {
			continue
		}
		if params.BranchID != nil && o.BranchID != *params.BranchID {
			continue
		}
		out = append(out, *o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].OrderNumber < out[j].OrderNumber })
	return out, int64(len(out)), nil
}

func (r *memOrderRepo) NextOrderNumber(ctx context.Context, orderType enum.OrderType) (int64, error) {
	var n int64 = 1
	for _, o := range r.store.orders {
		if o.OrderType == orderType {
			n++
		}
	}
	return n, nil
}

type memOrderItemRepo struct{ store *memStore }

func (r *memOrderItemRepo) CreateBatch(ctx context.Context, items []entity.OrderItem) error {
	for i := range items {
		if items[i].ID == uuid.Nil {
			items[i].ID = uuid.New()
		}
		r.store.items[items[i].OrderID] = append(r.store.items[items[i].OrderID], items[i])
	}
	return nil
}

func (r *memOrderItemRepo) GetByOrderID(ctx context.Context, orderID uuid.UUID) ([]entity.OrderItem, error) {
	return append([]entity.OrderItem(nil), r.store.items[orderID]...), nil
}

type memPaymentRepo struct{ store *memStore }

func (r *memPaymentRepo) Create(ctx context.Context, payment *entity.Payment) error {
	if payment.ID == uuid.Nil {
		payment.ID = uuid.New()
	}
	r.store.payments[payment.OrderID] = append(r.store.payments[payment.OrderID], *payment)
	return nil
}

func (r *memPaymentRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Payment, error) {
	for _, payments := range r.store.payments {
		for _, p := range payments {
			if p.ID == id {
				c := p
				return &c, nil
			}
		}
	}
	return nil, nil
}

func (r *memPaymentRepo) Update(ctx context.Context, payment *entity.Payment) error {
	payments := r.store.payments[payment.OrderID]
	for i := range payments {
		if payments[i].ID == payment.ID {
			payments[i] = *payment
		}
	}
	return nil
}

func (r *memPaymentRepo) GetByOrderID(ctx context.Context, orderID uuid.UUID) ([]entity.Payment, error) {
	return append([]entity.Payment(nil), r.store.payments[orderID]...), nil
}

type memProductRepo struct{ store *memStore }

func (r *memProductRepo) Create(ctx context.Context, product *entity.Product) error {
	if product.ID == uuid.Nil {
		product.ID = uuid.New()
	}
	c := *product
	r.store.products[product.ID] = &c
	return nil
}

func (r *memProductRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	p, ok := r.store.products[id]
	if !ok {
		return nil, nil
	}
	c := *p
	return &c, nil
}

func (r *memProductRepo) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.Product, error) {
	var out []entity.Product
	for _, id := range ids {
		if p, ok := r.store.products[id]; ok {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *memProductRepo) GetByCode(ctx context.Context, code string) (*entity.Product, error) {
	for _, p := range r.store.products {
		if p.Code == code {
			c := *p
			return &c, nil
		}
	}
	return nil, nil
}

func (r *memProductRepo) GetForUpdate(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	return r.GetByID(ctx, id)
}

func (r *memProductRepo) Update(ctx context.Context, product *entity.Product) error {
	c := *product
	r.store.products[product.ID] = &c
	return nil
}

func (r *memProductRepo) UpdateQuantity(ctx context.Context, id uuid.UUID, quantity decimal.Decimal) error {
	if p, ok := r.store.products[id]; ok {
		p.Quantity = quantity
	}
	return nil
}

func (r *memProductRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(r.store.products, id)
	return nil
}

func (r *memProductRepo) List(ctx context.Context, params *repository.ProductFilterParams) ([]entity.Product, int64, error) {
	var out []entity.Product
	for _, p := range r.store.products {
		if params.Search != "" && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(params.Search)) {
			continue
		}
		if params.LowStock && !p.LowStock() {
			continue
		}
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, int64(len(out)), nil
}

type memMovementRepo struct{ store *memStore }

func (r *memMovementRepo) Create(ctx context.Context, movement *entity.StockMovement) error {
	if movement.ID == uuid.Nil {
		movement.ID = uuid.New()
	}
	movement.CreatedAt = time.Now()
	r.store.movements = append(r.store.movements, *movement)
	return nil
}

func (r *memMovementRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.StockMovement, error) {
	for _, m := range r.store.movements {
		if m.ID == id {
			c := m
			return &c, nil
		}
	}
	return nil, nil
}

func (r *memMovementRepo) Update(ctx context.Context, movement *entity.StockMovement) error {
	for i := range r.store.movements {
		if r.store.movements[i].ID == movement.ID {
			r.store.movements[i] = *movement
		}
	}
	return nil
}

func (r *memMovementRepo) ListByOrder(ctx context.Context, orderID uuid.UUID) ([]entity.StockMovement, error) {
	var out []entity.StockMovement
	for _, m := range r.store.movements {
		if m.OrderID != nil && *m.OrderID == orderID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *memMovementRepo) ListByProduct(ctx context.Context, productID uuid.UUID, params *pagination.PaginationParams) ([]entity.StockMovement, int64, error) {
	var out []entity.StockMovement
	for _, m := range r.store.movements {
		if m.ProductID == productID {
			out = append(out, m)
		}
	}
	return out, int64(len(out)), nil
}

type memLayawayRepo struct{ store *memStore }

func (r *memLayawayRepo) CreatePlan(ctx context.Context, plan *entity.LayawayPlan) error {
	if plan.ID == uuid.Nil {
		plan.ID = uuid.New()
	}
	for i := range plan.Installments {
		if plan.Installments[i].ID == uuid.Nil {
			plan.Installments[i].ID = uuid.New()
		}
		plan.Installments[i].PlanID = plan.ID
	}
	c := *plan
	c.Installments = append([]entity.LayawayInstallment(nil), plan.Installments...)
	r.store.plans[plan.ID] = &c
	return nil
}

func (r *memLayawayRepo) GetPlanByID(ctx context.Context, id uuid.UUID) (*entity.LayawayPlan, error) {
	plan, ok := r.store.plans[id]
	if !ok {
		return nil, nil
	}
	c := *plan
	c.Installments = append([]entity.LayawayInstallment(nil), plan.Installments...)
	return &c, nil
}

func (r *memLayawayRepo) GetPlanByOrderID(ctx context.Context, orderID uuid.UUID) (*entity.LayawayPlan, error) {
	for id, plan := range r.store.plans {
		if plan.OrderID == orderID {
			return r.GetPlanByID(ctx, id)
		}
	}
	return nil, nil
}

func (r *memLayawayRepo) GetInstallment(ctx context.Context, id uuid.UUID) (*entity.LayawayInstallment, error) {
	for _, plan := range r.store.plans {
		for _, inst := range plan.Installments {
			if inst.ID == id {
				c := inst
				return &c, nil
			}
		}
	}
	return nil, nil
}

func (r *memLayawayRepo) UpdateInstallment(ctx context.Context, installment *entity.LayawayInstallment) error {
	plan, ok := r.store.plans[installment.PlanID]
	if !ok {
		return nil
	}
	for i := range plan.Installments {
		if plan.Installments[i].ID == installment.ID {
			plan.Installments[i] = *installment
		}
	}
	return nil
}

func (r *memLayawayRepo) ListPlansWithOverdue(ctx context.Context, branchID *uuid.UUID) ([]entity.LayawayPlan, error) {
	now := time.Now()
	var out []entity.LayawayPlan
	for id, plan := range r.store.plans {
		if len(plan.OverdueInstallments(now)) == 0 {
			continue
		}
		c, _ := r.GetPlanByID(ctx, id)
		out = append(out, *c)
	}
	return out, nil
}

type memCustomerRepo struct{ store *memStore }

func (r *memCustomerRepo) Create(ctx context.Context, customer *entity.Customer) error {
	if customer.ID == uuid.Nil {
		customer.ID = uuid.New()
	}
	c := *customer
	r.store.customers[customer.ID] = &c
	return nil
}

func (r *memCustomerRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Customer, error) {
	c, ok := r.store.customers[id]
	if !ok {
		return nil, nil
	}
	cc := *c
	return &cc, nil
}

func (r *memCustomerRepo) GetByEmail(ctx context.Context, email string) (*entity.Customer, error) {
	for _, c := range r.store.customers {
		if c.Email != nil && *c.Email == email {
			cc := *c
			return &cc, nil
		}
	}
	return nil, nil
}

func (r *memCustomerRepo) Update(ctx context.Context, customer *entity.Customer) error {
	c := *customer
	r.store.customers[customer.ID] = &c
	return nil
}

func (r *memCustomerRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(r.store.customers, id)
	return nil
}

func (r *memCustomerRepo) List(ctx context.Context, branchID *uuid.UUID, params *pagination.PaginationParams, search string) ([]entity.Customer, int64, error) {
	var out []entity.Customer
	for _, c := range r.store.customers {
		out = append(out, *c)
	}
	return out, int64(len(out)), nil
}

// fixture wires a full service stack over one in-memory store.
type fixture struct {
	store    *memStore
	orders   *OrderService
	stock    *StockService
	layaway  *LayawayService
	products *ProductService
	branchID uuid.UUID
}

func newFixture(allowPartialCollection bool) *fixture {
	store := newMemStore()
	tx := &memTx{store: store}

	orderRepo := &memOrderRepo{store: store}
	itemRepo := &memOrderItemRepo{store: store}
	paymentRepo := &memPaymentRepo{store: store}
	productRepo := &memProductRepo{store: store}
	movementRepo := &memMovementRepo{store: store}
	layawayRepo := &memLayawayRepo{store: store}
	customerRepo := &memCustomerRepo{store: store}

	stock := NewStockService(tx, movementRepo, productRepo)
	orders := NewOrderService(tx, orderRepo, itemRepo, paymentRepo, productRepo, layawayRepo, customerRepo, stock, allowPartialCollection)
	layaway := NewLayawayService(tx, layawayRepo, orderRepo, paymentRepo, orders)
	products := NewProductService(tx, productRepo, stock)

	return &fixture{
		store:    store,
		orders:   orders,
		stock:    stock,
		layaway:  layaway,
		products: products,
		branchID: uuid.New(),
	}
}

// seedProduct adds a piece-priced product with the given price and stock.
func (f *fixture) seedProduct(code string, price float64, stock float64) *entity.Product {
	p := &entity.Product{
		ID:          uuid.New(),
		BranchID:    f.branchID,
		Name:        code,
		Slug:        strings.ToLower(code),
		Code:        code,
		PricingMode: enum.PricingModePiece,
		UnitPrice:   decimal.NewFromFloat(price),
		Quantity:    decimal.NewFromFloat(stock),
	}
	f.store.products[p.ID] = p
	return p
}

// seedAreaProduct adds an area-priced product.
func (f *fixture) seedAreaProduct(code string, pricePerSqm float64, stock float64) *entity.Product {
	p := f.seedProduct(code, pricePerSqm, stock)
	f.store.products[p.ID].PricingMode = enum.PricingModeArea
	return f.store.products[p.ID]
}
