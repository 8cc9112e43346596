package service

import (
	"context"
	"testing"

	"github.com/arnaldoeur/erp.nobreza.site-sub001/internal/domain"
	"github.com/arnaldoeur/erp.nobreza.site-sub001/internal/pos"
	"github.com/arnaldoeur/erp.nobreza.site-sub001/internal/repository"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProducts struct {
	products map[int64]domain.Product
}

func (f *fakeProducts) GetByID(_ context.Context, _, id int64) (*domain.Product, error) {
	p, ok := f.products[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &p, nil
}

type fakeCustomers struct {
	byName  map[string]domain.Customer
	created []domain.Customer
	nextID  int64
}

func (f *fakeCustomers) FindByName(_ context.Context, _ int64, name string) (*domain.Customer, error) {
	c, ok := f.byName[name]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &c, nil
}

func (f *fakeCustomers) Upsert(_ context.Context, _ int64, c domain.Customer) (*domain.Customer, error) {
	f.nextID++
	c.ID = f.nextID
	f.created = append(f.created, c)
	return &c, nil
}

type fakeSales struct {
	created []repository.CreateSaleInput
	failErr error
}

func (f *fakeSales) Create(ctx context.Context, _ int64, in repository.CreateSaleInput, after func(context.Context, pgx.Tx) error) (*domain.Sale, error) {
	if f.failErr != nil {
		return nil, f.failErr
	}
	if after != nil {
		if err := after(ctx, nil); err != nil {
			return nil, err
		}
	}
	f.created = append(f.created, in)
	return &domain.Sale{ID: int64(len(f.created)), Code: in.Code, Total: domain.Money{Amount: in.Total}}, nil
}

type fakeProcurements struct {
	created []repository.CreateProcurementInput
}

func (f *fakeProcurements) Create(_ context.Context, _ int64, in repository.CreateProcurementInput) (*domain.ProcurementOrder, error) {
	f.created = append(f.created, in)
	return &domain.ProcurementOrder{ID: int64(len(f.created)), Code: in.Code, SupplierName: in.SupplierName}, nil
}

type fakeLedger struct {
	entries []repository.CreateLedgerInput
}

func (f *fakeLedger) CreateWithTx(_ context.Context, _ pgx.Tx, _ int64, in repository.CreateLedgerInput) error {
	f.entries = append(f.entries, in)
	return nil
}

func newTestService() (*CheckoutService, *fakeSales, *fakeCustomers, *fakeLedger, *fakeProcurements) {
	sales := &fakeSales{}
	customers := &fakeCustomers{byName: map[string]domain.Customer{}}
	ledger := &fakeLedger{}
	procurements := &fakeProcurements{}
	svc := &CheckoutService{
		Carts: pos.NewStore(),
		Products: &fakeProducts{products: map[int64]domain.Product{
			1: {ID: 1, Name: "Paracetamol 500mg", SalePrice: domain.Money{Amount: 250}, PurchasePrice: domain.Money{Amount: 120}, TrackStock: true, Stock: 10},
			2: {ID: 2, Name: "Vitamin C", SalePrice: domain.Money{Amount: 900}, PurchasePrice: domain.Money{Amount: 500}, TrackStock: true, Stock: 0},
		}},
		Customers:    customers,
		Sales:        sales,
		Procurements: procurements,
		Ledger:       ledger,
	}
	return svc, sales, customers, ledger, procurements
}

func TestFinalizeCashSale(t *testing.T) {
	svc, sales, _, ledger, _ := newTestService()
	ctx := context.Background()

	_, err := svc.AddProduct(ctx, 1, 7, 1)
	require.NoError(t, err)
	_, err = svc.AddProduct(ctx, 1, 7, 1)
	require.NoError(t, err)
	_, err = svc.BeginPayment(7)
	require.NoError(t, err)

	res, err := svc.Finalize(ctx, FinalizeInput{
		CompanyID:     1,
		OperatorID:    7,
		OperatorName:  "Ana",
		PaymentMethod: domain.PaymentCash,
	})
	require.NoError(t, err)
	require.NotNil(t, res.Sale)

	require.Len(t, sales.created, 1)
	in := sales.created[0]
	assert.Equal(t, int64(500), in.Total)
	assert.Equal(t, "Ana", in.PerformedBy)
	require.NotNil(t, in.PerformedByID)
	assert.Equal(t, int64(7), *in.PerformedByID)
	require.Len(t, in.Items, 1)
	assert.Equal(t, 2, in.Items[0].Qty)

	// Revenue entry is written alongside the sale.
	require.Len(t, ledger.entries, 1)
	assert.Equal(t, int64(500), ledger.entries[0].Amount)
	assert.Equal(t, domain.LedgerRevenue, ledger.entries[0].Type)

	// Cart is cleared only after a successful persist.
	v := svc.View(7)
	assert.Empty(t, v.Lines)
	assert.Equal(t, pos.StateBrowsing, v.State)
}

func TestFinalizeOtherRequiresTwoSteps(t *testing.T) {
	svc, sales, _, _, _ := newTestService()
	ctx := context.Background()

	_, err := svc.AddProduct(ctx, 1, 7, 1)
	require.NoError(t, err)

	in := FinalizeInput{CompanyID: 1, OperatorID: 7, OperatorName: "Ana", PaymentMethod: domain.PaymentOther}
	_, err = svc.Finalize(ctx, in)
	require.ErrorIs(t, err, pos.ErrPaymentDetailsRequired)
	assert.Empty(t, sales.created)
	assert.Equal(t, pos.StateOtherDetails, svc.View(7).State)

	in.PaymentDetails = "store credit voucher 1142"
	res, err := svc.Finalize(ctx, in)
	require.NoError(t, err)
	require.NotNil(t, res.Sale)
	require.Len(t, sales.created, 1)
	assert.Equal(t, "store credit voucher 1142", sales.created[0].PaymentDetails)
}

func TestFinalizeKeepsCartWhenPersistFails(t *testing.T) {
	svc, sales, _, _, _ := newTestService()
	sales.failErr = repository.ErrInsufficientStock
	ctx := context.Background()

	_, err := svc.AddProduct(ctx, 1, 7, 1)
	require.NoError(t, err)

	_, err = svc.Finalize(ctx, FinalizeInput{CompanyID: 1, OperatorID: 7, OperatorName: "Ana", PaymentMethod: domain.PaymentCash})
	require.ErrorIs(t, err, repository.ErrInsufficientStock)

	v := svc.View(7)
	require.Len(t, v.Lines, 1)
	assert.Equal(t, int64(250), v.Total)
}

func TestFinalizeCreatesUnknownCustomer(t *testing.T) {
	svc, sales, customers, _, _ := newTestService()
	ctx := context.Background()

	_, err := svc.AddProduct(ctx, 1, 7, 1)
	require.NoError(t, err)

	_, err = svc.Finalize(ctx, FinalizeInput{
		CompanyID:     1,
		OperatorID:    7,
		OperatorName:  "Ana",
		PaymentMethod: domain.PaymentCash,
		CustomerName:  "  Maria Lopes ",
	})
	require.NoError(t, err)

	require.Len(t, customers.created, 1)
	assert.Equal(t, "Maria Lopes", customers.created[0].Name)
	require.NotNil(t, sales.created[0].CustomerID)
	assert.Equal(t, int64(1), *sales.created[0].CustomerID)
}

func TestFinalizeReusesExistingCustomer(t *testing.T) {
	svc, sales, customers, _, _ := newTestService()
	customers.byName["Maria Lopes"] = domain.Customer{ID: 42, Name: "Maria Lopes"}
	ctx := context.Background()

	_, err := svc.AddProduct(ctx, 1, 7, 1)
	require.NoError(t, err)

	_, err = svc.Finalize(ctx, FinalizeInput{
		CompanyID:     1,
		OperatorID:    7,
		OperatorName:  "Ana",
		PaymentMethod: domain.PaymentCash,
		CustomerName:  "Maria Lopes",
	})
	require.NoError(t, err)

	assert.Empty(t, customers.created)
	require.NotNil(t, sales.created[0].CustomerID)
	assert.Equal(t, int64(42), *sales.created[0].CustomerID)
}

func TestFinalizeProcurementOrder(t *testing.T) {
	svc, sales, _, ledger, procurements := newTestService()
	ctx := context.Background()

	svc.SetMode(7, pos.ModeProcurement)
	_, err := svc.AddProduct(ctx, 1, 7, 2) // out of stock, fine for replenishment
	require.NoError(t, err)
	_, err = svc.UpdateQuantity(7, 2, 49)
	require.NoError(t, err)

	res, err := svc.Finalize(ctx, FinalizeInput{
		CompanyID:     1,
		OperatorID:    7,
		OperatorName:  "Ana",
		PaymentMethod: domain.PaymentTransfer,
		SupplierName:  "MedSupply Lda",
	})
	require.NoError(t, err)
	require.NotNil(t, res.Order)
	assert.Nil(t, res.Sale)

	require.Len(t, procurements.created, 1)
	po := procurements.created[0]
	// Purchase price, not sale price.
	assert.Equal(t, int64(50*500), po.Total)
	assert.Equal(t, "MedSupply Lda", po.SupplierName)
	assert.Empty(t, sales.created)
	assert.Empty(t, ledger.entries)
}

func TestFinalizeProcurementNeedsSupplier(t *testing.T) {
	svc, _, _, _, procurements := newTestService()
	ctx := context.Background()

	svc.SetMode(7, pos.ModeProcurement)
	_, err := svc.AddProduct(ctx, 1, 7, 1)
	require.NoError(t, err)

	_, err = svc.Finalize(ctx, FinalizeInput{CompanyID: 1, OperatorID: 7, OperatorName: "Ana", PaymentMethod: domain.PaymentCash})
	require.ErrorIs(t, err, ErrUnknownSupplier)
	assert.Empty(t, procurements.created)
	// Cart survives for a retry with a supplier picked.
	assert.Len(t, svc.View(7).Lines, 1)
}

func TestAddProductOutOfStock(t *testing.T) {
	svc, _, _, _, _ := newTestService()
	ctx := context.Background()

	_, err := svc.AddProduct(ctx, 1, 7, 2)
	require.ErrorIs(t, err, pos.ErrOutOfStock)
	assert.Empty(t, svc.View(7).Lines)
}
