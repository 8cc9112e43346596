package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/arnaldoeur/erp.nobreza.site-sub001/internal/domain"
	"github.com/arnaldoeur/erp.nobreza.site-sub001/internal/pos"
	"github.com/arnaldoeur/erp.nobreza.site-sub001/internal/repository"
	"github.com/jackc/pgx/v5"
)

var ErrUnknownSupplier = errors.New("unknown supplier")

// Narrow store contracts so checkout can be exercised without a database.
type ProductGetter interface {
	GetByID(ctx context.Context, companyID, id int64) (*domain.Product, error)
}

type CustomerDirectory interface {
	FindByName(ctx context.Context, companyID int64, name string) (*domain.Customer, error)
	Upsert(ctx context.Context, companyID int64, c domain.Customer) (*domain.Customer, error)
}

type SaleCreator interface {
	Create(ctx context.Context, companyID int64, in repository.CreateSaleInput, after func(context.Context, pgx.Tx) error) (*domain.Sale, error)
}

type ProcurementCreator interface {
	Create(ctx context.Context, companyID int64, in repository.CreateProcurementInput) (*domain.ProcurementOrder, error)
}

type LedgerRecorder interface {
	CreateWithTx(ctx context.Context, tx pgx.Tx, companyID int64, in repository.CreateLedgerInput) error
}

type ActivityRecorder interface {
	Insert(ctx context.Context, companyID int64, title, message, actor string, logType domain.ActivityLogType) error
}

// CheckoutService drives the cart state machine and persists finalized drafts.
type CheckoutService struct {
	Carts        *pos.Store
	Products     ProductGetter
	Customers    CustomerDirectory
	Sales        SaleCreator
	Procurements ProcurementCreator
	Ledger       LedgerRecorder
	Activity     ActivityRecorder
	Logger       *slog.Logger
}

// CartView is a read snapshot of an operator's cart.
type CartView struct {
	Mode  pos.Mode
	State pos.State
	Lines []pos.Line
	Total int64
}

func (s *CheckoutService) View(operatorID int64) CartView {
	var v CartView
	_ = s.Carts.With(operatorID, func(c *pos.Cart) error {
		v = snapshot(c)
		return nil
	})
	return v
}

func (s *CheckoutService) SetMode(operatorID int64, mode pos.Mode) CartView {
	s.Carts.SetMode(operatorID, mode)
	return s.View(operatorID)
}

func (s *CheckoutService) DropCart(operatorID int64) {
	s.Carts.Drop(operatorID)
}

// AddProduct fetches a fresh product snapshot and adds one unit to the cart.
func (s *CheckoutService) AddProduct(ctx context.Context, companyID, operatorID, productID int64) (CartView, error) {
	p, err := s.Products.GetByID(ctx, companyID, productID)
	if err != nil {
		return s.View(operatorID), err
	}
	var v CartView
	err = s.Carts.With(operatorID, func(c *pos.Cart) error {
		addErr := c.AddItem(*p)
		v = snapshot(c)
		return addErr
	})
	return v, err
}

func (s *CheckoutService) UpdateQuantity(operatorID, productID int64, delta int) (CartView, error) {
	var v CartView
	err := s.Carts.With(operatorID, func(c *pos.Cart) error {
		updErr := c.UpdateQuantity(productID, delta)
		v = snapshot(c)
		return updErr
	})
	return v, err
}

func (s *CheckoutService) RemoveProduct(operatorID, productID int64) CartView {
	var v CartView
	_ = s.Carts.With(operatorID, func(c *pos.Cart) error {
		c.Remove(productID)
		v = snapshot(c)
		return nil
	})
	return v
}

func (s *CheckoutService) BeginPayment(operatorID int64) (CartView, error) {
	var v CartView
	err := s.Carts.With(operatorID, func(c *pos.Cart) error {
		beginErr := c.BeginPayment()
		v = snapshot(c)
		return beginErr
	})
	return v, err
}

type FinalizeInput struct {
	CompanyID      int64
	OperatorID     int64
	OperatorName   string
	SaleType       domain.SaleType
	PaymentMethod  domain.PaymentMethod
	PaymentDetails string
	CustomerName   string
	SupplierID     *int64
	SupplierName   string
}

type CheckoutResult struct {
	Sale  *domain.Sale
	Order *domain.ProcurementOrder
}

// Finalize completes the checkout. For the "other" payment method the first
// call returns pos.ErrPaymentDetailsRequired and only moves the cart to the
// details sub-state. The cart is cleared strictly after the write commits, so
// a failed submission leaves it intact for a manual retry.
func (s *CheckoutService) Finalize(ctx context.Context, in FinalizeInput) (*CheckoutResult, error) {
	var draft *pos.Draft
	err := s.Carts.With(in.OperatorID, func(c *pos.Cart) error {
		d, fErr := c.Finalize(in.PaymentMethod, in.PaymentDetails)
		if fErr != nil {
			return fErr
		}
		draft = d
		return nil
	})
	if err != nil {
		return nil, err
	}

	var result CheckoutResult
	switch draft.Mode {
	case pos.ModeProcurement:
		order, err := s.createProcurement(ctx, in, draft)
		if err != nil {
			return nil, err
		}
		result.Order = order
	default:
		sale, err := s.createSale(ctx, in, draft)
		if err != nil {
			return nil, err
		}
		result.Sale = sale
	}

	_ = s.Carts.With(in.OperatorID, func(c *pos.Cart) error {
		c.Reset()
		return nil
	})
	return &result, nil
}

func (s *CheckoutService) createSale(ctx context.Context, in FinalizeInput, draft *pos.Draft) (*domain.Sale, error) {
	var customerID *int64
	customerName := strings.TrimSpace(in.CustomerName)
	if customerName != "" {
		customer, err := s.Customers.FindByName(ctx, in.CompanyID, customerName)
		switch {
		case err == nil:
			customerID = &customer.ID
			customerName = customer.Name
		case errors.Is(err, repository.ErrNotFound):
			created, upErr := s.Customers.Upsert(ctx, in.CompanyID, domain.Customer{Name: customerName})
			if upErr != nil {
				return nil, fmt.Errorf("create customer: %w", upErr)
			}
			customerID = &created.ID
		default:
			return nil, err
		}
	}

	saleType := in.SaleType
	if saleType == "" {
		saleType = domain.SaleDirect
	}

	saleInput := repository.CreateSaleInput{
		Code:           draft.Code,
		Type:           saleType,
		Total:          draft.Total,
		PaymentMethod:  draft.PaymentMethod,
		PaymentDetails: draft.PaymentDetails,
		CustomerID:     customerID,
		CustomerName:   customerName,
		PerformedBy:    in.OperatorName,
		PerformedByID:  &in.OperatorID,
		Items:          draftItems(draft),
	}

	sale, err := s.Sales.Create(ctx, in.CompanyID, saleInput, func(ctx context.Context, tx pgx.Tx) error {
		if s.Ledger == nil {
			return nil
		}
		code := draft.Code
		staff := in.OperatorName
		return s.Ledger.CreateWithTx(ctx, tx, in.CompanyID, repository.CreateLedgerInput{
			Title:    "Sale " + draft.Code,
			Amount:   draft.Total,
			Category: "sales",
			Date:     draft.IssuedAt,
			Type:     domain.LedgerRevenue,
			SaleCode: &code,
			Staff:    &staff,
		})
	})
	if err != nil {
		return nil, err
	}

	if s.Activity != nil {
		msg := fmt.Sprintf("%s for %s", sale.Code, valueOr(customerName, "walk-in"))
		if logErr := s.Activity.Insert(ctx, in.CompanyID, "sale finalized", msg, in.OperatorName, domain.LogInfo); logErr != nil {
			s.logWarn("activity log write failed", logErr)
		}
	}
	return sale, nil
}

func (s *CheckoutService) createProcurement(ctx context.Context, in FinalizeInput, draft *pos.Draft) (*domain.ProcurementOrder, error) {
	if strings.TrimSpace(in.SupplierName) == "" && in.SupplierID == nil {
		return nil, ErrUnknownSupplier
	}

	order, err := s.Procurements.Create(ctx, in.CompanyID, repository.CreateProcurementInput{
		Code:         draft.Code,
		SupplierID:   in.SupplierID,
		SupplierName: in.SupplierName,
		Total:        draft.Total,
		PerformedBy:  in.OperatorName,
		Items:        draftItems(draft),
	})
	if err != nil {
		return nil, err
	}

	if s.Activity != nil {
		msg := fmt.Sprintf("%s to %s", order.Code, order.SupplierName)
		if logErr := s.Activity.Insert(ctx, in.CompanyID, "procurement order issued", msg, in.OperatorName, domain.LogInfo); logErr != nil {
			s.logWarn("activity log write failed", logErr)
		}
	}
	return order, nil
}

func draftItems(draft *pos.Draft) []repository.CreateSaleItem {
	items := make([]repository.CreateSaleItem, 0, len(draft.Items))
	for _, l := range draft.Items {
		productID := l.ProductID
		items = append(items, repository.CreateSaleItem{
			ProductID:   &productID,
			ProductName: l.ProductName,
			UnitPrice:   l.UnitPrice,
			Qty:         l.Qty,
		})
	}
	return items
}

func snapshot(c *pos.Cart) CartView {
	return CartView{Mode: c.Mode(), State: c.State(), Lines: c.Lines(), Total: c.Total()}
}

func valueOr(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}

func (s *CheckoutService) logWarn(msg string, err error) {
	if s.Logger != nil {
		s.Logger.Warn(msg, "err", err)
	}
}
