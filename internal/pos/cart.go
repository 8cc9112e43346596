package pos

import (
	"errors"
	"time"

	"github.com/arnaldoeur/erp.nobreza.site-sub001/internal/domain"
)

var (
	ErrOutOfStock             = errors.New("product out of stock")
	ErrStockCeiling           = errors.New("quantity exceeds available stock")
	ErrEmptyCart              = errors.New("cart is empty")
	ErrPaymentDetailsRequired = errors.New("payment details required")
)

// Mode selects which product price a cart line uses.
type Mode string

const (
	// ModeSale sells to a customer at the sale price.
	ModeSale Mode = "sale"
	// ModeProcurement orders from a supplier at the purchase price.
	ModeProcurement Mode = "procurement"
)

// State tracks the checkout flow of a cart.
type State string

const (
	StateBrowsing      State = "browsing"
	StateCart          State = "cart"
	StatePaymentSelect State = "payment_select"
	StateOtherDetails  State = "other_details"
)

// Line is a cart entry for one product. Total is maintained by the cart
// mutators and always equals Qty * UnitPrice.
type Line struct {
	ProductID     int64
	ProductName   string
	UnitPrice     int64
	Qty           int
	Total         int64
	TrackStock    bool
	StockSnapshot int
}

// Cart is an in-memory, session-scoped line item collection. Ordered, at most
// one line per product. The stock ceiling is optimistic: it is checked against
// the product snapshot captured on AddItem, and the database is authoritative
// when the sale is persisted.
type Cart struct {
	mode              Mode
	state             State
	lines             []Line
	otherDetailsShown bool
}

func NewCart(mode Mode) *Cart {
	if mode == "" {
		mode = ModeSale
	}
	return &Cart{mode: mode, state: StateBrowsing}
}

func (c *Cart) Mode() Mode   { return c.mode }
func (c *Cart) State() State { return c.state }

// Lines returns a copy of the cart lines in insertion order.
func (c *Cart) Lines() []Line {
	out := make([]Line, len(c.lines))
	copy(out, c.lines)
	return out
}

// Total is the sum of line totals.
func (c *Cart) Total() int64 {
	var sum int64
	for _, l := range c.lines {
		sum += l.Total
	}
	return sum
}

func (c *Cart) Empty() bool { return len(c.lines) == 0 }

// AddItem puts one unit of the product in the cart. Existing lines are
// incremented by one, capped hard at the stock snapshot in sale mode.
// Procurement orders replenish stock, so no ceiling applies there.
func (c *Cart) AddItem(p domain.Product) error {
	if c.mode == ModeSale && p.TrackStock && p.Stock <= 0 {
		return ErrOutOfStock
	}

	price := p.SalePrice.Amount
	if c.mode == ModeProcurement {
		price = p.PurchasePrice.Amount
	}

	for i := range c.lines {
		if c.lines[i].ProductID != p.ID {
			continue
		}
		// Refresh the snapshot; the caller fetched the product again.
		c.lines[i].TrackStock = p.TrackStock
		c.lines[i].StockSnapshot = p.Stock
		if c.mode == ModeSale && p.TrackStock && c.lines[i].Qty+1 > p.Stock {
			return ErrStockCeiling
		}
		c.lines[i].Qty++
		c.lines[i].Total = int64(c.lines[i].Qty) * c.lines[i].UnitPrice
		return nil
	}

	c.lines = append(c.lines, Line{
		ProductID:     p.ID,
		ProductName:   p.Name,
		UnitPrice:     price,
		Qty:           1,
		Total:         price,
		TrackStock:    p.TrackStock,
		StockSnapshot: p.Stock,
	})
	c.state = StateCart
	return nil
}

// UpdateQuantity adjusts a line by delta. A resulting quantity of zero or
// less removes the line entirely; exceeding the stock snapshot of a tracked
// product leaves the cart unchanged.
func (c *Cart) UpdateQuantity(productID int64, delta int) error {
	for i := range c.lines {
		if c.lines[i].ProductID != productID {
			continue
		}
		newQty := c.lines[i].Qty + delta
		if newQty <= 0 {
			c.removeAt(i)
			return nil
		}
		if c.mode == ModeSale && c.lines[i].TrackStock && newQty > c.lines[i].StockSnapshot {
			return ErrStockCeiling
		}
		c.lines[i].Qty = newQty
		c.lines[i].Total = int64(newQty) * c.lines[i].UnitPrice
		return nil
	}
	return nil
}

// Remove deletes a line unconditionally. Removing an absent product is a no-op.
func (c *Cart) Remove(productID int64) {
	for i := range c.lines {
		if c.lines[i].ProductID == productID {
			c.removeAt(i)
			return
		}
	}
}

func (c *Cart) removeAt(i int) {
	c.lines = append(c.lines[:i], c.lines[i+1:]...)
	if len(c.lines) == 0 {
		c.state = StateBrowsing
	}
}

// BeginPayment moves a non-empty cart to payment method selection.
func (c *Cart) BeginPayment() error {
	if c.Empty() {
		return ErrEmptyCart
	}
	c.state = StatePaymentSelect
	return nil
}

// Draft is the immutable output of a finalized cart, ready to persist.
type Draft struct {
	Code           string
	Mode           Mode
	Items          []Line
	Total          int64
	PaymentMethod  domain.PaymentMethod
	PaymentDetails string
	IssuedAt       time.Time
}

// Finalize produces the sale draft. Choosing the "other" payment method is a
// two-step confirmation: the first call only transitions to the details
// sub-state and nothing is produced. The cart is not cleared here; callers
// reset it once the draft has been persisted.
func (c *Cart) Finalize(method domain.PaymentMethod, details string) (*Draft, error) {
	if c.Empty() {
		return nil, ErrEmptyCart
	}
	if method == domain.PaymentOther && !c.otherDetailsShown {
		c.otherDetailsShown = true
		c.state = StateOtherDetails
		return nil, ErrPaymentDetailsRequired
	}

	return &Draft{
		Code:           NewCode(c.mode),
		Mode:           c.mode,
		Items:          c.Lines(),
		Total:          c.Total(),
		PaymentMethod:  method,
		PaymentDetails: details,
		IssuedAt:       time.Now(),
	}, nil
}

// Reset clears the cart back to browsing.
func (c *Cart) Reset() {
	c.lines = nil
	c.state = StateBrowsing
	c.otherDetailsShown = false
}
