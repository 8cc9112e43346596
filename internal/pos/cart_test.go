package pos

import (
	"testing"

	"github.com/arnaldoeur/erp.nobreza.site-sub001/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func product(id int64, name string, salePrice int64, stock int) domain.Product {
	return domain.Product{
		ID:            id,
		Name:          name,
		SalePrice:     domain.Money{Amount: salePrice},
		PurchasePrice: domain.Money{Amount: salePrice / 2},
		TrackStock:    true,
		Stock:         stock,
	}
}

func TestAddItem(t *testing.T) {
	t.Run("new line starts at quantity one", func(t *testing.T) {
		c := NewCart(ModeSale)
		require.NoError(t, c.AddItem(product(1, "Paracetamol", 500, 10)))

		lines := c.Lines()
		require.Len(t, lines, 1)
		assert.Equal(t, 1, lines[0].Qty)
		assert.Equal(t, int64(500), lines[0].Total)
		assert.Equal(t, StateCart, c.State())
	})

	t.Run("out of stock product is rejected", func(t *testing.T) {
		c := NewCart(ModeSale)
		err := c.AddItem(product(1, "Ibuprofen", 700, 0))
		require.ErrorIs(t, err, ErrOutOfStock)
		assert.True(t, c.Empty())
		assert.Equal(t, StateBrowsing, c.State())
	})

	t.Run("existing line increments by one", func(t *testing.T) {
		c := NewCart(ModeSale)
		p := product(1, "Paracetamol", 500, 10)
		require.NoError(t, c.AddItem(p))
		require.NoError(t, c.AddItem(p))

		lines := c.Lines()
		require.Len(t, lines, 1)
		assert.Equal(t, 2, lines[0].Qty)
		assert.Equal(t, int64(1000), lines[0].Total)
	})

	t.Run("increment past stock is a hard ceiling", func(t *testing.T) {
		c := NewCart(ModeSale)
		p := product(1, "Paracetamol", 500, 2)
		require.NoError(t, c.AddItem(p))
		require.NoError(t, c.AddItem(p))
		err := c.AddItem(p)
		require.ErrorIs(t, err, ErrStockCeiling)
		assert.Equal(t, 2, c.Lines()[0].Qty)
		assert.Equal(t, int64(1000), c.Total())
	})

	t.Run("procurement mode uses purchase price and ignores stock", func(t *testing.T) {
		c := NewCart(ModeProcurement)
		require.NoError(t, c.AddItem(product(1, "Amoxicillin", 1000, 0)))
		require.Len(t, c.Lines(), 1)
		assert.Equal(t, int64(500), c.Lines()[0].UnitPrice)
	})
}

func TestUpdateQuantity(t *testing.T) {
	t.Run("zero or negative result removes the line", func(t *testing.T) {
		c := NewCart(ModeSale)
		require.NoError(t, c.AddItem(product(1, "Paracetamol", 500, 10)))
		require.NoError(t, c.UpdateQuantity(1, -1))
		assert.True(t, c.Empty())
		assert.Equal(t, StateBrowsing, c.State())

		// No zero-quantity line survives a large negative delta either.
		require.NoError(t, c.AddItem(product(2, "Ibuprofen", 700, 5)))
		require.NoError(t, c.UpdateQuantity(2, -10))
		assert.True(t, c.Empty())
	})

	t.Run("rejected increment leaves cart unchanged", func(t *testing.T) {
		c := NewCart(ModeSale)
		a := product(1, "Product A", 50, 2)
		b := product(2, "Product B", 100, 5)
		require.NoError(t, c.AddItem(a))
		require.NoError(t, c.AddItem(a))
		require.NoError(t, c.AddItem(b))
		require.Equal(t, int64(200), c.Total())

		err := c.UpdateQuantity(1, 1)
		require.ErrorIs(t, err, ErrStockCeiling)
		assert.Equal(t, int64(200), c.Total())
		assert.Equal(t, 2, c.Lines()[0].Qty)
	})

	t.Run("unknown product is a no-op", func(t *testing.T) {
		c := NewCart(ModeSale)
		require.NoError(t, c.AddItem(product(1, "Paracetamol", 500, 10)))
		require.NoError(t, c.UpdateQuantity(99, 1))
		assert.Equal(t, int64(500), c.Total())
	})

	t.Run("untracked product has no ceiling", func(t *testing.T) {
		// Services and compounded items carry Stock 0 but TrackStock false;
		// they must pass through both mutators without a ceiling.
		c := NewCart(ModeSale)
		svc := domain.Product{
			ID:        3,
			Name:      "Compounding fee",
			SalePrice: domain.Money{Amount: 250},
		}
		require.NoError(t, c.AddItem(svc))
		require.NoError(t, c.AddItem(svc))
		require.NoError(t, c.UpdateQuantity(3, 5))
		assert.Equal(t, 7, c.Lines()[0].Qty)
		assert.Equal(t, int64(1750), c.Total())
	})

	t.Run("line total tracks quantity", func(t *testing.T) {
		c := NewCart(ModeSale)
		require.NoError(t, c.AddItem(product(1, "Paracetamol", 500, 10)))
		require.NoError(t, c.UpdateQuantity(1, 3))
		line := c.Lines()[0]
		assert.Equal(t, 4, line.Qty)
		assert.Equal(t, int64(2000), line.Total)
	})
}

func TestRemove(t *testing.T) {
	c := NewCart(ModeSale)
	require.NoError(t, c.AddItem(product(1, "Paracetamol", 500, 10)))
	require.NoError(t, c.AddItem(product(2, "Ibuprofen", 700, 10)))

	c.Remove(1)
	require.Len(t, c.Lines(), 1)
	// Second removal of the same id is a no-op.
	c.Remove(1)
	require.Len(t, c.Lines(), 1)
	assert.Equal(t, int64(2), c.Lines()[0].ProductID)
}

func TestCartInvariant(t *testing.T) {
	// After any mutation sequence, sum of totals equals sum of qty*price and
	// no line exceeds its stock snapshot.
	c := NewCart(ModeSale)
	a := product(1, "A", 50, 3)
	b := product(2, "B", 100, 2)

	_ = c.AddItem(a)
	_ = c.AddItem(a)
	_ = c.AddItem(b)
	_ = c.AddItem(a)
	_ = c.AddItem(a) // over ceiling, rejected
	_ = c.UpdateQuantity(2, 5) // over ceiling, rejected
	_ = c.UpdateQuantity(1, -1)

	var reconstructed int64
	for _, l := range c.Lines() {
		assert.LessOrEqual(t, l.Qty, l.StockSnapshot)
		assert.Equal(t, int64(l.Qty)*l.UnitPrice, l.Total)
		reconstructed += int64(l.Qty) * l.UnitPrice
	}
	assert.Equal(t, reconstructed, c.Total())
}

func TestFinalize(t *testing.T) {
	t.Run("empty cart cannot finalize", func(t *testing.T) {
		c := NewCart(ModeSale)
		_, err := c.Finalize(domain.PaymentCash, "")
		require.ErrorIs(t, err, ErrEmptyCart)
	})

	t.Run("other payment requires a second confirmation", func(t *testing.T) {
		c := NewCart(ModeSale)
		require.NoError(t, c.AddItem(product(1, "Paracetamol", 500, 10)))
		require.NoError(t, c.BeginPayment())

		draft, err := c.Finalize(domain.PaymentOther, "")
		require.ErrorIs(t, err, ErrPaymentDetailsRequired)
		assert.Nil(t, draft)
		assert.Equal(t, StateOtherDetails, c.State())
		// Cart and total untouched, nothing persisted.
		assert.Equal(t, int64(500), c.Total())

		draft, err = c.Finalize(domain.PaymentOther, "store credit")
		require.NoError(t, err)
		assert.Equal(t, "store credit", draft.PaymentDetails)
	})

	t.Run("draft carries totals at finalization", func(t *testing.T) {
		c := NewCart(ModeSale)
		require.NoError(t, c.AddItem(product(1, "A", 50, 5)))
		require.NoError(t, c.AddItem(product(2, "B", 100, 5)))
		require.NoError(t, c.UpdateQuantity(1, 1))

		draft, err := c.Finalize(domain.PaymentCash, "")
		require.NoError(t, err)
		assert.Equal(t, int64(200), draft.Total)
		require.Len(t, draft.Items, 2)
		assert.Contains(t, draft.Code, "FAC-")

		// Finalize does not clear; Reset does, back to browsing.
		assert.False(t, c.Empty())
		c.Reset()
		assert.True(t, c.Empty())
		assert.Equal(t, StateBrowsing, c.State())
	})

	t.Run("procurement draft uses order prefix", func(t *testing.T) {
		c := NewCart(ModeProcurement)
		require.NoError(t, c.AddItem(product(1, "A", 50, 5)))
		draft, err := c.Finalize(domain.PaymentTransfer, "")
		require.NoError(t, err)
		assert.Contains(t, draft.Code, "OC-")
	})
}

func TestNewCode(t *testing.T) {
	// Codes are UUID-backed; rapid sequential generation must not collide.
	seen := make(map[string]struct{})
	for i := 0; i < 1000; i++ {
		code := NewCode(ModeSale)
		_, dup := seen[code]
		require.False(t, dup, "duplicate code %s", code)
		seen[code] = struct{}{}
	}
}
