package pos

import (
	"sync"
	"testing"

	"github.com/arnaldoeur/erp.nobreza.site-sub001/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreIsolatesOperators(t *testing.T) {
	s := NewStore()
	p := product(1, "Paracetamol", 500, 10)

	require.NoError(t, s.With(1, func(c *Cart) error { return c.AddItem(p) }))
	require.NoError(t, s.With(2, func(c *Cart) error {
		assert.True(t, c.Empty())
		return nil
	}))
}

func TestStoreSetModeResetsLines(t *testing.T) {
	s := NewStore()
	require.NoError(t, s.With(1, func(c *Cart) error {
		return c.AddItem(product(1, "Paracetamol", 500, 10))
	}))

	s.SetMode(1, ModeProcurement)
	require.NoError(t, s.With(1, func(c *Cart) error {
		assert.True(t, c.Empty())
		assert.Equal(t, ModeProcurement, c.Mode())
		return nil
	}))

	// Same mode again keeps the cart.
	require.NoError(t, s.With(1, func(c *Cart) error {
		return c.AddItem(domain.Product{ID: 2, Name: "X", PurchasePrice: domain.Money{Amount: 100}})
	}))
	s.SetMode(1, ModeProcurement)
	require.NoError(t, s.With(1, func(c *Cart) error {
		assert.False(t, c.Empty())
		return nil
	}))
}

func TestStoreDrop(t *testing.T) {
	s := NewStore()
	require.NoError(t, s.With(1, func(c *Cart) error {
		return c.AddItem(product(1, "Paracetamol", 500, 10))
	}))
	s.Drop(1)
	require.NoError(t, s.With(1, func(c *Cart) error {
		assert.True(t, c.Empty())
		return nil
	}))
}

func TestStoreConcurrentAccess(t *testing.T) {
	s := NewStore()
	p := product(1, "Paracetamol", 500, 1000)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = s.With(7, func(c *Cart) error { return c.AddItem(p) })
		}()
	}
	wg.Wait()

	require.NoError(t, s.With(7, func(c *Cart) error {
		require.Len(t, c.Lines(), 1)
		assert.Equal(t, 50, c.Lines()[0].Qty)
		return nil
	}))
}
