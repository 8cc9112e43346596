package pos

import "sync"

// Store keeps one cart per operator. All access goes through With so
// concurrent requests from the same operator serialize on the store lock.
type Store struct {
	mu    sync.Mutex
	carts map[int64]*Cart
}

func NewStore() *Store {
	return &Store{carts: make(map[int64]*Cart)}
}

// With runs fn against the operator's cart, creating an empty sale-mode cart
// on first use.
func (s *Store) With(operatorID int64, fn func(*Cart) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.carts[operatorID]
	if !ok {
		c = NewCart(ModeSale)
		s.carts[operatorID] = c
	}
	return fn(c)
}

// SetMode switches the operator's cart between sale and procurement. The
// switch resets any lines, matching the checkout view reopening.
func (s *Store) SetMode(operatorID int64, mode Mode) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.carts[operatorID]
	if !ok || c.Mode() != mode {
		s.carts[operatorID] = NewCart(mode)
	}
}

// Drop destroys the operator's cart, as when the checkout view is exited.
func (s *Store) Drop(operatorID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, operatorID)
}
