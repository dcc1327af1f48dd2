// Package cart owns the ledger: the authoritative in-memory collection
// of items the user intends to purchase.
package cart

import (
	"sync"

	"github.com/kiosk-labs/storefront/internal/domain"
)

// Listener receives an immutable snapshot of the ledger after every
// committed mutation. The persistence bridge subscribes here.
type Listener func(items []domain.CartItem)

// Service is the cart ledger. Items are keyed by product id, at most
// one entry per id, in first-add order. All operations are total —
// they never fail.
type Service struct {
	mu        sync.Mutex
	items     []domain.CartItem
	listeners []Listener
}

// New creates a ledger seeded with the given items (normally the
// persisted state loaded at startup). Entries with a duplicate id or a
// quantity below 1 are discarded during seeding.
func New(initial []domain.CartItem) *Service {
	s := &Service{}
	seen := make(map[int]struct{}, len(initial))
	for _, it := range initial {
		if it.Quantity < 1 {
			continue
		}
		if _, dup := seen[it.ID]; dup {
			continue
		}
		seen[it.ID] = struct{}{}
		s.items = append(s.items, it)
	}
	return s
}

// Subscribe registers a listener notified after each committed
// mutation. Not safe to call concurrently with mutations; wire
// subscribers at startup.
func (s *Service) Subscribe(fn Listener) {
	s.listeners = append(s.listeners, fn)
}

// AddOrIncrement adds the item to the ledger, or bumps the stored
// quantity by exactly 1 when the id is already present. The input's
// quantity field is honored only on first insert; repeated adds always
// step by 1 no matter what quantity the caller passes.
func (s *Service) AddOrIncrement(item domain.CartItem) {
	s.mu.Lock()
	for i := range s.items {
		if s.items[i].ID == item.ID {
			s.items[i].Quantity++
			s.commit()
			return
		}
	}
	if item.Quantity < 1 {
		item.Quantity = 1
	}
	s.items = append(s.items, item)
	s.commit()
}

// SetQuantity sets an explicit target quantity, as computed by the +/-
// controls. A target below 1 behaves as Remove. An absent id with a
// valid target is inserted fresh with that quantity.
func (s *Service) SetQuantity(item domain.CartItem, quantity int) {
	if quantity < 1 {
		s.Remove(item.ID)
		return
	}

	s.mu.Lock()
	for i := range s.items {
		if s.items[i].ID == item.ID {
			s.items[i].Quantity = quantity
			s.commit()
			return
		}
	}
	item.Quantity = quantity
	s.items = append(s.items, item)
	s.commit()
}

// Decrement reduces the quantity by 1, removing the item entirely when
// the quantity would drop below 1. An absent id is a no-op.
func (s *Service) Decrement(id int) {
	s.mu.Lock()
	for i := range s.items {
		if s.items[i].ID != id {
			continue
		}
		if s.items[i].Quantity > 1 {
			s.items[i].Quantity--
		} else {
			s.items = append(s.items[:i], s.items[i+1:]...)
		}
		s.commit()
		return
	}
	s.mu.Unlock()
}

// Remove deletes the item with the given id. Absent id is a no-op.
func (s *Service) Remove(id int) {
	s.mu.Lock()
	for i := range s.items {
		if s.items[i].ID == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			s.commit()
			return
		}
	}
	s.mu.Unlock()
}

// Items returns a snapshot copy in first-add order.
func (s *Service) Items() []domain.CartItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot()
}

// TotalAmount recomputes the cart total on every call.
func (s *Service) TotalAmount() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return domain.CartTotal(s.items)
}

// QuantityOf returns the stored quantity for the given id, 0 if absent.
func (s *Service) QuantityOf(id int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, it := range s.items {
		if it.ID == id {
			return it.Quantity
		}
	}
	return 0
}

// commit snapshots the ledger, releases the lock and notifies
// listeners. Must be called with the lock held; listeners run outside
// of it so a subscriber may read the service again.
func (s *Service) commit() {
	snap := s.snapshot()
	listeners := s.listeners
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(snap)
	}
}

func (s *Service) snapshot() []domain.CartItem {
	out := make([]domain.CartItem, len(s.items))
	copy(out, s.items)
	return out
}
