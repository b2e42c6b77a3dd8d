package cart

import (
	"fmt"

	"github.com/campusbites/campusbites/internal/domain"
	"github.com/campusbites/campusbites/internal/storage"
)

// StorageKey names the cart snapshot in durable client storage.
const StorageKey = "cart"

// PersistFunc is called with the full cart after every mutation.
type PersistFunc func(Cart) error

// Store wraps a Cart with a persistence subscriber so every mutation is
// synchronously written through. It is not safe for concurrent use; the
// client mutates it from a single goroutine.
type Store struct {
	cart    Cart
	persist PersistFunc
}

func NewStore(initial Cart, persist PersistFunc) *Store {
	return &Store{cart: initial, persist: persist}
}

// Rehydrate loads the saved cart snapshot, falling back to an empty cart when
// no snapshot exists or it cannot be parsed.
func Rehydrate(st *storage.Store) Cart {
	var c Cart
	if err := st.Get(StorageKey, &c); err != nil {
		return Cart{}
	}
	if c.CanteenID == 0 || len(c.Items) == 0 {
		return Cart{}
	}
	return c
}

// Persist returns a PersistFunc writing snapshots to st.
func Persist(st *storage.Store) PersistFunc {
	return func(c Cart) error {
		if c.Empty() {
			return st.Delete(StorageKey)
		}
		return st.Put(StorageKey, c)
	}
}

func (s *Store) Cart() Cart {
	c := s.cart
	c.Items = append([]Line(nil), s.cart.Items...)
	return c
}

func (s *Store) AddItem(item domain.MenuItem, replace bool) error {
	if err := s.cart.AddItem(item, replace); err != nil {
		return err
	}
	return s.save()
}

func (s *Store) UpdateQuantity(menuItemID, quantity int) error {
	s.cart.UpdateQuantity(menuItemID, quantity)
	return s.save()
}

func (s *Store) RemoveItem(menuItemID int) error {
	s.cart.RemoveItem(menuItemID)
	return s.save()
}

func (s *Store) Clear() error {
	s.cart.Clear()
	return s.save()
}

func (s *Store) save() error {
	if s.persist == nil {
		return nil
	}
	if err := s.persist(s.cart); err != nil {
		return fmt.Errorf("persist cart: %w", err)
	}
	return nil
}
