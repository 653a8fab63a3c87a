package cart

import (
	"context"
	"fmt"

	"github.com/sokaytech/storefront/internal/models"
)

// Item is a denormalized snapshot of the product at the time it was
// added. It is not re-synced when the catalog changes.
type Item struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Price    int64  `json:"price"`
	Image    string `json:"image"`
	Quantity int    `json:"quantity"`
}

type Contents struct {
	Items []Item `json:"items"`
}

// Storage persists cart contents under a fixed namespace key per cart
// token. Load returns empty contents for an unknown token.
type Storage interface {
	Load(ctx context.Context, token string) (*Contents, error)
	Save(ctx context.Context, token string, contents *Contents) error
	Delete(ctx context.Context, token string) error
}

// Store holds the set of items one shopper intends to buy. It keeps at
// most one entry per product id and writes every mutation through to
// its storage adapter. Mutations cannot fail in the domain sense; a
// returned error is a storage write failure only and the in-memory
// state is already updated.
type Store struct {
	token   string
	items   []Item
	storage Storage
}

func Open(ctx context.Context, token string, storage Storage) (*Store, error) {
	contents, err := storage.Load(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("load cart %s: %w", token, err)
	}
	s := &Store{token: token, storage: storage}
	if contents != nil {
		s.items = contents.Items
	}
	return s, nil
}

func (s *Store) AddItem(ctx context.Context, product models.Product, quantity int) error {
	if quantity < 1 {
		quantity = 1
	}
	for i := range s.items {
		if s.items[i].ID == product.ID {
			s.items[i].Quantity += quantity
			return s.persist(ctx)
		}
	}
	s.items = append(s.items, Item{
		ID:       product.ID,
		Name:     product.Name,
		Price:    product.Price,
		Image:    product.FirstImage(),
		Quantity: quantity,
	})
	return s.persist(ctx)
}

func (s *Store) RemoveItem(ctx context.Context, id string) error {
	kept := s.items[:0]
	for _, it := range s.items {
		if it.ID != id {
			kept = append(kept, it)
		}
	}
	s.items = kept
	return s.persist(ctx)
}

// UpdateQuantity sets the quantity absolutely. A quantity of zero or
// less removes the item, same as RemoveItem.
func (s *Store) UpdateQuantity(ctx context.Context, id string, quantity int) error {
	if quantity <= 0 {
		return s.RemoveItem(ctx, id)
	}
	for i := range s.items {
		if s.items[i].ID == id {
			s.items[i].Quantity = quantity
			break
		}
	}
	return s.persist(ctx)
}

// Clear empties the cart. Called once after a confirmed order.
func (s *Store) Clear(ctx context.Context) error {
	s.items = nil
	if err := s.storage.Delete(ctx, s.token); err != nil {
		return fmt.Errorf("clear cart %s: %w", s.token, err)
	}
	return nil
}

func (s *Store) Items() []Item {
	out := make([]Item, len(s.items))
	copy(out, s.items)
	return out
}

func (s *Store) IsEmpty() bool {
	return len(s.items) == 0
}

func (s *Store) TotalItems() int {
	total := 0
	for _, it := range s.items {
		total += it.Quantity
	}
	return total
}

func (s *Store) TotalPrice() int64 {
	var total int64
	for _, it := range s.items {
		total += it.Price * int64(it.Quantity)
	}
	return total
}

func (s *Store) persist(ctx context.Context) error {
	if err := s.storage.Save(ctx, s.token, &Contents{Items: s.items}); err != nil {
		return fmt.Errorf("save cart %s: %w", s.token, err)
	}
	return nil
}
