package orders

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/sokaytech/storefront/internal/models"
)

// OfflineStore fabricates order records locally when no database is
// configured, so checkout still completes and the shopper gets a
// reference to quote. Records live only as long as the process.
type OfflineStore struct {
	mu     sync.Mutex
	orders map[string]models.Order
	items  map[string][]models.OrderItem
	nextID uint
}

func NewOfflineStore() *OfflineStore {
	return &OfflineStore{
		orders: make(map[string]models.Order),
		items:  make(map[string][]models.OrderItem),
	}
}

func (s *OfflineStore) CreateOrder(_ context.Context, order *models.Order) (*Placement, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if order.ID == "" {
		order.ID = uuid.NewString()
	}
	if order.CreatedAt.IsZero() {
		order.CreatedAt = time.Now()
	}
	s.orders[order.ID] = *order
	return &Placement{Origin: OriginDegraded, Order: *order}, nil
}

func (s *OfflineStore) CreateOrderItems(_ context.Context, orderID string, items []models.OrderItem) ([]models.OrderItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	for i := range items {
		s.nextID++
		items[i].ID = s.nextID
		items[i].OrderID = orderID
		items[i].CreatedAt = now
	}
	s.items[orderID] = append(s.items[orderID], items...)
	return items, nil
}

func (s *OfflineStore) GetOrder(_ context.Context, id string) (*models.Order, []models.OrderItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	order, ok := s.orders[id]
	if !ok {
		return nil, nil, ErrNotFound
	}
	return &order, s.items[id], nil
}

func (s *OfflineStore) ListOrders(_ context.Context, limit, offset int) ([]models.Order, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	all := make([]models.Order, 0, len(s.orders))
	for _, o := range s.orders {
		all = append(all, o)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })

	total := int64(len(all))
	if offset >= len(all) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

func (s *OfflineStore) UpdateStatus(_ context.Context, id, status string) error {
	switch status {
	case models.OrderStatusPending, models.OrderStatusProcessing,
		models.OrderStatusCompleted, models.OrderStatusCancelled:
	default:
		return fmt.Errorf("%w: %q", ErrBadStatus, status)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	order, ok := s.orders[id]
	if !ok {
		return ErrNotFound
	}
	order.Status = status
	s.orders[id] = order
	return nil
}
