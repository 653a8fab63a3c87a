package orders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sokaytech/storefront/internal/models"
)

var (
	ErrNotFound  = errors.New("order not found")
	ErrBadStatus = errors.New("invalid order status")
)

// Origin tells callers whether a write actually reached durable
// storage. They branch on this instead of inspecting magic ids.
type Origin string

const (
	OriginPersisted Origin = "persisted"
	OriginDegraded  Origin = "degraded"
)

type Placement struct {
	Origin Origin
	Order  models.Order
}

type Store interface {
	CreateOrder(ctx context.Context, order *models.Order) (*Placement, error)
	CreateOrderItems(ctx context.Context, orderID string, items []models.OrderItem) ([]models.OrderItem, error)
	GetOrder(ctx context.Context, id string) (*models.Order, []models.OrderItem, error)
	ListOrders(ctx context.Context, limit, offset int) ([]models.Order, int64, error)
	UpdateStatus(ctx context.Context, id, status string) error
}

type GormStore struct {
	DB *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{DB: db}
}

func (s *GormStore) CreateOrder(ctx context.Context, order *models.Order) (*Placement, error) {
	if order.ID == "" {
		order.ID = uuid.NewString()
	}
	if order.CreatedAt.IsZero() {
		order.CreatedAt = time.Now()
	}
	if err := s.DB.WithContext(ctx).Create(order).Error; err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}
	return &Placement{Origin: OriginPersisted, Order: *order}, nil
}

func (s *GormStore) CreateOrderItems(ctx context.Context, orderID string, items []models.OrderItem) ([]models.OrderItem, error) {
	if len(items) == 0 {
		return nil, nil
	}
	now := time.Now()
	for i := range items {
		items[i].OrderID = orderID
		items[i].CreatedAt = now
	}
	if err := s.DB.WithContext(ctx).Create(&items).Error; err != nil {
		return nil, fmt.Errorf("create order items: %w", err)
	}
	return items, nil
}

func (s *GormStore) GetOrder(ctx context.Context, id string) (*models.Order, []models.OrderItem, error) {
	var order models.Order
	if err := s.DB.WithContext(ctx).Where("id = ?", id).First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrNotFound
		}
		return nil, nil, err
	}

	var items []models.OrderItem
	if err := s.DB.WithContext(ctx).Where("order_id = ?", id).Find(&items).Error; err != nil {
		return nil, nil, err
	}
	return &order, items, nil
}

func (s *GormStore) ListOrders(ctx context.Context, limit, offset int) ([]models.Order, int64, error) {
	var total int64
	if err := s.DB.WithContext(ctx).Model(&models.Order{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var orders []models.Order
	err := s.DB.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&orders).Error
	if err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

func (s *GormStore) UpdateStatus(ctx context.Context, id, status string) error {
	switch status {
	case models.OrderStatusPending, models.OrderStatusProcessing,
		models.OrderStatusCompleted, models.OrderStatusCancelled:
	default:
		return fmt.Errorf("%w: %q", ErrBadStatus, status)
	}

	res := s.DB.WithContext(ctx).Model(&models.Order{}).
		Where("id = ?", id).
		Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
