package catalog

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/sokaytech/storefront/internal/models"
)

// OfflineStore serves a built-in seed catalog when no database is
// configured, so the storefront keeps rendering something sellable.
type OfflineStore struct {
	mu       sync.Mutex
	products map[string]models.Product
}

func NewOfflineStore() *OfflineStore {
	s := &OfflineStore{products: make(map[string]models.Product)}
	for _, p := range seedProducts() {
		s.products[p.ID] = p
	}
	return s
}

func seedProducts() []models.Product {
	now := time.Now()
	return []models.Product{
		{
			ID:          "1",
			Name:        "Sokay A1 Microphone",
			Description: "Professional grade microphone with crystal clear audio.",
			Price:       19999,
			Images:      "/images/products/sokay-a1-microphone-350x350.png",
			Category:    "microphones",
			InStock:     true,
			Slug:        "sokay-a1-microphone",
			CreatedAt:   now,
		},
		{
			ID:          "2",
			Name:        "Sokay H200 Headphones",
			Description: "Premium over-ear headphones with noise cancellation.",
			Price:       24999,
			Images:      "/images/products/sokay-h200-headphones-350x350.png",
			Category:    "headphones",
			InStock:     true,
			Slug:        "sokay-h200-headphones",
			CreatedAt:   now.Add(-time.Minute),
		},
	}
}

func (s *OfflineStore) ListProducts(_ context.Context, params ListParams) ([]models.Product, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	all := make([]models.Product, 0, len(s.products))
	for _, p := range s.products {
		if params.Category != "" && p.Category != params.Category {
			continue
		}
		all = append(all, p)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })

	total := int64(len(all))
	if params.Offset >= len(all) {
		return nil, total, nil
	}
	end := params.Offset + params.Limit
	if end > len(all) {
		end = len(all)
	}
	return all[params.Offset:end], total, nil
}

func (s *OfflineStore) GetBySlug(_ context.Context, slug string) (*models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, p := range s.products {
		if p.Slug == slug {
			return &p, nil
		}
	}
	return nil, ErrNotFound
}

func (s *OfflineStore) GetByID(_ context.Context, id string) (*models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.products[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &p, nil
}

func (s *OfflineStore) CreateProduct(_ context.Context, product *models.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if product.ID == "" {
		product.ID = uuid.NewString()
	}
	if product.CreatedAt.IsZero() {
		product.CreatedAt = time.Now()
	}
	s.products[product.ID] = *product
	return nil
}

func (s *OfflineStore) UpdateProduct(_ context.Context, product *models.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.products[product.ID]; !ok {
		return ErrNotFound
	}
	s.products[product.ID] = *product
	return nil
}

func (s *OfflineStore) DeleteProduct(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.products[id]; !ok {
		return ErrNotFound
	}
	delete(s.products, id)
	return nil
}
