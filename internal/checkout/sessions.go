package checkout

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/sokaytech/storefront/internal/cart"
	"github.com/sokaytech/storefront/internal/models"
)

// SessionStore parks a paystack submission between initiation and the
// gateway return leg.
type SessionStore interface {
	Create(ctx context.Context, session *models.CheckoutSession) error
	Get(ctx context.Context, reference string) (*session, error)
	UpdateStatus(ctx context.Context, reference, status string) error
}

// session wraps the stored row with snapshot decoding.
type session struct {
	models.CheckoutSession
}

func newSession(reference, token string, amount int64, form Form, items []cart.Item) *models.CheckoutSession {
	formJSON, _ := json.Marshal(form)
	itemsJSON, _ := json.Marshal(items)
	return &models.CheckoutSession{
		Reference: reference,
		CartToken: token,
		Amount:    amount,
		Status:    models.SessionStatusInitiated,
		FormJSON:  string(formJSON),
		ItemsJSON: string(itemsJSON),
	}
}

func (s *session) snapshot() (Form, []cart.Item, error) {
	var form Form
	if err := json.Unmarshal([]byte(s.FormJSON), &form); err != nil {
		return Form{}, nil, err
	}
	var items []cart.Item
	if err := json.Unmarshal([]byte(s.ItemsJSON), &items); err != nil {
		return Form{}, nil, err
	}
	return form, items, nil
}

type GormSessions struct {
	DB *gorm.DB
}

func NewGormSessions(db *gorm.DB) *GormSessions {
	return &GormSessions{DB: db}
}

func (g *GormSessions) Create(ctx context.Context, row *models.CheckoutSession) error {
	now := time.Now()
	row.CreatedAt = now
	row.UpdatedAt = now
	return g.DB.WithContext(ctx).Create(row).Error
}

func (g *GormSessions) Get(ctx context.Context, reference string) (*session, error) {
	var row models.CheckoutSession
	err := g.DB.WithContext(ctx).Where("reference = ?", reference).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}
	return &session{CheckoutSession: row}, nil
}

func (g *GormSessions) UpdateStatus(ctx context.Context, reference, status string) error {
	res := g.DB.WithContext(ctx).Model(&models.CheckoutSession{}).
		Where("reference = ?", reference).
		Updates(map[string]interface{}{
			"status":     status,
			"updated_at": time.Now(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrSessionNotFound
	}
	return nil
}

// MemorySessions backs offline mode and tests.
type MemorySessions struct {
	mu   sync.Mutex
	rows map[string]models.CheckoutSession
}

func NewMemorySessions() *MemorySessions {
	return &MemorySessions{rows: make(map[string]models.CheckoutSession)}
}

func (m *MemorySessions) Create(_ context.Context, row *models.CheckoutSession) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now()
	row.CreatedAt = now
	row.UpdatedAt = now
	m.rows[row.Reference] = *row
	return nil
}

func (m *MemorySessions) Get(_ context.Context, reference string) (*session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	row, ok := m.rows[reference]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return &session{CheckoutSession: row}, nil
}

func (m *MemorySessions) UpdateStatus(_ context.Context, reference, status string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	row, ok := m.rows[reference]
	if !ok {
		return ErrSessionNotFound
	}
	row.Status = status
	row.UpdatedAt = time.Now()
	m.rows[reference] = row
	return nil
}
