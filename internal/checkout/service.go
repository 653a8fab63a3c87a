package checkout

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/sokaytech/storefront/internal/cart"
	"github.com/sokaytech/storefront/internal/models"
	"github.com/sokaytech/storefront/internal/orders"
	"github.com/sokaytech/storefront/internal/paystack"
)

var (
	ErrEmptyCart       = errors.New("cart is empty")
	ErrValidation      = errors.New("validation")
	ErrSessionNotFound = errors.New("checkout session not found")
	ErrSessionConsumed = errors.New("checkout session already resolved")
)

// Form carries the contact and shipping details from the checkout
// page. Validation runs before any collaborator is touched.
type Form struct {
	Name          string `json:"name" validate:"required,min=2"`
	Email         string `json:"email" validate:"required,email"`
	Phone         string `json:"phone" validate:"required,min=10"`
	Address       string `json:"address" validate:"required,min=5"`
	PaymentMethod string `json:"payment_method" validate:"required,oneof=paystack cod"`
}

type Kind string

const (
	// KindOrderPlaced is terminal for the attempt: the order exists,
	// the cart is cleared and the shopper holds a reference.
	KindOrderPlaced Kind = "order_placed"
	// KindPaymentPending is the suspension point: control has passed
	// to the hosted payment page until Complete is called.
	KindPaymentPending Kind = "payment_pending"
	KindPaymentFailed  Kind = "payment_failed"
	KindCancelled      Kind = "cancelled"
)

type Result struct {
	Kind             Kind          `json:"kind"`
	Reference        string        `json:"reference"`
	Order            *models.Order `json:"order,omitempty"`
	AuthorizationURL string        `json:"authorization_url,omitempty"`
	// Degraded: the order record was fabricated offline rather than
	// durably written. ItemsFailed: the order exists but its line
	// items do not. Both still count as success for the shopper.
	Degraded    bool `json:"degraded,omitempty"`
	ItemsFailed bool `json:"items_failed,omitempty"`
}

type Notifier interface {
	SendOrderConfirmation(ctx context.Context, order *models.Order, items []models.OrderItem) error
	SendAdminNotification(ctx context.Context, order *models.Order, items []models.OrderItem) error
}

type EventPublisher interface {
	PublishEvent(ctx context.Context, topic, key string, event interface{}) error
}

type Service struct {
	Orders      orders.Store
	Payments    paystack.Client
	CartStorage cart.Storage
	Sessions    SessionStore
	Notifier    Notifier
	Events      EventPublisher
	Log         *slog.Logger

	validate *validator.Validate
}

func NewService(store orders.Store, payments paystack.Client, storage cart.Storage,
	sessions SessionStore, notifier Notifier, events EventPublisher, log *slog.Logger) *Service {
	return &Service{
		Orders:      store,
		Payments:    payments,
		CartStorage: storage,
		Sessions:    sessions,
		Notifier:    notifier,
		Events:      events,
		Log:         log,
		validate:    validator.New(),
	}
}

// GenerateReference produces the human-shareable reference shown to
// the shopper even when order persistence is degraded.
func GenerateReference() string {
	return fmt.Sprintf("sokay-%d", time.Now().UnixMilli())
}

// Submit runs one checkout attempt for the cart behind token. COD
// resolves in one shot; paystack suspends after handing the shopper
// to the gateway and resumes in Complete.
func (s *Service) Submit(ctx context.Context, token string, form Form) (*Result, error) {
	if err := s.validate.Struct(form); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	cartStore, err := cart.Open(ctx, token, s.CartStorage)
	if err != nil {
		return nil, err
	}
	if cartStore.IsEmpty() {
		return nil, ErrEmptyCart
	}
	items := cartStore.Items()
	total := cartStore.TotalPrice()

	if form.PaymentMethod == models.PaymentMethodCOD {
		reference := "COD-" + GenerateReference()
		return s.placeOrder(ctx, token, items, form, reference, models.OrderStatusPending)
	}

	reference := GenerateReference()
	auth, err := s.Payments.InitializeTransaction(ctx, paystack.InitializeRequest{
		Email:      form.Email,
		AmountKobo: total * 100,
		Reference:  reference,
	})
	if err != nil {
		return nil, fmt.Errorf("initialize payment: %w", err)
	}

	if err := s.Sessions.Create(ctx, newSession(reference, token, total, form, items)); err != nil {
		return nil, fmt.Errorf("persist checkout session: %w", err)
	}

	return &Result{
		Kind:             KindPaymentPending,
		Reference:        reference,
		AuthorizationURL: auth.AuthorizationURL,
	}, nil
}

// Complete resumes a suspended paystack attempt once the shopper
// returns from the gateway. The reference is single-use.
func (s *Service) Complete(ctx context.Context, reference string) (*Result, error) {
	session, err := s.Sessions.Get(ctx, reference)
	if err != nil {
		return nil, err
	}
	if session.Status != models.SessionStatusInitiated {
		return nil, fmt.Errorf("%w: %s is %s", ErrSessionConsumed, reference, session.Status)
	}

	outcome, err := s.Payments.VerifyTransaction(ctx, reference)
	if err != nil {
		return nil, fmt.Errorf("verify payment: %w", err)
	}

	switch outcome.Status {
	case paystack.StatusCancelled:
		// No order is written and the cart stays as it was, so the
		// shopper can reopen checkout without re-entering anything.
		if err := s.Sessions.UpdateStatus(ctx, reference, models.SessionStatusCancelled); err != nil {
			s.Log.Error("session update failed", "reference", reference, "error", err)
		}
		return &Result{Kind: KindCancelled, Reference: reference}, nil

	case paystack.StatusFailed:
		if err := s.Sessions.UpdateStatus(ctx, reference, models.SessionStatusFailed); err != nil {
			s.Log.Error("session update failed", "reference", reference, "error", err)
		}
		return &Result{Kind: KindPaymentFailed, Reference: reference}, nil
	}

	form, items, err := session.snapshot()
	if err != nil {
		return nil, fmt.Errorf("decode checkout session %s: %w", reference, err)
	}

	// Payment is already confirmed, so the order starts processing.
	result, err := s.placeOrder(ctx, session.CartToken, items, form, reference, models.OrderStatusProcessing)
	if err != nil {
		return nil, err
	}
	if err := s.Sessions.UpdateStatus(ctx, reference, models.SessionStatusCompleted); err != nil {
		s.Log.Error("session update failed", "reference", reference, "error", err)
	}
	return result, nil
}

// placeOrder writes the order, then its items, then clears the cart.
// An items failure after a created order is degraded success: rolling
// back a confirmed payment would be worse than a missing line item.
func (s *Service) placeOrder(ctx context.Context, token string, items []cart.Item, form Form, reference, status string) (*Result, error) {
	ids := make([]string, 0, len(items))
	var total int64
	for _, it := range items {
		ids = append(ids, it.ID)
		total += it.Price * int64(it.Quantity)
	}

	order := &models.Order{
		UserID:        nil, // guest checkout
		Reference:     reference,
		ProductIDs:    strings.Join(ids, ","),
		TotalAmount:   total,
		PaymentMethod: form.PaymentMethod,
		Status:        status,
		CustomerInfo: models.CustomerInfo{
			Name:    form.Name,
			Email:   form.Email,
			Phone:   form.Phone,
			Address: form.Address,
		},
	}

	placement, err := s.Orders.CreateOrder(ctx, order)
	if err != nil {
		// The cart is untouched so the attempt can be retried.
		return nil, fmt.Errorf("create order: %w", err)
	}

	orderItems := make([]models.OrderItem, 0, len(items))
	for _, it := range items {
		orderItems = append(orderItems, models.OrderItem{
			ProductID: it.ID,
			Name:      it.Name,
			Price:     it.Price,
			Quantity:  it.Quantity,
			Image:     it.Image,
		})
	}

	itemsFailed := false
	created, err := s.Orders.CreateOrderItems(ctx, placement.Order.ID, orderItems)
	if err != nil {
		itemsFailed = true
		s.Log.Error("order items write failed, order kept",
			"order_id", placement.Order.ID, "reference", reference, "error", err)
	} else {
		orderItems = created
	}

	if err := s.CartStorage.Delete(ctx, token); err != nil {
		s.Log.Error("cart clear failed", "token", token, "error", err)
	}

	s.notify(ctx, &placement.Order, orderItems)

	return &Result{
		Kind:        KindOrderPlaced,
		Reference:   reference,
		Order:       &placement.Order,
		Degraded:    placement.Origin == orders.OriginDegraded,
		ItemsFailed: itemsFailed,
	}, nil
}

func (s *Service) notify(ctx context.Context, order *models.Order, items []models.OrderItem) {
	nctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if s.Notifier != nil {
		if err := s.Notifier.SendOrderConfirmation(nctx, order, items); err != nil {
			s.Log.Warn("order confirmation email failed", "reference", order.Reference, "error", err)
		}
		if err := s.Notifier.SendAdminNotification(nctx, order, items); err != nil {
			s.Log.Warn("admin notification email failed", "reference", order.Reference, "error", err)
		}
	}

	if s.Events != nil {
		event := map[string]interface{}{
			"type":           "order_placed",
			"order_id":       order.ID,
			"reference":      order.Reference,
			"total_amount":   order.TotalAmount,
			"payment_method": order.PaymentMethod,
			"status":         order.Status,
		}
		if err := s.Events.PublishEvent(nctx, "order_events", order.Reference, event); err != nil {
			s.Log.Warn("order event publish failed", "reference", order.Reference, "error", err)
		}
	}
}
