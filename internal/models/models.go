package models

import (
	"strings"
	"time"
)

const (
	PaymentMethodPaystack = "paystack"
	PaymentMethodCOD      = "cod"
)

const (
	OrderStatusPending    = "pending"
	OrderStatusProcessing = "processing"
	OrderStatusCompleted  = "completed"
	OrderStatusCancelled  = "cancelled"
)

type Product struct {
	ID          string    `gorm:"primaryKey;size:64"     json:"id"`
	Name        string    `gorm:"not null"               json:"name"`
	Description string    `gorm:"not null"               json:"description"`
	Price       int64     `gorm:"not null"               json:"price"`
	Images      string    `gorm:"type:text"              json:"images"`
	Category    string    `gorm:"index"                  json:"category"`
	InStock     bool      `gorm:"default:true"           json:"in_stock"`
	Slug        string    `gorm:"uniqueIndex;not null"   json:"slug"`
	CreatedAt   time.Time `json:"created_at"`
}

// ImageList splits the comma separated image URLs.
func (p Product) ImageList() []string {
	if p.Images == "" {
		return nil
	}
	parts := strings.Split(p.Images, ",")
	out := make([]string, 0, len(parts))
	for _, s := range parts {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func (p Product) FirstImage() string {
	if imgs := p.ImageList(); len(imgs) > 0 {
		return imgs[0]
	}
	return ""
}

// CustomerInfo is captured from the checkout form and stored on the
// order only. Guest checkout, so there is no user record behind it.
type CustomerInfo struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

type Order struct {
	ID            string  `gorm:"primaryKey;size:64"     json:"id"`
	UserID        *string `gorm:"size:64"                json:"user_id"`
	Reference     string  `gorm:"uniqueIndex;size:64"    json:"reference"`
	ProductIDs    string  `gorm:"type:text"              json:"product_ids"`
	TotalAmount   int64   `gorm:"not null"               json:"total_amount"`
	PaymentMethod string  `gorm:"size:16;not null"       json:"payment_method"`
	Status        string  `gorm:"size:16;index;not null" json:"status"`
	CustomerInfo  `gorm:"embedded;embeddedPrefix:customer_" json:"customer_info"`
	CreatedAt     time.Time `json:"created_at"`
}

type OrderItem struct {
	ID        uint      `gorm:"primaryKey"             json:"id"`
	OrderID   string    `gorm:"index;size:64;not null" json:"order_id"`
	ProductID string    `gorm:"size:64;not null"       json:"product_id"`
	Name      string    `gorm:"not null"               json:"name"`
	Price     int64     `gorm:"not null"               json:"price"`
	Quantity  int       `gorm:"not null"               json:"quantity"`
	Image     string    `json:"image"`
	CreatedAt time.Time `json:"created_at"`
}

const (
	SessionStatusInitiated = "initiated"
	SessionStatusCompleted = "completed"
	SessionStatusFailed    = "failed"
	SessionStatusCancelled = "cancelled"
)

// CheckoutSession is a paystack submission parked between initiation
// and the gateway callback. COD checkouts never create one.
type CheckoutSession struct {
	Reference string    `gorm:"primaryKey;size:64"     json:"reference"`
	CartToken string    `gorm:"size:64;not null"       json:"cart_token"`
	Amount    int64     `gorm:"not null"               json:"amount"`
	Status    string    `gorm:"size:16;index;not null" json:"status"`
	FormJSON  string    `gorm:"type:text;not null"     json:"-"`
	ItemsJSON string    `gorm:"type:text;not null"     json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Subscriber struct {
	ID           uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Email        string    `gorm:"uniqueIndex;not null"     json:"email"`
	SubscribedAt time.Time `json:"subscribed_at"`
}

type AdminUser struct {
	ID           uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Username     string `gorm:"unique;not null"          json:"username"`
	PasswordHash string `gorm:"not null"                 json:"-"`
	Role         string `gorm:"not null;default:admin"   json:"role"`
}
