package models

import "time"

// User is an account that can browse products, manage a basket and place
// orders. A user with a bound shop is a partner; IsStaff marks admins.
type User struct {
	ID           int64     `db:"id" json:"id"`
	Username     string    `db:"username" json:"username"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	IsStaff      bool      `db:"is_staff" json:"is_staff"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// Shop is a vendor account. UserID is set once a partner claims the shop.
type Shop struct {
	ID        int64     `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	URL       string    `db:"url" json:"url"`
	IsActive  bool      `db:"is_active" json:"is_active"`
	UserID    *int64    `db:"user_id" json:"user_id,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Category groups products and may be shared across shops.
// ExternalID is the id carried by catalog documents.
type Category struct {
	ID         int64   `db:"id" json:"id"`
	Name       string  `db:"name" json:"name"`
	ExternalID *string `db:"external_id" json:"external_id,omitempty"`
}

// Product is a catalog item abstracted over shops. Two shops selling the
// same (name, category) pair share a single product row.
type Product struct {
	ID          int64  `db:"id" json:"id"`
	Name        string `db:"name" json:"name"`
	CategoryID  int64  `db:"category_id" json:"-"`
	Description string `db:"description" json:"description"`
}

// ProductInfo is an offer: one shop's priced, quantified listing of one
// product. Unique per (shop, external_id).
type ProductInfo struct {
	ID         int64   `db:"id" json:"id"`
	ProductID  int64   `db:"product_id" json:"-"`
	ShopID     int64   `db:"shop_id" json:"-"`
	ExternalID string  `db:"external_id" json:"external_id"`
	Model      string  `db:"model" json:"model"`
	Quantity   int     `db:"quantity" json:"quantity"`
	Price      float64 `db:"price" json:"price"`
	PriceRRC   float64 `db:"price_rrc" json:"price_rrc"`
}

// Parameter is a globally named attribute, e.g. "color".
type Parameter struct {
	ID   int64  `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
}

// ProductParameter is the value of one parameter for one offer.
type ProductParameter struct {
	ID            int64  `db:"id" json:"id"`
	ProductInfoID int64  `db:"product_info_id" json:"-"`
	ParameterID   int64  `db:"parameter_id" json:"-"`
	Value         string `db:"value" json:"value"`
}

// Contact is a delivery address owned by a user.
type Contact struct {
	ID        int64     `db:"id" json:"id"`
	UserID    int64     `db:"user_id" json:"-"`
	City      string    `db:"city" json:"city"`
	Address   string    `db:"address" json:"address"`
	Phone     string    `db:"phone" json:"phone"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// BasketItem is a draft cart line: one offer and a desired quantity.
// Unique per (user, offer); the monetary amount is always derived from
// the current offer price, never stored.
type BasketItem struct {
	ID            int64     `db:"id" json:"id"`
	UserID        int64     `db:"user_id" json:"-"`
	ProductInfoID int64     `db:"product_info_id" json:"product_info_id"`
	Quantity      int       `db:"quantity" json:"quantity"`
	CreatedAt     time.Time `db:"created_at" json:"-"`
}

// Order statuses
const (
	OrderStatusNew       = "new"
	OrderStatusConfirmed = "confirmed"
	OrderStatusSent      = "sent"
	OrderStatusDelivered = "delivered"
	OrderStatusCanceled  = "canceled"
)

// ValidOrderStatus reports whether s is one of the known order statuses.
// Any status may transition to any other; only the enumeration is fixed.
func ValidOrderStatus(s string) bool {
	switch s {
	case OrderStatusNew, OrderStatusConfirmed, OrderStatusSent, OrderStatusDelivered, OrderStatusCanceled:
		return true
	}
	return false
}

// Order is a placed order. The total amount is computed live over its
// items and never cached on the row.
type Order struct {
	ID        int64     `db:"id" json:"id"`
	UserID    int64     `db:"user_id" json:"-"`
	ContactID int64     `db:"contact_id" json:"contact"`
	Status    string    `db:"status" json:"status"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// OrderItem is an immutable snapshot of a basket line taken at order
// placement. It references the offer, it does not copy its price.
type OrderItem struct {
	ID            int64 `db:"id" json:"id"`
	OrderID       int64 `db:"order_id" json:"-"`
	ProductInfoID int64 `db:"product_info_id" json:"product_info_id"`
	Quantity      int   `db:"quantity" json:"quantity"`
}
