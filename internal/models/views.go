package models

import "time"

// ParameterValue is one parameter name/value pair of an offer.
type ParameterValue struct {
	Parameter string `json:"parameter"`
	Value     string `json:"value"`
}

// OfferView is an offer with its shop and flattened parameters, as served
// by the product listing endpoints.
type OfferView struct {
	ID         int64            `json:"id"`
	Shop       Shop             `json:"shop"`
	ExternalID string           `json:"external_id"`
	Model      string           `json:"model"`
	Quantity   int              `json:"quantity"`
	Price      float64          `json:"price"`
	PriceRRC   float64          `json:"price_rrc"`
	Parameters []ParameterValue `json:"parameters"`
}

// ProductView is a product with its category and offers.
type ProductView struct {
	ID          int64       `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Category    Category    `json:"category"`
	Offers      []OfferView `json:"offers"`
}

// BasketLine is a basket item joined with its offer for display. Amount
// is quantity times the current offer price.
type BasketLine struct {
	ID            int64   `db:"id" json:"id"`
	ProductInfoID int64   `db:"product_info_id" json:"-"`
	Product       string  `db:"product" json:"product"`
	Shop          string  `db:"shop" json:"shop"`
	Quantity      int     `db:"quantity" json:"quantity"`
	Price         float64 `db:"price" json:"price"`
	Amount        float64 `db:"amount" json:"amount"`
}

// OrderLine is an order item joined with its offer for display.
type OrderLine struct {
	ID            int64   `db:"id" json:"id"`
	OrderID       int64   `db:"order_id" json:"-"`
	ProductInfoID int64   `db:"product_info_id" json:"-"`
	Product       string  `db:"product" json:"product"`
	Shop          string  `db:"shop" json:"shop"`
	Quantity      int     `db:"quantity" json:"quantity"`
	Price         float64 `db:"price" json:"price"`
}

// OrderView is an order with its lines and live-computed total.
type OrderView struct {
	ID          int64       `json:"id"`
	Status      string      `json:"status"`
	ContactID   int64       `json:"contact"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
	Items       []OrderLine `json:"items"`
	TotalAmount float64     `json:"total_amount"`
}

// ExportOffer is one shop offer flattened for catalog export: product
// name, category external id (or internal id as text) and parameter map.
type ExportOffer struct {
	OfferExternalID    string
	OfferID            int64
	ProductName        string
	CategoryExternalID *string
	CategoryID         int64
	Model              string
	Quantity           int
	Price              float64
	PriceRRC           float64
	Parameters         map[string]string
}
