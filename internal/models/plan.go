package models

// ImportPlan is a validated catalog document ready to be applied to the
// store. Building the plan is pure; applying it is a single transaction.
type ImportPlan struct {
	ShopName   string
	Categories []PlanCategory
	Offers     []PlanOffer
}

// PlanCategory is one category to upsert by external id.
type PlanCategory struct {
	ExternalID string
	Name       string
}

// PlanOffer is one offer to insert after the shop's offer set is wiped.
// CategoryExternalID may reference a category from this plan or one
// recorded by an earlier import.
type PlanOffer struct {
	ExternalID         string
	CategoryExternalID string
	ProductName        string
	Model              string
	Quantity           int
	Price              float64
	PriceRRC           float64
	Parameters         map[string]string
}
