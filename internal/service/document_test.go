package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleDocument = `
shop: Svyaznoy
categories:
  - id: 224
    name: Smartphones
  - id: 15
    name: Accessories
goods:
  - id: 4216292
    category: 224
    model: apple/iphone/xs-max
    name: Smartphone Apple iPhone XS Max 512GB (gold)
    price: 110000.50
    price_rrc: 116990
    quantity: 14
    parameters:
      "Screen Size (inches)": 6.5
      "Color": gold
      "Internal Memory (GB)": 512
`

func TestParseCatalogDocument(t *testing.T) {
	doc, err := ParseCatalogDocument(strings.NewReader(sampleDocument))
	require.NoError(t, err)

	assert.Equal(t, "Svyaznoy", doc.Shop)
	require.Len(t, doc.Categories, 2)
	require.Len(t, doc.Goods, 1)

	// Numeric scalars are carried as text.
	assert.Equal(t, ScalarString("224"), doc.Categories[0].ID)

	good := doc.Goods[0]
	assert.Equal(t, ScalarString("4216292"), good.ID)
	assert.Equal(t, ScalarString("224"), good.Category)
	assert.Equal(t, 14, good.Quantity)
	assert.Equal(t, 110000.50, good.Price)
	assert.Equal(t, ScalarString("6.5"), good.Parameters["Screen Size (inches)"])
	assert.Equal(t, ScalarString("gold"), good.Parameters["Color"])
}

func TestParseCatalogDocumentRejectsGarbage(t *testing.T) {
	_, err := ParseCatalogDocument(strings.NewReader("{not yaml: ["))
	assert.ErrorIs(t, err, ErrMalformedDocument)
}

func TestPlanValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*CatalogDocument)
	}{
		{"missing shop name", func(d *CatalogDocument) { d.Shop = "" }},
		{"missing goods section", func(d *CatalogDocument) { d.Goods = nil }},
		{"category without id", func(d *CatalogDocument) { d.Categories[0].ID = "" }},
		{"category without name", func(d *CatalogDocument) { d.Categories[0].Name = "" }},
		{"good without id", func(d *CatalogDocument) { d.Goods[0].ID = "" }},
		{"good without category", func(d *CatalogDocument) { d.Goods[0].Category = "" }},
		{"good without name", func(d *CatalogDocument) { d.Goods[0].Name = "" }},
		{"negative quantity", func(d *CatalogDocument) { d.Goods[0].Quantity = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := ParseCatalogDocument(strings.NewReader(sampleDocument))
			require.NoError(t, err)

			tt.mutate(doc)

			_, err = doc.Plan()
			assert.ErrorIs(t, err, ErrMalformedDocument)
		})
	}
}

func TestPlanCarriesParameters(t *testing.T) {
	doc, err := ParseCatalogDocument(strings.NewReader(sampleDocument))
	require.NoError(t, err)

	plan, err := doc.Plan()
	require.NoError(t, err)

	assert.Equal(t, "Svyaznoy", plan.ShopName)
	require.Len(t, plan.Offers, 1)

	offer := plan.Offers[0]
	assert.Equal(t, "4216292", offer.ExternalID)
	assert.Equal(t, "224", offer.CategoryExternalID)
	assert.Equal(t, "512", offer.Parameters["Internal Memory (GB)"])
}

func TestPlanAllowsEmptyGoodsList(t *testing.T) {
	doc, err := ParseCatalogDocument(strings.NewReader(`
shop: Empty Shop
categories: []
goods: []
`))
	require.NoError(t, err)

	plan, err := doc.Plan()
	require.NoError(t, err)
	assert.Empty(t, plan.Offers)
}
