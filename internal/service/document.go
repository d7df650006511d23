package service

import (
	"encoding/json"
	"fmt"
	"io"

	"marketplace-service/internal/models"

	"gopkg.in/yaml.v3"
)

// CatalogDocument is the structured import/export document: one shop,
// its categories and its goods.
type CatalogDocument struct {
	Shop       string             `yaml:"shop" json:"shop"`
	Categories []DocumentCategory `yaml:"categories" json:"categories"`
	Goods      []DocumentGood     `yaml:"goods" json:"goods"`
}

// DocumentCategory is one category entry of a catalog document.
type DocumentCategory struct {
	ID   ScalarString `yaml:"id" json:"id"`
	Name string       `yaml:"name" json:"name"`
}

// DocumentGood is one good entry of a catalog document.
type DocumentGood struct {
	ID         ScalarString            `yaml:"id" json:"id"`
	Category   ScalarString            `yaml:"category" json:"category"`
	Name       string                  `yaml:"name" json:"name"`
	Model      string                  `yaml:"model,omitempty" json:"model"`
	Quantity   int                     `yaml:"quantity" json:"quantity"`
	Price      float64                 `yaml:"price" json:"price"`
	PriceRRC   float64                 `yaml:"price_rrc" json:"price_rrc"`
	Parameters map[string]ScalarString `yaml:"parameters,omitempty" json:"parameters"`
}

// ScalarString decodes any scalar (string, number, boolean) as its
// textual form. Document ids and parameter values are text in the
// relational schema regardless of how the document spells them.
type ScalarString string

func (s *ScalarString) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("expected a scalar value, got %v", value.Tag)
	}
	*s = ScalarString(value.Value)
	return nil
}

func (s *ScalarString) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		*s = ScalarString(str)
		return nil
	}
	*s = ScalarString(data)
	return nil
}

// ParseCatalogDocument decodes a YAML catalog document.
func ParseCatalogDocument(r io.Reader) (*CatalogDocument, error) {
	var doc CatalogDocument
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedDocument, err)
	}
	return &doc, nil
}

// Plan validates the document and converts it into an import plan.
func (d *CatalogDocument) Plan() (*models.ImportPlan, error) {
	if d.Shop == "" {
		return nil, fmt.Errorf("%w: missing shop name", ErrMalformedDocument)
	}
	if d.Goods == nil {
		return nil, fmt.Errorf("%w: missing goods", ErrMalformedDocument)
	}

	plan := models.ImportPlan{
		ShopName:   d.Shop,
		Categories: make([]models.PlanCategory, 0, len(d.Categories)),
		Offers:     make([]models.PlanOffer, 0, len(d.Goods)),
	}

	for i, cat := range d.Categories {
		if cat.ID == "" {
			return nil, fmt.Errorf("%w: category %d is missing id", ErrMalformedDocument, i)
		}
		if cat.Name == "" {
			return nil, fmt.Errorf("%w: category %q is missing name", ErrMalformedDocument, cat.ID)
		}
		plan.Categories = append(plan.Categories, models.PlanCategory{
			ExternalID: string(cat.ID),
			Name:       cat.Name,
		})
	}

	for i, good := range d.Goods {
		if good.ID == "" {
			return nil, fmt.Errorf("%w: good %d is missing id", ErrMalformedDocument, i)
		}
		if good.Category == "" {
			return nil, fmt.Errorf("%w: good %q is missing category", ErrMalformedDocument, good.ID)
		}
		if good.Name == "" {
			return nil, fmt.Errorf("%w: good %q is missing name", ErrMalformedDocument, good.ID)
		}
		if good.Quantity < 0 {
			return nil, fmt.Errorf("%w: good %q has negative quantity", ErrMalformedDocument, good.ID)
		}

		offer := models.PlanOffer{
			ExternalID:         string(good.ID),
			CategoryExternalID: string(good.Category),
			ProductName:        good.Name,
			Model:              good.Model,
			Quantity:           good.Quantity,
			Price:              good.Price,
			PriceRRC:           good.PriceRRC,
			Parameters:         make(map[string]string, len(good.Parameters)),
		}
		for name, value := range good.Parameters {
			offer.Parameters[name] = string(value)
		}
		plan.Offers = append(plan.Offers, offer)
	}

	return &plan, nil
}
