// Package commerce holds catalogs, products, customers, orders and carts.
package commerce

import (
	"strings"

	"github.com/bizsuite/backend/internal/domain/shared"
	"github.com/bizsuite/backend/internal/domain/shared/validation"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// ProductCatalog groups products of a company.
type ProductCatalog struct {
	shared.AuditedRecord
	shared.CompanyRef
	Name              string         `gorm:"type:varchar(200);not null" json:"name" validate:"required,max=200"`
	Description       string         `gorm:"type:text" json:"description"`
	HierarchySettings datatypes.JSON `json:"hierarchy_settings"`
	IsPublic          bool           `gorm:"not null" json:"is_public"`
	VisibilityRules   datatypes.JSON `json:"visibility_rules"`
}

func (ProductCatalog) TableName() string { return "product_catalogs" }

func (c *ProductCatalog) Defaults() {
	c.InitDefaults()
	c.IsPublic = true
	c.HierarchySettings = shared.EmptyObject()
	c.VisibilityRules = shared.EmptyObject()
}

var ProductCatalogRules = validation.Rules[ProductCatalog]{
	Fields: func(c *ProductCatalog, _ *validation.Env, errs *shared.ValidationError) {
		validation.Object(errs, "hierarchy_settings", c.HierarchySettings)
		validation.Object(errs, "visibility_rules", c.VisibilityRules)
	},
	Unique: []validation.Unique[ProductCatalog]{{
		Field:      "name",
		Columns:    []string{"name"},
		Values:     func(c *ProductCatalog) []any { return []any{c.Name} },
		PerCompany: true,
		Message:    "A product catalog with this name already exists for this company.",
	}},
}

// Product is a sellable item of a catalog.
type Product struct {
	shared.AuditedRecord
	shared.CompanyRef
	CatalogID        uuid.UUID       `gorm:"type:uuid;not null;index" json:"catalog_id" validate:"required"`
	Name             string          `gorm:"type:varchar(200);not null" json:"name" validate:"required,max=200"`
	Description      string          `gorm:"type:text" json:"description"`
	SKUPrefix        string          `gorm:"column:sku_prefix;type:varchar(20);not null" json:"sku_prefix" validate:"required,max=20"`
	ViewCount        int             `gorm:"not null" json:"view_count"`
	Categories       datatypes.JSON  `json:"categories"`
	Attributes       datatypes.JSON  `json:"attributes"`
	MediaGallery     datatypes.JSON  `json:"media_gallery"`
	BasePrice        decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"base_price"`
	TaxClass         string          `gorm:"type:varchar(50)" json:"tax_class" validate:"max=50"`
	RequiresShipping bool            `gorm:"not null" json:"requires_shipping"`
	ShippingSettings datatypes.JSON  `json:"shipping_settings"`
	SEOData          datatypes.JSON  `gorm:"column:seo_data" json:"seo_data"`
}

func (Product) TableName() string { return "products" }

func (p *Product) Defaults() {
	p.InitDefaults()
	p.RequiresShipping = true
	p.Categories = shared.EmptyArray()
	p.Attributes = shared.EmptyObject()
	p.MediaGallery = shared.EmptyArray()
	p.ShippingSettings = shared.EmptyObject()
	p.SEOData = shared.EmptyObject()
}

func (p *Product) Normalize() {
	p.SKUPrefix = strings.ToUpper(strings.TrimSpace(p.SKUPrefix))
}

func (p *Product) References() []shared.Reference {
	return []shared.Reference{shared.Ref("catalog_id", &ProductCatalog{}, &p.CatalogID)}
}

var ProductRules = validation.Rules[Product]{
	Fields: func(p *Product, _ *validation.Env, errs *shared.ValidationError) {
		validation.NonNegativeInt(errs, "view_count", p.ViewCount)
		validation.NonNegative(errs, "base_price", p.BasePrice)
		validation.Array(errs, "categories", p.Categories)
		validation.Object(errs, "attributes", p.Attributes)
		validation.Array(errs, "media_gallery", p.MediaGallery)
		validation.Object(errs, "shipping_settings", p.ShippingSettings)
		validation.Object(errs, "seo_data", p.SEOData)
	},
	Unique: []validation.Unique[Product]{{
		Columns:    []string{"sku_prefix"},
		Values:     func(p *Product) []any { return []any{p.SKUPrefix} },
		PerCompany: true,
		Message:    "A product with this SKU prefix already exists for this company.",
	}},
}

// ProductVariant is a stock keeping unit of a product.
type ProductVariant struct {
	shared.AuditedRecord
	shared.CompanyRef
	ProductID         uuid.UUID       `gorm:"type:uuid;not null;index" json:"product_id" validate:"required"`
	SKU               string          `gorm:"column:sku;type:varchar(50);not null;uniqueIndex" json:"sku" validate:"required,max=50"`
	VariantAttributes datatypes.JSON  `json:"variant_attributes"`
	Price             decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	StockQuantity     int             `gorm:"not null" json:"stock_quantity"`
	Barcode           string          `gorm:"type:varchar(100)" json:"barcode" validate:"max=100"`
	Dimensions        datatypes.JSON  `json:"dimensions"`
	Weight            decimal.Decimal `gorm:"type:decimal(10,3);not null" json:"weight"`
	StockSettings     datatypes.JSON  `json:"stock_settings"`
}

func (ProductVariant) TableName() string { return "product_variants" }

func (v *ProductVariant) Defaults() {
	v.InitDefaults()
	v.VariantAttributes = shared.EmptyObject()
	v.Dimensions = shared.EmptyObject()
	v.StockSettings = shared.EmptyObject()
}

func (v *ProductVariant) Normalize() {
	v.SKU = strings.ToUpper(strings.TrimSpace(v.SKU))
}

func (v *ProductVariant) References() []shared.Reference {
	return []shared.Reference{shared.Ref("product_id", &Product{}, &v.ProductID)}
}

var ProductVariantRules = validation.Rules[ProductVariant]{
	Fields: func(v *ProductVariant, _ *validation.Env, errs *shared.ValidationError) {
		validation.NonNegative(errs, "price", v.Price)
		validation.NonNegativeInt(errs, "stock_quantity", v.StockQuantity)
		validation.NonNegative(errs, "weight", v.Weight)
		validation.Object(errs, "variant_attributes", v.VariantAttributes)
		validation.Object(errs, "dimensions", v.Dimensions)
		validation.Object(errs, "stock_settings", v.StockSettings)
	},
	Stored: func(v *ProductVariant, env *validation.Env, errs *shared.ValidationError) error {
		var product Product
		err := env.Store.First(env.Ctx, &product, env.Scope(), shared.Eq("id", v.ProductID))
		if shared.IsNotFound(err) {
			return nil
		}
		if err != nil {
			return err
		}
		if !strings.HasPrefix(v.SKU, product.SKUPrefix) {
			errs.Field("sku", "SKU must start with the product's SKU prefix: %s", product.SKUPrefix)
		}
		return nil
	},
	Unique: []validation.Unique[ProductVariant]{{
		Field:   "sku",
		Columns: []string{"sku"},
		Values:  func(v *ProductVariant) []any { return []any{v.SKU} },
		Message: "A variant with this SKU already exists.",
	}},
}

// ProductReview is a customer's rating of a product.
type ProductReview struct {
	shared.AuditedRecord
	shared.CompanyRef
	ProductID          uuid.UUID      `gorm:"type:uuid;not null;index" json:"product_id" validate:"required"`
	CustomerID         uuid.UUID      `gorm:"type:uuid;not null;index" json:"customer_id" validate:"required"`
	Rating             int            `gorm:"not null" json:"rating"`
	Comment            string         `gorm:"type:text" json:"comment"`
	Attributes         datatypes.JSON `json:"attributes"`
	IsVerifiedPurchase bool           `gorm:"not null" json:"is_verified_purchase"`
	IsPublic           bool           `gorm:"not null" json:"is_public"`
}

func (ProductReview) TableName() string { return "product_reviews" }

func (r *ProductReview) Defaults() {
	r.InitDefaults()
	r.IsPublic = true
	r.Attributes = shared.EmptyObject()
}

func (r *ProductReview) References() []shared.Reference {
	return []shared.Reference{
		shared.Ref("product_id", &Product{}, &r.ProductID),
		shared.Ref("customer_id", &Customer{}, &r.CustomerID),
	}
}

var ProductReviewRules = validation.Rules[ProductReview]{
	Fields: func(r *ProductReview, _ *validation.Env, errs *shared.ValidationError) {
		validation.Rating(errs, "rating", r.Rating)
		validation.Object(errs, "attributes", r.Attributes)
	},
}
