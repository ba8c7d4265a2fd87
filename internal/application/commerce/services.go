// Package commerce wires catalogs, customers, orders and carts into
// resource services.
package commerce

import (
	"github.com/bizsuite/backend/internal/application/resource"
	"github.com/bizsuite/backend/internal/domain/commerce"
	"github.com/bizsuite/backend/internal/domain/shared"
)

const Group = "commerce"

// Services holds the resource services of the commerce group.
type Services struct {
	Catalogs   *resource.Service[commerce.ProductCatalog]
	Products   *resource.Service[commerce.Product]
	Variants   *resource.Service[commerce.ProductVariant]
	Reviews    *resource.Service[commerce.ProductReview]
	Customers  *resource.Service[commerce.Customer]
	Addresses  *resource.Service[commerce.CustomerAddress]
	Orders     *resource.Service[commerce.Order]
	OrderItems *resource.Service[commerce.OrderItem]
	Carts      *resource.Service[commerce.Cart]
	CartItems  *resource.Service[commerce.CartItem]
}

// NewServices builds the commerce services on store.
func NewServices(store shared.Store, clock shared.Clock) *Services {
	return &Services{
		Catalogs: resource.New(resource.Descriptor[commerce.ProductCatalog]{
			Group:       Group,
			Name:        "catalogs",
			Label:       "Product catalog",
			Rules:       commerce.ProductCatalogRules,
			Sortable:    []string{"name"},
			DefaultSort: "name",
			DefaultDir:  "asc",
			Search:      []string{"name", "description"},
			Filterable:  []string{"is_public", "is_active"},
		}, store, clock),
		Products: resource.New(resource.Descriptor[commerce.Product]{
			Group:       Group,
			Name:        "products",
			Label:       "Product",
			Rules:       commerce.ProductRules,
			Sortable:    []string{"name", "sku_prefix", "base_price", "view_count"},
			DefaultSort: "name",
			DefaultDir:  "asc",
			Search:      []string{"name", "sku_prefix", "description"},
			Filterable:  []string{"catalog_id", "tax_class", "requires_shipping", "is_active"},
		}, store, clock),
		Variants: resource.New(resource.Descriptor[commerce.ProductVariant]{
			Group:       Group,
			Name:        "variants",
			Label:       "Product variant",
			Rules:       commerce.ProductVariantRules,
			Sortable:    []string{"sku", "price", "stock_quantity"},
			DefaultSort: "sku",
			DefaultDir:  "asc",
			Search:      []string{"sku", "barcode"},
			Filterable:  []string{"product_id", "is_active"},
		}, store, clock),
		Reviews: resource.New(resource.Descriptor[commerce.ProductReview]{
			Group:      Group,
			Name:       "reviews",
			Label:      "Product review",
			Rules:      commerce.ProductReviewRules,
			Sortable:   []string{"rating"},
			Search:     []string{"comment"},
			Filterable: []string{"product_id", "customer_id", "rating", "is_public", "is_verified_purchase"},
		}, store, clock),
		Customers: resource.New(resource.Descriptor[commerce.Customer]{
			Group:      Group,
			Name:       "customers",
			Label:      "Customer",
			Rules:      commerce.CustomerRules,
			Sortable:   []string{"last_name", "first_name", "company_name", "email", "lifetime_value"},
			Search:     []string{"first_name", "last_name", "company_name", "email", "phone"},
			Filterable: []string{"customer_type", "is_active"},
		}, store, clock),
		Addresses: resource.New(resource.Descriptor[commerce.CustomerAddress]{
			Group:      Group,
			Name:       "addresses",
			Label:      "Customer address",
			Rules:      commerce.CustomerAddressRules,
			Sortable:   []string{"city", "country", "address_type"},
			Search:     []string{"street_line1", "city", "postal_code"},
			Filterable: []string{"customer_id", "address_type", "country", "is_default"},
		}, store, clock),
		Orders: resource.New(resource.Descriptor[commerce.Order]{
			Group:      Group,
			Name:       "orders",
			Label:      "Order",
			Rules:      commerce.OrderRules,
			Sortable:   []string{"order_number", "status", "total", "payment_status"},
			Search:     []string{"order_number", "notes"},
			Filterable: []string{"customer_id", "status", "payment_status", "currency"},
		}, store, clock),
		OrderItems: resource.New(resource.Descriptor[commerce.OrderItem]{
			Group:      Group,
			Name:       "order-items",
			Label:      "Order item",
			Rules:      commerce.OrderItemRules,
			Sortable:   []string{"quantity", "total_price", "status"},
			Filterable: []string{"order_id", "product_id", "service_id", "status"},
		}, store, clock),
		Carts: resource.New(resource.Descriptor[commerce.Cart]{
			Group:      Group,
			Name:       "carts",
			Label:      "Cart",
			Rules:      commerce.CartRules,
			Sortable:   []string{"status", "expires_at"},
			Search:     []string{"session_id"},
			Filterable: []string{"customer_id", "status", "session_id"},
		}, store, clock),
		CartItems: resource.New(resource.Descriptor[commerce.CartItem]{
			Group:      Group,
			Name:       "cart-items",
			Label:      "Cart item",
			Rules:      commerce.CartItemRules,
			Sortable:   []string{"quantity", "total_price"},
			Filterable: []string{"cart_id", "product_id"},
		}, store, clock),
	}
}

// Register adds every commerce service to reg.
func (s *Services) Register(reg *resource.Registry) {
	reg.Add(s.Catalogs)
	reg.Add(s.Products)
	reg.Add(s.Variants)
	reg.Add(s.Reviews)
	reg.Add(s.Customers)
	reg.Add(s.Addresses)
	reg.Add(s.Orders)
	reg.Add(s.OrderItems)
	reg.Add(s.Carts)
	reg.Add(s.CartItems)
}
