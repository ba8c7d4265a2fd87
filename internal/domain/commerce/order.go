package commerce

import (
	"strings"
	"time"

	"github.com/bizsuite/backend/internal/domain/shared"
	"github.com/bizsuite/backend/internal/domain/shared/validation"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

type OrderStatus string

const (
	OrderDraft      OrderStatus = "draft"
	OrderPending    OrderStatus = "pending"
	OrderConfirmed  OrderStatus = "confirmed"
	OrderProcessing OrderStatus = "processing"
	OrderShipped    OrderStatus = "shipped"
	OrderDelivered  OrderStatus = "delivered"
	OrderCancelled  OrderStatus = "cancelled"
)

func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderDraft, OrderPending, OrderConfirmed, OrderProcessing, OrderShipped, OrderDelivered, OrderCancelled:
		return true
	}
	return false
}

type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentFailed   PaymentStatus = "failed"
	PaymentRefunded PaymentStatus = "refunded"
)

func (s PaymentStatus) IsValid() bool {
	switch s {
	case PaymentPending, PaymentPaid, PaymentFailed, PaymentRefunded:
		return true
	}
	return false
}

// Order is a customer purchase. Total must equal
// subtotal + tax_total + shipping_total - discount_total.
type Order struct {
	shared.AuditedRecord
	shared.CompanyRef
	CustomerID        uuid.UUID       `gorm:"type:uuid;not null;index" json:"customer_id" validate:"required"`
	OrderNumber       string          `gorm:"type:varchar(50);not null;uniqueIndex" json:"order_number" validate:"required,max=50"`
	Status            OrderStatus     `gorm:"type:varchar(20);not null;index" json:"status" validate:"required,enum"`
	Currency          string          `gorm:"type:varchar(3);not null" json:"currency" validate:"required"`
	Subtotal          decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"subtotal"`
	TaxTotal          decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"tax_total"`
	ShippingTotal     decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"shipping_total"`
	DiscountTotal     decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"discount_total"`
	Total             decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"total"`
	ShippingAddressID *uuid.UUID      `gorm:"type:uuid" json:"shipping_address_id,omitempty"`
	BillingAddressID  *uuid.UUID      `gorm:"type:uuid" json:"billing_address_id,omitempty"`
	PaymentInfo       datatypes.JSON  `json:"payment_info"`
	ShippingInfo      datatypes.JSON  `json:"shipping_info"`
	Notes             string          `gorm:"type:text" json:"notes"`
	CustomFields      datatypes.JSON  `json:"custom_fields"`
	PaymentStatus     PaymentStatus   `gorm:"type:varchar(20);not null" json:"payment_status" validate:"required,enum"`
}

func (Order) TableName() string { return "orders" }

func (o *Order) Defaults() {
	o.InitDefaults()
	o.Status = OrderDraft
	o.PaymentStatus = PaymentPending
	o.Currency = "EUR"
	o.PaymentInfo = shared.EmptyObject()
	o.ShippingInfo = shared.EmptyObject()
	o.CustomFields = shared.EmptyObject()
}

func (o *Order) Normalize() {
	o.Currency = strings.ToUpper(strings.TrimSpace(o.Currency))
	o.OrderNumber = strings.TrimSpace(o.OrderNumber)
}

// ExpectedTotal derives the total from its components.
func (o *Order) ExpectedTotal() decimal.Decimal {
	return o.Subtotal.Add(o.TaxTotal).Add(o.ShippingTotal).Sub(o.DiscountTotal)
}

func (o *Order) References() []shared.Reference {
	return []shared.Reference{
		shared.Ref("customer_id", &Customer{}, &o.CustomerID),
		shared.Ref("shipping_address_id", &CustomerAddress{}, o.ShippingAddressID),
		shared.Ref("billing_address_id", &CustomerAddress{}, o.BillingAddressID),
	}
}

var OrderRules = validation.Rules[Order]{
	Fields: func(o *Order, _ *validation.Env, errs *shared.ValidationError) {
		validation.CurrencyCode(errs, "currency", o.Currency)
		validation.NonNegative(errs, "subtotal", o.Subtotal)
		validation.NonNegative(errs, "tax_total", o.TaxTotal)
		validation.NonNegative(errs, "shipping_total", o.ShippingTotal)
		validation.NonNegative(errs, "discount_total", o.DiscountTotal)
		validation.NonNegative(errs, "total", o.Total)
		validation.Object(errs, "payment_info", o.PaymentInfo)
		validation.Object(errs, "shipping_info", o.ShippingInfo)
		validation.Object(errs, "custom_fields", o.CustomFields)
	},
	Cross: func(o *Order, _ *validation.Env, errs *shared.ValidationError) {
		validation.Matches(errs, "", o.ExpectedTotal(), o.Total,
			"Total amount must equal subtotal plus tax and shipping minus discounts (%s).")
	},
	Stored: func(o *Order, env *validation.Env, errs *shared.ValidationError) error {
		for _, addr := range []struct {
			field string
			id    *uuid.UUID
		}{{"shipping_address_id", o.ShippingAddressID}, {"billing_address_id", o.BillingAddressID}} {
			if addr.id == nil || *addr.id == uuid.Nil {
				continue
			}
			var a CustomerAddress
			err := env.Store.First(env.Ctx, &a, env.Scope(), shared.Eq("id", *addr.id))
			if shared.IsNotFound(err) {
				continue
			}
			if err != nil {
				return err
			}
			if a.CustomerID != o.CustomerID {
				errs.Field(addr.field, "The address must belong to the order's customer.")
			}
		}
		return nil
	},
	Unique: []validation.Unique[Order]{{
		Field:   "order_number",
		Columns: []string{"order_number"},
		Values:  func(o *Order) []any { return []any{o.OrderNumber} },
		Message: "An order with this number already exists.",
	}},
}

type OrderItemStatus string

const (
	ItemPending   OrderItemStatus = "pending"
	ItemFulfilled OrderItemStatus = "fulfilled"
	ItemCancelled OrderItemStatus = "cancelled"
	ItemReturned  OrderItemStatus = "returned"
)

func (s OrderItemStatus) IsValid() bool {
	switch s {
	case ItemPending, ItemFulfilled, ItemCancelled, ItemReturned:
		return true
	}
	return false
}

// OrderItem is a line of an order, for a product or a service.
type OrderItem struct {
	shared.AuditedRecord
	shared.CompanyRef
	OrderID        uuid.UUID       `gorm:"type:uuid;not null;index" json:"order_id" validate:"required"`
	ProductID      *uuid.UUID      `gorm:"type:uuid;index" json:"product_id,omitempty"`
	ServiceID      *uuid.UUID      `gorm:"type:uuid;index" json:"service_id,omitempty"`
	Quantity       int             `gorm:"not null" json:"quantity"`
	UnitPrice      decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"unit_price"`
	TaxAmount      decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"tax_amount"`
	DiscountAmount decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"discount_amount"`
	TotalPrice     decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"total_price"`
	ItemMetadata   datatypes.JSON  `json:"item_metadata"`
	Status         OrderItemStatus `gorm:"type:varchar(50);not null" json:"status" validate:"required,enum"`
}

func (OrderItem) TableName() string { return "order_items" }

func (i *OrderItem) Defaults() {
	i.InitDefaults()
	i.Quantity = 1
	i.Status = ItemPending
	i.ItemMetadata = shared.EmptyObject()
}

// ExpectedTotal is quantity * unit_price + tax - discount.
func (i *OrderItem) ExpectedTotal() decimal.Decimal {
	return decimal.NewFromInt(int64(i.Quantity)).Mul(i.UnitPrice).Add(i.TaxAmount).Sub(i.DiscountAmount)
}

func (i *OrderItem) References() []shared.Reference {
	return []shared.Reference{
		shared.Ref("order_id", &Order{}, &i.OrderID),
		shared.Ref("product_id", &Product{}, i.ProductID),
		shared.TableRef("service_id", "services", i.ServiceID),
	}
}

var OrderItemRules = validation.Rules[OrderItem]{
	Fields: func(i *OrderItem, _ *validation.Env, errs *shared.ValidationError) {
		validation.PositiveInt(errs, "quantity", i.Quantity)
		validation.NonNegative(errs, "unit_price", i.UnitPrice)
		validation.NonNegative(errs, "tax_amount", i.TaxAmount)
		validation.NonNegative(errs, "discount_amount", i.DiscountAmount)
		validation.NonNegative(errs, "total_price", i.TotalPrice)
		validation.Object(errs, "item_metadata", i.ItemMetadata)
	},
	Cross: func(i *OrderItem, _ *validation.Env, errs *shared.ValidationError) {
		if (i.ProductID == nil || *i.ProductID == uuid.Nil) && (i.ServiceID == nil || *i.ServiceID == uuid.Nil) {
			errs.Form("An order item must reference a product or a service.")
		}
		validation.Matches(errs, "", i.ExpectedTotal(), i.TotalPrice,
			"Total price must equal quantity times unit price, plus tax, minus discount (%s).")
	},
}

type CartStatus string

const (
	CartActive    CartStatus = "active"
	CartConverted CartStatus = "converted"
	CartAbandoned CartStatus = "abandoned"
	CartExpired   CartStatus = "expired"
)

func (s CartStatus) IsValid() bool {
	switch s {
	case CartActive, CartConverted, CartAbandoned, CartExpired:
		return true
	}
	return false
}

// Cart is an open basket of a customer.
type Cart struct {
	shared.AuditedRecord
	shared.CompanyRef
	CustomerID uuid.UUID  `gorm:"type:uuid;not null;index" json:"customer_id" validate:"required"`
	SessionID  *string    `gorm:"type:varchar(100);uniqueIndex" json:"session_id,omitempty" validate:"omitempty,max=100"`
	Status     CartStatus `gorm:"type:varchar(20);not null" json:"status" validate:"required,enum"`
	ExpiresAt  *time.Time `json:"expires_at,omitempty"`
}

func (Cart) TableName() string { return "carts" }

func (c *Cart) Defaults() {
	c.InitDefaults()
	c.Status = CartActive
}

func (c *Cart) References() []shared.Reference {
	return []shared.Reference{shared.Ref("customer_id", &Customer{}, &c.CustomerID)}
}

var CartRules = validation.Rules[Cart]{
	Cross: func(c *Cart, env *validation.Env, errs *shared.ValidationError) {
		created := c.CreatedAt
		if created.IsZero() {
			created = env.Now
		}
		if c.ExpiresAt != nil && c.ExpiresAt.Before(created) {
			errs.Form("Expiration date cannot be earlier than creation date.")
		}
	},
	Unique: []validation.Unique[Cart]{{
		Field:   "session_id",
		Columns: []string{"session_id"},
		Values: func(c *Cart) []any {
			if c.SessionID == nil || *c.SessionID == "" {
				return nil
			}
			return []any{*c.SessionID}
		},
		Message: "A cart with this session already exists.",
	}},
}

// CartItem is a product line of a cart.
type CartItem struct {
	shared.AuditedRecord
	shared.CompanyRef
	CartID     uuid.UUID       `gorm:"type:uuid;not null;index" json:"cart_id" validate:"required"`
	ProductID  uuid.UUID       `gorm:"type:uuid;not null;index" json:"product_id" validate:"required"`
	Quantity   int             `gorm:"not null" json:"quantity"`
	UnitPrice  decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"unit_price"`
	TotalPrice decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"total_price"`
}

func (CartItem) TableName() string { return "cart_items" }

func (i *CartItem) Defaults() {
	i.InitDefaults()
	i.Quantity = 1
}

func (i *CartItem) References() []shared.Reference {
	return []shared.Reference{
		shared.Ref("cart_id", &Cart{}, &i.CartID),
		shared.Ref("product_id", &Product{}, &i.ProductID),
	}
}

var CartItemRules = validation.Rules[CartItem]{
	Fields: func(i *CartItem, _ *validation.Env, errs *shared.ValidationError) {
		validation.PositiveInt(errs, "quantity", i.Quantity)
		validation.NonNegative(errs, "unit_price", i.UnitPrice)
		validation.NonNegative(errs, "total_price", i.TotalPrice)
	},
	Cross: func(i *CartItem, _ *validation.Env, errs *shared.ValidationError) {
		expected := decimal.NewFromInt(int64(i.Quantity)).Mul(i.UnitPrice)
		validation.Matches(errs, "", expected, i.TotalPrice, "Total price must equal quantity times unit price (%s).")
	},
}
