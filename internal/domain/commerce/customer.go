package commerce

import (
	"strings"

	"github.com/bizsuite/backend/internal/domain/shared"
	"github.com/bizsuite/backend/internal/domain/shared/validation"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

type CustomerType string

const (
	CustomerIndividual CustomerType = "individual"
	CustomerBusiness   CustomerType = "business"
)

func (t CustomerType) IsValid() bool {
	return t == CustomerIndividual || t == CustomerBusiness
}

// Customer is a buyer of a company.
type Customer struct {
	shared.AuditedRecord
	shared.CompanyRef
	CustomerType         CustomerType    `gorm:"type:varchar(20);not null" json:"customer_type" validate:"required,enum"`
	FirstName            string          `gorm:"type:varchar(100)" json:"first_name" validate:"max=100"`
	LastName             string          `gorm:"type:varchar(100)" json:"last_name" validate:"max=100"`
	CompanyName          string          `gorm:"type:varchar(200)" json:"company_name" validate:"max=200"`
	TaxID                string          `gorm:"type:varchar(50)" json:"tax_id" validate:"max=50"`
	TaxInfo              datatypes.JSON  `json:"tax_info"`
	Email                string          `gorm:"type:varchar(254);not null" json:"email" validate:"required,email,max=254"`
	Phone                string          `gorm:"type:varchar(50)" json:"phone" validate:"max=50"`
	ContactPreferences   datatypes.JSON  `json:"contact_preferences"`
	MarketingPreferences datatypes.JSON  `json:"marketing_preferences"`
	Segments             datatypes.JSON  `json:"segments"`
	LifetimeValue        decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"lifetime_value"`
	Notes                string          `gorm:"type:text" json:"notes"`
}

func (Customer) TableName() string { return "customers" }

func (c *Customer) Defaults() {
	c.InitDefaults()
	c.CustomerType = CustomerIndividual
	c.TaxInfo = shared.EmptyObject()
	c.ContactPreferences = shared.EmptyObject()
	c.MarketingPreferences = shared.EmptyObject()
	c.Segments = shared.EmptyArray()
}

func (c *Customer) Normalize() {
	c.Email = strings.TrimSpace(c.Email)
	if at := strings.LastIndex(c.Email, "@"); at >= 0 {
		c.Email = c.Email[:at] + strings.ToLower(c.Email[at:])
	}
	c.TaxID = strings.TrimSpace(c.TaxID)
}

var CustomerRules = validation.Rules[Customer]{
	Fields: func(c *Customer, _ *validation.Env, errs *shared.ValidationError) {
		validation.Object(errs, "tax_info", c.TaxInfo)
		validation.Object(errs, "contact_preferences", c.ContactPreferences)
		validation.Object(errs, "marketing_preferences", c.MarketingPreferences)
		validation.Array(errs, "segments", c.Segments)
		validation.NonNegative(errs, "lifetime_value", c.LifetimeValue)
		if info, err := shared.ParseJSON(c.TaxInfo); err == nil && !info.Empty() && info.Shape == shared.ShapeObject {
			if _, ok := info.Object["tax_id"]; !ok {
				errs.Field("tax_info", "Tax information must include a tax ID.")
			}
		}
	},
	Cross: func(c *Customer, _ *validation.Env, errs *shared.ValidationError) {
		if c.CustomerType == CustomerBusiness && c.CompanyName == "" {
			errs.Field("company_name", "Company name is required for business customers.")
		}
	},
	Unique: []validation.Unique[Customer]{
		{
			Field:      "email",
			Columns:    []string{"email"},
			Values:     func(c *Customer) []any { return []any{c.Email} },
			PerCompany: true,
			Message:    "A customer with this email already exists.",
		},
		{
			Field:   "tax_id",
			Columns: []string{"tax_id"},
			Values: func(c *Customer) []any {
				if c.TaxID == "" {
					return nil
				}
				return []any{c.TaxID}
			},
			PerCompany: true,
			Message:    "A customer with this tax ID already exists.",
		},
	},
}

type AddressType string

const (
	AddressBilling  AddressType = "billing"
	AddressShipping AddressType = "shipping"
	AddressBoth     AddressType = "both"
)

func (t AddressType) IsValid() bool {
	switch t {
	case AddressBilling, AddressShipping, AddressBoth:
		return true
	}
	return false
}

// CustomerAddress is a postal address of a customer.
type CustomerAddress struct {
	shared.AuditedRecord
	shared.CompanyRef
	CustomerID      uuid.UUID      `gorm:"type:uuid;not null;index" json:"customer_id" validate:"required"`
	AddressType     AddressType    `gorm:"type:varchar(20);not null" json:"address_type" validate:"required,enum"`
	StreetLine1     string         `gorm:"type:varchar(200);not null" json:"street_line1" validate:"required,max=200"`
	StreetLine2     string         `gorm:"type:varchar(200)" json:"street_line2" validate:"max=200"`
	City            string         `gorm:"type:varchar(100);not null" json:"city" validate:"required,max=100"`
	State           string         `gorm:"type:varchar(100)" json:"state" validate:"max=100"`
	PostalCode      string         `gorm:"type:varchar(20);not null" json:"postal_code" validate:"required,max=20"`
	Country         string         `gorm:"type:varchar(2);not null" json:"country" validate:"required"`
	IsDefault       bool           `gorm:"not null" json:"is_default"`
	AddressMetadata datatypes.JSON `json:"address_metadata"`
}

func (CustomerAddress) TableName() string { return "customer_addresses" }

func (a *CustomerAddress) Defaults() {
	a.InitDefaults()
	a.AddressType = AddressBoth
	a.AddressMetadata = shared.EmptyObject()
}

func (a *CustomerAddress) Normalize() {
	a.Country = strings.ToUpper(strings.TrimSpace(a.Country))
}

func (a *CustomerAddress) References() []shared.Reference {
	return []shared.Reference{shared.Ref("customer_id", &Customer{}, &a.CustomerID)}
}

var CustomerAddressRules = validation.Rules[CustomerAddress]{
	Fields: func(a *CustomerAddress, _ *validation.Env, errs *shared.ValidationError) {
		validation.CountryCode(errs, "country", a.Country)
		validation.Object(errs, "address_metadata", a.AddressMetadata)
	},
	Stored: func(a *CustomerAddress, env *validation.Env, errs *shared.ValidationError) error {
		if !a.IsDefault {
			return nil
		}
		conds := []shared.Cond{
			shared.Eq("customer_id", a.CustomerID),
			shared.Eq("address_type", a.AddressType),
			shared.Eq("is_default", true),
		}
		if env.ID != uuid.Nil {
			conds = append(conds, shared.Ne("id", env.ID))
		}
		exists, err := env.Store.Exists(env.Ctx, &CustomerAddress{}, env.Scope(), conds...)
		if err != nil {
			return err
		}
		if exists {
			errs.Field("is_default", "Another address of this type is already set as default.")
		}
		return nil
	},
}
