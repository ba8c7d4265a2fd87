package core

import (
	"encoding/json"
	"strings"

	"github.com/bizsuite/backend/internal/domain/shared"
	"github.com/bizsuite/backend/internal/domain/shared/validation"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// ValueType declares how a configuration value is interpreted.
type ValueType string

const (
	ValueTypeString  ValueType = "string"
	ValueTypeBoolean ValueType = "boolean"
	ValueTypeInteger ValueType = "integer"
	ValueTypeFloat   ValueType = "float"
	ValueTypeJSON    ValueType = "json"
)

func (t ValueType) IsValid() bool {
	switch t {
	case ValueTypeString, ValueTypeBoolean, ValueTypeInteger, ValueTypeFloat, ValueTypeJSON:
		return true
	}
	return false
}

// SystemConfiguration is a platform wide setting.
type SystemConfiguration struct {
	shared.AuditedRecord
	Key         string         `gorm:"type:varchar(100);not null;uniqueIndex" json:"key" validate:"required,max=100"`
	Value       datatypes.JSON `gorm:"not null" json:"value"`
	ValueType   ValueType      `gorm:"type:varchar(20);not null" json:"value_type" validate:"required,enum"`
	Description string         `gorm:"type:text" json:"description"`
	IsPublic    bool           `gorm:"not null" json:"is_public"`
	Category    string         `gorm:"type:varchar(100);not null" json:"category" validate:"required,max=100"`
}

func (SystemConfiguration) TableName() string { return "system_configurations" }

func (c *SystemConfiguration) Defaults() {
	c.InitDefaults()
	c.ValueType = ValueTypeString
}

// valueMatches reports whether raw decodes to the declared type.
func valueMatches(t ValueType, raw []byte) bool {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return false
	}
	switch t {
	case ValueTypeString:
		_, ok := v.(string)
		return ok
	case ValueTypeBoolean:
		_, ok := v.(bool)
		return ok
	case ValueTypeInteger:
		f, ok := v.(float64)
		return ok && f == float64(int64(f))
	case ValueTypeFloat:
		_, ok := v.(float64)
		return ok
	case ValueTypeJSON:
		switch v.(type) {
		case map[string]any, []any:
			return true
		}
	}
	return false
}

var SystemConfigurationRules = validation.Rules[SystemConfiguration]{
	Cross: func(c *SystemConfiguration, _ *validation.Env, errs *shared.ValidationError) {
		if len(c.Value) == 0 || shared.ShapeOf(c.Value) == shared.ShapeNull {
			errs.Field("value", validation.MsgRequired)
			return
		}
		if c.ValueType.IsValid() && !valueMatches(c.ValueType, c.Value) {
			errs.Field("value", "Value does not match the declared type %s.", c.ValueType)
		}
	},
	Unique: []validation.Unique[SystemConfiguration]{{
		Field:   "key",
		Columns: []string{"key"},
		Values:  func(c *SystemConfiguration) []any { return []any{c.Key} },
		Message: "A configuration with this key already exists.",
	}},
}

// Language is a supported interface and content language.
type Language struct {
	shared.AuditedRecord
	Code           string         `gorm:"type:varchar(10);not null;uniqueIndex" json:"code" validate:"required"`
	Name           string         `gorm:"type:varchar(100);not null" json:"name" validate:"required,max=100"`
	NativeName     string         `gorm:"type:varchar(100);not null" json:"native_name" validate:"required,max=100"`
	FlagEmoji      string         `gorm:"type:varchar(10)" json:"flag_emoji" validate:"max=10"`
	IsDefault      bool           `gorm:"not null" json:"is_default"`
	DateFormat     string         `gorm:"type:varchar(50);not null" json:"date_format" validate:"required,max=50"`
	NumberFormat   datatypes.JSON `json:"number_format"`
	CurrencyFormat datatypes.JSON `json:"currency_format"`
}

func (Language) TableName() string { return "languages" }

func (l *Language) Defaults() {
	l.InitDefaults()
	l.NumberFormat = shared.EmptyObject()
	l.CurrencyFormat = shared.EmptyObject()
}

func (l *Language) Normalize() {
	l.Code = strings.ToLower(strings.TrimSpace(l.Code))
}

var LanguageRules = validation.Rules[Language]{
	Fields: func(l *Language, _ *validation.Env, errs *shared.ValidationError) {
		validation.LanguageCode(errs, "code", l.Code)
		validation.Object(errs, "number_format", l.NumberFormat)
		validation.Object(errs, "currency_format", l.CurrencyFormat)
	},
	Cross: func(l *Language, _ *validation.Env, errs *shared.ValidationError) {
		if l.IsDefault && !l.IsActive {
			errs.Field("is_default", "Default language must be active.")
		}
	},
	Unique: []validation.Unique[Language]{{
		Field:   "code",
		Columns: []string{"code"},
		Values:  func(l *Language) []any { return []any{l.Code} },
		Message: "A language with this code already exists.",
	}},
}

// Currency is a supported currency with its rate against the default one.
type Currency struct {
	shared.AuditedRecord
	Code          string          `gorm:"type:varchar(3);not null;uniqueIndex" json:"code" validate:"required"`
	Name          string          `gorm:"type:varchar(100);not null" json:"name" validate:"required,max=100"`
	Symbol        string          `gorm:"type:varchar(10);not null" json:"symbol" validate:"required,max=10"`
	DecimalPlaces int             `gorm:"not null" json:"decimal_places"`
	ExchangeRate  decimal.Decimal `gorm:"type:decimal(20,10);not null" json:"exchange_rate"`
	IsDefault     bool            `gorm:"not null" json:"is_default"`
}

func (Currency) TableName() string { return "currencies" }

func (c *Currency) Defaults() {
	c.InitDefaults()
	c.DecimalPlaces = 2
	c.ExchangeRate = decimal.NewFromInt(1)
}

func (c *Currency) Normalize() {
	c.Code = strings.ToUpper(strings.TrimSpace(c.Code))
}

var CurrencyRules = validation.Rules[Currency]{
	Fields: func(c *Currency, _ *validation.Env, errs *shared.ValidationError) {
		validation.CurrencyCode(errs, "code", c.Code)
		validation.IntRange(errs, "decimal_places", c.DecimalPlaces, 0, 10)
		validation.NonNegative(errs, "exchange_rate", c.ExchangeRate)
	},
	Cross: func(c *Currency, _ *validation.Env, errs *shared.ValidationError) {
		if c.IsDefault && !c.IsActive {
			errs.Field("is_default", "Default currency must be active.")
		}
	},
	Unique: []validation.Unique[Currency]{{
		Field:   "code",
		Columns: []string{"code"},
		Values:  func(c *Currency) []any { return []any{c.Code} },
		Message: "A currency with this code already exists.",
	}},
}

// Country is a supported country (ISO 3166-1 alpha-2 code).
type Country struct {
	shared.AuditedRecord
	Code          string         `gorm:"type:varchar(2);not null;uniqueIndex" json:"code" validate:"required"`
	Name          string         `gorm:"type:varchar(100);not null" json:"name" validate:"required,max=100"`
	PhoneCode     string         `gorm:"type:varchar(10);not null" json:"phone_code" validate:"required,max=10"`
	CurrencyID    uuid.UUID      `gorm:"type:uuid;not null;index" json:"currency_id" validate:"required"`
	TaxSettings   datatypes.JSON `json:"tax_settings"`
	AddressFormat datatypes.JSON `json:"address_format"`
	IsSupported   bool           `gorm:"not null" json:"is_supported"`
}

func (Country) TableName() string { return "countries" }

func (c *Country) Defaults() {
	c.InitDefaults()
	c.IsSupported = true
	c.TaxSettings = shared.EmptyObject()
	c.AddressFormat = shared.EmptyObject()
}

func (c *Country) Normalize() {
	c.Code = strings.ToUpper(strings.TrimSpace(c.Code))
	c.PhoneCode = strings.TrimSpace(c.PhoneCode)
}

func (c *Country) References() []shared.Reference {
	return []shared.Reference{shared.GlobalRef("currency_id", &Currency{}, &c.CurrencyID)}
}

var CountryRules = validation.Rules[Country]{
	Fields: func(c *Country, _ *validation.Env, errs *shared.ValidationError) {
		validation.CountryCode(errs, "code", c.Code)
		validation.Digits(errs, "phone_code", c.PhoneCode)
		validation.Object(errs, "tax_settings", c.TaxSettings)
		validation.Object(errs, "address_format", c.AddressFormat)
	},
	Unique: []validation.Unique[Country]{{
		Field:   "code",
		Columns: []string{"code"},
		Values:  func(c *Country) []any { return []any{c.Code} },
		Message: "A country with this code already exists.",
	}},
}
