package core

import (
	"context"
	"testing"

	"github.com/bizsuite/backend/internal/domain/shared"
	"github.com/bizsuite/backend/internal/domain/shared/storetest"
	"github.com/bizsuite/backend/internal/domain/shared/validation"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func env() *validation.Env {
	return &validation.Env{Ctx: context.Background(), Store: storetest.New(), Creating: true}
}

func TestUser_Password(t *testing.T) {
	u := &User{}
	u.Defaults()

	err := u.SetPassword("short")
	ve, ok := shared.AsValidation(err)
	require.True(t, ok)
	assert.True(t, ve.Has("password"))

	require.NoError(t, u.SetPassword("correct horse"))
	assert.NotEqual(t, "correct horse", u.PasswordHash)
	assert.True(t, u.CheckPassword("correct horse"))
	assert.False(t, u.CheckPassword("wrong horse"))
}

func TestUser_Defaults(t *testing.T) {
	u := &User{Email: "  Jane.Doe@Example.COM "}
	u.Defaults()
	u.Normalize()

	assert.Equal(t, "Jane.Doe@example.com", u.Email)
	assert.Equal(t, "fr-FR", u.Locale)
	assert.Equal(t, "Europe/Paris", u.Timezone)
	assert.True(t, u.IsActive)
}

func TestLanguageRules(t *testing.T) {
	lang := func() *Language {
		l := &Language{Code: "FR", Name: "French", NativeName: "Français", DateFormat: "DD/MM/YYYY"}
		l.Defaults()
		l.Normalize()
		return l
	}

	t.Run("accepts a two letter code", func(t *testing.T) {
		l := lang()
		assert.Equal(t, "fr", l.Code)
		assert.NoError(t, LanguageRules.Validate(l, env()))
	})

	t.Run("rejects a locale code", func(t *testing.T) {
		l := lang()
		l.Code = "fr-fr"
		err := LanguageRules.Validate(l, env())
		ve, ok := shared.AsValidation(err)
		require.True(t, ok)
		assert.True(t, ve.Has("code"))
	})

	t.Run("rejects an inactive default", func(t *testing.T) {
		l := lang()
		l.IsDefault = true
		l.IsActive = false
		err := LanguageRules.Validate(l, env())
		ve, ok := shared.AsValidation(err)
		require.True(t, ok)
		assert.True(t, ve.Has("is_default"))
	})
}

func TestSystemConfigurationRules(t *testing.T) {
	cases := []struct {
		name      string
		valueType ValueType
		value     string
		valid     bool
	}{
		{"string", ValueTypeString, `"hello"`, true},
		{"integer", ValueTypeInteger, `42`, true},
		{"fractional integer", ValueTypeInteger, `4.2`, false},
		{"boolean", ValueTypeBoolean, `"yes"`, false},
		{"json object", ValueTypeJSON, `{"a":1}`, true},
		{"null", ValueTypeString, `null`, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := &SystemConfiguration{Key: "k", Category: "general", ValueType: tc.valueType}
			c.Defaults()
			c.ValueType = tc.valueType
			c.Value = datatypes.JSON(tc.value)
			err := SystemConfigurationRules.Validate(c, env())
			if tc.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestCurrencyRules(t *testing.T) {
	c := &Currency{Code: "eur", Name: "Euro", Symbol: "€"}
	c.Defaults()
	c.Normalize()
	require.NoError(t, CurrencyRules.Validate(c, env()))

	c.DecimalPlaces = 11
	c.ExchangeRate = decimal.NewFromInt(-1)
	ve, ok := shared.AsValidation(CurrencyRules.Validate(c, env()))
	require.True(t, ok)
	assert.True(t, ve.Has("decimal_places"))
	assert.True(t, ve.Has("exchange_rate"))
}

func TestPlanRules(t *testing.T) {
	p := &Plan{Name: "Pro", Description: "Pro plan", Price: decimal.NewFromInt(-5)}
	p.Defaults()
	ve, ok := shared.AsValidation(PlanRules.Validate(p, env()))
	require.True(t, ok)
	assert.True(t, ve.Has("price"))
}
