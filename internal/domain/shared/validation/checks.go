package validation

import (
	"time"

	"github.com/bizsuite/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Messages shared by many rule tables.
const (
	MsgRequired       = "This field is required."
	MsgInvalidEmail   = "Enter a valid email address."
	MsgMustBeObject   = "This field must be a JSON object."
	MsgMustBeArray    = "This field must be a JSON array."
	MsgNonNegative    = "Ensure this value is greater than or equal to 0."
	MsgPositive       = "Ensure this value is greater than 0."
	MsgEndAfterStart  = "End date must be after start date."
	MsgMustBeFuture   = "This date must be in the future."
	MsgCannotBePast   = "This date cannot be in the past."
	MsgCannotBeFuture = "This date cannot be in the future."
)

// Tolerance is the largest accepted difference between a stored total
// and the total derived from its components.
var Tolerance = decimal.New(1, -2)

// Object accepts an absent, null or object document.
func Object(errs *shared.ValidationError, field string, raw []byte) {
	ObjectWith(errs, field, raw, MsgMustBeObject)
}

// ObjectWith is Object reporting format instead of the default message.
func ObjectWith(errs *shared.ValidationError, field string, raw []byte, format string) {
	switch shared.ShapeOf(raw) {
	case shared.ShapeAbsent, shared.ShapeNull, shared.ShapeObject:
		return
	}
	errs.Field(field, format)
}

// RequiredObject accepts a non-empty object document.
func RequiredObject(errs *shared.ValidationError, field string, raw []byte) {
	v, err := shared.ParseJSON(raw)
	if err != nil {
		errs.Field(field, MsgMustBeObject)
		return
	}
	switch v.Shape {
	case shared.ShapeAbsent, shared.ShapeNull:
		errs.Field(field, MsgRequired)
	case shared.ShapeObject:
		if v.Empty() {
			errs.Field(field, MsgRequired)
		}
	default:
		errs.Field(field, MsgMustBeObject)
	}
}

// Array accepts an absent, null or array document. An empty array passes.
func Array(errs *shared.ValidationError, field string, raw []byte) {
	ArrayWith(errs, field, raw, MsgMustBeArray)
}

// ArrayWith is Array reporting format instead of the default message.
func ArrayWith(errs *shared.ValidationError, field string, raw []byte, format string) {
	switch shared.ShapeOf(raw) {
	case shared.ShapeAbsent, shared.ShapeNull, shared.ShapeArray:
		return
	}
	errs.Field(field, format)
}

// RequiredArray accepts a non-empty array document.
func RequiredArray(errs *shared.ValidationError, field string, raw []byte) {
	v, err := shared.ParseJSON(raw)
	if err != nil {
		errs.Field(field, MsgMustBeArray)
		return
	}
	switch v.Shape {
	case shared.ShapeAbsent, shared.ShapeNull:
		errs.Field(field, MsgRequired)
	case shared.ShapeArray:
		if v.Empty() {
			errs.Field(field, MsgRequired)
		}
	default:
		errs.Field(field, MsgMustBeArray)
	}
}

// EmailList accepts an array whose items are all valid email strings.
func EmailList(errs *shared.ValidationError, field string, raw []byte) {
	v, err := shared.ParseJSON(raw)
	if err != nil || (v.Shape != shared.ShapeArray && v.Shape != shared.ShapeAbsent && v.Shape != shared.ShapeNull) {
		errs.Field(field, MsgMustBeArray)
		return
	}
	for _, item := range v.Array {
		s, ok := item.(string)
		if !ok || !IsEmail(s) {
			errs.Field(field, "Invalid email address: %v", item)
			return
		}
	}
}

// NonNegative rejects values below zero.
func NonNegative(errs *shared.ValidationError, field string, d decimal.Decimal) {
	if d.IsNegative() {
		errs.Field(field, MsgNonNegative)
	}
}

// NonNegativeInt rejects values below zero.
func NonNegativeInt(errs *shared.ValidationError, field string, n int) {
	if n < 0 {
		errs.Field(field, MsgNonNegative)
	}
}

// Positive rejects values at or below zero.
func Positive(errs *shared.ValidationError, field string, d decimal.Decimal) {
	if !d.IsPositive() {
		errs.Field(field, MsgPositive)
	}
}

// PositiveInt rejects values at or below zero.
func PositiveInt(errs *shared.ValidationError, field string, n int) {
	if n <= 0 {
		errs.Field(field, MsgPositive)
	}
}

// IntRange rejects values outside [lo, hi].
func IntRange(errs *shared.ValidationError, field string, n, lo, hi int) {
	if n < lo || n > hi {
		errs.Field(field, "Ensure this value is between %d and %d.", lo, hi)
	}
}

// DecimalRange rejects values outside [lo, hi].
func DecimalRange(errs *shared.ValidationError, field string, d decimal.Decimal, lo, hi int64) {
	if d.LessThan(decimal.NewFromInt(lo)) || d.GreaterThan(decimal.NewFromInt(hi)) {
		errs.Field(field, "Ensure this value is between %d and %d.", lo, hi)
	}
}

// Percentage rejects values outside [0, 100].
func Percentage(errs *shared.ValidationError, field string, d decimal.Decimal) {
	DecimalRange(errs, field, d, 0, 100)
}

// Rating rejects values outside [1, 5].
func Rating(errs *shared.ValidationError, field string, n int) {
	IntRange(errs, field, n, 1, 5)
}

func lettersOnly(s string, n int) bool {
	if len(s) != n {
		return false
	}
	for _, r := range s {
		if (r < 'a' || r > 'z') && (r < 'A' || r > 'Z') {
			return false
		}
	}
	return true
}

// CurrencyCode requires exactly three letters. Blank values are left to
// the required tag.
func CurrencyCode(errs *shared.ValidationError, field, code string) {
	if code != "" && !lettersOnly(code, 3) {
		errs.Field(field, "Currency code must be exactly 3 letters.")
	}
}

// LanguageCode requires exactly two letters.
func LanguageCode(errs *shared.ValidationError, field, code string) {
	if code != "" && !lettersOnly(code, 2) {
		errs.Field(field, "Language code must be exactly 2 letters.")
	}
}

// CountryCode requires exactly two letters.
func CountryCode(errs *shared.ValidationError, field, code string) {
	if code != "" && !lettersOnly(code, 2) {
		errs.Field(field, "Country code must be exactly 2 letters.")
	}
}

// Digits requires a string made of ASCII digits only.
func Digits(errs *shared.ValidationError, field, s string) {
	for _, r := range s {
		if r < '0' || r > '9' {
			errs.Field(field, "This field must contain only digits.")
			return
		}
	}
}

// After requires end to be strictly after start. Missing dates pass.
func After(errs *shared.ValidationError, field string, start, end *time.Time, format string) {
	if start == nil || end == nil || start.IsZero() || end.IsZero() {
		return
	}
	if !end.After(*start) {
		errs.Field(field, format)
	}
}

// NotAfter requires a to be at or before b. Missing dates pass.
func NotAfter(errs *shared.ValidationError, field string, a, b *time.Time, format string) {
	if a == nil || b == nil || a.IsZero() || b.IsZero() {
		return
	}
	if a.After(*b) {
		errs.Field(field, format)
	}
}

// Future requires t to be after now. It applies on create only, so
// records do not become invalid as time passes.
func Future(errs *shared.ValidationError, env *Env, field string, t *time.Time) {
	if !env.Creating || t == nil || t.IsZero() {
		return
	}
	if !t.After(env.Now) {
		errs.Field(field, MsgMustBeFuture)
	}
}

// NotPast requires t to be at or after now, on create only.
func NotPast(errs *shared.ValidationError, env *Env, field string, t *time.Time) {
	if !env.Creating || t == nil || t.IsZero() {
		return
	}
	if t.Before(env.Now) {
		errs.Field(field, MsgCannotBePast)
	}
}

// NotFuture requires t to be at or before now.
func NotFuture(errs *shared.ValidationError, env *Env, field string, t *time.Time) {
	if t == nil || t.IsZero() {
		return
	}
	if t.After(env.Now) {
		errs.Field(field, MsgCannotBeFuture)
	}
}

// Matches requires actual to equal expected within Tolerance.
func Matches(errs *shared.ValidationError, field string, expected, actual decimal.Decimal, format string) {
	if expected.Sub(actual).Abs().GreaterThan(Tolerance) {
		errs.Field(field, format, expected.StringFixed(2))
	}
}

// RequiredWhen records format on field when cond holds and the value is
// missing.
func RequiredWhen(errs *shared.ValidationError, cond, present bool, field, format string) {
	if cond && !present {
		errs.Field(field, format)
	}
}
