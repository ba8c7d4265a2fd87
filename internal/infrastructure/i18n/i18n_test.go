package i18n

import (
	"testing"

	"github.com/bizsuite/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"golang.org/x/text/language"
)

func TestMatch(t *testing.T) {
	tr := New("en")
	tests := []struct {
		header string
		want   language.Tag
	}{
		{"", language.English},
		{"fr-FR,fr;q=0.9,en;q=0.8", language.French},
		{"fr-CA", language.French},
		{"en-GB", language.English},
		{"de-DE", language.English},
		{"not a header;;", language.English},
	}
	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			got := tr.Match(tt.header)
			base, _ := got.Base()
			wantBase, _ := tt.want.Base()
			assert.Equal(t, wantBase, base)
		})
	}
}

func TestMatch_FrenchFallback(t *testing.T) {
	tr := New("fr-FR")
	base, _ := tr.Match("de-DE").Base()
	assert.Equal(t, "fr", base.String())
}

func TestSprintf(t *testing.T) {
	tr := New("en")

	assert.Equal(t, "This field is required.", tr.Sprintf(language.English, "This field is required."))
	assert.Equal(t, "Ce champ est obligatoire.", tr.Sprintf(language.French, "This field is required."))
	assert.Equal(t, "Campaign créé avec succès.", tr.Sprintf(language.French, "%s created successfully.", "Campaign"))
	// Formats without a translation print unchanged.
	assert.Equal(t, "Something new.", tr.Sprintf(language.French, "Something new."))
}

func TestText(t *testing.T) {
	tr := New("en")

	assert.Equal(t, "Ce champ est obligatoire.", tr.Text(language.French, "This field is required."))
	assert.Equal(t, "Discount 10%", tr.Text(language.French, "Discount 10%"))
	assert.Equal(t, "100% %s", tr.Text(language.English, "100% %s"))
}

func TestViolation(t *testing.T) {
	tr := New("en")
	v := shared.Violation{Field: "name", Format: "Ensure this value has at most %s characters.", Args: []any{"200"}}

	assert.Equal(t, "Ensure this value has at most 200 characters.", tr.Violation(language.English, v))
	assert.Equal(t, "Assurez-vous que cette valeur comporte au plus 200 caractères.", tr.Violation(language.French, v))
}

func TestCatalogueFormatsKeepVerbs(t *testing.T) {
	for key, fr := range french {
		assert.Equal(t, verbs(key), verbs(fr), key)
	}
}

func verbs(s string) []string {
	var out []string
	for i := 0; i < len(s)-1; i++ {
		if s[i] == '%' {
			out = append(out, s[i:i+2])
			i++
		}
	}
	return out
}
