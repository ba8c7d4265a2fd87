package persistence

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm/clause"
)

func TestOrderClause(t *testing.T) {
	sortable := []string{"created_at", "name", "email"}
	col := func(name string, desc bool) clause.OrderByColumn {
		return clause.OrderByColumn{Column: clause.Column{Name: name}, Desc: desc}
	}

	tests := []struct {
		name  string
		field string
		dir   string
		want  []clause.OrderByColumn
	}{
		{"sortable field ascending", "name", "asc", []clause.OrderByColumn{col("name", false), col("id", false)}},
		{"direction is case insensitive", "name", " ASC ", []clause.OrderByColumn{col("name", false), col("id", false)}},
		{"empty direction sorts descending", "email", "", []clause.OrderByColumn{col("email", true), col("id", true)}},
		{"unknown direction sorts descending", "email", "sideways", []clause.OrderByColumn{col("email", true), col("id", true)}},
		{"unknown field uses fallback", "password", "asc", []clause.OrderByColumn{col("created_at", false), col("id", false)}},
		{"injection attempt uses fallback", "name; DROP TABLE customers;--", "asc", []clause.OrderByColumn{col("created_at", false), col("id", false)}},
		{"empty field uses fallback", "  ", "desc", []clause.OrderByColumn{col("created_at", true), col("id", true)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := orderClause(tt.field, tt.dir, sortable, "created_at")
			assert.Equal(t, tt.want, got.Columns)
		})
	}
}

func TestOrderClause_NoFallback(t *testing.T) {
	got := orderClause("", "asc", nil, "")
	assert.Equal(t, []clause.OrderByColumn{{Column: clause.Column{Name: "id"}}}, got.Columns)
}
