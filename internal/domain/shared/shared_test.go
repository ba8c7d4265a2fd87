package shared

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuditedRecord_Stamps(t *testing.T) {
	user := uuid.New()
	now := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)

	var r AuditedRecord
	r.InitDefaults()
	r.StampCreated(user, now)

	assert.NotEqual(t, uuid.Nil, r.ID)
	assert.True(t, r.IsActive)
	assert.Equal(t, now, r.CreatedAt)
	require.NotNil(t, r.CreatedBy)
	assert.Equal(t, user, *r.CreatedBy)
	assert.NotNil(t, r.Metadata)

	other := uuid.New()
	r.StampUpdated(other, now.Add(-time.Hour))
	assert.Equal(t, now, r.UpdatedAt, "updated_at never precedes created_at")
	assert.Equal(t, other, *r.UpdatedBy)
	assert.Equal(t, user, *r.CreatedBy)
}

func TestAuditedRecord_Restore(t *testing.T) {
	creator := uuid.New()
	prev := AuditedRecord{ID: uuid.New(), CreatedAt: time.Now(), CreatedBy: &creator}

	r := AuditedRecord{ID: uuid.New(), CreatedBy: nil}
	r.Restore(prev)

	assert.Equal(t, prev.ID, r.ID)
	assert.Equal(t, prev.CreatedAt, r.CreatedAt)
	assert.Equal(t, &creator, r.CreatedBy)
}

func TestPrincipal_RequireCompany(t *testing.T) {
	_, err := Principal{UserID: uuid.New()}.RequireCompany()
	ve, ok := AsValidation(err)
	require.True(t, ok)
	assert.Equal(t, CodeTenantBoundary, ve.Code)
	assert.Equal(t, "Your account is not associated with any company.", ve.Error())

	companyID := uuid.New()
	got, err := Principal{CompanyID: &companyID}.RequireCompany()
	require.NoError(t, err)
	assert.Equal(t, companyID, got)
}

func TestValidationError_Escalate(t *testing.T) {
	e := NewValidationError(CodeValidation)
	e.Escalate(CodeAlreadyExists)
	e.Escalate(CodeValidation)
	assert.Equal(t, CodeAlreadyExists, e.Code)

	e.Merge(BoundaryError("customer", "Select a valid choice."))
	assert.Equal(t, CodeTenantBoundary, e.Code)
	assert.True(t, e.Has("customer"))
	assert.Nil(t, NewValidationError(CodeValidation).OrNil())
}

func TestShapeOf(t *testing.T) {
	assert.Equal(t, ShapeAbsent, ShapeOf(nil))
	assert.Equal(t, ShapeNull, ShapeOf([]byte(" null ")))
	assert.Equal(t, ShapeObject, ShapeOf([]byte(`{"a":1}`)))
	assert.Equal(t, ShapeArray, ShapeOf([]byte(` []`)))
	assert.Equal(t, ShapeScalar, ShapeOf([]byte(`42`)))
}

func TestParseJSON(t *testing.T) {
	v, err := ParseJSON([]byte(`{"custom_query":"select 1","empty":""}`))
	require.NoError(t, err)
	assert.True(t, v.HasKey("custom_query"))
	assert.False(t, v.HasKey("empty"))
	assert.False(t, v.HasKey("missing"))

	arr, err := ParseJSON([]byte(`[]`))
	require.NoError(t, err)
	assert.Equal(t, ShapeArray, arr.Shape)
	assert.True(t, arr.Empty())
}

func TestFilter_Normalize(t *testing.T) {
	f := Filter{Page: 0, PageSize: 500}.Normalize()
	assert.Equal(t, 1, f.Page)
	assert.Equal(t, MaxPageSize, f.PageSize)
	assert.Equal(t, 0, f.Offset())

	p := NewPaginated[int](nil, 41, 1, 20)
	assert.Equal(t, 3, p.TotalPages)
	assert.NotNil(t, p.Items)
}
