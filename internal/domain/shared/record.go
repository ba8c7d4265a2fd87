package shared

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// AuditedRecord carries the identity and audit fields shared by every
// persisted aggregate. Aggregates embed it by value. The timestamps come
// from the service clock, so GORM must not fill them.
type AuditedRecord struct {
	ID        uuid.UUID         `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time         `gorm:"not null;index;autoCreateTime:false" json:"created_at"`
	UpdatedAt time.Time         `gorm:"not null;autoUpdateTime:false" json:"updated_at"`
	CreatedBy *uuid.UUID        `gorm:"type:uuid;index" json:"created_by,omitempty"`
	UpdatedBy *uuid.UUID        `gorm:"type:uuid" json:"updated_by,omitempty"`
	IsActive  bool              `gorm:"not null" json:"is_active"`
	Metadata  datatypes.JSONMap `json:"metadata"`
}

// Audited is implemented by every aggregate through the embedded record.
type Audited interface {
	Audit() *AuditedRecord
}

// Audit returns the embedded record.
func (r *AuditedRecord) Audit() *AuditedRecord {
	return r
}

// InitDefaults prepares a fresh record before client values are applied.
func (r *AuditedRecord) InitDefaults() {
	r.IsActive = true
	if r.Metadata == nil {
		r.Metadata = datatypes.JSONMap{}
	}
}

// StampCreated assigns identity and creation audit fields.
func (r *AuditedRecord) StampCreated(by uuid.UUID, now time.Time) {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	r.CreatedAt = now
	r.UpdatedAt = now
	if by != uuid.Nil {
		r.CreatedBy = &by
		r.UpdatedBy = &by
	}
	if r.Metadata == nil {
		r.Metadata = datatypes.JSONMap{}
	}
}

// StampUpdated records a modification. UpdatedAt never precedes CreatedAt.
func (r *AuditedRecord) StampUpdated(by uuid.UUID, now time.Time) {
	if now.Before(r.CreatedAt) {
		now = r.CreatedAt
	}
	r.UpdatedAt = now
	if by != uuid.Nil {
		r.UpdatedBy = &by
	}
	if r.Metadata == nil {
		r.Metadata = datatypes.JSONMap{}
	}
}

// Restore copies the immutable fields of prev back onto r.
func (r *AuditedRecord) Restore(prev AuditedRecord) {
	r.ID = prev.ID
	r.CreatedAt = prev.CreatedAt
	r.CreatedBy = prev.CreatedBy
}
