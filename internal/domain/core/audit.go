package core

import (
	"github.com/bizsuite/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// AuditAction is the kind of write recorded by an audit entry.
type AuditAction string

const (
	AuditCreate AuditAction = "create"
	AuditUpdate AuditAction = "update"
	AuditDelete AuditAction = "delete"
)

func (a AuditAction) IsValid() bool {
	switch a {
	case AuditCreate, AuditUpdate, AuditDelete:
		return true
	}
	return false
}

// AuditLog records one write. Entries of platform data carry no company.
type AuditLog struct {
	shared.AuditedRecord
	CompanyID  *uuid.UUID     `gorm:"type:uuid;index" json:"company_id,omitempty"`
	UserID     *uuid.UUID     `gorm:"type:uuid;index" json:"user_id,omitempty"`
	Action     AuditAction    `gorm:"type:varchar(50);not null" json:"action"`
	EntityType string         `gorm:"type:varchar(100);not null;index:idx_audit_entity,priority:1" json:"entity_type"`
	EntityID   uuid.UUID      `gorm:"type:uuid;not null;index:idx_audit_entity,priority:2" json:"entity_id"`
	Changes    datatypes.JSON `json:"changes"`
	IPAddress  string         `gorm:"type:varchar(45)" json:"ip_address"`
	UserAgent  string         `gorm:"type:text" json:"user_agent"`
}

func (AuditLog) TableName() string { return "audit_logs" }
