package resource

import (
	"encoding/json"
	"reflect"
	"time"

	"github.com/bizsuite/backend/internal/domain/core"
	"github.com/bizsuite/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Columns that change on every write and carry no information in a diff.
var unaudited = map[string]bool{
	"updated_at": true,
	"updated_by": true,
}

func auditEntry(p shared.Principal, action core.AuditAction, entityType string, entityID uuid.UUID, companyID *uuid.UUID, changes map[string]any, now time.Time) *core.AuditLog {
	entry := &core.AuditLog{
		CompanyID:  companyID,
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		Changes:    shared.MustJSON(changes),
		IPAddress:  p.IP,
		UserAgent:  p.UserAgent,
	}
	if p.UserID != uuid.Nil {
		user := p.UserID
		entry.UserID = &user
	}
	entry.InitDefaults()
	entry.StampCreated(p.UserID, now)
	return entry
}

// snapshot renders v as its JSON object so two states can be compared
// field by field.
func snapshot(v any) (map[string]any, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	out := map[string]any{}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// diff returns {"field": {"old": ..., "new": ...}} for every changed field.
func diff(before, after map[string]any) map[string]any {
	changes := map[string]any{}
	for k, nv := range after {
		if unaudited[k] {
			continue
		}
		ov, ok := before[k]
		if ok && reflect.DeepEqual(ov, nv) {
			continue
		}
		changes[k] = map[string]any{"old": ov, "new": nv}
	}
	for k, ov := range before {
		if _, ok := after[k]; !ok && !unaudited[k] {
			changes[k] = map[string]any{"old": ov, "new": nil}
		}
	}
	return changes
}
