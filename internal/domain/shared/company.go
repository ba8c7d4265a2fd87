package shared

import "github.com/google/uuid"

// CompanyRef marks an aggregate as owned by a company. Records owned
// through a parent (an order item through its order) carry the same
// company id as the parent.
type CompanyRef struct {
	CompanyID uuid.UUID `gorm:"type:uuid;not null;index" json:"company_id"`
}

// CompanyOwned is implemented by aggregates embedding CompanyRef.
type CompanyOwned interface {
	OwnerCompany() *CompanyRef
}

// OwnerCompany returns the embedded reference.
func (c *CompanyRef) OwnerCompany() *CompanyRef {
	return c
}

// Principal is the authenticated actor of an operation. It is passed
// explicitly to every application service call.
type Principal struct {
	UserID      uuid.UUID
	CompanyID   *uuid.UUID
	AccessLevel string
	IsStaff     bool
	IP          string
	UserAgent   string
}

// HasCompany reports whether the principal acts on behalf of a company.
func (p Principal) HasCompany() bool {
	return p.CompanyID != nil && *p.CompanyID != uuid.Nil
}

// RequireCompany returns the acting company or a boundary error.
func (p Principal) RequireCompany() (uuid.UUID, error) {
	if !p.HasCompany() {
		return uuid.Nil, ErrNoCompany()
	}
	return *p.CompanyID, nil
}

// Reference is a foreign key held by an aggregate. Company scoped
// references must point at a record of the acting company.
type Reference struct {
	Field string
	// Model is a pointer to a zero value of the referenced aggregate.
	Model any
	// Table names the referenced table when Model would cause an import
	// cycle between aggregate packages.
	Table  string
	ID     *uuid.UUID
	Global bool
}

// Ref builds a company scoped reference.
func Ref(field string, model any, id *uuid.UUID) Reference {
	return Reference{Field: field, Model: model, ID: id}
}

// GlobalRef builds a reference to platform data shared by all companies.
func GlobalRef(field string, model any, id *uuid.UUID) Reference {
	return Reference{Field: field, Model: model, ID: id, Global: true}
}

// TableRef builds a company scoped reference to a table by name.
func TableRef(field, table string, id *uuid.UUID) Reference {
	return Reference{Field: field, Table: table, ID: id}
}

// Set reports whether the reference holds an id.
func (r Reference) Set() bool {
	return r.ID != nil && *r.ID != uuid.Nil
}

// Referencing is implemented by aggregates holding foreign keys.
type Referencing interface {
	References() []Reference
}

// ActorStamped is implemented by aggregates recording their acting user
// in a dedicated field (owner, executed_by). The field always equals
// created_by.
type ActorStamped interface {
	StampActor(user uuid.UUID)
}
