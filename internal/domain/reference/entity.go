// Package reference models the canonical master-data entities a conversation
// resolves free-text names against: customers, vendors, and items.
package reference

import "github.com/shopspring/decimal"

// EntityKind identifies which master-data table a lookup targets
type EntityKind string

const (
	EntityKindCustomer EntityKind = "customer"
	EntityKindVendor   EntityKind = "vendor"
	EntityKindItem     EntityKind = "item"
)

// IsValid checks if the kind is a recognized entity kind
func (k EntityKind) IsValid() bool {
	switch k {
	case EntityKindCustomer, EntityKindVendor, EntityKindItem:
		return true
	}
	return false
}

// String returns the string representation of the entity kind
func (k EntityKind) String() string {
	return string(k)
}

// ResolvedEntity is the transient result of a name lookup. It is not
// persisted; the conversation layer copies the fields it needs into the
// draft.
type ResolvedEntity struct {
	Kind EntityKind
	Code string
	Name string

	// UnitPrice is populated for items only; zero for customers and vendors.
	UnitPrice decimal.Decimal
}
