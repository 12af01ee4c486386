package catalog

import (
	"github.com/shopspring/decimal"
)

// Product lifecycle status as understood by the remote platform.
const (
	StatusActive   = "active"
	StatusDraft    = "draft"
	StatusArchived = "archived"
)

// Record is one feed entry after normalization. SKU is the stable unique key
// for the life of a sync relationship; a record without one cannot be
// synchronized.
type Record struct {
	SKU             string
	Title           string
	Price           decimal.Decimal
	CompareAtPrice  *decimal.Decimal // strike-through price, only meaningful above Price
	Inventory       int
	Status          string // active, draft, archived
	DescriptionHTML string
	Vendor          string
	ProductType     string
	Images          []string
	Options         []Option
	Tags            []string
	Metafields      []Metafield
}

// Option is a named, ordered list of variant option values.
type Option struct {
	Name   string
	Values []string
}

// Metafield is an auxiliary typed key/value attribute attached to a product.
type Metafield struct {
	Namespace string
	Key       string
	Value     string
	Type      string
}

// RemoteIdentity is the pair of platform-assigned identifiers corresponding
// to one SKU. It is created once by a successful product create and never
// locally mutated afterwards.
type RemoteIdentity struct {
	ProductID string
	VariantID string
}
