package types

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// VariantSelection maps a variant group name to the chosen option value,
// e.g. {"Size": "M", "Color": "Blue"}. The zero value (nil) means no
// variant was selected.
type VariantSelection map[string]string

// Signature serializes the selection into a canonical, order-independent
// key: entries sorted by group name and joined as "k=v;k=v". Two selections
// with the same pairs always produce the same signature, which is the merge
// identity for cart line items.
func (v VariantSelection) Signature() string {
	if len(v) == 0 {
		return ""
	}
	keys := make([]string, 0, len(v))
	for k := range v {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for i, k := range keys {
		if i > 0 {
			b.WriteByte(';')
		}
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(v[k])
	}
	return b.String()
}

// Equal reports whether two selections contain exactly the same pairs,
// independent of map iteration order.
func (v VariantSelection) Equal(other VariantSelection) bool {
	if len(v) != len(other) {
		return false
	}
	for k, val := range v {
		if other[k] != val {
			return false
		}
	}
	return true
}

// VariantOption is one selectable value inside a variant group, optionally
// carrying its own price and stock.
type VariantOption struct {
	Value string           `json:"value"`
	Price *decimal.Decimal `json:"price,omitempty"`
	Stock *int             `json:"stock,omitempty"`
}

// VariantGroup is a named option group on a product, e.g. Size or Color.
type VariantGroup struct {
	Name    string          `json:"name"`
	Options []VariantOption `json:"options"`
}

// VariantGroups is the ordered list of variant groups on a product.
type VariantGroups []VariantGroup
