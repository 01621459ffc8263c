package types

import "strings"

// Address is the shipping address snapshot stored on each order.
type Address struct {
	FullName   string `json:"fullName" validate:"required"`
	Phone      string `json:"phone" validate:"required"`
	Street     string `json:"street" validate:"required"`
	City       string `json:"city" validate:"required"`
	State      string `json:"state" validate:"required"`
	PostalCode string `json:"postalCode" validate:"required"`
	Country    string `json:"country"`
}

// requiredAddressFields lists the mandatory fields in validation order; the
// first missing one is reported.
var requiredAddressFields = []struct {
	name  string
	value func(Address) string
}{
	{"fullName", func(a Address) string { return a.FullName }},
	{"phone", func(a Address) string { return a.Phone }},
	{"street", func(a Address) string { return a.Street }},
	{"city", func(a Address) string { return a.City }},
	{"state", func(a Address) string { return a.State }},
	{"postalCode", func(a Address) string { return a.PostalCode }},
}

// FirstMissingField returns the name of the first required field that is
// empty, or "" when the address is complete. Country is not required; it is
// defaulted at order creation.
func (a Address) FirstMissingField() string {
	for _, field := range requiredAddressFields {
		if strings.TrimSpace(field.value(a)) == "" {
			return field.name
		}
	}
	return ""
}

// WithDefaultCountry returns a copy with Country set to fallback when blank.
func (a Address) WithDefaultCountry(fallback string) Address {
	if strings.TrimSpace(a.Country) == "" {
		a.Country = fallback
	}
	return a
}
