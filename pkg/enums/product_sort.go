package enums

// ProductSort names the supported catalog list orderings.
type ProductSort string

const (
	ProductSortNewest    ProductSort = "newest"
	ProductSortPriceAsc  ProductSort = "price_asc"
	ProductSortPriceDesc ProductSort = "price_desc"
	ProductSortSales     ProductSort = "sales"
)

func (s ProductSort) IsValid() bool {
	switch s {
	case ProductSortNewest, ProductSortPriceAsc, ProductSortPriceDesc, ProductSortSales:
		return true
	}
	return false
}
