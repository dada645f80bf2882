package enums

// StockStatus summarizes variant availability for storefront listings.
type StockStatus string

const (
	StockStatusInStock    StockStatus = "IN_STOCK"
	StockStatusLowStock   StockStatus = "LOW_STOCK"
	StockStatusOutOfStock StockStatus = "OUT_OF_STOCK"
)

// String implements fmt.Stringer.
func (s StockStatus) String() string {
	return string(s)
}
