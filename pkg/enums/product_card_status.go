package enums

// ProductCardStatus tells whether a card has been filled from the catalog
// feed or only materialized as a placeholder from an order line.
type ProductCardStatus string

const (
	ProductCardStatusPending   ProductCardStatus = "pending"
	ProductCardStatusProcessed ProductCardStatus = "processed"
)

// String implements fmt.Stringer.
func (s ProductCardStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known ProductCardStatus.
func (s ProductCardStatus) IsValid() bool {
	return s == ProductCardStatusPending || s == ProductCardStatusProcessed
}
