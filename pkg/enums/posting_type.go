package enums

// PostingType distinguishes the fulfillment channel an order arrived through.
type PostingType string

const (
	// PostingTypeWildberriesFBS marks fulfillment-by-seller orders.
	PostingTypeWildberriesFBS PostingType = "wildberries_fbs"
)

// String implements fmt.Stringer.
func (p PostingType) String() string {
	return string(p)
}

// IsValid reports whether the value is a known PostingType.
func (p PostingType) IsValid() bool {
	return p == PostingTypeWildberriesFBS
}
