package enums

// CartStatus is the lifecycle of a session cart. Carts start active and are
// marked converted by checkout; abandoned guest carts are never flagged, the
// cleanup sweep deletes them by age instead. Unlike the other enums here
// there is no parser: status is set internally and never read from input.
type CartStatus string

const (
	CartStatusActive    CartStatus = "active"
	CartStatusConverted CartStatus = "converted"
)

// String implements fmt.Stringer.
func (c CartStatus) String() string {
	return string(c)
}

// IsValid reports whether the value is a known CartStatus.
func (c CartStatus) IsValid() bool {
	switch c {
	case CartStatusActive, CartStatusConverted:
		return true
	}
	return false
}
