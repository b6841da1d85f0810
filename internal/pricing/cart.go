package pricing

import "github.com/quickcartlabs/quickcart-backend/pkg/money"

// Line is one product's entry in a cart. Prices are snapshots taken when the
// line was created; OriginalPrice is zero when the product carries no
// strike-through reference price.
type Line struct {
	ProductID     string
	UnitPrice     money.Cents
	OriginalPrice money.Cents
	Quantity      int
	MaxPerOrder   int
}

// Cart is an ordered collection of lines, unique by product ID. All
// operations take and return cart values; nothing mutates in place, so a
// rejected operation leaves the caller's cart untouched.
type Cart struct {
	lines []Line
}

// NewCart builds a cart from existing lines, e.g. when rehydrating a stored
// snapshot. Lines with non-positive quantity are dropped.
func NewCart(lines ...Line) Cart {
	kept := make([]Line, 0, len(lines))
	for _, l := range lines {
		if l.Quantity <= 0 {
			continue
		}
		if l.MaxPerOrder <= 0 {
			l.MaxPerOrder = 1
		}
		kept = append(kept, l)
	}
	return Cart{lines: kept}
}

func (c Cart) clone() Cart {
	lines := make([]Line, len(c.lines))
	copy(lines, c.lines)
	return Cart{lines: lines}
}

func (c Cart) indexOf(productID string) int {
	for i, l := range c.lines {
		if l.ProductID == productID {
			return i
		}
	}
	return -1
}

// AddLine merges quantity into an existing line or inserts a new one,
// clamping the resulting quantity to maxQuantity. The returned bool reports
// whether clamping occurred; it is informational, not an error.
func (c Cart) AddLine(productID string, unitPrice, originalPrice money.Cents, quantity, maxQuantity int) (Cart, bool, error) {
	if quantity <= 0 {
		return c, false, ErrInvalidQuantity
	}
	if maxQuantity <= 0 {
		maxQuantity = 1
	}

	next := c.clone()
	if i := next.indexOf(productID); i >= 0 {
		requested := next.lines[i].Quantity + quantity
		clamped := requested > maxQuantity
		if clamped {
			requested = maxQuantity
		}
		next.lines[i].Quantity = requested
		next.lines[i].MaxPerOrder = maxQuantity
		return next, clamped, nil
	}

	clamped := quantity > maxQuantity
	if clamped {
		quantity = maxQuantity
	}
	next.lines = append(next.lines, Line{
		ProductID:     productID,
		UnitPrice:     unitPrice,
		OriginalPrice: originalPrice,
		Quantity:      quantity,
		MaxPerOrder:   maxQuantity,
	})
	return next, clamped, nil
}

// SetQuantity sets a line's quantity exactly. A non-positive quantity removes
// the line; a quantity above maxQuantity is rejected with QuantityLimitError
// and the cart is returned unchanged.
func (c Cart) SetQuantity(productID string, quantity, maxQuantity int) (Cart, error) {
	if quantity <= 0 {
		return c.RemoveLine(productID), nil
	}
	if maxQuantity <= 0 {
		maxQuantity = 1
	}
	if quantity > maxQuantity {
		return c, &QuantityLimitError{ProductID: productID, Requested: quantity, Limit: maxQuantity}
	}

	next := c.clone()
	i := next.indexOf(productID)
	if i < 0 {
		return c, nil
	}
	next.lines[i].Quantity = quantity
	next.lines[i].MaxPerOrder = maxQuantity
	return next, nil
}

// RemoveLine removes a product's line. Removing an absent line is a no-op.
func (c Cart) RemoveLine(productID string) Cart {
	i := c.indexOf(productID)
	if i < 0 {
		return c
	}
	next := c.clone()
	next.lines = append(next.lines[:i], next.lines[i+1:]...)
	return next
}

// Line returns the line for a product, if present.
func (c Cart) Line(productID string) (Line, bool) {
	if i := c.indexOf(productID); i >= 0 {
		return c.lines[i], true
	}
	return Line{}, false
}

// Lines returns a copy of the cart's lines in insertion order.
func (c Cart) Lines() []Line {
	lines := make([]Line, len(c.lines))
	copy(lines, c.lines)
	return lines
}

// IsEmpty reports whether the cart has no lines.
func (c Cart) IsEmpty() bool {
	return len(c.lines) == 0
}

// ItemCount is the total quantity across all lines.
func (c Cart) ItemCount() int {
	count := 0
	for _, l := range c.lines {
		count += l.Quantity
	}
	return count
}

// Subtotal is the sum of unit price times quantity across all lines.
func (c Cart) Subtotal() money.Cents {
	var sum money.Cents
	for _, l := range c.lines {
		sum += l.UnitPrice.MulInt(l.Quantity)
	}
	return sum
}

// Savings is the sum of per-line discounts versus each line's original
// reference price. Lines without an original price contribute nothing.
func (c Cart) Savings() money.Cents {
	var sum money.Cents
	for _, l := range c.lines {
		if l.OriginalPrice > l.UnitPrice {
			sum += (l.OriginalPrice - l.UnitPrice).MulInt(l.Quantity)
		}
	}
	return sum
}
