package pricing

import (
	"errors"
	"testing"

	"github.com/quickcartlabs/quickcart-backend/pkg/money"
)

func TestAddLineInsertsAndMerges(t *testing.T) {
	cart := Cart{}

	cart, clamped, err := cart.AddLine("p1", 4800, 0, 2, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if clamped {
		t.Fatal("did not expect clamping")
	}

	cart, clamped, err = cart.AddLine("p1", 4800, 0, 3, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if clamped {
		t.Fatal("did not expect clamping")
	}

	line, ok := cart.Line("p1")
	if !ok {
		t.Fatal("expected line for p1")
	}
	if line.Quantity != 5 {
		t.Fatalf("expected merged quantity 5, got %d", line.Quantity)
	}
	if cart.ItemCount() != 5 {
		t.Fatalf("expected item count 5, got %d", cart.ItemCount())
	}
}

func TestAddLineClampsAtLimit(t *testing.T) {
	cart := Cart{}

	cart, clamped, err := cart.AddLine("p1", 4800, 0, 8, 10)
	if err != nil || clamped {
		t.Fatalf("unexpected state err=%v clamped=%v", err, clamped)
	}

	cart, clamped, err = cart.AddLine("p1", 4800, 0, 5, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !clamped {
		t.Fatal("expected clamp signal")
	}
	line, _ := cart.Line("p1")
	if line.Quantity != 10 {
		t.Fatalf("expected quantity clamped to 10, got %d", line.Quantity)
	}
}

func TestAddLineRejectsNonPositiveQuantity(t *testing.T) {
	cart := Cart{}
	if _, _, err := cart.AddLine("p1", 4800, 0, 0, 10); !errors.Is(err, ErrInvalidQuantity) {
		t.Fatalf("expected ErrInvalidQuantity, got %v", err)
	}
	if _, _, err := cart.AddLine("p1", 4800, 0, -3, 10); !errors.Is(err, ErrInvalidQuantity) {
		t.Fatalf("expected ErrInvalidQuantity, got %v", err)
	}
}

func TestSetQuantityRejectsAboveLimit(t *testing.T) {
	cart := Cart{}
	cart, _, _ = cart.AddLine("p1", 4800, 0, 4, 10)

	_, err := cart.SetQuantity("p1", 15, 10)
	var limitErr *QuantityLimitError
	if !errors.As(err, &limitErr) {
		t.Fatalf("expected QuantityLimitError, got %v", err)
	}
	if limitErr.Requested != 15 || limitErr.Limit != 10 {
		t.Fatalf("unexpected error fields: %+v", limitErr)
	}

	// rejected update leaves the cart unchanged
	line, _ := cart.Line("p1")
	if line.Quantity != 4 {
		t.Fatalf("expected quantity unchanged at 4, got %d", line.Quantity)
	}
}

func TestSetQuantityZeroRemovesLine(t *testing.T) {
	cart := Cart{}
	cart, _, _ = cart.AddLine("p1", 4800, 0, 4, 10)

	cart, err := cart.SetQuantity("p1", 0, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !cart.IsEmpty() {
		t.Fatal("expected empty cart after setting quantity to zero")
	}
}

func TestRemoveLineIsIdempotent(t *testing.T) {
	cart := Cart{}
	cart, _, _ = cart.AddLine("p1", 4800, 0, 1, 10)

	cart = cart.RemoveLine("p1")
	cart = cart.RemoveLine("p1")
	cart = cart.RemoveLine("never-added")
	if !cart.IsEmpty() {
		t.Fatal("expected empty cart")
	}
}

func TestSubtotalAdditivity(t *testing.T) {
	cart := Cart{}
	cart, _, _ = cart.AddLine("p1", 4800, 0, 2, 10)
	before := cart.Subtotal()

	cart, _, _ = cart.AddLine("p2", 6600, 0, 3, 10)
	if got := cart.Subtotal(); got != before+6600*3 {
		t.Fatalf("expected subtotal %d, got %d", before+6600*3, got)
	}

	cart = cart.RemoveLine("p2")
	if got := cart.Subtotal(); got != before {
		t.Fatalf("expected subtotal restored to %d, got %d", before, got)
	}
}

func TestSavingsOnlyCountsDiscountedLines(t *testing.T) {
	cart := Cart{}
	cart, _, _ = cart.AddLine("discounted", 4000, 5000, 2, 10)
	cart, _, _ = cart.AddLine("full-price", 6600, 0, 3, 10)

	if got := cart.Savings(); got != money.Cents(2000) {
		t.Fatalf("expected savings 2000, got %d", got)
	}
}

func TestCartValueSemantics(t *testing.T) {
	base := Cart{}
	base, _, _ = base.AddLine("p1", 4800, 0, 2, 10)

	modified, _, err := base.AddLine("p2", 6600, 0, 1, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(base.Lines()) != 1 {
		t.Fatalf("base cart mutated: %d lines", len(base.Lines()))
	}
	if len(modified.Lines()) != 2 {
		t.Fatalf("expected 2 lines in modified cart, got %d", len(modified.Lines()))
	}
}

func TestNewCartDropsEmptyLines(t *testing.T) {
	cart := NewCart(
		Line{ProductID: "p1", UnitPrice: 4800, Quantity: 2, MaxPerOrder: 10},
		Line{ProductID: "p2", UnitPrice: 6600, Quantity: 0, MaxPerOrder: 10},
	)
	if len(cart.Lines()) != 1 {
		t.Fatalf("expected stored snapshot to keep 1 line, got %d", len(cart.Lines()))
	}
}
