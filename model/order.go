package model

import "time"

// Order describes a quantity of a single shape template requested against
// a material/thickness. Position on the shape template is ignored; only
// its kind and dimensions matter. Orders are read-only during optimization;
// the engine expands Quantity into individual placements internally.
type Order struct {
	ID        string
	Shape     Shape
	Quantity  int
	Priority  Priority
	Material  Material
	Thickness float64
	Tolerance float64

	// Optional metadata, carried through for reporting only.
	Customer  string
	DueDate   *time.Time
	UnitPrice float64
}

// Validate checks the invariants an Order must hold: positive quantity,
// a valid priority and material, non-negative tolerance, and a shape with
// positive area.
func (o Order) Validate() error {
	if o.ID == "" {
		return ValidationFailedError("order identifier is required")
	}
	if o.Quantity <= 0 {
		return InvalidDimensionsError("order " + o.ID + " must have a positive quantity")
	}
	if o.Shape.Area() <= 0 {
		return InvalidShapeError("order " + o.ID + " shape must have positive area")
	}
	if !o.Priority.Valid() {
		return ValidationFieldError("priority", "order "+o.ID+" has an unrecognized priority")
	}
	if !o.Material.Valid() {
		return ValidationFieldError("material", "order "+o.ID+" has an unrecognized material tag")
	}
	if o.Tolerance < 0 {
		return InvalidDimensionsError("order " + o.ID + " tolerance must be non-negative")
	}
	if o.Thickness <= 0 {
		return InvalidDimensionsError("order " + o.ID + " thickness must be positive")
	}
	return nil
}

// TotalArea is the combined area of every unit of this order (Quantity ×
// the shape's area).
func (o Order) TotalArea() float64 { return float64(o.Quantity) * o.Shape.Area() }

// CanBeFulfilledByStock reports whether this order's material/thickness
// are compatible with stock, and whether the order's shape (in either
// orientation, if allowRotation) fits the stock's footprint at all.
func (o Order) CanBeFulfilledByStock(stock Stock, allowRotation bool) bool {
	if !stock.CompatibleWith(o.Material, o.Thickness, o.Tolerance) {
		return false
	}
	if o.Shape.FitsInRectangle(stock.Width, stock.Height) {
		return true
	}
	if allowRotation && o.Shape.Kind == KindRectangle {
		rotated, err := o.Shape.WithRotation(90)
		if err == nil && rotated.FitsInRectangle(stock.Width, stock.Height) {
			return true
		}
	}
	return false
}

// DaysUntilDue returns the number of days between now and DueDate, and
// whether a DueDate was set at all.
func (o Order) DaysUntilDue(now time.Time) (days int, ok bool) {
	if o.DueDate == nil {
		return 0, false
	}
	return int(o.DueDate.Sub(now).Hours() / 24), true
}
