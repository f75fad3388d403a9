package model

import "testing"

func TestStockValidate(t *testing.T) {
	good := Stock{ID: "s1", Width: 1000, Height: 500, Thickness: 5, Material: Glass}
	if err := good.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cases := []Stock{
		{ID: "", Width: 1000, Height: 500, Thickness: 5, Material: Glass},
		{ID: "s1", Width: 0, Height: 500, Thickness: 5, Material: Glass},
		{ID: "s1", Width: 1000, Height: 500, Thickness: 0, Material: Glass},
		{ID: "s1", Width: 1000, Height: 500, Thickness: 5, Material: "unobtainium"},
	}
	for i, c := range cases {
		if err := c.Validate(); err == nil {
			t.Errorf("case %d: expected validation error", i)
		}
	}
}

func TestStockCompatibleWith(t *testing.T) {
	s := Stock{ID: "s1", Width: 1000, Height: 500, Thickness: 5, Material: Metal}
	if !s.CompatibleWith(Metal, 5.4, 0.5) {
		t.Error("expected compatible within tolerance")
	}
	if s.CompatibleWith(Metal, 6, 0.5) {
		t.Error("expected incompatible outside tolerance")
	}
	if s.CompatibleWith(Glass, 5, 0.5) {
		t.Error("expected incompatible on material mismatch")
	}
}

func TestStockAreaConversions(t *testing.T) {
	s := Stock{Width: 1000, Height: 1000}
	if s.Area() != 1_000_000 {
		t.Errorf("Area() = %v, want 1_000_000", s.Area())
	}
	if s.AreaInSquareMeters() != 1.0 {
		t.Errorf("AreaInSquareMeters() = %v, want 1.0", s.AreaInSquareMeters())
	}
}
