package model

import "testing"

func TestUnitScaleMultiplier(t *testing.T) {
	cases := []struct {
		scale UnitScale
		want  uint64
	}{
		{UnitScaleMilli, 1},
		{UnitScaleUnit, 1000},
		{UnitScaleKilo, 1000000},
		{UnitScaleMega, 1000000000},
	}
	for _, c := range cases {
		if got := c.scale.Multiplier(); got != c.want {
			t.Errorf("Multiplier(%d) = %d, want %d", c.scale, got, c.want)
		}
	}
}

func TestUnitScaleFrequencyChar(t *testing.T) {
	cases := []struct {
		scale UnitScale
		want  rune
	}{
		{UnitScaleMilli, 'm'},
		{UnitScaleUnit, ' '},
		{UnitScaleKilo, 'k'},
		{UnitScaleMega, 'M'},
	}
	for _, c := range cases {
		if got := c.scale.FrequencyChar(); got != c.want {
			t.Errorf("FrequencyChar(%d) = %q, want %q", c.scale, got, c.want)
		}
	}
}

func TestAutoSelectUnitScale(t *testing.T) {
	cases := []struct {
		raw       float64
		wantValue float64
		wantScale UnitScale
	}{
		{1500, 1.5, UnitScaleKilo},
		{0.5, 500, UnitScaleMilli},
		{200, 200, UnitScaleUnit},
		{1000, 1000, UnitScaleUnit},
		{2500000, 2.5, UnitScaleMega},
		// Clamped at MHz even for absurd input
		{2000000000000, 2000000, UnitScaleMega},
	}
	for _, c := range cases {
		value, scale := AutoSelectUnitScale(c.raw)
		if scale != c.wantScale {
			t.Errorf("AutoSelectUnitScale(%v) scale = %d, want %d", c.raw, scale, c.wantScale)
		}
		if diff := value - c.wantValue; diff > 1e-9 || diff < -1e-9 {
			t.Errorf("AutoSelectUnitScale(%v) value = %v, want %v", c.raw, value, c.wantValue)
		}
	}
}

func TestUnitScaleValidate(t *testing.T) {
	for s := UnitScale(0); s < unitScaleCount; s++ {
		if err := s.Validate(); err != nil {
			t.Errorf("Validate(%d) failed: %v", s, err)
		}
	}
	if err := UnitScale(4).Validate(); err == nil {
		t.Error("Validate(4) should fail")
	}
}
