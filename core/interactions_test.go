package core

import (
	"math"
	"testing"
)

func TestSymmetrizeMakesMatrixSymmetric(t *testing.T) {
	m := NewInteractionMatrix(3)
	m.Set(0, 1, 0.8)
	m.Set(1, 0, -0.2)
	m.Set(0, 2, 0.4)
	m.Set(2, 0, 0.4)

	m.Symmetrize()

	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			if m.At(i, j) != m.At(j, i) {
				t.Errorf("At(%d,%d)=%v != At(%d,%d)=%v after Symmetrize", i, j, m.At(i, j), j, i, m.At(j, i))
			}
		}
	}
	if got, want := m.At(0, 1), float32(0.3); got != want {
		t.Errorf("At(0,1) = %v, want %v (average of 0.8 and -0.2)", got, want)
	}
}

func TestAntiSymmetrizeProducesOppositeSignPairsAndZeroDiagonal(t *testing.T) {
	m := NewInteractionMatrix(3)
	m.Set(0, 0, 0.9)
	m.Set(0, 1, 0.6)
	m.Set(1, 0, 0.2)

	m.AntiSymmetrize()

	for i := 0; i < 3; i++ {
		if m.At(i, i) != 0 {
			t.Errorf("diagonal At(%d,%d) = %v, want 0", i, i, m.At(i, i))
		}
	}
	if m.At(0, 1) != -m.At(1, 0) {
		t.Errorf("At(0,1)=%v should be -At(1,0)=%v", m.At(0, 1), m.At(1, 0))
	}
}

func TestValidateMatricesRejectsSizeMismatch(t *testing.T) {
	interaction := NewInteractionMatrix(2)
	radius := NewRadiusMatrix(3, 1, 10)
	if err := ValidateMatrices(2, interaction, radius); err == nil {
		t.Fatalf("expected error for mismatched radius matrix size")
	}
}

func TestValidateMatricesRejectsNonFiniteInteraction(t *testing.T) {
	interaction := NewInteractionMatrix(2)
	interaction.Set(0, 1, float32(math.NaN()))
	radius := NewRadiusMatrix(2, 1, 10)
	if err := ValidateMatrices(2, interaction, radius); err == nil {
		t.Fatalf("expected error for NaN interaction entry")
	}

	interaction = NewInteractionMatrix(2)
	interaction.Set(0, 1, float32(math.Inf(1)))
	if err := ValidateMatrices(2, interaction, radius); err == nil {
		t.Fatalf("expected error for +Inf interaction entry")
	}
}

func TestValidateMatricesRejectsNonFiniteRadius(t *testing.T) {
	interaction := NewInteractionMatrix(2)
	radius := NewRadiusMatrix(2, 1, 10)
	radius.Set(0, 1, RadiusPair{Min: float32(math.NaN()), Max: 10})
	if err := ValidateMatrices(2, interaction, radius); err == nil {
		t.Fatalf("expected error for NaN radius min")
	}
}

func TestValidateMatricesRejectsRadiusInvariantViolations(t *testing.T) {
	tests := []struct {
		name string
		pair RadiusPair
	}{
		{name: "min is zero", pair: RadiusPair{Min: 0, Max: 10}},
		{name: "min is negative", pair: RadiusPair{Min: -1, Max: 10}},
		{name: "min exceeds max", pair: RadiusPair{Min: 20, Max: 10}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			interaction := NewInteractionMatrix(2)
			radius := NewRadiusMatrix(2, 1, 10)
			radius.Set(0, 0, tc.pair)
			if err := ValidateMatrices(2, interaction, radius); err == nil {
				t.Fatalf("expected error for radius pair %+v", tc.pair)
			}
		})
	}
}

func TestValidateMatricesAcceptsWellFormedInput(t *testing.T) {
	interaction := NewInteractionMatrix(3)
	radius := NewRadiusMatrix(3, 5, 50)
	if err := ValidateMatrices(3, interaction, radius); err != nil {
		t.Fatalf("unexpected error for well-formed matrices: %v", err)
	}
}

func TestRadiusMatrixMaxRadius(t *testing.T) {
	radius := NewRadiusMatrix(2, 5, 10)
	radius.Set(1, 0, RadiusPair{Min: 5, Max: 99})
	if got := radius.MaxRadius(); got != 99 {
		t.Errorf("MaxRadius() = %v, want 99", got)
	}
}
