package core

import (
	"fmt"
	"math"
)

// InteractionMatrix is a row-major NTxNT table of signed attraction/repulsion strengths in
// [-1, 1]. Entry (i,j) is the force a type-j particle exerts on a type-i particle at the
// radius midpoint. Need not be symmetric.
type InteractionMatrix struct {
	NT     int
	Values []float32
}

// NewInteractionMatrix allocates a zeroed NTxNT matrix.
func NewInteractionMatrix(nt int) InteractionMatrix {
	return InteractionMatrix{NT: nt, Values: make([]float32, nt*nt)}
}

// At returns the strength a type-j particle exerts on a type-i particle.
func (m InteractionMatrix) At(i, j int) float32 {
	return m.Values[i*m.NT+j]
}

// Set assigns the strength a type-j particle exerts on a type-i particle.
func (m InteractionMatrix) Set(i, j int, v float32) {
	m.Values[i*m.NT+j] = v
}

// Symmetrize overwrites the matrix in place so that At(i,j) == At(j,i) for all pairs, by
// averaging each off-diagonal pair. Used by S4-class test fixtures and by generators that
// want reciprocal attraction without hand-authoring both halves of the table.
func (m InteractionMatrix) Symmetrize() {
	for i := 0; i < m.NT; i++ {
		for j := i + 1; j < m.NT; j++ {
			avg := (m.At(i, j) + m.At(j, i)) / 2
			m.Set(i, j, avg)
			m.Set(j, i, avg)
		}
	}
}

// AntiSymmetrize overwrites the matrix in place so that At(i,j) == -At(j,i), producing a
// predator/prey style asymmetry from an arbitrary starting matrix (the diagonal is zeroed,
// since a type cannot anti-symmetrically interact with itself).
func (m InteractionMatrix) AntiSymmetrize() {
	for i := 0; i < m.NT; i++ {
		m.Set(i, i, 0)
		for j := i + 1; j < m.NT; j++ {
			diff := (m.At(i, j) - m.At(j, i)) / 2
			m.Set(i, j, diff)
			m.Set(j, i, -diff)
		}
	}
}

// RadiusPair is one (min, max) interaction radius bound.
type RadiusPair struct {
	Min, Max float32
}

// RadiusMatrix is a row-major NTxNT table of (min_r, max_r) pairs.
type RadiusMatrix struct {
	NT     int
	Values []RadiusPair
}

// NewRadiusMatrix allocates an NTxNT radius matrix with every pair set to (min, max).
func NewRadiusMatrix(nt int, min, max float32) RadiusMatrix {
	v := make([]RadiusPair, nt*nt)
	for i := range v {
		v[i] = RadiusPair{Min: min, Max: max}
	}
	return RadiusMatrix{NT: nt, Values: v}
}

// At returns the radius pair for the (i,j) type combination.
func (m RadiusMatrix) At(i, j int) RadiusPair {
	return m.Values[i*m.NT+j]
}

// Set assigns the radius pair for the (i,j) type combination.
func (m RadiusMatrix) Set(i, j int, r RadiusPair) {
	m.Values[i*m.NT+j] = r
}

// MaxRadius returns the largest max_r over every type pair, the value cell_size must be
// greater than or equal to for the spatial index to stay correct.
func (m RadiusMatrix) MaxRadius() float32 {
	var max float32
	for _, r := range m.Values {
		if r.Max > max {
			max = r.Max
		}
	}
	return max
}

// ValidateMatrices checks the §3/§6 invariants that hold across an interaction matrix and its
// paired radius matrix: matching size, finite values, and 0 < min_r <= max_r everywhere. NaN
// and Inf are rejected outright — a generator bug that divides by zero must fail loudly at
// validation time rather than silently propagate into the force kernel.
func ValidateMatrices(nt int, interaction InteractionMatrix, radius RadiusMatrix) error {
	if interaction.NT != nt || len(interaction.Values) != nt*nt {
		return &ConfigError{Field: "InteractionMatrix", Err: fmt.Errorf("%w: interaction matrix is %dx%d, want %dx%d", ErrMatrixSize, interaction.NT, interaction.NT, nt, nt)}
	}
	if radius.NT != nt || len(radius.Values) != nt*nt {
		return &ConfigError{Field: "RadiusMatrix", Err: fmt.Errorf("%w: radius matrix is %dx%d, want %dx%d", ErrMatrixSize, radius.NT, radius.NT, nt, nt)}
	}
	for i, s := range interaction.Values {
		if math.IsNaN(float64(s)) || math.IsInf(float64(s), 0) {
			return &ConfigError{Field: "InteractionMatrix", Err: fmt.Errorf("%w: interaction[%d]=%v", ErrNonFinite, i, s)}
		}
	}
	for i, r := range radius.Values {
		if math.IsNaN(float64(r.Min)) || math.IsInf(float64(r.Min), 0) ||
			math.IsNaN(float64(r.Max)) || math.IsInf(float64(r.Max), 0) {
			return &ConfigError{Field: "RadiusMatrix", Err: fmt.Errorf("%w: radius[%d]=%v", ErrNonFinite, i, r)}
		}
		if !(r.Min > 0 && r.Min <= r.Max) {
			return &ConfigError{Field: "RadiusMatrix", Err: fmt.Errorf("%w: radius[%d]=%v", ErrRadiusInvariant, i, r)}
		}
	}
	return nil
}
