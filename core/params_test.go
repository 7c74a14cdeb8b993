package core

import (
	"errors"
	"testing"
)

func TestDefaultParamsMatchesDocumentedDefaults(t *testing.T) {
	p := DefaultParams()
	// Regression guard: MaxBinDensity previously defaulted to 0 (uncapped), which silently
	// disabled the crowded-bin force scale-down documented as a 5000 default.
	if p.MaxBinDensity != 5000 {
		t.Errorf("DefaultParams().MaxBinDensity = %v, want 5000", p.MaxBinDensity)
	}
	if p.WallBounceDamping != 1.0 {
		t.Errorf("DefaultParams().WallBounceDamping = %v, want 1.0", p.WallBounceDamping)
	}
	if err := ValidateParams(p); err != nil {
		t.Errorf("DefaultParams() must itself be valid, got: %v", err)
	}
}

func TestNewParamsAppliesOptionsOverDefaults(t *testing.T) {
	p, err := NewParams(
		WithParticleCount(2048),
		WithTypeCount(4),
		WithWorldSize(500, 300),
		WithBoundaryMode(BoundaryRepel),
		WithMaxBinDensity(9000),
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.NumParticles != 2048 || p.NumTypes != 4 {
		t.Errorf("particle/type count = %d/%d, want 2048/4", p.NumParticles, p.NumTypes)
	}
	if p.WorldWidth != 500 || p.WorldHeight != 300 {
		t.Errorf("world size = %vx%v, want 500x300", p.WorldWidth, p.WorldHeight)
	}
	if p.BoundaryMode != BoundaryRepel {
		t.Errorf("boundary mode = %v, want BoundaryRepel", p.BoundaryMode)
	}
	if p.MaxBinDensity != 9000 {
		t.Errorf("max bin density = %v, want 9000", p.MaxBinDensity)
	}
}

func TestNewParamsRejectsInvalidConfiguration(t *testing.T) {
	tests := []struct {
		name    string
		opts    []ParamsOption
		wantErr error
	}{
		{name: "too few particles", opts: []ParamsOption{WithParticleCount(1)}, wantErr: ErrParticleCount},
		{name: "too many particles", opts: []ParamsOption{WithParticleCount(MaxParticles + 1)}, wantErr: ErrParticleCount},
		{name: "zero types", opts: []ParamsOption{WithTypeCount(0)}, wantErr: ErrTypeCount},
		{name: "too many types", opts: []ParamsOption{WithTypeCount(MaxTypes + 1)}, wantErr: ErrTypeCount},
		{name: "zero world width", opts: []ParamsOption{WithWorldSize(0, 100)}, wantErr: ErrWorldSize},
		{name: "negative world height", opts: []ParamsOption{WithWorldSize(100, -1)}, wantErr: ErrWorldSize},
		{name: "friction above 1", opts: []ParamsOption{WithFriction(1.5)}, wantErr: ErrFriction},
		{name: "negative friction", opts: []ParamsOption{WithFriction(-0.1)}, wantErr: ErrFriction},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewParams(tc.opts...)
			if err == nil {
				t.Fatalf("expected an error")
			}
			if !errors.Is(err, tc.wantErr) {
				t.Errorf("error = %v, want wrapping %v", err, tc.wantErr)
			}
		})
	}
}

func TestToUniformPacksFieldsInWireOrder(t *testing.T) {
	p := Params{
		NumParticles:   10,
		NumTypes:       3,
		ForceFactor:    1.5,
		Friction:       0.1,
		RepelStrength:  2,
		MaxVelocity:    30,
		WorldWidth:     400,
		WorldHeight:    250,
		BoundaryMode:   BoundaryMirrorWrap,
		WallRepel:      0.5,
		ParticleSize:   3,
		DT:             1.0 / 30,
		MaxBinDensity:  1234,
		NeighborBudget: 64,
	}
	u := p.ToUniform()

	if u.NumParticles != p.NumParticles || u.NumTypes != p.NumTypes {
		t.Errorf("count fields mismatched: %+v", u)
	}
	if u.ForceFactor != p.ForceFactor || u.Friction != p.Friction {
		t.Errorf("force/friction fields mismatched: %+v", u)
	}
	if u.RepelStrength != p.RepelStrength || u.MaxVelocity != p.MaxVelocity {
		t.Errorf("repel/max velocity mismatched: %+v", u)
	}
	if u.WorldWidth != p.WorldWidth || u.WorldHeight != p.WorldHeight {
		t.Errorf("world size mismatched: %+v", u)
	}
	if u.BoundaryMode != uint32(p.BoundaryMode) {
		t.Errorf("boundary mode = %d, want %d", u.BoundaryMode, uint32(p.BoundaryMode))
	}
	if u.WallRepelStrength != p.WallRepel {
		t.Errorf("wall repel strength = %v, want %v (field renamed across the wire boundary)", u.WallRepelStrength, p.WallRepel)
	}
	if u.ParticleSize != p.ParticleSize || u.DT != p.DT {
		t.Errorf("particle size/dt mismatched: %+v", u)
	}
	if u.MaxBinDensity != p.MaxBinDensity || u.NeighborBudget != p.NeighborBudget {
		t.Errorf("max bin density/neighbor budget mismatched: %+v", u)
	}
}
