package core

import "fmt"

// Params holds the host-side simulation parameters for one session. Uploaded to the GPU each
// frame as the 80-byte ParamsUniform (see ToUniform). Construct with NewParams; the zero value
// is not a valid configuration.
type Params struct {
	NumParticles uint32
	NumTypes     uint32

	ForceFactor    float32
	Friction       float32
	RepelStrength  float32
	MaxVelocity    float32
	WorldWidth     float32
	WorldHeight    float32
	BoundaryMode   BoundaryMode
	WallRepel      float32
	ParticleSize   float32
	DT             float32
	MaxBinDensity  float32
	NeighborBudget uint32

	// WallBounceDamping scales the reflected velocity at a repel-mode wall in the CPU reference
	// Advance; 1.0 reproduces the spec's literal bounce (v.x = |v.x|). ParamsUniform does not
	// carry it, so the GPU advance kernel always reflects at full speed. Defaults to 1.0.
	WallBounceDamping float32
}

// ParamsUniform is the 80-byte, 16-byte-aligned GPU wire layout for Params, in the exact field
// order the compute and render shaders expect.
type ParamsUniform struct {
	NumParticles uint32
	NumTypes     uint32
	ForceFactor  float32
	Friction     float32

	RepelStrength float32
	MaxVelocity   float32
	WorldWidth    float32
	WorldHeight   float32

	BoundaryMode       uint32
	WallRepelStrength  float32
	ParticleSize       float32
	DT                 float32

	MaxBinDensity  float32
	NeighborBudget uint32
	_              [2]uint32

	_ [4]uint32
}

// ToUniform packs Params into its GPU wire representation.
func (p Params) ToUniform() ParamsUniform {
	return ParamsUniform{
		NumParticles:      p.NumParticles,
		NumTypes:          p.NumTypes,
		ForceFactor:       p.ForceFactor,
		Friction:          p.Friction,
		RepelStrength:     p.RepelStrength,
		MaxVelocity:       p.MaxVelocity,
		WorldWidth:        p.WorldWidth,
		WorldHeight:       p.WorldHeight,
		BoundaryMode:      uint32(p.BoundaryMode),
		WallRepelStrength: p.WallRepel,
		ParticleSize:      p.ParticleSize,
		DT:                p.DT,
		MaxBinDensity:     p.MaxBinDensity,
		NeighborBudget:    p.NeighborBudget,
	}
}

// DefaultParams returns a Params with values reasonable for an on-screen session: no caller
// is required to specify every field, only the ones that matter for their scenario.
func DefaultParams() Params {
	return Params{
		NumParticles:      4096,
		NumTypes:          6,
		ForceFactor:       1.0,
		Friction:          0.05,
		RepelStrength:     3.0,
		MaxVelocity:       40.0,
		WorldWidth:        1000,
		WorldHeight:       1000,
		BoundaryMode:      BoundaryWrap,
		WallRepel:         0,
		ParticleSize:      2.0,
		DT:                1.0 / 60.0,
		MaxBinDensity:     5000,
		NeighborBudget:    0,
		WallBounceDamping: 1.0,
	}
}

// ParamsOption configures a Params during construction via NewParams.
type ParamsOption func(*Params)

// NewParams builds a Params starting from DefaultParams and applying opts in order, then
// validates the result. Following the project-wide functional-options convention, options
// are named WithX and each sets one field, except WithWorldSize, which sets both world
// dimensions.
func NewParams(opts ...ParamsOption) (Params, error) {
	p := DefaultParams()
	for _, opt := range opts {
		opt(&p)
	}
	if err := ValidateParams(p); err != nil {
		return Params{}, err
	}
	return p, nil
}

func WithParticleCount(n uint32) ParamsOption {
	return func(p *Params) { p.NumParticles = n }
}

func WithTypeCount(nt uint32) ParamsOption {
	return func(p *Params) { p.NumTypes = nt }
}

func WithForceFactor(f float32) ParamsOption {
	return func(p *Params) { p.ForceFactor = f }
}

func WithFriction(f float32) ParamsOption {
	return func(p *Params) { p.Friction = f }
}

func WithRepelStrength(s float32) ParamsOption {
	return func(p *Params) { p.RepelStrength = s }
}

func WithMaxVelocity(v float32) ParamsOption {
	return func(p *Params) { p.MaxVelocity = v }
}

func WithWorldSize(w, h float32) ParamsOption {
	return func(p *Params) { p.WorldWidth = w; p.WorldHeight = h }
}

func WithBoundaryMode(m BoundaryMode) ParamsOption {
	return func(p *Params) { p.BoundaryMode = m }
}

func WithWallRepelStrength(s float32) ParamsOption {
	return func(p *Params) { p.WallRepel = s }
}

func WithParticleSize(s float32) ParamsOption {
	return func(p *Params) { p.ParticleSize = s }
}

func WithDT(dt float32) ParamsOption {
	return func(p *Params) { p.DT = dt }
}

func WithMaxBinDensity(d float32) ParamsOption {
	return func(p *Params) { p.MaxBinDensity = d }
}

func WithNeighborBudget(b uint32) ParamsOption {
	return func(p *Params) { p.NeighborBudget = b }
}

func WithWallBounceDamping(d float32) ParamsOption {
	return func(p *Params) { p.WallBounceDamping = d }
}

// ValidateParams enforces the §6 validation rules. A Pipeline is never built from a Params
// that fails this check.
func ValidateParams(p Params) error {
	if p.NumParticles < MinParticles || p.NumParticles > MaxParticles {
		return &ConfigError{Field: "NumParticles", Err: fmt.Errorf("%w: got %d, want [%d, %d]", ErrParticleCount, p.NumParticles, MinParticles, MaxParticles)}
	}
	if p.NumTypes < 1 || p.NumTypes > MaxTypes {
		return &ConfigError{Field: "NumTypes", Err: fmt.Errorf("%w: got %d, want [1, %d]", ErrTypeCount, p.NumTypes, MaxTypes)}
	}
	if p.WorldWidth <= 0 || p.WorldHeight <= 0 {
		return &ConfigError{Field: "WorldWidth/WorldHeight", Err: fmt.Errorf("%w: got %gx%g", ErrWorldSize, p.WorldWidth, p.WorldHeight)}
	}
	if p.Friction < 0 || p.Friction > 1 {
		return &ConfigError{Field: "Friction", Err: fmt.Errorf("%w: got %g", ErrFriction, p.Friction)}
	}
	return nil
}
