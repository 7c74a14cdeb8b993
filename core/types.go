package core

import "math"

// MaxTypes is the upper bound on distinct particle types (NT) a session may configure.
const MaxTypes = 16

// MinParticles and MaxParticles bound the particle count N accepted by a session.
const (
	MinParticles = 16
	MaxParticles = 1 << 20
)

// BoundaryMode selects the distance metric and edge behavior applied during the advance
// kernel and, symmetrically, the minimum-image adjustment applied during force computation.
type BoundaryMode uint32

const (
	// BoundaryRepel confines particles within the world rectangle, bouncing velocity at the walls.
	BoundaryRepel BoundaryMode = 0
	// BoundaryWrap teleports particles across the opposite edge with no mirrored render copies.
	BoundaryWrap BoundaryMode = 1
	// BoundaryMirrorWrap wraps position like BoundaryWrap but renders mirrored copies near edges.
	BoundaryMirrorWrap BoundaryMode = 2
	// BoundaryInfiniteWrap wraps position and renders every visible world tile in the viewport.
	BoundaryInfiniteWrap BoundaryMode = 3
)

func (m BoundaryMode) String() string {
	switch m {
	case BoundaryRepel:
		return "repel"
	case BoundaryWrap:
		return "wrap"
	case BoundaryMirrorWrap:
		return "mirror-wrap"
	case BoundaryInfiniteWrap:
		return "infinite-wrap"
	default:
		return "unknown"
	}
}

// Wraps reports whether the mode wraps position across world edges (as opposed to repelling).
func (m BoundaryMode) Wraps() bool {
	return m != BoundaryRepel
}

// ParticlePosType is the GPU wire layout for one particle's position and type: 16 bytes.
// Position is always 32-bit; type occupies the third word and the fourth word pads the
// struct to a 16-byte stride so storage buffer strides stay uniform-friendly.
type ParticlePosType struct {
	X, Y float32
	Type uint32
	_    uint32
}

// ParticleVel is the 32-bit-float GPU wire layout for one particle's velocity: 8 bytes.
type ParticleVel struct {
	VX, VY float32
}

// half is an IEEE 754 binary16 value stored as its raw bit pattern.
type half uint16

// floatToHalf converts a float32 to its nearest binary16 representation with round-to-nearest.
// There is no third-party half-float codec in the example pack's dependency surface, and the
// conversion is a self-contained bit-twiddling routine rather than a domain concern, so it is
// implemented directly against math.Float32bits rather than pulling in an extra dependency.
func floatToHalf(f float32) half {
	bits := math.Float32bits(f)
	sign := uint16((bits >> 16) & 0x8000)
	exp := int32((bits>>23)&0xff) - 127 + 15
	mant := bits & 0x7fffff

	switch {
	case exp <= 0:
		if exp < -10 {
			return half(sign)
		}
		mant |= 0x800000
		shift := uint(14 - exp)
		h := uint16(mant >> shift)
		rem, halfway := mant&(uint32(1)<<shift-1), uint32(1)<<(shift-1)
		if rem > halfway || (rem == halfway && h&1 == 1) {
			h++
		}
		return half(sign | h)
	case exp >= 0x1f:
		return half(sign | 0x7c00)
	default:
		h := uint16(exp)<<10 | uint16(mant>>13)
		if rem := mant & 0x1fff; rem > 0x1000 || (rem == 0x1000 && h&1 == 1) {
			h++
		}
		return half(sign | h)
	}
}

// halfToFloat expands a binary16 bit pattern back to float32.
func halfToFloat(h half) float32 {
	sign := uint32(h&0x8000) << 16
	exp := uint32(h>>10) & 0x1f
	mant := uint32(h & 0x3ff)

	switch exp {
	case 0:
		if mant == 0 {
			return math.Float32frombits(sign)
		}
		for mant&0x400 == 0 {
			mant <<= 1
			exp--
		}
		exp++
		mant &= 0x3ff
		exp = exp - 15 + 127
		return math.Float32frombits(sign | exp<<23 | mant<<13)
	case 0x1f:
		return math.Float32frombits(sign | 0x7f800000 | mant<<13)
	default:
		exp = exp - 15 + 127
		return math.Float32frombits(sign | exp<<23 | mant<<13)
	}
}

// ParticlePosTypeHalf is the half-precision-velocity variant's position layout. Position
// stays 32-bit per the precision rule; only velocity narrows, so this layout is identical
// to ParticlePosType and exists as a distinct name to keep the two buffer families from
// being interchanged by accident.
type ParticlePosTypeHalf = ParticlePosType

// ParticleVelHalf is the 16-bit-float GPU wire layout for one particle's velocity: 4 bytes.
// Pipeline does not use it: its velocity buffers always hold 32-bit ParticleVel values,
// whatever the device supports.
type ParticleVelHalf struct {
	VX, VY half
}

// NewParticleVelHalf packs a pair of float32 velocity components into half precision.
func NewParticleVelHalf(vx, vy float32) ParticleVelHalf {
	return ParticleVelHalf{VX: floatToHalf(vx), VY: floatToHalf(vy)}
}

// Float32 expands a half-precision velocity back to float32 components.
func (v ParticleVelHalf) Float32() (vx, vy float32) {
	return halfToFloat(v.VX), halfToFloat(v.VY)
}

// RGBA is a color channel quadruple in [0,1], matching the palette's GPU wire format.
type RGBA struct {
	R, G, B, A float32
}

// Palette is an NT-length table of render colors, one per particle type.
type Palette []RGBA

// Variant is an opaque identifier passed to the three generator interfaces. The core never
// inspects its contents; the catalog of named variants lives with the caller.
type Variant string
