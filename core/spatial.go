package core

import "math"

// SpatialParams is the 16-byte GPU wire layout for the derived grid geometry.
type SpatialParams struct {
	NumParticles uint32
	CellSize     float32
	GridWidth    uint32
	GridHeight   uint32
}

// DeriveSpatialParams computes the grid geometry for a world of size (w, h) given the largest
// interaction radius present in a session's radius matrix. cell_size is pinned to exactly
// maxRadius when maxRadius > 0 (the tightest value that still satisfies the §3 precondition
// cell_size >= max(max_r)); callers who want slack can round it up before calling.
func DeriveSpatialParams(n uint32, w, h, maxRadius float32) (SpatialParams, error) {
	if maxRadius <= 0 {
		return SpatialParams{}, &ConfigError{Field: "RadiusMatrix.MaxRadius", Err: ErrCellSizeTooSmall}
	}
	gridW := uint32(math.Ceil(float64(w / maxRadius)))
	gridH := uint32(math.Ceil(float64(h / maxRadius)))
	if gridW == 0 {
		gridW = 1
	}
	if gridH == 0 {
		gridH = 1
	}
	return SpatialParams{
		NumParticles: n,
		CellSize:     maxRadius,
		GridWidth:    gridW,
		GridHeight:   gridH,
	}, nil
}

// BinIndex computes the flat bin index for a world position per §4.1. Clamping keeps the
// result valid even for a particle momentarily outside the world (numerical drift before the
// next advance's boundary clamp runs).
func BinIndex(x, y, cellSize float32, gridW, gridH uint32) uint32 {
	bx := clampInt(int32(math.Floor(float64(x/cellSize))), 0, int32(gridW)-1)
	by := clampInt(int32(math.Floor(float64(y/cellSize))), 0, int32(gridH)-1)
	return uint32(by)*gridW + uint32(bx)
}

func clampInt(v, lo, hi int32) int32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// SpatialIndex is the core-owned scratch produced each frame by BuildSpatialIndex: per-bin
// counts/offsets and a sorted mirror of the position/type and velocity buffers, in bin-major
// order. Reset every frame; never read across frames.
type SpatialIndex struct {
	Offsets   []uint32 // length W_bins*H_bins + 1, exclusive prefix sum
	SortedPos []ParticlePosType
	SortedVel []ParticleVel
}

// BuildSpatialIndex is the pure-Go reference implementation of the five-stage spatial index
// pipeline in §4.1 (clear, count, prefix-sum, counter reset, sort). It mirrors the WGSL
// dispatch sequence step for step, including the Hillis-Steele scan, so CPU-side tests can
// assert the same invariants the compute shaders must satisfy (§8 properties 1-3).
func BuildSpatialIndex(pos []ParticlePosType, vel []ParticleVel, sp SpatialParams) SpatialIndex {
	n := len(pos)
	numBins := int(sp.GridWidth) * int(sp.GridHeight)

	// 1. Clear.
	counts := make([]uint32, numBins+1)

	// 2. Count, with the +1 shift baked in directly.
	bins := make([]uint32, n)
	for i := 0; i < n; i++ {
		b := BinIndex(pos[i].X, pos[i].Y, sp.CellSize, sp.GridWidth, sp.GridHeight)
		bins[i] = b
		counts[b+1]++
	}

	// 3. Hillis-Steele inclusive scan, ping-ponging between two buffers.
	length := len(counts)
	a := append([]uint32(nil), counts...)
	b := make([]uint32, length)
	passes := int(math.Ceil(math.Log2(float64(length))))
	for k := 0; k < passes; k++ {
		shift := 1 << k
		for i := 0; i < length; i++ {
			if i >= shift {
				b[i] = a[i] + a[i-shift]
			} else {
				b[i] = a[i]
			}
		}
		a, b = b, a
	}
	offsets := a // exclusive prefix offsets array

	// 4. Reset per-bin counters, reusing the storage as an atomic write cursor.
	cursors := make([]uint32, numBins)

	// 5. Sort: scatter into bin-major order.
	sortedPos := make([]ParticlePosType, n)
	sortedVel := make([]ParticleVel, n)
	for i := 0; i < n; i++ {
		b := bins[i]
		localOffset := cursors[b]
		cursors[b]++
		dst := offsets[b] + localOffset
		sortedPos[dst] = pos[i]
		sortedVel[dst] = vel[i]
	}

	return SpatialIndex{Offsets: offsets, SortedPos: sortedPos, SortedVel: sortedVel}
}
