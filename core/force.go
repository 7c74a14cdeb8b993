package core

import "math"

// ForceContext bundles the read-only session state the force kernel needs to evaluate one
// particle's neighborhood: the interaction/radius tables and the subset of Params that
// parameterize the kernel. Passed by value since it is a handful of small fields and the
// kernel runs once per particle per frame.
type ForceContext struct {
	Interaction InteractionMatrix
	Radius      RadiusMatrix
	NT          int

	WorldWidth, WorldHeight float32
	Boundary                BoundaryMode
	RepelStrength           float32
	WallRepelStrength       float32
	ParticleSize            float32
	MaxBinDensity           float32
	NeighborBudget          uint32

	CellSize           float32
	GridWidth, GridHeight uint32
}

const coincidentGuard = 1e-4

// ComputeForces is the pure-Go reference implementation of the §4.2 force kernel. It evaluates
// the 3x3 bin neighborhood around sorted particle s and returns the velocity delta to add
// (before force_factor scaling, which the caller applies — see Commit in §4.2). idx is the
// index into the sorted buffers.
func ComputeForces(idx int, sorted []ParticlePosType, sortedVel []ParticleVel, offsets []uint32, ctx ForceContext) (fx, fy float32) {
	my := sorted[idx]
	myBin := BinIndex(my.X, my.Y, ctx.CellSize, ctx.GridWidth, ctx.GridHeight)
	myBx := int32(myBin % ctx.GridWidth)
	myBy := int32(myBin / ctx.GridWidth)

	perBinBudget := uint32(0)
	if ctx.NeighborBudget > 0 {
		perBinBudget = (ctx.NeighborBudget + 8) / 9 // ceil(budget/9)
	}

	totalK := 0

	for dy := int32(-1); dy <= 1; dy++ {
		for dx := int32(-1); dx <= 1; dx++ {
			bx, by, ok := neighborBin(myBx, myBy, dx, dy, ctx)
			if !ok {
				continue
			}
			b := uint32(by)*ctx.GridWidth + uint32(bx)
			start, end := offsets[b], offsets[b+1]
			totalK += int(end - start)

			checked := uint32(0)
			for j := start; j < end; j++ {
				if perBinBudget > 0 && checked >= perBinBudget {
					break
				}
				checked++
				if int(j) == idx {
					continue
				}
				other := sorted[j]

				ddx := other.X - my.X
				ddy := other.Y - my.Y
				if ctx.Boundary.Wraps() {
					ddx, ddy = MinimumImageDelta(ddx, ddy, ctx.WorldWidth, ctx.WorldHeight)
				}

				distSq := ddx*ddx + ddy*ddy
				if distSq < coincidentGuard {
					continue
				}

				pairIdx := int(my.Type)*ctx.NT + int(other.Type)
				rp := ctx.Radius.Values[pairIdx]
				if distSq >= rp.Max*rp.Max {
					continue
				}

				d := float32(math.Sqrt(float64(distSq)))
				dirX, dirY := ddx/d, ddy/d

				var mag float32
				if d < rp.Min {
					mag = (d/rp.Min - 1) * ctx.RepelStrength
				} else {
					mid := (rp.Min + rp.Max) / 2
					halfRange := mid - rp.Min
					s := ctx.Interaction.At(int(my.Type), int(other.Type))
					mag = s * (1 - absF32(d-mid)/halfRange)
				}

				fx += dirX * mag
				fy += dirY * mag
			}
		}
	}

	if !ctx.Boundary.Wraps() {
		fx += wallRepelContribution(my.X, ctx.WorldWidth, ctx.WallRepelStrength)
		fy += wallRepelContribution(my.Y, ctx.WorldHeight, ctx.WallRepelStrength)
	}

	if ctx.MaxBinDensity > 0 && float32(totalK) > ctx.MaxBinDensity {
		scale := ctx.MaxBinDensity / float32(totalK)
		fx *= scale
		fy *= scale
	}

	return fx, fy
}

// neighborBin resolves a (dx,dy) offset from (bx,by) to an absolute bin coordinate, wrapping
// modulo the grid under any wrap boundary mode and rejecting out-of-range bins under repel.
func neighborBin(bx, by, dx, dy int32, ctx ForceContext) (nbx, nby int32, ok bool) {
	nbx, nby = bx+dx, by+dy
	if ctx.Boundary.Wraps() {
		nbx = wrapIndex(nbx, int32(ctx.GridWidth))
		nby = wrapIndex(nby, int32(ctx.GridHeight))
		return nbx, nby, true
	}
	if nbx < 0 || nbx >= int32(ctx.GridWidth) || nby < 0 || nby >= int32(ctx.GridHeight) {
		return 0, 0, false
	}
	return nbx, nby, true
}

func wrapIndex(v, n int32) int32 {
	v %= n
	if v < 0 {
		v += n
	}
	return v
}

// wallRepelContribution computes the one-axis cubic wall-repulsion force for a position p on
// an axis of length length, per §4.2's wall-repulsion clause. Applied on both axes for both
// walls (near 0 and near length).
func wallRepelContribution(p, length, wallRepelStrength float32) float32 {
	if wallRepelStrength <= 0 {
		return 0
	}
	const margin = 100
	var f float32
	f += WallForce(p, wallRepelStrength, margin)
	f -= WallForce(length-p, wallRepelStrength, margin)
	return f
}

func absF32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
