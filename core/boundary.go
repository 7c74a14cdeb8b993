package core

import "math"

// MinimumImageDelta returns other-minus-self adjusted so that, on a toroidal world of size
// (w, h), it is the shortest signed displacement rather than the raw coordinate difference.
// Used by the force kernel in every wrap-family boundary mode; a no-op under BoundaryRepel.
func MinimumImageDelta(dx, dy, w, h float32) (float32, float32) {
	if dx > w/2 {
		dx -= w
	} else if dx < -w/2 {
		dx += w
	}
	if dy > h/2 {
		dy -= h
	} else if dy < -h/2 {
		dy += h
	}
	return dx, dy
}

// WallForce computes the repel-mode cubic wall-repulsion contribution for one axis, per §4.2.
// d is the distance to the nearer wall on that axis; margin is the 100-unit activation band.
// Returns 0 outside the margin or when wallRepelStrength is 0.
func WallForce(d, wallRepelStrength, margin float32) float32 {
	if wallRepelStrength <= 0 || d >= margin || d < 0 {
		return 0
	}
	frac := 1 - d/margin
	return 0.2 * wallRepelStrength * frac * frac * frac
}

// ApplyBoundary enforces the boundary condition on one particle's position and velocity and
// returns the adjusted values, per §4.3 step 5. margin is particle_size for BoundaryRepel and ignored otherwise.
func ApplyBoundary(mode BoundaryMode, x, y, vx, vy, w, h, margin, bounceDamping float32) (nx, ny, nvx, nvy float32) {
	switch mode {
	case BoundaryRepel:
		nx, ny, nvx, nvy = x, y, vx, vy
		if nx < margin {
			nx = margin
			nvx = float32(math.Abs(float64(nvx))) * bounceDamping
		} else if nx > w-margin {
			nx = w - margin
			nvx = -float32(math.Abs(float64(nvx))) * bounceDamping
		}
		if ny < margin {
			ny = margin
			nvy = float32(math.Abs(float64(nvy))) * bounceDamping
		} else if ny > h-margin {
			ny = h - margin
			nvy = -float32(math.Abs(float64(nvy))) * bounceDamping
		}
		return nx, ny, nvx, nvy
	default: // Wrap, MirrorWrap, InfiniteWrap all wrap position identically.
		nx, ny = x, y
		if nx < 0 {
			nx += w
		} else if nx >= w {
			nx -= w
		}
		if ny < 0 {
			ny += h
		} else if ny >= h {
			ny -= h
		}
		return nx, ny, vx, vy
	}
}

// MirrorOffsets returns the fixed world-sized displacement table used by the Mirror Wrap
// render mode. count must be 5 (axis-only) or 9 (axis+diagonal); any other value returns nil.
func MirrorOffsets(w, h float32, count int) [][2]float32 {
	switch count {
	case 5:
		return [][2]float32{
			{0, 0},
			{-w, 0}, {w, 0},
			{0, -h}, {0, h},
		}
	case 9:
		return [][2]float32{
			{0, 0},
			{-w, 0}, {w, 0},
			{0, -h}, {0, h},
			{-w, -h}, {w, -h}, {-w, h}, {w, h},
		}
	default:
		return nil
	}
}

// InfiniteWrapTiles computes the tile range and per-tile offsets needed to cover a camera
// viewport under BoundaryInfiniteWrap, given the world size and the visible world-space
// rectangle [minX,maxX) x [minY,maxY).
func InfiniteWrapTiles(w, h, minX, maxX, minY, maxY float32) (offsets [][2]float32) {
	dxFrom := int(math.Floor(float64(minX / w)))
	dxTo := int(math.Ceil(float64(maxX / w)))
	dyFrom := int(math.Floor(float64(minY / h)))
	dyTo := int(math.Ceil(float64(maxY / h)))
	for dx := dxFrom; dx < dxTo; dx++ {
		for dy := dyFrom; dy < dyTo; dy++ {
			offsets = append(offsets, [2]float32{float32(dx) * w, float32(dy) * h})
		}
	}
	return offsets
}
