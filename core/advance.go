package core

import "math"

// AdvanceContext bundles the read-only parameters the advance kernel needs: the subset of
// ParamsUniform the WGSL advance stage binds, plus BounceDamping, which only this CPU
// reference applies.
type AdvanceContext struct {
	Friction      float32
	MaxVelocity   float32
	DT            float32
	WorldWidth    float32
	WorldHeight   float32
	Boundary      BoundaryMode
	ParticleSize  float32
	BounceDamping float32
	Brush         BrushBlock
}

// Advance is the pure-Go reference implementation of the §4.3 advance kernel. It reads one
// sorted particle's position and velocity and returns the values to write to the "next"
// buffers, applying brush impulse, friction, velocity clamp, integration, and boundary
// handling in that order.
func Advance(p ParticlePosType, v ParticleVel, ctx AdvanceContext) (ParticlePosType, ParticleVel) {
	vx, vy := v.VX, v.VY

	if ctx.Brush.IsActive != 0 {
		vx, vy = applyBrushImpulse(p, vx, vy, ctx)
	}

	vx *= 1 - ctx.Friction
	vy *= 1 - ctx.Friction

	speed := float32(math.Sqrt(float64(vx*vx + vy*vy)))
	if speed > ctx.MaxVelocity && speed > 0 {
		scale := ctx.MaxVelocity / speed
		vx *= scale
		vy *= scale
	}

	x := p.X + vx*ctx.DT
	y := p.Y + vy*ctx.DT

	margin := ctx.ParticleSize
	nx, ny, nvx, nvy := ApplyBoundary(ctx.Boundary, x, y, vx, vy, ctx.WorldWidth, ctx.WorldHeight, margin, ctx.BounceDamping)

	return ParticlePosType{X: nx, Y: ny, Type: p.Type}, ParticleVel{VX: nvx, VY: nvy}
}

// applyBrushImpulse computes the brush contribution to velocity per §4.3 step 1.
func applyBrushImpulse(p ParticlePosType, vx, vy float32, ctx AdvanceContext) (float32, float32) {
	br := ctx.Brush
	if br.TargetType >= 0 && uint32(br.TargetType) != p.Type {
		return vx, vy
	}

	dx := br.PosX - p.X
	dy := br.PosY - p.Y
	if ctx.Boundary.Wraps() {
		dx, dy = MinimumImageDelta(dx, dy, ctx.WorldWidth, ctx.WorldHeight)
	}
	distSq := dx*dx + dy*dy
	if distSq <= 0.1 {
		return vx, vy
	}
	dist := float32(math.Sqrt(float64(distSq)))
	if dist >= br.Radius {
		return vx, vy
	}

	t := dist / br.Radius
	f := 1 - smoothstep(0, 1, t)

	dirX, dirY := dx/dist, dy/dist

	// dx, dy point from the particle toward the brush (br.Pos - p), the negation of the
	// spec's brush-to-particle delta, so dirX/dirY already carry the sign -Δ̂ needs: a
	// positive brush_force pulls the particle toward the brush.
	vx += (dirX*br.Force*f*50 + br.VelX*f*br.DirectionalForce*ctx.Friction) * ctx.DT
	vy += (dirY*br.Force*f*50 + br.VelY*f*br.DirectionalForce*ctx.Friction) * ctx.DT
	return vx, vy
}

// smoothstep is the standard GPU smoothstep, ported to the CPU reference kernel so its output
// matches the WGSL builtin bit-for-bit in spirit (this package never calls WGSL's smoothstep
// directly, but the polynomial is identical).
func smoothstep(edge0, edge1, x float32) float32 {
	if x <= edge0 {
		return 0
	}
	if x >= edge1 {
		return 1
	}
	t := (x - edge0) / (edge1 - edge0)
	return t * t * (3 - 2*t)
}
