package core

import (
	"math"
	"testing"
)

func baseAdvanceCtx() AdvanceContext {
	return AdvanceContext{
		Friction:      0,
		MaxVelocity:   1000,
		DT:            1,
		WorldWidth:    100,
		WorldHeight:   100,
		Boundary:      BoundaryWrap,
		ParticleSize:  2,
		BounceDamping: 1,
		Brush:         NewBrushBlock(),
	}
}

func TestAdvanceIntegratesPositionByVelocityTimesDT(t *testing.T) {
	ctx := baseAdvanceCtx()
	ctx.DT = 0.5
	p := ParticlePosType{X: 10, Y: 10, Type: 0}
	v := ParticleVel{VX: 4, VY: -2}

	np, nv := Advance(p, v, ctx)

	if np.X != 12 || np.Y != 9 {
		t.Errorf("position = (%v, %v), want (12, 9)", np.X, np.Y)
	}
	if nv.VX != 4 || nv.VY != -2 {
		t.Errorf("velocity should be unchanged with zero friction, got (%v, %v)", nv.VX, nv.VY)
	}
}

func TestAdvanceAppliesFrictionDecay(t *testing.T) {
	ctx := baseAdvanceCtx()
	ctx.Friction = 0.1
	ctx.DT = 0
	p := ParticlePosType{X: 10, Y: 10, Type: 0}
	v := ParticleVel{VX: 10, VY: 0}

	_, nv := Advance(p, v, ctx)

	want := float32(9)
	if absF32(nv.VX-want) > 1e-5 {
		t.Errorf("velocity after friction = %v, want %v", nv.VX, want)
	}
}

func TestAdvanceClampsVelocityToMaxSpeed(t *testing.T) {
	ctx := baseAdvanceCtx()
	ctx.MaxVelocity = 5
	p := ParticlePosType{X: 50, Y: 50, Type: 0}
	v := ParticleVel{VX: 30, VY: 40} // speed 50

	_, nv := Advance(p, v, ctx)

	speed := float32(math.Sqrt(float64(nv.VX*nv.VX + nv.VY*nv.VY)))
	if absF32(speed-5) > 1e-4 {
		t.Errorf("clamped speed = %v, want 5", speed)
	}
	if nv.VX <= 0 || nv.VY <= 0 {
		t.Errorf("clamp should preserve direction, got (%v, %v)", nv.VX, nv.VY)
	}
}

func TestAdvanceWrapBoundaryTeleportsAcrossEdges(t *testing.T) {
	ctx := baseAdvanceCtx()
	ctx.Boundary = BoundaryWrap
	p := ParticlePosType{X: 99, Y: 1, Type: 0}
	v := ParticleVel{VX: 5, VY: -5}

	np, nv := Advance(p, v, ctx)

	if np.X < 0 || np.X >= ctx.WorldWidth {
		t.Errorf("wrapped x = %v, want in [0, %v)", np.X, ctx.WorldWidth)
	}
	if np.Y < 0 || np.Y >= ctx.WorldHeight {
		t.Errorf("wrapped y = %v, want in [0, %v)", np.Y, ctx.WorldHeight)
	}
	if nv.VX != 5 || nv.VY != -5 {
		t.Errorf("wrap boundary must not alter velocity, got (%v, %v)", nv.VX, nv.VY)
	}
}

func TestAdvanceRepelBoundaryBouncesVelocityAtWall(t *testing.T) {
	ctx := baseAdvanceCtx()
	ctx.Boundary = BoundaryRepel
	p := ParticlePosType{X: 2, Y: 50, Type: 0}
	v := ParticleVel{VX: -10, VY: 0}

	np, nv := Advance(p, v, ctx)

	if np.X != ctx.ParticleSize {
		t.Errorf("clamped x = %v, want margin %v", np.X, ctx.ParticleSize)
	}
	if nv.VX <= 0 {
		t.Errorf("velocity should bounce to positive x after hitting the left wall, got %v", nv.VX)
	}
}

func TestAdvanceBrushAttractPullsParticleTowardBrush(t *testing.T) {
	ctx := baseAdvanceCtx()
	ctx.Friction = 0
	ctx.DT = 1
	br := NewBrushBlock().ForTool(BrushAttract, 100)
	br.PosX, br.PosY = 60, 50
	br.Radius = 50
	br.IsActive = 1
	ctx.Brush = br

	p := ParticlePosType{X: 50, Y: 50, Type: 0}
	v := ParticleVel{VX: 0, VY: 0}

	_, nv := Advance(p, v, ctx)

	if nv.VX <= 0 {
		t.Errorf("attract brush to the right should push velocity positive on x, got %v", nv.VX)
	}
}

func TestAdvanceBrushIgnoresParticlesOfOtherTargetType(t *testing.T) {
	ctx := baseAdvanceCtx()
	br := NewBrushBlock().ForTool(BrushAttract, 100)
	br.PosX, br.PosY = 60, 50
	br.Radius = 50
	br.IsActive = 1
	br.TargetType = 1
	ctx.Brush = br

	p := ParticlePosType{X: 50, Y: 50, Type: 0}
	v := ParticleVel{VX: 0, VY: 0}

	_, nv := Advance(p, v, ctx)

	if nv.VX != 0 || nv.VY != 0 {
		t.Errorf("brush targeting type 1 should not affect a type-0 particle, got (%v, %v)", nv.VX, nv.VY)
	}
}

func TestAdvanceBrushHasNoEffectOutsideItsRadius(t *testing.T) {
	ctx := baseAdvanceCtx()
	br := NewBrushBlock().ForTool(BrushAttract, 100)
	br.PosX, br.PosY = 0, 0
	br.Radius = 5
	br.IsActive = 1
	ctx.Brush = br

	p := ParticlePosType{X: 90, Y: 90, Type: 0}
	v := ParticleVel{VX: 0, VY: 0}

	_, nv := Advance(p, v, ctx)

	if nv.VX != 0 || nv.VY != 0 {
		t.Errorf("particle far outside brush radius should be unaffected, got (%v, %v)", nv.VX, nv.VY)
	}
}
