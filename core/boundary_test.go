package core

import "testing"

func TestMinimumImageDeltaTakesShortestPathAcrossWrap(t *testing.T) {
	dx, dy := MinimumImageDelta(90, 0, 100, 100)
	if dx != -10 {
		t.Errorf("dx = %v, want -10 (wrapping the other way is shorter)", dx)
	}
	if dy != 0 {
		t.Errorf("dy = %v, want 0", dy)
	}
}

func TestMinimumImageDeltaLeavesShortDeltasUnchanged(t *testing.T) {
	dx, dy := MinimumImageDelta(5, -5, 100, 100)
	if dx != 5 || dy != -5 {
		t.Errorf("delta = (%v, %v), want unchanged (5, -5)", dx, dy)
	}
}

func TestWallForceZeroOutsideMarginOrWithoutStrength(t *testing.T) {
	if f := WallForce(50, 10, 40); f != 0 {
		t.Errorf("WallForce beyond margin = %v, want 0", f)
	}
	if f := WallForce(10, 0, 40); f != 0 {
		t.Errorf("WallForce with zero strength = %v, want 0", f)
	}
	if f := WallForce(-1, 10, 40); f != 0 {
		t.Errorf("WallForce with negative distance = %v, want 0", f)
	}
}

func TestWallForceIncreasesTowardTheWall(t *testing.T) {
	far := WallForce(30, 10, 40)
	near := WallForce(5, 10, 40)
	if near <= far {
		t.Errorf("WallForce should grow as distance to the wall shrinks: near=%v far=%v", near, far)
	}
}

func TestApplyBoundaryWrapTeleportsAndPreservesVelocity(t *testing.T) {
	nx, ny, nvx, nvy := ApplyBoundary(BoundaryWrap, 105, -3, 7, -7, 100, 100, 2, 1)
	if nx != 5 {
		t.Errorf("wrapped x = %v, want 5", nx)
	}
	if ny != 97 {
		t.Errorf("wrapped y = %v, want 97", ny)
	}
	if nvx != 7 || nvy != -7 {
		t.Errorf("wrap must not alter velocity, got (%v, %v)", nvx, nvy)
	}
}

func TestApplyBoundaryRepelClampsAndBouncesAtEachWall(t *testing.T) {
	tests := []struct {
		name             string
		x, y, vx, vy     float32
		wantX, wantY     float32
		wantVXSign       float32
		wantVYSign       float32
	}{
		{name: "left wall", x: -5, y: 50, vx: -3, vy: 0, wantX: 2, wantY: 50, wantVXSign: 1, wantVYSign: 0},
		{name: "right wall", x: 105, y: 50, vx: 3, vy: 0, wantX: 98, wantY: 50, wantVXSign: -1, wantVYSign: 0},
		{name: "bottom wall", x: 50, y: -5, vx: 0, vy: -3, wantX: 50, wantY: 2, wantVXSign: 0, wantVYSign: 1},
		{name: "top wall", x: 50, y: 105, vx: 0, vy: 3, wantX: 50, wantY: 98, wantVXSign: 0, wantVYSign: -1},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			nx, ny, nvx, nvy := ApplyBoundary(BoundaryRepel, tc.x, tc.y, tc.vx, tc.vy, 100, 100, 2, 1)
			if nx != tc.wantX || ny != tc.wantY {
				t.Errorf("position = (%v, %v), want (%v, %v)", nx, ny, tc.wantX, tc.wantY)
			}
			if tc.wantVXSign > 0 && nvx <= 0 {
				t.Errorf("vx should bounce positive, got %v", nvx)
			}
			if tc.wantVXSign < 0 && nvx >= 0 {
				t.Errorf("vx should bounce negative, got %v", nvx)
			}
			if tc.wantVYSign > 0 && nvy <= 0 {
				t.Errorf("vy should bounce positive, got %v", nvy)
			}
			if tc.wantVYSign < 0 && nvy >= 0 {
				t.Errorf("vy should bounce negative, got %v", nvy)
			}
		})
	}
}

func TestApplyBoundaryRepelAppliesBounceDamping(t *testing.T) {
	_, _, nvx, _ := ApplyBoundary(BoundaryRepel, -5, 50, -10, 0, 100, 100, 2, 0.5)
	if nvx != 5 {
		t.Errorf("damped bounce velocity = %v, want 5 (0.5 * 10)", nvx)
	}
}

func TestMirrorOffsetsReturnsExpectedCountsAndNilForUnsupported(t *testing.T) {
	if got := MirrorOffsets(10, 20, 5); len(got) != 5 {
		t.Errorf("5-count mirror offsets length = %d, want 5", len(got))
	}
	if got := MirrorOffsets(10, 20, 9); len(got) != 9 {
		t.Errorf("9-count mirror offsets length = %d, want 9", len(got))
	}
	if got := MirrorOffsets(10, 20, 4); got != nil {
		t.Errorf("unsupported count should return nil, got %v", got)
	}
}

func TestInfiniteWrapTilesCoversRequestedViewport(t *testing.T) {
	offsets := InfiniteWrapTiles(100, 100, -50, 150, -50, 150)
	if len(offsets) == 0 {
		t.Fatalf("expected at least one tile offset for a viewport spanning two world widths")
	}
	var sawOrigin bool
	for _, off := range offsets {
		if off[0] == 0 && off[1] == 0 {
			sawOrigin = true
		}
	}
	if !sawOrigin {
		t.Errorf("expected the origin tile (0,0) to be among the offsets: %v", offsets)
	}
}
