package core

import "testing"

func TestDeriveSpatialParams(t *testing.T) {
	tests := []struct {
		name      string
		w, h      float32
		maxRadius float32
		wantW     uint32
		wantH     uint32
		wantErr   bool
	}{
		{name: "exact division", w: 100, h: 100, maxRadius: 10, wantW: 10, wantH: 10},
		{name: "rounds up", w: 105, h: 100, maxRadius: 10, wantW: 11, wantH: 10},
		{name: "radius larger than world clamps to one bin", w: 5, h: 5, maxRadius: 10, wantW: 1, wantH: 1},
		{name: "zero radius is an error", w: 100, h: 100, maxRadius: 0, wantErr: true},
		{name: "negative radius is an error", w: 100, h: 100, maxRadius: -1, wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			sp, err := DeriveSpatialParams(1000, tc.w, tc.h, tc.maxRadius)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if sp.GridWidth != tc.wantW || sp.GridHeight != tc.wantH {
				t.Errorf("grid = %dx%d, want %dx%d", sp.GridWidth, sp.GridHeight, tc.wantW, tc.wantH)
			}
			if sp.CellSize != tc.maxRadius {
				t.Errorf("cell size = %v, want %v", sp.CellSize, tc.maxRadius)
			}
		})
	}
}

func TestBinIndexClampsOutOfRangePositions(t *testing.T) {
	// A particle that has drifted slightly outside the world must still resolve to an edge
	// bin rather than an out-of-range index.
	idx := BinIndex(-5, -5, 10, 4, 4)
	if idx != 0 {
		t.Errorf("BinIndex(-5,-5) = %d, want 0 (clamped to first bin)", idx)
	}
	idx = BinIndex(1000, 1000, 10, 4, 4)
	want := uint32(3)*4 + 3
	if idx != want {
		t.Errorf("BinIndex(1000,1000) = %d, want %d (clamped to last bin)", idx, want)
	}
}

func TestBuildSpatialIndexOffsetsAreMonotonicAndCoverAllParticles(t *testing.T) {
	sp := SpatialParams{NumParticles: 6, CellSize: 10, GridWidth: 2, GridHeight: 2}
	pos := []ParticlePosType{
		{X: 1, Y: 1, Type: 0},
		{X: 1, Y: 1, Type: 1},
		{X: 15, Y: 1, Type: 0},
		{X: 1, Y: 15, Type: 0},
		{X: 15, Y: 15, Type: 0},
		{X: 15, Y: 15, Type: 1},
	}
	vel := make([]ParticleVel, len(pos))
	for i := range vel {
		vel[i] = ParticleVel{VX: float32(i), VY: float32(-i)}
	}

	idx := BuildSpatialIndex(pos, vel, sp)

	numBins := 4
	if len(idx.Offsets) != numBins+1 {
		t.Fatalf("offsets length = %d, want %d", len(idx.Offsets), numBins+1)
	}
	for i := 1; i < len(idx.Offsets); i++ {
		if idx.Offsets[i] < idx.Offsets[i-1] {
			t.Fatalf("offsets not monotonic at %d: %v", i, idx.Offsets)
		}
	}
	if got := idx.Offsets[numBins]; got != uint32(len(pos)) {
		t.Errorf("final offset = %d, want %d (total particle count)", got, len(pos))
	}

	// Every sorted particle must land in the bin range implied by its own offsets, and the
	// sorted position/velocity arrays must stay paired (velocity carried the same index as
	// position through the scatter).
	for b := 0; b < numBins; b++ {
		start, end := idx.Offsets[b], idx.Offsets[b+1]
		for i := start; i < end; i++ {
			p := idx.SortedPos[i]
			gotBin := BinIndex(p.X, p.Y, sp.CellSize, sp.GridWidth, sp.GridHeight)
			if gotBin != uint32(b) {
				t.Errorf("sorted particle at %d landed in bin %d's range but BinIndex reports %d", i, b, gotBin)
			}
		}
	}

	// Spot-check one particle's velocity followed its position through the sort.
	for i, p := range idx.SortedPos {
		for j, orig := range pos {
			if p == orig {
				if idx.SortedVel[i] != vel[j] {
					t.Errorf("sorted particle %d kept position but lost its paired velocity", i)
				}
			}
		}
	}
}

func TestBuildSpatialIndexEmptyInput(t *testing.T) {
	sp := SpatialParams{NumParticles: 0, CellSize: 10, GridWidth: 2, GridHeight: 2}
	idx := BuildSpatialIndex(nil, nil, sp)
	if len(idx.SortedPos) != 0 || len(idx.SortedVel) != 0 {
		t.Fatalf("expected empty sorted buffers for empty input")
	}
	for _, off := range idx.Offsets {
		if off != 0 {
			t.Errorf("expected all-zero offsets for empty input, got %v", idx.Offsets)
		}
	}
}
