package core

import "testing"

func gridGenerator(n, nt int) PositionGeneratorFunc {
	return func(variant Variant, spec PositionSpec) []GeneratedParticle {
		out := make([]GeneratedParticle, n)
		for i := range out {
			out[i] = GeneratedParticle{X: float32(i), Y: float32(i * 2), Type: i % nt}
		}
		return out
	}
}

func TestStoreRegenerateSmallBatchWritesBothBuffers(t *testing.T) {
	s := NewStore(100)
	s.Regenerate("v", gridGenerator(10, 3), PositionSpec{N: 10, NT: 3, W: 100, H: 100})

	if s.Count() != 10 {
		t.Fatalf("Count() = %d, want 10", s.Count())
	}
	pos, vel := s.Current()
	if len(pos) != 10 || len(vel) != 10 {
		t.Fatalf("Current() lengths = %d/%d, want 10/10", len(pos), len(vel))
	}
	nextPos, _ := s.Next()
	if len(nextPos) != 10 {
		t.Fatalf("Next() length = %d, want 10", len(nextPos))
	}
	for i, p := range pos {
		if p.X != float32(i) || p.Y != float32(i*2) {
			t.Errorf("particle %d = (%v, %v), want (%v, %v)", i, p.X, p.Y, float32(i), float32(i*2))
		}
		if nextPos[i] != p {
			t.Errorf("Regenerate must seed both buffers identically, particle %d differs: %v vs %v", i, p, nextPos[i])
		}
	}
}

func TestStoreRegenerateLargeBatchFansOutAcrossWorkers(t *testing.T) {
	const n = regenerateChunkSize*2 + 137
	s := NewStore(n)
	s.Regenerate("v", gridGenerator(n, 5), PositionSpec{N: n, NT: 5, W: 1000, H: 1000})

	if s.Count() != n {
		t.Fatalf("Count() = %d, want %d", s.Count(), n)
	}
	pos, _ := s.Current()
	for i, p := range pos {
		if p.X != float32(i) {
			t.Fatalf("particle %d.X = %v, want %v (worker-chunked write landed at the wrong offset)", i, p.X, float32(i))
		}
	}
}

func TestStoreRegenerateClampsToCapacity(t *testing.T) {
	s := NewStore(5)
	s.Regenerate("v", gridGenerator(50, 2), PositionSpec{N: 50, NT: 2, W: 100, H: 100})

	if s.Count() != 5 {
		t.Fatalf("Count() = %d, want clamped to capacity 5", s.Count())
	}
}

func TestStoreToggleSwapsCurrentAndNext(t *testing.T) {
	s := NewStore(10)
	s.Regenerate("v", gridGenerator(4, 1), PositionSpec{N: 4, NT: 1, W: 10, H: 10})

	before, _ := s.Current()
	s.pos[1-s.current][0].X = 999 // write into what is currently "next"

	s.Toggle()

	after, _ := s.Current()
	if after[0].X != 999 {
		t.Fatalf("Toggle should make the previous Next() buffer the new Current(), got X=%v", after[0].X)
	}
	_ = before
}

func TestStoreBrushDrawAddsParticlesUpToRemainingCapacity(t *testing.T) {
	s := NewStore(3)
	s.Regenerate("v", gridGenerator(1, 1), PositionSpec{N: 1, NT: 1, W: 10, H: 10})

	s.BrushDraw(5, 5, 0, 5, 0, func() float32 { return 0.5 })

	if s.Count() != 3 {
		t.Fatalf("Count() = %d, want clamped to capacity 3 (1 existing + room for 2 more)", s.Count())
	}
}

func TestStoreBrushEraseRemovesParticlesWithinRadiusAndCompacts(t *testing.T) {
	s := NewStore(10)
	s.Regenerate("v", PositionGeneratorFunc(func(variant Variant, spec PositionSpec) []GeneratedParticle {
		return []GeneratedParticle{
			{X: 0, Y: 0, Type: 0},
			{X: 100, Y: 100, Type: 0},
			{X: 1, Y: 1, Type: 0},
		}
	}), PositionSpec{N: 3, NT: 1, W: 1000, H: 1000})

	removed := s.BrushErase(0, 0, 5)
	if removed != 2 {
		t.Fatalf("removed = %d, want 2 (the two particles near the origin)", removed)
	}
	if s.Count() != 1 {
		t.Fatalf("Count() = %d, want 1 remaining", s.Count())
	}
	pos, _ := s.Current()
	if pos[0].X != 100 || pos[0].Y != 100 {
		t.Errorf("surviving particle = (%v, %v), want (100, 100)", pos[0].X, pos[0].Y)
	}
}
