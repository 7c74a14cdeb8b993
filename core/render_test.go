package core

import "testing"

func TestModeForBoundaryPicksMirrorAndInfiniteWrapRegardlessOfGlow(t *testing.T) {
	if got := ModeForBoundary(BoundaryMirrorWrap, true); got != RenderMirrorWrap {
		t.Errorf("got %v, want RenderMirrorWrap", got)
	}
	if got := ModeForBoundary(BoundaryMirrorWrap, false); got != RenderMirrorWrap {
		t.Errorf("got %v, want RenderMirrorWrap", got)
	}
	if got := ModeForBoundary(BoundaryInfiniteWrap, true); got != RenderInfiniteWrap {
		t.Errorf("got %v, want RenderInfiniteWrap", got)
	}
}

func TestModeForBoundaryPicksStandardOrGlowOtherwise(t *testing.T) {
	if got := ModeForBoundary(BoundaryWrap, false); got != RenderStandard {
		t.Errorf("got %v, want RenderStandard", got)
	}
	if got := ModeForBoundary(BoundaryWrap, true); got != RenderGlow {
		t.Errorf("got %v, want RenderGlow", got)
	}
	if got := ModeForBoundary(BoundaryRepel, true); got != RenderGlow {
		t.Errorf("got %v, want RenderGlow", got)
	}
}

func TestMirrorCopyCount(t *testing.T) {
	if got := MirrorCopyCount(true); got != 5 {
		t.Errorf("axis-only count = %d, want 5", got)
	}
	if got := MirrorCopyCount(false); got != 9 {
		t.Errorf("axis+diagonal count = %d, want 9", got)
	}
}

func TestInstanceCount(t *testing.T) {
	tests := []struct {
		name          string
		mode          RenderMode
		n             uint32
		mirrorCopies  int
		infiniteTiles int
		want          uint32
	}{
		{name: "standard", mode: RenderStandard, n: 100, want: 100},
		{name: "glow", mode: RenderGlow, n: 100, want: 100},
		{name: "mirror wrap", mode: RenderMirrorWrap, n: 100, mirrorCopies: 5, want: 500},
		{name: "infinite wrap", mode: RenderInfiniteWrap, n: 100, infiniteTiles: 4, want: 400},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := InstanceCount(tc.mode, tc.n, tc.mirrorCopies, tc.infiniteTiles)
			if got != tc.want {
				t.Errorf("InstanceCount() = %d, want %d", got, tc.want)
			}
		})
	}
}

func TestMirrorCopyAlphaRealCopyIsFullOpacity(t *testing.T) {
	if got := MirrorCopyAlpha(0); got != 1.0 {
		t.Errorf("alpha for the real copy = %v, want 1.0", got)
	}
	if got := MirrorCopyAlpha(3); got != 0.75 {
		t.Errorf("alpha for a mirrored copy = %v, want 0.75", got)
	}
}
