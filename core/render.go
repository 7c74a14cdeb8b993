package core

// RenderMode selects one of the four instanced particle draws described in §4.4. It is
// distinct from BoundaryMode because Standard and Glow are available under every boundary
// mode, while MirrorWrap/InfiniteWrap render modes only make sense paired with their matching
// boundary mode.
type RenderMode int

const (
	RenderStandard RenderMode = iota
	RenderGlow
	RenderMirrorWrap
	RenderInfiniteWrap
)

// ModeForBoundary picks the render mode a boundary mode implies by default. A caller is free
// to override (e.g. force RenderStandard while in BoundaryMirrorWrap to skip the mirrored
// copies), which is why this is a helper and not baked into BoundaryMode itself.
func ModeForBoundary(b BoundaryMode, glow bool) RenderMode {
	switch b {
	case BoundaryMirrorWrap:
		return RenderMirrorWrap
	case BoundaryInfiniteWrap:
		return RenderInfiniteWrap
	default:
		if glow {
			return RenderGlow
		}
		return RenderStandard
	}
}

// MaxRenderCopies is the fixed capacity of the copy_offsets storage buffer the render pipeline
// allocates (see Pipeline.initRenderPipeline). RenderMirrorWrap's 9-copy axis+diagonal table
// always fits exactly; RenderInfiniteWrap's Cx*Cy tile count grows with how far the camera is
// zoomed out and can exceed it, so Pipeline.DrawCalls clamps to this many tiles rather than
// writing past the buffer.
const MaxRenderCopies = 9

// MirrorCopyCount is the number of mirrored copies C per particle under RenderMirrorWrap.
// axisOnly selects the 5-copy table (±x, ±y, plus the real copy); the false case is the
// 9-copy axis+diagonal table.
func MirrorCopyCount(axisOnly bool) int {
	if axisOnly {
		return 5
	}
	return 9
}

// InstanceCount returns the total instance count a draw call for the given mode needs. For
// RenderInfiniteWrap the tile count depends on the camera viewport, so the caller supplies it
// (see InfiniteWrapTiles); for the other three modes it can be computed from n alone.
func InstanceCount(mode RenderMode, n uint32, mirrorCopies, infiniteTiles int) uint32 {
	switch mode {
	case RenderMirrorWrap:
		return n * uint32(mirrorCopies)
	case RenderInfiniteWrap:
		return n * uint32(infiniteTiles)
	default:
		return n
	}
}

// MirrorCopyAlpha returns the render alpha for copy index c out of a mirror draw: the real
// particle (index 0 in the offset table) is full opacity, every mirrored copy is 75% per §4.4.
func MirrorCopyAlpha(copyIndex int) float32 {
	if copyIndex == 0 {
		return 1.0
	}
	return 0.75
}
