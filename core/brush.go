package core

// BrushTool names the four cursor modes a host UI cycles through; only its color encoding is
// a core concern (§4.5) — the UI owns key bindings and toolbar state.
type BrushTool uint32

const (
	BrushDraw BrushTool = iota
	BrushErase
	BrushAttract
	BrushRepel
)

// BrushBlock is the 48-byte GPU wire layout for the transient per-frame brush state. Rewritten
// wholesale from host input each frame; never partially updated.
type BrushBlock struct {
	PosX, PosY       float32
	VelX, VelY       float32
	Radius           float32
	Force            float32
	DirectionalForce float32
	IsActive         uint32
	NumParticles     uint32
	TargetType       int32
	_                [2]uint32
}

// NewBrushBlock returns an inactive brush block; callers overwrite fields as the pointer
// moves and call Pipeline.SetBrush to arm it for the next advance dispatch.
func NewBrushBlock() BrushBlock {
	return BrushBlock{TargetType: -1}
}

// ForTool fills in Force and DirectionalForce for one of the four named tools, leaving
// position/velocity/radius to the caller. Supplements the base spec's raw force/direction
// fields with the brush-tool taxonomy a sidebar UI actually exposes.
func (b BrushBlock) ForTool(tool BrushTool, strength float32) BrushBlock {
	switch tool {
	case BrushDraw:
		b.Force = strength
		b.DirectionalForce = 0
	case BrushErase:
		b.Force = 0
		b.DirectionalForce = 0
		b.NumParticles = 0
	case BrushAttract:
		b.Force = strength
		b.DirectionalForce = 1
	case BrushRepel:
		b.Force = -strength
		b.DirectionalForce = 1
	}
	return b
}
