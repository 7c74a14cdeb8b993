package core

import (
	"fmt"
	"log"
	"math"

	"github.com/paulrobello/par-particle-life/camera2d"
	"github.com/paulrobello/par-particle-life/common"
	"github.com/paulrobello/par-particle-life/engine/renderer"
	"github.com/paulrobello/par-particle-life/engine/renderer/bind_group_provider"
	"github.com/paulrobello/par-particle-life/engine/renderer/pipeline"
	"github.com/paulrobello/par-particle-life/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
)

const (
	pipelineKeyBinClear       = "particle_bin_clear"
	pipelineKeyBinCount       = "particle_bin_count"
	pipelineKeyBinScan        = "particle_bin_scan"
	pipelineKeyBinReset       = "particle_bin_reset"
	pipelineKeyBinSort        = "particle_bin_sort"
	pipelineKeyForces         = "particle_forces"
	pipelineKeyAdvance        = "particle_advance"
	pipelineKeyRender         = "particle_render"
	pipelineKeyBrushOverlay   = "particle_brush_overlay"
	computeWorkgroupThreshold = 256
)

// Shaders bundles every WGSL shader a Pipeline needs, constructed by the caller via
// shader.NewShader with paths to the assets/shaders directory. Mirrors the teacher's
// convention of loading shaders at the call site and passing them into the constructor.
type Shaders struct {
	BinClear, BinCount, BinScan, BinReset, BinSort shader.Shader
	Forces, Advance                                shader.Shader
	RenderVertex, RenderFragment                   shader.Shader
	OverlayVertex, OverlayFragment                 shader.Shader
}

// slotBGPs holds the pair of bind group providers that depend on which ping-pong slot of the
// particle store currently holds live data. Index 0 reads/writes slot 0, index 1 slot 1.
type slotBGPs [2]bind_group_provider.BindGroupProvider

// Pipeline drives the full GPU simulation and render pipeline for a particle-life system: the
// spatial-index build (clear, count, scan, reset, sort), the force and advance compute kernels,
// and the render/brush-overlay draw calls. It owns all GPU buffers and bind group providers.
type Pipeline struct {
	r      renderer.Renderer
	cam    camera2d.Camera2D
	store  *Store
	params Params
	interactions InteractionMatrix
	radii        RadiusMatrix
	palette      Palette

	spatial  SpatialParams
	passes   int
	finalIsA bool

	gpuSlot [2]struct {
		pos, vel bind_group_provider.BindGroupProvider
	}
	cur int

	meshBGP bind_group_provider.BindGroupProvider

	binClearBGP               bind_group_provider.BindGroupProvider
	binCountBGP, binSortBGP   slotBGPs
	binScanFwdBGP, binScanBwdBGP bind_group_provider.BindGroupProvider
	binResetBGP               bind_group_provider.BindGroupProvider
	forcesBGP                 bind_group_provider.BindGroupProvider
	advanceBGP                slotBGPs

	sortedPosBuf, sortedVelBuf, finalOffsetsBuf *wgpu.Buffer

	renderCameraBGP  bind_group_provider.BindGroupProvider
	renderParamsBGP  slotBGPs
	overlayCameraBGP bind_group_provider.BindGroupProvider
	overlayParamsBGP bind_group_provider.BindGroupProvider

	brush       BrushBlock
	copyOffsets [][2]float32

	mode   RenderMode
	active bool
}

// NewPipeline validates the simulation configuration, builds the spatial-index grid, allocates
// every GPU buffer and bind group, and registers all compute and render pipelines. It panics if
// GPU resource creation fails, matching the teacher's construction-time-panic convention for
// unrecoverable setup errors; it returns an error for configuration problems the caller can fix
// (invalid params or matrices).
func NewPipeline(r renderer.Renderer, cam camera2d.Camera2D, params Params, interactions InteractionMatrix, radii RadiusMatrix, palette Palette, shaders Shaders) (*Pipeline, error) {
	if err := ValidateParams(params); err != nil {
		return nil, err
	}
	if err := ValidateMatrices(int(params.NumTypes), interactions, radii); err != nil {
		return nil, err
	}

	spatial, err := DeriveSpatialParams(params.NumParticles, params.WorldWidth, params.WorldHeight, radii.MaxRadius())
	if err != nil {
		return nil, err
	}

	p := &Pipeline{
		r:            r,
		cam:          cam,
		store:        NewStore(params.NumParticles),
		params:       params,
		interactions: interactions,
		radii:        radii,
		palette:      palette,
		spatial:      spatial,
		mode:         ModeForBoundary(params.BoundaryMode, false),
		active:       true,
	}

	numBins := uint64(spatial.GridWidth) * uint64(spatial.GridHeight)
	p.passes = scanPassCount(numBins + 1)
	// bin_reset always zeroes buffer B, so the scan must end in buffer A: an odd pass count gets
	// one extra pass whose shift is at least the length, which only copies B into A.
	if p.passes%2 == 1 {
		p.passes++
	}
	p.finalIsA = p.passes == 0 || p.passes%2 == 0

	if err := p.initGPU(shaders, numBins); err != nil {
		panic(fmt.Sprintf("core: failed to initialize GPU resources: %v", err))
	}

	return p, nil
}

// scanPassCount returns ceil(log2(length)) for length > 1, 0 for length <= 1.
func scanPassCount(length uint64) int {
	if length <= 1 {
		return 0
	}
	return int(math.Ceil(math.Log2(float64(length))))
}

// Renderer returns the underlying renderer, satisfying the scene driver contract expected by
// engine.Engine's frame loop.
func (p *Pipeline) Renderer() renderer.Renderer {
	return p.r
}

// Active reports whether this pipeline participates in the current frame.
func (p *Pipeline) Active() bool {
	return p.active
}

// SetActive toggles whether PrepareCompute/DrawCalls do any work.
func (p *Pipeline) SetActive(active bool) {
	p.active = active
}

// Store returns the CPU-side particle store backing this pipeline's GPU buffers.
func (p *Pipeline) Store() *Store {
	return p.store
}

// SetBrush updates the brush block applied during the next advance dispatch.
func (p *Pipeline) SetBrush(b BrushBlock) {
	p.brush = b
}

// SetInteractions replaces the live interaction matrix and re-uploads it to the forces
// kernel's storage buffer, letting a caller reroll a variant's rule set without rebuilding
// the pipeline. The matrix must match the session's type count.
func (p *Pipeline) SetInteractions(m InteractionMatrix) error {
	if err := ValidateMatrices(int(p.params.NumTypes), m, p.radii); err != nil {
		return err
	}
	p.interactions = m
	p.r.WriteBuffers([]bind_group_provider.BufferWrite{
		{Provider: p.forcesBGP, Binding: 2, Data: common.SliceToBytes(p.interactions.Values)},
	})
	return nil
}

// initGPU allocates every GPU buffer, wires every bind group provider, builds the quad mesh,
// and registers every pipeline. Buffer identity is shared across bind group providers via
// SetBuffer before InitBindGroup, mirroring the teacher's cross-provider buffer reuse pattern
// (e.g. scene.go's light cull bind group reusing the lights storage buffer).
func (p *Pipeline) initGPU(s Shaders, numBins uint64) error {
	if err := p.initMesh(); err != nil {
		return err
	}
	if err := p.initParticleSlots(s); err != nil {
		return err
	}
	if err := p.initSpatialPipeline(s, numBins); err != nil {
		return err
	}
	if err := p.initSimPipeline(s); err != nil {
		return err
	}
	if err := p.initRenderPipeline(s); err != nil {
		return err
	}

	return p.r.RegisterPipelines(
		pipeline.NewPipeline(pipelineKeyBinClear, pipeline.PipelineTypeCompute, pipeline.WithComputeShader(s.BinClear)),
		pipeline.NewPipeline(pipelineKeyBinCount, pipeline.PipelineTypeCompute, pipeline.WithComputeShader(s.BinCount)),
		pipeline.NewPipeline(pipelineKeyBinScan, pipeline.PipelineTypeCompute, pipeline.WithComputeShader(s.BinScan)),
		pipeline.NewPipeline(pipelineKeyBinReset, pipeline.PipelineTypeCompute, pipeline.WithComputeShader(s.BinReset)),
		pipeline.NewPipeline(pipelineKeyBinSort, pipeline.PipelineTypeCompute, pipeline.WithComputeShader(s.BinSort)),
		pipeline.NewPipeline(pipelineKeyForces, pipeline.PipelineTypeCompute, pipeline.WithComputeShader(s.Forces)),
		pipeline.NewPipeline(pipelineKeyAdvance, pipeline.PipelineTypeCompute, pipeline.WithComputeShader(s.Advance)),
		pipeline.NewPipeline(pipelineKeyRender, pipeline.PipelineTypeRender,
			pipeline.WithVertexShader(s.RenderVertex),
			pipeline.WithFragmentShader(s.RenderFragment),
			pipeline.WithDepthTestEnabled(false),
			pipeline.WithDepthWriteEnabled(false),
			pipeline.WithBlendEnabled(true),
		),
		pipeline.NewPipeline(pipelineKeyBrushOverlay, pipeline.PipelineTypeRender,
			pipeline.WithVertexShader(s.OverlayVertex),
			pipeline.WithFragmentShader(s.OverlayFragment),
			pipeline.WithDepthTestEnabled(false),
			pipeline.WithDepthWriteEnabled(false),
			pipeline.WithBlendEnabled(true),
		),
	)
}

// initMesh builds the single indexed quad (4 vertices, 6 indices, corners in [-1, 1]) every
// render pipeline instances against. DrawCall always issues DrawIndexed, so a procedural
// vertex-index-only quad is not an option here.
func (p *Pipeline) initMesh() error {
	type quadVertex struct{ X, Y float32 }
	verts := []quadVertex{
		{-1, -1}, {1, -1}, {1, 1}, {-1, 1},
	}
	indices := []uint32{0, 1, 2, 0, 2, 3}

	p.meshBGP = bind_group_provider.NewBindGroupProvider("particle_quad")
	return p.r.InitMeshBuffers(p.meshBGP, common.SliceToBytes(verts), common.SliceToBytes(indices), len(indices))
}

// initParticleSlots creates the two ping-pong GPU position/velocity buffer pairs and uploads
// the store's initial CPU-generated slot 0 data.
func (p *Pipeline) initParticleSlots(s Shaders) error {
	n := uint64(p.params.NumParticles)
	posSize := n * 16
	velSize := n * 8

	for slot := 0; slot < 2; slot++ {
		posBGP := bind_group_provider.NewBindGroupProvider(fmt.Sprintf("particle_pos_%d", slot))
		desc := wgpu.BindGroupLayoutDescriptor{Entries: []wgpu.BindGroupLayoutEntry{
			{Binding: 0, Visibility: wgpu.ShaderStageCompute, Buffer: wgpu.BufferBindingLayout{Type: wgpu.BufferBindingTypeStorage}},
		}}
		if err := p.r.InitBindGroup(posBGP, desc, nil, map[int]uint64{0: posSize}); err != nil {
			return err
		}
		velBGP := bind_group_provider.NewBindGroupProvider(fmt.Sprintf("particle_vel_%d", slot))
		if err := p.r.InitBindGroup(velBGP, desc, nil, map[int]uint64{0: velSize}); err != nil {
			return err
		}
		p.gpuSlot[slot].pos = posBGP
		p.gpuSlot[slot].vel = velBGP
	}

	initialPos, initialVel := p.store.Current()
	p.r.WriteBuffers([]bind_group_provider.BufferWrite{
		{Provider: p.gpuSlot[0].pos, Binding: 0, Data: common.SliceToBytes(initialPos)},
		{Provider: p.gpuSlot[0].vel, Binding: 0, Data: common.SliceToBytes(initialVel)},
	})
	_ = s
	return nil
}

// posBuf and velBuf return the physical buffer for a ping-pong slot, for presetting into other
// bind group providers before InitBindGroup.
func (p *Pipeline) posBuf(slot int) *wgpu.Buffer { return p.gpuSlot[slot].pos.Buffer(0) }
func (p *Pipeline) velBuf(slot int) *wgpu.Buffer { return p.gpuSlot[slot].vel.Buffer(0) }

// initSpatialPipeline wires the clear/count/scan/reset/sort bind group providers. numBins+1
// sized buffers A and B ping-pong through the prefix-sum scan; whichever holds the final result
// (determined by pass-count parity, computed at construction) serves as the read-only offsets
// array during sort and force evaluation, while the other is re-zeroed and reused as the atomic
// write-cursor array during sort.
func (p *Pipeline) initSpatialPipeline(s Shaders, numBins uint64) error {
	spatialSize := uint64(16)
	binArraySize := (numBins + 1) * 4
	sortedPosSize := uint64(p.params.NumParticles) * 16
	sortedVelSize := uint64(p.params.NumParticles) * 8

	p.binClearBGP = bind_group_provider.NewBindGroupProvider("bin_clear")
	clearDesc := s.BinClear.BindGroupLayoutDescriptor(0)
	if err := p.r.InitBindGroup(p.binClearBGP, clearDesc, nil, map[int]uint64{0: spatialSize, 1: binArraySize}); err != nil {
		return err
	}
	spatialUniform := p.binClearBGP.Buffer(0)
	bufA := p.binClearBGP.Buffer(1)

	p.r.WriteBuffers([]bind_group_provider.BufferWrite{
		{Provider: p.binClearBGP, Binding: 0, Data: common.StructToBytes(&p.spatial)},
	})

	p.binResetBGP = bind_group_provider.NewBindGroupProvider("bin_reset")
	p.binResetBGP.SetBuffer(0, spatialUniform)
	resetDesc := s.BinReset.BindGroupLayoutDescriptor(0)
	if err := p.r.InitBindGroup(p.binResetBGP, resetDesc, nil, map[int]uint64{1: binArraySize}); err != nil {
		return err
	}
	bufB := p.binResetBGP.Buffer(1)

	for slot := 0; slot < 2; slot++ {
		cbgp := bind_group_provider.NewBindGroupProvider(fmt.Sprintf("bin_count_%d", slot))
		cbgp.SetBuffer(0, spatialUniform)
		cbgp.SetBuffer(1, bufA)
		cbgp.SetBuffer(2, p.posBuf(slot))
		if err := p.r.InitBindGroup(cbgp, s.BinCount.BindGroupLayoutDescriptor(0), nil, nil); err != nil {
			return err
		}
		p.binCountBGP[slot] = cbgp
	}

	scanParamsSize := uint64(16)
	p.binScanFwdBGP = bind_group_provider.NewBindGroupProvider("bin_scan_fwd")
	p.binScanFwdBGP.SetBuffer(1, bufA)
	p.binScanFwdBGP.SetBuffer(2, bufB)
	if err := p.r.InitBindGroup(p.binScanFwdBGP, s.BinScan.BindGroupLayoutDescriptor(0), nil, map[int]uint64{0: scanParamsSize}); err != nil {
		return err
	}
	p.binScanBwdBGP = bind_group_provider.NewBindGroupProvider("bin_scan_bwd")
	p.binScanBwdBGP.SetBuffer(0, p.binScanFwdBGP.Buffer(0))
	p.binScanBwdBGP.SetBuffer(1, bufB)
	p.binScanBwdBGP.SetBuffer(2, bufA)
	if err := p.r.InitBindGroup(p.binScanBwdBGP, s.BinScan.BindGroupLayoutDescriptor(0), nil, nil); err != nil {
		return err
	}

	finalBuf, cursorBuf := bufA, bufB
	if !p.finalIsA {
		finalBuf, cursorBuf = bufB, bufA
	}
	p.finalOffsetsBuf = finalBuf

	for slot := 0; slot < 2; slot++ {
		sbgp := bind_group_provider.NewBindGroupProvider(fmt.Sprintf("bin_sort_%d", slot))
		sbgp.SetBuffer(0, spatialUniform)
		sbgp.SetBuffer(1, cursorBuf)
		sbgp.SetBuffer(2, finalBuf)
		sbgp.SetBuffer(3, p.posBuf(slot))
		sbgp.SetBuffer(4, p.velBuf(slot))
		if p.sortedPosBuf != nil {
			sbgp.SetBuffer(5, p.sortedPosBuf)
			sbgp.SetBuffer(6, p.sortedVelBuf)
		}
		if err := p.r.InitBindGroup(sbgp, s.BinSort.BindGroupLayoutDescriptor(0), nil, map[int]uint64{5: sortedPosSize, 6: sortedVelSize}); err != nil {
			return err
		}
		p.binSortBGP[slot] = sbgp
		if p.sortedPosBuf == nil {
			p.sortedPosBuf = sbgp.Buffer(5)
			p.sortedVelBuf = sbgp.Buffer(6)
		}
	}

	return nil
}

// initSimPipeline wires the force and advance compute bind groups. The sorted positions and
// velocities produced by bin-sort.wgsl, and the forces kernel's output velocity scratch, are
// single buffers reused every frame; only the advance kernel's output (the other ping-pong
// slot) depends on which slot is currently live.
func (p *Pipeline) initSimPipeline(s Shaders) error {
	n := uint64(p.params.NumParticles)
	sortedVelSize := n * 8
	nt := uint64(p.params.NumTypes)

	p.forcesBGP = bind_group_provider.NewBindGroupProvider("particle_forces")
	p.forcesBGP.SetBuffer(5, p.sortedPosBuf)
	p.forcesBGP.SetBuffer(6, p.sortedVelBuf)
	p.forcesBGP.SetBuffer(7, p.finalOffsetsBuf)
	forcesDesc := s.Forces.BindGroupLayoutDescriptor(0)
	sizeOverrides := map[int]uint64{
		2: nt * nt * 4,
		3: nt * nt * 4,
		4: nt * nt * 4,
		8: sortedVelSize,
	}
	if err := p.r.InitBindGroup(p.forcesBGP, forcesDesc, nil, sizeOverrides); err != nil {
		return err
	}
	// Share the sorted position/velocity buffers and bin offsets array already created by
	// bin-sort's slot-0 provider; the forces kernel reads whichever slot bin-sort most recently
	// wrote into (selected at dispatch time), but the physical sorted buffers are common.
	simUniform := p.params.ToUniform()
	p.r.WriteBuffers([]bind_group_provider.BufferWrite{
		{Provider: p.forcesBGP, Binding: 0, Data: common.StructToBytes(&simUniform)},
		{Provider: p.forcesBGP, Binding: 1, Data: common.StructToBytes(&p.spatial)},
		{Provider: p.forcesBGP, Binding: 2, Data: common.SliceToBytes(p.interactions.Values)},
		{Provider: p.forcesBGP, Binding: 3, Data: common.SliceToBytes(radiiMinSlice(p.radii))},
		{Provider: p.forcesBGP, Binding: 4, Data: common.SliceToBytes(radiiMaxSlice(p.radii))},
	})

	for slot := 0; slot < 2; slot++ {
		abgp := bind_group_provider.NewBindGroupProvider(fmt.Sprintf("particle_advance_%d", slot))
		abgp.SetBuffer(0, p.forcesBGP.Buffer(0))
		abgp.SetBuffer(2, p.forcesBGP.Buffer(5))
		abgp.SetBuffer(3, p.forcesBGP.Buffer(8))
		abgp.SetBuffer(4, p.posBuf(slot))
		abgp.SetBuffer(5, p.velBuf(slot))
		if err := p.r.InitBindGroup(abgp, s.Advance.BindGroupLayoutDescriptor(0), nil, map[int]uint64{1: 48}); err != nil {
			return err
		}
		p.advanceBGP[slot] = abgp
	}

	return nil
}

// initRenderPipeline wires the camera, render-params/particle, and brush-overlay bind groups.
// The camera occupies its own bind group, reused directly from camera2d so draw calls never
// need a duplicate camera uniform buffer.
func (p *Pipeline) initRenderPipeline(s Shaders) error {
	p.renderCameraBGP = p.cam.BindGroupProvider()
	if err := p.r.InitBindGroup(p.renderCameraBGP, s.RenderVertex.BindGroupLayoutDescriptor(0), nil, map[int]uint64{0: 16}); err != nil {
		return err
	}

	n := uint64(p.params.NumParticles)
	nt := uint64(p.params.NumTypes)
	for slot := 0; slot < 2; slot++ {
		rbgp := bind_group_provider.NewBindGroupProvider(fmt.Sprintf("particle_render_%d", slot))
		rbgp.SetBuffer(1, p.posBuf(slot))
		if err := p.r.InitBindGroup(rbgp, s.RenderVertex.BindGroupLayoutDescriptor(1), nil, map[int]uint64{
			0: 32,
			2: nt * 16,
			3: uint64(MaxRenderCopies) * 8,
		}); err != nil {
			return err
		}
		p.renderParamsBGP[slot] = rbgp
	}
	p.r.WriteBuffers([]bind_group_provider.BufferWrite{
		{Provider: p.renderParamsBGP[0], Binding: 2, Data: common.SliceToBytes(p.palette)},
		{Provider: p.renderParamsBGP[1], Binding: 2, Data: common.SliceToBytes(p.palette)},
	})

	p.overlayCameraBGP = p.renderCameraBGP
	p.overlayParamsBGP = bind_group_provider.NewBindGroupProvider("brush_overlay_params")
	return p.r.InitBindGroup(p.overlayParamsBGP, s.OverlayVertex.BindGroupLayoutDescriptor(1), nil, map[int]uint64{0: 32})
}

func radiiMinSlice(m RadiusMatrix) []float32 {
	out := make([]float32, len(m.Values))
	for i, rp := range m.Values {
		out[i] = rp.Min
	}
	return out
}

func radiiMaxSlice(m RadiusMatrix) []float32 {
	out := make([]float32, len(m.Values))
	for i, rp := range m.Values {
		out[i] = rp.Max
	}
	return out
}

// PrepareCompute runs one full simulation step: spatial-index rebuild followed by force and
// advance dispatch, then flips the ping-pong slot. Must be called inside a BeginComputeFrame /
// EndComputeFrame pair (the engine's render loop batches this across all active drivers).
func (p *Pipeline) PrepareCompute(deltaTime float32) {
	if !p.active {
		return
	}

	p.params.DT = deltaTime
	uniform := p.params.ToUniform()
	p.r.WriteBuffers([]bind_group_provider.BufferWrite{
		{Provider: p.forcesBGP, Binding: 0, Data: common.StructToBytes(&uniform)},
		{Provider: p.advanceBGP[0], Binding: 0, Data: common.StructToBytes(&uniform)},
		{Provider: p.advanceBGP[0], Binding: 1, Data: common.StructToBytes(&p.brush)},
		{Provider: p.advanceBGP[1], Binding: 1, Data: common.StructToBytes(&p.brush)},
	})

	src := p.cur
	dst := 1 - p.cur

	numBins := uint32(p.spatial.GridWidth) * uint32(p.spatial.GridHeight)
	particleGroups := workgroupCount(p.params.NumParticles, computeWorkgroupThreshold)
	binGroups := workgroupCount(numBins+1, computeWorkgroupThreshold)

	p.r.DispatchCompute(pipelineKeyBinClear, p.binClearBGP, [3]uint32{binGroups, 1, 1})
	p.r.DispatchCompute(pipelineKeyBinCount, p.binCountBGP[src], [3]uint32{particleGroups, 1, 1})

	length := numBins + 1
	scanFwd := true
	for i := 0; i < p.passes; i++ {
		shift := uint32(1) << uint32(i)
		bgp := p.binScanFwdBGP
		if !scanFwd {
			bgp = p.binScanBwdBGP
		}
		p.r.WriteBuffers([]bind_group_provider.BufferWrite{
			{Provider: bgp, Binding: 0, Data: common.SliceToBytes([]uint32{length, shift, 0, 0})},
		})
		p.r.DispatchCompute(pipelineKeyBinScan, bgp, [3]uint32{binGroups, 1, 1})
		scanFwd = !scanFwd
	}

	p.r.DispatchCompute(pipelineKeyBinReset, p.binResetBGP, [3]uint32{workgroupCount(numBins, computeWorkgroupThreshold), 1, 1})
	p.r.DispatchCompute(pipelineKeyBinSort, p.binSortBGP[src], [3]uint32{particleGroups, 1, 1})
	p.r.DispatchCompute(pipelineKeyForces, p.forcesBGP, [3]uint32{particleGroups, 1, 1})
	p.r.DispatchCompute(pipelineKeyAdvance, p.advanceBGP[dst], [3]uint32{particleGroups, 1, 1})

	p.cur = dst
	p.store.Toggle()
}

// workgroupCount returns the number of workgroups of the given size needed to cover n items.
func workgroupCount(n uint32, size uint32) uint32 {
	if n == 0 {
		return 0
	}
	return (n + size - 1) / size
}

// DrawCalls issues the particle render draw call for the current render mode, followed by an
// optional brush overlay ring when the brush is active.
func (p *Pipeline) DrawCalls() error {
	if !p.active {
		return nil
	}

	p.cam.Update()

	mode := ModeForBoundary(p.params.BoundaryMode, p.mode == RenderGlow)
	p.mode = mode
	p.copyOffsets = p.computeCopyOffsets(mode)
	if len(p.copyOffsets) > MaxRenderCopies {
		log.Printf("core: render mode %v wants %d copy offsets, clamping to the %d-tile buffer capacity (zoom out less to avoid gaps)", mode, len(p.copyOffsets), MaxRenderCopies)
		p.copyOffsets = p.copyOffsets[:MaxRenderCopies]
	}
	copyCount := len(p.copyOffsets)

	renderParams := struct {
		RenderMode, CopyCount                                   uint32
		GlowSize, GlowSteepness, GlowIntensity, ParticleSize     float32
		Pad0, Pad1                                               float32
	}{
		RenderMode:     uint32(renderModeGPUValue(mode)),
		CopyCount:      uint32(copyCount),
		GlowSize:       2.5,
		GlowSteepness:  2.0,
		GlowIntensity:  1.0,
		ParticleSize:   p.params.ParticleSize,
	}

	offsets := make([][2]float32, MaxRenderCopies)
	copy(offsets, p.copyOffsets)

	cur := p.renderParamsBGP[p.cur]
	p.r.WriteBuffers([]bind_group_provider.BufferWrite{
		{Provider: cur, Binding: 0, Data: common.StructToBytes(&renderParams)},
		{Provider: cur, Binding: 3, Data: common.SliceToBytes(offsets)},
	})

	instanceCount := InstanceCount(mode, p.params.NumParticles, MirrorCopyCount(false), copyCount)
	if err := p.r.DrawCall(pipelineKeyRender, p.meshBGP, instanceCount, []bind_group_provider.BindGroupProvider{p.renderCameraBGP, cur}); err != nil {
		return wrapDrawError(err)
	}

	if p.brush.IsActive != 0 {
		overlay := struct {
			CenterX, CenterY, Radius, LineThickness float32
			Color                                   RGBA
		}{
			CenterX:       p.brush.PosX,
			CenterY:       p.brush.PosY,
			Radius:        p.brush.Radius,
			LineThickness: 2,
			Color:         RGBA{1, 1, 1, 0.6},
		}
		p.r.WriteBuffers([]bind_group_provider.BufferWrite{
			{Provider: p.overlayParamsBGP, Binding: 0, Data: common.StructToBytes(&overlay)},
		})
		if err := p.r.DrawCall(pipelineKeyBrushOverlay, p.meshBGP, 1, []bind_group_provider.BindGroupProvider{p.overlayCameraBGP, p.overlayParamsBGP}); err != nil {
			return wrapDrawError(err)
		}
	}

	return nil
}

// wrapDrawError classifies a renderer draw-call failure as a *RuntimeError. Device loss is
// recoverable (the caller must tear down and reinitialize the Pipeline); every other draw
// failure just drops the frame.
func wrapDrawError(err error) error {
	if isDeviceLostError(err) {
		return &RuntimeError{Stage: "draw", Recoverable: true, Err: fmt.Errorf("%w: %v", ErrDeviceLost, err)}
	}
	return &RuntimeError{Stage: "draw", Recoverable: false, Err: err}
}

// renderModeGPUValue maps a RenderMode to the render_params.render_mode value the shader
// switches on: 0 for any non-glow mode (Standard/MirrorWrap/InfiniteWrap share one vertex path
// driven by copy_offsets) and 1 for Glow.
func renderModeGPUValue(mode RenderMode) int {
	if mode == RenderGlow {
		return 1
	}
	return 0
}

// computeCopyOffsets derives the per-instance world-space offsets the render shader adds to
// each particle position, based on the active render mode.
func (p *Pipeline) computeCopyOffsets(mode RenderMode) [][2]float32 {
	switch mode {
	case RenderMirrorWrap:
		return MirrorOffsets(p.params.WorldWidth, p.params.WorldHeight, MirrorCopyCount(false))
	case RenderInfiniteWrap:
		minX, minY, maxX, maxY := p.cam.VisibleWorldRect()
		return InfiniteWrapTiles(p.params.WorldWidth, p.params.WorldHeight, minX, maxX, minY, maxY)
	default:
		return [][2]float32{{0, 0}}
	}
}

// Resize notifies the renderer of a surface size change and updates the camera's viewport. A
// minimized or degenerate window (width or height <= 0) cannot be configured as a wgpu surface;
// that case is reported as a non-fatal *RuntimeError and the last good surface configuration is
// left in place, rather than handed to the renderer where it would fail deeper in the stack.
func (p *Pipeline) Resize(width, height int) error {
	if width <= 0 || height <= 0 {
		return &RuntimeError{Stage: "resize", Recoverable: false, Err: fmt.Errorf("%w: got %dx%d", ErrResizeFailed, width, height)}
	}
	p.r.Resize(width, height)
	p.cam.SetViewport(float32(width), float32(height))
	return nil
}
