package core

import (
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
)

// regenerateChunkSize is the minimum number of particles assigned to a single worker task
// during Store.Regenerate. Below this, chunking overhead would exceed the savings.
const regenerateChunkSize = 4096

// Store owns the two interleaved position/type arrays and two velocity arrays described in
// §2/§3's double-buffering model. A "current" index toggles once per frame; each frame reads
// from current and writes to next. The spatial index and its sorted mirror are not Store
// state — the Pipeline rebuilds them every frame on the GPU with its bin passes
// (BuildSpatialIndex is the CPU reference of that build).
type Store struct {
	mu sync.RWMutex

	pos     [2][]ParticlePosType
	vel     [2][]ParticleVel
	current int
	n       uint32

	// regenWorkers fans out PositionGenerator writes across goroutines for large N. Reused
	// across calls rather than spawned fresh each time.
	regenWorkers worker.DynamicWorkerPool
}

// NewStore allocates a Store with fixed capacity for up to capacity particles.
func NewStore(capacity uint32) *Store {
	s := &Store{
		pos: [2][]ParticlePosType{
			make([]ParticlePosType, capacity),
			make([]ParticlePosType, capacity),
		},
		vel: [2][]ParticleVel{
			make([]ParticleVel, capacity),
			make([]ParticleVel, capacity),
		},
	}
	s.regenWorkers = worker.NewDynamicWorkerPool(4, 256, time.Second)
	return s
}

// Count returns the number of live particles (N <= capacity).
func (s *Store) Count() uint32 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.n
}

// Current returns the position and velocity slices a frame should read from.
func (s *Store) Current() ([]ParticlePosType, []ParticleVel) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := s.n
	return s.pos[s.current][:n], s.vel[s.current][:n]
}

// Next returns the position and velocity slices a frame should write to.
func (s *Store) Next() ([]ParticlePosType, []ParticleVel) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := s.n
	return s.pos[1-s.current][:n], s.vel[1-s.current][:n]
}

// Toggle flips the current buffer index; it takes effect starting with the next frame's
// dispatch bindings, per §5's ordering guarantees.
func (s *Store) Toggle() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = 1 - s.current
}

// Regenerate replaces the store's contents with a fresh call to gen, fanned out across the
// worker pool when N is large enough to make that worthwhile. Both buffers are written so
// that the buffer swap discipline stays correct no matter which one is "current" afterward.
func (s *Store) Regenerate(variant Variant, gen PositionGenerator, spec PositionSpec) {
	particles := gen.GeneratePositions(variant, spec)
	n := uint32(len(particles))
	if n > uint32(len(s.pos[0])) {
		n = uint32(len(s.pos[0]))
		particles = particles[:n]
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.n = n

	if n < regenerateChunkSize {
		s.writeChunk(particles, 0)
		return
	}

	var wg sync.WaitGroup
	taskID := 0
	for start := 0; start < len(particles); start += regenerateChunkSize {
		end := start + regenerateChunkSize
		if end > len(particles) {
			end = len(particles)
		}
		chunk := particles[start:end]
		offset := start
		wg.Add(1)
		id := taskID
		taskID++
		s.regenWorkers.SubmitTask(worker.Task{
			ID: id,
			Do: func() (any, error) {
				defer wg.Done()
				s.writeChunk(chunk, offset)
				return nil, nil
			},
		})
	}
	wg.Wait()
}

// writeChunk writes a contiguous slice of generated particles into both position/velocity
// buffers at the given offset. Callers hold s.mu for the duration.
func (s *Store) writeChunk(particles []GeneratedParticle, offset int) {
	for i, p := range particles {
		idx := offset + i
		pt := ParticlePosType{X: p.X, Y: p.Y, Type: uint32(p.Type)}
		vl := ParticleVel{VX: p.VX, VY: p.VY}
		s.pos[0][idx] = pt
		s.pos[1][idx] = pt
		s.vel[0][idx] = vl
		s.vel[1][idx] = vl
	}
}

// BrushDraw appends up to count new particles of the given type at a jittered position around
// (x, y), clamped to the store's remaining capacity. Supplements the base force/attract/repel
// brush semantics with the "paint new particles" draw tool a sidebar brush palette needs.
func (s *Store) BrushDraw(x, y float32, particleType uint32, count int, jitter float32, rng func() float32) {
	s.mu.Lock()
	defer s.mu.Unlock()

	capacity := uint32(len(s.pos[0]))
	room := capacity - s.n
	if uint32(count) > room {
		count = int(room)
	}
	for i := 0; i < count; i++ {
		idx := s.n
		pt := ParticlePosType{X: x + (rng()*2-1)*jitter, Y: y + (rng()*2-1)*jitter, Type: particleType}
		s.pos[0][idx] = pt
		s.pos[1][idx] = pt
		s.vel[0][idx] = ParticleVel{}
		s.vel[1][idx] = ParticleVel{}
		s.n++
	}
}

// BrushErase removes every live particle within radius of (x, y) from both buffers,
// compacting the arrays so indices stay contiguous in [0, n).
func (s *Store) BrushErase(x, y, radius float32) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	radiusSq := radius * radius
	write := uint32(0)
	removed := 0
	for read := uint32(0); read < s.n; read++ {
		p := s.pos[0][read]
		dx, dy := p.X-x, p.Y-y
		if dx*dx+dy*dy <= radiusSq {
			removed++
			continue
		}
		if write != read {
			s.pos[0][write] = s.pos[0][read]
			s.pos[1][write] = s.pos[1][read]
			s.vel[0][write] = s.vel[0][read]
			s.vel[1][write] = s.vel[1][read]
		}
		write++
	}
	s.n = write
	return removed
}
