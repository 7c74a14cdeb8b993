package camera2d

import (
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/paulrobello/par-particle-life/engine/renderer/bind_group_provider"
)

// cameraCount generates unique bind group provider names for each camera instance.
var cameraCount atomic.Uint64

// Uniform is the GPU wire layout the render shaders bind as the camera uniform: world-space
// center, scale (zoom), and viewport aspect, packed to 16 bytes.
type Uniform struct {
	CenterX, CenterY float32
	ScaleX, ScaleY   float32
}

type cameraImpl struct {
	mu *sync.Mutex

	centerX, centerY float32
	zoom             float32
	viewportW        float32
	viewportH        float32

	uniform           Uniform
	bindGroupProvider bind_group_provider.BindGroupProvider
}

// Camera2D holds pan/zoom state for an orthographic, world-space-to-screen-space transform.
// It replaces a perspective Camera in a domain with no depth: particles render through
// `(p - center) * (scale_x, -scale_y)` per the render kernel spec, and Update() recomputes
// that scale from the current zoom and viewport size once per frame.
type Camera2D interface {
	// Center returns the world-space point the viewport is centered on.
	Center() (x, y float32)

	// Zoom returns the current zoom factor; 1.0 means one world unit per pixel.
	Zoom() float32

	// Viewport returns the current viewport size in pixels.
	Viewport() (w, h float32)

	// Uniform returns the last-computed GPU uniform value.
	Uniform() Uniform

	// BindGroupProvider returns the camera's bind group provider for GPU resources.
	BindGroupProvider() bind_group_provider.BindGroupProvider

	// Update recomputes the GPU uniform from the current center/zoom/viewport. Call once per
	// frame before issuing render draws.
	Update()

	// SetCenter moves the viewport's focal point in world space.
	SetCenter(x, y float32)

	// Pan shifts the center by a screen-space pixel delta, accounting for zoom.
	Pan(dxPixels, dyPixels float32)

	// SetZoom sets the zoom factor directly.
	SetZoom(zoom float32)

	// ZoomBy multiplies the zoom factor, clamped to [minZoom, maxZoom].
	ZoomBy(factor, minZoom, maxZoom float32)

	// SetViewport sets the viewport size in pixels, typically from a window resize callback.
	SetViewport(w, h float32)

	// SetBindGroupProvider sets the camera's bind group provider.
	SetBindGroupProvider(provider bind_group_provider.BindGroupProvider)

	// ScreenToWorld converts a screen-space pixel coordinate to world space using the last
	// computed uniform. Used to translate mouse position into brush position.
	ScreenToWorld(sx, sy float32) (wx, wy float32)

	// VisibleWorldRect returns the world-space rectangle currently visible in the viewport,
	// as (minX, minY, maxX, maxY). Used by InfiniteWrap tiling.
	VisibleWorldRect() (minX, minY, maxX, maxY float32)
}

var _ Camera2D = &cameraImpl{}

// NewCamera2D creates a new Camera2D with a zoom of 1 centered on the origin.
func NewCamera2D(options ...Camera2DBuilderOption) Camera2D {
	c := &cameraImpl{
		mu:        &sync.Mutex{},
		zoom:      1.0,
		viewportW: 1.0,
		viewportH: 1.0,
		bindGroupProvider: bind_group_provider.NewBindGroupProvider(
			"camera2d_" + strconv.FormatUint(cameraCount.Load(), 10),
		),
	}
	for _, option := range options {
		option(c)
	}
	c.updateUniform()
	cameraCount.Add(1)
	return c
}

func (c *cameraImpl) Center() (x, y float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.centerX, c.centerY
}

func (c *cameraImpl) Zoom() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.zoom
}

func (c *cameraImpl) Viewport() (w, h float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewportW, c.viewportH
}

func (c *cameraImpl) Uniform() Uniform {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.uniform
}

func (c *cameraImpl) BindGroupProvider() bind_group_provider.BindGroupProvider {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.bindGroupProvider
}

func (c *cameraImpl) SetBindGroupProvider(provider bind_group_provider.BindGroupProvider) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.bindGroupProvider = provider
}

func (c *cameraImpl) Update() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.updateUniform()
}

func (c *cameraImpl) SetCenter(x, y float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.centerX, c.centerY = x, y
}

func (c *cameraImpl) Pan(dxPixels, dyPixels float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.zoom == 0 {
		return
	}
	c.centerX -= dxPixels / c.zoom
	c.centerY -= dyPixels / c.zoom
}

func (c *cameraImpl) SetZoom(zoom float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.zoom = zoom
}

func (c *cameraImpl) ZoomBy(factor, minZoom, maxZoom float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.zoom *= factor
	if c.zoom < minZoom {
		c.zoom = minZoom
	}
	if c.zoom > maxZoom {
		c.zoom = maxZoom
	}
}

func (c *cameraImpl) SetViewport(w, h float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.viewportW, c.viewportH = w, h
}

func (c *cameraImpl) ScreenToWorld(sx, sy float32) (wx, wy float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.uniform.ScaleX == 0 || c.uniform.ScaleY == 0 {
		return c.centerX, c.centerY
	}
	ndcX := 2*sx/c.viewportW - 1
	ndcY := 1 - 2*sy/c.viewportH
	wx = ndcX/c.uniform.ScaleX + c.centerX
	wy = ndcY/-c.uniform.ScaleY + c.centerY
	return wx, wy
}

func (c *cameraImpl) VisibleWorldRect() (minX, minY, maxX, maxY float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	halfW := c.viewportW / (2 * c.zoom)
	halfH := c.viewportH / (2 * c.zoom)
	return c.centerX - halfW, c.centerY - halfH, c.centerX + halfW, c.centerY + halfH
}

// updateUniform recomputes the per-instance transform scale from the current zoom and
// viewport size. Caller must hold the mutex. scale_y is negated so that increasing world-Y
// moves particles down the screen, matching the render kernel's `(p - center)*(scale_x,-scale_y)`.
func (c *cameraImpl) updateUniform() {
	sx := float32(0)
	sy := float32(0)
	if c.viewportW > 0 {
		sx = 2 * c.zoom / c.viewportW
	}
	if c.viewportH > 0 {
		sy = 2 * c.zoom / c.viewportH
	}
	c.uniform = Uniform{
		CenterX: c.centerX,
		CenterY: c.centerY,
		ScaleX:  sx,
		ScaleY:  sy,
	}
}
