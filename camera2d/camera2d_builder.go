package camera2d

import "github.com/paulrobello/par-particle-life/common"

// Camera2DBuilderOption is a functional option used to configure a Camera2D during construction.
type Camera2DBuilderOption func(*cameraImpl)

// WithCenter sets the initial world-space focal point.
func WithCenter(x, y float32) Camera2DBuilderOption {
	return func(c *cameraImpl) {
		c.centerX, c.centerY = x, y
	}
}

// WithZoom sets the initial zoom factor. A zero or negative value falls back to 1.0.
func WithZoom(zoom float32) Camera2DBuilderOption {
	return func(c *cameraImpl) {
		c.zoom = common.Coalesce(max(zoom, 0), 1.0)
	}
}

// WithViewport sets the initial viewport size in pixels.
func WithViewport(w, h float32) Camera2DBuilderOption {
	return func(c *cameraImpl) {
		c.viewportW, c.viewportH = w, h
	}
}
