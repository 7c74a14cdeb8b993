package core

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel configuration errors. All of them are rejected before a Pipeline is constructed, by
// ValidateParams/ValidateMatrices or, for ErrCellSizeTooSmall, by DeriveSpatialParams — the core
// is never built into an invalid state. Wrap with
// fmt.Errorf("%w: ...") at the call site when more context helps the caller.
var (
	ErrParticleCount   = errors.New("core: particle count out of range")
	ErrTypeCount       = errors.New("core: type count out of range")
	ErrWorldSize       = errors.New("core: world width/height must be positive")
	ErrFriction        = errors.New("core: friction must be in [0, 1]")
	ErrMatrixSize      = errors.New("core: matrix size does not match type count")
	ErrRadiusInvariant = errors.New("core: radius matrix violates 0 < min_r <= max_r")
	ErrCellSizeTooSmall = errors.New("core: cell_size must be >= max(max_r) over all type pairs")
	ErrNonFinite       = errors.New("core: matrix contains a NaN or infinite value")
)

// Runtime errors are reported, never panicked on the per-frame hot path — §7 of the design
// requires that no error from inside a compute kernel is observable; these surface only from
// host-side GPU resource management calls that happen outside a dispatch. Readback failure is
// not a sentinel here: this module performs no texture readback (screenshot/video capture is an
// external collaborator, per the core's scope), so there is nothing in this package that could
// ever produce one.
var (
	ErrDeviceLost   = errors.New("core: GPU device lost, pipeline must be fully reinitialized")
	ErrResizeFailed = errors.New("core: surface resize failed, retaining last good surface")
)

// ConfigError reports a Params/matrix value ValidateParams or ValidateMatrices rejected before
// any GPU object was created. Field names the rejected value; Unwrap exposes the sentinel
// underneath so callers can still branch with errors.Is against ErrParticleCount and friends.
type ConfigError struct {
	Field string
	Err   error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("core: invalid %s: %v", e.Field, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// RuntimeError reports a failure from Pipeline.DrawCalls or Pipeline.Resize once the pipeline
// is already running. Stage ("draw" or "resize") names which of the two the failure came from.
// Recoverable is true only for device loss, which the caller must handle by
// tearing down and reinitializing the Pipeline from scratch; every other stage failure is
// reported for logging and otherwise drops the current frame.
type RuntimeError struct {
	Stage       string
	Recoverable bool
	Err         error
}

func (e *RuntimeError) Error() string {
	return fmt.Sprintf("core: %s failed: %v", e.Stage, e.Err)
}

func (e *RuntimeError) Unwrap() error {
	return e.Err
}

// isDeviceLostError reports whether err looks like a lost-device failure rather than an
// ordinary draw/readback error. The webgpu binding surfaces device loss as a plain *error
// whose message names the condition, not a typed value, so this matches on that text the same
// way the renderer already treats wgpu errors as opaque strings.
func isDeviceLostError(err error) bool {
	return err != nil && strings.Contains(strings.ToLower(err.Error()), "lost")
}
