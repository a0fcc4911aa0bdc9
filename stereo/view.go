package stereo

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"
)

var ErrNotInitialized = errors.New("view not initialized")

// Camera is the main camera a view copies its clip planes and visibility from
type Camera interface {
	NearClip() float64
	FarClip() float64
	VisibilityMask() uint32
}

// CameraParams is a plain Camera
type CameraParams struct {
	Near, Far  float64
	Visibility uint32
}

func (c CameraParams) NearClip() float64      { return c.Near }
func (c CameraParams) FarClip() float64       { return c.Far }
func (c CameraParams) VisibilityMask() uint32 { return c.Visibility }

// View is one CAVE display surface with its custom projection
type View struct {
	config ViewConfig
	rs     RenderSystem

	near, far  float64
	visibility uint32

	projection  *mat.Dense
	frustum     Frustum
	initialized bool
}

// NewView creates an uninitialized view for cfg
func NewView(cfg ViewConfig, rs RenderSystem) *View {
	return &View{config: cfg, rs: rs}
}

// Initialize copies clip planes and visibility from camera and computes the first projection
func (v *View) Initialize(camera Camera) error {
	v.near = camera.NearClip()
	v.far = camera.FarClip()
	v.visibility = camera.VisibilityMask()
	v.initialized = true

	c := v.config
	return v.ReCalculateProjection(c.TopLeft, c.BottomLeft, c.BottomRight, c.Eye)
}

// ReCalculateProjection recomputes the projection for new calibration points
// On error the previous projection and calibration are kept
func (v *View) ReCalculateProjection(topLeft, bottomLeft, bottomRight, eye r3.Vec) error {
	if !v.initialized {
		return fmt.Errorf("%w: %q", ErrNotInitialized, v.config.Name)
	}

	cfg := ViewConfig{
		Name:        v.config.Name,
		TopLeft:     topLeft,
		BottomLeft:  bottomLeft,
		BottomRight: bottomRight,
		Eye:         eye,
	}
	m, f, err := Projection(cfg, v.near, v.far, v.rs)
	if err != nil {
		return err
	}
	v.config = cfg
	v.projection = m
	v.frustum = f
	return nil
}

// Name returns the view's unique name
func (v *View) Name() string {
	return v.config.Name
}

// Config returns the current calibration
func (v *View) Config() ViewConfig {
	return v.config
}

// Projection returns a copy of the projection matrix, nil before a successful Initialize
func (v *View) Projection() *mat.Dense {
	if v.projection == nil {
		return nil
	}
	return mat.DenseCopyOf(v.projection)
}

// Frustum returns the near-plane extents of the current projection
func (v *View) Frustum() Frustum {
	return v.frustum
}

// Visibility returns the visibility mask copied from the main camera
func (v *View) Visibility() uint32 {
	return v.visibility
}

// Initialized reports whether Initialize has run
func (v *View) Initialized() bool {
	return v.initialized
}
