package stereo

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"
)

var (
	ErrUnknownView   = errors.New("unknown view")
	ErrDuplicateView = errors.New("duplicate view")
	ErrInvalidName   = errors.New("invalid view name")
	ErrEyeSeparation = errors.New("invalid eye separation")
)

// DefaultEyeSeparation is the interocular distance in tracker units (meters)
const DefaultEyeSeparation = 0.064

// Controller manages the CAVE views of one main camera and their stereo pairs
//
// Views are validated before they replace a calibration; a failing add or modify
// leaves the controller unchanged
type Controller struct {
	camera Camera
	rs     RenderSystem
	logger *slog.Logger

	views         map[string]*View
	eyeSeparation float64
}

// NewController creates a controller rendering through camera
func NewController(camera Camera, rs RenderSystem, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.Default()
	}
	return &Controller{
		camera:        camera,
		rs:            rs,
		logger:        logger,
		views:         make(map[string]*View),
		eyeSeparation: DefaultEyeSeparation,
	}
}

// AddView creates and initializes a view
func (c *Controller) AddView(cfg ViewConfig) error {
	if cfg.Name == "" {
		return ErrInvalidName
	}
	if _, ok := c.views[cfg.Name]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateView, cfg.Name)
	}

	v := NewView(cfg, c.rs)
	if err := v.Initialize(c.camera); err != nil {
		c.logger.Warn("view rejected", "view", cfg.Name, "error", err)
		return err
	}
	c.views[cfg.Name] = v
	c.logger.Info("view added", "view", cfg.Name, "fovy_deg", v.Frustum().FOVY()*180/math.Pi)
	return nil
}

// ModifyView recalculates an existing view from new calibration points
func (c *Controller) ModifyView(cfg ViewConfig) error {
	v, ok := c.views[cfg.Name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownView, cfg.Name)
	}
	if err := v.ReCalculateProjection(cfg.TopLeft, cfg.BottomLeft, cfg.BottomRight, cfg.Eye); err != nil {
		c.logger.Warn("view modification rejected", "view", cfg.Name, "error", err)
		return err
	}
	return nil
}

// RemoveView destroys a view
func (c *Controller) RemoveView(name string) error {
	if _, ok := c.views[name]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownView, name)
	}
	delete(c.views, name)
	c.logger.Info("view removed", "view", name)
	return nil
}

// GetView returns the named view
func (c *Controller) GetView(name string) (*View, error) {
	v, ok := c.views[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownView, name)
	}
	return v, nil
}

// Views returns view names, sorted
func (c *Controller) Views() []string {
	names := make([]string, 0, len(c.views))
	for name := range c.views {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Configs returns the calibrations of all views in name order
func (c *Controller) Configs() []ViewConfig {
	names := c.Views()
	out := make([]ViewConfig, len(names))
	for i, name := range names {
		out[i] = c.views[name].Config()
	}
	return out
}

// SetEyeSeparation sets the interocular distance used by StereoProjections
func (c *Controller) SetEyeSeparation(sep float64) error {
	if sep < 0 || math.IsNaN(sep) || math.IsInf(sep, 0) {
		return fmt.Errorf("%w: %g", ErrEyeSeparation, sep)
	}
	c.eyeSeparation = sep
	return nil
}

// EyeSeparation returns the interocular distance
func (c *Controller) EyeSeparation() float64 {
	return c.eyeSeparation
}

// RenderSystem returns the projection convention of the controller
func (c *Controller) RenderSystem() RenderSystem {
	return c.rs
}

// StereoProjections returns left and right eye projections for the named view
// Each eye is offset by half the separation along the screen's right axis
func (c *Controller) StereoProjections(name string) (left, right *mat.Dense, err error) {
	v, err := c.GetView(name)
	if err != nil {
		return nil, nil, err
	}

	cfg := v.Config()
	s, err := cfg.screen()
	if err != nil {
		return nil, nil, err
	}
	half := r3.Scale(c.eyeSeparation/2, s.right)

	eyes := [2]r3.Vec{r3.Sub(cfg.Eye, half), r3.Add(cfg.Eye, half)}
	var out [2]*mat.Dense
	for i, eye := range eyes {
		ec := cfg
		ec.Eye = eye
		m, _, err := Projection(ec, v.near, v.far, c.rs)
		if err != nil {
			return nil, nil, fmt.Errorf("eye %d: %w", i, err)
		}
		out[i] = m
	}
	return out[0], out[1], nil
}
