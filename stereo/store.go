package stereo

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"gonum.org/v1/gonum/spatial/r3"
	"gopkg.in/yaml.v3"
)

// CalibrationFile is the default file name of the CAVE calibration
const CalibrationFile = "cave.yaml"

// Calibration is the persisted CAVE setup
type Calibration struct {
	RenderSystem  string       `yaml:"render_system"`
	EyeSeparation float64      `yaml:"eye_separation"`
	Near          float64      `yaml:"near"`
	Far           float64      `yaml:"far"`
	Views         []ViewRecord `yaml:"views"`
}

// ViewRecord is the YAML form of a ViewConfig
type ViewRecord struct {
	Name        string     `yaml:"name"`
	TopLeft     [3]float64 `yaml:"top_left,flow"`
	BottomLeft  [3]float64 `yaml:"bottom_left,flow"`
	BottomRight [3]float64 `yaml:"bottom_right,flow"`
	Eye         [3]float64 `yaml:"eye,flow"`
}

// DefaultCalibration returns an empty OpenGL calibration
func DefaultCalibration() *Calibration {
	return &Calibration{
		RenderSystem:  OpenGL.String(),
		EyeSeparation: DefaultEyeSeparation,
		Near:          0.1,
		Far:           1000,
	}
}

func toVec(a [3]float64) r3.Vec {
	return r3.Vec{X: a[0], Y: a[1], Z: a[2]}
}

func fromVec(v r3.Vec) [3]float64 {
	return [3]float64{v.X, v.Y, v.Z}
}

// Config converts the record to a ViewConfig
func (r ViewRecord) Config() ViewConfig {
	return ViewConfig{
		Name:        r.Name,
		TopLeft:     toVec(r.TopLeft),
		BottomLeft:  toVec(r.BottomLeft),
		BottomRight: toVec(r.BottomRight),
		Eye:         toVec(r.Eye),
	}
}

// RecordOf converts a ViewConfig to its YAML form
func RecordOf(c ViewConfig) ViewRecord {
	return ViewRecord{
		Name:        c.Name,
		TopLeft:     fromVec(c.TopLeft),
		BottomLeft:  fromVec(c.BottomLeft),
		BottomRight: fromVec(c.BottomRight),
		Eye:         fromVec(c.Eye),
	}
}

// Load reads a calibration, starting from the defaults
// A missing file yields the defaults
func Load(path string) (*Calibration, error) {
	cal := DefaultCalibration()
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cal, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading calibration: %w", err)
	}
	if err := yaml.Unmarshal(data, cal); err != nil {
		return nil, fmt.Errorf("parsing calibration: %w", err)
	}
	if _, ok := RenderSystemByName(cal.RenderSystem); !ok {
		return nil, fmt.Errorf("parsing calibration: unknown render system %q", cal.RenderSystem)
	}
	return cal, nil
}

// Save writes the calibration to path
func (c *Calibration) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling calibration: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("writing calibration: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing calibration: %w", err)
	}
	return nil
}

// Controller builds a controller holding every valid view of the calibration
// Invalid views are logged and skipped
func (c *Calibration) Controller(logger *slog.Logger) (*Controller, error) {
	if logger == nil {
		logger = slog.Default()
	}
	rs, ok := RenderSystemByName(c.RenderSystem)
	if !ok {
		return nil, fmt.Errorf("unknown render system %q", c.RenderSystem)
	}
	if err := validClip(c.Near, c.Far); err != nil {
		return nil, err
	}

	ctrl := NewController(CameraParams{Near: c.Near, Far: c.Far, Visibility: ^uint32(0)}, rs, logger)
	if err := ctrl.SetEyeSeparation(c.EyeSeparation); err != nil {
		return nil, err
	}
	for _, r := range c.Views {
		if err := ctrl.AddView(r.Config()); err != nil {
			logger.Warn("calibration view skipped", "view", r.Name, "error", err)
		}
	}
	return ctrl, nil
}

// Capture replaces the stored views and eye separation with the controller's
// Stored views that never loaded because they are invalid are kept for the user to fix
func (c *Calibration) Capture(ctrl *Controller) {
	c.RenderSystem = ctrl.RenderSystem().String()
	c.EyeSeparation = ctrl.EyeSeparation()

	var keep []ViewRecord
	for _, r := range c.Views {
		if _, err := ctrl.GetView(r.Name); err == nil {
			continue
		}
		if r.Config().Validate() != nil {
			keep = append(keep, r)
		}
	}

	c.Views = c.Views[:0]
	for _, cfg := range ctrl.Configs() {
		c.Views = append(c.Views, RecordOf(cfg))
	}
	c.Views = append(c.Views, keep...)
}

// Invalid returns the stored views that fail validation, keyed by name
func (c *Calibration) Invalid() map[string]error {
	out := make(map[string]error)
	for _, r := range c.Views {
		if err := r.Config().Validate(); err != nil {
			out[r.Name] = err
		}
	}
	return out
}

// Forget drops an invalid stored view; valid views are removed through the Controller
func (c *Calibration) Forget(name string) bool {
	for i, r := range c.Views {
		if r.Name == name && r.Config().Validate() != nil {
			c.Views = append(c.Views[:i], c.Views[i+1:]...)
			return true
		}
	}
	return false
}
