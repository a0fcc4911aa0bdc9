package stereo

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"
)

// Epsilon is the tolerance for degenerate screen and eye geometry
const Epsilon = 1e-9

// SquareTolerance bounds the cosine between the bottom and left screen edges
const SquareTolerance = 1e-6

var (
	ErrDegenerateScreen = errors.New("degenerate screen corners")
	ErrEyeOnScreen      = errors.New("eye lies on the screen plane")
	ErrEyeBehindScreen  = errors.New("eye is behind the screen")
	ErrInvalidClip      = errors.New("invalid clip planes")
)

// RenderSystem selects the projection convention of the target renderer
type RenderSystem uint8

const (
	// OpenGL: right-handed eye space, depth -1..1
	OpenGL RenderSystem = iota
	// Direct3D: left-handed eye space, depth 0..1
	Direct3D
)

func (rs RenderSystem) String() string {
	switch rs {
	case OpenGL:
		return "opengl"
	case Direct3D:
		return "direct3d"
	}
	return "unknown"
}

// RenderSystemByName resolves "opengl" or "direct3d"
func RenderSystemByName(name string) (RenderSystem, bool) {
	switch name {
	case "opengl", "gl":
		return OpenGL, true
	case "direct3d", "d3d":
		return Direct3D, true
	}
	return OpenGL, false
}

// ViewConfig is the calibration of one physical display surface
// Corners and eye share one tracker coordinate frame
type ViewConfig struct {
	Name        string
	TopLeft     r3.Vec
	BottomLeft  r3.Vec
	BottomRight r3.Vec
	Eye         r3.Vec
}

// screen is the orthonormal frame of a calibrated surface
type screen struct {
	right, up r3.Vec
	facing    r3.Vec // Unit normal pointing at the viewer
	distance  float64
}

// Validate checks that the corners span a rectangle and the eye sits in front of it
func (c ViewConfig) Validate() error {
	_, err := c.screen()
	return err
}

func (c ViewConfig) screen() (screen, error) {
	if !finite(c.TopLeft) || !finite(c.BottomLeft) || !finite(c.BottomRight) || !finite(c.Eye) {
		return screen{}, fmt.Errorf("%w: %q has non-finite coordinates", ErrDegenerateScreen, c.Name)
	}

	horiz := r3.Sub(c.BottomRight, c.BottomLeft)
	vert := r3.Sub(c.TopLeft, c.BottomLeft)
	if r3.Norm(horiz) < Epsilon || r3.Norm(vert) < Epsilon {
		return screen{}, fmt.Errorf("%w: %q has a zero-length edge", ErrDegenerateScreen, c.Name)
	}

	right, up := r3.Unit(horiz), r3.Unit(vert)
	if cos := r3.Dot(right, up); math.Abs(cos) > SquareTolerance {
		return screen{}, fmt.Errorf("%w: %q edges meet at %.3f deg, not a rectangle", ErrDegenerateScreen, c.Name, math.Acos(cos)*180/math.Pi)
	}
	normal := r3.Cross(right, up)
	if r3.Norm(normal) < Epsilon {
		return screen{}, fmt.Errorf("%w: %q corners are collinear", ErrDegenerateScreen, c.Name)
	}
	facing := r3.Unit(normal)

	d := -r3.Dot(r3.Sub(c.BottomLeft, c.Eye), facing)
	switch {
	case math.Abs(d) < Epsilon:
		return screen{}, fmt.Errorf("%w: %q", ErrEyeOnScreen, c.Name)
	case d < 0:
		return screen{}, fmt.Errorf("%w: %q", ErrEyeBehindScreen, c.Name)
	}
	return screen{right: right, up: up, facing: facing, distance: d}, nil
}

// Frustum holds asymmetric near-plane extents
type Frustum struct {
	Left, Right float64
	Bottom, Top float64
	Near, Far   float64
}

// FOVY returns the vertical field of view in radians
func (f Frustum) FOVY() float64 {
	return math.Atan(f.Top/f.Near) - math.Atan(f.Bottom/f.Near)
}

// OffAxisFrustum projects the screen corners, seen from the eye, onto the near plane
func OffAxisFrustum(cfg ViewConfig, near, far float64) (Frustum, error) {
	if err := validClip(near, far); err != nil {
		return Frustum{}, err
	}
	s, err := cfg.screen()
	if err != nil {
		return Frustum{}, err
	}
	return s.frustum(cfg, near, far), nil
}

func (s screen) frustum(cfg ViewConfig, near, far float64) Frustum {
	va := r3.Sub(cfg.BottomLeft, cfg.Eye)
	vb := r3.Sub(cfg.BottomRight, cfg.Eye)
	vc := r3.Sub(cfg.TopLeft, cfg.Eye)
	k := near / s.distance

	return Frustum{
		Left:   r3.Dot(s.right, va) * k,
		Right:  r3.Dot(s.right, vb) * k,
		Bottom: r3.Dot(s.up, va) * k,
		Top:    r3.Dot(s.up, vc) * k,
		Near:   near,
		Far:    far,
	}
}

// FrustumMatrix builds the render system's perspective matrix for f
// Column-vector convention: clip = M * eye
func FrustumMatrix(f Frustum, rs RenderSystem) *mat.Dense {
	w, h, d := f.Right-f.Left, f.Top-f.Bottom, f.Far-f.Near
	n := f.Near

	if rs == Direct3D {
		return mat.NewDense(4, 4, []float64{
			2 * n / w, 0, -(f.Right + f.Left) / w, 0,
			0, 2 * n / h, -(f.Top + f.Bottom) / h, 0,
			0, 0, f.Far / d, -f.Far * n / d,
			0, 0, 1, 0,
		})
	}
	return mat.NewDense(4, 4, []float64{
		2 * n / w, 0, (f.Right + f.Left) / w, 0,
		0, 2 * n / h, (f.Top + f.Bottom) / h, 0,
		0, 0, -(f.Far + n) / d, -2 * f.Far * n / d,
		0, 0, -1, 0,
	})
}

// Projection returns the off-axis projection for cfg: frustum * basis * translate(-eye)
// The basis rows are right, up and the screen normal; Direct3D looks along the flipped normal
func Projection(cfg ViewConfig, near, far float64, rs RenderSystem) (*mat.Dense, Frustum, error) {
	if err := validClip(near, far); err != nil {
		return nil, Frustum{}, err
	}
	s, err := cfg.screen()
	if err != nil {
		return nil, Frustum{}, err
	}
	f := s.frustum(cfg, near, far)
	return s.projection(f, cfg.Eye, rs), f, nil
}

func (s screen) projection(f Frustum, eye r3.Vec, rs RenderSystem) *mat.Dense {
	normal := s.facing
	if rs == Direct3D {
		normal = r3.Scale(-1, normal)
	}

	basis := mat.NewDense(4, 4, []float64{
		s.right.X, s.right.Y, s.right.Z, 0,
		s.up.X, s.up.Y, s.up.Z, 0,
		normal.X, normal.Y, normal.Z, 0,
		0, 0, 0, 1,
	})
	translate := mat.NewDense(4, 4, []float64{
		1, 0, 0, -eye.X,
		0, 1, 0, -eye.Y,
		0, 0, 1, -eye.Z,
		0, 0, 0, 1,
	})

	var view, out mat.Dense
	view.Mul(basis, translate)
	out.Mul(FrustumMatrix(f, rs), &view)
	return &out
}

// Apply transforms a world point by m and returns normalized device coordinates
func Apply(m mat.Matrix, p r3.Vec) r3.Vec {
	var clip mat.VecDense
	clip.MulVec(m, mat.NewVecDense(4, []float64{p.X, p.Y, p.Z, 1}))
	w := clip.AtVec(3)
	return r3.Vec{X: clip.AtVec(0) / w, Y: clip.AtVec(1) / w, Z: clip.AtVec(2) / w}
}

func validClip(near, far float64) error {
	if !(near > 0) || !(far > near) || math.IsInf(far, 0) {
		return fmt.Errorf("%w: near=%g far=%g", ErrInvalidClip, near, far)
	}
	return nil
}

func finite(v r3.Vec) bool {
	for _, x := range [3]float64{v.X, v.Y, v.Z} {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return false
		}
	}
	return true
}
