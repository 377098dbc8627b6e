// Package spatialmath provides the pose math used by the kinematic model:
// rigid transforms stored as 4x4 homogeneous matrices, built from
// translations, roll-pitch-yaw angles, or axis-angle rotations.
package spatialmath

import (
	"math"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// Pose is a rigid transform between two frames, stored as a 4x4 homogeneous
// matrix. The zero value is not usable; construct poses with the New*
// functions. A Pose is immutable once constructed.
type Pose struct {
	m *mat.Dense
}

// NewPose returns the identity pose.
func NewPose() *Pose {
	return &Pose{m: identity4()}
}

// NewPoseFromMatrix wraps a 4x4 homogeneous matrix as a Pose.
// The matrix is copied.
func NewPoseFromMatrix(m mat.Matrix) (*Pose, error) {
	r, c := m.Dims()
	if r != 4 || c != 4 {
		return nil, errors.Errorf("pose requires a 4x4 matrix, got %dx%d", r, c)
	}
	out := mat.NewDense(4, 4, nil)
	out.Copy(m)
	return &Pose{m: out}, nil
}

// NewPoseFromSlice builds a Pose from 16 row-major values.
func NewPoseFromSlice(vals []float64) (*Pose, error) {
	if len(vals) != 16 {
		return nil, errors.Errorf("pose requires 16 row-major values, got %d", len(vals))
	}
	cp := make([]float64, 16)
	copy(cp, vals)
	return &Pose{m: mat.NewDense(4, 4, cp)}, nil
}

// NewPoseFromPoint returns a pure translation by the given vector.
func NewPoseFromPoint(pt r3.Vector) *Pose {
	m := identity4()
	m.Set(0, 3, pt.X)
	m.Set(1, 3, pt.Y)
	m.Set(2, 3, pt.Z)
	return &Pose{m: m}
}

// NewPoseFromEuler returns the pose with translation pt and rotation given by
// roll-pitch-yaw angles in radians, composed in the URDF convention
// R = Rz(yaw) * Ry(pitch) * Rx(roll).
func NewPoseFromEuler(pt r3.Vector, roll, pitch, yaw float64) *Pose {
	sr, cr := math.Sincos(roll)
	sp, cp := math.Sincos(pitch)
	sy, cy := math.Sincos(yaw)

	m := mat.NewDense(4, 4, []float64{
		cy * cp, cy*sp*sr - sy*cr, cy*sp*cr + sy*sr, pt.X,
		sy * cp, sy*sp*sr + cy*cr, sy*sp*cr - cy*sr, pt.Y,
		-sp, cp * sr, cp * cr, pt.Z,
		0, 0, 0, 1,
	})
	return &Pose{m: m}
}

// Compose returns the pose a*b, i.e. b expressed in the frame a maps into.
func Compose(a, b *Pose) *Pose {
	out := mat.NewDense(4, 4, nil)
	out.Mul(a.m, b.m)
	return &Pose{m: out}
}

// Point returns the translation component of the pose.
func (p *Pose) Point() r3.Vector {
	return r3.Vector{X: p.m.At(0, 3), Y: p.m.At(1, 3), Z: p.m.At(2, 3)}
}

// RPY decomposes the rotation block into roll-pitch-yaw angles in radians,
// the inverse of NewPoseFromEuler.
func (p *Pose) RPY() (roll, pitch, yaw float64) {
	roll = math.Atan2(p.m.At(2, 1), p.m.At(2, 2))
	pitch = math.Atan2(-p.m.At(2, 0), math.Hypot(p.m.At(2, 1), p.m.At(2, 2)))
	yaw = math.Atan2(p.m.At(1, 0), p.m.At(0, 0))
	return roll, pitch, yaw
}

// At returns the matrix entry at row i, column j.
func (p *Pose) At(i, j int) float64 {
	return p.m.At(i, j)
}

// Matrix returns a copy of the underlying 4x4 matrix.
func (p *Pose) Matrix() *mat.Dense {
	out := mat.NewDense(4, 4, nil)
	out.Copy(p.m)
	return out
}

// Copy returns a deep copy of the pose.
func (p *Pose) Copy() *Pose {
	return &Pose{m: p.Matrix()}
}

// ScaledTranslation returns a copy of the pose with each translation
// component multiplied by the matching component of scale. The rotation
// block is unchanged.
func (p *Pose) ScaledTranslation(scale r3.Vector) *Pose {
	out := p.Matrix()
	out.Set(0, 3, out.At(0, 3)*scale.X)
	out.Set(1, 3, out.At(1, 3)*scale.Y)
	out.Set(2, 3, out.At(2, 3)*scale.Z)
	return &Pose{m: out}
}

// PlanarDisplacement returns x times the first basis column of the pose plus
// y times the second, i.e. a displacement lying in the plane spanned by the
// pose's local X and Y axes.
func (p *Pose) PlanarDisplacement(x, y float64) r3.Vector {
	return r3.Vector{
		X: p.m.At(0, 0)*x + p.m.At(0, 1)*y,
		Y: p.m.At(1, 0)*x + p.m.At(1, 1)*y,
		Z: p.m.At(2, 0)*x + p.m.At(2, 1)*y,
	}
}

// PoseAlmostEqual returns whether two poses are equal entrywise within tol.
func PoseAlmostEqual(a, b *Pose, tol float64) bool {
	return mat.EqualApprox(a.m, b.m, tol)
}

func identity4() *mat.Dense {
	return mat.NewDense(4, 4, []float64{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	})
}
