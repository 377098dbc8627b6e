package spatialmath

import (
	"math"

	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/mat"
)

// NewPoseFromAxisAngle returns a rotation of theta radians about the given
// axis (right-hand rule), built with Rodrigues' formula:
//
//	R = cos(theta)*I + sin(theta)*K + (1-cos(theta))*(u u^T)
//
// where u is the normalized axis and K its skew-symmetric cross-product
// matrix. The axis need not be unit length.
func NewPoseFromAxisAngle(axis r3.Vector, theta float64) *Pose {
	u := axis.Normalize()
	s, c := math.Sincos(theta)
	return &Pose{m: rodrigues(u, s, c)}
}

// AxisAnglePoses is the batched form of NewPoseFromAxisAngle: one pose per
// angle, all about the same axis. At a single angle it produces exactly the
// same matrix as the single-configuration path.
func AxisAnglePoses(axis r3.Vector, thetas []float64) []*Pose {
	u := axis.Normalize()
	poses := make([]*Pose, 0, len(thetas))
	for _, theta := range thetas {
		s, c := math.Sincos(theta)
		poses = append(poses, &Pose{m: rodrigues(u, s, c)})
	}
	return poses
}

// rodrigues embeds the 3x3 Rodrigues rotation for unit axis u in a 4x4
// homogeneous matrix.
func rodrigues(u r3.Vector, s, c float64) *mat.Dense {
	v := 1 - c
	return mat.NewDense(4, 4, []float64{
		c + u.X*u.X*v, u.X*u.Y*v - u.Z*s, u.X*u.Z*v + u.Y*s, 0,
		u.Y*u.X*v + u.Z*s, c + u.Y*u.Y*v, u.Y*u.Z*v - u.X*s, 0,
		u.Z*u.X*v - u.Y*s, u.Z*u.Y*v + u.X*s, c + u.Z*u.Z*v, 0,
		0, 0, 0, 1,
	})
}
