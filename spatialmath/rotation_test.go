package spatialmath

import (
	"math"
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/test"
)

func TestNewPoseFromAxisAngle(t *testing.T) {
	// quarter turn about z maps x onto y
	p := NewPoseFromAxisAngle(r3.Vector{Z: 1}, math.Pi/2)
	test.That(t, p.At(0, 0), test.ShouldAlmostEqual, 0, 1e-12)
	test.That(t, p.At(1, 0), test.ShouldAlmostEqual, 1, 1e-12)
	test.That(t, p.At(0, 1), test.ShouldAlmostEqual, -1, 1e-12)
	test.That(t, p.At(2, 2), test.ShouldEqual, 1.0)
	test.That(t, p.Point(), test.ShouldResemble, r3.Vector{})

	// zero angle is the identity regardless of axis
	p = NewPoseFromAxisAngle(r3.Vector{X: 0.3, Y: -0.4, Z: 0.5}, 0)
	test.That(t, PoseAlmostEqual(p, NewPose(), 1e-12), test.ShouldBeTrue)

	// the axis is normalized before use
	a := NewPoseFromAxisAngle(r3.Vector{X: 10}, 1.0)
	b := NewPoseFromAxisAngle(r3.Vector{X: 1}, 1.0)
	test.That(t, PoseAlmostEqual(a, b, 1e-12), test.ShouldBeTrue)

	// agreement with the Euler construction for a pure roll
	p = NewPoseFromAxisAngle(r3.Vector{X: 1}, 0.7)
	test.That(t, PoseAlmostEqual(p, NewPoseFromEuler(r3.Vector{}, 0.7, 0, 0), 1e-12), test.ShouldBeTrue)
}

func TestAxisAnglePoses(t *testing.T) {
	axis := r3.Vector{X: 1, Y: 2, Z: -1}
	thetas := []float64{-math.Pi, -0.5, 0, 0.25, math.Pi / 2}

	poses := AxisAnglePoses(axis, thetas)
	test.That(t, len(poses), test.ShouldEqual, len(thetas))
	for i, theta := range thetas {
		single := NewPoseFromAxisAngle(axis, theta)
		test.That(t, PoseAlmostEqual(poses[i], single, 0), test.ShouldBeTrue)
	}

	test.That(t, AxisAnglePoses(axis, nil), test.ShouldHaveLength, 0)
}
