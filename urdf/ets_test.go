package urdf

import (
	"math"
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/test"

	"github.com/mikebostanci/ropy/spatialmath"
)

func TestElementaryTransformPose(t *testing.T) {
	// a fixed transform ignores the configuration value
	fixed := ElementaryTransform{Axis: Tx, Value: 2}
	test.That(t, fixed.Pose(99).Point(), test.ShouldResemble, r3.Vector{X: 2})

	variable := ElementaryTransform{Axis: Tz, Variable: true}
	test.That(t, variable.Pose(3).Point(), test.ShouldResemble, r3.Vector{Z: 3})

	rot := ElementaryTransform{Axis: Rz, Variable: true}
	expected := spatialmath.NewPoseFromAxisAngle(r3.Vector{Z: 1}, math.Pi/4)
	test.That(t, spatialmath.PoseAlmostEqual(rot.Pose(math.Pi/4), expected, 0), test.ShouldBeTrue)
}

func TestFixedTransforms(t *testing.T) {
	test.That(t, fixedTransforms(spatialmath.NewPose()), test.ShouldBeEmpty)

	origin := spatialmath.NewPoseFromEuler(r3.Vector{X: 1, Z: 3}, 0.5, 0, 0)
	ets := fixedTransforms(origin)
	test.That(t, ets, test.ShouldResemble, []ElementaryTransform{
		{Axis: Tx, Value: 1},
		{Axis: Tz, Value: 3},
		{Axis: Rx, Value: 0.5},
	})

	// the decomposition reproduces the origin when evaluated in order
	pose := spatialmath.NewPose()
	for _, et := range ets {
		pose = spatialmath.Compose(pose, et.Pose(0))
	}
	test.That(t, spatialmath.PoseAlmostEqual(pose, origin, 1e-12), test.ShouldBeTrue)
}

func TestAxisTransforms(t *testing.T) {
	ets, ok := axisTransforms(RevoluteJoint, r3.Vector{X: 1})
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, ets, test.ShouldResemble, []ElementaryTransform{{Axis: Rx, Variable: true}})

	ets, ok = axisTransforms(PrismaticJoint, r3.Vector{Z: 1})
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, ets, test.ShouldResemble, []ElementaryTransform{{Axis: Tz, Variable: true}})

	ets, ok = axisTransforms(RevoluteJoint, r3.Vector{X: -1})
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, ets, test.ShouldResemble, []ElementaryTransform{
		{Axis: Ry, Value: math.Pi},
		{Axis: Rx, Variable: true},
	})

	// the half-turn conjugates the variable rotation onto the negative axis:
	// Ry(pi) * Rx(q) = R(-x, q) * Ry(pi)
	minusX := spatialmath.NewPoseFromAxisAngle(r3.Vector{X: -1}, 0.3)
	flip := spatialmath.NewPoseFromAxisAngle(r3.Vector{Y: 1}, math.Pi)
	viaETS := spatialmath.Compose(ets[0].Pose(0), ets[1].Pose(0.3))
	test.That(t, spatialmath.PoseAlmostEqual(viaETS, spatialmath.Compose(minusX, flip), 1e-12), test.ShouldBeTrue)

	_, ok = axisTransforms(RevoluteJoint, r3.Vector{X: 1, Y: 1}.Normalize())
	test.That(t, ok, test.ShouldBeFalse)
}

func TestChainLinkPose(t *testing.T) {
	cl := &ChainLink{
		Name: "j",
		Transforms: []ElementaryTransform{
			{Axis: Tz, Value: 1},
			{Axis: Rz, Variable: true},
		},
	}
	pose := cl.Pose(math.Pi / 2)
	expected := spatialmath.Compose(
		spatialmath.NewPoseFromPoint(r3.Vector{Z: 1}),
		spatialmath.NewPoseFromAxisAngle(r3.Vector{Z: 1}, math.Pi/2),
	)
	test.That(t, spatialmath.PoseAlmostEqual(pose, expected, 0), test.ShouldBeTrue)
}
