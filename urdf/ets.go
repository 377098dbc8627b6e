package urdf

import (
	"math"

	"github.com/golang/geo/r3"

	"github.com/mikebostanci/ropy/spatialmath"
)

// TransformAxis identifies the principal axis and kind of an elementary
// transform: a translation along, or rotation about, one frame axis.
type TransformAxis int

// The six elementary transform axes.
const (
	Tx TransformAxis = iota
	Ty
	Tz
	Rx
	Ry
	Rz
)

func (a TransformAxis) String() string {
	switch a {
	case Tx:
		return "tx"
	case Ty:
		return "ty"
	case Tz:
		return "tz"
	case Rx:
		return "Rx"
	case Ry:
		return "Ry"
	case Rz:
		return "Rz"
	}
	return "unknown"
}

// ElementaryTransform is a single parametrized translation or rotation about
// a principal axis. Fixed transforms carry their value; variable transforms
// take the joint configuration at evaluation time.
type ElementaryTransform struct {
	Axis     TransformAxis
	Value    float64
	Variable bool
}

// Pose evaluates the transform. Fixed transforms ignore q.
func (et ElementaryTransform) Pose(q float64) *spatialmath.Pose {
	v := et.Value
	if et.Variable {
		v = q
	}
	switch et.Axis {
	case Tx:
		return spatialmath.NewPoseFromPoint(r3.Vector{X: v})
	case Ty:
		return spatialmath.NewPoseFromPoint(r3.Vector{Y: v})
	case Tz:
		return spatialmath.NewPoseFromPoint(r3.Vector{Z: v})
	case Rx:
		return spatialmath.NewPoseFromAxisAngle(r3.Vector{X: 1}, v)
	case Ry:
		return spatialmath.NewPoseFromAxisAngle(r3.Vector{Y: 1}, v)
	default:
		return spatialmath.NewPoseFromAxisAngle(r3.Vector{Z: 1}, v)
	}
}

// ChainLink is one node of the derived kinematic chain: the elementary
// transform sequence of one joint, its limits, and its parent nodes.
type ChainLink struct {
	Name       string
	Transforms []ElementaryTransform
	// Qlim holds the joint's lower and upper limit, zero when unspecified.
	Qlim [2]float64
	// Parents are the chain nodes whose joints' child links are this
	// joint's parent link.
	Parents []*ChainLink
}

// Pose evaluates the node's full transform sequence at a configuration
// value, composing each elementary transform in order.
func (cl *ChainLink) Pose(q float64) *spatialmath.Pose {
	pose := spatialmath.NewPose()
	for _, et := range cl.Transforms {
		pose = spatialmath.Compose(pose, et.Pose(q))
	}
	return pose
}

// fixedTransforms decomposes a pose into elementary operators: one per
// non-zero translation and roll-pitch-yaw component, in the order
// tx, ty, tz, Rx, Ry, Rz. Comparison is against exact zero.
func fixedTransforms(origin *spatialmath.Pose) []ElementaryTransform {
	var ets []ElementaryTransform
	pt := origin.Point()
	roll, pitch, yaw := origin.RPY()
	if pt.X != 0 {
		ets = append(ets, ElementaryTransform{Axis: Tx, Value: pt.X})
	}
	if pt.Y != 0 {
		ets = append(ets, ElementaryTransform{Axis: Ty, Value: pt.Y})
	}
	if pt.Z != 0 {
		ets = append(ets, ElementaryTransform{Axis: Tz, Value: pt.Z})
	}
	if roll != 0 {
		ets = append(ets, ElementaryTransform{Axis: Rx, Value: roll})
	}
	if pitch != 0 {
		ets = append(ets, ElementaryTransform{Axis: Ry, Value: pitch})
	}
	if yaw != 0 {
		ets = append(ets, ElementaryTransform{Axis: Rz, Value: yaw})
	}
	return ets
}

// axisTransforms maps an axis-aligned joint axis to the variable elementary
// transforms for a revolute or prismatic joint. Negative principal axes are
// expressed as a fixed half-turn followed by the positive-axis variable
// transform. Joints on non-axis-aligned axes are reported as unsupported
// (ok is false) and contribute no variable transform.
func axisTransforms(jointType JointType, axis r3.Vector) ([]ElementaryTransform, bool) {
	var rot, trans [3]TransformAxis
	rot = [3]TransformAxis{Rx, Ry, Rz}
	trans = [3]TransformAxis{Tx, Ty, Tz}

	variable := rot
	if jointType == PrismaticJoint {
		variable = trans
	}

	// A fixed rotation maps the negative principal axis onto the positive
	// one before the variable transform is applied.
	switch {
	case axis.X == 1:
		return []ElementaryTransform{{Axis: variable[0], Variable: true}}, true
	case axis.X == -1:
		return []ElementaryTransform{
			{Axis: Ry, Value: math.Pi},
			{Axis: variable[0], Variable: true},
		}, true
	case axis.Y == 1:
		return []ElementaryTransform{{Axis: variable[1], Variable: true}}, true
	case axis.Y == -1:
		return []ElementaryTransform{
			{Axis: Rz, Value: math.Pi},
			{Axis: variable[1], Variable: true},
		}, true
	case axis.Z == 1:
		return []ElementaryTransform{{Axis: variable[2], Variable: true}}, true
	case axis.Z == -1:
		return []ElementaryTransform{
			{Axis: Rx, Value: math.Pi},
			{Axis: variable[2], Variable: true},
		}, true
	}
	return nil, false
}
