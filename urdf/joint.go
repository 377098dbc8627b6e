package urdf

import (
	"fmt"
	"math"

	"github.com/golang/geo/r3"

	"github.com/mikebostanci/ropy/spatialmath"
)

// JointType enumerates the supported joint kinds.
type JointType string

// The supported joint types.
const (
	FixedJoint      JointType = "fixed"
	PrismaticJoint  JointType = "prismatic"
	RevoluteJoint   JointType = "revolute"
	ContinuousJoint JointType = "continuous"
	PlanarJoint     JointType = "planar"
	FloatingJoint   JointType = "floating"
)

func validJointType(t JointType) bool {
	switch t {
	case FixedJoint, PrismaticJoint, RevoluteJoint, ContinuousJoint, PlanarJoint, FloatingJoint:
		return true
	}
	return false
}

// JointLimit bounds a joint's motion. Effort and velocity are required by
// the format; the position bounds are optional.
type JointLimit struct {
	Effort   float64
	Velocity float64
	Lower    *float64
	Upper    *float64
}

// JointDynamics holds the optional damping and static friction of a joint.
type JointDynamics struct {
	Damping  *float64
	Friction *float64
}

// JointMimic forces a joint's configuration to be an affine function of
// another joint's: multiplier*other + offset.
type JointMimic struct {
	Joint      string
	Multiplier float64
	Offset     float64
}

// JointCalibration holds the reference positions of the joint.
type JointCalibration struct {
	Rising  *float64
	Falling *float64
}

// SafetyController describes the safety limits enforced for a joint.
type SafetyController struct {
	KVelocity      float64
	KPosition      float64
	SoftLowerLimit float64
	SoftUpperLimit float64
}

// Joint connects a parent link to a child link. Its origin is the pose of
// the child link's frame (and the joint frame, which is coincident with it)
// relative to the parent link's frame.
type Joint struct {
	Name   string
	Type   JointType
	Parent string
	Child  string
	// Axis is the unit joint axis in the joint frame.
	Axis             r3.Vector
	Origin           *spatialmath.Pose
	Limit            *JointLimit
	Dynamics         *JointDynamics
	SafetyController *SafetyController
	Calibration      *JointCalibration
	Mimic            *JointMimic
}

// NewJoint validates and assembles a joint. A nil axis defaults to [1,0,0];
// a non-nil axis is normalized. Prismatic and revolute joints require a
// limit. A nil origin defaults to identity.
func NewJoint(
	name string,
	jointType JointType,
	parent, child string,
	axis *r3.Vector,
	origin *spatialmath.Pose,
	limit *JointLimit,
) (*Joint, error) {
	if !validJointType(jointType) {
		return nil, NewUnsupportedJointTypeError(string(jointType))
	}
	if limit == nil && (jointType == PrismaticJoint || jointType == RevoluteJoint) {
		return nil, fmt.Errorf("%w: joint %q requires a limit for type %q", ErrConstraint, name, jointType)
	}
	a := r3.Vector{X: 1, Y: 0, Z: 0}
	if axis != nil {
		a = axis.Normalize()
	}
	if origin == nil {
		origin = spatialmath.NewPose()
	}
	return &Joint{
		Name:   name,
		Type:   jointType,
		Parent: parent,
		Child:  child,
		Axis:   a,
		Origin: origin,
		Limit:  limit,
	}, nil
}

// IsValid reports whether a configuration value is within the joint's
// limits. Joints without applicable limits accept any value.
func (j *Joint) IsValid(cfg float64) bool {
	if j.Type != PrismaticJoint && j.Type != RevoluteJoint {
		return true
	}
	if j.Limit == nil {
		return true
	}
	lower, upper := math.Inf(-1), math.Inf(1)
	if j.Limit.Lower != nil {
		lower = *j.Limit.Lower
	}
	if j.Limit.Upper != nil {
		upper = *j.Limit.Upper
	}
	return cfg >= lower && cfg <= upper
}

// ChildPose computes the pose of the child frame relative to the parent
// frame for a configuration value. The configuration is interpreted by
// joint type:
//   - fixed: ignored
//   - prismatic: one value, a translation along the axis in meters
//   - revolute, continuous: one value, a rotation about the axis in radians
//   - planar: two values, a translation in the plane of the origin's first
//     two basis columns
//   - floating: six values (xyz then rpy) or sixteen row-major matrix values
//
// A nil cfg returns the joint origin for every type.
func (j *Joint) ChildPose(cfg []float64) (*spatialmath.Pose, error) {
	if cfg == nil {
		return j.Origin.Copy(), nil
	}
	switch j.Type {
	case FixedJoint:
		return j.Origin.Copy(), nil
	case RevoluteJoint, ContinuousJoint:
		q, err := scalarCfg(j, cfg)
		if err != nil {
			return nil, err
		}
		return spatialmath.Compose(j.Origin, spatialmath.NewPoseFromAxisAngle(j.Axis, q)), nil
	case PrismaticJoint:
		q, err := scalarCfg(j, cfg)
		if err != nil {
			return nil, err
		}
		return spatialmath.Compose(j.Origin, spatialmath.NewPoseFromPoint(j.Axis.Mul(q))), nil
	case PlanarJoint:
		if len(cfg) != 2 {
			return nil, fmt.Errorf("%w: planar joint %q requires a 2-vector configuration, got %d values",
				ErrConstraint, j.Name, len(cfg))
		}
		displacement := j.Origin.PlanarDisplacement(cfg[0], cfg[1])
		return spatialmath.Compose(j.Origin, spatialmath.NewPoseFromPoint(displacement)), nil
	case FloatingJoint:
		pose, err := floatingCfgPose(cfg)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid configuration for floating joint %q: %d values",
				ErrConstraint, j.Name, len(cfg))
		}
		return spatialmath.Compose(j.Origin, pose), nil
	default:
		return nil, NewUnsupportedJointTypeError(string(j.Type))
	}
}

// ChildPoses is the batched form of ChildPose: n configurations in, n poses
// out. A nil cfg broadcasts the joint origin. Planar and floating joints are
// not supported in batched form.
func (j *Joint) ChildPoses(cfg []float64, n int) ([]*spatialmath.Pose, error) {
	if cfg == nil || j.Type == FixedJoint {
		out := make([]*spatialmath.Pose, 0, n)
		for i := 0; i < n; i++ {
			out = append(out, j.Origin.Copy())
		}
		return out, nil
	}
	if len(cfg) != n {
		return nil, fmt.Errorf("%w: joint %q given %d configurations, expected %d",
			ErrConstraint, j.Name, len(cfg), n)
	}
	switch j.Type {
	case RevoluteJoint, ContinuousJoint:
		rotations := spatialmath.AxisAnglePoses(j.Axis, cfg)
		out := make([]*spatialmath.Pose, 0, n)
		for _, r := range rotations {
			out = append(out, spatialmath.Compose(j.Origin, r))
		}
		return out, nil
	case PrismaticJoint:
		out := make([]*spatialmath.Pose, 0, n)
		for _, q := range cfg {
			out = append(out, spatialmath.Compose(j.Origin, spatialmath.NewPoseFromPoint(j.Axis.Mul(q))))
		}
		return out, nil
	case PlanarJoint, FloatingJoint:
		return nil, fmt.Errorf("%w: batched child poses not implemented for %s joints", ErrUnsupported, j.Type)
	default:
		return nil, NewUnsupportedJointTypeError(string(j.Type))
	}
}

// Copy returns a deep copy of the joint with prefix applied to every name
// and the optional scale applied to the origin translation.
func (j *Joint) Copy(prefix string, scale []float64) (*Joint, error) {
	origin := j.Origin.Copy()
	if scale != nil {
		s, err := scaleVector(scale)
		if err != nil {
			return nil, err
		}
		origin = origin.ScaledTranslation(s)
	}
	cp := &Joint{
		Name:   prefix + j.Name,
		Type:   j.Type,
		Parent: prefix + j.Parent,
		Child:  prefix + j.Child,
		Axis:   j.Axis,
		Origin: origin,
	}
	if j.Limit != nil {
		limit := *j.Limit
		cp.Limit = &limit
	}
	if j.Dynamics != nil {
		dynamics := *j.Dynamics
		cp.Dynamics = &dynamics
	}
	if j.SafetyController != nil {
		sc := *j.SafetyController
		cp.SafetyController = &sc
	}
	if j.Calibration != nil {
		calibration := *j.Calibration
		cp.Calibration = &calibration
	}
	if j.Mimic != nil {
		mimic := *j.Mimic
		mimic.Joint = prefix + mimic.Joint
		cp.Mimic = &mimic
	}
	return cp, nil
}

func scalarCfg(j *Joint, cfg []float64) (float64, error) {
	if len(cfg) != 1 {
		return 0, fmt.Errorf("%w: %s joint %q requires a single configuration value, got %d",
			ErrConstraint, j.Type, j.Name, len(cfg))
	}
	return cfg[0], nil
}

// floatingCfgPose converts a floating-joint configuration to a pose: either
// a 6-vector of translation plus roll-pitch-yaw, or a full 4x4 row-major
// matrix.
func floatingCfgPose(cfg []float64) (*spatialmath.Pose, error) {
	switch len(cfg) {
	case 6:
		return spatialmath.NewPoseFromEuler(
			r3.Vector{X: cfg[0], Y: cfg[1], Z: cfg[2]}, cfg[3], cfg[4], cfg[5],
		), nil
	case 16:
		return spatialmath.NewPoseFromSlice(cfg)
	default:
		return nil, fmt.Errorf("%w: floating configuration must have 6 or 16 values", ErrConstraint)
	}
}

var (
	limitSchema = schema{
		typeName: "JointLimit",
		attrs: []attrSpec{
			{name: "effort", kind: attrFloat, required: true},
			{name: "velocity", kind: attrFloat, required: true},
			{name: "lower", kind: attrFloat},
			{name: "upper", kind: attrFloat},
		},
	}
	dynamicsSchema = schema{
		typeName: "JointDynamics",
		attrs: []attrSpec{
			{name: "damping", kind: attrFloat},
			{name: "friction", kind: attrFloat},
		},
	}
	mimicSchema = schema{
		typeName: "JointMimic",
		attrs: []attrSpec{
			{name: "joint", kind: attrString, required: true},
			{name: "multiplier", kind: attrFloat},
			{name: "offset", kind: attrFloat},
		},
	}
	calibrationSchema = schema{
		typeName: "JointCalibration",
		attrs: []attrSpec{
			{name: "rising", kind: attrFloat},
			{name: "falling", kind: attrFloat},
		},
	}
	safetySchema = schema{
		typeName: "SafetyController",
		attrs: []attrSpec{
			{name: "k_velocity", kind: attrFloat, required: true},
			{name: "k_position", kind: attrFloat},
			{name: "soft_lower_limit", kind: attrFloat},
			{name: "soft_upper_limit", kind: attrFloat},
		},
	}
	jointSchema = schema{
		typeName: "Joint",
		attrs: []attrSpec{
			{name: "name", kind: attrString, required: true},
			{name: "type", kind: attrString, required: true},
		},
		elems: []elemSpec{
			{tag: "limit", parse: parseJointLimit},
			{tag: "dynamics", parse: parseJointDynamics},
			{tag: "mimic", parse: parseJointMimic},
			{tag: "calibration", parse: parseJointCalibration},
			{tag: "safety_controller", parse: parseSafetyController},
		},
	}
)

func parseJointLimit(n *xmlNode, dir string) (interface{}, error) {
	vals, err := limitSchema.parseSchema(n, dir)
	if err != nil {
		return nil, err
	}
	limit := &JointLimit{}
	limit.Effort, _ = vals.float("effort")
	limit.Velocity, _ = vals.float("velocity")
	if lower, ok := vals.float("lower"); ok {
		limit.Lower = &lower
	}
	if upper, ok := vals.float("upper"); ok {
		limit.Upper = &upper
	}
	return limit, nil
}

func parseJointDynamics(n *xmlNode, dir string) (interface{}, error) {
	vals, err := dynamicsSchema.parseSchema(n, dir)
	if err != nil {
		return nil, err
	}
	dynamics := &JointDynamics{}
	if damping, ok := vals.float("damping"); ok {
		dynamics.Damping = &damping
	}
	if friction, ok := vals.float("friction"); ok {
		dynamics.Friction = &friction
	}
	return dynamics, nil
}

func parseJointMimic(n *xmlNode, dir string) (interface{}, error) {
	vals, err := mimicSchema.parseSchema(n, dir)
	if err != nil {
		return nil, err
	}
	mimic := &JointMimic{Multiplier: 1.0, Offset: 0.0}
	mimic.Joint, _ = vals.str("joint")
	if multiplier, ok := vals.float("multiplier"); ok {
		mimic.Multiplier = multiplier
	}
	if offset, ok := vals.float("offset"); ok {
		mimic.Offset = offset
	}
	return mimic, nil
}

func parseJointCalibration(n *xmlNode, dir string) (interface{}, error) {
	vals, err := calibrationSchema.parseSchema(n, dir)
	if err != nil {
		return nil, err
	}
	calibration := &JointCalibration{}
	if rising, ok := vals.float("rising"); ok {
		calibration.Rising = &rising
	}
	if falling, ok := vals.float("falling"); ok {
		calibration.Falling = &falling
	}
	return calibration, nil
}

func parseSafetyController(n *xmlNode, dir string) (interface{}, error) {
	vals, err := safetySchema.parseSchema(n, dir)
	if err != nil {
		return nil, err
	}
	sc := &SafetyController{}
	sc.KVelocity, _ = vals.float("k_velocity")
	sc.KPosition, _ = vals.float("k_position")
	sc.SoftLowerLimit, _ = vals.float("soft_lower_limit")
	sc.SoftUpperLimit, _ = vals.float("soft_upper_limit")
	return sc, nil
}

// parseJoint parses a joint element. The parent and child link names live on
// nested elements rather than attributes, so they are pulled out here after
// the schema pass.
func parseJoint(n *xmlNode, dir string) (interface{}, error) {
	vals, err := jointSchema.parseSchema(n, dir)
	if err != nil {
		return nil, err
	}
	name, _ := vals.str("name")
	jointType, _ := vals.str("type")

	parent := n.find("parent")
	if parent == nil {
		return nil, newMissingElementError("parent", jointSchema.typeName)
	}
	parentLink, ok := parent.attr("link")
	if !ok {
		return nil, newMissingAttributeError("link", "Joint parent")
	}
	child := n.find("child")
	if child == nil {
		return nil, newMissingElementError("child", jointSchema.typeName)
	}
	childLink, ok := child.attr("link")
	if !ok {
		return nil, newMissingAttributeError("link", "Joint child")
	}

	var axis *r3.Vector
	if axisNode := n.find("axis"); axisNode != nil {
		raw, ok := axisNode.attr("xyz")
		if !ok {
			return nil, newMissingAttributeError("xyz", "Joint axis")
		}
		v, err := coerceAttr(attrSpec{name: "xyz", kind: attrFloats}, jointSchema.typeName, raw)
		if err != nil {
			return nil, err
		}
		vec, err := vec3("xyz", jointSchema.typeName, v.([]float64))
		if err != nil {
			return nil, err
		}
		axis = &vec
	}

	origin, err := parseOrigin(n, dir)
	if err != nil {
		return nil, err
	}

	var limit *JointLimit
	if v, ok := vals.elem("limit"); ok {
		limit = v.(*JointLimit)
	}
	joint, err := NewJoint(name, JointType(jointType), parentLink, childLink, axis, origin, limit)
	if err != nil {
		return nil, err
	}
	if v, ok := vals.elem("dynamics"); ok {
		joint.Dynamics = v.(*JointDynamics)
	}
	if v, ok := vals.elem("mimic"); ok {
		joint.Mimic = v.(*JointMimic)
	}
	if v, ok := vals.elem("calibration"); ok {
		joint.Calibration = v.(*JointCalibration)
	}
	if v, ok := vals.elem("safety_controller"); ok {
		joint.SafetyController = v.(*SafetyController)
	}
	return joint, nil
}
