package urdf

import (
	"errors"
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/test"
	"gonum.org/v1/gonum/mat"

	"github.com/mikebostanci/ropy/spatialmath"
)

func TestNewInertial(t *testing.T) {
	inertia := mat.NewDense(3, 3, []float64{1, 0.1, 0, 0.1, 2, 0, 0, 0, 3})
	in, err := NewInertial(5, inertia, nil)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, in.Mass, test.ShouldEqual, 5.0)
	test.That(t, spatialmath.PoseAlmostEqual(in.Origin, spatialmath.NewPose(), 0), test.ShouldBeTrue)

	_, err = NewInertial(5, mat.NewDense(2, 2, nil), nil)
	test.That(t, errors.Is(err, ErrConstraint), test.ShouldBeTrue)

	asymmetric := mat.NewDense(3, 3, []float64{1, 0.1, 0, 0.2, 2, 0, 0, 0, 3})
	_, err = NewInertial(5, asymmetric, nil)
	test.That(t, errors.Is(err, ErrConstraint), test.ShouldBeTrue)
}

func TestParseInertial(t *testing.T) {
	text := `<inertial>
		<origin xyz="0 0 0.1"/>
		<mass value="2.5"/>
		<inertia ixx="1" ixy="0.1" ixz="0.2" iyy="2" iyz="0.3" izz="3"/>
	</inertial>`
	v, err := parseInertial(nodeFromXML(t, text), "")
	test.That(t, err, test.ShouldBeNil)
	in := v.(*Inertial)
	test.That(t, in.Mass, test.ShouldEqual, 2.5)
	test.That(t, in.Origin.Point(), test.ShouldResemble, r3.Vector{Z: 0.1})
	// off-diagonal terms are mirrored into a symmetric tensor
	test.That(t, in.Inertia.At(0, 1), test.ShouldEqual, 0.1)
	test.That(t, in.Inertia.At(1, 0), test.ShouldEqual, 0.1)
	test.That(t, in.Inertia.At(2, 0), test.ShouldEqual, 0.2)
	test.That(t, in.Inertia.At(1, 2), test.ShouldEqual, 0.3)

	_, err = parseInertial(nodeFromXML(t, `<inertial><mass value="1"/></inertial>`), "")
	test.That(t, errors.Is(err, ErrSchema), test.ShouldBeTrue)
	_, err = parseInertial(nodeFromXML(t,
		`<inertial><inertia ixx="1" ixy="0" ixz="0" iyy="1" iyz="0" izz="1"/></inertial>`), "")
	test.That(t, errors.Is(err, ErrSchema), test.ShouldBeTrue)
}

func TestParseOrigin(t *testing.T) {
	// no origin child defaults to identity
	pose, err := parseOrigin(nodeFromXML(t, `<visual/>`), "")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, spatialmath.PoseAlmostEqual(pose, spatialmath.NewPose(), 0), test.ShouldBeTrue)

	pose, err = parseOrigin(nodeFromXML(t, `<visual><origin xyz="1 2 3" rpy="0.1 0.2 0.3"/></visual>`), "")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, pose.Point(), test.ShouldResemble, r3.Vector{X: 1, Y: 2, Z: 3})
	roll, pitch, yaw := pose.RPY()
	test.That(t, roll, test.ShouldAlmostEqual, 0.1, 1e-12)
	test.That(t, pitch, test.ShouldAlmostEqual, 0.2, 1e-12)
	test.That(t, yaw, test.ShouldAlmostEqual, 0.3, 1e-12)

	_, err = parseOrigin(nodeFromXML(t, `<visual><origin xyz="1 2"/></visual>`), "")
	test.That(t, errors.Is(err, ErrSchema), test.ShouldBeTrue)
}

func TestParseMaterial(t *testing.T) {
	v, err := parseMaterial(nodeFromXML(t,
		`<material name="steel"><color rgba="0.8 0.8 0.8 1"/><texture filename="steel.png"/></material>`), "/models")
	test.That(t, err, test.ShouldBeNil)
	m := v.(*Material)
	test.That(t, m.Name, test.ShouldEqual, "steel")
	test.That(t, m.Color, test.ShouldResemble, []float64{0.8, 0.8, 0.8, 1})
	test.That(t, m.Texture, test.ShouldContainSubstring, "steel.png")

	// a bare reference carries only the name
	v, err = parseMaterial(nodeFromXML(t, `<material name="steel"/>`), "")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, v.(*Material), test.ShouldResemble, &Material{Name: "steel"})
}

func TestVisualCopy(t *testing.T) {
	v := &Visual{
		Name:     "shell",
		Origin:   spatialmath.NewPoseFromPoint(r3.Vector{X: 1}),
		Geometry: &Box{Size: r3.Vector{X: 1, Y: 1, Z: 1}},
		Material: &Material{Name: "steel"},
	}
	cp, err := v.Copy("left_", []float64{2})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, cp.Name, test.ShouldEqual, "left_shell")
	test.That(t, cp.Origin.Point(), test.ShouldResemble, r3.Vector{X: 2})
	test.That(t, cp.Geometry, test.ShouldResemble, &Box{Size: r3.Vector{X: 2, Y: 2, Z: 2}})
	test.That(t, cp.Material, test.ShouldNotEqual, v.Material)

	// an unnamed visual stays unnamed
	v.Name = ""
	cp, err = v.Copy("left_", nil)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, cp.Name, test.ShouldEqual, "")

	// a scale a sphere cannot express fails the copy
	v.Geometry = &Sphere{Radius: 1}
	_, err = v.Copy("left_", []float64{1, 2, 3})
	test.That(t, errors.Is(err, ErrConstraint), test.ShouldBeTrue)
}

func TestLinkCopy(t *testing.T) {
	link := &Link{
		Name:     "arm",
		Inertial: defaultInertial(),
		Visuals: []*Visual{{
			Origin:   spatialmath.NewPose(),
			Geometry: &Box{Size: r3.Vector{X: 1, Y: 1, Z: 1}},
		}},
		Collisions: []*Collision{{
			Origin:   spatialmath.NewPose(),
			Geometry: &Sphere{Radius: 1},
		}},
	}

	cp, err := link.Copy("left_", nil, false)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, cp.Name, test.ShouldEqual, "left_arm")
	test.That(t, len(cp.Visuals), test.ShouldEqual, 1)
	test.That(t, len(cp.Collisions), test.ShouldEqual, 1)
	test.That(t, cp.Inertial, test.ShouldNotEqual, link.Inertial)

	collisionOnly, err := link.Copy("left_", nil, true)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, collisionOnly.Visuals, test.ShouldBeEmpty)
	test.That(t, len(collisionOnly.Collisions), test.ShouldEqual, 1)
}

func TestParseLink(t *testing.T) {
	text := `<link name="base">
		<visual><geometry><sphere radius="1"/></geometry></visual>
		<visual><geometry><box size="1 1 1"/></geometry></visual>
		<collision><geometry><sphere radius="1"/></geometry></collision>
	</link>`
	v, err := parseLink(nodeFromXML(t, text), "")
	test.That(t, err, test.ShouldBeNil)
	link := v.(*Link)
	test.That(t, link.Name, test.ShouldEqual, "base")
	test.That(t, len(link.Visuals), test.ShouldEqual, 2)
	test.That(t, len(link.Collisions), test.ShouldEqual, 1)
	// no inertial declared: unit mass, identity inertia
	test.That(t, link.Inertial.Mass, test.ShouldEqual, 1.0)
	test.That(t, link.Inertial.Inertia.At(0, 0), test.ShouldEqual, 1.0)

	_, err = parseLink(nodeFromXML(t, `<link/>`), "")
	test.That(t, errors.Is(err, ErrSchema), test.ShouldBeTrue)
}
