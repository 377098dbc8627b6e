package urdf

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/test"
)

func TestParseGeometryVariants(t *testing.T) {
	g, err := parseGeometry(nodeFromXML(t, `<geometry><box size="1 2 3"/></geometry>`), "")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, g, test.ShouldResemble, &Box{Size: r3.Vector{X: 1, Y: 2, Z: 3}})

	g, err = parseGeometry(nodeFromXML(t, `<geometry><cylinder radius="0.5" length="2"/></geometry>`), "")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, g, test.ShouldResemble, &Cylinder{Radius: 0.5, Length: 2})

	g, err = parseGeometry(nodeFromXML(t, `<geometry><sphere radius="0.25"/></geometry>`), "")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, g, test.ShouldResemble, &Sphere{Radius: 0.25})

	g, err = parseGeometry(nodeFromXML(t, `<geometry><mesh filename="hand.stl" scale="1 1 2"/></geometry>`), "/models")
	test.That(t, err, test.ShouldBeNil)
	mesh, ok := g.(*Mesh)
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, mesh.Filename, test.ShouldEqual, filepath.Join("/models", "hand.stl"))
	test.That(t, *mesh.Scale, test.ShouldResemble, r3.Vector{X: 1, Y: 1, Z: 2})
}

func TestParseGeometryExactlyOneVariant(t *testing.T) {
	_, err := parseGeometry(nodeFromXML(t, `<geometry/>`), "")
	test.That(t, errors.Is(err, ErrConstraint), test.ShouldBeTrue)

	_, err = parseGeometry(nodeFromXML(t, `<geometry><box size="1 1 1"/><sphere radius="1"/></geometry>`), "")
	test.That(t, errors.Is(err, ErrConstraint), test.ShouldBeTrue)

	// a box size must have exactly three values
	_, err = parseGeometry(nodeFromXML(t, `<geometry><box size="1 1"/></geometry>`), "")
	test.That(t, errors.Is(err, ErrSchema), test.ShouldBeTrue)
}

func TestRescaled(t *testing.T) {
	box := &Box{Size: r3.Vector{X: 1, Y: 2, Z: 3}}
	g, err := box.Rescaled([]float64{2})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, g, test.ShouldResemble, &Box{Size: r3.Vector{X: 2, Y: 4, Z: 6}})
	g, err = box.Rescaled([]float64{1, 2, 3})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, g, test.ShouldResemble, &Box{Size: r3.Vector{X: 1, Y: 4, Z: 9}})
	// nil scale returns an equal copy
	g, err = box.Rescaled(nil)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, g, test.ShouldResemble, box)
	_, err = box.Rescaled([]float64{1, 2})
	test.That(t, errors.Is(err, ErrConstraint), test.ShouldBeTrue)

	cyl := &Cylinder{Radius: 1, Length: 4}
	g, err = cyl.Rescaled([]float64{2, 2, 0.5})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, g, test.ShouldResemble, &Cylinder{Radius: 2, Length: 2})
	_, err = cyl.Rescaled([]float64{1, 2, 1})
	test.That(t, errors.Is(err, ErrConstraint), test.ShouldBeTrue)

	sph := &Sphere{Radius: 3}
	g, err = sph.Rescaled([]float64{2})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, g, test.ShouldResemble, &Sphere{Radius: 6})
	_, err = sph.Rescaled([]float64{1, 1, 2})
	test.That(t, errors.Is(err, ErrConstraint), test.ShouldBeTrue)

	mesh := &Mesh{Filename: "a.stl"}
	g, err = mesh.Rescaled([]float64{2})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, g, test.ShouldResemble, &Mesh{Filename: "a.stl", Scale: &r3.Vector{X: 2, Y: 2, Z: 2}})
	// an existing scale is compounded, not replaced
	mesh = &Mesh{Filename: "a.stl", Scale: &r3.Vector{X: 1, Y: 2, Z: 3}}
	g, err = mesh.Rescaled([]float64{2})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, g, test.ShouldResemble, &Mesh{Filename: "a.stl", Scale: &r3.Vector{X: 2, Y: 4, Z: 6}})
}

func TestResolveMeshPath(t *testing.T) {
	test.That(t, resolveMeshPath("a.stl", "/models"), test.ShouldEqual, filepath.Join("/models", "a.stl"))
	test.That(t, resolveMeshPath("a.stl", ""), test.ShouldEqual, "a.stl")
	test.That(t, resolveMeshPath("/abs/a.stl", "/models"), test.ShouldEqual, "/abs/a.stl")
	test.That(t, resolveMeshPath("package://robot/meshes/a.stl", "/models"),
		test.ShouldEqual, filepath.Join("/models", "meshes/a.stl"))
}
