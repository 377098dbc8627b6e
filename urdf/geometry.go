package urdf

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/golang/geo/r3"
)

// Geometry is the closed set of shapes a visual or collision element can
// carry. Exactly one variant exists per element; the interface is sealed.
type Geometry interface {
	// Rescaled returns a copy with a scale applied: nil for no scaling, a
	// single value for uniform scaling, or three values for per-axis
	// scaling. Variants that cannot express a given non-uniform scale
	// return an error wrapping ErrConstraint.
	Rescaled(scale []float64) (Geometry, error)

	geometryVariant()
}

// Box is a rectangular prism centered at the local origin.
type Box struct {
	// Size holds the side lengths along x, y and z, in meters.
	Size r3.Vector
}

// Cylinder is a cylinder centered at the local origin, aligned with z.
type Cylinder struct {
	Radius float64
	Length float64
}

// Sphere is a sphere centered at the local origin.
type Sphere struct {
	Radius float64
}

// Mesh references a triangle mesh on disk. Filename is resolved against the
// directory of the source document at parse time.
type Mesh struct {
	Filename string
	// Scale is an optional per-axis scaling of the mesh.
	Scale *r3.Vector
}

func (*Box) geometryVariant()      {}
func (*Cylinder) geometryVariant() {}
func (*Sphere) geometryVariant()   {}
func (*Mesh) geometryVariant()     {}

// Rescaled multiplies each box dimension by the matching scale component.
func (b *Box) Rescaled(scale []float64) (Geometry, error) {
	s, err := scaleVector(scale)
	if err != nil {
		return nil, err
	}
	return &Box{Size: r3.Vector{X: b.Size.X * s.X, Y: b.Size.Y * s.Y, Z: b.Size.Z * s.Z}}, nil
}

// Rescaled scales the radius by the x/y components and the length by z.
// The x and y components must agree; a cylinder cannot be made elliptical.
func (c *Cylinder) Rescaled(scale []float64) (Geometry, error) {
	s, err := scaleVector(scale)
	if err != nil {
		return nil, err
	}
	if s.X != s.Y {
		return nil, fmt.Errorf("%w: cannot rescale cylinder geometry with asymmetry in x/y", ErrConstraint)
	}
	return &Cylinder{Radius: c.Radius * s.X, Length: c.Length * s.Z}, nil
}

// Rescaled scales the radius uniformly; spheres do not support non-uniform
// scaling.
func (s *Sphere) Rescaled(scale []float64) (Geometry, error) {
	v, err := scaleVector(scale)
	if err != nil {
		return nil, err
	}
	if v.X != v.Y || v.X != v.Z {
		return nil, fmt.Errorf("%w: spheres do not support non-uniform scaling", ErrConstraint)
	}
	return &Sphere{Radius: s.Radius * v.X}, nil
}

// Rescaled copies the mesh reference; the scale is recorded on the copy
// rather than applied, since the mesh data itself is not loaded here.
func (m *Mesh) Rescaled(scale []float64) (Geometry, error) {
	cp := &Mesh{Filename: m.Filename}
	if m.Scale != nil {
		sc := *m.Scale
		cp.Scale = &sc
	}
	if scale != nil {
		s, err := scaleVector(scale)
		if err != nil {
			return nil, err
		}
		if cp.Scale == nil {
			cp.Scale = &r3.Vector{X: 1, Y: 1, Z: 1}
		}
		cp.Scale = &r3.Vector{X: cp.Scale.X * s.X, Y: cp.Scale.Y * s.Y, Z: cp.Scale.Z * s.Z}
	}
	return cp, nil
}

func scaleVector(scale []float64) (r3.Vector, error) {
	switch len(scale) {
	case 0:
		return r3.Vector{X: 1, Y: 1, Z: 1}, nil
	case 1:
		return r3.Vector{X: scale[0], Y: scale[0], Z: scale[0]}, nil
	case 3:
		return r3.Vector{X: scale[0], Y: scale[1], Z: scale[2]}, nil
	default:
		return r3.Vector{}, fmt.Errorf("%w: scale must have 1 or 3 components, got %d", ErrConstraint, len(scale))
	}
}

var (
	boxSchema = schema{
		typeName: "Box",
		attrs:    []attrSpec{{name: "size", kind: attrFloats, required: true}},
	}
	cylinderSchema = schema{
		typeName: "Cylinder",
		attrs: []attrSpec{
			{name: "radius", kind: attrFloat, required: true},
			{name: "length", kind: attrFloat, required: true},
		},
	}
	sphereSchema = schema{
		typeName: "Sphere",
		attrs:    []attrSpec{{name: "radius", kind: attrFloat, required: true}},
	}
	meshSchema = schema{
		typeName: "Mesh",
		attrs: []attrSpec{
			{name: "filename", kind: attrString, required: true},
			{name: "scale", kind: attrFloats, required: false},
		},
	}
	geometrySchema = schema{
		typeName: "Geometry",
		elems: []elemSpec{
			{tag: "box", parse: parseBox},
			{tag: "cylinder", parse: parseCylinder},
			{tag: "sphere", parse: parseSphere},
			{tag: "mesh", parse: parseMesh},
		},
	}
)

func parseBox(n *xmlNode, dir string) (interface{}, error) {
	vals, err := boxSchema.parseSchema(n, dir)
	if err != nil {
		return nil, err
	}
	size, _ := vals.floats("size")
	v, err := vec3("size", boxSchema.typeName, size)
	if err != nil {
		return nil, err
	}
	return &Box{Size: v}, nil
}

func parseCylinder(n *xmlNode, dir string) (interface{}, error) {
	vals, err := cylinderSchema.parseSchema(n, dir)
	if err != nil {
		return nil, err
	}
	radius, _ := vals.float("radius")
	length, _ := vals.float("length")
	return &Cylinder{Radius: radius, Length: length}, nil
}

func parseSphere(n *xmlNode, dir string) (interface{}, error) {
	vals, err := sphereSchema.parseSchema(n, dir)
	if err != nil {
		return nil, err
	}
	radius, _ := vals.float("radius")
	return &Sphere{Radius: radius}, nil
}

func parseMesh(n *xmlNode, dir string) (interface{}, error) {
	vals, err := meshSchema.parseSchema(n, dir)
	if err != nil {
		return nil, err
	}
	filename, _ := vals.str("filename")
	m := &Mesh{Filename: resolveMeshPath(filename, dir)}
	if scale, ok := vals.floats("scale"); ok {
		v, err := vec3("scale", meshSchema.typeName, scale)
		if err != nil {
			return nil, err
		}
		m.Scale = &v
	}
	return m, nil
}

func parseGeometry(n *xmlNode, dir string) (interface{}, error) {
	vals, err := geometrySchema.parseSchema(n, dir)
	if err != nil {
		return nil, err
	}
	var geom Geometry
	for _, tag := range []string{"box", "cylinder", "sphere", "mesh"} {
		v, ok := vals.elem(tag)
		if !ok {
			continue
		}
		if geom != nil {
			return nil, fmt.Errorf("%w: geometry element has more than one shape set", ErrConstraint)
		}
		geom = v.(Geometry)
	}
	if geom == nil {
		return nil, fmt.Errorf("%w: geometry element has no shape set", ErrConstraint)
	}
	return geom, nil
}

// resolveMeshPath resolves a mesh filename against the document directory.
// ROS-style package:// URIs have the package prefix stripped first.
func resolveMeshPath(filename, dir string) string {
	if strings.HasPrefix(filename, "package://") {
		filename = strings.TrimPrefix(filename, "package://")
		if idx := strings.Index(filename, "/"); idx != -1 {
			filename = filename[idx+1:]
		}
	} else if filepath.IsAbs(filename) || dir == "" {
		return filename
	}
	if dir == "" {
		return filename
	}
	return filepath.Join(dir, filename)
}

func vec3(attr, typeName string, vals []float64) (r3.Vector, error) {
	if len(vals) != 3 {
		return r3.Vector{}, fmt.Errorf("%w: attribute %q of %s must have 3 values, got %d",
			ErrSchema, attr, typeName, len(vals))
	}
	return r3.Vector{X: vals[0], Y: vals[1], Z: vals[2]}, nil
}
