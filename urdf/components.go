package urdf

import (
	"fmt"

	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/mat"

	"github.com/mikebostanci/ropy/spatialmath"
)

// inertiaSymmetryTol is the tolerance used when checking that an inertia
// tensor equals its own transpose.
const inertiaSymmetryTol = 1e-8

// Visual describes how a piece of a link is rendered: a geometry posed
// relative to the link frame, optionally named and carrying a material.
type Visual struct {
	Name     string
	Origin   *spatialmath.Pose
	Geometry Geometry
	Material *Material
}

// Collision describes the collision volume of a piece of a link.
type Collision struct {
	Name     string
	Origin   *spatialmath.Pose
	Geometry Geometry
}

// Inertial holds the rigid-body inertial properties of a link.
type Inertial struct {
	// Mass in kilograms.
	Mass float64
	// Inertia is the symmetric 3x3 rotational inertia matrix.
	Inertia *mat.Dense
	// Origin is the pose of the inertial frame relative to the link frame.
	Origin *spatialmath.Pose
}

// Material names a surface appearance shared between visuals. Color, when
// present, is an RGBA quadruple in [0,1].
type Material struct {
	Name    string
	Color   []float64
	Texture string
}

// NewInertial validates and assembles an Inertial. The inertia matrix must
// be 3x3 and symmetric within tolerance.
func NewInertial(mass float64, inertia *mat.Dense, origin *spatialmath.Pose) (*Inertial, error) {
	r, c := inertia.Dims()
	if r != 3 || c != 3 {
		return nil, fmt.Errorf("%w: inertia must be a 3x3 matrix, got %dx%d", ErrConstraint, r, c)
	}
	if !mat.EqualApprox(inertia, inertia.T(), inertiaSymmetryTol) {
		return nil, fmt.Errorf("%w: inertia must be a symmetric matrix", ErrConstraint)
	}
	if origin == nil {
		origin = spatialmath.NewPose()
	}
	return &Inertial{Mass: mass, Inertia: inertia, Origin: origin}, nil
}

// defaultInertial is the inertial assumed for links that declare none:
// unit mass, identity inertia, identity origin.
func defaultInertial() *Inertial {
	return &Inertial{
		Mass:    1.0,
		Inertia: mat.NewDense(3, 3, []float64{1, 0, 0, 0, 1, 0, 0, 0, 1}),
		Origin:  spatialmath.NewPose(),
	}
}

// Copy returns a deep copy of the inertial.
func (in *Inertial) Copy() *Inertial {
	inertia := mat.NewDense(3, 3, nil)
	inertia.Copy(in.Inertia)
	return &Inertial{Mass: in.Mass, Inertia: inertia, Origin: in.Origin.Copy()}
}

// Copy returns a deep copy of the visual with prefix applied to its name and
// the optional scale applied to its geometry and origin translation.
func (v *Visual) Copy(prefix string, scale []float64) (*Visual, error) {
	geom, err := v.Geometry.Rescaled(scale)
	if err != nil {
		return nil, err
	}
	origin := v.Origin.Copy()
	if scale != nil {
		s, err := scaleVector(scale)
		if err != nil {
			return nil, err
		}
		origin = origin.ScaledTranslation(s)
	}
	cp := &Visual{Name: prefixName(prefix, v.Name), Origin: origin, Geometry: geom}
	if v.Material != nil {
		m := *v.Material
		cp.Material = &m
	}
	return cp, nil
}

// Copy returns a deep copy of the collision with prefix applied to its name
// and the optional scale applied to its geometry and origin translation.
func (c *Collision) Copy(prefix string, scale []float64) (*Collision, error) {
	geom, err := c.Geometry.Rescaled(scale)
	if err != nil {
		return nil, err
	}
	origin := c.Origin.Copy()
	if scale != nil {
		s, err := scaleVector(scale)
		if err != nil {
			return nil, err
		}
		origin = origin.ScaledTranslation(s)
	}
	return &Collision{Name: prefixName(prefix, c.Name), Origin: origin, Geometry: geom}, nil
}

func prefixName(prefix, name string) string {
	if name == "" {
		return name
	}
	return prefix + name
}

var originSchema = schema{
	typeName: "origin",
	attrs: []attrSpec{
		{name: "xyz", kind: attrFloats},
		{name: "rpy", kind: attrFloats},
	},
}

// parseOrigin reads the optional origin child of a node into a pose.
// A missing element, or missing xyz/rpy attributes, default to identity.
func parseOrigin(n *xmlNode, dir string) (*spatialmath.Pose, error) {
	origin := n.find("origin")
	if origin == nil {
		return spatialmath.NewPose(), nil
	}
	vals, err := originSchema.parseSchema(origin, dir)
	if err != nil {
		return nil, err
	}
	pt := [3]float64{}
	if xyz, ok := vals.floats("xyz"); ok {
		v, err := vec3("xyz", originSchema.typeName, xyz)
		if err != nil {
			return nil, err
		}
		pt = [3]float64{v.X, v.Y, v.Z}
	}
	rpy := [3]float64{}
	if vals2, ok := vals.floats("rpy"); ok {
		v, err := vec3("rpy", originSchema.typeName, vals2)
		if err != nil {
			return nil, err
		}
		rpy = [3]float64{v.X, v.Y, v.Z}
	}
	return spatialmath.NewPoseFromEuler(
		r3.Vector{X: pt[0], Y: pt[1], Z: pt[2]}, rpy[0], rpy[1], rpy[2],
	), nil
}

var (
	visualSchema = schema{
		typeName: "Visual",
		attrs:    []attrSpec{{name: "name", kind: attrString}},
		elems: []elemSpec{
			{tag: "geometry", required: true, parse: parseGeometry},
			{tag: "material", parse: parseMaterial},
		},
	}
	collisionSchema = schema{
		typeName: "Collision",
		attrs:    []attrSpec{{name: "name", kind: attrString}},
		elems: []elemSpec{
			{tag: "geometry", required: true, parse: parseGeometry},
		},
	}
	materialSchema = schema{
		typeName: "Material",
		attrs:    []attrSpec{{name: "name", kind: attrString, required: true}},
	}
	massSchema = schema{
		typeName: "mass",
		attrs:    []attrSpec{{name: "value", kind: attrFloat, required: true}},
	}
	inertiaSchema = schema{
		typeName: "inertia",
		attrs: []attrSpec{
			{name: "ixx", kind: attrFloat, required: true},
			{name: "ixy", kind: attrFloat, required: true},
			{name: "ixz", kind: attrFloat, required: true},
			{name: "iyy", kind: attrFloat, required: true},
			{name: "iyz", kind: attrFloat, required: true},
			{name: "izz", kind: attrFloat, required: true},
		},
	}
)

func parseVisual(n *xmlNode, dir string) (interface{}, error) {
	vals, err := visualSchema.parseSchema(n, dir)
	if err != nil {
		return nil, err
	}
	origin, err := parseOrigin(n, dir)
	if err != nil {
		return nil, err
	}
	name, _ := vals.str("name")
	v := &Visual{Name: name, Origin: origin}
	geom, _ := vals.elem("geometry")
	v.Geometry = geom.(Geometry)
	if m, ok := vals.elem("material"); ok {
		v.Material = m.(*Material)
	}
	return v, nil
}

func parseCollision(n *xmlNode, dir string) (interface{}, error) {
	vals, err := collisionSchema.parseSchema(n, dir)
	if err != nil {
		return nil, err
	}
	origin, err := parseOrigin(n, dir)
	if err != nil {
		return nil, err
	}
	name, _ := vals.str("name")
	geom, _ := vals.elem("geometry")
	return &Collision{Name: name, Origin: origin, Geometry: geom.(Geometry)}, nil
}

// parseMaterial reads a material element. The color is, per the format,
// an attribute of a color subelement rather than of the material itself.
func parseMaterial(n *xmlNode, dir string) (interface{}, error) {
	vals, err := materialSchema.parseSchema(n, dir)
	if err != nil {
		return nil, err
	}
	name, _ := vals.str("name")
	m := &Material{Name: name}
	if color := n.find("color"); color != nil {
		if raw, ok := color.attr("rgba"); ok {
			v, err := coerceAttr(attrSpec{name: "rgba", kind: attrFloats}, materialSchema.typeName, raw)
			if err != nil {
				return nil, err
			}
			m.Color = v.([]float64)
		}
	}
	if texture := n.find("texture"); texture != nil {
		if fn, ok := texture.attr("filename"); ok {
			m.Texture = resolveMeshPath(fn, dir)
		}
	}
	return m, nil
}

// parseInertial assembles the inertia tensor from the six independent scalar
// attributes of the inertia subelement.
func parseInertial(n *xmlNode, dir string) (interface{}, error) {
	origin, err := parseOrigin(n, dir)
	if err != nil {
		return nil, err
	}
	massNode := n.find("mass")
	if massNode == nil {
		return nil, newMissingElementError("mass", "Inertial")
	}
	massVals, err := massSchema.parseSchema(massNode, dir)
	if err != nil {
		return nil, err
	}
	mass, _ := massVals.float("value")

	inertiaNode := n.find("inertia")
	if inertiaNode == nil {
		return nil, newMissingElementError("inertia", "Inertial")
	}
	iv, err := inertiaSchema.parseSchema(inertiaNode, dir)
	if err != nil {
		return nil, err
	}
	xx, _ := iv.float("ixx")
	xy, _ := iv.float("ixy")
	xz, _ := iv.float("ixz")
	yy, _ := iv.float("iyy")
	yz, _ := iv.float("iyz")
	zz, _ := iv.float("izz")
	inertia := mat.NewDense(3, 3, []float64{
		xx, xy, xz,
		xy, yy, yz,
		xz, yz, zz,
	})
	return NewInertial(mass, inertia, origin)
}
