package urdf

// Link is one rigid body of the mechanism.
type Link struct {
	Name string
	// Inertial is never nil; links that declare none get unit mass and
	// identity inertia.
	Inertial   *Inertial
	Visuals    []*Visual
	Collisions []*Collision
}

// Copy returns a deep copy of the link with prefix applied to every name and
// the optional scale applied to its visuals and collisions. With
// collisionOnly set, visuals are dropped from the copy.
func (l *Link) Copy(prefix string, scale []float64, collisionOnly bool) (*Link, error) {
	cp := &Link{
		Name:     prefix + l.Name,
		Inertial: l.Inertial.Copy(),
	}
	if !collisionOnly {
		for _, v := range l.Visuals {
			vc, err := v.Copy(prefix, scale)
			if err != nil {
				return nil, err
			}
			cp.Visuals = append(cp.Visuals, vc)
		}
	}
	for _, c := range l.Collisions {
		cc, err := c.Copy(prefix, scale)
		if err != nil {
			return nil, err
		}
		cp.Collisions = append(cp.Collisions, cc)
	}
	return cp, nil
}

var linkSchema = schema{
	typeName: "Link",
	attrs:    []attrSpec{{name: "name", kind: attrString, required: true}},
	elems: []elemSpec{
		{tag: "inertial", parse: parseInertial},
		{tag: "visual", multiple: true, parse: parseVisual},
		{tag: "collision", multiple: true, parse: parseCollision},
	},
}

func parseLink(n *xmlNode, dir string) (interface{}, error) {
	vals, err := linkSchema.parseSchema(n, dir)
	if err != nil {
		return nil, err
	}
	link := &Link{}
	link.Name, _ = vals.str("name")
	if v, ok := vals.elem("inertial"); ok {
		link.Inertial = v.(*Inertial)
	} else {
		link.Inertial = defaultInertial()
	}
	for _, v := range vals.elems("visual") {
		link.Visuals = append(link.Visuals, v.(*Visual))
	}
	for _, c := range vals.elems("collision") {
		link.Collisions = append(link.Collisions, c.(*Collision))
	}
	return link, nil
}
