package urdf

import (
	"fmt"

	"github.com/edaniels/golog"
	"go.uber.org/multierr"
)

// Model is the validated, cross-referenced aggregate of a parsed mechanism
// description. It is read-only once built: accessors return copies of the
// internal collections, never the live backing containers.
type Model struct {
	name string

	links         []*Link
	joints        []*Joint
	transmissions []*Transmission
	materials     []*Material

	linkMap         map[string]*Link
	jointMap        map[string]*Joint
	transmissionMap map[string]*Transmission
	materialMap     map[string]*Material

	actuatedJoints []*Joint
	chain          []*ChainLink

	extraXML []byte
}

// NewModel validates links, joints and transmissions and assembles the
// aggregate: name lookup maps, referential validation, the shared material
// registry, the list of actuated joints, and the derived elementary-transform
// chain. Construction is all-or-nothing; no partial model is returned.
func NewModel(
	name string,
	links []*Link,
	joints []*Joint,
	transmissions []*Transmission,
	materials []*Material,
	logger golog.Logger,
) (*Model, error) {
	m := &Model{
		name:            name,
		links:           links,
		joints:          joints,
		transmissions:   transmissions,
		materials:       materials,
		linkMap:         map[string]*Link{},
		jointMap:        map[string]*Joint{},
		transmissionMap: map[string]*Transmission{},
		materialMap:     map[string]*Material{},
	}

	for _, link := range links {
		if _, ok := m.linkMap[link.Name]; ok {
			return nil, newDuplicateNameError("link", link.Name)
		}
		m.linkMap[link.Name] = link
	}
	for _, joint := range joints {
		if _, ok := m.jointMap[joint.Name]; ok {
			return nil, newDuplicateNameError("joint", joint.Name)
		}
		m.jointMap[joint.Name] = joint
	}
	for _, transmission := range transmissions {
		if _, ok := m.transmissionMap[transmission.Name]; ok {
			return nil, newDuplicateNameError("transmission", transmission.Name)
		}
		m.transmissionMap[transmission.Name] = transmission
	}
	for _, material := range materials {
		if _, ok := m.materialMap[material.Name]; ok {
			return nil, newDuplicateNameError("material", material.Name)
		}
		m.materialMap[material.Name] = material
	}

	if err := m.validateJoints(); err != nil {
		return nil, err
	}
	if err := m.validateTransmissions(); err != nil {
		return nil, err
	}
	m.mergeMaterials()
	m.deriveChain(logger)

	return m, nil
}

// validateJoints checks the referential integrity of every joint and
// collects the actuated joints (non-fixed, non-mimic, in declaration order).
func (m *Model) validateJoints() error {
	var errAll error
	for _, joint := range m.joints {
		if _, ok := m.linkMap[joint.Parent]; !ok {
			multierr.AppendInto(&errAll, fmt.Errorf("%w: joint %q has invalid parent link name %q",
				ErrReference, joint.Name, joint.Parent))
		}
		if _, ok := m.linkMap[joint.Child]; !ok {
			multierr.AppendInto(&errAll, fmt.Errorf("%w: joint %q has invalid child link name %q",
				ErrReference, joint.Name, joint.Child))
		}
		if joint.Parent == joint.Child {
			multierr.AppendInto(&errAll, fmt.Errorf("%w: joint %q has matching parent and child",
				ErrReference, joint.Name))
		}
		if joint.Mimic != nil {
			if joint.Mimic.Joint == joint.Name {
				multierr.AppendInto(&errAll, fmt.Errorf("%w: joint %q set up to mimic itself",
					ErrReference, joint.Name))
			} else if _, ok := m.jointMap[joint.Mimic.Joint]; !ok {
				multierr.AppendInto(&errAll, fmt.Errorf("%w: joint %q has an invalid mimic joint name %q",
					ErrReference, joint.Name, joint.Mimic.Joint))
			}
		} else if joint.Type != FixedJoint {
			m.actuatedJoints = append(m.actuatedJoints, joint)
		}
	}
	return errAll
}

// validateTransmissions checks that every joint referenced by a transmission
// exists in the model.
func (m *Model) validateTransmissions() error {
	var errAll error
	for _, transmission := range m.transmissions {
		for _, joint := range transmission.Joints {
			if _, ok := m.jointMap[joint.Name]; !ok {
				multierr.AppendInto(&errAll, fmt.Errorf("%w: transmission %q has invalid joint name %q",
					ErrReference, transmission.Name, joint.Name))
			}
		}
	}
	return errAll
}

// mergeMaterials folds per-visual materials into the shared registry. A
// visual whose material name is already registered is re-pointed at the
// registered instance, so every visual sharing a name observes the same
// material object.
func (m *Model) mergeMaterials() {
	for _, link := range m.links {
		for _, visual := range link.Visuals {
			if visual.Material == nil {
				continue
			}
			if registered, ok := m.materialMap[visual.Material.Name]; ok {
				visual.Material = registered
				continue
			}
			m.materials = append(m.materials, visual.Material)
			m.materialMap[visual.Material.Name] = visual.Material
		}
	}
}

// deriveChain builds one chain node per joint: the fixed elementary
// transforms of the joint origin followed by the variable transform for the
// joint axis, then parent adjacency, indexed by child link name.
func (m *Model) deriveChain(logger golog.Logger) {
	byChildLink := map[string][]*ChainLink{}
	for _, joint := range m.joints {
		ets := fixedTransforms(joint.Origin)
		if joint.Type == RevoluteJoint || joint.Type == PrismaticJoint {
			variable, ok := axisTransforms(joint.Type, joint.Axis)
			if !ok && logger != nil {
				logger.Warnw("joint axis is not aligned with a principal axis; no variable transform derived",
					"joint", joint.Name, "axis", joint.Axis)
			}
			ets = append(ets, variable...)
		}

		node := &ChainLink{Name: joint.Name, Transforms: ets}
		if joint.Limit != nil {
			if joint.Limit.Lower != nil {
				node.Qlim[0] = *joint.Limit.Lower
			}
			if joint.Limit.Upper != nil {
				node.Qlim[1] = *joint.Limit.Upper
			}
		}
		m.chain = append(m.chain, node)
		byChildLink[joint.Child] = append(byChildLink[joint.Child], node)
	}

	// A node's parents are the nodes of joints whose child link is this
	// joint's parent link.
	for i, joint := range m.joints {
		for _, parent := range byChildLink[joint.Parent] {
			if parent != m.chain[i] {
				m.chain[i].Parents = append(m.chain[i].Parents, parent)
			}
		}
	}
}

// Name returns the mechanism name.
func (m *Model) Name() string {
	return m.name
}

// Links returns a copy of the link list.
func (m *Model) Links() []*Link {
	return append([]*Link{}, m.links...)
}

// LinkMap returns a copy of the name-to-link map.
func (m *Model) LinkMap() map[string]*Link {
	out := make(map[string]*Link, len(m.linkMap))
	for k, v := range m.linkMap {
		out[k] = v
	}
	return out
}

// Joints returns a copy of the joint list.
func (m *Model) Joints() []*Joint {
	return append([]*Joint{}, m.joints...)
}

// JointMap returns a copy of the name-to-joint map.
func (m *Model) JointMap() map[string]*Joint {
	out := make(map[string]*Joint, len(m.jointMap))
	for k, v := range m.jointMap {
		out[k] = v
	}
	return out
}

// Transmissions returns a copy of the transmission list.
func (m *Model) Transmissions() []*Transmission {
	return append([]*Transmission{}, m.transmissions...)
}

// TransmissionMap returns a copy of the name-to-transmission map.
func (m *Model) TransmissionMap() map[string]*Transmission {
	out := make(map[string]*Transmission, len(m.transmissionMap))
	for k, v := range m.transmissionMap {
		out[k] = v
	}
	return out
}

// Materials returns a copy of the merged material list.
func (m *Model) Materials() []*Material {
	return append([]*Material{}, m.materials...)
}

// MaterialMap returns a copy of the name-to-material map.
func (m *Model) MaterialMap() map[string]*Material {
	out := make(map[string]*Material, len(m.materialMap))
	for k, v := range m.materialMap {
		out[k] = v
	}
	return out
}

// ActuatedJoints returns the independently actuated joints: every non-fixed,
// non-mimic joint, in declaration order.
func (m *Model) ActuatedJoints() []*Joint {
	return append([]*Joint{}, m.actuatedJoints...)
}

// Chain returns a copy of the derived elementary-transform chain, one node
// per joint in declaration order.
func (m *Model) Chain() []*ChainLink {
	return append([]*ChainLink{}, m.chain...)
}

// ExtraXML returns the unrecognized top-level document content, preserved
// verbatim.
func (m *Model) ExtraXML() []byte {
	return append([]byte{}, m.extraXML...)
}
