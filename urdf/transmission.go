package urdf

import "strconv"

// TransmissionJoint names a joint driven through a transmission, with the
// hardware interfaces it exposes.
type TransmissionJoint struct {
	Name               string
	HardwareInterfaces []string
}

// Actuator is one motor connected to a transmission.
type Actuator struct {
	Name                string
	MechanicalReduction *float64
	HardwareInterfaces  []string
}

// Transmission describes the relationship between actuators and joints.
type Transmission struct {
	Name      string
	Type      string
	Joints    []*TransmissionJoint
	Actuators []*Actuator
}

var (
	transmissionJointSchema = schema{
		typeName: "TransmissionJoint",
		attrs:    []attrSpec{{name: "name", kind: attrString, required: true}},
	}
	actuatorSchema = schema{
		typeName: "Actuator",
		attrs:    []attrSpec{{name: "name", kind: attrString, required: true}},
	}
	transmissionSchema = schema{
		typeName: "Transmission",
		attrs:    []attrSpec{{name: "name", kind: attrString, required: true}},
		elems: []elemSpec{
			{tag: "joint", required: true, multiple: true, parse: parseTransmissionJoint},
			{tag: "actuator", required: true, multiple: true, parse: parseActuator},
		},
	}
)

// hardwareInterfaces collects the text of all hardwareInterface children.
func hardwareInterfaces(n *xmlNode) []string {
	var out []string
	for _, hi := range n.findAll("hardwareInterface") {
		out = append(out, hi.Text)
	}
	return out
}

func parseTransmissionJoint(n *xmlNode, dir string) (interface{}, error) {
	vals, err := transmissionJointSchema.parseSchema(n, dir)
	if err != nil {
		return nil, err
	}
	tj := &TransmissionJoint{HardwareInterfaces: hardwareInterfaces(n)}
	tj.Name, _ = vals.str("name")
	return tj, nil
}

func parseActuator(n *xmlNode, dir string) (interface{}, error) {
	vals, err := actuatorSchema.parseSchema(n, dir)
	if err != nil {
		return nil, err
	}
	actuator := &Actuator{HardwareInterfaces: hardwareInterfaces(n)}
	actuator.Name, _ = vals.str("name")
	if mr := n.find("mechanicalReduction"); mr != nil {
		f, err := strconv.ParseFloat(mr.Text, 64)
		if err != nil {
			return nil, newBadValueError("mechanicalReduction", actuatorSchema.typeName, mr.Text)
		}
		actuator.MechanicalReduction = &f
	}
	return actuator, nil
}

// parseTransmission parses a transmission element. The transmission type is
// the text of a type subelement, not an attribute.
func parseTransmission(n *xmlNode, dir string) (interface{}, error) {
	vals, err := transmissionSchema.parseSchema(n, dir)
	if err != nil {
		return nil, err
	}
	transmission := &Transmission{}
	transmission.Name, _ = vals.str("name")
	if t := n.find("type"); t != nil {
		transmission.Type = t.Text
	}
	for _, j := range vals.elems("joint") {
		transmission.Joints = append(transmission.Joints, j.(*TransmissionJoint))
	}
	for _, a := range vals.elems("actuator") {
		transmission.Actuators = append(transmission.Actuators, a.(*Actuator))
	}
	return transmission, nil
}
