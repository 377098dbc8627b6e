// Package urdf reads URDF mechanism descriptions into a validated kinematic
// model: links, joints, transmissions and materials, cross-referenced by
// name, with a derived elementary-transform chain and per-joint forward
// kinematics.
package urdf

import (
	"encoding/xml"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/edaniels/golog"
	"github.com/pkg/errors"
)

// rootTag is the expected document root element.
const rootTag = "robot"

// topLevelTags are the root children interpreted by the parser; anything
// else is preserved verbatim as extension content.
var topLevelTags = map[string]bool{
	"link":         true,
	"joint":        true,
	"transmission": true,
	"material":     true,
}

// ParseFile reads a URDF file and parses it into a Model. Relative mesh
// filenames are resolved against the file's directory.
func ParseFile(filename string, logger golog.Logger) (*Model, error) {
	//nolint:gosec
	xmlData, err := os.ReadFile(filename)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read URDF file")
	}
	return parseModel(xmlData, filepath.Dir(filename), logger)
}

// Parse reads URDF data from a stream. dir supplies the base directory for
// resolving relative mesh filenames; it may be empty.
func Parse(r io.Reader, dir string, logger golog.Logger) (*Model, error) {
	xmlData, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read URDF data")
	}
	return parseModel(xmlData, dir, logger)
}

// ParseString parses in-memory URDF text. filename is the path the text is
// associated with; its directory resolves relative mesh filenames.
func ParseString(text, filename string, logger golog.Logger) (*Model, error) {
	dir := ""
	if filename != "" {
		dir = filepath.Dir(filename)
	}
	return parseModel([]byte(text), dir, logger)
}

var modelSchema = schema{
	typeName: "Model",
	attrs:    []attrSpec{{name: "name", kind: attrString, required: true}},
	elems: []elemSpec{
		{tag: "link", required: true, multiple: true, parse: parseLink},
		{tag: "joint", multiple: true, parse: parseJoint},
		{tag: "transmission", multiple: true, parse: parseTransmission},
		{tag: "material", multiple: true, parse: parseMaterial},
	},
}

func parseModel(xmlData []byte, dir string, logger golog.Logger) (*Model, error) {
	// empty data probably means that the read URDF has no actionable information
	if len(strings.TrimSpace(string(xmlData))) == 0 {
		return nil, ErrNoModelInformation
	}

	root := &xmlNode{}
	if err := xml.Unmarshal(xmlData, root); err != nil {
		return nil, errors.Wrap(err, "failed to parse URDF data")
	}
	if root.XMLName.Local != rootTag {
		return nil, errors.Errorf("expected a %q document root, got %q", rootTag, root.XMLName.Local)
	}

	vals, err := modelSchema.parseSchema(root, dir)
	if err != nil {
		return nil, err
	}
	name, _ := vals.str("name")

	var links []*Link
	for _, v := range vals.elems("link") {
		links = append(links, v.(*Link))
	}
	var joints []*Joint
	for _, v := range vals.elems("joint") {
		joints = append(joints, v.(*Joint))
	}
	var transmissions []*Transmission
	for _, v := range vals.elems("transmission") {
		transmissions = append(transmissions, v.(*Transmission))
	}
	var materials []*Material
	for _, v := range vals.elems("material") {
		materials = append(materials, v.(*Material))
	}

	model, err := NewModel(name, links, joints, transmissions, materials, logger)
	if err != nil {
		return nil, err
	}
	model.extraXML, err = extensionContent(root, logger)
	if err != nil {
		return nil, err
	}
	return model, nil
}

// extensionContent re-serializes the unrecognized top-level children so they
// travel with the model without being interpreted.
func extensionContent(root *xmlNode, logger golog.Logger) ([]byte, error) {
	extra := xmlNode{XMLName: xml.Name{Local: "extra"}}
	for _, child := range root.Children {
		if topLevelTags[child.XMLName.Local] {
			continue
		}
		if logger != nil {
			logger.Debugw("preserving unrecognized top-level element", "tag", child.XMLName.Local)
		}
		extra.Children = append(extra.Children, child)
	}
	if len(extra.Children) == 0 {
		return nil, nil
	}
	out, err := xml.Marshal(extra)
	if err != nil {
		return nil, errors.Wrap(err, "failed to preserve extension content")
	}
	return out, nil
}
