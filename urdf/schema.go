package urdf

import (
	"encoding/xml"
	"strconv"
	"strings"
)

// xmlNode is a generic XML tree node. Descriptor types are populated from
// nodes by parseSchema rather than by per-type unmarshaling, so that every
// entity is driven by the same declarative attribute/element tables.
type xmlNode struct {
	XMLName  xml.Name
	Attrs    []xml.Attr `xml:",any,attr"`
	Text     string     `xml:",chardata"`
	Children []xmlNode  `xml:",any"`
}

func (n *xmlNode) attr(name string) (string, bool) {
	for _, a := range n.Attrs {
		if a.Name.Local == name {
			return a.Value, true
		}
	}
	return "", false
}

// find returns the first child with the given tag, or nil.
func (n *xmlNode) find(tag string) *xmlNode {
	for i := range n.Children {
		if n.Children[i].XMLName.Local == tag {
			return &n.Children[i]
		}
	}
	return nil
}

func (n *xmlNode) findAll(tag string) []*xmlNode {
	var out []*xmlNode
	for i := range n.Children {
		if n.Children[i].XMLName.Local == tag {
			out = append(out, &n.Children[i])
		}
	}
	return out
}

type attrKind int

const (
	attrString attrKind = iota
	attrFloat
	attrFloats // whitespace-separated float list
)

// attrSpec describes one expected XML attribute of a descriptor type.
type attrSpec struct {
	name     string
	kind     attrKind
	required bool
}

// elemParser turns a child node into a parsed descriptor value. dir is the
// directory of the source document, used to resolve relative mesh filenames.
type elemParser func(n *xmlNode, dir string) (interface{}, error)

// elemSpec describes one expected child element of a descriptor type.
type elemSpec struct {
	tag      string
	required bool
	multiple bool
	parse    elemParser
}

// schema is the declarative parse table for one descriptor type.
type schema struct {
	typeName string
	attrs    []attrSpec
	elems    []elemSpec
}

// parsed maps attribute and element names to their parsed values. Optional
// attributes and elements that were absent have no entry; the target
// constructor applies its own default.
type parsed map[string]interface{}

func (p parsed) str(name string) (string, bool) {
	v, ok := p[name]
	if !ok {
		return "", false
	}
	return v.(string), true
}

func (p parsed) float(name string) (float64, bool) {
	v, ok := p[name]
	if !ok {
		return 0, false
	}
	return v.(float64), true
}

func (p parsed) floats(name string) ([]float64, bool) {
	v, ok := p[name]
	if !ok {
		return nil, false
	}
	return v.([]float64), true
}

func (p parsed) elem(name string) (interface{}, bool) {
	v, ok := p[name]
	return v, ok
}

func (p parsed) elems(name string) []interface{} {
	v, ok := p[name]
	if !ok {
		return nil
	}
	return v.([]interface{})
}

// parseSchema populates a value map from a node according to the schema.
// Required attributes and elements that are absent fail with an error
// wrapping ErrSchema; each matched child node is parsed recursively by the
// element's own parser.
func (s *schema) parseSchema(n *xmlNode, dir string) (parsed, error) {
	out := parsed{}
	for _, a := range s.attrs {
		raw, ok := n.attr(a.name)
		if !ok {
			if a.required {
				return nil, newMissingAttributeError(a.name, s.typeName)
			}
			continue
		}
		v, err := coerceAttr(a, s.typeName, raw)
		if err != nil {
			return nil, err
		}
		out[a.name] = v
	}
	for _, e := range s.elems {
		if !e.multiple {
			child := n.find(e.tag)
			if child == nil {
				if e.required {
					return nil, newMissingElementError(e.tag, s.typeName)
				}
				continue
			}
			v, err := e.parse(child, dir)
			if err != nil {
				return nil, err
			}
			out[e.tag] = v
			continue
		}
		children := n.findAll(e.tag)
		if len(children) == 0 && e.required {
			return nil, newMissingElementError(e.tag, s.typeName)
		}
		vs := make([]interface{}, 0, len(children))
		for _, child := range children {
			v, err := e.parse(child, dir)
			if err != nil {
				return nil, err
			}
			vs = append(vs, v)
		}
		out[e.tag] = vs
	}
	return out, nil
}

func coerceAttr(a attrSpec, typeName, raw string) (interface{}, error) {
	switch a.kind {
	case attrFloat:
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, newBadValueError(a.name, typeName, raw)
		}
		return f, nil
	case attrFloats:
		fields := strings.Fields(raw)
		fs := make([]float64, 0, len(fields))
		for _, field := range fields {
			f, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, newBadValueError(a.name, typeName, raw)
			}
			fs = append(fs, f)
		}
		return fs, nil
	default:
		return raw, nil
	}
}
