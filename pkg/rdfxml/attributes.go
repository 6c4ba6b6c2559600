package rdfxml

import (
	"fmt"
	"strings"

	"github.com/aleksaelezovic/rdfxml/pkg/rdf"
)

// attrKind classifies an attribute of a node or property element
type attrKind uint8

const (
	attrAbout attrKind = iota
	attrID
	attrNodeID
	attrResource
	attrParseType
	attrDatatype
	numAttrKinds
)

func (k attrKind) String() string {
	switch k {
	case attrAbout:
		return "rdf:about"
	case attrID:
		return "rdf:ID"
	case attrNodeID:
		return "rdf:nodeID"
	case attrResource:
		return "rdf:resource"
	case attrParseType:
		return "rdf:parseType"
	case attrDatatype:
		return "rdf:datatype"
	default:
		return "property attribute"
	}
}

var syntaxAttrs = map[string]attrKind{
	"about":     attrAbout,
	"ID":        attrID,
	"nodeID":    attrNodeID,
	"resource":  attrResource,
	"parseType": attrParseType,
	"datatype":  attrDatatype,
}

// Unqualified forms still accepted for old documents
var legacyAttrs = map[string]attrKind{
	"about":     attrAbout,
	"ID":        attrID,
	"resource":  attrResource,
	"parseType": attrParseType,
}

var (
	forbiddenAttrNames = map[string]bool{
		"RDF": true, "Description": true, "li": true,
		"aboutEach": true, "aboutEachPrefix": true, "bagID": true,
	}
	forbiddenNodeNames = map[string]bool{
		"RDF": true, "ID": true, "about": true, "parseType": true, "resource": true,
		"nodeID": true, "datatype": true, "li": true,
		"aboutEach": true, "aboutEachPrefix": true, "bagID": true,
	}
	forbiddenPropertyNames = map[string]bool{
		"RDF": true, "ID": true, "about": true, "parseType": true, "resource": true,
		"nodeID": true, "datatype": true, "Description": true,
		"aboutEach": true, "aboutEachPrefix": true, "bagID": true,
	}
)

// propertyAttr is an attribute that stands for a triple
type propertyAttr struct {
	iri   string
	value string
}

type attributeSet struct {
	values  [numAttrKinds]string
	present [numAttrKinds]bool
	props   []propertyAttr
}

// scanAttributes applies xml:lang and xml:base to f and sorts the other
// attributes into syntax attributes and property attributes, keeping
// source order for the latter
func (p *Parser) scanAttributes(f *frame, ns Namespaces, attrs []Attribute) (attributeSet, error) {
	var set attributeSet
	if err := p.applyXMLAttrs(f, attrs); err != nil {
		return set, err
	}

	for _, a := range attrs {
		if isNamespaceDecl(a.Name) || a.Name.Prefix == "xml" {
			continue
		}
		if a.Name.Prefix == "" && strings.HasPrefix(strings.ToLower(a.Name.Local), "xml") {
			continue
		}

		iri, err := ExpandAttrName(a.Name, ns)
		if err != nil {
			return set, err
		}

		kind, isSyntax := numAttrKinds, false
		if local, ok := strings.CutPrefix(iri, rdf.RDFNamespace); ok && a.Name.Prefix != "" {
			if forbiddenAttrNames[local] {
				return set, fmt.Errorf("%w: rdf:%s cannot be used as an attribute", ErrGrammar, local)
			}
			kind, isSyntax = syntaxAttrs[local]
		} else if a.Name.Prefix == "" {
			if a.Name.Local == "type" {
				iri = rdf.RDFType
			} else {
				kind, isSyntax = legacyAttrs[a.Name.Local]
			}
			if isSyntax {
				p.logger.Debug("rdfxml unqualified syntax attribute", "attribute", a.Name.Local)
			}
		}

		if !isSyntax {
			set.props = append(set.props, propertyAttr{iri: iri, value: a.Value})
			continue
		}
		if set.present[kind] {
			return set, fmt.Errorf("%w: %s given twice", ErrGrammar, kind)
		}
		set.values[kind] = a.Value
		set.present[kind] = true
	}
	return set, nil
}
