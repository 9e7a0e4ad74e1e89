package queryfile

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/beevik/etree"
)

// decodeXML parses the XML descriptor form. Attribute and text values are
// strings unless a type attribute converts them; parameter values, option
// values, and range bounds additionally auto-detect numbers and booleans so
// guards and ranges see typed values.
func decodeXML(data []byte) (*Document, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDescriptor, err)
	}

	root := doc.SelectElement("query")
	if root == nil {
		return nil, fmt.Errorf("%w: missing query element", ErrDescriptor)
	}

	result := &Document{
		Name:        attrValue(root, "name"),
		Description: attrValue(root, "description"),
	}

	for _, child := range root.ChildElements() {
		switch child.Tag {
		case "param":
			value, err := typedText(child)
			if err != nil {
				return nil, err
			}
			if result.Parameters == nil {
				result.Parameters = make(map[string]any)
			}
			result.Parameters[attrValue(child, "name")] = value
		case "clause":
			clause, err := clauseFromXML(child)
			if err != nil {
				return nil, err
			}
			result.Query = clause
		default:
			return nil, fmt.Errorf("%w: unexpected element <%s>", ErrDescriptor, child.Tag)
		}
	}

	return result, nil
}

func clauseFromXML(elem *etree.Element) (*ClauseDef, error) {
	clause := &ClauseDef{
		Operator: attrValue(elem, "operator"),
		If:       attrValue(elem, "if"),
	}

	for _, child := range elem.ChildElements() {
		switch child.Tag {
		case "option":
			value, err := typedText(child)
			if err != nil {
				return nil, err
			}
			if clause.Options == nil {
				clause.Options = make(map[string]any)
			}
			clause.Options[attrValue(child, "name")] = value
		case "field":
			field, err := fieldFromXML(child)
			if err != nil {
				return nil, err
			}
			clause.Fields = append(clause.Fields, field)
		case "clause":
			nested, err := clauseFromXML(child)
			if err != nil {
				return nil, err
			}
			clause.Fields = append(clause.Fields, &FieldDef{Clause: nested})
		default:
			return nil, fmt.Errorf("%w: unexpected element <%s>", ErrDescriptor, child.Tag)
		}
	}

	return clause, nil
}

func fieldFromXML(elem *etree.Element) (*FieldDef, error) {
	field := &FieldDef{
		Name: attrValue(elem, "name"),
		If:   attrValue(elem, "if"),
	}

	for _, child := range elem.ChildElements() {
		switch child.Tag {
		case "range":
			r, err := rangeFromXML(child)
			if err != nil {
				return nil, err
			}
			field.Range = r
		case "clause":
			nested, err := clauseFromXML(child)
			if err != nil {
				return nil, err
			}
			field.Clause = nested
		default:
			return nil, fmt.Errorf("%w: unexpected element <%s>", ErrDescriptor, child.Tag)
		}
	}

	if field.Range == nil && field.Clause == nil {
		value, err := scalarText(strings.TrimSpace(elem.Text()), attrValue(elem, "type"), false)
		if err != nil {
			return nil, err
		}
		field.Value = value
	}

	return field, nil
}

func rangeFromXML(elem *etree.Element) (*RangeDef, error) {
	r := &RangeDef{
		LowerExclusive: attrValue(elem, "lower_exclusive") == "true",
		UpperExclusive: attrValue(elem, "upper_exclusive") == "true",
	}
	hint := attrValue(elem, "type")

	if raw, ok := lookupAttr(elem, "lower"); ok {
		value, err := scalarText(raw, hint, true)
		if err != nil {
			return nil, err
		}
		r.Lower = value
	}
	if raw, ok := lookupAttr(elem, "upper"); ok {
		value, err := scalarText(raw, hint, true)
		if err != nil {
			return nil, err
		}
		r.Upper = value
	}

	return r, nil
}

func attrValue(elem *etree.Element, key string) string {
	value, _ := lookupAttr(elem, key)
	return value
}

func lookupAttr(elem *etree.Element, key string) (string, bool) {
	for _, attr := range elem.Attr {
		if attr.Key == key {
			return attr.Value, true
		}
	}
	return "", false
}

func typedText(elem *etree.Element) (any, error) {
	return scalarText(strings.TrimSpace(elem.Text()), attrValue(elem, "type"), true)
}

// scalarText converts XML text with an optional type attribute. With no
// type and autoDetect set, integer, float, and boolean spellings convert
// to their native types; everything else stays a string.
func scalarText(text, hint string, autoDetect bool) (any, error) {
	switch hint {
	case "":
		if !autoDetect {
			return text, nil
		}
		if n, err := strconv.ParseInt(text, 10, 64); err == nil {
			return n, nil
		}
		if f, err := strconv.ParseFloat(text, 64); err == nil {
			return f, nil
		}
		if b, err := strconv.ParseBool(text); err == nil {
			return b, nil
		}
		return text, nil
	case "string":
		return text, nil
	case "int":
		n, err := strconv.ParseInt(text, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %q is not an integer", ErrDescriptor, text)
		}
		return n, nil
	case "float":
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %q is not a float", ErrDescriptor, text)
		}
		return f, nil
	case "time":
		t, err := time.Parse(time.RFC3339, text)
		if err != nil {
			return nil, fmt.Errorf("%w: %q is not an RFC 3339 timestamp", ErrDescriptor, text)
		}
		return t, nil
	default:
		return nil, fmt.Errorf("%w: unknown type attribute %q", ErrDescriptor, hint)
	}
}
