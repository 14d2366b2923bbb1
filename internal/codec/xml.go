package codec

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/quotehub/quotehub-backend/internal/domain"
)

// encodeXML writes one root element named after the entity collection
// and one child element per row named after the entity singular. Scalar
// fields become text nodes (CDATA for free-text fields); nested
// collections become repeated child elements.
func encodeXML(schema domain.Schema, rows []domain.Row) (string, error) {
	var sb strings.Builder
	sb.WriteString(xml.Header)
	sb.WriteString("<" + string(schema.Entity) + ">\n")

	for _, row := range rows {
		sb.WriteString("  <" + schema.Singular + ">\n")
		// Schema order first, then unknown keys in row order is not
		// reproducible; emit known columns only plus sorted extras via
		// the shared header helper.
		for _, col := range csvHeader(schema, []domain.Row{row}) {
			if !row.Has(col) {
				continue
			}
			f, _ := schema.Field(col)
			writeXMLField(&sb, "    ", col, row[col], f)
		}
		sb.WriteString("  </" + schema.Singular + ">\n")
	}

	sb.WriteString("</" + string(schema.Entity) + ">\n")
	return sb.String(), nil
}

func writeXMLField(sb *strings.Builder, indent, name string, value any, f domain.Field) {
	switch t := value.(type) {
	case []any:
		// Nested collection: repeated child elements named by the
		// singular of the field name.
		child := singularName(name)
		sb.WriteString(indent + "<" + name + ">\n")
		for _, item := range t {
			writeXMLField(sb, indent+"  ", child, item, domain.Field{})
		}
		sb.WriteString(indent + "</" + name + ">\n")
	case map[string]any:
		sb.WriteString(indent + "<" + name + ">\n")
		for _, k := range sortedKeys(t) {
			writeXMLField(sb, indent+"  ", k, t[k], domain.Field{})
		}
		sb.WriteString(indent + "</" + name + ">\n")
	default:
		text := (domain.Row{"v": value}).String("v")
		if f.FreeText {
			sb.WriteString(indent + "<" + name + "><![CDATA[" + escapeCDATA(text) + "]]></" + name + ">\n")
			return
		}
		sb.WriteString(indent + "<" + name + ">" + escapeXML(text) + "</" + name + ">\n")
	}
}

var xmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&apos;",
)

func escapeXML(s string) string { return xmlEscaper.Replace(s) }

// escapeCDATA splits any literal "]]>" so it cannot terminate the section.
func escapeCDATA(s string) string {
	return strings.ReplaceAll(s, "]]>", "]]]]><![CDATA[>")
}

func singularName(plural string) string {
	if strings.HasSuffix(plural, "s") && !strings.HasSuffix(plural, "ss") {
		return strings.TrimSuffix(plural, "s")
	}
	return plural + "_item"
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// xmlNode is the generic parse result of one element: either scalar
// text or a list of named children.
type xmlNode struct {
	name     string
	text     string
	children []xmlNode
}

func decodeXML(schema domain.Schema, content string) ([]domain.Row, error) {
	d := xml.NewDecoder(strings.NewReader(content))

	root, err := nextElement(d)
	if err != nil {
		return nil, fmt.Errorf("decode xml: %w", err)
	}
	if root == nil {
		return nil, nil
	}

	rootNode, err := parseElement(d, *root)
	if err != nil {
		return nil, fmt.Errorf("decode xml: %w", err)
	}

	rows := make([]domain.Row, 0, len(rootNode.children))
	for _, rowNode := range rootNode.children {
		row := make(domain.Row, len(rowNode.children))
		for _, fieldNode := range rowNode.children {
			f, known := schema.Field(fieldNode.name)
			value := nodeValue(fieldNode)
			if !known {
				if value != nil {
					row[fieldNode.name] = value
				}
				continue
			}
			if value == nil && f.Kind == domain.KindBool {
				value = ""
			}
			if coerced, ok := coerceValue(f, value); ok {
				row[fieldNode.name] = coerced
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// nodeValue converts a parsed element into a decoded value: scalar
// text, a repeated collection, or an object. Children with distinct
// names that differ from the element's singular form an object;
// anything else is a collection.
func nodeValue(n xmlNode) any {
	if len(n.children) == 0 {
		text := strings.TrimSpace(n.text)
		if text == "" {
			return nil
		}
		return text
	}

	repeated := singularName(n.name)
	object := true
	seen := map[string]bool{}
	for _, child := range n.children {
		if seen[child.name] || child.name == repeated {
			object = false
			break
		}
		seen[child.name] = true
	}
	if object {
		obj := make(map[string]any, len(n.children))
		for _, child := range n.children {
			obj[child.name] = nodeValue(child)
		}
		return obj
	}

	list := make([]any, 0, len(n.children))
	for _, child := range n.children {
		if len(child.children) == 0 {
			list = append(list, strings.TrimSpace(child.text))
			continue
		}
		list = append(list, nodeValue(child))
	}
	return list
}

func nextElement(d *xml.Decoder) (*xml.StartElement, error) {
	for {
		tok, err := d.Token()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil, nil
			}
			return nil, err
		}
		if start, ok := tok.(xml.StartElement); ok {
			return &start, nil
		}
	}
}

func parseElement(d *xml.Decoder, start xml.StartElement) (xmlNode, error) {
	node := xmlNode{name: start.Name.Local}
	var text strings.Builder

	for {
		tok, err := d.Token()
		if err != nil {
			return node, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			child, err := parseElement(d, t)
			if err != nil {
				return node, err
			}
			node.children = append(node.children, child)
		case xml.CharData:
			text.Write(t)
		case xml.EndElement:
			node.text = text.String()
			return node, nil
		}
	}
}
