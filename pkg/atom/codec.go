package atom

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"

	"github.com/magiconair/properties"
)

// ErrUnexpectedDocument is returned when a payload is well-formed XML but is
// not an atom entry.
var ErrUnexpectedDocument = errors.New("unexpected document")

// Element names are written with explicit prefixes so the receiving service
// sees the same atom/apps prefixes it documents.
var (
	entryStart = xml.StartElement{
		Name: xml.Name{Local: "atom:entry"},
		Attr: []xml.Attr{
			{Name: xml.Name{Local: "xmlns:atom"}, Value: Namespace},
			{Name: xml.Name{Local: "xmlns:apps"}, Value: AppsNamespace},
		},
	}
	idStart = xml.StartElement{Name: xml.Name{Local: "atom:id"}}
)

// Marshal serializes e as an atom entry. Properties are written in order as
// self-closing apps:property elements.
func Marshal(e Entry) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(xml.Header)

	enc := xml.NewEncoder(&buf)
	if err := writeEntry(enc, e); err != nil {
		return nil, fmt.Errorf("failed to encode entry: %w", err)
	}
	if err := enc.Flush(); err != nil {
		return nil, fmt.Errorf("failed to encode entry: %w", err)
	}

	// xml.Encoder always writes an explicit end tag; collapse the empty
	// property elements into the self-closing form.
	return bytes.ReplaceAll(buf.Bytes(), []byte("></apps:property>"), []byte("/>")), nil
}

func writeEntry(enc *xml.Encoder, e Entry) error {
	if err := enc.EncodeToken(entryStart); err != nil {
		return err
	}

	if e.ID != "" {
		if err := enc.EncodeToken(idStart); err != nil {
			return err
		}
		if err := enc.EncodeToken(xml.CharData(e.ID)); err != nil {
			return err
		}
		if err := enc.EncodeToken(idStart.End()); err != nil {
			return err
		}
	}

	for _, p := range e.Properties {
		start := xml.StartElement{
			Name: xml.Name{Local: "apps:property"},
			Attr: []xml.Attr{
				{Name: xml.Name{Local: "name"}, Value: p.Name},
				{Name: xml.Name{Local: "value"}, Value: p.Value},
			},
		}
		if err := enc.EncodeToken(start); err != nil {
			return err
		}
		if err := enc.EncodeToken(start.End()); err != nil {
			return err
		}
	}

	return enc.EncodeToken(entryStart.End())
}

// Unmarshal parses an atom entry. The id and property elements are matched
// by namespace, not by prefix. Unknown elements are skipped. An entry without
// properties yields an empty, non-nil Properties slice.
func Unmarshal(data []byte) (Entry, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))

	root, err := nextStart(dec)
	if err != nil {
		return Entry{}, fmt.Errorf("failed to parse entry: %w", err)
	}
	if root.Name.Space != Namespace || root.Name.Local != "entry" {
		return Entry{}, fmt.Errorf("%w: root element %q in namespace %q",
			ErrUnexpectedDocument, root.Name.Local, root.Name.Space)
	}

	e := Entry{Properties: []Property{}}
	for {
		tok, err := dec.Token()
		if err != nil {
			if errors.Is(err, io.EOF) {
				err = io.ErrUnexpectedEOF
			}
			return Entry{}, fmt.Errorf("failed to parse entry: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch {
			case t.Name.Space == Namespace && t.Name.Local == "id":
				var id string
				if err := dec.DecodeElement(&id, &t); err != nil {
					return Entry{}, fmt.Errorf("failed to parse entry id: %w", err)
				}
				e.ID = id
			case t.Name.Space == AppsNamespace && t.Name.Local == "property":
				e.Properties = append(e.Properties, propertyFromAttrs(t.Attr))
				if err := dec.Skip(); err != nil {
					return Entry{}, fmt.Errorf("failed to parse property: %w", err)
				}
			default:
				if err := dec.Skip(); err != nil {
					return Entry{}, fmt.Errorf("failed to parse entry: %w", err)
				}
			}
		case xml.EndElement:
			// Children are consumed whole above, so this closes the root.
			return e, nil
		}
	}
}

func nextStart(dec *xml.Decoder) (xml.StartElement, error) {
	for {
		tok, err := dec.Token()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return xml.StartElement{}, fmt.Errorf("%w: empty document", ErrUnexpectedDocument)
			}
			return xml.StartElement{}, err
		}
		if start, ok := tok.(xml.StartElement); ok {
			return start, nil
		}
	}
}

func propertyFromAttrs(attrs []xml.Attr) Property {
	var p Property
	for _, a := range attrs {
		if a.Name.Space != "" {
			continue
		}
		switch a.Name.Local {
		case "name":
			p.Name = a.Value
		case "value":
			p.Value = a.Value
		}
	}
	return p
}

// ParseProperties parses a key=value body, one pair per line, as returned by
// the login endpoint. For duplicate keys the last value wins.
func ParseProperties(data []byte) (map[string]string, error) {
	l := &properties.Loader{
		Encoding:         properties.UTF8,
		DisableExpansion: true,
	}
	p, err := l.LoadBytes(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse properties: %w", err)
	}
	return p.Map(), nil
}
