package manifest

import (
	"bytes"
	"encoding/xml"
	"fmt"
)

const xmlDeclaration = `<?xml version="1.0" encoding="utf-8"?>` + "\n"

// Serialize writes v as an indented UTF-8 XML document. The output only depends on v.
func Serialize(v any) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(xmlDeclaration)

	enc := xml.NewEncoder(&buf)
	enc.Indent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, fmt.Errorf("failed to serialize %T: %w", v, err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("failed to serialize %T: %w", v, err)
	}
	buf.WriteByte('\n')

	return buf.Bytes(), nil
}

// MarshalXML writes the SPObject wrapper and the payload element matching the kind.
func (o Object) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	if o.Payload == nil {
		return fmt.Errorf("object %s: missing payload", o.ID)
	}
	if o.Payload.objectKind() != o.Kind {
		return fmt.Errorf("object %s: %s payload in %s object", o.ID, o.Payload.objectKind(), o.Kind)
	}

	start.Attr = appendAttrs(start.Attr,
		"Id", o.ID,
		"ObjectType", string(o.Kind),
		"ParentId", o.ParentID,
		"ParentWebId", o.ParentWebID,
		"ParentWebUrl", o.ParentWebURL,
		"Url", o.URL,
	)

	if err := e.EncodeToken(start); err != nil {
		return err
	}
	if err := e.EncodeElement(o.Payload, xml.StartElement{Name: xml.Name{Local: o.Kind.element()}}); err != nil {
		return err
	}
	return e.EncodeToken(start.End())
}

// appendAttrs appends name/value pairs, skipping empty values.
func appendAttrs(attrs []xml.Attr, kv ...string) []xml.Attr {
	for i := 0; i+1 < len(kv); i += 2 {
		if kv[i+1] == "" {
			continue
		}
		attrs = append(attrs, xml.Attr{Name: xml.Name{Local: kv[i]}, Value: kv[i+1]})
	}
	return attrs
}
