// Package xmlfile streams start/end tag events from a legacy project
// document to a push handler.
//
// Legacy project files use only elements and attributes: no namespaces, no
// entities beyond the predefined five, no meaningful character data. The
// event model here is deliberately that narrow; handlers receive the local
// tag name and the attribute list and nothing else.
package xmlfile

import (
	"encoding/xml"
	"io"

	"golang.org/x/net/html/charset"
)

// Attr is a single name/value attribute pair, in document order.
type Attr struct {
	Name  string
	Value string
}

// Handler receives tag events. Handlers never abort the stream; they record
// their own failure state and no-op until the document ends, so the element
// stack always unwinds to completion.
type Handler interface {
	StartTag(name string, attrs []Attr)
	EndTag(name string)
}

// Parse streams r through h. The returned error is nil unless the document
// itself is not well-formed XML (or cannot be read).
//
// Documents are decoded according to their declared encoding; very old
// writers saved in the platform's locale encoding rather than UTF-8.
func Parse(r io.Reader, h Handler) error {
	d := xml.NewDecoder(r)
	d.CharsetReader = charset.NewReaderLabel

	for {
		tok, err := d.Token()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			attrs := make([]Attr, 0, len(t.Attr))
			for _, a := range t.Attr {
				attrs = append(attrs, Attr{Name: a.Name.Local, Value: a.Value})
			}
			h.StartTag(t.Name.Local, attrs)

		case xml.EndElement:
			h.EndTag(t.Name.Local)
		}
	}
}
