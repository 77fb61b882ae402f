package document

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"

	"github.com/paulmach/osm"
)

// MalformedDocumentError reports raw input that is not an OSM XML document
type MalformedDocumentError struct {
	Err error
}

func (e *MalformedDocumentError) Error() string {
	return fmt.Sprintf("malformed OSM document: %v", e.Err)
}

func (e *MalformedDocumentError) Unwrap() error {
	return e.Err
}

var errNotOSM = errors.New("root element is not <osm>")

// Parse decodes raw OSM XML (as served by the API 0.6 map call) into a
// Document. Tag keys and values are passed through untouched.
func Parse(raw []byte) (*Document, error) {
	decoder := xml.NewDecoder(bytes.NewReader(raw))

	start, err := rootElement(decoder)
	if err != nil {
		return nil, &MalformedDocumentError{Err: err}
	}
	if start.Name.Local != "osm" {
		return nil, &MalformedDocumentError{Err: fmt.Errorf("%w: got <%s>", errNotOSM, start.Name.Local)}
	}

	var o osm.OSM
	if err := decoder.DecodeElement(&o, &start); err != nil {
		return nil, &MalformedDocumentError{Err: fmt.Errorf("XML parse error: %w", err)}
	}

	return FromOSM(&o), nil
}

// rootElement skips the prolog and returns the first start element
func rootElement(decoder *xml.Decoder) (xml.StartElement, error) {
	for {
		token, err := decoder.Token()
		if err == io.EOF {
			return xml.StartElement{}, errors.New("empty document")
		}
		if err != nil {
			return xml.StartElement{}, fmt.Errorf("XML parse error: %w", err)
		}
		if se, ok := token.(xml.StartElement); ok {
			return se, nil
		}
	}
}
