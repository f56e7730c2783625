package record

import (
	"bufio"
	"bytes"
	"encoding/json"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/raphi011/recents/internal/entry"
)

const (
	// CollectionName is the name attribute of the collection element that
	// holds the recent-items value.
	CollectionName = "CodeContainers.Offline"

	collectionElement = "collection"
	valueElement      = "value"
	nameAttr          = "name"
)

var (
	// ErrNodeNotFound is returned when a document has no designated value element.
	ErrNodeNotFound = errors.New("recent items node not found")

	// ErrMalformed is returned when a document is not well-formed XML up to
	// the designated element.
	ErrMalformed = errors.New("malformed settings document")
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// node is the location of the designated value element.
// Offsets are relative to the start of the scanned input.
type node struct {
	tagStart  int64 // '<' of the value start tag
	textStart int64 // first byte after the start tag
	textEnd   int64 // '<' of the end tag, or textStart for <value/>
	name      string
	text      strings.Builder
}

// Decode reads the recent-items collection from a settings document.
func Decode(doc []byte) ([]entry.Entry, error) {
	return DecodeReader(bytes.NewReader(doc))
}

// DecodeReader reads the recent-items collection from r, stopping as soon as
// the designated element has been read.
func DecodeReader(r io.Reader) ([]entry.Entry, error) {
	br := bufio.NewReader(r)
	if prefix, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(prefix, utf8BOM) {
		_, _ = br.Discard(len(utf8BOM))
	}

	n, err := scan(br, true)
	if err != nil {
		if isMalformed(err) {
			return []entry.Entry{}, nil
		}
		return nil, err
	}

	return parseEntries(n.text.String()), nil
}

// Marshal serializes entries as the JSON array stored in the value element.
func Marshal(entries []entry.Entry) ([]byte, error) {
	if entries == nil {
		entries = []entry.Entry{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(entries); err != nil {
		return nil, fmt.Errorf("marshal entries: %w", err)
	}

	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// Encode writes entries into doc and returns the updated document.
func Encode(entries []entry.Entry, doc []byte) ([]byte, error) {
	payload, err := Marshal(entries)
	if err != nil {
		return nil, err
	}
	return Replace(doc, payload)
}

// Replace sets the text value of the designated element to payload.
// Bytes outside the element's content are copied unchanged; a self-closing
// element is expanded in place.
func Replace(doc, payload []byte) ([]byte, error) {
	base := 0
	if bytes.HasPrefix(doc, utf8BOM) {
		base = len(utf8BOM)
	}

	n, err := scan(bytes.NewReader(doc[base:]), false)
	if err != nil {
		if errors.Is(err, ErrNodeNotFound) {
			return nil, fmt.Errorf("collection %q: %w", CollectionName, err)
		}
		return nil, fmt.Errorf("parse settings document: %w", err)
	}

	tagStart := base + int(n.tagStart)
	textStart := base + int(n.textStart)
	textEnd := base + int(n.textEnd)
	text := escapeText(payload)

	out := make([]byte, 0, len(doc)-(textEnd-textStart)+len(text)+len(n.name)+3)

	if textStart == textEnd && bytes.HasSuffix(doc[:textStart], []byte("/>")) {
		head := bytes.TrimRight(doc[tagStart:textStart-2], " \t\r\n")
		out = append(out, doc[:tagStart]...)
		out = append(out, head...)
		out = append(out, '>')
		out = append(out, text...)
		out = append(out, "</"+n.name+">"...)
		out = append(out, doc[textStart:]...)
		return out, nil
	}

	out = append(out, doc[:textStart]...)
	out = append(out, text...)
	out = append(out, doc[textEnd:]...)
	return out, nil
}

// scan walks r until it reaches the value element that is a direct child of
// the designated collection. When collect is set the element's character
// data is accumulated into the returned node.
func scan(r io.Reader, collect bool) (*node, error) {
	tr := &trackingReader{r: r}
	n, err := scanTokens(xml.NewDecoder(tr), collect)
	if err == nil || errors.Is(err, ErrNodeNotFound) {
		return n, err
	}
	if tr.err != nil {
		return nil, tr.err
	}
	return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
}

// trackingReader remembers the first non-EOF error of r so that decoder
// errors caused by the reader can be told apart from document errors.
type trackingReader struct {
	r   io.Reader
	err error
}

func (t *trackingReader) Read(p []byte) (int, error) {
	n, err := t.r.Read(p)
	if err != nil && err != io.EOF && t.err == nil {
		t.err = err
	}
	return n, err
}

func scanTokens(d *xml.Decoder, collect bool) (*node, error) {

	depth := 0
	collectionDepth := -1

	for {
		off := d.InputOffset()
		tok, err := d.RawToken()
		if err == io.EOF {
			return nil, ErrNodeNotFound
		}
		if err != nil {
			return nil, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			depth++
			if collectionDepth < 0 {
				if t.Name.Local == collectionElement && attr(t, nameAttr) == CollectionName {
					collectionDepth = depth
				}
				continue
			}
			if depth == collectionDepth+1 && t.Name.Local == valueElement {
				n := &node{
					tagStart:  off,
					textStart: d.InputOffset(),
					name:      qualifiedName(t.Name),
				}
				if err := readValue(d, n, collect); err != nil {
					return nil, err
				}
				return n, nil
			}
		case xml.EndElement:
			if depth == collectionDepth {
				collectionDepth = -1
			}
			depth--
		}
	}
}

// readValue consumes tokens up to the end tag of the value element.
func readValue(d *xml.Decoder, n *node, collect bool) error {
	depth := 0
	for {
		off := d.InputOffset()
		tok, err := d.RawToken()
		if err == io.EOF {
			return io.ErrUnexpectedEOF
		}
		if err != nil {
			return err
		}

		switch t := tok.(type) {
		case xml.CharData:
			if collect {
				n.text.Write(t)
			}
		case xml.StartElement:
			depth++
		case xml.EndElement:
			if depth == 0 {
				n.textEnd = off
				return nil
			}
			depth--
		}
	}
}

func parseEntries(text string) []entry.Entry {
	text = strings.TrimSpace(text)
	if text == "" {
		return []entry.Entry{}
	}

	var entries []entry.Entry
	if err := json.Unmarshal([]byte(text), &entries); err != nil {
		return []entry.Entry{}
	}
	if entries == nil {
		return []entry.Entry{}
	}

	for i := range entries {
		entries[i].Normalize()
	}
	return entries
}

// isMalformed reports whether err describes a document problem rather than
// a failure of the underlying reader.
func isMalformed(err error) bool {
	return errors.Is(err, ErrNodeNotFound) || errors.Is(err, ErrMalformed)
}

func attr(el xml.StartElement, local string) string {
	for _, a := range el.Attr {
		if a.Name.Local == local && a.Name.Space == "" {
			return a.Value
		}
	}
	return ""
}

func qualifiedName(name xml.Name) string {
	if name.Space == "" {
		return name.Local
	}
	return name.Space + ":" + name.Local
}

var textEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

// escapeText escapes payload for use as element content. Quotes are left
// as-is, matching how the IDE serializes the value.
func escapeText(payload []byte) []byte {
	return []byte(textEscaper.Replace(string(payload)))
}
