// Package document parses response text into documents. Parsing is
// best-effort for callers: a failure is returned, never panicked.
package document

import (
	"errors"
	"mime"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/antchfx/xmlquery"
)

var ErrEmptyDocument = errors.New("empty document")

// ParseXML parses text as an XML document. Text without a root element is rejected.
func ParseXML(text string) (*xmlquery.Node, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyDocument
	}
	doc, err := xmlquery.Parse(strings.NewReader(text))
	if err != nil {
		return nil, err
	}
	if doc == nil || doc.SelectElement("*") == nil {
		return nil, ErrEmptyDocument
	}
	return doc, nil
}

// ParseHTML parses text as an HTML document.
func ParseHTML(text string) (*goquery.Document, error) {
	return goquery.NewDocumentFromReader(strings.NewReader(text))
}

// IsXMLContentType reports whether a response with this Content-Type should
// be parsed as XML. An absent Content-Type qualifies.
func IsXMLContentType(contentType string) bool {
	if strings.TrimSpace(contentType) == "" {
		return true
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		mediaType = strings.ToLower(strings.TrimSpace(strings.SplitN(contentType, ";", 2)[0]))
	}
	switch {
	case mediaType == "text/xml", mediaType == "application/xml":
		return true
	case strings.HasSuffix(mediaType, "+xml"):
		return true
	}
	return false
}
