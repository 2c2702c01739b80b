package deadlinks

import (
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/foomo/deadlinks/vo"
	"golang.org/x/net/html"
)

// Document a parsed html document, read only after parsing, so it can be
// shared by all checks of its references
type Document struct {
	// Path relative to the tree root, slash separated
	Path string
	doc  *goquery.Document
	ids  map[string]struct{}
}

// ParseDocument parses an html document found at docPath below the tree root
func ParseDocument(docPath string, r io.Reader) (*Document, error) {
	root, errParse := html.Parse(r)
	if errParse != nil {
		return nil, fmt.Errorf("%w: %s: %v", vo.ErrParse, docPath, errParse)
	}
	d := &Document{
		Path: cleanDocumentPath(docPath),
		doc:  goquery.NewDocumentFromNode(root),
		ids:  map[string]struct{}{},
	}
	d.doc.Find("[id]").Each(func(i int, s *goquery.Selection) {
		if id, ok := s.Attr("id"); ok {
			d.ids[id] = struct{}{}
		}
	})
	return d, nil
}

// ParseDocumentString convenience for in memory documents
func ParseDocumentString(docPath, content string) (*Document, error) {
	return ParseDocument(docPath, strings.NewReader(content))
}

// HasID is there an element with the given id
func (d *Document) HasID(id string) bool {
	_, ok := d.ids[id]
	return ok
}

// Select all elements with the given tag name
func (d *Document) Select(tagName string) *goquery.Selection {
	return d.doc.Find(tagName)
}

func cleanDocumentPath(docPath string) string {
	p := strings.TrimPrefix(path.Clean("/"+strings.ReplaceAll(docPath, "\\", "/")), "/")
	if p == "" {
		return "."
	}
	return p
}
