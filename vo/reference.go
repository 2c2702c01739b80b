package vo

import "net/url"

// ElementKind names the kind of element a reference was found on
type ElementKind string

const (
	ElementKindHyperlink   ElementKind = "hyperlink"
	ElementKindImage       ElementKind = "image"
	ElementKindMediaSource ElementKind = "media-source"
	ElementKindFormAction  ElementKind = "form-action"
	ElementKindFrame       ElementKind = "frame"
)

// Reference one pointer from a document to another resource
type Reference struct {
	// Target raw attribute value, never modified after extraction
	Target string
	// Label human readable description for error messages
	Label string
	// Document path of the containing document relative to the tree root
	Document string
	Kind     ElementKind
}

// ReferenceKind disposition of a reference after classification
type ReferenceKind string

const (
	ReferenceKindFragment ReferenceKind = "fragment-anchor"
	ReferenceKindLocal    ReferenceKind = "local-path"
	ReferenceKindRemote   ReferenceKind = "remote-url"
	ReferenceKindIgnored  ReferenceKind = "ignored"
)

// ClassifiedReference a reference plus where it points to.
// Anchor is set for fragments, ResolvedPath for local paths and URL for
// remote urls.
type ClassifiedReference struct {
	Reference
	Kind         ReferenceKind
	Anchor       string
	ResolvedPath string
	URL          *url.URL
}
