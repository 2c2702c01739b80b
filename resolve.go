package deadlinks

import (
	"net/url"
	"path"
	"strings"

	"github.com/foomo/deadlinks/vo"
)

// Resolver classifies references and resolves local paths against the tree root
type Resolver struct {
	ignorePrefixes []string
}

func NewResolver(ignorePrefixes ...string) *Resolver {
	return &Resolver{ignorePrefixes: ignorePrefixes}
}

// Classify never touches ref.Target, everything it finds out goes into the
// returned value
func (r *Resolver) Classify(ref vo.Reference) vo.ClassifiedReference {
	c := vo.ClassifiedReference{
		Reference: ref,
		Kind:      vo.ReferenceKindIgnored,
	}
	target := strings.TrimSpace(ref.Target)
	if target == "" {
		return c
	}
	for _, ignorePrefix := range r.ignorePrefixes {
		if ignorePrefix != "" && strings.HasPrefix(target, ignorePrefix) {
			return c
		}
	}
	if strings.HasPrefix(target, "#") {
		c.Kind = vo.ReferenceKindFragment
		c.Anchor = target[1:]
		return c
	}
	u, errParse := url.Parse(target)
	if errParse != nil {
		return c
	}
	switch {
	case u.Scheme == "" && u.Host != "":
		// protocol relative //cdn.example.com/lib.js
		u.Scheme = "https"
		c.Kind = vo.ReferenceKindRemote
		c.URL = u
	case u.Scheme == "":
		c.Kind = vo.ReferenceKindLocal
		c.ResolvedPath = resolvePath(ref.Document, u.Path)
	case u.Scheme == "http" || u.Scheme == "https":
		c.Kind = vo.ReferenceKindRemote
		c.URL = u
	}
	return c
}

// resolvePath joins a target path with the folder of the document, root
// absolute targets ignore the document location. The result is relative to
// the tree root, "." is the root itself and a leading ".." means the target
// is outside of the tree.
func resolvePath(document, targetPath string) string {
	if targetPath == "" {
		// "?page=2" points to the document itself
		return document
	}
	if strings.HasPrefix(targetPath, "/") {
		resolved := strings.TrimPrefix(path.Clean(targetPath), "/")
		if resolved == "" {
			return "."
		}
		return resolved
	}
	return path.Join(path.Dir(document), targetPath)
}
