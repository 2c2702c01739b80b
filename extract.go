package deadlinks

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/foomo/deadlinks/vo"
)

type labelFunc func(s *goquery.Selection) string

// referenceRule describes how references are read from one element kind
type referenceRule struct {
	tag   string
	attr  string
	kind  vo.ElementKind
	label labelFunc
	split func(value string) []string
}

var referenceRules = []referenceRule{
	{tag: "a", attr: "href", kind: vo.ElementKindHyperlink, label: textOr("a href")},
	{tag: "img", attr: "src", kind: vo.ElementKindImage, label: attrOr("img src", "title", "alt")},
	{tag: "source", attr: "srcset", kind: vo.ElementKindMediaSource, label: attrOr("source srcset"), split: splitSrcset},
	{tag: "form", attr: "action", kind: vo.ElementKindFormAction, label: attrOr("form action")},
	{tag: "iframe", attr: "src", kind: vo.ElementKindFrame, label: attrOr("iframe src", "title")},
}

// textOr rendered text of the element or the fallback
func textOr(fallback string) labelFunc {
	return func(s *goquery.Selection) string {
		text := strings.Join(strings.Fields(s.Text()), " ")
		if text == "" {
			return fallback
		}
		return text
	}
}

// attrOr first non empty attribute value or the fallback
func attrOr(fallback string, attrs ...string) labelFunc {
	return func(s *goquery.Selection) string {
		for _, attr := range attrs {
			if value := strings.TrimSpace(s.AttrOr(attr, "")); value != "" {
				return value
			}
		}
		return fallback
	}
}

// splitSrcset "a.png 1x, b.png 2x" => a.png, b.png
func splitSrcset(srcset string) []string {
	candidates := []string{}
	for _, candidate := range strings.Split(srcset, ",") {
		fields := strings.Fields(candidate)
		if len(fields) > 0 {
			candidates = append(candidates, fields[0])
		}
	}
	if len(candidates) == 0 {
		return []string{srcset}
	}
	return candidates
}

// Extract all references from a document. Elements without the target
// attribute yield references with an empty target, those are ignored later.
func Extract(doc *Document) []vo.Reference {
	refs := []vo.Reference{}
	for _, rule := range referenceRules {
		doc.Select(rule.tag).Each(func(i int, s *goquery.Selection) {
			value := s.AttrOr(rule.attr, "")
			targets := []string{value}
			if rule.split != nil {
				targets = rule.split(value)
			}
			label := rule.label(s)
			for _, target := range targets {
				refs = append(refs, vo.Reference{
					Target:   target,
					Label:    label,
					Document: doc.Path,
					Kind:     rule.kind,
				})
			}
		})
	}
	return refs
}
