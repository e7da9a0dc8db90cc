package svgo

import (
	"errors"
	"strings"

	"github.com/beevik/etree"

	"iconci/internal/fault"
)

// View is the mutable root element of one document.
type View struct {
	Path string

	doc  *etree.Document
	root *etree.Element
}

// Root returns the document's top-level element.
func (v *View) Root() *etree.Element { return v.root }

// Attr returns the root attribute value and whether it is present and non-blank.
func (v *View) Attr(key string) (string, bool) {
	a := v.root.SelectAttr(key)
	if a == nil {
		return "", false
	}
	value := strings.TrimSpace(a.Value)
	return value, value != ""
}

// SetAttr creates or overwrites a root attribute.
func (v *View) SetAttr(key, value string) {
	v.root.CreateAttr(key, value)
}

// Optimize parses text, applies rules in order and returns the compact result.
// Parse and serialisation failures are fault.ExternalTool; rule failures are
// returned unchanged.
func Optimize(path, text string, rules []Rule) (string, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromString(text); err != nil {
		return "", fault.Tool(path, "optimize", err)
	}
	root := doc.Root()
	if root == nil {
		return "", fault.Tool(path, "optimize", errors.New("document has no root element"))
	}

	dropWhitespace(&doc.Element)

	view := &View{Path: path, doc: doc, root: root}
	for _, rule := range rules {
		if err := rule.apply(view); err != nil {
			return "", err
		}
	}

	out, err := doc.WriteToString()
	if err != nil {
		return "", fault.Tool(path, "optimize", err)
	}
	return out, nil
}

// textElements keep their whitespace-only character data.
var textElements = map[string]bool{
	"text":     true,
	"tspan":    true,
	"textPath": true,
	"pre":      true,
}

func dropWhitespace(el *etree.Element) {
	if textElements[el.Tag] {
		return
	}
	removeChildren(el, func(tok etree.Token) bool {
		cd, ok := tok.(*etree.CharData)
		return ok && cd.IsWhitespace()
	})
	for _, child := range el.ChildElements() {
		dropWhitespace(child)
	}
}

// removeChildren drops the direct children of parent for which drop is true.
func removeChildren(parent *etree.Element, drop func(etree.Token) bool) {
	var doomed []etree.Token
	for _, tok := range parent.Child {
		if drop(tok) {
			doomed = append(doomed, tok)
		}
	}
	for _, tok := range doomed {
		parent.RemoveChild(tok)
	}
}

// walk visits el and its descendants in document order.
func walk(el *etree.Element, visit func(*etree.Element)) {
	visit(el)
	for _, child := range el.ChildElements() {
		walk(child, visit)
	}
}

// removeElements drops every descendant element of the document whose tag
// matches one of tags.
func removeElements(v *View, tags ...string) {
	set := make(map[string]bool, len(tags))
	for _, tag := range tags {
		set[tag] = true
	}
	var prune func(el *etree.Element)
	prune = func(el *etree.Element) {
		removeChildren(el, func(tok etree.Token) bool {
			child, ok := tok.(*etree.Element)
			return ok && child.Space == "" && set[child.Tag]
		})
		for _, child := range el.ChildElements() {
			prune(child)
		}
	}
	prune(v.root)
}
