package svgo

import (
	"sort"
	"strings"

	"github.com/beevik/etree"
)

// BaseRules returns the rule set shared by every platform, in order.
func BaseRules() []Rule {
	return []Rule{
		removeDescRule{},
		removeStyleElementRule{},
		removeOffCanvasPathsRule{},
		removeNonInheritableGroupAttrsRule{},
		sortAttrsRule{},
		presetDefaultRule{},
	}
}

type removeDescRule struct{}

func (removeDescRule) Name() string { return "removeDesc" }

func (removeDescRule) apply(v *View) error {
	removeElements(v, "desc")
	return nil
}

type removeStyleElementRule struct{}

func (removeStyleElementRule) Name() string { return "removeStyleElement" }

func (removeStyleElementRule) apply(v *View) error {
	removeElements(v, "style")
	return nil
}

// Presentation attributes that do not inherit and have no effect on <g>.
var nonInheritableGroupAttrs = []string{
	"alignment-baseline",
	"baseline-shift",
	"clip",
	"dominant-baseline",
	"flood-color",
	"flood-opacity",
	"lighting-color",
	"overflow",
	"stop-color",
	"stop-opacity",
}

type removeNonInheritableGroupAttrsRule struct{}

func (removeNonInheritableGroupAttrsRule) Name() string { return "removeNonInheritableGroupAttrs" }

func (removeNonInheritableGroupAttrsRule) apply(v *View) error {
	walk(v.root, func(el *etree.Element) {
		if el.Space != "" || el.Tag != "g" {
			return
		}
		for _, key := range nonInheritableGroupAttrs {
			el.RemoveAttr(key)
		}
	})
	return nil
}

var attrOrder = []string{
	"id", "width", "height", "x", "x1", "x2", "y", "y1", "y2",
	"cx", "cy", "r", "fill", "stroke", "marker", "d", "points",
}

type sortAttrsRule struct{}

func (sortAttrsRule) Name() string { return "sortAttrs" }

func (sortAttrsRule) apply(v *View) error {
	walk(v.root, func(el *etree.Element) {
		sort.SliceStable(el.Attr, func(i, j int) bool {
			return attrLess(el.Attr[i], el.Attr[j])
		})
	})
	return nil
}

func attrLess(a, b etree.Attr) bool {
	if pa, pb := nsPriority(a), nsPriority(b); pa != pb {
		return pa > pb
	}
	if a.Space != b.Space {
		return a.Space < b.Space
	}
	if oa, ob := orderIndex(a.Key), orderIndex(b.Key); oa != ob {
		return oa < ob
	}
	return a.Key < b.Key
}

func nsPriority(a etree.Attr) int {
	switch {
	case a.Space == "" && a.Key == "xmlns":
		return 3
	case a.Space == "xmlns":
		return 2
	case a.Space != "":
		return 1
	}
	return 0
}

// orderIndex ranks a name by its position in attrOrder, falling back to the
// part before the first dash so fill-opacity groups with fill.
func orderIndex(name string) int {
	for i, known := range attrOrder {
		if known == name {
			return i
		}
	}
	if prefix, _, ok := strings.Cut(name, "-"); ok {
		for i, known := range attrOrder {
			if known == prefix {
				return i
			}
		}
	}
	return len(attrOrder)
}

type presetDefaultRule struct{}

func (presetDefaultRule) Name() string { return "preset-default" }

func (presetDefaultRule) apply(v *View) error {
	removeDocumentNoise(v.doc)
	removeElements(v, "metadata", "title")
	removeEditorsNSData(v)
	walk(v.root, cleanupAttrs)
	walk(v.root, removeEmptyAttrs)
	removeEmptyContainers(v.root)
	return nil
}

// removeDocumentNoise drops the XML declaration, doctype and comments.
// Comments opening with "!" are kept.
func removeDocumentNoise(doc *etree.Document) {
	var prune func(el *etree.Element)
	prune = func(el *etree.Element) {
		removeChildren(el, func(tok etree.Token) bool {
			switch t := tok.(type) {
			case *etree.ProcInst:
				return t.Target == "xml"
			case *etree.Directive:
				return true
			case *etree.Comment:
				return !strings.HasPrefix(t.Data, "!")
			}
			return false
		})
		for _, child := range el.ChildElements() {
			prune(child)
		}
	}
	prune(&doc.Element)
}

var editorNamespaces = map[string]bool{
	"http://sodipodi.sourceforge.net/DTD/sodipodi-0.dtd":     true,
	"http://inkscape.sourceforge.net/DTD/sodipodi-0.dtd":     true,
	"http://www.inkscape.org/namespaces/inkscape":            true,
	"http://www.bohemiancoding.com/sketch/ns":                true,
	"http://ns.adobe.com/AdobeIllustrator/10.0/":             true,
	"http://ns.adobe.com/Graphs/1.0/":                        true,
	"http://ns.adobe.com/AdobeSVGViewerExtensions/3.0/":      true,
	"http://ns.adobe.com/Variables/1.0/":                     true,
	"http://ns.adobe.com/SaveForWeb/1.0/":                    true,
	"http://ns.adobe.com/Extensibility/1.0/":                 true,
	"http://ns.adobe.com/Flows/1.0/":                         true,
	"http://ns.adobe.com/ImageReplacement/1.0/":              true,
	"http://ns.adobe.com/GenericCustomNamespace/1.0/":        true,
	"http://ns.adobe.com/XPath/1.0/":                         true,
	"http://schemas.microsoft.com/visio/2003/SVGExtensions/": true,
	"http://taptrix.com/vectorillustrator/svg_extensions":    true,
	"http://www.figma.com/figma/ns":                          true,
	"http://purl.org/dc/elements/1.1/":                       true,
	"http://creativecommons.org/ns#":                         true,
	"http://www.w3.org/1999/02/22-rdf-syntax-ns#":            true,
	"http://www.serif.com/":                                  true,
	"http://www.vector.evaxdesign.sk":                        true,
}

func removeEditorsNSData(v *View) {
	prefixes := make(map[string]bool)
	walk(v.root, func(el *etree.Element) {
		for _, a := range el.Attr {
			if a.Space == "xmlns" && editorNamespaces[a.Value] {
				prefixes[a.Key] = true
			}
		}
	})
	if len(prefixes) == 0 {
		return
	}

	var prune func(el *etree.Element)
	prune = func(el *etree.Element) {
		removeChildren(el, func(tok etree.Token) bool {
			child, ok := tok.(*etree.Element)
			return ok && prefixes[child.Space]
		})
		var doomed []string
		for _, a := range el.Attr {
			if prefixes[a.Space] || (a.Space == "xmlns" && prefixes[a.Key]) {
				doomed = append(doomed, a.FullKey())
			}
		}
		for _, key := range doomed {
			el.RemoveAttr(key)
		}
		for _, child := range el.ChildElements() {
			prune(child)
		}
	}
	prune(v.root)
}

var attrSpaceReplacer = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ", "\t", " ")

func cleanupAttrs(el *etree.Element) {
	for i := range el.Attr {
		value := attrSpaceReplacer.Replace(el.Attr[i].Value)
		el.Attr[i].Value = strings.Join(strings.Fields(value), " ")
	}
}

// conditional processing attributes are meaningful even when empty.
var keepEmpty = map[string]bool{
	"requiredFeatures":   true,
	"requiredExtensions": true,
	"systemLanguage":     true,
}

func removeEmptyAttrs(el *etree.Element) {
	var doomed []string
	for _, a := range el.Attr {
		if a.Value == "" && !keepEmpty[a.Key] {
			doomed = append(doomed, a.FullKey())
		}
	}
	for _, key := range doomed {
		el.RemoveAttr(key)
	}
}

var containerTags = map[string]bool{
	"a":        true,
	"defs":     true,
	"g":        true,
	"marker":   true,
	"mask":     true,
	"pattern":  true,
	"switch":   true,
	"symbol":   true,
	"clipPath": true,
}

// removeEmptyContainers drops childless containers bottom-up. Containers with
// an id or a filter may be referenced and are kept.
func removeEmptyContainers(el *etree.Element) {
	for _, child := range el.ChildElements() {
		removeEmptyContainers(child)
	}
	removeChildren(el, func(tok etree.Token) bool {
		child, ok := tok.(*etree.Element)
		if !ok || child.Space != "" || !containerTags[child.Tag] {
			return false
		}
		if len(child.Child) > 0 {
			return false
		}
		return child.SelectAttr("id") == nil && child.SelectAttr("filter") == nil
	})
}
