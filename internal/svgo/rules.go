package svgo

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/beevik/etree"

	"iconci/internal/fault"
)

// Rule is one normalization step. The set of rules is closed.
type Rule interface {
	Name() string
	apply(v *View) error
}

// Context-fill sentinels resolved by the embedding document.
const (
	ContextFill        = "context-fill"
	ContextFillOpacity = "context-fill-opacity"
)

type removeAttrsRule struct {
	names []string
	re    *regexp.Regexp
}

// RemoveAttrs returns a rule stripping every attribute, on every element,
// whose qualified name fully matches one of names. Names are trimmed and
// joined into one alternation; an empty list matches nothing.
func RemoveAttrs(names ...string) Rule {
	trimmed := make([]string, 0, len(names))
	for _, name := range names {
		if name = strings.TrimSpace(name); name != "" {
			trimmed = append(trimmed, name)
		}
	}
	rule := &removeAttrsRule{names: trimmed}
	if len(trimmed) == 0 {
		return rule
	}
	re, err := regexp.Compile("^(?:" + strings.Join(trimmed, "|") + ")$")
	if err != nil {
		quoted := make([]string, len(trimmed))
		for i, name := range trimmed {
			quoted[i] = regexp.QuoteMeta(name)
		}
		re = regexp.MustCompile("^(?:" + strings.Join(quoted, "|") + ")$")
	}
	rule.re = re
	return rule
}

func (r *removeAttrsRule) Name() string { return "removeAttrs" }

// Pattern returns the alternation the rule matches, or "" when it matches nothing.
func (r *removeAttrsRule) Pattern() string {
	if r.re == nil {
		return ""
	}
	return r.re.String()
}

func (r *removeAttrsRule) apply(v *View) error {
	if r.re == nil {
		return nil
	}
	walk(v.root, func(el *etree.Element) {
		var doomed []string
		for _, a := range el.Attr {
			if r.re.MatchString(a.FullKey()) {
				doomed = append(doomed, a.FullKey())
			}
		}
		for _, key := range doomed {
			el.RemoveAttr(key)
		}
	})
	return nil
}

type inferDimensionsRule struct{}

// InferDimensions returns the rule that completes the root sizing triple.
// A missing width or height is copied from the viewBox; a missing viewBox is
// synthesised from width and height. With fewer than two sizing signals the
// rule fails with fault.MalformedDocument.
func InferDimensions() Rule { return inferDimensionsRule{} }

func (inferDimensionsRule) Name() string { return "inferDimensions" }

func (inferDimensionsRule) apply(v *View) error {
	viewBox, hasViewBox := v.Attr("viewBox")
	width, hasWidth := v.Attr("width")
	height, hasHeight := v.Attr("height")

	switch {
	case hasViewBox && hasWidth && hasHeight:
		return nil
	case hasViewBox:
		box, err := splitViewBox(viewBox)
		if err != nil {
			return fault.Malformed(v.Path, err.Error())
		}
		if !hasWidth {
			v.SetAttr("width", box[2])
		}
		if !hasHeight {
			v.SetAttr("height", box[3])
		}
		return nil
	case hasWidth && hasHeight:
		v.SetAttr("viewBox", "0 0 "+width+" "+height)
		return nil
	default:
		return fault.Malformed(v.Path, "no width, height, or viewBox found")
	}
}

// splitViewBox returns the four viewBox tokens as written.
func splitViewBox(value string) ([4]string, error) {
	var box [4]string
	fields := strings.FieldsFunc(value, func(r rune) bool {
		return r == ' ' || r == ',' || r == '\t' || r == '\n' || r == '\r'
	})
	if len(fields) != 4 {
		return box, fmt.Errorf("viewBox %q must have four values", value)
	}
	for i, f := range fields {
		if _, err := strconv.ParseFloat(f, 64); err != nil {
			return box, fmt.Errorf("viewBox %q has non-numeric value %q", value, f)
		}
		box[i] = f
	}
	return box, nil
}

type contextFillRule struct{}

// AddContextFill returns the rule that makes the root fill themeable.
func AddContextFill() Rule { return contextFillRule{} }

func (contextFillRule) Name() string { return "addContextFill" }

func (contextFillRule) apply(v *View) error {
	v.SetAttr("fill", ContextFill)
	v.SetAttr("fill-opacity", ContextFillOpacity)
	return nil
}

// Names lists rule names in order.
func Names(rules []Rule) []string {
	names := make([]string, len(rules))
	for i, r := range rules {
		names[i] = r.Name()
	}
	return names
}
