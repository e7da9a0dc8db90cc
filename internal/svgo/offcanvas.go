package svgo

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/beevik/etree"
)

type removeOffCanvasPathsRule struct{}

func (removeOffCanvasPathsRule) Name() string { return "removeOffCanvasPaths" }

// apply drops <path> elements whose every point lies outside the root viewBox.
// Paths under a transform, or with arcs, are kept because their extent
// cannot be bounded from the path data alone.
func (removeOffCanvasPathsRule) apply(v *View) error {
	value, ok := v.Attr("viewBox")
	if !ok {
		return nil
	}
	canvas, ok := parseBox(value)
	if !ok {
		return nil
	}
	var prune func(el *etree.Element)
	prune = func(el *etree.Element) {
		if el.SelectAttr("transform") != nil {
			return
		}
		removeChildren(el, func(tok etree.Token) bool {
			child, ok := tok.(*etree.Element)
			if !ok || child.Space != "" || child.Tag != "path" || child.SelectAttr("transform") != nil {
				return false
			}
			bounds, ok := pathBounds(child.SelectAttrValue("d", ""))
			return ok && !bounds.intersects(canvas)
		})
		for _, child := range el.ChildElements() {
			prune(child)
		}
	}
	prune(v.root)
	return nil
}

type box struct {
	minX, minY, maxX, maxY float64
}

func (b box) intersects(o box) bool {
	return b.maxX >= o.minX && b.minX <= o.maxX && b.maxY >= o.minY && b.minY <= o.maxY
}

func (b *box) add(x, y float64) {
	b.minX = math.Min(b.minX, x)
	b.minY = math.Min(b.minY, y)
	b.maxX = math.Max(b.maxX, x)
	b.maxY = math.Max(b.maxY, y)
}

func parseBox(value string) (box, bool) {
	fields, err := splitViewBox(value)
	if err != nil {
		return box{}, false
	}
	var n [4]float64
	for i, f := range fields {
		n[i], _ = strconv.ParseFloat(f, 64)
	}
	if n[2] <= 0 || n[3] <= 0 {
		return box{}, false
	}
	return box{minX: n[0], minY: n[1], maxX: n[0] + n[2], maxY: n[1] + n[3]}, true
}

var pathTokenRe = regexp.MustCompile(`[MmLlHhVvCcSsQqTtAaZz]|[-+]?(?:\d+\.?\d*|\.\d+)(?:[eE][-+]?\d+)?`)

var pathArity = map[byte]int{
	'M': 2, 'L': 2, 'T': 2,
	'H': 1, 'V': 1,
	'C': 6,
	'S': 4, 'Q': 4,
	'Z': 0,
}

// pathBounds returns the bounding box of every point and control point in d.
// It reports false for empty, malformed or arc-bearing data.
func pathBounds(d string) (box, bool) {
	tokens := pathTokenRe.FindAllString(d, -1)
	if len(tokens) == 0 {
		return box{}, false
	}
	b := box{minX: math.Inf(1), minY: math.Inf(1), maxX: math.Inf(-1), maxY: math.Inf(-1)}
	var (
		cmd            byte
		curX, curY     float64
		startX, startY float64
		points         int
	)
	for i := 0; i < len(tokens); {
		tok := tokens[i]
		if isCommand(tok) {
			cmd = tok[0]
			i++
			if upper(cmd) == 'Z' {
				curX, curY = startX, startY
				continue
			}
		} else if cmd == 0 {
			return box{}, false
		}

		op := upper(cmd)
		if op == 'A' {
			return box{}, false
		}
		arity, known := pathArity[op]
		if !known || arity == 0 || i+arity > len(tokens) {
			return box{}, false
		}
		args := make([]float64, arity)
		for j := range args {
			if isCommand(tokens[i+j]) {
				return box{}, false
			}
			f, err := strconv.ParseFloat(tokens[i+j], 64)
			if err != nil {
				return box{}, false
			}
			args[j] = f
		}
		i += arity

		relative := cmd != op
		switch op {
		case 'H':
			if relative {
				curX += args[0]
			} else {
				curX = args[0]
			}
			b.add(curX, curY)
		case 'V':
			if relative {
				curY += args[0]
			} else {
				curY = args[0]
			}
			b.add(curX, curY)
		default:
			baseX, baseY := curX, curY
			for j := 0; j < arity; j += 2 {
				x, y := args[j], args[j+1]
				if relative {
					x += baseX
					y += baseY
				}
				b.add(x, y)
				curX, curY = x, y
			}
		}
		points++

		if op == 'M' {
			startX, startY = curX, curY
			// Further coordinate pairs after a moveto are implicit linetos.
			if relative {
				cmd = 'l'
			} else {
				cmd = 'L'
			}
		}
	}
	if points == 0 {
		return box{}, false
	}
	return b, true
}

func isCommand(tok string) bool {
	return len(tok) == 1 && strings.ContainsRune("MmLlHhVvCcSsQqTtAaZz", rune(tok[0]))
}

func upper(c byte) byte {
	if c >= 'a' && c <= 'z' {
		return c - 'a' + 'A'
	}
	return c
}
