package xmlfmt

import (
	"errors"
	"fmt"
	"strings"

	"github.com/beevik/etree"

	"iconci/internal/fault"
)

// Format parses text and returns its canonical layout. Markup the parser
// rejects is reported as fault.ExternalTool.
func Format(text string, opt Options) (string, error) {
	opt = opt.withDefaults()

	doc := etree.NewDocument()
	doc.ReadSettings.PreserveCData = true
	if err := doc.ReadFromString(text); err != nil {
		return "", fault.Tool(opt.Filepath, "format", err)
	}
	root := doc.Root()
	if root == nil {
		return "", fault.Tool(opt.Filepath, "format", errors.New("document has no root element"))
	}
	if opt.Parser == ParserSVG && root.Tag != "svg" {
		return "", fault.Tool(opt.Filepath, "format", fmt.Errorf("root element is <%s>, expected <svg>", root.FullTag()))
	}

	p := printer{w: &writer{opt: opt}, opt: opt}
	for _, tok := range doc.Child {
		p.printToken(tok)
	}
	return p.w.String(), nil
}

type printer struct {
	w   *writer
	opt Options
}

func (p *printer) ignoreWhitespace() bool {
	return p.opt.WhitespaceSensitivity == WhitespaceIgnore
}

func (p *printer) printToken(tok etree.Token) {
	switch t := tok.(type) {
	case *etree.Element:
		p.printElement(t)
	case *etree.CharData:
		if text, ok := p.text(t); ok {
			p.w.line(text)
		}
	case *etree.Comment:
		p.w.line("<!--" + t.Data + "-->")
	case *etree.ProcInst:
		p.w.line(procInst(t))
	case *etree.Directive:
		p.w.line("<!" + t.Data + ">")
	}
}

// text renders a text node, reporting false when it should be dropped.
func (p *printer) text(cd *etree.CharData) (string, bool) {
	if cd.IsCData() {
		return "<![CDATA[" + cd.Data + "]]>", true
	}
	if cd.IsWhitespace() {
		return "", false
	}
	data := cd.Data
	if p.ignoreWhitespace() {
		data = strings.Join(strings.Fields(data), " ")
	}
	return textEscaper.Replace(data), true
}

func (p *printer) printElement(el *etree.Element) {
	if !p.ignoreWhitespace() && hasText(el) {
		p.w.line(serialize(el))
		return
	}

	var children []etree.Token
	for _, tok := range el.Child {
		if cd, ok := tok.(*etree.CharData); ok && !cd.IsCData() && cd.IsWhitespace() {
			continue
		}
		children = append(children, tok)
	}

	if len(children) == 0 {
		p.openTag(el, true)
		return
	}

	if cd, ok := children[0].(*etree.CharData); ok && len(children) == 1 {
		if text, ok := p.text(cd); ok {
			inline := p.head(el) + ">" + text + "</" + el.FullTag() + ">"
			if p.w.fits(inline) {
				p.w.line(inline)
				return
			}
		}
	}

	p.openTag(el, false)
	p.w.indentLevel++
	for _, tok := range children {
		p.printToken(tok)
	}
	p.w.indentLevel--
	p.w.line("</" + el.FullTag() + ">")
}

// head is the opening tag without its closing bracket, attributes inline.
func (p *printer) head(el *etree.Element) string {
	var b strings.Builder
	b.WriteByte('<')
	b.WriteString(el.FullTag())
	for _, a := range el.Attr {
		b.WriteByte(' ')
		b.WriteString(attr(a))
	}
	return b.String()
}

func (p *printer) openTag(el *etree.Element, selfClose bool) {
	closer := ">"
	if selfClose {
		closer = " />"
	}
	oneLine := p.head(el) + closer
	if len(el.Attr) <= 1 || p.w.fits(oneLine) {
		p.w.line(oneLine)
		return
	}
	p.w.line("<" + el.FullTag())
	p.w.indentLevel++
	for _, a := range el.Attr {
		p.w.line(attr(a))
	}
	p.w.indentLevel--
	p.w.line(strings.TrimSpace(closer))
}

func attr(a etree.Attr) string {
	return a.FullKey() + `="` + attrEscaper.Replace(a.Value) + `"`
}

func procInst(pi *etree.ProcInst) string {
	if pi.Inst == "" {
		return "<?" + pi.Target + "?>"
	}
	return "<?" + pi.Target + " " + pi.Inst + "?>"
}

func hasText(el *etree.Element) bool {
	for _, tok := range el.Child {
		if cd, ok := tok.(*etree.CharData); ok && !cd.IsWhitespace() {
			return true
		}
	}
	return false
}

// serialize writes el exactly as parsed, used for mixed content.
func serialize(el *etree.Element) string {
	doc := etree.NewDocument()
	doc.SetRoot(el.Copy())
	out, err := doc.WriteToString()
	if err != nil {
		return ""
	}
	return out
}

var (
	textEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
	attrEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", `"`, "&quot;", "\n", "&#xA;", "\t", "&#x9;")
)
