package xmlfmt

// Parser selects the accepted document flavour.
type Parser string

const (
	// ParserSVG accepts documents whose root element is <svg>.
	ParserSVG Parser = "svg"
	// ParserXML accepts any well-formed document.
	ParserXML Parser = "xml"
)

// WhitespaceSensitivity controls how text nodes are treated.
type WhitespaceSensitivity string

const (
	// WhitespaceIgnore drops blank text and collapses whitespace runs.
	WhitespaceIgnore WhitespaceSensitivity = "ignore"
	// WhitespaceStrict keeps text content byte-for-byte.
	WhitespaceStrict WhitespaceSensitivity = "strict"
)

// Options configures Format.
type Options struct {
	// Filepath is used only in error messages.
	Filepath              string
	Parser                Parser
	WhitespaceSensitivity WhitespaceSensitivity
	// PrintWidth is the wrap column; 0 means unbounded.
	PrintWidth int
	TabWidth   int
	UseTabs    bool
}

func (o Options) withDefaults() Options {
	if o.Parser == "" {
		o.Parser = ParserXML
	}
	if o.WhitespaceSensitivity == "" {
		o.WhitespaceSensitivity = WhitespaceStrict
	}
	if o.TabWidth <= 0 {
		o.TabWidth = 4
	}
	return o
}

// SVGOptions is the configuration the icon pipelines use: SVG parser,
// whitespace ignored, four-space indent and no wrapping.
func SVGOptions(path string) Options {
	return Options{
		Filepath:              path,
		Parser:                ParserSVG,
		WhitespaceSensitivity: WhitespaceIgnore,
		PrintWidth:            0,
		TabWidth:              4,
	}
}
