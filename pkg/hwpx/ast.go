package hwpx

// Document is the generic document tree handed to the compiler. It is
// produced externally (pandoc JSON on stdin, or the Markdown front-end) and
// treated as read-only by every component in this package.
type Document struct {
	Meta   Metadata
	Blocks []Block
}

// Metadata carries the title-block fields extracted from the source
// document's metadata. Empty fields are simply omitted from the output.
type Metadata struct {
	Title    string
	Subtitle string
	Author   string
	Date     string
}

// Block is a structural element of the document tree. The set of
// implementations is closed so the compiler's type switch covers every kind.
type Block interface {
	isBlock()
}

// Inline is a piece of paragraph-level content. Inline nodes nest: Strong
// wraps further inlines, and so on.
type Inline interface {
	isInline()
}

// Paragraph is a plain paragraph of inline content.
type Paragraph struct {
	Inlines []Inline
}

// Heading is a section heading. Level is clamped to [1,6] by the decoders.
type Heading struct {
	Level   int
	Inlines []Inline
}

// CodeBlock is a verbatim block. Text may span multiple physical lines.
type CodeBlock struct {
	Text string
}

// BulletList holds one slice of blocks per list item.
type BulletList struct {
	Items [][]Block
}

// OrderedList holds one slice of blocks per list item. Start is the first
// item's number as given by the source document.
type OrderedList struct {
	Start int
	Items [][]Block
}

// BlockQuote wraps child blocks that render with an extra indent level.
type BlockQuote struct {
	Blocks []Block
}

// Table is a grid of cells with an optional caption.
type Table struct {
	Caption []Inline
	Rows    []TableRow
}

// TableRow is one row of cells. Header marks rows that came from the table
// head.
type TableRow struct {
	Header bool
	Cells  []TableCell
}

// TableCell holds the blocks of a single cell. The compiler flattens them to
// plain text.
type TableCell struct {
	Blocks []Block
}

// HorizontalRule is a thematic break.
type HorizontalRule struct{}

// DefinitionList is an ordered sequence of term/definitions pairs.
type DefinitionList struct {
	Items []DefinitionItem
}

// DefinitionItem is one term with its definitions, each a block sequence.
type DefinitionItem struct {
	Term        []Inline
	Definitions [][]Block
}

// Div is a transparent container: its children compile in place and any
// container-level attributes are dropped.
type Div struct {
	Blocks []Block
}

// LineBlock is a sequence of lines, each rendered as its own paragraph.
type LineBlock struct {
	Lines [][]Inline
}

func (*Paragraph) isBlock()      {}
func (*Heading) isBlock()        {}
func (*CodeBlock) isBlock()      {}
func (*BulletList) isBlock()     {}
func (*OrderedList) isBlock()    {}
func (*BlockQuote) isBlock()     {}
func (*Table) isBlock()          {}
func (*HorizontalRule) isBlock() {}
func (*DefinitionList) isBlock() {}
func (*Div) isBlock()            {}
func (*LineBlock) isBlock()      {}

// Text is a literal text run.
type Text struct {
	Text string
}

// Space is a single inter-word space.
type Space struct{}

// SoftBreak is a source line break that renders as a space.
type SoftBreak struct{}

// LineBreak is a hard break within the same paragraph.
type LineBreak struct{}

// Strong renders its children bold.
type Strong struct {
	Inlines []Inline
}

// Emphasis renders its children italic.
type Emphasis struct {
	Inlines []Inline
}

// Code is inline verbatim text rendered in the fixed-width code style.
type Code struct {
	Text string
}

// Link renders its label inlines; Target is not preserved in the body
// content (label-only rendering).
type Link struct {
	Target  string
	Inlines []Inline
}

// Quoted wraps its children in quotation glyphs. Double selects curly double
// quotes, otherwise curly single quotes.
type Quoted struct {
	Double  bool
	Inlines []Inline
}

// MathKind distinguishes inline from display math.
type MathKind int

const (
	InlineMath MathKind = iota
	DisplayMath
)

// Math is an embedded formula in LaTeX-like notation.
type Math struct {
	Kind   MathKind
	Source string
}

// Span passes its children through unchanged; style attributes are not
// mapped.
type Span struct {
	Inlines []Inline
}

func (*Text) isInline()      {}
func (*Space) isInline()     {}
func (*SoftBreak) isInline() {}
func (*LineBreak) isInline() {}
func (*Strong) isInline()    {}
func (*Emphasis) isInline()  {}
func (*Code) isInline()      {}
func (*Link) isInline()      {}
func (*Quoted) isInline()    {}
func (*Math) isInline()      {}
func (*Span) isInline()      {}
