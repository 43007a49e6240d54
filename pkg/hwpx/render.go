package hwpx

import (
	"fmt"
	"strings"
)

// Paragraph IDs start from this seed and increase monotonically, matching
// the ID space the consuming client expects.
const paraIDSeed = 3121190098

const indentGlyph = "　" // fullwidth space

var xmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
)

func escapeXML(s string) string {
	return xmlEscaper.Replace(s)
}

// Compiler walks the generic document tree and produces the body's XML
// elements, consulting the style registry for character-property IDs and
// the layout estimator for per-paragraph line-segment caches. One Compiler
// serves one conversion.
type Compiler struct {
	reg    *Registry
	log    *Logger
	paraID uint64
}

// NewCompiler creates a compiler bound to a registry.
func NewCompiler(reg *Registry) *Compiler {
	return &Compiler{
		reg:    reg,
		log:    GetLogger().WithFields(Fields{"component": "compiler"}),
		paraID: paraIDSeed,
	}
}

func (c *Compiler) nextParaID() uint64 {
	c.paraID++
	return c.paraID
}

// Compile produces the ordered sequence of body elements: the title block
// built from metadata, then the compiled blocks. An empty document still
// yields one empty paragraph.
func (c *Compiler) Compile(doc *Document) []string {
	parts := c.titleBlock(doc.Meta)
	parts = append(parts, c.compileBlocks(doc.Blocks, 0)...)
	if len(parts) == 0 {
		parts = append(parts, c.textParagraph(c.reg.NormalStyle(), charPrBody, ""))
	}
	return parts
}

// charState tracks the inline style modifiers accumulated while descending
// nested inlines. Modifiers compose: Strong inside Emphasis yields
// bold+italic.
type charState struct {
	height int
	bold   bool
	italic bool
	mono   bool
}

func bodyCharState() charState {
	return charState{height: charHeightBody}
}

func headingCharState(level int) charState {
	switch level {
	case 1:
		return charState{height: charHeightH1, bold: true}
	case 2:
		return charState{height: charHeightH2, bold: true}
	default:
		return charState{height: charHeightH3}
	}
}

func (c *Compiler) charID(st charState) int {
	fontRef := fontRefBody
	if st.mono {
		fontRef = fontRefCode
	}
	return c.reg.CharID(CharProps{
		Height:  st.height,
		Bold:    st.bold,
		Italic:  st.italic,
		FontRef: fontRef,
	})
}

// textRun is one compiled run within a paragraph. Adjacent runs with the
// same character properties are merged.
type textRun struct {
	charPr int
	text   string
}

func appendRun(runs []textRun, charPr int, text string) []textRun {
	if text == "" {
		return runs
	}
	if n := len(runs); n > 0 && runs[n-1].charPr == charPr {
		runs[n-1].text += text
		return runs
	}
	return append(runs, textRun{charPr: charPr, text: text})
}

// compileInlines flattens an inline sequence into runs, resolving style
// modifiers through the registry as it descends.
func (c *Compiler) compileInlines(inlines []Inline, st charState, runs []textRun) []textRun {
	for _, in := range inlines {
		switch n := in.(type) {
		case *Text:
			runs = appendRun(runs, c.charID(st), n.Text)
		case *Space, *SoftBreak:
			runs = appendRun(runs, c.charID(st), " ")
		case *LineBreak:
			runs = appendRun(runs, c.charID(st), "\n")
		case *Strong:
			nested := st
			nested.bold = true
			runs = c.compileInlines(n.Inlines, nested, runs)
		case *Emphasis:
			nested := st
			nested.italic = true
			runs = c.compileInlines(n.Inlines, nested, runs)
		case *Code:
			nested := st
			nested.mono = true
			runs = appendRun(runs, c.charID(nested), n.Text)
		case *Link:
			if n.Target != "" {
				c.log.Debug("link target not preserved in body content: %s", n.Target)
			}
			runs = c.compileInlines(n.Inlines, st, runs)
		case *Quoted:
			openQ, closeQ := "‘", "’"
			if n.Double {
				openQ, closeQ = "“", "”"
			}
			runs = appendRun(runs, c.charID(st), openQ)
			runs = c.compileInlines(n.Inlines, st, runs)
			runs = appendRun(runs, c.charID(st), closeQ)
		case *Math:
			// Mixed text context: the formula renders as literal script
			// text within the surrounding paragraph. Standalone math is
			// routed to an equation paragraph by the block compiler.
			runs = appendRun(runs, c.charID(st), n.Source)
		case *Span:
			runs = c.compileInlines(n.Inlines, st, runs)
		default:
			c.log.Warn("dropping unsupported inline node %T", in)
		}
	}
	return runs
}

// extractText flattens inlines to plain text, used where the target element
// holds text only (table cells, captions, metadata).
func extractText(inlines []Inline) string {
	var b strings.Builder
	for _, in := range inlines {
		switch n := in.(type) {
		case *Text:
			b.WriteString(n.Text)
		case *Space, *SoftBreak:
			b.WriteString(" ")
		case *LineBreak:
			b.WriteString("\n")
		case *Strong:
			b.WriteString(extractText(n.Inlines))
		case *Emphasis:
			b.WriteString(extractText(n.Inlines))
		case *Code:
			b.WriteString(n.Text)
		case *Link:
			b.WriteString(extractText(n.Inlines))
		case *Quoted:
			if n.Double {
				b.WriteString("“" + extractText(n.Inlines) + "”")
			} else {
				b.WriteString("‘" + extractText(n.Inlines) + "’")
			}
		case *Math:
			b.WriteString(n.Source)
		case *Span:
			b.WriteString(extractText(n.Inlines))
		}
	}
	return b.String()
}

// compileBlocks converts a block sequence at the given indent depth.
func (c *Compiler) compileBlocks(blocks []Block, indent int) []string {
	var parts []string
	indentPrefix := strings.Repeat(indentGlyph, indent)

	for _, blk := range blocks {
		switch b := blk.(type) {
		case *Paragraph:
			if m, ok := soleMath(b.Inlines); ok {
				parts = append(parts, c.equationParagraph(m.Source))
				continue
			}
			runs := c.compileInlines(b.Inlines, bodyCharState(), nil)
			parts = append(parts, c.runsParagraph(c.reg.NormalStyle(), runs, indentPrefix))

		case *Heading:
			runs := c.compileInlines(b.Inlines, headingCharState(b.Level), nil)
			parts = append(parts, c.runsParagraph(c.reg.HeadingStyle(b.Level), runs, ""))

		case *CodeBlock:
			ref := StyleRef{Style: 0, ParaPr: 0, CharPr: charPrCode}
			for _, line := range strings.Split(b.Text, "\n") {
				parts = append(parts, c.textParagraph(ref, charPrCode, indentPrefix+line))
			}

		case *BulletList:
			for _, item := range b.Items {
				parts = append(parts, c.compileListItem(item, indent, "• ")...)
			}

		case *OrderedList:
			num := b.Start
			if num < 1 {
				num = 1
			}
			for _, item := range b.Items {
				marker := fmt.Sprintf("%d. ", num)
				parts = append(parts, c.compileListItem(item, indent, marker)...)
				num++
			}

		case *BlockQuote:
			parts = append(parts, c.compileBlocks(b.Blocks, indent+1)...)

		case *Table:
			parts = append(parts, c.compileTable(b)...)

		case *HorizontalRule:
			parts = append(parts, c.textParagraph(c.reg.NormalStyle(), charPrBody, strings.Repeat("━", 30)))

		case *Div:
			parts = append(parts, c.compileBlocks(b.Blocks, indent)...)

		case *DefinitionList:
			termCharPr := c.reg.CharID(CharProps{Height: charHeightBody, Bold: true, FontRef: fontRefBody})
			for _, item := range b.Items {
				term := indentPrefix + extractText(item.Term)
				parts = append(parts, c.textParagraph(c.reg.NormalStyle(), termCharPr, term))
				for _, def := range item.Definitions {
					parts = append(parts, c.compileBlocks(def, indent+1)...)
				}
			}

		case *LineBlock:
			for _, line := range b.Lines {
				runs := c.compileInlines(line, bodyCharState(), nil)
				parts = append(parts, c.runsParagraph(c.reg.NormalStyle(), runs, indentPrefix))
			}

		default:
			c.log.Warn("dropping unsupported block node %T", blk)
		}
	}
	return parts
}

// compileListItem compiles one list item's blocks one level deeper and
// swaps the deeper indent prefix of its first paragraph for the current
// level's prefix plus the item marker.
func (c *Compiler) compileListItem(item []Block, indent int, marker string) []string {
	parts := c.compileBlocks(item, indent+1)
	if len(parts) == 0 {
		return parts
	}
	prefix := strings.Repeat(indentGlyph, indent)
	childOpen := "<hp:t>" + strings.Repeat(indentGlyph, indent+1)
	markedOpen := "<hp:t>" + prefix + marker
	switch {
	case strings.Contains(parts[0], childOpen):
		parts[0] = strings.Replace(parts[0], childOpen, markedOpen, 1)
	case strings.Contains(parts[0], "<hp:t>"):
		parts[0] = strings.Replace(parts[0], "<hp:t>", markedOpen, 1)
	default:
		// Equation paragraphs carry no text run to splice into; the marker
		// gets its own paragraph ahead of the item.
		marked := c.textParagraph(c.reg.NormalStyle(), charPrBody, prefix+marker)
		parts = append([]string{marked}, parts...)
	}
	return parts
}

// soleMath reports whether a paragraph consists of exactly one Math inline,
// which renders as a standalone equation object.
func soleMath(inlines []Inline) (*Math, bool) {
	if len(inlines) != 1 {
		return nil, false
	}
	m, ok := inlines[0].(*Math)
	return m, ok
}

// runsParagraph emits a paragraph element from compiled runs. The indent
// prefix joins the first text run so the layout estimator sees it.
func (c *Compiler) runsParagraph(ref StyleRef, runs []textRun, prefix string) string {
	if prefix != "" {
		if len(runs) > 0 {
			runs[0].text = prefix + runs[0].text
		} else {
			runs = []textRun{{charPr: c.charID(bodyCharState()), text: prefix}}
		}
	}
	if len(runs) == 0 {
		return c.textParagraph(ref, ref.CharPr, "")
	}

	var text strings.Builder
	for _, r := range runs {
		text.WriteString(r.text)
	}
	charHeight := c.reg.CharHeight(runs[0].charPr)

	var b strings.Builder
	fmt.Fprintf(&b, `<hp:p id="%d" paraPrIDRef="%d" styleIDRef="%d"`+
		` pageBreak="0" columnBreak="0" merged="0">`,
		c.nextParaID(), ref.ParaPr, ref.Style)
	for _, r := range runs {
		fmt.Fprintf(&b, `<hp:run charPrIDRef="%d"><hp:t>%s</hp:t></hp:run>`,
			r.charPr, escapeXML(r.text))
	}
	b.WriteString(linesegArrayXML(text.String(), charHeight, pageTextWidth))
	b.WriteString(`</hp:p>`)
	return b.String()
}

// textParagraph emits a single-run paragraph, keeping the run even when the
// text is empty so vertical spacing survives.
func (c *Compiler) textParagraph(ref StyleRef, charPr int, text string) string {
	var b strings.Builder
	fmt.Fprintf(&b, `<hp:p id="%d" paraPrIDRef="%d" styleIDRef="%d"`+
		` pageBreak="0" columnBreak="0" merged="0">`,
		c.nextParaID(), ref.ParaPr, ref.Style)
	fmt.Fprintf(&b, `<hp:run charPrIDRef="%d"><hp:t>%s</hp:t></hp:run>`,
		charPr, escapeXML(text))
	b.WriteString(linesegArrayXML(text, c.reg.CharHeight(charPr), pageTextWidth))
	b.WriteString(`</hp:p>`)
	return b.String()
}

// equationParagraph emits a paragraph holding an equation object whose
// script is the translated formula.
func (c *Compiler) equationParagraph(latex string) string {
	script := TranslateMath(latex)
	var b strings.Builder
	fmt.Fprintf(&b, `<hp:p id="%d" paraPrIDRef="0" styleIDRef="0"`+
		` pageBreak="0" columnBreak="0" merged="0">`, c.nextParaID())
	fmt.Fprintf(&b, `<hp:run charPrIDRef="0">`+
		`<hp:equation version="eqEdit" baseLine="0"`+
		` textColor="#000000" baseUnit="1000" lineMode="0" font="">`+
		`<hp:script>%s</hp:script>`+
		`</hp:equation>`+
		`</hp:run>`, escapeXML(script))
	b.WriteString(`<hp:linesegarray>` +
		`<hp:lineseg textpos="0" vertpos="0" vertsize="1600"` +
		` textheight="1600" baseline="1360" spacing="400"` +
		` horzpos="0" horzsize="42520" flags="393216"/>` +
		`</hp:linesegarray>`)
	b.WriteString(`</hp:p>`)
	return b.String()
}

// titleBlock compiles the metadata title block: title and subtitle reuse
// the H1/H2 character sizes on the body paragraph style, author and date
// share one line joined by a separator.
func (c *Compiler) titleBlock(meta Metadata) []string {
	var parts []string
	normal := c.reg.NormalStyle()
	if meta.Title != "" {
		parts = append(parts, c.textParagraph(normal, charPrH1, meta.Title))
	}
	if meta.Subtitle != "" {
		parts = append(parts, c.textParagraph(normal, charPrH2, meta.Subtitle))
	}
	if meta.Author != "" || meta.Date != "" {
		fields := make([]string, 0, 2)
		if meta.Author != "" {
			fields = append(fields, meta.Author)
		}
		if meta.Date != "" {
			fields = append(fields, meta.Date)
		}
		parts = append(parts, c.textParagraph(normal, charPrBody, strings.Join(fields, " | ")))
	}
	if len(parts) > 0 {
		parts = append(parts, c.textParagraph(normal, charPrBody, ""))
	}
	return parts
}
