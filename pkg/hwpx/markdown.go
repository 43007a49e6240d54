package hwpx

import (
	"bytes"
	"io"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// ParseMarkdown builds a document tree from Markdown source using goldmark.
// It covers the block and inline kinds this compiler maps; anything else
// degrades to its text content. The front-end exists so a conversion can be
// driven without a pandoc installation.
func ParseMarkdown(r io.Reader) (*Document, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, NewInputError("", "reading markdown source: "+err.Error())
	}

	md := goldmark.New()
	root := md.Parser().Parse(text.NewReader(src))

	return &Document{Blocks: mdBlocks(root, src)}, nil
}

func mdBlocks(parent ast.Node, src []byte) []Block {
	var blocks []Block
	for n := parent.FirstChild(); n != nil; n = n.NextSibling() {
		switch node := n.(type) {
		case *ast.Heading:
			level := node.Level
			if level > 6 {
				level = 6
			}
			blocks = append(blocks, &Heading{Level: level, Inlines: mdInlines(node, src)})

		case *ast.Paragraph:
			blocks = append(blocks, &Paragraph{Inlines: mdInlines(node, src)})

		case *ast.TextBlock:
			blocks = append(blocks, &Paragraph{Inlines: mdInlines(node, src)})

		case *ast.FencedCodeBlock:
			blocks = append(blocks, &CodeBlock{Text: mdCodeText(node, src)})

		case *ast.CodeBlock:
			blocks = append(blocks, &CodeBlock{Text: mdCodeText(node, src)})

		case *ast.List:
			items := make([][]Block, 0, node.ChildCount())
			for li := node.FirstChild(); li != nil; li = li.NextSibling() {
				items = append(items, mdBlocks(li, src))
			}
			if node.IsOrdered() {
				start := node.Start
				if start < 1 {
					start = 1
				}
				blocks = append(blocks, &OrderedList{Start: start, Items: items})
			} else {
				blocks = append(blocks, &BulletList{Items: items})
			}

		case *ast.Blockquote:
			blocks = append(blocks, &BlockQuote{Blocks: mdBlocks(node, src)})

		case *ast.ThematicBreak:
			blocks = append(blocks, &HorizontalRule{})

		case *ast.HTMLBlock:
			GetLogger().Warn("dropping raw HTML block")

		default:
			GetLogger().Debug("markdown: flattening unhandled block %s", n.Kind())
			if t := mdText(n, src); t != "" {
				blocks = append(blocks, &Paragraph{Inlines: []Inline{&Text{Text: t}}})
			}
		}
	}
	return blocks
}

func mdInlines(parent ast.Node, src []byte) []Inline {
	var inlines []Inline
	for n := parent.FirstChild(); n != nil; n = n.NextSibling() {
		switch node := n.(type) {
		case *ast.Text:
			inlines = append(inlines, &Text{Text: string(node.Segment.Value(src))})
			if node.HardLineBreak() {
				inlines = append(inlines, &LineBreak{})
			} else if node.SoftLineBreak() {
				inlines = append(inlines, &SoftBreak{})
			}

		case *ast.String:
			inlines = append(inlines, &Text{Text: string(node.Value)})

		case *ast.Emphasis:
			children := mdInlines(node, src)
			if node.Level >= 2 {
				inlines = append(inlines, &Strong{Inlines: children})
			} else {
				inlines = append(inlines, &Emphasis{Inlines: children})
			}

		case *ast.CodeSpan:
			inlines = append(inlines, &Code{Text: mdText(node, src)})

		case *ast.Link:
			inlines = append(inlines, &Link{
				Target:  string(node.Destination),
				Inlines: mdInlines(node, src),
			})

		case *ast.AutoLink:
			url := string(node.URL(src))
			inlines = append(inlines, &Link{
				Target:  url,
				Inlines: []Inline{&Text{Text: url}},
			})

		case *ast.Image:
			GetLogger().Warn("rendering image as its alt text: %s", string(node.Destination))
			inlines = append(inlines, &Span{Inlines: mdInlines(node, src)})

		case *ast.RawHTML:
			GetLogger().Debug("markdown: dropping raw inline HTML")

		default:
			if t := mdText(n, src); t != "" {
				inlines = append(inlines, &Text{Text: t})
			}
		}
	}
	return inlines
}

// mdText flattens a goldmark node to its text content.
func mdText(n ast.Node, src []byte) string {
	var buf bytes.Buffer
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if t, ok := c.(*ast.Text); ok {
			buf.Write(t.Segment.Value(src))
			if t.HardLineBreak() || t.SoftLineBreak() {
				buf.WriteByte('\n')
			}
		} else {
			buf.WriteString(mdText(c, src))
		}
	}
	return buf.String()
}

// mdCodeText joins the raw lines of a code block, trimming the trailing
// newline so line splitting in the compiler does not produce a spurious
// empty paragraph.
func mdCodeText(n ast.Node, src []byte) string {
	var buf bytes.Buffer
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		line := lines.At(i)
		buf.Write(line.Value(src))
	}
	return string(bytes.TrimSuffix(buf.Bytes(), []byte("\n")))
}
