package hwpx

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMarkdownHeadingsAndParagraphs(t *testing.T) {
	src := "# Title\n\nSome **bold** and *italic* text with `code`.\n"
	doc, err := ParseMarkdown(strings.NewReader(src))
	require.NoError(t, err)
	require.Len(t, doc.Blocks, 2)

	h, ok := doc.Blocks[0].(*Heading)
	require.True(t, ok)
	assert.Equal(t, 1, h.Level)
	assert.Equal(t, "Title", extractText(h.Inlines))

	p, ok := doc.Blocks[1].(*Paragraph)
	require.True(t, ok)

	var hasStrong, hasEmph, hasCode bool
	for _, in := range p.Inlines {
		switch n := in.(type) {
		case *Strong:
			hasStrong = true
			assert.Equal(t, "bold", extractText(n.Inlines))
		case *Emphasis:
			hasEmph = true
			assert.Equal(t, "italic", extractText(n.Inlines))
		case *Code:
			hasCode = true
			assert.Equal(t, "code", n.Text)
		}
	}
	assert.True(t, hasStrong)
	assert.True(t, hasEmph)
	assert.True(t, hasCode)
}

func TestParseMarkdownLists(t *testing.T) {
	src := "- one\n- two\n\n1. first\n2. second\n"
	doc, err := ParseMarkdown(strings.NewReader(src))
	require.NoError(t, err)
	require.Len(t, doc.Blocks, 2)

	bl, ok := doc.Blocks[0].(*BulletList)
	require.True(t, ok)
	require.Len(t, bl.Items, 2)
	assert.Equal(t, "one", extractText(bl.Items[0][0].(*Paragraph).Inlines))

	ol, ok := doc.Blocks[1].(*OrderedList)
	require.True(t, ok)
	assert.Equal(t, 1, ol.Start)
	require.Len(t, ol.Items, 2)
}

func TestParseMarkdownOrderedListStart(t *testing.T) {
	src := "5. five\n6. six\n"
	doc, err := ParseMarkdown(strings.NewReader(src))
	require.NoError(t, err)

	ol, ok := doc.Blocks[0].(*OrderedList)
	require.True(t, ok)
	assert.Equal(t, 5, ol.Start)
}

func TestParseMarkdownCodeBlock(t *testing.T) {
	src := "```\nfunc main() {}\n\nfmt.Println()\n```\n"
	doc, err := ParseMarkdown(strings.NewReader(src))
	require.NoError(t, err)
	require.Len(t, doc.Blocks, 1)

	cb, ok := doc.Blocks[0].(*CodeBlock)
	require.True(t, ok)
	assert.Equal(t, "func main() {}\n\nfmt.Println()", cb.Text)
}

func TestParseMarkdownBlockquoteAndRule(t *testing.T) {
	src := "> quoted text\n\n---\n"
	doc, err := ParseMarkdown(strings.NewReader(src))
	require.NoError(t, err)
	require.Len(t, doc.Blocks, 2)

	bq, ok := doc.Blocks[0].(*BlockQuote)
	require.True(t, ok)
	require.Len(t, bq.Blocks, 1)

	_, ok = doc.Blocks[1].(*HorizontalRule)
	assert.True(t, ok)
}

func TestParseMarkdownLink(t *testing.T) {
	src := "see [the docs](https://example.com)\n"
	doc, err := ParseMarkdown(strings.NewReader(src))
	require.NoError(t, err)

	p, ok := doc.Blocks[0].(*Paragraph)
	require.True(t, ok)

	var link *Link
	for _, in := range p.Inlines {
		if l, ok := in.(*Link); ok {
			link = l
		}
	}
	require.NotNil(t, link)
	assert.Equal(t, "https://example.com", link.Target)
	assert.Equal(t, "the docs", extractText(link.Inlines))
}

func TestParseMarkdownNestedList(t *testing.T) {
	src := "- outer\n  - inner\n"
	doc, err := ParseMarkdown(strings.NewReader(src))
	require.NoError(t, err)

	bl, ok := doc.Blocks[0].(*BulletList)
	require.True(t, ok)
	require.Len(t, bl.Items, 1)

	var nested *BulletList
	for _, blk := range bl.Items[0] {
		if l, ok := blk.(*BulletList); ok {
			nested = l
		}
	}
	require.NotNil(t, nested)
	assert.Equal(t, "inner", extractText(nested.Items[0][0].(*Paragraph).Inlines))
}

func TestParseMarkdownToConversion(t *testing.T) {
	src := "# Report\n\nSummary text\n"
	doc, err := ParseMarkdown(strings.NewReader(src))
	require.NoError(t, err)

	parts := NewCompiler(NewRegistry()).Compile(doc)
	require.Len(t, parts, 2)
	assert.Contains(t, parts[0], `<hp:t>Report</hp:t>`)
	assert.Contains(t, parts[1], `<hp:t>Summary text</hp:t>`)
}

func TestParseMarkdownImageDegradesWithWarning(t *testing.T) {
	original := GetLogger()
	defer SetLogger(original)

	var buf bytes.Buffer
	SetLogger(NewLogger(&buf, LogDebug))

	doc, err := ParseMarkdown(strings.NewReader("![diagram](figs/arch.png)\n"))
	require.NoError(t, err)

	para := doc.Blocks[0].(*Paragraph)
	span, ok := para.Inlines[0].(*Span)
	require.True(t, ok)
	assert.Equal(t, "diagram", extractText(span.Inlines))

	assert.Contains(t, buf.String(), "rendering image as its alt text: figs/arch.png")
}
