package hwpx

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func compileBlocksForTest(blocks ...Block) []string {
	c := NewCompiler(NewRegistry())
	return c.compileBlocks(blocks, 0)
}

func inlineText(s string) []Inline {
	return []Inline{&Text{Text: s}}
}

func TestCompileHeadingStyles(t *testing.T) {
	tests := []struct {
		level      int
		wantParaPr string
		wantStyle  string
		wantCharPr string
	}{
		{1, `paraPrIDRef="2"`, `styleIDRef="2"`, `charPrIDRef="7"`},
		{2, `paraPrIDRef="3"`, `styleIDRef="3"`, `charPrIDRef="8"`},
		{3, `paraPrIDRef="4"`, `styleIDRef="4"`, `charPrIDRef="9"`},
		{4, `paraPrIDRef="5"`, `styleIDRef="5"`, `charPrIDRef="9"`},
		{5, `paraPrIDRef="6"`, `styleIDRef="6"`, `charPrIDRef="9"`},
		{6, `paraPrIDRef="7"`, `styleIDRef="7"`, `charPrIDRef="9"`},
	}
	for _, tt := range tests {
		parts := compileBlocksForTest(&Heading{Level: tt.level, Inlines: inlineText("Title")})
		require.Len(t, parts, 1, "level %d", tt.level)
		assert.Contains(t, parts[0], tt.wantParaPr)
		assert.Contains(t, parts[0], tt.wantStyle)
		assert.Contains(t, parts[0], tt.wantCharPr)
	}
}

func TestCompileHeadingLinesegHeight(t *testing.T) {
	parts := compileBlocksForTest(&Heading{Level: 1, Inlines: inlineText("Report")})
	require.Len(t, parts, 1)
	assert.Contains(t, parts[0], `vertsize="2200"`)
}

func TestCompileParagraphPlainText(t *testing.T) {
	parts := compileBlocksForTest(&Paragraph{Inlines: []Inline{
		&Text{Text: "Hello"}, &Space{}, &Text{Text: "world"},
	}})
	require.Len(t, parts, 1)
	assert.Contains(t, parts[0], `<hp:t>Hello world</hp:t>`)
	assert.Contains(t, parts[0], `charPrIDRef="0"`)
}

func TestCompileStrongEmphasisRuns(t *testing.T) {
	parts := compileBlocksForTest(&Paragraph{Inlines: []Inline{
		&Text{Text: "plain "},
		&Strong{Inlines: inlineText("bold")},
		&Emphasis{Inlines: []Inline{
			&Text{Text: "italic "},
			&Strong{Inlines: inlineText("both")},
		}},
	}})
	require.Len(t, parts, 1)

	// plain→0, bold→11, italic→12, bold+italic→13, in document order.
	assert.Contains(t, parts[0], `<hp:run charPrIDRef="0"><hp:t>plain </hp:t></hp:run>`)
	assert.Contains(t, parts[0], `<hp:run charPrIDRef="11"><hp:t>bold</hp:t></hp:run>`)
	assert.Contains(t, parts[0], `<hp:run charPrIDRef="12"><hp:t>italic </hp:t></hp:run>`)
	assert.Contains(t, parts[0], `<hp:run charPrIDRef="13"><hp:t>both</hp:t></hp:run>`)
}

func TestCompileInlineCode(t *testing.T) {
	parts := compileBlocksForTest(&Paragraph{Inlines: []Inline{
		&Text{Text: "run "},
		&Code{Text: "go test"},
	}})
	require.Len(t, parts, 1)
	assert.Contains(t, parts[0], `<hp:run charPrIDRef="10"><hp:t>go test</hp:t></hp:run>`)
}

func TestCompileLinkLabelOnly(t *testing.T) {
	parts := compileBlocksForTest(&Paragraph{Inlines: []Inline{
		&Link{Target: "https://example.com/secret", Inlines: inlineText("the docs")},
	}})
	require.Len(t, parts, 1)
	assert.Contains(t, parts[0], "the docs")
	assert.NotContains(t, parts[0], "example.com")
}

func TestCompileQuoted(t *testing.T) {
	parts := compileBlocksForTest(&Paragraph{Inlines: []Inline{
		&Quoted{Double: true, Inlines: inlineText("word")},
		&Quoted{Double: false, Inlines: inlineText("other")},
	}})
	require.Len(t, parts, 1)
	assert.Contains(t, parts[0], "“word”")
	assert.Contains(t, parts[0], "‘other’")
}

func TestCompileCodeBlockSplitsLines(t *testing.T) {
	parts := compileBlocksForTest(&CodeBlock{Text: "line one\n\nline three"})
	require.Len(t, parts, 3)
	for _, p := range parts {
		assert.Contains(t, p, `charPrIDRef="10"`)
	}
	assert.Contains(t, parts[0], `<hp:t>line one</hp:t>`)
	// The empty middle line still produces a paragraph.
	assert.Contains(t, parts[1], `<hp:t></hp:t>`)
	assert.Contains(t, parts[2], `<hp:t>line three</hp:t>`)
}

func TestCompileBulletList(t *testing.T) {
	parts := compileBlocksForTest(&BulletList{Items: [][]Block{
		{&Paragraph{Inlines: inlineText("first")}},
		{&Paragraph{Inlines: inlineText("second")}},
	}})
	require.Len(t, parts, 2)
	assert.Contains(t, parts[0], `<hp:t>• first</hp:t>`)
	assert.Contains(t, parts[1], `<hp:t>• second</hp:t>`)
}

func TestCompileListItemStartingWithEquation(t *testing.T) {
	parts := compileBlocksForTest(&BulletList{Items: [][]Block{
		{&Paragraph{Inlines: []Inline{&Math{Kind: DisplayMath, Source: `E = mc^2`}}}},
	}})
	// The equation paragraph has no text run to carry the marker, so the
	// marker gets a paragraph of its own ahead of it.
	require.Len(t, parts, 2)
	assert.Contains(t, parts[0], `<hp:t>• </hp:t>`)
	assert.Contains(t, parts[1], `<hp:script>E = mc^2</hp:script>`)
	assert.NotContains(t, parts[1], `• `)
}

func TestCompileOrderedListNumbering(t *testing.T) {
	parts := compileBlocksForTest(
		&OrderedList{Start: 1, Items: [][]Block{
			{&Paragraph{Inlines: inlineText("a")}},
			{&Paragraph{Inlines: inlineText("b")}},
			{&Paragraph{Inlines: inlineText("c")}},
		}},
		&OrderedList{Start: 1, Items: [][]Block{
			{&Paragraph{Inlines: inlineText("x")}},
		}},
	)
	require.Len(t, parts, 4)
	assert.Contains(t, parts[0], `<hp:t>1. a</hp:t>`)
	assert.Contains(t, parts[1], `<hp:t>2. b</hp:t>`)
	assert.Contains(t, parts[2], `<hp:t>3. c</hp:t>`)
	// The counter resets for each new list.
	assert.Contains(t, parts[3], `<hp:t>1. x</hp:t>`)
}

func TestCompileOrderedListHonorsStart(t *testing.T) {
	parts := compileBlocksForTest(&OrderedList{Start: 3, Items: [][]Block{
		{&Paragraph{Inlines: inlineText("a")}},
		{&Paragraph{Inlines: inlineText("b")}},
	}})
	require.Len(t, parts, 2)
	assert.Contains(t, parts[0], `<hp:t>3. a</hp:t>`)
	assert.Contains(t, parts[1], `<hp:t>4. b</hp:t>`)
}

func TestCompileNestedListIndents(t *testing.T) {
	parts := compileBlocksForTest(&BulletList{Items: [][]Block{
		{
			&Paragraph{Inlines: inlineText("outer")},
			&BulletList{Items: [][]Block{
				{&Paragraph{Inlines: inlineText("inner")}},
			}},
		},
	}})
	require.Len(t, parts, 2)
	assert.Contains(t, parts[0], `<hp:t>• outer</hp:t>`)
	assert.Contains(t, parts[1], "<hp:t>　• inner</hp:t>")
}

func TestCompileBlockQuoteIndents(t *testing.T) {
	parts := compileBlocksForTest(&BlockQuote{Blocks: []Block{
		&Paragraph{Inlines: inlineText("quoted")},
	}})
	require.Len(t, parts, 1)
	assert.Contains(t, parts[0], "<hp:t>　quoted</hp:t>")
}

func TestCompileHorizontalRule(t *testing.T) {
	parts := compileBlocksForTest(&HorizontalRule{})
	require.Len(t, parts, 1)
	assert.Contains(t, parts[0], strings.Repeat("━", 30))
}

func TestCompileDivIsTransparent(t *testing.T) {
	parts := compileBlocksForTest(&Div{Blocks: []Block{
		&Paragraph{Inlines: inlineText("inside")},
	}})
	require.Len(t, parts, 1)
	assert.Contains(t, parts[0], `<hp:t>inside</hp:t>`)
}

func TestCompileDefinitionList(t *testing.T) {
	parts := compileBlocksForTest(&DefinitionList{Items: []DefinitionItem{
		{
			Term: inlineText("term"),
			Definitions: [][]Block{
				{&Paragraph{Inlines: inlineText("definition")}},
			},
		},
	}})
	require.Len(t, parts, 2)
	// The term renders bold through a dynamically allocated charPr.
	assert.Contains(t, parts[0], `charPrIDRef="11"`)
	assert.Contains(t, parts[0], `<hp:t>term</hp:t>`)
	assert.Contains(t, parts[1], "<hp:t>　definition</hp:t>")
}

func TestCompileLineBlock(t *testing.T) {
	parts := compileBlocksForTest(&LineBlock{Lines: [][]Inline{
		inlineText("first line"),
		inlineText("second line"),
	}})
	require.Len(t, parts, 2)
	assert.Contains(t, parts[0], `<hp:t>first line</hp:t>`)
	assert.Contains(t, parts[1], `<hp:t>second line</hp:t>`)
}

func TestCompileStandaloneMathBecomesEquation(t *testing.T) {
	parts := compileBlocksForTest(&Paragraph{Inlines: []Inline{
		&Math{Kind: DisplayMath, Source: `\frac{x}{y}`},
	}})
	require.Len(t, parts, 1)
	assert.Contains(t, parts[0], `<hp:equation`)
	assert.Contains(t, parts[0], `<hp:script>{x} over {y}</hp:script>`)
}

func TestCompileMixedMathRendersAsText(t *testing.T) {
	parts := compileBlocksForTest(&Paragraph{Inlines: []Inline{
		&Text{Text: "where "},
		&Math{Kind: InlineMath, Source: "x"},
		&Text{Text: " holds"},
	}})
	require.Len(t, parts, 1)
	assert.NotContains(t, parts[0], `<hp:equation`)
	assert.Contains(t, parts[0], `<hp:t>where x holds</hp:t>`)
}

func TestCompileXMLEscaping(t *testing.T) {
	parts := compileBlocksForTest(&Paragraph{Inlines: inlineText(`a < b & "c"`)})
	require.Len(t, parts, 1)
	assert.Contains(t, parts[0], `a &lt; b &amp; &quot;c&quot;`)
}

func TestCompileTable(t *testing.T) {
	table := &Table{
		Caption: inlineText("Quarterly results"),
		Rows: []TableRow{
			{Header: true, Cells: []TableCell{
				{Blocks: []Block{&Paragraph{Inlines: inlineText("Q")}}},
				{Blocks: []Block{&Paragraph{Inlines: inlineText("Revenue")}}},
			}},
			{Cells: []TableCell{
				{Blocks: []Block{&Paragraph{Inlines: inlineText("Q1")}}},
			}},
		},
	}
	c := NewCompiler(NewRegistry())
	parts := c.compileTable(table)
	require.Len(t, parts, 2)

	tbl := parts[0]
	assert.Contains(t, tbl, `rowCnt="2" colCnt="2"`)
	assert.Contains(t, tbl, `borderFillIDRef="3"`)
	assert.Contains(t, tbl, `header="1"`)
	assert.Contains(t, tbl, `<hp:t>Revenue</hp:t>`)
	// The short second row pads to the full column count.
	assert.Equal(t, 4, strings.Count(tbl, "<hp:tc "))

	// The caption trails the table.
	assert.Contains(t, parts[1], `<hp:t>Quarterly results</hp:t>`)
	assert.Contains(t, parts[1], `styleIDRef="22"`)
}

func TestCompileEmptyTableProducesNothing(t *testing.T) {
	c := NewCompiler(NewRegistry())
	assert.Empty(t, c.compileTable(&Table{}))
}

func TestCompileTitleBlock(t *testing.T) {
	c := NewCompiler(NewRegistry())
	parts := c.titleBlock(Metadata{
		Title:    "Annual Report",
		Subtitle: "FY2025",
		Author:   "Kim",
		Date:     "2025-03-01",
	})
	require.Len(t, parts, 4)
	assert.Contains(t, parts[0], `charPrIDRef="7"`)
	assert.Contains(t, parts[0], `<hp:t>Annual Report</hp:t>`)
	assert.Contains(t, parts[1], `charPrIDRef="8"`)
	assert.Contains(t, parts[2], `<hp:t>Kim | 2025-03-01</hp:t>`)
	// Trailing blank separator paragraph.
	assert.Contains(t, parts[3], `<hp:t></hp:t>`)
}

func TestCompileTitleBlockAuthorOnly(t *testing.T) {
	c := NewCompiler(NewRegistry())
	parts := c.titleBlock(Metadata{Author: "Kim"})
	require.Len(t, parts, 2)
	assert.Contains(t, parts[0], `<hp:t>Kim</hp:t>`)
}

func TestCompileEmptyMetadataNoTitleBlock(t *testing.T) {
	c := NewCompiler(NewRegistry())
	assert.Empty(t, c.titleBlock(Metadata{}))
}

func TestCompileEmptyDocument(t *testing.T) {
	c := NewCompiler(NewRegistry())
	parts := c.Compile(&Document{})
	require.Len(t, parts, 1)
	assert.Contains(t, parts[0], `<hp:t></hp:t>`)
}

func TestCompileDeterministic(t *testing.T) {
	doc := &Document{
		Meta: Metadata{Title: "Doc"},
		Blocks: []Block{
			&Heading{Level: 1, Inlines: inlineText("One")},
			&Paragraph{Inlines: []Inline{
				&Strong{Inlines: inlineText("bold")},
				&Emphasis{Inlines: inlineText("italic")},
			}},
		},
	}

	first := NewCompiler(NewRegistry()).Compile(doc)
	second := NewCompiler(NewRegistry()).Compile(doc)
	assert.Equal(t, first, second)
}

func TestCompileEndToEndScenario(t *testing.T) {
	doc := &Document{Blocks: []Block{
		&Heading{Level: 1, Inlines: inlineText("Report")},
		&Paragraph{Inlines: inlineText("Summary text")},
		&Paragraph{Inlines: []Inline{&Math{Kind: DisplayMath, Source: `\frac{x}{y}`}}},
	}}

	parts := NewCompiler(NewRegistry()).Compile(doc)
	require.Len(t, parts, 3)

	assert.Contains(t, parts[0], `styleIDRef="2"`)
	assert.Contains(t, parts[0], `charPrIDRef="7"`)
	assert.Contains(t, parts[0], `<hp:t>Report</hp:t>`)

	assert.Contains(t, parts[1], `<hp:t>Summary text</hp:t>`)
	assert.Equal(t, 1, strings.Count(parts[1], "<hp:lineseg "))

	assert.Contains(t, parts[2], `<hp:script>{x} over {y}</hp:script>`)
}
