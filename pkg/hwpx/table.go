package hwpx

import (
	"fmt"
	"strings"
)

const tableRowHeight = 1800

// compileTable builds the table element plus its trailing caption
// paragraph. Cell content is flattened to plain text; every cell
// references the registry's solid border style. Ragged rows are padded to
// the widest row.
func (c *Compiler) compileTable(t *Table) []string {
	colCount := 0
	rows := make([][]string, 0, len(t.Rows))
	for _, row := range t.Rows {
		texts := make([]string, 0, len(row.Cells))
		for _, cell := range row.Cells {
			texts = append(texts, cellText(cell))
		}
		if len(texts) > colCount {
			colCount = len(texts)
		}
		rows = append(rows, texts)
	}
	if colCount == 0 || len(rows) == 0 {
		return nil
	}
	for i := range rows {
		for len(rows[i]) < colCount {
			rows[i] = append(rows[i], "")
		}
	}

	var parts []string
	parts = append(parts, c.tableXML(rows, colCount, headerRowCount(t)))

	if caption := extractText(t.Caption); caption != "" {
		ref := c.reg.CaptionStyle()
		parts = append(parts, c.textParagraph(ref, ref.CharPr, caption))
	}
	return parts
}

func headerRowCount(t *Table) int {
	n := 0
	for _, row := range t.Rows {
		if !row.Header {
			break
		}
		n++
	}
	return n
}

func cellText(cell TableCell) string {
	var b strings.Builder
	for _, blk := range cell.Blocks {
		if p, ok := blk.(*Paragraph); ok {
			b.WriteString(extractText(p.Inlines))
		}
	}
	return b.String()
}

func (c *Compiler) tableXML(rows [][]string, colCount, headerRows int) string {
	anchorID := c.nextParaID()
	tblID := c.nextParaID()
	colWidth := pageTextWidth / colCount
	totalHeight := tableRowHeight * len(rows)
	bfid := c.reg.TableBorderID()

	var b strings.Builder
	fmt.Fprintf(&b, `<hp:p id="%d" paraPrIDRef="0" styleIDRef="0"`+
		` pageBreak="0" columnBreak="0" merged="0">`, anchorID)
	fmt.Fprintf(&b, `<hp:run charPrIDRef="0">`+
		`<hp:tbl id="%d" zOrder="0" numberingType="TABLE"`+
		` textWrap="TOP_AND_BOTTOM" textFlow="BOTH_SIDES" lock="0"`+
		` dropcapstyle="None" pageBreak="CELL" repeatHeader="0"`+
		` rowCnt="%d" colCnt="%d"`+
		` cellSpacing="0" borderFillIDRef="%d" noAdjust="0">`,
		tblID, len(rows), colCount, bfid)
	fmt.Fprintf(&b, `<hp:sz width="%d" widthRelTo="ABSOLUTE"`+
		` height="%d" heightRelTo="ABSOLUTE" protect="0"/>`,
		pageTextWidth, totalHeight)
	b.WriteString(`<hp:pos treatAsChar="1" affectLSpacing="0" flowWithText="1"` +
		` allowOverlap="0" holdAnchorAndSO="0" vertRelTo="PARA"` +
		` horzRelTo="COLUMN" vertAlign="TOP" horzAlign="CENTER"` +
		` vertOffset="0" horzOffset="0"/>`)
	b.WriteString(`<hp:outMargin left="0" right="0" top="141" bottom="141"/>`)
	b.WriteString(`<hp:inMargin left="0" right="0" top="0" bottom="0"/>`)

	for rowIdx, row := range rows {
		b.WriteString(`<hp:tr>`)
		for colIdx, text := range row {
			header := 0
			if rowIdx < headerRows {
				header = 1
			}
			cellParaID := c.nextParaID()
			fmt.Fprintf(&b, `<hp:tc name="" header="%d" hasMargin="0"`+
				` protect="0" editable="0" dirty="0" borderFillIDRef="%d">`,
				header, bfid)
			b.WriteString(`<hp:subList id="" textDirection="HORIZONTAL"` +
				` lineWrap="BREAK" vertAlign="CENTER"` +
				` linkListIDRef="0" linkListNextIDRef="0"` +
				` textWidth="0" textHeight="0"` +
				` hasTextRef="0" hasNumRef="0">`)
			fmt.Fprintf(&b, `<hp:p id="%d" paraPrIDRef="0" styleIDRef="0"`+
				` pageBreak="0" columnBreak="0" merged="0">`, cellParaID)
			fmt.Fprintf(&b, `<hp:run charPrIDRef="0"><hp:t>%s</hp:t></hp:run>`, escapeXML(text))
			b.WriteString(linesegArrayXML(text, charHeightBody, colWidth))
			b.WriteString(`</hp:p>`)
			b.WriteString(`</hp:subList>`)
			fmt.Fprintf(&b, `<hp:cellAddr colAddr="%d" rowAddr="%d"/>`, colIdx, rowIdx)
			b.WriteString(`<hp:cellSpan colSpan="1" rowSpan="1"/>`)
			fmt.Fprintf(&b, `<hp:cellSz width="%d" height="%d"/>`, colWidth, tableRowHeight)
			b.WriteString(`<hp:cellMargin left="141" right="141" top="141" bottom="141"/>`)
			b.WriteString(`</hp:tc>`)
		}
		b.WriteString(`</hp:tr>`)
	}

	b.WriteString(`</hp:tbl>`)
	b.WriteString(`<hp:t></hp:t></hp:run></hp:p>`)
	return b.String()
}
