package hwpx

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// pandocNode is the {"t": ..., "c": ...} shape every pandoc AST node uses.
type pandocNode struct {
	T string          `json:"t"`
	C json.RawMessage `json:"c"`
}

type pandocDoc struct {
	Meta   map[string]json.RawMessage `json:"meta"`
	Blocks []pandocNode               `json:"blocks"`
}

// DecodePandoc reads a pandoc JSON AST payload and builds the generic
// document tree. Shape violations abort with an InputError; node kinds
// without a mapping degrade to their textual content instead of failing.
func DecodePandoc(r io.Reader) (*Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, NewInputError("", fmt.Sprintf("reading payload: %v", err))
	}

	var raw pandocDoc
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, NewInputError("", fmt.Sprintf("malformed JSON payload: %v", err))
	}

	blocks, err := decodeBlocks(raw.Blocks)
	if err != nil {
		return nil, err
	}

	return &Document{
		Meta: Metadata{
			Title:    metaText(raw.Meta["title"]),
			Subtitle: metaText(raw.Meta["subtitle"]),
			Author:   metaText(raw.Meta["author"]),
			Date:     metaText(raw.Meta["date"]),
		},
		Blocks: blocks,
	}, nil
}

func decodeBlocks(nodes []pandocNode) ([]Block, error) {
	blocks := make([]Block, 0, len(nodes))
	for _, node := range nodes {
		block, err := decodeBlock(node)
		if err != nil {
			return nil, err
		}
		if block != nil {
			blocks = append(blocks, block)
		}
	}
	return blocks, nil
}

func decodeBlock(node pandocNode) (Block, error) {
	switch node.T {
	case "Para", "Plain":
		inlines, err := decodeInlineList(node.C, node.T)
		if err != nil {
			return nil, err
		}
		return &Paragraph{Inlines: inlines}, nil

	case "Header":
		// [level, attr, inlines]
		var parts []json.RawMessage
		if err := json.Unmarshal(node.C, &parts); err != nil || len(parts) < 3 {
			return nil, NewInputError("Header", "expected [level, attr, inlines]")
		}
		var level int
		if err := json.Unmarshal(parts[0], &level); err != nil {
			return nil, NewInputError("Header", "level is not a number")
		}
		if level < 1 {
			level = 1
		} else if level > 6 {
			level = 6
		}
		inlines, err := decodeInlineList(parts[2], "Header")
		if err != nil {
			return nil, err
		}
		return &Heading{Level: level, Inlines: inlines}, nil

	case "CodeBlock":
		// [attr, text]
		var parts []json.RawMessage
		if err := json.Unmarshal(node.C, &parts); err != nil || len(parts) < 2 {
			return nil, NewInputError("CodeBlock", "expected [attr, text]")
		}
		var text string
		if err := json.Unmarshal(parts[1], &text); err != nil {
			return nil, NewInputError("CodeBlock", "text is not a string")
		}
		return &CodeBlock{Text: text}, nil

	case "BulletList":
		var items []json.RawMessage
		if err := json.Unmarshal(node.C, &items); err != nil {
			return nil, NewInputError("BulletList", "expected list of items")
		}
		list := &BulletList{}
		for _, item := range items {
			blocks, err := decodeBlockList(item, "BulletList")
			if err != nil {
				return nil, err
			}
			list.Items = append(list.Items, blocks)
		}
		return list, nil

	case "OrderedList":
		// [[start, style, delim], items]
		var parts []json.RawMessage
		if err := json.Unmarshal(node.C, &parts); err != nil || len(parts) < 2 {
			return nil, NewInputError("OrderedList", "expected [attrs, items]")
		}
		var attrs []json.RawMessage
		start := 1
		if err := json.Unmarshal(parts[0], &attrs); err == nil && len(attrs) > 0 {
			var n int
			if err := json.Unmarshal(attrs[0], &n); err == nil {
				start = n
			}
		}
		var items []json.RawMessage
		if err := json.Unmarshal(parts[1], &items); err != nil {
			return nil, NewInputError("OrderedList", "expected list of items")
		}
		list := &OrderedList{Start: start}
		for _, item := range items {
			blocks, err := decodeBlockList(item, "OrderedList")
			if err != nil {
				return nil, err
			}
			list.Items = append(list.Items, blocks)
		}
		return list, nil

	case "BlockQuote":
		blocks, err := decodeBlockList(node.C, "BlockQuote")
		if err != nil {
			return nil, err
		}
		return &BlockQuote{Blocks: blocks}, nil

	case "Table":
		return decodeTable(node.C)

	case "HorizontalRule":
		return &HorizontalRule{}, nil

	case "Div":
		// [attr, blocks]
		var parts []json.RawMessage
		if err := json.Unmarshal(node.C, &parts); err != nil || len(parts) < 2 {
			return nil, NewInputError("Div", "expected [attr, blocks]")
		}
		blocks, err := decodeBlockList(parts[1], "Div")
		if err != nil {
			return nil, err
		}
		return &Div{Blocks: blocks}, nil

	case "DefinitionList":
		var items [][]json.RawMessage
		if err := json.Unmarshal(node.C, &items); err != nil {
			return nil, NewInputError("DefinitionList", "expected list of [term, definitions]")
		}
		list := &DefinitionList{}
		for _, item := range items {
			if len(item) < 2 {
				return nil, NewInputError("DefinitionList", "item missing term or definitions")
			}
			term, err := decodeInlineList(item[0], "DefinitionList")
			if err != nil {
				return nil, err
			}
			var defs []json.RawMessage
			if err := json.Unmarshal(item[1], &defs); err != nil {
				return nil, NewInputError("DefinitionList", "definitions are not a list")
			}
			di := DefinitionItem{Term: term}
			for _, def := range defs {
				blocks, err := decodeBlockList(def, "DefinitionList")
				if err != nil {
					return nil, err
				}
				di.Definitions = append(di.Definitions, blocks)
			}
			list.Items = append(list.Items, di)
		}
		return list, nil

	case "LineBlock":
		var lines []json.RawMessage
		if err := json.Unmarshal(node.C, &lines); err != nil {
			return nil, NewInputError("LineBlock", "expected list of lines")
		}
		lb := &LineBlock{}
		for _, line := range lines {
			inlines, err := decodeInlineList(line, "LineBlock")
			if err != nil {
				return nil, err
			}
			lb.Lines = append(lb.Lines, inlines)
		}
		return lb, nil

	default:
		GetLogger().Warn("dropping unsupported block type %q", node.T)
		return nil, nil
	}
}

func decodeBlockList(raw json.RawMessage, parent string) ([]Block, error) {
	var nodes []pandocNode
	if err := json.Unmarshal(raw, &nodes); err != nil {
		return nil, NewInputError(parent, "child blocks are not a list")
	}
	return decodeBlocks(nodes)
}

func decodeInlineList(raw json.RawMessage, parent string) ([]Inline, error) {
	var nodes []pandocNode
	if err := json.Unmarshal(raw, &nodes); err != nil {
		return nil, NewInputError(parent, "child inlines are not a list")
	}
	inlines := make([]Inline, 0, len(nodes))
	for _, node := range nodes {
		in, err := decodeInline(node)
		if err != nil {
			return nil, err
		}
		if in != nil {
			inlines = append(inlines, in)
		}
	}
	return inlines, nil
}

func decodeInline(node pandocNode) (Inline, error) {
	switch node.T {
	case "Str":
		var s string
		if err := json.Unmarshal(node.C, &s); err != nil {
			return nil, NewInputError("Str", "content is not a string")
		}
		return &Text{Text: s}, nil

	case "Space":
		return &Space{}, nil
	case "SoftBreak":
		return &SoftBreak{}, nil
	case "LineBreak":
		return &LineBreak{}, nil

	case "Strong":
		inlines, err := decodeInlineList(node.C, "Strong")
		if err != nil {
			return nil, err
		}
		return &Strong{Inlines: inlines}, nil

	case "Emph":
		inlines, err := decodeInlineList(node.C, "Emph")
		if err != nil {
			return nil, err
		}
		return &Emphasis{Inlines: inlines}, nil

	case "Code":
		// [attr, text]
		var parts []json.RawMessage
		if err := json.Unmarshal(node.C, &parts); err != nil || len(parts) < 2 {
			return nil, NewInputError("Code", "expected [attr, text]")
		}
		var text string
		if err := json.Unmarshal(parts[1], &text); err != nil {
			return nil, NewInputError("Code", "text is not a string")
		}
		return &Code{Text: text}, nil

	case "Link", "Image":
		// [attr, label, [target, title]]
		var parts []json.RawMessage
		if err := json.Unmarshal(node.C, &parts); err != nil || len(parts) < 3 {
			return nil, NewInputError(node.T, "expected [attr, label, target]")
		}
		label, err := decodeInlineList(parts[1], node.T)
		if err != nil {
			return nil, err
		}
		var target []string
		_ = json.Unmarshal(parts[2], &target)
		url := ""
		if len(target) > 0 {
			url = target[0]
		}
		if node.T == "Image" {
			// No image object mapping: the alt text carries through.
			GetLogger().Warn("rendering image as its alt text: %s", url)
			return &Span{Inlines: label}, nil
		}
		return &Link{Target: url, Inlines: label}, nil

	case "Quoted":
		// [quote-type, inlines]
		var parts []json.RawMessage
		if err := json.Unmarshal(node.C, &parts); err != nil || len(parts) < 2 {
			return nil, NewInputError("Quoted", "expected [type, inlines]")
		}
		var quoteType pandocNode
		double := true
		if err := json.Unmarshal(parts[0], &quoteType); err == nil && quoteType.T == "SingleQuote" {
			double = false
		}
		inlines, err := decodeInlineList(parts[1], "Quoted")
		if err != nil {
			return nil, err
		}
		return &Quoted{Double: double, Inlines: inlines}, nil

	case "Math":
		// [math-type, source]
		var parts []json.RawMessage
		if err := json.Unmarshal(node.C, &parts); err != nil || len(parts) < 2 {
			return nil, NewInputError("Math", "expected [kind, source]")
		}
		var kind pandocNode
		mathKind := InlineMath
		if err := json.Unmarshal(parts[0], &kind); err == nil && kind.T == "DisplayMath" {
			mathKind = DisplayMath
		}
		var src string
		if err := json.Unmarshal(parts[1], &src); err != nil {
			return nil, NewInputError("Math", "source is not a string")
		}
		return &Math{Kind: mathKind, Source: src}, nil

	case "Span":
		// [attr, inlines]
		var parts []json.RawMessage
		if err := json.Unmarshal(node.C, &parts); err != nil || len(parts) < 2 {
			return nil, NewInputError("Span", "expected [attr, inlines]")
		}
		inlines, err := decodeInlineList(parts[1], "Span")
		if err != nil {
			return nil, err
		}
		return &Span{Inlines: inlines}, nil

	case "Cite":
		// [citations, inlines] — citation text passes through
		var parts []json.RawMessage
		if err := json.Unmarshal(node.C, &parts); err != nil || len(parts) < 2 {
			return nil, NewInputError("Cite", "expected [citations, inlines]")
		}
		inlines, err := decodeInlineList(parts[1], "Cite")
		if err != nil {
			return nil, err
		}
		return &Span{Inlines: inlines}, nil

	case "Strikeout", "Superscript", "Subscript", "SmallCaps", "Underline":
		// No distinct mapping; children pass through unchanged.
		inlines, err := decodeInlineList(node.C, node.T)
		if err != nil {
			return nil, err
		}
		return &Span{Inlines: inlines}, nil

	default:
		GetLogger().Warn("dropping unsupported inline type %q", node.T)
		return nil, nil
	}
}

// decodeTable handles the pandoc table shape:
// [attr, caption, colspecs, head, bodies, foot].
func decodeTable(raw json.RawMessage) (Block, error) {
	var parts []json.RawMessage
	if err := json.Unmarshal(raw, &parts); err != nil || len(parts) < 5 {
		return nil, NewInputError("Table", "expected [attr, caption, colspecs, head, bodies]")
	}

	table := &Table{}

	// caption: [short, blocks]
	var caption []json.RawMessage
	if err := json.Unmarshal(parts[1], &caption); err == nil && len(caption) > 1 {
		var capBlocks []pandocNode
		if err := json.Unmarshal(caption[1], &capBlocks); err == nil {
			for _, cb := range capBlocks {
				if cb.T == "Para" || cb.T == "Plain" {
					inlines, err := decodeInlineList(cb.C, "Table")
					if err != nil {
						return nil, err
					}
					table.Caption = append(table.Caption, inlines...)
				}
			}
		}
	}

	// head: [attr, rows]
	var head []json.RawMessage
	if err := json.Unmarshal(parts[3], &head); err == nil && len(head) > 1 {
		rows, err := decodeTableRows(head[1], true)
		if err != nil {
			return nil, err
		}
		table.Rows = append(table.Rows, rows...)
	}

	// bodies: list of [attr, rowheadcols, headrows, rows]
	var bodies []json.RawMessage
	if err := json.Unmarshal(parts[4], &bodies); err == nil {
		for _, body := range bodies {
			var bodyParts []json.RawMessage
			if err := json.Unmarshal(body, &bodyParts); err != nil || len(bodyParts) < 4 {
				continue
			}
			rows, err := decodeTableRows(bodyParts[3], false)
			if err != nil {
				return nil, err
			}
			table.Rows = append(table.Rows, rows...)
		}
	}

	return table, nil
}

// decodeTableRows handles rows of shape [attr, cells], each cell being
// [attr, alignment, rowspan, colspan, blocks].
func decodeTableRows(raw json.RawMessage, header bool) ([]TableRow, error) {
	var rawRows []json.RawMessage
	if err := json.Unmarshal(raw, &rawRows); err != nil {
		return nil, NewInputError("Table", "rows are not a list")
	}
	rows := make([]TableRow, 0, len(rawRows))
	for _, rawRow := range rawRows {
		var rowParts []json.RawMessage
		if err := json.Unmarshal(rawRow, &rowParts); err != nil || len(rowParts) < 2 {
			return nil, NewInputError("Table", "expected row [attr, cells]")
		}
		var rawCells []json.RawMessage
		if err := json.Unmarshal(rowParts[1], &rawCells); err != nil {
			return nil, NewInputError("Table", "cells are not a list")
		}
		row := TableRow{Header: header}
		for _, rawCell := range rawCells {
			var cellParts []json.RawMessage
			if err := json.Unmarshal(rawCell, &cellParts); err != nil || len(cellParts) < 5 {
				return nil, NewInputError("Table", "expected cell [attr, align, rowspan, colspan, blocks]")
			}
			blocks, err := decodeBlockList(cellParts[4], "Table")
			if err != nil {
				return nil, err
			}
			row.Cells = append(row.Cells, TableCell{Blocks: blocks})
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// metaText flattens a pandoc metadata value to plain text. MetaList items
// join with ", "; unsupported shapes yield the empty string.
func metaText(raw json.RawMessage) string {
	if raw == nil {
		return ""
	}
	var node pandocNode
	if err := json.Unmarshal(raw, &node); err != nil {
		return ""
	}
	switch node.T {
	case "MetaString":
		var s string
		if err := json.Unmarshal(node.C, &s); err != nil {
			return ""
		}
		return s
	case "MetaInlines":
		inlines, err := decodeInlineList(node.C, "MetaInlines")
		if err != nil {
			return ""
		}
		return extractText(inlines)
	case "MetaList":
		var items []json.RawMessage
		if err := json.Unmarshal(node.C, &items); err != nil {
			return ""
		}
		texts := make([]string, 0, len(items))
		for _, item := range items {
			if t := metaText(item); t != "" {
				texts = append(texts, t)
			}
		}
		return strings.Join(texts, ", ")
	}
	return ""
}
