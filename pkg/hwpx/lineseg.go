package hwpx

import (
	"fmt"
	"strings"
)

// Text-area width of the skeleton's page in HWPUNIT (page width minus
// margins) and the default line spacing.
const (
	pageTextWidth  = 42520
	lineSpacingPct = 160
)

// Line segment flag bits. The consuming renderer marks the first and last
// line of each paragraph; a single-line paragraph carries both bits.
const (
	segFlagFirst = 0x20000
	segFlagLast  = 0x40000
)

// LineSeg is one precomputed layout-cache entry embedded per paragraph so
// the consuming renderer can display text without recomputing layout.
type LineSeg struct {
	TextPos    int
	VertPos    int
	VertSize   int
	TextHeight int
	Baseline   int
	Spacing    int
	HorzPos    int
	HorzSize   int
	Flags      int
}

// wideGlyph reports whether a code point takes a full character-height
// advance. Everything above U+2000 (CJK, fullwidth forms, symbols) is
// treated as wide; Latin-range glyphs advance at half height.
func wideGlyph(r rune) bool {
	return r > 0x2000
}

// EstimateLineSegs approximates the renderer's per-line layout cache for a
// text run: advances accumulate left to right (wide glyphs at charHeight,
// narrow at charHeight/2) and a new line starts whenever the accumulated
// width exceeds horzSize. The result is not glyph-accurate; it only has to
// be non-empty and monotonically consistent so the consuming application
// does not fall back to cache-less rendering. Empty text yields no entries.
func EstimateLineSegs(text string, charHeight, horzSize int) []LineSeg {
	if text == "" {
		return nil
	}

	spacing := charHeight * (lineSpacingPct - 100) / 100
	lineHeight := charHeight + spacing
	baseline := charHeight * 85 / 100

	runes := []rune(text)
	lineStarts := []int{0}
	currentWidth := 0
	for i, r := range runes {
		if wideGlyph(r) {
			currentWidth += charHeight
		} else {
			currentWidth += charHeight / 2
		}
		if currentWidth > horzSize && i+1 < len(runes) {
			lineStarts = append(lineStarts, i+1)
			currentWidth = 0
		}
	}

	segs := make([]LineSeg, 0, len(lineStarts))
	for idx, textPos := range lineStarts {
		flags := 0
		if idx == 0 {
			flags |= segFlagFirst
		}
		if idx == len(lineStarts)-1 {
			flags |= segFlagLast
		}
		segs = append(segs, LineSeg{
			TextPos:    textPos,
			VertPos:    idx * lineHeight,
			VertSize:   charHeight,
			TextHeight: charHeight,
			Baseline:   baseline,
			Spacing:    spacing,
			HorzPos:    0,
			HorzSize:   horzSize,
			Flags:      flags,
		})
	}
	return segs
}

// emptyLineSeg is the placeholder entry an empty paragraph embeds: the
// consuming client rejects a paragraph without any cache entry, so zero
// content still gets one zero-width line.
func emptyLineSeg(charHeight, horzSize int) LineSeg {
	spacing := charHeight * (lineSpacingPct - 100) / 100
	return LineSeg{
		VertSize:   charHeight,
		TextHeight: charHeight,
		Baseline:   charHeight * 85 / 100,
		Spacing:    spacing,
		HorzSize:   horzSize,
		Flags:      segFlagFirst | segFlagLast,
	}
}

// linesegArrayXML renders the hp:linesegarray element for a text run.
func linesegArrayXML(text string, charHeight, horzSize int) string {
	segs := EstimateLineSegs(text, charHeight, horzSize)
	if len(segs) == 0 {
		segs = []LineSeg{emptyLineSeg(charHeight, horzSize)}
	}

	var b strings.Builder
	b.WriteString("<hp:linesegarray>")
	for _, seg := range segs {
		fmt.Fprintf(&b,
			`<hp:lineseg textpos="%d" vertpos="%d" vertsize="%d"`+
				` textheight="%d" baseline="%d" spacing="%d"`+
				` horzpos="%d" horzsize="%d" flags="%d"/>`,
			seg.TextPos, seg.VertPos, seg.VertSize,
			seg.TextHeight, seg.Baseline, seg.Spacing,
			seg.HorzPos, seg.HorzSize, seg.Flags)
	}
	b.WriteString("</hp:linesegarray>")
	return b.String()
}
