package hwpx

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// StyleRef bundles the three reference IDs a paragraph element carries:
// styleIDRef, paraPrIDRef and charPrIDRef.
type StyleRef struct {
	Style  int
	ParaPr int
	CharPr int
}

// Fixed style mapping the skeleton's outline styles provide. Levels 4-6
// share the level-3 character size; see HeadingStyle.
var headingStyles = map[int]StyleRef{
	1: {Style: 2, ParaPr: 2, CharPr: charPrH1},
	2: {Style: 3, ParaPr: 3, CharPr: charPrH2},
	3: {Style: 4, ParaPr: 4, CharPr: charPrH3},
	4: {Style: 5, ParaPr: 5, CharPr: charPrH3},
	5: {Style: 6, ParaPr: 6, CharPr: charPrH3},
	6: {Style: 7, ParaPr: 7, CharPr: charPrH3},
}

var (
	normalStyle  = StyleRef{Style: 0, ParaPr: 0, CharPr: 0}
	captionStyle = StyleRef{Style: 22, ParaPr: 19, CharPr: 0}
)

// Character property IDs injected into the skeleton's header, after the
// seven entries the skeleton ships with.
const (
	charPrBody = 0
	charPrH1   = 7
	charPrH2   = 8
	charPrH3   = 9
	charPrCode = 10

	// The skeleton's header.xml part carries this many charPr entries and
	// borderFill entries before injection.
	skeletonCharPrCount     = 7
	skeletonBorderFillCount = 2

	tableBorderFillID = 3
)

// Character heights in HWPUNIT (pt x 100).
const (
	charHeightBody = 1000
	charHeightH1   = 2200
	charHeightH2   = 1600
	charHeightH3   = 1300
)

// Font slots within each per-language fontface block. Slot 2 is the
// fixed-width face used by code runs.
const (
	fontRefBody = 0
	fontRefCode = 2
)

// Per-language primary font faces written over the skeleton's fontface
// blocks. Slot 2 always becomes D2Coding.
var langFontMap = map[string]string{
	"HANGUL":   "NanumSquareOTF",
	"LATIN":    "NimbusSanL",
	"HANJA":    "Noto Sans CJK KR",
	"JAPANESE": "Noto Sans CJK KR",
	"OTHER":    "NimbusSanL",
	"SYMBOL":   "STIX Two Text",
	"USER":     "NimbusSanL",
}

// Extra paragraph spacing (hc:prev, HWPUNIT) patched onto the skeleton's
// heading paraPr entries.
var headingSpacing = map[int]int{
	2: 800, // H1
	3: 600, // H2
	4: 400, // H3
}

// CharProps is the canonical property set identifying a character style.
// Two runs with equal CharProps always resolve to the same charPr ID within
// one conversion.
type CharProps struct {
	Height  int // HWPUNIT
	Bold    bool
	Italic  bool
	FontRef int
}

// BorderFillProps is the canonical property set identifying a border/fill
// style.
type BorderFillProps struct {
	LineType string // SOLID, NONE, ...
	Width    string // e.g. "0.12 mm"
}

type charEntry struct {
	id    int
	props CharProps
}

type borderFillEntry struct {
	id    int
	props BorderFillProps
}

// Registry owns character-property and border-fill ID allocation for a
// single conversion. It is pre-seeded with the fixed entries the compiler
// depends on (heading sizes, the code style, the table border) and hands out
// fresh IDs for any property set it has not seen. Allocation order follows
// document order, so identical input yields identical IDs.
type Registry struct {
	charIDs     map[CharProps]int
	charPending []charEntry
	nextCharID  int

	borderIDs     map[BorderFillProps]int
	borderPending []borderFillEntry
	nextBorderID  int

	heights map[int]int // charPr ID -> height, for the layout estimator
}

// NewRegistry creates a registry pre-seeded with the skeleton's known
// entries plus the fixed heading/code/table styles this compiler injects.
func NewRegistry() *Registry {
	r := &Registry{
		charIDs:      make(map[CharProps]int),
		borderIDs:    make(map[BorderFillProps]int),
		heights:      make(map[int]int),
		nextCharID:   charPrCode + 1,
		nextBorderID: tableBorderFillID + 1,
	}

	// charPr 0 already exists in the skeleton; the rest are injected by
	// MaterializeHeader.
	r.seedChar(charPrBody, CharProps{Height: charHeightBody, FontRef: fontRefBody}, false)
	r.seedChar(charPrH1, CharProps{Height: charHeightH1, Bold: true, FontRef: fontRefBody}, true)
	r.seedChar(charPrH2, CharProps{Height: charHeightH2, Bold: true, FontRef: fontRefBody}, true)
	r.seedChar(charPrH3, CharProps{Height: charHeightH3, FontRef: fontRefBody}, true)
	r.seedChar(charPrCode, CharProps{Height: charHeightBody, FontRef: fontRefCode}, true)

	r.borderIDs[tableBorderProps()] = tableBorderFillID
	r.borderPending = append(r.borderPending, borderFillEntry{id: tableBorderFillID, props: tableBorderProps()})

	return r
}

func tableBorderProps() BorderFillProps {
	return BorderFillProps{LineType: "SOLID", Width: "0.12 mm"}
}

func (r *Registry) seedChar(id int, props CharProps, materialize bool) {
	r.charIDs[props] = id
	r.heights[id] = props.Height
	if materialize {
		r.charPending = append(r.charPending, charEntry{id: id, props: props})
	}
}

// CharID returns the charPr ID for the given property set, allocating a new
// entry when no equivalent one exists yet.
func (r *Registry) CharID(props CharProps) int {
	if id, ok := r.charIDs[props]; ok {
		return id
	}
	id := r.nextCharID
	r.nextCharID++
	r.charIDs[props] = id
	r.heights[id] = props.Height
	r.charPending = append(r.charPending, charEntry{id: id, props: props})
	return id
}

// BorderFillID returns the borderFill ID for the given property set,
// allocating a new entry when no equivalent one exists yet.
func (r *Registry) BorderFillID(props BorderFillProps) int {
	if id, ok := r.borderIDs[props]; ok {
		return id
	}
	id := r.nextBorderID
	r.nextBorderID++
	r.borderIDs[props] = id
	r.borderPending = append(r.borderPending, borderFillEntry{id: id, props: props})
	return id
}

// TableBorderID returns the fixed solid border style applied to every table
// cell.
func (r *Registry) TableBorderID() int {
	return r.BorderFillID(tableBorderProps())
}

// CharHeight returns the character height for a charPr ID, defaulting to the
// body size for IDs the registry does not track.
func (r *Registry) CharHeight(charPrID int) int {
	if h, ok := r.heights[charPrID]; ok {
		return h
	}
	return charHeightBody
}

// HeadingStyle resolves a heading level to its fixed style references.
// Levels 4-6 collapse onto the level-3 character style; out-of-range levels
// fall back to the body style.
func (r *Registry) HeadingStyle(level int) StyleRef {
	if ref, ok := headingStyles[level]; ok {
		return ref
	}
	return normalStyle
}

// NormalStyle returns the body paragraph style references.
func (r *Registry) NormalStyle() StyleRef {
	return normalStyle
}

// CaptionStyle returns the style references used for table captions.
func (r *Registry) CaptionStyle() StyleRef {
	return captionStyle
}

var (
	fontfacePattern       = regexp.MustCompile(`(?s)<hh:fontface lang="(\w+)"[^>]*>.*?</hh:fontface>`)
	charPrCountPattern    = regexp.MustCompile(`(<hh:charProperties\s+itemCnt=")(\d+)(")`)
	borderFillCntPattern  = regexp.MustCompile(`(<hh:borderFillList\s+itemCnt=")(\d+)(")`)
	headingSpacingPattern = map[int]*regexp.Regexp{}
)

func init() {
	for paraPrID := range headingSpacing {
		headingSpacingPattern[paraPrID] = regexp.MustCompile(
			fmt.Sprintf(`(?s)(<hh:paraPr\s+id="%d"[^>]*>.*?<hc:prev\s+value=")0(")`, paraPrID))
	}
}

// MaterializeHeader patches the skeleton's header part: rewrites the
// per-language fontface blocks, appends every pending charPr and borderFill
// entry before the respective list closing tag, fixes the list counts, and
// applies heading spacing. The part is patched as raw text so the
// skeleton's namespace prefixes survive verbatim.
func (r *Registry) MaterializeHeader(headerXML string) (string, error) {
	if !strings.Contains(headerXML, "</hh:charProperties>") {
		return "", NewTemplateError(headerPart, "missing charProperties list")
	}
	if !strings.Contains(headerXML, "</hh:borderFillList>") {
		return "", NewTemplateError(headerPart, "missing borderFillList")
	}

	headerXML = fontfacePattern.ReplaceAllStringFunc(headerXML, func(block string) string {
		m := fontfacePattern.FindStringSubmatch(block)
		lang := m[1]
		primary, ok := langFontMap[lang]
		if !ok {
			primary = "NimbusSanL"
		}
		var b strings.Builder
		fmt.Fprintf(&b, `<hh:fontface lang="%s" fontCnt="3">`, lang)
		b.WriteString(fontXML(0, primary))
		b.WriteString(fontXML(1, primary))
		b.WriteString(fontXML(2, "D2Coding"))
		b.WriteString(`</hh:fontface>`)
		return b.String()
	})

	var newCharPr strings.Builder
	for _, e := range r.charPending {
		newCharPr.WriteString(charPrXML(e.id, e.props))
	}
	headerXML = strings.Replace(headerXML, "</hh:charProperties>", newCharPr.String()+"</hh:charProperties>", 1)
	headerXML = bumpItemCount(charPrCountPattern, headerXML, len(r.charPending))

	var newBorderFill strings.Builder
	for _, e := range r.borderPending {
		newBorderFill.WriteString(borderFillXML(e.id, e.props))
	}
	headerXML = strings.Replace(headerXML, "</hh:borderFillList>", newBorderFill.String()+"</hh:borderFillList>", 1)
	headerXML = bumpItemCount(borderFillCntPattern, headerXML, len(r.borderPending))

	for paraPrID, prev := range headingSpacing {
		headerXML = headingSpacingPattern[paraPrID].ReplaceAllString(
			headerXML, fmt.Sprintf("${1}%d${2}", prev))
	}

	return headerXML, nil
}

// bumpItemCount adds delta to the first itemCnt attribute the pattern
// matches.
func bumpItemCount(pattern *regexp.Regexp, xml string, delta int) string {
	replaced := false
	return pattern.ReplaceAllStringFunc(xml, func(match string) string {
		if replaced {
			return match
		}
		replaced = true
		m := pattern.FindStringSubmatch(match)
		count, err := strconv.Atoi(m[2])
		if err != nil {
			return match
		}
		return m[1] + strconv.Itoa(count+delta) + m[3]
	})
}

func fontXML(fontID int, face string) string {
	return fmt.Sprintf(`<hh:font id="%d" face="%s" type="TTF" isEmbedded="0">`+
		`<hh:typeInfo familyType="FCAT_GOTHIC" weight="6" proportion="4"`+
		` contrast="0" strokeVariation="1" armStyle="1" letterform="1"`+
		` midline="1" xHeight="1"/>`+
		`</hh:font>`, fontID, face)
}

func charPrXML(id int, props CharProps) string {
	var attrs strings.Builder
	if props.Bold {
		attrs.WriteString(` bold="1"`)
	}
	if props.Italic {
		attrs.WriteString(` italic="1"`)
	}
	return fmt.Sprintf(`<hh:charPr id="%d" height="%d"`+
		` textColor="#000000" shadeColor="none"`+
		` useFontSpace="0" useKerning="0" symMark="NONE"`+
		` borderFillIDRef="2"%[4]s>`+
		`<hh:fontRef hangul="%[3]d" latin="%[3]d"`+
		` hanja="%[3]d" japanese="%[3]d"`+
		` other="%[3]d" symbol="%[3]d" user="%[3]d"/>`+
		`<hh:ratio hangul="100" latin="100" hanja="100"`+
		` japanese="100" other="100" symbol="100" user="100"/>`+
		`<hh:spacing hangul="0" latin="0" hanja="0"`+
		` japanese="0" other="0" symbol="0" user="0"/>`+
		`<hh:relSz hangul="100" latin="100" hanja="100"`+
		` japanese="100" other="100" symbol="100" user="100"/>`+
		`<hh:offset hangul="0" latin="0" hanja="0"`+
		` japanese="0" other="0" symbol="0" user="0"/>`+
		`<hh:underline type="NONE" shape="SOLID" color="#000000"/>`+
		`<hh:strikeout shape="NONE" color="#000000"/>`+
		`<hh:outline type="NONE"/>`+
		`<hh:shadow type="NONE" color="#C0C0C0" offsetX="10" offsetY="10"/>`+
		`</hh:charPr>`, id, props.Height, props.FontRef, attrs.String())
}

func borderFillXML(id int, props BorderFillProps) string {
	return fmt.Sprintf(`<hh:borderFill id="%d" threeD="0" shadow="0"`+
		` centerLine="NONE" breakCellSeparateLine="0">`+
		`<hh:slash type="NONE" Crooked="0" isCounter="0"/>`+
		`<hh:backSlash type="NONE" Crooked="0" isCounter="0"/>`+
		`<hh:leftBorder type="%[2]s" width="%[3]s" color="#000000"/>`+
		`<hh:rightBorder type="%[2]s" width="%[3]s" color="#000000"/>`+
		`<hh:topBorder type="%[2]s" width="%[3]s" color="#000000"/>`+
		`<hh:bottomBorder type="%[2]s" width="%[3]s" color="#000000"/>`+
		`<hh:diagonal type="NONE" width="0.12 mm" color="#000000"/>`+
		`</hh:borderFill>`, id, props.LineType, props.Width)
}
