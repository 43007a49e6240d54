// test_helpers.go contains functions that are exposed only for testing purposes.
// These should not be used in production code.

package hwpx

import (
	"archive/zip"
	"bytes"
	"fmt"
	"strings"
)

type skeletonPart struct {
	name string
	data string
}

func testHeaderXML() string {
	var fontfaces strings.Builder
	for _, lang := range []string{"HANGUL", "LATIN", "HANJA", "JAPANESE", "OTHER", "SYMBOL", "USER"} {
		fmt.Fprintf(&fontfaces,
			`<hh:fontface lang="%s" fontCnt="2">`+
				`<hh:font id="0" face="HCR Dotum" type="TTF" isEmbedded="0"/>`+
				`<hh:font id="1" face="HCR Batang" type="TTF" isEmbedded="0"/>`+
				`</hh:fontface>`, lang)
	}

	var charPrs strings.Builder
	for id := 0; id < 7; id++ {
		fmt.Fprintf(&charPrs,
			`<hh:charPr id="%d" height="1000" textColor="#000000" shadeColor="none">`+
				`<hh:fontRef hangul="0" latin="0" hanja="0" japanese="0" other="0" symbol="0" user="0"/>`+
				`</hh:charPr>`, id)
	}

	var paraPrs strings.Builder
	for id := 0; id < 8; id++ {
		fmt.Fprintf(&paraPrs,
			`<hh:paraPr id="%d" tabPrIDRef="0" condense="0">`+
				`<hh:margin><hc:prev value="0" unit="HWPUNIT"/>`+
				`<hc:next value="0" unit="HWPUNIT"/></hh:margin>`+
				`</hh:paraPr>`, id)
	}

	return `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
		`<hh:head xmlns:hh="http://www.hancom.co.kr/hwpml/2011/head"` +
		` xmlns:hc="http://www.hancom.co.kr/hwpml/2011/core" version="1.31" secCnt="1">` +
		`<hh:refList>` +
		`<hh:fontfaces itemCnt="7">` + fontfaces.String() + `</hh:fontfaces>` +
		`<hh:borderFillList itemCnt="2">` +
		`<hh:borderFill id="1" threeD="0" shadow="0" centerLine="NONE" breakCellSeparateLine="0">` +
		`<hh:leftBorder type="NONE" width="0.1 mm" color="#000000"/>` +
		`</hh:borderFill>` +
		`<hh:borderFill id="2" threeD="0" shadow="0" centerLine="NONE" breakCellSeparateLine="0">` +
		`<hh:leftBorder type="NONE" width="0.1 mm" color="#000000"/>` +
		`</hh:borderFill>` +
		`</hh:borderFillList>` +
		`<hh:charProperties itemCnt="7">` + charPrs.String() + `</hh:charProperties>` +
		`<hh:paraProperties itemCnt="8">` + paraPrs.String() + `</hh:paraProperties>` +
		`</hh:refList>` +
		`</hh:head>`
}

func testSectionXML() string {
	return `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
		`<hs:sec xmlns:hs="http://www.hancom.co.kr/hwpml/2011/section"` +
		` xmlns:hp="http://www.hancom.co.kr/hwpml/2011/paragraph">` +
		`<hp:p id="0" paraPrIDRef="0" styleIDRef="0" pageBreak="0" columnBreak="0" merged="0">` +
		`<hp:run charPrIDRef="0">` +
		`<hp:secPr id="" textDirection="HORIZONTAL" spaceColumns="1134"/>` +
		`<hp:t></hp:t></hp:run>` +
		`</hp:p>` +
		`</hs:sec>`
}

func testContentHPF() string {
	return `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
		`<opf:package xmlns:opf="http://www.idpf.org/2007/opf/" version="" unique-identifier="" id="">` +
		`<opf:metadata>` +
		`<opf:title/>` +
		`<opf:language>ko</opf:language>` +
		`<opf:meta name="creator" content="text"/>` +
		`<opf:meta name="lastsaveby" content="text"/>` +
		`<opf:meta name="CreatedDate" content="text">2024-01-01T00:00:00Z</opf:meta>` +
		`<opf:meta name="ModifiedDate" content="text">2024-01-01T00:00:00Z</opf:meta>` +
		`<opf:meta name="date" content="text"/>` +
		`</opf:metadata>` +
		`</opf:package>`
}

func testSkeletonParts() []skeletonPart {
	return []skeletonPart{
		{"mimetype", "application/hwp+zip"},
		{"version.xml", `<?xml version="1.0" encoding="UTF-8" standalone="yes"?><hv:HCFVersion xmlns:hv="http://www.hancom.co.kr/hwpml/2011/version" tagetApplication="WORDPROCESSOR" major="5" minor="1"/>`},
		{"META-INF/container.xml", `<?xml version="1.0" encoding="UTF-8" standalone="yes"?><ocf:container xmlns:ocf="urn:oasis:names:tc:opendocument:xmlns:container"><ocf:rootfiles><ocf:rootfile full-path="Contents/content.hpf" media-type="application/hwpml-package+xml"/></ocf:rootfiles></ocf:container>`},
		{hpfPart, testContentHPF()},
		{headerPart, testHeaderXML()},
		{sectionPart, testSectionXML()},
		{"Contents/settings.xml", `<?xml version="1.0" encoding="UTF-8" standalone="yes"?><ha:HWPApplicationSetting xmlns:ha="http://www.hancom.co.kr/hwpml/2011/app"/>`},
		{"Preview/PrvText.txt", "preview text"},
	}
}

// buildTestSkeleton builds a minimal in-memory skeleton archive with the
// structure the assembler expects.
func buildTestSkeleton() []byte {
	return buildTestArchive(testSkeletonParts())
}

// buildTestSkeletonWithout builds a skeleton missing one named part.
func buildTestSkeletonWithout(name string) []byte {
	parts := make([]skeletonPart, 0, len(testSkeletonParts()))
	for _, p := range testSkeletonParts() {
		if p.name != name {
			parts = append(parts, p)
		}
	}
	return buildTestArchive(parts)
}

func buildTestArchive(parts []skeletonPart) []byte {
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for _, p := range parts {
		fw, err := w.Create(p.name)
		if err != nil {
			panic(err)
		}
		if _, err := fw.Write([]byte(p.data)); err != nil {
			panic(err)
		}
	}
	if err := w.Close(); err != nil {
		panic(err)
	}
	return buf.Bytes()
}
