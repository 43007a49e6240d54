// Package hwpx compiles a generic block/inline document tree into an HWPX
// container, the packed-XML format consumed by the 한글 word processor.
//
// The tree usually arrives as a pandoc JSON AST; a Markdown front-end built
// on goldmark is available for driving conversions without pandoc. The
// compiler maps blocks and inlines onto HWPX paragraph, run, table and
// equation elements, allocates character-property and border-fill IDs
// through a per-conversion style registry, embeds approximated line-segment
// layout caches so 한글 displays the document without recomputing layout,
// and translates a LaTeX subset into the native equation script.
//
// # Quick Start
//
//	doc, err := hwpx.DecodePandoc(os.Stdin)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	err = hwpx.ConvertFile("Skeleton.hwpx", doc, "report.hwpx")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// # Skeleton patching
//
// The output is assembled by patching three parts of a skeleton archive as
// raw text — Contents/section0.xml, Contents/header.xml and
// Contents/content.hpf — and copying every other part through byte for
// byte. 한글 rejects documents whose namespace prefixes differ from the
// skeleton's, so the parts are never round-tripped through an XML object
// model. Every conversion gets its own registry and compiler; nothing is
// shared between conversions.
package hwpx
