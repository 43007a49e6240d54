package hwpx

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

// Part names inside the skeleton archive that the assembler regenerates.
// Every other part is copied through byte for byte.
const (
	sectionPart = "Contents/section0.xml"
	headerPart  = "Contents/header.xml"
	hpfPart     = "Contents/content.hpf"
)

// SkeletonReader indexes the parts of a skeleton archive. The archive is
// only ever read; assembly always produces a fresh container.
type SkeletonReader struct {
	reader *zip.Reader
	Parts  map[string]*zip.File
}

// NewSkeletonReader opens a skeleton archive and verifies the parts this
// converter patches are present.
func NewSkeletonReader(r io.ReaderAt, size int64) (*SkeletonReader, error) {
	zipReader, err := zip.NewReader(r, size)
	if err != nil {
		return nil, NewAssembleError("open", "", err)
	}

	sr := &SkeletonReader{
		reader: zipReader,
		Parts:  make(map[string]*zip.File),
	}
	for _, file := range zipReader.File {
		sr.Parts[file.Name] = file
	}

	for _, required := range []string{sectionPart, headerPart, hpfPart} {
		if _, ok := sr.Parts[required]; !ok {
			return nil, NewTemplateError(required, "part missing from skeleton archive")
		}
	}
	return sr, nil
}

// Part returns the content of a named part.
func (sr *SkeletonReader) Part(name string) (string, error) {
	file, ok := sr.Parts[name]
	if !ok {
		return "", NewTemplateError(name, "part not found")
	}
	rc, err := file.Open()
	if err != nil {
		return "", NewAssembleError("open", name, err)
	}
	defer rc.Close()

	content, err := io.ReadAll(rc)
	if err != nil {
		return "", NewAssembleError("read", name, err)
	}
	return string(content), nil
}

// buildSectionXML splices the compiled body into the skeleton's section
// part. The section opening tag and the skeleton's first paragraph (the
// carrier of the section definition) are preserved verbatim; the namespace
// prefixes must survive untouched or the consuming client treats the
// document as empty, which is why this is raw-text splicing and not
// structural re-serialization.
func buildSectionXML(original string, bodyParts []string) (string, error) {
	secStart := strings.Index(original, "<hs:sec")
	if secStart < 0 {
		return "", NewTemplateError(sectionPart, "missing hs:sec element")
	}
	secOpenEnd := strings.Index(original[secStart:], ">")
	if secOpenEnd < 0 {
		return "", NewTemplateError(sectionPart, "unterminated hs:sec open tag")
	}
	head := original[:secStart+secOpenEnd+1]

	firstPStart := strings.Index(original, "<hp:p ")
	if firstPStart < 0 {
		return "", NewTemplateError(sectionPart, "missing first paragraph")
	}
	firstPEnd := strings.Index(original[firstPStart:], "</hp:p>")
	if firstPEnd < 0 {
		return "", NewTemplateError(sectionPart, "unterminated first paragraph")
	}
	firstParagraph := original[firstPStart : firstPStart+firstPEnd+len("</hp:p>")]

	var b strings.Builder
	b.WriteString(head)
	b.WriteString(firstParagraph)
	for _, part := range bodyParts {
		b.WriteString(part)
	}
	b.WriteString("</hs:sec>")
	return b.String(), nil
}

var (
	hpfTitlePattern      = regexp.MustCompile(`(<opf:title)(?:/>|>(.*?)</opf:title>)`)
	hpfCreatorPattern    = hpfMetaPattern("creator")
	hpfLastSaveByPattern = hpfMetaPattern("lastsaveby")
	hpfModifiedPattern   = hpfMetaPattern("ModifiedDate")
	hpfDatePattern       = hpfMetaPattern("date")
)

func hpfMetaPattern(name string) *regexp.Regexp {
	return regexp.MustCompile(
		fmt.Sprintf(`(<opf:meta name="%s" content="text")(?:/>|>(.*?)</opf:meta>)`, name))
}

// replaceMetaTag rewrites the first matched metadata tag's text content,
// handling both the self-closing and the populated form.
func replaceMetaTag(xml string, pattern *regexp.Regexp, closing, value string) string {
	replaced := false
	return pattern.ReplaceAllStringFunc(xml, func(match string) string {
		if replaced {
			return match
		}
		replaced = true
		m := pattern.FindStringSubmatch(match)
		return m[1] + ">" + escapeXML(value) + closing
	})
}

// updateContentHPF patches the container metadata part: document title,
// creator, last-saved-by, the modification timestamp and the document date.
func updateContentHPF(hpfXML string, meta Metadata, now time.Time) string {
	if meta.Title != "" {
		hpfXML = replaceMetaTag(hpfXML, hpfTitlePattern, "</opf:title>", meta.Title)
	}
	if meta.Author != "" {
		hpfXML = replaceMetaTag(hpfXML, hpfCreatorPattern, "</opf:meta>", meta.Author)
		hpfXML = replaceMetaTag(hpfXML, hpfLastSaveByPattern, "</opf:meta>", meta.Author)
	}
	hpfXML = replaceMetaTag(hpfXML, hpfModifiedPattern, "</opf:meta>", now.Format("2006-01-02T15:04:05Z"))
	if meta.Date != "" {
		hpfXML = replaceMetaTag(hpfXML, hpfDatePattern, "</opf:meta>", meta.Date)
	}
	return hpfXML
}

// Convert compiles a document against a skeleton archive and returns the
// assembled container. The skeleton's entry order is preserved; only the
// section, header and metadata parts change.
func Convert(skeleton []byte, doc *Document) ([]byte, error) {
	sr, err := NewSkeletonReader(bytes.NewReader(skeleton), int64(len(skeleton)))
	if err != nil {
		return nil, err
	}

	sectionOriginal, err := sr.Part(sectionPart)
	if err != nil {
		return nil, err
	}
	headerOriginal, err := sr.Part(headerPart)
	if err != nil {
		return nil, err
	}
	hpfOriginal, err := sr.Part(hpfPart)
	if err != nil {
		return nil, err
	}

	reg := NewRegistry()
	compiler := NewCompiler(reg)
	bodyParts := compiler.Compile(doc)

	sectionXML, err := buildSectionXML(sectionOriginal, bodyParts)
	if err != nil {
		return nil, err
	}
	headerXML, err := reg.MaterializeHeader(headerOriginal)
	if err != nil {
		return nil, err
	}
	hpfXML := updateContentHPF(hpfOriginal, doc.Meta, time.Now().UTC())

	replaced := map[string][]byte{
		sectionPart: []byte(sectionXML),
		headerPart:  []byte(headerXML),
		hpfPart:     []byte(hpfXML),
	}

	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for _, file := range sr.reader.File {
		content, ok := replaced[file.Name]
		if !ok {
			rc, err := file.Open()
			if err != nil {
				return nil, NewAssembleError("open", file.Name, err)
			}
			content, err = io.ReadAll(rc)
			rc.Close()
			if err != nil {
				return nil, NewAssembleError("read", file.Name, err)
			}
		}

		fw, err := w.Create(file.Name)
		if err != nil {
			return nil, NewAssembleError("create", file.Name, err)
		}
		if _, err := fw.Write(content); err != nil {
			return nil, NewAssembleError("write", file.Name, err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, NewAssembleError("close", "", err)
	}

	GetLogger().Debug("assembled container: %d parts, %d body elements",
		len(sr.reader.File), len(bodyParts))
	return buf.Bytes(), nil
}

// ConvertFile reads a skeleton archive from templatePath and writes the
// assembled container to outputPath. The output is written to a temporary
// file in the destination directory and renamed into place, so a failed
// conversion never leaves a partial archive behind.
func ConvertFile(templatePath string, doc *Document, outputPath string) error {
	skeleton, err := os.ReadFile(templatePath)
	if err != nil {
		return NewAssembleError("read", templatePath, err)
	}

	out, err := Convert(skeleton, doc)
	if err != nil {
		return err
	}

	dir := filepath.Dir(outputPath)
	tmp, err := os.CreateTemp(dir, ".hwpx-*")
	if err != nil {
		return NewAssembleError("create", outputPath, err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(out); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return NewAssembleError("write", tmpPath, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return NewAssembleError("close", tmpPath, err)
	}
	if err := os.Rename(tmpPath, outputPath); err != nil {
		os.Remove(tmpPath)
		return NewAssembleError("rename", outputPath, err)
	}
	return nil
}
