package extract

import (
	"archive/zip"
	"encoding/xml"
	"io"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// officeKind distinguishes the OOXML part layout of the three Office
// formats this extractor understands.
type officeKind int

const (
	officeDocx officeKind = iota
	officePptx
	officeXlsx
)

// officeExtractor reads text runs out of an OOXML document (itself a zip
// archive of XML parts), the same way the EPUB extractor reads XHTML
// content documents. No pure-Go Office document library appears among the
// example repos, so archive/zip plus encoding/xml is the grounded choice
// here too.
type officeExtractor struct {
	kind officeKind
}

var slideFilePattern = regexp.MustCompile(`^ppt/slides/slide(\d+)\.xml$`)
var sheetFilePattern = regexp.MustCompile(`^xl/worksheets/sheet(\d+)\.xml$`)

func (e officeExtractor) Extract(path string) (string, map[string]string, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return "", nil, err
	}
	defer zr.Close()

	switch e.kind {
	case officeDocx:
		return extractDocx(&zr.Reader)
	case officePptx:
		return extractPptx(&zr.Reader)
	case officeXlsx:
		return extractXlsx(&zr.Reader)
	default:
		return "", nil, io.ErrUnexpectedEOF
	}
}

// wordBody models word/document.xml's text runs: <w:t> elements carry the
// visible text, interspersed with formatting markup this extractor ignores.
type wordBody struct {
	Paragraphs []struct {
		Runs []struct {
			Text string `xml:"t"`
		} `xml:"r"`
	} `xml:"body>p"`
}

func extractDocx(zr *zip.Reader) (string, map[string]string, error) {
	text, err := readZipEntryText(zr, "word/document.xml")
	if err != nil {
		return "", nil, err
	}

	var body wordBody
	if err := xml.Unmarshal([]byte(text), &body); err != nil {
		return "", nil, err
	}

	var b strings.Builder
	for _, p := range body.Paragraphs {
		for _, r := range p.Runs {
			b.WriteString(r.Text)
		}
		b.WriteByte('\n')
	}

	return strings.TrimSpace(b.String()), nil, nil
}

// slideText models a presentation slide's <a:t> text runs.
type slideText struct {
	Texts []string `xml:"cSld>spTree>sp>txBody>p>r>t"`
}

func extractPptx(zr *zip.Reader) (string, map[string]string, error) {
	var names []string
	for _, f := range zr.File {
		if slideFilePattern.MatchString(f.Name) {
			names = append(names, f.Name)
		}
	}

	sort.Slice(names, func(i, j int) bool {
		return slideNumber(names[i]) < slideNumber(names[j])
	})

	var b strings.Builder
	for _, name := range names {
		text, err := readZipEntryText(zr, name)
		if err != nil {
			continue
		}

		var slide slideText
		if err := xml.Unmarshal([]byte(text), &slide); err != nil {
			continue
		}

		b.WriteString(strings.Join(slide.Texts, " "))
		b.WriteByte('\n')
	}

	return strings.TrimSpace(b.String()), map[string]string{
		"slides": strconv.Itoa(len(names)),
	}, nil
}

func slideNumber(name string) int {
	m := slideFilePattern.FindStringSubmatch(name)
	if m == nil {
		return 0
	}
	n, _ := strconv.Atoi(m[1])
	return n
}

// sharedStrings models xl/sharedStrings.xml, the deduplicated string pool
// worksheet cells reference by index.
type sharedStrings struct {
	Items []struct {
		Text string `xml:"t"`
	} `xml:"si"`
}

// worksheet models a sheet's cell rows; a cell's value is either an inline
// string, a shared-string index (t="s"), or a raw number.
type worksheet struct {
	Rows []struct {
		Cells []struct {
			Type  string `xml:"t,attr"`
			Value string `xml:"v"`
		} `xml:"c"`
	} `xml:"sheetData>row"`
}

func extractXlsx(zr *zip.Reader) (string, map[string]string, error) {
	var shared []string
	if text, err := readZipEntryText(zr, "xl/sharedStrings.xml"); err == nil {
		var ss sharedStrings
		if xml.Unmarshal([]byte(text), &ss) == nil {
			for _, item := range ss.Items {
				shared = append(shared, item.Text)
			}
		}
	}

	var sheetNames []string
	for _, f := range zr.File {
		if sheetFilePattern.MatchString(f.Name) {
			sheetNames = append(sheetNames, f.Name)
		}
	}
	sort.Strings(sheetNames)

	var b strings.Builder
	for _, name := range sheetNames {
		text, err := readZipEntryText(zr, name)
		if err != nil {
			continue
		}

		var sheet worksheet
		if err := xml.Unmarshal([]byte(text), &sheet); err != nil {
			continue
		}

		for _, row := range sheet.Rows {
			var cells []string
			for _, c := range row.Cells {
				if c.Type == "s" {
					idx, err := strconv.Atoi(c.Value)
					if err == nil && idx >= 0 && idx < len(shared) {
						cells = append(cells, shared[idx])
						continue
					}
				}
				cells = append(cells, c.Value)
			}
			b.WriteString(strings.Join(cells, " "))
			b.WriteByte('\n')
		}
	}

	return strings.TrimSpace(b.String()), map[string]string{
		"sheets": strconv.Itoa(len(sheetNames)),
	}, nil
}
