package extract

import (
	"archive/zip"
	"encoding/xml"
	"io"
	"path"
	"strings"

	"golang.org/x/net/html"
)

// epubExtractor reads an EPUB's container, follows it to the OPF package
// document to recover spine order, then concatenates the text content of
// each spine item's XHTML in reading order. EPUB is itself a zip archive of
// XHTML plus an OPF manifest, so archive/zip and encoding/xml are the
// correct tools; no pure-Go EPUB library appears among the example repos.
type epubExtractor struct{}

func (epubExtractor) Extract(path string) (string, map[string]string, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return "", nil, err
	}
	defer zr.Close()

	opfPath, err := readContainer(&zr.Reader)
	if err != nil {
		return "", nil, err
	}

	pkg, err := readPackage(&zr.Reader, opfPath)
	if err != nil {
		return "", nil, err
	}

	base := path2Dir(opfPath)

	var out strings.Builder
	title := pkg.Metadata.Title

	for _, id := range pkg.Spine.ItemRefs {
		href, ok := pkg.manifestHref(id)
		if !ok {
			continue
		}

		full := joinZipPath(base, href)

		text, rerr := readZipEntryText(&zr.Reader, full)
		if rerr != nil {
			continue
		}

		out.WriteString(htmlToText(text))
		out.WriteByte('\n')
	}

	metadata := map[string]string{}
	if title != "" {
		metadata["title"] = title
	}

	return strings.TrimSpace(out.String()), metadata, nil
}

func path2Dir(p string) string {
	dir := path.Dir(p)
	if dir == "." {
		return ""
	}
	return dir
}

func joinZipPath(base, href string) string {
	if base == "" {
		return href
	}
	return path.Join(base, href)
}

// epubContainer models META-INF/container.xml, which points at the OPF
// package document's path within the archive.
type epubContainer struct {
	Rootfiles struct {
		Rootfile []struct {
			FullPath string `xml:"full-path,attr"`
		} `xml:"rootfile"`
	} `xml:"rootfiles"`
}

func readContainer(zr *zip.Reader) (string, error) {
	text, err := readZipEntryText(zr, "META-INF/container.xml")
	if err != nil {
		return "", err
	}

	var c epubContainer
	if err := xml.Unmarshal([]byte(text), &c); err != nil {
		return "", err
	}

	if len(c.Rootfiles.Rootfile) == 0 {
		return "", io.ErrUnexpectedEOF
	}

	return c.Rootfiles.Rootfile[0].FullPath, nil
}

// opfPackage models the subset of the OPF package document needed to
// resolve reading order: the manifest (id -> href) and the spine (ordered
// item ids).
type opfPackage struct {
	Metadata struct {
		Title string `xml:"title"`
	} `xml:"metadata"`
	Manifest struct {
		Items []struct {
			ID   string `xml:"id,attr"`
			Href string `xml:"href,attr"`
		} `xml:"item"`
	} `xml:"manifest"`
	Spine struct {
		ItemRefs []string `xml:"-"`
		Raw      []struct {
			IDRef string `xml:"idref,attr"`
		} `xml:"itemref"`
	} `xml:"spine"`
}

func (p *opfPackage) manifestHref(id string) (string, bool) {
	for _, item := range p.Manifest.Items {
		if item.ID == id {
			return item.Href, true
		}
	}
	return "", false
}

func readPackage(zr *zip.Reader, opfPath string) (*opfPackage, error) {
	text, err := readZipEntryText(zr, opfPath)
	if err != nil {
		return nil, err
	}

	var pkg opfPackage
	if err := xml.Unmarshal([]byte(text), &pkg); err != nil {
		return nil, err
	}

	for _, r := range pkg.Spine.Raw {
		pkg.Spine.ItemRefs = append(pkg.Spine.ItemRefs, r.IDRef)
	}

	return &pkg, nil
}

func readZipEntryText(zr *zip.Reader, name string) (string, error) {
	for _, f := range zr.File {
		if f.Name == name {
			rc, err := f.Open()
			if err != nil {
				return "", err
			}
			defer rc.Close()

			data, err := io.ReadAll(rc)
			if err != nil {
				return "", err
			}

			return string(data), nil
		}
	}

	return "", io.ErrUnexpectedEOF
}

// htmlToText walks an XHTML document's text nodes, skipping script/style
// elements, without requiring a <main> element the way web-page cleaning
// does: EPUB content documents are full chapter bodies, not app shells.
func htmlToText(input string) string {
	doc, err := html.Parse(strings.NewReader(input))
	if err != nil {
		return ""
	}

	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && (n.Data == "script" || n.Data == "style") {
			return
		}

		if n.Type == html.TextNode {
			b.WriteString(n.Data)
			b.WriteByte(' ')
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return collapseSpaces(b.String())
}

func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
