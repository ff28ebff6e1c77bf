package extract

import (
	"archive/zip"
	"encoding/xml"
	"io"
	"path"
	"strings"

	"golang.org/x/net/html"

	"rsvpd/internal/services"
)

type epubContainer struct {
	Rootfiles []struct {
		FullPath string `xml:"full-path,attr"`
	} `xml:"rootfiles>rootfile"`
}

type epubPackage struct {
	Manifest struct {
		Items []epubManifestItem `xml:"item"`
	} `xml:"manifest"`
	Spine struct {
		Itemrefs []struct {
			IDRef string `xml:"idref,attr"`
		} `xml:"itemref"`
	} `xml:"spine"`
}

type epubManifestItem struct {
	ID        string `xml:"id,attr"`
	Href      string `xml:"href,attr"`
	MediaType string `xml:"media-type,attr"`
}

// textFromEPUB walks the book's spine in document order, strips script and
// style elements from each content document, collapses internal whitespace,
// and joins item texts with a newline. Items with no text are skipped.
func textFromEPUB(path string) (string, error) {
	archive, err := zip.OpenReader(path)
	if err != nil {
		return "", services.Wrap(services.ErrFormat, "extract", "epub", "open archive", err)
	}
	defer archive.Close()

	docs, err := contentDocuments(&archive.Reader)
	if err != nil {
		return "", err
	}

	var parts []string
	for _, name := range docs {
		data, err := readZipFile(&archive.Reader, name)
		if err != nil {
			return "", services.Wrap(services.ErrExtraction, "extract", "epub", "read "+name, err)
		}
		text, err := htmlText(data)
		if err != nil {
			return "", services.Wrap(services.ErrFormat, "extract", "epub", "parse "+name, err)
		}
		if text == "" {
			continue
		}
		parts = append(parts, text)
	}

	return normalizeUTF8([]byte(strings.Join(parts, "\n")))
}

// contentDocuments resolves the archive's reading order: container.xml names
// the package document, whose spine orders the manifest's content items.
func contentDocuments(archive *zip.Reader) ([]string, error) {
	containerData, err := readZipFile(archive, "META-INF/container.xml")
	if err != nil {
		return nil, services.Wrap(services.ErrFormat, "extract", "epub", "missing container.xml", err)
	}

	var container epubContainer
	if err := xml.Unmarshal(containerData, &container); err != nil {
		return nil, services.Wrap(services.ErrFormat, "extract", "epub", "parse container.xml", err)
	}
	if len(container.Rootfiles) == 0 {
		return nil, services.Wrap(services.ErrFormat, "extract", "epub", "no package document declared", nil)
	}

	opfPath := container.Rootfiles[0].FullPath
	opfData, err := readZipFile(archive, opfPath)
	if err != nil {
		return nil, services.Wrap(services.ErrFormat, "extract", "epub", "missing package document", err)
	}

	var pkg epubPackage
	if err := xml.Unmarshal(opfData, &pkg); err != nil {
		return nil, services.Wrap(services.ErrFormat, "extract", "epub", "parse package document", err)
	}

	items := make(map[string]epubManifestItem, len(pkg.Manifest.Items))
	for _, item := range pkg.Manifest.Items {
		items[item.ID] = item
	}

	base := path.Dir(opfPath)
	var docs []string
	appendItem := func(item epubManifestItem) {
		if !isContentType(item.MediaType) || item.Href == "" {
			return
		}
		docs = append(docs, resolveHref(base, item.Href))
	}

	if len(pkg.Spine.Itemrefs) > 0 {
		for _, ref := range pkg.Spine.Itemrefs {
			if item, ok := items[ref.IDRef]; ok {
				appendItem(item)
			}
		}
	} else {
		// Spineless packages fall back to manifest order.
		for _, item := range pkg.Manifest.Items {
			appendItem(item)
		}
	}

	if len(docs) == 0 {
		return nil, services.Wrap(services.ErrFormat, "extract", "epub", "no content documents", nil)
	}
	return docs, nil
}

func isContentType(mediaType string) bool {
	switch strings.ToLower(strings.TrimSpace(mediaType)) {
	case "application/xhtml+xml", "text/html":
		return true
	default:
		return false
	}
}

func resolveHref(base, href string) string {
	if base == "." || base == "" {
		return path.Clean(href)
	}
	return path.Clean(path.Join(base, href))
}

func readZipFile(archive *zip.Reader, name string) ([]byte, error) {
	file, err := archive.Open(name)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return io.ReadAll(file)
}

// htmlText extracts visible text from an HTML document, removing script and
// style subtrees entirely and collapsing whitespace runs to single spaces.
func htmlText(data []byte) (string, error) {
	root, err := html.Parse(strings.NewReader(string(data)))
	if err != nil {
		return "", err
	}

	var builder strings.Builder
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if node.Type == html.ElementNode {
			switch node.Data {
			case "script", "style":
				return
			}
		}
		if node.Type == html.TextNode {
			builder.WriteString(node.Data)
			builder.WriteByte(' ')
		}
		for child := node.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(root)

	return strings.Join(strings.Fields(builder.String()), " "), nil
}
