package ingest

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"strings"
)

const documentEntry = "word/document.xml"

// paragraph is one w:p element, flattened to text. pageBreak is set when
// the paragraph carries an explicit page break run.
type paragraph struct {
	text      string
	pageBreak bool
}

// ParseFile opens a .docx file and parses it into a Document.
func ParseFile(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open document: %w", err)
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat document: %w", err)
	}
	return Parse(f, info.Size(), path)
}

// Parse reads a .docx archive from r and parses its body text.
func Parse(r io.ReaderAt, size int64, name string) (*Document, error) {
	archive, err := zip.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("open docx archive: %w", err)
	}
	paras, err := documentParagraphs(archive)
	if err != nil {
		return nil, err
	}
	return parseDocument(paras, name)
}

// documentParagraphs walks word/document.xml and returns each paragraph's
// visible text in order. A w:br of type page (or a lastRenderedPageBreak
// marker) flags the paragraph so callers can split pages.
func documentParagraphs(archive *zip.Reader) ([]paragraph, error) {
	var entry *zip.File
	for _, f := range archive.File {
		if f.Name == documentEntry {
			entry = f
			break
		}
	}
	if entry == nil {
		return nil, fmt.Errorf("docx archive missing %s", documentEntry)
	}
	rc, err := entry.Open()
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", documentEntry, err)
	}
	defer rc.Close()

	decoder := xml.NewDecoder(rc)
	var (
		paras       []paragraph
		current     strings.Builder
		inParagraph bool
		inText      bool
		breakSeen   bool
	)
	for {
		token, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("decode %s: %w", documentEntry, err)
		}
		switch el := token.(type) {
		case xml.StartElement:
			switch el.Name.Local {
			case "p":
				inParagraph = true
				current.Reset()
				breakSeen = false
			case "t":
				inText = inParagraph
			case "br":
				for _, attr := range el.Attr {
					if attr.Name.Local == "type" && attr.Value == "page" {
						breakSeen = true
					}
				}
			case "lastRenderedPageBreak":
				breakSeen = true
			case "tab":
				if inParagraph {
					current.WriteByte(' ')
				}
			}
		case xml.EndElement:
			switch el.Name.Local {
			case "t":
				inText = false
			case "p":
				if inParagraph {
					paras = append(paras, paragraph{
						text:      strings.TrimSpace(current.String()),
						pageBreak: breakSeen,
					})
				}
				inParagraph = false
			}
		case xml.CharData:
			if inText {
				current.Write(el)
			}
		}
	}
	return paras, nil
}

// splitPages groups paragraphs into pages at explicit page breaks. The
// break belongs to the paragraph that starts the next page.
func splitPages(paras []paragraph) [][]string {
	var pages [][]string
	var current []string
	for _, p := range paras {
		if p.pageBreak && len(current) > 0 {
			pages = append(pages, current)
			current = nil
		}
		if p.text != "" {
			current = append(current, p.text)
		}
	}
	if len(current) > 0 {
		pages = append(pages, current)
	}
	return pages
}
