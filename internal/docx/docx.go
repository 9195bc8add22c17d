package docx

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

// Document is the flattened text content of one .docx package: body-level
// paragraphs in document order, plus every table as a grid of cell strings.
// Paragraphs that live inside table cells appear only in Tables.
type Document struct {
	Paragraphs []string
	Tables     [][][]string // table -> row -> cell
}

const documentPart = "word/document.xml"

// Read opens document bytes as a docx package (a zip archive holding
// word/document.xml) and extracts its text blocks. Any failure here means
// the payload is not a readable document.
func Read(b []byte) (*Document, error) {
	zr, err := zip.NewReader(bytes.NewReader(b), int64(len(b)))
	if err != nil {
		return nil, fmt.Errorf("open docx package: %w", err)
	}
	var part *zip.File
	for _, f := range zr.File {
		if f.Name == documentPart {
			part = f
			break
		}
	}
	if part == nil {
		return nil, fmt.Errorf("docx package has no %s", documentPart)
	}
	rc, err := part.Open()
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", documentPart, err)
	}
	defer rc.Close()

	doc, err := decodeBody(rc)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", documentPart, err)
	}
	return doc, nil
}

func decodeBody(r io.Reader) (*Document, error) {
	dec := xml.NewDecoder(r)
	doc := &Document{}
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		se, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		switch se.Name.Local {
		case "tbl":
			rows, err := decodeTable(dec)
			if err != nil {
				return nil, err
			}
			doc.Tables = append(doc.Tables, rows)
		case "p":
			text, err := decodeParagraph(dec)
			if err != nil {
				return nil, err
			}
			doc.Paragraphs = append(doc.Paragraphs, text)
		}
	}
	return doc, nil
}

// decodeParagraph consumes tokens through the paragraph's end element,
// collecting the text of its runs. Tabs and line breaks become spaces.
func decodeParagraph(dec *xml.Decoder) (string, error) {
	var sb strings.Builder
	depth := 1
	inText := false
	for depth > 0 {
		tok, err := dec.Token()
		if err != nil {
			return "", err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			depth++
			switch t.Name.Local {
			case "t":
				inText = true
			case "tab", "br":
				sb.WriteByte(' ')
			}
		case xml.EndElement:
			depth--
			if t.Name.Local == "t" {
				inText = false
			}
		case xml.CharData:
			if inText {
				sb.Write(t)
			}
		}
	}
	return sb.String(), nil
}

func decodeTable(dec *xml.Decoder) ([][]string, error) {
	var rows [][]string
	var cur []string
	depth := 1
	for depth > 0 {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local == "tc" {
				// decodeCell consumes the matching end element
				text, err := decodeCell(dec)
				if err != nil {
					return nil, err
				}
				cur = append(cur, text)
				continue
			}
			depth++
		case xml.EndElement:
			depth--
			if t.Name.Local == "tr" {
				rows = append(rows, cur)
				cur = nil
			}
		}
	}
	return rows, nil
}

// decodeCell joins the cell's paragraphs with newlines, the same shape a
// caller gets from a word processor's "cell text".
func decodeCell(dec *xml.Decoder) (string, error) {
	var parts []string
	var sb strings.Builder
	depth := 1
	inText := false
	for depth > 0 {
		tok, err := dec.Token()
		if err != nil {
			return "", err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			depth++
			if t.Name.Local == "t" {
				inText = true
			}
		case xml.EndElement:
			depth--
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				if s := strings.TrimSpace(sb.String()); s != "" {
					parts = append(parts, s)
				}
				sb.Reset()
			}
		case xml.CharData:
			if inText {
				sb.Write(t)
			}
		}
	}
	if s := strings.TrimSpace(sb.String()); s != "" {
		parts = append(parts, s)
	}
	return strings.Join(parts, "\n"), nil
}
