package docext

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

type docxDecoder struct{}

// NewDOCXDecoder returns the default DOCX decoder. A .docx file is a zip
// archive whose word/document.xml holds the body; paragraphs are <w:p>
// elements and their text lives in <w:t> runs.
func NewDOCXDecoder() ParagraphDecoder {
	return docxDecoder{}
}

func (docxDecoder) Paragraphs(data []byte) ([]string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("docx open: %w", err)
	}

	var doc *zip.File
	for _, f := range zr.File {
		if f.Name == "word/document.xml" {
			doc = f
			break
		}
	}
	if doc == nil {
		return nil, fmt.Errorf("docx open: missing word/document.xml")
	}

	rc, err := doc.Open()
	if err != nil {
		return nil, fmt.Errorf("docx open: %w", err)
	}
	defer rc.Close()

	return decodeParagraphs(rc)
}

func decodeParagraphs(r io.Reader) ([]string, error) {
	dec := xml.NewDecoder(r)
	var (
		paragraphs []string
		buf        strings.Builder
		inPara     bool
		inText     bool
	)
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("docx parse: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "p":
				inPara = true
				buf.Reset()
			case "t":
				inText = inPara
			}
		case xml.CharData:
			if inText {
				buf.Write(t)
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				if inPara {
					paragraphs = append(paragraphs, buf.String())
				}
				inPara = false
			}
		}
	}
	return paragraphs, nil
}
