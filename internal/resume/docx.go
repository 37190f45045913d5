package resume

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/nguyenthenguyen/docx"

	"github.com/FOX2920/Automated-CV-Scoring/internal/utils"
)

// DocxParagraphs reads the paragraphs of a WordprocessingML document.
func DocxParagraphs() Strategy {
	return Strategy{Name: "docx_paragraphs", Extract: extractDocx}
}

// PrintableText decodes the bytes as UTF-8 and keeps only printable characters.
// It is the last resort for legacy .doc files and mislabeled uploads.
func PrintableText() Strategy {
	return Strategy{Name: "printable_text", Extract: extractPrintable}
}

func extractDocx(data []byte) (string, error) {
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("read docx: %w", err)
	}
	defer doc.Close()

	paragraphs, err := paragraphText(doc.Editable().GetContent())
	if err != nil {
		return "", err
	}

	return utils.CollapseWhitespace(strings.Join(paragraphs, "\n")), nil
}

// paragraphText walks document.xml and returns the text of each w:p element.
func paragraphText(documentXML string) ([]string, error) {
	decoder := xml.NewDecoder(strings.NewReader(documentXML))

	var (
		paragraphs []string
		current    strings.Builder
		inText     bool
	)

	for {
		token, err := decoder.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse document.xml: %w", err)
		}

		switch t := token.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "t":
				inText = true
			case "tab":
				current.WriteString(" ")
			case "br", "cr":
				current.WriteString("\n")
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				paragraphs = append(paragraphs, current.String())
				current.Reset()
			}
		case xml.CharData:
			if inText {
				current.Write(t)
			}
		}
	}

	if current.Len() > 0 {
		paragraphs = append(paragraphs, current.String())
	}

	return paragraphs, nil
}

func extractPrintable(data []byte) (string, error) {
	if len(data) == 0 {
		return "", errNoText
	}

	var builder strings.Builder
	for len(data) > 0 {
		r, size := utf8.DecodeRune(data)
		data = data[size:]
		if r == utf8.RuneError && size <= 1 {
			continue
		}
		if unicode.IsPrint(r) {
			builder.WriteRune(r)
		}
	}

	return utils.CollapseWhitespace(builder.String()), nil
}
