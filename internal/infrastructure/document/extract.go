package document

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"mime"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"
)

const (
	MimePlain = "text/plain"
	MimePDF   = "application/pdf"
	MimeDOCX  = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

var ErrUnsupportedType = errors.New("unsupported file type")

type kind int

const (
	kindUnknown kind = iota
	kindPlain
	kindPDF
	kindDOCX
)

// Extractor turns uploaded resume files into plain text.
type Extractor struct{}

func NewExtractor() Extractor {
	return Extractor{}
}

func (Extractor) ExtractText(filename, contentType string, data []byte) (string, error) {
	return ExtractText(filename, contentType, data)
}

// ExtractText reads plain text, PDF and DOCX content. The declared content
// type wins; generic types fall back to the file extension and then to the
// leading bytes.
func ExtractText(filename, contentType string, data []byte) (string, error) {
	switch detect(filename, contentType, data) {
	case kindPlain:
		return strings.ToValidUTF8(string(data), " "), nil
	case kindPDF:
		return extractPDFText(data)
	case kindDOCX:
		return extractDOCXText(data)
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedType, describe(filename, contentType))
	}
}

func detect(filename, contentType string, data []byte) kind {
	mt := ""
	if contentType != "" {
		if parsed, _, err := mime.ParseMediaType(contentType); err == nil {
			mt = strings.ToLower(parsed)
		}
	}
	switch mt {
	case MimePlain, "text/markdown":
		return kindPlain
	case MimePDF:
		return kindPDF
	case MimeDOCX:
		return kindDOCX
	case "", "application/octet-stream", "binary/octet-stream":
	default:
		return kindUnknown
	}

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".txt", ".text", ".md":
		return kindPlain
	case ".pdf":
		return kindPDF
	case ".docx":
		return kindDOCX
	}

	switch {
	case bytes.HasPrefix(data, []byte("%PDF-")):
		return kindPDF
	case bytes.HasPrefix(data, []byte("PK\x03\x04")):
		return kindDOCX
	case len(data) > 0 && utf8.Valid(data) && !bytes.ContainsRune(data, 0):
		return kindPlain
	}
	return kindUnknown
}

func describe(filename, contentType string) string {
	if contentType != "" {
		return contentType
	}
	if ext := filepath.Ext(filename); ext != "" {
		return ext
	}
	return "unknown"
}

// extractPDFText recovers from parser panics on malformed streams.
func extractPDFText(data []byte) (text string, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			text, err = "", fmt.Errorf("failed to read pdf: %v", rec)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to read pdf: %w", err)
	}

	var sb strings.Builder
	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		pageText, perr := page.GetPlainText(nil)
		if perr != nil {
			return "", fmt.Errorf("failed to read pdf page %d: %w", i, perr)
		}
		sb.WriteString(pageText)
		sb.WriteByte('\n')
	}
	return sb.String(), nil
}

func extractDOCXText(data []byte) (string, error) {
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to parse docx: %w", err)
	}
	defer doc.Close()

	return wordXMLText(doc.Editable().GetContent())
}

// wordXMLText keeps the character data of w:t runs, breaking lines at
// paragraph ends and tabs at w:tab.
func wordXMLText(raw string) (string, error) {
	dec := xml.NewDecoder(strings.NewReader(raw))
	var sb strings.Builder
	inText := false
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("failed to parse docx body: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "t":
				inText = true
			case "tab":
				sb.WriteByte('\t')
			case "br", "cr":
				sb.WriteByte('\n')
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				sb.WriteByte('\n')
			}
		case xml.CharData:
			if inText {
				sb.Write(t)
			}
		}
	}
	return sb.String(), nil
}
