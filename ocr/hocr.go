package ocr

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/net/html"

	"github.com/tsawler/ledgerscan/model"
)

// lineClasses are the hOCR classes Tesseract uses for a text line.
var lineClasses = []string{"ocr_line", "ocr_header", "ocr_caption", "ocr_textfloat"}

// ParseHOCR reads Tesseract hOCR output and returns its words in document
// order. Words without a bbox or with blank text are skipped.
func ParseHOCR(r io.Reader) ([]Word, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse hOCR: %w", err)
	}

	p := &hocrParser{line: -1}
	p.walk(doc)
	return p.words, nil
}

type hocrParser struct {
	words []Word
	line  int
}

func (p *hocrParser) walk(n *html.Node) {
	if n.Type == html.ElementNode {
		class := attr(n, "class")
		switch {
		case hasClass(class, "ocrx_word"):
			p.word(n)
			return
		case hasAnyClass(class, lineClasses):
			p.line++
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		p.walk(c)
	}
}

func (p *hocrParser) word(n *html.Node) {
	text := strings.TrimSpace(textContent(n))
	if text == "" {
		return
	}
	props := parseTitle(attr(n, "title"))
	box, ok := props["bbox"]
	if !ok || len(box) != 4 {
		return
	}

	w := Word{
		Text: text,
		BBox: model.BBox{X0: box[0], Top: box[1], X1: box[2], Bottom: box[3]},
		Line: p.line,
	}
	if w.Line < 0 {
		w.Line = 0
	}
	if conf, ok := props["x_wconf"]; ok && len(conf) == 1 {
		w.Confidence = conf[0]
	}
	p.words = append(p.words, w)
}

// parseTitle parses an hOCR title attribute such as
// "bbox 36 92 96 116; x_wconf 96" into numeric properties.
func parseTitle(title string) map[string][]float64 {
	out := make(map[string][]float64)
	for _, part := range strings.Split(title, ";") {
		fields := strings.Fields(part)
		if len(fields) < 2 {
			continue
		}
		var values []float64
		for _, f := range fields[1:] {
			v, err := strconv.ParseFloat(f, 64)
			if err != nil {
				values = nil
				break
			}
			values = append(values, v)
		}
		if values != nil {
			out[fields[0]] = values
		}
	}
	return out
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func hasClass(classAttr, class string) bool {
	for _, c := range strings.Fields(classAttr) {
		if c == class {
			return true
		}
	}
	return false
}

func hasAnyClass(classAttr string, classes []string) bool {
	for _, c := range classes {
		if hasClass(classAttr, c) {
			return true
		}
	}
	return false
}

func textContent(n *html.Node) string {
	var sb strings.Builder
	var collect func(*html.Node)
	collect = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			collect(c)
		}
	}
	collect(n)
	return sb.String()
}
