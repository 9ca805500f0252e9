package pdfcolumns

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ivanvanderbyl/markdown"
)

// ToMarkdown converts a document to markdown: a heading per page, one
// paragraph per column block and a rule between pages.
func (d *Document) ToMarkdown() string {
	var buf bytes.Buffer
	md := markdown.NewMarkdown(&buf)

	for i, page := range d.Pages {
		if i > 0 {
			md.HorizontalRule().LF()
		}
		convertPageToMarkdown(md, page)
	}

	if err := md.Build(); err != nil {
		// If there's an error building the markdown, fall back to empty string
		return ""
	}

	return buf.String()
}

// ToMarkdown converts a single page to markdown.
func (p PageResult) ToMarkdown() string {
	var buf bytes.Buffer
	md := markdown.NewMarkdown(&buf)

	convertPageToMarkdown(md, p)

	if err := md.Build(); err != nil {
		return ""
	}

	return buf.String()
}

func convertPageToMarkdown(md *markdown.Markdown, page PageResult) {
	md.H2(fmt.Sprintf("Page %d", page.Number))
	md.LF()

	if page.Err != nil {
		md.PlainText(fmt.Sprintf("_Page %d could not be read: %v_", page.Number, page.Err))
		md.LF()
		return
	}

	for _, text := range page.Texts {
		// Lines inside a block are soft-wrapped prose; join them so the
		// block renders as one paragraph.
		paragraph := strings.Join(strings.Fields(text), " ")
		if paragraph == "" {
			continue
		}
		md.PlainText(paragraph)
		md.LF()
	}
}
