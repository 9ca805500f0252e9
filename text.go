package pdfcolumns

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// PageSeparator prefixes every page in plain text output.
const PageSeparator = "========== PAGE "

// TextIn returns the text of every line whose centre lies inside r, sorted
// top to bottom and then left to right, one line per output line.
func (p *PageSnapshot) TextIn(r Rect) string {
	var lines []TextLine
	for _, block := range p.Blocks {
		for _, line := range block.Lines {
			if lineCenterIn(line.Box, r) {
				lines = append(lines, line)
			}
		}
	}

	sort.SliceStable(lines, func(i, j int) bool {
		if lines[i].Box.Y1 != lines[j].Box.Y1 {
			return lines[i].Box.Y1 < lines[j].Box.Y1
		}
		return lines[i].Box.X0 < lines[j].Box.X0
	})

	var sb strings.Builder
	for _, line := range lines {
		sb.WriteString(norm.NFC.String(strings.TrimRight(line.RawText(), " \t")))
		sb.WriteByte('\n')
	}
	return sb.String()
}

func lineCenterIn(line, r Rect) bool {
	cx, cy := line.CenterX(), line.CenterY()
	return cx >= float64(r.X0) && cx <= float64(r.X1) &&
		cy >= float64(r.Y0) && cy <= float64(r.Y1)
}

// PageResult is one page of an extracted document.
type PageResult struct {
	Number int
	// Blocks are the column blocks in reading order.
	Blocks []Rect
	// Texts holds the text pulled from each block, parallel to Blocks.
	Texts []string
	// Err is set when the page could not be read or laid out.
	Err error
}

// Text returns the page's block texts joined in reading order.
func (p PageResult) Text() string {
	var sb strings.Builder
	for _, t := range p.Texts {
		sb.WriteString(t)
		sb.WriteByte('\n')
	}
	return sb.String()
}

// Document is the result of extracting a PDF in column reading order.
type Document struct {
	Pages []PageResult
}

// ToText renders the document as plain text with a separator line before
// every page.
func (d *Document) ToText() string {
	var sb strings.Builder
	for _, page := range d.Pages {
		fmt.Fprintf(&sb, "%s%d\n", PageSeparator, page.Number)
		if page.Err != nil {
			fmt.Fprintf(&sb, "[page %d failed: %v]\n", page.Number, page.Err)
			continue
		}
		sb.WriteString(page.Text())
	}
	return sb.String()
}

// newPageResult pulls the text of every block from snap.
func newPageResult(snap *PageSnapshot, layout PageLayout) PageResult {
	result := PageResult{
		Number: layout.Number,
		Blocks: layout.Blocks,
		Err:    layout.Err,
	}
	if layout.Err != nil {
		return result
	}
	for _, block := range layout.Blocks {
		result.Texts = append(result.Texts, snap.TextIn(block))
	}
	return result
}
