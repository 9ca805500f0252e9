package pdfcolumns

import (
	"math"
	"strings"
	"unicode/utf8"
)

// Direction is the writing direction of a text line as a unit vector in
// page coordinates.
type Direction struct {
	DX float64
	DY float64
}

// Horizontal is the direction of ordinary left-to-right text.
var Horizontal = Direction{DX: 1, DY: 0}

// DirectionFromAngle converts a counter-clockwise rotation in radians into a
// direction vector, rounded to three decimals so that unrotated text compares
// equal to Horizontal.
func DirectionFromAngle(angle float64) Direction {
	return Direction{
		DX: roundDirection(math.Cos(angle)),
		DY: roundDirection(-math.Sin(angle)),
	}
}

func roundDirection(v float64) float64 {
	v = math.Round(v*1000) / 1000
	if v == 0 {
		return 0 // drop negative zero
	}
	return v
}

// IsHorizontal reports whether the direction is exactly (1, 0).
func (d Direction) IsHorizontal() bool {
	return d == Horizontal
}

// TextSpan is a run of text with uniform styling, as reported by the engine.
type TextSpan struct {
	Text string
}

// TextLine is a line of spans sharing one direction.
type TextLine struct {
	Box   Rect
	Dir   Direction
	Spans []TextSpan
}

// Text returns the concatenation of the line's trimmed span texts.
func (l TextLine) Text() string {
	var sb strings.Builder
	for _, span := range l.Spans {
		sb.WriteString(strings.TrimSpace(span.Text))
	}
	return sb.String()
}

// RawText returns the untrimmed span texts joined together.
func (l TextLine) RawText() string {
	var sb strings.Builder
	for _, span := range l.Spans {
		sb.WriteString(span.Text)
	}
	return sb.String()
}

// qualifies reports whether the line carries enough text to shape a block.
// Single characters are usually bullets, page furniture or stray glyphs.
func (l TextLine) qualifies() bool {
	return utf8.RuneCountInString(l.Text()) > 1
}

// TextBlock is a group of lines the engine considers one block.
type TextBlock struct {
	Box   Rect
	Lines []TextLine
}

// ImagePlacement is one image and every rectangle it is drawn into.
type ImagePlacement struct {
	ID    int
	Rects []Rect
}

// PageSource supplies the raw primitives of a single page. Implementations
// must return the same data for repeated calls: layout treats the page as an
// immutable snapshot.
type PageSource interface {
	// Number returns the 1-based page number.
	Number() int
	// Bounds returns the page rectangle.
	Bounds() Rect
	// Drawings returns the bounding boxes of vector drawings (panels,
	// backgrounds, rules).
	Drawings() ([]Rect, error)
	// Images returns every image placement on the page.
	Images() ([]ImagePlacement, error)
	// TextBlocks returns the text blocks restricted to lines inside clip.
	TextBlocks(clip Rect) ([]TextBlock, error)
}

// PageSnapshot is an in-memory PageSource.
type PageSnapshot struct {
	PageNumber int
	Page       Rect
	Drawing    []Rect
	Image      []ImagePlacement
	Blocks     []TextBlock
}

var _ PageSource = (*PageSnapshot)(nil)

// Number returns the 1-based page number.
func (p *PageSnapshot) Number() int {
	return p.PageNumber
}

// Bounds returns the page rectangle.
func (p *PageSnapshot) Bounds() Rect {
	return p.Page
}

// Drawings returns a copy of the drawing rectangles.
func (p *PageSnapshot) Drawings() ([]Rect, error) {
	out := make([]Rect, len(p.Drawing))
	copy(out, p.Drawing)
	return out, nil
}

// Images returns a copy of the image placements.
func (p *PageSnapshot) Images() ([]ImagePlacement, error) {
	out := make([]ImagePlacement, len(p.Image))
	for i, img := range p.Image {
		rects := make([]Rect, len(img.Rects))
		copy(rects, img.Rects)
		out[i] = ImagePlacement{ID: img.ID, Rects: rects}
	}
	return out, nil
}

// TextBlocks keeps the lines that lie inside clip. Blocks left without lines
// are dropped and the box of every other block is recomputed from the lines
// it kept.
func (p *PageSnapshot) TextBlocks(clip Rect) ([]TextBlock, error) {
	var out []TextBlock
	for _, block := range p.Blocks {
		var lines []TextLine
		var box Rect
		for _, line := range block.Lines {
			if !Contains(clip, line.Box) {
				continue
			}
			lines = append(lines, line)
			box = Union(box, line.Box)
		}
		if len(lines) == 0 {
			continue
		}
		out = append(out, TextBlock{Box: box, Lines: lines})
	}
	return out, nil
}
