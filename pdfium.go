package pdfcolumns

import (
	"math"
	"unicode"

	"github.com/klippa-app/go-pdfium"
	"github.com/klippa-app/go-pdfium/enums"
	"github.com/klippa-app/go-pdfium/references"
	"github.com/klippa-app/go-pdfium/requests"
	"github.com/pkg/errors"
)

// box is a float bounding box in top-left page coordinates, as pdfium
// reports it after flipping the y axis.
type box struct {
	X0, Y0, X1, Y1 float64
}

func (b box) rect() Rect {
	return RectFromFloat(b.X0, b.Y0, b.X1, b.Y1)
}

func (b box) centerY() float64 {
	return (b.Y0 + b.Y1) / 2
}

func mergeBoxes(a, b box) box {
	return box{
		X0: math.Min(a.X0, b.X0),
		Y0: math.Min(a.Y0, b.Y0),
		X1: math.Max(a.X1, b.X1),
		Y1: math.Max(a.Y1, b.Y1),
	}
}

// pdfChar is a single character with the metadata line grouping needs.
type pdfChar struct {
	Text     rune
	Box      box
	FontSize float64
	FontName string
	Angle    float32
}

func (c pdfChar) isSpace() bool {
	return unicode.IsSpace(c.Text)
}

func (c pdfChar) isLineBreak() bool {
	return c.Text == '\n' || c.Text == '\r'
}

// LoadPageSnapshot reads every primitive the layout needs from a loaded
// pdfium page. The snapshot owns its data, so the page may be closed
// afterwards.
func LoadPageSnapshot(instance pdfium.Pdfium, page references.FPDF_PAGE, pageNumber int) (*PageSnapshot, error) {
	pageWidth, err := instance.FPDF_GetPageWidthF(&requests.FPDF_GetPageWidthF{
		Page: requests.Page{
			ByReference: &page,
		},
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to get page width")
	}

	pageHeight, err := instance.FPDF_GetPageHeightF(&requests.FPDF_GetPageHeightF{
		Page: requests.Page{
			ByReference: &page,
		},
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to get page height")
	}

	width := float64(pageWidth.PageWidth)
	height := float64(pageHeight.PageHeight)

	drawings, images, err := extractPageObjects(instance, page, height)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read page objects")
	}

	textPage, err := instance.FPDFText_LoadPage(&requests.FPDFText_LoadPage{
		Page: requests.Page{
			ByReference: &page,
		},
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to load text page")
	}
	defer instance.FPDFText_ClosePage(&requests.FPDFText_ClosePage{
		TextPage: textPage.TextPage,
	})

	charCount, err := instance.FPDFText_CountChars(&requests.FPDFText_CountChars{
		TextPage: textPage.TextPage,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to count characters")
	}

	chars := extractChars(instance, textPage.TextPage, charCount.Count, height)

	return &PageSnapshot{
		PageNumber: pageNumber,
		Page:       RectFromFloat(0, 0, width, height),
		Drawing:    drawings,
		Image:      images,
		Blocks:     groupLinesIntoBlocks(groupCharsIntoLines(chars)),
	}, nil
}

// extractPageObjects walks the page objects and returns the bounds of path
// objects as drawings and of image objects as image placements.
func extractPageObjects(instance pdfium.Pdfium, page references.FPDF_PAGE, pageHeight float64) ([]Rect, []ImagePlacement, error) {
	countResp, err := instance.FPDFPage_CountObjects(&requests.FPDFPage_CountObjects{
		Page: requests.Page{
			ByReference: &page,
		},
	})
	if err != nil {
		return nil, nil, err
	}

	var drawings []Rect
	var images []ImagePlacement

	for i := 0; i < countResp.Count; i++ {
		objResp, err := instance.FPDFPage_GetObject(&requests.FPDFPage_GetObject{
			Page: requests.Page{
				ByReference: &page,
			},
			Index: i,
		})
		if err != nil {
			continue
		}

		typeResp, err := instance.FPDFPageObj_GetType(&requests.FPDFPageObj_GetType{
			PageObject: objResp.PageObject,
		})
		if err != nil {
			continue
		}
		if typeResp.Type != enums.FPDF_PAGEOBJ_PATH && typeResp.Type != enums.FPDF_PAGEOBJ_IMAGE {
			continue
		}

		boundsResp, err := instance.FPDFPageObj_GetBounds(&requests.FPDFPageObj_GetBounds{
			PageObject: objResp.PageObject,
		})
		if err != nil {
			continue
		}

		// Convert PDF coordinates (origin bottom-left) to top-left origin
		r := RectFromFloat(
			float64(boundsResp.Left),
			pageHeight-float64(boundsResp.Top),
			float64(boundsResp.Right),
			pageHeight-float64(boundsResp.Bottom),
		)

		if typeResp.Type == enums.FPDF_PAGEOBJ_IMAGE {
			images = append(images, ImagePlacement{ID: i, Rects: []Rect{r}})
		} else {
			drawings = append(drawings, r)
		}
	}

	return drawings, images, nil
}

// extractChars reads every character of the text page. Characters pdfium
// cannot describe are skipped.
func extractChars(instance pdfium.Pdfium, textPage references.FPDF_TEXTPAGE, count int, pageHeight float64) []pdfChar {
	chars := make([]pdfChar, 0, count)

	for i := range count {
		unicodeRes, err := instance.FPDFText_GetUnicode(&requests.FPDFText_GetUnicode{
			TextPage: textPage,
			Index:    i,
		})
		if err != nil || unicodeRes.Unicode == 0 {
			continue
		}

		charBox, err := instance.FPDFText_GetCharBox(&requests.FPDFText_GetCharBox{
			TextPage: textPage,
			Index:    i,
		})
		if err != nil {
			continue
		}

		fontSize := 12.0
		if resp, err := instance.FPDFText_GetFontSize(&requests.FPDFText_GetFontSize{
			TextPage: textPage,
			Index:    i,
		}); err == nil {
			fontSize = resp.FontSize
		}

		fontName := ""
		if resp, err := instance.FPDFText_GetFontInfo(&requests.FPDFText_GetFontInfo{
			TextPage: textPage,
			Index:    i,
		}); err == nil {
			fontName = resp.FontName
		}

		var angle float32
		if resp, err := instance.FPDFText_GetCharAngle(&requests.FPDFText_GetCharAngle{
			TextPage: textPage,
			Index:    i,
		}); err == nil {
			angle = resp.CharAngle
		}

		chars = append(chars, pdfChar{
			Text: rune(unicodeRes.Unicode),
			Box: box{
				X0: charBox.Left,
				Y0: pageHeight - charBox.Top,
				X1: charBox.Right,
				Y1: pageHeight - charBox.Bottom,
			},
			FontSize: fontSize,
			FontName: fontName,
			Angle:    angle,
		})
	}

	return chars
}

// pdfLine is a text line under construction together with its font size.
type pdfLine struct {
	line     TextLine
	fontSize float64
}

// angleTolerance is how far, in radians, two characters' angles may differ
// while still belonging to the same line.
const angleTolerance = 0.01

// groupCharsIntoLines splits the character stream into lines. pdfium emits
// characters in content order and inserts line break characters between
// lines; a change of angle, a jump off the current baseline or a gap wider
// than the font would allow also ends a line.
func groupCharsIntoLines(chars []pdfChar) []pdfLine {
	var lines []pdfLine
	var current []pdfChar
	var lineBox box
	hasBox := false

	flush := func() {
		if hasBox {
			lines = append(lines, buildLine(current, lineBox))
		}
		current = nil
		hasBox = false
	}

	for _, char := range chars {
		if char.isLineBreak() {
			flush()
			continue
		}

		if char.isSpace() {
			if len(current) > 0 {
				current = append(current, char)
			}
			continue
		}

		if hasBox && startsNewLine(current, lineBox, char) {
			flush()
		}

		current = append(current, char)
		if !hasBox {
			lineBox = char.Box
			hasBox = true
		} else {
			lineBox = mergeBoxes(lineBox, char.Box)
		}
	}
	flush()

	return lines
}

// startsNewLine reports whether char cannot continue the line made of
// current.
func startsNewLine(current []pdfChar, lineBox box, char pdfChar) bool {
	first := current[0]
	if math.Abs(float64(char.Angle-first.Angle)) > angleTolerance {
		return true
	}

	// Geometric checks only make sense for horizontal text.
	if !DirectionFromAngle(float64(first.Angle)).IsHorizontal() {
		return false
	}

	// Character centre outside the line's vertical extent
	centerY := char.Box.centerY()
	if centerY < lineBox.Y0 || centerY > lineBox.Y1 {
		return true
	}

	var prev pdfChar
	for i := len(current) - 1; i >= 0; i-- {
		if !current[i].isSpace() {
			prev = current[i]
			break
		}
	}

	// A wide gap usually separates two columns set on the same baseline.
	gap := char.Box.X0 - prev.Box.X1
	if gap > prev.FontSize*1.5 {
		return true
	}

	// Moving backwards past the previous character starts a new line.
	return char.Box.X1 < prev.Box.X0-prev.FontSize
}

// buildLine turns grouped characters into a TextLine, splitting spans on
// font changes.
func buildLine(chars []pdfChar, lineBox box) pdfLine {
	// Drop trailing whitespace carried over from the stream
	for len(chars) > 0 && chars[len(chars)-1].isSpace() {
		chars = chars[:len(chars)-1]
	}

	var spans []TextSpan
	var text []rune
	var font string
	var size float64
	var totalSize float64
	var glyphs int

	for _, char := range chars {
		if !char.isSpace() {
			if len(text) > 0 && (char.FontName != font || char.FontSize != size) {
				spans = append(spans, TextSpan{Text: string(text)})
				text = nil
			}
			font = char.FontName
			size = char.FontSize
			totalSize += char.FontSize
			glyphs++
		}
		text = append(text, char.Text)
	}
	if len(text) > 0 {
		spans = append(spans, TextSpan{Text: string(text)})
	}

	fontSize := 12.0
	if glyphs > 0 {
		fontSize = totalSize / float64(glyphs)
	}

	var angle float32
	if len(chars) > 0 {
		angle = chars[0].Angle
	}

	return pdfLine{
		line: TextLine{
			Box:   lineBox.rect(),
			Dir:   DirectionFromAngle(float64(angle)),
			Spans: spans,
		},
		fontSize: fontSize,
	}
}

// groupLinesIntoBlocks groups consecutive lines into blocks. A large
// vertical gap, a significant font size change, a change of direction or a
// line that does not sit under the block starts a new block.
func groupLinesIntoBlocks(lines []pdfLine) []TextBlock {
	var blocks []TextBlock
	var current []pdfLine
	var blockBox Rect

	flush := func() {
		if len(current) == 0 {
			return
		}
		block := TextBlock{Box: blockBox}
		for _, l := range current {
			block.Lines = append(block.Lines, l.line)
		}
		blocks = append(blocks, block)
		current = nil
	}

	for _, line := range lines {
		if len(current) > 0 && startsNewBlock(current, blockBox, line) {
			flush()
		}
		if len(current) == 0 {
			blockBox = line.line.Box
		} else {
			blockBox = Union(blockBox, line.line.Box)
		}
		current = append(current, line)
	}
	flush()

	return blocks
}

func startsNewBlock(current []pdfLine, blockBox Rect, line pdfLine) bool {
	prev := current[len(current)-1]
	if line.line.Dir != prev.line.Dir {
		return true
	}

	var totalSize float64
	for _, l := range current {
		totalSize += l.fontSize
	}
	avgFontSize := totalSize / float64(len(current))

	// A size change of more than 20% suggests a heading or a caption
	ratio := line.fontSize / avgFontSize
	if ratio < 0.8 || ratio > 1.2 {
		return true
	}

	if !line.line.Dir.IsHorizontal() {
		// Rotated runs stay together while they touch the block, grown by
		// one font size in every direction.
		grow := int(math.Ceil(avgFontSize))
		near := Rect{
			X0: blockBox.X0 - grow,
			Y0: blockBox.Y0 - grow,
			X1: blockBox.X1 + grow,
			Y1: blockBox.Y1 + grow,
		}
		return !Intersects(near, line.line.Box)
	}

	if !OverlapsX(blockBox, line.line.Box) {
		return true
	}

	// Lines above the previous one belong to another block
	if line.line.Box.Y1 <= prev.line.Box.Y0 {
		return true
	}

	gap := float64(line.line.Box.Y0 - prev.line.Box.Y1)
	return gap > avgFontSize*0.9
}
