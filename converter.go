package pdfcolumns

import (
	"context"
	"io"
	"time"
	"unicode/utf8"

	"github.com/klippa-app/go-pdfium"
	"github.com/klippa-app/go-pdfium/references"
	"github.com/klippa-app/go-pdfium/requests"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// ProcessingMetrics contains timing and statistics for PDF conversion
type ProcessingMetrics struct {
	TotalTime       time.Duration
	DocumentOpen    time.Duration
	PageExtractions []PageMetrics
	Statistics      DocumentStatistics
}

// PageMetrics contains timing for a single page
type PageMetrics struct {
	PageNumber int
	Duration   time.Duration
}

// DocumentStatistics contains document-level statistics
type DocumentStatistics struct {
	TotalPages      int
	TotalBlocks     int
	EmptyPages      int
	FailedPages     int
	TotalCharacters int
}

// OutputFormat selects how a converted document is rendered.
type OutputFormat string

const (
	// FormatText renders plain text with a separator line per page.
	FormatText OutputFormat = "text"
	// FormatMarkdown renders markdown with a heading per page.
	FormatMarkdown OutputFormat = "markdown"
)

// Config controls conversion behavior.
type Config struct {
	// Layout configures column detection (default: DefaultLayoutConfig())
	Layout LayoutConfig

	// Format selects the rendered output (default: FormatText)
	Format OutputFormat

	// EnableMetricsLogging enables processing time and statistics logging (default: false)
	EnableMetricsLogging bool

	// Logger receives page failures, debug output and metrics (default: logrus standard logger)
	Logger logrus.FieldLogger
}

// DefaultConfig returns the default converter configuration.
func DefaultConfig() Config {
	return Config{
		Layout: DefaultLayoutConfig(),
		Format: FormatText,
		Logger: logrus.StandardLogger(),
	}
}

// Converter extracts PDF text in column reading order using pdfium.
type Converter struct {
	instance pdfium.Pdfium
	config   Config
}

// NewConverter creates a new converter with default configuration.
func NewConverter(instance pdfium.Pdfium) *Converter {
	return NewConverterWithConfig(instance, DefaultConfig())
}

// NewConverterWithConfig creates a new converter with custom configuration.
func NewConverterWithConfig(instance pdfium.Pdfium, config Config) *Converter {
	if config.Logger == nil {
		config.Logger = logrus.StandardLogger()
	}
	if config.Format == "" {
		config.Format = FormatText
	}
	return &Converter{
		instance: instance,
		config:   config,
	}
}

// ConvertFile converts a PDF file to text in the configured format.
func (c *Converter) ConvertFile(filePath string) (string, error) {
	doc, err := c.ExtractFile(context.Background(), filePath)
	if err != nil {
		return "", err
	}
	return c.render(doc), nil
}

// ConvertBytes converts PDF bytes to text in the configured format.
func (c *Converter) ConvertBytes(pdfBytes []byte) (string, error) {
	doc, err := c.ExtractBytes(context.Background(), pdfBytes)
	if err != nil {
		return "", err
	}
	return c.render(doc), nil
}

// ConvertReader converts a PDF from an io.ReadSeeker to text in the
// configured format.
func (c *Converter) ConvertReader(reader io.ReadSeeker) (string, error) {
	docRef, closeDoc, err := c.open(&requests.OpenDocument{FileReader: reader})
	if err != nil {
		return "", err
	}
	defer closeDoc()

	doc, _, err := c.extractDocument(context.Background(), docRef, 0, -1)
	if err != nil {
		return "", err
	}
	return c.render(doc), nil
}

// ConvertPageRange converts a specific range of pages (0-indexed,
// inclusive).
func (c *Converter) ConvertPageRange(filePath string, startPage, endPage int) (string, error) {
	docRef, closeDoc, err := c.open(&requests.OpenDocument{FilePath: &filePath})
	if err != nil {
		return "", err
	}
	defer closeDoc()

	doc, _, err := c.extractDocument(context.Background(), docRef, startPage, endPage)
	if err != nil {
		return "", err
	}
	return c.render(doc), nil
}

// ExtractFile extracts the column blocks and their text from every page of
// a PDF file.
func (c *Converter) ExtractFile(ctx context.Context, filePath string) (*Document, error) {
	docRef, closeDoc, err := c.open(&requests.OpenDocument{FilePath: &filePath})
	if err != nil {
		return nil, err
	}
	defer closeDoc()

	doc, _, err := c.extractDocument(ctx, docRef, 0, -1)
	return doc, err
}

// ExtractBytes extracts the column blocks and their text from PDF bytes.
func (c *Converter) ExtractBytes(ctx context.Context, pdfBytes []byte) (*Document, error) {
	docRef, closeDoc, err := c.open(&requests.OpenDocument{File: &pdfBytes})
	if err != nil {
		return nil, err
	}
	defer closeDoc()

	doc, _, err := c.extractDocument(ctx, docRef, 0, -1)
	return doc, err
}

// ConvertFileWithMetrics converts a PDF and returns both the rendered text
// and metrics.
func (c *Converter) ConvertFileWithMetrics(filePath string) (string, ProcessingMetrics, error) {
	startTime := time.Now()

	docRef, closeDoc, err := c.open(&requests.OpenDocument{FilePath: &filePath})
	if err != nil {
		return "", ProcessingMetrics{}, err
	}
	defer closeDoc()

	documentOpenTime := time.Since(startTime)

	doc, pageMetrics, err := c.extractDocument(context.Background(), docRef, 0, -1)
	if err != nil {
		return "", ProcessingMetrics{}, err
	}

	output := c.render(doc)

	metrics := ProcessingMetrics{
		TotalTime:       time.Since(startTime),
		DocumentOpen:    documentOpenTime,
		PageExtractions: pageMetrics,
		Statistics:      calculateDocumentStatistics(doc),
	}

	return output, metrics, nil
}

// GetDocumentInfo returns basic information about a PDF without converting it.
func (c *Converter) GetDocumentInfo(filePath string) (*DocumentInfo, error) {
	docRef, closeDoc, err := c.open(&requests.OpenDocument{FilePath: &filePath})
	if err != nil {
		return nil, err
	}
	defer closeDoc()

	pageCount, err := c.instance.FPDF_GetPageCount(&requests.FPDF_GetPageCount{
		Document: docRef,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to get page count")
	}

	return &DocumentInfo{
		PageCount: pageCount.PageCount,
	}, nil
}

// DocumentInfo contains basic information about a PDF document.
type DocumentInfo struct {
	PageCount int
}

func (c *Converter) render(doc *Document) string {
	if c.config.Format == FormatMarkdown {
		return doc.ToMarkdown()
	}
	return doc.ToText()
}

// open opens a document and returns a function that closes it.
func (c *Converter) open(req *requests.OpenDocument) (references.FPDF_DOCUMENT, func(), error) {
	doc, err := c.instance.OpenDocument(req)
	if err != nil {
		return "", nil, errors.Wrap(err, "failed to open PDF document")
	}
	closeDoc := func() {
		c.instance.FPDF_CloseDocument(&requests.FPDF_CloseDocument{
			Document: doc.Document,
		})
	}
	return doc.Document, closeDoc, nil
}

// extractDocument reads pages startPage..endPage (0-indexed, inclusive; a
// negative endPage means the last page), lays them out and pulls the text
// of every block. Pages that fail are reported on their PageResult.
func (c *Converter) extractDocument(ctx context.Context, docRef references.FPDF_DOCUMENT, startPage, endPage int) (*Document, []PageMetrics, error) {
	startTime := time.Now()

	pageCount, err := c.instance.FPDF_GetPageCount(&requests.FPDF_GetPageCount{
		Document: docRef,
	})
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to get page count")
	}

	// Validate range
	if startPage < 0 {
		startPage = 0
	}
	if endPage < 0 || endPage >= pageCount.PageCount {
		endPage = pageCount.PageCount - 1
	}
	if startPage > endPage && pageCount.PageCount > 0 {
		return nil, nil, errors.New("invalid page range: start page must be <= end page")
	}

	// pdfium instances are not safe for concurrent use, so snapshots are
	// read one page at a time; only the layout fans out.
	var sources []PageSource
	var snapshots []*PageSnapshot
	var pageMetrics []PageMetrics

	for i := startPage; i <= endPage; i++ {
		if err := ctx.Err(); err != nil {
			return nil, nil, errors.Wrap(err, "extraction cancelled")
		}

		pageStart := time.Now()
		snap, err := c.loadPage(docRef, i)
		pageDuration := time.Since(pageStart)

		if err != nil {
			err = errors.Wrapf(err, "failed to extract page %d", i+1)
			sources = append(sources, failedPage{number: i + 1, err: err})
		} else {
			sources = append(sources, snap)
		}
		snapshots = append(snapshots, snap)

		pageMetrics = append(pageMetrics, PageMetrics{
			PageNumber: i + 1,
			Duration:   pageDuration,
		})

		if c.config.EnableMetricsLogging {
			c.config.Logger.Infof("Page %d/%d extracted in %v", i+1, pageCount.PageCount, pageDuration)
		}
	}

	layouts, err := LayoutPages(ctx, sources, c.config.Layout, c.config.Logger)
	if err != nil {
		return nil, nil, err
	}

	document := &Document{
		Pages: make([]PageResult, 0, len(layouts)),
	}
	for i, layout := range layouts {
		document.Pages = append(document.Pages, newPageResult(snapshots[i], layout))
	}

	if c.config.EnableMetricsLogging {
		logProcessingMetrics(c.config.Logger, ProcessingMetrics{
			TotalTime:       time.Since(startTime),
			PageExtractions: pageMetrics,
			Statistics:      calculateDocumentStatistics(document),
		})
	}

	return document, pageMetrics, nil
}

// loadPage loads a page, snapshots its primitives and closes it again.
func (c *Converter) loadPage(docRef references.FPDF_DOCUMENT, pageIndex int) (*PageSnapshot, error) {
	pageResp, err := c.instance.FPDF_LoadPage(&requests.FPDF_LoadPage{
		Document: docRef,
		Index:    pageIndex,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to load page")
	}
	defer c.instance.FPDF_ClosePage(&requests.FPDF_ClosePage{
		Page: pageResp.Page,
	})

	snap, err := LoadPageSnapshot(c.instance, pageResp.Page, pageIndex+1)
	if err != nil {
		return nil, errors.Wrap(err, "failed to extract page content")
	}

	return snap, nil
}

// failedPage stands in for a page whose primitives could not be read, so
// the failure surfaces on that page's layout only.
type failedPage struct {
	number int
	err    error
}

func (f failedPage) Number() int                          { return f.number }
func (f failedPage) Bounds() Rect                         { return Rect{} }
func (f failedPage) Drawings() ([]Rect, error)            { return nil, f.err }
func (f failedPage) Images() ([]ImagePlacement, error)    { return nil, f.err }
func (f failedPage) TextBlocks(Rect) ([]TextBlock, error) { return nil, f.err }

// calculateDocumentStatistics calculates statistics for the document
func calculateDocumentStatistics(doc *Document) DocumentStatistics {
	stats := DocumentStatistics{
		TotalPages: len(doc.Pages),
	}

	for _, page := range doc.Pages {
		if page.Err != nil {
			stats.FailedPages++
			continue
		}
		if len(page.Blocks) == 0 {
			stats.EmptyPages++
		}
		stats.TotalBlocks += len(page.Blocks)
		for _, text := range page.Texts {
			stats.TotalCharacters += utf8.RuneCountInString(text)
		}
	}

	return stats
}

// logProcessingMetrics logs the processing metrics in a readable format
func logProcessingMetrics(log logrus.FieldLogger, metrics ProcessingMetrics) {
	log.Info("┌─────────────────────────────────────────────┐")
	log.Info("│ PDF Processing Metrics                      │")
	log.Info("├─────────────────────────────────────────────┤")
	log.Infof("│ Total Time: %-31v │", metrics.TotalTime.Round(time.Millisecond))
	log.Info("├─────────────────────────────────────────────┤")
	log.Info("│ Document Statistics                         │")
	log.Info("├─────────────────────────────────────────────┤")
	log.Infof("│   Pages:      %-29d │", metrics.Statistics.TotalPages)
	log.Infof("│   Blocks:     %-29d │", metrics.Statistics.TotalBlocks)
	log.Infof("│   Empty:      %-29d │", metrics.Statistics.EmptyPages)
	log.Infof("│   Failed:     %-29d │", metrics.Statistics.FailedPages)
	log.Infof("│   Characters: %-29d │", metrics.Statistics.TotalCharacters)
	log.Info("├─────────────────────────────────────────────┤")
	log.Info("│ Per-Page Timing                             │")
	log.Info("├─────────────────────────────────────────────┤")

	// Show timing for each page
	for _, pm := range metrics.PageExtractions {
		log.Infof("│   Page %2d: %-30v │", pm.PageNumber, pm.Duration.Round(time.Millisecond))
	}

	// Show average time per page
	if len(metrics.PageExtractions) > 0 {
		avgTime := metrics.TotalTime / time.Duration(len(metrics.PageExtractions))
		log.Info("├─────────────────────────────────────────────┤")
		log.Infof("│ Avg per page: %-28v │", avgTime.Round(time.Millisecond))
	}

	log.Info("└─────────────────────────────────────────────┘")
}
