package pdfcolumns

import (
	"context"
	"runtime"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// LayoutConfig controls column detection.
type LayoutConfig struct {
	// HeaderMargin is cut from the top of the page before any text is
	// considered (default: 50)
	HeaderMargin int

	// FooterMargin is cut from the bottom of the page (default: 50)
	FooterMargin int

	// ExcludeImageText drops text blocks that sit entirely inside an image
	// (default: true)
	ExcludeImageText bool

	// Concurrency bounds how many pages LayoutPages lays out at once
	// (default: GOMAXPROCS)
	Concurrency int
}

// DefaultLayoutConfig returns the default layout configuration.
func DefaultLayoutConfig() LayoutConfig {
	return LayoutConfig{
		HeaderMargin:     50,
		FooterMargin:     50,
		ExcludeImageText: true,
		Concurrency:      runtime.GOMAXPROCS(0),
	}
}

// clip returns the part of page that survives the header and footer margins.
func (c LayoutConfig) clip(page Rect) Rect {
	clip := page
	clip.Y0 += max(c.HeaderMargin, 0)
	clip.Y1 -= max(c.FooterMargin, 0)
	return clip
}

func (c LayoutConfig) concurrency() int {
	if c.Concurrency <= 0 {
		return runtime.GOMAXPROCS(0)
	}
	return c.Concurrency
}

// ColumnBoxes computes the column blocks of a page in reading order.
// Extracting text clipped to each block, in order, yields the page text in
// reading order. A page without usable text returns no blocks and no error.
func ColumnBoxes(src PageSource, config LayoutConfig) ([]Rect, error) {
	page := src.Bounds()

	drawings, err := src.Drawings()
	if err != nil {
		return nil, errors.Wrap(err, "failed to read page drawings")
	}

	images, err := src.Images()
	if err != nil {
		return nil, errors.Wrap(err, "failed to read page images")
	}

	var imageRects []Rect
	for _, img := range images {
		imageRects = append(imageRects, img.Rects...)
	}

	blocks, err := src.TextBlocks(config.clip(page))
	if err != nil {
		return nil, errors.Wrap(err, "failed to read page text")
	}

	obs := &pageObstacles{
		background: NewBackgroundIndex(drawings),
		images:     newObstacleSet(imageRects),
		vertical:   newObstacleSet(),
	}

	candidates := buildCandidates(blocks, obs, config.ExcludeImageText)
	if len(candidates) == 0 {
		return nil, nil
	}

	obs.all = newObstacleSet(obs.background.rects, imageRects, obs.vertical.rects)

	candidates = extendRight(candidates, page.Width(), obs)
	if len(candidates) == 0 {
		return nil, nil
	}

	return cleanBlocks(mergeColumns(candidates, obs)), nil
}

// PageLayout is the layout result for one page.
type PageLayout struct {
	Number int
	Blocks []Rect
	// Err is set when the page's primitives could not be read. Other pages
	// are unaffected.
	Err error
}

// LayoutPages lays out pages concurrently and returns the results in the
// order of sources. Page failures are reported on the page's PageLayout; the
// returned error is only set when ctx is cancelled.
func LayoutPages(ctx context.Context, sources []PageSource, config LayoutConfig, logger logrus.FieldLogger) ([]PageLayout, error) {
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	results := make([]PageLayout, len(sources))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(config.concurrency())

	for i, src := range sources {
		if gctx.Err() != nil {
			break
		}

		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			blocks, err := ColumnBoxes(src, config)
			results[i] = PageLayout{
				Number: src.Number(),
				Blocks: blocks,
				Err:    err,
			}

			pageLog := logger.WithField("page", src.Number())
			if err != nil {
				pageLog.WithError(err).Warn("page layout failed")
				return nil
			}
			pageLog.WithField("blocks", len(blocks)).Debug("page layout complete")
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return results, errors.Wrap(err, "page layout interrupted")
	}
	if err := ctx.Err(); err != nil {
		return results, errors.Wrap(err, "page layout interrupted")
	}

	return results, nil
}
