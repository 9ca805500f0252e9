package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/klippa-app/go-pdfium/webassembly"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v3"

	"github.com/ivanvanderbyl/pdfcolumns"
)

func main() {
	cmd := &cli.Command{
		Name:  "pdfcolumns",
		Usage: "Extract PDF text in multi-column reading order",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "input",
				Aliases:  []string{"i"},
				Usage:    "Input PDF file path",
				Required: true,
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Output file path (default: stdout)",
			},
			&cli.IntFlag{
				Name:  "start-page",
				Usage: "Start page number (0-indexed)",
				Value: -1,
			},
			&cli.IntFlag{
				Name:  "end-page",
				Usage: "End page number (0-indexed)",
				Value: -1,
			},
			&cli.IntFlag{
				Name:  "header-margin",
				Usage: "Height ignored at the top of every page",
				Value: 50,
			},
			&cli.IntFlag{
				Name:  "footer-margin",
				Usage: "Height ignored at the bottom of every page",
				Value: 50,
			},
			&cli.BoolFlag{
				Name:  "include-image-text",
				Usage: "Keep text that lies entirely inside images",
			},
			&cli.StringFlag{
				Name:  "format",
				Usage: "Output format: text or markdown",
				Value: string(pdfcolumns.FormatText),
			},
			&cli.BoolFlag{
				Name:  "boxes",
				Usage: "Print the column rectangles of every page instead of text",
			},
			&cli.BoolFlag{
				Name:  "metrics",
				Usage: "Log processing time and statistics",
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "Enable debug logging",
			},
		},
		Action: extractPDF,
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		logrus.Fatal(err)
	}
}

func extractPDF(ctx context.Context, cmd *cli.Command) error {
	inputPath := cmd.String("input")
	outputPath := cmd.String("output")
	startPage := cmd.Int("start-page")
	endPage := cmd.Int("end-page")

	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	if cmd.Bool("debug") {
		logger.SetLevel(logrus.DebugLevel)
	}

	format := pdfcolumns.OutputFormat(strings.ToLower(cmd.String("format")))
	if format != pdfcolumns.FormatText && format != pdfcolumns.FormatMarkdown {
		return fmt.Errorf("unknown format %q", cmd.String("format"))
	}

	config := pdfcolumns.DefaultConfig()
	config.Layout.HeaderMargin = cmd.Int("header-margin")
	config.Layout.FooterMargin = cmd.Int("footer-margin")
	config.Layout.ExcludeImageText = !cmd.Bool("include-image-text")
	config.Format = format
	config.EnableMetricsLogging = cmd.Bool("metrics")
	config.Logger = logger

	// Initialise pdfium
	pool, err := webassembly.Init(webassembly.Config{
		MinIdle:  1,
		MaxIdle:  1,
		MaxTotal: 1,
	})
	if err != nil {
		return fmt.Errorf("failed to initialise pdfium: %w", err)
	}
	defer pool.Close()

	instance, err := pool.GetInstance(time.Second * 30)
	if err != nil {
		return fmt.Errorf("failed to get pdfium instance: %w", err)
	}

	converter := pdfcolumns.NewConverterWithConfig(instance, config)

	info, err := converter.GetDocumentInfo(inputPath)
	if err != nil {
		return fmt.Errorf("failed to get document info: %w", err)
	}

	logger.Infof("Processing PDF with %d pages...", info.PageCount)

	var output string
	switch {
	case cmd.Bool("boxes"):
		doc, err := converter.ExtractFile(ctx, inputPath)
		if err != nil {
			return fmt.Errorf("failed to extract PDF: %w", err)
		}
		output = formatBoxes(doc)
	case startPage >= 0 || endPage >= 0:
		if startPage < 0 {
			startPage = 0
		}
		if endPage < 0 {
			endPage = info.PageCount - 1
		}
		logger.Infof("Converting pages %d to %d...", startPage+1, endPage+1)
		output, err = converter.ConvertPageRange(inputPath, startPage, endPage)
	default:
		logger.Info("Converting all pages...")
		output, err = converter.ConvertFile(inputPath)
	}

	if err != nil {
		return fmt.Errorf("failed to convert PDF: %w", err)
	}

	// Write output
	if outputPath != "" {
		err = os.WriteFile(outputPath, []byte(output), 0644)
		if err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}
		logger.Infof("Output written to %s", outputPath)
	} else {
		fmt.Println(output)
	}

	return nil
}

// formatBoxes lists each page's column rectangles in reading order.
func formatBoxes(doc *pdfcolumns.Document) string {
	var sb strings.Builder
	for _, page := range doc.Pages {
		fmt.Fprintf(&sb, "%s%d\n", pdfcolumns.PageSeparator, page.Number)
		if page.Err != nil {
			fmt.Fprintf(&sb, "error: %v\n", page.Err)
			continue
		}
		for i, block := range page.Blocks {
			fmt.Fprintf(&sb, "%d\t%d\t%d\t%d\t%d\n", i+1, block.X0, block.Y0, block.X1, block.Y1)
		}
	}
	return sb.String()
}
