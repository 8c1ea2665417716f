// Package export turns a resume document into downloadable artifacts. It
// renders the document to a standalone HTML page and hands that page to a
// headless Chrome instance, producing either an A4 PDF or a high-resolution
// JPEG of the first page.
package export

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"

	"github.com/maya/resume-studio/internal/document"
	"github.com/maya/resume-studio/internal/render"
)

// Format selects the export artifact type.
type Format string

const (
	FormatPDF  Format = "pdf"
	FormatJPEG Format = "jpeg"
)

// Valid reports whether the format is one the exporter can produce.
func (f Format) Valid() bool {
	return f == FormatPDF || f == FormatJPEG
}

// A4 paper in inches and in CSS pixels at 96 DPI.
const (
	paperWidthIn  = 8.27
	paperHeightIn = 11.69
	pageWidthPx   = 794
	pageHeightPx  = 1123
)

// Options configures the exporter. Zero values fall back to defaults.
type Options struct {
	// ChromePath overrides the Chrome/Chromium binary chromedp discovers.
	ChromePath string
	// Timeout bounds a single export, browser startup included.
	Timeout time.Duration
	// Scale is the device scale factor for JPEG capture. Default 2 keeps
	// text crisp when the image is printed or zoomed.
	Scale float64
	// Quality is the JPEG encoder quality, 1-100. Default 98.
	Quality int
}

func (o Options) withDefaults() Options {
	if o.Timeout <= 0 {
		o.Timeout = 60 * time.Second
	}
	if o.Scale <= 0 {
		o.Scale = 2
	}
	if o.Quality <= 0 {
		o.Quality = 98
	}
	return o
}

// Exporter produces PDF and JPEG artifacts from resume documents. It is
// stateless and safe for concurrent use; every export runs its own browser
// context.
type Exporter struct {
	opts Options
}

// New creates an exporter with the given options.
func New(opts Options) *Exporter {
	return &Exporter{opts: opts.withDefaults()}
}

// Result is a finished export artifact.
type Result struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Export renders the document and produces the artifact for the requested
// format.
func (e *Exporter) Export(ctx context.Context, doc *document.Resume, format Format) (*Result, error) {
	if !format.Valid() {
		return nil, fmt.Errorf("unsupported export format %q", format)
	}

	html, err := render.DocumentHTML(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to render document: %w", err)
	}

	var data []byte
	switch format {
	case FormatPDF:
		data, err = e.PDF(ctx, html)
	case FormatJPEG:
		data, err = e.JPEG(ctx, html)
	}
	if err != nil {
		return nil, err
	}

	return &Result{
		Filename:    Filename(doc.Title, format),
		ContentType: ContentType(format),
		Data:        data,
	}, nil
}

// PDF prints the HTML page to an A4 portrait PDF with zero margins and
// backgrounds included, matching the on-screen preview.
func (e *Exporter) PDF(ctx context.Context, html string) ([]byte, error) {
	var pdf []byte
	err := e.run(ctx, html, nil, chromedp.ActionFunc(func(ctx context.Context) error {
		var err error
		pdf, _, err = page.PrintToPDF().
			WithPrintBackground(true).
			WithPaperWidth(paperWidthIn).
			WithPaperHeight(paperHeightIn).
			WithMarginTop(0).
			WithMarginBottom(0).
			WithMarginLeft(0).
			WithMarginRight(0).
			WithPreferCSSPageSize(true).
			Do(ctx)
		return err
	}))
	if err != nil {
		return nil, fmt.Errorf("pdf export failed: %w", err)
	}
	return pdf, nil
}

// JPEG captures the full page as a JPEG at the configured device scale.
func (e *Exporter) JPEG(ctx context.Context, html string) ([]byte, error) {
	var img []byte
	viewport := chromedp.EmulateViewport(pageWidthPx, pageHeightPx, chromedp.EmulateScale(e.opts.Scale))
	err := e.run(ctx, html, viewport, chromedp.FullScreenshot(&img, e.opts.Quality))
	if err != nil {
		return nil, fmt.Errorf("jpeg export failed: %w", err)
	}
	return img, nil
}

// run writes the HTML to a temp file, opens it in a fresh headless browser
// context and executes capture after the body is ready.
func (e *Exporter) run(ctx context.Context, html string, setup chromedp.Action, capture chromedp.Action) error {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-dev-shm-usage", true),
	)
	if e.opts.ChromePath != "" {
		opts = append(opts, chromedp.ExecPath(e.opts.ChromePath))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	browserCtx, cancelTimeout := context.WithTimeout(browserCtx, e.opts.Timeout)
	defer cancelTimeout()

	// file:// navigation avoids data-URL size limits for image-heavy pages.
	tmpDir, err := os.MkdirTemp("", "resume-export-")
	if err != nil {
		return err
	}
	defer os.RemoveAll(tmpDir)

	htmlPath := filepath.Join(tmpDir, "index.html")
	if err := os.WriteFile(htmlPath, []byte(html), 0o644); err != nil {
		return err
	}

	actions := []chromedp.Action{
		chromedp.Navigate("file://" + htmlPath),
		chromedp.WaitReady("body", chromedp.ByQuery),
	}
	if setup != nil {
		actions = append(actions, setup)
	}
	actions = append(actions, capture)

	return chromedp.Run(browserCtx, actions...)
}

// Filename builds the download filename from the resume title, falling back
// to "Resume" for untitled documents.
func Filename(title string, format Format) string {
	title = strings.TrimSpace(title)
	if title == "" {
		title = "Resume"
	}
	return title + "." + string(format)
}

// ContentType returns the MIME type for a format.
func ContentType(format Format) string {
	if format == FormatJPEG {
		return "image/jpeg"
	}
	return "application/pdf"
}
