package pdfproc

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/ledongthuc/pdf"

	"veridoc/internal/config"
	"veridoc/internal/domain"
)

// textOpener parses PDF structure and exposes per-page text. Injected so tests
// can run without real PDF bytes; the default wraps ledongthuc/pdf.
type textOpener func(data []byte) (textDocument, int, error)

type textDocument interface {
	// PageText reconstructs the reading-order text of the 1-based page.
	PageText(pageNum int) (string, error)
}

// rasterOpener opens a PDF for page rasterization. Injected so tests can run
// without a raster backend; the default is the go-fitz implementation in
// rasterize.go.
type rasterOpener func(data []byte) (rasterDocument, error)

type rasterDocument interface {
	// PageImage renders the 1-based page at the given DPI as JPEG bytes.
	PageImage(pageNum int, dpi float64) ([]byte, error)
	Close() error
}

// Processor turns PDF bytes into per-page text, candidate passport segments,
// and rasterized page images. Pages are processed in fixed-size concurrent
// batches; a page failure is recorded on the page, never fatal for the
// document.
type Processor struct {
	cfg        config.PDFConfig
	openText   textOpener
	openRaster rasterOpener
}

// NewProcessor creates a Processor using the ledongthuc/pdf text backend and
// the go-fitz raster backend.
func NewProcessor(cfg config.PDFConfig) *Processor {
	return &Processor{cfg: cfg, openText: openForText, openRaster: openFitz}
}

// ProcessDocument parses the PDF structure and extracts text and a rasterized
// image for every page. An invalid PDF yields a single top-level
// ErrDocumentParse with no partial page results.
func (p *Processor) ProcessDocument(ctx context.Context, data []byte) (*domain.DocumentPages, error) {
	doc, pageCount, err := p.openText(data)
	if err != nil {
		return nil, err
	}

	raster, err := p.openRaster(data)
	if err != nil {
		// Text structure parsed but the raster backend rejected the bytes;
		// still a malformed document from the caller's point of view.
		return nil, fmt.Errorf("%w: %v", domain.ErrDocumentParse, err)
	}
	defer func() { _ = raster.Close() }()

	pages := make([]domain.PageResult, pageCount)
	for i := range pages {
		pages[i] = domain.PageResult{PageNumber: i + 1, Status: domain.PageStatusPending}
	}

	concurrency := p.cfg.PageConcurrency
	if concurrency <= 0 {
		concurrency = 3
	}

	for start := 0; start < pageCount; start += concurrency {
		end := start + concurrency
		if end > pageCount {
			end = pageCount
		}

		var wg sync.WaitGroup
		for i := start; i < end; i++ {
			wg.Add(1)
			go func(idx int) {
				defer wg.Done()
				p.processPage(doc, raster, &pages[idx])
			}(i)
		}
		wg.Wait()

		if end < pageCount && p.cfg.InterBatchDelay > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(p.cfg.InterBatchDelay):
			}
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
	}

	return &domain.DocumentPages{PageCount: pageCount, Pages: pages}, nil
}

// processPage runs one page through text extraction and rasterization,
// advancing its status as each stage completes.
func (p *Processor) processPage(doc textDocument, raster rasterDocument, page *domain.PageResult) {
	defer func() {
		if r := recover(); r != nil {
			page.Status = domain.PageStatusFailed
			page.Error = fmt.Sprintf("page %d processing panicked: %v", page.PageNumber, r)
			log.Printf("pdfproc.processPage: %s", page.Error)
		}
	}()

	text, err := doc.PageText(page.PageNumber)
	if err != nil {
		page.Status = domain.PageStatusFailed
		page.Error = fmt.Sprintf("extracting text: %v", err)
		return
	}
	page.Text = text
	page.Segments = segmentPassports(text, p.cfg.MinSegmentLength)
	page.Status = domain.PageStatusTextExtracted

	imgBytes, err := raster.PageImage(page.PageNumber, p.cfg.RasterDPI)
	if err != nil {
		// Text alone is still usable downstream; record and carry on.
		log.Printf("pdfproc.processPage: rasterizing page %d failed: %v", page.PageNumber, err)
		return
	}
	page.Image = &domain.NormalizedImage{Bytes: imgBytes, Format: "jpeg", Size: len(imgBytes)}
	page.Status = domain.PageStatusRasterized
}

// pdfTextDocument adapts ledongthuc/pdf to the textDocument interface.
type pdfTextDocument struct {
	reader *pdf.Reader
}

// PageText reads the positioned text runs of a 1-based page and reconstructs
// reading order.
func (d *pdfTextDocument) PageText(pageNum int) (string, error) {
	page := d.reader.Page(pageNum)
	if page.V.IsNull() {
		return "", fmt.Errorf("page %d is missing", pageNum)
	}
	content := page.Content()

	runs := make([]textRun, 0, len(content.Text))
	for _, t := range content.Text {
		if t.S == "" {
			continue
		}
		runs = append(runs, textRun{
			S:        t.S,
			X:        t.X,
			Y:        t.Y,
			W:        t.W,
			FontSize: t.FontSize,
		})
	}
	return assembleLines(runs), nil
}

// openForText parses the PDF structure, translating both errors and the
// parser's panics on malformed input into ErrDocumentParse.
func openForText(data []byte) (doc textDocument, pageCount int, err error) {
	defer func() {
		if r := recover(); r != nil {
			doc = nil
			err = fmt.Errorf("%w: %v", domain.ErrDocumentParse, r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", domain.ErrDocumentParse, err)
	}
	pageCount = reader.NumPage()
	if pageCount <= 0 {
		return nil, 0, fmt.Errorf("%w: document has no pages", domain.ErrDocumentParse)
	}
	return &pdfTextDocument{reader: reader}, pageCount, nil
}
