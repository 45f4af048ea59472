package service

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"veridoc/internal/batch"
	"veridoc/internal/config"
	"veridoc/internal/domain"
	"veridoc/internal/extract"
	"veridoc/internal/imageproc"
	"veridoc/internal/validator"
)

// DocumentProcessor turns PDF bytes into per-page text, segments, and
// rasterized images.
type DocumentProcessor interface {
	ProcessDocument(ctx context.Context, data []byte) (*domain.DocumentPages, error)
}

// Upload is one file submitted for extraction.
type Upload struct {
	FileName string
	Data     []byte
}

// PipelineService defines the extraction pipeline contract: single image,
// multi-page document, and batch.
type PipelineService interface {
	ExtractImage(ctx context.Context, data []byte) (*domain.ExtractionResult, *domain.ValidationReport, error)
	ExtractDocument(ctx context.Context, data []byte) (*domain.BatchSummary, error)
	ExtractBatch(ctx context.Context, uploads []Upload) (*domain.BatchSummary, error)
}

type pipelineService struct {
	normalizer *imageproc.Normalizer
	pdf        DocumentProcessor
	extractor  *extract.Service
	engine     *validator.Engine
	cfg        *config.Config
}

// NewPipelineService wires the extraction pipeline.
func NewPipelineService(
	normalizer *imageproc.Normalizer,
	pdf DocumentProcessor,
	extractor *extract.Service,
	engine *validator.Engine,
	cfg *config.Config,
) PipelineService {
	return &pipelineService{
		normalizer: normalizer,
		pdf:        pdf,
		extractor:  extractor,
		engine:     engine,
		cfg:        cfg,
	}
}

// sniffFileType detects the file type from magic bytes. Extension and declared
// Content-Type are advisory; the first 512 bytes decide.
func sniffFileType(data []byte) (domain.FileType, error) {
	head := data
	if len(head) > 512 {
		head = head[:512]
	}
	detected := http.DetectContentType(head)
	ft, ok := domain.AllowedContentTypes[detected]
	if !ok {
		return "", fmt.Errorf("%w: detected %q", domain.ErrUnsupportedFileType, detected)
	}
	return ft, nil
}

func (s *pipelineService) checkSize(data []byte) error {
	maxBytes := s.cfg.Image.MaxUploadMB * 1024 * 1024
	if int64(len(data)) > maxBytes {
		return fmt.Errorf("%w: %d bytes exceeds %dMB", domain.ErrFileTooLarge, len(data), s.cfg.Image.MaxUploadMB)
	}
	return nil
}

// ExtractImage runs the single-image pipeline: normalize, extract, validate.
// Input-class failures (undecodable bytes, oversize dimensions) are returned
// as errors; extraction-class failures surface as an empty result with notes.
func (s *pipelineService) ExtractImage(ctx context.Context, data []byte) (*domain.ExtractionResult, *domain.ValidationReport, error) {
	if err := s.checkSize(data); err != nil {
		return nil, nil, err
	}
	ft, err := sniffFileType(data)
	if err != nil {
		return nil, nil, err
	}
	if ft == domain.FileTypePDF {
		return nil, nil, fmt.Errorf("%w: PDF requires the document pipeline", domain.ErrUnsupportedFileType)
	}

	img, err := s.normalizer.Normalize(ctx, data)
	if err != nil {
		return nil, nil, err
	}
	if img.Oversize {
		return nil, nil, fmt.Errorf("%w: %d bytes", domain.ErrEncodedImageTooLarge, img.Size)
	}

	result := s.extractor.ExtractImage(ctx, img)
	report := s.engine.Run(result)
	return result, report, nil
}

// ExtractDocument runs the PDF pipeline: rasterize and text-extract every
// page, then extract and validate each page as a batch item. The rasterized
// page image is preferred; pages where rasterization failed fall back to
// their text segments, taking the segment with the highest overall
// confidence.
func (s *pipelineService) ExtractDocument(ctx context.Context, data []byte) (*domain.BatchSummary, error) {
	if err := s.checkSize(data); err != nil {
		return nil, err
	}
	ft, err := sniffFileType(data)
	if err != nil {
		return nil, err
	}
	if ft != domain.FileTypePDF {
		return nil, fmt.Errorf("%w: expected PDF, detected %s", domain.ErrUnsupportedFileType, ft)
	}

	pages, err := s.pdf.ProcessDocument(ctx, data)
	if err != nil {
		return nil, err
	}

	orch := batch.NewOrchestrator(s.cfg.PDF.PageConcurrency)
	summary := orch.Run(ctx, pages.PageCount, func(ctx context.Context, idx int) (*domain.ExtractionResult, *domain.ValidationReport, error) {
		page := &pages.Pages[idx]
		if page.Status == domain.PageStatusFailed {
			return nil, nil, fmt.Errorf("page %d: %s", page.PageNumber, page.Error)
		}

		page.Status = domain.PageStatusExtractionDispatched
		result, err := s.extractPage(ctx, page)
		if err != nil {
			page.Status = domain.PageStatusFailed
			page.Error = err.Error()
			return nil, nil, err
		}
		page.Status = domain.PageStatusSucceeded
		return result, s.engine.Run(result), nil
	})

	// Document summaries are keyed by 1-based page number, not slice index.
	for i := range summary.Results {
		summary.Results[i].Index = pages.Pages[summary.Results[i].Index].PageNumber
	}
	for i := range summary.Errors {
		summary.Errors[i].Index = pages.Pages[summary.Errors[i].Index].PageNumber
	}
	return summary, nil
}

func (s *pipelineService) extractPage(ctx context.Context, page *domain.PageResult) (*domain.ExtractionResult, error) {
	if page.Image != nil {
		img, err := s.normalizer.Normalize(ctx, page.Image.Bytes)
		if err != nil {
			log.Printf("pipelineService.extractPage: normalizing page %d raster failed: %v", page.PageNumber, err)
		} else {
			return s.extractor.ExtractImage(ctx, img), nil
		}
	}

	if len(page.Segments) == 0 {
		return nil, fmt.Errorf("page %d has no image and no usable text", page.PageNumber)
	}

	// Multiple candidate segments on one page: extract each and keep the one
	// the model was most confident about.
	var best *domain.ExtractionResult
	for _, seg := range page.Segments {
		result := s.extractor.ExtractText(ctx, seg)
		if best == nil || result.OverallConfidence > best.OverallConfidence {
			best = result
		}
	}
	return best, nil
}

// ExtractBatch runs the multi-image pipeline. Items run in chunks of the
// configured image concurrency; a failed item becomes an ItemError without
// blocking the rest.
func (s *pipelineService) ExtractBatch(ctx context.Context, uploads []Upload) (*domain.BatchSummary, error) {
	if len(uploads) == 0 {
		return nil, domain.ErrEmptyBatch
	}
	if len(uploads) > s.cfg.Batch.MaxItems {
		return nil, fmt.Errorf("%w: %d items exceeds limit of %d", domain.ErrTooManyItems, len(uploads), s.cfg.Batch.MaxItems)
	}

	orch := batch.NewOrchestrator(s.cfg.Batch.ImageConcurrency)
	summary := orch.Run(ctx, len(uploads), func(ctx context.Context, idx int) (*domain.ExtractionResult, *domain.ValidationReport, error) {
		result, report, err := s.ExtractImage(ctx, uploads[idx].Data)
		if err != nil {
			return nil, nil, fmt.Errorf("%s: %v", uploads[idx].FileName, err)
		}
		return result, report, nil
	})
	return summary, nil
}
