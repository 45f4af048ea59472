package batch

import (
	"context"
	"fmt"
	"log"
	"math"
	"runtime/debug"
	"sync"
	"time"

	"github.com/google/uuid"

	"veridoc/internal/domain"
)

// ItemFunc processes one batch item by index. It returns the extraction
// result and validation report for the item, or an error.
type ItemFunc func(ctx context.Context, index int) (*domain.ExtractionResult, *domain.ValidationReport, error)

// Orchestrator fans batch items out in fixed-size chunks. Items within a
// chunk run concurrently; chunks run sequentially so provider rate limits
// see at most chunkSize requests in flight.
type Orchestrator struct {
	chunkSize int
}

// NewOrchestrator creates an orchestrator with the given per-chunk
// concurrency. Values below 1 are coerced to 1.
func NewOrchestrator(chunkSize int) *Orchestrator {
	if chunkSize < 1 {
		chunkSize = 1
	}
	return &Orchestrator{chunkSize: chunkSize}
}

// Run processes total items through fn and aggregates a BatchSummary. One
// item failing, or panicking, never blocks the rest of its chunk or the
// chunks after it: the failure becomes an ItemError and processing continues.
// Every index lands in exactly one of Results or Errors.
func (o *Orchestrator) Run(ctx context.Context, total int, fn ItemFunc) *domain.BatchSummary {
	start := time.Now()
	summary := &domain.BatchSummary{
		BatchID:    uuid.New(),
		TotalItems: total,
		Results:    []domain.ItemResult{},
		Errors:     []domain.ItemError{},
	}

	// Indexed slices let workers write without a mutex.
	results := make([]*domain.ItemResult, total)
	errs := make([]*domain.ItemError, total)

	chunks := int(math.Ceil(float64(total) / float64(o.chunkSize)))
	log.Printf("batch.Orchestrator: batch %s: %d items in %d chunks of %d", summary.BatchID, total, chunks, o.chunkSize)

	for offset := 0; offset < total; offset += o.chunkSize {
		end := offset + o.chunkSize
		if end > total {
			end = total
		}

		var wg sync.WaitGroup
		for i := offset; i < end; i++ {
			wg.Add(1)
			go func(idx int) {
				defer wg.Done()
				defer func() {
					if r := recover(); r != nil {
						log.Printf("batch.Orchestrator: panic processing item %d: %v\n%s", idx, r, debug.Stack())
						errs[idx] = &domain.ItemError{Index: idx, Message: fmt.Sprintf("internal error: %v", r)}
					}
				}()

				if err := ctx.Err(); err != nil {
					errs[idx] = &domain.ItemError{Index: idx, Message: err.Error()}
					return
				}

				result, report, err := fn(ctx, idx)
				if err != nil {
					errs[idx] = &domain.ItemError{Index: idx, Message: err.Error()}
					return
				}
				results[idx] = &domain.ItemResult{Index: idx, Result: result, Report: report}
			}(i)
		}
		wg.Wait()
	}

	for i := 0; i < total; i++ {
		switch {
		case results[i] != nil:
			summary.Results = append(summary.Results, *results[i])
			summary.SuccessCount++
		case errs[i] != nil:
			summary.Errors = append(summary.Errors, *errs[i])
			summary.ErrorCount++
		default:
			// fn returned (nil, nil, nil); treat as a failure rather than drop the index.
			summary.Errors = append(summary.Errors, domain.ItemError{Index: i, Message: "no result produced"})
			summary.ErrorCount++
		}
	}

	summary.ElapsedSeconds = math.Round(time.Since(start).Seconds()*100) / 100
	log.Printf("batch.Orchestrator: batch %s done: success=%d, errors=%d, elapsed=%.2fs",
		summary.BatchID, summary.SuccessCount, summary.ErrorCount, summary.ElapsedSeconds)
	return summary
}
