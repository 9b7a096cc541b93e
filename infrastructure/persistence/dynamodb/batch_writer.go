package dynamodb

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/cenkalti/backoff/v5"
	"github.com/gabeliss/tickX/domain/catalog"
	"go.uber.org/zap"
)

// MaxBatchSize is the DynamoDB BatchWriteItem item limit.
const MaxBatchSize = 25

// batchWriter writes items in sequential chunks of at most MaxBatchSize.
// A chunk whose call fails is counted as failed and the next chunk proceeds.
// Unprocessed items are resent with exponential backoff; whatever is still
// unprocessed after MaxRetries is counted as failed.
type batchWriter struct {
	table        *table
	maxRetries   int
	initialDelay time.Duration
	maxDelay     time.Duration
	sleep        func(ctx context.Context, d time.Duration) error
}

func newBatchWriter(t *table, cfg Config) *batchWriter {
	return &batchWriter{
		table:        t,
		maxRetries:   cfg.MaxRetries,
		initialDelay: cfg.InitialDelay,
		maxDelay:     cfg.MaxDelay,
		sleep:        sleepContext,
	}
}

// newBackOff returns a fresh doubling schedule from initialDelay up to maxDelay.
func (w *batchWriter) newBackOff() *backoff.ExponentialBackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = w.initialDelay
	b.MaxInterval = w.maxDelay
	b.Multiplier = 2
	b.RandomizationFactor = 0
	b.Reset()
	return b
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// write puts every item. Items are already marshalled; preFailed counts
// records that could not be marshalled and so never reach a chunk.
func (w *batchWriter) write(ctx context.Context, items []map[string]types.AttributeValue, preFailed int) catalog.BatchResult {
	result := catalog.BatchResult{Failed: preFailed}
	totalChunks := (len(items) + MaxBatchSize - 1) / MaxBatchSize

	for start, chunkNumber := 0, 1; start < len(items); start, chunkNumber = start+MaxBatchSize, chunkNumber+1 {
		end := start + MaxBatchSize
		if end > len(items) {
			end = len(items)
		}

		requests := make([]types.WriteRequest, 0, end-start)
		for _, item := range items[start:end] {
			requests = append(requests, types.WriteRequest{PutRequest: &types.PutRequest{Item: item}})
		}

		saved, failed := w.writeChunk(ctx, requests, chunkNumber, totalChunks)
		result.Saved += saved
		result.Failed += failed
		result.Chunks++
	}

	w.table.metrics.AddBatchItems(w.table.name, result.Saved, result.Failed)
	w.table.logger.Info("batch write completed",
		zap.String("table", w.table.name),
		zap.Int("chunks", result.Chunks),
		zap.Int("saved", result.Saved),
		zap.Int("failed", result.Failed))

	return result
}

func (w *batchWriter) writeChunk(ctx context.Context, requests []types.WriteRequest, chunkNumber, totalChunks int) (saved, failed int) {
	pending := requests
	schedule := w.newBackOff()

	for attempt := 0; ; attempt++ {
		callCtx, done := w.table.observe(ctx, "BatchWriteItem")
		out, err := w.table.client.BatchWriteItem(callCtx, &dynamodb.BatchWriteItemInput{
			RequestItems: map[string][]types.WriteRequest{w.table.name: pending},
		})
		done(err)
		if err != nil {
			w.table.logger.Error("batch write chunk failed",
				zap.String("table", w.table.name),
				zap.Int("chunk_number", chunkNumber),
				zap.Int("total_chunks", totalChunks),
				zap.Int("attempt", attempt),
				zap.Int("items", len(pending)),
				zap.Error(err))
			return len(requests) - len(pending), len(pending)
		}

		unprocessed := out.UnprocessedItems[w.table.name]
		if len(unprocessed) == 0 {
			return len(requests), 0
		}

		if attempt >= w.maxRetries {
			w.table.logger.Error("max retries exceeded for batch write",
				zap.String("table", w.table.name),
				zap.Int("chunk_number", chunkNumber),
				zap.Int("unprocessed", len(unprocessed)))
			return len(requests) - len(unprocessed), len(unprocessed)
		}

		delay := schedule.NextBackOff()
		w.table.logger.Warn("retrying unprocessed batch items",
			zap.Int("chunk_number", chunkNumber),
			zap.Int("attempt", attempt+1),
			zap.Int("unprocessed", len(unprocessed)),
			zap.Duration("delay", delay))

		if err := w.sleep(ctx, delay); err != nil {
			return len(requests) - len(unprocessed), len(unprocessed)
		}
		pending = unprocessed
	}
}
