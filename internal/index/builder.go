package index

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/tda234574534243/law-advisor/internal/embed"
	"github.com/tda234574534243/law-advisor/internal/model"
	"github.com/tda234574534243/law-advisor/internal/store"
)

const encodeBatchSize = 32

// Builder rebuilds index artifacts from the passage store. Rebuilding is an
// explicit operation; the running engine swaps artifacts in atomically when
// told to reload.
type Builder struct {
	store   store.PassageStore
	encoder embed.Encoder // nil when the semantic tier is disabled
	cfg     model.IndexConfig
	workers int
}

// NewBuilder creates a builder. encoder may be nil.
func NewBuilder(s store.PassageStore, encoder embed.Encoder, cfg model.IndexConfig, workers int) *Builder {
	if workers <= 0 {
		workers = 1
	}
	return &Builder{store: s, encoder: encoder, cfg: cfg, workers: workers}
}

// BuildStatisticalIndex fetches the corpus and writes the TF-IDF artifact.
func (b *Builder) BuildStatisticalIndex(ctx context.Context) (*TFIDFIndex, error) {
	passages, err := b.store.FetchAllPassages(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch passages: %w", err)
	}
	idx := BuildTFIDF(passages)
	if err := SaveTFIDF(idx, b.cfg.TFIDFPath); err != nil {
		return nil, err
	}
	return idx, nil
}

// BuildEmbeddingIndex encodes the corpus in batches across a bounded worker
// pool and writes the embedding artifact.
func (b *Builder) BuildEmbeddingIndex(ctx context.Context) (*EmbeddingIndex, error) {
	if b.encoder == nil {
		return nil, fmt.Errorf("no embedding encoder configured")
	}

	passages, err := b.store.FetchAllPassages(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch passages: %w", err)
	}

	// Keep only indexable passages, preserving corpus order
	var docs []model.Passage
	for _, p := range passages {
		if p.CombinedText() != "" {
			docs = append(docs, p)
		}
	}

	vectors, err := b.encodeAll(ctx, docs)
	if err != nil {
		return nil, err
	}

	idx := &EmbeddingIndex{
		BuiltAt: time.Now().UTC(),
		Model:   b.encoder.Name(),
		Vectors: vectors,
		Docs:    docs,
	}
	// Normalize once at build time
	for i, v := range idx.Vectors {
		idx.Vectors[i] = normalizeVector(v)
	}
	if err := SaveEmbeddings(idx, b.cfg.EmbeddingPath); err != nil {
		return nil, err
	}
	return idx, nil
}

type encodeJob struct {
	start int
	texts []string
}

// encodeAll fans batches out to b.workers goroutines and reassembles the
// vectors in corpus order.
func (b *Builder) encodeAll(ctx context.Context, docs []model.Passage) ([][]float32, error) {
	vectors := make([][]float32, len(docs))
	jobs := make(chan encodeJob)
	errs := make(chan error, b.workers)

	var wg sync.WaitGroup
	for w := 0; w < b.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range jobs {
				vecs, err := b.encoder.Encode(ctx, job.texts)
				if err != nil {
					select {
					case errs <- fmt.Errorf("encode batch at %d: %w", job.start, err):
					default:
					}
					return
				}
				for i, v := range vecs {
					vectors[job.start+i] = v
				}
			}
		}()
	}

	for start := 0; start < len(docs); start += encodeBatchSize {
		end := start + encodeBatchSize
		if end > len(docs) {
			end = len(docs)
		}
		texts := make([]string, 0, end-start)
		for _, p := range docs[start:end] {
			texts = append(texts, p.CombinedText())
		}
		select {
		case jobs <- encodeJob{start: start, texts: texts}:
		case err := <-errs:
			close(jobs)
			wg.Wait()
			return nil, err
		case <-ctx.Done():
			close(jobs)
			wg.Wait()
			return nil, ctx.Err()
		}
	}
	close(jobs)
	wg.Wait()

	select {
	case err := <-errs:
		return nil, err
	default:
	}
	return vectors, nil
}
