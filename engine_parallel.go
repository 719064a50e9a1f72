package codescribe

import (
	"context"
	"runtime"
	"sync"

	"github.com/jmcoleman/codescribe-ai-sub006/internal/analyzer"
)

// parseFiles produces one ParseResult per snapshot file, aligned with the
// input order. Parsing is embarrassingly parallel — each Parse call is pure
// with respect to its input — so a worker pool is used unless WithParallel
// disabled it. Cancellation is checked between per-file parses.
func (e *Engine) parseFiles(ctx context.Context, files []SourceFile) ([]*analyzer.ParseResult, error) {
	if e.useParallel && len(files) > 1 {
		return e.parseFilesParallel(ctx, files)
	}
	return e.parseFilesSerial(ctx, files)
}

func (e *Engine) parseFilesSerial(ctx context.Context, files []SourceFile) ([]*analyzer.ParseResult, error) {
	results := make([]*analyzer.ParseResult, len(files))
	for i, f := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		results[i] = e.parseOne(f)
	}
	return results, nil
}

// parseFilesParallel fans the snapshot out over a worker pool. Workers write
// to disjoint slice indexes, so no locking is needed; the pool drains before
// the function returns.
func (e *Engine) parseFilesParallel(ctx context.Context, files []SourceFile) ([]*analyzer.ParseResult, error) {
	numWorkers := min(runtime.NumCPU(), len(files))

	results := make([]*analyzer.ParseResult, len(files))
	indexCh := make(chan int, len(files))
	for i := range files {
		indexCh <- i
	}
	close(indexCh)

	var wg sync.WaitGroup
	for w := 0; w < numWorkers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range indexCh {
				if ctx.Err() != nil {
					return
				}
				results[i] = e.parseOne(files[i])
			}
		}()
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

// parseOne detects the language from the file extension and runs the
// analyzer. Parse never fails; a file the grammar rejects comes back as
// best-effort heuristic data, so every snapshot file yields a node.
func (e *Engine) parseOne(f SourceFile) *analyzer.ParseResult {
	lang := analyzer.LanguageForFile(f.Path)
	result := analyzer.Parse(f.Content, lang)
	if lang == "unknown" {
		e.logger.Debug("no language mapping for extension, used heuristic extractor",
			"file", f.Path)
	}
	return result
}
