package batch

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/abhisek/oncomark/internal/classifier"
	"github.com/abhisek/oncomark/internal/panelsrc"
)

// Result pairs an input record with its scores. Err is set when the record
// could not be scored; it never affects other results.
type Result struct {
	Record panelsrc.Record
	Scores []classifier.ClassScore // registry order
	Best   classifier.ClassScore
	Err    error
}

// Run classifies records with at most workers goroutines. Results keep the
// input order. Only context cancellation aborts the run; per-record failures
// are reported in Result.Err.
func Run(ctx context.Context, engine *classifier.Engine, records []panelsrc.Record, workers int) ([]Result, error) {
	if workers <= 0 {
		workers = 1
	}

	results := make([]Result, len(records))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i := range records {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = classify(engine, records[i])
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

func classify(engine *classifier.Engine, rec panelsrc.Record) Result {
	res := Result{Record: rec}
	scores, err := engine.ScoreAll(rec.Panel)
	if err != nil {
		res.Err = err
		return res
	}
	res.Scores = scores
	res.Best = classifier.Rank(scores)[0]
	return res
}

// Summary counts successful and failed results, and tallies winners by class.
type Summary struct {
	Total  int
	Failed int
	ByBest map[string]int
}

// Summarize tallies a batch run.
func Summarize(results []Result) Summary {
	s := Summary{Total: len(results), ByBest: make(map[string]int)}
	for _, r := range results {
		if r.Err != nil {
			s.Failed++
			continue
		}
		s.ByBest[string(r.Best.Class)]++
	}
	return s
}
