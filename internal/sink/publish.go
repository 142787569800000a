package sink

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/Imsharad/upwork-jobs-agent/internal/domain"
)

type Result struct {
	Sink     string
	Location string
	Err      error
}

// PublishAll runs every sink concurrently. A failing sink does not stop the
// others; results come back in sink order.
func PublishAll(ctx context.Context, t domain.Table, sinks ...TableSink) []Result {
	results := make([]Result, len(sinks))

	var g errgroup.Group
	for i, s := range sinks {
		g.Go(func() error {
			loc, err := Publish(ctx, s, t)
			results[i] = Result{Sink: s.Name(), Location: loc, Err: err}
			return nil
		})
	}
	_ = g.Wait()

	return results
}

// Failed counts results with an error.
func Failed(results []Result) int {
	n := 0
	for _, r := range results {
		if r.Err != nil {
			n++
		}
	}
	return n
}
