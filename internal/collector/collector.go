// Package collector runs the fixed search query list and turns geolocated
// matches into CameraRecords.
package collector

import (
	"context"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"ipcammap/internal/models"
	"ipcammap/pkg/shodan"
)

// Searcher is the subset of the search API the collector needs.
type Searcher interface {
	Search(ctx context.Context, query string, limit int) (*shodan.SearchResult, error)
}

// QueryOutcome records what one query contributed. Err is set when the
// request failed, in which case Matches and Kept are zero.
type QueryOutcome struct {
	Query   string
	Matches int
	Kept    int
	Err     error
}

// Result is the accumulated output of a collection pass.
type Result struct {
	Records  []models.CameraRecord
	Outcomes []QueryOutcome
}

// Inspected returns the number of raw matches seen across all queries.
func (r Result) Inspected() int {
	n := 0
	for _, o := range r.Outcomes {
		n += o.Matches
	}
	return n
}

// Failed returns the number of queries whose request failed.
func (r Result) Failed() int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Err != nil {
			n++
		}
	}
	return n
}

// Collector issues queries sequentially against a Searcher.
type Collector struct {
	searcher    Searcher
	queries     []string
	perQueryMax int
	progress    io.Writer
}

// Option configures a Collector.
type Option func(*Collector)

// WithQueries replaces DefaultQueries.
func WithQueries(queries []string) Option {
	return func(c *Collector) {
		c.queries = queries
	}
}

// WithPerQueryMax overrides DefaultPerQueryMax.
func WithPerQueryMax(n int) Option {
	return func(c *Collector) {
		if n > 0 {
			c.perQueryMax = n
		}
	}
}

// WithProgress sets where per-query progress lines are printed.
func WithProgress(w io.Writer) Option {
	return func(c *Collector) {
		c.progress = w
	}
}

// New returns a Collector using the default query list.
func New(searcher Searcher, opts ...Option) *Collector {
	c := &Collector{
		searcher:    searcher,
		queries:     DefaultQueries,
		perQueryMax: DefaultPerQueryMax,
		progress:    os.Stdout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Collect runs the queries in order, requesting min(perQueryMax, remaining)
// matches each time. The remaining budget shrinks by the raw match count of
// each successful query, so limit bounds matches inspected rather than
// cameras kept. A failed query is logged and skipped without touching the
// budget. Collection stops once the budget is spent or ctx is cancelled.
func (c *Collector) Collect(ctx context.Context, limit int) Result {
	var res Result
	remaining := limit

	for _, query := range c.queries {
		if remaining <= 0 {
			break
		}
		if err := ctx.Err(); err != nil {
			zap.L().Warn("collection interrupted", zap.Error(err))
			break
		}

		fmt.Fprintf(c.progress, "Searching for: %s\n", query)
		outcome := c.runQuery(ctx, query, min(c.perQueryMax, remaining), &res.Records)
		res.Outcomes = append(res.Outcomes, outcome)
		if outcome.Err != nil {
			fmt.Fprintf(c.progress, "Error searching for %s: %v\n", query, outcome.Err)
			continue
		}
		remaining -= outcome.Matches
	}

	zap.L().Info("collection finished",
		zap.Int("queries", len(res.Outcomes)),
		zap.Int("failed", res.Failed()),
		zap.Int("inspected", res.Inspected()),
		zap.Int("records", len(res.Records)),
	)
	return res
}

func (c *Collector) runQuery(ctx context.Context, query string, limit int, records *[]models.CameraRecord) QueryOutcome {
	outcome := QueryOutcome{Query: query}

	sr, err := c.searcher.Search(ctx, query, limit)
	if err != nil {
		zap.L().Warn("search failed", zap.String("query", query), zap.Error(err))
		outcome.Err = err
		return outcome
	}

	outcome.Matches = len(sr.Matches)
	for _, m := range sr.Matches {
		rec, ok := FromMatch(m, query)
		if !ok {
			continue
		}
		*records = append(*records, rec)
		outcome.Kept++
	}

	zap.L().Debug("search done",
		zap.String("query", query),
		zap.Int("limit", limit),
		zap.Int("matches", outcome.Matches),
		zap.Int("kept", outcome.Kept),
	)
	return outcome
}
