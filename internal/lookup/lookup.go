// Package lookup turns a batch of candidate URLs into redirect results.
package lookup

import (
	"context"
	"strings"

	"github.com/apex/log"
	"github.com/samber/lo"

	"github.com/williampepple1/redirlookup/internal/tracer"
	"github.com/williampepple1/redirlookup/internal/validate"
	"github.com/williampepple1/redirlookup/internal/worker"
	"github.com/williampepple1/redirlookup/pkg/models"
)

// Lookup traces every unique URL of a batch.
type Lookup struct {
	Tracer  tracer.Tracer
	Workers int
	Logger  log.Interface
}

// New creates a Lookup tracing with t on the given number of workers.
func New(t tracer.Tracer, workers int, logger log.Interface) *Lookup {
	return &Lookup{
		Tracer:  t,
		Workers: workers,
		Logger:  logger,
	}
}

// ConvertToList splits text into lines and keeps the trimmed lines that are
// valid URLs, in order. Everything else is dropped silently.
func ConvertToList(text string) []string {
	return lo.FilterMap(strings.Split(text, "\n"), func(line string, _ int) (string, bool) {
		line = strings.TrimSpace(line)
		return line, validate.IsValid(line)
	})
}

// Unique returns urls without duplicates, keeping the first occurrence of each.
func Unique(urls []string) []string {
	return lo.Uniq(urls)
}

// Run traces the unique URLs among candidates and returns one result per URL.
//
// With fromFreeText set, every candidate is treated as a blob of text and
// only its valid lines are kept. Otherwise candidates are used as given.
// A failed trace yields a result with empty redirects and never stops the
// batch.
func (l *Lookup) Run(ctx context.Context, candidates []string, fromFreeText bool) []models.Result {
	urls := candidates
	if fromFreeText {
		urls = lo.FlatMap(candidates, func(text string, _ int) []string {
			return ConvertToList(text)
		})
	}
	urls = Unique(urls)

	results := make([]models.Result, 0, len(urls))
	if len(urls) == 0 {
		l.Logger.Info("0 URLs found")
		return results
	}

	pool := worker.NewPool(l.Workers, l.Tracer, l.Logger, len(urls))
	pool.Start(ctx)
	pool.AddJobs(urls)

	failed := 0
	for _, o := range pool.Collect() {
		if o.Err != nil {
			l.Logger.WithField("url", o.URL).WithError(o.Err).Error("request failed")
			results = append(results, models.NewResult(o.URL, nil))
			failed++
			continue
		}
		results = append(results, models.NewResult(o.URL, o.Chain))
	}

	l.Logger.WithFields(log.Fields{
		"urls":   len(urls),
		"failed": failed,
	}).Info("lookup finished")

	return results
}
