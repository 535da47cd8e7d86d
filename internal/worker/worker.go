package worker

import (
	"context"
	"sort"
	"sync"

	"github.com/apex/log"

	"github.com/williampepple1/redirlookup/internal/tracer"
	"github.com/williampepple1/redirlookup/pkg/models"
)

// Job is one URL to trace, tagged with its position in the batch
type Job struct {
	Index int
	URL   string
}

// Outcome is the result of tracing one Job
type Outcome struct {
	Index int
	URL   string
	Chain models.RedirectChain
	Err   error
}

// Pool manages a pool of worker goroutines
type Pool struct {
	Workers   int
	Tracer    tracer.Tracer
	Logger    log.Interface
	Jobs      chan Job
	Results   chan Outcome
	WaitGroup *sync.WaitGroup
}

// NewPool creates a new worker pool sized for size jobs. With a single
// worker, jobs are traced strictly one after another in the order added.
func NewPool(workers int, t tracer.Tracer, logger log.Interface, size int) *Pool {
	if workers < 1 {
		workers = 1
	}
	return &Pool{
		Workers:   workers,
		Tracer:    t,
		Logger:    logger,
		Jobs:      make(chan Job, size),
		Results:   make(chan Outcome, size),
		WaitGroup: &sync.WaitGroup{},
	}
}

// Start starts the worker pool
func (p *Pool) Start(ctx context.Context) {
	for w := 1; w <= p.Workers; w++ {
		p.WaitGroup.Add(1)
		go p.worker(ctx, w)
	}

	// Close the results channel when all workers are done
	go func() {
		p.WaitGroup.Wait()
		close(p.Results)
	}()
}

// worker traces URLs from the jobs channel and sends outcomes to the results channel
func (p *Pool) worker(ctx context.Context, id int) {
	defer p.WaitGroup.Done()

	for job := range p.Jobs {
		p.Logger.WithFields(log.Fields{"worker": id, "url": job.URL}).Debug("tracing")
		chain, err := p.Tracer.Trace(ctx, job.URL)
		p.Results <- Outcome{
			Index: job.Index,
			URL:   job.URL,
			Chain: chain,
			Err:   err,
		}
	}
}

// AddJobs adds URLs to the jobs channel and closes it
func (p *Pool) AddJobs(urls []string) {
	for i, url := range urls {
		p.Jobs <- Job{Index: i, URL: url}
	}
	close(p.Jobs)
}

// Collect waits for every outcome and returns them in job order.
func (p *Pool) Collect() []Outcome {
	var outcomes []Outcome
	for o := range p.Results {
		outcomes = append(outcomes, o)
	}
	sort.Slice(outcomes, func(i, j int) bool {
		return outcomes[i].Index < outcomes[j].Index
	})
	return outcomes
}
