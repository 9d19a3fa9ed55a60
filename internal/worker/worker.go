// Package worker runs several independent source pipelines concurrently.
// Each pipeline still fetches its own pages one at a time.
package worker

import (
	"context"
	"log/slog"
	"sort"
	"sync"

	"github.com/williampepple1/listing-scraper/internal/pipeline"
	"github.com/williampepple1/listing-scraper/internal/source"
)

// Runner executes one scrape
type Runner interface {
	Run(ctx context.Context, src *source.Source, q source.Query) (*pipeline.Result, error)
}

// Job is one source to scrape for a query
type Job struct {
	Index  int
	Source *source.Source
	Query  source.Query
}

// Outcome is the result of one job
type Outcome struct {
	Job    Job
	Result *pipeline.Result
	Err    error
}

// Pool manages a pool of worker goroutines
type Pool struct {
	Runner    Runner
	Workers   int
	Logger    *slog.Logger
	Jobs      chan Job
	Results   chan Outcome
	WaitGroup *sync.WaitGroup
}

// NewPool creates a pool sized for n jobs
func NewPool(runner Runner, workers, n int, logger *slog.Logger) *Pool {
	if workers < 1 {
		workers = 1
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Pool{
		Runner:    runner,
		Workers:   workers,
		Logger:    logger,
		Jobs:      make(chan Job, n),
		Results:   make(chan Outcome, n),
		WaitGroup: &sync.WaitGroup{},
	}
}

// Start starts the workers. Results is closed once every worker has exited.
func (p *Pool) Start(ctx context.Context) {
	for w := 1; w <= p.Workers; w++ {
		p.WaitGroup.Add(1)
		go p.worker(ctx, w)
	}

	go func() {
		p.WaitGroup.Wait()
		close(p.Results)
	}()
}

// worker processes jobs until the jobs channel is closed
func (p *Pool) worker(ctx context.Context, id int) {
	defer p.WaitGroup.Done()

	for job := range p.Jobs {
		p.Logger.DebugContext(ctx, "worker picked job", "worker", id, "source", job.Source.Name())

		if err := ctx.Err(); err != nil {
			p.Results <- Outcome{Job: job, Err: err}
			continue
		}
		result, err := p.Runner.Run(ctx, job.Source, job.Query)
		p.Results <- Outcome{Job: job, Result: result, Err: err}
	}
}

// AddJobs queues jobs and closes the jobs channel
func (p *Pool) AddJobs(jobs []Job) {
	for _, job := range jobs {
		p.Jobs <- job
	}
	close(p.Jobs)
}

// Run scrapes every source with up to workers concurrent pipelines and
// returns the outcomes in source order.
func Run(ctx context.Context, runner Runner, workers int, srcs []*source.Source, q source.Query, logger *slog.Logger) []Outcome {
	jobs := make([]Job, len(srcs))
	for i, src := range srcs {
		jobs[i] = Job{Index: i, Source: src, Query: q}
	}

	pool := NewPool(runner, workers, len(jobs), logger)
	pool.Start(ctx)
	pool.AddJobs(jobs)

	outcomes := make([]Outcome, 0, len(jobs))
	for o := range pool.Results {
		outcomes = append(outcomes, o)
	}
	sort.Slice(outcomes, func(i, j int) bool {
		return outcomes[i].Job.Index < outcomes[j].Job.Index
	})
	return outcomes
}
