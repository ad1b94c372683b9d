package engine

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/bl4ck0w1/subforce/internal/resolver"
	"github.com/bl4ck0w1/subforce/internal/results"
	"github.com/bl4ck0w1/subforce/internal/wordlist"
	"github.com/bl4ck0w1/subforce/pkg/utils"
)

type PoolOptions struct {
	Domain   string
	Workers  int
	Resolver resolver.Resolver
	Sink     *results.Sink
	Logger   *logrus.Logger
	Metrics  *utils.ScanMetrics
}

// Pool drains a pre-filled, closed queue with a fixed number of workers.
type Pool struct {
	domain   string
	workers  int
	resolver resolver.Resolver
	sink     *results.Sink
	logger   *logrus.Logger
	metrics  *utils.ScanMetrics
	started  atomic.Int32
}

func NewPool(opts PoolOptions) *Pool {
	if opts.Logger == nil {
		opts.Logger = logrus.New()
	}
	return &Pool{
		domain:   opts.Domain,
		workers:  opts.Workers,
		resolver: opts.Resolver,
		sink:     opts.Sink,
		logger:   opts.Logger,
		metrics:  opts.Metrics,
	}
}

// Run blocks until every worker has returned, either because the queue is
// exhausted or because ctx was cancelled.
func (p *Pool) Run(ctx context.Context, queue <-chan string) error {
	var g errgroup.Group
	for i := 0; i < p.workers; i++ {
		g.Go(func() error {
			p.work(ctx, queue)
			return nil
		})
	}
	return g.Wait()
}

// Started reports how many workers have been spawned so far.
func (p *Pool) Started() int { return int(p.started.Load()) }

func (p *Pool) work(ctx context.Context, queue <-chan string) {
	p.started.Add(1)
	p.metrics.WorkerStarted()
	defer p.metrics.WorkerStopped()

	for {
		if ctx.Err() != nil {
			return
		}
		select {
		case <-ctx.Done():
			return
		case candidate, ok := <-queue:
			if !ok {
				return
			}
			p.check(ctx, candidate)
		}
	}
}

func (p *Pool) check(ctx context.Context, candidate string) {
	if ctx.Err() != nil {
		return
	}
	if !wordlist.IsValidCandidate(candidate) {
		p.logger.Debugf("Skipping invalid candidate %q", candidate)
		return
	}

	fqdn := candidate + "." + p.domain
	found := false
	defer func() { p.sink.Record(fqdn, found) }()

	// In-flight lookups are not aborted on cancellation; the resolver
	// timeout bounds them.
	start := time.Now()
	out := p.resolver.Resolve(context.WithoutCancel(ctx), fqdn)
	p.metrics.ObserveAttempt(out.Kind.String(), time.Since(start))

	switch out.Kind {
	case resolver.Found:
		found = true
	case resolver.OtherFailure:
		if ctx.Err() == nil {
			p.logger.Warnf("Error checking %s: %v", fqdn, out.Err)
		}
	}
}
