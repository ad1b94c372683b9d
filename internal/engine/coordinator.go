package engine

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/bl4ck0w1/subforce/internal/report"
	"github.com/bl4ck0w1/subforce/internal/resolver"
	"github.com/bl4ck0w1/subforce/internal/results"
	"github.com/bl4ck0w1/subforce/internal/wordlist"
	"github.com/bl4ck0w1/subforce/pkg/models"
	"github.com/bl4ck0w1/subforce/pkg/utils"
)

const defaultPollInterval = 500 * time.Millisecond

// Coordinator drives one run: wordlist, queue, pool, report.
type Coordinator struct {
	cfg          models.RunConfig
	resolver     resolver.Resolver
	printer      *report.Printer
	logger       *logrus.Logger
	metrics      *utils.ScanMetrics
	pollInterval time.Duration

	mu      sync.Mutex
	cancel  context.CancelFunc
	stopped bool
	pool    *Pool
}

func NewCoordinator(cfg models.RunConfig, r resolver.Resolver, printer *report.Printer, logger *logrus.Logger, metrics *utils.ScanMetrics) *Coordinator {
	if logger == nil {
		logger = logrus.New()
	}
	cfg.Clamp()
	return &Coordinator{
		cfg:          cfg,
		resolver:     r,
		printer:      printer,
		logger:       logger,
		metrics:      metrics,
		pollInterval: defaultPollInterval,
	}
}

// Run loads the configured wordlist and enumerates it. Load failures and an
// empty list are returned as *ConfigurationError before any worker starts.
func (c *Coordinator) Run(ctx context.Context) (*models.Report, error) {
	if err := c.cfg.Validate(); err != nil {
		return nil, &ConfigurationError{Err: err}
	}

	list, err := wordlist.Load(c.cfg.Wordlist)
	if err != nil {
		return nil, &ConfigurationError{Err: err}
	}
	c.logger.WithFields(logrus.Fields{
		"path":   list.Path,
		"words":  len(list.Words),
		"digest": list.Digest,
	}).Debug("Wordlist loaded")

	return c.Enumerate(ctx, list.Words)
}

// Enumerate resolves every candidate against the target domain and prints
// the final report exactly once, whether the run completes or is stopped.
func (c *Coordinator) Enumerate(ctx context.Context, candidates []string) (*models.Report, error) {
	if err := c.cfg.ValidateRun(); err != nil {
		return nil, &ConfigurationError{Err: err}
	}
	if len(candidates) == 0 {
		c.printer.EmptyWordlist()
		return nil, &ConfigurationError{Err: ErrEmptyWordlist}
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	c.mu.Lock()
	c.cancel = cancel
	if c.stopped {
		cancel()
	}
	c.mu.Unlock()

	start := time.Now()
	sink := results.NewSink(start, c.printer.Found, c.printer.Progress)
	c.printer.Loaded(len(candidates))

	queue := make(chan string, len(candidates))
	for _, w := range candidates {
		queue <- w
	}
	close(queue)
	c.metrics.SetQueued(len(candidates))

	workers := c.cfg.Workers(len(candidates))
	pool := NewPool(PoolOptions{
		Domain:   c.cfg.Domain,
		Workers:  workers,
		Resolver: c.resolver,
		Sink:     sink,
		Logger:   c.logger,
		Metrics:  c.metrics,
	})
	c.mu.Lock()
	c.pool = pool
	c.mu.Unlock()
	c.logger.Debugf("Starting %d workers for %d candidates", workers, len(candidates))

	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = pool.Run(runCtx, queue)
	}()

	c.wait(runCtx, done, sink)

	status := models.RunStatusCompleted
	if runCtx.Err() != nil {
		status = models.RunStatusInterrupted
		c.printer.Interrupted(time.Since(start))
		// Workers stop issuing lookups at once; the ones in flight finish
		// within the resolver timeout.
		<-done
	}

	tested, found := sink.Snapshot()
	rep := &models.Report{
		Domain:    c.cfg.Domain,
		Status:    status,
		Tested:    tested,
		Found:     found,
		StartTime: sink.StartTime(),
		Elapsed:   time.Since(start),
	}
	c.printer.Final(rep)
	c.logger.Debugf("Run %s: %d tested, %d found in %s", status, tested, len(found), rep.Elapsed)
	return rep, nil
}

func (c *Coordinator) wait(ctx context.Context, done <-chan struct{}, sink *results.Sink) {
	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-done:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			tested, found := sink.Counts()
			c.logger.Debugf("Progress: %d tested, %d found", tested, found)
		}
	}
}

// Stop requests cancellation of the run. It is safe to call more than once
// and from any goroutine.
func (c *Coordinator) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopped = true
	if c.cancel != nil {
		c.cancel()
	}
}

// Workers reports how many workers the current run spawned.
func (c *Coordinator) Workers() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.pool == nil {
		return 0
	}
	return c.pool.Started()
}
