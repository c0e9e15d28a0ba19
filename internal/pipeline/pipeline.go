package pipeline

import (
	"context"
	"errors"
	"fmt"

	"github.com/ppiankov/billhist/internal/cache"
	"github.com/ppiankov/billhist/internal/model"
	"github.com/ppiankov/billhist/internal/util"
	"github.com/ppiankov/billhist/internal/worker"
	"go.uber.org/zap"
)

// Pipeline wires the fetcher, session discovery and prober for a scrape
type Pipeline struct {
	fetcher *Fetcher
	prober  *Prober
	config  *model.Config
	logger  *zap.Logger
}

// NewPipeline creates a pipeline that stores bills in sink
func NewPipeline(cfg *model.Config, sink Sink, logger *zap.Logger) (*Pipeline, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	opts := []FetcherOption{
		WithLimiter(worker.NewLimiter(cfg.RateLimiting.RequestsPerSecond, cfg.RateLimiting.BurstSize)),
	}
	if cfg.Cache.Enabled {
		pages, err := cache.Open(cfg.Cache)
		if err != nil {
			return nil, err
		}
		// Zero TTL lets each layer apply its own expiry
		opts = append(opts, WithCache(pages, 0))
	}
	if cfg.HTTP.RespectRobots {
		opts = append(opts, WithRobots(util.NewRobotsChecker(cfg.HTTP.UserAgent, cfg.HTTP.Timeout)))
	}

	fetcher := NewFetcher(cfg.HTTP, opts...)
	return &Pipeline{
		fetcher: fetcher,
		prober:  NewProber(fetcher, sink, PatternsFromConfig(cfg.Source), logger),
		config:  cfg,
		logger:  logger,
	}, nil
}

// Fetcher returns the pipeline's document source
func (p *Pipeline) Fetcher() *Fetcher {
	return p.fetcher
}

// DiscoverSessions reads the session list from the configured sessions page
func (p *Pipeline) DiscoverSessions(ctx context.Context) (*model.SessionRegistry, error) {
	return DiscoverSessions(ctx, p.fetcher, p.config.Source.SessionsURL)
}

// ScrapeBills probes every sub-session of the session covering year for one
// chamber. A sub-session that ends on an error is logged and the remaining
// sub-sessions still run; the errors are joined into the returned error.
func (p *Pipeline) ScrapeBills(ctx context.Context, reg *model.SessionRegistry, chamber model.Chamber, year int) ([]*SessionSummary, error) {
	if !chamber.Valid() {
		return nil, fmt.Errorf("unknown chamber %q", chamber)
	}
	session, ok := reg.Lookup(year)
	if !ok {
		return nil, fmt.Errorf("no session covers %d", year)
	}

	var (
		summaries []*SessionSummary
		errs      []error
	)
	for _, sub := range session.SubSessions {
		if err := ctx.Err(); err != nil {
			return summaries, err
		}

		summary, err := p.prober.ProbeSession(ctx, TargetFor(chamber, sub))
		summaries = append(summaries, summary)
		if err != nil {
			p.logger.Error("sub-session scrape failed",
				zap.String("session", sub.Name),
				zap.String("chamber", string(chamber)),
				zap.Error(err))
			errs = append(errs, fmt.Errorf("%s: %w", sub.Name, err))
		}
	}
	return summaries, errors.Join(errs...)
}
