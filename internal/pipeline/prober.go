package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/ppiankov/billhist/internal/model"
	"go.uber.org/zap"
)

// Source fetches raw documents. *Fetcher is the production implementation.
type Source interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// Sink receives every fully parsed bill. Implemented by the stores.
type Sink interface {
	AddBill(ctx context.Context, bill *model.Bill) error
}

// URLPatterns builds history page URLs for a bill number
type URLPatterns struct {
	Base      string
	Primary   string
	Secondary string
}

// PatternsFromConfig reads the URL patterns from the source settings
func PatternsFromConfig(cfg model.SourceConfig) URLPatterns {
	return URLPatterns{
		Base:      strings.TrimRight(cfg.BaseURL, "/"),
		Primary:   cfg.PrimaryPattern,
		Secondary: cfg.SecondaryPattern,
	}
}

func (p URLPatterns) expand(pattern string, t Target, number int) string {
	return strings.NewReplacer(
		"{base}", p.Base,
		"{year}", t.Year,
		"{prefix}", t.Prefix,
		"{house}", t.Chamber.HouseCode(),
		"{number}", strconv.Itoa(number),
	).Replace(pattern)
}

// URLs returns the primary and secondary URL of a bill's history page
func (p URLPatterns) URLs(t Target, number int) (primary, secondary string) {
	return p.expand(p.Primary, t, number), p.expand(p.Secondary, t, number)
}

// Target is one chamber of one sub-session
type Target struct {
	Chamber model.Chamber
	Session string // Name recorded on each bill
	Year    string // Year directory in page URLs
	Prefix  string // Sub-session prefix in page URLs, e.g. REG or DE8
}

// TargetFor builds the probe target for a chamber of a sub-session
func TargetFor(chamber model.Chamber, sub model.SubSession) Target {
	year, prefix := sub.Path()
	return Target{
		Chamber: chamber,
		Session: sub.Name,
		Year:    year,
		Prefix:  prefix,
	}
}

// ProbeAction tells the probe loop what to do after one bill number
type ProbeAction int

const (
	ProbeContinue ProbeAction = iota // bill stored
	ProbeSkip                        // nothing stored, try the next number
	ProbeStop                        // no more bills in this session
)

func (a ProbeAction) String() string {
	switch a {
	case ProbeContinue:
		return "continue"
	case ProbeSkip:
		return "skip"
	case ProbeStop:
		return "stop"
	default:
		return "unknown"
	}
}

// ProbeResult is the outcome of probing one bill number
type ProbeResult struct {
	Action ProbeAction
	Number int
	URL    string
	Bill   *model.Bill // set for ProbeContinue
	Err    error       // cause of a skip or stop
}

// SessionSummary reports how probing of one target went
type SessionSummary struct {
	Target    Target
	Stored    int
	Skipped   int
	StoppedAt int   // Bill number whose probe ended the session
	StopErr   error // Why probing stopped
}

// Prober requests bill numbers 1, 2, 3, ... of a session until one cannot be
// fetched. Bills are handed to the sink as soon as they are parsed.
type Prober struct {
	source   Source
	sink     Sink
	patterns URLPatterns
	logger   *zap.Logger
}

// NewProber creates a Prober. A nil logger disables logging.
func NewProber(source Source, sink Sink, patterns URLPatterns, logger *zap.Logger) *Prober {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Prober{
		source:   source,
		sink:     sink,
		patterns: patterns,
		logger:   logger,
	}
}

// Probe fetches and parses a single bill number
func (p *Prober) Probe(ctx context.Context, t Target, number int) ProbeResult {
	primary, secondary := p.patterns.URLs(t, number)

	pageURL := primary
	data, err := p.source.Fetch(ctx, primary)
	if err != nil {
		pageURL = secondary
		data, err = p.source.Fetch(ctx, secondary)
	}
	if err != nil {
		return ProbeResult{Action: ProbeStop, Number: number, URL: pageURL, Err: err}
	}

	if len(data) == 0 {
		p.logger.Info("skipping empty document",
			zap.String("session", t.Session),
			zap.String("chamber", string(t.Chamber)),
			zap.Int("number", number),
			zap.String("url", pageURL))
		return ProbeResult{Action: ProbeSkip, Number: number, URL: pageURL, Err: ErrEmptyDocument}
	}

	bill, err := ParseBillPage(data, pageURL, t.Session)
	if err != nil {
		p.logger.Warn("skipping unparseable bill",
			zap.String("session", t.Session),
			zap.String("chamber", string(t.Chamber)),
			zap.Int("number", number),
			zap.String("url", pageURL),
			zap.Error(err))
		return ProbeResult{Action: ProbeSkip, Number: number, URL: pageURL, Err: err}
	}
	bill.Number = number
	if !bill.Chamber.Valid() {
		bill.Chamber = t.Chamber
	}

	if err := p.sink.AddBill(ctx, bill); err != nil {
		return ProbeResult{Action: ProbeStop, Number: number, URL: pageURL, Bill: bill,
			Err: fmt.Errorf("store bill %s: %w", bill.ID, err)}
	}
	p.logger.Info("bill stored",
		zap.String("session", bill.Session),
		zap.String("chamber", string(bill.Chamber)),
		zap.String("bill_id", bill.ID),
		zap.Int("actions", len(bill.Actions)),
		zap.Int("votes", len(bill.Votes)))

	return ProbeResult{Action: ProbeContinue, Number: number, URL: pageURL, Bill: bill}
}

// ProbeSession probes t from bill 1 until a probe stops. Running out of
// bills is the normal end and returns no error; any other stop cause is
// returned alongside the summary.
func (p *Prober) ProbeSession(ctx context.Context, t Target) (*SessionSummary, error) {
	summary := &SessionSummary{Target: t}

	for number := 1; ; number++ {
		res := p.Probe(ctx, t, number)
		switch res.Action {
		case ProbeContinue:
			summary.Stored++
			continue
		case ProbeSkip:
			summary.Skipped++
			continue
		}

		summary.StoppedAt = number
		summary.StopErr = res.Err
		p.logger.Info("probing stopped",
			zap.String("session", t.Session),
			zap.String("chamber", string(t.Chamber)),
			zap.Int("number", number),
			zap.Int("stored", summary.Stored),
			zap.Int("skipped", summary.Skipped),
			zap.Error(res.Err))

		if errors.Is(res.Err, ErrNotFound) {
			return summary, nil
		}
		return summary, res.Err
	}
}
