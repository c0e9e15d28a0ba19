package pipeline

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/ppiankov/billhist/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

var testPatterns = URLPatterns{
	Base:      "http://legis",
	Primary:   "{base}/{year}/data/{prefix}{house}B{number}hst.html",
	Secondary: "{base}/{year}/{prefix}/data/{house}B{number}hst.html",
}

var regularAssembly = Target{Chamber: model.ChamberLower, Session: "2009", Year: "2009", Prefix: "REG"}

func historyPage(number int) []byte {
	return []byte(fmt.Sprintf(`<html><body><pre>
<a href="/2009/data/AB%[1]d.pdf">2009 ASSEMBLY BILL %[1]d</a>
 Relating to: bill number %[1]d.
2009
 01-15.  A. Introduced by Representative Kessler.
 01-16.  A. Read first time.  Ayes 50, Noes 40 ...... 7
</pre></body></html>`, number))
}

type memorySink struct {
	bills []*model.Bill
	err   error
}

func (s *memorySink) AddBill(_ context.Context, bill *model.Bill) error {
	if s.err != nil {
		return s.err
	}
	s.bills = append(s.bills, bill)
	return nil
}

func TestURLPatterns(t *testing.T) {
	primary, secondary := testPatterns.URLs(Target{Chamber: model.ChamberUpper, Year: "2009", Prefix: "DE8"}, 3)
	assert.Equal(t, "http://legis/2009/data/DE8SB3hst.html", primary)
	assert.Equal(t, "http://legis/2009/DE8/data/SB3hst.html", secondary)
}

func TestTargetFor(t *testing.T) {
	target := TargetFor(model.ChamberUpper, model.SubSession{Value: "/2009/DE8", Name: "December 2009 Special Session"})
	assert.Equal(t, Target{
		Chamber: model.ChamberUpper,
		Session: "December 2009 Special Session",
		Year:    "2009",
		Prefix:  "DE8",
	}, target)
}

func TestProbeSession_StopsAtFirstMissingBill(t *testing.T) {
	src := &stubSource{pages: map[string][]byte{}}
	for n := 1; n <= 14; n++ {
		primary, _ := testPatterns.URLs(regularAssembly, n)
		src.pages[primary] = historyPage(n)
	}
	// Bill 16 exists but must never be requested
	p16, _ := testPatterns.URLs(regularAssembly, 16)
	src.pages[p16] = historyPage(16)

	sink := &memorySink{}
	summary, err := NewProber(src, sink, testPatterns, nil).ProbeSession(context.Background(), regularAssembly)
	require.NoError(t, err)

	assert.Len(t, sink.bills, 14)
	assert.Equal(t, 14, summary.Stored)
	assert.Equal(t, 15, summary.StoppedAt)
	assert.True(t, errors.Is(summary.StopErr, ErrNotFound))

	primary15, secondary15 := testPatterns.URLs(regularAssembly, 15)
	assert.Equal(t, []string{primary15, secondary15}, src.calls[len(src.calls)-2:])
	assert.NotContains(t, src.calls, p16)

	for i, bill := range sink.bills {
		assert.Equal(t, i+1, bill.Number)
		assert.Equal(t, fmt.Sprintf("2009 ASSEMBLY BILL %d", i+1), bill.ID)
		assert.Equal(t, model.ChamberLower, bill.Chamber)
	}
}

func TestProbe_FallsBackToSecondaryURL(t *testing.T) {
	_, secondary := testPatterns.URLs(regularAssembly, 1)
	src := &stubSource{pages: map[string][]byte{secondary: historyPage(1)}}
	sink := &memorySink{}

	res := NewProber(src, sink, testPatterns, nil).Probe(context.Background(), regularAssembly, 1)
	require.Equal(t, ProbeContinue, res.Action, "err: %v", res.Err)
	assert.Equal(t, secondary, res.URL)
	assert.Equal(t, secondary, res.Bill.SourceURL)
	require.Len(t, sink.bills, 1)
	require.Len(t, res.Bill.Votes, 1)
	assert.True(t, res.Bill.Votes[0].Passed)
	assert.Equal(t, []model.Sponsor{{Name: "Representative Kessler", Role: model.RolePrimary}}, res.Bill.Sponsors)
}

func TestProbeSession_SkipsEmptyDocument(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	src := &stubSource{pages: map[string][]byte{}}
	for n := 1; n <= 3; n++ {
		primary, _ := testPatterns.URLs(regularAssembly, n)
		src.pages[primary] = historyPage(n)
	}
	p2, _ := testPatterns.URLs(regularAssembly, 2)
	src.pages[p2] = []byte{}

	sink := &memorySink{}
	summary, err := NewProber(src, sink, testPatterns, zap.New(core)).ProbeSession(context.Background(), regularAssembly)
	require.NoError(t, err)

	assert.Equal(t, 2, summary.Stored)
	assert.Equal(t, 1, summary.Skipped)
	assert.Equal(t, 4, summary.StoppedAt)

	skipped := logs.FilterMessage("skipping empty document").All()
	require.Len(t, skipped, 1)
	assert.Equal(t, int64(2), skipped[0].ContextMap()["number"])
	assert.Equal(t, 2, logs.FilterMessage("bill stored").Len())
	assert.Equal(t, 1, logs.FilterMessage("probing stopped").Len())
}

func TestProbe_ParseFailureIsSkipped(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	primary, _ := testPatterns.URLs(regularAssembly, 1)
	src := &stubSource{pages: map[string][]byte{
		primary: []byte("<html><body>No history for this bill</body></html>"),
	}}

	res := NewProber(src, &memorySink{}, testPatterns, zap.New(core)).Probe(context.Background(), regularAssembly, 1)
	assert.Equal(t, ProbeSkip, res.Action)
	assert.True(t, errors.Is(res.Err, ErrNoHistoryBlock))
	assert.Equal(t, 1, logs.FilterMessage("skipping unparseable bill").Len())
}

func TestProbeSession_SinkFailureStops(t *testing.T) {
	primary, _ := testPatterns.URLs(regularAssembly, 1)
	src := &stubSource{pages: map[string][]byte{primary: historyPage(1)}}
	sinkErr := errors.New("disk full")

	summary, err := NewProber(src, &memorySink{err: sinkErr}, testPatterns, nil).ProbeSession(context.Background(), regularAssembly)
	require.Error(t, err)
	assert.True(t, errors.Is(err, sinkErr))
	assert.Equal(t, 1, summary.StoppedAt)
	assert.Len(t, src.calls, 1)
}

type transientSource struct{}

func (transientSource) Fetch(_ context.Context, url string) ([]byte, error) {
	return nil, &FetchError{URL: url, StatusCode: 503, Kind: ErrTransient}
}

func TestProbeSession_TransientFailureIsReturned(t *testing.T) {
	summary, err := NewProber(transientSource{}, &memorySink{}, testPatterns, nil).ProbeSession(context.Background(), regularAssembly)
	assert.True(t, errors.Is(err, ErrTransient))
	assert.Equal(t, 1, summary.StoppedAt)
	assert.Zero(t, summary.Stored)
}

func TestProbeAction_String(t *testing.T) {
	assert.Equal(t, "continue", ProbeContinue.String())
	assert.Equal(t, "skip", ProbeSkip.String())
	assert.Equal(t, "stop", ProbeStop.String())
}

func TestProbeSession_BrokenURLPatternIsReported(t *testing.T) {
	broken := URLPatterns{
		Primary:   "{base}/{year}/data/{prefix}{house}B{number}hst.html",
		Secondary: "{base}/{year}/{prefix}/data/{house}B{number}hst.html",
	}
	sink := &memorySink{}

	summary, err := NewProber(NewFetcher(testHTTPConfig()), sink, broken, nil).ProbeSession(context.Background(), regularAssembly)
	require.Error(t, err, "a pattern without a base URL must not look like the end of the session")
	assert.True(t, errors.Is(err, ErrInvalidURL))
	assert.Equal(t, 1, summary.StoppedAt)
	assert.Empty(t, sink.bills)
}
