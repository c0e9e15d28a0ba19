package pipeline

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ppiankov/billhist/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func testConfig(base string) *model.Config {
	cfg := model.DefaultConfig()
	cfg.HTTP.RespectRobots = false
	cfg.Cache.Enabled = false
	cfg.RateLimiting.RequestsPerSecond = 0
	cfg.Source.BaseURL = base
	cfg.Source.SessionsURL = base + "/"
	return cfg
}

func TestPipeline_ScrapeBills(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/":
			_, _ = w.Write([]byte(homePage))
		case strings.HasPrefix(r.URL.Path, "/2009/data/REG"):
			// The regular session is down
			w.WriteHeader(http.StatusServiceUnavailable)
		case strings.HasPrefix(r.URL.Path, "/2009/REG/"):
			w.WriteHeader(http.StatusServiceUnavailable)
		case r.URL.Path == "/2009/data/DE8AB1hst.html", r.URL.Path == "/2009/DE8/data/AB2hst.html":
			_, _ = w.Write(historyPage(1))
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	core, logs := observer.New(zapcore.InfoLevel)
	sink := &memorySink{}
	p, err := NewPipeline(testConfig(server.URL), sink, zap.New(core))
	require.NoError(t, err)

	reg, err := p.DiscoverSessions(context.Background())
	require.NoError(t, err)

	summaries, err := p.ScrapeBills(context.Background(), reg, model.ChamberLower, 2010)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrTransient))
	assert.Contains(t, err.Error(), "2009:")

	require.Len(t, summaries, 2)
	assert.Zero(t, summaries[0].Stored)
	assert.Equal(t, 2, summaries[1].Stored, "special session bills 1 and 2, the second via the secondary URL")
	assert.Equal(t, 3, summaries[1].StoppedAt)

	require.Len(t, sink.bills, 2)
	assert.Equal(t, "December 2009 Special Session", sink.bills[0].Session)
	assert.Equal(t, 1, logs.FilterMessage("sub-session scrape failed").Len())
}

func TestPipeline_ScrapeBills_UnknownSession(t *testing.T) {
	p, err := NewPipeline(testConfig("http://127.0.0.1:1"), &memorySink{}, nil)
	require.NoError(t, err)

	reg := model.NewSessionRegistry()
	reg.AddRegular(2009, "/2009/REG")

	_, err = p.ScrapeBills(context.Background(), reg, model.ChamberUpper, 2003)
	assert.Error(t, err)

	_, err = p.ScrapeBills(context.Background(), reg, model.Chamber("joint"), 2009)
	assert.Error(t, err)
}

func TestNewPipeline_WithCacheDir(t *testing.T) {
	cfg := testConfig("http://127.0.0.1:1")
	cfg.Cache.Enabled = true
	cfg.Cache.Dir = t.TempDir()
	cfg.HTTP.RespectRobots = true

	p, err := NewPipeline(cfg, &memorySink{}, nil)
	require.NoError(t, err)
	assert.NotNil(t, p.Fetcher().cache)
	assert.NotNil(t, p.Fetcher().robots)
}
