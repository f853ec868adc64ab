package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/ppiankov/proofline/internal/cache"
	"github.com/ppiankov/proofline/internal/compose"
	"github.com/ppiankov/proofline/internal/config"
	"github.com/ppiankov/proofline/internal/llm"
	"github.com/ppiankov/proofline/internal/model"
	"github.com/ppiankov/proofline/internal/pipeline"
	"github.com/ppiankov/proofline/internal/store"
	"github.com/ppiankov/proofline/internal/worker"
)

// Cache lifetimes for fetched report URLs
const (
	memoryCacheTTL = 10 * time.Minute
	diskCacheTTL   = 24 * time.Hour
)

// app is the wiring shared by the check, report, bulk and daily commands
type app struct {
	cfg      *model.Config
	store    store.Store
	source   config.Source
	provider llm.Provider
	limiter  *worker.Limiter
}

// newApp loads configuration, opens the store and creates the provider.
// A provider without a credential is not an error: checks run rules only.
func newApp() (*app, error) {
	base := config.NewViperSource(v, logger)
	cfg := base.Config()

	st, err := store.Open(cfg.Store.Path)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	provider, err := llm.NewProvider(providerConfig(cfg))
	switch {
	case errors.Is(err, llm.ErrNotConfigured):
		logger.Warn("model provider has no credential, running rule checks only",
			zap.String("provider", cfg.LLM.Provider))
		provider = nil
	case err != nil:
		_ = st.Close()
		return nil, err
	}

	return &app{
		cfg:      cfg,
		store:    st,
		source:   store.NewConfigSource(st, base, logger),
		provider: provider,
		limiter:  worker.NewLimiterFromConfig(cfg.RateLimiting),
	}, nil
}

func providerConfig(cfg *model.Config) llm.Config {
	c := llm.ConfigFromModel(cfg.LLM, cfg.HTTP)
	c.Logger = logger
	return c
}

func (a *app) Close() error {
	return a.store.Close()
}

func (a *app) pipeline() *pipeline.Pipeline {
	return pipeline.New(a.source, a.provider,
		pipeline.WithLogger(logger),
		pipeline.WithLimiter(a.limiter),
		pipeline.WithWorkers(a.cfg.Concurrency.AgentWorkers),
		pipeline.WithAgentTimeout(time.Duration(a.cfg.LLM.Timeout)*time.Second),
	)
}

func (a *app) composer() *compose.Composer {
	return compose.New(a.provider, a.source,
		compose.WithLogger(logger),
		compose.WithLimiter(a.limiter),
		compose.WithTimeout(time.Duration(a.cfg.LLM.Timeout)*time.Second),
	)
}

// fetcher loads report sources; URL bodies are cached unless disabled
func (a *app) fetcher(useCache bool) *pipeline.Fetcher {
	f := pipeline.NewFetcherFromConfig(a.cfg.HTTP).WithLimiter(a.limiter)
	if !useCache {
		return f
	}
	dir, err := config.DefaultDir()
	if err != nil {
		logger.Debug("no cache directory, fetching without cache", zap.Error(err))
		return f
	}
	return f.WithCache(cache.NewLayeredCache(memoryCacheTTL, filepath.Join(dir, "cache"), diskCacheTTL), diskCacheTTL)
}

// openOutput returns stdout, or the file at path when set
func openOutput(path string) (*os.File, func() error, error) {
	if path == "" {
		return os.Stdout, func() error { return nil }, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("create output directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("create output file: %w", err)
	}
	return f, f.Close, nil
}
