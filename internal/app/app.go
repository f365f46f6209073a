package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/turnDeep/chartnote/internal/api"
	"github.com/turnDeep/chartnote/internal/collector/yahoo"
	"github.com/turnDeep/chartnote/internal/config"
	"github.com/turnDeep/chartnote/internal/core"
	"github.com/turnDeep/chartnote/internal/market"
	"github.com/turnDeep/chartnote/internal/metrics"
	"github.com/turnDeep/chartnote/internal/placement"
	"github.com/turnDeep/chartnote/internal/realtime"
	"github.com/turnDeep/chartnote/internal/sentiment"
	"github.com/turnDeep/chartnote/internal/storage/archive"
	"github.com/turnDeep/chartnote/internal/storage/comment"
)

const retentionInterval = time.Hour

// App is the main application orchestrator: it owns the comment store, the
// market feed, the websocket hub and the HTTP server, and runs the
// background jobs that tie them together.
type App struct {
	cfg      *config.Config
	logger   *zap.Logger
	store    comment.Store
	archiver *archive.Archiver
	market   *market.Service
	analyzer *sentiment.Analyzer
	hub      *realtime.Hub
	server   *api.Server
	registry *metrics.Registry

	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc
}

// New wires an App from configuration.
func New(cfg *config.Config, logger *zap.Logger) (*App, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	store, err := newStore(cfg.Storage.Hot)
	if err != nil {
		return nil, fmt.Errorf("creating comment store: %w", err)
	}

	var archiver *archive.Archiver
	if cfg.Storage.Cold.Enabled {
		backend, err := newBackend(cfg.Storage.Cold)
		if err != nil {
			return nil, fmt.Errorf("creating archive backend: %w", err)
		}
		archiver = archive.NewArchiver(backend)
	}

	registry := metrics.NewRegistry()

	marketSvc := market.NewService(yahoo.New(), cfg.Market.CacheTTL, logger.Named("market"))

	classifier, err := newClassifier(cfg.Sentiment)
	if err != nil {
		return nil, fmt.Errorf("creating classifier: %w", err)
	}
	analyzer := sentiment.NewAnalyzer(store, classifier, logger.Named("sentiment"))

	a := &App{
		cfg:      cfg,
		logger:   logger,
		store:    store,
		archiver: archiver,
		market:   marketSvc,
		analyzer: analyzer,
		registry: registry,
	}

	a.hub = realtime.NewHub(a.saveComment, logger.Named("realtime"))
	a.hub.OnConnChange(registry.SetWSConnections)
	a.hub.OnBroadcast(registry.RecordBroadcast)

	placementCfg := placement.DefaultConfig()
	placementCfg.PriceThreshold = cfg.Placement.PriceThreshold
	placementCfg.Margin = cfg.Placement.Margin
	placementCfg.ScreenMargin = cfg.Placement.ScreenMargin

	deps := api.Deps{
		Store:     store,
		Market:    marketSvc,
		Analyzer:  analyzer,
		Hub:       a.hub,
		Placement: placementCfg,
	}
	if cfg.Metrics.Enabled {
		deps.Metrics = registry
	}
	a.server = api.NewServer(api.Config{
		Host:   cfg.Server.Host,
		Port:   cfg.Server.Port,
		APIKey: cfg.Server.APIKey,
	}, deps, logger.Named("api"))

	return a, nil
}

func newStore(cfg config.HotStorageConfig) (comment.Store, error) {
	if cfg.DSN == "" {
		return comment.NewMemoryStore(cfg.MaxComments), nil
	}
	return comment.NewSQLiteStore(cfg.DSN)
}

func newBackend(cfg config.ColdStorageConfig) (archive.Backend, error) {
	switch cfg.Type {
	case "s3":
		return archive.NewS3(archive.S3Config{
			Bucket:    cfg.S3.Bucket,
			Endpoint:  cfg.S3.Endpoint,
			Region:    cfg.S3.Region,
			AccessKey: cfg.S3.AccessKey,
			SecretKey: cfg.S3.SecretKey,
			Prefix:    cfg.S3.Prefix,
		})
	default:
		return archive.NewLocalFS(cfg.Path)
	}
}

func newClassifier(cfg config.SentimentConfig) (sentiment.Classifier, error) {
	switch cfg.Provider {
	case "claude":
		return sentiment.NewClassifier(cfg.Provider, cfg.Claude.APIKey, cfg.Claude.Model)
	case "openai":
		return sentiment.NewClassifier(cfg.Provider, cfg.OpenAI.APIKey, cfg.OpenAI.Model)
	default:
		return sentiment.NewClassifier(cfg.Provider, "", "")
	}
}

// saveComment is the hub's inbound handler.
func (a *App) saveComment(ctx context.Context, c core.Comment) (*core.Comment, error) {
	if err := a.store.Save(ctx, &c); err != nil {
		return nil, core.WrapError(core.ErrStorageFailed, err)
	}
	a.registry.RecordCommentPosted("ws")
	return &c, nil
}

// Start runs the server and background loops until ctx is cancelled.
func (a *App) Start(ctx context.Context) error {
	a.mu.Lock()
	if a.running {
		a.mu.Unlock()
		return fmt.Errorf("app already running")
	}
	a.running = true
	ctx, cancel := context.WithCancel(ctx)
	a.cancel = cancel
	a.mu.Unlock()

	a.logger.Info("chartnote starting",
		zap.String("symbol", a.cfg.Market.Symbol),
		zap.Int("port", a.cfg.Server.Port),
	)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		a.hub.Run(ctx)
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		a.marketUpdater(ctx)
	}()

	if a.cfg.Storage.Hot.RetentionDays > 0 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			a.retentionLoop(ctx)
		}()
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- a.server.Start()
	}()

	select {
	case err := <-errCh:
		cancel()
		wg.Wait()
		return err
	case <-ctx.Done():
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := a.server.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("server shutdown failed", zap.Error(err))
	}

	wg.Wait()
	a.mu.Lock()
	a.running = false
	a.mu.Unlock()
	return ctx.Err()
}

// Stop stops the application.
func (a *App) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.cancel != nil {
		a.cancel()
	}
}

// marketUpdater polls the quote and broadcasts market_update frames.
func (a *App) marketUpdater(ctx context.Context) {
	interval := a.cfg.Market.UpdateInterval
	if interval <= 0 {
		interval = 10 * time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			quote, err := a.market.Quote(ctx, a.cfg.Market.Symbol)
			if err != nil {
				a.registry.RecordMarketFetch("error")
				a.logger.Debug("quote fetch failed", zap.Error(err))
				continue
			}
			a.registry.RecordMarketFetch("ok")
			if err := a.hub.Broadcast(realtime.TypeMarketUpdate, quote); err != nil {
				a.logger.Debug("market broadcast failed", zap.Error(err))
			}
		}
	}
}

// retentionLoop periodically moves expired comments to cold storage.
func (a *App) retentionLoop(ctx context.Context) {
	ticker := time.NewTicker(retentionInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := a.runRetention(ctx); err != nil {
				a.logger.Error("retention pass failed", zap.Error(err))
			}
		}
	}
}

// runRetention archives comments older than the retention window, then
// deletes them. Archiving runs first so a failed upload never drops rows.
func (a *App) runRetention(ctx context.Context) error {
	cutoff := time.Now().AddDate(0, 0, -a.cfg.Storage.Hot.RetentionDays).Unix()

	expired, err := a.store.List(ctx, comment.ListFilter{To: cutoff - 1})
	if err != nil {
		return err
	}
	if len(expired) == 0 {
		return nil
	}

	if a.archiver != nil {
		key, err := a.archiver.Archive(ctx, expired)
		if err != nil {
			return err
		}
		a.logger.Info("archived expired comments",
			zap.Int("count", len(expired)),
			zap.String("key", key),
		)
	} else {
		a.logger.Info("dropping expired comments", zap.Int("count", len(expired)))
	}

	if _, err := a.store.DeleteBefore(ctx, cutoff); err != nil {
		return err
	}
	a.registry.RecordArchived(len(expired))
	return nil
}
