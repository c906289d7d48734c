package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"

	// Infrastructure
	"github.com/naresh-2026/warehouseProducts/internal/infrastructure/collector"
	wsInfra "github.com/naresh-2026/warehouseProducts/internal/infrastructure/notification/websocket"
	"github.com/naresh-2026/warehouseProducts/internal/infrastructure/storage/filesystem"
	"github.com/naresh-2026/warehouseProducts/internal/infrastructure/watcher"
	"github.com/naresh-2026/warehouseProducts/internal/metrics"

	// Interfaces
	httpInterface "github.com/naresh-2026/warehouseProducts/internal/interfaces/http"
	"github.com/naresh-2026/warehouseProducts/internal/interfaces/http/handler"
	"github.com/naresh-2026/warehouseProducts/internal/interfaces/http/middleware"

	// Shared
	"github.com/naresh-2026/warehouseProducts/pkg/config"
	"github.com/naresh-2026/warehouseProducts/pkg/logger"
)

func main() {
	// 1. Загружаем конфигурацию
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// 2. Инициализируем logger
	log := logger.NewWithWriter(os.Stdout, cfg.Log.Level, cfg.Log.Format)
	log.Info("Starting warehouse products web server",
		"static_dir", cfg.Static.Dir,
		"debug", cfg.Debug,
	)
	if cfg.Debug {
		log.Warn("Debug mode is enabled: verbose error pages and /debug routes are exposed, do not use in production")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("Server failed", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, log *logger.Logger) error {
	// 3. Проверяем директорию статики до старта
	store := filesystem.NewAssetDirectory(cfg.Static.Dir)
	if err := store.Validate(); err != nil {
		return fmt.Errorf("invalid STATIC_DIR: %w", err)
	}

	// 4. Метрики
	registry := prometheus.NewRegistry()
	m := metrics.New(registry)

	// 5. Handlers
	handlers := httpInterface.Handlers{
		Static: handler.NewStaticHandler(store, handler.StaticOptions{
			LiveReload: cfg.Debug,
			OnReadError: func(status int) {
				m.AssetReadErrors.WithLabelValues(strconv.Itoa(status)).Inc()
			},
		}, log),
		Greeting: handler.NewGreetingHandler(cfg.GreetingMessage()),
		Health:   handler.NewHealthHandler(store),
	}

	// 6. Debug: live-reload и диагностика процесса
	if cfg.Debug {
		hub := wsInfra.NewHub(log)
		hub.OnBroadcast(m.ObserveReload)
		go hub.Run(ctx)

		assetWatcher := watcher.NewAssetWatcher(cfg.Static.Dir, store, hub, log)
		if err := assetWatcher.Start(ctx); err != nil {
			log.Error("Asset watcher disabled", err)
		}

		handlers.Reload = handler.NewReloadHandler(hub, cfg.Security.AllowedOrigins, log)

		processCollector, err := collector.NewProcessCollector(ctx, cfg.Static.Dir)
		if err != nil {
			log.Error("Process diagnostics disabled", err)
		} else {
			handlers.Process = handler.NewProcessHandler(processCollector, log)
		}
	}

	var limiter *middleware.IPRateLimiter
	if cfg.RateLimit.Enabled {
		limiter = middleware.NewIPRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst).
			TrustProxyHeaders(cfg.RateLimit.TrustProxy)
		log.Info("Rate limiting enabled",
			"rps", cfg.RateLimit.RPS,
			"burst", cfg.RateLimit.Burst,
			"trust_proxy", cfg.RateLimit.TrustProxy,
		)
	}

	// 7. Router
	router := httpInterface.NewRouter(handlers, httpInterface.RouterOptions{
		ServeAssets: cfg.Static.ServeAssets,
		Debug:       cfg.Debug,
		RateLimiter: limiter,
	}, m, log)

	// 8. HTTP сервер
	server := httpInterface.NewServer(cfg.Server, cfg.Addr(), router.Setup(), log)
	log.Info("Site available at http://" + cfg.Addr())

	return server.Run(ctx)
}
