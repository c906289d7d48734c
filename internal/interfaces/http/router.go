package http

import (
	"net/http"

	"github.com/naresh-2026/warehouseProducts/internal/interfaces/http/handler"
	"github.com/naresh-2026/warehouseProducts/internal/interfaces/http/middleware"
	"github.com/naresh-2026/warehouseProducts/internal/metrics"
	"github.com/naresh-2026/warehouseProducts/pkg/logger"
)

// Route описывает одну запись таблицы маршрутов.
type Route struct {
	Method  string
	Path    string
	Handler http.Handler
	// Compress оборачивает handler в gzip. Нельзя для WebSocket.
	Compress bool
	// Limited включает rate limiter (если он настроен). Пробы не ограничиваются.
	Limited bool
}

// Pattern returns the ServeMux pattern, e.g. "GET /api/hello".
func (r Route) Pattern() string {
	if r.Method == "" {
		return r.Path
	}
	return r.Method + " " + r.Path
}

// Handlers собирает все handlers приложения. Nil поля не регистрируются.
type Handlers struct {
	Static   *handler.StaticHandler
	Greeting *handler.GreetingHandler
	Health   *handler.HealthHandler
	Reload   *handler.ReloadHandler
	Process  *handler.ProcessHandler
}

// RouterOptions управляет необязательными маршрутами и middleware.
type RouterOptions struct {
	ServeAssets bool
	Debug       bool
	RateLimiter *middleware.IPRateLimiter
}

// Router настраивает маршруты приложения
type Router struct {
	mux      *http.ServeMux
	handlers Handlers
	opts     RouterOptions
	metrics  *metrics.Metrics
	logger   *logger.Logger
}

// NewRouter создает новый router
func NewRouter(handlers Handlers, opts RouterOptions, m *metrics.Metrics, logger *logger.Logger) *Router {
	return &Router{
		mux:      http.NewServeMux(),
		handlers: handlers,
		opts:     opts,
		metrics:  m,
		logger:   logger,
	}
}

// Routes возвращает упорядоченную таблицу маршрутов.
func (rt *Router) Routes() []Route {
	h := rt.handlers
	routes := []Route{
		// SPA
		{Method: http.MethodGet, Path: "/{$}", Handler: http.HandlerFunc(h.Static.ServeIndex), Compress: true, Limited: true},

		// API
		{Method: http.MethodGet, Path: "/api/hello", Handler: http.HandlerFunc(h.Greeting.Hello), Compress: true, Limited: true},

		// Пробы и метрики
		{Method: http.MethodGet, Path: "/healthz", Handler: http.HandlerFunc(h.Health.Healthz)},
		{Method: http.MethodGet, Path: "/readyz", Handler: http.HandlerFunc(h.Health.Readyz)},
		{Method: http.MethodGet, Path: "/metrics", Handler: rt.metrics.Handler()},
	}

	if rt.opts.ServeAssets {
		routes = append(routes, Route{
			Method: http.MethodGet, Path: "/{path...}", Handler: http.HandlerFunc(h.Static.ServeAsset), Compress: true, Limited: true,
		})
	}

	if rt.opts.Debug {
		if h.Reload != nil {
			routes = append(routes, Route{Method: http.MethodGet, Path: handler.ReloadPath, Handler: http.HandlerFunc(h.Reload.HandleConnection)})
		}
		if h.Process != nil {
			routes = append(routes, Route{Method: http.MethodGet, Path: "/debug/process", Handler: http.HandlerFunc(h.Process.GetProcessStats)})
		}
	}

	return routes
}

// Setup регистрирует маршруты и применяет middleware
func (rt *Router) Setup() http.Handler {
	for _, route := range rt.Routes() {
		var h http.Handler = route.Handler
		if route.Compress {
			h = middleware.Compression(h)
		}
		if route.Limited && rt.opts.RateLimiter != nil {
			h = middleware.RateLimit(rt.opts.RateLimiter, rt.metrics.RateLimitDropped.Inc)(h)
		}
		rt.mux.Handle(route.Pattern(), h)
		rt.logger.Debug("Route registered", "pattern", route.Pattern())
	}

	// Применяем middleware (последний добавленный выполняется первым)
	var handler http.Handler = rt.mux
	handler = rt.metrics.Middleware(handler)
	handler = middleware.Logger(rt.logger)(handler)
	handler = middleware.RequestID(handler)
	handler = middleware.Recovery(middleware.RecoveryConfig{
		Verbose: rt.opts.Debug,
		OnPanic: rt.metrics.PanicsRecovered.Inc,
	}, rt.logger)(handler)

	return handler
}
