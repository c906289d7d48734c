package handler

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/gorilla/websocket"
	wsInfra "github.com/naresh-2026/warehouseProducts/internal/infrastructure/notification/websocket"
	"github.com/naresh-2026/warehouseProducts/pkg/logger"
)

const anyOrigin = "*"

// ReloadHandler подключает вкладки браузера к live-reload hub (только DEBUG=true)
type ReloadHandler struct {
	hub      *wsInfra.Hub
	origins  originSet
	upgrader websocket.Upgrader
	logger   *logger.Logger
}

// NewReloadHandler создает handler. Пустой список origins запрещает все подключения,
// "*" разрешает любые.
func NewReloadHandler(hub *wsInfra.Hub, allowedOrigins []string, logger *logger.Logger) *ReloadHandler {
	origins := newOriginSet(allowedOrigins)

	return &ReloadHandler{
		hub:     hub,
		origins: origins,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  512,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return origins.allows(r.Header.Get("Origin"))
			},
		},
		logger: logger,
	}
}

// HandleConnection апгрейдит запрос до WebSocket и передает соединение hub
func (h *ReloadHandler) HandleConnection(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// ответ с ошибкой уже записан upgrader
		h.logger.Warn("Reload upgrade failed",
			"remote_addr", r.RemoteAddr,
			"origin", r.Header.Get("Origin"),
			"error", err.Error(),
		)
		return
	}

	if !wsInfra.NewClient(h.hub, conn, h.logger).Start() {
		h.logger.Debug("Reload hub stopped, connection dropped", "remote_addr", r.RemoteAddr)
	}
}

// originSet хранит origins в виде scheme://host
type originSet map[string]struct{}

func newOriginSet(origins []string) originSet {
	set := make(originSet, len(origins))
	for _, origin := range origins {
		origin = strings.TrimSpace(origin)
		if origin == anyOrigin {
			set[anyOrigin] = struct{}{}
			continue
		}
		if normalized, ok := normalizeOrigin(origin); ok {
			set[normalized] = struct{}{}
		}
	}
	return set
}

func (s originSet) allows(origin string) bool {
	if _, ok := s[anyOrigin]; ok {
		return true
	}
	normalized, ok := normalizeOrigin(origin)
	if !ok {
		return false
	}
	_, ok = s[normalized]
	return ok
}

func normalizeOrigin(origin string) (string, bool) {
	origin = strings.TrimSpace(origin)
	if origin == "" {
		return "", false
	}
	parsed, err := url.Parse(origin)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return "", false
	}
	return strings.ToLower(parsed.Scheme + "://" + parsed.Host), true
}
