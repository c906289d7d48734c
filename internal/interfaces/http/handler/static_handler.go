package handler

import (
	"bytes"
	"errors"
	"net/http"

	"github.com/naresh-2026/warehouseProducts/internal/application/port"
	"github.com/naresh-2026/warehouseProducts/pkg/logger"
)

// ReloadPath is where the injected live-reload script connects.
const ReloadPath = "/debug/reload"

const liveReloadScript = `<script>(function(){` +
	`var ws=new WebSocket((location.protocol==="https:"?"wss://":"ws://")+location.host+"` + ReloadPath + `");` +
	`ws.onmessage=function(e){try{if(JSON.parse(e.data).type==="reload"){location.reload();}}catch(_){}};` +
	`})();</script>`

type StaticOptions struct {
	// LiveReload вставляет скрипт перезагрузки в index.html (DEBUG=true).
	LiveReload bool
	// OnReadError вызывается со статусом ответа при ошибке чтения.
	OnReadError func(status int)
}

// StaticHandler отдает собранный SPA бандл из директории статики.
type StaticHandler struct {
	store  port.AssetStore
	opts   StaticOptions
	logger *logger.Logger
}

// NewStaticHandler создает новый handler
func NewStaticHandler(store port.AssetStore, opts StaticOptions, logger *logger.Logger) *StaticHandler {
	return &StaticHandler{
		store:  store,
		opts:   opts,
		logger: logger,
	}
}

// ServeIndex отдает index.html для корневого пути
func (h *StaticHandler) ServeIndex(w http.ResponseWriter, r *http.Request) {
	asset, err := h.store.Read(port.IndexFile)
	if err != nil {
		h.fail(w, r, err, statusForIndexError(err))
		return
	}

	content := asset.Content
	if h.opts.LiveReload {
		content = injectReloadScript(content)
	}

	http.ServeContent(w, r, asset.Name, asset.ModTime, bytes.NewReader(content))
}

// ServeAsset отдает остальные файлы бандла по пути запроса (STATIC_SERVE_ASSETS=true).
// Expects a route pattern with a {path...} wildcard.
func (h *StaticHandler) ServeAsset(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("path")
	if name == "" {
		name = port.IndexFile
	}

	asset, err := h.store.Read(name)
	if err != nil {
		h.fail(w, r, err, statusForAssetError(err))
		return
	}

	http.ServeContent(w, r, asset.Name, asset.ModTime, bytes.NewReader(asset.Content))
}

func (h *StaticHandler) fail(w http.ResponseWriter, r *http.Request, err error, status int) {
	if h.opts.OnReadError != nil {
		h.opts.OnReadError(status)
	}

	if status >= http.StatusInternalServerError {
		h.logger.Error("Failed to read static asset", err, "path", r.URL.Path)
	} else {
		h.logger.Debug("Static asset not found", "path", r.URL.Path, "error", err.Error())
	}

	http.Error(w, http.StatusText(status), status)
}

// statusForIndexError: index.html, который оказался директорией, это ошибка конфигурации.
func statusForIndexError(err error) int {
	if port.IsNotFound(err) {
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

func statusForAssetError(err error) int {
	if port.IsNotFound(err) || errors.Is(err, port.ErrIsDirectory) {
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

func injectReloadScript(content []byte) []byte {
	idx := lastIndexFold(content, []byte("</body>"))
	if idx < 0 {
		out := make([]byte, 0, len(content)+len(liveReloadScript))
		out = append(out, content...)
		return append(out, liveReloadScript...)
	}

	out := make([]byte, 0, len(content)+len(liveReloadScript))
	out = append(out, content[:idx]...)
	out = append(out, liveReloadScript...)
	return append(out, content[idx:]...)
}

func lastIndexFold(s, sep []byte) int {
	for i := len(s) - len(sep); i >= 0; i-- {
		if bytes.EqualFold(s[i:i+len(sep)], sep) {
			return i
		}
	}
	return -1
}
