package handler

import (
	"net/http"

	"github.com/naresh-2026/warehouseProducts/internal/application/port"
)

// HealthHandler обслуживает пробы. Доступны без ограничений.
type HealthHandler struct {
	store port.AssetStore
}

func NewHealthHandler(store port.AssetStore) *HealthHandler {
	return &HealthHandler{store: store}
}

func (h *HealthHandler) Healthz(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// Readyz is ready only while index.html can be served.
func (h *HealthHandler) Readyz(w http.ResponseWriter, _ *http.Request) {
	if !h.store.Exists(port.IndexFile) {
		http.Error(w, "not ready", http.StatusServiceUnavailable)
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
