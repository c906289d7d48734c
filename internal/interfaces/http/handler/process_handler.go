package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/naresh-2026/warehouseProducts/internal/application/port"
	"github.com/naresh-2026/warehouseProducts/pkg/logger"
)

// ProcessHandler отдает диагностику процесса (только DEBUG=true)
type ProcessHandler struct {
	collector port.ProcessCollector
	logger    *logger.Logger
}

// NewProcessHandler создает новый handler
func NewProcessHandler(collector port.ProcessCollector, logger *logger.Logger) *ProcessHandler {
	return &ProcessHandler{
		collector: collector,
		logger:    logger,
	}
}

// GetProcessStats возвращает снимок процесса в JSON
func (h *ProcessHandler) GetProcessStats(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	stats, err := h.collector.Collect(ctx)
	if err != nil {
		h.logger.Error("Failed to collect process stats", err)
		http.Error(w, "Failed to collect process stats", http.StatusInternalServerError)
		return
	}

	WriteJSON(w, http.StatusOK, stats)
}
