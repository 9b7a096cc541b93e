package handlers

import (
	"context"
	"net/http"

	catalogsync "github.com/gabeliss/tickX/application/sync"
	"github.com/gabeliss/tickX/pkg/common"
	"go.uber.org/zap"
)

// SyncRunner runs a catalog sync.
type SyncRunner interface {
	Run(ctx context.Context) *catalogsync.Report
}

// SyncHandler triggers catalog syncs over HTTP
type SyncHandler struct {
	runner SyncRunner
	logger *zap.Logger
}

// NewSyncHandler creates a new sync handler
func NewSyncHandler(runner SyncRunner, logger *zap.Logger) *SyncHandler {
	return &SyncHandler{runner: runner, logger: logger}
}

// Trigger handles POST /sync. The run completes even if the client goes away.
func (h *SyncHandler) Trigger(w http.ResponseWriter, r *http.Request) {
	report := h.runner.Run(context.WithoutCancel(r.Context()))

	h.logger.Info("manual sync finished",
		zap.String("run_id", report.RunID),
		zap.Int("events_saved", report.Totals.Events),
	)

	common.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Sync completed",
		"data":    report,
	})
}
