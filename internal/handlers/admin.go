// internal/handlers/admin.go
package handlers

import (
	"log/slog"
	"net/http"

	"github.com/reusehub/reuse-be/internal/core/domain"
	"github.com/reusehub/reuse-be/internal/core/ports"
)

// AdminHandler enqueues background maintenance jobs for a tenant.
type AdminHandler struct {
	tasks  ports.TaskEnqueuer
	logger *slog.Logger
}

// NewAdminHandler creates a new admin handler.
func NewAdminHandler(tasks ports.TaskEnqueuer, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{
		tasks:  tasks,
		logger: logger.With(slog.String("handler", "admin")),
	}
}

// Reconcile handles POST /api/v1/admin/reconcile
//
// Queues a job that recomputes availability counters against the active
// ledger and records any drift it finds.
func (h *AdminHandler) Reconcile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	sess := sessionFrom(r)
	if !sess.Resolved() {
		respondDomainError(w, domain.ErrScopeNotReady)
		return
	}

	if err := h.tasks.EnqueueReconcile(ctx, sess.AppID); err != nil {
		h.logger.ErrorContext(ctx, "failed to enqueue reconcile job",
			slog.String("app_id", sess.AppID),
			slog.String("error", err.Error()))
		respondError(w, http.StatusInternalServerError, "Failed to queue reconciliation")
		return
	}

	respondJSON(w, http.StatusAccepted, map[string]interface{}{
		"notice": domain.SuccessNotice("Reconciliation queued."),
	})
}

// ExportLedger handles POST /api/v1/admin/exports
//
// Queues a job that renders the tenant's borrow ledger to a spreadsheet
// and uploads it to object storage.
func (h *AdminHandler) ExportLedger(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	sess := sessionFrom(r)
	if !sess.Resolved() {
		respondDomainError(w, domain.ErrScopeNotReady)
		return
	}

	if err := h.tasks.EnqueueLedgerExport(ctx, sess.AppID); err != nil {
		h.logger.ErrorContext(ctx, "failed to enqueue ledger export job",
			slog.String("app_id", sess.AppID),
			slog.String("error", err.Error()))
		respondError(w, http.StatusInternalServerError, "Failed to queue export")
		return
	}

	respondJSON(w, http.StatusAccepted, map[string]interface{}{
		"notice": domain.SuccessNotice("Ledger export queued."),
	})
}
