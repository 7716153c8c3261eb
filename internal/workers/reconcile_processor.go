// internal/workers/reconcile_processor.go
package workers

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5"

	"github.com/reusehub/reuse-be/internal/adapters/db"
)

// availabilityDrift is one item whose stored counter disagrees with the
// ledger.
type availabilityDrift struct {
	ItemID   uuid.UUID
	Recorded int
	Computed int
}

// ReconcileProcessor recomputes availability counters against the active
// borrow ledger. The counters are maintained transactionally, so drift
// only appears after operator intervention or a restored backup; every
// correction leaves an audit row behind.
type ReconcileProcessor struct {
	db     *db.Database
	logger *slog.Logger
}

// NewReconcileProcessor creates a new reconcile processor.
func NewReconcileProcessor(database *db.Database, logger *slog.Logger) *ReconcileProcessor {
	return &ReconcileProcessor{
		db:     database,
		logger: logger.With(slog.String("processor", "reconcile")),
	}
}

// ProcessReconcile handles a reconcile:availability task.
func (p *ReconcileProcessor) ProcessReconcile(ctx context.Context, t *asynq.Task) error {
	payload, err := parseTenantPayload(t)
	if err != nil {
		return err
	}

	p.logger.InfoContext(ctx, "reconciling availability",
		slog.String("app_id", payload.AppID))

	drifts, err := p.findDrift(ctx, payload.AppID)
	if err != nil {
		return fmt.Errorf("failed to detect drift: %w", err)
	}

	for _, drift := range drifts {
		if err := p.correct(ctx, payload.AppID, drift); err != nil {
			return fmt.Errorf("failed to correct item %s: %w", drift.ItemID, err)
		}
		p.logger.WarnContext(ctx, "availability drift corrected",
			slog.String("app_id", payload.AppID),
			slog.String("item_id", drift.ItemID.String()),
			slog.Int("recorded", drift.Recorded),
			slog.Int("computed", drift.Computed))
	}

	p.logger.InfoContext(ctx, "reconciliation completed",
		slog.String("app_id", payload.AppID),
		slog.Int("corrections", len(drifts)))

	return nil
}

// findDrift compares each item's stored counter with total minus active
// borrows. The computed value is clamped at zero so an over-borrowed
// ledger cannot push the counter negative.
func (p *ReconcileProcessor) findDrift(ctx context.Context, appID string) ([]availabilityDrift, error) {
	query := `
		SELECT i.id, i.available_quantity,
		       GREATEST(i.total_quantity - COUNT(b.id), 0) AS computed
		FROM items i
		LEFT JOIN borrow_records b
		  ON b.app_id = i.app_id AND b.item_id = i.id AND b.status = 'borrowed'
		WHERE i.app_id = $1
		GROUP BY i.id, i.available_quantity, i.total_quantity
		HAVING i.available_quantity <> GREATEST(i.total_quantity - COUNT(b.id), 0)`

	rows, err := p.db.Query(ctx, query, appID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var drifts []availabilityDrift
	for rows.Next() {
		var d availabilityDrift
		if err := rows.Scan(&d.ItemID, &d.Recorded, &d.Computed); err != nil {
			return nil, err
		}
		drifts = append(drifts, d)
	}
	return drifts, rows.Err()
}

// correct writes the computed counter and the audit row in one
// transaction.
func (p *ReconcileProcessor) correct(ctx context.Context, appID string, drift availabilityDrift) error {
	return p.db.Transaction(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx,
			`UPDATE items SET available_quantity = $1 WHERE app_id = $2 AND id = $3`,
			drift.Computed, appID, drift.ItemID); err != nil {
			return err
		}

		_, err := tx.Exec(ctx,
			`INSERT INTO availability_audits (id, app_id, item_id, recorded_quantity, computed_quantity)
			 VALUES ($1, $2, $3, $4, $5)`,
			uuid.New(), appID, drift.ItemID, drift.Recorded, drift.Computed)
		return err
	})
}
