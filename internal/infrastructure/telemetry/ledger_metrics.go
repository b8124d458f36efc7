package telemetry

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/metric"
)

// LedgerMetrics records cash ledger and notification observations
type LedgerMetrics struct {
	sessionsOpened       *Counter
	sessionsClosed       *Counter
	movementsRecorded    *Counter
	movementAmount       *Histogram
	closeDifference      *Histogram
	notificationsDropped *Counter
}

// NewLedgerMetrics creates the ledger instruments on meter
func NewLedgerMetrics(meter metric.Meter) (*LedgerMetrics, error) {
	m := &LedgerMetrics{}
	var err error

	if m.sessionsOpened, err = NewCounter(meter, "cash_sessions_opened_total", "Cash sessions opened", "{session}"); err != nil {
		return nil, err
	}
	if m.sessionsClosed, err = NewCounter(meter, "cash_sessions_closed_total", "Cash sessions closed, by reconciliation outcome", "{session}"); err != nil {
		return nil, err
	}
	if m.movementsRecorded, err = NewCounter(meter, "cash_movements_recorded_total", "Cash movements recorded, by type", "{movement}"); err != nil {
		return nil, err
	}
	if m.movementAmount, err = NewHistogram(meter, HistogramOpts{
		Name:        "cash_movement_amount",
		Description: "Distribution of movement amounts",
		Unit:        "{currency}",
		Boundaries:  AmountBuckets,
	}); err != nil {
		return nil, err
	}
	if m.closeDifference, err = NewHistogram(meter, HistogramOpts{
		Name:        "cash_session_close_difference",
		Description: "Absolute difference between counted and expected balance at close",
		Unit:        "{currency}",
		Boundaries:  DifferenceBuckets,
	}); err != nil {
		return nil, err
	}
	if m.notificationsDropped, err = NewCounter(meter, "change_notifications_dropped_total", "Change notifications dropped because the queue was full", "{notification}"); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *LedgerMetrics) RecordSessionOpened(ctx context.Context, registerID uuid.UUID) {
	m.sessionsOpened.Inc(ctx, AttrRegisterID.String(registerID.String()))
}

// RecordSessionClosed counts the close as balanced, over or short and records
// the absolute difference
func (m *LedgerMetrics) RecordSessionClosed(ctx context.Context, registerID uuid.UUID, difference decimal.Decimal) {
	outcome := "balanced"
	switch difference.Sign() {
	case 1:
		outcome = "over"
	case -1:
		outcome = "short"
	}
	m.sessionsClosed.Inc(ctx, AttrRegisterID.String(registerID.String()), AttrOutcome.String(outcome))
	m.closeDifference.Record(ctx, difference.Abs().InexactFloat64(), AttrOutcome.String(outcome))
}

func (m *LedgerMetrics) RecordMovement(ctx context.Context, movementType string, amount decimal.Decimal) {
	m.movementsRecorded.Inc(ctx, AttrMovementType.String(movementType))
	m.movementAmount.Record(ctx, amount.InexactFloat64(), AttrMovementType.String(movementType))
}

func (m *LedgerMetrics) RecordNotificationDropped(ctx context.Context, entityType string) {
	m.notificationsDropped.Inc(ctx, AttrEntityType.String(entityType))
}
