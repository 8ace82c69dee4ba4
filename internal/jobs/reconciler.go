package jobs

import (
	"context"
	"time"

	"rentora/internal/domain"
	"rentora/internal/pkg/logger"
	"rentora/internal/pkg/metrics"
)

type BookingSource interface {
	ListPendingCreatedBefore(ctx context.Context, cutoff time.Time) ([]domain.Booking, error)
	ListConfirmedCheckedOutBefore(ctx context.Context, now time.Time) ([]domain.Booking, error)
	ListOwnerSelfBlocks(ctx context.Context) ([]domain.Booking, error)
}

type StateMachine interface {
	Expire(ctx context.Context, b *domain.Booking) (bool, error)
	Complete(ctx context.Context, b *domain.Booking) (bool, error)
	NormalizePlaceholder(ctx context.Context, b *domain.Booking) (bool, error)
}

// Reconciler runs the periodic sweeps that move bookings through their
// time-based transitions. A failure on one booking is logged and skipped;
// the sweep carries on with the rest.
type Reconciler struct {
	source         BookingSource
	machine        StateMachine
	approvalWindow time.Duration
	metrics        *metrics.Metrics
	log            logger.Logger
}

func NewReconciler(source BookingSource, machine StateMachine, approvalWindow time.Duration, m *metrics.Metrics, log logger.Logger) *Reconciler {
	return &Reconciler{
		source:         source,
		machine:        machine,
		approvalWindow: approvalWindow,
		metrics:        m,
		log:            log,
	}
}

// SweepExpired moves pending bookings older than the approval window to
// expired. Returns how many bookings were transitioned.
func (r *Reconciler) SweepExpired(ctx context.Context, now time.Time) (int, error) {
	defer r.observe("expiry", now)

	cutoff := now.Add(-r.approvalWindow)
	pending, err := r.source.ListPendingCreatedBefore(ctx, cutoff)
	if err != nil {
		r.countError("expiry")
		return 0, err
	}

	expired := 0
	for i := range pending {
		changed, err := r.machine.Expire(ctx, &pending[i])
		if err != nil {
			r.countError("expiry")
			r.log.Error("expiry sweep: booking skipped", "booking_id", pending[i].ID, "error", err)
			continue
		}
		if changed {
			expired++
		}
	}
	if expired > 0 {
		r.log.Info("expiry sweep finished", "expired", expired, "scanned", len(pending))
	}
	return expired, nil
}

// SweepCompleted moves confirmed bookings whose stay has ended to completed.
func (r *Reconciler) SweepCompleted(ctx context.Context, now time.Time) (int, error) {
	defer r.observe("completion", now)

	ended, err := r.source.ListConfirmedCheckedOutBefore(ctx, now)
	if err != nil {
		r.countError("completion")
		return 0, err
	}

	completed := 0
	for i := range ended {
		changed, err := r.machine.Complete(ctx, &ended[i])
		if err != nil {
			r.countError("completion")
			r.log.Error("completion sweep: booking skipped", "booking_id", ended[i].ID, "error", err)
			continue
		}
		if changed {
			completed++
		}
	}
	if completed > 0 {
		r.log.Info("completion sweep finished", "completed", completed, "scanned", len(ended))
	}
	return completed, nil
}

// SweepPlaceholders rewrites bookings whose requester is the listing owner
// into placeholders so they never surface as ordinary guest bookings.
func (r *Reconciler) SweepPlaceholders(ctx context.Context, now time.Time) (int, error) {
	defer r.observe("placeholder", now)

	selfBlocks, err := r.source.ListOwnerSelfBlocks(ctx)
	if err != nil {
		r.countError("placeholder")
		return 0, err
	}

	normalized := 0
	for i := range selfBlocks {
		changed, err := r.machine.NormalizePlaceholder(ctx, &selfBlocks[i])
		if err != nil {
			r.countError("placeholder")
			r.log.Error("placeholder sweep: booking skipped", "booking_id", selfBlocks[i].ID, "error", err)
			continue
		}
		if changed {
			normalized++
		}
	}
	if normalized > 0 {
		r.log.Info("placeholder sweep finished", "normalized", normalized)
	}
	return normalized, nil
}

// RunExpiry loops the expiry sweep at the given interval until the context
// is cancelled. The other Run helpers behave the same for their sweeps.
func (r *Reconciler) RunExpiry(ctx context.Context, interval time.Duration) {
	r.loop(ctx, interval, "expiry", r.SweepExpired)
}

func (r *Reconciler) RunCompletion(ctx context.Context, interval time.Duration) {
	r.loop(ctx, interval, "completion", r.SweepCompleted)
}

func (r *Reconciler) RunPlaceholders(ctx context.Context, interval time.Duration) {
	r.loop(ctx, interval, "placeholder", r.SweepPlaceholders)
}

func (r *Reconciler) loop(ctx context.Context, interval time.Duration, name string, sweep func(context.Context, time.Time) (int, error)) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	r.log.Info("sweep scheduled", "sweep", name, "interval", interval.String())
	for {
		select {
		case <-ctx.Done():
			r.log.Info("sweep stopped", "sweep", name)
			return
		case now := <-ticker.C:
			if _, err := sweep(ctx, now); err != nil {
				r.log.Error("sweep run failed", "sweep", name, "error", err)
			}
		}
	}
}

func (r *Reconciler) observe(sweep string, start time.Time) {
	if r.metrics != nil {
		r.metrics.SweepDuration.Observe(time.Since(start).Seconds())
	}
}

func (r *Reconciler) countError(sweep string) {
	if r.metrics != nil {
		r.metrics.SweepErrors.WithLabelValues(sweep).Inc()
	}
}
