package bidding

import (
	"context"
	"time"

	model "vehicle-auction/internal/models"
)

// RemainingTime splits the non-negative difference endTime-now into
// whole day/hour/minute/second buckets, floor-divided. The boolean
// reports expiry: true once now has reached or passed endTime, in which
// case the returned buckets are all zero.
func RemainingTime(endTime, now time.Time) (model.TimeLeft, bool) {
	diff := endTime.Sub(now)
	if diff <= 0 {
		return model.TimeLeft{}, true
	}

	total := int(diff / time.Second)
	return model.TimeLeft{
		Days:    total / 86400,
		Hours:   (total / 3600) % 24,
		Minutes: (total / 60) % 60,
		Seconds: total % 60,
	}, false
}

// Countdown emits the remaining time for endTime immediately and then
// once per tick, closing the channel when the target passes or ctx is
// cancelled. It carries no state beyond the target timestamp; any
// number of countdowns may run independently.
func Countdown(ctx context.Context, endTime time.Time, tick time.Duration) <-chan model.TimeLeft {
	out := make(chan model.TimeLeft, 1)

	go func() {
		defer close(out)

		ticker := time.NewTicker(tick)
		defer ticker.Stop()

		for {
			left, expired := RemainingTime(endTime, time.Now())
			select {
			case out <- left:
			case <-ctx.Done():
				return
			}
			if expired {
				return
			}

			select {
			case <-ticker.C:
			case <-ctx.Done():
				return
			}
		}
	}()

	return out
}
