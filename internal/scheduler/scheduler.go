package scheduler

import (
	"context"
	"time"

	model "vehicle-auction/internal/models"
	"vehicle-auction/utils"
)

// Finalizer settles auctions whose end time has passed.
type Finalizer interface {
	FinalizeExpired() ([]model.Settlement, error)
}

// Sweeper drives the time-based auction transitions: on each tick it
// asks the finalizer to settle expired auctions and logs the outcomes.
type Sweeper struct {
	finalizer Finalizer
	interval  time.Duration
}

// NewSweeper creates a sweeper running at the given interval.
func NewSweeper(finalizer Finalizer, interval time.Duration) *Sweeper {
	return &Sweeper{finalizer: finalizer, interval: interval}
}

// Run blocks, sweeping once per interval until ctx is cancelled.
func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.sweep()
		}
	}
}

func (s *Sweeper) sweep() {
	settlements, err := s.finalizer.FinalizeExpired()
	if err != nil {
		utils.Error("sweeper: failed to finalize expired auctions", map[string]any{
			"error": err.Error(),
		})
		return
	}

	for _, st := range settlements {
		fields := map[string]any{
			"auction_id":  st.AuctionID,
			"status":      string(st.Status),
			"final_price": st.FinalPrice.String(),
		}
		if st.WinnerID != "" {
			fields["winner_id"] = st.WinnerID
		}
		utils.Info("sweeper: auction settled", fields)
	}
}
