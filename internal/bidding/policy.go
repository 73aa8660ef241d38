package bidding

import (
	"github.com/shopspring/decimal"

	"vehicle-auction/internal/config"
	model "vehicle-auction/internal/models"
)

// IncrementPolicy computes the minimum amount by which a new bid must
// exceed the current bid. An auction's own MinIncrement always wins;
// the configured mode only applies to auctions without one.
type IncrementPolicy struct {
	Mode           string
	FlatIncrement  decimal.Decimal
	ReservePercent decimal.Decimal
}

// PolicyFromConfig builds the process-wide increment policy.
func PolicyFromConfig(cfg config.Config) IncrementPolicy {
	return IncrementPolicy{
		Mode:           cfg.IncrementMode,
		FlatIncrement:  cfg.FlatIncrement,
		ReservePercent: cfg.ReservePercent,
	}
}

// MinIncrementFor resolves the minimum increment for one auction.
// Reserve-percent mode falls back to the flat increment for auctions
// without a reserve price.
func (p IncrementPolicy) MinIncrementFor(auction model.Auction) decimal.Decimal {
	if auction.MinIncrement.IsPositive() {
		return auction.MinIncrement
	}
	if p.Mode == config.IncrementModeReservePercent && auction.HasReserve() {
		return auction.ReservePrice.Mul(p.ReservePercent)
	}
	return p.FlatIncrement
}
