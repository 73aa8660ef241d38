package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// AuctionStatus is the lifecycle state of an auction listing.
type AuctionStatus string

const (
	StatusActive    AuctionStatus = "active"
	StatusSold      AuctionStatus = "sold"
	StatusCancelled AuctionStatus = "cancelled"
)

// Valid reports whether s is one of the known lifecycle states.
func (s AuctionStatus) Valid() bool {
	switch s {
	case StatusActive, StatusSold, StatusCancelled:
		return true
	}
	return false
}

// Terminal reports whether no further mutation is allowed in state s.
func (s AuctionStatus) Terminal() bool {
	return s == StatusSold || s == StatusCancelled
}

// Auction represents a vehicle listing with its bidding state.
type Auction struct {
	AuctionID   string        `json:"auction_id"`
	Brand       string        `json:"brand"`
	Model       string        `json:"model"`
	Year        int           `json:"year"`
	Type        string        `json:"type"`
	Color       string        `json:"color"`
	Mileage     int           `json:"mileage"`
	Description string        `json:"description"`
	Images      []string      `json:"images,omitempty"`
	SellerID    string        `json:"seller_id"`
	Status      AuctionStatus `json:"status"`
	CreatedAt   time.Time     `json:"created_at"`

	StartingPrice decimal.Decimal `json:"starting_price"`
	// ReservePrice is the seller's minimum acceptable sale price.
	// A zero value means no reserve was set.
	ReservePrice decimal.Decimal `json:"reserve_price"`
	// MinIncrement overrides the configured increment policy when positive.
	MinIncrement decimal.Decimal `json:"min_increment"`
	// EndTime bounds the auction in time. Zero means open-ended.
	EndTime time.Time `json:"end_time"`

	// CurrentBid is the highest accepted bid amount, or StartingPrice
	// while no bid exists.
	CurrentBid decimal.Decimal `json:"current_bid"`
	BidCount   int             `json:"bid_count"`
}

// HasReserve reports whether the seller set a reserve price.
func (a Auction) HasReserve() bool {
	return a.ReservePrice.IsPositive()
}

// ReserveMet reports whether the current bid satisfies the reserve.
// Auctions without a reserve are always considered met. The reserve is
// only meaningful once a bid exists; callers must check BidCount.
func (a Auction) ReserveMet() bool {
	if !a.HasReserve() {
		return true
	}
	return a.CurrentBid.GreaterThanOrEqual(a.ReservePrice)
}

// Ended reports whether the auction's end time has passed at the given
// instant. Open-ended auctions never end by time.
func (a Auction) Ended(now time.Time) bool {
	return !a.EndTime.IsZero() && !now.Before(a.EndTime)
}

// Bid is an immutable record of an accepted bid.
type Bid struct {
	BidID     string          `json:"bid_id"`
	AuctionID string          `json:"auction_id"`
	BidderID  string          `json:"bidder_id"`
	Amount    decimal.Decimal `json:"amount"`
	CreatedAt time.Time       `json:"created_at"`
}

// Settlement records the outcome of finalizing one expired auction.
type Settlement struct {
	AuctionID  string          `json:"auction_id"`
	Status     AuctionStatus   `json:"status"`
	WinnerID   string          `json:"winner_id,omitempty"`
	FinalPrice decimal.Decimal `json:"final_price"`
}

// TimeLeft holds the remaining auction time split into display buckets.
type TimeLeft struct {
	Days    int `json:"days"`
	Hours   int `json:"hours"`
	Minutes int `json:"minutes"`
	Seconds int `json:"seconds"`
}
