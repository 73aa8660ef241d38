package bidding

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"vehicle-auction/internal/auctionerrors"
	"vehicle-auction/internal/ledger"
	model "vehicle-auction/internal/models"
	"vehicle-auction/utils"
)

// Service implements the bid admissibility rules on top of a Ledger.
// It holds no auction state of its own; every decision is made against
// a snapshot read from the ledger, and the ledger's atomic re-check is
// the enforcement mechanism for concurrent bids.
type Service struct {
	ledger ledger.Ledger
	policy IncrementPolicy
	now    func() time.Time

	auto *autoBidBook
}

// NewService creates a new bidding Service instance.
func NewService(l ledger.Ledger, policy IncrementPolicy) *Service {
	return &Service{
		ledger: l,
		policy: policy,
		now:    func() time.Time { return time.Now().UTC() },
		auto:   newAutoBidBook(),
	}
}

// EvaluateBid decides whether a proposed bid is admissible against an
// auction snapshot at the given instant. It is pure: it never mutates
// state and reports every rejection as a typed sentinel error.
func EvaluateBid(auction model.Auction, amount decimal.Decimal, now time.Time, minIncrement decimal.Decimal) error {
	if auction.Status != model.StatusActive {
		return fmt.Errorf("auction %s is %s: %w", auction.AuctionID, auction.Status, auctionerrors.ErrAuctionNotActive)
	}
	if auction.Ended(now) {
		return fmt.Errorf("auction %s closed at %s: %w", auction.AuctionID, auction.EndTime.Format(time.RFC3339), auctionerrors.ErrAuctionEnded)
	}
	if !amount.GreaterThan(auction.CurrentBid) {
		return fmt.Errorf("current bid is %s: %w", auction.CurrentBid, auctionerrors.ErrBidTooLow)
	}
	if minIncrement.IsPositive() && amount.LessThan(auction.CurrentBid.Add(minIncrement)) {
		return fmt.Errorf("minimum admissible bid is %s: %w", auction.CurrentBid.Add(minIncrement), auctionerrors.ErrBelowMinIncrement)
	}
	return nil
}

// PlaceBid validates and records a bid. The returned auction snapshot
// reflects the state after the bid and any auto-bid responses it
// triggered. A wrapped ErrStaleBid means a concurrent bid won the race;
// callers should refresh and retry rather than treat it as input error.
func (s *Service) PlaceBid(auctionID, bidderID string, amount decimal.Decimal) (model.Bid, model.Auction, error) {
	if auctionID == "" || bidderID == "" {
		return model.Bid{}, model.Auction{}, fmt.Errorf("service: %w - missing auctionID or bidderID", auctionerrors.ErrInvalidBid)
	}
	if !amount.IsPositive() {
		return model.Bid{}, model.Auction{}, fmt.Errorf("service: %w - non-positive bid amount", auctionerrors.ErrInvalidBid)
	}

	snapshot, err := s.ledger.Snapshot(auctionID)
	if err != nil {
		return model.Bid{}, model.Auction{}, fmt.Errorf("service: failed to load auction %s: %w", auctionID, err)
	}

	now := s.now()
	if err := EvaluateBid(snapshot, amount, now, s.policy.MinIncrementFor(snapshot)); err != nil {
		return model.Bid{}, model.Auction{}, fmt.Errorf("service: bid rejected for auction %s: %w", auctionID, err)
	}

	bid := model.Bid{
		BidID:     utils.GenerateID(),
		AuctionID: auctionID,
		BidderID:  bidderID,
		Amount:    amount,
		CreatedAt: now,
	}

	updated, err := s.ledger.AppendBid(bid)
	if err != nil {
		return model.Bid{}, model.Auction{}, fmt.Errorf("service: failed to record bid for auction %s by user %s: %w", auctionID, bidderID, err)
	}

	updated = s.applyAutoBids(updated)

	return bid, updated, nil
}

// CreateListing registers a new auction produced by the seller workflow.
// Seller-side input beyond the structural invariants is not validated.
func (s *Service) CreateListing(auction model.Auction) (model.Auction, error) {
	if auction.AuctionID == "" {
		auction.AuctionID = utils.GenerateID()
	}
	created, err := s.ledger.AddAuction(auction)
	if err != nil {
		return model.Auction{}, fmt.Errorf("service: failed to create listing: %w", err)
	}
	return created, nil
}

// GetAuction returns the current snapshot for an auction.
func (s *Service) GetAuction(auctionID string) (model.Auction, error) {
	if auctionID == "" {
		return model.Auction{}, fmt.Errorf("service: %w - empty auction ID", auctionerrors.ErrInvalidBid)
	}
	snapshot, err := s.ledger.Snapshot(auctionID)
	if err != nil {
		return model.Auction{}, fmt.Errorf("service: failed to get auction %s: %w", auctionID, err)
	}
	return snapshot, nil
}

// ListAuctions returns snapshots of all known auctions.
func (s *Service) ListAuctions() []model.Auction {
	return s.ledger.ListAuctions()
}

// GetBidHistory returns an auction's accepted bids, newest first.
func (s *Service) GetBidHistory(auctionID string) ([]model.Bid, error) {
	if auctionID == "" {
		return nil, fmt.Errorf("service: %w - empty auction ID", auctionerrors.ErrInvalidBid)
	}
	bids, err := s.ledger.BidHistory(auctionID)
	if err != nil {
		return nil, fmt.Errorf("service: failed to get bid history for auction %s: %w", auctionID, err)
	}
	return bids, nil
}

// GetHighestBid returns the current winning bid for an auction.
func (s *Service) GetHighestBid(auctionID string) (model.Bid, error) {
	if auctionID == "" {
		return model.Bid{}, fmt.Errorf("service: %w - empty auction ID", auctionerrors.ErrInvalidBid)
	}
	bid, err := s.ledger.HighestBid(auctionID)
	if err != nil {
		return model.Bid{}, fmt.Errorf("service: failed to get highest bid for auction %s: %w", auctionID, err)
	}
	return bid, nil
}

// RemainingTimeFor computes the countdown buckets for an auction. The
// boolean reports expiry. Open-ended auctions have no countdown.
func (s *Service) RemainingTimeFor(auctionID string) (model.TimeLeft, bool, error) {
	snapshot, err := s.GetAuction(auctionID)
	if err != nil {
		return model.TimeLeft{}, false, err
	}
	if snapshot.EndTime.IsZero() {
		return model.TimeLeft{}, false, fmt.Errorf("service: auction %s has no end time: %w", auctionID, auctionerrors.ErrInvalidAuction)
	}
	left, expired := RemainingTime(snapshot.EndTime, s.now())
	return left, expired, nil
}

// SetStatus transitions an auction to sold or cancelled.
func (s *Service) SetStatus(auctionID string, status model.AuctionStatus) (model.Auction, error) {
	if auctionID == "" {
		return model.Auction{}, fmt.Errorf("service: %w - empty auction ID", auctionerrors.ErrInvalidBid)
	}
	updated, err := s.ledger.MarkStatus(auctionID, status)
	if err != nil {
		return model.Auction{}, fmt.Errorf("service: failed to mark auction %s as %s: %w", auctionID, status, err)
	}
	return updated, nil
}

// FinalizeExpired settles every active auction whose end time passed.
func (s *Service) FinalizeExpired() ([]model.Settlement, error) {
	settlements, err := s.ledger.FinalizeExpired(s.now())
	if err != nil {
		return nil, fmt.Errorf("service: failed to finalize expired auctions: %w", err)
	}
	return settlements, nil
}

// UserBids returns every auction the user has placed bids on.
func (s *Service) UserBids(userID string) ([]model.Auction, error) {
	if userID == "" {
		return nil, fmt.Errorf("service: %w - empty user ID", auctionerrors.ErrInvalidBid)
	}
	auctions, err := s.ledger.AuctionsByBidder(userID)
	if err != nil {
		return nil, fmt.Errorf("service: failed to get auctions for user %s: %w", userID, err)
	}
	return auctions, nil
}

// UserWonAuctions returns the sold auctions the user won.
func (s *Service) UserWonAuctions(userID string) ([]model.Auction, error) {
	if userID == "" {
		return nil, fmt.Errorf("service: %w - empty user ID", auctionerrors.ErrInvalidBid)
	}
	won, err := s.ledger.WonAuctions(userID)
	if err != nil {
		return nil, fmt.Errorf("service: failed to get won auctions for user %s: %w", userID, err)
	}
	return won, nil
}
